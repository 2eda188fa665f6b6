package entities

import (
	"github.com/jakecoffman/cp"

	"github.com/decker502/sforce/pkg/components"
	"github.com/decker502/sforce/pkg/config"
	"github.com/decker502/sforce/pkg/ecs"
)

// NewBossEntity 创建 Boss 实体
// 只携带机体（位置、速度、碰撞盒），阶段与血量保存在 BossState
func NewBossEntity(em *ecs.EntityManager) ecs.EntityID {
	id := em.CreateEntity()

	ecs.AddComponent(em, id, &components.BossComponent{})
	ecs.AddComponent(em, id, &components.PositionComponent{
		Pos: cp.Vector{X: config.BossSpawnX, Y: config.BossSpawnY},
	})
	ecs.AddComponent(em, id, &components.VelocityComponent{})
	ecs.AddComponent(em, id, &components.CollisionComponent{
		Width:  config.BossWidth,
		Height: config.BossHeight,
	})

	return id
}
