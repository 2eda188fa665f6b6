package entities

import (
	"github.com/jakecoffman/cp"

	"github.com/decker502/sforce/pkg/components"
	"github.com/decker502/sforce/pkg/config"
	"github.com/decker502/sforce/pkg/ecs"
	"github.com/decker502/sforce/pkg/systems"
)

// NewPlayerEntity 创建玩家战机
// 出生在画面底部中央，武器为单发、生命与船体满格
func NewPlayerEntity(em *ecs.EntityManager) ecs.EntityID {
	id := em.CreateEntity()

	ecs.AddComponent(em, id, &components.PlayerComponent{})
	ecs.AddComponent(em, id, &components.PositionComponent{
		Pos: cp.Vector{X: config.PlayerStartX, Y: config.PlayerStartY},
	})
	ecs.AddComponent(em, id, &components.CollisionComponent{
		Width:  config.PlayerWidth,
		Height: config.PlayerHeight,
	})
	ecs.AddComponent(em, id, &components.PlayerWeaponComponent{})

	health := systems.NewPlayerHealth()
	ecs.AddComponent(em, id, &health)

	return id
}
