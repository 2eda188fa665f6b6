package entities

import (
	"github.com/decker502/sforce/pkg/components"
	"github.com/decker502/sforce/pkg/config"
	"github.com/decker502/sforce/pkg/ecs"
	"github.com/decker502/sforce/pkg/systems"
	"github.com/decker502/sforce/pkg/types"
)

// NewProjectileEntity 按射击指令创建子弹实体
// 子弹匀速飞行，到达寿命或飞出画面后由生命周期系统清理
func NewProjectileEntity(em *ecs.EntityManager, shot systems.ShotCommand, now types.SimTime) ecs.EntityID {
	id := em.CreateEntity()

	ecs.AddComponent(em, id, &components.PositionComponent{Pos: shot.Position})
	ecs.AddComponent(em, id, &components.VelocityComponent{Vel: shot.Velocity})
	ecs.AddComponent(em, id, &components.ProjectileComponent{
		Faction: shot.Faction,
		Damage:  shot.Damage,
		Laser:   shot.Laser,
	})

	// 碰撞盒：玩家子弹细长，敌方子弹略大
	width, height := config.PlayerBulletWidth, config.PlayerBulletHeight
	if shot.Faction == components.FactionEnemy {
		width, height = config.EnemyBulletWidth, config.EnemyBulletHeight
	}
	ecs.AddComponent(em, id, &components.CollisionComponent{
		Width:  width,
		Height: height,
	})

	if shot.Lifetime > 0 {
		ecs.AddComponent(em, id, &components.LifetimeComponent{
			SpawnedAt: now,
			ExpiresAt: now + shot.Lifetime,
		})
	}

	return id
}

// NewProjectiles 批量创建子弹，返回创建的实体
func NewProjectiles(em *ecs.EntityManager, shots []systems.ShotCommand, now types.SimTime) []ecs.EntityID {
	ids := make([]ecs.EntityID, 0, len(shots))
	for _, shot := range shots {
		ids = append(ids, NewProjectileEntity(em, shot, now))
	}
	return ids
}
