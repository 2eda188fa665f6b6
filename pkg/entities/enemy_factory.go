package entities

import (
	"log"

	"github.com/decker502/sforce/pkg/components"
	"github.com/decker502/sforce/pkg/config"
	"github.com/decker502/sforce/pkg/ecs"
	"github.com/decker502/sforce/pkg/systems"
	"github.com/decker502/sforce/pkg/types"
)

// NewEnemyEntity 按生成指令创建敌机
//
// 参数:
//   - em: 实体管理器
//   - cmd: 生成指令（运动参数与血量已按难度缩放）
//   - player: 玩家实体句柄，追踪者以此为目标
//   - now: 当前模拟时刻
//
// 返回:
//   - ecs.EntityID: 敌机实体ID
func NewEnemyEntity(em *ecs.EntityManager, cmd systems.SpawnCommand, player ecs.EntityID, now types.SimTime) ecs.EntityID {
	id := em.CreateEntity()
	stats := config.EnemyStatsFor(cmd.Archetype)

	ecs.AddComponent(em, id, &components.PositionComponent{Pos: cmd.Position})

	motion := &components.MotionComponent{
		Movement:  cmd.Movement,
		SpawnedAt: now,
		BaseX:     cmd.Position.X,
	}
	switch cmd.Movement.Kind {
	case types.ArchetypeZigZag:
		// 先向画面中央折返
		motion.LateralSign = 1
		if cmd.Position.X > config.LogicalWidth/2 {
			motion.LateralSign = -1
		}
	case types.ArchetypeChaser:
		motion.Heading = systems.ChaserInitialHeading
		motion.Target = player
		if pos, ok := ecs.GetComponent[*components.PositionComponent](em, player); ok {
			motion.LastTargetPos = pos.Pos
		}
	}
	ecs.AddComponent(em, id, motion)

	ecs.AddComponent(em, id, &components.HealthComponent{
		CurrentHealth: cmd.Health,
		MaxHealth:     cmd.Health,
	})
	ecs.AddComponent(em, id, &components.CollisionComponent{
		Width:  stats.Width,
		Height: stats.Height,
	})

	enemy := &components.EnemyComponent{
		Archetype:  cmd.Archetype,
		ScoreValue: cmd.ScoreValue,
		Occurrence: cmd.Occurrence,
	}
	if weapon, ok := config.EnemyWeaponFor(cmd.Archetype); ok {
		enemy.NextFireAt = now + types.TicksFromSeconds(weapon.Interval)
	}
	ecs.AddComponent(em, id, enemy)

	if cmd.HasPowerup() {
		ecs.AddComponent(em, id, &components.PowerupCarrierComponent{
			Kind:       cmd.Powerup,
			Occurrence: cmd.Occurrence,
		})
		log.Printf("[EnemyFactory] Enemy %v (%v) carries %v", id, cmd.Archetype, cmd.Powerup)
	}

	return id
}
