package systems

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/decker502/sforce/pkg/components"
	"github.com/decker502/sforce/pkg/config"
	"github.com/decker502/sforce/pkg/ecs"
	"github.com/decker502/sforce/pkg/types"
)

// EnemyFireSystem 敌机火力
// 正弦机直线向下射击，重装机三向散射，追踪者瞄准玩家；
// 只有进入画面的敌机才会开火
type EnemyFireSystem struct {
	entityManager *ecs.EntityManager
}

// NewEnemyFireSystem 创建敌机火力系统
func NewEnemyFireSystem(em *ecs.EntityManager) *EnemyFireSystem {
	return &EnemyFireSystem{entityManager: em}
}

// Update 返回本刻敌机发射的子弹
func (s *EnemyFireSystem) Update(now types.SimTime, profile DifficultyProfile, playerPos cp.Vector) []ShotCommand {
	var shots []ShotCommand

	for _, id := range ecs.GetEntitiesWith2[*components.EnemyComponent, *components.PositionComponent](s.entityManager) {
		if s.entityManager.IsPendingDestroy(id) {
			continue
		}
		enemy, _ := ecs.GetComponent[*components.EnemyComponent](s.entityManager, id)
		weapon, ok := config.EnemyWeaponFor(enemy.Archetype)
		if !ok || now < enemy.NextFireAt {
			continue
		}
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		enemy.NextFireAt = now + types.TicksFromSeconds(weapon.Interval)
		if pos.Pos.Y < 0 || pos.Pos.Y > config.LogicalHeight {
			continue
		}
		shots = append(shots, EnemyVolley(weapon, pos.Pos, playerPos, profile)...)
	}
	return shots
}

// EnemyVolley 按武器配置生成一轮子弹
func EnemyVolley(weapon config.EnemyWeaponConfig, origin, playerPos cp.Vector, profile DifficultyProfile) []ShotCommand {
	speed := profile.ScaleBulletSpeed(weapon.BulletSpeed)
	down := math.Pi / 2

	switch weapon.Pattern {
	case config.FireStraightDown:
		return []ShotCommand{enemyShot(origin, down, speed)}
	case config.FireTargetPlayer:
		angle := down
		if d := playerPos.Sub(origin); d.LengthSq() > 1e-6 {
			angle = d.ToAngle()
		}
		return []ShotCommand{enemyShot(origin, angle, speed)}
	case config.FireSpread:
		n := weapon.SpreadCount
		if n < 1 {
			n = 1
		}
		arc := weapon.SpreadArc * math.Pi / 180
		shots := make([]ShotCommand, 0, n)
		for i := 0; i < n; i++ {
			offset := 0.0
			if n > 1 {
				offset = -arc/2 + arc*float64(i)/float64(n-1)
			}
			shots = append(shots, enemyShot(origin, down+offset, speed))
		}
		return shots
	}
	return nil
}
