package systems

import (
	"github.com/decker502/sforce/pkg/components"
	"github.com/decker502/sforce/pkg/config"
	"github.com/decker502/sforce/pkg/ecs"
	"github.com/decker502/sforce/pkg/types"
)

// LifetimeSystem 管理实体的生命周期
// 清理过期的子弹以及飞出画面的敌机、子弹和道具
type LifetimeSystem struct {
	entityManager *ecs.EntityManager
	// onRemoved 敌机离开画面时回调（用于道具调度作废携带者）
	onRemoved func(ecs.EntityID)
}

// NewLifetimeSystem 创建一个新的生命周期系统
func NewLifetimeSystem(em *ecs.EntityManager, onRemoved func(ecs.EntityID)) *LifetimeSystem {
	return &LifetimeSystem{
		entityManager: em,
		onRemoved:     onRemoved,
	}
}

// Update 标记过期与出界实体待删除，返回本刻标记的数量
func (s *LifetimeSystem) Update(now types.SimTime) int {
	removed := 0

	for _, id := range ecs.GetEntitiesWith1[*components.LifetimeComponent](s.entityManager) {
		lifetime, _ := ecs.GetComponent[*components.LifetimeComponent](s.entityManager, id)
		if now >= lifetime.ExpiresAt {
			lifetime.IsExpired = true
		}
		if lifetime.IsExpired && !s.entityManager.IsPendingDestroy(id) {
			s.entityManager.DestroyEntity(id)
			removed++
		}
	}

	// 敌机从画面下方或两侧离开；出生在画面上方的敌机不受上边界限制
	for _, id := range ecs.GetEntitiesWith2[*components.EnemyComponent, *components.PositionComponent](s.entityManager) {
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		if s.entityManager.IsPendingDestroy(id) || !belowOrBeside(pos) {
			continue
		}
		s.entityManager.DestroyEntity(id)
		if s.onRemoved != nil {
			s.onRemoved(id)
		}
		removed++
	}

	// 子弹与道具离开任意边界
	for _, id := range ecs.GetEntitiesWith2[*components.VelocityComponent, *components.PositionComponent](s.entityManager) {
		if ecs.HasComponent[*components.BossComponent](s.entityManager, id) || s.entityManager.IsPendingDestroy(id) {
			continue
		}
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		if belowOrBeside(pos) || pos.Pos.Y < -config.OffscreenMargin {
			s.entityManager.DestroyEntity(id)
			removed++
		}
	}
	return removed
}

func belowOrBeside(pos *components.PositionComponent) bool {
	return pos.Pos.Y > config.LogicalHeight+config.OffscreenMargin ||
		pos.Pos.X < -config.OffscreenMargin ||
		pos.Pos.X > config.LogicalWidth+config.OffscreenMargin
}
