package components

import "github.com/decker502/sforce/pkg/types"

// EnemyComponent 敌机
type EnemyComponent struct {
	Archetype  types.Archetype
	ScoreValue int    // 击毁得分
	Occurrence uint64 // 所属波次实例编号

	// NextFireAt 下一次开火的时刻；没有武器的原型忽略
	NextFireAt types.SimTime
}

// PowerupCarrierComponent 标记携带道具的敌机
// 仅在被击毁时掉落，飞出画面不掉落
type PowerupCarrierComponent struct {
	Kind       types.PowerupKind
	Occurrence uint64
}

// BossComponent Boss 实体标记，状态保存在 BossState
type BossComponent struct{}
