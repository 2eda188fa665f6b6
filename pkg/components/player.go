package components

import "github.com/decker502/sforce/pkg/types"

// PlayerComponent 玩家实体标记
type PlayerComponent struct{}

// PlayerWeaponComponent 玩家武器状态
type PlayerWeaponComponent struct {
	Tier        types.WeaponTier
	RapidStacks int           // 射速叠层，每层冷却乘以固定系数
	LastShot    types.SimTime // 上一次成功开火的时刻
	HasFired    bool          // 本局是否开过火（首发不受冷却限制）
}

// PlayerHealthComponent 玩家生命状态
type PlayerHealthComponent struct {
	Lives             int           // 剩余生命 0..3
	HullSegments      int           // 船体格数 0..5
	InvulnerableUntil types.SimTime // 在此时刻之前免疫伤害
}
