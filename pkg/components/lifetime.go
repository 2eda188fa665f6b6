package components

import "github.com/decker502/sforce/pkg/types"

// LifetimeComponent 管理实体的生命周期
// 用于自动清理存在时间超过上限的实体(如子弹)
type LifetimeComponent struct {
	SpawnedAt types.SimTime // 创建时的模拟时刻
	ExpiresAt types.SimTime // 到达该时刻后过期
	IsExpired bool          // 是否已过期
}
