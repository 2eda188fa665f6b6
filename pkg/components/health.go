package components

// HealthComponent 存储敌机/Boss 的生命值
// 玩家不使用此组件，玩家生命见 PlayerHealthComponent
type HealthComponent struct {
	CurrentHealth int // 当前生命值
	MaxHealth     int // 最大生命值（已乘难度属性倍率）
}
