package config

import "github.com/decker502/sforce/pkg/types"

// 逻辑画面与场地（坐标原点在左上角，y 轴向下）
const (
	LogicalWidth  = 1280.0
	LogicalHeight = 720.0

	// PlayfieldMargin 车道排布时左右两侧留白
	PlayfieldMargin = 80.0
	// SpawnTopY 车道阵型的出生高度（屏幕上方）
	SpawnTopY = -48.0
	// MaxLaneCount 单个车道阵型允许的最大数量
	MaxLaneCount = 12
	// OffscreenMargin 超出画面该距离后实体被清理
	OffscreenMargin = 120.0
)

// 运动参数默认值（故事板省略字段时使用）
const (
	DefaultStraightSpeed  = 160.0
	DefaultSineSpeed      = 130.0
	DefaultSineAmplitude  = 140.0
	DefaultSineFrequency  = 1.4
	DefaultZigZagSpeed    = 150.0
	DefaultZigZagLateral  = 180.0
	DefaultZigZagPeriod   = 1.2
	DefaultTankSpeed      = 90.0
	DefaultChaserSpeed    = 180.0
	DefaultChaserTurnRate = 2.5 // 弧度/秒
)

// Boss 战参数
const (
	// BossScoreThreshold 首次触发 Boss 的分数
	BossScoreThreshold = 2600
	// BossScoreStep 每击败一次 Boss，下一次触发分数的增量
	BossScoreStep = 2600
	// BossMaxHealth 基础血量（乘以难度属性倍率）
	BossMaxHealth = 200
	// BossScoreValue 击败 Boss 奖励分数
	BossScoreValue = 2000
	// BossFinalPhaseThreshold 血量比例降到该值及以下进入 Final 阶段
	BossFinalPhaseThreshold = 0.5

	BossSpawnX          = 640.0
	BossSpawnY          = -120.0
	BossAnchorX         = 640.0
	BossAnchorY         = 180.0
	BossAnchorTolerance = 2.0
	BossEntrySpeed      = 140.0
	BossEntryTimeout    = 4.0
	BossWidth           = 220.0
	BossHeight          = 120.0

	BossSecondFireInterval = 0.95
	BossSecondBulletSpeed  = 260.0
	BossSecondSpreadAngle  = 0.12 // 弧度
	BossSecondSwayFreq     = 0.8
	BossSecondSwayAmp      = 160.0
	BossFinalFireInterval  = 0.7
	BossFinalBulletSpeed   = 230.0
	BossFinalRingCount     = 6
	BossFinalTrackSpeed    = 176.0
	BossFinalRingStep      = 0.25 // 每轮环形弹幕的旋转（弧度）
)

// 玩家生命参数
const (
	MaxLives        = 3
	MaxHullSegments = 5

	// InvulnWindow 损失一条命后的无敌时间（秒）
	InvulnWindow = 2.0
	// HitInvulnWindow 普通受击后的短暂无敌（秒）
	HitInvulnWindow = 1.0
	// ShieldWindow 护盾道具延长的无敌时间（秒）
	ShieldWindow = 3.0
	// DisruptorWindow 干扰器道具的无敌时间（秒）
	DisruptorWindow = 10.0

	PlayerSpeed  = 420.0
	PlayerStartX = 640.0
	PlayerStartY = 640.0
	PlayerWidth  = 40.0
	PlayerHeight = 48.0
)

// 武器参数
const (
	BaseFireCooldown     = 0.25
	RapidCooldownFactor  = 0.85
	MinFireCooldown      = 0.08
	PlayerBulletSpeed    = 720.0
	PlayerBulletLifetime = 1.2
	PlayerBulletWidth    = 8.0
	PlayerBulletHeight   = 20.0
	DoubleShotOffset     = 12.0
	SpreadStepDegrees    = 12.0
	LaserSpeedFactor     = 1.6
	LaserDamage          = 2
	LaserOffset          = 18.0
)

// 道具与敌方子弹
const (
	PickupFallSpeed     = 120.0
	PickupSize          = 36.0
	EnemyBulletLifetime = 3.0
	EnemyBulletWidth    = 12.0
	EnemyBulletHeight   = 28.0
)

// EnemyStats 敌机基础属性
type EnemyStats struct {
	Health int     // 基础血量（乘以难度属性倍率后向上取整）
	Score  int     // 击毁得分
	Width  float64 // 碰撞盒宽
	Height float64 // 碰撞盒高
}

var enemyStats = map[types.Archetype]EnemyStats{
	types.ArchetypeStraight: {Health: 1, Score: 100, Width: 48, Height: 48},
	types.ArchetypeSine:     {Health: 2, Score: 150, Width: 44, Height: 44},
	types.ArchetypeZigZag:   {Health: 2, Score: 200, Width: 40, Height: 40},
	types.ArchetypeTank:     {Health: 6, Score: 350, Width: 64, Height: 72},
	types.ArchetypeChaser:   {Health: 3, Score: 250, Width: 40, Height: 56},
}

// EnemyStatsFor 返回原型的基础属性，未知原型返回直线敌机属性
func EnemyStatsFor(a types.Archetype) EnemyStats {
	if s, ok := enemyStats[a]; ok {
		return s
	}
	return enemyStats[types.ArchetypeStraight]
}

// FirePattern 敌机射击方式
type FirePattern int

const (
	FireNone FirePattern = iota
	FireStraightDown
	FireTargetPlayer
	FireSpread
)

// EnemyWeaponConfig 敌机武器
type EnemyWeaponConfig struct {
	Pattern     FirePattern
	Interval    float64 // 射击间隔（秒）
	BulletSpeed float64
	SpreadCount int
	SpreadArc   float64 // 散射总角度（度）
}

var enemyWeapons = map[types.Archetype]EnemyWeaponConfig{
	types.ArchetypeSine:   {Pattern: FireStraightDown, Interval: 2.0, BulletSpeed: 200},
	types.ArchetypeTank:   {Pattern: FireSpread, Interval: 1.6, BulletSpeed: 220, SpreadCount: 3, SpreadArc: 30},
	types.ArchetypeChaser: {Pattern: FireTargetPlayer, Interval: 1.0, BulletSpeed: 260},
}

// EnemyWeaponFor 返回原型的武器；没有武器时 ok 为 false
func EnemyWeaponFor(a types.Archetype) (EnemyWeaponConfig, bool) {
	w, ok := enemyWeapons[a]
	return w, ok
}
