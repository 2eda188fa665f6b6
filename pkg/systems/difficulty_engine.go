package systems

import (
	"fmt"
	"math"

	"github.com/decker502/sforce/pkg/types"
)

// DifficultyProfile 难度档位对应的倍率
// 在一局开始时确定，整局只读
type DifficultyProfile struct {
	Tier           types.DifficultyTier
	SpawnFactor    float64 // 乘以波次延迟
	StatMultiplier float64 // 乘以敌机速度与血量
	BulletFactor   float64 // 乘以敌方子弹速度
}

// DifficultyEngine 难度引擎
// 纯映射：档位 → 倍率，被波次计时和生成解析使用
type DifficultyEngine struct {
	profiles map[types.DifficultyTier]DifficultyProfile
}

// NewDifficultyEngine 创建新的难度引擎实例
func NewDifficultyEngine() *DifficultyEngine {
	return &DifficultyEngine{
		profiles: map[types.DifficultyTier]DifficultyProfile{
			types.DifficultyEasy:   {Tier: types.DifficultyEasy, SpawnFactor: 1.3, StatMultiplier: 0.8, BulletFactor: 0.85},
			types.DifficultyNormal: {Tier: types.DifficultyNormal, SpawnFactor: 1.0, StatMultiplier: 1.0, BulletFactor: 1.0},
			types.DifficultyHard:   {Tier: types.DifficultyHard, SpawnFactor: 0.8, StatMultiplier: 1.25, BulletFactor: 1.15},
		},
	}
}

// Profile 返回档位的倍率
// 未知档位属于编程错误
func (d *DifficultyEngine) Profile(tier types.DifficultyTier) DifficultyProfile {
	p, ok := d.profiles[tier]
	if !ok {
		panic(fmt.Sprintf("difficulty: unknown tier %d", int(tier)))
	}
	return p
}

// ScaledDelay 波次延迟（秒）乘以生成系数后换算为模拟刻
func (p DifficultyProfile) ScaledDelay(delaySeconds float64) types.SimTime {
	return types.TicksFromSeconds(delaySeconds * p.SpawnFactor)
}

// ScaleSpeed 敌机速度乘以属性倍率
func (p DifficultyProfile) ScaleSpeed(v float64) float64 {
	return v * p.StatMultiplier
}

// ScaleHealth 敌机血量乘以属性倍率，向上取整且至少为 1
func (p DifficultyProfile) ScaleHealth(base int) int {
	h := int(math.Ceil(float64(base)*p.StatMultiplier - 1e-9))
	if h < 1 {
		return 1
	}
	return h
}

// ScaleBulletSpeed 敌方子弹速度乘以子弹倍率
func (p DifficultyProfile) ScaleBulletSpeed(v float64) float64 {
	return v * p.BulletFactor
}
