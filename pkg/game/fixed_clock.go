package game

import "github.com/decker502/sforce/pkg/types"

// MaxCatchUpTicks 单帧最多补跑的模拟刻数
// 帧时间过长（拖动窗口、断点调试）时丢弃多余的时间，避免雪崩
const MaxCatchUpTicks = 5

// FixedStepClock 把可变的帧时间换算为整数模拟刻
//
// 计算公式：accumulator += frameDelta × TicksPerSecond，
// 每累积满 1.0 推进一刻，小数部分留到下一帧。
type FixedStepClock struct {
	accumulator float64
	frozen      bool
}

// NewFixedStepClock 创建时钟
func NewFixedStepClock() *FixedStepClock {
	return &FixedStepClock{}
}

// Advance 累加一帧的时间（秒），返回本帧应推进的模拟刻数
func (c *FixedStepClock) Advance(frameDelta float64) int {
	if c.frozen || frameDelta <= 0 {
		return 0
	}

	c.accumulator += frameDelta * types.TicksPerSecond
	ticks := int(c.accumulator)
	c.accumulator -= float64(ticks)

	if ticks > MaxCatchUpTicks {
		ticks = MaxCatchUpTicks
		c.accumulator = 0
	}
	return ticks
}

// Freeze 冻结时钟（暂停），丢弃累积的小数部分
func (c *FixedStepClock) Freeze() {
	c.frozen = true
	c.accumulator = 0
}

// Unfreeze 解除冻结
func (c *FixedStepClock) Unfreeze() {
	c.frozen = false
}

// Frozen 是否冻结
func (c *FixedStepClock) Frozen() bool {
	return c.frozen
}
