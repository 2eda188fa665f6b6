package types

import "math"

// TicksPerSecond 模拟时钟频率（固定步长，与渲染帧率无关）
const TicksPerSecond = 60

// TickDelta 单个 tick 的时长（秒）
const TickDelta = 1.0 / TicksPerSecond

// SimTime 模拟时间，以 tick 计数
//
// 使用整数 tick 而非浮点秒，保证 "elapsed >= delay" 的判定精确且可重放：
// 2.0 秒的延迟恰好在第 120 个 tick 到达。
type SimTime int64

// Seconds 转换为秒
func (t SimTime) Seconds() float64 {
	return float64(t) / TicksPerSecond
}

// TicksFromSeconds 将秒数转换为 tick 数（向上取整）
// 满足 elapsed*TickDelta >= seconds 的最小 tick 数
func TicksFromSeconds(seconds float64) SimTime {
	if seconds <= 0 {
		return 0
	}
	return SimTime(math.Ceil(seconds*TicksPerSecond - 1e-9))
}
