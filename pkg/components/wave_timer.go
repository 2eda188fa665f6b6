package components

import "github.com/decker502/sforce/pkg/types"

// WaveTimerComponent 波次计时器
// 存储 WaveDirector 的计时状态；关卡/波次下标在 EncounterState 中
// 注意：遵循 ECS 原则，组件仅存储数据，不包含方法
//
// 时间单位为模拟刻（60 刻/秒），比较在整数上进行，不存在浮点累积误差
type WaveTimerComponent struct {
	// ElapsedTicks 自上一波触发以来经过的刻数
	// Boss 战期间冻结
	ElapsedTicks types.SimTime

	// IsPaused 是否暂停（对局暂停时设置，与 Boss 冻结独立）
	IsPaused bool

	// WaveTriggered 本刻是否触发了波次
	WaveTriggered bool

	// LastTriggeredAt 最近一波触发的时刻（调试信息显示）
	LastTriggeredAt types.SimTime
}
