package components

import (
	"github.com/decker502/sforce/pkg/ecs"
	"github.com/decker502/sforce/pkg/types"
)

// EncounterState 遭遇战的全局进度
// 由模拟上下文持有并显式传给各系统，不挂在实体上
type EncounterState struct {
	Score           int64 // 单调不减，仅在新开一局时清零
	LevelIndex      int
	WaveIndex       int // 始终是当前关卡波次列表中的有效下标
	CyclesCompleted int // 自上次击败 Boss 以来完整循环波次列表的次数

	BossActive     bool
	BossesDefeated int
	NextBossScore  int64 // 下一次触发 Boss 的分数

	// Occurrences 已触发的波次实例总数，同时作为下一实例的编号来源
	Occurrences uint64
}

// BossState Boss 状态机数据
type BossState struct {
	Active    bool
	Entity    ecs.EntityID
	Phase     types.BossPhase
	Health    int
	MaxHealth int

	PhaseStartedAt types.SimTime
	PatternTimer   types.SimTime // 下一次开火的时刻
	Volleys        int           // 当前阶段已发射的轮数
}
