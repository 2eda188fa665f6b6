package systems

import (
	"log"

	"github.com/decker502/sforce/pkg/components"
	"github.com/decker502/sforce/pkg/config"
)

// EncounterSystem 遭遇战仲裁
// 每刻检查 Boss 触发条件，决定本刻由 WaveDirector 还是 BossEncounter 驱动
type EncounterSystem struct {
	state    *components.EncounterState
	director *WaveDirector
}

// NewEncounterSystem 创建遭遇战系统并初始化分数阈值
func NewEncounterSystem(state *components.EncounterState, director *WaveDirector) *EncounterSystem {
	if state.NextBossScore == 0 {
		state.NextBossScore = config.BossScoreThreshold
	}
	return &EncounterSystem{state: state, director: director}
}

// CheckBossTrigger 分数达到阈值且 Boss 未激活时激活 Boss
// 返回 true 表示本刻刚刚激活（调用方负责创建 Boss）
func (s *EncounterSystem) CheckBossTrigger() bool {
	if s.state.BossActive {
		return false
	}
	if s.state.Score < s.state.NextBossScore {
		return false
	}

	s.state.BossActive = true
	log.Printf("[EncounterSystem] Boss triggered at score %d (threshold %d), director suspended",
		s.state.Score, s.state.NextBossScore)
	return true
}

// AddScore 累加分数，分数单调不减
func (s *EncounterSystem) AddScore(points int) {
	if points <= 0 {
		return
	}
	s.state.Score += int64(points)
}

// OnBossDefeated Boss 被击败：恢复导演，抬高下一次触发阈值
func (s *EncounterSystem) OnBossDefeated() {
	if !s.state.BossActive {
		panic("encounter: boss defeated while no boss is active")
	}
	s.state.BossActive = false
	s.state.BossesDefeated++
	s.state.NextBossScore += config.BossScoreStep
	s.director.OnBossDefeated()

	log.Printf("[EncounterSystem] Boss defeated (%d total), next boss at %d",
		s.state.BossesDefeated, s.state.NextBossScore)
}

// State 当前遭遇战状态
func (s *EncounterSystem) State() *components.EncounterState {
	return s.state
}
