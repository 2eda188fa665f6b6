package types

// BossPhase Boss 战阶段
// 只能向前推进：Entry → Second → Final → Defeated，Defeated 为终态
type BossPhase int

const (
	BossPhaseEntry BossPhase = iota
	BossPhaseSecond
	BossPhaseFinal
	BossPhaseDefeated
)

var bossPhaseNames = [...]string{"entry", "second", "final", "defeated"}

func (p BossPhase) String() string {
	if p < BossPhaseEntry || p > BossPhaseDefeated {
		return "invalid"
	}
	return bossPhaseNames[p]
}

// Next 返回下一个阶段；Defeated 返回自身
func (p BossPhase) Next() BossPhase {
	if p >= BossPhaseDefeated {
		return BossPhaseDefeated
	}
	return p + 1
}
