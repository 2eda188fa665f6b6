package systems

import (
	"testing"

	"github.com/jakecoffman/cp"

	"github.com/decker502/sforce/pkg/components"
	"github.com/decker502/sforce/pkg/config"
	"github.com/decker502/sforce/pkg/ecs"
	"github.com/decker502/sforce/pkg/types"
)

// newTestBoss 创建已激活的 Boss（位于出生点）
func newTestBoss(t *testing.T) (*BossEncounter, *components.BossState, *ecs.EntityManager, *MovementSystem) {
	t.Helper()
	em := ecs.NewEntityManager()
	state := &components.BossState{}
	boss := NewBossEncounter(em, state)
	boss.Activate(0, normalProfile())

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.BossComponent{})
	ecs.AddComponent(em, id, &components.PositionComponent{Pos: cp.Vector{X: config.BossSpawnX, Y: config.BossSpawnY}})
	ecs.AddComponent(em, id, &components.VelocityComponent{})
	boss.AttachEntity(id)
	return boss, state, em, NewMovementSystem(em)
}

// runBoss 推进 Boss 与运动系统，返回最后一刻的结果
func runBoss(boss *BossEncounter, movement *MovementSystem, from, to types.SimTime) (BossUpdate, types.SimTime) {
	var last BossUpdate
	tick := from
	for ; tick <= to; tick++ {
		last = boss.Update(tick, normalProfile(), cp.Vector{X: 300, Y: 600})
		movement.Update(tick)
		if last.PhaseChanged {
			return last, tick
		}
	}
	return last, tick
}

func TestBossEncounter_Activate(t *testing.T) {
	boss, state, _, _ := newTestBoss(t)
	if !boss.Active() || state.Phase != types.BossPhaseEntry {
		t.Fatalf("boss should start active in Entry, got %+v", state)
	}
	if state.MaxHealth != config.BossMaxHealth || state.Health != state.MaxHealth {
		t.Errorf("health = %d/%d", state.Health, state.MaxHealth)
	}
	if boss.HealthFraction() != 1 {
		t.Errorf("HealthFraction = %v, want 1", boss.HealthFraction())
	}
}

// TestBossEncounter_EntryReachesAnchor Entry 阶段飞向锚点，抵达后进入 Second
func TestBossEncounter_EntryReachesAnchor(t *testing.T) {
	boss, state, em, movement := newTestBoss(t)

	result, tick := runBoss(boss, movement, 1, 600)
	if !result.PhaseChanged || result.Phase != types.BossPhaseSecond {
		t.Fatalf("expected transition to Second, got %+v", result)
	}

	// 300 像素 / 140 像素每秒 ≈ 2.14 秒，早于 4 秒超时
	if tick.Seconds() > config.BossEntryTimeout {
		t.Errorf("entry should end on arrival, ended at %.2fs", tick.Seconds())
	}
	pos, _ := ecs.GetComponent[*components.PositionComponent](em, state.Entity)
	if pos.Pos.Distance(cp.Vector{X: config.BossAnchorX, Y: config.BossAnchorY}) > config.BossAnchorTolerance {
		t.Errorf("boss not at anchor: %v", pos.Pos)
	}
}

func TestBossEncounter_EntryTimeout(t *testing.T) {
	boss, state, _, _ := newTestBoss(t)
	// 不推进运动：Boss 永远到不了锚点，只能靠超时

	timeout := types.TicksFromSeconds(config.BossEntryTimeout)
	for tick := types.SimTime(1); tick < timeout; tick++ {
		if r := boss.Update(tick, normalProfile(), cp.Vector{}); r.PhaseChanged {
			t.Fatalf("transitioned before timeout at tick %d", tick)
		}
	}
	r := boss.Update(timeout, normalProfile(), cp.Vector{})
	if !r.PhaseChanged || state.Phase != types.BossPhaseSecond {
		t.Errorf("expected timeout transition at tick %d, phase %v", timeout, state.Phase)
	}
}

// TestBossEncounter_SecondToFinalAt45Percent Second 阶段血量 45% 时，下一刻进入 Final
func TestBossEncounter_SecondToFinalAt45Percent(t *testing.T) {
	boss, state, _, movement := newTestBoss(t)
	_, tick := runBoss(boss, movement, 1, 600)
	if state.Phase != types.BossPhaseSecond {
		t.Fatalf("setup: phase %v", state.Phase)
	}

	boss.ApplyDamage(state.MaxHealth * 55 / 100)
	if boss.HealthFraction() != 0.45 {
		t.Fatalf("setup: fraction %v", boss.HealthFraction())
	}

	r := boss.Update(tick+1, normalProfile(), cp.Vector{})
	if !r.PhaseChanged || r.Phase != types.BossPhaseFinal {
		t.Errorf("expected Final on next tick, got %+v", r)
	}
}

// TestBossEncounter_OneTransitionPerTick 血量直接归零也要逐刻推进
func TestBossEncounter_OneTransitionPerTick(t *testing.T) {
	boss, state, _, movement := newTestBoss(t)
	_, tick := runBoss(boss, movement, 1, 600)

	boss.ApplyDamage(10000)
	if state.Health != 0 {
		t.Fatalf("health must clamp at 0, got %d", state.Health)
	}

	r := boss.Update(tick+1, normalProfile(), cp.Vector{})
	if r.Phase != types.BossPhaseFinal || r.Defeated {
		t.Fatalf("first tick should only reach Final, got %+v", r)
	}
	r = boss.Update(tick+2, normalProfile(), cp.Vector{})
	if r.Phase != types.BossPhaseDefeated || !r.Defeated {
		t.Fatalf("second tick should reach Defeated, got %+v", r)
	}

	// Defeated 为终态，信号只发一次
	for i := types.SimTime(3); i < 100; i++ {
		r = boss.Update(tick+i, normalProfile(), cp.Vector{})
		if r.Defeated || r.PhaseChanged || state.Phase != types.BossPhaseDefeated {
			t.Fatalf("defeated must be terminal and signalled once, got %+v", r)
		}
	}

	boss.Deactivate()
	if boss.Active() {
		t.Error("boss should be inactive after Deactivate")
	}
}

// TestBossEncounter_PhasesForwardOnly 全程阶段单调、血量不增
func TestBossEncounter_PhasesForwardOnly(t *testing.T) {
	boss, state, _, movement := newTestBoss(t)

	lastPhase := state.Phase
	lastHealth := state.Health
	for tick := types.SimTime(1); tick < 3000 && state.Phase != types.BossPhaseDefeated; tick++ {
		if tick%20 == 0 {
			boss.ApplyDamage(3)
		}
		boss.ApplyDamage(-5) // 负伤害被忽略
		boss.Update(tick, normalProfile(), cp.Vector{X: 900, Y: 600})
		movement.Update(tick)

		if state.Phase < lastPhase {
			t.Fatalf("phase regressed %v -> %v", lastPhase, state.Phase)
		}
		if state.Health > lastHealth {
			t.Fatalf("health increased %d -> %d", lastHealth, state.Health)
		}
		lastPhase, lastHealth = state.Phase, state.Health
	}
	if state.Phase != types.BossPhaseDefeated {
		t.Errorf("boss should eventually be defeated, phase %v health %d", state.Phase, state.Health)
	}
}

func TestBossEncounter_FirePatterns(t *testing.T) {
	boss, state, _, movement := newTestBoss(t)
	_, tick := runBoss(boss, movement, 1, 600)

	var volley []ShotCommand
	for i := types.SimTime(1); i <= types.TicksFromSeconds(config.BossSecondFireInterval); i++ {
		r := boss.Update(tick+i, normalProfile(), cp.Vector{})
		if len(r.Shots) > 0 {
			volley = r.Shots
		}
	}
	if len(volley) != 3 {
		t.Fatalf("Second phase volley = %d shots, want 3", len(volley))
	}
	for _, s := range volley {
		if s.Faction != components.FactionEnemy {
			t.Error("boss shots must be enemy faction")
		}
		if !approxEqual(s.Velocity.Length(), config.BossSecondBulletSpeed) {
			t.Errorf("shot speed = %v", s.Velocity.Length())
		}
	}

	boss.ApplyDamage(state.MaxHealth)
	tick += 100
	boss.Update(tick, normalProfile(), cp.Vector{}) // → Final（Health 为 0 时 Final 下一刻即击败）
	if state.Phase != types.BossPhaseFinal {
		t.Fatalf("phase = %v", state.Phase)
	}
}

func TestBossEncounter_FinalRing(t *testing.T) {
	boss, state, _, movement := newTestBoss(t)
	_, tick := runBoss(boss, movement, 1, 600)
	boss.ApplyDamage(state.MaxHealth / 2)
	tick++
	boss.Update(tick, normalProfile(), cp.Vector{})
	if state.Phase != types.BossPhaseFinal {
		t.Fatalf("setup: phase %v", state.Phase)
	}

	var volley []ShotCommand
	for i := types.SimTime(1); i <= types.TicksFromSeconds(config.BossFinalFireInterval); i++ {
		if r := boss.Update(tick+i, normalProfile(), cp.Vector{}); len(r.Shots) > 0 {
			volley = r.Shots
		}
	}
	if len(volley) != config.BossFinalRingCount {
		t.Fatalf("Final volley = %d shots, want %d", len(volley), config.BossFinalRingCount)
	}
}

func TestBossEncounter_HardScalesHealth(t *testing.T) {
	em := ecs.NewEntityManager()
	state := &components.BossState{}
	boss := NewBossEncounter(em, state)
	boss.Activate(0, NewDifficultyEngine().Profile(types.DifficultyHard))
	if state.MaxHealth != 250 {
		t.Errorf("hard boss health = %d, want 250", state.MaxHealth)
	}
}
