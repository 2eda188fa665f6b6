package systems

import (
	"testing"

	"github.com/decker502/sforce/pkg/config"
	"github.com/decker502/sforce/pkg/types"
)

func laneWave(count int, archetype types.Archetype, powerup *config.PowerupSpec) *config.WaveSpec {
	return &config.WaveSpec{
		DelaySeconds: 1,
		Pattern: config.PatternSpec{
			Kind: config.PatternLane,
			Lane: &config.LanePattern{Count: count, Archetype: archetype},
		},
		Movement: config.MovementSpec{Kind: archetype, Speed: 100, LateralSpeed: 50, Period: 1, Amplitude: 30, Frequency: 2},
		Powerup:  powerup,
	}
}

// TestResolveLanePowerupIndex 4 车道、lane_index=2：恰好 4 条指令，只有第 3 条携带道具
func TestResolveLanePowerupIndex(t *testing.T) {
	r := NewSpawnResolver()
	profile := NewDifficultyEngine().Profile(types.DifficultyNormal)
	wave := laneWave(4, types.ArchetypeStraight, &config.PowerupSpec{Kind: types.PowerupSpread, LaneIndex: 2})

	cmds := r.Resolve(wave, profile, 7)
	if len(cmds) != 4 {
		t.Fatalf("expected 4 spawn commands, got %d", len(cmds))
	}
	for i, cmd := range cmds {
		if i == 2 {
			if cmd.Powerup != types.PowerupSpread {
				t.Errorf("command 2 should carry spread, got %v", cmd.Powerup)
			}
		} else if cmd.HasPowerup() {
			t.Errorf("command %d should not carry a powerup", i)
		}
		if cmd.Occurrence != 7 {
			t.Errorf("command %d occurrence = %d, want 7", i, cmd.Occurrence)
		}
	}
}

func TestLanePositionsEvenlySpaced(t *testing.T) {
	r := NewSpawnResolver()
	xs := r.LanePositions(4, nil)
	want := []float64{220, 500, 780, 1060}
	for i := range want {
		if !approxEqual(xs[i], want[i]) {
			t.Errorf("lane %d x = %v, want %v", i, xs[i], want[i])
		}
	}

	single := r.LanePositions(1, nil)
	if !approxEqual(single[0], config.LogicalWidth/2) {
		t.Errorf("single lane should be centred, got %v", single[0])
	}

	custom := r.LanePositions(2, []float64{0, 1})
	if !approxEqual(custom[0], config.PlayfieldMargin) || !approxEqual(custom[1], config.LogicalWidth-config.PlayfieldMargin) {
		t.Errorf("fractional lanes = %v", custom)
	}
}

func TestResolveFixedPattern(t *testing.T) {
	r := NewSpawnResolver()
	profile := NewDifficultyEngine().Profile(types.DifficultyNormal)
	wave := &config.WaveSpec{
		Pattern: config.PatternSpec{Kind: config.PatternFixed, Fixed: &config.FixedPattern{Entries: []config.FixedEntry{
			{Archetype: types.ArchetypeTank, X: 440, Y: -60},
			{Archetype: types.ArchetypeChaser, X: 840, Y: -90},
		}}},
		Movement: config.MovementSpec{Kind: types.ArchetypeTank, Speed: 90},
		Powerup:  &config.PowerupSpec{Kind: types.PowerupShield},
	}

	cmds := r.Resolve(wave, profile, 1)
	if len(cmds) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(cmds))
	}
	if cmds[0].Position.X != 440 || cmds[0].Position.Y != -60 {
		t.Errorf("entry 0 position = %v", cmds[0].Position)
	}
	if cmds[1].Archetype != types.ArchetypeChaser {
		t.Errorf("entry 1 archetype = %v", cmds[1].Archetype)
	}
	// 默认第一条携带道具
	if cmds[0].Powerup != types.PowerupShield || cmds[1].HasPowerup() {
		t.Errorf("powerup should attach to the first entry: %v, %v", cmds[0].Powerup, cmds[1].Powerup)
	}
	if cmds[0].Health != config.EnemyStatsFor(types.ArchetypeTank).Health {
		t.Errorf("tank health = %d", cmds[0].Health)
	}
}

// TestResolveScalesStats 速度与血量按属性倍率缩放，其余参数原样传递
func TestResolveScalesStats(t *testing.T) {
	r := NewSpawnResolver()
	hard := NewDifficultyEngine().Profile(types.DifficultyHard)
	wave := laneWave(2, types.ArchetypeZigZag, nil)

	cmd := r.Resolve(wave, hard, 1)[0]
	if !approxEqual(cmd.Movement.Speed, 125) {
		t.Errorf("scaled speed = %v, want 125", cmd.Movement.Speed)
	}
	if !approxEqual(cmd.Movement.LateralSpeed, 62.5) {
		t.Errorf("scaled lateral speed = %v, want 62.5", cmd.Movement.LateralSpeed)
	}
	if cmd.Movement.Period != 1 || cmd.Movement.Amplitude != 30 || cmd.Movement.Frequency != 2 {
		t.Errorf("non-speed parameters must pass through unchanged: %+v", cmd.Movement)
	}
	if cmd.Health != hard.ScaleHealth(config.EnemyStatsFor(types.ArchetypeZigZag).Health) {
		t.Errorf("scaled health = %d", cmd.Health)
	}

	// 原始配置不被修改
	if wave.Movement.Speed != 100 {
		t.Errorf("storyboard must stay immutable, speed now %v", wave.Movement.Speed)
	}
}
