package game

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decker502/sforce/pkg/components"
	"github.com/decker502/sforce/pkg/config"
	"github.com/decker502/sforce/pkg/ecs"
	"github.com/decker502/sforce/pkg/entities"
	"github.com/decker502/sforce/pkg/systems"
	"github.com/decker502/sforce/pkg/types"
)

const laneBoardYAML = `levels:
  - name: "Outer Belt"
    waves:
      - delay_seconds: 2.0
        pattern:
          lane: { count: 4, archetype: straight }
        movement: { type: straight }
      - delay_seconds: 1.0
        pattern:
          lane: { count: 2, archetype: sine, lanes: [0.1, 0.9] }
        movement: { type: sine }
`

const mixedBoardYAML = `levels:
  - name: "Outer Belt"
    waves:
      - delay_seconds: 0.5
        pattern:
          lane: { count: 4, archetype: straight }
        movement: { type: straight }
        powerup: { kind: spread, lane_index: 1 }
      - delay_seconds: 0.8
        pattern:
          lane: { count: 3, archetype: zig_zag }
        movement: { type: zig_zag }
        powerup: { kind: rapid }
      - delay_seconds: 0.7
        pattern:
          fixed:
            entries:
              - { archetype: tank, x: 400, y: -60 }
              - { archetype: chaser, x: 880, y: -60 }
        movement: { type: chaser }
  - name: "Debris Field"
    waves:
      - delay_seconds: 0.6
        pattern:
          lane: { count: 5, archetype: sine }
        movement: { type: sine, amplitude: 80 }
        powerup: { kind: shield, lane_index: 4 }
`

func newTestSimulation(t *testing.T, yaml string) *Simulation {
	t.Helper()
	board, err := config.ParseStoryboard([]byte(yaml), "test.yaml")
	require.NoError(t, err)
	sim := NewSimulation(board, Options{})
	require.NoError(t, sim.StartRun())
	return sim
}

func tickN(sim *Simulation, n int, in Input) Snapshot {
	for i := 0; i < n; i++ {
		sim.Tick(in)
	}
	return sim.Snapshot()
}

func playerHealth(t *testing.T, sim *Simulation) *components.PlayerHealthComponent {
	t.Helper()
	ph, ok := ecs.GetComponent[*components.PlayerHealthComponent](sim.em, sim.player)
	require.True(t, ok)
	return ph
}

func playerWeapon(t *testing.T, sim *Simulation) *components.PlayerWeaponComponent {
	t.Helper()
	wp, ok := ecs.GetComponent[*components.PlayerWeaponComponent](sim.em, sim.player)
	require.True(t, ok)
	return wp
}

// shootPlayer 在玩家位置放置一发静止的敌方子弹
func shootPlayer(sim *Simulation) {
	entities.NewProjectileEntity(sim.em, systems.ShotCommand{
		Position: sim.playerPosition(),
		Faction:  components.FactionEnemy,
		Damage:   1,
		Lifetime: 60,
	}, sim.now)
}

func TestSimulation_LaneWaveSpawnsAtDelay(t *testing.T) {
	sim := newTestSimulation(t, laneBoardYAML)

	snap := tickN(sim, 119, Input{})
	assert.Equal(t, 0, snap.CountEntities(EntityEnemy), "no spawn before 2.0s")

	snap = tickN(sim, 1, Input{})
	require.Equal(t, types.SimTime(120), snap.Tick)
	require.Equal(t, 4, snap.CountEntities(EntityEnemy))

	var xs []float64
	for _, v := range snap.Entities {
		if v.Kind == EntityEnemy {
			xs = append(xs, v.X)
			assert.Equal(t, types.ArchetypeStraight, v.Archetype)
		}
	}
	assert.InDeltaSlice(t, []float64{220, 500, 780, 1060}, xs, 1e-9)
	assert.Equal(t, 1, snap.WaveIndex)
	assert.Equal(t, "Outer Belt", snap.LevelName)
	assert.True(t, snap.Debug.WaveTriggered)
	assert.Equal(t, types.SimTime(120), snap.Debug.LastWaveAt)

	// 触发标记只保留一刻
	snap = tickN(sim, 1, Input{})
	assert.False(t, snap.Debug.WaveTriggered)
	assert.Equal(t, types.SimTime(120), snap.Debug.LastWaveAt)
}

func TestSimulation_BossSuspendsDirector(t *testing.T) {
	sim := newTestSimulation(t, laneBoardYAML)
	tickN(sim, 130, Input{})
	playerHealth(t, sim).InvulnerableUntil = 1 << 40

	sim.encounter.Score = config.BossScoreThreshold
	snap := tickN(sim, 1, Input{})

	require.NotNil(t, snap.Boss)
	assert.Equal(t, types.BossPhaseEntry, snap.Boss.Phase)
	assert.InDelta(t, 1.0, snap.Boss.HealthFraction, 1e-9)
	assert.True(t, snap.HasSignal(systems.EventBossPhaseChanged))
	assert.Equal(t, 1, snap.CountEntities(EntityBoss))

	spawned := snap.Debug.EnemiesSpawned
	elapsed := snap.Debug.WaveElapsed
	snap = tickN(sim, 600, Input{})

	assert.Equal(t, spawned, snap.Debug.EnemiesSpawned, "director must not spawn during the boss fight")
	assert.Equal(t, elapsed, snap.Debug.WaveElapsed, "wave timer frozen during the boss fight")
	require.NotNil(t, snap.Boss)
	assert.Equal(t, types.BossPhaseSecond, snap.Boss.Phase)
}

func TestSimulation_BossDefeatResumesDirector(t *testing.T) {
	sim := newTestSimulation(t, laneBoardYAML)
	playerHealth(t, sim).InvulnerableUntil = 1 << 40
	sim.encounter.Score = config.BossScoreThreshold

	snap := tickN(sim, 300, Input{})
	require.NotNil(t, snap.Boss)
	require.Equal(t, types.BossPhaseSecond, snap.Boss.Phase)

	sim.boss.Health = 0
	snap = tickN(sim, 1, Input{})
	require.NotNil(t, snap.Boss)
	assert.Equal(t, types.BossPhaseFinal, snap.Boss.Phase)

	snap = tickN(sim, 1, Input{})
	assert.Nil(t, snap.Boss)
	assert.True(t, snap.HasSignal(systems.EventBossDefeated))
	assert.Equal(t, 1, snap.BossesDefeated)
	assert.Equal(t, int64(config.BossScoreThreshold+config.BossScoreValue), snap.Score)
	assert.Equal(t, int64(config.BossScoreThreshold+config.BossScoreStep), sim.encounter.NextBossScore)

	// 导演从当前关卡第一波重新开始
	assert.Equal(t, 0, snap.WaveIndex)
	snap = tickN(sim, 120, Input{})
	assert.Equal(t, 0, snap.CountEntities(EntityBoss))
	assert.Equal(t, 4, snap.CountEntities(EntityEnemy))
}

func TestSimulation_LifeLostAtZeroHull(t *testing.T) {
	sim := newTestSimulation(t, laneBoardYAML)
	tickN(sim, 1, Input{})

	ph := playerHealth(t, sim)
	ph.HullSegments = 1
	wp := playerWeapon(t, sim)
	wp.Tier = types.WeaponSpread3
	wp.RapidStacks = 2

	shootPlayer(sim)
	snap := tickN(sim, 1, Input{})

	assert.True(t, snap.HasSignal(systems.EventLifeLost))
	assert.Equal(t, 2, snap.Lives)
	assert.Equal(t, config.MaxHullSegments, snap.HullSegments)
	assert.True(t, snap.Invulnerable)
	assert.Equal(t, types.WeaponSingle, snap.WeaponTier, "weapon resets on life loss")
	assert.Equal(t, 2, snap.RapidStacks, "rapid stacks survive life loss")

	// 无敌窗口内的受击被忽略
	shootPlayer(sim)
	snap = tickN(sim, 1, Input{})
	assert.Equal(t, config.MaxHullSegments, snap.HullSegments)

	// 窗口结束后正常扣减
	tickN(sim, int(types.TicksFromSeconds(config.InvulnWindow)), Input{})
	shootPlayer(sim)
	snap = tickN(sim, 1, Input{})
	assert.Equal(t, config.MaxHullSegments-1, snap.HullSegments)
}

func TestSimulation_KeepWeaponOption(t *testing.T) {
	board, err := config.ParseStoryboard([]byte(laneBoardYAML), "test.yaml")
	require.NoError(t, err)
	sim := NewSimulation(board, Options{KeepWeaponOnLifeLoss: true})
	require.NoError(t, sim.StartRun())
	tickN(sim, 1, Input{})

	playerHealth(t, sim).HullSegments = 1
	playerWeapon(t, sim).Tier = types.WeaponDualLaser

	shootPlayer(sim)
	snap := tickN(sim, 1, Input{})
	assert.Equal(t, 2, snap.Lives)
	assert.Equal(t, types.WeaponDualLaser, snap.WeaponTier)
}

func TestSimulation_RunEndsAndRestarts(t *testing.T) {
	sim := newTestSimulation(t, laneBoardYAML)
	tickN(sim, 1, Input{})

	ph := playerHealth(t, sim)
	ph.Lives = 1
	ph.HullSegments = 1
	sim.encounter.Score = 900

	shootPlayer(sim)
	snap := tickN(sim, 1, Input{})
	require.Equal(t, RunGameOver, snap.State)
	assert.True(t, snap.HasSignal(systems.EventRunEnded))
	assert.Equal(t, 0, snap.Lives)

	// 结束后不再推进
	frozen := tickN(sim, 10, Input{Fire: true})
	assert.Equal(t, snap.Tick, frozen.Tick)

	require.NoError(t, sim.SelectDifficulty(types.DifficultyHard))
	require.NoError(t, sim.StartRun())
	snap = sim.Snapshot()
	assert.Equal(t, RunPlaying, snap.State)
	assert.Equal(t, int64(0), snap.Score)
	assert.Equal(t, config.MaxLives, snap.Lives)
	assert.Equal(t, types.DifficultyHard, snap.Difficulty)
}

func TestSimulation_PowerupDropsOnlyOnKill(t *testing.T) {
	const carrierBoard = `levels:
  - name: "Drop"
    waves:
      - delay_seconds: 0.1
        pattern:
          lane: { count: 1, archetype: straight, lanes: [%s] }
        movement: { type: straight }
        powerup: { kind: spread }
      - delay_seconds: 60
        pattern:
          lane: { count: 1, archetype: straight, lanes: [0.0] }
        movement: { type: straight }
`

	t.Run("击毁携带者掉落道具", func(t *testing.T) {
		sim := newTestSimulation(t, fmt.Sprintf(carrierBoard, "0.5"))

		var killed, dropped bool
		for i := 0; i < 600; i++ {
			sim.Tick(Input{Fire: true})
			snap := sim.Snapshot()
			killed = killed || snap.HasSignal(systems.EventEnemyKilled)
			dropped = dropped || snap.HasSignal(systems.EventPowerupDrop)
		}
		snap := sim.Snapshot()

		assert.True(t, killed)
		assert.True(t, dropped)
		assert.Equal(t, int64(config.EnemyStatsFor(types.ArchetypeStraight).Score), snap.Score)
		assert.Equal(t, types.WeaponDouble, snap.WeaponTier, "pickup collected by the player")
		assert.Equal(t, 0, snap.Debug.PowerupsInFlight)
		assert.Equal(t, 0, snap.CountEntities(EntityPickup))
	})

	t.Run("携带者飞出画面不掉落", func(t *testing.T) {
		sim := newTestSimulation(t, fmt.Sprintf(carrierBoard, "0.1"))

		var dropped bool
		for i := 0; i < 420; i++ {
			sim.Tick(Input{})
			dropped = dropped || sim.Snapshot().HasSignal(systems.EventPowerupDrop)
		}
		snap := sim.Snapshot()

		assert.False(t, dropped)
		assert.Equal(t, 1, snap.Debug.EnemiesSpawned)
		assert.Equal(t, 0, snap.CountEntities(EntityEnemy))
		assert.Equal(t, 0, snap.CountEntities(EntityPickup))
		assert.Equal(t, 0, snap.Debug.PowerupsInFlight)
		assert.Equal(t, int64(0), snap.Score)
	})
}

func TestSimulation_PauseFreezesEverything(t *testing.T) {
	sim := newTestSimulation(t, mixedBoardYAML)
	tickN(sim, 90, Input{Fire: true, MoveX: 1})

	sim.Tick(Input{TogglePause: true})
	paused := sim.Snapshot()
	require.Equal(t, RunPaused, paused.State)
	assert.True(t, sim.director.IsPaused(), "wave timer paused with the run")

	after := tickN(sim, 200, Input{Fire: true, MoveX: -1, MoveY: -1})
	assert.Equal(t, paused, after, "nothing advances while paused")

	assert.ErrorIs(t, sim.SelectDifficulty(types.DifficultyEasy), ErrRunActive)
	assert.ErrorIs(t, sim.StartRun(), ErrRunActive)

	sim.Tick(Input{TogglePause: true})
	assert.Equal(t, RunPlaying, sim.State())
	assert.False(t, sim.director.IsPaused())
	resumed := tickN(sim, 1, Input{})
	assert.Equal(t, paused.Tick+1, resumed.Tick)
	assert.Equal(t, paused.Debug.WaveElapsed+1, resumed.Debug.WaveElapsed, "wave timer resumes where it stopped")
}

func TestSimulation_PlayerMovementClamped(t *testing.T) {
	sim := newTestSimulation(t, laneBoardYAML)

	tickN(sim, 1, Input{MoveX: 1})
	pos := sim.playerPosition()
	assert.InDelta(t, config.PlayerStartX+config.PlayerSpeed*types.TickDelta, pos.X, 1e-9)

	// 斜向移动不超过最大速度
	before := sim.playerPosition()
	tickN(sim, 1, Input{MoveX: -1, MoveY: -1})
	assert.InDelta(t, config.PlayerSpeed*types.TickDelta, sim.playerPosition().Distance(before), 1e-9)

	tickN(sim, 600, Input{MoveX: 5, MoveY: 5})
	assert.Equal(t, cp.Vector{
		X: config.LogicalWidth - config.PlayerWidth/2,
		Y: config.LogicalHeight - config.PlayerHeight/2,
	}, sim.playerPosition())
}

func TestSimulation_RunStateErrors(t *testing.T) {
	board, err := config.ParseStoryboard([]byte(laneBoardYAML), "test.yaml")
	require.NoError(t, err)
	sim := NewSimulation(board, Options{})

	assert.Equal(t, RunTitle, sim.State())
	assert.ErrorIs(t, sim.ReturnToTitle(), ErrNoRun)
	assert.Error(t, sim.SelectDifficulty(types.DifficultyTier(7)))

	// 标题画面的 Tick 不推进
	sim.Tick(Input{Fire: true})
	assert.Equal(t, types.SimTime(0), sim.Snapshot().Tick)

	require.NoError(t, sim.StartRun())
	assert.ErrorIs(t, sim.StartRun(), ErrRunActive)
	require.NoError(t, sim.ReturnToTitle())
	assert.Equal(t, RunTitle, sim.State())
}

// TestSimulation_ReplayDeterminism 同样的输入序列得到逐刻相同的快照
func TestSimulation_ReplayDeterminism(t *testing.T) {
	board, err := config.ParseStoryboard([]byte(mixedBoardYAML), "test.yaml")
	require.NoError(t, err)

	sim := NewSimulation(board, Options{})
	require.NoError(t, sim.SelectDifficulty(types.DifficultyEasy))
	require.NoError(t, sim.StartRun())
	recorder := NewReplayRecorder(sim)

	script := func(n int) Input {
		in := Input{Fire: n%7 != 0}
		switch (n / 45) % 4 {
		case 0:
			in.MoveX = 1
		case 1:
			in.MoveY = -0.5
		case 2:
			in.MoveX = -1
		case 3:
			in.MoveY = 0.5
		}
		in.TogglePause = n == 400 || n == 460
		return in
	}

	var live []Snapshot
	for n := 0; n < 1500; n++ {
		in := script(n)
		recorder.Record(in)
		sim.Tick(in)
		live = append(live, sim.Snapshot())
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeReplay(&buf, recorder.Replay()))
	decoded, err := DecodeReplay(&buf)
	require.NoError(t, err)
	assert.Less(t, len(decoded.Frames), 1500, "only input changes are stored")
	assert.Equal(t, script(123), decoded.InputAt(123))

	var replayed []Snapshot
	_, err = PlayReplay(board, decoded, Options{}, func(s Snapshot) {
		replayed = append(replayed, s)
	})
	require.NoError(t, err)

	require.Len(t, replayed, len(live))
	for i := range live {
		require.Equal(t, live[i], replayed[i], "snapshot diverged at call %d", i)
	}
	assert.Greater(t, live[len(live)-1].Debug.EnemiesSpawned, 0)
}

func TestReplayFileRoundTrip(t *testing.T) {
	rp := &Replay{
		Version:    replayVersion,
		RunID:      "8a2c4d0e-7b1f-4f3a-9c55-2f7e0b6d1a33",
		Difficulty: types.DifficultyHard,
		Ticks:      10,
		Frames: []ReplayFrame{
			{Tick: 0, Input: Input{Fire: true}},
			{Tick: 4, Input: Input{MoveX: -1}},
		},
	}
	path := t.TempDir() + "/run.replay"
	require.NoError(t, SaveReplay(path, rp))

	loaded, err := LoadReplay(path)
	require.NoError(t, err)
	assert.Equal(t, rp, loaded)

	_, err = LoadReplay(t.TempDir() + "/missing.replay")
	assert.Error(t, err)
}
