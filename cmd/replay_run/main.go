// replay_run 无界面运行模拟
//
// 两种模式：
//
//	# 重放回放文件，打印最终快照
//	go run ./cmd/replay_run -in run.replay [-trace]
//
//	# 自动驾驶：左右扫射若干刻，把回放写入文件
//	go run ./cmd/replay_run -autopilot 3600 -out run.replay [-difficulty hard]
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/decker502/sforce/pkg/config"
	"github.com/decker502/sforce/pkg/game"
	"github.com/decker502/sforce/pkg/types"
)

var (
	storyboardPath = flag.String("storyboard", "data/storyboard.yaml", "故事板文件")
	inPath         = flag.String("in", "", "要重放的回放文件")
	outPath        = flag.String("out", "", "自动驾驶模式下回放的输出文件")
	autopilot      = flag.Int64("autopilot", 0, "自动驾驶的模拟刻数")
	difficulty     = flag.String("difficulty", "normal", "自动驾驶的难度")
	trace          = flag.Bool("trace", false, "打印每刻产生的信号")
	verbose        = flag.Bool("verbose", false, "显示详细调试信息")
)

func main() {
	flag.Parse()

	if !*verbose {
		log.SetOutput(io.Discard)
	}

	board, err := config.LoadStoryboard(*storyboardPath)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	var sim *game.Simulation
	switch {
	case *inPath != "":
		sim, err = replay(board, *inPath)
	case *autopilot > 0:
		sim, err = fly(board, *autopilot, *outPath)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	printSummary(sim.Snapshot())
}

func replay(board *config.Storyboard, path string) (*game.Simulation, error) {
	rp, err := game.LoadReplay(path)
	if err != nil {
		return nil, err
	}
	fmt.Printf("✅ 回放 %s: run %s, %v, %d 刻, %d 帧输入\n", path, rp.RunID, rp.Difficulty, rp.Ticks, len(rp.Frames))

	return game.PlayReplay(board, rp, game.Options{Verbose: *verbose}, observe)
}

// fly 自动驾驶：每 3 秒换一次方向，始终开火
func fly(board *config.Storyboard, ticks int64, out string) (*game.Simulation, error) {
	tier, err := types.ParseDifficultyTier(*difficulty)
	if err != nil {
		return nil, err
	}

	sim := game.NewSimulation(board, game.Options{Verbose: *verbose})
	if err := sim.SelectDifficulty(tier); err != nil {
		return nil, err
	}
	if err := sim.StartRun(); err != nil {
		return nil, err
	}
	recorder := game.NewReplayRecorder(sim)

	const sweepTicks = 3 * types.TicksPerSecond
	for n := int64(0); n < ticks && sim.State() == game.RunPlaying; n++ {
		in := game.Input{MoveX: 1, Fire: true}
		if (n/sweepTicks)%2 == 1 {
			in.MoveX = -1
		}
		recorder.Record(in)
		sim.Tick(in)
		observe(sim.Snapshot())
	}

	if out != "" {
		if err := game.SaveReplay(out, recorder.Replay()); err != nil {
			return nil, err
		}
		fmt.Printf("✅ 回放已写入 %s\n", out)
	}
	return sim, nil
}

func observe(snap game.Snapshot) {
	if !*trace {
		return
	}
	for _, e := range snap.Signals {
		fmt.Printf("   [%6d] %v score=%d\n", snap.Tick, e.Kind, snap.Score)
	}
}

func printSummary(snap game.Snapshot) {
	fmt.Printf("✅ 结束于第 %d 刻 (%.1fs), 状态 %v\n", snap.Tick, snap.Tick.Seconds(), snap.State)
	fmt.Printf("   分数 %d, 关卡 %q 波次 %d, 循环 %d, 击败 Boss %d\n",
		snap.Score, snap.LevelName, snap.WaveIndex, snap.CyclesCompleted, snap.BossesDefeated)
	fmt.Printf("   生命 %d, 船体 %d, 武器 %v, 射速 x%d\n", snap.Lives, snap.HullSegments, snap.WeaponTier, snap.RapidStacks)
	fmt.Printf("   生成 %d, 击毁 %d, 射击 %d, 实体 %d\n",
		snap.Debug.EnemiesSpawned, snap.Debug.EnemiesKilled, snap.Debug.ShotsFired, snap.Debug.Entities)
	if snap.Boss != nil {
		fmt.Printf("   Boss 战进行中: %v, 血量 %.0f%%\n", snap.Boss.Phase, snap.Boss.HealthFraction*100)
	}
}
