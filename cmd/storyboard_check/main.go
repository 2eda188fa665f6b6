// storyboard_check 校验故事板文件并打印每个关卡的概要
//
// 用法：
//
//	go run ./cmd/storyboard_check [-v] [data/storyboard.yaml ...]
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/decker502/sforce/pkg/config"
	"github.com/decker502/sforce/pkg/systems"
	"github.com/decker502/sforce/pkg/types"
)

var verbose = flag.Bool("v", false, "逐波打印阵型与运动参数")

func main() {
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		paths = []string{"data/storyboard.yaml"}
	}

	failed := 0
	for _, path := range paths {
		if !check(path) {
			failed++
		}
	}
	if failed > 0 {
		fmt.Printf("❌ %d 个故事板校验失败\n", failed)
		os.Exit(1)
	}
}

func check(path string) bool {
	board, err := config.LoadStoryboard(path)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		return false
	}

	fmt.Printf("✅ %s: %d 个关卡, %d 个波次\n", path, len(board.Levels), board.TotalWaves())

	engine := systems.NewDifficultyEngine()
	for i, level := range board.Levels {
		enemies := 0
		carriers := 0
		seconds := 0.0
		archetypes := map[types.Archetype]int{}
		for _, w := range level.Waves {
			enemies += w.Pattern.SpawnCount()
			seconds += w.DelaySeconds
			if w.Powerup != nil {
				carriers++
			}
			for _, a := range waveArchetypes(w) {
				archetypes[a]++
			}
		}

		fmt.Printf("   关卡 %d %q: %d 波, %d 架敌机, %d 个道具, 节奏 %.1fs", i, level.Name, len(level.Waves), enemies, carriers, seconds)
		for _, tier := range types.AllDifficultyTiers() {
			fmt.Printf("  %v=%.1fs", tier, seconds*engine.Profile(tier).SpawnFactor)
		}
		fmt.Println()
		fmt.Printf("   原型: %s\n", formatArchetypes(archetypes))

		if *verbose {
			for j, w := range level.Waves {
				fmt.Printf("     波次 %d: +%.2fs %v×%d movement=%v speed=%.0f", j, w.DelaySeconds, w.Pattern.Kind, w.Pattern.SpawnCount(), w.Movement.Kind, w.Movement.Speed)
				if w.Powerup != nil {
					fmt.Printf(" powerup=%v@%d", w.Powerup.Kind, w.Powerup.LaneIndex)
				}
				fmt.Println()
			}
		}
	}
	return true
}

func waveArchetypes(w config.WaveSpec) []types.Archetype {
	switch w.Pattern.Kind {
	case config.PatternLane:
		out := make([]types.Archetype, w.Pattern.Lane.Count)
		for i := range out {
			out[i] = w.Pattern.Lane.Archetype
		}
		return out
	case config.PatternFixed:
		out := make([]types.Archetype, 0, len(w.Pattern.Fixed.Entries))
		for _, e := range w.Pattern.Fixed.Entries {
			out = append(out, e.Archetype)
		}
		return out
	}
	return nil
}

func formatArchetypes(counts map[types.Archetype]int) string {
	var parts []string
	for _, a := range []types.Archetype{
		types.ArchetypeStraight, types.ArchetypeSine, types.ArchetypeZigZag,
		types.ArchetypeTank, types.ArchetypeChaser,
	} {
		if n := counts[a]; n > 0 {
			parts = append(parts, fmt.Sprintf("%v×%d", a, n))
		}
	}
	return strings.Join(parts, " ")
}
