package systems

import (
	"fmt"

	"github.com/jakecoffman/cp"

	"github.com/decker502/sforce/pkg/config"
	"github.com/decker502/sforce/pkg/types"
)

// SpawnCommand 一次敌机生成指令
// 由 SpawnResolver 产生，在实体创建边界被消费一次
type SpawnCommand struct {
	Archetype  types.Archetype
	Position   cp.Vector
	Movement   config.MovementSpec // 已按难度缩放
	Health     int                 // 已按难度缩放
	ScoreValue int
	// Powerup 携带的道具；PowerupUnknown 表示不携带
	Powerup    types.PowerupKind
	Occurrence uint64 // 所属波次实例编号
}

// HasPowerup 是否携带道具
func (c SpawnCommand) HasPowerup() bool {
	return c.Powerup != types.PowerupUnknown
}

// SpawnResolver 将波次配置解析为具体的生成指令
type SpawnResolver struct {
	left, right float64 // 可玩区域横向范围
	spawnY      float64
}

// NewSpawnResolver 创建生成解析器
func NewSpawnResolver() *SpawnResolver {
	return &SpawnResolver{
		left:   config.PlayfieldMargin,
		right:  config.LogicalWidth - config.PlayfieldMargin,
		spawnY: config.SpawnTopY,
	}
}

// Resolve 解析一个波次实例
// 运动速度与血量经过难度属性倍率缩放；振幅、频率、周期、转向速率原样传递
func (r *SpawnResolver) Resolve(wave *config.WaveSpec, profile DifficultyProfile, occurrence uint64) []SpawnCommand {
	movement := scaleMovement(wave.Movement, profile)

	var cmds []SpawnCommand
	switch wave.Pattern.Kind {
	case config.PatternLane:
		lane := wave.Pattern.Lane
		xs := r.LanePositions(lane.Count, lane.Lanes)
		cmds = make([]SpawnCommand, 0, lane.Count)
		for _, x := range xs {
			cmds = append(cmds, r.command(lane.Archetype, cp.Vector{X: x, Y: r.spawnY}, movement, profile, occurrence))
		}
	case config.PatternFixed:
		cmds = make([]SpawnCommand, 0, len(wave.Pattern.Fixed.Entries))
		for _, e := range wave.Pattern.Fixed.Entries {
			cmds = append(cmds, r.command(e.Archetype, cp.Vector{X: e.X, Y: e.Y}, movement, profile, occurrence))
		}
	default:
		panic(fmt.Sprintf("spawn resolver: unknown pattern kind %d", int(wave.Pattern.Kind)))
	}

	// 每个波次实例至多一个道具
	if wave.Powerup != nil {
		idx := wave.Powerup.LaneIndex
		if idx < 0 || idx >= len(cmds) {
			panic(fmt.Sprintf("spawn resolver: powerup index %d out of range for %d spawns", idx, len(cmds)))
		}
		cmds[idx].Powerup = wave.Powerup.Kind
	}
	return cmds
}

func (r *SpawnResolver) command(a types.Archetype, pos cp.Vector, movement config.MovementSpec, profile DifficultyProfile, occurrence uint64) SpawnCommand {
	stats := config.EnemyStatsFor(a)
	return SpawnCommand{
		Archetype:  a,
		Position:   pos,
		Movement:   movement,
		Health:     profile.ScaleHealth(stats.Health),
		ScoreValue: stats.Score,
		Occurrence: occurrence,
	}
}

// LanePositions 计算 count 条车道的中心 x
// 默认在可玩宽度上等分，车道 i 位于 left+(i+0.5)·w/n；
// fractions 非空时按比例放置
func (r *SpawnResolver) LanePositions(count int, fractions []float64) []float64 {
	width := r.right - r.left
	xs := make([]float64, count)
	for i := range xs {
		if len(fractions) == count {
			xs[i] = r.left + fractions[i]*width
		} else {
			xs[i] = r.left + (float64(i)+0.5)*width/float64(count)
		}
	}
	return xs
}

func scaleMovement(spec config.MovementSpec, profile DifficultyProfile) config.MovementSpec {
	spec.Speed = profile.ScaleSpeed(spec.Speed)
	spec.LateralSpeed = profile.ScaleSpeed(spec.LateralSpeed)
	return spec
}
