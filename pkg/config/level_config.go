package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/decker502/sforce/pkg/types"
)

// Storyboard 故事板：按顺序排列的关卡，加载后在进程生命周期内不可变
type Storyboard struct {
	Levels []LevelConfig
}

// LevelConfig 单个关卡：有序的波次列表
type LevelConfig struct {
	Name  string
	Waves []WaveSpec
}

// WaveSpec 单个波次配置
type WaveSpec struct {
	DelaySeconds float64      // 距上一波触发的延迟（秒），乘以难度的生成系数
	Pattern      PatternSpec  // 生成阵型
	Movement     MovementSpec // 运动方式（默认值已填充）
	Powerup      *PowerupSpec // 可选：携带的道具
}

// PatternKind 阵型类型
type PatternKind int

const (
	PatternLane PatternKind = iota
	PatternFixed
)

func (k PatternKind) String() string {
	if k == PatternFixed {
		return "fixed"
	}
	return "lane"
}

// PatternSpec 阵型（标签联合：根据 Kind 只有一个分支有效）
type PatternSpec struct {
	Kind  PatternKind
	Lane  *LanePattern
	Fixed *FixedPattern
}

// SpawnCount 返回阵型生成的敌机数量
func (p PatternSpec) SpawnCount() int {
	switch p.Kind {
	case PatternLane:
		return p.Lane.Count
	case PatternFixed:
		return len(p.Fixed.Entries)
	}
	return 0
}

// LanePattern 车道阵型：count 架相同敌机等距排开
type LanePattern struct {
	Count     int
	Archetype types.Archetype
	// Lanes 可选：每条车道在可玩宽度上的比例位置 [0,1]，长度必须等于 Count
	Lanes []float64
}

// FixedPattern 固定阵型：逐个指定位置
type FixedPattern struct {
	Entries []FixedEntry
}

// FixedEntry 固定阵型中的单个敌机
type FixedEntry struct {
	Archetype types.Archetype
	X, Y      float64
}

// MovementSpec 运动参数（标签联合：Kind 决定哪些字段有意义）
type MovementSpec struct {
	Kind         types.Archetype
	Speed        float64 // 前进速度（像素/秒）
	Amplitude    float64 // Sine: 横向振幅（像素）
	Frequency    float64 // Sine: 角频率（弧度/秒）
	Period       float64 // ZigZag: 横向翻转周期（秒）
	LateralSpeed float64 // ZigZag: 横向速度（像素/秒）
	TurnRate     float64 // Chaser: 最大转向速率（弧度/秒）
}

// PowerupSpec 波次携带的道具
type PowerupSpec struct {
	Kind types.PowerupKind
	// LaneIndex 车道阵型为车道序号，固定阵型为条目序号；省略时为 0
	LaneIndex int
}

// StoryboardError 故事板加载错误，定位到关卡/波次/字段
// Level、Wave 为 -1 表示错误不属于某个具体关卡或波次
type StoryboardError struct {
	Source    string
	Level     int
	LevelName string
	Wave      int
	Field     string
	Err       error
}

func (e *StoryboardError) Error() string {
	var b strings.Builder
	b.WriteString("storyboard")
	if e.Source != "" {
		fmt.Fprintf(&b, " %s", e.Source)
	}
	if e.Level >= 0 {
		fmt.Fprintf(&b, ": level %d", e.Level)
		if e.LevelName != "" {
			fmt.Fprintf(&b, " (%s)", e.LevelName)
		}
	}
	if e.Wave >= 0 {
		fmt.Fprintf(&b, ", wave %d", e.Wave)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ", field %s", e.Field)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *StoryboardError) Unwrap() error {
	return e.Err
}

var (
	// ErrMissingField 必填字段缺失
	ErrMissingField = errors.New("required field is missing")
	// ErrOutOfRange 数值超出允许范围
	ErrOutOfRange = errors.New("value out of range")
	// ErrFieldNotApplicable 字段不适用于该运动类型
	ErrFieldNotApplicable = errors.New("field does not apply to this movement type")
)

// ---- YAML 文档结构（仅在解析阶段使用）----

type storyboardDocument struct {
	Levels []levelDocument `yaml:"levels"`
}

type levelDocument struct {
	Name  string         `yaml:"name"`
	Waves []waveDocument `yaml:"waves"`
}

type waveDocument struct {
	DelaySeconds *float64          `yaml:"delay_seconds"`
	Pattern      *patternDocument  `yaml:"pattern"`
	Movement     *movementDocument `yaml:"movement"`
	Powerup      *powerupDocument  `yaml:"powerup"`
}

type patternDocument struct {
	Lane  *laneDocument  `yaml:"lane"`
	Fixed *fixedDocument `yaml:"fixed"`
}

type laneDocument struct {
	Count     int       `yaml:"count"`
	Archetype string    `yaml:"archetype"`
	Lanes     []float64 `yaml:"lanes"`
}

type fixedDocument struct {
	Entries []fixedEntryDocument `yaml:"entries"`
}

type fixedEntryDocument struct {
	Archetype string   `yaml:"archetype"`
	X         *float64 `yaml:"x"`
	Y         *float64 `yaml:"y"`
}

type movementDocument struct {
	Type         string   `yaml:"type"`
	Speed        *float64 `yaml:"speed"`
	Amplitude    *float64 `yaml:"amplitude"`
	Frequency    *float64 `yaml:"frequency"`
	Period       *float64 `yaml:"period"`
	LateralSpeed *float64 `yaml:"lateral_speed"`
	TurnRate     *float64 `yaml:"turn_rate"`
}

type powerupDocument struct {
	Kind      string `yaml:"kind"`
	LaneIndex *int   `yaml:"lane_index"`
}

// LoadStoryboard 从 YAML 文件加载故事板
// 任何错误都会导致整体加载失败，不存在部分加载
func LoadStoryboard(path string) (*Storyboard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read storyboard file %s: %w", path, err)
	}
	return ParseStoryboard(data, path)
}

// LoadStoryboardFS 从文件系统（例如嵌入资源）加载故事板
func LoadStoryboardFS(fsys fs.FS, name string) (*Storyboard, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read storyboard %s: %w", name, err)
	}
	return ParseStoryboard(data, name)
}

// ParseStoryboard 解析并校验故事板数据
// source 仅用于错误信息
func ParseStoryboard(data []byte, source string) (*Storyboard, error) {
	var doc storyboardDocument
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("document is empty")
		}
		return nil, &StoryboardError{Source: source, Level: -1, Wave: -1, Err: err}
	}

	board, err := buildStoryboard(&doc)
	if err != nil {
		var sbErr *StoryboardError
		if errors.As(err, &sbErr) {
			sbErr.Source = source
		}
		return nil, err
	}
	return board, nil
}

func buildStoryboard(doc *storyboardDocument) (*Storyboard, error) {
	if len(doc.Levels) == 0 {
		return nil, &StoryboardError{Level: -1, Wave: -1, Field: "levels", Err: ErrMissingField}
	}

	board := &Storyboard{Levels: make([]LevelConfig, 0, len(doc.Levels))}
	for li, ld := range doc.Levels {
		if len(ld.Waves) == 0 {
			return nil, &StoryboardError{Level: li, LevelName: ld.Name, Wave: -1, Field: "waves", Err: ErrMissingField}
		}
		level := LevelConfig{Name: ld.Name, Waves: make([]WaveSpec, 0, len(ld.Waves))}
		for wi := range ld.Waves {
			wave, field, err := buildWave(&ld.Waves[wi])
			if err != nil {
				return nil, &StoryboardError{Level: li, LevelName: ld.Name, Wave: wi, Field: field, Err: err}
			}
			level.Waves = append(level.Waves, wave)
		}
		if level.Name == "" {
			level.Name = fmt.Sprintf("Level %d", li+1)
		}
		board.Levels = append(board.Levels, level)
	}
	return board, nil
}

// buildWave 转换单个波次，出错时返回出错字段路径
func buildWave(wd *waveDocument) (WaveSpec, string, error) {
	var wave WaveSpec

	if wd.DelaySeconds == nil {
		return wave, "delay_seconds", ErrMissingField
	}
	if !finite(*wd.DelaySeconds) || *wd.DelaySeconds < 0 {
		return wave, "delay_seconds", fmt.Errorf("%w: must be >= 0, got %v", ErrOutOfRange, *wd.DelaySeconds)
	}
	wave.DelaySeconds = *wd.DelaySeconds

	if wd.Pattern == nil {
		return wave, "pattern", ErrMissingField
	}
	pattern, field, err := buildPattern(wd.Pattern)
	if err != nil {
		return wave, joinField("pattern", field), err
	}
	wave.Pattern = pattern

	if wd.Movement == nil {
		return wave, "movement", ErrMissingField
	}
	movement, field, err := buildMovement(wd.Movement)
	if err != nil {
		return wave, joinField("movement", field), err
	}
	wave.Movement = movement

	if wd.Powerup != nil {
		kind, err := types.ParsePowerupKind(wd.Powerup.Kind)
		if err != nil {
			return wave, "powerup.kind", err
		}
		spec := &PowerupSpec{Kind: kind}
		if wd.Powerup.LaneIndex != nil {
			spec.LaneIndex = *wd.Powerup.LaneIndex
		}
		if n := pattern.SpawnCount(); spec.LaneIndex < 0 || spec.LaneIndex >= n {
			return wave, "powerup.lane_index", fmt.Errorf("%w: %d not in [0,%d)", ErrOutOfRange, spec.LaneIndex, n)
		}
		wave.Powerup = spec
	}

	return wave, "", nil
}

func buildPattern(pd *patternDocument) (PatternSpec, string, error) {
	switch {
	case pd.Lane != nil && pd.Fixed != nil:
		return PatternSpec{}, "", errors.New("exactly one of lane or fixed must be set")
	case pd.Lane != nil:
		lane := pd.Lane
		if lane.Count < 1 || lane.Count > MaxLaneCount {
			return PatternSpec{}, "lane.count", fmt.Errorf("%w: must be in [1,%d], got %d", ErrOutOfRange, MaxLaneCount, lane.Count)
		}
		archetype, err := types.ParseArchetype(lane.Archetype)
		if err != nil {
			return PatternSpec{}, "lane.archetype", err
		}
		if len(lane.Lanes) > 0 {
			if len(lane.Lanes) != lane.Count {
				return PatternSpec{}, "lane.lanes", fmt.Errorf("expected %d lane positions, got %d", lane.Count, len(lane.Lanes))
			}
			for i, f := range lane.Lanes {
				if !finite(f) || f < 0 || f > 1 {
					return PatternSpec{}, fmt.Sprintf("lane.lanes[%d]", i), fmt.Errorf("%w: must be in [0,1], got %v", ErrOutOfRange, f)
				}
			}
		}
		return PatternSpec{
			Kind: PatternLane,
			Lane: &LanePattern{Count: lane.Count, Archetype: archetype, Lanes: append([]float64(nil), lane.Lanes...)},
		}, "", nil
	case pd.Fixed != nil:
		if len(pd.Fixed.Entries) == 0 {
			return PatternSpec{}, "fixed.entries", ErrMissingField
		}
		fixed := &FixedPattern{Entries: make([]FixedEntry, 0, len(pd.Fixed.Entries))}
		for i, ed := range pd.Fixed.Entries {
			prefix := fmt.Sprintf("fixed.entries[%d].", i)
			archetype, err := types.ParseArchetype(ed.Archetype)
			if err != nil {
				return PatternSpec{}, prefix + "archetype", err
			}
			if ed.X == nil {
				return PatternSpec{}, prefix + "x", ErrMissingField
			}
			if ed.Y == nil {
				return PatternSpec{}, prefix + "y", ErrMissingField
			}
			if !finite(*ed.X) || *ed.X < 0 || *ed.X > LogicalWidth {
				return PatternSpec{}, prefix + "x", fmt.Errorf("%w: must be in [0,%v], got %v", ErrOutOfRange, LogicalWidth, *ed.X)
			}
			if !finite(*ed.Y) {
				return PatternSpec{}, prefix + "y", fmt.Errorf("%w: got %v", ErrOutOfRange, *ed.Y)
			}
			fixed.Entries = append(fixed.Entries, FixedEntry{Archetype: archetype, X: *ed.X, Y: *ed.Y})
		}
		return PatternSpec{Kind: PatternFixed, Fixed: fixed}, "", nil
	}
	return PatternSpec{}, "", errors.New("one of lane or fixed must be set")
}

// movementFields 每种运动类型允许出现的可选字段
var movementFields = map[types.Archetype]map[string]bool{
	types.ArchetypeStraight: {"speed": true},
	types.ArchetypeSine:     {"speed": true, "amplitude": true, "frequency": true},
	types.ArchetypeZigZag:   {"speed": true, "lateral_speed": true, "period": true},
	types.ArchetypeTank:     {"speed": true},
	types.ArchetypeChaser:   {"speed": true, "turn_rate": true},
}

func buildMovement(md *movementDocument) (MovementSpec, string, error) {
	if md.Type == "" {
		return MovementSpec{}, "type", ErrMissingField
	}
	kind, err := types.ParseArchetype(md.Type)
	if err != nil {
		return MovementSpec{}, "type", err
	}

	fields := []struct {
		name string
		val  *float64
		// positive 为 true 时要求 > 0，否则要求 >= 0
		positive bool
	}{
		{"speed", md.Speed, true},
		{"amplitude", md.Amplitude, false},
		{"frequency", md.Frequency, false},
		{"period", md.Period, true},
		{"lateral_speed", md.LateralSpeed, false},
		{"turn_rate", md.TurnRate, true},
	}
	for _, f := range fields {
		if f.val == nil {
			continue
		}
		if !movementFields[kind][f.name] {
			return MovementSpec{}, f.name, fmt.Errorf("%w: %s", ErrFieldNotApplicable, kind)
		}
		v := *f.val
		if !finite(v) || v < 0 || (f.positive && v == 0) {
			return MovementSpec{}, f.name, fmt.Errorf("%w: got %v", ErrOutOfRange, v)
		}
	}

	spec := MovementSpec{Kind: kind}
	applyMovementDefaults(&spec)
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&spec.Speed, md.Speed)
	set(&spec.Amplitude, md.Amplitude)
	set(&spec.Frequency, md.Frequency)
	set(&spec.Period, md.Period)
	set(&spec.LateralSpeed, md.LateralSpeed)
	set(&spec.TurnRate, md.TurnRate)
	return spec, "", nil
}

// applyMovementDefaults 为省略的运动参数填充默认值
func applyMovementDefaults(spec *MovementSpec) {
	switch spec.Kind {
	case types.ArchetypeStraight:
		spec.Speed = DefaultStraightSpeed
	case types.ArchetypeSine:
		spec.Speed = DefaultSineSpeed
		spec.Amplitude = DefaultSineAmplitude
		spec.Frequency = DefaultSineFrequency
	case types.ArchetypeZigZag:
		spec.Speed = DefaultZigZagSpeed
		spec.LateralSpeed = DefaultZigZagLateral
		spec.Period = DefaultZigZagPeriod
	case types.ArchetypeTank:
		spec.Speed = DefaultTankSpeed
	case types.ArchetypeChaser:
		spec.Speed = DefaultChaserSpeed
		spec.TurnRate = DefaultChaserTurnRate
	}
}

func joinField(parent, field string) string {
	if field == "" {
		return parent
	}
	return parent + "." + field
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// TotalWaves 所有关卡的波次总数
func (s *Storyboard) TotalWaves() int {
	n := 0
	for _, level := range s.Levels {
		n += len(level.Waves)
	}
	return n
}
