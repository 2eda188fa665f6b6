package game

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/decker502/sforce/pkg/config"
	"github.com/decker502/sforce/pkg/types"
)

// replayVersion 回放格式版本
const replayVersion = 1

// ReplayFrame 输入变化点：从 Tick 开始使用 Input，直到下一个变化点
type ReplayFrame struct {
	Tick  int64 `msgpack:"t"`
	Input Input `msgpack:"i"`
}

// Replay 一局的输入记录
// 模拟是确定性的，同一故事板下重放输入即可得到完全相同的对局
type Replay struct {
	Version    int                  `msgpack:"v"`
	RunID      string               `msgpack:"id"`
	Difficulty types.DifficultyTier `msgpack:"d"`
	KeepWeapon bool                 `msgpack:"kw"`
	// Ticks 记录的 Tick 调用次数（含暂停中的调用）
	Ticks  int64         `msgpack:"n"`
	Frames []ReplayFrame `msgpack:"f"`
}

// ReplayRecorder 录制输入，只在输入变化时记录一帧
type ReplayRecorder struct {
	replay Replay
	last   Input
}

// NewReplayRecorder 为刚开始的对局创建录制器
func NewReplayRecorder(sim *Simulation) *ReplayRecorder {
	return &ReplayRecorder{
		replay: Replay{
			Version:    replayVersion,
			RunID:      sim.RunID().String(),
			Difficulty: sim.Difficulty(),
			KeepWeapon: sim.opts.KeepWeaponOnLifeLoss,
		},
	}
}

// Record 记录本次 Tick 调用的输入
func (r *ReplayRecorder) Record(in Input) {
	if len(r.replay.Frames) == 0 || in != r.last {
		r.replay.Frames = append(r.replay.Frames, ReplayFrame{Tick: r.replay.Ticks, Input: in})
		r.last = in
	}
	r.replay.Ticks++
}

// Replay 返回录制结果
func (r *ReplayRecorder) Replay() *Replay {
	return &r.replay
}

// InputAt 第 n 次 Tick 调用（从 0 开始）的输入
func (rp *Replay) InputAt(n int64) Input {
	var in Input
	for _, f := range rp.Frames {
		if f.Tick > n {
			break
		}
		in = f.Input
	}
	return in
}

// EncodeReplay 以 msgpack 编码回放
func EncodeReplay(w io.Writer, rp *Replay) error {
	if err := msgpack.NewEncoder(w).Encode(rp); err != nil {
		return fmt.Errorf("failed to encode replay: %w", err)
	}
	return nil
}

// DecodeReplay 解码回放
func DecodeReplay(r io.Reader) (*Replay, error) {
	var rp Replay
	if err := msgpack.NewDecoder(r).Decode(&rp); err != nil {
		return nil, fmt.Errorf("failed to decode replay: %w", err)
	}
	if rp.Version != replayVersion {
		return nil, fmt.Errorf("unsupported replay version %d", rp.Version)
	}
	for i := 1; i < len(rp.Frames); i++ {
		if rp.Frames[i].Tick <= rp.Frames[i-1].Tick {
			return nil, fmt.Errorf("replay frame %d out of order", i)
		}
	}
	return &rp, nil
}

// SaveReplay 保存回放到文件
func SaveReplay(path string, rp *Replay) error {
	var buf bytes.Buffer
	if err := EncodeReplay(&buf, rp); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write replay %s: %w", path, err)
	}
	log.Printf("[Replay] Saved %d frames (%d ticks) to %s", len(rp.Frames), rp.Ticks, path)
	return nil
}

// LoadReplay 从文件读取回放
func LoadReplay(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open replay %s: %w", path, err)
	}
	defer f.Close()
	return DecodeReplay(f)
}

// PlayReplay 在新的模拟上重放，返回重放结束时的模拟
// 回放过程中每刻的快照交给 observe（可为 nil）
func PlayReplay(storyboard *config.Storyboard, rp *Replay, opts Options, observe func(Snapshot)) (*Simulation, error) {
	id, err := uuid.Parse(rp.RunID)
	if err != nil {
		return nil, fmt.Errorf("replay has invalid run id %q: %w", rp.RunID, err)
	}

	opts.KeepWeaponOnLifeLoss = rp.KeepWeapon
	sim := NewSimulation(storyboard, opts)
	if err := sim.SelectDifficulty(rp.Difficulty); err != nil {
		return nil, err
	}
	if err := sim.startRun(id); err != nil {
		return nil, err
	}

	next := 0
	var in Input
	for n := int64(0); n < rp.Ticks; n++ {
		for next < len(rp.Frames) && rp.Frames[next].Tick <= n {
			in = rp.Frames[next].Input
			next++
		}
		sim.Tick(in)
		if observe != nil {
			observe(sim.Snapshot())
		}
	}
	return sim, nil
}
