package systems

import (
	"fmt"
	"log"

	"github.com/decker502/sforce/pkg/components"
	"github.com/decker502/sforce/pkg/config"
	"github.com/decker502/sforce/pkg/ecs"
	"github.com/decker502/sforce/pkg/types"
)

// WaveDirector 波次导演
//
// 职责：
//   - 推进波次计时，延迟到达后解析当前波次并推进下标
//   - 波次列表循环：越界时循环次数 +1，下标回到 0
//   - Boss 战期间冻结（计时不前进，不产生非 Boss 生成指令）
//   - Boss 被击败后推进关卡或重新开始当前关卡
//
// 架构说明：
//   - 计时状态存放在 WaveTimerComponent（挂在计时器实体上）
//   - 关卡/波次/循环下标存放在调用方传入的 EncounterState
//   - 不直接创建敌机，只返回 SpawnCommand，由实体创建边界消费
type WaveDirector struct {
	entityManager *ecs.EntityManager
	storyboard    *config.Storyboard
	encounter     *components.EncounterState
	resolver      *SpawnResolver

	// timerEntityID 计时器组件所在的实体ID
	timerEntityID ecs.EntityID

	// verbose 是否输出详细日志
	verbose bool
}

// NewWaveDirector 创建波次导演
//
// 参数：
//   - em: 实体管理器
//   - storyboard: 已校验的故事板
//   - encounter: 遭遇战状态（由模拟上下文持有）
//   - resolver: 生成解析器
func NewWaveDirector(em *ecs.EntityManager, storyboard *config.Storyboard, encounter *components.EncounterState, resolver *SpawnResolver) *WaveDirector {
	if storyboard == nil || len(storyboard.Levels) == 0 {
		panic("wave director: storyboard has no levels")
	}

	d := &WaveDirector{
		entityManager: em,
		storyboard:    storyboard,
		encounter:     encounter,
		resolver:      resolver,
	}
	d.createTimerEntity()
	return d
}

// createTimerEntity 创建计时器组件实体
func (d *WaveDirector) createTimerEntity() {
	entityID := d.entityManager.CreateEntity()
	d.timerEntityID = entityID
	ecs.AddComponent(d.entityManager, entityID, &components.WaveTimerComponent{})

	log.Printf("[WaveDirector] Created timer entity (ID: %v), levels: %d, waves: %d",
		entityID, len(d.storyboard.Levels), d.storyboard.TotalWaves())
}

// Update 推进一刻
//
// 执行流程：
//  1. 清除上一刻的触发标记；Boss 战中或暂停时直接返回（计时冻结）
//  2. 计时 +1 刻
//  3. 达到缩放后的延迟时：计时清零，解析当前波次，推进下标
//
// 返回本刻产生的生成指令（大多数刻为 nil）
func (d *WaveDirector) Update(now types.SimTime, profile DifficultyProfile) []SpawnCommand {
	timer := d.getTimerComponent()
	if timer == nil {
		return nil
	}

	timer.WaveTriggered = false

	if d.encounter.BossActive || timer.IsPaused {
		return nil
	}

	wave := d.CurrentWave()
	timer.ElapsedTicks++

	if d.verbose {
		log.Printf("[WaveDirector] Level %d wave %d: %d/%d ticks",
			d.encounter.LevelIndex, d.encounter.WaveIndex, timer.ElapsedTicks, profile.ScaledDelay(wave.DelaySeconds))
	}

	if timer.ElapsedTicks < profile.ScaledDelay(wave.DelaySeconds) {
		return nil
	}

	// 触发当前波次
	timer.ElapsedTicks = 0
	timer.WaveTriggered = true
	timer.LastTriggeredAt = now

	d.encounter.Occurrences++
	cmds := d.resolver.Resolve(wave, profile, d.encounter.Occurrences)

	log.Printf("[WaveDirector] Wave %d of level %d triggered at %.2fs: %d spawns (occurrence %d)",
		d.encounter.WaveIndex, d.encounter.LevelIndex, now.Seconds(), len(cmds), d.encounter.Occurrences)

	d.advanceWave()
	return cmds
}

// advanceWave 推进波次下标，越界时循环
func (d *WaveDirector) advanceWave() {
	d.encounter.WaveIndex++
	if d.encounter.WaveIndex >= len(d.currentLevel().Waves) {
		d.encounter.CyclesCompleted++
		d.encounter.WaveIndex = 0
		log.Printf("[WaveDirector] Level %d wave list completed, cycles: %d",
			d.encounter.LevelIndex, d.encounter.CyclesCompleted)
	}
}

// OnBossDefeated Boss 被击败后的关卡推进
//
// 当前关卡至少完整循环过一次：进入下一关（最后一关之后回到第一关）；
// 否则从当前关卡第一波重新开始
func (d *WaveDirector) OnBossDefeated() {
	timer := d.getTimerComponent()

	if d.encounter.CyclesCompleted >= 1 {
		d.encounter.LevelIndex = (d.encounter.LevelIndex + 1) % len(d.storyboard.Levels)
		log.Printf("[WaveDirector] Advancing to level %d (%s)", d.encounter.LevelIndex, d.currentLevel().Name)
	} else {
		log.Printf("[WaveDirector] Restarting level %d wave list", d.encounter.LevelIndex)
	}
	d.encounter.WaveIndex = 0
	d.encounter.CyclesCompleted = 0

	if timer != nil {
		timer.ElapsedTicks = 0
	}
}

// CurrentWave 当前等待触发的波次
// 下标越界属于编程错误
func (d *WaveDirector) CurrentWave() *config.WaveSpec {
	level := d.currentLevel()
	if d.encounter.WaveIndex < 0 || d.encounter.WaveIndex >= len(level.Waves) {
		panic(fmt.Sprintf("wave director: wave index %d out of range for level %d (%d waves)",
			d.encounter.WaveIndex, d.encounter.LevelIndex, len(level.Waves)))
	}
	return &level.Waves[d.encounter.WaveIndex]
}

func (d *WaveDirector) currentLevel() *config.LevelConfig {
	if d.encounter.LevelIndex < 0 || d.encounter.LevelIndex >= len(d.storyboard.Levels) {
		panic(fmt.Sprintf("wave director: level index %d out of range (%d levels)",
			d.encounter.LevelIndex, len(d.storyboard.Levels)))
	}
	return &d.storyboard.Levels[d.encounter.LevelIndex]
}

// Pause 暂停计时器
func (d *WaveDirector) Pause() {
	timer := d.getTimerComponent()
	if timer == nil {
		return
	}
	timer.IsPaused = true
	log.Printf("[WaveDirector] Timer paused at %d ticks", timer.ElapsedTicks)
}

// Resume 恢复计时器
func (d *WaveDirector) Resume() {
	timer := d.getTimerComponent()
	if timer == nil {
		return
	}
	timer.IsPaused = false
	log.Printf("[WaveDirector] Timer resumed at %d ticks", timer.ElapsedTicks)
}

// ElapsedTicks 自上一波以来经过的刻数
func (d *WaveDirector) ElapsedTicks() types.SimTime {
	timer := d.getTimerComponent()
	if timer == nil {
		return 0
	}
	return timer.ElapsedTicks
}

// IsWaveTriggered 本刻是否触发了波次
func (d *WaveDirector) IsWaveTriggered() bool {
	timer := d.getTimerComponent()
	return timer != nil && timer.WaveTriggered
}

// IsPaused 计时器是否处于暂停
func (d *WaveDirector) IsPaused() bool {
	timer := d.getTimerComponent()
	return timer != nil && timer.IsPaused
}

// LastWaveAt 最近一波触发的时刻，尚未触发过时为 0
func (d *WaveDirector) LastWaveAt() types.SimTime {
	timer := d.getTimerComponent()
	if timer == nil {
		return 0
	}
	return timer.LastTriggeredAt
}

// SetVerbose 设置是否输出详细日志
func (d *WaveDirector) SetVerbose(verbose bool) {
	d.verbose = verbose
}

// getTimerComponent 获取计时器组件
func (d *WaveDirector) getTimerComponent() *components.WaveTimerComponent {
	timer, ok := ecs.GetComponent[*components.WaveTimerComponent](d.entityManager, d.timerEntityID)
	if !ok {
		return nil
	}
	return timer
}

