package systems

import (
	"fmt"
	"log"
	"math"

	"github.com/jakecoffman/cp"

	"github.com/decker502/sforce/pkg/components"
	"github.com/decker502/sforce/pkg/config"
	"github.com/decker502/sforce/pkg/ecs"
	"github.com/decker502/sforce/pkg/types"
)

// BossUpdate 一刻 Boss 更新的结果
type BossUpdate struct {
	Shots        []ShotCommand
	PhaseChanged bool
	Phase        types.BossPhase
	// Defeated 本刻进入 Defeated，每场 Boss 战只会出现一次
	Defeated bool
}

// BossEncounter Boss 三阶段状态机
//
// 阶段只能向前推进：Entry → Second → Final → Defeated，每刻至多推进一次。
//   - Entry: 飞向竞技场锚点，抵达或超时后进入 Second
//   - Second: 左右摇摆，发射三向散弹，血量比例降到阈值及以下进入 Final
//   - Final: 跟随玩家横向移动，发射六向环形弹幕，血量归零进入 Defeated
//
// 血量只由外部通过 ApplyDamage 扣减，本系统不会回复血量。
type BossEncounter struct {
	entityManager *ecs.EntityManager
	state         *components.BossState

	anchor cp.Vector
}

// NewBossEncounter 创建 Boss 状态机
func NewBossEncounter(em *ecs.EntityManager, state *components.BossState) *BossEncounter {
	return &BossEncounter{
		entityManager: em,
		state:         state,
		anchor:        cp.Vector{X: config.BossAnchorX, Y: config.BossAnchorY},
	}
}

// Activate 开始一场 Boss 战
// 最大血量按难度属性倍率缩放；Boss 实体由调用方创建后通过 AttachEntity 绑定
func (b *BossEncounter) Activate(now types.SimTime, profile DifficultyProfile) {
	if b.state.Active {
		panic("boss encounter: activated twice")
	}
	maxHealth := profile.ScaleHealth(config.BossMaxHealth)
	*b.state = components.BossState{
		Active:         true,
		Phase:          types.BossPhaseEntry,
		Health:         maxHealth,
		MaxHealth:      maxHealth,
		PhaseStartedAt: now,
	}
	log.Printf("[BossEncounter] Boss activated at %.2fs, health %d", now.Seconds(), maxHealth)
}

// AttachEntity 绑定 Boss 实体
func (b *BossEncounter) AttachEntity(id ecs.EntityID) {
	b.state.Entity = id
}

// Deactivate Boss 实体移除后清理状态
func (b *BossEncounter) Deactivate() {
	if b.state.Active && b.state.Phase != types.BossPhaseDefeated {
		panic(fmt.Sprintf("boss encounter: deactivated in phase %v", b.state.Phase))
	}
	b.state.Active = false
	b.state.Entity = 0
}

// ApplyDamage 扣减血量（最低为 0）
// Defeated 之后的伤害被忽略
func (b *BossEncounter) ApplyDamage(n int) {
	if !b.state.Active || b.state.Phase == types.BossPhaseDefeated || n <= 0 {
		return
	}
	b.state.Health -= n
	if b.state.Health < 0 {
		b.state.Health = 0
	}
}

// HealthFraction 当前血量比例 [0,1]
func (b *BossEncounter) HealthFraction() float64 {
	if b.state.MaxHealth <= 0 {
		return 0
	}
	return float64(b.state.Health) / float64(b.state.MaxHealth)
}

// Active Boss 战是否进行中
func (b *BossEncounter) Active() bool {
	return b.state.Active
}

// Phase 当前阶段
func (b *BossEncounter) Phase() types.BossPhase {
	return b.state.Phase
}

// Update 推进一刻
// playerPos 用于 Final 阶段的横向跟随
func (b *BossEncounter) Update(now types.SimTime, profile DifficultyProfile, playerPos cp.Vector) BossUpdate {
	result := BossUpdate{Phase: b.state.Phase}
	if !b.state.Active || b.state.Phase == types.BossPhaseDefeated {
		return result
	}

	pos, vel := b.body()
	dt := types.TickDelta

	switch b.state.Phase {
	case types.BossPhaseEntry:
		arrived := pos.Pos.Distance(b.anchor) <= config.BossAnchorTolerance
		timedOut := now-b.state.PhaseStartedAt >= types.TicksFromSeconds(config.BossEntryTimeout)
		if arrived || timedOut {
			vel.Vel = cp.Vector{}
			b.transition(types.BossPhaseSecond, now, &result)
			return result
		}
		toward := b.anchor.Sub(pos.Pos)
		step := math.Min(config.BossEntrySpeed, toward.Length()/dt)
		vel.Vel = toward.Normalize().Mult(step)

	case types.BossPhaseSecond:
		if b.HealthFraction() <= config.BossFinalPhaseThreshold {
			vel.Vel = cp.Vector{}
			b.transition(types.BossPhaseFinal, now, &result)
			return result
		}
		t := (now - b.state.PhaseStartedAt).Seconds()
		targetX := b.anchor.X + config.BossSecondSwayAmp*math.Sin(config.BossSecondSwayFreq*(t+dt))
		vel.Vel = cp.Vector{
			X: clampSpeed((targetX-pos.Pos.X)/dt, 2*config.BossEntrySpeed),
			Y: clampSpeed((b.anchor.Y-pos.Pos.Y)/dt, config.BossEntrySpeed),
		}
		if now >= b.state.PatternTimer {
			result.Shots = b.spreadVolley(pos.Pos, profile)
			b.state.PatternTimer += types.TicksFromSeconds(config.BossSecondFireInterval)
			b.state.Volleys++
		}

	case types.BossPhaseFinal:
		if b.state.Health <= 0 {
			vel.Vel = cp.Vector{}
			b.transition(types.BossPhaseDefeated, now, &result)
			result.Defeated = true
			return result
		}
		vel.Vel = cp.Vector{
			X: clampSpeed((playerPos.X-pos.Pos.X)/dt, config.BossFinalTrackSpeed),
			Y: clampSpeed((b.anchor.Y-pos.Pos.Y)/dt, config.BossEntrySpeed),
		}
		if now >= b.state.PatternTimer {
			result.Shots = b.ringVolley(pos.Pos, profile)
			b.state.PatternTimer += types.TicksFromSeconds(config.BossFinalFireInterval)
			b.state.Volleys++
		}
	}
	return result
}

// transition 推进到下一阶段；回退或跳跃属于编程错误
func (b *BossEncounter) transition(next types.BossPhase, now types.SimTime, result *BossUpdate) {
	if next != b.state.Phase.Next() || next == b.state.Phase {
		panic(fmt.Sprintf("boss encounter: illegal phase transition %v -> %v", b.state.Phase, next))
	}

	log.Printf("[BossEncounter] Phase %v -> %v at %.2fs (health %d/%d)",
		b.state.Phase, next, now.Seconds(), b.state.Health, b.state.MaxHealth)

	b.state.Phase = next
	b.state.PhaseStartedAt = now
	b.state.Volleys = 0
	switch next {
	case types.BossPhaseSecond:
		b.state.PatternTimer = now + types.TicksFromSeconds(config.BossSecondFireInterval)
	case types.BossPhaseFinal:
		b.state.PatternTimer = now + types.TicksFromSeconds(config.BossFinalFireInterval)
	}

	result.PhaseChanged = true
	result.Phase = next
}

// spreadVolley 三向散弹
func (b *BossEncounter) spreadVolley(origin cp.Vector, profile DifficultyProfile) []ShotCommand {
	muzzle := origin.Add(cp.Vector{Y: config.BossHeight / 2})
	speed := profile.ScaleBulletSpeed(config.BossSecondBulletSpeed)
	shots := make([]ShotCommand, 0, 3)
	for _, offset := range []float64{-config.BossSecondSpreadAngle, 0, config.BossSecondSpreadAngle} {
		shots = append(shots, enemyShot(muzzle, math.Pi/2+offset, speed))
	}
	return shots
}

// ringVolley 环形弹幕，每轮旋转固定角度
func (b *BossEncounter) ringVolley(origin cp.Vector, profile DifficultyProfile) []ShotCommand {
	speed := profile.ScaleBulletSpeed(config.BossFinalBulletSpeed)
	rotation := float64(b.state.Volleys) * config.BossFinalRingStep
	shots := make([]ShotCommand, 0, config.BossFinalRingCount)
	for k := 0; k < config.BossFinalRingCount; k++ {
		angle := math.Pi/2 + rotation + float64(k)*2*math.Pi/config.BossFinalRingCount
		shots = append(shots, enemyShot(origin, angle, speed))
	}
	return shots
}

// body 获取 Boss 实体的位置与速度组件
// Boss 战进行中实体缺失属于编程错误
func (b *BossEncounter) body() (*components.PositionComponent, *components.VelocityComponent) {
	pos, okPos := ecs.GetComponent[*components.PositionComponent](b.entityManager, b.state.Entity)
	vel, okVel := ecs.GetComponent[*components.VelocityComponent](b.entityManager, b.state.Entity)
	if !okPos || !okVel {
		panic(fmt.Sprintf("boss encounter: boss entity %v has no body", b.state.Entity))
	}
	return pos, vel
}

func clampSpeed(v, limit float64) float64 {
	return math.Max(-limit, math.Min(limit, v))
}
