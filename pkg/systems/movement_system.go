package systems

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"

	"github.com/decker502/sforce/pkg/components"
	"github.com/decker502/sforce/pkg/ecs"
	"github.com/decker502/sforce/pkg/types"
)

// ChaserInitialHeading 追踪者出生时朝向正下方（y 轴向下）
const ChaserInitialHeading = math.Pi / 2

// StepMovement 计算敌机本刻的位移
//
// 参数：
//   - m: 运动组件；只有 Chaser 会更新其中的航向
//   - pos: 当前位置
//   - target: 追踪目标位置（仅 Chaser 使用）
//   - t: 出生以来经过的时间（秒），取本刻开始时的值
//   - dt: 固定步长（秒）
//
// 返回本刻位移。除 Chaser 航向外没有副作用，相同输入得到相同结果，与帧率无关。
func StepMovement(m *components.MotionComponent, pos, target cp.Vector, t, dt float64) cp.Vector {
	spec := m.Movement
	switch spec.Kind {
	case types.ArchetypeStraight, types.ArchetypeTank:
		return cp.Vector{X: 0, Y: spec.Speed * dt}

	case types.ArchetypeSine:
		// 横向位置 = BaseX + A·sin(f·t)，位移取相邻两刻偏移之差
		before := spec.Amplitude * math.Sin(spec.Frequency*t)
		after := spec.Amplitude * math.Sin(spec.Frequency*(t+dt))
		return cp.Vector{X: after - before, Y: spec.Speed * dt}

	case types.ArchetypeZigZag:
		return cp.Vector{X: zigZagSign(m.LateralSign, spec.Period, t) * spec.LateralSpeed * dt, Y: spec.Speed * dt}

	case types.ArchetypeChaser:
		desired := target.Sub(pos).ToAngle()
		if target.Sub(pos).LengthSq() < 1e-6 {
			desired = m.Heading
		}
		m.Heading += clampTurn(normalizeAngle(desired-m.Heading), spec.TurnRate*dt)
		m.Heading = normalizeAngle(m.Heading)
		return cp.ForAngle(m.Heading).Mult(spec.Speed * dt)
	}
	panic(fmt.Sprintf("movement: unhandled archetype %v", spec.Kind))
}

// zigZagSign 每经过一个周期横向方向翻转一次
func zigZagSign(initial, period, t float64) float64 {
	if initial == 0 {
		initial = 1
	}
	if period <= 0 {
		return initial
	}
	// 加上微小量避免 t 恰好落在周期边界时的浮点误差
	flips := int(math.Floor(t/period + 1e-9))
	if flips%2 == 1 {
		return -initial
	}
	return initial
}

// normalizeAngle 归一化到 (-π, π]
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

func clampTurn(delta, limit float64) float64 {
	if delta > limit {
		return limit
	}
	if delta < -limit {
		return -limit
	}
	return delta
}

// MovementSystem 每刻推进所有实体的位置
// 敌机按运动原型计算位移；子弹、道具和 Boss 按速度匀速运动
type MovementSystem struct {
	entityManager *ecs.EntityManager
}

// NewMovementSystem 创建运动系统
func NewMovementSystem(em *ecs.EntityManager) *MovementSystem {
	return &MovementSystem{entityManager: em}
}

// Update 推进一刻
// now 为本刻时刻，本刻开始时的出生时长为 now-SpawnedAt（出生当刻为 0）
func (s *MovementSystem) Update(now types.SimTime) {
	dt := types.TickDelta

	for _, id := range ecs.GetEntitiesWith2[*components.PositionComponent, *components.MotionComponent](s.entityManager) {
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		motion, _ := ecs.GetComponent[*components.MotionComponent](s.entityManager, id)

		target := s.resolveTarget(motion)
		age := now - motion.SpawnedAt
		if age < 0 {
			age = 0
		}
		pos.Pos = pos.Pos.Add(StepMovement(motion, pos.Pos, target, age.Seconds(), dt))
	}

	for _, id := range ecs.GetEntitiesWith2[*components.PositionComponent, *components.VelocityComponent](s.entityManager) {
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		vel, _ := ecs.GetComponent[*components.VelocityComponent](s.entityManager, id)
		pos.Pos = pos.Pos.Add(vel.Vel.Mult(dt))
	}
}

// resolveTarget 追踪目标的位置
// 目标句柄仍存活时刷新最后已知位置；句柄失效（代数不匹配）时沿用最后已知位置
func (s *MovementSystem) resolveTarget(motion *components.MotionComponent) cp.Vector {
	if motion.Movement.Kind != types.ArchetypeChaser {
		return motion.LastTargetPos
	}
	if s.entityManager.IsAlive(motion.Target) {
		if targetPos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, motion.Target); ok {
			motion.LastTargetPos = targetPos.Pos
		}
	}
	return motion.LastTargetPos
}
