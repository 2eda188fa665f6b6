package components

import (
	"github.com/jakecoffman/cp"

	"github.com/decker502/sforce/pkg/config"
	"github.com/decker502/sforce/pkg/ecs"
	"github.com/decker502/sforce/pkg/types"
)

// MotionComponent 敌机的运动状态
// Movement 为已按难度缩放的运动参数，其余字段为各运动类型的内部状态
type MotionComponent struct {
	Movement  config.MovementSpec
	SpawnedAt types.SimTime

	// Sine: 出生时的 x，横向偏移以此为基准
	BaseX float64
	// ZigZag: 初始横向方向（+1 向右，-1 向左）
	LateralSign float64
	// Chaser: 当前航向（弧度，π/2 为正下方）
	Heading float64
	// Chaser: 目标句柄与最后已知位置；句柄失效时沿用最后已知位置
	Target        ecs.EntityID
	LastTargetPos cp.Vector
}
