package components

import "github.com/jakecoffman/cp"

// PositionComponent 实体在逻辑画面中的位置（左上角为原点，y 轴向下）
type PositionComponent struct {
	Pos cp.Vector
}

// VelocityComponent 匀速运动实体的速度（像素/秒）
// 子弹、掉落道具和 Boss 使用；敌机的轨迹由 MotionComponent 决定
type VelocityComponent struct {
	Vel cp.Vector
}
