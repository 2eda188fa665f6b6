// Package utils 提供通用工具函数
package utils

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// StickRadius 拖动偏移达到该距离（逻辑像素）时方向取满
const StickRadius = 80.0

// stickDeadZone 小于该距离的偏移视为未移动
const stickDeadZone = 6.0

// TouchStick 虚拟摇杆
//
// 第一个按下的触点为摇杆中心，之后的拖动偏移换算为 [-1, 1] 的方向。
// 松开后方向归零，等待下一次按下。
type TouchStick struct {
	active           bool
	id               ebiten.TouchID
	originX, originY int
	dx, dy           float64
}

// Update 每帧调用一次
func (s *TouchStick) Update() {
	if !s.active {
		ids := inpututil.AppendJustPressedTouchIDs(nil)
		if len(ids) == 0 {
			s.dx, s.dy = 0, 0
			return
		}
		s.active = true
		s.id = ids[0]
		s.originX, s.originY = ebiten.TouchPosition(s.id)
	}

	if inpututil.IsTouchJustReleased(s.id) || !touchAlive(s.id) {
		s.Reset()
		return
	}

	x, y := ebiten.TouchPosition(s.id)
	s.dx, s.dy = StickVector(float64(x-s.originX), float64(y-s.originY))
}

func touchAlive(id ebiten.TouchID) bool {
	for _, t := range ebiten.AppendTouchIDs(nil) {
		if t == id {
			return true
		}
	}
	return false
}

// Reset 释放摇杆
func (s *TouchStick) Reset() {
	s.active = false
	s.dx, s.dy = 0, 0
}

// Active 是否有触点按住摇杆
func (s *TouchStick) Active() bool {
	return s.active
}

// Direction 当前方向
func (s *TouchStick) Direction() (float64, float64) {
	return s.dx, s.dy
}

// StickVector 把拖动偏移换算为方向
// 长度按 StickRadius 归一化并截断到 1，死区内返回零向量
func StickVector(offsetX, offsetY float64) (float64, float64) {
	length := math.Hypot(offsetX, offsetY)
	if length < stickDeadZone {
		return 0, 0
	}
	scale := math.Min(length, StickRadius) / StickRadius / length
	return offsetX * scale, offsetY * scale
}
