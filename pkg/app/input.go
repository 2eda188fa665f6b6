package app

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/sforce/pkg/game"
	"github.com/decker502/sforce/pkg/types"
	"github.com/decker502/sforce/pkg/utils"
)

// 键位
var (
	keysLeft  = []ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA}
	keysRight = []ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD}
	keysUp    = []ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyW}
	keysDown  = []ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS}
	keysFire  = []ebiten.Key{ebiten.KeySpace, ebiten.KeyJ}
	keysPause = []ebiten.Key{ebiten.KeyP, ebiten.KeyEscape}
)

var difficultyKeys = map[ebiten.Key]types.DifficultyTier{
	ebiten.Key1: types.DifficultyEasy,
	ebiten.Key2: types.DifficultyNormal,
	ebiten.Key3: types.DifficultyHard,
}

func anyPressed(keys []ebiten.Key) bool {
	for _, k := range keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

func anyJustPressed(keys []ebiten.Key) bool {
	for _, k := range keys {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}

// axis 把一对按键合成为 -1/0/1
func axis(negative, positive bool) float64 {
	switch {
	case negative && !positive:
		return -1
	case positive && !negative:
		return 1
	}
	return 0
}

// readInput 把键盘与触摸状态翻译为一刻的语义输入
// 触摸摇杆按住时自动开火
func readInput(stick *utils.TouchStick) game.Input {
	in := game.Input{
		MoveX: axis(anyPressed(keysLeft), anyPressed(keysRight)),
		MoveY: axis(anyPressed(keysUp), anyPressed(keysDown)),
		Fire:  anyPressed(keysFire),
	}
	if stick.Active() {
		in.MoveX, in.MoveY = stick.Direction()
		in.Fire = true
	}
	return in
}

// pressedDifficulty 本帧按下的难度键
func pressedDifficulty() (types.DifficultyTier, bool) {
	for k, tier := range difficultyKeys {
		if inpututil.IsKeyJustPressed(k) {
			return tier, true
		}
	}
	return 0, false
}

// startPressed 开始对局：回车，或移动端轻触
func startPressed() bool {
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		return true
	}
	return utils.IsMobile() && len(inpututil.AppendJustPressedTouchIDs(nil)) > 0
}
