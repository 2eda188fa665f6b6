package app

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/decker502/sforce/pkg/config"
	"github.com/decker502/sforce/pkg/game"
	"github.com/decker502/sforce/pkg/types"
)

var backgroundColor = color.RGBA{R: 8, G: 10, B: 28, A: 255}

var archetypeColors = map[types.Archetype]color.Color{
	types.ArchetypeStraight: colornames.Crimson,
	types.ArchetypeSine:     colornames.Orange,
	types.ArchetypeZigZag:   colornames.Gold,
	types.ArchetypeTank:     colornames.Olivedrab,
	types.ArchetypeChaser:   colornames.Orchid,
}

var powerupColors = map[types.PowerupKind]color.Color{
	types.PowerupSpread:    colornames.Deepskyblue,
	types.PowerupRapid:     colornames.Yellow,
	types.PowerupShield:    colornames.Lightcyan,
	types.PowerupHullPatch: colornames.Limegreen,
	types.PowerupDisruptor: colornames.Violet,
}

// drawSnapshot 绘制实体与 HUD
// 所有实体都画成以位置为中心、碰撞盒大小的矩形
func drawSnapshot(screen *ebiten.Image, snap game.Snapshot, now types.SimTime) {
	screen.Fill(backgroundColor)

	for _, v := range snap.Entities {
		x := float32(v.X - v.Width/2)
		y := float32(v.Y - v.Height/2)
		w, h := float32(v.Width), float32(v.Height)

		switch v.Kind {
		case game.EntityPlayer:
			// 无敌期间闪烁
			if snap.Invulnerable && (now/6)%2 == 0 {
				continue
			}
			vector.FillRect(screen, x, y, w, h, colornames.Dodgerblue, false)
		case game.EntityEnemy:
			vector.FillRect(screen, x, y, w, h, archetypeColors[v.Archetype], false)
			if v.Powerup != types.PowerupUnknown {
				vector.StrokeRect(screen, x-3, y-3, w+6, h+6, 2, powerupColors[v.Powerup], false)
			}
		case game.EntityBoss:
			vector.FillRect(screen, x, y, w, h, colornames.Firebrick, false)
			vector.StrokeRect(screen, x, y, w, h, 3, colornames.Darkred, false)
		case game.EntityPlayerShot:
			c := color.Color(colornames.Khaki)
			if v.Laser {
				c = colornames.Aqua
			}
			vector.FillRect(screen, x, y, w, h, c, false)
		case game.EntityEnemyShot:
			vector.FillRect(screen, x, y, w, h, colornames.Tomato, false)
		case game.EntityPickup:
			vector.FillRect(screen, x, y, w, h, powerupColors[v.Powerup], false)
			ebitenutil.DebugPrintAt(screen, v.Powerup.String(), int(x), int(y+h))
		}
	}

	if snap.State == game.RunTitle {
		return
	}
	drawHUD(screen, snap)
}

func drawHUD(screen *ebiten.Image, snap game.Snapshot) {
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("SCORE %d", snap.Score), 18, 14)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("LIVES %d  HULL %d/%d", snap.Lives, snap.HullSegments, config.MaxHullSegments), 18, 34)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("WEAPON %v  RAPID x%d", snap.WeaponTier, snap.RapidStacks), 18, 54)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s  wave %d  cycle %d", snap.LevelName, snap.WaveIndex+1, snap.CyclesCompleted+1), int(config.LogicalWidth)-260, 14)

	// 船体格
	for i := 0; i < config.MaxHullSegments; i++ {
		c := color.Color(colornames.Dimgray)
		if i < snap.HullSegments {
			c = colornames.Limegreen
		}
		vector.FillRect(screen, float32(18+i*22), 74, 18, 8, c, false)
	}

	if snap.Boss != nil {
		const barWidth = 480
		left := float32(config.LogicalWidth/2 - barWidth/2)
		vector.FillRect(screen, left, 16, barWidth, 10, colornames.Darkslategray, false)
		vector.FillRect(screen, left, 16, float32(barWidth*snap.Boss.HealthFraction), 10, colornames.Firebrick, false)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("BOSS  %v", snap.Boss.Phase), int(left), 30)
	}
}

func drawCentered(screen *ebiten.Image, text string, y int) {
	// DebugPrint 字宽 6 像素
	x := int(config.LogicalWidth)/2 - len(text)*3
	ebitenutil.DebugPrintAt(screen, text, x, y)
}

func drawTitle(screen *ebiten.Image, snap game.Snapshot, highScore int64) {
	cy := int(config.LogicalHeight) / 2
	drawCentered(screen, "S T A R   F O R C E", cy-80)
	drawCentered(screen, fmt.Sprintf("Difficulty: %v   (1) easy  (2) normal  (3) hard", snap.Difficulty), cy-20)
	drawCentered(screen, fmt.Sprintf("High score: %d", highScore), cy+10)
	drawCentered(screen, "Press ENTER to launch", cy+50)
	drawCentered(screen, "Move: WASD / Arrows   Fire: Space   Pause: P   Fullscreen: F11", cy+90)
}

func drawPaused(screen *ebiten.Image) {
	vector.FillRect(screen, 0, 0, float32(config.LogicalWidth), float32(config.LogicalHeight), color.RGBA{A: 120}, false)
	drawCentered(screen, "PAUSED", int(config.LogicalHeight)/2)
}

func drawGameOver(screen *ebiten.Image, snap game.Snapshot, highScore int64, newRecord bool) {
	cy := int(config.LogicalHeight) / 2
	vector.FillRect(screen, 0, 0, float32(config.LogicalWidth), float32(config.LogicalHeight), color.RGBA{A: 150}, false)
	drawCentered(screen, "GAME OVER", cy-60)
	drawCentered(screen, fmt.Sprintf("Score %d   Bosses %d", snap.Score, snap.BossesDefeated), cy-20)
	if newRecord {
		drawCentered(screen, "NEW HIGH SCORE!", cy+10)
	} else {
		drawCentered(screen, fmt.Sprintf("High score %d", highScore), cy+10)
	}
	drawCentered(screen, "ENTER: play again   ESC: title   1/2/3: difficulty", cy+50)
}

func drawDebug(screen *ebiten.Image, snap game.Snapshot) {
	d := snap.Debug
	lines := []string{
		fmt.Sprintf("tick %d  run %s", snap.Tick, snap.RunID),
		fmt.Sprintf("difficulty %v  state %v", snap.Difficulty, snap.State),
		fmt.Sprintf("entities %d  spawned %d  killed %d", d.Entities, d.EnemiesSpawned, d.EnemiesKilled),
		fmt.Sprintf("shots %d  powerups in flight %d", d.ShotsFired, d.PowerupsInFlight),
		fmt.Sprintf("wave elapsed %.2fs  last wave %.2fs", d.WaveElapsed.Seconds(), d.LastWaveAt.Seconds()),
	}
	if d.WaveTriggered {
		lines = append(lines, "wave triggered")
	}
	for _, e := range snap.Signals {
		lines = append(lines, "signal "+e.Kind.String())
	}
	y := int(config.LogicalHeight) - 20*len(lines) - 10
	for _, l := range lines {
		ebitenutil.DebugPrintAt(screen, l, 18, y)
		y += 20
	}
}
