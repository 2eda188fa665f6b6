// Package app 提供游戏应用的核心包装器
//
// 该包把模拟核心包装成 ebiten.Game，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
// 模拟核心不接触 ebiten：这里负责输入翻译、固定步长换算、绘制和设置持久化。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"

	"github.com/decker502/sforce/pkg/config"
	"github.com/decker502/sforce/pkg/embedded"
	"github.com/decker502/sforce/pkg/game"
	"github.com/decker502/sforce/pkg/types"
	"github.com/decker502/sforce/pkg/utils"
)

// StoryboardPath 内嵌故事板路径
const StoryboardPath = "data/storyboard.yaml"

// appName gdata 存储目录名
const appName = "sforce"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// StoryboardPath 外部故事板文件，为空则使用内嵌故事板
	StoryboardPath string
	// Difficulty 覆盖设置中的难度（easy / normal / hard），为空则使用设置
	Difficulty string
	// KeepWeapon 损失生命时保留武器等级（与设置取或）
	KeepWeapon bool
	// RecordPath 非空时每局结束把回放写入该文件
	RecordPath string
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sim      *game.Simulation
	clock    *game.FixedStepClock
	settings *game.SettingsManager
	recorder *game.ReplayRecorder
	stick    utils.TouchStick
	snapshot game.Snapshot

	recordPath    string
	pendingToggle bool // 暂停键已按下，等待下一次 Tick 消费
	newHighScore  bool
	verbose       bool

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化游戏应用
//
// 使用内嵌故事板时，调用此函数前必须先调用 embedded.Init()。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	storyboard, err := loadStoryboard(cfg.StoryboardPath)
	if err != nil {
		return nil, fmt.Errorf("故事板加载失败: %w", err)
	}
	log.Printf("[App] Storyboard loaded: %d levels, %d waves", len(storyboard.Levels), storyboard.TotalWaves())

	settings := openSettings()

	tier := settings.Difficulty()
	if cfg.Difficulty != "" {
		tier, err = types.ParseDifficultyTier(cfg.Difficulty)
		if err != nil {
			return nil, err
		}
	}

	sim := game.NewSimulation(storyboard, game.Options{
		Verbose:              cfg.Verbose,
		KeepWeaponOnLifeLoss: cfg.KeepWeapon || settings.GetSettings().KeepWeaponOnLifeLoss,
	})
	if err := sim.SelectDifficulty(tier); err != nil {
		return nil, err
	}
	log.Printf("[App] Difficulty: %v", tier)

	if settings.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	clock := game.NewFixedStepClock()
	clock.Freeze()

	a := &App{
		sim:        sim,
		clock:      clock,
		settings:   settings,
		recordPath: cfg.RecordPath,
		verbose:    cfg.Verbose,
	}
	a.snapshot = sim.Snapshot()
	return a, nil
}

// loadStoryboard 读取外部文件或内嵌故事板
func loadStoryboard(path string) (*config.Storyboard, error) {
	if path != "" {
		return config.LoadStoryboard(path)
	}
	data, err := embedded.ReadFile(StoryboardPath)
	if err != nil {
		return nil, err
	}
	return config.ParseStoryboard(data, StoryboardPath)
}

// openSettings 打开设置存储
// gdata 不可用时降级为仅内存设置
func openSettings() *game.SettingsManager {
	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[App] Warning: %v", err)
	}

	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[App] Warning: gdata unavailable, settings will not persist: %v", err)
		manager = nil
	}

	settings, err := game.NewSettingsManager(manager)
	if err != nil {
		log.Printf("[App] Warning: failed to load settings, using defaults: %v", err)
	}
	return settings
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	a.updateWindow()

	// F3 切换调试信息
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		a.settings.SetDebugOverlay(!a.settings.GetSettings().DebugOverlay)
		a.saveSettings()
	}

	a.stick.Update()

	switch a.sim.State() {
	case game.RunTitle, game.RunGameOver:
		a.updateMenu()
	case game.RunPlaying, game.RunPaused:
		a.updateRun()
	}

	a.snapshot = a.sim.Snapshot()
	return nil
}

// updateWindow F11 切换全屏
func (a *App) updateWindow() {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(int(config.LogicalWidth), int(config.LogicalHeight))
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", int(config.LogicalWidth), int(config.LogicalHeight))
			a.pendingWindowSizeReset = false
		}
	}

	if !inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		return
	}
	if ebiten.IsFullscreen() {
		// 退出全屏
		ebiten.SetFullscreen(false)
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		a.settings.SetFullscreen(false)
	} else {
		ebiten.SetFullscreen(true)
		a.settings.SetFullscreen(true)
	}
	a.saveSettings()
}

// updateMenu 标题与结束画面：选择难度、开始、返回标题
func (a *App) updateMenu() {
	if tier, ok := pressedDifficulty(); ok {
		if err := a.sim.SelectDifficulty(tier); err != nil {
			log.Printf("[App] %v", err)
		} else {
			a.settings.SetDifficulty(tier)
			a.saveSettings()
		}
	}

	if a.sim.State() == game.RunGameOver && inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		if err := a.sim.ReturnToTitle(); err != nil {
			log.Printf("[App] %v", err)
		}
		return
	}

	if startPressed() {
		a.startRun()
	}
}

func (a *App) startRun() {
	if err := a.sim.StartRun(); err != nil {
		log.Printf("[App] Failed to start run: %v", err)
		return
	}
	a.newHighScore = false
	a.pendingToggle = false
	a.clock.Unfreeze()
	if a.recordPath != "" {
		a.recorder = game.NewReplayRecorder(a.sim)
	}
	log.Printf("[App] Run %s started on %v", a.sim.RunID(), a.sim.Difficulty())
}

// updateRun 对局中：按固定步长推进模拟
//
// 暂停时时钟冻结，不再推进模拟；再次按下暂停键时单独执行一刻
// 把切换信号交给模拟，解除暂停后时钟恢复。
func (a *App) updateRun() {
	if anyJustPressed(keysPause) {
		a.pendingToggle = true
	}
	in := readInput(&a.stick)

	if a.sim.State() == game.RunPaused {
		if a.pendingToggle {
			in.TogglePause = true
			a.pendingToggle = false
			a.step(in)
			a.clock.Unfreeze()
		}
		return
	}

	tps := ebiten.TPS()
	if tps <= 0 {
		tps = types.TicksPerSecond
	}
	n := a.clock.Advance(1.0 / float64(tps))
	for i := 0; i < n && a.sim.State() == game.RunPlaying; i++ {
		in.TogglePause = a.pendingToggle
		a.pendingToggle = false
		a.step(in)
	}

	switch a.sim.State() {
	case game.RunPaused:
		a.clock.Freeze()
	case game.RunGameOver:
		a.finishRun()
	}
}

// step 推进一刻，同时录制输入
func (a *App) step(in game.Input) {
	if a.recorder != nil {
		a.recorder.Record(in)
	}
	a.sim.Tick(in)
}

// finishRun 对局结束：记录最高分、保存回放
func (a *App) finishRun() {
	a.clock.Freeze()

	score := a.sim.Snapshot().Score
	if a.settings.RecordScore(score) {
		a.newHighScore = true
		log.Printf("[App] New high score: %d", score)
	}
	a.saveSettings()

	if a.recorder != nil {
		if err := game.SaveReplay(a.recordPath, a.recorder.Replay()); err != nil {
			log.Printf("[App] ERROR: %v", err)
		}
		a.recorder = nil
	}
}

func (a *App) saveSettings() {
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: failed to save settings: %v", err)
	}
}

// Draw 绘制游戏画面
// 每帧调用一次，只读取最近一次的快照
func (a *App) Draw(screen *ebiten.Image) {
	drawSnapshot(screen, a.snapshot, a.sim.Now())

	switch a.snapshot.State {
	case game.RunTitle:
		drawTitle(screen, a.snapshot, a.settings.GetSettings().HighScore)
	case game.RunPaused:
		drawPaused(screen)
	case game.RunGameOver:
		drawGameOver(screen, a.snapshot, a.settings.GetSettings().HighScore, a.newHighScore)
	}

	if a.settings.GetSettings().DebugOverlay {
		drawDebug(screen, a.snapshot)
	}
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	// 先填充黑色背景（全屏时左右两边为黑色）
	screen.Fill(color.Black)
	// 使用线性滤波绘制游戏画面，提高缩放质量
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏的逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(config.LogicalWidth), int(config.LogicalHeight)
}

// Simulation 返回模拟核心
func (a *App) Simulation() *game.Simulation {
	return a.sim
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
