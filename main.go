package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/sforce/pkg/app"
	"github.com/decker502/sforce/pkg/config"
	"github.com/decker502/sforce/pkg/embedded"
	"github.com/decker502/sforce/pkg/types"
)

func main() {
	verbose := flag.Bool("verbose", false, "启用详细日志输出")
	storyboard := flag.String("storyboard", "", "外部故事板文件（默认使用内嵌故事板）")
	difficulty := flag.String("difficulty", "", "难度：easy / normal / hard（默认读取设置）")
	keepWeapon := flag.Bool("keep-weapon", false, "损失生命时保留武器等级")
	record := flag.String("record", "", "每局结束时把回放写入该文件")
	flag.Parse()

	// 初始化嵌入数据
	// dataFS 在 embed.go 中声明
	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:        *verbose,
		StoryboardPath: *storyboard,
		Difficulty:     *difficulty,
		KeepWeapon:     *keepWeapon,
		RecordPath:     *record,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "游戏初始化失败: %v\n", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(int(config.LogicalWidth), int(config.LogicalHeight))
	ebiten.SetWindowTitle("Star Force")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(types.TicksPerSecond)

	if err := ebiten.RunGame(gameApp); err != nil {
		log.Fatal(err)
	}
}
