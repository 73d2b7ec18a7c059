//go:build !libretro && !ios

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	bridge "github.com/user-none/egbc/bridge/ebiten"
	"github.com/user-none/egbc/cli"
	"github.com/user-none/egbc/config"
	"github.com/user-none/egbc/emu"
	"github.com/user-none/egbc/romloader"
)

func main() {
	capturePath := flag.String("capture", "", "path to capture file")
	configPath := flag.String("config", "", "path to config.json (default: user config dir)")
	scale := flag.Int("scale", 0, "window scale factor (overrides the stored window size)")
	noBorder := flag.Bool("no-border", false, "hide the console border")
	noLoop := flag.Bool("no-loop", false, "stop at the last frame instead of looping")
	mono := flag.Bool("mono", false, "composite color captures on monochrome hardware")
	colorize := flag.Bool("colorize", false, "shade monochrome frames with the captured palettes")
	flag.Parse()

	if *capturePath == "" {
		fmt.Println("Usage: go run main.go -capture <file> [-scale n] [-no-border] [-no-loop] [-mono] [-colorize]")
		os.Exit(1)
	}

	cfgPath := *configPath
	if cfgPath == "" {
		p, err := config.GetConfigPath()
		if err != nil {
			log.Fatalf("Failed to locate config: %v", err)
		}
		cfgPath = p
	}
	if err := config.CreateConfigIfMissing(cfgPath); err != nil {
		log.Printf("Warning: failed to create config: %v", err)
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Printf("Warning: failed to load config, using defaults: %v", err)
		cfg = config.DefaultConfig()
	}
	if *noBorder {
		cfg.Video.ShowBorder = false
	}

	data, name, err := romloader.LoadCapture(*capturePath)
	if err != nil {
		log.Fatalf("Failed to load capture: %v", err)
	}

	e, err := bridge.NewEmulator(data, emu.DefaultRegion())
	if err != nil {
		log.Fatalf("Failed to start player: %v", err)
	}
	if *noLoop {
		e.SetOption("loop_playback", "false")
	}
	if *mono {
		e.SetOption("force_monochrome", "true")
	}
	if *colorize {
		e.SetOption("colorize_monochrome", "true")
	}

	runner := cli.NewRunner(e, cfg.Video.ShowBorder)
	defer runner.Close()

	if *scale > 0 {
		cfg.Video.Scale = *scale
		cfg.Window.Width, cfg.Window.Height = 0, 0
	}
	width, height := cfg.Window.Width, cfg.Window.Height
	if width == 0 {
		width, height = emu.ScreenWidth, emu.ScreenHeight
		if cfg.Video.ShowBorder && e.HasBorder() {
			width, height = emu.BorderWidth, emu.BorderHeight
		}
		width *= cfg.Video.Scale
		height *= cfg.Video.Scale
	}

	timing := emu.GetTimingForRegion(e.GetRegion())
	ebiten.SetWindowSize(width, height)
	if cfg.Window.X != nil && cfg.Window.Y != nil {
		ebiten.SetWindowPosition(*cfg.Window.X, *cfg.Window.Y)
	}
	ebiten.SetWindowTitle("egbc - " + name)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSizeLimits(emu.ScreenWidth, emu.ScreenHeight, -1, -1)
	ebiten.SetTPS(timing.FPS)

	if err := ebiten.RunGame(runner); err != nil {
		log.Fatal(err)
	}

	cfg.Video.ShowBorder = runner.ShowBorder()
	cfg.Window.Width, cfg.Window.Height = ebiten.WindowSize()
	x, y := ebiten.WindowPosition()
	cfg.Window.X, cfg.Window.Y = &x, &y
	if err := config.SaveConfig(cfgPath, cfg); err != nil {
		log.Printf("Warning: failed to save config: %v", err)
	}
}
