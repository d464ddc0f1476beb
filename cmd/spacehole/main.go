// Space Hole: swing the arrow, launch the ball, land it in the hole.
//
// Run with no flags to open a window. -headless simulates frames without a
// display, which together with -script and -frames makes scripted
// play-throughs and screenshots possible in CI.
package main

import (
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/phanxgames/spacehole"
	"github.com/phanxgames/spacehole/assets"
	"github.com/phanxgames/spacehole/gfx"
)

func run() error {
	fset := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	configPath := fset.String("config", "", "YAML config file (defaults when empty)")
	assetDir := fset.String("assets", "", "load assets from this directory instead of the embedded set")
	headless := fset.Bool("headless", false, "simulate without opening a window")
	frames := fset.Int("frames", 0, "frames to simulate in headless mode (0: until the script ends)")
	scriptPath := fset.String("script", "", "JSON test script to play")
	debug := fset.Bool("debug", false, "log per-second frame stats")
	mute := fset.Bool("mute", false, "do not play music")
	skipMenu := fset.Bool("skip-menu", false, "start aiming immediately")
	if err := fset.Parse(os.Args[1:]); err != nil {
		return err
	}

	cfg, err := spacehole.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	cfg.Debug = cfg.Debug || *debug
	cfg.SkipMenu = cfg.SkipMenu || *skipMenu

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	var fsys fs.FS = assets.FS
	if *assetDir != "" {
		fsys = os.DirFS(*assetDir)
	}

	var runner *spacehole.TestRunner
	if *scriptPath != "" {
		data, err := os.ReadFile(*scriptPath)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		if runner, err = spacehole.LoadTestScript(data); err != nil {
			return err
		}
	}

	if *headless {
		return runHeadless(cfg, fsys, runner, *frames)
	}

	g, err := spacehole.NewGame(gfx.NewEbitenDevice(), fsys, cfg)
	if err != nil {
		return err
	}
	defer g.Close()
	if runner != nil {
		g.SetTestRunner(runner)
	}
	if !*mute {
		if err := g.EnableMusic(); err != nil {
			slog.Warn("music disabled", "err", err)
		}
	}
	return spacehole.Run(g)
}

func runHeadless(cfg spacehole.Config, fsys fs.FS, runner *spacehole.TestRunner, frames int) error {
	g, err := spacehole.NewGame(gfx.NewHeadlessDevice(cfg.Width, cfg.Height), fsys, cfg)
	if err != nil {
		return err
	}
	defer g.Close()
	if runner != nil {
		g.SetTestRunner(runner)
	}

	var pb *progressbar.ProgressBar
	if frames > 0 {
		pb = progressbar.Default(int64(frames))
	} else {
		pb = progressbar.Default(-1, "simulating")
	}
	defer pb.Close()

	err = spacehole.RunHeadless(g, spacehole.HeadlessOptions{
		Frames:  frames,
		OnFrame: func(int) { pb.Add(1) },
	})
	if err != nil {
		return err
	}

	s := g.State()
	slog.Info("headless run finished",
		"frames", g.Frame(),
		"phase", s.Phase.String(),
		"score", s.Score,
		"level", s.Level,
		"shots", s.Shots,
	)
	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error("spacehole", "err", err)
		os.Exit(1)
	}
}
