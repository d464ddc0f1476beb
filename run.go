package spacehole

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Run opens a window sized from the game's config and runs the game loop
// until the player quits or the window is closed.
func Run(g *Game) error {
	ebiten.SetWindowTitle(g.cfg.Title)
	ebiten.SetWindowSize(g.cfg.Width, g.cfg.Height)
	ebiten.SetTPS(g.cfg.TPS)
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

// HeadlessOptions controls RunHeadless.
type HeadlessOptions struct {
	// Frames is the maximum number of frames to simulate. Zero runs until
	// the attached test script finishes.
	Frames int
	// OnFrame is called after every rendered frame.
	OnFrame func(frame int)
}

// RunHeadless simulates frames without a window, rendering each one to the
// game's device. It stops after opts.Frames frames, when the player quits,
// or, with Frames zero, when the test script is done.
func RunHeadless(g *Game, opts HeadlessOptions) error {
	if opts.Frames <= 0 && g.runner == nil {
		return fmt.Errorf("run headless: need a frame limit or a test script")
	}
	dt := g.cfg.FrameTime()
	for i := 0; opts.Frames <= 0 || i < opts.Frames; i++ {
		start := time.Now()
		g.Step(dt)
		g.stats.updateTime = time.Since(start)

		start = time.Now()
		g.Render()
		g.flushScreenshots(nil)
		g.stats.drawTime = time.Since(start)
		g.debugLog()

		if opts.OnFrame != nil {
			opts.OnFrame(i)
		}
		if g.quit {
			break
		}
		if opts.Frames <= 0 && g.runner.Done() {
			break
		}
	}
	return nil
}
