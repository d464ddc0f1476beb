package spacehole

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/spacehole/assets"
	"github.com/phanxgames/spacehole/gfx"
)

// Cache names of the game's resources.
const (
	ShaderSprite = "sprite"
	TextureSpace = "space"
	TextureArrow = "arrow"
	TextureBall  = "ball"
	TextureHole  = "hole"
)

// textureAssets lists the textures loaded by NewGame.
var textureAssets = []struct {
	name  string
	path  string
	alpha bool
}{
	{TextureSpace, assets.SpaceTexture, false},
	{TextureArrow, assets.ArrowTexture, true},
	{TextureBall, assets.BallTexture, true},
	{TextureHole, assets.HoleTexture, true},
}

// Game owns the resources, the state and the frame loop. It implements
// ebiten.Game; headless callers drive it with Step and Render instead.
type Game struct {
	cfg    Config
	layout Layout
	fsys   fs.FS

	dev       gfx.Device
	ebitenDev *gfx.EbitenDevice
	cache     *gfx.ResourceCache
	renderer  *gfx.SpriteRenderer
	white     *gfx.Texture

	state State
	keys  *keyboard
	input KeySource

	injectQueue     []syntheticKeyEvent
	runner          *TestRunner
	screenshotQueue []string

	// ScreenshotDir is the directory screenshots are written to.
	ScreenshotDir string

	holeSize *Tween
	hud      *hud
	music    *Music

	frame int
	quit  bool
	stats debugStats
}

// NewGame loads the sprite shader and textures from fsys onto dev.
//
// A missing texture is logged and replaced with a magenta placeholder; a
// sprite shader that fails to load is fatal. On an EbitenDevice the real
// keyboard is polled and the text HUD is drawn.
func NewGame(dev gfx.Device, fsys fs.FS, cfg Config) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	layout := NewLayout(cfg.Width, cfg.Height)
	g := &Game{
		cfg:           cfg,
		layout:        layout,
		fsys:          fsys,
		dev:           dev,
		cache:         gfx.NewResourceCache(dev, fsys, nil),
		state:         NewState(layout, cfg.Tuning, cfg.SkipMenu),
		keys:          newKeyboard(cfg.Keys),
		ScreenshotDir: cfg.ScreenshotDir,
		holeSize:      &Tween{Value: layout.HoleDiameter, Done: true},
	}

	shader, err := g.cache.LoadShader(assets.SpriteVertexShader, assets.SpriteFragmentShader, "", ShaderSprite)
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}
	shader.SetMatrix4(gfx.UniformProjection, gfx.ScreenProjection(cfg.Width, cfg.Height), true)
	dev.SetBlendMode(gfx.BlendAlpha)

	for _, t := range textureAssets {
		if _, err := g.cache.LoadTexture(t.path, t.alpha, t.name); err != nil {
			slog.Warn("texture unavailable, using placeholder", "name", t.name, "err", err)
		}
	}

	g.white = gfx.NewTexture(dev)
	if err := g.white.Generate(1, 1, []byte{255, 255, 255}); err != nil {
		g.cache.Clear()
		return nil, fmt.Errorf("new game: white texture: %w", err)
	}
	g.renderer = gfx.NewSpriteRenderer(shader)

	if ed, ok := dev.(*gfx.EbitenDevice); ok {
		g.ebitenDev = ed
		g.input = EbitenKeys{}
		if g.hud, err = newHUD(); err != nil {
			slog.Warn("hud disabled", "err", err)
		}
	}
	return g, nil
}

// SetKeySource replaces the keyboard the game polls. nil disables polling.
func (g *Game) SetKeySource(src KeySource) {
	g.input = src
}

// EnableMusic loads the background loop and starts it.
func (g *Game) EnableMusic() error {
	m, err := LoadMusic(g.fsys, assets.MusicLoop, g.cfg.Volume)
	if err != nil {
		return err
	}
	g.music = m
	m.Play()
	return nil
}

// State returns a copy of the current game state.
func (g *Game) State() State {
	return g.state
}

// PlayfieldLayout returns the playfield geometry.
func (g *Game) PlayfieldLayout() Layout {
	return g.layout
}

// Cache returns the resource cache.
func (g *Game) Cache() *gfx.ResourceCache {
	return g.cache
}

// Frame returns the number of simulated frames.
func (g *Game) Frame() int {
	return g.frame
}

// Quit reports whether the player asked to leave.
func (g *Game) Quit() bool {
	return g.quit
}

// Step runs one simulation frame of length dt: test script, input, state.
func (g *Game) Step(dt time.Duration) Events {
	if g.runner != nil {
		g.runner.step(g)
	}
	if !g.processInjectedInput() && g.runner == nil && g.input != nil {
		g.keys.poll(g.input)
	}

	ev := g.state.Update(g.keys, dt, g.layout, g.cfg.Tuning)
	if ev.LevelUp {
		g.holeSize = holeShrink(g.holeSize.Value, g.state.Hole.Diameter, g.cfg.Tuning.ShrinkTween)
	}
	g.holeSize.Update(dt)
	if g.hud != nil {
		g.hud.update(g)
	}
	if ev.Quit {
		g.quit = true
	}
	g.logEvents(ev)
	g.frame++
	return ev
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	start := time.Now()
	g.Step(g.cfg.FrameTime())
	g.stats.updateTime = time.Since(start)
	if g.quit {
		return ebiten.Termination
	}
	return nil
}

// Render issues the frame's sprite draws to the device.
func (g *Game) Render() {
	g.dev.Clear(0, 0, 0, 1)
	g.renderer.ResetStats()
	if p, ok := g.state.Phase.(MenuPhase); ok {
		g.renderMenu(p)
	} else {
		g.renderPlayfield()
	}
	g.stats.drawCalls = g.renderer.Draws()
}

func (g *Game) renderPlayfield() {
	g.drawBackground()

	d := g.holeSize.Value
	hole := Vec2{d, d}
	g.drawTexture(TextureHole, g.state.Hole.Center.Sub(hole.Scale(0.5)), hole, 0)

	a := g.layout.Arrow
	g.drawTexture(TextureArrow, a.Min(), a.Size(), g.state.Aim.Angle)

	if ball, ok := g.state.Ball(g.layout); ok {
		b := ball.Bounds()
		g.drawTexture(TextureBall, b.Min(), b.Size(), 0)
	}
}

func (g *Game) drawBackground() {
	s := g.layout.Screen
	g.drawTexture(TextureSpace, s.Min(), s.Size(), 0)
}

// drawTexture draws a cached texture, or the magenta placeholder when the
// texture could not be loaded.
func (g *Game) drawTexture(name string, pos, size Vec2, rotate float64) {
	tex, tint := g.texture(name)
	g.renderer.DrawSprite(tex, pos.Mgl(), size.Mgl(), float32(rotate), tint.Tint())
}

func (g *Game) texture(name string) (*gfx.Texture, Color) {
	tex, err := g.cache.GetTexture(name)
	if err != nil {
		return g.white, ColorMagenta
	}
	return tex, ColorWhite
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	if g.ebitenDev != nil {
		g.ebitenDev.SetTarget(screen)
	}
	g.Render()
	if g.hud != nil {
		g.hud.draw(screen, g)
	}
	if g.cfg.ShowFPS {
		drawFPS(screen)
	}
	g.flushScreenshots(screen)
	g.stats.drawTime = time.Since(start)
	g.debugLog()
}

// Layout implements ebiten.Game. The logical screen size is fixed.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

// Close releases every device resource and stops the music.
func (g *Game) Close() error {
	var errs []error
	if g.music != nil {
		errs = append(errs, g.music.Close())
		g.music = nil
	}
	g.renderer.Close()
	g.white.Delete()
	g.cache.Clear()
	return errors.Join(errs...)
}
