package spacehole

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"gopkg.in/yaml.v3"
)

// Config holds everything the game reads at startup. Zero values are not
// meaningful; start from DefaultConfig.
type Config struct {
	Title         string      `yaml:"title"`
	Width         int         `yaml:"width"`
	Height        int         `yaml:"height"`
	TPS           int         `yaml:"tps"`
	ShowFPS       bool        `yaml:"show_fps"`
	Debug         bool        `yaml:"debug"`
	SkipMenu      bool        `yaml:"skip_menu"`
	Volume        float64     `yaml:"volume"`
	ScreenshotDir string      `yaml:"screenshot_dir"`
	Tuning        Tuning      `yaml:"tuning"`
	Keys          KeyBindings `yaml:"keys"`
}

// Tuning holds the gameplay constants.
type Tuning struct {
	AimStep       float64       `yaml:"aim_step"`       // radians per frame
	AimLimit      float64       `yaml:"aim_limit"`      // radians either side of vertical
	BallStep      float64       `yaml:"ball_step"`      // pixels per frame
	HitsPerLevel  int           `yaml:"hits_per_level"` // holes needed to shrink the target
	ShrinkFactor  float64       `yaml:"shrink_factor"`
	CountdownStep time.Duration `yaml:"countdown_step"`
	ShrinkTween   time.Duration `yaml:"shrink_tween"`
}

// KeyBindings maps each action to a key. Keys are written by name in YAML,
// e.g. "Space" or "ArrowUp".
type KeyBindings struct {
	Quit   ebiten.Key `yaml:"quit"`
	Up     ebiten.Key `yaml:"up"`
	Down   ebiten.Key `yaml:"down"`
	Select ebiten.Key `yaml:"select"`
	Fire   ebiten.Key `yaml:"fire"`
}

// DefaultConfig returns the settings of the original 800x600 game.
func DefaultConfig() Config {
	return Config{
		Title:         "Space Hole",
		Width:         800,
		Height:        600,
		TPS:           60,
		Volume:        0.5,
		ScreenshotDir: "screenshots",
		Tuning: Tuning{
			AimStep:       0.02,
			AimLimit:      math.Pi / 2,
			BallStep:      5,
			HitsPerLevel:  2,
			ShrinkFactor:  2.0 / 3.0,
			CountdownStep: 700 * time.Millisecond,
			ShrinkTween:   400 * time.Millisecond,
		},
		Keys: KeyBindings{
			Quit:   ebiten.KeyEscape,
			Up:     ebiten.KeyArrowUp,
			Down:   ebiten.KeyArrowDown,
			Select: ebiten.KeyEnter,
			Fire:   ebiten.KeySpace,
		},
	}
}

// ParseConfig overlays YAML data onto DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads a YAML config file. An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("screen size %dx%d must be positive", c.Width, c.Height))
	}
	if c.TPS <= 0 {
		errs = append(errs, fmt.Errorf("tps %d must be positive", c.TPS))
	}
	if c.Volume < 0 || c.Volume > 1 {
		errs = append(errs, fmt.Errorf("volume %v must be in [0, 1]", c.Volume))
	}
	t := c.Tuning
	if t.AimStep <= 0 {
		errs = append(errs, fmt.Errorf("aim_step %v must be positive", t.AimStep))
	}
	if t.AimLimit <= 0 || t.AimLimit >= math.Pi {
		errs = append(errs, fmt.Errorf("aim_limit %v must be in (0, pi)", t.AimLimit))
	}
	if t.BallStep <= 0 {
		errs = append(errs, fmt.Errorf("ball_step %v must be positive", t.BallStep))
	}
	if t.HitsPerLevel < 1 {
		errs = append(errs, fmt.Errorf("hits_per_level %d must be at least 1", t.HitsPerLevel))
	}
	if t.ShrinkFactor <= 0 || t.ShrinkFactor > 1 {
		errs = append(errs, fmt.Errorf("shrink_factor %v must be in (0, 1]", t.ShrinkFactor))
	}
	if t.CountdownStep <= 0 {
		errs = append(errs, fmt.Errorf("countdown_step %v must be positive", t.CountdownStep))
	}
	if t.ShrinkTween < 0 {
		errs = append(errs, fmt.Errorf("shrink_tween %v must not be negative", t.ShrinkTween))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// FrameTime returns the fixed simulation step.
func (c Config) FrameTime() time.Duration {
	return time.Second / time.Duration(c.TPS)
}
