package spacehole

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// hud draws the text layer on top of the sprites: menu labels, help,
// countdown and the score line. It needs a real screen and is not created
// in headless mode.
type hud struct {
	large *text.GoTextFace
	small *text.GoTextFace

	pulse     *Tween
	lastCount int
}

func newHUD() (*hud, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("hud: parse font: %w", err)
	}
	return &hud{
		large: &text.GoTextFace{Source: source, Size: 48},
		small: &text.GoTextFace{Source: source, Size: 20},
		pulse: &Tween{Done: true, Value: 1},
	}, nil
}

// update restarts the countdown pulse whenever the number changes.
func (h *hud) update(g *Game) {
	count := 0
	if p, ok := g.state.Phase.(MenuPhase); ok {
		count = p.Countdown
	}
	if count != h.lastCount && count > 0 {
		h.pulse = countdownPulse(g.cfg.Tuning.CountdownStep / 2)
	}
	h.lastCount = count
	h.pulse.Update(g.cfg.FrameTime())
}

func (h *hud) draw(screen *ebiten.Image, g *Game) {
	l := g.layout
	switch p := g.state.Phase.(type) {
	case MenuPhase:
		switch {
		case p.Countdown > 0:
			drawText(screen, strconv.Itoa(p.Countdown), h.large,
				l.Screen.Width/2, l.Screen.Height/2, h.pulse.Value, text.AlignCenter, ColorWhite)
		case p.Help:
			drawText(screen, helpText, h.small,
				l.Screen.Width/2, l.Screen.Height/2, 1, text.AlignCenter, ColorWhite)
		default:
			drawText(screen, g.cfg.Title, h.large,
				l.Screen.Width/2, l.Screen.Height/5, 1, text.AlignCenter, ColorWhite)
			for item := MenuItem(0); item < menuItemCount; item++ {
				r := menuItemRect(l, item)
				drawText(screen, item.String(), h.small,
					r.X+r.Width/2, r.Y+r.Height/2, 1, text.AlignCenter, ColorWhite)
			}
		}
	default:
		s := g.state
		line := fmt.Sprintf("Score %d   Level %d   Holes %d/%d",
			s.Score, s.Level, s.Hits, g.cfg.Tuning.HitsPerLevel)
		drawText(screen, line, h.small, 12, 20, 1, text.AlignStart, ColorWhite)
	}
}

// drawText draws s with its anchor at (x, y), scaled about the anchor.
// Lines are vertically centred on y.
func drawText(dst *ebiten.Image, s string, face *text.GoTextFace, x, y, scale float64, align text.Align, c Color) {
	m := face.Metrics()
	op := &text.DrawOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c.RGBA())
	op.LineSpacing = m.HAscent + m.HDescent + m.HLineGap
	op.PrimaryAlign = align
	op.SecondaryAlign = text.AlignCenter
	text.Draw(dst, s, face, op)
}

// drawFPS prints frame and tick rates in the top-right corner.
func drawFPS(screen *ebiten.Image) {
	msg := fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
	ebitenutil.DebugPrintAt(screen, msg, screen.Bounds().Dx()-90, 4)
}
