package spacehole

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/spacehole/gfx"
)

// Screenshot queues a labeled screenshot to be captured at the end of the
// current frame's Draw call. The resulting PNG is written to ScreenshotDir
// with a timestamped filename. Safe to call from Update or Draw.
func (g *Game) Screenshot(label string) {
	g.screenshotQueue = append(g.screenshotQueue, label)
}

// flushScreenshots captures the rendered frame for every queued label and
// writes each as a PNG file. screen is nil in headless mode, where the frame
// is rebuilt from the recorded draw calls.
func (g *Game) flushScreenshots(screen *ebiten.Image) {
	if len(g.screenshotQueue) == 0 {
		return
	}
	defer func() { g.screenshotQueue = g.screenshotQueue[:0] }()

	var img *image.NRGBA
	switch dev := g.dev.(type) {
	case *gfx.HeadlessDevice:
		img = drawCallImage(dev)
	default:
		if screen == nil {
			slog.Warn("screenshot: no render target", "labels", len(g.screenshotQueue))
			return
		}
		img = screenImage(screen)
	}

	if err := os.MkdirAll(g.ScreenshotDir, 0o755); err != nil {
		slog.Error("screenshot: mkdir", "dir", g.ScreenshotDir, "err", err)
		return
	}

	stamp := time.Now().Format("20060102_150405")
	for _, label := range g.screenshotQueue {
		path := filepath.Join(g.ScreenshotDir, fmt.Sprintf("%s_f%05d_%s.png", stamp, g.frame, sanitizeLabel(label)))
		if err := writePNG(path, img); err != nil {
			slog.Error("screenshot", "err", err)
			continue
		}
		slog.Info("screenshot saved", "path", path)
	}
}

// screenImage reads back the screen and converts premultiplied RGBA to
// straight-alpha NRGBA.
func screenImage(screen *ebiten.Image) *image.NRGBA {
	bounds := screen.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]byte, 4*w*h)
	screen.ReadPixels(pixels)

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(pixels); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img
}

// drawCallImage renders a schematic of the headless frame: the clear color
// with every draw call's bounding box filled with its sprite color.
func drawCallImage(dev *gfx.HeadlessDevice) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, dev.Width, dev.Height))
	cc := dev.ClearColor
	bg := Color{float64(cc[0]), float64(cc[1]), float64(cc[2]), 1}.RGBA()
	draw.Draw(img, img.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)

	for _, dc := range dev.Draws {
		tint := Color{1, 1, 1, 1}
		if c, ok := dc.Vec3(gfx.UniformSpriteColor); ok {
			tint = Color{float64(c[0]), float64(c[1]), float64(c[2]), 1}
		}
		lo, hi := dc.Bounds()
		r := image.Rect(int(lo[0]), int(lo[1]), int(hi[0]+0.5), int(hi[1]+0.5))
		draw.Draw(img, r.Intersect(img.Bounds()), &image.Uniform{C: translucent(tint.RGBA())}, image.Point{}, draw.Over)
	}
	return img
}

// translucent makes c half transparent so overlapping sprites stay visible.
func translucent(c color.NRGBA) color.NRGBA {
	c.A = 128
	return c
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
