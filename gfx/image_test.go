package gfx

import (
	"image"
	"image/color"
	"testing"
	"testing/fstest"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestPixelsFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{10, 20, 30, 40})
	img.SetNRGBA(1, 0, color.NRGBA{50, 60, 70, 80})

	tests := []struct {
		name   string
		alpha  bool
		format PixelFormat
		want   []byte
	}{
		{"rgba", true, FormatRGBA, []byte{10, 20, 30, 40, 50, 60, 70, 80}},
		{"rgb", false, FormatRGB, []byte{10, 20, 30, 50, 60, 70}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			px := PixelsFromImage(img, tt.alpha)
			if px.Width != 2 || px.Height != 1 || px.Format != tt.format {
				t.Errorf("got %dx%d %v, want 2x1 %v", px.Width, px.Height, px.Format, tt.format)
			}
			if string(px.Data) != string(tt.want) {
				t.Errorf("Data = %v, want %v", px.Data, tt.want)
			}
		})
	}
}

func TestPixelsFromSubImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(2, 2, color.RGBA{255, 0, 0, 255})
	sub := img.SubImage(image.Rect(2, 2, 4, 4))

	px := PixelsFromImage(sub, true)
	if px.Width != 2 || px.Height != 2 {
		t.Fatalf("size = %dx%d, want 2x2", px.Width, px.Height)
	}
	if px.Data[0] != 255 || px.Data[3] != 255 {
		t.Errorf("first pixel = %v, want opaque red", px.Data[:4])
	}
	if len(px.Data) != 16 {
		t.Errorf("len = %d, want 16", len(px.Data))
	}
}

func TestFSImageLoader(t *testing.T) {
	fsys := fstest.MapFS{
		"a.png": {Data: encodePNG(t, 3, 2, color.NRGBA{1, 2, 3, 255})},
	}
	px, err := FSImageLoader{FS: fsys}.LoadImage("a.png", false)
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	if px.Width != 3 || px.Height != 2 || len(px.Data) != 18 {
		t.Errorf("got %dx%d with %d bytes", px.Width, px.Height, len(px.Data))
	}
	if _, err := (FSImageLoader{FS: fsys}).LoadImage("b.png", false); err == nil {
		t.Error("missing file loaded")
	}
}

func TestBlendModeString(t *testing.T) {
	tests := []struct {
		mode BlendMode
		want string
	}{
		{BlendAlpha, "alpha"},
		{BlendAdditive, "additive"},
		{BlendMultiply, "multiply"},
		{BlendOpaque, "opaque"},
		{BlendMode(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("BlendMode(%d).String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestBlendModeEbitenBlend(t *testing.T) {
	tests := []struct {
		mode BlendMode
		want ebiten.Blend
	}{
		{BlendAlpha, ebiten.BlendSourceOver},
		{BlendAdditive, ebiten.BlendLighter},
		{BlendOpaque, ebiten.BlendCopy},
	}
	for _, tt := range tests {
		if got := tt.mode.EbitenBlend(); got != tt.want {
			t.Errorf("%v.EbitenBlend() = %+v, want %+v", tt.mode, got, tt.want)
		}
	}
	m := BlendMultiply.EbitenBlend()
	if m.BlendFactorSourceRGB != ebiten.BlendFactorDestinationColor {
		t.Errorf("multiply source factor = %v", m.BlendFactorSourceRGB)
	}
}
