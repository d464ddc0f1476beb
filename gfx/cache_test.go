package gfx

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"testing"
	"testing/fstest"
)

func encodePNG(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func testFS(t *testing.T) fstest.MapFS {
	return fstest.MapFS{
		"shaders/sprite.vs":  {Data: []byte(testVertexGLSL)},
		"shaders/sprite.fs":  {Data: []byte(testFragmentGLSL)},
		"shaders/sprite.gs":  {Data: []byte(testGeometryGLSL)},
		"shaders/broken.fs":  {Data: []byte("#error unexpected token")},
		"textures/ball.png":  {Data: encodePNG(t, 4, 4, color.NRGBA{255, 0, 0, 128})},
		"textures/space.png": {Data: encodePNG(t, 8, 6, color.NRGBA{0, 0, 40, 255})},
		"textures/junk.png":  {Data: []byte("not a png")},
	}
}

func newTestCache(t *testing.T) (*ResourceCache, *HeadlessDevice) {
	dev := NewHeadlessDevice(800, 600)
	return NewResourceCache(dev, testFS(t), nil), dev
}

func TestCacheLoadShader(t *testing.T) {
	c, dev := newTestCache(t)
	sh, err := c.LoadShader("shaders/sprite.vs", "shaders/sprite.fs", "", "sprite")
	if err != nil {
		t.Fatalf("LoadShader: %v", err)
	}
	got, err := c.GetShader("sprite")
	if err != nil {
		t.Fatalf("GetShader: %v", err)
	}
	if got != sh {
		t.Error("GetShader returned a different pointer")
	}
	if !c.HasShader("sprite") || !c.IsPresent("sprite") {
		t.Error("sprite not present after load")
	}
	if dev.Program(sh.ID) == nil {
		t.Error("device has no program")
	}
}

func TestCacheLoadShaderWithGeometry(t *testing.T) {
	c, dev := newTestCache(t)
	sh, err := c.LoadShader("shaders/sprite.vs", "shaders/sprite.fs", "shaders/sprite.gs", "geo")
	if err != nil {
		t.Fatalf("LoadShader: %v", err)
	}
	if n := len(dev.Program(sh.ID).Stages); n != 3 {
		t.Errorf("stages = %d, want 3", n)
	}
}

func TestCacheLoadShaderErrors(t *testing.T) {
	tests := []struct {
		name     string
		vs, fs   string
		notExist bool
	}{
		{"missing file", "shaders/nope.vs", "shaders/sprite.fs", true},
		{"compile error", "shaders/sprite.vs", "shaders/broken.fs", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCache(t)
			_, err := c.LoadShader(tt.vs, tt.fs, "", "bad")
			if err == nil {
				t.Fatal("LoadShader succeeded, want error")
			}
			if got := errors.Is(err, fs.ErrNotExist); got != tt.notExist {
				t.Errorf("errors.Is(err, fs.ErrNotExist) = %v, want %v (%v)", got, tt.notExist, err)
			}
			if c.IsPresent("bad") {
				t.Error("failed load was stored")
			}
		})
	}
}

func TestCacheReloadShaderKeepsPointer(t *testing.T) {
	c, dev := newTestCache(t)
	first, err := c.LoadShader("shaders/sprite.vs", "shaders/sprite.fs", "", "sprite")
	if err != nil {
		t.Fatal(err)
	}
	oldID := first.ID

	second, err := c.LoadShader("shaders/sprite.vs", "shaders/sprite.fs", "", "sprite")
	if err != nil {
		t.Fatal(err)
	}
	if second != first {
		t.Error("reload returned a new pointer")
	}
	if first.ID == oldID {
		t.Error("reload kept the old program")
	}
	if dev.Program(oldID) != nil {
		t.Error("old program leaked")
	}
	if _, _, programs, _ := dev.Live(); programs != 1 {
		t.Errorf("live programs = %d, want 1", programs)
	}
}

func TestCacheLoadTexture(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		alpha  bool
		w, h   int
		format PixelFormat
	}{
		{"rgba", "textures/ball.png", true, 4, 4, FormatRGBA},
		{"rgb", "textures/space.png", false, 8, 6, FormatRGB},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, dev := newTestCache(t)
			tex, err := c.LoadTexture(tt.path, tt.alpha, tt.name)
			if err != nil {
				t.Fatalf("LoadTexture: %v", err)
			}
			if tex.Width != tt.w || tex.Height != tt.h {
				t.Errorf("size = %dx%d, want %dx%d", tex.Width, tex.Height, tt.w, tt.h)
			}
			rec := dev.Texture(tex.ID)
			if rec.Format != tt.format {
				t.Errorf("format = %v, want %v", rec.Format, tt.format)
			}
			if want := tt.w * tt.h * tt.format.BytesPerPixel(); len(rec.Pixels) != want {
				t.Errorf("uploaded %d bytes, want %d", len(rec.Pixels), want)
			}
			got, err := c.GetTexture(tt.name)
			if err != nil || got != tex {
				t.Errorf("GetTexture = %p, %v; want %p", got, err, tex)
			}
		})
	}
}

func TestCacheLoadTextureErrors(t *testing.T) {
	for _, path := range []string{"textures/missing.png", "textures/junk.png"} {
		c, dev := newTestCache(t)
		if _, err := c.LoadTexture(path, true, "bad"); err == nil {
			t.Errorf("LoadTexture(%q) succeeded, want error", path)
		}
		if c.HasTexture("bad") {
			t.Errorf("LoadTexture(%q) stored a texture", path)
		}
		if n, _, _, _ := dev.Live(); n != 0 {
			t.Errorf("LoadTexture(%q) leaked %d textures", path, n)
		}
	}
}

type fixedLoader struct{ px Pixels }

func (l fixedLoader) LoadImage(string, bool) (Pixels, error) { return l.px, nil }

func TestCacheLoadTextureFormatMismatch(t *testing.T) {
	dev := NewHeadlessDevice(8, 8)
	loader := fixedLoader{Pixels{Width: 1, Height: 1, Format: FormatRGB, Data: []byte{1, 2, 3}}}
	c := NewResourceCache(dev, fstest.MapFS{}, loader)

	_, err := c.LoadTexture("x.png", true, "x")
	if !errors.Is(err, ErrInvalidPixels) {
		t.Fatalf("err = %v, want ErrInvalidPixels", err)
	}
	if n, _, _, _ := dev.Live(); n != 0 {
		t.Errorf("leaked %d textures", n)
	}
}

func TestCacheReloadTextureKeepsPointer(t *testing.T) {
	c, dev := newTestCache(t)
	first, err := c.LoadTexture("textures/ball.png", true, "ball")
	if err != nil {
		t.Fatal(err)
	}
	oldID := first.ID

	second, err := c.LoadTexture("textures/space.png", false, "ball")
	if err != nil {
		t.Fatal(err)
	}
	if second != first {
		t.Error("reload returned a new pointer")
	}
	if first.Width != 8 || first.Height != 6 || first.ImageFormat != FormatRGB {
		t.Errorf("reloaded texture = %dx%d %v, want 8x6 RGB", first.Width, first.Height, first.ImageFormat)
	}
	if dev.Texture(oldID) != nil {
		t.Error("old texture leaked")
	}
	if n, _, _, _ := dev.Live(); n != 1 {
		t.Errorf("live textures = %d, want 1", n)
	}
}

func TestCacheNamespacesAreSeparate(t *testing.T) {
	c, _ := newTestCache(t)
	if _, err := c.LoadShader("shaders/sprite.vs", "shaders/sprite.fs", "", "ball"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.LoadTexture("textures/ball.png", true, "ball"); err != nil {
		t.Fatal(err)
	}
	shaders, textures := c.Len()
	if shaders != 1 || textures != 1 {
		t.Errorf("Len() = %d, %d; want 1, 1", shaders, textures)
	}
}

func TestCacheGetMissing(t *testing.T) {
	c, _ := newTestCache(t)
	if _, err := c.GetShader("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetShader err = %v, want ErrNotFound", err)
	}
	if _, err := c.GetTexture("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetTexture err = %v, want ErrNotFound", err)
	}
	if c.IsPresent("nope") {
		t.Error("IsPresent(nope) = true")
	}
}

func TestCacheClear(t *testing.T) {
	c, dev := newTestCache(t)
	sh, err := c.LoadShader("shaders/sprite.vs", "shaders/sprite.fs", "", "sprite")
	if err != nil {
		t.Fatal(err)
	}
	tex, err := c.LoadTexture("textures/ball.png", true, "ball")
	if err != nil {
		t.Fatal(err)
	}

	c.Clear()
	if textures, stages, programs, arrays := dev.Live(); textures+stages+programs+arrays != 0 {
		t.Errorf("live objects after Clear = %d/%d/%d/%d, want none", textures, stages, programs, arrays)
	}
	if sh.Valid() || !tex.Deleted() {
		t.Error("resources not released")
	}
	if c.IsPresent("sprite") || c.IsPresent("ball") {
		t.Error("names survive Clear")
	}

	// Clearing twice is harmless and the cache is reusable.
	c.Clear()
	if _, err := c.LoadTexture("textures/ball.png", true, "ball"); err != nil {
		t.Errorf("load after Clear: %v", err)
	}
}
