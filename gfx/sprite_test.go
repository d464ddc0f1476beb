package gfx

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-3

func near(a, b mgl32.Vec2) bool {
	return math.Abs(float64(a[0]-b[0])) < eps && math.Abs(float64(a[1]-b[1])) < eps
}

func TestSpriteModelPivotIsFixed(t *testing.T) {
	pos := mgl32.Vec2{100, 200}
	size := mgl32.Vec2{80, 150}

	for _, pivotY := range []float32{0.5, 1} {
		pivot := mgl32.Vec2{pos[0] + 0.5*size[0], pos[1] + pivotY*size[1]}
		unitPivot := mgl32.Vec2{0.5, pivotY}
		for i := 0; i < 16; i++ {
			angle := float32(i) * math.Pi / 8
			got := TransformPoint(SpriteModel(pos, size, angle, pivotY), unitPivot)
			if !near(got, pivot) {
				t.Errorf("pivotY=%v angle=%v: pivot maps to %v, want %v", pivotY, angle, got, pivot)
			}
		}
	}
}

func TestSpriteModelUnrotated(t *testing.T) {
	m := SpriteModel(mgl32.Vec2{10, 20}, mgl32.Vec2{30, 40}, 0, 0.5)
	tests := []struct {
		in, want mgl32.Vec2
	}{
		{mgl32.Vec2{0, 0}, mgl32.Vec2{10, 20}},
		{mgl32.Vec2{1, 0}, mgl32.Vec2{40, 20}},
		{mgl32.Vec2{0, 1}, mgl32.Vec2{10, 60}},
		{mgl32.Vec2{1, 1}, mgl32.Vec2{40, 60}},
	}
	for _, tt := range tests {
		if got := TransformPoint(m, tt.in); !near(got, tt.want) {
			t.Errorf("TransformPoint(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSpriteModelQuarterTurn(t *testing.T) {
	// A 20x10 sprite at the origin turned 90 degrees clockwise (Y down)
	// about its centre (10, 5): the top-left corner ends at (15, -5).
	m := SpriteModel(mgl32.Vec2{0, 0}, mgl32.Vec2{20, 10}, math.Pi/2, 0.5)
	if got, want := TransformPoint(m, mgl32.Vec2{0, 0}), (mgl32.Vec2{15, -5}); !near(got, want) {
		t.Errorf("top-left = %v, want %v", got, want)
	}
}

func TestScreenProjection(t *testing.T) {
	p := ScreenProjection(800, 600)
	tests := []struct {
		in, ndc mgl32.Vec2
	}{
		{mgl32.Vec2{0, 0}, mgl32.Vec2{-1, 1}},
		{mgl32.Vec2{800, 600}, mgl32.Vec2{1, -1}},
		{mgl32.Vec2{400, 300}, mgl32.Vec2{0, 0}},
	}
	for _, tt := range tests {
		got := TransformPoint(p, tt.in)
		if !near(got, tt.ndc) {
			t.Errorf("project %v = %v, want %v", tt.in, got, tt.ndc)
		}
		x, y := ndcToTarget(got, 800, 600)
		if !near(mgl32.Vec2{x, y}, tt.in) {
			t.Errorf("ndcToTarget(%v) = (%v, %v), want %v", got, x, y, tt.in)
		}
	}
}

func newSpriteFixture(t *testing.T) (*SpriteRenderer, *Texture, *HeadlessDevice) {
	t.Helper()
	dev := NewHeadlessDevice(800, 600)
	sh := NewShader(dev)
	if err := sh.Compile(testVertexGLSL, testFragmentGLSL, ""); err != nil {
		t.Fatal(err)
	}
	sh.SetMatrix4(UniformProjection, ScreenProjection(800, 600), true)

	tex := NewTexture(dev)
	if err := tex.Generate(1, 1, []byte{255, 255, 255}); err != nil {
		t.Fatal(err)
	}
	return NewSpriteRenderer(sh), tex, dev
}

func TestDrawSprite(t *testing.T) {
	r, tex, dev := newSpriteFixture(t)
	color := mgl32.Vec3{1, 0, 0.5}
	r.DrawSprite(tex, mgl32.Vec2{100, 50}, mgl32.Vec2{40, 20}, 0, color)

	if len(dev.Draws) != 1 {
		t.Fatalf("draws = %d, want 1", len(dev.Draws))
	}
	d := dev.Draws[0]
	if d.Count != 6 || d.First != 0 {
		t.Errorf("DrawArrays(%d, %d), want (0, 6)", d.First, d.Count)
	}
	if d.Texture != tex.ID {
		t.Errorf("texture = %d, want %d", d.Texture, tex.ID)
	}
	if d.Program != r.Shader().ID {
		t.Errorf("program = %d, want %d", d.Program, r.Shader().ID)
	}
	if got, ok := d.Vec3(UniformSpriteColor); !ok || got != color {
		t.Errorf("SpriteColor = %v, want %v", got, color)
	}
	lo, hi := d.Bounds()
	if !near(lo, mgl32.Vec2{100, 50}) || !near(hi, mgl32.Vec2{140, 70}) {
		t.Errorf("bounds = %v..%v, want (100,50)..(140,70)", lo, hi)
	}
	if r.Draws() != 1 {
		t.Errorf("Draws() = %d, want 1", r.Draws())
	}
	r.ResetStats()
	if r.Draws() != 0 {
		t.Errorf("Draws() after reset = %d", r.Draws())
	}
}

func TestDrawSpriteRotatedKeepsCentre(t *testing.T) {
	r, tex, dev := newSpriteFixture(t)
	for i := 0; i < 8; i++ {
		angle := float32(i) * math.Pi / 4
		dev.Clear(0, 0, 0, 1)
		r.DrawSprite(tex, mgl32.Vec2{300, 200}, mgl32.Vec2{60, 60}, angle, mgl32.Vec3{1, 1, 1})
		lo, hi := dev.Draws[0].Bounds()
		centre := lo.Add(hi).Mul(0.5)
		if !near(centre, mgl32.Vec2{330, 230}) {
			t.Errorf("angle %v: centre = %v, want (330, 230)", angle, centre)
		}
	}
}

func TestDrawSpritePivotBottom(t *testing.T) {
	r, tex, dev := newSpriteFixture(t)
	pos, size := mgl32.Vec2{375, 425}, mgl32.Vec2{80, 150}
	r.DrawSpritePivot(tex, pos, size, math.Pi, mgl32.Vec3{1, 1, 1}, 1)

	// Half a turn about the bottom centre moves the sprite below the pivot.
	lo, hi := dev.Draws[0].Bounds()
	if !near(lo, mgl32.Vec2{375, 575}) || !near(hi, mgl32.Vec2{455, 725}) {
		t.Errorf("bounds = %v..%v, want (375,575)..(455,725)", lo, hi)
	}
}

func TestSpriteRendererClose(t *testing.T) {
	r, _, dev := newSpriteFixture(t)
	r.Close()
	r.Close()
	if _, _, programs, arrays := dev.Live(); arrays != 0 || programs != 1 {
		t.Errorf("live programs/arrays = %d/%d, want 1/0", programs, arrays)
	}
}
