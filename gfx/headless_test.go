package gfx

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestHeadlessClearStartsFrame(t *testing.T) {
	r, tex, dev := newSpriteFixture(t)
	r.DrawSprite(tex, mgl32.Vec2{}, mgl32.Vec2{1, 1}, 0, mgl32.Vec3{1, 1, 1})
	dev.Clear(0.1, 0.2, 0.3, 1)

	if len(dev.Draws) != 0 {
		t.Errorf("draws after Clear = %d, want 0", len(dev.Draws))
	}
	if dev.ClearColor != (mgl32.Vec4{0.1, 0.2, 0.3, 1}) {
		t.Errorf("ClearColor = %v", dev.ClearColor)
	}
	if dev.Frames != 1 {
		t.Errorf("Frames = %d, want 1", dev.Frames)
	}
}

func TestHeadlessDrawRecordsBlend(t *testing.T) {
	r, tex, dev := newSpriteFixture(t)
	dev.SetBlendMode(BlendAdditive)
	r.DrawSprite(tex, mgl32.Vec2{}, mgl32.Vec2{1, 1}, 0, mgl32.Vec3{1, 1, 1})
	if got := dev.Draws[0].Blend; got != BlendAdditive {
		t.Errorf("Blend = %v, want additive", got)
	}
}

func TestHeadlessDropsInvalidDraws(t *testing.T) {
	tests := []struct {
		name  string
		setup func(d *HeadlessDevice, quad VertexArrayID)
	}{
		{"no program", func(d *HeadlessDevice, quad VertexArrayID) {
			d.UseProgram(0)
			d.BindVertexArray(quad)
		}},
		{"no vertex array", func(d *HeadlessDevice, quad VertexArrayID) {
			d.BindVertexArray(0)
		}},
		{"deleted vertex array", func(d *HeadlessDevice, quad VertexArrayID) {
			d.BindVertexArray(quad)
			d.DeleteVertexArray(quad)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := NewHeadlessDevice(8, 8)
			sh := NewShader(dev)
			if err := sh.Compile(testVertexGLSL, testFragmentGLSL, ""); err != nil {
				t.Fatal(err)
			}
			sh.Use()
			quad := dev.CreateVertexArray(quadVertices, quadComponents)
			tt.setup(dev, quad)
			dev.DrawArrays(0, quadVertexCount)
			if len(dev.Draws) != 0 {
				t.Errorf("recorded %d draws, want 0", len(dev.Draws))
			}
		})
	}
}

func TestHeadlessDrawOutOfRange(t *testing.T) {
	_, _, dev := newSpriteFixture(t)
	quad := dev.CreateVertexArray(quadVertices, quadComponents)
	dev.BindVertexArray(quad)
	dev.DrawArrays(4, quadVertexCount)
	if len(dev.Draws) != 0 {
		t.Errorf("recorded %d draws past the end of the array", len(dev.Draws))
	}
}

func TestHeadlessLinkNeedsBothStages(t *testing.T) {
	dev := NewHeadlessDevice(8, 8)
	vs := dev.CreateStage(StageVertex, testVertexGLSL)
	if ok, log := dev.CompileStage(vs); !ok {
		t.Fatalf("CompileStage: %s", log)
	}
	p := dev.CreateProgram()
	dev.AttachStage(p, vs)
	if ok, _ := dev.LinkProgram(p); ok {
		t.Error("linked a program without a fragment stage")
	}
	if loc := dev.UniformLocation(p, "Model"); loc != -1 {
		t.Errorf("UniformLocation on unlinked program = %d, want -1", loc)
	}
}

func TestHeadlessKageUniforms(t *testing.T) {
	dev := NewHeadlessDevice(8, 8)
	sh := NewShader(dev)
	if err := sh.Compile(testVertexKage, testFragmentKage, ""); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{UniformModel, UniformProjection, UniformSpriteColor} {
		if dev.UniformLocation(sh.ID, name) < 0 {
			t.Errorf("uniform %s not found", name)
		}
	}
}
