package gfx

import "github.com/go-gl/mathgl/mgl32"

// Uniform names the sprite shader is expected to declare.
const (
	UniformModel       = "Model"
	UniformProjection  = "Projection"
	UniformSpriteColor = "SpriteColor"
)

// quadVertices is the unit quad as two triangles, each vertex (x, y, u, v).
var quadVertices = []float32{
	0, 1, 0, 1,
	1, 0, 1, 0,
	0, 0, 0, 0,

	0, 1, 0, 1,
	1, 1, 1, 1,
	1, 0, 1, 0,
}

const (
	quadComponents  = 4
	quadVertexCount = 6
)

// SpriteRenderer draws textured, tinted quads. Every call issues one draw.
type SpriteRenderer struct {
	shader *Shader
	dev    Device
	quad   VertexArrayID

	draws int
}

// NewSpriteRenderer creates the shared quad on the shader's device. The
// shader is borrowed; its owner must keep it alive while the renderer is used.
func NewSpriteRenderer(shader *Shader) *SpriteRenderer {
	return &SpriteRenderer{
		shader: shader,
		dev:    shader.dev,
		quad:   shader.dev.CreateVertexArray(quadVertices, quadComponents),
	}
}

// Shader returns the borrowed shader.
func (r *SpriteRenderer) Shader() *Shader {
	return r.shader
}

// DrawSprite draws tex rotated about its centre.
func (r *SpriteRenderer) DrawSprite(tex *Texture, position, size mgl32.Vec2, rotate float32, color mgl32.Vec3) {
	r.DrawSpritePivot(tex, position, size, rotate, color, 0.5)
}

// DrawSpritePivot draws tex at position with the given size, rotated by
// rotate radians about (0.5*size.x, pivotY*size.y) and tinted by color.
func (r *SpriteRenderer) DrawSpritePivot(tex *Texture, position, size mgl32.Vec2, rotate float32, color mgl32.Vec3, pivotY float32) {
	r.shader.Use()
	r.shader.SetMatrix4(UniformModel, SpriteModel(position, size, rotate, pivotY), false)
	r.shader.SetVector3f(UniformSpriteColor, color, false)

	r.dev.ActiveTexture(0)
	tex.Bind()

	r.dev.BindVertexArray(r.quad)
	r.dev.DrawArrays(0, quadVertexCount)
	r.dev.BindVertexArray(0)
	r.draws++
}

// Draws returns the number of draws since the last ResetStats.
func (r *SpriteRenderer) Draws() int {
	return r.draws
}

// ResetStats zeroes the draw counter.
func (r *SpriteRenderer) ResetStats() {
	r.draws = 0
}

// Close releases the quad. The shader is not touched.
func (r *SpriteRenderer) Close() {
	if r.quad != 0 {
		r.dev.DeleteVertexArray(r.quad)
		r.quad = 0
	}
}
