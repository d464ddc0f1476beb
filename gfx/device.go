// Package gfx is a thin sprite pipeline: textures, shader programs, a named
// resource cache and a quad-based sprite renderer, all issued against a
// [Device].
//
// Two devices are provided. [EbitenDevice] renders through Ebitengine and
// [HeadlessDevice] records every call without touching a GPU, which is what
// the tests and the headless game mode use.
//
// All types in this package are meant to be used from a single goroutine.
package gfx

import "github.com/go-gl/mathgl/mgl32"

// Opaque device handles. Zero means "none".
type (
	TextureID     uint32
	StageID       uint32
	ProgramID     uint32
	VertexArrayID uint32
)

// PixelFormat describes the channel layout of texture data.
type PixelFormat uint8

const (
	FormatRGB  PixelFormat = iota // 3 bytes per pixel, opaque
	FormatRGBA                    // 4 bytes per pixel, straight alpha
)

// BytesPerPixel returns the size of one pixel in this format.
func (f PixelFormat) BytesPerPixel() int {
	if f == FormatRGBA {
		return 4
	}
	return 3
}

func (f PixelFormat) String() string {
	if f == FormatRGBA {
		return "RGBA"
	}
	return "RGB"
}

// Wrap selects how texture coordinates outside [0, 1] are resolved.
type Wrap uint8

const (
	WrapRepeat Wrap = iota
	WrapClampToEdge
)

// Filter selects the texture sampling filter.
type Filter uint8

const (
	FilterLinear Filter = iota
	FilterNearest
)

// SamplerParams holds the four per-texture sampling parameters.
type SamplerParams struct {
	WrapS, WrapT         Wrap
	MinFilter, MagFilter Filter
}

// TextureImage is the payload of a TexImage2D call.
type TextureImage struct {
	Width, Height  int
	InternalFormat PixelFormat
	Format         PixelFormat
	Pixels         []byte
}

// StageKind identifies a programmable pipeline stage.
type StageKind uint8

const (
	StageVertex StageKind = iota
	StageFragment
	StageGeometry
)

func (k StageKind) String() string {
	switch k {
	case StageVertex:
		return "VERTEX"
	case StageFragment:
		return "FRAGMENT"
	case StageGeometry:
		return "GEOMETRY"
	}
	return "UNKNOWN"
}

// stageProgram is the name reported for link failures.
const stageProgram = "PROGRAM"

// Device describes the subset of GPU entry points the sprite pipeline uses.
//
// The methods follow the OpenGL object model: handles are created first and
// configured afterwards, uniforms apply to the program made current by
// UseProgram, and DrawArrays draws triangles from the bound vertex array with
// the texture bound to unit 0.
type Device interface {
	// Clear fills the render target with a color.
	Clear(r, g, b, a float32)
	// SetBlendMode selects how subsequent draws are composited.
	SetBlendMode(mode BlendMode)

	// CreateTexture allocates a texture handle with no storage.
	CreateTexture() TextureID
	// TexImage2D uploads pixel data as the texture's level 0.
	TexImage2D(id TextureID, img TextureImage) error
	// GenerateMipmap builds the mip chain from level 0.
	GenerateMipmap(id TextureID)
	// TexParameters applies wrap and filter modes.
	TexParameters(id TextureID, p SamplerParams)
	// ActiveTexture selects the texture unit BindTexture affects.
	ActiveTexture(unit int)
	// BindTexture binds id to the active unit. Zero unbinds.
	BindTexture(id TextureID)
	// DeleteTexture releases the texture. Unknown handles are ignored.
	DeleteTexture(id TextureID)

	// CreateStage creates a shader stage object holding src.
	CreateStage(kind StageKind, src string) StageID
	// CompileStage compiles the stage and reports its info log on failure.
	CompileStage(id StageID) (ok bool, infoLog string)
	// DeleteStage releases the stage object.
	DeleteStage(id StageID)
	// CreateProgram allocates an empty program.
	CreateProgram() ProgramID
	// AttachStage attaches a stage to a program before linking.
	AttachStage(program ProgramID, stage StageID)
	// LinkProgram links the attached stages and reports the info log on failure.
	LinkProgram(program ProgramID) (ok bool, infoLog string)
	// UseProgram makes the program current. Zero clears it.
	UseProgram(program ProgramID)
	// DeleteProgram releases the program.
	DeleteProgram(program ProgramID)

	// UniformLocation returns the location of a named uniform or -1.
	UniformLocation(program ProgramID, name string) int32
	Uniform1f(loc int32, v float32)
	Uniform1i(loc int32, v int32)
	Uniform2f(loc int32, v mgl32.Vec2)
	Uniform3f(loc int32, v mgl32.Vec3)
	Uniform4f(loc int32, v mgl32.Vec4)
	UniformMatrix4f(loc int32, m mgl32.Mat4)

	// CreateVertexArray uploads interleaved float vertex data with the given
	// number of components per vertex.
	CreateVertexArray(data []float32, components int) VertexArrayID
	// BindVertexArray binds the array used by DrawArrays. Zero unbinds.
	BindVertexArray(id VertexArrayID)
	// DeleteVertexArray releases the array.
	DeleteVertexArray(id VertexArrayID)
	// DrawArrays draws count vertices starting at first as a triangle list.
	DrawArrays(first, count int)
}
