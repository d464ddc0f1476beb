package gfx

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// maxTextureUnits matches the source image slots of DrawTrianglesShader.
const maxTextureUnits = 4

// EbitenDevice renders through Ebitengine.
//
// Textures are ebiten images and programs are Kage shaders. Ebitengine's
// vertex stage is fixed, so a program's vertex source only declares the
// uniforms the device reads on the CPU (Model and Projection, both mat4);
// it is merged with the fragment source into one Kage unit when linking.
// Vertices are transformed by Projection*Model on the CPU, mapped from
// normalized device coordinates to target pixels and submitted with
// DrawTrianglesShader. Geometry stages are not supported.
//
// Sampling is done by the fragment program (imageSrc0At); the wrap and filter
// parameters are recorded but Ebitengine does not expose them for shader
// draws. Mipmaps are managed by Ebitengine.
type EbitenDevice struct {
	target *ebiten.Image
	nextID uint32

	textures map[TextureID]*ebitenTexture
	stages   map[StageID]*ebitenStage
	programs map[ProgramID]*ebitenProgram
	arrays   map[VertexArrayID]*vertexArray

	current    ProgramID
	activeUnit int
	units      [maxTextureUnits]TextureID
	bound      VertexArrayID
	blend      BlendMode

	verts []ebiten.Vertex
	inds  []uint16
	op    ebiten.DrawTrianglesShaderOptions
}

type ebitenTexture struct {
	img    *ebiten.Image
	params SamplerParams
}

type ebitenStage struct {
	kind     StageKind
	src      string
	unit     *kageUnit
	compiled bool
}

type ebitenProgram struct {
	stages     []StageID
	shader     *ebiten.Shader
	uniforms   []string
	values     map[string]any
	model      mgl32.Mat4
	projection mgl32.Mat4
}

type vertexArray struct {
	data       []float32
	components int
}

// NewEbitenDevice returns a device with no render target. Call SetTarget
// with the screen at the start of every Draw.
func NewEbitenDevice() *EbitenDevice {
	return &EbitenDevice{
		textures: make(map[TextureID]*ebitenTexture),
		stages:   make(map[StageID]*ebitenStage),
		programs: make(map[ProgramID]*ebitenProgram),
		arrays:   make(map[VertexArrayID]*vertexArray),
	}
}

// SetTarget selects the image subsequent Clear and DrawArrays calls render to.
func (d *EbitenDevice) SetTarget(img *ebiten.Image) {
	d.target = img
}

// Image returns the ebiten image backing a texture, or nil.
func (d *EbitenDevice) Image(id TextureID) *ebiten.Image {
	if t := d.textures[id]; t != nil {
		return t.img
	}
	return nil
}

func (d *EbitenDevice) id() uint32 {
	d.nextID++
	return d.nextID
}

// Clear implements Device.
func (d *EbitenDevice) Clear(r, g, b, a float32) {
	if d.target == nil {
		return
	}
	d.target.Fill(color.NRGBA{R: unitToByte(r), G: unitToByte(g), B: unitToByte(b), A: unitToByte(a)})
}

// SetBlendMode implements Device.
func (d *EbitenDevice) SetBlendMode(mode BlendMode) {
	d.blend = mode
}

// --- Textures ---

// CreateTexture implements Device.
func (d *EbitenDevice) CreateTexture() TextureID {
	id := TextureID(d.id())
	d.textures[id] = &ebitenTexture{}
	return id
}

// TexImage2D implements Device. Pixels are converted to premultiplied RGBA.
func (d *EbitenDevice) TexImage2D(id TextureID, img TextureImage) error {
	t := d.textures[id]
	if t == nil {
		return fmt.Errorf("tex image: unknown texture %d", id)
	}
	if t.img != nil {
		b := t.img.Bounds()
		if b.Dx() != img.Width || b.Dy() != img.Height {
			t.img.Deallocate()
			t.img = nil
		}
	}
	if t.img == nil {
		t.img = ebiten.NewImage(img.Width, img.Height)
	}
	t.img.WritePixels(premultipliedRGBA(img))
	return nil
}

// GenerateMipmap implements Device. Ebitengine builds mipmaps itself.
func (d *EbitenDevice) GenerateMipmap(TextureID) {}

// TexParameters implements Device.
func (d *EbitenDevice) TexParameters(id TextureID, p SamplerParams) {
	if t := d.textures[id]; t != nil {
		t.params = p
	}
}

// ActiveTexture implements Device.
func (d *EbitenDevice) ActiveTexture(unit int) {
	if unit >= 0 && unit < maxTextureUnits {
		d.activeUnit = unit
	}
}

// BindTexture implements Device.
func (d *EbitenDevice) BindTexture(id TextureID) {
	d.units[d.activeUnit] = id
}

// DeleteTexture implements Device.
func (d *EbitenDevice) DeleteTexture(id TextureID) {
	t := d.textures[id]
	if t == nil {
		return
	}
	if t.img != nil {
		t.img.Deallocate()
	}
	delete(d.textures, id)
	for i := range d.units {
		if d.units[i] == id {
			d.units[i] = 0
		}
	}
}

// --- Programs ---

// CreateStage implements Device.
func (d *EbitenDevice) CreateStage(kind StageKind, src string) StageID {
	id := StageID(d.id())
	d.stages[id] = &ebitenStage{kind: kind, src: src}
	return id
}

// CompileStage implements Device. Stages are parsed as Kage units; the
// Fragment entry point must live in the fragment stage.
func (d *EbitenDevice) CompileStage(id StageID) (bool, string) {
	st := d.stages[id]
	if st == nil {
		return false, fmt.Sprintf("unknown stage %d", id)
	}
	if st.kind == StageGeometry {
		return false, ErrUnsupportedStage.Error() + ": Ebitengine has no geometry stage"
	}
	u, err := parseKage(st.src)
	if err != nil {
		return false, err.Error()
	}
	switch st.kind {
	case StageFragment:
		if !u.hasFunc("Fragment") {
			return false, "missing Fragment function"
		}
	case StageVertex:
		if u.hasFunc("Fragment") {
			return false, "vertex stage must not define Fragment"
		}
	}
	st.unit = u
	st.compiled = true
	return true, ""
}

// DeleteStage implements Device.
func (d *EbitenDevice) DeleteStage(id StageID) {
	delete(d.stages, id)
}

// CreateProgram implements Device.
func (d *EbitenDevice) CreateProgram() ProgramID {
	id := ProgramID(d.id())
	d.programs[id] = &ebitenProgram{
		model:      mgl32.Ident4(),
		projection: mgl32.Ident4(),
	}
	return id
}

// AttachStage implements Device.
func (d *EbitenDevice) AttachStage(program ProgramID, stage StageID) {
	if p := d.programs[program]; p != nil {
		p.stages = append(p.stages, stage)
	}
}

// LinkProgram implements Device. It needs exactly one compiled vertex and
// one compiled fragment stage.
func (d *EbitenDevice) LinkProgram(program ProgramID) (bool, string) {
	p := d.programs[program]
	if p == nil {
		return false, fmt.Sprintf("unknown program %d", program)
	}
	var vertex, fragment *kageUnit
	for _, id := range p.stages {
		st := d.stages[id]
		if st == nil {
			return false, fmt.Sprintf("stage %d was deleted before linking", id)
		}
		if !st.compiled {
			return false, fmt.Sprintf("attached %s stage is not compiled", st.kind)
		}
		switch st.kind {
		case StageVertex:
			if vertex != nil {
				return false, "more than one VERTEX stage attached"
			}
			vertex = st.unit
		case StageFragment:
			if fragment != nil {
				return false, "more than one FRAGMENT stage attached"
			}
			fragment = st.unit
		}
	}
	if vertex == nil || fragment == nil {
		return false, "program needs a VERTEX and a FRAGMENT stage"
	}

	src, uniforms := mergeKage(vertex, fragment)
	sh, err := ebiten.NewShader([]byte(src))
	if err != nil {
		return false, err.Error()
	}
	p.shader = sh
	p.uniforms = uniforms
	p.values = make(map[string]any, len(uniforms))
	return true, ""
}

// UseProgram implements Device.
func (d *EbitenDevice) UseProgram(program ProgramID) {
	d.current = program
}

// DeleteProgram implements Device.
func (d *EbitenDevice) DeleteProgram(program ProgramID) {
	p := d.programs[program]
	if p == nil {
		return
	}
	if p.shader != nil {
		p.shader.Deallocate()
	}
	delete(d.programs, program)
	if d.current == program {
		d.current = 0
	}
}

// UniformLocation implements Device. Locations follow declaration order in
// the merged program.
func (d *EbitenDevice) UniformLocation(program ProgramID, name string) int32 {
	p := d.programs[program]
	if p == nil {
		return -1
	}
	for i, u := range p.uniforms {
		if u == name {
			return int32(i)
		}
	}
	return -1
}

func (d *EbitenDevice) uniform(loc int32, v any) (*ebitenProgram, string) {
	p := d.programs[d.current]
	if p == nil || loc < 0 || int(loc) >= len(p.uniforms) {
		return nil, ""
	}
	name := p.uniforms[loc]
	p.values[name] = v
	return p, name
}

func (d *EbitenDevice) Uniform1f(loc int32, v float32) { d.uniform(loc, v) }
func (d *EbitenDevice) Uniform1i(loc int32, v int32) { d.uniform(loc, v) }

func (d *EbitenDevice) Uniform2f(loc int32, v mgl32.Vec2) { d.uniform(loc, []float32{v[0], v[1]}) }
func (d *EbitenDevice) Uniform3f(loc int32, v mgl32.Vec3) {
	d.uniform(loc, []float32{v[0], v[1], v[2]})
}
func (d *EbitenDevice) Uniform4f(loc int32, v mgl32.Vec4) {
	d.uniform(loc, []float32{v[0], v[1], v[2], v[3]})
}

// UniformMatrix4f implements Device. Model and Projection also drive the
// CPU vertex transform.
func (d *EbitenDevice) UniformMatrix4f(loc int32, m mgl32.Mat4) {
	vals := make([]float32, 16)
	copy(vals, m[:])
	p, name := d.uniform(loc, vals)
	if p == nil {
		return
	}
	switch name {
	case UniformModel:
		p.model = m
	case UniformProjection:
		p.projection = m
	}
}

// --- Geometry ---

// CreateVertexArray implements Device.
func (d *EbitenDevice) CreateVertexArray(data []float32, components int) VertexArrayID {
	id := VertexArrayID(d.id())
	d.arrays[id] = &vertexArray{data: append([]float32(nil), data...), components: components}
	return id
}

// BindVertexArray implements Device.
func (d *EbitenDevice) BindVertexArray(id VertexArrayID) {
	d.bound = id
}

// DeleteVertexArray implements Device.
func (d *EbitenDevice) DeleteVertexArray(id VertexArrayID) {
	delete(d.arrays, id)
	if d.bound == id {
		d.bound = 0
	}
}

// DrawArrays implements Device. Each vertex is (x, y, u, v); u and v are
// scaled to the size of the texture bound to unit 0.
func (d *EbitenDevice) DrawArrays(first, count int) {
	if d.target == nil || count <= 0 {
		return
	}
	p := d.programs[d.current]
	if p == nil || p.shader == nil {
		return
	}
	va := d.arrays[d.bound]
	if va == nil || va.components < 4 || first < 0 || (first+count)*va.components > len(va.data) {
		return
	}
	if count > 0xFFFF {
		return
	}

	srcW, srcH := float32(1), float32(1)
	var src *ebiten.Image
	if t := d.textures[d.units[0]]; t != nil && t.img != nil {
		src = t.img
		b := src.Bounds()
		srcW, srcH = float32(b.Dx()), float32(b.Dy())
	}

	tb := d.target.Bounds()
	mvp := p.projection.Mul4(p.model)

	d.verts = d.verts[:0]
	d.inds = d.inds[:0]
	for i := 0; i < count; i++ {
		o := (first + i) * va.components
		x, y := ndcToTarget(TransformPoint(mvp, mgl32.Vec2{va.data[o], va.data[o+1]}), tb.Dx(), tb.Dy())
		d.verts = append(d.verts, ebiten.Vertex{
			DstX:   x + float32(tb.Min.X),
			DstY:   y + float32(tb.Min.Y),
			SrcX:   va.data[o+2] * srcW,
			SrcY:   va.data[o+3] * srcH,
			ColorR: 1,
			ColorG: 1,
			ColorB: 1,
			ColorA: 1,
		})
		d.inds = append(d.inds, uint16(i))
	}

	d.op.Uniforms = p.values
	d.op.Images = [4]*ebiten.Image{src}
	d.op.Blend = d.blend.EbitenBlend()
	d.target.DrawTrianglesShader(d.verts, d.inds, p.shader, &d.op)
}

// premultipliedRGBA expands img to premultiplied RGBA as WritePixels expects.
// Alpha is kept only when both formats carry it.
func premultipliedRGBA(img TextureImage) []byte {
	n := img.Width * img.Height
	bpp := img.Format.BytesPerPixel()
	keepAlpha := img.Format == FormatRGBA && img.InternalFormat == FormatRGBA
	out := make([]byte, 4*n)
	for i := 0; i < n; i++ {
		s := img.Pixels[i*bpp : i*bpp+bpp]
		a := uint16(255)
		if keepAlpha {
			a = uint16(s[3])
		}
		out[4*i] = byte(uint16(s[0]) * a / 255)
		out[4*i+1] = byte(uint16(s[1]) * a / 255)
		out[4*i+2] = byte(uint16(s[2]) * a / 255)
		out[4*i+3] = byte(a)
	}
	return out
}

func unitToByte(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
