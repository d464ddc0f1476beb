package gfx

import (
	"fmt"
	"maps"
	"regexp"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// HeadlessDevice implements Device in memory. It validates call order the
// way a driver would, keeps copies of everything uploaded and records each
// draw, so tests and the headless game mode can inspect a frame.
//
// A stage fails to compile when its source is blank or contains a line
// starting with "#error"; the rest of that line becomes the info log.
// Uniforms are discovered from GLSL "uniform T name;" and Kage "var Name T"
// declarations.
type HeadlessDevice struct {
	Width, Height int

	ClearColor mgl32.Vec4
	Blend      BlendMode
	Draws      []DrawCall
	Frames     int // number of Clear calls

	nextID   uint32
	textures map[TextureID]*HeadlessTexture
	stages   map[StageID]*headlessStage
	programs map[ProgramID]*HeadlessProgram
	arrays   map[VertexArrayID]*vertexArray
	attached map[ProgramID][]StageID

	current    ProgramID
	activeUnit int
	units      [maxTextureUnits]TextureID
	bound      VertexArrayID
}

// HeadlessTexture is the recorded state of one texture.
type HeadlessTexture struct {
	Width, Height  int
	InternalFormat PixelFormat
	Format         PixelFormat
	Pixels         []byte
	Params         SamplerParams
	Mipmapped      bool
}

// HeadlessProgram is the recorded state of one program.
type HeadlessProgram struct {
	Stages   []StageKind
	Linked   bool
	Uniforms []string
	Values   map[string]any
}

type headlessStage struct {
	kind     StageKind
	src      string
	compiled bool
}

// DrawCall is one recorded DrawArrays.
type DrawCall struct {
	Program  ProgramID
	Texture  TextureID
	Blend    BlendMode
	First    int
	Count    int
	Uniforms map[string]any
	// Vertices holds the drawn positions in target pixels.
	Vertices []mgl32.Vec2
}

// Matrix returns a recorded mat4 uniform.
func (c DrawCall) Matrix(name string) (mgl32.Mat4, bool) {
	m, ok := c.Uniforms[name].(mgl32.Mat4)
	return m, ok
}

// Vec3 returns a recorded vec3 uniform.
func (c DrawCall) Vec3(name string) (mgl32.Vec3, bool) {
	v, ok := c.Uniforms[name].(mgl32.Vec3)
	return v, ok
}

// Bounds returns the axis-aligned box around the drawn vertices.
func (c DrawCall) Bounds() (lo, hi mgl32.Vec2) {
	if len(c.Vertices) == 0 {
		return lo, hi
	}
	lo, hi = c.Vertices[0], c.Vertices[0]
	for _, v := range c.Vertices[1:] {
		lo = mgl32.Vec2{min(lo[0], v[0]), min(lo[1], v[1])}
		hi = mgl32.Vec2{max(hi[0], v[0]), max(hi[1], v[1])}
	}
	return lo, hi
}

// NewHeadlessDevice returns a device with a width x height virtual target.
func NewHeadlessDevice(width, height int) *HeadlessDevice {
	return &HeadlessDevice{
		Width:    width,
		Height:   height,
		textures: make(map[TextureID]*HeadlessTexture),
		stages:   make(map[StageID]*headlessStage),
		programs: make(map[ProgramID]*HeadlessProgram),
		arrays:   make(map[VertexArrayID]*vertexArray),
		attached: make(map[ProgramID][]StageID),
	}
}

func (d *HeadlessDevice) id() uint32 {
	d.nextID++
	return d.nextID
}

// Texture returns the recorded state of a live texture, or nil.
func (d *HeadlessDevice) Texture(id TextureID) *HeadlessTexture {
	return d.textures[id]
}

// Program returns the recorded state of a live program, or nil.
func (d *HeadlessDevice) Program(id ProgramID) *HeadlessProgram {
	return d.programs[id]
}

// CurrentProgram returns the program selected by UseProgram.
func (d *HeadlessDevice) CurrentProgram() ProgramID {
	return d.current
}

// BoundTexture returns the texture bound to a unit.
func (d *HeadlessDevice) BoundTexture(unit int) TextureID {
	if unit < 0 || unit >= maxTextureUnits {
		return 0
	}
	return d.units[unit]
}

// Live reports how many objects of each kind have not been deleted.
func (d *HeadlessDevice) Live() (textures, stages, programs, arrays int) {
	return len(d.textures), len(d.stages), len(d.programs), len(d.arrays)
}

// Clear implements Device. It starts a new frame and drops recorded draws.
func (d *HeadlessDevice) Clear(r, g, b, a float32) {
	d.ClearColor = mgl32.Vec4{r, g, b, a}
	d.Draws = d.Draws[:0]
	d.Frames++
}

// SetBlendMode implements Device.
func (d *HeadlessDevice) SetBlendMode(mode BlendMode) {
	d.Blend = mode
}

// CreateTexture implements Device.
func (d *HeadlessDevice) CreateTexture() TextureID {
	id := TextureID(d.id())
	d.textures[id] = &HeadlessTexture{}
	return id
}

// TexImage2D implements Device.
func (d *HeadlessDevice) TexImage2D(id TextureID, img TextureImage) error {
	t := d.textures[id]
	if t == nil {
		return fmt.Errorf("tex image: unknown texture %d", id)
	}
	if img.Width <= 0 || img.Height <= 0 {
		return fmt.Errorf("tex image: size %dx%d: %w", img.Width, img.Height, ErrInvalidPixels)
	}
	n := img.Width * img.Height * img.Format.BytesPerPixel()
	if len(img.Pixels) < n {
		return fmt.Errorf("tex image: got %d bytes, need %d: %w", len(img.Pixels), n, ErrInvalidPixels)
	}
	t.Width, t.Height = img.Width, img.Height
	t.InternalFormat = img.InternalFormat
	t.Format = img.Format
	t.Pixels = append(t.Pixels[:0], img.Pixels[:n]...)
	t.Mipmapped = false
	return nil
}

// GenerateMipmap implements Device.
func (d *HeadlessDevice) GenerateMipmap(id TextureID) {
	if t := d.textures[id]; t != nil && t.Pixels != nil {
		t.Mipmapped = true
	}
}

// TexParameters implements Device.
func (d *HeadlessDevice) TexParameters(id TextureID, p SamplerParams) {
	if t := d.textures[id]; t != nil {
		t.Params = p
	}
}

// ActiveTexture implements Device.
func (d *HeadlessDevice) ActiveTexture(unit int) {
	if unit >= 0 && unit < maxTextureUnits {
		d.activeUnit = unit
	}
}

// BindTexture implements Device.
func (d *HeadlessDevice) BindTexture(id TextureID) {
	d.units[d.activeUnit] = id
}

// DeleteTexture implements Device.
func (d *HeadlessDevice) DeleteTexture(id TextureID) {
	delete(d.textures, id)
	for i := range d.units {
		if d.units[i] == id {
			d.units[i] = 0
		}
	}
}

// CreateStage implements Device.
func (d *HeadlessDevice) CreateStage(kind StageKind, src string) StageID {
	id := StageID(d.id())
	d.stages[id] = &headlessStage{kind: kind, src: src}
	return id
}

// CompileStage implements Device.
func (d *HeadlessDevice) CompileStage(id StageID) (bool, string) {
	st := d.stages[id]
	if st == nil {
		return false, fmt.Sprintf("unknown stage %d", id)
	}
	if strings.TrimSpace(st.src) == "" {
		return false, "empty source"
	}
	for _, line := range strings.Split(st.src, "\n") {
		if msg, ok := strings.CutPrefix(strings.TrimSpace(line), "#error"); ok {
			return false, strings.TrimSpace(msg)
		}
	}
	st.compiled = true
	return true, ""
}

// DeleteStage implements Device.
func (d *HeadlessDevice) DeleteStage(id StageID) {
	delete(d.stages, id)
}

// CreateProgram implements Device.
func (d *HeadlessDevice) CreateProgram() ProgramID {
	id := ProgramID(d.id())
	d.programs[id] = &HeadlessProgram{}
	return id
}

// AttachStage implements Device.
func (d *HeadlessDevice) AttachStage(program ProgramID, stage StageID) {
	p := d.programs[program]
	st := d.stages[stage]
	if p == nil || st == nil {
		return
	}
	p.Stages = append(p.Stages, st.kind)
	d.attached[program] = append(d.attached[program], stage)
}

var (
	glslUniform = regexp.MustCompile(`(?m)^\s*uniform\s+\w+\s+(\w+)\s*(?:\[\s*\d+\s*\])?\s*;`)
	kageUniform = regexp.MustCompile(`(?m)^\s*var\s+([A-Za-z_]\w*)\s+\w+`)
)

// LinkProgram implements Device.
func (d *HeadlessDevice) LinkProgram(program ProgramID) (bool, string) {
	p := d.programs[program]
	if p == nil {
		return false, fmt.Sprintf("unknown program %d", program)
	}
	ids := d.attached[program]
	delete(d.attached, program)

	var hasVertex, hasFragment bool
	var uniforms []string
	seen := make(map[string]bool)
	for _, id := range ids {
		st := d.stages[id]
		if st == nil {
			return false, fmt.Sprintf("stage %d was deleted before linking", id)
		}
		if !st.compiled {
			return false, fmt.Sprintf("attached %s stage is not compiled", st.kind)
		}
		switch st.kind {
		case StageVertex:
			hasVertex = true
		case StageFragment:
			hasFragment = true
		}
		for _, re := range []*regexp.Regexp{glslUniform, kageUniform} {
			for _, m := range re.FindAllStringSubmatch(st.src, -1) {
				if !seen[m[1]] {
					seen[m[1]] = true
					uniforms = append(uniforms, m[1])
				}
			}
		}
	}
	if !hasVertex || !hasFragment {
		return false, "program needs a VERTEX and a FRAGMENT stage"
	}
	p.Linked = true
	p.Uniforms = uniforms
	p.Values = make(map[string]any, len(uniforms))
	return true, ""
}

// UseProgram implements Device.
func (d *HeadlessDevice) UseProgram(program ProgramID) {
	d.current = program
}

// DeleteProgram implements Device.
func (d *HeadlessDevice) DeleteProgram(program ProgramID) {
	delete(d.attached, program)
	delete(d.programs, program)
	if d.current == program {
		d.current = 0
	}
}

// UniformLocation implements Device.
func (d *HeadlessDevice) UniformLocation(program ProgramID, name string) int32 {
	p := d.programs[program]
	if p == nil || !p.Linked {
		return -1
	}
	for i, u := range p.Uniforms {
		if u == name {
			return int32(i)
		}
	}
	return -1
}

func (d *HeadlessDevice) uniform(loc int32, v any) {
	p := d.programs[d.current]
	if p == nil || !p.Linked || loc < 0 || int(loc) >= len(p.Uniforms) {
		return
	}
	p.Values[p.Uniforms[loc]] = v
}

func (d *HeadlessDevice) Uniform1f(loc int32, v float32) { d.uniform(loc, v) }
func (d *HeadlessDevice) Uniform1i(loc int32, v int32) { d.uniform(loc, v) }
func (d *HeadlessDevice) Uniform2f(loc int32, v mgl32.Vec2) { d.uniform(loc, v) }
func (d *HeadlessDevice) Uniform3f(loc int32, v mgl32.Vec3) { d.uniform(loc, v) }
func (d *HeadlessDevice) Uniform4f(loc int32, v mgl32.Vec4) { d.uniform(loc, v) }
func (d *HeadlessDevice) UniformMatrix4f(loc int32, m mgl32.Mat4) { d.uniform(loc, m) }

// CreateVertexArray implements Device.
func (d *HeadlessDevice) CreateVertexArray(data []float32, components int) VertexArrayID {
	id := VertexArrayID(d.id())
	d.arrays[id] = &vertexArray{data: append([]float32(nil), data...), components: components}
	return id
}

// BindVertexArray implements Device.
func (d *HeadlessDevice) BindVertexArray(id VertexArrayID) {
	d.bound = id
}

// DeleteVertexArray implements Device.
func (d *HeadlessDevice) DeleteVertexArray(id VertexArrayID) {
	delete(d.arrays, id)
	if d.bound == id {
		d.bound = 0
	}
}

// DrawArrays implements Device. Draws without a linked program or a bound
// vertex array are dropped, as a driver would reject them.
func (d *HeadlessDevice) DrawArrays(first, count int) {
	p := d.programs[d.current]
	va := d.arrays[d.bound]
	if p == nil || !p.Linked || va == nil || count <= 0 || va.components < 2 {
		return
	}
	if first < 0 || (first+count)*va.components > len(va.data) {
		return
	}

	model, ok := p.Values[UniformModel].(mgl32.Mat4)
	if !ok {
		model = mgl32.Ident4()
	}
	projection, ok := p.Values[UniformProjection].(mgl32.Mat4)
	if !ok {
		projection = mgl32.Ident4()
	}
	mvp := projection.Mul4(model)

	verts := make([]mgl32.Vec2, count)
	for i := range verts {
		o := (first + i) * va.components
		x, y := ndcToTarget(TransformPoint(mvp, mgl32.Vec2{va.data[o], va.data[o+1]}), d.Width, d.Height)
		verts[i] = mgl32.Vec2{x, y}
	}

	d.Draws = append(d.Draws, DrawCall{
		Program:  d.current,
		Texture:  d.units[0],
		Blend:    d.Blend,
		First:    first,
		Count:    count,
		Uniforms: maps.Clone(p.Values),
		Vertices: verts,
	})
}
