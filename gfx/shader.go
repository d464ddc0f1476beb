package gfx

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

// Shader owns one linked device program and caches its uniform locations.
type Shader struct {
	dev Device

	ID ProgramID

	locations map[string]int32
}

// NewShader returns an empty shader bound to dev. It has no program until
// Compile succeeds.
func NewShader(dev Device) *Shader {
	return &Shader{dev: dev}
}

// Valid reports whether the shader holds a linked program.
func (s *Shader) Valid() bool {
	return s.ID != 0
}

// Compile builds a program from vertex and fragment source and, when
// geometrySrc is non-empty, a geometry stage. Every stage is compiled and
// the program is linked even after an earlier failure so that all
// diagnostics are reported together as *CompileError values joined into the
// returned error. The intermediate stage objects are always released.
//
// On failure the shader keeps its previous program, if any.
func (s *Shader) Compile(vertexSrc, fragmentSrc, geometrySrc string) error {
	var errs []error

	compile := func(kind StageKind, src string) StageID {
		id := s.dev.CreateStage(kind, src)
		if ok, log := s.dev.CompileStage(id); !ok {
			errs = append(errs, &CompileError{Stage: kind.String(), Log: log})
		}
		return id
	}

	stages := []StageID{
		compile(StageVertex, vertexSrc),
		compile(StageFragment, fragmentSrc),
	}
	if geometrySrc != "" {
		stages = append(stages, compile(StageGeometry, geometrySrc))
	}

	program := s.dev.CreateProgram()
	for _, st := range stages {
		s.dev.AttachStage(program, st)
	}
	if ok, log := s.dev.LinkProgram(program); !ok {
		errs = append(errs, &CompileError{Stage: stageProgram, Log: log})
	}
	for _, st := range stages {
		s.dev.DeleteStage(st)
	}

	if len(errs) > 0 {
		s.dev.DeleteProgram(program)
		return errors.Join(errs...)
	}

	if s.ID != 0 {
		s.dev.DeleteProgram(s.ID)
	}
	s.ID = program
	s.locations = nil
	return nil
}

// Use makes the program current and returns s for chaining.
func (s *Shader) Use() *Shader {
	s.dev.UseProgram(s.ID)
	return s
}

// Delete releases the program.
func (s *Shader) Delete() {
	if s.ID == 0 {
		return
	}
	s.dev.DeleteProgram(s.ID)
	s.ID = 0
	s.locations = nil
}

// location returns the cached location of a uniform, querying the device on
// first use. Missing uniforms are cached as -1.
func (s *Shader) location(name string) int32 {
	if loc, ok := s.locations[name]; ok {
		return loc
	}
	loc := s.dev.UniformLocation(s.ID, name)
	if s.locations == nil {
		s.locations = make(map[string]int32)
	}
	s.locations[name] = loc
	return loc
}

// prepare optionally activates the program and resolves the uniform.
// It reports false when the uniform does not exist.
func (s *Shader) prepare(name string, useShader bool) (int32, bool) {
	if useShader {
		s.Use()
	}
	loc := s.location(name)
	return loc, loc >= 0
}

// SetFloat sets a float uniform. Unknown names are ignored.
func (s *Shader) SetFloat(name string, v float32, useShader bool) {
	if loc, ok := s.prepare(name, useShader); ok {
		s.dev.Uniform1f(loc, v)
	}
}

// SetInteger sets an int uniform. Unknown names are ignored.
func (s *Shader) SetInteger(name string, v int32, useShader bool) {
	if loc, ok := s.prepare(name, useShader); ok {
		s.dev.Uniform1i(loc, v)
	}
}

// SetVector2f sets a vec2 uniform. Unknown names are ignored.
func (s *Shader) SetVector2f(name string, v mgl32.Vec2, useShader bool) {
	if loc, ok := s.prepare(name, useShader); ok {
		s.dev.Uniform2f(loc, v)
	}
}

// SetVector3f sets a vec3 uniform. Unknown names are ignored.
func (s *Shader) SetVector3f(name string, v mgl32.Vec3, useShader bool) {
	if loc, ok := s.prepare(name, useShader); ok {
		s.dev.Uniform3f(loc, v)
	}
}

// SetVector4f sets a vec4 uniform. Unknown names are ignored.
func (s *Shader) SetVector4f(name string, v mgl32.Vec4, useShader bool) {
	if loc, ok := s.prepare(name, useShader); ok {
		s.dev.Uniform4f(loc, v)
	}
}

// SetMatrix4 sets a mat4 uniform. Unknown names are ignored.
func (s *Shader) SetMatrix4(name string, m mgl32.Mat4, useShader bool) {
	if loc, ok := s.prepare(name, useShader); ok {
		s.dev.UniformMatrix4f(loc, m)
	}
}

// adopt moves src's program into s, releasing s's old program.
func (s *Shader) adopt(src *Shader) {
	if s.ID != 0 && s.ID != src.ID {
		s.dev.DeleteProgram(s.ID)
	}
	s.ID = src.ID
	s.locations = nil
	src.ID = 0
	src.locations = nil
}
