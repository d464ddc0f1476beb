package gfx

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned by cache lookups for names that were never
	// loaded or were removed by Clear.
	ErrNotFound = errors.New("gfx: resource not found")
	// ErrInvalidPixels is returned when texture data is missing or too short
	// for the requested dimensions.
	ErrInvalidPixels = errors.New("gfx: invalid pixel data")
	// ErrDeleted is returned when a deleted resource is regenerated.
	ErrDeleted = errors.New("gfx: resource deleted")
	// ErrUnsupportedStage is reported by devices that cannot run a stage kind.
	ErrUnsupportedStage = errors.New("gfx: unsupported shader stage")
)

// CompileError carries the diagnostic output of one failed stage compile or
// program link.
type CompileError struct {
	Stage string // VERTEX, FRAGMENT, GEOMETRY or PROGRAM
	Log   string
}

func (e *CompileError) Error() string {
	kind := "compile-time"
	if e.Stage == stageProgram {
		kind = "link-time"
	}
	log := strings.TrimSpace(e.Log)
	if log == "" {
		log = "(no info log)"
	}
	return fmt.Sprintf("gfx: %s error: type %s: %s", kind, e.Stage, log)
}
