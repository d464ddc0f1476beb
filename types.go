package spacehole

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

var (
	// ColorWhite is the neutral sprite tint.
	ColorWhite = Color{1, 1, 1, 1}
	// ColorMagenta tints the placeholder drawn for missing textures.
	ColorMagenta = Color{1, 0, 1, 1}
)

// Tint returns the RGB part as the sprite shader's color uniform.
func (c Color) Tint() mgl32.Vec3 {
	return mgl32.Vec3{float32(c.R), float32(c.G), float32(c.B)}
}

// RGBA converts c to a straight-alpha color.NRGBA.
func (c Color) RGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R)*255 + 0.5),
		G: uint8(clamp01(c.G)*255 + 0.5),
		B: uint8(clamp01(c.B)*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}

// Vec2 is a 2D vector in screen pixels. Y increases downward.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }
func (v Vec2) LenSq() float64 { return v.Dot(v) }
func (v Vec2) Mgl() mgl32.Vec2 { return mgl32.Vec2{float32(v.X), float32(v.Y)} }

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Min returns the top-left corner.
func (r Rect) Min() Vec2 { return Vec2{r.X, r.Y} }

// Size returns the width and height as a vector.
func (r Rect) Size() Vec2 { return Vec2{r.Width, r.Height} }

// Circle is a disc in screen pixels.
type Circle struct {
	Center Vec2
	Radius float64
}

// Within reports whether c lies entirely inside outer: the distance between
// the centres is at most the difference of the radii.
func (c Circle) Within(outer Circle) bool {
	dr := c.Radius - outer.Radius
	return c.Center.Sub(outer.Center).LenSq() <= dr*dr
}

// Bounds returns the square that encloses c.
func (c Circle) Bounds() Rect {
	return Rect{
		X:      c.Center.X - c.Radius,
		Y:      c.Center.Y - c.Radius,
		Width:  2 * c.Radius,
		Height: 2 * c.Radius,
	}
}
