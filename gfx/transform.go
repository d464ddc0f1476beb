package gfx

import "github.com/go-gl/mathgl/mgl32"

// SpriteModel returns the model matrix that maps the unit quad onto a sprite.
//
// Read right to left:
//
//	Scale(size) -> Translate(-pivot) -> RotateZ(rotate) -> Translate(pivot) -> Translate(position)
//
// where pivot = (0.5*size.x, pivotY*size.y). Rotation therefore happens
// about the pivot rather than the sprite's top-left corner.
func SpriteModel(position, size mgl32.Vec2, rotate, pivotY float32) mgl32.Mat4 {
	px := 0.5 * size.X()
	py := pivotY * size.Y()

	model := mgl32.Translate3D(position.X(), position.Y(), 0)
	model = model.Mul4(mgl32.Translate3D(px, py, 0))
	model = model.Mul4(mgl32.HomogRotate3DZ(rotate))
	model = model.Mul4(mgl32.Translate3D(-px, -py, 0))
	return model.Mul4(mgl32.Scale3D(size.X(), size.Y(), 1))
}

// ScreenProjection returns an orthographic projection for a width x height
// target with the origin at the top-left and Y increasing downward.
func ScreenProjection(width, height int) mgl32.Mat4 {
	return mgl32.Ortho(0, float32(width), float32(height), 0, -1, 1)
}

// TransformPoint applies m to the 2D point p (z = 0, w = 1) and returns the
// perspective-divided x and y.
func TransformPoint(m mgl32.Mat4, p mgl32.Vec2) mgl32.Vec2 {
	v := m.Mul4x1(mgl32.Vec4{p.X(), p.Y(), 0, 1})
	w := v.W()
	if w == 0 {
		w = 1
	}
	return mgl32.Vec2{v.X() / w, v.Y() / w}
}

// ndcToTarget maps normalized device coordinates to pixel coordinates of a
// width x height target whose origin is the top-left corner.
func ndcToTarget(ndc mgl32.Vec2, width, height int) (x, y float32) {
	x = (ndc.X() + 1) / 2 * float32(width)
	y = (1 - ndc.Y()) / 2 * float32(height)
	return x, y
}
