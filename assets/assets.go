// Package assets holds the default game assets: Kage shader stages, sprite
// textures and the background music loop.
package assets

import "embed"

// Paths of the bundled assets inside FS.
const (
	SpriteVertexShader   = "shaders/sprite.vert.kage"
	SpriteFragmentShader = "shaders/sprite.frag.kage"

	SpaceTexture = "textures/space.png"
	ArrowTexture = "textures/arrow.png"
	BallTexture  = "textures/ball.png"
	HoleTexture  = "textures/hole.png"

	MusicLoop = "sounds/loop.wav"
)

// FS is the embedded asset tree.
//
//go:embed shaders textures sounds
var FS embed.FS
