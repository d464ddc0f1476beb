// Package spacehole is a small arcade game built on [Ebitengine].
//
// An arrow at the bottom of the screen swings left and right. Pressing Space
// launches a ball along the arrow's angle; landing the ball completely inside
// the hole near the top scores. Every [Tuning.HitsPerLevel] holes the hole
// shrinks.
//
// # Structure
//
// Game logic lives in [State], a plain value advanced one frame at a time by
// [State.Update]. It holds no resources and is tested without a window.
//
// Rendering goes through the gfx package: a [gfx.ResourceCache] owns the
// sprite shader and the textures, and a [gfx.SpriteRenderer] draws every
// sprite as one textured quad. The device underneath is either a
// [gfx.EbitenDevice] drawing to the window or a [gfx.HeadlessDevice] that only
// records draw calls.
//
// # Running
//
// [Run] opens a window:
//
//	g, err := spacehole.NewGame(gfx.NewEbitenDevice(), assets.FS, spacehole.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer g.Close()
//	return spacehole.Run(g)
//
// [RunHeadless] steps the same game on a [gfx.HeadlessDevice]. Attach a
// [TestRunner] to script key presses and screenshots:
//
//	runner, _ := spacehole.LoadTestScript(script)
//	g.SetTestRunner(runner)
//	spacehole.RunHeadless(g, spacehole.HeadlessOptions{})
//
// [Ebitengine]: https://ebitengine.org
package spacehole
