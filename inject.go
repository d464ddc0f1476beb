package spacehole

// syntheticKeyEvent is one injected key-state change for an action.
type syntheticKeyEvent struct {
	action  Action
	pressed bool
}

// InjectKeyPress queues a press of the action's key. The event is applied on
// the next frame's input step.
func (g *Game) InjectKeyPress(a Action) {
	g.injectQueue = append(g.injectQueue, syntheticKeyEvent{action: a, pressed: true})
}

// InjectKeyRelease queues a release of the action's key.
func (g *Game) InjectKeyRelease(a Action) {
	g.injectQueue = append(g.injectQueue, syntheticKeyEvent{action: a, pressed: false})
}

// InjectKeyTap queues a press followed by a release. Consumes two frames.
func (g *Game) InjectKeyTap(a Action) {
	g.InjectKeyPress(a)
	g.InjectKeyRelease(a)
}

// processInjectedInput applies one queued event. It returns true if an event
// was consumed, in which case real keyboard polling is skipped this frame.
func (g *Game) processInjectedInput() bool {
	if len(g.injectQueue) == 0 {
		return false
	}
	evt := g.injectQueue[0]
	copy(g.injectQueue, g.injectQueue[1:])
	g.injectQueue = g.injectQueue[:len(g.injectQueue)-1]

	g.keys.set(evt.action, evt.pressed)
	return true
}
