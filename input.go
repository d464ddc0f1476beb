package spacehole

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// Action is a logical input the game reacts to.
type Action uint8

const (
	ActionQuit   Action = iota // leave the game from any phase
	ActionUp                   // previous menu item
	ActionDown                 // next menu item
	ActionSelect               // confirm menu item
	ActionFire                 // launch the ball
	actionCount
)

var actionNames = [actionCount]string{"quit", "up", "down", "select", "fire"}

func (a Action) String() string {
	if a < actionCount {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", uint8(a))
}

// ParseAction returns the action with the given name, ignoring case.
func ParseAction(name string) (Action, error) {
	for i, n := range actionNames {
		if strings.EqualFold(n, name) {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", name)
}

// KeySource reports raw key state. EbitenKeys reads the real keyboard.
type KeySource interface {
	IsKeyPressed(key ebiten.Key) bool
}

// EbitenKeys polls Ebitengine's keyboard state.
type EbitenKeys struct{}

// IsKeyPressed implements KeySource.
func (EbitenKeys) IsKeyPressed(key ebiten.Key) bool {
	return ebiten.IsKeyPressed(key)
}

// keyboard tracks per-action held state plus a processed flag that turns a
// held key into a single edge. The flag is cleared on release.
type keyboard struct {
	bindings  [actionCount]ebiten.Key
	down      [actionCount]bool
	processed [actionCount]bool
}

func newKeyboard(b KeyBindings) *keyboard {
	k := &keyboard{}
	k.bindings[ActionQuit] = b.Quit
	k.bindings[ActionUp] = b.Up
	k.bindings[ActionDown] = b.Down
	k.bindings[ActionSelect] = b.Select
	k.bindings[ActionFire] = b.Fire
	return k
}

// set records a key-state change for an action.
func (k *keyboard) set(a Action, pressed bool) {
	if a >= actionCount {
		return
	}
	k.down[a] = pressed
	if !pressed {
		k.processed[a] = false
	}
}

// poll refreshes every action from src.
func (k *keyboard) poll(src KeySource) {
	for a := Action(0); a < actionCount; a++ {
		k.set(a, src.IsKeyPressed(k.bindings[a]))
	}
}

// held reports whether the action's key is down.
func (k *keyboard) held(a Action) bool {
	return a < actionCount && k.down[a]
}

// consume reports true once per press: the key must be released before it
// fires again.
func (k *keyboard) consume(a Action) bool {
	if !k.held(a) || k.processed[a] {
		return false
	}
	k.processed[a] = true
	return true
}
