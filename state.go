package spacehole

import (
	"math"
	"time"
)

// Phase is the game's current mode. It is one of MenuPhase, AimingPhase or
// ShootingPhase. Phases are values: mutate a copy and store it back.
type Phase interface {
	isPhase()
	String() string
}

// MenuItem is an entry of the main menu.
type MenuItem uint8

const (
	MenuStart MenuItem = iota
	MenuHelp
	MenuExit
	menuItemCount
)

var menuLabels = [menuItemCount]string{"Start", "Help", "Exit"}

func (m MenuItem) String() string {
	if m < menuItemCount {
		return menuLabels[m]
	}
	return "?"
}

// Next returns the item below m, wrapping to the top.
func (m MenuItem) Next() MenuItem { return (m + 1) % menuItemCount }

// Prev returns the item above m, wrapping to the bottom.
func (m MenuItem) Prev() MenuItem { return (m + menuItemCount - 1) % menuItemCount }

// countdownFrom is the first number shown after Start is selected.
const countdownFrom = 3

// MenuPhase shows the main menu, the help screen or the pre-game countdown.
type MenuPhase struct {
	Selection MenuItem
	Help      bool
	Countdown int // 3, 2, 1 while counting; 0 otherwise

	elapsed time.Duration
}

// AimingPhase waits for the player to fire.
type AimingPhase struct{}

// ShootingPhase moves the ball along the launch angle.
type ShootingPhase struct {
	LaunchAngle float64 // aim angle when the ball was fired
	Distance    float64 // travelled pixels beyond the arrow tip
}

func (MenuPhase) isPhase() {}
func (AimingPhase) isPhase() {}
func (ShootingPhase) isPhase() {}

func (p MenuPhase) String() string {
	switch {
	case p.Countdown > 0:
		return "countdown"
	case p.Help:
		return "help"
	}
	return "menu"
}
func (AimingPhase) String() string { return "aiming" }
func (ShootingPhase) String() string { return "shooting" }

// Oscillator swings Angle back and forth. Once Angle has passed Limit on
// either side the direction flips, so Angle stays within
// [-Limit-|Step|, Limit+|Step|].
type Oscillator struct {
	Angle float64
	Step  float64
	Limit float64
}

// Advance moves the oscillator by one frame.
func (o *Oscillator) Advance() {
	if o.Angle > o.Limit || o.Angle < -o.Limit {
		o.Step = -o.Step
	}
	o.Angle += o.Step
}

// Layout is the fixed playfield geometry derived from the screen size.
type Layout struct {
	Screen       Rect
	Arrow        Rect // unrotated arrow sprite
	BallDiameter float64
	HoleCenter   Vec2
	HoleDiameter float64 // level 1 diameter
}

// NewLayout sizes the playfield for a width x height screen.
func NewLayout(width, height int) Layout {
	w, h := float64(width), float64(height)
	aw, al := w/10, h/4
	return Layout{
		Screen:       Rect{Width: w, Height: h},
		Arrow:        Rect{X: w/2 - aw/2, Y: 5*h/6 - al/2, Width: aw, Height: al},
		BallDiameter: w / 14,
		HoleCenter:   Vec2{w / 2, h / 5},
		HoleDiameter: w / 3,
	}
}

// Pivot returns the point the arrow rotates about: its centre.
func (l Layout) Pivot() Vec2 {
	return Vec2{l.Arrow.X + l.Arrow.Width/2, l.Arrow.Y + l.Arrow.Height/2}
}

// Ball returns the ball's circle after travelling distance along angle.
// Angle zero points straight up; positive angles lean right.
func (l Layout) Ball(angle, distance float64) Circle {
	r := l.Arrow.Height/2 + distance
	return Circle{
		Center: l.Pivot().Add(Vec2{r * math.Sin(angle), -r * math.Cos(angle)}),
		Radius: l.BallDiameter / 2,
	}
}

// Outside reports whether the ball's box has left the screen: either its
// top-left or bottom-right corner lies beyond an edge.
func (l Layout) Outside(ball Circle) bool {
	b := ball.Bounds()
	return !l.Screen.Contains(b.X, b.Y) || !l.Screen.Contains(b.X+b.Width, b.Y+b.Height)
}

// Hole is the scoring target.
type Hole struct {
	Center   Vec2
	Diameter float64
}

// Circle returns the hole as a disc.
func (h Hole) Circle() Circle {
	return Circle{Center: h.Center, Radius: h.Diameter / 2}
}

// State is the complete game state. It holds no resources.
type State struct {
	Phase Phase
	Aim   Oscillator
	Hole  Hole
	Hits  int // holes scored on the current level
	Score int // holes scored in total
	Level int
	Shots int
}

// Events reports what happened during one Update.
type Events struct {
	Quit    bool
	Started bool // countdown finished
	Fired   bool
	Scored  bool
	Missed  bool
	LevelUp bool
}

// NewState returns the initial state: the menu, or aiming when skipMenu.
func NewState(l Layout, t Tuning, skipMenu bool) State {
	s := State{
		Phase: MenuPhase{},
		Aim:   Oscillator{Step: t.AimStep, Limit: t.AimLimit},
		Hole:  Hole{Center: l.HoleCenter, Diameter: l.HoleDiameter},
		Level: 1,
	}
	if skipMenu {
		s.Phase = AimingPhase{}
	}
	return s
}

// Ball returns the flying ball, if any.
func (s *State) Ball(l Layout) (Circle, bool) {
	p, ok := s.Phase.(ShootingPhase)
	if !ok {
		return Circle{}, false
	}
	return l.Ball(p.LaunchAngle, p.Distance), true
}

// Update advances the state by one frame of length dt.
//
// Per frame: quit check, phase input, ball collision against the hole then
// the screen edge, level check, and finally the aim and ball advance.
func (s *State) Update(in *keyboard, dt time.Duration, l Layout, t Tuning) Events {
	var ev Events
	if in.held(ActionQuit) {
		ev.Quit = true
		return ev
	}

	switch p := s.Phase.(type) {
	case MenuPhase:
		s.Phase = s.updateMenu(p, in, dt, t, &ev)
		return ev
	case AimingPhase:
		if in.consume(ActionFire) {
			s.Phase = ShootingPhase{LaunchAngle: s.Aim.Angle}
			s.Shots++
			ev.Fired = true
		}
	}

	if p, ok := s.Phase.(ShootingPhase); ok {
		ball := l.Ball(p.LaunchAngle, p.Distance)
		switch {
		case ball.Within(s.Hole.Circle()):
			s.Hits++
			s.Score++
			s.Phase = AimingPhase{}
			ev.Scored = true
		case l.Outside(ball):
			s.Phase = AimingPhase{}
			ev.Missed = true
		default:
			p.Distance += t.BallStep
			s.Phase = p
		}
	}

	if s.Hits >= t.HitsPerLevel {
		s.Hole.Diameter *= t.ShrinkFactor
		s.Hole.Center = l.HoleCenter
		s.Hits = 0
		s.Level++
		ev.LevelUp = true
	}

	s.Aim.Advance()
	return ev
}

func (s *State) updateMenu(p MenuPhase, in *keyboard, dt time.Duration, t Tuning, ev *Events) Phase {
	switch {
	case p.Countdown > 0:
		p.elapsed += dt
		if p.elapsed > t.CountdownStep {
			p.elapsed = 0
			p.Countdown--
		}
		if p.Countdown == 0 {
			ev.Started = true
			return AimingPhase{}
		}
	case p.Help:
		if in.consume(ActionSelect) {
			p.Help = false
		}
	default:
		if in.consume(ActionUp) {
			p.Selection = p.Selection.Prev()
		}
		if in.consume(ActionDown) {
			p.Selection = p.Selection.Next()
		}
		if in.consume(ActionSelect) {
			switch p.Selection {
			case MenuStart:
				p.Countdown = countdownFrom
				p.elapsed = 0
			case MenuHelp:
				p.Help = true
			case MenuExit:
				ev.Quit = true
			}
		}
	}
	return p
}
