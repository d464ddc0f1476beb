package spacehole

// helpText is shown by the Help menu item.
const helpText = `HOW TO PLAY

The arrow swings left and right.
Press SPACE to launch the ball along the arrow.
Land the ball inside the hole to score.
Every two holes the hole gets smaller.

ESC quits at any time.

Press ENTER to go back.`

// menuItemRect returns the highlight box of a menu entry. Entries are
// stacked around the screen centre.
func menuItemRect(l Layout, item MenuItem) Rect {
	w := l.Screen.Width / 3
	h := l.Screen.Height / 12
	gap := h / 3
	total := float64(menuItemCount)*h + float64(menuItemCount-1)*gap
	top := l.Screen.Height/2 - total/2
	return Rect{
		X:      l.Screen.Width/2 - w/2,
		Y:      top + float64(item)*(h+gap),
		Width:  w,
		Height: h,
	}
}

var (
	menuHighlight = Color{0.25, 0.45, 0.9, 1}
	menuIdle      = Color{0.12, 0.12, 0.2, 1}
)

// renderMenu draws the sprite layer of the menu: background and item boxes.
// Labels are drawn by the HUD.
func (g *Game) renderMenu(p MenuPhase) {
	g.drawBackground()
	if p.Help || p.Countdown > 0 {
		return
	}
	for item := MenuItem(0); item < menuItemCount; item++ {
		c := menuIdle
		if item == p.Selection {
			c = menuHighlight
		}
		r := menuItemRect(g.layout, item)
		g.renderer.DrawSprite(g.white, r.Min().Mgl(), r.Size().Mgl(), 0, c.Tint())
	}
}
