package spacehole

import (
	"log/slog"
	"time"
)

// debugStats holds per-frame timing and draw-call metrics.
// They are logged only when Config.Debug is set.
type debugStats struct {
	updateTime time.Duration
	drawTime   time.Duration
	drawCalls  int
}

// debugLog logs the stats of the last frame once per simulated second.
func (g *Game) debugLog() {
	if !g.cfg.Debug || g.frame%g.cfg.TPS != 0 {
		return
	}
	s := g.stats
	slog.Debug("frame",
		"frame", g.frame,
		"phase", g.state.Phase.String(),
		"update", s.updateTime,
		"draw", s.drawTime,
		"total", s.updateTime+s.drawTime,
		"draw_calls", s.drawCalls,
	)
}

// logEvents reports gameplay events at info level.
func (g *Game) logEvents(ev Events) {
	switch {
	case ev.Started:
		slog.Info("game started")
	case ev.Scored:
		slog.Info("hole", "score", g.state.Score, "hits", g.state.Hits, "level", g.state.Level)
	case ev.Missed && g.cfg.Debug:
		slog.Debug("miss", "shots", g.state.Shots)
	}
	if ev.LevelUp {
		slog.Info("level up", "level", g.state.Level, "diameter", g.state.Hole.Diameter)
	}
}
