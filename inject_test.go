package spacehole

import (
	"testing"

	"github.com/phanxgames/spacehole/assets"
)

func TestInjectKeyTapQueuesPressRelease(t *testing.T) {
	g, _ := newTestGame(t, assets.FS, nil)
	g.InjectKeyTap(ActionDown)

	if len(g.injectQueue) != 2 {
		t.Fatalf("queue len = %d, want 2", len(g.injectQueue))
	}
	want := []syntheticKeyEvent{{ActionDown, true}, {ActionDown, false}}
	for i, w := range want {
		if g.injectQueue[i] != w {
			t.Errorf("queue[%d] = %+v, want %+v", i, g.injectQueue[i], w)
		}
	}
}

func TestProcessInjectedInput(t *testing.T) {
	g, _ := newTestGame(t, assets.FS, nil)
	g.InjectKeyPress(ActionFire)
	g.InjectKeyRelease(ActionFire)

	if !g.processInjectedInput() {
		t.Fatal("first event not consumed")
	}
	if !g.keys.held(ActionFire) {
		t.Error("fire should be held after the press")
	}
	if len(g.injectQueue) != 1 {
		t.Fatalf("queue len = %d, want 1", len(g.injectQueue))
	}

	if !g.processInjectedInput() {
		t.Fatal("second event not consumed")
	}
	if g.keys.held(ActionFire) {
		t.Error("fire should be released")
	}
}

func TestProcessInjectedInput_EmptyQueue(t *testing.T) {
	g, _ := newTestGame(t, assets.FS, nil)
	if g.processInjectedInput() {
		t.Error("empty queue should not report an event")
	}
}

func TestInjectedTapNavigatesMenu(t *testing.T) {
	g, _ := newTestGame(t, assets.FS, nil)
	dt := g.cfg.FrameTime()

	g.InjectKeyTap(ActionDown)
	g.InjectKeyTap(ActionDown)
	for i := 0; i < 4; i++ {
		g.Step(dt)
	}
	p, ok := g.State().Phase.(MenuPhase)
	if !ok || p.Selection != MenuExit {
		t.Fatalf("Phase = %+v, want menu on Exit", g.State().Phase)
	}

	g.InjectKeyTap(ActionSelect)
	if ev := g.Step(dt); !ev.Quit {
		t.Error("Select on Exit should quit")
	}
}
