package sim

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/mapedit/internal/colors"
	"github.com/jask/mapedit/internal/input"
	"github.com/jask/mapedit/internal/render"
	"github.com/jask/mapedit/internal/storage"
	"github.com/jask/mapedit/internal/ui"
	"github.com/jask/mapedit/internal/world"
)

func testUI() *ui.PerMapUI {
	m := world.GridMap("grid", 4, 4, 6)
	u := ui.NewPerMapUI(m, storage.NewMemory(m.Name()), world.Flags{Seed: 4, RunName: "test"})
	u.Sim.Instantiate(world.Scenario{Name: "some", SpawnCount: 10}, nil)
	return u
}

func newCtx(u *ui.PerMapUI, msg tea.Msg) *ui.PluginCtx {
	return &ui.PluginCtx{
		Primary: u,
		Canvas:  render.NewCanvas(80, 24),
		CS:      colors.NewScheme(nil, nil),
		Input:   input.New(msg),
		Hints:   &ui.RenderingHints{},
	}
}

func runes(s string) tea.Msg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestTimeTravelBrowsesHistory(t *testing.T) {
	u := testUI()
	tt := NewTimeTravel()
	for i := 0; i < 3; i++ {
		if tt.Event(newCtx(u, input.UpdateMsg{}), true) {
			t.Fatal("inactive time travel claimed a tick")
		}
		u.Sim.Step()
	}
	live := u.Sim.Time()

	if !tt.Event(newCtx(u, runes("t")), true) || !tt.IsActive() {
		t.Fatal("t should activate time travel")
	}
	if tt.Recorded() != 4 {
		t.Fatalf("recorded = %d, want 4", tt.Recorded())
	}
	tt.Event(newCtx(u, runes(",")), true)
	tt.Event(newCtx(u, runes(",")), true)
	if got := u.Sim.Time(); got != live-2 {
		t.Fatalf("time after going back twice = %v, want %v", got, live-2)
	}
	ctx := newCtx(u, runes("x"))
	if !tt.Event(ctx, true) || !ctx.Input.HasBeenConsumed() {
		t.Fatal("active time travel owns every key")
	}
	if len(ctx.Hints.OSD) == 0 {
		t.Fatal("expected an OSD line while traveling")
	}
	tt.Event(newCtx(u, runes(".")), true)
	if got := u.Sim.Time(); got != live-1 {
		t.Fatalf("time after going forward = %v, want %v", got, live-1)
	}

	if tt.Event(newCtx(u, tea.KeyMsg{Type: tea.KeyEsc}), true) {
		t.Fatal("esc should hand the event on")
	}
	if tt.IsActive() || u.Sim.Time() != live {
		t.Fatalf("after exit: active %v time %v, want live %v", tt.IsActive(), u.Sim.Time(), live)
	}
}

func TestTimeTravelNeedsPermission(t *testing.T) {
	u := testUI()
	tt := NewTimeTravel()
	ctx := newCtx(u, runes("t"))
	if tt.Event(ctx, false) {
		t.Fatal("activated without permission")
	}
	if ctx.Input.HasBeenConsumed() {
		t.Fatal("the declined key must stay available")
	}
	if tt.Recorded() != 1 {
		t.Fatalf("recorded = %d, want 1: recording happens regardless", tt.Recorded())
	}
	tt.Reset()
	if tt.Recorded() != 0 {
		t.Fatal("reset should forget history")
	}
}

type siblings struct{ resets int }

func (s *siblings) ResetTimeTravel()       { s.resets++ }
func (s *siblings) TimeTravelActive() bool { return false }

func TestSimControlsRunAndSave(t *testing.T) {
	u := testUI()
	c := NewSimControls()
	sib := &siblings{}

	c.AmbientEventWithPlugins(newCtx(u, input.UpdateMsg{}), sib)
	if u.Sim.Time() != 0 {
		t.Fatal("paused sim advanced")
	}
	c.AmbientEventWithPlugins(newCtx(u, runes("m")), sib)
	if u.Sim.Time() != 1 {
		t.Fatalf("time after step = %v, want 1", u.Sim.Time())
	}
	c.AmbientEventWithPlugins(newCtx(u, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}), sib)
	if !c.IsRunning() {
		t.Fatal("space should start the sim")
	}
	c.AmbientEventWithPlugins(newCtx(u, input.UpdateMsg{}), sib)
	if u.Sim.Time() != 2 {
		t.Fatalf("time after running tick = %v, want 2", u.Sim.Time())
	}

	c.AmbientEventWithPlugins(newCtx(u, tea.KeyMsg{Type: tea.KeyCtrlS}), sib)
	saved := u.Sim.Time()
	u.Sim.Step()
	c.AmbientEventWithPlugins(newCtx(u, tea.KeyMsg{Type: tea.KeyCtrlL}), sib)
	if u.Sim.Time() != saved {
		t.Fatalf("time after load = %v, want %v", u.Sim.Time(), saved)
	}
	if sib.resets != 1 {
		t.Fatalf("time travel resets = %d, want 1", sib.resets)
	}
}
