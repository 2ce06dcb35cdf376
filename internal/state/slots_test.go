package state

import (
	"testing"

	"github.com/jask/mapedit/internal/input"
	"github.com/jask/mapedit/internal/render"
	"github.com/jask/mapedit/internal/storage"
	"github.com/jask/mapedit/internal/ui"
	"github.com/jask/mapedit/internal/world"
)

// recorder counts events and draws without consuming input, so it can sit in
// either slot or in the ambient list.
type recorder struct {
	ui.Base
	events int
	draws  int
	done   bool
}

func (r *recorder) Kind() ui.Kind                  { return ui.KindDiffAll }
func (r *recorder) Draw(*render.Canvas, *ui.Ctx)   { r.draws++ }
func (r *recorder) Event(*ui.PluginCtx) bool       { r.events++; return !r.done }
func (r *recorder) AmbientEvent(ctx *ui.PluginCtx) { r.events++ }

// claimN is a factory that starts a fresh recorder for the first n events it
// is offered and declines afterwards.
func claimN(name string, n int, calls *int) Factory {
	return Factory{Name: name, New: func(*ui.PluginCtx) (ui.Plugin, bool) {
		*calls++
		if *calls > n {
			return nil, false
		}
		return &recorder{}, true
	}}
}

func withSecondary(h *harness) {
	m := world.GridMap("grid", 4, 4, 6)
	h.s.Secondary = ui.NewPerMapUI(m, storage.NewMemory(m.Name()), world.Flags{Seed: 1})
	h.s.SecondaryPlugins = NewPluginsPerMap(h.s.DebugControls)
}

func launchAB(t *testing.T, h *harness) {
	t.Helper()
	cat := h.s.Primary.Catalog
	if err := cat.SaveScenario(world.Scenario{Name: "busy", SpawnCount: 5}); err != nil {
		t.Fatalf("SaveScenario: %v", err)
	}
	test := world.ABTest{Name: "same", Scenario: "busy", EditsA: "no edits", EditsB: "no edits"}
	if err := h.s.LaunchABTest(test); err != nil {
		t.Fatalf("LaunchABTest: %v", err)
	}
}

func (h *harness) drawCtx() *ui.Ctx {
	return &ui.Ctx{UI: h.s.Primary, Canvas: h.g, CS: h.cs, Hints: &ui.RenderingHints{}}
}

func TestNonblockingFactoriesNeedSecondary(t *testing.T) {
	h := newHarness(false)
	var calls int
	h.s.nonblocking = []Factory{claimN("fake", 1, &calls)}

	h.key("~")
	if calls != 0 || h.s.Nonblocking() != nil {
		t.Fatalf("non-blocking factory offered without a secondary: calls=%d", calls)
	}

	withSecondary(h)
	if stage, _ := h.key("~"); stage != "ambient" {
		t.Fatalf("stage = %q, want ambient: tier 5 never stops dispatch", stage)
	}
	if h.s.Nonblocking() == nil {
		t.Fatal("non-blocking slot not claimed with a secondary loaded")
	}
}

func TestNonblockingSlotLetsLaterTiersRun(t *testing.T) {
	h := newHarness(true)
	withSecondary(h)
	nb := &recorder{}
	amb := &recorder{}
	h.s.exclusiveNonblocking = nb
	h.s.PrimaryPlugins.ambient = []ui.Plugin{amb}

	if stage, _ := h.key("~"); stage != "ambient" {
		t.Fatalf("stage = %q, want ambient", stage)
	}
	h.s.Primary.Selection = world.BuildingObj(0)
	h.key("H")
	if h.s.PrimaryPlugins.Hider() == nil {
		t.Fatal("modal tier did not run under an occupied non-blocking slot")
	}
	if nb.events != 2 || amb.events != 2 {
		t.Fatalf("events: non-blocking=%d ambient=%d, want 2 and 2", nb.events, amb.events)
	}

	nb.done = true
	h.send(input.UpdateMsg{})
	if h.s.Nonblocking() != nil {
		t.Fatal("finished non-blocking plugin should leave the slot")
	}
	if amb.events != 3 {
		t.Fatalf("ambient events = %d, want 3", amb.events)
	}
}

func TestAtMostOneSlotClaimedPerFrame(t *testing.T) {
	h := newHarness(false)
	withSecondary(h)
	var blockingCalls, nonblockingCalls int
	h.s.blocking = []Factory{claimN("fake blocking", 1, &blockingCalls)}
	h.s.nonblocking = []Factory{claimN("fake nonblocking", 1, &nonblockingCalls)}

	for frame := range 4 {
		blockingBefore, nonblockingBefore := h.s.Blocking() == nil, h.s.Nonblocking() == nil
		stage, _ := h.key("~")
		if blockingBefore && nonblockingBefore && h.s.Blocking() != nil && h.s.Nonblocking() != nil {
			t.Fatalf("frame %d (%s): both slots claimed at once", frame, stage)
		}
		if frame == 0 {
			if stage != "blocking_factories" || h.s.Blocking() == nil || nonblockingCalls != 0 {
				t.Fatalf("frame 0: stage=%q blocking=%v nonblocking calls=%d", stage, h.s.Blocking(), nonblockingCalls)
			}
			h.s.Blocking().(*recorder).done = true
		}
	}
	if h.s.Blocking() != nil || h.s.Nonblocking() == nil {
		t.Fatalf("after the tool finished: blocking=%v nonblocking=%v", h.s.Blocking(), h.s.Nonblocking())
	}
}

func TestDiffAllToggles(t *testing.T) {
	h := newHarness(false)
	h.key("D")
	if h.s.Nonblocking() != nil {
		t.Fatal("diff started without an A/B test")
	}

	launchAB(t, h)
	if stage, _ := h.key("D"); stage != "ambient" {
		t.Fatalf("stage = %q, want ambient", stage)
	}
	if p := h.s.Nonblocking(); p == nil || p.Kind() != ui.KindDiffAll {
		t.Fatalf("non-blocking = %v, want diff_all", p)
	}
	h.send(input.UpdateMsg{})
	if h.s.Nonblocking() == nil {
		t.Fatal("diff_all should stay up across ticks")
	}
	h.key("D")
	if h.s.Nonblocking() != nil {
		t.Fatal("second D should close diff_all")
	}

	h.key("d")
	if h.s.Nonblocking() != nil {
		t.Fatal("diff_trip needs a selected car")
	}
}

func TestDrawBlockingSlotHidesLaterTiers(t *testing.T) {
	h := newHarness(false)
	blk, nb, amb := &recorder{}, &recorder{}, &recorder{}
	h.s.exclusiveBlocking = blk
	h.s.exclusiveNonblocking = nb
	h.s.PrimaryPlugins.ambient = []ui.Plugin{amb}

	h.s.Draw(h.g, h.drawCtx())
	if blk.draws != 1 || nb.draws != 0 || amb.draws != 0 {
		t.Fatalf("draws: blocking=%d non-blocking=%d ambient=%d, want 1 0 0", blk.draws, nb.draws, amb.draws)
	}

	h.s.exclusiveBlocking = nil
	h.s.Draw(h.g, h.drawCtx())
	if nb.draws != 1 || amb.draws != 1 {
		t.Fatalf("draws: non-blocking=%d ambient=%d, want both 1", nb.draws, amb.draws)
	}
}

func TestDrawBlockingSearchHidesLaterTiers(t *testing.T) {
	h := newHarness(false)
	h.key("/")
	nb, amb := &recorder{}, &recorder{}
	h.s.exclusiveNonblocking = nb
	h.s.PrimaryPlugins.ambient = []ui.Plugin{amb}

	h.s.Draw(h.g, h.drawCtx())
	if nb.draws != 0 || amb.draws != 0 {
		t.Fatalf("draws under a typing search: non-blocking=%d ambient=%d", nb.draws, amb.draws)
	}

	h.s.exclusiveNonblocking = nil
	h.key("L")
	h.key("enter")
	h.s.exclusiveNonblocking = nb
	h.s.Draw(h.g, h.drawCtx())
	if nb.draws != 1 || amb.draws != 1 {
		t.Fatalf("draws with a highlight-only search: non-blocking=%d ambient=%d", nb.draws, amb.draws)
	}
}
