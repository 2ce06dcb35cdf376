// Package sim holds the plugins that drive or inspect the running simulation.
package sim

import (
	"fmt"
	"sort"

	"github.com/jask/mapedit/internal/input"
	"github.com/jask/mapedit/internal/render"
	"github.com/jask/mapedit/internal/ui"
	"github.com/jask/mapedit/internal/world"
)

// MaxHistory bounds how many ticks TimeTravel remembers.
const MaxHistory = 5000

// TimeTravel records a snapshot of the primary sim at every new tick. While
// active it shows a recorded tick in place of the live state and owns all
// input.
type TimeTravel struct {
	ui.Base
	history map[world.Tick]world.Snapshot
	ticks   []world.Tick

	active bool
	idx    int
	live   world.Snapshot
}

func NewTimeTravel() *TimeTravel {
	return &TimeTravel{history: make(map[world.Tick]world.Snapshot)}
}

func (t *TimeTravel) Kind() ui.Kind { return ui.KindTimeTravel }

func (t *TimeTravel) IsActive() bool { return t.active }

// Recorded is the number of ticks in the history.
func (t *TimeTravel) Recorded() int { return len(t.ticks) }

// Reset forgets the history. Call it whenever the sim is rebuilt.
func (t *TimeTravel) Reset() {
	t.history = make(map[world.Tick]world.Snapshot)
	t.ticks = nil
	t.active = false
	t.idx = 0
}

// Event always records first. It returns true while time travel owns the
// event. Activation is only offered when mayActivate is set, so typing into a
// tool never starts it.
func (t *TimeTravel) Event(ctx *ui.PluginCtx, mayActivate bool) bool {
	sim := ctx.Primary.Sim
	if !t.active {
		t.record(sim)
		if !mayActivate || len(t.ticks) == 0 || !ctx.Input.Action(input.ScopeGlobal, input.ActionTimeTravel) {
			return false
		}
		t.active = true
		t.live = sim.Snapshot()
		t.idx = len(t.ticks) - 1
		sim.Restore(t.history[t.ticks[t.idx]])
		return true
	}

	switch {
	case ctx.Input.Action(input.ScopeTimeTravel, input.ActionQuitTool):
		sim.Restore(t.live)
		t.active = false
		return false
	case ctx.Input.Action(input.ScopeTimeTravel, input.ActionPrev):
		if t.idx > 0 {
			t.idx--
			sim.Restore(t.history[t.ticks[t.idx]])
		}
	case ctx.Input.Action(input.ScopeTimeTravel, input.ActionNext):
		if t.idx < len(t.ticks)-1 {
			t.idx++
			sim.Restore(t.history[t.ticks[t.idx]])
		}
	}
	ctx.Input.Consume()
	ctx.Hints.AddOSD(fmt.Sprintf("Time traveling: %s (%d/%d)", t.ticks[t.idx], t.idx+1, len(t.ticks)))
	return true
}

func (t *TimeTravel) record(sim *world.Sim) {
	now := sim.Time()
	if _, ok := t.history[now]; ok {
		return
	}
	// A rewound sim records over the ticks it replays, so keep ticks sorted.
	t.history[now] = sim.Snapshot()
	i := sort.Search(len(t.ticks), func(i int) bool { return t.ticks[i] >= now })
	t.ticks = append(t.ticks, 0)
	copy(t.ticks[i+1:], t.ticks[i:])
	t.ticks[i] = now
	if len(t.ticks) > MaxHistory {
		delete(t.history, t.ticks[0])
		t.ticks = t.ticks[1:]
	}
}

func (t *TimeTravel) Draw(g *render.Canvas, ctx *ui.Ctx) {
	if !t.active {
		return
	}
	g.DrawStyledBox([]string{
		fmt.Sprintf("Time travel: %s", t.ticks[t.idx]),
		", back  . forward  t exit",
	}, render.TopCenter, ctx.CS.Get("debug/info"))
}
