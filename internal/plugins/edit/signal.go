package edit

import (
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/jask/mapedit/internal/colors"
	"github.com/jask/mapedit/internal/input"
	"github.com/jask/mapedit/internal/render"
	"github.com/jask/mapedit/internal/ui"
	"github.com/jask/mapedit/internal/world"
)

// TrafficSignalEditor edits the phases of one signalized intersection. Turns
// are toggled in and out of the current phase by clicking their icons.
type TrafficSignalEditor struct {
	ui.Base
	at    world.IntersectionID
	phase int
}

func NewTrafficSignalEditor(ctx *ui.PluginCtx) (*TrafficSignalEditor, bool) {
	i, ok := ctx.Primary.SelectedIntersection()
	if !ok || !ctx.Input.Action(input.ScopeGlobal, input.ActionTrafficSignal) {
		return nil, false
	}
	m := ctx.Primary.Map
	in := m.Intersection(i)
	if in == nil {
		return nil, false
	}
	if in.Control != world.ControlSignal {
		logrus.Infof("Converting %s from %s to traffic signal", world.IntersectionObj(i), in.Control)
		m.SetControl(i, world.ControlSignal)
	}
	if len(in.Phases) == 0 {
		m.SetPhases(i, DefaultPhases(m, i))
	}
	return &TrafficSignalEditor{at: i}, true
}

// DefaultPhases gives each incoming road its own phase with all its turns.
func DefaultPhases(m *world.Map, i world.IntersectionID) [][]world.TurnID {
	in := m.Intersection(i)
	if in == nil {
		return nil
	}
	var phases [][]world.TurnID
	for _, r := range in.Roads {
		var phase []world.TurnID
		for _, t := range m.Turns(i) {
			if t.Src == r {
				phase = append(phase, t)
			}
		}
		phases = append(phases, phase)
	}
	return phases
}

func (t *TrafficSignalEditor) Kind() ui.Kind { return ui.KindTrafficSignalEditor }

func (t *TrafficSignalEditor) Intersection() world.IntersectionID { return t.at }
func (t *TrafficSignalEditor) Phase() int                         { return t.phase }

func (t *TrafficSignalEditor) ShowTurnIcons(i world.IntersectionID) bool { return i == t.at }

func (t *TrafficSignalEditor) Event(ctx *ui.PluginCtx) bool {
	m := ctx.Primary.Map
	in := m.Intersection(t.at)
	if in == nil {
		return false
	}
	phases := clonePhases(in.Phases)
	keys := ctx.Input
	switch {
	case keys.Action(input.ScopeEditor, input.ActionQuitTool), keys.Action(input.ScopeEditor, input.ActionConfirm):
		return false
	case len(phases) > 0 && keys.Action(input.ScopeEditor, input.ActionNext):
		t.phase = (t.phase + 1) % len(phases)
	case len(phases) > 0 && keys.Action(input.ScopeEditor, input.ActionPrev):
		t.phase = (t.phase + len(phases) - 1) % len(phases)
	case keys.Action(input.ScopeEditor, input.ActionAdd):
		phases = append(phases, nil)
		m.SetPhases(t.at, phases)
		t.phase = len(phases) - 1
	case keys.Action(input.ScopeEditor, input.ActionDelete):
		if len(phases) <= 1 {
			logrus.Warn("A signal needs at least one phase")
			break
		}
		phases = slices.Delete(phases, t.phase, t.phase+1)
		m.SetPhases(t.at, phases)
		t.phase = min(t.phase, len(phases)-1)
	case keys.Action(input.ScopeEditor, input.ActionToggle):
		if p, ok := ctx.Canvas.CursorWorld(); ok {
			t.toggleAt(ctx, p)
		}
	}
	if x, y, ok := keys.Clicked(); ok {
		t.toggleAt(ctx, ctx.Canvas.ScreenToWorld(x, y))
	}
	return true
}

func (t *TrafficSignalEditor) toggleAt(ctx *ui.PluginCtx, p world.Point) {
	turn, ok := ctx.Primary.DrawMap.ObjectAt(p, nil, nil).AsTurn()
	if !ok || turn.Parent != t.at {
		return
	}
	m := ctx.Primary.Map
	phases := clonePhases(m.Intersection(t.at).Phases)
	if len(phases) == 0 {
		return
	}
	cur := phases[t.phase]
	if i := slices.Index(cur, turn); i >= 0 {
		phases[t.phase] = slices.Delete(cur, i, i+1)
	} else {
		phases[t.phase] = append(cur, turn)
	}
	m.SetPhases(t.at, phases)
}

func clonePhases(in [][]world.TurnID) [][]world.TurnID {
	out := make([][]world.TurnID, len(in))
	for i, p := range in {
		out[i] = slices.Clone(p)
	}
	return out
}

func (t *TrafficSignalEditor) ColorFor(id world.ID, ctx *ui.Ctx) (colors.Color, bool) {
	turn, ok := id.AsTurn()
	if !ok || turn.Parent != t.at {
		return "", false
	}
	in := ctx.UI.Map.Intersection(t.at)
	if in != nil && t.phase < len(in.Phases) && slices.Contains(in.Phases[t.phase], turn) {
		return ctx.CS.Get("signal/green turn"), true
	}
	return ctx.CS.Get("signal/red turn"), true
}

func (t *TrafficSignalEditor) Draw(g *render.Canvas, ctx *ui.Ctx) {
	in := ctx.UI.Map.Intersection(t.at)
	if in == nil {
		return
	}
	green := 0
	if t.phase < len(in.Phases) {
		green = len(in.Phases[t.phase])
	}
	g.DrawBox([]string{
		fmt.Sprintf("Signal at %s: phase %d of %d, %d turns green", world.IntersectionObj(t.at), t.phase+1, len(in.Phases), green),
		"click a turn to toggle  [ ] phase  a add  x delete  enter done",
	}, render.TopLeft)
}
