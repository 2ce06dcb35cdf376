package edit

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/jask/mapedit/internal/colors"
	"github.com/jask/mapedit/internal/input"
	"github.com/jask/mapedit/internal/render"
	"github.com/jask/mapedit/internal/ui"
	"github.com/jask/mapedit/internal/world"
)

// StopSignEditor toggles which incoming roads must stop at one intersection.
// Opening it on an intersection with another control turns it into a stop
// sign.
type StopSignEditor struct {
	ui.Base
	at   world.IntersectionID
	road int
}

func NewStopSignEditor(ctx *ui.PluginCtx) (*StopSignEditor, bool) {
	i, ok := ctx.Primary.SelectedIntersection()
	if !ok || !ctx.Input.Action(input.ScopeGlobal, input.ActionStopSign) {
		return nil, false
	}
	m := ctx.Primary.Map
	in := m.Intersection(i)
	if in == nil {
		return nil, false
	}
	if in.Control != world.ControlStopSign {
		logrus.Infof("Converting %s from %s to stop sign", world.IntersectionObj(i), in.Control)
		m.SetControl(i, world.ControlStopSign)
	}
	return &StopSignEditor{at: i}, true
}

func (s *StopSignEditor) Kind() ui.Kind { return ui.KindStopSignEditor }

func (s *StopSignEditor) Intersection() world.IntersectionID { return s.at }

// ShowTurnIcons is true only for the intersection being edited.
func (s *StopSignEditor) ShowTurnIcons(i world.IntersectionID) bool { return i == s.at }

func (s *StopSignEditor) current(m *world.Map) (world.RoadID, bool) {
	in := m.Intersection(s.at)
	if in == nil || len(in.Roads) == 0 {
		return 0, false
	}
	return in.Roads[s.road%len(in.Roads)], true
}

func (s *StopSignEditor) Event(ctx *ui.PluginCtx) bool {
	m := ctx.Primary.Map
	in := m.Intersection(s.at)
	if in == nil || len(in.Roads) == 0 {
		return false
	}
	keys := ctx.Input
	switch {
	case keys.Action(input.ScopeEditor, input.ActionQuitTool), keys.Action(input.ScopeEditor, input.ActionConfirm):
		return false
	case keys.Action(input.ScopeEditor, input.ActionNext):
		s.road = (s.road + 1) % len(in.Roads)
	case keys.Action(input.ScopeEditor, input.ActionPrev):
		s.road = (s.road + len(in.Roads) - 1) % len(in.Roads)
	case keys.Action(input.ScopeEditor, input.ActionToggle):
		r, _ := s.current(m)
		stops := m.ToggleStop(s.at, r)
		logrus.Debugf("%s stops at %s: %v", m.Label(world.RoadObj(r)), world.IntersectionObj(s.at), stops)
	}
	return true
}

func (s *StopSignEditor) ColorFor(id world.ID, ctx *ui.Ctx) (colors.Color, bool) {
	m := ctx.UI.Map
	in := m.Intersection(s.at)
	if in == nil {
		return "", false
	}
	if r, ok := id.AsRoad(); ok {
		if cur, ok := s.current(m); ok && cur == r {
			return ctx.CS.Get("selected"), true
		}
		return "", false
	}
	t, ok := id.AsTurn()
	if !ok || t.Parent != s.at {
		return "", false
	}
	if in.StopRoads[t.Src] {
		return ctx.CS.Get("stop sign/stop"), true
	}
	return ctx.CS.Get("stop sign/go"), true
}

func (s *StopSignEditor) Draw(g *render.Canvas, ctx *ui.Ctx) {
	m := ctx.UI.Map
	r, ok := s.current(m)
	if !ok {
		return
	}
	state := "goes"
	if m.Intersection(s.at).StopRoads[r] {
		state = "stops"
	}
	g.DrawBox([]string{
		fmt.Sprintf("Stop sign at %s", world.IntersectionObj(s.at)),
		fmt.Sprintf("%s %s", m.Label(world.RoadObj(r)), state),
		"[ ] pick road  space toggle stop  enter done",
	}, render.TopLeft)
}
