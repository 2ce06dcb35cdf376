package view

import (
	"github.com/jask/mapedit/internal/colors"
	"github.com/jask/mapedit/internal/input"
	"github.com/jask/mapedit/internal/ui"
	"github.com/jask/mapedit/internal/world"
)

// Car counts at which a road is drawn as medium or highly active.
const (
	MediumActivity = 2
	HighActivity   = 4
)

// ShowActivityState tints roads by how many cars are on them.
type ShowActivityState struct {
	ui.Base
	active bool
	counts map[world.RoadID]int
}

func NewShowActivity() *ShowActivityState { return &ShowActivityState{} }

func (s *ShowActivityState) Kind() ui.Kind { return ui.KindShowActivity }

func (s *ShowActivityState) AmbientEvent(ctx *ui.PluginCtx) {
	if ctx.Input.Action(input.ScopeGlobal, input.ActionActivity) {
		s.active = !s.active
	}
	s.counts = nil
	if s.active {
		s.counts = ctx.Primary.Sim.CarsOnRoad()
	}
}

func (s *ShowActivityState) ColorFor(id world.ID, ctx *ui.Ctx) (colors.Color, bool) {
	r, ok := id.AsRoad()
	if !ok || s.counts == nil {
		return "", false
	}
	switch n := s.counts[r]; {
	case n >= HighActivity:
		return ctx.CS.Get("activity/high"), true
	case n >= MediumActivity:
		return ctx.CS.Get("activity/medium"), true
	case n > 0:
		return ctx.CS.Get("activity/low"), true
	}
	return "", false
}
