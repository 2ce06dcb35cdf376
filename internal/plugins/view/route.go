package view

import (
	"github.com/jask/mapedit/internal/colors"
	"github.com/jask/mapedit/internal/input"
	"github.com/jask/mapedit/internal/ui"
	"github.com/jask/mapedit/internal/world"
)

// ShowRouteState highlights the roads a car has left to drive.
type ShowRouteState struct {
	ui.Base
	car    world.CarID
	active bool
	roads  map[world.RoadID]bool
}

func NewShowRoute() *ShowRouteState { return &ShowRouteState{} }

func (s *ShowRouteState) Kind() ui.Kind { return ui.KindShowRoute }

func (s *ShowRouteState) AmbientEvent(ctx *ui.PluginCtx) {
	if s.active {
		if ctx.Input.Action(input.ScopeGlobal, input.ActionRoute) {
			s.active = false
			s.roads = nil
			return
		}
	} else {
		car, ok := ctx.Primary.SelectedCar()
		if !ok || !ctx.Input.Action(input.ScopeGlobal, input.ActionRoute) {
			return
		}
		s.car, s.active = car, true
	}

	c, ok := ctx.Primary.Sim.Car(s.car)
	if !ok {
		s.active = false
		s.roads = nil
		return
	}
	s.roads = make(map[world.RoadID]bool)
	for _, r := range c.Remaining() {
		s.roads[r] = true
	}
}

func (s *ShowRouteState) ColorFor(id world.ID, ctx *ui.Ctx) (colors.Color, bool) {
	if r, ok := id.AsRoad(); ok && s.roads[r] {
		return ctx.CS.Get("route"), true
	}
	return "", false
}
