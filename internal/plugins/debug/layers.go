// Package debug holds developer tools: layer toggles, object inspection and
// map analyses. Most are only offered when debug mode is on.
package debug

import (
	"github.com/jask/mapedit/internal/input"
	"github.com/jask/mapedit/internal/ui"
	"github.com/jask/mapedit/internal/world"
)

// TurnIconZoom is the zoom at and above which every turn icon is shown,
// unless the user toggled that layer by hand.
const TurnIconZoom = 2.0

// ToggleableLayers decides which object kinds are drawn.
type ToggleableLayers struct {
	ui.Base
	ShowRoads         bool
	ShowIntersections bool
	ShowBuildings     bool
	ShowCars          bool
	ShowAllTurnIcons  bool

	turnIconsPinned bool
	lastZoom        float64
}

func NewToggleableLayers() *ToggleableLayers {
	return &ToggleableLayers{
		ShowRoads:         true,
		ShowIntersections: true,
		ShowBuildings:     true,
		ShowCars:          true,
		lastZoom:          -1,
	}
}

func (l *ToggleableLayers) Kind() ui.Kind { return ui.KindLayers }

// HandleZoom updates zoom-dependent layers when the camera crosses a
// threshold. Pass before = -1 to initialize.
func (l *ToggleableLayers) HandleZoom(before, after float64) {
	l.lastZoom = after
	if l.turnIconsPinned {
		return
	}
	if before < 0 || (before < TurnIconZoom) != (after < TurnIconZoom) {
		l.ShowAllTurnIcons = after >= TurnIconZoom
	}
}

func (l *ToggleableLayers) AmbientEvent(ctx *ui.PluginCtx) {
	if z := ctx.Canvas.Zoom(); z != l.lastZoom {
		l.HandleZoom(l.lastZoom, z)
	}
	in := ctx.Input
	switch {
	case in.Action(input.ScopeLayers, input.ActionLayerRoads):
		l.ShowRoads = !l.ShowRoads
	case in.Action(input.ScopeLayers, input.ActionLayerBuildings):
		l.ShowBuildings = !l.ShowBuildings
	case in.Action(input.ScopeLayers, input.ActionLayerCars):
		l.ShowCars = !l.ShowCars
	case in.Action(input.ScopeLayers, input.ActionLayerTurns):
		l.ShowAllTurnIcons = !l.ShowAllTurnIcons
		l.turnIconsPinned = true
	case in.Action(input.ScopeLayers, input.ActionLayerIntersections):
		l.ShowIntersections = !l.ShowIntersections
	default:
		return
	}
	ctx.Hints.RecalculateSelection = true
}

func (l *ToggleableLayers) Show(id world.ID) bool {
	switch id.Kind {
	case world.ObjRoad:
		return l.ShowRoads
	case world.ObjIntersection:
		return l.ShowIntersections
	case world.ObjBuilding:
		return l.ShowBuildings
	case world.ObjCar:
		return l.ShowCars
	}
	return true
}
