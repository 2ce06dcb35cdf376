package sim

import (
	"fmt"
	"slices"

	"github.com/jask/mapedit/internal/input"
	"github.com/jask/mapedit/internal/render"
	"github.com/jask/mapedit/internal/ui"
	"github.com/jask/mapedit/internal/world"
)

type carDiff struct {
	id        world.CarID
	primary   world.Point
	secondary world.Point
}

// DiffAllState draws a line from every car's primary position to its
// position in the secondary run, for cars present in both.
type DiffAllState struct {
	ui.Base
	diffs      []carDiff
	sameCars   int
	onlyOneRun int
}

// NewDiffAll needs a secondary map; the dispatcher only offers it then.
func NewDiffAll(ctx *ui.PluginCtx) (*DiffAllState, bool) {
	if ctx.Secondary == nil || !ctx.Input.Action(input.ScopeGlobal, input.ActionDiffAll) {
		return nil, false
	}
	d := &DiffAllState{}
	d.refresh(ctx)
	return d, true
}

func (d *DiffAllState) Kind() ui.Kind { return ui.KindDiffAll }

func (d *DiffAllState) Event(ctx *ui.PluginCtx) bool {
	if ctx.Secondary == nil || ctx.Input.Action(input.ScopeGlobal, input.ActionDiffAll) {
		return false
	}
	d.refresh(ctx)
	return true
}

func (d *DiffAllState) refresh(ctx *ui.PluginCtx) {
	d.diffs = d.diffs[:0]
	d.sameCars, d.onlyOneRun = 0, 0
	a, b := ctx.Primary.Sim, ctx.Secondary.Sim
	seen := make(map[world.CarID]bool)
	for _, c := range a.Cars() {
		seen[c.ID] = true
		pa, okA := a.CarPosition(c.ID)
		pb, okB := b.CarPosition(c.ID)
		switch {
		case !okA || !okB:
			d.onlyOneRun++
		case pa == pb:
			d.sameCars++
		default:
			d.diffs = append(d.diffs, carDiff{id: c.ID, primary: pa, secondary: pb})
		}
	}
	for _, c := range b.Cars() {
		if !seen[c.ID] {
			d.onlyOneRun++
		}
	}
}

func (d *DiffAllState) Draw(g *render.Canvas, ctx *ui.Ctx) {
	col := ctx.CS.Get("diff/secondary")
	for _, df := range d.diffs {
		g.DrawWorldLine(df.primary, df.secondary, '·', col)
		g.DrawWorld(df.secondary, '◆', col)
	}
	g.DrawBox([]string{
		fmt.Sprintf("%d cars in different places", len(d.diffs)),
		fmt.Sprintf("%d in the same place, %d in only one run", d.sameCars, d.onlyOneRun),
	}, render.TopLeft)
}

// DiffTripState follows one car through both runs.
type DiffTripState struct {
	ui.Base
	car       world.CarID
	routeA    []world.RoadID
	routeB    []world.RoadID
	posA      *world.Point
	posB      *world.Point
	sameRoute bool
}

func NewDiffTrip(ctx *ui.PluginCtx) (*DiffTripState, bool) {
	car, ok := ctx.Primary.SelectedCar()
	if ctx.Secondary == nil || !ok || !ctx.Input.Action(input.ScopeGlobal, input.ActionDiffTrip) {
		return nil, false
	}
	d := &DiffTripState{car: car}
	d.refresh(ctx)
	return d, true
}

func (d *DiffTripState) Kind() ui.Kind { return ui.KindDiffTrip }

func (d *DiffTripState) Car() world.CarID { return d.car }

func (d *DiffTripState) Event(ctx *ui.PluginCtx) bool {
	if ctx.Secondary == nil || ctx.Input.Action(input.ScopeGlobal, input.ActionDiffTrip) {
		return false
	}
	d.refresh(ctx)
	return d.posA != nil || d.posB != nil
}

func (d *DiffTripState) refresh(ctx *ui.PluginCtx) {
	d.posA, d.routeA = tripOf(ctx.Primary.Sim, d.car)
	d.posB, d.routeB = tripOf(ctx.Secondary.Sim, d.car)
	d.sameRoute = slices.Equal(d.routeA, d.routeB)
}

func tripOf(s *world.Sim, id world.CarID) (*world.Point, []world.RoadID) {
	c, ok := s.Car(id)
	if !ok {
		return nil, nil
	}
	p, ok := s.CarPosition(id)
	if !ok {
		return nil, c.Remaining()
	}
	return &p, c.Remaining()
}

// Draw tints both remaining routes; the dispatcher never asks the
// non-blocking slot for object colors.
func (d *DiffTripState) Draw(g *render.Canvas, ctx *ui.Ctx) {
	m := ctx.UI.Map
	for _, r := range d.routeB {
		for _, p := range m.RoadPoints(r) {
			g.TintWorld(p, ctx.CS.Get("diff/secondary"))
		}
	}
	for _, r := range d.routeA {
		for _, p := range m.RoadPoints(r) {
			g.TintWorld(p, ctx.CS.Get("diff/primary"))
		}
	}
	if d.posA != nil && d.posB != nil {
		g.DrawWorldLine(*d.posA, *d.posB, '·', ctx.CS.Get("diff/secondary"))
	}
	if d.posB != nil {
		g.DrawWorld(*d.posB, '◆', ctx.CS.Get("diff/secondary"))
	}
	lines := []string{fmt.Sprintf("Diffing trip of %s", world.CarObj(d.car))}
	switch {
	case d.posA == nil:
		lines = append(lines, "finished in primary")
	case d.posB == nil:
		lines = append(lines, "finished in secondary")
	case d.sameRoute:
		lines = append(lines, fmt.Sprintf("same remaining route, %d roads", len(d.routeA)))
	default:
		lines = append(lines, fmt.Sprintf("routes differ: %d vs %d roads left", len(d.routeA), len(d.routeB)))
	}
	g.DrawBox(lines, render.TopLeft)
}
