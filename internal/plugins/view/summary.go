package view

import (
	"fmt"

	"github.com/jask/mapedit/internal/input"
	"github.com/jask/mapedit/internal/render"
	"github.com/jask/mapedit/internal/ui"
	"github.com/jask/mapedit/internal/world"
)

// RegionSummary is what one neighborhood contains right now.
type RegionSummary struct {
	Name      string
	Center    world.Point
	Buildings int
	Moving    int
	Parked    int
}

// NeighborhoodSummary labels every saved neighborhood with its contents.
type NeighborhoodSummary struct {
	ui.Base
	active  bool
	regions []RegionSummary
}

func NewNeighborhoodSummary() *NeighborhoodSummary { return &NeighborhoodSummary{} }

func (n *NeighborhoodSummary) Kind() ui.Kind { return ui.KindNeighborhoodSummary }

func (n *NeighborhoodSummary) Regions() []RegionSummary { return n.regions }

func (n *NeighborhoodSummary) AmbientEvent(ctx *ui.PluginCtx) {
	if ctx.Input.Action(input.ScopeGlobal, input.ActionSummary) {
		n.active = !n.active
		if n.active {
			n.regions = Summarize(ctx.Primary)
		}
		return
	}
	if n.active && ctx.Input.IsUpdate() {
		n.regions = Summarize(ctx.Primary)
	}
}

func Summarize(u *ui.PerMapUI) []RegionSummary {
	hoods := u.Catalog.Neighborhoods()
	out := make([]RegionSummary, 0, len(hoods))
	for _, h := range hoods {
		r := RegionSummary{Name: h.Name, Center: h.Center()}
		for _, b := range u.Map.Buildings() {
			if h.Contains(b.Pos) {
				r.Buildings++
			}
		}
		for _, c := range u.Sim.Cars() {
			p, ok := u.Sim.CarPosition(c.ID)
			if !ok || !h.Contains(p) {
				continue
			}
			if c.Parked {
				r.Parked++
			} else {
				r.Moving++
			}
		}
		out = append(out, r)
	}
	return out
}

func (n *NeighborhoodSummary) Draw(g *render.Canvas, ctx *ui.Ctx) {
	if !n.active {
		return
	}
	col := ctx.CS.Get("neighborhood")
	for _, r := range n.regions {
		x, y, _, _ := g.WorldToScreen(r.Center)
		g.DrawScreenText(x, y, r.Name, col)
		g.DrawScreenText(x, y+1, fmt.Sprintf("%db %dm %dp", r.Buildings, r.Moving, r.Parked), col)
	}
}
