package debug

import (
	"fmt"

	"github.com/jask/mapedit/internal/colors"
	"github.com/jask/mapedit/internal/input"
	"github.com/jask/mapedit/internal/render"
	"github.com/jask/mapedit/internal/ui"
	"github.com/jask/mapedit/internal/world"
)

// Floodfiller explores the road graph breadth-first from the selected road,
// one ring per step.
type Floodfiller struct {
	ui.Base
	visited map[world.RoadID]bool
	queue   []world.RoadID
	rings   int
}

func NewFloodfiller(ctx *ui.PluginCtx) (*Floodfiller, bool) {
	r, ok := ctx.Primary.SelectedRoad()
	if !ok || !ctx.Input.Action(input.ScopeGlobal, input.ActionFloodfill) {
		return nil, false
	}
	return &Floodfiller{visited: map[world.RoadID]bool{}, queue: []world.RoadID{r}}, true
}

func (f *Floodfiller) Kind() ui.Kind { return ui.KindFloodfill }

func (f *Floodfiller) Event(ctx *ui.PluginCtx) bool {
	in := ctx.Input
	switch {
	case in.Action(input.ScopeEditor, input.ActionQuitTool):
		return false
	case in.Action(input.ScopeEditor, input.ActionToggle):
		f.Step(ctx.Primary.Map)
	case in.Action(input.ScopeEditor, input.ActionConfirm):
		for len(f.queue) > 0 {
			f.Step(ctx.Primary.Map)
		}
	}
	return true
}

// Step visits everything queued and queues their unvisited neighbors.
func (f *Floodfiller) Step(m *world.Map) {
	if len(f.queue) == 0 {
		return
	}
	var next []world.RoadID
	queued := make(map[world.RoadID]bool)
	for _, r := range f.queue {
		f.visited[r] = true
	}
	for _, r := range f.queue {
		for _, n := range m.Neighbors(r) {
			if !f.visited[n] && !queued[n] {
				queued[n] = true
				next = append(next, n)
			}
		}
	}
	f.queue = next
	f.rings++
}

func (f *Floodfiller) Visited() int { return len(f.visited) }
func (f *Floodfiller) Queued() int  { return len(f.queue) }

func (f *Floodfiller) ColorFor(id world.ID, ctx *ui.Ctx) (colors.Color, bool) {
	r, ok := id.AsRoad()
	if !ok {
		return "", false
	}
	if f.visited[r] {
		return ctx.CS.Get("floodfill/visited"), true
	}
	for _, q := range f.queue {
		if q == r {
			return ctx.CS.Get("floodfill/queued"), true
		}
	}
	return "", false
}

func (f *Floodfiller) Draw(g *render.Canvas, ctx *ui.Ctx) {
	g.DrawBox([]string{
		fmt.Sprintf("Floodfill: %d visited, %d queued after %d steps", len(f.visited), len(f.queue), f.rings),
		"space step  enter finish  esc quit",
	}, render.TopLeft)
}
