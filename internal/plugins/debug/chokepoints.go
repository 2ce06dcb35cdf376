package debug

import (
	"fmt"
	"sort"

	"github.com/jask/mapedit/internal/colors"
	"github.com/jask/mapedit/internal/input"
	"github.com/jask/mapedit/internal/render"
	"github.com/jask/mapedit/internal/ui"
	"github.com/jask/mapedit/internal/world"
)

// ChokepointShare is the fraction of roads reported as chokepoints.
const ChokepointShare = 0.05

// ChokepointsFinder marks the roads the most remaining car routes cross.
type ChokepointsFinder struct {
	ui.Base
	roads  map[world.RoadID]int
	ranked []world.RoadID
}

func NewChokepointsFinder(ctx *ui.PluginCtx) (*ChokepointsFinder, bool) {
	if !ctx.Input.Action(input.ScopeGlobal, input.ActionChokepoints) {
		return nil, false
	}
	c := &ChokepointsFinder{}
	c.ranked, c.roads = findChokepoints(ctx.Primary.Map, ctx.Primary.Sim)
	return c, true
}

func findChokepoints(m *world.Map, sim *world.Sim) ([]world.RoadID, map[world.RoadID]int) {
	counts := make(map[world.RoadID]int)
	for _, car := range sim.Cars() {
		for _, r := range car.Remaining() {
			counts[r]++
		}
	}
	ranked := make([]world.RoadID, 0, len(counts))
	for r := range counts {
		ranked = append(ranked, r)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if counts[ranked[i]] != counts[ranked[j]] {
			return counts[ranked[i]] > counts[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})
	keep := int(float64(len(m.Roads())) * ChokepointShare)
	if keep < 1 {
		keep = 1
	}
	if keep < len(ranked) {
		ranked = ranked[:keep]
	}
	top := make(map[world.RoadID]int, len(ranked))
	for _, r := range ranked {
		top[r] = counts[r]
	}
	return ranked, top
}

func (c *ChokepointsFinder) Kind() ui.Kind { return ui.KindChokepoints }

func (c *ChokepointsFinder) Event(ctx *ui.PluginCtx) bool {
	return !ctx.Input.Action(input.ScopeEditor, input.ActionQuitTool)
}

func (c *ChokepointsFinder) ColorFor(id world.ID, ctx *ui.Ctx) (colors.Color, bool) {
	if r, ok := id.AsRoad(); ok && c.roads[r] > 0 {
		return ctx.CS.Get("chokepoint"), true
	}
	return "", false
}

func (c *ChokepointsFinder) Draw(g *render.Canvas, ctx *ui.Ctx) {
	lines := []string{"Chokepoints (esc to quit)"}
	if len(c.ranked) == 0 {
		lines = append(lines, "no cars on the map")
	}
	for i, r := range c.ranked {
		if i == 5 {
			lines = append(lines, fmt.Sprintf("... and %d more", len(c.ranked)-i))
			break
		}
		lines = append(lines, fmt.Sprintf("%s: %d routes", ctx.UI.Map.Label(world.RoadObj(r)), c.roads[r]))
	}
	g.DrawBox(lines, render.TopLeft)
}
