package edit

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jask/mapedit/internal/colors"
	"github.com/jask/mapedit/internal/input"
	"github.com/jask/mapedit/internal/render"
	"github.com/jask/mapedit/internal/ui"
	"github.com/jask/mapedit/internal/world"
)

// RoadEditor changes the lanes of the selected road. The sim keeps running
// on the edited map; lane types only affect drawing and saved edits.
type RoadEditor struct {
	ui.Base
	road world.RoadID
	lane int
}

func NewRoadEditor(ctx *ui.PluginCtx) (*RoadEditor, bool) {
	r, ok := ctx.Primary.SelectedRoad()
	if !ok || !ctx.Input.Action(input.ScopeGlobal, input.ActionRoadEditor) {
		return nil, false
	}
	return &RoadEditor{road: r}, true
}

func (r *RoadEditor) Kind() ui.Kind { return ui.KindRoadEditor }

func (r *RoadEditor) Road() world.RoadID { return r.road }
func (r *RoadEditor) Lane() int          { return r.lane }

func (r *RoadEditor) Event(ctx *ui.PluginCtx) bool {
	m := ctx.Primary.Map
	road := m.Road(r.road)
	if road == nil {
		return false
	}
	lanes := slices.Clone(road.Lanes)
	in := ctx.Input
	switch {
	case in.Action(input.ScopeEditor, input.ActionQuitTool), in.Action(input.ScopeEditor, input.ActionConfirm):
		return false
	case len(lanes) > 0 && in.Action(input.ScopeEditor, input.ActionNext):
		r.lane = (r.lane + 1) % len(lanes)
	case len(lanes) > 0 && in.Action(input.ScopeEditor, input.ActionPrev):
		r.lane = (r.lane + len(lanes) - 1) % len(lanes)
	case len(lanes) > 0 && in.Action(input.ScopeEditor, input.ActionToggle):
		lanes[r.lane] = lanes[r.lane].Next()
		m.SetLanes(r.road, lanes)
		logrus.Debugf("%s lane %d is now %s", m.Label(world.RoadObj(r.road)), r.lane, lanes[r.lane])
	case in.Action(input.ScopeEditor, input.ActionAdd):
		lanes = append(lanes, world.LaneDriving)
		m.SetLanes(r.road, lanes)
		r.lane = len(lanes) - 1
	case in.Action(input.ScopeEditor, input.ActionDelete):
		if len(lanes) <= 1 {
			logrus.Warn("A road needs at least one lane")
			break
		}
		lanes = slices.Delete(lanes, r.lane, r.lane+1)
		m.SetLanes(r.road, lanes)
		if r.lane >= len(lanes) {
			r.lane = len(lanes) - 1
		}
	}
	return true
}

func (r *RoadEditor) ColorFor(id world.ID, ctx *ui.Ctx) (colors.Color, bool) {
	if id == world.RoadObj(r.road) {
		return ctx.CS.Get("selected"), true
	}
	return "", false
}

func (r *RoadEditor) Draw(g *render.Canvas, ctx *ui.Ctx) {
	m := ctx.UI.Map
	road := m.Road(r.road)
	if road == nil {
		return
	}
	parts := make([]string, len(road.Lanes))
	for i, l := range road.Lanes {
		if i == r.lane {
			parts[i] = "[" + l.String() + "]"
		} else {
			parts[i] = l.String()
		}
	}
	g.DrawBox([]string{
		fmt.Sprintf("Editing lanes of %s", m.Label(world.RoadObj(r.road))),
		strings.Join(parts, " | "),
		"[ ] pick lane  space change type  a add  x delete  enter done",
	}, render.TopLeft)
}
