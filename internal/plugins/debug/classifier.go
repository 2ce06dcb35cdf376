package debug

import (
	"github.com/jask/mapedit/internal/colors"
	"github.com/jask/mapedit/internal/input"
	"github.com/jask/mapedit/internal/render"
	"github.com/jask/mapedit/internal/ui"
	"github.com/jask/mapedit/internal/world"
)

// OsmClassifier colors roads by their highway tag.
type OsmClassifier struct{ ui.Base }

func NewOsmClassifier(ctx *ui.PluginCtx) (*OsmClassifier, bool) {
	if !ctx.Input.Action(input.ScopeGlobal, input.ActionClassify) {
		return nil, false
	}
	return &OsmClassifier{}, true
}

func (c *OsmClassifier) Kind() ui.Kind { return ui.KindClassifier }

func (c *OsmClassifier) Event(ctx *ui.PluginCtx) bool {
	return !ctx.Input.Action(input.ScopeEditor, input.ActionQuitTool)
}

func (c *OsmClassifier) ColorFor(id world.ID, ctx *ui.Ctx) (colors.Color, bool) {
	r, ok := id.AsRoad()
	if !ok {
		return "", false
	}
	road := ctx.UI.Map.Road(r)
	if road == nil {
		return "", false
	}
	switch road.Highway {
	case "primary", "trunk", "motorway":
		return ctx.CS.Get("osm/primary"), true
	case "residential":
		return ctx.CS.Get("osm/residential"), true
	}
	return ctx.CS.Get("osm/other"), true
}

func (c *OsmClassifier) Draw(g *render.Canvas, ctx *ui.Ctx) {
	g.DrawBox([]string{"Classifying roads by highway type (esc to quit)"}, render.TopLeft)
}
