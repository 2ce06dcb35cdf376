package view

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/sirupsen/logrus"

	"github.com/jask/mapedit/internal/input"
	"github.com/jask/mapedit/internal/render"
	"github.com/jask/mapedit/internal/ui"
	"github.com/jask/mapedit/internal/wizard"
	"github.com/jask/mapedit/internal/world"
)

// WarpState asks for an object and centers the camera on it.
type WarpState struct {
	ui.Base
	wiz *wizard.Wizard
}

func NewWarpState(ctx *ui.PluginCtx) (*WarpState, bool) {
	if !ctx.Input.Action(input.ScopeGlobal, input.ActionWarp) {
		return nil, false
	}
	return &WarpState{wiz: wizard.New()}, true
}

func (w *WarpState) Kind() ui.Kind { return ui.KindWarp }

func (w *WarpState) Event(ctx *ui.PluginCtx) bool {
	ww := w.wiz.Wrap(ctx.Input, ctx.Primary.Map, ctx.Primary.Catalog)
	target, ok := ww.InputString("Warp to what? (r12, i3, b7, c2 or a name)")
	if !ok {
		return !w.wiz.Aborted()
	}
	id, ok := Resolve(ctx.Primary, target)
	if !ok {
		logrus.Warnf("Nothing to warp to for %q", target)
		return false
	}
	p, ok := ctx.Primary.Position(id)
	if !ok {
		logrus.Warnf("%s is not on the map", id)
		return false
	}
	logrus.Infof("Warping to %s", ctx.Primary.Map.Label(id))
	ctx.Canvas.CenterOn(p)
	ctx.Primary.Selection = id
	return false
}

// Resolve turns user text into an object: an ID like "r12", or else the
// road or building whose name is closest.
func Resolve(u *ui.PerMapUI, text string) (world.ID, bool) {
	text = strings.TrimSpace(text)
	if id, ok := world.ParseID(text); ok {
		if id.Kind == world.ObjCar {
			_, ok = u.Sim.Car(world.CarID(id.Num))
			return id, ok
		}
		return id, u.Map.Exists(id)
	}
	query := strings.ToLower(text)
	if query == "" {
		return world.ID{}, false
	}
	var best world.ID
	bestDist := -1
	consider := func(id world.ID, name string) {
		if name == "" {
			return
		}
		d := levenshtein.ComputeDistance(strings.ToLower(name), query)
		if bestDist < 0 || d < bestDist {
			best, bestDist = id, d
		}
	}
	for _, r := range u.Map.Roads() {
		consider(world.RoadObj(r.ID), r.Name)
	}
	for _, b := range u.Map.Buildings() {
		consider(world.BuildingObj(b.ID), b.Name)
	}
	if bestDist < 0 || bestDist > len(query)/2 {
		return world.ID{}, false
	}
	return best, true
}

func (w *WarpState) Draw(g *render.Canvas, ctx *ui.Ctx) { w.wiz.Draw(g) }

func (w *WarpState) TakingText() bool { return !w.wiz.Aborted() }
