package edit

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/jask/mapedit/internal/input"
	"github.com/jask/mapedit/internal/render"
	"github.com/jask/mapedit/internal/ui"
	"github.com/jask/mapedit/internal/wizard"
	"github.com/jask/mapedit/internal/world"
)

const (
	hoodCreate = "Create a new neighborhood"
	hoodEdit   = "Edit an existing neighborhood"
)

// DrawNeighborhoodState picks or names a neighborhood through a wizard, then
// lets the user place polygon points at the cursor.
type DrawNeighborhoodState struct {
	ui.Base
	wiz     *wizard.Wizard
	editing *world.Neighborhood
	dirty   bool
}

func NewDrawNeighborhood(ctx *ui.PluginCtx) (*DrawNeighborhoodState, bool) {
	if !ctx.Input.Action(input.ScopeGlobal, input.ActionNeighborhoods) {
		return nil, false
	}
	return &DrawNeighborhoodState{wiz: wizard.New()}, true
}

func (d *DrawNeighborhoodState) Kind() ui.Kind { return ui.KindDrawNeighborhood }

// Editing is the polygon being drawn, once the wizard has finished.
func (d *DrawNeighborhoodState) Editing() (world.Neighborhood, bool) {
	if d.editing == nil {
		return world.Neighborhood{}, false
	}
	return d.editing.Clone(), true
}

func (d *DrawNeighborhoodState) Event(ctx *ui.PluginCtx) bool {
	if d.editing == nil {
		n, ok := d.pick(ctx)
		if !ok {
			return !d.wiz.Aborted()
		}
		d.editing = &n
		return true
	}

	in := ctx.Input
	switch {
	case in.Action(input.ScopeEditor, input.ActionQuitTool):
		if d.dirty {
			logrus.Warnf("Discarded unsaved changes to neighborhood %s", d.editing.Name)
		}
		return false
	case in.Action(input.ScopeEditor, input.ActionSave):
		if len(d.editing.Points) < 3 {
			logrus.Warnf("Neighborhood %s needs at least 3 points", d.editing.Name)
			return true
		}
		if err := ctx.Primary.Catalog.SaveNeighborhood(*d.editing); err != nil {
			logrus.Errorf("Save neighborhood %s: %v", d.editing.Name, err)
			return true
		}
		logrus.Infof("Saved neighborhood %s", d.editing.Name)
		return false
	case in.Action(input.ScopeEditor, input.ActionUndo):
		if n := len(d.editing.Points); n > 0 {
			d.editing.Points = d.editing.Points[:n-1]
			d.dirty = true
		}
	case in.Action(input.ScopeEditor, input.ActionAdd):
		if p, ok := ctx.Canvas.CursorWorld(); ok {
			d.add(p)
		}
	}
	if x, y, ok := in.Clicked(); ok {
		d.add(ctx.Canvas.ScreenToWorld(x, y))
	}
	return true
}

func (d *DrawNeighborhoodState) add(p world.Point) {
	d.editing.Points = append(d.editing.Points, p)
	d.dirty = true
}

func (d *DrawNeighborhoodState) pick(ctx *ui.PluginCtx) (world.Neighborhood, bool) {
	cat := ctx.Primary.Catalog
	ww := d.wiz.Wrap(ctx.Input, ctx.Primary.Map, cat)
	choice, ok := ww.ChooseString("Neighborhoods", []string{hoodCreate, hoodEdit})
	if !ok {
		return world.Neighborhood{}, false
	}
	if choice == hoodEdit {
		name, ok := ww.ChooseNeighborhood("Edit which neighborhood?")
		if !ok {
			return world.Neighborhood{}, false
		}
		n, ok := cat.NeighborhoodByName(name)
		return n, ok
	}
	name, ok := ww.InputString("Name the neighborhood")
	if !ok {
		return world.Neighborhood{}, false
	}
	return world.Neighborhood{Name: name, MapName: ctx.Primary.Map.Name()}, true
}

func (d *DrawNeighborhoodState) Draw(g *render.Canvas, ctx *ui.Ctx) {
	if d.editing == nil {
		d.wiz.Draw(g)
		return
	}
	col := ctx.CS.Get("neighborhood")
	pts := d.editing.Points
	for i, p := range pts {
		if len(pts) > 1 {
			g.DrawWorldLine(p, pts[(i+1)%len(pts)], '·', col)
		}
	}
	for _, p := range pts {
		g.DrawWorld(p, '◉', col)
	}
	g.DrawBox([]string{
		fmt.Sprintf("Neighborhood %s: %d points", d.editing.Name, len(pts)),
		"click or a: add point  backspace: undo  s: save  esc: quit",
	}, render.TopLeft)
}

func (d *DrawNeighborhoodState) TakingText() bool { return d.editing == nil && !d.wiz.Aborted() }
