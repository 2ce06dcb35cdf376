package edit

import (
	"github.com/sirupsen/logrus"

	"github.com/jask/mapedit/internal/input"
	"github.com/jask/mapedit/internal/render"
	"github.com/jask/mapedit/internal/ui"
	"github.com/jask/mapedit/internal/wizard"
	"github.com/jask/mapedit/internal/world"
)

const (
	editsSave  = "Save current edits"
	editsLoad  = "Load different edits"
	editsReset = "Reset to no edits"
)

// EditsManager saves, loads or clears the map edits. Loading rebuilds the
// sim, so it resets time travel.
type EditsManager struct {
	ui.Base
	wiz *wizard.Wizard
}

func NewEditsManager(ctx *ui.PluginCtx) (*EditsManager, bool) {
	if !ctx.Input.Action(input.ScopeGlobal, input.ActionMapEdits) {
		return nil, false
	}
	return &EditsManager{wiz: wizard.New()}, true
}

func (e *EditsManager) Kind() ui.Kind { return ui.KindEditsManager }

func (e *EditsManager) EventWithPlugins(ctx *ui.PluginCtx, sib ui.Siblings) bool {
	u := ctx.Primary
	current := u.Map.Edits()
	ww := e.wiz.Wrap(ctx.Input, u.Map, u.Catalog)
	choice, ok := ww.ChooseString("Map edits ("+current.Name+")", []string{editsSave, editsLoad, editsReset})
	if !ok {
		return !e.wiz.Aborted()
	}
	switch choice {
	case editsSave:
		prefill := current.Name
		if prefill == world.EmptyEdits("").Name {
			prefill = ""
		}
		name, ok := ww.InputStringPrefilled("Name the edits", prefill)
		if !ok {
			return !e.wiz.Aborted()
		}
		current.Name = name
		if err := u.Catalog.SaveEdits(current); err != nil {
			logrus.Errorf("Save edits %s: %v", name, err)
			return false
		}
		// Keep the name so the ui shows which edits are loaded.
		u.Map.ApplyEdits(current)
		logrus.Infof("Saved %d edits as %s", current.Count(), name)
	case editsLoad:
		edits, ok := ww.ChooseEdits("Load which edits?")
		if !ok {
			return !e.wiz.Aborted()
		}
		u.ApplyEdits(edits)
		sib.ResetTimeTravel()
		ctx.Hints.RecalculateSelection = true
		logrus.Infof("Loaded edits %s", edits.Name)
	case editsReset:
		u.ApplyEdits(world.EmptyEdits(u.Map.Name()))
		sib.ResetTimeTravel()
		ctx.Hints.RecalculateSelection = true
		logrus.Info("Reset map edits")
	}
	return false
}

func (e *EditsManager) Draw(g *render.Canvas, ctx *ui.Ctx) { e.wiz.Draw(g) }

func (e *EditsManager) TakingText() bool { return !e.wiz.Aborted() }
