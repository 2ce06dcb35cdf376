package debug

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/jask/mapedit/internal/input"
	"github.com/jask/mapedit/internal/render"
	"github.com/jask/mapedit/internal/ui"
	"github.com/jask/mapedit/internal/world"
)

// Hider is the stackable set of objects the user hid. It goes away once the
// set is emptied.
type Hider struct {
	ui.Base
	hidden map[world.ID]bool
}

// NewHider hides the current selection.
func NewHider(ctx *ui.PluginCtx) (*Hider, bool) {
	sel := ctx.Primary.Selection
	if sel.IsNone() || !ctx.Input.Action(input.ScopeGlobal, input.ActionHide) {
		return nil, false
	}
	h := &Hider{hidden: make(map[world.ID]bool)}
	h.hide(ctx, sel)
	return h, true
}

func (h *Hider) Kind() ui.Kind { return ui.KindHider }

func (h *Hider) Hidden() int { return len(h.hidden) }

func (h *Hider) Event(ctx *ui.PluginCtx) bool {
	if sel := ctx.Primary.Selection; !sel.IsNone() && ctx.Input.Action(input.ScopeGlobal, input.ActionHide) {
		h.hide(ctx, sel)
		return true
	}
	if ctx.Input.Action(input.ScopeGlobal, input.ActionUnhide) {
		logrus.Infof("Unhiding %d objects", len(h.hidden))
		h.hidden = nil
		ctx.Hints.RecalculateSelection = true
		return false
	}
	return len(h.hidden) > 0
}

func (h *Hider) hide(ctx *ui.PluginCtx, id world.ID) {
	h.hidden[id] = true
	ctx.Primary.Selection = world.ID{}
	ctx.Hints.RecalculateSelection = true
	logrus.Debugf("Hid %s", id)
}

func (h *Hider) Show(id world.ID) bool { return !h.hidden[id] }

func (h *Hider) Draw(g *render.Canvas, ctx *ui.Ctx) {
	g.DrawBox([]string{fmt.Sprintf("%d objects hidden (U to unhide)", len(h.hidden))}, render.BottomRight)
}
