package edit

import (
	"github.com/jask/mapedit/internal/colors"
	"github.com/jask/mapedit/internal/input"
	"github.com/jask/mapedit/internal/render"
	"github.com/jask/mapedit/internal/ui"
	"github.com/jask/mapedit/internal/widgets"
	"github.com/jask/mapedit/internal/wizard"
	"github.com/jask/mapedit/internal/world"
)

// ColorPicker lets the user choose a named color and a new value for it.
// The highlighted palette entry previews on the map before it is chosen.
type ColorPicker struct {
	ui.Base
	wiz  *wizard.Wizard
	name string
}

func NewColorPicker(ctx *ui.PluginCtx) (*ColorPicker, bool) {
	if !ctx.Input.Action(input.ScopeGlobal, input.ActionColorPicker) {
		return nil, false
	}
	return &ColorPicker{wiz: wizard.New()}, true
}

func (c *ColorPicker) Kind() ui.Kind { return ui.KindColorPicker }

func (c *ColorPicker) Event(ctx *ui.PluginCtx) bool {
	ww := c.wiz.Wrap(ctx.Input, ctx.Primary.Map, nil)
	name, ok := ww.ChooseString("Change which color?", ctx.CS.Names())
	if !ok {
		return !c.wiz.Aborted()
	}
	c.name = name
	_, v, ok := ww.ChooseSomething("New color for "+name, func() []widgets.MenuItem[wizard.Value] {
		items := make([]widgets.MenuItem[wizard.Value], len(colors.Palette))
		for i, p := range colors.Palette {
			items[i] = widgets.MenuItem[wizard.Value]{Label: p.Name, Value: wizard.ColorValue(p.Color)}
		}
		return items
	})
	if !ok {
		return !c.wiz.Aborted()
	}
	col, _ := v.AsColor()
	ctx.CS.Set(name, col)
	return false
}

// ColorFor previews the highlighted color on objects drawn with the chosen
// name's default color.
func (c *ColorPicker) ColorFor(id world.ID, ctx *ui.Ctx) (colors.Color, bool) {
	if c.name == "" {
		return "", false
	}
	v, ok := c.wiz.CurrentMenuChoice()
	if !ok {
		return "", false
	}
	col, ok := v.AsColor()
	if !ok {
		return "", false
	}
	if ctx.UI.DrawMap.DefaultColor(id, ctx.CS) != ctx.CS.Get(c.name) {
		return "", false
	}
	return col, true
}

func (c *ColorPicker) Draw(g *render.Canvas, ctx *ui.Ctx) { c.wiz.Draw(g) }

func (c *ColorPicker) TakingText() bool { return !c.wiz.Aborted() }
