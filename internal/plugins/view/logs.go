// Package view holds the plugins that help the user look around: logs,
// search, warping, and the ambient overlays.
package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/jask/mapedit/internal/input"
	"github.com/jask/mapedit/internal/logs"
	"github.com/jask/mapedit/internal/render"
	"github.com/jask/mapedit/internal/ui"
)

// DisplayLogs shows the in-memory log tail in a scrollable viewport. It
// sticks to the newest line until the user scrolls up.
type DisplayLogs struct {
	ui.Base
	vp   viewport.Model
	seen int // logs.Total() at the last refresh
}

func NewDisplayLogs(ctx *ui.PluginCtx) (*DisplayLogs, bool) {
	if !ctx.Input.Action(input.ScopeGlobal, input.ActionLogs) {
		return nil, false
	}
	w, h := logsSize(ctx.Canvas)
	d := &DisplayLogs{vp: viewport.New(w, h)}
	d.refresh()
	d.vp.GotoBottom()
	return d, true
}

func logsSize(c *render.Canvas) (int, int) {
	w, h := c.Size()
	return max(w-8, 10), max(h-8, 3)
}

func (d *DisplayLogs) Kind() ui.Kind { return ui.KindLogs }

func (d *DisplayLogs) Event(ctx *ui.PluginCtx) bool {
	in := ctx.Input
	if in.Action(input.ScopeEditor, input.ActionQuitTool) || in.Action(input.ScopeGlobal, input.ActionLogs) {
		return false
	}
	d.vp.Width, d.vp.Height = logsSize(ctx.Canvas)
	if in.IsUpdate() {
		d.refresh()
		return true
	}
	if !in.HasBeenConsumed() {
		d.vp, _ = d.vp.Update(in.Msg())
		in.Consume()
	}
	return true
}

func (d *DisplayLogs) refresh() {
	total := logs.Total()
	if total == d.seen && total > 0 {
		return
	}
	follow := d.vp.AtBottom() || d.seen == 0
	d.seen = total
	d.vp.SetContent(strings.Join(logs.Lines(), "\n"))
	if follow {
		d.vp.GotoBottom()
	}
}

func (d *DisplayLogs) Draw(g *render.Canvas, ctx *ui.Ctx) {
	body := "nothing logged yet"
	if d.seen > 0 {
		body = d.vp.View()
	}
	lines := []string{fmt.Sprintf("Logs (%d total, esc to close)", logs.Total())}
	lines = append(lines, strings.Split(body, "\n")...)
	g.DrawBox(lines, render.Center)
}
