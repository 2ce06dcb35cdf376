package view

import (
	"github.com/jask/mapedit/internal/colors"
	"github.com/jask/mapedit/internal/input"
	"github.com/jask/mapedit/internal/render"
	"github.com/jask/mapedit/internal/ui"
	"github.com/jask/mapedit/internal/world"
)

// TurnCyclerState steps through the turns of the selected intersection, or
// through the turns leaving the selected road.
type TurnCyclerState struct {
	ui.Base
	from  world.ID
	turns []world.TurnID
	idx   int // -1 until the user cycles
}

func NewTurnCycler() *TurnCyclerState { return &TurnCyclerState{idx: -1} }

func (t *TurnCyclerState) Kind() ui.Kind { return ui.KindTurnCycler }

func (t *TurnCyclerState) Current() (world.TurnID, bool) {
	if t.idx < 0 || t.idx >= len(t.turns) {
		return world.TurnID{}, false
	}
	return t.turns[t.idx], true
}

func (t *TurnCyclerState) AmbientEvent(ctx *ui.PluginCtx) {
	sel := ctx.Primary.Selection
	if sel != t.from {
		t.from = sel
		t.turns = turnsFor(ctx.Primary.Map, sel)
		t.idx = -1
	}
	if len(t.turns) == 0 {
		return
	}
	if ctx.Input.Action(input.ScopeGlobal, input.ActionTurns) {
		t.idx = (t.idx + 1) % len(t.turns)
	}
}

func turnsFor(m *world.Map, id world.ID) []world.TurnID {
	switch id.Kind {
	case world.ObjIntersection:
		return m.Turns(world.IntersectionID(id.Num))
	case world.ObjRoad:
		r := m.Road(world.RoadID(id.Num))
		if r == nil {
			return nil
		}
		var out []world.TurnID
		for _, end := range []world.IntersectionID{r.Src, r.Dst} {
			for _, turn := range m.Turns(end) {
				if turn.Src == r.ID {
					out = append(out, turn)
				}
			}
		}
		return out
	}
	return nil
}

func (t *TurnCyclerState) ColorFor(id world.ID, ctx *ui.Ctx) (colors.Color, bool) {
	cur, ok := t.Current()
	if turn, isTurn := id.AsTurn(); ok && isTurn && turn == cur {
		return ctx.CS.Get("current turn"), true
	}
	return "", false
}

// Draw paints the current turn's icon even when turn icons are hidden.
func (t *TurnCyclerState) Draw(g *render.Canvas, ctx *ui.Ctx) {
	cur, ok := t.Current()
	if !ok {
		return
	}
	if p, ok := ctx.UI.DrawMap.TurnIconPoint(cur); ok {
		g.DrawWorld(p, ctx.UI.DrawMap.TurnGlyph(cur), ctx.CS.Get("current turn"))
	}
}
