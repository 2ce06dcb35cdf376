package sim

import (
	"fmt"

	"github.com/jask/mapedit/internal/input"
	"github.com/jask/mapedit/internal/render"
	"github.com/jask/mapedit/internal/ui"
	"github.com/jask/mapedit/internal/world"
)

// ShowScoreState is the stackable score panel. When an A/B test is loaded it
// compares both runs.
type ShowScoreState struct {
	ui.Base
	primary   world.Summary
	secondary *world.Summary
}

func NewShowScore(ctx *ui.PluginCtx) (*ShowScoreState, bool) {
	if !ctx.Input.Action(input.ScopeGlobal, input.ActionShowScore) {
		return nil, false
	}
	s := &ShowScoreState{}
	s.refresh(ctx)
	return s, true
}

func (s *ShowScoreState) Kind() ui.Kind { return ui.KindShowScore }

func (s *ShowScoreState) Event(ctx *ui.PluginCtx) bool {
	if ctx.Input.Action(input.ScopeGlobal, input.ActionShowScore) {
		return false
	}
	s.refresh(ctx)
	return true
}

func (s *ShowScoreState) refresh(ctx *ui.PluginCtx) {
	s.primary = ctx.Primary.Sim.Summary()
	s.secondary = nil
	if ctx.Secondary != nil {
		sum := ctx.Secondary.Sim.Summary()
		s.secondary = &sum
	}
}

func (s *ShowScoreState) Draw(g *render.Canvas, ctx *ui.Ctx) {
	lines := []string{"Score at " + s.primary.Time.String()}
	lines = append(lines, scoreLine(ctx.UI.Map.Edits().Name, s.primary))
	if s.secondary != nil {
		lines = append(lines, scoreLine("secondary", *s.secondary))
		lines = append(lines, fmt.Sprintf("finished delta: %+d", s.secondary.Finished-s.primary.Finished))
	}
	g.DrawBox(lines, render.TopRight)
}

func scoreLine(label string, sum world.Summary) string {
	return fmt.Sprintf("%s: %d finished, %d moving, %d parked", label, sum.Finished, sum.Moving, sum.Parked)
}
