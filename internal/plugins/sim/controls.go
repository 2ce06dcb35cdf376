package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/jask/mapedit/internal/input"
	"github.com/jask/mapedit/internal/render"
	"github.com/jask/mapedit/internal/ui"
)

// SimControls runs, pauses and steps the sims, and saves or restores the
// primary run. It sees every event that reaches the ambient tier.
type SimControls struct {
	ui.Base
	running bool
	steps   int
}

func NewSimControls() *SimControls { return &SimControls{} }

func (s *SimControls) Kind() ui.Kind   { return ui.KindSimControls }
func (s *SimControls) IsRunning() bool { return s.running }

func (s *SimControls) AmbientEventWithPlugins(ctx *ui.PluginCtx, sib ui.Siblings) {
	in := ctx.Input
	switch {
	case in.Action(input.ScopeSim, input.ActionRunPause):
		s.running = !s.running
	case !s.running && in.Action(input.ScopeSim, input.ActionStep):
		s.step(ctx)
	case in.Action(input.ScopeSim, input.ActionSaveSavestate):
		s.save(ctx)
	case in.Action(input.ScopeSim, input.ActionLoadSavestate):
		s.load(ctx, sib)
	}
	if s.running && in.IsUpdate() {
		s.step(ctx)
	}

	state := "paused"
	if s.running {
		state = "running"
	}
	sum := ctx.Primary.Sim.Summary()
	ctx.Hints.AddOSD(fmt.Sprintf("%s, %s: %d moving, %d parked, %d finished",
		sum.Time, state, sum.Moving, sum.Parked, sum.Finished))
}

// step advances both sims together so an A/B pair stays in lockstep.
func (s *SimControls) step(ctx *ui.PluginCtx) {
	ctx.Primary.Sim.Step()
	if ctx.Secondary != nil {
		ctx.Secondary.Sim.Step()
	}
	s.steps++
}

func (s *SimControls) save(ctx *ui.PluginCtx) {
	sim := ctx.Primary.Sim
	if err := ctx.Primary.Catalog.SaveSavestate(sim.RunName(), sim.Snapshot()); err != nil {
		logrus.Errorf("Save savestate at %s: %v", sim.Time(), err)
		return
	}
	logrus.Infof("Saved savestate %s at %s", sim.RunName(), sim.Time())
}

func (s *SimControls) load(ctx *ui.PluginCtx, sib ui.Siblings) {
	sim := ctx.Primary.Sim
	snap, err := ctx.Primary.Catalog.LatestSavestate(sim.RunName())
	if err != nil {
		logrus.Errorf("Load savestate: %v", err)
		return
	}
	if snap == nil {
		logrus.Warnf("No savestate for %s", sim.RunName())
		return
	}
	sim.Restore(*snap)
	s.running = false
	sib.ResetTimeTravel()
	logrus.Infof("Loaded savestate %s at %s", sim.RunName(), snap.Time)
}

func (s *SimControls) Draw(g *render.Canvas, ctx *ui.Ctx) {
	if ctx.UI.Sim.IsEmpty() && !s.running {
		return
	}
	sum := ctx.UI.Sim.Summary()
	lines := []string{
		fmt.Sprintf("Time %s", sum.Time),
		fmt.Sprintf("%d moving, %d parked", sum.Moving, sum.Parked),
		fmt.Sprintf("%d finished, %d waiting to spawn", sum.Finished, sum.Pending),
	}
	g.DrawBox(lines, render.BottomLeft)
}
