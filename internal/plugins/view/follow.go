package view

import (
	"github.com/sirupsen/logrus"

	"github.com/jask/mapedit/internal/colors"
	"github.com/jask/mapedit/internal/input"
	"github.com/jask/mapedit/internal/ui"
	"github.com/jask/mapedit/internal/world"
)

// FollowState keeps the camera on one car until it finishes or the user
// stops following.
type FollowState struct {
	ui.Base
	car       world.CarID
	following bool
}

func NewFollowState() *FollowState { return &FollowState{} }

func (f *FollowState) Kind() ui.Kind { return ui.KindFollow }

func (f *FollowState) Following() (world.CarID, bool) { return f.car, f.following }

func (f *FollowState) AmbientEvent(ctx *ui.PluginCtx) {
	if f.following {
		if ctx.Input.Action(input.ScopeGlobal, input.ActionFollow) {
			f.following = false
			return
		}
		p, ok := ctx.Primary.Sim.CarPosition(f.car)
		if !ok {
			logrus.Infof("%s finished, no longer following", world.CarObj(f.car))
			f.following = false
			return
		}
		ctx.Canvas.CenterOn(p)
		return
	}
	if car, ok := ctx.Primary.SelectedCar(); ok && ctx.Input.Action(input.ScopeGlobal, input.ActionFollow) {
		f.car, f.following = car, true
		if p, ok := ctx.Primary.Sim.CarPosition(car); ok {
			ctx.Canvas.CenterOn(p)
		}
	}
}

func (f *FollowState) ColorFor(id world.ID, ctx *ui.Ctx) (colors.Color, bool) {
	if c, ok := id.AsCar(); ok && f.following && c == f.car {
		return ctx.CS.Get("following"), true
	}
	return "", false
}
