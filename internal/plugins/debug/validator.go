package debug

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/jask/mapedit/internal/colors"
	"github.com/jask/mapedit/internal/input"
	"github.com/jask/mapedit/internal/render"
	"github.com/jask/mapedit/internal/ui"
	"github.com/jask/mapedit/internal/world"
)

// MaxBuildingReach is how far a building may sit from its front road.
const MaxBuildingReach = 3

// Problem is one geometry defect and the objects involved.
type Problem struct {
	Objects []world.ID
	Message string
}

// Validator lists geometry problems and warps to them one at a time.
type Validator struct {
	ui.Base
	problems []Problem
	current  int
}

func NewValidator(ctx *ui.PluginCtx) (*Validator, bool) {
	if !ctx.Input.Action(input.ScopeGlobal, input.ActionValidate) {
		return nil, false
	}
	v := &Validator{problems: Validate(ctx.Primary.Map, ctx.Primary.DrawMap)}
	if len(v.problems) == 0 {
		logrus.Infof("No geometry problems in %s", ctx.Primary.Map.Name())
	} else {
		logrus.Warnf("%d geometry problems in %s", len(v.problems), ctx.Primary.Map.Name())
		v.warp(ctx)
	}
	return v, true
}

// Validate checks the static geometry of m.
func Validate(m *world.Map, dm *render.DrawMap) []Problem {
	var out []Problem
	seen := make(map[world.Point]world.IntersectionID)
	for _, in := range m.Intersections() {
		if other, ok := seen[in.Pos]; ok {
			out = append(out, Problem{
				Objects: []world.ID{world.IntersectionObj(other), world.IntersectionObj(in.ID)},
				Message: fmt.Sprintf("intersections %d and %d share %v", other, in.ID, in.Pos),
			})
			continue
		}
		seen[in.Pos] = in.ID
	}
	for _, r := range m.Roads() {
		if len(m.RoadPoints(r.ID)) < 3 {
			out = append(out, Problem{
				Objects: []world.ID{world.RoadObj(r.ID)},
				Message: fmt.Sprintf("%s is too short to draw", m.Label(world.RoadObj(r.ID))),
			})
		}
	}
	for _, b := range m.Buildings() {
		id := world.BuildingObj(b.ID)
		for _, other := range dm.ObjectsAt(b.Pos) {
			if other != id {
				out = append(out, Problem{
					Objects: []world.ID{id, other},
					Message: fmt.Sprintf("%s overlaps %s", m.Label(id), m.Label(other)),
				})
			}
		}
		if d, ok := distanceToRoad(m, b); !ok || d > MaxBuildingReach {
			out = append(out, Problem{
				Objects: []world.ID{id, world.RoadObj(b.Road)},
				Message: fmt.Sprintf("%s is far from its road", m.Label(id)),
			})
		}
	}
	return out
}

func distanceToRoad(m *world.Map, b world.Building) (int, bool) {
	pts := m.RoadPoints(b.Road)
	if len(pts) == 0 {
		return 0, false
	}
	best := -1
	for _, p := range pts {
		d := max(abs(p.X-b.Pos.X), abs(p.Y-b.Pos.Y))
		if best < 0 || d < best {
			best = d
		}
	}
	return best, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (v *Validator) Kind() ui.Kind { return ui.KindValidator }

func (v *Validator) Problems() []Problem { return v.problems }

func (v *Validator) Event(ctx *ui.PluginCtx) bool {
	if len(v.problems) == 0 {
		return false
	}
	in := ctx.Input
	switch {
	case in.Action(input.ScopeEditor, input.ActionQuitTool):
		return false
	case in.Action(input.ScopeEditor, input.ActionNext):
		v.current = (v.current + 1) % len(v.problems)
		v.warp(ctx)
	case in.Action(input.ScopeEditor, input.ActionPrev):
		v.current = (v.current + len(v.problems) - 1) % len(v.problems)
		v.warp(ctx)
	}
	return true
}

func (v *Validator) warp(ctx *ui.PluginCtx) {
	first := v.problems[v.current].Objects[0]
	if p, ok := ctx.Primary.Position(first); ok {
		ctx.Canvas.CenterOn(p)
	}
}

func (v *Validator) ColorFor(id world.ID, ctx *ui.Ctx) (colors.Color, bool) {
	if len(v.problems) == 0 {
		return "", false
	}
	for _, obj := range v.problems[v.current].Objects {
		if obj == id {
			return ctx.CS.Get("geom problem"), true
		}
	}
	return "", false
}

func (v *Validator) Draw(g *render.Canvas, ctx *ui.Ctx) {
	if len(v.problems) == 0 {
		return
	}
	g.DrawBox([]string{
		fmt.Sprintf("Problem %d/%d: %s", v.current+1, len(v.problems), v.problems[v.current].Message),
		"] next  [ previous  esc quit",
	}, render.TopLeft)
}
