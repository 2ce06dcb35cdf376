package debug

import (
	"fmt"
	"strings"

	"github.com/jask/mapedit/internal/input"
	"github.com/jask/mapedit/internal/render"
	"github.com/jask/mapedit/internal/ui"
	"github.com/jask/mapedit/internal/world"
)

// DebugObjectsState toggles a panel describing the selected object.
type DebugObjectsState struct {
	ui.Base
	enabled bool
	lines   []string
}

func NewDebugObjects() *DebugObjectsState { return &DebugObjectsState{} }

func (d *DebugObjectsState) Kind() ui.Kind { return ui.KindDebugObjects }

func (d *DebugObjectsState) Enabled() bool { return d.enabled }

func (d *DebugObjectsState) AmbientEvent(ctx *ui.PluginCtx) {
	if ctx.Input.Action(input.ScopeGlobal, input.ActionDebugObjects) {
		d.enabled = !d.enabled
	}
	d.lines = nil
	if d.enabled && !ctx.Primary.Selection.IsNone() {
		d.lines = Describe(ctx.Primary, ctx.Primary.Selection)
	}
}

// Describe lists everything known about id.
func Describe(u *ui.PerMapUI, id world.ID) []string {
	m := u.Map
	lines := []string{fmt.Sprintf("%s (%s)", m.Label(id), id)}
	switch id.Kind {
	case world.ObjRoad:
		r := m.Road(world.RoadID(id.Num))
		if r == nil {
			break
		}
		lanes := make([]string, len(r.Lanes))
		for i, l := range r.Lanes {
			lanes[i] = l.String()
		}
		lines = append(lines,
			fmt.Sprintf("from %s to %s", world.IntersectionObj(r.Src), world.IntersectionObj(r.Dst)),
			"highway: "+r.Highway,
			"lanes: "+strings.Join(lanes, ", "),
			fmt.Sprintf("%d cars", u.Sim.CarsOnRoad()[r.ID]))
	case world.ObjIntersection:
		in := m.Intersection(world.IntersectionID(id.Num))
		if in == nil {
			break
		}
		lines = append(lines,
			"control: "+in.Control.String(),
			fmt.Sprintf("%d roads, %d turns", len(in.Roads), len(m.Turns(in.ID))))
		if in.Control == world.ControlSignal {
			lines = append(lines, fmt.Sprintf("%d signal phases", len(in.Phases)))
		}
		if len(in.StopRoads) > 0 {
			lines = append(lines, fmt.Sprintf("%d roads stop", len(in.StopRoads)))
		}
	case world.ObjBuilding:
		if b := m.Building(world.BuildingID(id.Num)); b != nil {
			lines = append(lines, fmt.Sprintf("at %v, fronts %s", b.Pos, m.Label(world.RoadObj(b.Road))))
		}
	case world.ObjCar:
		c, ok := u.Sim.Car(world.CarID(id.Num))
		if !ok {
			lines = append(lines, "finished")
			break
		}
		state := "moving"
		if c.Parked {
			state = "parked"
		}
		lines = append(lines,
			state,
			fmt.Sprintf("on %s, leg %d of %d", m.Label(world.RoadObj(c.Road())), c.Leg+1, len(c.Route)))
	case world.ObjTurn:
		t := id.Turn
		lines = append(lines, fmt.Sprintf("%s to %s", m.Label(world.RoadObj(t.Src)), m.Label(world.RoadObj(t.Dst))))
	}
	return lines
}

func (d *DebugObjectsState) Draw(g *render.Canvas, ctx *ui.Ctx) {
	if len(d.lines) > 0 {
		g.DrawBox(d.lines, render.BottomRight)
	}
}
