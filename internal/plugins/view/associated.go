package view

import (
	"github.com/jask/mapedit/internal/colors"
	"github.com/jask/mapedit/internal/ui"
	"github.com/jask/mapedit/internal/world"
)

// ShowAssociatedState highlights what belongs with the selection: a
// building's front road, the buildings along a road, or an intersection's
// roads.
type ShowAssociatedState struct {
	ui.Base
	from    world.ID
	related map[world.ID]bool
}

func NewShowAssociated() *ShowAssociatedState { return &ShowAssociatedState{} }

func (s *ShowAssociatedState) Kind() ui.Kind { return ui.KindShowAssociated }

func (s *ShowAssociatedState) AmbientEvent(ctx *ui.PluginCtx) {
	sel := ctx.Primary.Selection
	if sel == s.from && s.related != nil {
		return
	}
	s.from = sel
	s.related = Associated(ctx.Primary.Map, sel)
}

// Associated lists the objects related to id.
func Associated(m *world.Map, id world.ID) map[world.ID]bool {
	out := make(map[world.ID]bool)
	switch id.Kind {
	case world.ObjBuilding:
		if b := m.Building(world.BuildingID(id.Num)); b != nil {
			out[world.RoadObj(b.Road)] = true
		}
	case world.ObjRoad:
		for _, b := range m.Buildings() {
			if b.Road == world.RoadID(id.Num) {
				out[world.BuildingObj(b.ID)] = true
			}
		}
	case world.ObjIntersection:
		if in := m.Intersection(world.IntersectionID(id.Num)); in != nil {
			for _, r := range in.Roads {
				out[world.RoadObj(r)] = true
			}
		}
	}
	return out
}

func (s *ShowAssociatedState) ColorFor(id world.ID, ctx *ui.Ctx) (colors.Color, bool) {
	if s.related[id] {
		return ctx.CS.Get("associated"), true
	}
	return "", false
}
