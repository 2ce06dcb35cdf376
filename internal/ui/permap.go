package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jask/mapedit/internal/render"
	"github.com/jask/mapedit/internal/storage"
	"github.com/jask/mapedit/internal/world"
)

// PerMapUI is everything bound to one loaded map and its edits.
type PerMapUI struct {
	Map       *world.Map
	DrawMap   *render.DrawMap
	Sim       *world.Sim
	Catalog   *storage.Catalog
	Selection world.ID
	Flags     world.Flags
}

// NewPerMapUI wires already-loaded pieces together.
func NewPerMapUI(m *world.Map, cat *storage.Catalog, flags world.Flags) *PerMapUI {
	return &PerMapUI{
		Map:     m,
		DrawMap: render.NewDrawMap(m),
		Sim:     world.NewSim(m, flags),
		Catalog: cat,
		Flags:   flags,
	}
}

// LoadPerMapUI reads the map named by flags, its saved records and, when
// requested, the latest savestate of the run. Failures here are startup errors.
func LoadPerMapUI(ctx context.Context, flags world.Flags, repos *storage.Repos) (*PerMapUI, error) {
	m, err := LoadMap(flags.MapPath)
	if err != nil {
		return nil, err
	}
	cat, err := storage.Load(ctx, m.Name(), repos)
	if err != nil {
		return nil, fmt.Errorf("load saved objects for %s: %w", m.Name(), err)
	}
	ui := NewPerMapUI(m, cat, flags)
	if flags.Savestate {
		snap, err := cat.LatestSavestate(flags.RunName)
		if err != nil {
			return nil, fmt.Errorf("load savestate: %w", err)
		}
		if snap != nil {
			ui.Sim.Restore(*snap)
			logrus.Infof("Restored %s/%s at %s", m.Name(), flags.RunName, snap.Time)
		} else {
			logrus.Warnf("No savestate for run %q, starting fresh", flags.RunName)
		}
	}
	return ui, nil
}

// LoadMap accepts a TOML path or "grid:COLSxROWS".
func LoadMap(path string) (*world.Map, error) {
	if path == "" {
		return world.GridMap("grid", 8, 6, 6), nil
	}
	if dims, ok := strings.CutPrefix(path, "grid:"); ok {
		var cols, rows int
		if _, err := fmt.Sscanf(dims, "%dx%d", &cols, &rows); err != nil {
			return nil, fmt.Errorf("grid map %q: want grid:COLSxROWS", path)
		}
		return world.GridMap(fmt.Sprintf("grid_%dx%d", cols, rows), cols, rows, 6), nil
	}
	return world.LoadMap(path)
}

// ApplyEdits swaps the map's edits and restarts the sim from scratch.
func (ui *PerMapUI) ApplyEdits(e world.MapEdits) {
	ui.Map.ApplyEdits(e)
	ui.Sim = world.NewSim(ui.Map, ui.Flags)
	if !ui.Selection.IsNone() && ui.Selection.Kind != world.ObjCar && !ui.Map.Exists(ui.Selection) {
		ui.Selection = world.ID{}
	}
}

func (ui *PerMapUI) SelectedCar() (world.CarID, bool) { return ui.Selection.AsCar() }

func (ui *PerMapUI) SelectedRoad() (world.RoadID, bool) { return ui.Selection.AsRoad() }

func (ui *PerMapUI) SelectedIntersection() (world.IntersectionID, bool) {
	return ui.Selection.AsIntersection()
}

// CarMarks positions every car for drawing and hit testing.
func (ui *PerMapUI) CarMarks() []render.Car {
	cars := ui.Sim.Cars()
	out := make([]render.Car, 0, len(cars))
	for _, c := range cars {
		p, ok := ui.Sim.CarPosition(c.ID)
		if !ok {
			continue
		}
		out = append(out, render.Car{ID: c.ID, Pos: p, Parked: c.Parked})
	}
	return out
}

// Position returns the cell an object is drawn at.
func (ui *PerMapUI) Position(id world.ID) (world.Point, bool) {
	switch id.Kind {
	case world.ObjRoad:
		pts := ui.Map.RoadPoints(world.RoadID(id.Num))
		if len(pts) == 0 {
			return world.Point{}, false
		}
		return pts[len(pts)/2], true
	case world.ObjIntersection:
		if in := ui.Map.Intersection(world.IntersectionID(id.Num)); in != nil {
			return in.Pos, true
		}
	case world.ObjBuilding:
		if b := ui.Map.Building(world.BuildingID(id.Num)); b != nil {
			return b.Pos, true
		}
	case world.ObjCar:
		return ui.Sim.CarPosition(world.CarID(id.Num))
	case world.ObjTurn:
		return ui.DrawMap.TurnIconPoint(id.Turn)
	}
	return world.Point{}, false
}

// LoadABPair builds fresh primary and secondary UIs for test. Each reloads
// the map so the two edit sets never share state. Both sims use the same
// seed, so car IDs line up between the runs.
func LoadABPair(base *PerMapUI, test world.ABTest) (*PerMapUI, *PerMapUI, error) {
	sc, ok := base.Catalog.ScenarioByName(test.Scenario)
	if !ok {
		return nil, nil, fmt.Errorf("a/b test %s: unknown scenario %q", test.Name, test.Scenario)
	}
	build := func(editsName string) (*PerMapUI, error) {
		edits, ok := base.Catalog.EditsByName(editsName)
		if !ok {
			return nil, fmt.Errorf("a/b test %s: unknown edits %q", test.Name, editsName)
		}
		m, err := LoadMap(base.Flags.MapPath)
		if err != nil {
			return nil, err
		}
		m.ApplyEdits(edits)
		flags := base.Flags
		flags.RunName = fmt.Sprintf("%s with %s", test.Name, editsName)
		u := NewPerMapUI(m, base.Catalog, flags)
		u.Sim.Instantiate(sc, base.Catalog.Neighborhoods())
		return u, nil
	}
	primary, err := build(test.EditsA)
	if err != nil {
		return nil, nil, err
	}
	secondary, err := build(test.EditsB)
	if err != nil {
		return nil, nil, err
	}
	return primary, secondary, nil
}
