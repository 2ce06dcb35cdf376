package world

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// mapFile is the on-disk TOML layout of a map.
type mapFile struct {
	Name          string             `toml:"name"`
	Intersections []intersectionFile `toml:"intersections"`
	Roads         []roadFile         `toml:"roads"`
	Buildings     []buildingFile     `toml:"buildings"`
}

type intersectionFile struct {
	ID      int    `toml:"id"`
	X       int    `toml:"x"`
	Y       int    `toml:"y"`
	Control string `toml:"control"` // "", "stop" or "signal"
}

type roadFile struct {
	ID      int      `toml:"id"`
	Name    string   `toml:"name"`
	Src     int      `toml:"src"`
	Dst     int      `toml:"dst"`
	Lanes   []string `toml:"lanes"`
	Highway string   `toml:"highway"`
}

type buildingFile struct {
	ID   int    `toml:"id"`
	Name string `toml:"name"`
	X    int    `toml:"x"`
	Y    int    `toml:"y"`
	Road int    `toml:"road"`
}

// LoadMap reads a TOML map from path.
func LoadMap(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read map: %w", err)
	}
	return ParseMap(data)
}

// ParseMap decodes TOML map bytes.
func ParseMap(data []byte) (*Map, error) {
	var f mapFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse map: %w", err)
	}

	intersections := make([]Intersection, len(f.Intersections))
	for i, in := range f.Intersections {
		control, err := parseControl(in.Control)
		if err != nil {
			return nil, fmt.Errorf("intersection[%d]: %w", i, err)
		}
		intersections[i] = Intersection{
			ID:      IntersectionID(in.ID),
			Pos:     Point{X: in.X, Y: in.Y},
			Control: control,
		}
	}

	roads := make([]Road, len(f.Roads))
	for i, r := range f.Roads {
		lanes := make([]LaneType, 0, len(r.Lanes))
		for _, name := range r.Lanes {
			lt, ok := ParseLaneType(name)
			if !ok {
				return nil, fmt.Errorf("road[%d] %q: unknown lane type %q", i, r.Name, name)
			}
			lanes = append(lanes, lt)
		}
		roads[i] = Road{
			ID:      RoadID(r.ID),
			Name:    r.Name,
			Src:     IntersectionID(r.Src),
			Dst:     IntersectionID(r.Dst),
			Lanes:   lanes,
			Highway: r.Highway,
		}
	}

	buildings := make([]Building, len(f.Buildings))
	for i, b := range f.Buildings {
		buildings[i] = Building{
			ID:   BuildingID(b.ID),
			Name: b.Name,
			Pos:  Point{X: b.X, Y: b.Y},
			Road: RoadID(b.Road),
		}
	}

	return NewMap(f.Name, intersections, roads, buildings)
}

func parseControl(s string) (ControlType, error) {
	switch s {
	case "":
		return ControlNone, nil
	case "stop":
		return ControlStopSign, nil
	case "signal":
		return ControlSignal, nil
	default:
		return ControlNone, fmt.Errorf("unknown control %q", s)
	}
}

// GridMap builds a cols x rows street grid. Every third street is a primary
// road; the rest are residential with a parking lane.
func GridMap(name string, cols, rows, spacing int) *Map {
	if cols < 2 {
		cols = 2
	}
	if rows < 2 {
		rows = 2
	}
	if spacing < 3 {
		spacing = 3
	}

	at := func(c, r int) IntersectionID { return IntersectionID(r*cols + c) }
	intersections := make([]Intersection, 0, cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			control := ControlNone
			if (r+c)%2 == 0 {
				control = ControlStopSign
			}
			if r%3 == 0 && c%3 == 0 {
				control = ControlSignal
			}
			intersections = append(intersections, Intersection{
				ID:      at(c, r),
				Pos:     Point{X: c * spacing, Y: r * spacing},
				Control: control,
			})
		}
	}

	var roads []Road
	addRoad := func(name string, src, dst IntersectionID, primary bool) RoadID {
		id := RoadID(len(roads))
		road := Road{ID: id, Name: name, Src: src, Dst: dst}
		if primary {
			road.Highway = "primary"
			road.Lanes = []LaneType{LaneDriving, LaneDriving, LaneBus}
		} else {
			road.Highway = "residential"
			road.Lanes = []LaneType{LaneDriving, LaneParking}
		}
		roads = append(roads, road)
		return id
	}

	var buildings []Building
	addBuilding := func(pos Point, road RoadID) {
		id := BuildingID(len(buildings))
		buildings = append(buildings, Building{ID: id, Name: fmt.Sprintf("%d %s", 100+int(id), roads[road].Name), Pos: pos, Road: road})
	}

	for r := 0; r < rows; r++ {
		for c := 0; c+1 < cols; c++ {
			id := addRoad(fmt.Sprintf("%s St", ordinal(r+1)), at(c, r), at(c+1, r), r%3 == 0)
			if r+1 < rows {
				addBuilding(Point{X: c*spacing + spacing/2, Y: r*spacing + 1}, id)
			}
		}
	}
	for c := 0; c < cols; c++ {
		for r := 0; r+1 < rows; r++ {
			id := addRoad(fmt.Sprintf("%s Ave", ordinal(c+1)), at(c, r), at(c, r+1), c%3 == 0)
			if c+1 < cols && spacing > 3 {
				addBuilding(Point{X: c*spacing + 1, Y: r*spacing + spacing/2}, id)
			}
		}
	}

	m, err := NewMap(name, intersections, roads, buildings)
	if err != nil {
		// The generator only produces valid IDs.
		panic(err)
	}
	return m
}

func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
