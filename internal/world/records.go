package world

import "slices"

// MapEdits is a named, persisted set of changes layered over a loaded map.
type MapEdits struct {
	Name      string                         `json:"name"`
	MapName   string                         `json:"map_name"`
	Lanes     map[RoadID][]LaneType          `json:"lanes"`
	Controls  map[IntersectionID]ControlType `json:"controls"`
	StopRoads map[IntersectionID][]RoadID    `json:"stop_roads"`
	Phases    map[IntersectionID][][]TurnID  `json:"phases"`
}

func EmptyEdits(mapName string) MapEdits {
	return MapEdits{
		Name:      "no edits",
		MapName:   mapName,
		Lanes:     map[RoadID][]LaneType{},
		Controls:  map[IntersectionID]ControlType{},
		StopRoads: map[IntersectionID][]RoadID{},
		Phases:    map[IntersectionID][][]TurnID{},
	}
}

func (e MapEdits) Count() int {
	return len(e.Lanes) + len(e.Controls) + len(e.StopRoads) + len(e.Phases)
}

func (e MapEdits) Clone() MapEdits {
	out := EmptyEdits(e.MapName)
	out.Name = e.Name
	for r, l := range e.Lanes {
		out.Lanes[r] = slices.Clone(l)
	}
	for i, c := range e.Controls {
		out.Controls[i] = c
	}
	for i, s := range e.StopRoads {
		out.StopRoads[i] = slices.Clone(s)
	}
	for i, p := range e.Phases {
		out.Phases[i] = clonePhases(p)
	}
	return out
}

// Neighborhood is a named polygon drawn over a map.
type Neighborhood struct {
	Name    string  `json:"name"`
	MapName string  `json:"map_name"`
	Points  []Point `json:"points"`
}

func (n Neighborhood) Clone() Neighborhood {
	n.Points = slices.Clone(n.Points)
	return n
}

// Contains uses even-odd ray casting; points on the boundary may land either way.
func (n Neighborhood) Contains(p Point) bool {
	if len(n.Points) < 3 {
		return false
	}
	inside := false
	j := len(n.Points) - 1
	for i := range n.Points {
		a, b := n.Points[i], n.Points[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := float64(b.X-a.X)*float64(p.Y-a.Y)/float64(b.Y-a.Y) + float64(a.X)
			if float64(p.X) < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// Center is the vertex average, good enough for label placement.
func (n Neighborhood) Center() Point {
	if len(n.Points) == 0 {
		return Point{}
	}
	var sx, sy int
	for _, p := range n.Points {
		sx += p.X
		sy += p.Y
	}
	return Point{X: sx / len(n.Points), Y: sy / len(n.Points)}
}

// Scenario describes how to seed a sim with cars.
type Scenario struct {
	Name         string  `json:"name"`
	MapName      string  `json:"map_name"`
	SpawnCount   int     `json:"spawn_count"`
	StartTick    Tick    `json:"start_tick"`
	ParkFraction float64 `json:"park_fraction"`
	Neighborhood string  `json:"neighborhood"`
}

// ABTest pairs one scenario with two edit sets to compare side by side.
type ABTest struct {
	Name     string `json:"name"`
	MapName  string `json:"map_name"`
	Scenario string `json:"scenario"`
	EditsA   string `json:"edits_a"`
	EditsB   string `json:"edits_b"`
}

// Flags selects what to load for one map-scoped UI.
type Flags struct {
	MapPath   string
	Seed      int64
	RunName   string
	Savestate bool
}
