package world

import (
	"fmt"
	"slices"
	"sort"
)

type Point struct {
	X, Y int
}

func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

type LaneType int

const (
	LaneDriving LaneType = iota
	LaneParking
	LaneBiking
	LaneBus
	laneTypeCount
)

var laneTypeNames = [...]string{"driving", "parking", "biking", "bus"}

func (l LaneType) String() string {
	if l < 0 || l >= laneTypeCount {
		return "unknown"
	}
	return laneTypeNames[l]
}

// Next cycles through lane types in a fixed order.
func (l LaneType) Next() LaneType { return (l + 1) % laneTypeCount }

func ParseLaneType(s string) (LaneType, bool) {
	for i, name := range laneTypeNames {
		if name == s {
			return LaneType(i), true
		}
	}
	return 0, false
}

type ControlType int

const (
	ControlNone ControlType = iota
	ControlStopSign
	ControlSignal
)

func (c ControlType) String() string {
	switch c {
	case ControlStopSign:
		return "stop sign"
	case ControlSignal:
		return "traffic signal"
	default:
		return "uncontrolled"
	}
}

type Road struct {
	ID      RoadID
	Name    string
	Src     IntersectionID
	Dst     IntersectionID
	Lanes   []LaneType
	Highway string
}

type Intersection struct {
	ID        IntersectionID
	Pos       Point
	Roads     []RoadID
	Control   ControlType
	StopRoads map[RoadID]bool
	Phases    [][]TurnID
}

type Building struct {
	ID   BuildingID
	Name string
	Pos  Point
	Road RoadID
}

// Map is the static road network plus the edits currently applied to it.
type Map struct {
	name          string
	roads         []Road
	intersections []Intersection
	buildings     []Building

	baseRoads         []Road
	baseIntersections []Intersection
	edits             MapEdits
}

// NewMap validates the raw objects and indexes them. Object IDs must equal
// their slice position.
func NewMap(name string, intersections []Intersection, roads []Road, buildings []Building) (*Map, error) {
	if name == "" {
		return nil, fmt.Errorf("map: name is required")
	}
	for i, in := range intersections {
		if int(in.ID) != i {
			return nil, fmt.Errorf("map %s: intersection[%d] has id %d", name, i, in.ID)
		}
		intersections[i].Roads = nil
		if intersections[i].StopRoads == nil {
			intersections[i].StopRoads = map[RoadID]bool{}
		}
	}
	for i, r := range roads {
		if int(r.ID) != i {
			return nil, fmt.Errorf("map %s: road[%d] has id %d", name, i, r.ID)
		}
		if !validIntersection(intersections, r.Src) || !validIntersection(intersections, r.Dst) {
			return nil, fmt.Errorf("map %s: road %d references missing intersection", name, r.ID)
		}
		if r.Src == r.Dst {
			return nil, fmt.Errorf("map %s: road %d is a loop", name, r.ID)
		}
		if len(r.Lanes) == 0 {
			roads[i].Lanes = []LaneType{LaneDriving}
		}
		intersections[r.Src].Roads = append(intersections[r.Src].Roads, r.ID)
		intersections[r.Dst].Roads = append(intersections[r.Dst].Roads, r.ID)
	}
	for i, b := range buildings {
		if int(b.ID) != i {
			return nil, fmt.Errorf("map %s: building[%d] has id %d", name, i, b.ID)
		}
		if b.Road < 0 || int(b.Road) >= len(roads) {
			return nil, fmt.Errorf("map %s: building %d fronts missing road %d", name, b.ID, b.Road)
		}
	}

	m := &Map{
		name:          name,
		roads:         roads,
		intersections: intersections,
		buildings:     buildings,
		edits:         EmptyEdits(name),
	}
	m.baseRoads = cloneRoads(roads)
	m.baseIntersections = cloneIntersections(intersections)
	return m, nil
}

func validIntersection(all []Intersection, id IntersectionID) bool {
	return id >= 0 && int(id) < len(all)
}

func (m *Map) Name() string { return m.name }

func (m *Map) Roads() []Road                 { return m.roads }
func (m *Map) Intersections() []Intersection { return m.intersections }
func (m *Map) Buildings() []Building         { return m.buildings }

func (m *Map) Road(id RoadID) *Road {
	if id < 0 || int(id) >= len(m.roads) {
		return nil
	}
	return &m.roads[id]
}

func (m *Map) Intersection(id IntersectionID) *Intersection {
	if id < 0 || int(id) >= len(m.intersections) {
		return nil
	}
	return &m.intersections[id]
}

func (m *Map) Building(id BuildingID) *Building {
	if id < 0 || int(id) >= len(m.buildings) {
		return nil
	}
	return &m.buildings[id]
}

// Exists reports whether a static object is part of the map. Cars are owned
// by the sim and always report false here.
func (m *Map) Exists(id ID) bool {
	switch id.Kind {
	case ObjRoad:
		return m.Road(RoadID(id.Num)) != nil
	case ObjIntersection:
		return m.Intersection(IntersectionID(id.Num)) != nil
	case ObjBuilding:
		return m.Building(BuildingID(id.Num)) != nil
	case ObjTurn:
		for _, t := range m.Turns(id.Turn.Parent) {
			if t == id.Turn {
				return true
			}
		}
	}
	return false
}

// Label is the human readable name used by search and debug output.
func (m *Map) Label(id ID) string {
	switch id.Kind {
	case ObjRoad:
		if r := m.Road(RoadID(id.Num)); r != nil && r.Name != "" {
			return r.Name
		}
	case ObjBuilding:
		if b := m.Building(BuildingID(id.Num)); b != nil && b.Name != "" {
			return b.Name
		}
	}
	return id.String()
}

// OtherEnd returns the endpoint of r that isn't i.
func (m *Map) OtherEnd(r RoadID, i IntersectionID) IntersectionID {
	road := m.Road(r)
	if road.Src == i {
		return road.Dst
	}
	return road.Src
}

// Neighbors lists roads that share an intersection with r, in ID order.
func (m *Map) Neighbors(r RoadID) []RoadID {
	road := m.Road(r)
	if road == nil {
		return nil
	}
	seen := map[RoadID]bool{r: true}
	var out []RoadID
	for _, end := range []IntersectionID{road.Src, road.Dst} {
		for _, other := range m.intersections[end].Roads {
			if !seen[other] {
				seen[other] = true
				out = append(out, other)
			}
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}

// Turns lists every movement between two distinct roads at i.
func (m *Map) Turns(i IntersectionID) []TurnID {
	in := m.Intersection(i)
	if in == nil {
		return nil
	}
	var out []TurnID
	for _, src := range in.Roads {
		for _, dst := range in.Roads {
			if src != dst {
				out = append(out, TurnID{Parent: i, Src: src, Dst: dst})
			}
		}
	}
	return out
}

// RoadPoints rasterizes a road between its endpoints, inclusive.
func (m *Map) RoadPoints(r RoadID) []Point {
	road := m.Road(r)
	if road == nil {
		return nil
	}
	return Line(m.intersections[road.Src].Pos, m.intersections[road.Dst].Pos)
}

// Bounds is one past the largest coordinate used by any object.
func (m *Map) Bounds() Point {
	var b Point
	grow := func(p Point) {
		if p.X+1 > b.X {
			b.X = p.X + 1
		}
		if p.Y+1 > b.Y {
			b.Y = p.Y + 1
		}
	}
	for _, in := range m.intersections {
		grow(in.Pos)
	}
	for _, bl := range m.buildings {
		grow(bl.Pos)
	}
	return b
}

// Line is Bresenham between a and b, inclusive of both ends.
func Line(a, b Point) []Point {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy
	out := make([]Point, 0, dx-dy+1)
	p := a
	for {
		out = append(out, p)
		if p == b {
			return out
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			p.X += sx
		}
		if e2 <= dx {
			err += dx
			p.Y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// ---------------------------------------------------------------------------
// Edits
// ---------------------------------------------------------------------------

func (m *Map) Edits() MapEdits { return m.edits.Clone() }

func (m *Map) SetLanes(r RoadID, lanes []LaneType) {
	road := m.Road(r)
	if road == nil {
		return
	}
	road.Lanes = slices.Clone(lanes)
	m.edits.Lanes[r] = slices.Clone(lanes)
}

func (m *Map) SetControl(i IntersectionID, c ControlType) {
	in := m.Intersection(i)
	if in == nil {
		return
	}
	in.Control = c
	m.edits.Controls[i] = c
}

// ToggleStop flips whether traffic arriving on r must stop at i.
func (m *Map) ToggleStop(i IntersectionID, r RoadID) bool {
	in := m.Intersection(i)
	if in == nil || !slices.Contains(in.Roads, r) {
		return false
	}
	in.StopRoads[r] = !in.StopRoads[r]
	if !in.StopRoads[r] {
		delete(in.StopRoads, r)
	}
	m.edits.StopRoads[i] = stopRoadList(in.StopRoads)
	return in.StopRoads[r]
}

func (m *Map) SetPhases(i IntersectionID, phases [][]TurnID) {
	in := m.Intersection(i)
	if in == nil {
		return
	}
	in.Phases = clonePhases(phases)
	m.edits.Phases[i] = clonePhases(phases)
}

// ApplyEdits resets the map to its loaded state and then applies e.
func (m *Map) ApplyEdits(e MapEdits) {
	m.roads = cloneRoads(m.baseRoads)
	m.intersections = cloneIntersections(m.baseIntersections)
	m.edits = EmptyEdits(m.name)
	m.edits.Name = e.Name

	for r, lanes := range e.Lanes {
		m.SetLanes(r, lanes)
	}
	for i, c := range e.Controls {
		m.SetControl(i, c)
	}
	for i, stops := range e.StopRoads {
		in := m.Intersection(i)
		if in == nil {
			continue
		}
		for _, r := range stops {
			if slices.Contains(in.Roads, r) {
				in.StopRoads[r] = true
			}
		}
		m.edits.StopRoads[i] = stopRoadList(in.StopRoads)
	}
	for i, phases := range e.Phases {
		m.SetPhases(i, phases)
	}
}

func stopRoadList(set map[RoadID]bool) []RoadID {
	out := make([]RoadID, 0, len(set))
	for r, on := range set {
		if on {
			out = append(out, r)
		}
	}
	slices.Sort(out)
	return out
}

func cloneRoads(in []Road) []Road {
	out := make([]Road, len(in))
	for i, r := range in {
		out[i] = r
		out[i].Lanes = slices.Clone(r.Lanes)
	}
	return out
}

func cloneIntersections(in []Intersection) []Intersection {
	out := make([]Intersection, len(in))
	for i, x := range in {
		out[i] = x
		out[i].Roads = slices.Clone(x.Roads)
		out[i].StopRoads = make(map[RoadID]bool, len(x.StopRoads))
		for r, on := range x.StopRoads {
			out[i].StopRoads[r] = on
		}
		out[i].Phases = clonePhases(x.Phases)
	}
	return out
}

func clonePhases(in [][]TurnID) [][]TurnID {
	if in == nil {
		return nil
	}
	out := make([][]TurnID, len(in))
	for i, p := range in {
		out[i] = slices.Clone(p)
	}
	return out
}
