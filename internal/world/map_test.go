package world

import (
	"slices"
	"strings"
	"testing"
)

const smallMapTOML = `
name = "small"

[[intersections]]
id = 0
x = 0
y = 0
control = "stop"

[[intersections]]
id = 1
x = 6
y = 0

[[intersections]]
id = 2
x = 6
y = 6
control = "signal"

[[roads]]
id = 0
name = "Main St"
src = 0
dst = 1
lanes = ["driving", "parking"]
highway = "primary"

[[roads]]
id = 1
name = "Side Ave"
src = 1
dst = 2

[[buildings]]
id = 0
name = "Town Hall"
x = 3
y = 1
road = 0
`

func TestParseMap(t *testing.T) {
	m, err := ParseMap([]byte(smallMapTOML))
	if err != nil {
		t.Fatalf("ParseMap: %v", err)
	}
	if m.Name() != "small" {
		t.Fatalf("name = %q, want small", m.Name())
	}
	if got := len(m.Roads()); got != 2 {
		t.Fatalf("roads = %d, want 2", got)
	}
	if got := m.Road(1).Lanes; !slices.Equal(got, []LaneType{LaneDriving}) {
		t.Fatalf("default lanes = %v, want [driving]", got)
	}
	if c := m.Intersection(2).Control; c != ControlSignal {
		t.Fatalf("control = %v, want signal", c)
	}
	if got := m.Intersection(1).Roads; !slices.Equal(got, []RoadID{0, 1}) {
		t.Fatalf("intersection 1 roads = %v, want [0 1]", got)
	}
	if got := m.Label(BuildingObj(0)); got != "Town Hall" {
		t.Fatalf("label = %q", got)
	}
}

func TestParseMapRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"unknown lane":    strings.Replace(smallMapTOML, `"parking"`, `"tram"`, 1),
		"unknown control": strings.Replace(smallMapTOML, `control = "stop"`, `control = "yield"`, 1),
		"missing name":    strings.Replace(smallMapTOML, `name = "small"`, "", 1),
		"loop road":       strings.Replace(smallMapTOML, "src = 1\ndst = 2", "src = 2\ndst = 2", 1),
	}
	for name, doc := range cases {
		if _, err := ParseMap([]byte(doc)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestTurnsAreOrderedPairs(t *testing.T) {
	m := GridMap("grid", 3, 3, 6)
	center := IntersectionID(4)
	turns := m.Turns(center)
	if len(turns) != 12 {
		t.Fatalf("turns at 4-way = %d, want 12", len(turns))
	}
	for _, tr := range turns {
		if tr.Src == tr.Dst {
			t.Fatalf("u-turn listed: %v", tr)
		}
		if !m.Exists(TurnObj(tr)) {
			t.Fatalf("turn %v does not exist", tr)
		}
	}
}

func TestApplyEditsReplacesPrevious(t *testing.T) {
	m := GridMap("grid", 3, 3, 6)
	base := slices.Clone(m.Road(0).Lanes)

	e := EmptyEdits(m.Name())
	e.Name = "bike lanes"
	e.Lanes[0] = []LaneType{LaneBiking, LaneDriving}
	e.Controls[4] = ControlSignal
	m.ApplyEdits(e)

	if got := m.Road(0).Lanes; !slices.Equal(got, []LaneType{LaneBiking, LaneDriving}) {
		t.Fatalf("lanes after edits = %v", got)
	}
	if m.Edits().Name != "bike lanes" || m.Edits().Count() != 2 {
		t.Fatalf("edits = %+v", m.Edits())
	}

	m.ApplyEdits(EmptyEdits(m.Name()))
	if got := m.Road(0).Lanes; !slices.Equal(got, base) {
		t.Fatalf("lanes after reset = %v, want %v", got, base)
	}
	if m.Edits().Count() != 0 {
		t.Fatalf("edits after reset = %d, want 0", m.Edits().Count())
	}
}

func TestToggleStopRecordsEdit(t *testing.T) {
	m := GridMap("grid", 3, 3, 6)
	in := m.Intersection(4)
	r := in.Roads[0]
	if !m.ToggleStop(4, r) {
		t.Fatal("first toggle should turn the stop on")
	}
	if got := m.Edits().StopRoads[4]; !slices.Equal(got, []RoadID{r}) {
		t.Fatalf("stop roads = %v, want [%d]", got, r)
	}
	if m.ToggleStop(4, r) {
		t.Fatal("second toggle should turn the stop off")
	}
	if m.ToggleStop(4, RoadID(999)) {
		t.Fatal("toggling a road that doesn't meet the intersection must fail")
	}
}

func TestNeighborhoodContains(t *testing.T) {
	n := Neighborhood{Name: "square", Points: []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}}
	if !n.Contains(Point{5, 5}) {
		t.Fatal("center should be inside")
	}
	if n.Contains(Point{15, 5}) {
		t.Fatal("point to the right should be outside")
	}
	if (Neighborhood{Points: []Point{{0, 0}, {1, 1}}}).Contains(Point{0, 0}) {
		t.Fatal("degenerate polygon contains nothing")
	}
	if c := n.Center(); c != (Point{5, 5}) {
		t.Fatalf("center = %v", c)
	}
}

func TestParseID(t *testing.T) {
	cases := map[string]ID{
		"r12": RoadObj(12),
		"I3":  IntersectionObj(3),
		" b7": BuildingObj(7),
		"c0":  CarObj(0),
	}
	for in, want := range cases {
		got, ok := ParseID(in)
		if !ok || got != want {
			t.Fatalf("ParseID(%q) = %v, %v; want %v", in, got, ok, want)
		}
	}
	for _, bad := range []string{"", "r", "x1", "r-1", "rr"} {
		if _, ok := ParseID(bad); ok {
			t.Fatalf("ParseID(%q) should fail", bad)
		}
	}
}
