package view

import (
	"testing"

	"github.com/jask/mapedit/internal/storage"
	"github.com/jask/mapedit/internal/ui"
	"github.com/jask/mapedit/internal/world"
)

func TestMatches(t *testing.T) {
	cases := []struct {
		label, filter string
		want          bool
	}{
		{"3rd St", "3rd", true},
		{"Main Street", "street", true},
		{"Main Street", "stret", true},
		{"Main Street", "strt", false},
		{"Oak Ave", "oal", false},
		{"Oak Ave", "", false},
		{"Town Hall", "hal", true},
	}
	for _, tc := range cases {
		if got := Matches(tc.label, tc.filter); got != tc.want {
			t.Fatalf("Matches(%q, %q) = %v, want %v", tc.label, tc.filter, got, tc.want)
		}
	}
}

func testUI() *ui.PerMapUI {
	m := world.GridMap("grid", 4, 4, 6)
	return ui.NewPerMapUI(m, storage.NewMemory(m.Name()), world.Flags{Seed: 1})
}

func TestResolve(t *testing.T) {
	u := testUI()
	if id, ok := Resolve(u, "r3"); !ok || id != world.RoadObj(3) {
		t.Fatalf("Resolve(r3) = %v, %v", id, ok)
	}
	if _, ok := Resolve(u, "r9999"); ok {
		t.Fatal("a missing road should not resolve")
	}
	if _, ok := Resolve(u, "c0"); ok {
		t.Fatal("no cars have spawned yet")
	}

	want := u.Map.Buildings()[0]
	id, ok := Resolve(u, want.Name)
	if !ok || id != world.BuildingObj(want.ID) {
		t.Fatalf("Resolve(%q) = %v, %v", want.Name, id, ok)
	}
	if id, ok := Resolve(u, "1st st"); !ok || id.Kind != world.ObjRoad {
		t.Fatalf("Resolve(1st st) = %v, %v", id, ok)
	}
	if _, ok := Resolve(u, "zzzzzzzzzz"); ok {
		t.Fatal("nonsense should not resolve")
	}
}

func TestAssociated(t *testing.T) {
	u := testUI()
	b := u.Map.Buildings()[0]
	got := Associated(u.Map, world.BuildingObj(b.ID))
	if len(got) != 1 || !got[world.RoadObj(b.Road)] {
		t.Fatalf("building associations = %v", got)
	}
	in := u.Map.Intersection(5)
	got = Associated(u.Map, world.IntersectionObj(5))
	if len(got) != len(in.Roads) {
		t.Fatalf("intersection associations = %d, want %d", len(got), len(in.Roads))
	}
	if got := Associated(u.Map, world.CarObj(0)); len(got) != 0 {
		t.Fatalf("car associations = %v", got)
	}
}
