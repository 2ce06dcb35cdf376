package render

import (
	"strings"
	"testing"

	"github.com/jask/mapedit/internal/world"
)

func TestScreenWorldMappingAtDefaultZoom(t *testing.T) {
	c := NewCanvas(20, 10)
	if got := c.ScreenToWorld(3, 2); got != (world.Point{X: 3, Y: 2}) {
		t.Fatalf("ScreenToWorld = %v", got)
	}
	x0, y0, x1, y1 := c.WorldToScreen(world.Point{X: 3, Y: 2})
	if x0 != 3 || y0 != 2 || x1 != 4 || y1 != 3 {
		t.Fatalf("WorldToScreen = %d,%d..%d,%d", x0, y0, x1, y1)
	}
}

func TestZoomKeepsCenter(t *testing.T) {
	c := NewCanvas(20, 10)
	c.CenterOn(world.Point{X: 50, Y: 30})
	before := c.ScreenToWorld(9, 4)
	if !c.ZoomIn() {
		t.Fatal("ZoomIn reported no change")
	}
	if got := c.ScreenToWorld(9, 4); got != before {
		t.Fatalf("center moved from %v to %v", before, got)
	}
	x0, _, x1, _ := c.WorldToScreen(before)
	if x1-x0 != 2 {
		t.Fatalf("cell width at 2x = %d, want 2", x1-x0)
	}
	for c.ZoomIn() {
	}
	if c.Zoom() != zoomLevels[len(zoomLevels)-1] {
		t.Fatalf("zoom = %v, want max", c.Zoom())
	}
}

func TestCursorOffCanvas(t *testing.T) {
	c := NewCanvas(10, 5)
	c.SetCursor(4, 4)
	if _, ok := c.CursorWorld(); !ok {
		t.Fatal("cursor inside canvas not reported")
	}
	c.SetCursor(10, 0)
	if _, ok := c.CursorWorld(); ok {
		t.Fatal("cursor outside canvas reported")
	}
}

func TestDrawWorldClips(t *testing.T) {
	c := NewCanvas(4, 2)
	c.DrawWorld(world.Point{X: 1, Y: 1}, '#', "")
	c.DrawWorld(world.Point{X: 9, Y: 9}, '!', "")
	if ch, _ := c.CellAt(1, 1); ch != '#' {
		t.Fatalf("cell = %q, want #", ch)
	}
	if strings.Contains(c.Plain(), "!") {
		t.Fatal("off-screen draw leaked onto the grid")
	}
	c.Clear()
	if ch, _ := c.CellAt(1, 1); ch != ' ' {
		t.Fatalf("cell after Clear = %q", ch)
	}
}

func TestOverlayAt(t *testing.T) {
	got := overlayAt("aaaaa\nbbbbb", "XY\nZ", 1, 0, 5, 2)
	want := "aXYaa\nbZ bb"
	if got != want {
		t.Fatalf("overlayAt = %q, want %q", got, want)
	}
	if got := overlayAt("aaa", "XYZW", 2, 0, 3, 1); got != "aaX" {
		t.Fatalf("clipped overlay = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello world", 6); got != "hello…" {
		t.Fatalf("Truncate = %q", got)
	}
	if got := Truncate("anything", 0); got != "" {
		t.Fatalf("Truncate zero width = %q", got)
	}
}

func TestObjectAtPrefersCarsThenVisibleObjects(t *testing.T) {
	m := world.GridMap("g", 3, 3, 6)
	d := NewDrawMap(m)
	in := m.Intersections()[0]

	if got := d.ObjectAt(in.Pos, nil, nil); got != world.IntersectionObj(in.ID) {
		t.Fatalf("ObjectAt = %v, want intersection %d", got, in.ID)
	}
	cars := []Car{{ID: 4, Pos: in.Pos}}
	if got := d.ObjectAt(in.Pos, cars, nil); got != world.CarObj(4) {
		t.Fatalf("ObjectAt with car = %v", got)
	}
	hideAll := func(world.ID) bool { return true }
	if got := d.ObjectAt(in.Pos, cars, hideAll); !got.IsNone() {
		t.Fatalf("ObjectAt with everything hidden = %v", got)
	}
}

func TestRoadCellsExcludeEndpoints(t *testing.T) {
	m := world.GridMap("g", 2, 2, 6)
	d := NewDrawMap(m)
	r := m.Roads()[0]
	pts := m.RoadPoints(r.ID)
	mid := pts[len(pts)/2]
	found := false
	for _, id := range d.ObjectsAt(mid) {
		if id == world.RoadObj(r.ID) {
			found = true
		}
	}
	if !found {
		t.Fatalf("road %d not at its midpoint %v", r.ID, mid)
	}
	for _, id := range d.ObjectsAt(pts[0]) {
		if id == world.RoadObj(r.ID) {
			t.Fatalf("road %d drawn over its endpoint", r.ID)
		}
	}
}
