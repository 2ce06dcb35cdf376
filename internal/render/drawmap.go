package render

import (
	"github.com/jask/mapedit/internal/colors"
	"github.com/jask/mapedit/internal/world"
)

// DrawMap is the drawable geometry derived from a Map: which objects occupy
// which world cells. Geometry does not change with edits, so it is built once
// per map load.
type DrawMap struct {
	m     *world.Map
	cells map[world.Point][]world.ID
	icons map[world.Point]world.TurnID
}

func NewDrawMap(m *world.Map) *DrawMap {
	d := &DrawMap{
		m:     m,
		cells: make(map[world.Point][]world.ID),
		icons: make(map[world.Point]world.TurnID),
	}
	for _, r := range m.Roads() {
		for _, p := range interior(m.RoadPoints(r.ID)) {
			d.cells[p] = append(d.cells[p], world.RoadObj(r.ID))
		}
	}
	for _, in := range m.Intersections() {
		d.cells[in.Pos] = append(d.cells[in.Pos], world.IntersectionObj(in.ID))
	}
	for _, b := range m.Buildings() {
		d.cells[b.Pos] = append(d.cells[b.Pos], world.BuildingObj(b.ID))
	}
	return d
}

func (d *DrawMap) Map() *world.Map { return d.m }

// ObjectsAt lists static objects at p, topmost last.
func (d *DrawMap) ObjectsAt(p world.Point) []world.ID {
	return d.cells[p]
}

// TurnIconPoint is where the icon for t is drawn: the cell of the source road
// next to the intersection.
func (d *DrawMap) TurnIconPoint(t world.TurnID) (world.Point, bool) {
	pts := d.m.RoadPoints(t.Src)
	if len(pts) < 3 {
		return world.Point{}, false
	}
	if d.m.Road(t.Src).Src == t.Parent {
		return pts[1], true
	}
	return pts[len(pts)-2], true
}

// TurnGlyph is an arrow pointing from the intersection toward t's destination.
func (d *DrawMap) TurnGlyph(t world.TurnID) rune {
	in := d.m.Intersection(t.Parent)
	far := d.m.Intersection(d.m.OtherEnd(t.Dst, t.Parent))
	if in == nil || far == nil {
		return '?'
	}
	dx, dy := far.Pos.X-in.Pos.X, far.Pos.Y-in.Pos.Y
	switch {
	case abs(dx) >= abs(dy) && dx > 0:
		return '→'
	case abs(dx) >= abs(dy):
		return '←'
	case dy > 0:
		return '↓'
	default:
		return '↑'
	}
}

// Glyph is the character used for a static object.
func (d *DrawMap) Glyph(id world.ID) rune {
	switch id.Kind {
	case world.ObjRoad:
		r := d.m.Road(world.RoadID(id.Num))
		a, b := d.m.Intersection(r.Src).Pos, d.m.Intersection(r.Dst).Pos
		wide := r.Highway == "primary" || len(r.Lanes) > 2
		switch {
		case a.Y == b.Y && wide:
			return '═'
		case a.Y == b.Y:
			return '─'
		case a.X == b.X && wide:
			return '║'
		case a.X == b.X:
			return '│'
		case (b.X-a.X)*(b.Y-a.Y) > 0:
			return '╲'
		default:
			return '╱'
		}
	case world.ObjIntersection:
		switch d.m.Intersection(world.IntersectionID(id.Num)).Control {
		case world.ControlStopSign:
			return '◆'
		case world.ControlSignal:
			return '◉'
		default:
			return '┼'
		}
	case world.ObjBuilding:
		return '▪'
	case world.ObjCar:
		return '●'
	case world.ObjTurn:
		return d.TurnGlyph(id.Turn)
	}
	return '?'
}

// DefaultColor is the scheme color for an object with no overrides.
func (d *DrawMap) DefaultColor(id world.ID, cs *colors.Scheme) colors.Color {
	switch id.Kind {
	case world.ObjRoad:
		if d.m.Road(world.RoadID(id.Num)).Highway == "primary" {
			return cs.Get("road/primary")
		}
		return cs.Get("road")
	case world.ObjIntersection:
		switch d.m.Intersection(world.IntersectionID(id.Num)).Control {
		case world.ControlStopSign:
			return cs.Get("intersection/stop")
		case world.ControlSignal:
			return cs.Get("intersection/signal")
		}
		return cs.Get("intersection")
	case world.ObjBuilding:
		return cs.Get("building")
	case world.ObjCar:
		return cs.Get("car")
	case world.ObjTurn:
		return cs.Get("turn")
	}
	return colors.White
}

// Car is a car's position for one frame.
type Car struct {
	ID     world.CarID
	Pos    world.Point
	Parked bool
}

// DrawOpts are the per-frame decisions the map painter defers to its caller.
type DrawOpts struct {
	Color         func(world.ID) (colors.Color, bool)
	Hidden        func(world.ID) bool
	ShowTurnIcons func(world.IntersectionID) bool
	Cars          []Car
}

// Draw paints roads, then intersections, buildings, turn icons and cars.
func (d *DrawMap) Draw(c *Canvas, cs *colors.Scheme, opts DrawOpts) {
	d.icons = make(map[world.Point]world.TurnID)
	paint := func(id world.ID, p world.Point, ch rune) {
		if opts.Hidden != nil && opts.Hidden(id) {
			return
		}
		col := d.DefaultColor(id, cs)
		if opts.Color != nil {
			if over, ok := opts.Color(id); ok {
				col = over
			}
		}
		c.DrawWorld(p, ch, col)
	}

	for _, r := range d.m.Roads() {
		id := world.RoadObj(r.ID)
		ch := d.Glyph(id)
		pts := d.m.RoadPoints(r.ID)
		for _, p := range interior(pts) {
			paint(id, p, ch)
		}
	}
	for _, in := range d.m.Intersections() {
		id := world.IntersectionObj(in.ID)
		paint(id, in.Pos, d.Glyph(id))
	}
	for _, b := range d.m.Buildings() {
		id := world.BuildingObj(b.ID)
		paint(id, b.Pos, d.Glyph(id))
	}
	if opts.ShowTurnIcons != nil {
		// Uncolored icons first so colored ones win shared cells.
		var colored []world.TurnID
		for _, in := range d.m.Intersections() {
			if !opts.ShowTurnIcons(in.ID) {
				continue
			}
			for _, t := range d.m.Turns(in.ID) {
				p, ok := d.TurnIconPoint(t)
				if !ok {
					continue
				}
				if opts.Color != nil {
					if _, ok := opts.Color(world.TurnObj(t)); ok {
						colored = append(colored, t)
						continue
					}
				}
				c.DrawWorld(p, d.TurnGlyph(t), cs.Get("turn"))
				d.icons[p] = t
			}
		}
		for _, t := range colored {
			p, _ := d.TurnIconPoint(t)
			col, _ := opts.Color(world.TurnObj(t))
			c.DrawWorld(p, d.TurnGlyph(t), col)
			d.icons[p] = t
		}
	}
	for _, car := range opts.Cars {
		id := world.CarObj(car.ID)
		if opts.Hidden != nil && opts.Hidden(id) {
			continue
		}
		col := cs.Get("car")
		if car.Parked {
			col = cs.Get("car/parked")
		}
		if opts.Color != nil {
			if over, ok := opts.Color(id); ok {
				col = over
			}
		}
		ch := '●'
		if car.Parked {
			ch = '○'
		}
		c.DrawWorld(car.Pos, ch, col)
	}
}

// ObjectAt hit-tests p: cars first, then turn icons drawn last frame, then
// the topmost visible static object.
func (d *DrawMap) ObjectAt(p world.Point, cars []Car, hidden func(world.ID) bool) world.ID {
	visible := func(id world.ID) bool { return hidden == nil || !hidden(id) }
	for _, car := range cars {
		if car.Pos == p && visible(world.CarObj(car.ID)) {
			return world.CarObj(car.ID)
		}
	}
	if t, ok := d.icons[p]; ok {
		return world.TurnObj(t)
	}
	objs := d.cells[p]
	for i := len(objs) - 1; i >= 0; i-- {
		if visible(objs[i]) {
			return objs[i]
		}
	}
	return world.ID{}
}

func interior(pts []world.Point) []world.Point {
	if len(pts) < 3 {
		return nil
	}
	return pts[1 : len(pts)-1]
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
