package world

import (
	"math/rand"
	"slices"
	"sort"
)

// SignalPhaseTicks is how long each traffic signal phase stays green.
const SignalPhaseTicks = 30 * TicksPerSecond

// Car follows a fixed route of roads. Leg indexes Route; Progress indexes the
// current road's cells oriented away from Entry.
type Car struct {
	ID       CarID
	Route    []RoadID
	Leg      int
	Entry    IntersectionID
	Progress int
	Parked   bool
	Waited   bool
}

func (c Car) clone() Car {
	c.Route = slices.Clone(c.Route)
	return c
}

// Road returns the road the car currently occupies.
func (c Car) Road() RoadID { return c.Route[c.Leg] }

// Remaining lists the roads not yet finished, current road first.
func (c Car) Remaining() []RoadID { return slices.Clone(c.Route[c.Leg:]) }

type spawn struct {
	At     Tick
	Road   RoadID
	Parked bool
}

// Snapshot is a deep copy of everything Step mutates.
type Snapshot struct {
	Time     Tick    `json:"time"`
	Cars     []Car   `json:"cars"`
	NextID   CarID   `json:"next_id"`
	Finished int     `json:"finished"`
	Pending  []spawn `json:"pending"`
}

type Summary struct {
	Time     Tick
	Moving   int
	Parked   int
	Finished int
	Pending  int
}

// Sim is a deliberately small traffic model: cars advance one cell per tick,
// wait one tick at stop signs, and hold at red signal phases.
type Sim struct {
	m       *Map
	seed    int64
	runName string
	rng     *rand.Rand

	time     Tick
	cars     []Car
	nextID   CarID
	finished int
	pending  []spawn
}

func NewSim(m *Map, flags Flags) *Sim {
	return &Sim{
		m:       m,
		seed:    flags.Seed,
		runName: flags.RunName,
		rng:     rand.New(rand.NewSource(flags.Seed)),
	}
}

func (s *Sim) Time() Tick          { return s.time }
func (s *Sim) RunName() string     { return s.runName }
func (s *Sim) SetRunName(n string) { s.runName = n }
func (s *Sim) MapName() string     { return s.m.Name() }
func (s *Sim) IsEmpty() bool       { return len(s.cars) == 0 && len(s.pending) == 0 }

// Cars returns copies sorted by ID.
func (s *Sim) Cars() []Car {
	out := make([]Car, len(s.cars))
	for i, c := range s.cars {
		out[i] = c.clone()
	}
	return out
}

func (s *Sim) Car(id CarID) (Car, bool) {
	i, ok := s.find(id)
	if !ok {
		return Car{}, false
	}
	return s.cars[i].clone(), true
}

func (s *Sim) find(id CarID) (int, bool) {
	i := sort.Search(len(s.cars), func(i int) bool { return s.cars[i].ID >= id })
	return i, i < len(s.cars) && s.cars[i].ID == id
}

// CarPosition is the cell the car currently occupies.
func (s *Sim) CarPosition(id CarID) (Point, bool) {
	i, ok := s.find(id)
	if !ok {
		return Point{}, false
	}
	pts := s.orientedPoints(s.cars[i])
	return pts[min(s.cars[i].Progress, len(pts)-1)], true
}

func (s *Sim) CarsOnRoad() map[RoadID]int {
	out := make(map[RoadID]int)
	for _, c := range s.cars {
		out[c.Road()]++
	}
	return out
}

func (s *Sim) Summary() Summary {
	sum := Summary{Time: s.time, Finished: s.finished, Pending: len(s.pending)}
	for _, c := range s.cars {
		if c.Parked {
			sum.Parked++
		} else {
			sum.Moving++
		}
	}
	return sum
}

// Instantiate schedules a scenario's cars. Spawns start from buildings inside
// the named neighborhood, or anywhere when it isn't found.
func (s *Sim) Instantiate(sc Scenario, neighborhoods []Neighborhood) {
	var starts []RoadID
	for _, n := range neighborhoods {
		if n.Name != sc.Neighborhood {
			continue
		}
		for _, b := range s.m.Buildings() {
			if n.Contains(b.Pos) {
				starts = append(starts, b.Road)
			}
		}
	}
	if len(starts) == 0 {
		for _, b := range s.m.Buildings() {
			starts = append(starts, b.Road)
		}
	}
	if len(starts) == 0 {
		for _, r := range s.m.Roads() {
			starts = append(starts, r.ID)
		}
	}
	if len(starts) == 0 {
		return
	}
	at := sc.StartTick
	if at < s.time {
		at = s.time
	}
	for i := 0; i < sc.SpawnCount; i++ {
		s.pending = append(s.pending, spawn{
			At:     at,
			Road:   starts[s.rng.Intn(len(starts))],
			Parked: s.rng.Float64() < sc.ParkFraction,
		})
	}
}

// Step advances one tick.
func (s *Sim) Step() {
	s.time++
	s.spawnDue()

	kept := s.cars[:0]
	for _, c := range s.cars {
		if !c.Parked && !s.advance(&c) {
			s.finished++
			continue
		}
		kept = append(kept, c)
	}
	s.cars = kept
}

func (s *Sim) spawnDue() {
	remaining := s.pending[:0]
	for _, sp := range s.pending {
		if sp.At > s.time {
			remaining = append(remaining, sp)
			continue
		}
		road := s.m.Road(sp.Road)
		entry := road.Src
		if s.rng.Intn(2) == 1 {
			entry = road.Dst
		}
		s.cars = append(s.cars, Car{
			ID:     s.nextID,
			Route:  s.randomRoute(sp.Road, entry, 3+s.rng.Intn(6)),
			Entry:  entry,
			Parked: sp.Parked,
		})
		s.nextID++
	}
	s.pending = remaining
}

func (s *Sim) randomRoute(start RoadID, entry IntersectionID, legs int) []RoadID {
	route := []RoadID{start}
	at := s.m.OtherEnd(start, entry)
	cur := start
	for len(route) < legs {
		var options []RoadID
		for _, r := range s.m.Intersection(at).Roads {
			if r != cur {
				options = append(options, r)
			}
		}
		if len(options) == 0 {
			break
		}
		next := options[s.rng.Intn(len(options))]
		route = append(route, next)
		at = s.m.OtherEnd(next, at)
		cur = next
	}
	return route
}

// advance moves c one cell and reports whether it is still en route.
func (s *Sim) advance(c *Car) bool {
	pts := s.orientedPoints(*c)
	if c.Progress < len(pts)-1 {
		c.Progress++
		return true
	}
	if c.Leg+1 >= len(c.Route) {
		return false
	}

	exit := s.m.OtherEnd(c.Road(), c.Entry)
	in := s.m.Intersection(exit)
	turn := TurnID{Parent: exit, Src: c.Road(), Dst: c.Route[c.Leg+1]}
	switch in.Control {
	case ControlStopSign:
		if in.StopRoads[c.Road()] && !c.Waited {
			c.Waited = true
			return true
		}
	case ControlSignal:
		if len(in.Phases) > 0 {
			phase := in.Phases[(int(s.time)/SignalPhaseTicks)%len(in.Phases)]
			if !slices.Contains(phase, turn) {
				return true
			}
		}
	}

	c.Leg++
	c.Entry = exit
	c.Progress = 1
	c.Waited = false
	if n := len(s.orientedPoints(*c)); c.Progress >= n {
		c.Progress = n - 1
	}
	return true
}

func (s *Sim) orientedPoints(c Car) []Point {
	pts := s.m.RoadPoints(c.Road())
	if s.m.Road(c.Road()).Src != c.Entry {
		slices.Reverse(pts)
	}
	return pts
}

func (s *Sim) Snapshot() Snapshot {
	snap := Snapshot{
		Time:     s.time,
		Cars:     s.Cars(),
		NextID:   s.nextID,
		Finished: s.finished,
		Pending:  slices.Clone(s.pending),
	}
	return snap
}

// Restore replaces the sim state. The rng is reseeded from the run seed and
// the restored time so replays after a restore stay deterministic.
func (s *Sim) Restore(snap Snapshot) {
	s.time = snap.Time
	s.cars = make([]Car, len(snap.Cars))
	for i, c := range snap.Cars {
		s.cars[i] = c.clone()
	}
	s.nextID = snap.NextID
	s.finished = snap.Finished
	s.pending = slices.Clone(snap.Pending)
	s.rng = rand.New(rand.NewSource(s.seed ^ int64(snap.Time)))
}
