// Package storage caches one map's saved records so per-frame code never waits
// on the database.
package storage

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jask/mapedit/internal/database/repository"
	"github.com/jask/mapedit/internal/world"
)

// Repos is the persistent backing. A nil *Repos keeps everything in memory.
type Repos struct {
	Neighborhoods *repository.NeighborhoodRepo
	Scenarios     *repository.ScenarioRepo
	Edits         *repository.EditsRepo
	ABTests       *repository.ABTestRepo
	Savestates    *repository.SavestateRepo
}

// writeTimeout bounds one write-through from the frame loop.
const writeTimeout = 2 * time.Second

// Catalog holds the saved records of one map. Reads come from the cache
// loaded at map load; saves update the cache and write through.
type Catalog struct {
	mapName string
	repos   *Repos

	neighborhoods []world.Neighborhood
	scenarios     []world.Scenario
	edits         []world.MapEdits
	abTests       []world.ABTest
	savestates    map[string][]world.Snapshot // memory mode only
}

// Load reads every record for mapName up front.
func Load(ctx context.Context, mapName string, repos *Repos) (*Catalog, error) {
	c := NewMemory(mapName)
	if repos == nil {
		return c, nil
	}
	c.repos = repos
	var err error
	if c.neighborhoods, err = repos.Neighborhoods.List(ctx, mapName); err != nil {
		return nil, fmt.Errorf("load neighborhoods: %w", err)
	}
	if c.scenarios, err = repos.Scenarios.List(ctx, mapName); err != nil {
		return nil, fmt.Errorf("load scenarios: %w", err)
	}
	if c.edits, err = repos.Edits.List(ctx, mapName); err != nil {
		return nil, fmt.Errorf("load edits: %w", err)
	}
	if c.abTests, err = repos.ABTests.List(ctx, mapName); err != nil {
		return nil, fmt.Errorf("load ab tests: %w", err)
	}
	return c, nil
}

func NewMemory(mapName string) *Catalog {
	return &Catalog{mapName: mapName, savestates: make(map[string][]world.Snapshot)}
}

func (c *Catalog) MapName() string { return c.mapName }

func (c *Catalog) Neighborhoods() []world.Neighborhood {
	out := make([]world.Neighborhood, len(c.neighborhoods))
	for i, n := range c.neighborhoods {
		out[i] = n.Clone()
	}
	return out
}

func (c *Catalog) Scenarios() []world.Scenario {
	return append([]world.Scenario(nil), c.scenarios...)
}

// Edits lists saved edit sets. The implicit empty set is not included.
func (c *Catalog) Edits() []world.MapEdits {
	out := make([]world.MapEdits, len(c.edits))
	for i, e := range c.edits {
		out[i] = e.Clone()
	}
	return out
}

func (c *Catalog) ABTests() []world.ABTest {
	return append([]world.ABTest(nil), c.abTests...)
}

func (c *Catalog) NeighborhoodByName(name string) (world.Neighborhood, bool) {
	for _, n := range c.neighborhoods {
		if n.Name == name {
			return n.Clone(), true
		}
	}
	return world.Neighborhood{}, false
}

func (c *Catalog) ScenarioByName(name string) (world.Scenario, bool) {
	for _, s := range c.scenarios {
		if s.Name == name {
			return s, true
		}
	}
	return world.Scenario{}, false
}

// EditsByName resolves "no edits" to the empty set.
func (c *Catalog) EditsByName(name string) (world.MapEdits, bool) {
	if name == world.EmptyEdits(c.mapName).Name {
		return world.EmptyEdits(c.mapName), true
	}
	for _, e := range c.edits {
		if e.Name == name {
			return e.Clone(), true
		}
	}
	return world.MapEdits{}, false
}

func (c *Catalog) SaveNeighborhood(n world.Neighborhood) error {
	n.MapName = c.mapName
	if c.repos != nil {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := c.repos.Neighborhoods.Upsert(ctx, n); err != nil {
			return fmt.Errorf("save neighborhood %q: %w", n.Name, err)
		}
	}
	c.neighborhoods = upsertByName(c.neighborhoods, n.Clone(), func(x world.Neighborhood) string { return x.Name })
	return nil
}

func (c *Catalog) SaveScenario(s world.Scenario) error {
	s.MapName = c.mapName
	if c.repos != nil {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := c.repos.Scenarios.Upsert(ctx, s); err != nil {
			return fmt.Errorf("save scenario %q: %w", s.Name, err)
		}
	}
	c.scenarios = upsertByName(c.scenarios, s, func(x world.Scenario) string { return x.Name })
	return nil
}

func (c *Catalog) SaveEdits(e world.MapEdits) error {
	e = e.Clone()
	e.MapName = c.mapName
	if e.Name == "" || e.Name == world.EmptyEdits(c.mapName).Name {
		return fmt.Errorf("save edits: %q is reserved", e.Name)
	}
	if c.repos != nil {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := c.repos.Edits.Upsert(ctx, e); err != nil {
			return fmt.Errorf("save edits %q: %w", e.Name, err)
		}
	}
	c.edits = upsertByName(c.edits, e, func(x world.MapEdits) string { return x.Name })
	return nil
}

func (c *Catalog) SaveABTest(t world.ABTest) error {
	t.MapName = c.mapName
	if c.repos != nil {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := c.repos.ABTests.Upsert(ctx, t); err != nil {
			return fmt.Errorf("save ab test %q: %w", t.Name, err)
		}
	}
	c.abTests = upsertByName(c.abTests, t, func(x world.ABTest) string { return x.Name })
	return nil
}

func (c *Catalog) SaveSavestate(runName string, snap world.Snapshot) error {
	if c.repos != nil {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		return c.repos.Savestates.Save(ctx, c.mapName, runName, snap)
	}
	c.savestates[runName] = append(c.savestates[runName], snap)
	return nil
}

// LatestSavestate returns the most advanced snapshot saved for runName.
func (c *Catalog) LatestSavestate(runName string) (*world.Snapshot, error) {
	if c.repos != nil {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		return c.repos.Savestates.Latest(ctx, c.mapName, runName)
	}
	var best *world.Snapshot
	for i := range c.savestates[runName] {
		s := &c.savestates[runName][i]
		if best == nil || s.Time >= best.Time {
			best = s
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func upsertByName[T any](list []T, v T, name func(T) string) []T {
	for i := range list {
		if name(list[i]) == name(v) {
			list[i] = v
			return list
		}
	}
	list = append(list, v)
	sort.SliceStable(list, func(i, j int) bool { return name(list[i]) < name(list[j]) })
	return list
}
