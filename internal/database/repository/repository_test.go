package repository_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/jask/mapedit/internal/colors"
	"github.com/jask/mapedit/internal/database"
	"github.com/jask/mapedit/internal/database/repository"
	"github.com/jask/mapedit/internal/world"
)

func openTestDB(t *testing.T) (*sql.DB, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(dbPath))

	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, ctx
}

func TestNeighborhoodRepoUpsertListDelete(t *testing.T) {
	t.Parallel()
	db, ctx := openTestDB(t)
	repo := repository.NewNeighborhoodRepo(db)

	n := world.Neighborhood{Name: "downtown", MapName: "grid", Points: []world.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 5}}}
	require.NoError(t, repo.Upsert(ctx, n))
	require.NoError(t, repo.Upsert(ctx, world.Neighborhood{Name: "other map", MapName: "elsewhere"}))

	n.Points = append(n.Points, world.Point{X: 0, Y: 5})
	require.NoError(t, repo.Upsert(ctx, n))

	got, err := repo.List(ctx, "grid")
	require.NoError(t, err)
	require.Len(t, got, 1)
	if diff := cmp.Diff(n, got[0]); diff != "" {
		t.Fatalf("neighborhood mismatch (-want +got):\n%s", diff)
	}

	require.NoError(t, repo.Delete(ctx, "grid", "downtown"))
	got, err = repo.List(ctx, "grid")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestScenarioRepoByName(t *testing.T) {
	t.Parallel()
	db, ctx := openTestDB(t)
	repo := repository.NewScenarioRepo(db)

	missing, err := repo.ByName(ctx, "grid", "nope")
	require.NoError(t, err)
	require.Nil(t, missing)

	sc := world.Scenario{Name: "rush", MapName: "grid", SpawnCount: 40, StartTick: 120, ParkFraction: 0.25, Neighborhood: "downtown"}
	require.NoError(t, repo.Upsert(ctx, sc))
	sc.SpawnCount = 80
	require.NoError(t, repo.Upsert(ctx, sc))

	got, err := repo.ByName(ctx, "grid", "rush")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, sc, *got)

	all, err := repo.List(ctx, "grid")
	require.NoError(t, err)
	require.Equal(t, []world.Scenario{sc}, all)
}

func TestEditsRepoRoundTrip(t *testing.T) {
	t.Parallel()
	db, ctx := openTestDB(t)
	repo := repository.NewEditsRepo(db)

	e := world.EmptyEdits("grid")
	e.Name = "bus lanes"
	e.Lanes[3] = []world.LaneType{world.LaneBus, world.LaneDriving}
	e.Controls[5] = world.ControlSignal
	require.NoError(t, repo.Upsert(ctx, e))

	got, err := repo.List(ctx, "grid")
	require.NoError(t, err)
	require.Len(t, got, 1)
	if diff := cmp.Diff(e, got[0]); diff != "" {
		t.Fatalf("edits mismatch (-want +got):\n%s", diff)
	}
}

func TestABTestRepoList(t *testing.T) {
	t.Parallel()
	db, ctx := openTestDB(t)
	repo := repository.NewABTestRepo(db)

	for _, name := range []string{"b test", "a test"} {
		require.NoError(t, repo.Upsert(ctx, world.ABTest{Name: name, MapName: "grid", Scenario: "rush", EditsA: "no edits", EditsB: "bus lanes"}))
	}
	got, err := repo.List(ctx, "grid")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "a test", got[0].Name)
	require.Equal(t, "bus lanes", got[1].EditsB)
}

func TestColorRepoOverrides(t *testing.T) {
	t.Parallel()
	db, ctx := openTestDB(t)
	repo := repository.NewColorRepo(db)

	require.NoError(t, repo.SaveColor("selected", colors.Color("#ff0000")))
	require.NoError(t, repo.Upsert(ctx, "selected", colors.Color("#00ff00")))

	got, err := repo.All(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]colors.Color{"selected": "#00ff00"}, got)
}

func TestSavestateRepoLatestAndAt(t *testing.T) {
	t.Parallel()
	db, ctx := openTestDB(t)
	repo := repository.NewSavestateRepo(db)

	none, err := repo.Latest(ctx, "grid", "run")
	require.NoError(t, err)
	require.Nil(t, none)

	early := world.Snapshot{Time: 10, NextID: 2, Cars: []world.Car{{ID: 1, Route: []world.RoadID{0, 1}, Progress: 3}}}
	late := world.Snapshot{Time: 50, NextID: 4, Finished: 1, Cars: []world.Car{{ID: 3, Route: []world.RoadID{2}, Parked: true}}}
	require.NoError(t, repo.Save(ctx, "grid", "run", late))
	require.NoError(t, repo.Save(ctx, "grid", "run", early))
	require.NoError(t, repo.Save(ctx, "grid", "other run", world.Snapshot{Time: 90}))

	got, err := repo.Latest(ctx, "grid", "run")
	require.NoError(t, err)
	require.NotNil(t, got)
	if diff := cmp.Diff(late, *got); diff != "" {
		t.Fatalf("latest mismatch (-want +got):\n%s", diff)
	}

	got, err = repo.At(ctx, "grid", "run", 10)
	require.NoError(t, err)
	require.NotNil(t, got)
	if diff := cmp.Diff(early, *got); diff != "" {
		t.Fatalf("at mismatch (-want +got):\n%s", diff)
	}

	infos, err := repo.List(ctx, "grid", "run")
	require.NoError(t, err)
	require.Len(t, infos, 2)
	require.Equal(t, uint32(10), infos[0].Tick)
	require.Equal(t, uint32(50), infos[1].Tick)
	require.Positive(t, infos[0].Size)
}
