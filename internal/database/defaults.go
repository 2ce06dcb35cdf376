package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/mapedit/internal/database/repository"
	"github.com/jask/mapedit/internal/world"
)

// SeedDefaults gives a map with no saved scenarios a starter set.
// It is idempotent and safe to run on every map load.
func SeedDefaults(ctx context.Context, db *sql.DB, mapName string) error {
	repo := repository.NewScenarioRepo(db)
	existing, err := repo.List(ctx, mapName)
	if err != nil {
		return fmt.Errorf("list scenarios: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	defaults := []world.Scenario{
		{Name: "light traffic", SpawnCount: 20, ParkFraction: 0.1},
		{Name: "rush hour", SpawnCount: 200, StartTick: world.TickFromSeconds(30), ParkFraction: 0.3},
	}
	for _, sc := range defaults {
		sc.MapName = mapName
		if err := repo.Upsert(ctx, sc); err != nil {
			return fmt.Errorf("seed scenario %s: %w", sc.Name, err)
		}
	}
	return nil
}
