package repository

import (
	"context"
	"database/sql"

	"github.com/jask/mapedit/internal/world"
)

// ScenarioRepo handles scenarios.
type ScenarioRepo struct {
	db *sql.DB
}

func NewScenarioRepo(db *sql.DB) *ScenarioRepo { return &ScenarioRepo{db: db} }

func (r *ScenarioRepo) Upsert(ctx context.Context, s world.Scenario) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO scenarios(id, map_name, name, spawn_count, start_tick, park_fraction, neighborhood)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		spawn_count=excluded.spawn_count,
		start_tick=excluded.start_tick,
		park_fraction=excluded.park_fraction,
		neighborhood=excluded.neighborhood,
		updated_at=CURRENT_TIMESTAMP;
	`, recordID("scenario", s.MapName, s.Name), s.MapName, s.Name, s.SpawnCount, uint32(s.StartTick), s.ParkFraction, s.Neighborhood)
	return err
}

func (r *ScenarioRepo) ByName(ctx context.Context, mapName, name string) (*world.Scenario, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT spawn_count, start_tick, park_fraction, neighborhood
	FROM scenarios WHERE id = ?`, recordID("scenario", mapName, name))
	s := world.Scenario{Name: name, MapName: mapName}
	var tick uint32
	if err := row.Scan(&s.SpawnCount, &tick, &s.ParkFraction, &s.Neighborhood); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	s.StartTick = world.Tick(tick)
	return &s, nil
}

func (r *ScenarioRepo) List(ctx context.Context, mapName string) ([]world.Scenario, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT name, spawn_count, start_tick, park_fraction, neighborhood
	FROM scenarios WHERE map_name = ? ORDER BY name`, mapName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []world.Scenario
	for rows.Next() {
		s := world.Scenario{MapName: mapName}
		var tick uint32
		if err := rows.Scan(&s.Name, &s.SpawnCount, &tick, &s.ParkFraction, &s.Neighborhood); err != nil {
			return nil, err
		}
		s.StartTick = world.Tick(tick)
		out = append(out, s)
	}
	return out, rows.Err()
}
