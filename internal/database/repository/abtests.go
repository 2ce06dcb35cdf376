package repository

import (
	"context"
	"database/sql"

	"github.com/jask/mapedit/internal/world"
)

// ABTestRepo handles A/B test definitions.
type ABTestRepo struct {
	db *sql.DB
}

func NewABTestRepo(db *sql.DB) *ABTestRepo { return &ABTestRepo{db: db} }

func (r *ABTestRepo) Upsert(ctx context.Context, t world.ABTest) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO ab_tests(id, map_name, name, scenario, edits_a, edits_b) VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		scenario=excluded.scenario,
		edits_a=excluded.edits_a,
		edits_b=excluded.edits_b,
		updated_at=CURRENT_TIMESTAMP;
	`, recordID("abtest", t.MapName, t.Name), t.MapName, t.Name, t.Scenario, t.EditsA, t.EditsB)
	return err
}

func (r *ABTestRepo) List(ctx context.Context, mapName string) ([]world.ABTest, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT name, scenario, edits_a, edits_b FROM ab_tests WHERE map_name = ? ORDER BY name`, mapName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []world.ABTest
	for rows.Next() {
		t := world.ABTest{MapName: mapName}
		if err := rows.Scan(&t.Name, &t.Scenario, &t.EditsA, &t.EditsB); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
