package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jask/mapedit/internal/world"
)

// NeighborhoodRepo handles neighborhood polygons.
type NeighborhoodRepo struct {
	db *sql.DB
}

func NewNeighborhoodRepo(db *sql.DB) *NeighborhoodRepo { return &NeighborhoodRepo{db: db} }

func (r *NeighborhoodRepo) Upsert(ctx context.Context, n world.Neighborhood) error {
	points, err := json.Marshal(n.Points)
	if err != nil {
		return fmt.Errorf("encode points: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
	INSERT INTO neighborhoods(id, map_name, name, points) VALUES (?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET points=excluded.points, updated_at=CURRENT_TIMESTAMP;
	`, recordID("nbhd", n.MapName, n.Name), n.MapName, n.Name, string(points))
	return err
}

func (r *NeighborhoodRepo) List(ctx context.Context, mapName string) ([]world.Neighborhood, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, points FROM neighborhoods WHERE map_name = ? ORDER BY name`, mapName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []world.Neighborhood
	for rows.Next() {
		n := world.Neighborhood{MapName: mapName}
		var points string
		if err := rows.Scan(&n.Name, &points); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(points), &n.Points); err != nil {
			return nil, fmt.Errorf("neighborhood %q: decode points: %w", n.Name, err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NeighborhoodRepo) Delete(ctx context.Context, mapName, name string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM neighborhoods WHERE id = ?`, recordID("nbhd", mapName, name))
	return err
}
