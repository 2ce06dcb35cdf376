package repository

import (
	"context"
	"database/sql"

	"github.com/jask/mapedit/internal/colors"
)

// ColorRepo persists color scheme overrides.
type ColorRepo struct {
	db *sql.DB
}

func NewColorRepo(db *sql.DB) *ColorRepo { return &ColorRepo{db: db} }

func (r *ColorRepo) Upsert(ctx context.Context, name string, c colors.Color) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO colors(name, value) VALUES (?, ?)
	ON CONFLICT(name) DO UPDATE SET value=excluded.value;
	`, name, string(c))
	return err
}

func (r *ColorRepo) All(ctx context.Context) (map[string]colors.Color, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, value FROM colors ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]colors.Color)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		out[name] = colors.Color(value)
	}
	return out, rows.Err()
}

// SaveColor adapts the repo to colors.Store. The scheme calls it from the
// frame loop, so it runs without a caller context.
func (r *ColorRepo) SaveColor(name string, c colors.Color) error {
	return r.Upsert(context.Background(), name, c)
}
