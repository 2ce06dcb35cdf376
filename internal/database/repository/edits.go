package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jask/mapedit/internal/world"
)

// EditsRepo stores named map edit sets as JSON documents.
type EditsRepo struct {
	db *sql.DB
}

func NewEditsRepo(db *sql.DB) *EditsRepo { return &EditsRepo{db: db} }

func (r *EditsRepo) Upsert(ctx context.Context, e world.MapEdits) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode edits: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
	INSERT INTO map_edits(id, map_name, name, body) VALUES (?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET body=excluded.body, updated_at=CURRENT_TIMESTAMP;
	`, recordID("edits", e.MapName, e.Name), e.MapName, e.Name, string(body))
	return err
}

func (r *EditsRepo) List(ctx context.Context, mapName string) ([]world.MapEdits, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, body FROM map_edits WHERE map_name = ? ORDER BY name`, mapName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []world.MapEdits
	for rows.Next() {
		var name, body string
		if err := rows.Scan(&name, &body); err != nil {
			return nil, err
		}
		e := world.EmptyEdits(mapName)
		if err := json.Unmarshal([]byte(body), &e); err != nil {
			return nil, fmt.Errorf("edits %q: decode: %w", name, err)
		}
		e.Name, e.MapName = name, mapName
		out = append(out, e)
	}
	return out, rows.Err()
}
