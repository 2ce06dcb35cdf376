package repository

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/pierrec/lz4/v4"

	"github.com/jask/mapedit/internal/world"
)

// SavestateRepo stores sim snapshots as lz4-compressed JSON.
type SavestateRepo struct {
	db *sql.DB
}

func NewSavestateRepo(db *sql.DB) *SavestateRepo { return &SavestateRepo{db: db} }

func (r *SavestateRepo) Save(ctx context.Context, mapName, runName string, snap world.Snapshot) error {
	data, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	id := recordID("savestate", mapName, runName+"@"+strconv.FormatUint(uint64(snap.Time), 10))
	_, err = r.db.ExecContext(ctx, `
	INSERT INTO savestates(id, map_name, run_name, tick, data) VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET data=excluded.data, created_at=CURRENT_TIMESTAMP;
	`, id, mapName, runName, uint32(snap.Time), data)
	return err
}

// Latest returns the snapshot with the highest tick for a run, or nil.
func (r *SavestateRepo) Latest(ctx context.Context, mapName, runName string) (*world.Snapshot, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT data FROM savestates WHERE map_name = ? AND run_name = ?
	ORDER BY tick DESC LIMIT 1`, mapName, runName)
	return scanSnapshot(row)
}

func (r *SavestateRepo) At(ctx context.Context, mapName, runName string, tick world.Tick) (*world.Snapshot, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT data FROM savestates WHERE map_name = ? AND run_name = ? AND tick = ?`, mapName, runName, uint32(tick))
	return scanSnapshot(row)
}

func (r *SavestateRepo) List(ctx context.Context, mapName, runName string) ([]SavestateInfo, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, tick, length(data), created_at FROM savestates
	WHERE map_name = ? AND run_name = ? ORDER BY tick`, mapName, runName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SavestateInfo
	for rows.Next() {
		info := SavestateInfo{MapName: mapName, RunName: runName}
		if err := rows.Scan(&info.ID, &info.Tick, &info.Size, &info.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

func scanSnapshot(row *sql.Row) (*world.Snapshot, error) {
	var data []byte
	if err := row.Scan(&data); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	snap, err := decodeSnapshot(data)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func encodeSnapshot(snap world.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if err := json.NewEncoder(zw).Encode(snap); err != nil {
		return nil, fmt.Errorf("encode savestate: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compress savestate: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeSnapshot(data []byte) (world.Snapshot, error) {
	raw, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
	if err != nil {
		return world.Snapshot{}, fmt.Errorf("decompress savestate: %w", err)
	}
	var snap world.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return world.Snapshot{}, fmt.Errorf("decode savestate: %w", err)
	}
	return snap, nil
}
