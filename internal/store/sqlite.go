package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteStore persists layer state and metadata overrides in a local SQLite
// database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// Open opens (creating if necessary) a SQLite-backed store at path.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS layer_state (
			chart_id TEXT PRIMARY KEY,
			enabled  INTEGER NOT NULL,
			opacity  REAL NOT NULL,
			z_order  INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS custom_metadata (
			chart_id    TEXT PRIMARY KEY,
			name        TEXT,
			description TEXT,
			min_zoom    INTEGER,
			max_zoom    INTEGER
		);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// LayerStates loads all persisted layer states keyed by chart ID.
func (s *SQLiteStore) LayerStates(ctx context.Context) (map[string]LayerState, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT chart_id, enabled, opacity, z_order FROM layer_state")
	if err != nil {
		return nil, fmt.Errorf("failed to query layer states: %w", err)
	}
	defer rows.Close()

	states := make(map[string]LayerState)
	for rows.Next() {
		var st LayerState
		if err := rows.Scan(&st.ChartID, &st.Enabled, &st.Opacity, &st.ZOrder); err != nil {
			return nil, fmt.Errorf("failed to scan layer state: %w", err)
		}
		states[st.ChartID] = st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating layer states: %w", err)
	}

	return states, nil
}

// SaveLayerState replaces the persisted state for one chart.
func (s *SQLiteStore) SaveLayerState(ctx context.Context, state LayerState) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO layer_state (chart_id, enabled, opacity, z_order) VALUES (?, ?, ?, ?)",
		state.ChartID, state.Enabled, state.Opacity, state.ZOrder,
	)
	if err != nil {
		return fmt.Errorf("failed to save layer state for %s: %w", state.ChartID, err)
	}
	return nil
}

// CustomMetadataAll loads all persisted metadata overrides keyed by chart ID.
func (s *SQLiteStore) CustomMetadataAll(ctx context.Context) (map[string]CustomMetadata, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT chart_id, name, description, min_zoom, max_zoom FROM custom_metadata")
	if err != nil {
		return nil, fmt.Errorf("failed to query custom metadata: %w", err)
	}
	defer rows.Close()

	metas := make(map[string]CustomMetadata)
	for rows.Next() {
		var (
			meta    CustomMetadata
			name    sql.NullString
			desc    sql.NullString
			minZoom sql.NullInt64
			maxZoom sql.NullInt64
		)
		if err := rows.Scan(&meta.ChartID, &name, &desc, &minZoom, &maxZoom); err != nil {
			return nil, fmt.Errorf("failed to scan custom metadata: %w", err)
		}
		if name.Valid {
			meta.Name = &name.String
		}
		if desc.Valid {
			meta.Description = &desc.String
		}
		if minZoom.Valid {
			v := int(minZoom.Int64)
			meta.MinZoom = &v
		}
		if maxZoom.Valid {
			v := int(maxZoom.Int64)
			meta.MaxZoom = &v
		}
		metas[meta.ChartID] = meta
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating custom metadata: %w", err)
	}

	return metas, nil
}

// SaveCustomMetadata replaces the metadata overrides for one chart in a
// single write.
func (s *SQLiteStore) SaveCustomMetadata(ctx context.Context, meta CustomMetadata) error {
	var (
		name    sql.NullString
		desc    sql.NullString
		minZoom sql.NullInt64
		maxZoom sql.NullInt64
	)
	if meta.Name != nil {
		name = sql.NullString{String: *meta.Name, Valid: true}
	}
	if meta.Description != nil {
		desc = sql.NullString{String: *meta.Description, Valid: true}
	}
	if meta.MinZoom != nil {
		minZoom = sql.NullInt64{Int64: int64(*meta.MinZoom), Valid: true}
	}
	if meta.MaxZoom != nil {
		maxZoom = sql.NullInt64{Int64: int64(*meta.MaxZoom), Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO custom_metadata (chart_id, name, description, min_zoom, max_zoom) VALUES (?, ?, ?, ?, ?)",
		meta.ChartID, name, desc, minZoom, maxZoom,
	)
	if err != nil {
		return fmt.Errorf("failed to save custom metadata for %s: %w", meta.ChartID, err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
