package manifest

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/docvm/internal/foundation/errors"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens or creates a snapshot database.
// Use ":memory:" for in-memory database, or a file path for persistent storage.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		build_id TEXT PRIMARY KEY,
		timestamp INTEGER NOT NULL,
		ssr INTEGER NOT NULL,
		hash TEXT NOT NULL,
		plugins TEXT
	);
	CREATE TABLE IF NOT EXISTS modules (
		build_id TEXT NOT NULL,
		module_id TEXT NOT NULL,
		hash TEXT NOT NULL,
		PRIMARY KEY (build_id, module_id)
	);
	CREATE INDEX IF NOT EXISTS idx_snapshots_mode_time ON snapshots(ssr, timestamp);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save records a snapshot and its module hashes in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, snap *Snapshot) error {
	if snap == nil || snap.BuildID == "" {
		return errors.ValidationError("snapshot requires a build id").Build()
	}
	hash, err := snap.Hash()
	if err != nil {
		return err
	}
	var plugins []byte
	if len(snap.Plugins) > 0 {
		if plugins, err = json.Marshal(snap.Plugins); err != nil {
			return fmt.Errorf("marshal plugins: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM modules WHERE build_id = ?", snap.BuildID); err != nil {
		return fmt.Errorf("clear modules: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO snapshots (build_id, timestamp, ssr, hash, plugins) VALUES (?, ?, ?, ?, ?)",
		snap.BuildID, snap.Timestamp.UnixNano(), snap.SSR, hash, plugins,
	); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	for _, id := range snap.IDs() {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO modules (build_id, module_id, hash) VALUES (?, ?, ?)",
			snap.BuildID, id, snap.Modules[id],
		); err != nil {
			return fmt.Errorf("insert module %s: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// Latest returns the newest snapshot for the render mode. A store without one
// returns a not-found error.
func (s *SQLiteStore) Latest(ctx context.Context, ssr bool) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT build_id, timestamp, ssr, plugins FROM snapshots WHERE ssr = ? ORDER BY timestamp DESC, rowid DESC LIMIT 1",
		ssr,
	)
	return s.load(ctx, row)
}

// Get returns the snapshot recorded for buildID.
func (s *SQLiteStore) Get(ctx context.Context, buildID string) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT build_id, timestamp, ssr, plugins FROM snapshots WHERE build_id = ?",
		buildID,
	)
	return s.load(ctx, row)
}

// List returns up to limit snapshots, newest first. A limit of zero or less
// returns all of them.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT build_id, timestamp, ssr, plugins FROM snapshots ORDER BY timestamp DESC, rowid DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	var snaps []*Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	_ = rows.Close()

	for _, snap := range snaps {
		if err := s.loadModules(ctx, snap); err != nil {
			return nil, err
		}
	}
	return snaps, nil
}

// Prune removes all but the newest keep snapshots of each render mode and
// returns how many were removed.
func (s *SQLiteStore) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stale := `SELECT build_id FROM snapshots s WHERE (
		SELECT COUNT(*) FROM snapshots n
		WHERE n.ssr = s.ssr AND (n.timestamp > s.timestamp OR (n.timestamp = s.timestamp AND n.rowid > s.rowid))
	) >= ?`
	if _, err := tx.ExecContext(ctx, "DELETE FROM modules WHERE build_id IN ("+stale+")", keep); err != nil {
		return 0, fmt.Errorf("prune modules: %w", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM snapshots WHERE build_id IN ("+stale+")", keep)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count pruned snapshots: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit prune: %w", err)
	}
	return int(n), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (*Snapshot, error) {
	var (
		snap    Snapshot
		nanos   int64
		plugins sql.NullString
	)
	if err := row.Scan(&snap.BuildID, &nanos, &snap.SSR, &plugins); err != nil {
		return nil, err
	}
	snap.Timestamp = time.Unix(0, nanos).UTC()
	if plugins.Valid && plugins.String != "" {
		if err := json.Unmarshal([]byte(plugins.String), &snap.Plugins); err != nil {
			return nil, fmt.Errorf("unmarshal plugins: %w", err)
		}
	}
	return &snap, nil
}

func (s *SQLiteStore) load(ctx context.Context, row *sql.Row) (*Snapshot, error) {
	snap, err := scanSnapshot(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFoundError("no snapshot recorded").Build()
	}
	if err != nil {
		return nil, fmt.Errorf("scan snapshot: %w", err)
	}
	if err := s.loadModules(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *SQLiteStore) loadModules(ctx context.Context, snap *Snapshot) error {
	rows, err := s.db.QueryContext(ctx, "SELECT module_id, hash FROM modules WHERE build_id = ?", snap.BuildID)
	if err != nil {
		return fmt.Errorf("query modules: %w", err)
	}
	defer rows.Close()

	snap.Modules = map[string]string{}
	for rows.Next() {
		var id, hash string
		if err := rows.Scan(&id, &hash); err != nil {
			return fmt.Errorf("scan module: %w", err)
		}
		snap.Modules[id] = hash
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate rows: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
