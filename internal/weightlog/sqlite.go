package weightlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/weighttrend/internal/weighttrend"

	_ "modernc.org/sqlite"
)

// SQLiteStore reads a local, single file export of the weight log.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS weight_log (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  logged_at TEXT NOT NULL,
  weight_kg REAL NOT NULL,
  notes TEXT
);
CREATE INDEX IF NOT EXISTS ix_weight_log_user ON weight_log (user_id, logged_at);
CREATE TABLE IF NOT EXISTS weight_profile (
  user_id TEXT PRIMARY KEY,
  target_weight_kg REAL,
  current_weight_kg REAL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create weight tables: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) AddEntry(ctx context.Context, userID string, e weighttrend.WeightLogEntry) error {
	if _, err := s.db.ExecContext(
		ctx,
		`INSERT INTO weight_log (id, user_id, logged_at, weight_kg, notes) VALUES (?, ?, ?, ?, ?)`,
		e.ID, userID, e.Date.UTC().Format(time.RFC3339Nano), e.WeightKg, e.Notes,
	); err != nil {
		return fmt.Errorf("insert weight entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SetProfile(ctx context.Context, p Profile) error {
	if _, err := s.db.ExecContext(
		ctx,
		`INSERT INTO weight_profile (user_id, target_weight_kg, current_weight_kg) VALUES (?, ?, ?)
			ON CONFLICT (user_id) DO UPDATE SET target_weight_kg = excluded.target_weight_kg, current_weight_kg = excluded.current_weight_kg`,
		p.UserID, p.TargetWeightKg, p.CurrentWeightKg,
	); err != nil {
		return fmt.Errorf("upsert weight profile: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListEntries(ctx context.Context, userID string) ([]weighttrend.WeightLogEntry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, logged_at, weight_kg, COALESCE(notes, '') FROM weight_log WHERE user_id = ? ORDER BY logged_at, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query weight log: %w", err)
	}
	defer rows.Close()

	var entries []weighttrend.WeightLogEntry
	for rows.Next() {
		var (
			e        weighttrend.WeightLogEntry
			loggedAt string
		)
		if err := rows.Scan(&e.ID, &loggedAt, &e.WeightKg, &e.Notes); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		if e.Date, err = time.Parse(time.RFC3339Nano, loggedAt); err != nil {
			return nil, fmt.Errorf("parse logged_at [%s] of entry %s: %w", loggedAt, e.ID, err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (s *SQLiteStore) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	profile := &Profile{UserID: userID}
	var target, current sql.NullFloat64
	err := s.db.QueryRowContext(
		ctx,
		`SELECT target_weight_kg, current_weight_kg FROM weight_profile WHERE user_id = ?`,
		userID,
	).Scan(&target, &current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("query weight profile: %w", err)
	}

	if target.Valid {
		profile.TargetWeightKg = &target.Float64
	}
	if current.Valid {
		profile.CurrentWeightKg = &current.Float64
	}
	return profile, nil
}
