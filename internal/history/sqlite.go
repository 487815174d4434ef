package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps snapshots in a local SQLite file.
type SQLiteStore struct {
	db  *sql.DB
	log *logrus.Logger
}

// NewSQLiteStore opens (and if needed creates) the database at path.
func NewSQLiteStore(path string, log *logrus.Logger) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	for _, stmt := range []string{createTableSQL, createIndexSQL} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create table: %w", err)
		}
	}

	log.WithField("path", path).Debug("Opened local snapshot history")
	return &SQLiteStore{db: db, log: log}, nil
}

// Save stores a snapshot
func (s *SQLiteStore) Save(ctx context.Context, snap *Snapshot) error {
	data, createdAt, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO channel_snapshots (id, channel_id, snapshot_data, created_at) VALUES (?, ?, ?, ?)`,
		snap.ID, snap.ChannelID, data, createdAt)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"snapshot_id": snap.ID,
		"channel_id":  snap.ChannelID,
	}).Debug("Stored snapshot")
	return nil
}

// Recent returns up to limit snapshots for a channel, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, channelID string, limit int) ([]Snapshot, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT snapshot_data FROM channel_snapshots
		WHERE channel_id = ?
		ORDER BY created_at DESC LIMIT ?`,
		channelID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snap, err := decodeSnapshot(data)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return snapshots, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
