package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	sqlitecloud "github.com/sqlitecloud/sqlitecloud-go"
)

// CloudStore keeps snapshots in a SQLite Cloud database.
type CloudStore struct {
	db  *sqlitecloud.SQCloud
	log *logrus.Logger
}

// NewCloudStore connects to SQLite Cloud and creates the snapshot table.
func NewCloudStore(connStr string, log *logrus.Logger) (*CloudStore, error) {
	log.WithField("dsn", maskConnectionString(connStr)).Info("Connecting to SQLite Cloud")

	db, err := sqlitecloud.Connect(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite Cloud: %w", err)
	}

	store := &CloudStore{db: db, log: log}
	for _, stmt := range []string{createTableSQL, createIndexSQL} {
		if err := db.Execute(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create table: %w", err)
		}
	}

	return store, nil
}

// maskConnectionString hides the API key in logs
func maskConnectionString(connStr string) string {
	if strings.Contains(connStr, "apikey=") {
		parts := strings.Split(connStr, "apikey=")
		if len(parts) > 1 {
			return parts[0] + "apikey=***"
		}
	}
	return connStr
}

// Save stores a snapshot. The SQLite Cloud client has no context support.
func (s *CloudStore) Save(_ context.Context, snap *Snapshot) error {
	data, createdAt, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}

	sql := `INSERT INTO channel_snapshots (id, channel_id, snapshot_data, created_at)
			VALUES (?, ?, ?, ?)`
	if err := s.db.ExecuteArray(sql, []interface{}{snap.ID, snap.ChannelID, data, createdAt}); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	s.log.WithField("snapshot_id", snap.ID).Debug("Stored snapshot in SQLite Cloud")
	return nil
}

// Recent returns up to limit snapshots for a channel, newest first.
func (s *CloudStore) Recent(_ context.Context, channelID string, limit int) ([]Snapshot, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}

	sql := fmt.Sprintf(`SELECT snapshot_data FROM channel_snapshots
			WHERE channel_id = ?
			ORDER BY created_at DESC LIMIT %d`, limit)

	result, err := s.db.SelectArray(sql, []interface{}{channelID})
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}

	rows := result.GetNumberOfRows()
	snapshots := make([]Snapshot, 0, rows)
	for row := uint64(0); row < rows; row++ {
		data, err := result.GetStringValue(row, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to read snapshot row %d: %w", row, err)
		}
		snap, err := decodeSnapshot(data)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, nil
}

// Close closes the database connection
func (s *CloudStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
