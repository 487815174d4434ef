// Package history keeps past channel reports so growth can be compared
// between runs.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yt-insights/ytstats/internal/models"
)

// timeLayout is fixed-width so that stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const createTableSQL = `CREATE TABLE IF NOT EXISTS channel_snapshots (
	id TEXT PRIMARY KEY,
	channel_id TEXT NOT NULL,
	snapshot_data TEXT NOT NULL,
	created_at TEXT NOT NULL
)`

const createIndexSQL = `CREATE INDEX IF NOT EXISTS idx_channel_snapshots_channel_id
	ON channel_snapshots(channel_id, created_at)`

// ErrInvalidLimit is returned by Recent for a limit below one.
var ErrInvalidLimit = errors.New("limit must be positive")

// Snapshot is one stored report.
type Snapshot struct {
	ID        string        `json:"id"`
	ChannelID string        `json:"channelId"`
	Report    models.Report `json:"report"`
	CreatedAt time.Time     `json:"createdAt"`
}

// NewSnapshot stamps a report with a fresh ID and the current time.
func NewSnapshot(report models.Report) *Snapshot {
	return &Snapshot{
		ID:        uuid.NewString(),
		ChannelID: report.Stats.ChannelID,
		Report:    report,
		CreatedAt: time.Now().UTC(),
	}
}

// Store persists snapshots.
type Store interface {
	Save(ctx context.Context, snap *Snapshot) error
	Recent(ctx context.Context, channelID string, limit int) ([]Snapshot, error)
	Close() error
}

// Open picks a backend from the connection string: sqlitecloud:// URLs go to
// SQLite Cloud, anything else is treated as a local database file.
func Open(dsn string, log *logrus.Logger) (Store, error) {
	if strings.HasPrefix(dsn, "sqlitecloud://") {
		return NewCloudStore(dsn, log)
	}
	return NewSQLiteStore(dsn, log)
}

func encodeSnapshot(snap *Snapshot) (string, string, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return string(data), snap.CreatedAt.UTC().Format(timeLayout), nil
}

func decodeSnapshot(data string) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap, nil
}
