package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yt-insights/ytstats/internal/models"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func fullStats() *models.ChannelStats {
	return &models.ChannelStats{
		ChannelID:       "UC123",
		ViewCount:       models.NewCount(1000),
		SubscriberCount: models.NewCount(50),
		VideoCount:      models.NewCount(7),
	}
}

func sampleSelection() *models.Selection {
	return &models.Selection{
		MostViewed: models.VideoRecord{ID: "vid-popular", Title: "Popular", ViewCount: 900, PublishedAt: "2024-01-02T03:04:05Z"},
		Latest:     models.VideoRecord{ID: "vid-new", Title: "Fresh", ViewCount: 12, PublishedAt: "2024-03-04T05:06:07Z"},
	}
}

func TestStats(t *testing.T) {
	var out bytes.Buffer
	New(&out).Stats(fullStats())

	assert.Equal(t, "View count: 1000\nSubscriber count: 50\nVideo count: 7\n\n", out.String())
}

func TestStatsMissingSubscriberCount(t *testing.T) {
	stats := fullStats()
	stats.SubscriberCount = models.ParseCount(nil)

	var out bytes.Buffer
	New(&out).Stats(stats)

	assert.Equal(t, "View count: 1000\nSubscriber count: N/A\nVideo count: 7\n\n", out.String())
}

func TestSelection(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, New(&out).Selection(sampleSelection(), false))

	want := "Most Viewed Video: Popular, (Published: 2024-01-02 03:04:05, Views: 900)\n" +
		"Latest Video: Fresh, (Published: 2024-03-04 05:06:07, Views: 12)\n"
	assert.Equal(t, want, out.String())
}

func TestSelectionDebug(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, New(&out).Selection(sampleSelection(), true))

	want := "Most Viewed Video: Popular, (Published: 2024-01-02 03:04:05, Views: 900)\n" +
		"Most Viewed Video ID:  vid-popular\n" +
		"Latest Video: Fresh, (Published: 2024-03-04 05:06:07, Views: 12)\n" +
		"Latest Video ID:  vid-new\n"
	assert.Equal(t, want, out.String())
}

func TestSelectionBadTimestamp(t *testing.T) {
	sel := sampleSelection()
	sel.Latest.PublishedAt = "not-a-time"

	err := New(&bytes.Buffer{}).Selection(sel, false)
	assert.Equal(t, models.KindDecode, models.KindOf(err))
}

func TestFormatLogEntry(t *testing.T) {
	at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.Local)
	stats := fullStats()
	stats.VideoCount = models.ParseCount(nil)

	entry, err := FormatLogEntry(at, stats, sampleSelection())
	require.NoError(t, err)

	want := "\n[2024-05-06 07:08:09]\n" +
		"View count: 1000\n" +
		"Subscriber count: 50\n" +
		"Video count: N/A\n" +
		" Most Viewed Video: Popular (900 views)\n" +
		" Lastest Video: Fresh (published: 2024-03-04 05:06:07)\n\n"
	assert.Equal(t, want, entry)
}

func TestFormatLogEntryWithoutSelection(t *testing.T) {
	at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.Local)

	entry, err := FormatLogEntry(at, fullStats(), nil)
	require.NoError(t, err)
	assert.Equal(t, "\n[2024-05-06 07:08:09]\nView count: 1000\nSubscriber count: 50\nVideo count: 7\n\n", entry)
}

func TestPrependToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channel_data.txt")
	require.NoError(t, os.WriteFile(path, []byte("older entry\n"), 0644))

	require.NoError(t, PrependToFile(path, "newest\n"))
	require.NoError(t, PrependToFile(path, "even newer\n"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "even newer\nnewest\nolder entry\n", string(data))
}

func TestPrependToFileDoesNotCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channel_data.txt")

	err := PrependToFile(path, "entry\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
