package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func video(id string, views uint64, published string) VideoRecord {
	return VideoRecord{ID: id, Title: "title " + id, ViewCount: views, PublishedAt: published}
}

func TestSelectVideos(t *testing.T) {
	tests := []struct {
		name           string
		records        []VideoRecord
		wantMostViewed string
		wantLatest     string
	}{
		{
			name: "distinct maxima",
			records: []VideoRecord{
				video("a", 10, "2024-01-01T00:00:00Z"),
				video("b", 300, "2024-01-03T00:00:00Z"),
				video("c", 20, "2024-02-01T00:00:00Z"),
			},
			wantMostViewed: "b",
			wantLatest:     "c",
		},
		{
			name: "view tie keeps first seen",
			records: []VideoRecord{
				video("a", 5, "2024-01-01T00:00:00Z"),
				video("b", 50, "2024-01-02T00:00:00Z"),
				video("c", 50, "2024-01-03T00:00:00Z"),
			},
			wantMostViewed: "b",
			wantLatest:     "c",
		},
		{
			name: "timestamp tie keeps first seen",
			records: []VideoRecord{
				video("a", 1, "2024-05-05T10:00:00Z"),
				video("b", 2, "2024-05-05T10:00:00Z"),
			},
			wantMostViewed: "b",
			wantLatest:     "a",
		},
		{
			name: "maxima at the front",
			records: []VideoRecord{
				video("a", 900, "2025-01-01T00:00:00Z"),
				video("b", 1, "2023-01-01T00:00:00Z"),
				video("c", 0, "2022-01-01T00:00:00Z"),
			},
			wantMostViewed: "a",
			wantLatest:     "a",
		},
		{
			name: "all zero views",
			records: []VideoRecord{
				video("a", 0, "2024-01-01T00:00:00Z"),
				video("b", 0, "2024-01-02T00:00:00Z"),
			},
			wantMostViewed: "a",
			wantLatest:     "b",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sel, err := SelectVideos(tc.records)
			require.NoError(t, err)
			assert.Equal(t, tc.wantMostViewed, sel.MostViewed.ID)
			assert.Equal(t, tc.wantLatest, sel.Latest.ID)

			for _, r := range tc.records {
				assert.GreaterOrEqual(t, sel.MostViewed.ViewCount, r.ViewCount)
				assert.GreaterOrEqual(t, sel.Latest.PublishedAt, r.PublishedAt)
			}
		})
	}
}

func TestSelectVideosSingle(t *testing.T) {
	only := video("solo", 42, "2024-03-03T03:03:03Z")

	sel, err := SelectVideos([]VideoRecord{only})
	require.NoError(t, err)
	assert.Equal(t, only, sel.MostViewed)
	assert.Equal(t, only, sel.Latest)
}

func TestSelectVideosEmpty(t *testing.T) {
	_, err := SelectVideos(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoVideos))
	assert.Equal(t, KindEmptyResult, KindOf(err))
	assert.Contains(t, err.Error(), "no videos found")
}

func TestPublishedTime(t *testing.T) {
	v := video("a", 1, "2024-06-07T08:09:10Z")
	got, err := v.PublishedTime()
	require.NoError(t, err)
	assert.Equal(t, "2024-06-07 08:09:10", got)

	// the offset the video was published with is kept
	v.PublishedAt = "2024-06-07T08:09:10+02:00"
	got, err = v.PublishedTime()
	require.NoError(t, err)
	assert.Equal(t, "2024-06-07 08:09:10", got)

	v.PublishedAt = "yesterday"
	_, err = v.PublishedTime()
	assert.Equal(t, KindDecode, KindOf(err))
}
