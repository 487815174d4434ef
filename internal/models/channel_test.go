package models

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestParseCount(t *testing.T) {
	tests := []struct {
		name   string
		input  *string
		want   string
		wantOK bool
	}{
		{name: "missing", input: nil, want: NotAvailable},
		{name: "numeric", input: strPtr("12345"), want: "12345", wantOK: true},
		{name: "zero", input: strPtr("0"), want: "0", wantOK: true},
		{name: "max uint64", input: strPtr("18446744073709551615"), want: "18446744073709551615", wantOK: true},
		{name: "not a number", input: strPtr("lots"), want: NotAvailable},
		{name: "empty", input: strPtr(""), want: NotAvailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := ParseCount(tc.input)
			_, ok := c.Value()
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, c.String())
		})
	}
}

func TestCountRenderRoundTrip(t *testing.T) {
	stats := ChannelStats{
		ViewCount:       NewCount(987654321),
		SubscriberCount: NewCount(1200),
		VideoCount:      NewCount(77),
	}

	for _, c := range []Count{stats.ViewCount, stats.SubscriberCount, stats.VideoCount} {
		parsed, err := strconv.ParseUint(c.String(), 10, 64)
		require.NoError(t, err)
		want, _ := c.Value()
		assert.Equal(t, want, parsed)
	}
}

func TestCountJSON(t *testing.T) {
	stats := ChannelStats{
		ChannelID:  "UC123",
		ViewCount:  NewCount(10),
		VideoCount: NewCount(0),
	}

	data, err := json.Marshal(stats)
	require.NoError(t, err)
	assert.JSONEq(t, `{"channelId":"UC123","viewCount":10,"subscriberCount":null,"videoCount":0}`, string(data))

	var decoded ChannelStats
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, stats, decoded)
}

func TestIdentifierQueryParam(t *testing.T) {
	assert.Equal(t, "id", Identifier{Value: "UC1", UseID: true}.QueryParam())
	assert.Equal(t, "forUsername", Identifier{Value: "someone"}.QueryParam())
}
