package models

import (
	"encoding/json"
	"strconv"
)

// NotAvailable is rendered in place of a count the API did not return.
const NotAvailable = "N/A"

// Count is a statistic that may be missing from the API response.
type Count struct {
	value uint64
	ok    bool
}

// NewCount returns a present count.
func NewCount(v uint64) Count {
	return Count{value: v, ok: true}
}

// ParseCount converts the numeric string the API uses for counts. A nil or
// non-numeric value yields an absent count.
func ParseCount(s *string) Count {
	if s == nil {
		return Count{}
	}
	v, err := strconv.ParseUint(*s, 10, 64)
	if err != nil {
		return Count{}
	}
	return NewCount(v)
}

func (c Count) Value() (uint64, bool) {
	return c.value, c.ok
}

func (c Count) String() string {
	if !c.ok {
		return NotAvailable
	}
	return strconv.FormatUint(c.value, 10)
}

// MarshalJSON encodes an absent count as null.
func (c Count) MarshalJSON() ([]byte, error) {
	if !c.ok {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatUint(c.value, 10)), nil
}

func (c *Count) UnmarshalJSON(data []byte) error {
	var v *uint64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v == nil {
		*c = Count{}
		return nil
	}
	*c = NewCount(*v)
	return nil
}

// Identifier names a channel either by ID or by legacy username.
type Identifier struct {
	Value string
	UseID bool
}

// QueryParam is the channels endpoint parameter the identifier goes into.
func (i Identifier) QueryParam() string {
	if i.UseID {
		return "id"
	}
	return "forUsername"
}

// ChannelStats holds the aggregate statistics of a channel
type ChannelStats struct {
	ChannelID       string `json:"channelId"`
	ViewCount       Count  `json:"viewCount"`
	SubscriberCount Count  `json:"subscriberCount"`
	VideoCount      Count  `json:"videoCount"`
}

// ChannelResponse represents the response from the channels endpoint.
// Counts are pointers so that a missing field can be told apart from "0".
type ChannelResponse struct {
	Items []struct {
		ID         string `json:"id"`
		Statistics struct {
			ViewCount       *string `json:"viewCount"`
			SubscriberCount *string `json:"subscriberCount"`
			VideoCount      *string `json:"videoCount"`
		} `json:"statistics"`
	} `json:"items"`
}
