package models

import "time"

// DisplayTimeLayout is used for publish times and log headers.
const DisplayTimeLayout = "2006-01-02 15:04:05"

// VideoRecord represents a single uploaded video
type VideoRecord struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	ViewCount   uint64 `json:"viewCount"`
	PublishedAt string `json:"publishedAt"`
}

// PublishedTime formats the RFC 3339 publish timestamp for display, keeping
// the offset it was published with.
func (v VideoRecord) PublishedTime() (string, error) {
	t, err := time.Parse(time.RFC3339, v.PublishedAt)
	if err != nil {
		return "", NewError(KindDecode, "parse publishedAt of "+v.ID, err)
	}
	return t.Format(DisplayTimeLayout), nil
}

// Selection is the pair of videos picked from a channel's recent uploads.
type Selection struct {
	Latest     VideoRecord `json:"latest"`
	MostViewed VideoRecord `json:"mostViewed"`
}

// Report is everything a single run produces for one channel.
type Report struct {
	Stats     ChannelStats `json:"stats"`
	Selection Selection    `json:"selection"`
}
