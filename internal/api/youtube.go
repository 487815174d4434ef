package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/yt-insights/ytstats/internal/metrics"
	"github.com/yt-insights/ytstats/internal/models"
)

const (
	youtubeAPIBaseURL = "https://www.googleapis.com/youtube/v3"

	// recentVideoLimit is the number of uploads considered for selection.
	recentVideoLimit = 20
)

// YouTubeClient talks to the YouTube Data API v3.
//
// Channel statistics are fetched with a plain HTTP request because the typed
// client decodes missing counts as zero. Search and video details go through
// the generated youtube.Service.
type YouTubeClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	service *youtube.Service
	log     *logrus.Logger
}

// NewYouTubeClient creates a new YouTube client. An empty baseURL selects the
// public API.
func NewYouTubeClient(ctx context.Context, apiKey, baseURL string, log *logrus.Logger) (*YouTubeClient, error) {
	if baseURL == "" {
		baseURL = youtubeAPIBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	service, err := youtube.NewService(ctx,
		option.WithAPIKey(apiKey),
		option.WithEndpoint(serviceEndpoint(baseURL)),
	)
	if err != nil {
		return nil, models.NewError(models.KindConfig, "create youtube service", err)
	}

	return &YouTubeClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{},
		service: service,
		log:     log,
	}, nil
}

// serviceEndpoint turns ".../youtube/v3" into the root the generated client
// expects; it appends "youtube/v3/" itself.
func serviceEndpoint(baseURL string) string {
	return strings.TrimSuffix(baseURL, "/youtube/v3") + "/"
}

// FetchChannelStats fetches the statistics block of the first channel matching ident.
func (c *YouTubeClient) FetchChannelStats(ctx context.Context, ident models.Identifier) (*models.ChannelStats, error) {
	const op = "fetch channel stats"

	q := url.Values{}
	q.Set("part", "statistics")
	q.Set(ident.QueryParam(), ident.Value)
	q.Set("key", c.apiKey)
	endpoint := c.baseURL + "/channels?" + q.Encode()

	c.log.WithFields(logrus.Fields{
		"identifier": ident.Value,
		"param":      ident.QueryParam(),
	}).Debug("Fetching channel statistics")

	var response models.ChannelResponse
	if err := c.getJSON(ctx, "channels", endpoint, &response); err != nil {
		return nil, wrapCallError(op, err)
	}

	if len(response.Items) == 0 {
		return nil, models.NewError(models.KindEmptyResult, op, models.ErrNoChannel)
	}

	item := response.Items[0]
	channelID := item.ID
	if channelID == "" && ident.UseID {
		channelID = ident.Value
	}

	return &models.ChannelStats{
		ChannelID:       channelID,
		ViewCount:       models.ParseCount(item.Statistics.ViewCount),
		SubscriberCount: models.ParseCount(item.Statistics.SubscriberCount),
		VideoCount:      models.ParseCount(item.Statistics.VideoCount),
	}, nil
}

// getJSON performs a GET and decodes the body into out.
func (c *YouTubeClient) getJSON(ctx context.Context, name, endpoint string, out interface{}) error {
	start := time.Now()
	defer func() {
		metrics.APICallDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		metrics.APICalls.WithLabelValues(name, "transport_error").Inc()
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.APICalls.WithLabelValues(name, "transport_error").Inc()
		return fmt.Errorf("failed to fetch %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		metrics.APICalls.WithLabelValues(name, "status_error").Inc()
		return &statusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.APICalls.WithLabelValues(name, "decode_error").Inc()
		return &decodeError{err: fmt.Errorf("failed to decode %s response: %w", name, err)}
	}

	metrics.APICalls.WithLabelValues(name, "ok").Inc()
	return nil
}

// FetchRecentVideos returns the details of up to 20 of the channel's most
// recent uploads, in the order the videos endpoint returned them.
func (c *YouTubeClient) FetchRecentVideos(ctx context.Context, channelID string) ([]models.VideoRecord, error) {
	ids, err := c.searchVideoIDs(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		c.log.WithField("channel_id", channelID).Debug("Search returned no video IDs")
		return nil, nil
	}
	return c.videoDetails(ctx, ids)
}

func (c *YouTubeClient) searchVideoIDs(ctx context.Context, channelID string) ([]string, error) {
	call := c.service.Search.List([]string{"snippet,id"}).
		ChannelId(channelID).
		Order("date").
		MaxResults(recentVideoLimit).
		Context(ctx)

	response, err := observe("search", call.Do)
	if err != nil {
		return nil, wrapCallError("search videos", err)
	}

	var ids []string
	for _, item := range response.Items {
		// channel and playlist hits carry no video ID
		if item == nil || item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		ids = append(ids, item.Id.VideoId)
	}

	c.log.WithFields(logrus.Fields{
		"channel_id": channelID,
		"video_ids":  len(ids),
	}).Debug("Searched recent uploads")
	return ids, nil
}

func (c *YouTubeClient) videoDetails(ctx context.Context, ids []string) ([]models.VideoRecord, error) {
	// comma-joined part and id parameters, as the API documents them
	call := c.service.Videos.List([]string{"statistics,snippet"}).
		Id(strings.Join(ids, ",")).
		Context(ctx)

	response, err := observe("videos", call.Do)
	if err != nil {
		return nil, wrapCallError("fetch video details", err)
	}

	items := response.Items
	records := make([]models.VideoRecord, 0, len(items))
	for _, v := range items {
		if v == nil {
			continue
		}
		record := models.VideoRecord{ID: v.Id}
		if v.Statistics != nil {
			record.ViewCount = v.Statistics.ViewCount
		}
		if v.Snippet != nil {
			record.Title = v.Snippet.Title
			record.PublishedAt = v.Snippet.PublishedAt
		}
		records = append(records, record)
	}
	return records, nil
}

// observe runs a generated-client call and records its metrics.
func observe[T any](name string, call func(...googleapi.CallOption) (T, error)) (T, error) {
	start := time.Now()
	resp, err := call()
	metrics.APICallDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		metrics.APICalls.WithLabelValues(name, "ok").Inc()
	case isTransportError(err):
		metrics.APICalls.WithLabelValues(name, "transport_error").Inc()
	default:
		metrics.APICalls.WithLabelValues(name, "decode_error").Inc()
	}
	return resp, err
}

type statusError struct {
	StatusCode int
	Body       string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("YouTube API returned status code %d: %s", e.StatusCode, e.Body)
}

type decodeError struct {
	err error
}

func (e *decodeError) Error() string { return e.err.Error() }
func (e *decodeError) Unwrap() error { return e.err }

func isTransportError(err error) bool {
	var (
		apiErr    *googleapi.Error
		statusErr *statusError
		urlErr    *url.Error
		netErr    net.Error
	)
	return errors.As(err, &apiErr) ||
		errors.As(err, &statusErr) ||
		errors.As(err, &urlErr) ||
		errors.As(err, &netErr) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// wrapCallError classifies a failed API call as a transport or decode failure.
func wrapCallError(op string, err error) error {
	var dErr *decodeError
	if errors.As(err, &dErr) {
		return models.NewError(models.KindDecode, op, err)
	}
	if isTransportError(err) {
		return models.NewError(models.KindTransport, op, err)
	}
	return models.NewError(models.KindDecode, op, err)
}
