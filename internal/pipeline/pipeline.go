// Package pipeline runs the channel report: statistics, video selection,
// console output and the optional log and history stages.
package pipeline

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yt-insights/ytstats/internal/history"
	"github.com/yt-insights/ytstats/internal/metrics"
	"github.com/yt-insights/ytstats/internal/models"
	"github.com/yt-insights/ytstats/internal/report"
)

// Fetcher is the subset of the YouTube client the pipeline needs.
type Fetcher interface {
	FetchChannelStats(ctx context.Context, ident models.Identifier) (*models.ChannelStats, error)
	FetchRecentVideos(ctx context.Context, channelID string) ([]models.VideoRecord, error)
}

// Options selects the optional stages of a run.
type Options struct {
	// SaveToLog prepends the report to LogPath, which must already exist.
	SaveToLog bool
	LogPath   string
	// Debug prints the raw IDs of the selected videos.
	Debug bool
	// SkipVideos stops after the channel statistics.
	SkipVideos bool
	// History, when set, receives a snapshot of every successful run.
	History history.Store
}

// Pipeline produces channel reports.
type Pipeline struct {
	fetcher  Fetcher
	reporter *report.Reporter
	log      *logrus.Logger
	now      func() time.Time
}

// New creates a pipeline printing through reporter.
func New(fetcher Fetcher, reporter *report.Reporter, log *logrus.Logger) *Pipeline {
	return &Pipeline{
		fetcher:  fetcher,
		reporter: reporter,
		log:      log,
		now:      time.Now,
	}
}

// Collect fetches the statistics and the video selection without printing.
func (p *Pipeline) Collect(ctx context.Context, ident models.Identifier) (*models.Report, error) {
	stats, err := p.fetcher.FetchChannelStats(ctx, ident)
	if err != nil {
		return nil, observe(err)
	}
	sel, err := p.selectVideos(ctx, stats.ChannelID)
	if err != nil {
		return nil, observe(err)
	}
	observe(nil)
	return &models.Report{Stats: *stats, Selection: *sel}, nil
}

// Run executes every stage in order and stops at the first error. Output
// already printed stays printed, but nothing is logged or stored for a
// failed run.
func (p *Pipeline) Run(ctx context.Context, ident models.Identifier, opts Options) error {
	stats, err := p.fetcher.FetchChannelStats(ctx, ident)
	if err != nil {
		return observe(err)
	}
	p.reporter.Stats(stats)

	var sel *models.Selection
	if !opts.SkipVideos {
		sel, err = p.selectVideos(ctx, stats.ChannelID)
		if err != nil {
			return observe(err)
		}
		if err := p.reporter.Selection(sel, opts.Debug); err != nil {
			return observe(err)
		}
	}

	if opts.SaveToLog {
		entry, err := report.FormatLogEntry(p.now(), stats, sel)
		if err != nil {
			return observe(err)
		}
		if err := report.PrependToFile(opts.LogPath, entry); err != nil {
			return observe(err)
		}
		p.log.WithField("file", opts.LogPath).Info("Report written to log file")
	}

	if opts.History != nil && sel != nil {
		snap := history.NewSnapshot(models.Report{Stats: *stats, Selection: *sel})
		if err := opts.History.Save(ctx, snap); err != nil {
			// the report itself succeeded
			p.log.WithError(err).Warn("Failed to store snapshot")
		}
	}

	observe(nil)
	return nil
}

func (p *Pipeline) selectVideos(ctx context.Context, channelID string) (*models.Selection, error) {
	records, err := p.fetcher.FetchRecentVideos(ctx, channelID)
	if err != nil {
		return nil, err
	}

	p.log.WithFields(logrus.Fields{
		"channel_id": channelID,
		"candidates": len(records),
	}).Debug("Selecting videos")

	sel, err := models.SelectVideos(records)
	if err != nil {
		return nil, err
	}
	return &sel, nil
}

// observe counts the outcome of a run and passes err through.
func observe(err error) error {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		if kind := models.KindOf(err); kind != 0 {
			outcome = kind.String()
		}
	}
	metrics.Reports.WithLabelValues(outcome).Inc()
	return err
}
