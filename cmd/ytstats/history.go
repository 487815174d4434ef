package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yt-insights/ytstats/internal/api"
	"github.com/yt-insights/ytstats/internal/config"
	"github.com/yt-insights/ytstats/internal/history"
	"github.com/yt-insights/ytstats/internal/models"
)

func newHistoryCmd(a *app, stdout io.Writer) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored snapshots of the configured channel, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.DBPath == "" {
				return models.NewError(models.KindConfig, "history", fmt.Errorf("DB_PATH is not set"))
			}
			if limit < 1 {
				return models.NewError(models.KindConfig, "history", fmt.Errorf("--limit must be positive, got %d", limit))
			}
			ch, err := config.ReadChannelFile(a.cfg.ChannelsFile)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			channelID := ch.Identifier
			if !ch.UseID {
				// snapshots are keyed by channel ID, so resolve the username first
				client, err := api.NewYouTubeClient(ctx, ch.APIKey, a.cfg.APIBaseURL, a.log)
				if err != nil {
					return err
				}
				stats, err := client.FetchChannelStats(ctx, models.Identifier{Value: ch.Identifier})
				if err != nil {
					return err
				}
				channelID = stats.ChannelID
			}

			store, err := history.Open(a.cfg.DBPath, a.log)
			if err != nil {
				return err
			}
			defer store.Close()

			snapshots, err := store.Recent(ctx, channelID, limit)
			if err != nil {
				return err
			}
			printSnapshots(stdout, snapshots)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of snapshots to list")
	return cmd
}

func printSnapshots(w io.Writer, snapshots []history.Snapshot) {
	if len(snapshots) == 0 {
		fmt.Fprintln(w, "No snapshots stored")
		return
	}
	for _, s := range snapshots {
		stats, sel := s.Report.Stats, s.Report.Selection
		fmt.Fprintf(w, "[%s] views=%s subscribers=%s videos=%s | most viewed: %s (%d views) | latest: %s\n",
			s.CreatedAt.Local().Format(models.DisplayTimeLayout),
			stats.ViewCount, stats.SubscriberCount, stats.VideoCount,
			sel.MostViewed.Title, sel.MostViewed.ViewCount, sel.Latest.Title)
	}
}
