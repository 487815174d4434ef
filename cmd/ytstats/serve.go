package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/yt-insights/ytstats/internal/api"
	"github.com/yt-insights/ytstats/internal/config"
	"github.com/yt-insights/ytstats/internal/pipeline"
	"github.com/yt-insights/ytstats/internal/report"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve channel reports over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ch, err := config.ReadChannelFile(a.cfg.ChannelsFile)
			if err != nil {
				return err
			}

			client, err := api.NewYouTubeClient(cmd.Context(), ch.APIKey, a.cfg.APIBaseURL, a.log)
			if err != nil {
				return err
			}

			p := pipeline.New(client, report.New(io.Discard), a.log)
			server, err := api.NewServer(p, api.ServerConfig{
				CORSOrigins:       a.cfg.CORSOrigins,
				RequestsPerMinute: a.cfg.ServeRequestsPerMinute,
			}, a.log)
			if err != nil {
				return err
			}

			return server.Start(a.cfg.Port)
		},
	}
}
