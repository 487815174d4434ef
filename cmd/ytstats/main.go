package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yt-insights/ytstats/internal/api"
	"github.com/yt-insights/ytstats/internal/config"
	"github.com/yt-insights/ytstats/internal/history"
	"github.com/yt-insights/ytstats/internal/models"
	"github.com/yt-insights/ytstats/internal/pipeline"
	"github.com/yt-insights/ytstats/internal/report"
)

var warn = color.New(color.FgYellow)

type app struct {
	envPath      string
	logLevel     string
	channelsFile string
	debug        bool

	log *logrus.Logger
	cfg *config.Config
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, models.ErrNoChannel):
		// not a failure: the API simply knows no such channel
		fmt.Fprintln(stderr, "No channel found")
		return 0
	case errors.Is(err, models.ErrNoVideos):
		fmt.Fprintln(stderr, "No videos found")
		return 1
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "ytstats [save-to-log]",
		Short: "Print YouTube channel statistics and its most viewed and latest videos",
		Long: `ytstats reads a channel file (identifier, API key, "true" for channel-ID mode)
and prints the channel's view, subscriber and video counts together with the
most viewed and the most recent of its last 20 uploads.

Pass "true" as the first argument to prepend the report to the log file.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(stderr)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.report(cmd.Context(), args, stdout)
		},
	}

	root.PersistentFlags().StringVar(&a.envPath, "env", ".env", "Path to .env file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Logging level (debug, info, warn, error); overrides LOG_LEVEL")
	root.PersistentFlags().StringVar(&a.channelsFile, "config", "", "Path to the channel file; overrides CHANNELS_FILE")
	root.Flags().BoolVar(&a.debug, "debug", false, "Print the raw IDs of the selected videos")
	root.Flags().BoolVar(&a.debug, "d", false, "Shorthand for --debug")
	_ = root.Flags().MarkHidden("d")

	root.AddCommand(newServeCmd(a), newHistoryCmd(a, stdout))
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root
}

func (a *app) setup(stderr io.Writer) error {
	bootstrap := setupLogger(a.logLevel, stderr)
	cfg, err := config.Load(a.envPath, bootstrap)
	if err != nil {
		return err
	}

	level := a.logLevel
	if level == "" {
		level = cfg.LogLevel
	}
	if a.channelsFile != "" {
		cfg.ChannelsFile = a.channelsFile
	}

	a.cfg = cfg
	a.log = setupLogger(level, stderr)
	return nil
}

// setupLogger sets up the logger with the specified log level
func setupLogger(level string, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	switch level {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}

	return log
}

func (a *app) report(ctx context.Context, args []string, stdout io.Writer) error {
	ch, err := config.ReadChannelFile(a.cfg.ChannelsFile)
	if err != nil {
		return err
	}

	saveToLog := false
	if len(args) < 1 {
		fmt.Fprintf(stdout, "%s - Please provide a boolean value to save to txt file (assumed false)\n", warn.Sprint("warn"))
	} else {
		saveToLog = args[0] == "true"
	}
	if a.debug {
		fmt.Fprintf(stdout, "%s - Debug mode enabled\n", warn.Sprint("warn"))
	}

	client, err := api.NewYouTubeClient(ctx, ch.APIKey, a.cfg.APIBaseURL, a.log)
	if err != nil {
		return err
	}

	opts := pipeline.Options{
		SaveToLog: saveToLog,
		LogPath:   a.cfg.LogFile,
		Debug:     a.debug,
	}
	if a.cfg.DBPath != "" {
		store, err := history.Open(a.cfg.DBPath, a.log)
		if err != nil {
			a.log.WithError(err).Warn("Snapshot history disabled")
		} else {
			defer store.Close()
			opts.History = store
		}
	}

	p := pipeline.New(client, report.New(stdout), a.log)
	return p.Run(ctx, models.Identifier{Value: ch.Identifier, UseID: ch.UseID}, opts)
}
