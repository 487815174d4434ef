package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/yt-insights/ytstats/internal/models"
)

const (
	DefaultAPIBaseURL   = "https://www.googleapis.com/youtube/v3"
	DefaultChannelsFile = "channels.txt"
	DefaultLogFile      = "channel_data.txt"
)

var (
	ErrMissingAPIKey     = errors.New("YouTube API key is required")
	ErrMissingIdentifier = errors.New("channel identifier is required")
	ErrShortChannelFile  = errors.New("channel file needs three lines: identifier, API key, id mode")
)

// Config holds the application configuration
type Config struct {
	APIBaseURL             string
	ChannelsFile           string
	LogFile                string
	DBPath                 string
	Port                   string
	CORSOrigins            []string
	LogLevel               string
	ServeRequestsPerMinute int
}

// Channel is the parsed channel file.
type Channel struct {
	Identifier string
	APIKey     string
	UseID      bool
}

// Load reads an optional .env file and then the environment.
func Load(envPath string, log *logrus.Logger) (*Config, error) {
	if envPath == "" {
		envPath = ".env"
	}
	if err := godotenv.Load(envPath); err != nil {
		log.WithField("file", envPath).Debug("No .env file loaded")
	}

	cfg := &Config{
		APIBaseURL:             strings.TrimSuffix(getEnv("YOUTUBE_API_BASE_URL", DefaultAPIBaseURL), "/"),
		ChannelsFile:           getEnv("CHANNELS_FILE", DefaultChannelsFile),
		LogFile:                getEnv("LOG_FILE", DefaultLogFile),
		DBPath:                 os.Getenv("DB_PATH"),
		Port:                   getEnv("PORT", "8080"),
		CORSOrigins:            parseList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		ServeRequestsPerMinute: getEnvAsInt("SERVE_REQUESTS_PER_MINUTE", 30),
	}

	if err := cfg.Validate(); err != nil {
		return nil, models.NewError(models.KindConfig, "load config", err)
	}
	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("YOUTUBE_API_BASE_URL must not be empty")
	}
	if c.ServeRequestsPerMinute < 1 {
		return fmt.Errorf("SERVE_REQUESTS_PER_MINUTE must be positive")
	}
	return nil
}

// ReadChannelFile parses the three-line channel file: identifier, API key and
// "true" when the identifier is a channel ID rather than a legacy username.
func ReadChannelFile(path string) (*Channel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, models.NewError(models.KindConfig, "read channel file", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() && len(lines) < 3 {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, models.NewError(models.KindConfig, "read channel file", err)
	}
	if len(lines) < 3 {
		return nil, models.NewError(models.KindConfig, "read channel file",
			fmt.Errorf("%w: %s has %d", ErrShortChannelFile, path, len(lines)))
	}

	ch := &Channel{
		Identifier: strings.TrimSpace(lines[0]),
		APIKey:     strings.TrimSpace(lines[1]),
		UseID:      strings.TrimSpace(lines[2]) == "true",
	}
	if ch.Identifier == "" {
		return nil, models.NewError(models.KindConfig, "read channel file", ErrMissingIdentifier)
	}
	if ch.APIKey == "" {
		return nil, models.NewError(models.KindConfig, "read channel file", ErrMissingAPIKey)
	}
	return ch, nil
}

// parseList splits a comma-separated value, dropping empty entries
func parseList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
