package recipebuilder

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

type AppConfig struct {
	LogLevel   string `env:"RECIPE_LOG_LEVEL,default=warn"`
	Debug      bool   `env:"RECIPE_DEBUG,default=false"`
	JournalDir string `env:"RECIPE_JOURNAL_DIR"`
	Telemetry  bool   `env:"RECIPE_TELEMETRY,default=false"`
}

type PublishConfig struct {
	Dir             string `env:"RECIPE_PUBLISH_DIR"`
	Format          string `env:"RECIPE_PUBLISH_FORMAT,default=json"`
	S3Bucket        string `env:"RECIPE_PUBLISH_S3_BUCKET"`
	S3Prefix        string `env:"RECIPE_PUBLISH_S3_PREFIX,default=recipes/"`
	SlackWebhookURL string `env:"RECIPE_SLACK_WEBHOOK_URL"`
	SlackChannel    string `env:"RECIPE_SLACK_CHANNEL,default=#recipes"`
}

// Enabled reports whether any sink is configured.
func (c PublishConfig) Enabled() bool {
	return c.Dir != "" || c.S3Bucket != "" || c.SlackWebhookURL != ""
}

// ParseLogLevel maps debug, info, warn/warning and error (any case) to a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// SetDefaultLogger points slog at stderr with the given level so prompts on
// stdout stay clean.
func SetDefaultLogger(level string) error {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}
