package sink

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"recipebuilder"
	"recipebuilder/recipe"
	"recipebuilder/slack"
)

// FromConfig builds the publisher described by cfg. It returns nil when no
// sink is configured.
func FromConfig(ctx context.Context, cfg recipebuilder.PublishConfig, httpClient recipebuilder.HTTPClient) (recipebuilder.Publisher, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	if _, err := recipe.Extension(cfg.Format); err != nil {
		return nil, err
	}

	var publishers Multi
	if cfg.Dir != "" {
		publishers = append(publishers, NewFile(cfg.Dir, cfg.Format))
		slog.Info("SETUP: File sink enabled", "dir", cfg.Dir, "format", cfg.Format)
	}
	if cfg.S3Bucket != "" {
		awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRetryMaxAttempts(5))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		publishers = append(publishers, NewS3(s3.NewFromConfig(awsCfg), cfg.S3Bucket, cfg.S3Prefix, cfg.Format))
		slog.Info("SETUP: S3 sink enabled", "bucket", cfg.S3Bucket, "prefix", cfg.S3Prefix)
	}
	if cfg.SlackWebhookURL != "" {
		publishers = append(publishers, slack.NewClient(cfg.SlackWebhookURL, cfg.SlackChannel, httpClient))
		slog.Info("SETUP: Slack sink enabled", "channel", cfg.SlackChannel)
	}

	switch len(publishers) {
	case 0:
		return nil, nil
	case 1:
		return publishers[0], nil
	default:
		return publishers, nil
	}
}
