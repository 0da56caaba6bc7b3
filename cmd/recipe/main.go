package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joeshaw/envdecode"
	"github.com/spf13/cobra"

	"recipebuilder"
	"recipebuilder/render"
	"recipebuilder/session"
	"recipebuilder/sink"
	"recipebuilder/source"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:          "recipe",
		Short:        "Build a recipe interactively",
		Long:         "Prompts for a recipe name, its ingredients and steps, shows the result and offers scaling, reset and clear.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), logLevel, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides RECIPE_LOG_LEVEL")
	cmd.AddCommand(newApplyCmd(&logLevel))
	return cmd
}

func newApplyCmd(logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "apply LOCATION",
		Short: "Build a recipe from a request document",
		Long: "Reads a JSON or YAML request from a file path or an s3://bucket/key URI, " +
			"builds the recipe without prompting, prints it and publishes the card.",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return apply(cmd.Context(), *logLevel, args[0], cmd.OutOrStdout())
		},
	}
}

// setup decodes the environment and installs the default logger.
func setup(logLevel string) (recipebuilder.AppConfig, error) {
	var appConfig recipebuilder.AppConfig
	if err := envdecode.Decode(&appConfig); err != nil {
		return appConfig, fmt.Errorf("SETUP: failed to decode app config: %w", err)
	}
	if logLevel == "" {
		logLevel = appConfig.LogLevel
	}
	if err := recipebuilder.SetDefaultLogger(logLevel); err != nil {
		return appConfig, fmt.Errorf("SETUP: %w", err)
	}
	return appConfig, nil
}

// newPublisher builds the configured publisher, which may be nil.
func newPublisher(ctx context.Context) (recipebuilder.Publisher, error) {
	var publishConfig recipebuilder.PublishConfig
	if err := envdecode.Decode(&publishConfig); err != nil {
		return nil, fmt.Errorf("SETUP: failed to decode publish config: %w", err)
	}
	return sink.FromConfig(ctx, publishConfig, http.DefaultClient)
}

func apply(ctx context.Context, logLevel, location string, out io.Writer) error {
	if _, err := setup(logLevel); err != nil {
		return err
	}
	publisher, err := newPublisher(ctx)
	if err != nil {
		slog.Error("SETUP: Failed to configure publishing", "error", err)
		return err
	}

	loader, err := source.FromLocation(ctx, location)
	if err != nil {
		return err
	}
	data, err := loader.Load(ctx)
	if err != nil {
		return err
	}
	req, err := session.DecodeRequest(data, location)
	if err != nil {
		return err
	}

	r, err := session.Apply(req)
	if err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	render.NewPrinter(out).Recipe(r)

	if publisher == nil || r.IsEmpty() {
		return nil
	}
	card, err := session.Publish(ctx, publisher, r)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nPublished card %s\n", card.ID)
	return nil
}

func run(ctx context.Context, logLevel string, in io.Reader, out io.Writer) error {
	appConfig, err := setup(logLevel)
	if err != nil {
		return err
	}

	// a broken sink only disables publishing; the session still runs
	publisher, err := newPublisher(ctx)
	if err != nil {
		slog.Error("SETUP: Publishing disabled", "error", err)
		publisher = nil
	}

	tracerProvider, meterProvider, otelShutdown, err := recipebuilder.InitOtel(ctx, appConfig.Telemetry)
	if err != nil {
		slog.Error("SETUP: Failed to initialize OpenTelemetry", "error", err)
		return err
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			slog.Error("SETUP: Failed to shutdown OpenTelemetry", "error", err)
		}
	}()

	journalBuf := new(bytes.Buffer)
	journal := recipebuilder.NewFileSessionLogger(journalBuf)

	s := session.New(session.Options{
		In:        in,
		Out:       out,
		Logger:    journal,
		Publisher: publisher,
		Tracer:    tracerProvider.Tracer(recipebuilder.TracerNameInteractive),
		Meter:     meterProvider.Meter(recipebuilder.TracerNameInteractive),
	})

	r, runErr := s.Run(ctx)

	if appConfig.JournalDir != "" {
		name := "recipe"
		if r != nil {
			name = r.ID()
		}
		if err := writeJournal(journal, journalBuf, recipebuilder.NewSessionLogFilePath(appConfig.JournalDir, name)); err != nil {
			slog.Error("SETUP: Failed to write session journal", "error", err)
		}
	}

	if appConfig.Debug && r != nil {
		recipebuilder.Dump(os.Stderr, r.ID(), r.Ingredients(), r.Steps())
	}

	return runErr
}

func writeJournal(journal *recipebuilder.FileSessionLogger, buf *bytes.Buffer, path string) error {
	if err := journal.Flush(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create journal dir: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
