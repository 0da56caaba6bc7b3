package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joeshaw/envdecode"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"recipebuilder"
	"recipebuilder/recipe"
	"recipebuilder/session"
	"recipebuilder/sink"
)

type Results struct {
	Card recipe.Card `json:"card"`
}

func main() {
	lambda.Start(handle)
}

func handle(ctx context.Context, req session.Request) (Results, error) {
	var appConfig recipebuilder.AppConfig
	if err := envdecode.Decode(&appConfig); err != nil {
		return Results{}, fmt.Errorf("failed to decode app config: %w", err)
	}
	if err := recipebuilder.SetDefaultLogger(appConfig.LogLevel); err != nil {
		return Results{}, err
	}

	var publishConfig recipebuilder.PublishConfig
	if err := envdecode.Decode(&publishConfig); err != nil {
		return Results{}, fmt.Errorf("failed to decode publish config: %w", err)
	}
	publisher, err := sink.FromConfig(ctx, publishConfig, http.DefaultClient)
	if err != nil {
		slog.Error("SETUP: Failed to configure publishing", "error", err)
		return Results{}, err
	}

	tracerProvider, _, otelShutdown, err := recipebuilder.InitOtel(ctx, appConfig.Telemetry)
	if err != nil {
		slog.Error("SETUP: Failed to initialize OpenTelemetry", "error", err)
		return Results{}, err
	}
	defer func() {
		if err := otelShutdown(ctx); err != nil {
			slog.Error("SETUP: Failed to shutdown OpenTelemetry", "error", err)
		}
	}()

	return build(ctx, req, publisher, recipebuilder.NewStdoutSessionLogger(), tracerProvider.Tracer(recipebuilder.TracerNameLambda))
}

func build(ctx context.Context, req session.Request, publisher recipebuilder.Publisher, journal recipebuilder.SessionLogger, tracer trace.Tracer) (Results, error) {
	ctx, span := tracer.Start(ctx, recipebuilder.TracerNameLambda, trace.WithAttributes(
		attribute.String("recipe.name", req.Name),
		attribute.Int("recipe.ingredients", len(req.Ingredients)),
		attribute.Int("recipe.steps", len(req.Steps)),
	))
	defer span.End()

	applyLog := recipebuilder.StageLog{Stage: 1, Name: "apply", Timestamp: time.Now()}
	r, err := session.Apply(req)
	if err != nil {
		applyLog.Error = err.Error()
		logStage(journal, applyLog)
		span.SetStatus(codes.Error, "Invalid request")
		span.RecordError(err)
		return Results{}, fmt.Errorf("invalid recipe request: %w", err)
	}
	applyLog.Output = r.Lines()
	logStage(journal, applyLog)

	if publisher == nil || r.IsEmpty() {
		return Results{Card: recipe.NewCard(r)}, nil
	}

	publishLog := recipebuilder.StageLog{Stage: 2, Name: "publish", Timestamp: time.Now()}
	card, err := session.Publish(ctx, publisher, r)
	if err != nil {
		publishLog.Error = err.Error()
		logStage(journal, publishLog)
		span.SetStatus(codes.Error, "Publish failed")
		span.RecordError(err)
		return Results{}, err
	}
	publishLog.Output = card.ID
	logStage(journal, publishLog)

	return Results{Card: card}, nil
}

func logStage(journal recipebuilder.SessionLogger, stage recipebuilder.StageLog) {
	if err := journal.LogStage(stage); err != nil {
		slog.Error("Failed to log session stage", "error", err, "stage", stage.Name)
	}
}
