package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"recipebuilder"
	"recipebuilder/prompt"
	"recipebuilder/recipe"
	"recipebuilder/render"
)

// Options wires a Session. Only In and Out are needed; the rest default to no-ops.
type Options struct {
	In        io.Reader
	Out       io.Writer
	Logger    recipebuilder.SessionLogger
	Publisher recipebuilder.Publisher
	Tracer    trace.Tracer
	Meter     metric.Meter
}

// Session walks a user through building one recipe.
type Session struct {
	prompter  *prompt.Prompter
	printer   *render.Printer
	logger    recipebuilder.SessionLogger
	publisher recipebuilder.Publisher
	tracer    trace.Tracer
	inst      instruments

	stage    int
	attempts int
	invalid  int
}

type instruments struct {
	runs             metric.Int64Counter
	runsFailed       metric.Int64Counter
	ingredientsAdded metric.Int64Counter
	stepsAdded       metric.Int64Counter
	invalidInputs    metric.Int64Counter
	scales           metric.Int64Counter
	publishes        metric.Int64Counter
	scaleFactor      metric.Float64Histogram
	duration         metric.Float64Histogram
}

func newInstruments(meter metric.Meter) instruments {
	var inst instruments
	inst.runs, _ = meter.Int64Counter("recipe_sessions_total",
		metric.WithDescription("Total number of recipe sessions started"))
	inst.runsFailed, _ = meter.Int64Counter("recipe_sessions_failed_total",
		metric.WithDescription("Total number of recipe sessions that ended before completion"))
	inst.ingredientsAdded, _ = meter.Int64Counter("recipe_ingredients_added_total",
		metric.WithDescription("Total number of ingredients added"))
	inst.stepsAdded, _ = meter.Int64Counter("recipe_steps_added_total",
		metric.WithDescription("Total number of preparation steps added"))
	inst.invalidInputs, _ = meter.Int64Counter("prompt_invalid_inputs_total",
		metric.WithDescription("Total number of answers rejected at a prompt"))
	inst.scales, _ = meter.Int64Counter("recipe_scale_operations_total",
		metric.WithDescription("Total number of times a recipe was scaled"))
	inst.publishes, _ = meter.Int64Counter("recipe_publishes_total",
		metric.WithDescription("Total number of recipe card publish attempts"))
	inst.scaleFactor, _ = meter.Float64Histogram("recipe_scale_factor",
		metric.WithDescription("Scale factors applied to recipes"))
	inst.duration, _ = meter.Float64Histogram("recipe_session_duration_seconds",
		metric.WithDescription("Total duration of a recipe session in seconds"))
	return inst
}

func New(opts Options) *Session {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Logger == nil {
		opts.Logger = recipebuilder.NewNoOpSessionLogger()
	}
	if opts.Tracer == nil {
		opts.Tracer = tracenoop.NewTracerProvider().Tracer("")
	}
	if opts.Meter == nil {
		opts.Meter = metricnoop.NewMeterProvider().Meter("")
	}

	s := &Session{
		printer:   render.NewPrinter(opts.Out),
		logger:    opts.Logger,
		publisher: opts.Publisher,
		tracer:    opts.Tracer,
		inst:      newInstruments(opts.Meter),
	}
	s.prompter = prompt.New(opts.In, opts.Out, prompt.Options{
		Warn:      s.printer.Warn,
		OnInvalid: s.onInvalid,
	})
	return s
}

func (s *Session) onInvalid(label string, err error) {
	s.invalid++
	s.attempts++
	s.inst.invalidInputs.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("prompt", label),
	))
	slog.Debug("SESSION: Rejected answer", "prompt", label, "reason", err)
}

func ask[T any](ctx context.Context, s *Session, q prompt.Question[T]) (T, error) {
	s.attempts++
	return prompt.Ask(ctx, s.prompter, q)
}

func text(s string) (string, error) { return s, nil }

// Run executes the interactive sequence and returns the recipe in its final
// state. The error is non-nil only when input ends or ctx is cancelled early;
// the partially built recipe is returned alongside it.
func (s *Session) Run(ctx context.Context) (*recipe.Recipe, error) {
	ctx, span := s.tracer.Start(ctx, "Session.Run")
	defer span.End()

	start := time.Now()
	s.inst.runs.Add(ctx, 1)
	slog.Info("SESSION: Starting run")

	r, err := s.run(ctx)

	s.inst.duration.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		s.inst.runsFailed.Add(ctx, 1)
		span.SetStatus(codes.Error, "Session ended early")
		span.RecordError(err)
		slog.Warn("SESSION: Ended early", "error", err)
		return r, err
	}

	slog.Info("SESSION: Completed run",
		"recipe", r.ID(),
		"ingredients", len(r.Ingredients()),
		"steps", len(r.Steps()),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return r, nil
}

func (s *Session) run(ctx context.Context) (*recipe.Recipe, error) {
	p := s.prompter
	p.Println("Welcome to the Recipe Application!")

	var r *recipe.Recipe
	err := s.runStage(ctx, "name", func(ctx context.Context) (any, error) {
		name, err := ask(ctx, s, prompt.Question[string]{
			Label: "Enter recipe name: ",
			Parse: prompt.RecipeName,
		})
		if err != nil {
			return nil, err
		}
		r = recipe.New(name)
		return name, nil
	})
	if err != nil {
		return nil, err
	}

	stages := []struct {
		name string
		fn   func(ctx context.Context, r *recipe.Recipe) (any, error)
	}{
		{"ingredients", s.collectIngredients},
		{"steps", s.collectSteps},
		{"display", s.display},
		{"scale", s.scale},
		{"reset", s.reset},
		{"clear", s.clear},
	}
	for _, st := range stages {
		err := s.runStage(ctx, st.name, func(ctx context.Context) (any, error) {
			return st.fn(ctx, r)
		})
		if err != nil {
			return r, err
		}
	}

	if s.publisher != nil {
		// publish failures are recorded in the journal but never end the session
		_ = s.runStage(ctx, "publish", func(ctx context.Context) (any, error) {
			return s.publish(ctx, r)
		})
	}

	return r, nil
}

// runStage wraps one stage in a span and records it in the journal.
func (s *Session) runStage(ctx context.Context, name string, fn func(ctx context.Context) (any, error)) error {
	ctx, span := s.tracer.Start(ctx, "Session.Stage."+name)
	defer span.End()

	s.stage++
	s.attempts, s.invalid = 0, 0
	stageLog := recipebuilder.StageLog{Stage: s.stage, Name: name, Timestamp: time.Now()}

	out, err := fn(ctx)

	stageLog.Output = out
	stageLog.Attempts = s.attempts
	stageLog.Invalid = s.invalid
	span.SetAttributes(
		attribute.Int("stage.attempts", s.attempts),
		attribute.Int("stage.invalid", s.invalid),
	)
	if err != nil {
		stageLog.Error = err.Error()
		span.SetStatus(codes.Error, name+" failed")
		span.RecordError(err)
		err = fmt.Errorf("failed to complete %s: %w", name, err)
	}
	s.logStage(stageLog)
	return err
}

// logStage logs a stage using the configured logger, handling errors gracefully
func (s *Session) logStage(stage recipebuilder.StageLog) {
	if err := s.logger.LogStage(stage); err != nil {
		slog.Error("Failed to log session stage", "error", err, "stage", stage.Stage)
	}
}

func (s *Session) collectIngredients(ctx context.Context, r *recipe.Recipe) (any, error) {
	n, err := ask(ctx, s, prompt.Question[int]{
		Label: "Enter the number of ingredients: ",
		Parse: prompt.Count,
	})
	if err != nil {
		return nil, err
	}

	for i := 0; i < n; i++ {
		name, err := ask(ctx, s, prompt.Question[string]{
			Label: fmt.Sprintf("Ingredient %d name: ", i+1),
			Parse: prompt.IngredientName,
		})
		if err != nil {
			return i, err
		}
		qty, err := ask(ctx, s, prompt.Question[float64]{
			Label: "Quantity: ",
			Parse: prompt.Quantity,
		})
		if err != nil {
			return i, err
		}
		unit, err := ask(ctx, s, prompt.Question[string]{
			Preamble: render.UnitList(),
			Label:    "Select unit: ",
			Parse:    prompt.UnitCode,
		})
		if err != nil {
			return i, err
		}

		r.AddIngredient(name, qty, unit)
		u, _ := recipe.ParseUnit(unit)
		s.inst.ingredientsAdded.Add(ctx, 1, metric.WithAttributes(attribute.String("unit", u.String())))
	}
	return n, nil
}

func (s *Session) collectSteps(ctx context.Context, r *recipe.Recipe) (any, error) {
	n, err := ask(ctx, s, prompt.Question[int]{
		Label: "Enter the number of steps: ",
		Parse: prompt.Count,
	})
	if err != nil {
		return nil, err
	}

	for i := 0; i < n; i++ {
		step, err := ask(ctx, s, prompt.Question[string]{
			Label: fmt.Sprintf("Step %d: ", i+1),
			Parse: text,
		})
		if err != nil {
			return i, err
		}
		r.AddStep(step)
		s.inst.stepsAdded.Add(ctx, 1)
	}
	return n, nil
}

func (s *Session) display(ctx context.Context, r *recipe.Recipe) (any, error) {
	s.prompter.Println("\nYour recipe details:")
	s.printer.Recipe(r)
	return r.Lines(), nil
}

func (s *Session) scale(ctx context.Context, r *recipe.Recipe) (any, error) {
	s.prompter.Println("\nDo you want to scale the recipe? Enter '0.5' (half), '2' (double), '3' (triple), or '1' to keep original quantities.")
	factor, err := ask(ctx, s, prompt.Question[float64]{
		Label: "Enter the scaling factor: ",
		Parse: func(line string) (float64, error) {
			f, err := prompt.ScaleFactor(line)
			if err != nil {
				return 0, err
			}
			if !r.CanScale(f) {
				return 0, prompt.ErrBadScaleFactor
			}
			return f, nil
		},
	})
	if err != nil {
		return nil, err
	}

	if factor != 1 {
		r.Scale(factor)
		s.inst.scales.Add(ctx, 1)
		s.inst.scaleFactor.Record(ctx, factor)
		s.prompter.Println(fmt.Sprintf("\nRecipe scaled by a factor of %s. New quantities:", recipe.FormatQuantity(factor)))
		s.printer.Recipe(r)
	}
	return factor, nil
}

func (s *Session) confirm(ctx context.Context, question string) (prompt.Answer, error) {
	s.prompter.Println(question)
	s.attempts++
	line, err := s.prompter.ReadLine(ctx)
	if err != nil {
		return prompt.Unknown, err
	}
	ans := prompt.Confirm(line)
	if ans == prompt.Unknown {
		s.invalid++
	}
	return ans, nil
}

func (s *Session) reset(ctx context.Context, r *recipe.Recipe) (any, error) {
	ans, err := s.confirm(ctx, "\nDo you want to reset the quantities to the original values? (yes/no)")
	if err != nil {
		return nil, err
	}

	switch ans {
	case prompt.Yes:
		r.ResetQuantities()
		s.prompter.Println("\nQuantities reset to original values:")
	case prompt.No:
		s.prompter.Println("\nQuantities will remain unchanged:")
	default:
		s.prompter.Println("")
		s.prompter.Warnln("Invalid input. Quantities will remain unchanged:")
	}
	s.printer.Recipe(r)
	return ans.String(), nil
}

func (s *Session) clear(ctx context.Context, r *recipe.Recipe) (any, error) {
	ans, err := s.confirm(ctx, "\nDo you want to clear the recipe and start over? (yes/no)")
	if err != nil {
		return nil, err
	}

	switch ans {
	case prompt.Yes:
		r.Clear()
		s.prompter.Println("\nRecipe cleared. You can now enter a new recipe.")
	case prompt.No:
		s.prompter.Println("\nRecipe will remain unchanged:")
		s.printer.Recipe(r)
	default:
		s.prompter.Println("")
		s.prompter.Warnln("Invalid input. Recipe will remain unchanged:")
		s.printer.Recipe(r)
	}
	return ans.String(), nil
}

func (s *Session) publish(ctx context.Context, r *recipe.Recipe) (any, error) {
	if r.IsEmpty() {
		slog.Info("PUBLISH: Recipe is empty, skipping", "recipe", r.ID())
		return "skipped", nil
	}

	card, err := Publish(ctx, s.publisher, r)
	status := "ok"
	if err != nil {
		status = "failed"
		slog.Error("PUBLISH: Failed to publish recipe card", "recipe", r.ID(), "error", err)
	}
	s.inst.publishes.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	if err != nil {
		return nil, err
	}
	return card.ID, nil
}

// Publish snapshots r into a card, validates it and hands it to p.
func Publish(ctx context.Context, p recipebuilder.Publisher, r *recipe.Recipe) (recipe.Card, error) {
	card := recipe.NewCard(r)
	if err := card.Validate(); err != nil {
		return card, err
	}
	if err := p.Publish(ctx, card); err != nil {
		return card, fmt.Errorf("failed to publish card %s: %w", card.ID, err)
	}
	slog.Info("PUBLISH: Recipe card published", "recipe", r.ID(), "card_id", card.ID)
	return card, nil
}
