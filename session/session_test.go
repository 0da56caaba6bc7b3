package session

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"recipebuilder"
	"recipebuilder/prompt"
	"recipebuilder/sink"
)

func transcript(lines ...string) *strings.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

func runSession(t *testing.T, opts Options) (string, *Session) {
	t.Helper()
	out := new(bytes.Buffer)
	opts.Out = out
	s := New(opts)
	_, err := s.Run(context.Background())
	require.NoError(t, err)
	return out.String(), s
}

func TestRun_EndToEnd(t *testing.T) {
	out, _ := runSession(t, Options{In: transcript(
		"Pancakes",
		"1", "flour", "200", "grams",
		"1", "Mix",
		"1",
		"no",
		"no",
	)})

	assert.Contains(t, out, "Welcome to the Recipe Application!")
	assert.Contains(t, out, "\nYour recipe details:\nRecipe: Pancakes\nIngredients:\n- 200 g flour\nSteps:\nStep 1: Mix\n")
	assert.NotContains(t, out, "Recipe scaled by a factor")
	assert.Contains(t, out, "Quantities will remain unchanged:")
	assert.Contains(t, out, "Recipe will remain unchanged:")
	assert.Equal(t, 3, strings.Count(out, "- 200 g flour"), "shown after entry, after the reset answer and after the clear answer")
}

func TestRun_ShortUnitCodePassesThrough(t *testing.T) {
	out, _ := runSession(t, Options{In: transcript(
		"Tea",
		"2", "water", "250", "ml", "sugar", "1", "tsp",
		"1", "Steep",
		"1", "n", "n",
	)})

	assert.Contains(t, out, "- 250 ml water")
	assert.Contains(t, out, "- 1 tsp sugar")
}

func TestRun_RepromptsOnInvalidInput(t *testing.T) {
	out, _ := runSession(t, Options{In: transcript(
		"Soup 2", "Soup",
		"zero", "-1", "1",
		"", "leek",
		"lots", "0", "2",
		"pinch", "Whole",
		"0", "1", "Chop",
		"-3", "1",
		"no", "no",
	)})

	assert.Equal(t, 1, strings.Count(out, prompt.ErrNameHasDigit.Error()))
	assert.Equal(t, 3, strings.Count(out, "Enter the number of ingredients: "))
	assert.Contains(t, out, prompt.ErrBlankName.Error())
	assert.Contains(t, out, prompt.ErrUnknownUnit.Error())
	assert.Contains(t, out, prompt.ErrBadScaleFactor.Error())
	assert.Equal(t, 2, strings.Count(out, "Select unit: "))
	assert.Equal(t, 2, strings.Count(out, "Available units:"))
	assert.Contains(t, out, "- 2  leek")
}

func TestRun_ScaleResetClear(t *testing.T) {
	journal := recipebuilder.NewFileSessionLogger(new(bytes.Buffer))
	out := new(bytes.Buffer)
	s := New(Options{
		In: transcript(
			"Bread",
			"2", "flour", "100", "grams", "Flour", "50", "g",
			"2", "Knead", "Bake",
			"2",
			"yes",
			"yes",
		),
		Out:    out,
		Logger: journal,
	})

	r, err := s.Run(context.Background())
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "Recipe scaled by a factor of 2. New quantities:")
	assert.Contains(t, got, "- 200 g flour")
	assert.Contains(t, got, "- 100 g Flour")
	assert.Contains(t, got, "Quantities reset to original values:")
	assert.Contains(t, got, "Recipe cleared. You can now enter a new recipe.")

	// reset scales by 1: quantities after reset are still the scaled ones
	resetPart := got[strings.Index(got, "Quantities reset to original values:"):]
	assert.Contains(t, resetPart, "- 200 g flour")

	assert.Equal(t, "Bread", r.ID())
	assert.True(t, r.IsEmpty())
}

func TestRun_AmbiguousAnswersAreNo(t *testing.T) {
	out := new(bytes.Buffer)
	s := New(Options{
		In: transcript(
			"Rice",
			"1", "rice", "1", "cups",
			"1", "Boil",
			"3",
			"maybe",
			"sure",
		),
		Out: out,
	})

	r, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Invalid input. Quantities will remain unchanged:")
	assert.Contains(t, out.String(), "Invalid input. Recipe will remain unchanged:")
	assert.Contains(t, out.String(), "- 3 cup rice")
	assert.Equal(t, 3.0, r.TotalQuantityOf("RICE"))
	assert.False(t, r.IsEmpty())
}

func TestRun_InputClosedEarly(t *testing.T) {
	s := New(Options{In: transcript("Pancakes", "2", "flour", "200", "g")})

	r, err := s.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, prompt.ErrInputClosed)
	assert.ErrorContains(t, err, "ingredients")
	require.NotNil(t, r)
	assert.Len(t, r.Ingredients(), 1)
}

func TestRun_InputClosedBeforeName(t *testing.T) {
	s := New(Options{In: strings.NewReader("")})

	r, err := s.Run(context.Background())
	assert.ErrorIs(t, err, prompt.ErrInputClosed)
	assert.Nil(t, r)
}

func TestRun_Journal(t *testing.T) {
	buf := new(bytes.Buffer)
	journal := recipebuilder.NewFileSessionLogger(buf)

	runSession(t, Options{
		In: transcript(
			"Cake 1", "Cake",
			"1", "sugar", "100", "g",
			"1", "Bake",
			"1", "no", "no",
		),
		Logger: journal,
	})
	require.NoError(t, journal.Flush())

	var doc struct {
		Session struct {
			Stages []recipebuilder.StageLog `json:"stages"`
		} `json:"recipe_session"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	names := []string{}
	for _, st := range doc.Session.Stages {
		names = append(names, st.Name)
	}
	assert.Equal(t, []string{"name", "ingredients", "steps", "display", "scale", "reset", "clear"}, names)

	nameStage := doc.Session.Stages[0]
	assert.Equal(t, 2, nameStage.Attempts)
	assert.Equal(t, 1, nameStage.Invalid)
	assert.Equal(t, "Cake", nameStage.Output)
}

func TestRun_Publish(t *testing.T) {
	t.Run("publishes final recipe", func(t *testing.T) {
		mem := sink.NewMemory()
		runSession(t, Options{
			In:        transcript("Pancakes", "1", "flour", "200", "grams", "1", "Mix", "2", "no", "no"),
			Publisher: mem,
		})

		require.Len(t, mem.Cards, 1)
		assert.Equal(t, "Pancakes", mem.Cards[0].Name)
		assert.Equal(t, 400.0, mem.Cards[0].Ingredients[0].Quantity)
	})

	t.Run("cleared recipe is not published", func(t *testing.T) {
		mem := sink.NewMemory()
		runSession(t, Options{
			In:        transcript("Pancakes", "1", "flour", "200", "grams", "1", "Mix", "1", "no", "yes"),
			Publisher: mem,
		})
		assert.Empty(t, mem.Cards)
	})

	t.Run("publish failure does not fail the session", func(t *testing.T) {
		runSession(t, Options{
			In:        transcript("Pancakes", "1", "flour", "200", "grams", "1", "Mix", "1", "no", "no"),
			Publisher: sink.NewMemoryWithError(),
		})
	})
}

func TestRun_ScaleFactorMustKeepQuantitiesInRange(t *testing.T) {
	mem := sink.NewMemory()
	out, _ := runSession(t, Options{
		In: transcript(
			"Extremes",
			"2", "flour", "1e308", "g", "salt", "5e-324", "g",
			"1", "Mix",
			"10",
			"0.4",
			"1",
			"no", "no",
		),
		Publisher: mem,
	})

	assert.Equal(t, 2, strings.Count(out, prompt.ErrBadScaleFactor.Error()))
	assert.Equal(t, 3, strings.Count(out, "Enter the scaling factor: "))
	assert.NotContains(t, out, "Inf")
	require.Len(t, mem.Cards, 1)
	assert.Equal(t, 1e308, mem.Cards[0].Ingredients[0].Quantity)
	assert.Equal(t, 5e-324, mem.Cards[0].Ingredients[1].Quantity)
}

func TestRun_IngredientUnitMetricIsNormalized(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	runSession(t, Options{
		In: transcript(
			"Stew",
			"3", "beef", "1", "KG", "carrot", "0.5", "kg", "onion", "0.2", "Kilograms",
			"1", "Simmer",
			"1", "no", "no",
		),
		Meter: provider.Meter("test"),
	})

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var points []metricdata.DataPoint[int64]
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "recipe_ingredients_added_total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			points = append(points, sum.DataPoints...)
		}
	}

	require.Len(t, points, 1)
	assert.Equal(t, int64(3), points[0].Value)
	unit, ok := points[0].Attributes.Value(attribute.Key("unit"))
	require.True(t, ok)
	assert.Equal(t, "kilograms", unit.AsString())
}
