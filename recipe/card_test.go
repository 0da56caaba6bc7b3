package recipe

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newTestRecipe() *Recipe {
	r := New("Pancakes")
	r.AddIngredient("flour", 200, "grams")
	r.AddIngredient("egg", 2, "whole")
	r.AddStep("Mix")
	return r
}

func TestNewCard(t *testing.T) {
	card := NewCard(newTestRecipe())

	assert.NotEmpty(t, card.ID)
	assert.Equal(t, "Pancakes", card.Name)
	assert.False(t, card.CreatedAt.IsZero())
	assert.Equal(t, []CardIngredient{
		{Name: "flour", Quantity: 200, Unit: "grams", Abbreviation: "g"},
		{Name: "egg", Quantity: 2, Unit: "whole", Abbreviation: ""},
	}, card.Ingredients)
	assert.Equal(t, []string{"Mix"}, card.Steps)
	assert.Equal(t, "Recipe: Pancakes\nIngredients:\n- 200 g flour\n- 2  egg\nSteps:\nStep 1: Mix", card.Text())

	other := NewCard(newTestRecipe())
	assert.NotEqual(t, card.ID, other.ID)
}

func TestCard_Encode(t *testing.T) {
	card := NewCard(newTestRecipe())

	t.Run("json", func(t *testing.T) {
		b, err := card.Encode(FormatJSON)
		require.NoError(t, err)

		var decoded Card
		require.NoError(t, json.Unmarshal(b, &decoded))
		assert.Equal(t, card.ID, decoded.ID)
		assert.Equal(t, card.Ingredients, decoded.Ingredients)
	})

	t.Run("yaml", func(t *testing.T) {
		b, err := card.Encode("YAML")
		require.NoError(t, err)
		assert.Contains(t, string(b), "name: Pancakes")

		var decoded Card
		require.NoError(t, yaml.Unmarshal(b, &decoded))
		assert.Equal(t, card.Steps, decoded.Steps)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := card.Encode("xml")
		assert.ErrorContains(t, err, "unsupported card format")
	})
}

func TestExtension(t *testing.T) {
	ext, err := Extension("json")
	require.NoError(t, err)
	assert.Equal(t, "json", ext)

	ext, err = Extension("yml")
	require.NoError(t, err)
	assert.Equal(t, "yaml", ext)

	_, err = Extension("toml")
	assert.Error(t, err)
}

func TestCard_Validate(t *testing.T) {
	t.Run("valid card", func(t *testing.T) {
		assert.NoError(t, NewCard(newTestRecipe()).Validate())
	})

	t.Run("empty recipe is still a valid card", func(t *testing.T) {
		assert.NoError(t, NewCard(New("Nothing")).Validate())
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		card := NewCard(newTestRecipe())
		card.Ingredients[0].Quantity = 0
		assert.Error(t, card.Validate())
	})
}

func TestCardSchema(t *testing.T) {
	schema := CardSchema()
	assert.Equal(t, "object", schema.Type)
	assert.Contains(t, schema.Required, "ingredients")
	assert.Equal(t, "array", schema.Properties["ingredients"].Type)
	assert.Contains(t, schema.Properties["ingredients"].Items.Properties, "quantity")
}
