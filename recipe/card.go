package recipe

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/jsonschema"
	"gopkg.in/yaml.v3"
)

// Supported card encodings.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// CardIngredient is an ingredient as exported on a card.
type CardIngredient struct {
	Name         string  `json:"name" yaml:"name"`
	Quantity     float64 `json:"quantity" yaml:"quantity"`
	Unit         string  `json:"unit" yaml:"unit"`
	Abbreviation string  `json:"abbreviation" yaml:"abbreviation"`
}

// Card is a snapshot of a recipe taken for publishing.
type Card struct {
	ID          string           `json:"id" yaml:"id"`
	Name        string           `json:"name" yaml:"name"`
	Ingredients []CardIngredient `json:"ingredients" yaml:"ingredients"`
	Steps       []string         `json:"steps" yaml:"steps"`
	Lines       []string         `json:"lines" yaml:"lines"`
	CreatedAt   time.Time        `json:"created_at" yaml:"created_at"`
}

// NewCard snapshots r under a fresh identifier.
func NewCard(r *Recipe) Card {
	ings := make([]CardIngredient, 0, len(r.ingredients))
	for _, ing := range r.ingredients {
		ings = append(ings, CardIngredient{
			Name:         ing.Name,
			Quantity:     ing.Quantity,
			Unit:         ing.Unit,
			Abbreviation: AbbreviateUnit(ing.Unit),
		})
	}
	return Card{
		ID:          uuid.NewString(),
		Name:        r.id,
		Ingredients: ings,
		Steps:       r.Steps(),
		Lines:       r.Lines(),
		CreatedAt:   time.Now().UTC(),
	}
}

// Text is the card's display text, one line per recipe line.
func (c Card) Text() string {
	return strings.Join(c.Lines, "\n")
}

// Extension returns the file extension for format.
func Extension(format string) (string, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return "json", nil
	case FormatYAML, "yml":
		return "yaml", nil
	default:
		return "", fmt.Errorf("unsupported card format %q", format)
	}
}

// Encode serializes the card as JSON or YAML.
func (c Card) Encode(format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return json.MarshalIndent(c, "", "  ")
	case FormatYAML, "yml":
		return yaml.Marshal(c)
	default:
		return nil, fmt.Errorf("unsupported card format %q", format)
	}
}

// CardSchema describes the JSON document produced by Encode(FormatJSON).
func CardSchema() *jsonschema.Schema {
	zero := 0.0
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"id":   {Type: "string"},
			"name": {Type: "string"},
			"ingredients": {
				Type: "array",
				Items: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"name":         {Type: "string"},
						"quantity":     {Type: "number", ExclusiveMinimum: &zero},
						"unit":         {Type: "string"},
						"abbreviation": {Type: "string"},
					},
					Required: []string{"name", "quantity", "unit"},
				},
			},
			"steps": {
				Type:  "array",
				Items: &jsonschema.Schema{Type: "string"},
			},
			"lines": {
				Type:  "array",
				Items: &jsonschema.Schema{Type: "string"},
			},
			"created_at": {Type: "string"},
		},
		Required: []string{"id", "name", "ingredients", "steps"},
	}
}

// Validate checks the card against CardSchema.
func (c Card) Validate() error {
	resolved, err := CardSchema().Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return fmt.Errorf("failed to resolve card schema: %w", err)
	}

	// marshal -> any so the validator sees plain JSON values
	b, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal card: %w", err)
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("failed to unmarshal card: %w", err)
	}

	if err := resolved.Validate(doc); err != nil {
		return fmt.Errorf("invalid card %q: %w", c.ID, err)
	}
	return nil
}
