package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"recipebuilder/prompt"
	"recipebuilder/recipe"
)

// IngredientRequest is one ingredient of a Request.
type IngredientRequest struct {
	Name     string  `json:"name" yaml:"name"`
	Quantity float64 `json:"quantity" yaml:"quantity"`
	Unit     string  `json:"unit" yaml:"unit"`
}

// Request describes a whole session's answers up front, for non-interactive use.
type Request struct {
	Name        string              `json:"name" yaml:"name"`
	Ingredients []IngredientRequest `json:"ingredients" yaml:"ingredients"`
	Steps       []string            `json:"steps" yaml:"steps"`
	Scale       *float64            `json:"scale,omitempty" yaml:"scale,omitempty"`
	Reset       bool                `json:"reset,omitempty" yaml:"reset,omitempty"`
	Clear       bool                `json:"clear,omitempty" yaml:"clear,omitempty"`
}

// DecodeRequest reads a request document. Names ending in .yaml or .yml are
// decoded as YAML, anything else as JSON.
func DecodeRequest(data []byte, name string) (Request, error) {
	var req Request
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &req); err != nil {
			return Request{}, fmt.Errorf("failed to decode YAML request: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &req); err != nil {
			return Request{}, fmt.Errorf("failed to decode JSON request: %w", err)
		}
	}
	return req, nil
}

// Validate applies the interactive prompts' rules to every field and reports
// all violations at once.
func (req Request) Validate() error {
	var errs []error

	if _, err := prompt.RecipeName(req.Name); err != nil {
		errs = append(errs, fmt.Errorf("name: %w", err))
	}
	if len(req.Ingredients) == 0 {
		errs = append(errs, fmt.Errorf("ingredients: %w", prompt.ErrNotPositiveCount))
	}
	for i, ing := range req.Ingredients {
		if _, err := prompt.IngredientName(ing.Name); err != nil {
			errs = append(errs, fmt.Errorf("ingredients[%d].name: %w", i, err))
		}
		if _, err := prompt.Quantity(recipe.FormatQuantity(ing.Quantity)); err != nil {
			errs = append(errs, fmt.Errorf("ingredients[%d].quantity: %w", i, err))
		}
		if _, err := prompt.UnitCode(ing.Unit); err != nil {
			errs = append(errs, fmt.Errorf("ingredients[%d].unit: %w", i, err))
		}
	}
	if len(req.Steps) == 0 {
		errs = append(errs, fmt.Errorf("steps: %w", prompt.ErrNotPositiveCount))
	}
	if req.Scale != nil {
		if _, err := prompt.ScaleFactor(recipe.FormatQuantity(*req.Scale)); err != nil {
			errs = append(errs, fmt.Errorf("scale: %w", err))
		} else {
			for i, ing := range req.Ingredients {
				if ing.Quantity > 0 && !recipe.ScalesCleanly(ing.Quantity, *req.Scale) {
					errs = append(errs, fmt.Errorf("scale: ingredients[%d].quantity out of range: %w", i, prompt.ErrBadScaleFactor))
				}
			}
		}
	}

	return errors.Join(errs...)
}

// Apply builds the recipe a session would produce from the same answers.
func Apply(req Request) (*recipe.Recipe, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r := recipe.New(req.Name)
	for _, ing := range req.Ingredients {
		unit, _ := prompt.UnitCode(ing.Unit)
		r.AddIngredient(ing.Name, ing.Quantity, unit)
	}
	for _, step := range req.Steps {
		r.AddStep(step)
	}
	if req.Scale != nil && *req.Scale != 1 {
		r.Scale(*req.Scale)
	}
	if req.Reset {
		r.ResetQuantities()
	}
	if req.Clear {
		r.Clear()
	}
	return r, nil
}
