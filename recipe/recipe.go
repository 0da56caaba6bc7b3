package recipe

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Ingredient is a single (name, quantity, unit) line of a recipe.
type Ingredient struct {
	Name     string  `json:"name" yaml:"name"`
	Quantity float64 `json:"quantity" yaml:"quantity"`
	Unit     string  `json:"unit" yaml:"unit"`
}

// String renders the ingredient as "<quantity> <abbreviated unit> <name>".
func (i Ingredient) String() string {
	return fmt.Sprintf("%s %s %s", FormatQuantity(i.Quantity), AbbreviateUnit(i.Unit), i.Name)
}

// FormatQuantity renders q in the shortest form that round-trips (200, 0.5, 1.25).
func FormatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

// Recipe holds one recipe's identity, its ingredients and its preparation steps.
// Both collections keep insertion order. Validation of names, quantities and
// units is the caller's job; Recipe stores what it is given.
type Recipe struct {
	id          string
	ingredients []Ingredient
	steps       []string
}

// New creates an empty recipe with the given identifier.
func New(id string) *Recipe {
	return &Recipe{
		id:          id,
		ingredients: make([]Ingredient, 0),
		steps:       make([]string, 0),
	}
}

func (r *Recipe) ID() string { return r.id }

// AddIngredient appends an ingredient. Duplicate names are allowed.
func (r *Recipe) AddIngredient(name string, quantity float64, unit string) {
	r.ingredients = append(r.ingredients, Ingredient{Name: name, Quantity: quantity, Unit: unit})
}

// AddStep appends a preparation step.
func (r *Recipe) AddStep(description string) {
	r.steps = append(r.steps, description)
}

// Scale multiplies every quantity by factor. Repeated calls compound.
func (r *Recipe) Scale(factor float64) {
	for i := range r.ingredients {
		r.ingredients[i].Quantity *= factor
	}
}

// CanScale reports whether every quantity stays positive and finite after
// multiplying by factor.
func (r *Recipe) CanScale(factor float64) bool {
	for _, ing := range r.ingredients {
		if !ScalesCleanly(ing.Quantity, factor) {
			return false
		}
	}
	return true
}

// ScalesCleanly reports whether quantity*factor is positive and finite.
func ScalesCleanly(quantity, factor float64) bool {
	q := quantity * factor
	return q > 0 && !math.IsInf(q, 0) && !math.IsNaN(q)
}

// ResetQuantities scales by 1. It does not restore quantities from before an
// earlier Scale; no snapshot is kept.
func (r *Recipe) ResetQuantities() {
	r.Scale(1.0)
}

// Clear drops all ingredients and steps. The identifier is kept.
func (r *Recipe) Clear() {
	r.ingredients = r.ingredients[:0]
	r.steps = r.steps[:0]
}

// TotalQuantityOf sums the quantities of every ingredient whose name matches
// name case-insensitively. Units are not considered.
func (r *Recipe) TotalQuantityOf(name string) float64 {
	var total float64
	for _, ing := range r.ingredients {
		if strings.EqualFold(ing.Name, name) {
			total += ing.Quantity
		}
	}
	return total
}

// Ingredients returns a copy of the ingredient list.
func (r *Recipe) Ingredients() []Ingredient {
	out := make([]Ingredient, len(r.ingredients))
	copy(out, r.ingredients)
	return out
}

// Steps returns a copy of the step list.
func (r *Recipe) Steps() []string {
	out := make([]string, len(r.steps))
	copy(out, r.steps)
	return out
}

func (r *Recipe) IsEmpty() bool {
	return len(r.ingredients) == 0 && len(r.steps) == 0
}

// StepLine renders step i (0-based) as "Step <i+1>: <description>".
func StepLine(i int, description string) string {
	return fmt.Sprintf("Step %d: %s", i+1, description)
}

// Lines is the read-only display projection of the recipe.
func (r *Recipe) Lines() []string {
	lines := make([]string, 0, len(r.ingredients)+len(r.steps)+3)
	lines = append(lines, "Recipe: "+r.id, "Ingredients:")
	for _, ing := range r.ingredients {
		lines = append(lines, "- "+ing.String())
	}
	lines = append(lines, "Steps:")
	for i, step := range r.steps {
		lines = append(lines, StepLine(i, step))
	}
	return lines
}
