package prompt

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"recipebuilder/recipe"
)

// Answer is the outcome of a yes/no question.
type Answer int

const (
	Unknown Answer = iota
	Yes
	No
)

func (a Answer) String() string {
	switch a {
	case Yes:
		return "yes"
	case No:
		return "no"
	default:
		return "unknown"
	}
}

// RecipeName accepts any text without digits. The input is kept as typed.
func RecipeName(s string) (string, error) {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return "", ErrNameHasDigit
		}
	}
	return s, nil
}

// IngredientName accepts any non-blank text.
func IngredientName(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", ErrBlankName
	}
	return s, nil
}

// Count parses a positive integer.
func Count(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, ErrNotPositiveCount
	}
	return n, nil
}

// Quantity parses a positive, finite real number.
func Quantity(s string) (float64, error) {
	f, ok := positiveFloat(s)
	if !ok {
		return 0, ErrNotPositive
	}
	return f, nil
}

// ScaleFactor parses a positive, finite multiplier.
func ScaleFactor(s string) (float64, error) {
	f, ok := positiveFloat(s)
	if !ok {
		return 0, ErrBadScaleFactor
	}
	return f, nil
}

func positiveFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0, false
	}
	return f, true
}

// UnitCode accepts a unit code or long unit name and returns it trimmed, as typed.
func UnitCode(s string) (string, error) {
	s = strings.TrimSpace(s)
	if _, ok := recipe.ParseUnit(s); !ok {
		return "", ErrUnknownUnit
	}
	return s, nil
}

// Confirm reads yes/y and no/n in any case. Surrounding whitespace is not
// trimmed, so " yes" is Unknown.
func Confirm(s string) Answer {
	switch strings.ToLower(s) {
	case "yes", "y":
		return Yes
	case "no", "n":
		return No
	default:
		return Unknown
	}
}
