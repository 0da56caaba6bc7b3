package recipe

import "strings"

// Unit is one entry of the fixed measurement vocabulary.
type Unit int

const (
	UnitUnknown Unit = iota
	Grams
	Kilograms
	Milliliters
	Liters
	Teaspoon
	Cups
	Whole
)

type unitInfo struct {
	name   string
	code   string
	abbrev string
}

var unitTable = map[Unit]unitInfo{
	Grams:       {name: "grams", code: "g", abbrev: "g"},
	Kilograms:   {name: "kilograms", code: "kg", abbrev: "kg"},
	Milliliters: {name: "milliliters", code: "ml", abbrev: "ml"},
	Liters:      {name: "liters", code: "l", abbrev: "l"},
	Teaspoon:    {name: "teaspoon", code: "tsp", abbrev: "tsp"},
	Cups:        {name: "cups", code: "cups", abbrev: "cup"},
	Whole:       {name: "whole", code: "whole", abbrev: ""},
}

// Units returns the vocabulary in prompt order.
func Units() []Unit {
	return []Unit{Grams, Kilograms, Milliliters, Liters, Teaspoon, Cups, Whole}
}

// ParseUnit accepts either a prompt code ("kg") or a long name ("kilograms"), in any case.
func ParseUnit(s string) (Unit, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, u := range Units() {
		info := unitTable[u]
		if s == info.code || s == info.name {
			return u, true
		}
	}
	return UnitUnknown, false
}

// String returns the long unit name.
func (u Unit) String() string {
	if info, ok := unitTable[u]; ok {
		return info.name
	}
	return "unknown"
}

// Code is the short form offered at the unit prompt.
func (u Unit) Code() string {
	return unitTable[u].code
}

// Abbreviation is the display form. Whole has none.
func (u Unit) Abbreviation() string {
	return unitTable[u].abbrev
}

// AbbreviateUnit maps a long unit name to its display form. Only long names are
// abbreviated; anything else, prompt codes included, is returned unchanged.
func AbbreviateUnit(unit string) string {
	lower := strings.ToLower(unit)
	for _, u := range Units() {
		if lower == unitTable[u].name {
			return u.Abbreviation()
		}
	}
	return unit
}
