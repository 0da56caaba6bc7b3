// Package render prints recipes to a terminal.
package render

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"recipebuilder/recipe"
)

var (
	colorAccent = lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"}
	colorWarn   = lipgloss.AdaptiveColor{Light: "#f2ae49", Dark: "#ffb454"}
)

// Printer styles output for one writer. Color is only emitted when the writer
// is a terminal that supports it.
type Printer struct {
	w       io.Writer
	heading lipgloss.Style
	warn    lipgloss.Style
}

func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:       w,
		heading: r.NewStyle().Bold(true).Foreground(colorAccent),
		warn:    r.NewStyle().Foreground(colorWarn),
	}
}

// Warn styles a warning message.
func (p *Printer) Warn(s string) string {
	return p.warn.Render(s)
}

// Recipe writes the display form of r. Headings are styled; ingredient and
// step lines are written verbatim.
func (p *Printer) Recipe(r *recipe.Recipe) {
	fmt.Fprintln(p.w, p.heading.Render("Recipe: "+r.ID()))
	fmt.Fprintln(p.w, p.heading.Render("Ingredients:"))
	for _, ing := range r.Ingredients() {
		fmt.Fprintln(p.w, "- "+ing.String())
	}
	fmt.Fprintln(p.w, p.heading.Render("Steps:"))
	for i, step := range r.Steps() {
		fmt.Fprintln(p.w, recipe.StepLine(i, step))
	}
}

// UnitList is the unit menu printed before every unit prompt.
func UnitList() []string {
	lines := []string{"Available units:"}
	for _, u := range recipe.Units() {
		lines = append(lines, "- "+u.Code())
	}
	return lines
}
