package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/SeamusWaldron/facevalue"
	"github.com/SeamusWaldron/facevalue/internal/scenario"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	changedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("82"))

	handledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	cellStyle = lipgloss.NewStyle().
			Width(10).
			Align(lipgloss.Right)
)

// formatFields renders every field of value as "a.b.c".
func formatFields(layout facevalue.Layout, value byte) string {
	parts := make([]string, layout.NumFields())
	for i := range parts {
		parts[i] = fmt.Sprintf("%d", layout.Field(value, i))
	}
	return strings.Join(parts, ".")
}

// renderStep draws one cycle as a face table followed by its changes.
func renderStep(layout facevalue.Layout, step scenario.Step) string {
	changed := make(map[facevalue.Face]bool)
	for _, c := range step.Changes {
		changed[c.Face] = true
	}

	var b strings.Builder

	row := []string{cellStyle.Render("")}
	for _, face := range facevalue.AllFaces {
		row = append(row, headerStyle.Inherit(cellStyle).Render(fmt.Sprintf("face %d", face)))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...))
	b.WriteString("\n")

	row = []string{statusStyle.Inherit(cellStyle).Render("in")}
	for _, face := range facevalue.AllFaces {
		cell := cellStyle.Render(formatFields(layout, step.Inputs[face]))
		if changed[face] {
			cell = changedStyle.Inherit(cellStyle).Render(formatFields(layout, step.Inputs[face]))
		}
		row = append(row, cell)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...))
	b.WriteString("\n")

	row = []string{statusStyle.Inherit(cellStyle).Render("out")}
	for _, face := range facevalue.AllFaces {
		row = append(row, cellStyle.Render(formatFields(layout, step.Outputs[face])))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...))
	b.WriteString("\n")

	for _, c := range step.Changes {
		line := fmt.Sprintf("  face %d field %d: %d -> %d (%s)", c.Face, c.Field, c.Previous, c.Current, c.Result)
		if c.Result == facevalue.Handled {
			b.WriteString(handledStyle.Render(line))
		} else {
			b.WriteString(changedStyle.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}
