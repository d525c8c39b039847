// Package theme holds the terminal styles used by the vow CLI.
package theme

import (
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/laximgqozaZZZYT/vow-sub000/internal/leveling"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Warning   = lipgloss.Color("#EAB308") // Amber
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Label = lipgloss.NewStyle().
		Foreground(TextDim).
		Width(14)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// States
var (
	Good = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Warn = lipgloss.NewStyle().
		Foreground(Warning).
		Bold(true)

	Bad = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	XP = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)
)

// Card frames a block such as a baby-step plan.
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(0, 1)

// SeverityStyle colors a mismatch severity.
func SeverityStyle(s leveling.Severity) lipgloss.Style {
	switch s {
	case leveling.SeverityNone:
		return Good
	case leveling.SeverityMild:
		return Warn
	default:
		return Bad
	}
}

// TierStyle colors an XP tier: full credit green, near misses amber and
// everything else rose.
func TierStyle(t leveling.Tier) lipgloss.Style {
	switch t {
	case leveling.TierOptimal:
		return Good
	case leveling.TierNear, leveling.TierMildOver:
		return Warn
	default:
		return Bad
	}
}

// Table returns a bordered table with a styled header row.
func Table(headers ...string) *table.Table {
	header := lipgloss.NewStyle().Bold(true).Foreground(Secondary).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(Border)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
}
