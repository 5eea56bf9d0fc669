package theme

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme captures the lipgloss styles used across the TUI.
type Theme struct {
	Message   lipgloss.Style
	Header    lipgloss.Style
	Cursor    lipgloss.Style
	Normal    lipgloss.Style
	Dim       lipgloss.Style
	Title     lipgloss.Style
	Summary   lipgloss.Style
	Person    lipgloss.Style
	Character lipgloss.Style
	Status    lipgloss.Style
	Error     lipgloss.Style
}

// Default is the canonical name of the built-in default theme.
const Default = "default"

var themes = map[string]Theme{
	Default: {
		Message:   lipgloss.NewStyle().Foreground(lipgloss.Color("69")),
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		Cursor:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		Normal:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")),
		Summary:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		Person:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")),
		Character: lipgloss.NewStyle().Foreground(lipgloss.Color("246")),
		Status:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	},
	"high_contrast": {
		Message:   lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Cursor:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		Normal:    lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		Dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		Title:     lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("15")),
		Summary:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		Person:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("118")),
		Character: lipgloss.NewStyle().Foreground(lipgloss.Color("45")),
		Status:    lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	},
}

// Names returns the sorted list of available theme names.
func Names() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Canonical maps name onto a known theme name, falling back to Default.
func Canonical(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if _, ok := themes[key]; ok {
		return key
	}
	return Default
}

// ForName returns the theme with the provided name, defaulting if unknown.
func ForName(name string) Theme {
	return themes[Canonical(name)]
}
