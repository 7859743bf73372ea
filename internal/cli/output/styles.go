package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used for terminal output.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	Path    lipgloss.Style
	Class   lipgloss.Style

	DiffAdd    lipgloss.Style
	DiffRemove lipgloss.Style
}

// DefaultStyles returns the terminal color scheme.
func DefaultStyles() *Styles {
	return &Styles{
		Header1:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Bold:       lipgloss.NewStyle().Bold(true),
		Muted:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Success:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Warning:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Error:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Info:       lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Path:       lipgloss.NewStyle().Underline(true),
		Class:      lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		DiffAdd:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		DiffRemove: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Header1: plain, Header2: plain, Bold: plain, Muted: plain,
		Success: plain, Warning: plain, Error: plain, Info: plain,
		Path: plain, Class: plain, DiffAdd: plain, DiffRemove: plain,
	}
}
