// Package inspector implements the bubbletea diagnostic browser over
// the spec.md §6 dev commands (show-fpn, show-fht,
// validate-fact-integrity, primitives-info/primitives-usage): a
// read-only window onto a live env.Environment, not a rule-action
// language front end. Adapted from the teacher's cmd/nerd/ui package,
// trimmed of every chat/campaign/shard page down to the tables a
// diagnostic tool over working memory actually needs.
package inspector

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles the inspector's pages share. The
// teacher's Styles carried a full light/dark brand palette; this one
// keeps only the generic roles a diagnostic table needs.
type Styles struct {
	Header  lipgloss.Style
	Title   lipgloss.Style
	Body    lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Border  lipgloss.Style
}

// DefaultStyles returns the inspector's fixed style set.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")).
			Padding(0, 2).
			Bold(true),
		Title: lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1),
		Body: lipgloss.NewStyle(),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")),
		Bold: lipgloss.NewStyle().Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true),
		Border: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),
	}
}
