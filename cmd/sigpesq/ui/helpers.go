package ui

import "github.com/charmbracelet/lipgloss"

// joinCards lays out KPI cards side by side with a small gap.
func joinCards(cards ...string) string {
	spaced := make([]string, 0, len(cards)*2)
	for i, c := range cards {
		if i > 0 {
			spaced = append(spaced, "  ")
		}
		spaced = append(spaced, c)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, spaced...)
}
