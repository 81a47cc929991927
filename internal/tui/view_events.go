package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Taishi66/rollouts-tui/internal/domain"
)

var (
	eventWarningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	eventNormalStyle  = lipgloss.NewStyle().Foreground(colorSuccess)
)

func renderEventList(rollout string, events []domain.EventInfo, sortState SortState, cursor, width, maxVisible int) string {
	if rollout == "" {
		return "  Sélectionnez un rollout (2) pour voir ses events\n"
	}
	if len(events) == 0 {
		return fmt.Sprintf("  Aucun event pour %s\n", rollout)
	}

	var b strings.Builder

	header := fmt.Sprintf("  %-10s %-22s %-34s %-8s %-6s %s",
		SortIndicator("TYPE", sortState), "REASON", "OBJECT",
		SortIndicator("AGE", sortState), SortIndicator("COUNT", sortState), "MESSAGE")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	start := 0
	if cursor >= maxVisible {
		start = cursor - maxVisible + 1
	}

	msgWidth := max(width-86, 20)
	for i := start; i < len(events) && i < start+maxVisible; i++ {
		e := events[i]

		style := eventNormalStyle
		if e.Type == "Warning" {
			style = eventWarningStyle
		}
		typeStr := style.Render(fmt.Sprintf("%-10s", e.Type))

		line := fmt.Sprintf("  %s %-22s %-34s %-8s %-6d %s",
			typeStr,
			truncate(e.Reason, 21),
			truncate(e.Object, 33),
			e.Age,
			e.Count,
			truncate(e.Message, msgWidth))

		if i == cursor {
			b.WriteString(selectedStyle.Width(width).Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func eventHelpKeys() string {
	return "j/k:nav  g/G:début/fin  s:tri  /:filtre  C-r:refresh  esc:retour  q:quit"
}
