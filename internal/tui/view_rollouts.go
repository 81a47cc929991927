package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Taishi66/rollouts-tui/internal/domain"
)

func weightString(r domain.RolloutInfo) string {
	if r.Strategy != "Canary" || r.Step < 0 {
		return "-"
	}
	return fmt.Sprintf("%d%%", r.SetWeight)
}

func renderRolloutList(rollouts []domain.RolloutInfo, sortState SortState, cursor, width, maxVisible int, frame string) string {
	if len(rollouts) == 0 {
		return "  Aucun rollout dans ce namespace\n"
	}

	var b strings.Builder
	header := fmt.Sprintf("  %-40s %-10s %-16s %-6s %-7s %-8s %s",
		SortIndicator("NAME", sortState), "STRATEGY", SortIndicator("STATUS", sortState),
		"STEP", "WEIGHT", "READY", SortIndicator("AGE", sortState))
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	start := 0
	if cursor >= maxVisible {
		start = cursor - maxVisible + 1
	}

	for i := start; i < len(rollouts) && i < start+maxVisible; i++ {
		r := rollouts[i]
		badge := rolloutBadge(r, frame)
		pad := max(16-lipgloss.Width(badge), 0)
		ready := colorizeReady(r)
		readyPad := max(8-lipgloss.Width(ready), 0)

		line := fmt.Sprintf("  %-40s %-10s %s%s %-6s %-7s %s%s %s",
			truncate(r.Name, 39),
			r.Strategy,
			badge, strings.Repeat(" ", pad),
			stepString(r),
			weightString(r),
			ready, strings.Repeat(" ", readyPad),
			r.Age)

		if i == cursor {
			b.WriteString(selectedStyle.Width(width).Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func rolloutHelpKeys() string {
	return "j/k:nav  enter:détail  e:events  y:yaml  s:tri  /:filtre  C-r:refresh  q:quit"
}
