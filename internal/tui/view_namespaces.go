package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Taishi66/rollouts-tui/internal/domain"
)

func renderNamespaceList(namespaces []domain.NamespaceInfo, cursor, width, maxVisible int, current string) string {
	if len(namespaces) == 0 {
		return "  Aucun namespace accessible\n"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("  %-50s %-14s %s", "NAME", "STATUS", "AGE")))
	b.WriteString("\n")

	start := 0
	if cursor >= maxVisible {
		start = cursor - maxVisible + 1
	}

	for i := start; i < len(namespaces) && i < start+maxVisible; i++ {
		ns := namespaces[i]
		marker := "  "
		if ns.Name == current {
			marker = lipgloss.NewStyle().Foreground(colorArgo).Render("● ")
		}
		statusStr := ns.Status
		if ns.Status != "Active" {
			statusStr = lipgloss.NewStyle().Foreground(colorWarning).Render(fmt.Sprintf("%-14s", ns.Status))
		} else {
			statusStr = fmt.Sprintf("%-14s", ns.Status)
		}
		line := fmt.Sprintf("%s%-50s %s %s", marker, truncate(ns.Name, 49), statusStr, ns.Age)
		if i == cursor {
			b.WriteString(selectedStyle.Width(width).Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func namespaceHelpKeys() string {
	return "j/k:nav  enter:sélectionner  /:filtre  C-r:refresh  q:quit"
}
