package tui

import (
	"fmt"
	"strings"
)

type yamlViewState struct {
	scrollPane
	rollout string
}

func renderYAMLView(ys *yamlViewState, width, viewHeight int) string {
	if ys.content == "" {
		return "  Pas de YAML disponible\n"
	}

	var b strings.Builder

	header := fmt.Sprintf("  YAML: rollout/%s [%d lignes]", ys.rollout, len(ys.lines))
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	end := min(ys.offset+viewHeight, len(ys.lines))
	for i := ys.offset; i < end; i++ {
		b.WriteString("  ")
		b.WriteString(truncate(ys.lines[i], width-2))
		b.WriteString("\n")
	}

	return b.String()
}

func yamlHelpKeys() string {
	return "j/k:scroll  g/G:début/fin  esc:retour"
}
