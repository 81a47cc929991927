package tui

import (
	"fmt"
	"strings"

	"github.com/Taishi66/rollouts-tui/internal/domain"
)

// containerSelector picks the container whose logs to open on multi-container pods.
type containerSelector struct {
	active  bool
	pod     string
	choices []string
	cursor  int
}

func (cs *containerSelector) open(pod domain.PodInfo) {
	cs.pod = pod.Name
	cs.choices = make([]string, 0, len(pod.Containers))
	for _, c := range pod.Containers {
		cs.choices = append(cs.choices, c.Name)
	}
	cs.cursor = 0
	cs.active = true
}

func (cs *containerSelector) close() {
	cs.active = false
}

func (cs *containerSelector) down() {
	cs.cursor = min(cs.cursor+1, max(len(cs.choices)-1, 0))
}

func (cs *containerSelector) up() {
	cs.cursor = max(cs.cursor-1, 0)
}

func (cs *containerSelector) selected() string {
	if cs.cursor < len(cs.choices) {
		return cs.choices[cs.cursor]
	}
	return ""
}

func (cs *containerSelector) view() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("\n  Container pour %s :\n\n", cs.pod))
	for i, name := range cs.choices {
		if i == cs.cursor {
			b.WriteString(fmt.Sprintf("  > %s\n", selectedStyle.Render(name)))
		} else {
			b.WriteString(fmt.Sprintf("    %s\n", name))
		}
	}
	b.WriteString("\n  j/k:nav  enter:sélectionner  esc:annuler\n")
	return b.String()
}
