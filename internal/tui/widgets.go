package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Taishi66/rollouts-tui/internal/domain"
	"github.com/Taishi66/rollouts-tui/internal/status"
)

// symbolGlyphs maps icon symbols to terminal glyphs.
var symbolGlyphs = map[status.Symbol]string{
	status.SymbolSpinner:   "◌",
	status.SymbolCheck:     "✔",
	status.SymbolCross:     "✖",
	status.SymbolWarning:   "⚠",
	status.SymbolQuestion:  "?",
	status.SymbolPause:     "⏸",
	status.SymbolArrowDown: "↓",
}

// iconGlyph renders icon, using the current spinner frame for spinning icons.
func iconGlyph(icon status.Icon, frame string) string {
	if icon.Spin && frame != "" {
		return frame
	}
	if g, ok := symbolGlyphs[icon.Symbol]; ok {
		return g
	}
	return "?"
}

// podWidget is the colored icon for one pod. focused pods are rendered reversed.
func podWidget(pod domain.PodInfo, frame string, focused bool) string {
	category := status.ParsePodStatus(pod.Status)
	glyph := iconGlyph(status.PodIcon(pod.Status), frame)
	style := lipgloss.NewStyle().Foreground(podStatusColor(category))
	if focused {
		style = style.Inherit(podFocusStyle)
	}
	return style.Render(glyph)
}

func replicaSetTags(rs domain.ReplicaSetInfo) string {
	var tags []string
	if rs.Stable {
		tags = append(tags, "stable")
	}
	if rs.Canary {
		tags = append(tags, "canary")
	}
	if rs.Active {
		tags = append(tags, "active")
	}
	if rs.Preview {
		tags = append(tags, "preview")
	}
	if len(tags) == 0 {
		return ""
	}
	return " " + revisionTagStyle.Render(strings.Join(tags, ","))
}

// renderReplicaSetGroup draws a replica set header followed by one icon per pod.
// focusedPod is the index of the focused pod in rs.Pods, -1 for none.
func renderReplicaSetGroup(rs domain.ReplicaSetInfo, frame string, focusedPod, width int) string {
	rsStatus := status.ReplicaSetStatus(rs.Status)
	icon := lipgloss.NewStyle().
		Foreground(replicaSetStatusColor(rsStatus)).
		Render(iconGlyph(status.ReplicaSetIcon(rsStatus), frame))

	header := fmt.Sprintf("%s %s  rev:%d%s  %s  %d/%d",
		icon, rs.Name, rs.Revision, replicaSetTags(rs), rs.Status, rs.Available, rs.Replicas)

	var pods strings.Builder
	if len(rs.Pods) == 0 {
		pods.WriteString(mutedStyle.Render("aucun pod"))
	}
	for i, pod := range rs.Pods {
		if i > 0 {
			pods.WriteString(" ")
		}
		pods.WriteString(podWidget(pod, frame, i == focusedPod))
	}

	body := header + "\n" + pods.String()
	if len(rs.Images) > 0 {
		body += "\n" + mutedStyle.Render(truncate(strings.Join(rs.Images, ", "), max(width-8, 10)))
	}
	return replicaSetBoxStyle.Width(max(min(width-4, 100), 20)).Render(body)
}

// renderPodTooltip shows the raw status and the name of the focused pod.
func renderPodTooltip(pod domain.PodInfo) string {
	body := fmt.Sprintf("Status: %s\n%s", pod.Status, pod.Name)
	if pod.Ready != "" {
		body += mutedStyle.Render(fmt.Sprintf("\nready %s  restarts %d  %s", pod.Ready, pod.Restarts, pod.Age))
	}
	return tooltipStyle.Render(body)
}

// rolloutBadge is the colored icon + status label shown in lists and headers.
func rolloutBadge(r domain.RolloutInfo, frame string) string {
	s := status.ParseRolloutStatus(r.Status)
	style := lipgloss.NewStyle().Foreground(rolloutStatusColor(s))
	return style.Render(iconGlyph(status.RolloutIcon(s), frame) + " " + r.Status)
}

func stepString(r domain.RolloutInfo) string {
	if r.Step < 0 || r.TotalSteps == 0 {
		return "-"
	}
	return fmt.Sprintf("%d/%d", r.Step, r.TotalSteps)
}

func colorizeReady(r domain.RolloutInfo) string {
	ready := r.ReadyString()
	switch {
	case r.Desired > 0 && r.Ready >= r.Desired:
		return lipgloss.NewStyle().Foreground(colorSuccess).Render(ready)
	case r.Ready == 0 && r.Desired > 0:
		return lipgloss.NewStyle().Foreground(colorError).Render(ready)
	default:
		return lipgloss.NewStyle().Foreground(colorWarning).Render(ready)
	}
}
