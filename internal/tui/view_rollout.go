package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Taishi66/rollouts-tui/internal/domain"
)

// detailState is the rollout detail view: the loaded rollout, the action bar
// and the focused pod, indexed across every replica set in display order.
type detailState struct {
	name     string
	rollout  *domain.RolloutInfo
	bar      actionBar
	focus    int
	refresh  int // generation of the periodic refresh tick
	readonly bool
}

func (ds *detailState) pods() []domain.PodInfo {
	if ds.rollout == nil {
		return nil
	}
	var pods []domain.PodInfo
	for _, rs := range ds.rollout.ReplicaSets {
		pods = append(pods, rs.Pods...)
	}
	return pods
}

func (ds *detailState) focusedPod() (domain.PodInfo, bool) {
	pods := ds.pods()
	if ds.focus < 0 || ds.focus >= len(pods) {
		return domain.PodInfo{}, false
	}
	return pods[ds.focus], true
}

// setRollout replaces the displayed rollout, keeping the focus on the same pod
// UID when it still exists.
func (ds *detailState) setRollout(ro *domain.RolloutInfo) {
	prev, hadFocus := ds.focusedPod()
	ds.rollout = ro
	ds.bar.sync(ro, ds.readonly)
	pods := ds.pods()
	if hadFocus {
		for i, p := range pods {
			if p.UID == prev.UID {
				ds.focus = i
				return
			}
		}
	}
	ds.focus = min(ds.focus, max(len(pods)-1, 0))
}

func (ds *detailState) moveFocus(delta int) {
	n := len(ds.pods())
	if n == 0 {
		ds.focus = 0
		return
	}
	ds.focus = min(max(ds.focus+delta, 0), n-1)
}

func (ds *detailState) containers() []string {
	if ds.rollout == nil {
		return nil
	}
	return ds.rollout.Containers
}

func renderRolloutHeader(ro *domain.RolloutInfo, frame string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("  %s  %s  %s",
		lipgloss.NewStyle().Bold(true).Render(ro.Name),
		mutedStyle.Render(ro.Strategy),
		rolloutBadge(*ro, frame)))
	if ro.Aborted {
		b.WriteString("  " + toastErrorStyle.Render("ABORTED"))
	}
	if ro.Paused {
		b.WriteString("  " + mutedStyle.Render("(pause)"))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  step %s  weight %s  ready %s  updated %d  available %d  age %s\n",
		stepString(*ro), weightString(*ro), colorizeReady(*ro), ro.Updated, ro.Available, ro.Age))
	if ro.Message != "" {
		b.WriteString("  " + mutedStyle.Render(ro.Message) + "\n")
	}
	if len(ro.Images) > 0 {
		b.WriteString("  " + mutedStyle.Render("images: "+strings.Join(ro.Images, ", ")) + "\n")
	}
	return b.String()
}

func renderRolloutDetail(ds *detailState, frame string, width, height int) string {
	if ds.rollout == nil {
		if ds.name == "" {
			return "  Sélectionnez un rollout (2)\n"
		}
		return fmt.Sprintf("  Chargement de %s...\n", ds.name)
	}
	ro := ds.rollout

	var b strings.Builder
	b.WriteString(renderRolloutHeader(ro, frame))
	b.WriteString(" " + ds.bar.render(frame))
	b.WriteString("\n")

	if len(ro.ReplicaSets) == 0 {
		b.WriteString("\n  Aucun replica set\n")
		return b.String()
	}

	// Groups before the focused one are skipped when they do not all fit.
	var groups []string
	focusGroup, offset := 0, 0
	for i, rs := range ro.ReplicaSets {
		rel := ds.focus - offset
		if rel < 0 || rel >= len(rs.Pods) {
			rel = -1
		} else {
			focusGroup = i
		}
		groups = append(groups, renderReplicaSetGroup(rs, frame, rel, width))
		offset += len(rs.Pods)
	}

	var tooltip string
	if pod, ok := ds.focusedPod(); ok {
		tooltip = renderPodTooltip(pod)
	}

	used := lipgloss.Height(b.String()) + lipgloss.Height(tooltip)
	start := 0
	for start < focusGroup && used+blockHeight(groups[start:focusGroup+1]) > height {
		start++
	}
	for _, g := range groups[start:] {
		b.WriteString(indent(g, 2))
		b.WriteString("\n")
	}
	if tooltip != "" {
		b.WriteString(indent(tooltip, 2))
		b.WriteString("\n")
	}
	return b.String()
}

func blockHeight(blocks []string) int {
	h := 0
	for _, s := range blocks {
		h += lipgloss.Height(s)
	}
	return h
}

func indent(s string, n int) string {
	pad := strings.Repeat(" ", n)
	return pad + strings.ReplaceAll(s, "\n", "\n"+pad)
}

func detailHelpKeys() string {
	return "j/k:pod  c:copier  l:logs  e:events  y:yaml  R/t/a/p/P/i/u:actions  esc:retour"
}
