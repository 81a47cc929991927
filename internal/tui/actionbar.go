package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Taishi66/rollouts-tui/internal/domain"
	"github.com/Taishi66/rollouts-tui/internal/status"
)

const (
	btnRestart     = "restart"
	btnRetry       = "retry"
	btnAbort       = "abort"
	btnPromote     = "promote"
	btnPromoteFull = "promote-full"
	btnSetImage    = "set-image"
	btnUndo        = "undo"
)

// actionBar holds the buttons of the rollout detail view, in display order.
type actionBar struct {
	buttons []*ActionButton
}

func newActionBar() actionBar {
	mk := func(id, label string, k string) *ActionButton {
		return &ActionButton{ID: id, Label: label, Key: k, IndicateLoading: true, Disabled: true}
	}
	return actionBar{buttons: []*ActionButton{
		mk(btnRestart, "Restart", keys.Restart.Help().Key),
		mk(btnRetry, "Retry", keys.Retry.Help().Key),
		mk(btnAbort, "Abort", keys.Abort.Help().Key),
		mk(btnPromote, "Promote", keys.Promote.Help().Key),
		mk(btnPromoteFull, "Promote-Full", keys.PromoteFull.Help().Key),
		mk(btnSetImage, "Set Image", keys.SetImage.Help().Key),
		mk(btnUndo, "Undo", keys.Undo.Help().Key),
	}}
}

func (ab *actionBar) button(id string) *ActionButton {
	for _, b := range ab.buttons {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// sync recomputes which buttons are usable for ro.
func (ab *actionBar) sync(ro *domain.RolloutInfo, readonly bool) {
	for _, b := range ab.buttons {
		b.Disabled = actionDisabled(b.ID, ro, readonly)
	}
}

// update routes loading ticks to their button.
func (ab *actionBar) update(msg actionButtonTickMsg) {
	for _, b := range ab.buttons {
		if b.Update(msg) {
			return
		}
	}
}

func (ab *actionBar) release() {
	for _, b := range ab.buttons {
		b.Release()
	}
}

func (ab *actionBar) render(frame string) string {
	parts := make([]string, 0, len(ab.buttons))
	for _, b := range ab.buttons {
		label := fmt.Sprintf("%s %s", b.Key, b.Label)
		switch {
		case b.Disabled:
			parts = append(parts, buttonDisabledStyle.Render(label))
		case b.Loading():
			parts = append(parts, buttonLoadingStyle.Render(frame+" "+b.Label))
		default:
			parts = append(parts, buttonStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func actionDisabled(id string, ro *domain.RolloutInfo, readonly bool) bool {
	if readonly || ro == nil {
		return true
	}
	healthy := status.ParseRolloutStatus(ro.Status) == status.RolloutHealthy
	switch id {
	case btnRetry:
		return !ro.Aborted
	case btnAbort, btnPromote, btnPromoteFull:
		return healthy || ro.Aborted
	case btnUndo:
		return len(ro.ReplicaSets) < 2
	}
	return false
}

// needsConfirm reports whether id asks for confirmation. In a prod namespace
// the user types the rollout name, elsewhere a y/N prompt is enough.
func needsConfirm(id string, prod bool) bool {
	switch id {
	case btnAbort, btnUndo:
		return true
	case btnPromoteFull, btnRestart, btnSetImage:
		return prod
	}
	return false
}

func actionLabel(id string) string {
	switch id {
	case btnPromoteFull:
		return "Promote-Full"
	case btnSetImage:
		return "Set Image"
	default:
		return strings.ToUpper(id[:1]) + id[1:]
	}
}
