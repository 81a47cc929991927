package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type confirmMode int

const (
	confirmNone   confirmMode = iota
	confirmSimple             // y/N prompt
	confirmProd               // type the rollout name
)

// confirmState gates an action behind a prompt. onConfirm is returned as the
// command to run once the user accepts.
type confirmState struct {
	mode      confirmMode
	action    string // "Abort", "Undo → révision 3"
	rollout   string
	namespace string
	input     textinput.Model
	onConfirm tea.Cmd
}

func newConfirmState() confirmState {
	ti := textinput.New()
	ti.CharLimit = 253
	ti.Width = 50
	return confirmState{input: ti}
}

func (cs *confirmState) activate(action, rollout, namespace string, isProd bool, onConfirm tea.Cmd) tea.Cmd {
	cs.action = action
	cs.rollout = rollout
	cs.namespace = namespace
	cs.onConfirm = onConfirm
	if !isProd {
		cs.mode = confirmSimple
		return nil
	}
	cs.mode = confirmProd
	cs.input.Placeholder = rollout
	cs.input.SetValue("")
	return cs.input.Focus()
}

func (cs *confirmState) reset() {
	cs.mode = confirmNone
	cs.action = ""
	cs.rollout = ""
	cs.namespace = ""
	cs.input.SetValue("")
	cs.input.Blur()
	cs.onConfirm = nil
}

func (cs *confirmState) isActive() bool {
	return cs.mode != confirmNone
}

// accept resets the dialog and hands back the confirmed command.
func (cs *confirmState) accept() tea.Cmd {
	cmd := cs.onConfirm
	cs.reset()
	return cmd
}

// update consumes every key while the dialog is open.
func (cs *confirmState) update(msg tea.KeyMsg) tea.Cmd {
	switch cs.mode {
	case confirmSimple:
		switch msg.String() {
		case "y", "Y":
			return cs.accept()
		case "n", "N", "esc":
			cs.reset()
		}
	case confirmProd:
		switch msg.String() {
		case "esc":
			cs.reset()
		case "enter":
			if strings.TrimSpace(cs.input.Value()) == cs.rollout {
				return cs.accept()
			}
		default:
			var cmd tea.Cmd
			cs.input, cmd = cs.input.Update(msg)
			return cmd
		}
	}
	return nil
}

func (cs *confirmState) view(width int) string {
	switch cs.mode {
	case confirmSimple:
		return fmt.Sprintf("\n  %s %s ? [y/N] ", cs.action, cs.rollout)
	case confirmProd:
		box := fmt.Sprintf(
			"  NAMESPACE PRODUCTION\n\n"+
				"  Action  : %s\n"+
				"  Rollout : %s\n"+
				"  NS      : %s\n\n"+
				"  Tapez \"%s\" pour confirmer :\n"+
				"  > %s\n\n"+
				"  [Esc] Annuler",
			cs.action, cs.rollout, cs.namespace,
			cs.rollout, cs.input.View(),
		)
		return "\n" + bannerProdStyle.Width(min(width-4, 64)).Render(box) + "\n"
	}
	return ""
}
