package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// loadingDuration is how long a button shows its loading state after a
// press. It does not track completion of the action.
const loadingDuration = time.Second

type actionButtonTickMsg struct {
	id  string
	gen int
}

// ActionButton runs Action once per press and, when IndicateLoading is set,
// reports Loading for loadingDuration afterwards. Pressing again while
// loading restarts the timer. A disabled button ignores presses.
type ActionButton struct {
	ID              string
	Label           string
	Key             string
	IndicateLoading bool
	Disabled        bool
	Action          tea.Cmd

	gen          int
	loadingUntil time.Time
	now          func() time.Time
}

func (b *ActionButton) clock() time.Time {
	if b.now != nil {
		return b.now()
	}
	return time.Now()
}

// Press activates the button and returns the action batched with the loading tick.
func (b *ActionButton) Press() tea.Cmd {
	effect, tick := b.press()
	return tea.Batch(effect, tick)
}

func (b *ActionButton) press() (effect, tick tea.Cmd) {
	if b.Disabled || b.Action == nil {
		return nil, nil
	}
	b.gen++
	if !b.IndicateLoading {
		return b.Action, nil
	}
	b.loadingUntil = b.clock().Add(loadingDuration)
	id, gen := b.ID, b.gen
	return b.Action, tea.Tick(loadingDuration, func(time.Time) tea.Msg {
		return actionButtonTickMsg{id: id, gen: gen}
	})
}

// Update clears the loading state when the tick of the latest press arrives.
// It reports whether msg was addressed to this button.
func (b *ActionButton) Update(msg tea.Msg) bool {
	tick, ok := msg.(actionButtonTickMsg)
	if !ok || tick.id != b.ID {
		return false
	}
	if tick.gen == b.gen {
		b.loadingUntil = time.Time{}
	}
	return true
}

// Release drops any pending tick and clears the loading state.
func (b *ActionButton) Release() {
	b.gen++
	b.loadingUntil = time.Time{}
}

func (b *ActionButton) Loading() bool {
	return b.IndicateLoading && b.clock().Before(b.loadingUntil)
}
