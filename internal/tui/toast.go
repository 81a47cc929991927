package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const toastDuration = 5 * time.Second

type toastLevel int

const (
	toastInfo toastLevel = iota
	toastSuccess
	toastError
)

type toast struct {
	message string
	level   toastLevel
	sticky  bool // kept until replaced (lost session, unreachable cluster)
	expires time.Time
}

type toastExpiredMsg struct{ message string }

func (t toast) isActive() bool {
	return t.message != "" && (t.sticky || time.Now().Before(t.expires))
}

func (t toast) render() string {
	if !t.isActive() {
		return ""
	}
	switch t.level {
	case toastSuccess:
		return toastSuccessStyle.Render(t.message)
	case toastError:
		return toastErrorStyle.Render(t.message)
	default:
		return t.message
	}
}

func newToast(msg string, level toastLevel) toast {
	return toast{
		message: msg,
		level:   level,
		expires: time.Now().Add(toastDuration),
	}
}

func newStickyToast(msg string) toast {
	return toast{message: msg, level: toastError, sticky: true}
}

// scheduleToastClear expires t after toastDuration unless a newer toast replaced it.
func scheduleToastClear(t toast) tea.Cmd {
	msg := t.message
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{message: msg}
	})
}
