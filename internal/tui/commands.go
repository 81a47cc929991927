package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Taishi66/rollouts-tui/internal/domain"
)

const (
	logTailLines          = 200
	detailRefreshInterval = 2 * time.Second
)

// --- Messages ---

type namespacesLoadedMsg struct{ items []domain.NamespaceInfo }
type rolloutsLoadedMsg struct {
	namespace string
	items     []domain.RolloutInfo
}
type rolloutLoadedMsg struct{ rollout *domain.RolloutInfo }
type eventsLoadedMsg struct {
	rollout string
	items   []domain.EventInfo
}
type logsLoadedMsg struct{ content string }
type yamlLoadedMsg struct{ content string }
type versionLoadedMsg struct{ version string }
type actionDoneMsg struct {
	rollout string
	message string
}

// apiErrMsg carries a failed API call. recorded is set when the error was
// already counted by the action metrics.
type apiErrMsg struct {
	err      error
	recorded bool
}
type watchEventMsg struct{ event domain.WatchEvent }
type watchStoppedMsg struct{}
type detailTickMsg struct{ gen int }
type confirmedActionMsg struct{ id string }

// --- Data loading ---

func (m Model) loadCurrentView() tea.Cmd {
	switch m.view {
	case ViewNamespaces:
		return m.loadNamespaces()
	case ViewRollouts:
		return m.loadRollouts()
	case ViewRollout:
		return m.loadRollout(m.detail.name)
	case ViewEvents:
		return m.loadEvents(m.eventsFor)
	}
	return nil
}

func (m Model) loadNamespaces() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		items, err := client.ListNamespaces(context.Background())
		if err != nil {
			return apiErrMsg{err: err}
		}
		return namespacesLoadedMsg{items}
	}
}

func (m Model) loadRollouts() tea.Cmd {
	client := m.client
	ns := client.GetNamespace()
	return func() tea.Msg {
		items, err := client.ListRollouts(context.Background())
		if err != nil {
			return apiErrMsg{err: err}
		}
		return rolloutsLoadedMsg{namespace: ns, items: items}
	}
}

func (m Model) loadRollout(name string) tea.Cmd {
	if name == "" {
		return nil
	}
	client := m.client
	return func() tea.Msg {
		ro, err := client.GetRollout(context.Background(), name)
		if err != nil {
			return apiErrMsg{err: err}
		}
		return rolloutLoadedMsg{ro}
	}
}

func (m Model) loadEvents(rollout string) tea.Cmd {
	if rollout == "" {
		return nil
	}
	client := m.client
	return func() tea.Msg {
		items, err := client.ListEvents(context.Background(), rollout)
		if err != nil {
			return apiErrMsg{err: err}
		}
		return eventsLoadedMsg{rollout: rollout, items: items}
	}
}

func (m Model) loadLogs(pod, container string, previous bool) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		content, err := client.GetPodLogs(context.Background(), pod, container, logTailLines, previous)
		if err != nil {
			return apiErrMsg{err: err}
		}
		return logsLoadedMsg{content}
	}
}

func (m Model) loadYAML(rollout string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		content, err := client.GetRolloutYAML(context.Background(), rollout)
		if err != nil {
			return apiErrMsg{err: err}
		}
		return yamlLoadedMsg{content}
	}
}

func (m Model) loadVersion() tea.Cmd {
	client := m.client
	log := m.log
	return func() tea.Msg {
		v, err := client.ServerVersion(context.Background())
		if err != nil {
			log.V(1).Info("server version unavailable", "error", err.Error())
			return nil
		}
		return versionLoadedMsg{v}
	}
}

func scheduleDetailRefresh(gen int) tea.Cmd {
	return tea.Tick(detailRefreshInterval, func(time.Time) tea.Msg {
		return detailTickMsg{gen: gen}
	})
}

// --- Actions ---

// actionEffect wraps call into the command run by an action button. The
// outcome is logged and counted before it reaches the model.
func (m Model) actionEffect(id, rollout string, call func(ctx context.Context) error, done string) tea.Cmd {
	log := m.log.WithValues("action", id, "rollout", rollout, "namespace", m.client.GetNamespace())
	rec := m.metrics
	return func() tea.Msg {
		err := call(context.Background())
		rec.RecordAction(id, err)
		if err != nil {
			log.Error(err, "rollout action failed")
			return apiErrMsg{err: err, recorded: true}
		}
		log.Info("rollout action applied")
		return actionDoneMsg{rollout: rollout, message: done}
	}
}

// simpleAction is the effect of the argument-less buttons.
func (m Model) simpleAction(id, rollout string) tea.Cmd {
	client := m.client
	var call func(ctx context.Context) error
	var done string
	switch id {
	case btnRestart:
		call = func(ctx context.Context) error { return client.RestartRollout(ctx, rollout) }
		done = fmt.Sprintf("Rollout '%s' redémarré", rollout)
	case btnRetry:
		call = func(ctx context.Context) error { return client.RetryRollout(ctx, rollout) }
		done = fmt.Sprintf("Rollout '%s' relancé", rollout)
	case btnAbort:
		call = func(ctx context.Context) error { return client.AbortRollout(ctx, rollout) }
		done = fmt.Sprintf("Rollout '%s' annulé", rollout)
	case btnPromote:
		call = func(ctx context.Context) error { return client.PromoteRollout(ctx, rollout) }
		done = fmt.Sprintf("Rollout '%s' promu", rollout)
	case btnPromoteFull:
		call = func(ctx context.Context) error { return client.PromoteFullRollout(ctx, rollout) }
		done = fmt.Sprintf("Rollout '%s' promu entièrement", rollout)
	default:
		return nil
	}
	return m.actionEffect(id, rollout, call, done)
}

func (m Model) setImageAction(rollout, container, image string) tea.Cmd {
	client := m.client
	return m.actionEffect(btnSetImage, rollout, func(ctx context.Context) error {
		return client.SetRolloutImage(ctx, rollout, container, image)
	}, fmt.Sprintf("Image de %s/%s : %s", rollout, container, image))
}

func (m Model) undoAction(rollout string, revision int) tea.Cmd {
	client := m.client
	done := fmt.Sprintf("Rollout '%s' ramené à la révision précédente", rollout)
	if revision > 0 {
		done = fmt.Sprintf("Rollout '%s' ramené à la révision %d", rollout, revision)
	}
	return m.actionEffect(btnUndo, rollout, func(ctx context.Context) error {
		return client.UndoRollout(ctx, rollout, revision)
	}, done)
}

// --- Watch lifecycle ---

func (m *Model) stopWatch() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watching = false
	m.watchCh = nil
}

// startWatch follows rollout changes while the rollout list is shown.
func (m *Model) startWatch() tea.Cmd {
	m.stopWatch()

	if m.client == nil || m.view != ViewRollouts {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := m.client.WatchRollouts(ctx)
	if err != nil || ch == nil {
		cancel()
		if err != nil {
			m.log.V(1).Info("rollout watch unavailable", "error", err.Error())
		}
		return nil
	}

	m.watchCancel = cancel
	m.watching = true
	m.watchCh = ch
	return listenWatch(ch)
}

func listenWatch(ch <-chan domain.WatchEvent) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return watchStoppedMsg{}
		}
		return watchEventMsg{event: evt}
	}
}

func (m *Model) mergeRolloutEvent(evt domain.WatchEvent) {
	if evt.Rollout == nil {
		return
	}
	switch evt.Type {
	case domain.EventAdded, domain.EventModified:
		for i, r := range m.rollouts {
			if r.Name == evt.Rollout.Name {
				m.rollouts[i] = *evt.Rollout
				return
			}
		}
		m.rollouts = append(m.rollouts, *evt.Rollout)
	case domain.EventDeleted:
		for i, r := range m.rollouts {
			if r.Name == evt.Rollout.Name {
				m.rollouts = append(m.rollouts[:i:i], m.rollouts[i+1:]...)
				if m.cursor > 0 && m.cursor >= len(m.rollouts) {
					m.cursor--
				}
				return
			}
		}
	}
}
