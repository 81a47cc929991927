package tui

import (
	"testing"

	"github.com/Taishi66/rollouts-tui/internal/domain"
)

func rolloutEvent(t domain.WatchEventType, name, status string) domain.WatchEvent {
	return domain.WatchEvent{Type: t, Resource: "rollout", Rollout: &domain.RolloutInfo{Name: name, Status: status}}
}

func TestMergeRolloutEvent(t *testing.T) {
	m := newTestModel()
	m.rollouts = testRollouts()

	m.mergeRolloutEvent(rolloutEvent(domain.EventModified, "web", "Progressing"))
	if m.rollouts[0].Status != "Progressing" {
		t.Errorf("modified status = %q", m.rollouts[0].Status)
	}

	m.mergeRolloutEvent(rolloutEvent(domain.EventAdded, "cart", "Healthy"))
	if len(m.rollouts) != 3 || m.rollouts[2].Name != "cart" {
		t.Fatalf("rollouts after add = %v", names(m.rollouts))
	}

	// ADDED for a known rollout (watch restart) replaces it.
	m.mergeRolloutEvent(rolloutEvent(domain.EventAdded, "cart", "Degraded"))
	if len(m.rollouts) != 3 || m.rollouts[2].Status != "Degraded" {
		t.Errorf("re-added rollout duplicated: %v", names(m.rollouts))
	}

	m.cursor = 2
	m.mergeRolloutEvent(rolloutEvent(domain.EventDeleted, "cart", ""))
	if len(m.rollouts) != 2 {
		t.Fatalf("rollouts after delete = %v", names(m.rollouts))
	}
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1 after deleting the last row", m.cursor)
	}

	m.mergeRolloutEvent(domain.WatchEvent{Type: domain.EventModified, Resource: "rollout"})
	if len(m.rollouts) != 2 {
		t.Error("event without payload should be ignored")
	}
}

func TestWatchEventRelistens(t *testing.T) {
	ch := make(chan domain.WatchEvent, 1)
	m := newTestModel()
	mockOf(m).WatchRolloutsCh = ch

	cmd := m.startWatch()
	if cmd == nil || !m.watching {
		t.Fatal("startWatch should listen on the rollout watch")
	}

	ch <- rolloutEvent(domain.EventAdded, "cart", "Healthy")
	msg := cmd()
	updated, next := m.Update(msg)
	um := updated.(Model)
	if len(um.rollouts) != 1 || um.rollouts[0].Name != "cart" {
		t.Errorf("rollouts = %v", names(um.rollouts))
	}
	if next == nil {
		t.Error("model should keep listening after an event")
	}

	close(ch)
	if _, ok := next().(watchStoppedMsg); !ok {
		t.Error("closed channel should report watchStoppedMsg")
	}
	um.stopWatch()
	if um.watching || um.watchCancel != nil {
		t.Error("stopWatch should reset the watch state")
	}
}

func TestStartWatchOnlyOnRolloutList(t *testing.T) {
	m := withDetail(t, newTestModel(), "web")
	mockOf(m).WatchRolloutsCh = make(chan domain.WatchEvent)
	if cmd := m.startWatch(); cmd != nil || m.watching {
		t.Error("detail view should not watch the rollout list")
	}
}
