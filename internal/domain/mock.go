package domain

import (
	"context"
	"fmt"
)

// MockGateway implements RolloutGateway for testing.
type MockGateway struct {
	ContextVal   string
	ServerURLVal string
	NamespaceVal string
	VersionVal   string

	Rollouts   []RolloutInfo
	Namespaces []NamespaceInfo
	Events     []EventInfo
	LogContent string
	YAMLVal    string

	// Watch channels
	WatchRolloutsCh <-chan WatchEvent

	// Error injection
	ListRolloutsErr   error
	GetRolloutErr     error
	WatchRolloutsErr  error
	ListNamespacesErr error
	ListEventsErr     error
	GetPodLogsErr     error
	GetYAMLErr        error
	ActionErr         error
	ReconnectErr      error

	// Call tracking
	ListRolloutsCalls   int
	ListNamespacesCalls int
	ListEventsCalls     int
	ReconnectCalls      int
	Actions             []string // "promote web", "set-image web app=nginx:1.27"...
}

// Compile-time check.
var _ RolloutGateway = (*MockGateway)(nil)

func (m *MockGateway) GetContext() string     { return m.ContextVal }
func (m *MockGateway) GetServerURL() string   { return m.ServerURLVal }
func (m *MockGateway) GetNamespace() string   { return m.NamespaceVal }
func (m *MockGateway) SetNamespace(ns string) { m.NamespaceVal = ns }

func (m *MockGateway) Reconnect() error {
	m.ReconnectCalls++
	return m.ReconnectErr
}

func (m *MockGateway) ServerVersion(_ context.Context) (string, error) {
	return m.VersionVal, nil
}

func (m *MockGateway) ListRollouts(_ context.Context) ([]RolloutInfo, error) {
	m.ListRolloutsCalls++
	if m.ListRolloutsErr != nil {
		return nil, m.ListRolloutsErr
	}
	return m.Rollouts, nil
}

func (m *MockGateway) GetRollout(_ context.Context, name string) (*RolloutInfo, error) {
	if m.GetRolloutErr != nil {
		return nil, m.GetRolloutErr
	}
	for i := range m.Rollouts {
		if m.Rollouts[i].Name == name {
			ro := m.Rollouts[i]
			return &ro, nil
		}
	}
	return nil, &APIError{Type: ErrNotFound, Message: fmt.Sprintf("rollout %q introuvable", name)}
}

func (m *MockGateway) WatchRollouts(_ context.Context) (<-chan WatchEvent, error) {
	if m.WatchRolloutsErr != nil {
		return nil, m.WatchRolloutsErr
	}
	return m.WatchRolloutsCh, nil
}

func (m *MockGateway) GetRolloutYAML(_ context.Context, _ string) (string, error) {
	if m.GetYAMLErr != nil {
		return "", m.GetYAMLErr
	}
	return m.YAMLVal, nil
}

func (m *MockGateway) GetPodLogs(_ context.Context, _, _ string, _ int64, _ bool) (string, error) {
	if m.GetPodLogsErr != nil {
		return "", m.GetPodLogsErr
	}
	return m.LogContent, nil
}

func (m *MockGateway) ListNamespaces(_ context.Context) ([]NamespaceInfo, error) {
	m.ListNamespacesCalls++
	if m.ListNamespacesErr != nil {
		return nil, m.ListNamespacesErr
	}
	return m.Namespaces, nil
}

func (m *MockGateway) ListEvents(_ context.Context, _ string) ([]EventInfo, error) {
	m.ListEventsCalls++
	if m.ListEventsErr != nil {
		return nil, m.ListEventsErr
	}
	return m.Events, nil
}

func (m *MockGateway) record(action string) error {
	m.Actions = append(m.Actions, action)
	return m.ActionErr
}

func (m *MockGateway) AbortRollout(_ context.Context, name string) error {
	return m.record("abort " + name)
}

func (m *MockGateway) PromoteRollout(_ context.Context, name string) error {
	return m.record("promote " + name)
}

func (m *MockGateway) PromoteFullRollout(_ context.Context, name string) error {
	return m.record("promote-full " + name)
}

func (m *MockGateway) RetryRollout(_ context.Context, name string) error {
	return m.record("retry " + name)
}

func (m *MockGateway) RestartRollout(_ context.Context, name string) error {
	return m.record("restart " + name)
}

func (m *MockGateway) SetRolloutImage(_ context.Context, name, container, image string) error {
	return m.record(fmt.Sprintf("set-image %s %s=%s", name, container, image))
}

func (m *MockGateway) UndoRollout(_ context.Context, name string, revision int) error {
	return m.record(fmt.Sprintf("undo %s %d", name, revision))
}
