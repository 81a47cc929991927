package domain

import "context"

// ClusterInfo provides metadata about the current cluster connection.
type ClusterInfo interface {
	GetContext() string
	GetServerURL() string
	GetNamespace() string
	SetNamespace(ns string)
	Reconnect() error
	ServerVersion(ctx context.Context) (string, error)
}

// RolloutRepository provides read access to rollouts and their replica sets.
type RolloutRepository interface {
	ListRollouts(ctx context.Context) ([]RolloutInfo, error)
	GetRollout(ctx context.Context, name string) (*RolloutInfo, error)
	WatchRollouts(ctx context.Context) (<-chan WatchEvent, error)
	GetRolloutYAML(ctx context.Context, name string) (string, error)
}

// RolloutActions dispatches the rollout commands. Every action is identified
// by the active namespace and the rollout name.
type RolloutActions interface {
	AbortRollout(ctx context.Context, name string) error
	PromoteRollout(ctx context.Context, name string) error
	PromoteFullRollout(ctx context.Context, name string) error
	RetryRollout(ctx context.Context, name string) error
	RestartRollout(ctx context.Context, name string) error
	SetRolloutImage(ctx context.Context, name, container, image string) error
	UndoRollout(ctx context.Context, name string, revision int) error
}

// PodRepository provides access to pod logs.
type PodRepository interface {
	GetPodLogs(ctx context.Context, podName, containerName string, tailLines int64, previous bool) (string, error)
}

// NamespaceRepository provides access to namespace operations.
type NamespaceRepository interface {
	ListNamespaces(ctx context.Context) ([]NamespaceInfo, error)
}

// EventRepository provides access to the events of a rollout and its children.
type EventRepository interface {
	ListEvents(ctx context.Context, rolloutName string) ([]EventInfo, error)
}

// RolloutGateway is the primary port combining all cluster operations.
// The TUI depends on this interface, not on concrete implementations.
type RolloutGateway interface {
	ClusterInfo
	RolloutRepository
	RolloutActions
	PodRepository
	NamespaceRepository
	EventRepository
}
