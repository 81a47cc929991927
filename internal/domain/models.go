package domain

import (
	"fmt"
	"time"
)

// RolloutInfo represents an Argo Rollout for display in the TUI.
type RolloutInfo struct {
	Name      string
	Namespace string
	UID       string
	Strategy  string // "Canary" or "BlueGreen"
	Status    string // Healthy, Progressing, Paused, Degraded
	Message   string

	Step       int32 // current step index, -1 when the strategy has no steps
	TotalSteps int32
	SetWeight  int32

	Desired   int32
	Current   int32
	Updated   int32
	Ready     int32
	Available int32

	Paused  bool
	Aborted bool

	Images      []string
	Containers  []string
	Age         string
	CreatedAt   time.Time
	ReplicaSets []ReplicaSetInfo
}

// ReadyString returns the "ready/desired" pair shown in list views.
func (r RolloutInfo) ReadyString() string {
	return fmt.Sprintf("%d/%d", r.Ready, r.Desired)
}

// ReplicaSetInfo represents a ReplicaSet owned by a Rollout.
type ReplicaSetInfo struct {
	Name      string
	UID       string
	Revision  int
	Status    string // Healthy, Progressing, Degraded, ScaledDown
	Images    []string
	Replicas  int32
	Available int32
	Stable    bool
	Canary    bool
	Active    bool
	Preview   bool
	Age       string
	CreatedAt time.Time
	Pods      []PodInfo
}

// PodInfo represents a pod of a ReplicaSet. Status is the raw
// kubectl-style status string ("Running", "Init:1/2", "ExitCode:137"...).
type PodInfo struct {
	Name       string
	Namespace  string
	UID        string
	Status     string
	Ready      string
	Restarts   int32
	Age        string
	Node       string
	Containers []ContainerInfo
	CreatedAt  time.Time
}

// ContainerInfo represents a container within a pod.
type ContainerInfo struct {
	Name  string
	Ready bool
	State string
}

// NamespaceInfo represents a Kubernetes namespace for display in the TUI.
type NamespaceInfo struct {
	Name   string
	Status string
	Age    string
}

// EventInfo represents a Kubernetes event attached to a rollout or one of its children.
type EventInfo struct {
	Type      string
	Reason    string
	Message   string
	Object    string
	Namespace string
	Age       string
	Count     int32
	CreatedAt time.Time
}

// WatchEventType mirrors the watch.EventType values we care about.
type WatchEventType string

const (
	EventAdded    WatchEventType = "ADDED"
	EventModified WatchEventType = "MODIFIED"
	EventDeleted  WatchEventType = "DELETED"
)

// WatchEvent carries a single change observed on a watched resource.
type WatchEvent struct {
	Type     WatchEventType
	Resource string // "rollout", "event"
	Rollout  *RolloutInfo
	Event    *EventInfo
}
