package k8s

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/util/intstr"
)

var rolloutGVR = schema.GroupVersionResource{
	Group:    "argoproj.io",
	Version:  "v1alpha1",
	Resource: "rollouts",
}

const (
	revisionAnnotation   = "rollout.argoproj.io/revision"
	podTemplateHashLabel = "rollouts-pod-template-hash"
)

// rollout is the subset of the argoproj.io/v1alpha1 Rollout the TUI reads.
// Fields we do not model are dropped by the unstructured converter.
type rollout struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   rolloutSpec   `json:"spec,omitempty"`
	Status rolloutStatus `json:"status,omitempty"`
}

type rolloutSpec struct {
	Replicas  *int32                 `json:"replicas,omitempty"`
	Paused    bool                   `json:"paused,omitempty"`
	RestartAt *metav1.Time           `json:"restartAt,omitempty"`
	Template  corev1.PodTemplateSpec `json:"template"`
	Strategy  rolloutStrategy        `json:"strategy"`
}

type rolloutStrategy struct {
	Canary    *canaryStrategy    `json:"canary,omitempty"`
	BlueGreen *blueGreenStrategy `json:"blueGreen,omitempty"`
}

type canaryStrategy struct {
	Steps []canaryStep `json:"steps,omitempty"`
}

type canaryStep struct {
	SetWeight *int32        `json:"setWeight,omitempty"`
	Pause     *rolloutPause `json:"pause,omitempty"`
}

type rolloutPause struct {
	Duration *intstr.IntOrString `json:"duration,omitempty"`
}

type blueGreenStrategy struct {
	ActiveService  string `json:"activeService"`
	PreviewService string `json:"previewService,omitempty"`
}

type rolloutStatus struct {
	Phase   string `json:"phase,omitempty"`
	Message string `json:"message,omitempty"`

	Abort           bool             `json:"abort,omitempty"`
	PauseConditions []pauseCondition `json:"pauseConditions,omitempty"`
	ControllerPause bool             `json:"controllerPause,omitempty"`

	CurrentStepIndex   *int32 `json:"currentStepIndex,omitempty"`
	ObservedGeneration string `json:"observedGeneration,omitempty"`

	Replicas          int32 `json:"replicas,omitempty"`
	UpdatedReplicas   int32 `json:"updatedReplicas,omitempty"`
	ReadyReplicas     int32 `json:"readyReplicas,omitempty"`
	AvailableReplicas int32 `json:"availableReplicas,omitempty"`

	CurrentPodHash string          `json:"currentPodHash,omitempty"`
	StableRS       string          `json:"stableRS,omitempty"`
	BlueGreen      blueGreenStatus `json:"blueGreen,omitempty"`
}

type pauseCondition struct {
	Reason    string       `json:"reason"`
	StartTime *metav1.Time `json:"startTime,omitempty"`
}

type blueGreenStatus struct {
	ActiveSelector  string `json:"activeSelector,omitempty"`
	PreviewSelector string `json:"previewSelector,omitempty"`
}

func rolloutFromUnstructured(u *unstructured.Unstructured) (*rollout, error) {
	ro := &rollout{}
	if err := runtime.DefaultUnstructuredConverter.FromUnstructured(u.Object, ro); err != nil {
		return nil, err
	}
	return ro, nil
}

func (r *rollout) desiredReplicas() int32 {
	if r.Spec.Replicas == nil {
		return 1
	}
	return *r.Spec.Replicas
}

func (r *rollout) strategyName() string {
	if r.Spec.Strategy.BlueGreen != nil {
		return "BlueGreen"
	}
	return "Canary"
}

func (r *rollout) steps() []canaryStep {
	if r.Spec.Strategy.Canary == nil {
		return nil
	}
	return r.Spec.Strategy.Canary.Steps
}
