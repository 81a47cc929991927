package status

import (
	appsv1 "k8s.io/api/apps/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	kstatus "sigs.k8s.io/cli-utils/pkg/kstatus/status"
)

// ReplicaSetStatus is the aggregate status of a ReplicaSet owned by a rollout.
type ReplicaSetStatus string

const (
	ReplicaSetHealthy     ReplicaSetStatus = "Healthy"
	ReplicaSetProgressing ReplicaSetStatus = "Progressing"
	ReplicaSetDegraded    ReplicaSetStatus = "Degraded"
	ReplicaSetScaledDown  ReplicaSetStatus = "ScaledDown"
)

// ComputeReplicaSetStatus derives the status of rs from its kstatus result and
// the raw statuses of its pods. A ReplicaSet scaled to zero is ScaledDown
// whatever its pods report; any pod classified PodFailed makes it Degraded.
func ComputeReplicaSetStatus(rs *appsv1.ReplicaSet, podStatuses []string) (ReplicaSetStatus, error) {
	desired := int32(1)
	if rs.Spec.Replicas != nil {
		desired = *rs.Spec.Replicas
	}
	if desired == 0 {
		return ReplicaSetScaledDown, nil
	}

	for _, raw := range podStatuses {
		if ParsePodStatus(raw) == PodFailed {
			return ReplicaSetDegraded, nil
		}
	}

	content, err := runtime.DefaultUnstructuredConverter.ToUnstructured(rs)
	if err != nil {
		return ReplicaSetProgressing, err
	}
	u := &unstructured.Unstructured{Object: content}
	u.SetGroupVersionKind(appsv1.SchemeGroupVersion.WithKind("ReplicaSet"))

	res, err := kstatus.Compute(u)
	if err != nil {
		return ReplicaSetProgressing, err
	}

	switch res.Status {
	case kstatus.CurrentStatus:
		return ReplicaSetHealthy, nil
	case kstatus.FailedStatus:
		return ReplicaSetDegraded, nil
	default:
		return ReplicaSetProgressing, nil
	}
}

// ReplicaSetIcon returns the icon for a ReplicaSet status.
func ReplicaSetIcon(s ReplicaSetStatus) Icon {
	switch s {
	case ReplicaSetHealthy:
		return Icon{Symbol: SymbolCheck}
	case ReplicaSetProgressing:
		return Icon{Symbol: SymbolSpinner, Spin: true}
	case ReplicaSetDegraded:
		return Icon{Symbol: SymbolCross}
	case ReplicaSetScaledDown:
		return Icon{Symbol: SymbolArrowDown}
	default:
		return Icon{Symbol: SymbolQuestion}
	}
}
