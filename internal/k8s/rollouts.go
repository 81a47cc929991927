package k8s

import (
	"context"
	"sort"
	"strconv"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/types"

	"github.com/Taishi66/rollouts-tui/internal/domain"
	"github.com/Taishi66/rollouts-tui/internal/status"
)

// ListRollouts returns the rollouts of the active namespace without their
// replica sets. Use GetRollout for the full tree.
func (c *Client) ListRollouts(ctx context.Context) ([]domain.RolloutInfo, error) {
	list, err := c.dynamic.Resource(rolloutGVR).Namespace(c.namespace).List(ctx, metav1.ListOptions{
		Limit: 500,
	})
	if err != nil {
		return nil, classifyError(err, c.serverURL)
	}

	now := c.now()
	rollouts := make([]domain.RolloutInfo, 0, len(list.Items))
	for i := range list.Items {
		ro, err := rolloutFromUnstructured(&list.Items[i])
		if err != nil {
			c.log.Error(err, "skipping malformed rollout", "name", list.Items[i].GetName())
			continue
		}
		rollouts = append(rollouts, rolloutToInfo(ro, now))
	}
	return rollouts, nil
}

// GetRollout returns a rollout with its replica sets and their pods.
func (c *Client) GetRollout(ctx context.Context, name string) (*domain.RolloutInfo, error) {
	u, err := c.dynamic.Resource(rolloutGVR).Namespace(c.namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, classifyError(err, c.serverURL)
	}
	ro, err := rolloutFromUnstructured(u)
	if err != nil {
		return nil, classifyError(err, c.serverURL)
	}

	rsList, err := c.clientset.AppsV1().ReplicaSets(c.namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, classifyError(err, c.serverURL)
	}
	podList, err := c.clientset.CoreV1().Pods(c.namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, classifyError(err, c.serverURL)
	}

	now := c.now()
	info := rolloutToInfo(ro, now)
	info.ReplicaSets = c.replicaSetsFor(ro, rsList.Items, podList.Items, now)
	return &info, nil
}

func (c *Client) WatchRollouts(ctx context.Context) (<-chan domain.WatchEvent, error) {
	watcher, err := c.dynamic.Resource(rolloutGVR).Namespace(c.namespace).Watch(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, classifyError(err, c.serverURL)
	}
	ch := make(chan domain.WatchEvent)
	go func() {
		defer close(ch)
		defer watcher.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.ResultChan():
				if !ok {
					return
				}
				u, ok := event.Object.(*unstructured.Unstructured)
				if !ok {
					continue
				}
				ro, err := rolloutFromUnstructured(u)
				if err != nil {
					c.log.Error(err, "dropping malformed rollout event", "name", u.GetName())
					continue
				}
				info := rolloutToInfo(ro, c.now())
				wType := domain.WatchEventType(string(event.Type))
				select {
				case ch <- domain.WatchEvent{Type: wType, Resource: "rollout", Rollout: &info}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}

func rolloutToInfo(ro *rollout, now time.Time) domain.RolloutInfo {
	phase, msg := rolloutPhase(ro)
	steps := ro.steps()

	info := domain.RolloutInfo{
		Name:       ro.Name,
		Namespace:  ro.Namespace,
		UID:        string(ro.UID),
		Strategy:   ro.strategyName(),
		Status:     string(phase),
		Message:    msg,
		Step:       -1,
		TotalSteps: int32(len(steps)),
		Desired:    ro.desiredReplicas(),
		Current:    ro.Status.Replicas,
		Updated:    ro.Status.UpdatedReplicas,
		Ready:      ro.Status.ReadyReplicas,
		Available:  ro.Status.AvailableReplicas,
		Paused:     ro.Spec.Paused || len(ro.Status.PauseConditions) > 0 || ro.Status.ControllerPause,
		Aborted:    ro.Status.Abort,
		Age:        formatAge(now, ro.CreationTimestamp.Time),
		CreatedAt:  ro.CreationTimestamp.Time,
	}
	if len(steps) > 0 {
		idx := int32(0)
		if ro.Status.CurrentStepIndex != nil {
			idx = *ro.Status.CurrentStepIndex
		}
		info.Step = idx
		info.SetWeight = currentWeight(steps, idx)
	}
	for _, ctr := range ro.Spec.Template.Spec.Containers {
		info.Containers = append(info.Containers, ctr.Name)
		info.Images = append(info.Images, ctr.Image)
	}
	return info
}

// currentWeight is the last setWeight at or before step idx. Past the last
// step the canary carries all traffic.
func currentWeight(steps []canaryStep, idx int32) int32 {
	if int(idx) >= len(steps) {
		return 100
	}
	for i := idx; i >= 0; i-- {
		if steps[i].SetWeight != nil {
			return *steps[i].SetWeight
		}
	}
	return 0
}

// rolloutPhase prefers the phase reported by the controller and falls back
// to deriving it from spec and replica counters for older controllers.
func rolloutPhase(ro *rollout) (status.RolloutStatus, string) {
	if p := status.ParseRolloutStatus(ro.Status.Phase); p != status.RolloutUnknown {
		return p, ro.Status.Message
	}
	if ro.Status.Abort {
		return status.RolloutDegraded, "RolloutAborted"
	}
	if ro.Spec.Paused {
		return status.RolloutPaused, "manually paused"
	}
	if len(ro.Status.PauseConditions) > 0 {
		return status.RolloutPaused, ro.Status.PauseConditions[0].Reason
	}
	if og := ro.Status.ObservedGeneration; og != "" && og != strconv.FormatInt(ro.Generation, 10) {
		return status.RolloutProgressing, "waiting for rollout spec update to be observed"
	}
	desired := ro.desiredReplicas()
	switch {
	case ro.Status.UpdatedReplicas < desired:
		return status.RolloutProgressing, "more replicas need to be updated"
	case ro.Status.AvailableReplicas < ro.Status.UpdatedReplicas:
		return status.RolloutProgressing, "updated replicas are still becoming available"
	case ro.Status.Replicas > ro.Status.UpdatedReplicas:
		return status.RolloutProgressing, "old replicas are pending termination"
	}
	return status.RolloutHealthy, ""
}

// replicaSetsFor joins the replica sets owned by ro with their pods, newest revision first.
func (c *Client) replicaSetsFor(ro *rollout, rsItems []appsv1.ReplicaSet, podItems []corev1.Pod, now time.Time) []domain.ReplicaSetInfo {
	podsByOwner := make(map[types.UID][]corev1.Pod)
	for _, pod := range podItems {
		for _, ref := range pod.OwnerReferences {
			podsByOwner[ref.UID] = append(podsByOwner[ref.UID], pod)
		}
	}

	var out []domain.ReplicaSetInfo
	for i := range rsItems {
		rs := &rsItems[i]
		if !ownedBy(rs.OwnerReferences, ro.UID) {
			continue
		}
		out = append(out, c.replicaSetToInfo(ro, rs, podsByOwner[rs.UID], now))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Revision > out[j].Revision
	})
	return out
}

func (c *Client) replicaSetToInfo(ro *rollout, rs *appsv1.ReplicaSet, pods []corev1.Pod, now time.Time) domain.ReplicaSetInfo {
	revision, _ := strconv.Atoi(rs.Annotations[revisionAnnotation])
	hash := rs.Labels[podTemplateHashLabel]

	info := domain.ReplicaSetInfo{
		Name:      rs.Name,
		UID:       string(rs.UID),
		Revision:  revision,
		Replicas:  rs.Status.Replicas,
		Available: rs.Status.AvailableReplicas,
		Stable:    hash != "" && hash == ro.Status.StableRS,
		Age:       formatAge(now, rs.CreationTimestamp.Time),
		CreatedAt: rs.CreationTimestamp.Time,
	}
	if ro.Spec.Strategy.BlueGreen != nil {
		info.Active = hash != "" && hash == ro.Status.BlueGreen.ActiveSelector
		info.Preview = hash != "" && hash == ro.Status.BlueGreen.PreviewSelector
	} else {
		info.Canary = !info.Stable && hash != "" && hash == ro.Status.CurrentPodHash
	}
	for _, ctr := range rs.Spec.Template.Spec.Containers {
		info.Images = append(info.Images, ctr.Image)
	}

	sort.Slice(pods, func(i, j int) bool { return pods[i].Name < pods[j].Name })
	raw := make([]string, 0, len(pods))
	for _, pod := range pods {
		pi := podToPodInfo(pod, now)
		info.Pods = append(info.Pods, pi)
		raw = append(raw, pi.Status)
	}

	rsStatus, err := status.ComputeReplicaSetStatus(rs, raw)
	if err != nil {
		c.log.Error(err, "computing replica set status", "replicaset", rs.Name)
	}
	info.Status = string(rsStatus)
	return info
}

func ownedBy(refs []metav1.OwnerReference, uid types.UID) bool {
	for _, ref := range refs {
		if ref.UID == uid {
			return true
		}
	}
	return false
}
