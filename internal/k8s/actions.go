package k8s

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
)

// AllContainers selects every container of the pod template in SetRolloutImage.
const AllContainers = "*"

func (c *Client) AbortRollout(ctx context.Context, name string) error {
	return c.patchRolloutStatus(ctx, name, "abort", map[string]any{"abort": true})
}

func (c *Client) RetryRollout(ctx context.Context, name string) error {
	return c.patchRolloutStatus(ctx, name, "retry", map[string]any{"abort": false})
}

func (c *Client) PromoteFullRollout(ctx context.Context, name string) error {
	return c.patchRolloutStatus(ctx, name, "promote-full", map[string]any{"promoteFull": true})
}

// PromoteRollout resumes a paused rollout. When nothing is paused a canary
// rollout skips its current step instead.
func (c *Client) PromoteRollout(ctx context.Context, name string) error {
	u, err := c.dynamic.Resource(rolloutGVR).Namespace(c.namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return classifyError(err, c.serverURL)
	}
	ro, err := rolloutFromUnstructured(u)
	if err != nil {
		return classifyError(err, c.serverURL)
	}

	unpaused := false
	if ro.Spec.Paused {
		if err := c.patchRollout(ctx, name, "promote", map[string]any{
			"spec": map[string]any{"paused": false},
		}); err != nil {
			return err
		}
		unpaused = true
	}
	if len(ro.Status.PauseConditions) > 0 || ro.Status.ControllerPause {
		return c.patchRolloutStatus(ctx, name, "promote", map[string]any{
			"pauseConditions": nil,
			"controllerPause": false,
		})
	}
	if unpaused {
		return nil
	}

	steps := ro.steps()
	idx := int32(0)
	if ro.Status.CurrentStepIndex != nil {
		idx = *ro.Status.CurrentStepIndex
	}
	if len(steps) == 0 || int(idx) >= len(steps) {
		return invalidInput("Rien à promouvoir : %s n'est pas en pause", name)
	}
	return c.patchRolloutStatus(ctx, name, "promote", map[string]any{"currentStepIndex": idx + 1})
}

// RestartRollout asks the controller to recreate every pod older than now.
func (c *Client) RestartRollout(ctx context.Context, name string) error {
	restartAt := c.now().UTC().Truncate(time.Second).Format(time.RFC3339)
	return c.patchRollout(ctx, name, "restart", map[string]any{
		"spec": map[string]any{"restartAt": restartAt},
	})
}

// SetRolloutImage updates the image of one container, or of all of them
// when container is AllContainers.
func (c *Client) SetRolloutImage(ctx context.Context, name, container, image string) error {
	image = strings.TrimSpace(image)
	if image == "" {
		return invalidInput("Image vide")
	}
	if container == "" {
		return invalidInput("Conteneur vide")
	}

	res := c.dynamic.Resource(rolloutGVR).Namespace(c.namespace)
	u, err := res.Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return classifyError(err, c.serverURL)
	}

	updated := false
	for _, field := range []string{"initContainers", "containers"} {
		path := []string{"spec", "template", "spec", field}
		ctrs, found, err := unstructured.NestedSlice(u.Object, path...)
		if err != nil || !found {
			continue
		}
		for i, raw := range ctrs {
			ctr, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			if container == AllContainers || ctr["name"] == container {
				ctr["image"] = image
				ctrs[i] = ctr
				updated = true
			}
		}
		if err := unstructured.SetNestedSlice(u.Object, ctrs, path...); err != nil {
			return classifyError(err, c.serverURL)
		}
	}
	if !updated {
		return invalidInput("Conteneur %q introuvable dans %s", container, name)
	}

	c.log.Info("updating rollout", "action", "set-image", "namespace", c.namespace, "rollout", name, "container", container, "image", image)
	_, err = res.Update(ctx, u, metav1.UpdateOptions{})
	return classifyError(err, c.serverURL)
}

// UndoRollout rolls the pod template back to the given revision. Revision 0
// selects the revision just before the current one.
func (c *Client) UndoRollout(ctx context.Context, name string, revision int) error {
	if revision < 0 {
		return invalidInput("Révision invalide : %d", revision)
	}

	res := c.dynamic.Resource(rolloutGVR).Namespace(c.namespace)
	u, err := res.Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return classifyError(err, c.serverURL)
	}
	ro, err := rolloutFromUnstructured(u)
	if err != nil {
		return classifyError(err, c.serverURL)
	}

	rsList, err := c.clientset.AppsV1().ReplicaSets(c.namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return classifyError(err, c.serverURL)
	}

	type candidate struct {
		revision int
		index    int
	}
	var owned []candidate
	current := 0
	for i, rs := range rsList.Items {
		if !ownedBy(rs.OwnerReferences, ro.UID) {
			continue
		}
		rev, err := strconv.Atoi(rs.Annotations[revisionAnnotation])
		if err != nil {
			continue
		}
		owned = append(owned, candidate{revision: rev, index: i})
		if rs.Labels[podTemplateHashLabel] == ro.Status.CurrentPodHash && rev > current {
			current = rev
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].revision > owned[j].revision })
	if current == 0 && len(owned) > 0 {
		current = owned[0].revision
	}

	target := -1
	for _, cand := range owned {
		if (revision == 0 && cand.revision < current) || (revision != 0 && cand.revision == revision) {
			target = cand.index
			break
		}
	}
	if target < 0 {
		if revision == 0 {
			return invalidInput("Aucune révision précédente pour %s", name)
		}
		return invalidInput("Révision %d introuvable pour %s", revision, name)
	}

	tmpl := rsList.Items[target].Spec.Template.DeepCopy()
	delete(tmpl.Labels, podTemplateHashLabel)
	obj, err := runtime.DefaultUnstructuredConverter.ToUnstructured(tmpl)
	if err != nil {
		return classifyError(err, c.serverURL)
	}
	if err := unstructured.SetNestedMap(u.Object, obj, "spec", "template"); err != nil {
		return classifyError(err, c.serverURL)
	}

	c.log.Info("updating rollout", "action", "undo", "namespace", c.namespace, "rollout", name, "revision", rsList.Items[target].Annotations[revisionAnnotation])
	_, err = res.Update(ctx, u, metav1.UpdateOptions{})
	return classifyError(err, c.serverURL)
}

func (c *Client) patchRolloutStatus(ctx context.Context, name, action string, fields map[string]any) error {
	return c.patch(ctx, name, action, map[string]any{"status": fields}, "status")
}

func (c *Client) patchRollout(ctx context.Context, name, action string, patch map[string]any) error {
	return c.patch(ctx, name, action, patch)
}

func (c *Client) patch(ctx context.Context, name, action string, patch map[string]any, subresources ...string) error {
	data, err := json.Marshal(patch)
	if err != nil {
		return classifyError(err, c.serverURL)
	}
	c.log.Info("patching rollout", "action", action, "namespace", c.namespace, "rollout", name, "patch", string(data))
	_, err = c.dynamic.Resource(rolloutGVR).Namespace(c.namespace).Patch(ctx, name, types.MergePatchType, data, metav1.PatchOptions{}, subresources...)
	return classifyError(err, c.serverURL)
}
