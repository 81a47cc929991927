package k8s

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	k8stesting "k8s.io/client-go/testing"

	"github.com/Taishi66/rollouts-tui/internal/domain"
)

type recordedPatch struct {
	subresource string
	body        string
}

func patches(dyn *dynamicfake.FakeDynamicClient) []recordedPatch {
	var out []recordedPatch
	for _, a := range dyn.Actions() {
		if p, ok := a.(k8stesting.PatchAction); ok {
			out = append(out, recordedPatch{subresource: p.GetSubresource(), body: string(p.GetPatch())})
		}
	}
	return out
}

func requireInvalid(t *testing.T, err error) {
	t.Helper()
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, domain.ErrInvalid, apiErr.Type)
}

func TestStatusActions(t *testing.T) {
	tests := []struct {
		name string
		run  func(*Client) error
		want string
	}{
		{"abort", func(c *Client) error { return c.AbortRollout(context.Background(), "web") }, `{"status":{"abort":true}}`},
		{"retry", func(c *Client) error { return c.RetryRollout(context.Background(), "web") }, `{"status":{"abort":false}}`},
		{"promote full", func(c *Client) error { return c.PromoteFullRollout(context.Background(), "web") }, `{"status":{"promoteFull":true}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, dyn := newTestClient("shop", nil, toUnstructured(t, canaryRollout("web")))
			require.NoError(t, tt.run(c))
			assert.Equal(t, []recordedPatch{{subresource: "status", body: tt.want}}, patches(dyn))
		})
	}
}

func TestAction_RolloutNotFound(t *testing.T) {
	c, _ := newTestClient("shop", nil)
	err := c.AbortRollout(context.Background(), "ghost")

	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, domain.ErrNotFound, apiErr.Type)
}

func TestPromoteRollout_ClearsPauses(t *testing.T) {
	ro := canaryRollout("web")
	ro.Spec.Paused = true
	c, dyn := newTestClient("shop", nil, toUnstructured(t, ro))

	require.NoError(t, c.PromoteRollout(context.Background(), "web"))
	assert.Equal(t, []recordedPatch{
		{subresource: "", body: `{"spec":{"paused":false}}`},
		{subresource: "status", body: `{"status":{"controllerPause":false,"pauseConditions":null}}`},
	}, patches(dyn))
}

func TestPromoteRollout_SpecPauseOnly(t *testing.T) {
	ro := canaryRollout("web")
	ro.Spec.Paused = true
	ro.Status.PauseConditions = nil
	c, dyn := newTestClient("shop", nil, toUnstructured(t, ro))

	require.NoError(t, c.PromoteRollout(context.Background(), "web"))
	assert.Equal(t, []recordedPatch{{subresource: "", body: `{"spec":{"paused":false}}`}}, patches(dyn))
}

func TestPromoteRollout_SkipsCurrentStep(t *testing.T) {
	ro := canaryRollout("web")
	ro.Status.PauseConditions = nil
	ro.Status.CurrentStepIndex = int32Ptr(0)
	c, dyn := newTestClient("shop", nil, toUnstructured(t, ro))

	require.NoError(t, c.PromoteRollout(context.Background(), "web"))
	assert.Equal(t, []recordedPatch{{subresource: "status", body: `{"status":{"currentStepIndex":1}}`}}, patches(dyn))
}

func TestPromoteRollout_NothingToPromote(t *testing.T) {
	ro := canaryRollout("web")
	ro.Status.PauseConditions = nil
	ro.Status.CurrentStepIndex = int32Ptr(3)
	c, dyn := newTestClient("shop", nil, toUnstructured(t, ro))

	requireInvalid(t, c.PromoteRollout(context.Background(), "web"))
	assert.Empty(t, patches(dyn))
}

func TestRestartRollout(t *testing.T) {
	c, dyn := newTestClient("shop", nil, toUnstructured(t, canaryRollout("web")))

	require.NoError(t, c.RestartRollout(context.Background(), "web"))
	assert.Equal(t, []recordedPatch{{subresource: "", body: `{"spec":{"restartAt":"2026-03-01T12:00:00Z"}}`}}, patches(dyn))
}

func templateImages(t *testing.T, dyn *dynamicfake.FakeDynamicClient, name string) map[string]string {
	t.Helper()
	u, err := dyn.Resource(rolloutGVR).Namespace("shop").Get(context.Background(), name, metav1.GetOptions{})
	require.NoError(t, err)
	ctrs, _, err := unstructured.NestedSlice(u.Object, "spec", "template", "spec", "containers")
	require.NoError(t, err)
	images := map[string]string{}
	for _, raw := range ctrs {
		ctr := raw.(map[string]any)
		images[ctr["name"].(string)] = ctr["image"].(string)
	}
	return images
}

func TestSetRolloutImage(t *testing.T) {
	c, dyn := newTestClient("shop", nil, toUnstructured(t, canaryRollout("web")))

	require.NoError(t, c.SetRolloutImage(context.Background(), "web", "app", " shop/web:2.1 "))
	assert.Equal(t, map[string]string{"app": "shop/web:2.1", "proxy": "envoy:1.30"}, templateImages(t, dyn, "web"))
}

func TestSetRolloutImage_AllContainers(t *testing.T) {
	c, dyn := newTestClient("shop", nil, toUnstructured(t, canaryRollout("web")))

	require.NoError(t, c.SetRolloutImage(context.Background(), "web", AllContainers, "busybox:1.36"))
	assert.Equal(t, map[string]string{"app": "busybox:1.36", "proxy": "busybox:1.36"}, templateImages(t, dyn, "web"))
}

func TestSetRolloutImage_Invalid(t *testing.T) {
	c, dyn := newTestClient("shop", nil, toUnstructured(t, canaryRollout("web")))

	requireInvalid(t, c.SetRolloutImage(context.Background(), "web", "sidecar", "x:1"))
	requireInvalid(t, c.SetRolloutImage(context.Background(), "web", "app", "  "))
	requireInvalid(t, c.SetRolloutImage(context.Background(), "web", "", "x:1"))
	assert.Equal(t, map[string]string{"app": "shop/web:2.0", "proxy": "envoy:1.30"}, templateImages(t, dyn, "web"))
}

func undoFixture(t *testing.T) (*Client, *dynamicfake.FakeDynamicClient) {
	t.Helper()
	ro := canaryRollout("web")
	typed := []runtime.Object{
		ownedReplicaSet("web-r1", ro.UID, "1", "old", 0),
		ownedReplicaSet("web-r2", ro.UID, "2", "mid", 3),
		ownedReplicaSet("web-r3", ro.UID, "3", "new", 1),
	}
	return newTestClient("shop", typed, toUnstructured(t, ro))
}

func templateAfterUndo(t *testing.T, dyn *dynamicfake.FakeDynamicClient) (image string, labels map[string]string) {
	t.Helper()
	u, err := dyn.Resource(rolloutGVR).Namespace("shop").Get(context.Background(), "web", metav1.GetOptions{})
	require.NoError(t, err)
	labels, _, err = unstructured.NestedStringMap(u.Object, "spec", "template", "metadata", "labels")
	require.NoError(t, err)
	return templateImages(t, dyn, "web")["app"], labels
}

func TestUndoRollout_Previous(t *testing.T) {
	c, dyn := undoFixture(t)

	require.NoError(t, c.UndoRollout(context.Background(), "web", 0))
	image, labels := templateAfterUndo(t, dyn)
	assert.Equal(t, "shop/web:2", image)
	assert.Equal(t, map[string]string{"app": "web"}, labels, "pod template hash label is dropped")
}

func TestUndoRollout_ExplicitRevision(t *testing.T) {
	c, dyn := undoFixture(t)

	require.NoError(t, c.UndoRollout(context.Background(), "web", 1))
	image, _ := templateAfterUndo(t, dyn)
	assert.Equal(t, "shop/web:1", image)
}

func TestUndoRollout_UnknownRevision(t *testing.T) {
	c, dyn := undoFixture(t)

	requireInvalid(t, c.UndoRollout(context.Background(), "web", 9))
	requireInvalid(t, c.UndoRollout(context.Background(), "web", -1))
	image, _ := templateAfterUndo(t, dyn)
	assert.Equal(t, "shop/web:2.0", image)
}

func TestUndoRollout_NoPreviousRevision(t *testing.T) {
	ro := canaryRollout("web")
	typed := []runtime.Object{ownedReplicaSet("web-r1", ro.UID, "1", "new", 3)}
	c, _ := newTestClient("shop", typed, toUnstructured(t, ro))

	requireInvalid(t, c.UndoRollout(context.Background(), "web", 0))
}
