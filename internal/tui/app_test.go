package tui

import (
	"encoding/base64"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Taishi66/rollouts-tui/internal/config"
	"github.com/Taishi66/rollouts-tui/internal/domain"
)

// --- helpers ---

func testRollouts() []domain.RolloutInfo {
	return []domain.RolloutInfo{
		{
			Name: "web", Namespace: "default", Strategy: "Canary", Status: "Paused",
			Step: 1, TotalSteps: 4, SetWeight: 20, Desired: 3, Ready: 3, Paused: true,
			Containers: []string{"app"}, Age: "2h",
			ReplicaSets: []domain.ReplicaSetInfo{
				{Name: "web-7c9", Revision: 2, Status: "Healthy", Canary: true, Replicas: 1, Available: 1,
					Pods: []domain.PodInfo{{Name: "web-7c9-a", UID: "uid-a", Status: "Running"}}},
				{Name: "web-5f4", Revision: 1, Status: "Healthy", Stable: true, Replicas: 2, Available: 2,
					Pods: []domain.PodInfo{
						{Name: "web-5f4-b", UID: "uid-b", Status: "Running"},
						{Name: "web-5f4-c", UID: "uid-c", Status: "CrashLoopBackOff",
							Containers: []domain.ContainerInfo{{Name: "app"}, {Name: "sidecar"}}},
					}},
			},
		},
		{
			Name: "api", Namespace: "default", Strategy: "BlueGreen", Status: "Healthy",
			Step: -1, Desired: 2, Ready: 2, Containers: []string{"api", "proxy"}, Age: "5d",
			ReplicaSets: []domain.ReplicaSetInfo{
				{Name: "api-1", Revision: 1, Status: "Healthy", Active: true,
					Pods: []domain.PodInfo{{Name: "api-1-x", UID: "uid-x", Status: "Running"}}},
			},
		},
	}
}

func newTestModelWith(cfg *config.AppConfig, namespace string) Model {
	mock := &domain.MockGateway{
		ContextVal:   "test-ctx",
		ServerURLVal: "https://api.test:6443",
		NamespaceVal: namespace,
		Rollouts:     testRollouts(),
		Namespaces: []domain.NamespaceInfo{
			{Name: "default", Status: "Active", Age: "30d"},
			{Name: "shop-prod", Status: "Active", Age: "10d"},
		},
		LogContent: "2026-01-01 INFO starting\n2026-01-01 INFO ready",
	}
	factory := func() (domain.RolloutGateway, error) { return mock, nil }

	m := NewModel(mock, factory, cfg)
	m.width = 120
	m.height = 40
	return m
}

func newTestModel() Model {
	return newTestModelWith(&config.AppConfig{ProdPatterns: []string{"prod"}}, "default")
}

func mockOf(m Model) *domain.MockGateway {
	return m.client.(*domain.MockGateway)
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

// withDetail opens the detail view of name and feeds it the loaded rollout.
func withDetail(t *testing.T, m Model, name string) Model {
	t.Helper()
	updated, _ := m.openDetail(name)
	um := updated.(Model)
	msg := um.loadRollout(name)()
	loaded, ok := msg.(rolloutLoadedMsg)
	if !ok {
		t.Fatalf("loadRollout(%q) returned %T", name, msg)
	}
	updated, _ = um.Update(loaded)
	return updated.(Model)
}

// --- helpers under test ---

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short string", "hello", 10, "hello"},
		{"exact length", "hello", 5, "hello"},
		{"needs truncation", "hello world", 5, "hell…"},
		{"maxLen 1", "hello", 1, "h"},
		{"maxLen 0", "hello", 0, ""},
		{"negative maxLen", "hello", -1, ""},
		{"unicode string", "héllo", 4, "hél…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestEncodeBase64(t *testing.T) {
	for _, input := range []string{"web-5f4-b", "", "a"} {
		want := base64.StdEncoding.EncodeToString([]byte(input))
		if got := encodeBase64(input); got != want {
			t.Errorf("encodeBase64(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestViewString(t *testing.T) {
	tests := []struct {
		view View
		want string
	}{
		{ViewNamespaces, "NAMESPACES"},
		{ViewRollouts, "ROLLOUTS"},
		{ViewRollout, "ROLLOUT"},
		{ViewEvents, "EVENTS"},
		{ViewLogs, "LOGS"},
		{ViewYAML, "YAML"},
		{ViewError, ""},
	}
	for _, tt := range tests {
		if got := tt.view.String(); got != tt.want {
			t.Errorf("View(%d).String() = %q, want %q", tt.view, got, tt.want)
		}
	}
}

// --- loading ---

func TestUpdateRolloutsLoaded(t *testing.T) {
	m := newTestModel()
	m.loading = true
	m.disconnected = true

	updated, _ := m.Update(rolloutsLoadedMsg{namespace: "default", items: testRollouts()})
	um := updated.(Model)
	if um.loading || um.disconnected {
		t.Errorf("loading=%v disconnected=%v after load", um.loading, um.disconnected)
	}
	if len(um.rollouts) != 2 {
		t.Errorf("rollouts = %d, want 2", len(um.rollouts))
	}
}

func TestUpdateRolloutsLoaded_DropsOtherNamespace(t *testing.T) {
	m := newTestModel()
	cmd := m.loadRollouts()
	m.client.SetNamespace("shop-prod")
	m.rollouts = nil
	m.loading = true

	msg := cmd()
	loaded, ok := msg.(rolloutsLoadedMsg)
	if !ok {
		t.Fatalf("loadRollouts() msg = %T, want rolloutsLoadedMsg", msg)
	}
	if loaded.namespace != "default" {
		t.Errorf("msg namespace = %q, want default", loaded.namespace)
	}

	updated, _ := m.Update(msg)
	um := updated.(Model)
	if len(um.rollouts) != 0 {
		t.Errorf("rollouts from default applied in shop-prod: %v", names(um.rollouts))
	}
	if !um.loading {
		t.Error("loading cleared by a result for another namespace")
	}
}

func TestEnterOpensRolloutDetail(t *testing.T) {
	m := newTestModel()
	m.rollouts = testRollouts()

	um, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if um.view != ViewRollout {
		t.Fatalf("view = %v, want ViewRollout", um.view)
	}
	if um.detail.name != "web" {
		t.Errorf("detail.name = %q, want web", um.detail.name)
	}
	if cmd == nil {
		t.Error("opening the detail should load the rollout")
	}
}

func TestRolloutLoadedForOtherRolloutIsIgnored(t *testing.T) {
	m := withDetail(t, newTestModel(), "web")
	api := testRollouts()[1]

	updated, _ := m.Update(rolloutLoadedMsg{rollout: &api})
	if um := updated.(Model); um.detail.rollout.Name != "web" {
		t.Errorf("detail switched to %q", um.detail.rollout.Name)
	}
}

func TestDetailRefreshIgnoresStaleTick(t *testing.T) {
	m := withDetail(t, newTestModel(), "web")

	_, cmd := m.Update(detailTickMsg{gen: m.detail.refresh - 1})
	if cmd != nil {
		t.Error("stale refresh tick should be dropped")
	}
	_, cmd = m.Update(detailTickMsg{gen: m.detail.refresh})
	if cmd == nil {
		t.Error("current refresh tick should reload the rollout")
	}
}

// --- action buttons ---

func TestActionBarStateForPausedCanary(t *testing.T) {
	m := withDetail(t, newTestModel(), "web")

	want := map[string]bool{
		btnRestart:     false,
		btnRetry:       true,
		btnAbort:       false,
		btnPromote:     false,
		btnPromoteFull: false,
		btnSetImage:    false,
		btnUndo:        false,
	}
	for id, disabled := range want {
		if got := m.detail.bar.button(id).Disabled; got != disabled {
			t.Errorf("%s disabled = %v, want %v", id, got, disabled)
		}
	}
}

func TestPromoteDispatchesWithoutConfirmation(t *testing.T) {
	m := withDetail(t, newTestModel(), "web")

	um, cmd := press(t, m, runeKey("p"))
	if cmd == nil {
		t.Fatal("promote should return a command")
	}
	if um.confirm.isActive() {
		t.Error("promote should not ask for confirmation")
	}
	b := um.detail.bar.button(btnPromote)
	if !b.Loading() {
		t.Error("promote button should be loading after press")
	}

	msg := b.Action()
	if _, ok := msg.(actionDoneMsg); !ok {
		t.Fatalf("action returned %T, want actionDoneMsg", msg)
	}
	if got := mockOf(um).Actions; len(got) != 1 || got[0] != "promote web" {
		t.Errorf("actions = %v, want [promote web]", got)
	}
}

func TestAbortAsksConfirmation(t *testing.T) {
	m := withDetail(t, newTestModel(), "web")

	um, _ := press(t, m, runeKey("a"))
	if um.confirm.mode != confirmSimple {
		t.Fatalf("confirm mode = %v, want confirmSimple", um.confirm.mode)
	}
	if len(mockOf(um).Actions) != 0 {
		t.Fatal("abort ran before confirmation")
	}

	um, cmd := press(t, um, runeKey("y"))
	if cmd == nil {
		t.Fatal("confirming should return a command")
	}
	updated, _ := um.Update(cmd())
	um = updated.(Model)

	b := um.detail.bar.button(btnAbort)
	if !b.Loading() {
		t.Error("abort button should be loading after confirmation")
	}
	b.Action()
	if got := mockOf(um).Actions; len(got) != 1 || got[0] != "abort web" {
		t.Errorf("actions = %v, want [abort web]", got)
	}
}

func TestConfirmedActionDisabledByRefresh(t *testing.T) {
	m := withDetail(t, newTestModel(), "web")

	um, _ := press(t, m, runeKey("a"))
	if !um.confirm.isActive() {
		t.Fatal("abort should ask for confirmation")
	}

	healthy := testRollouts()[0]
	healthy.Status = "Healthy"
	updated, _ := um.Update(rolloutLoadedMsg{rollout: &healthy})
	um = updated.(Model)

	um, cmd := press(t, um, runeKey("y"))
	if cmd == nil {
		t.Fatal("confirming should return a command")
	}
	updated, _ = um.Update(cmd())
	um = updated.(Model)

	if um.detail.bar.button(btnAbort).Loading() {
		t.Error("disabled abort button was pressed")
	}
	if !strings.Contains(um.toast.message, "indisponible") {
		t.Errorf("toast = %q, want an unavailable message", um.toast.message)
	}
	if um.toast.level != toastError {
		t.Errorf("toast level = %v, want toastError", um.toast.level)
	}
	if got := mockOf(um).Actions; len(got) != 0 {
		t.Errorf("actions = %v, want none", got)
	}
}

func TestAbortCancelled(t *testing.T) {
	m := withDetail(t, newTestModel(), "web")

	um, _ := press(t, m, runeKey("a"))
	um, _ = press(t, um, runeKey("n"))
	if um.confirm.isActive() {
		t.Error("confirm should close on n")
	}
	if um.detail.bar.button(btnAbort).Loading() {
		t.Error("cancelled abort should not press the button")
	}
}

func TestProdRestartRequiresRolloutName(t *testing.T) {
	m := newTestModelWith(&config.AppConfig{ProdPatterns: []string{"prod"}}, "shop-prod")
	m = withDetail(t, m, "web")

	um, _ := press(t, m, runeKey("R"))
	if um.confirm.mode != confirmProd {
		t.Fatalf("confirm mode = %v, want confirmProd", um.confirm.mode)
	}

	um, _ = press(t, um, runeKey("wrong"))
	um, cmd := press(t, um, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || !um.confirm.isActive() {
		t.Fatal("wrong name should keep the dialog open")
	}

	um.confirm.input.SetValue("")
	um, _ = press(t, um, runeKey("web"))
	um, cmd = press(t, um, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("typing the rollout name should confirm")
	}
	updated, _ := um.Update(cmd())
	um = updated.(Model)
	if !um.detail.bar.button(btnRestart).Loading() {
		t.Error("restart button should be loading after confirmation")
	}
}

func TestReadonlyNamespaceDisablesActions(t *testing.T) {
	cfg := &config.AppConfig{ReadonlyNamespaces: []string{"def*"}}
	m := withDetail(t, newTestModelWith(cfg, "default"), "web")

	for _, b := range m.detail.bar.buttons {
		if !b.Disabled {
			t.Errorf("%s should be disabled in a readonly namespace", b.ID)
		}
	}

	um, _ := press(t, m, runeKey("p"))
	if len(mockOf(um).Actions) != 0 {
		t.Errorf("actions = %v, want none", mockOf(um).Actions)
	}
	if !strings.Contains(um.toast.message, "lecture seule") {
		t.Errorf("toast = %q, want readonly notice", um.toast.message)
	}
}

func TestSetImagePromptDispatches(t *testing.T) {
	m := withDetail(t, newTestModel(), "web")

	um, _ := press(t, m, runeKey("i"))
	if !um.prompt.isActive() {
		t.Fatal("set image should open the prompt")
	}
	um, _ = press(t, um, runeKey("nginx:1.27"))
	um, cmd := press(t, um, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("submitting the image should dispatch")
	}

	um.detail.bar.button(btnSetImage).Action()
	if got := mockOf(um).Actions; len(got) != 1 || got[0] != "set-image web app=nginx:1.27" {
		t.Errorf("actions = %v", got)
	}
}

func TestSetImageInvalidInput(t *testing.T) {
	m := withDetail(t, newTestModel(), "api")

	um, _ := press(t, m, runeKey("i"))
	um, _ = press(t, um, runeKey("nginx:1.27"))
	um, _ = press(t, um, tea.KeyMsg{Type: tea.KeyEnter})

	if um.toast.level != toastError {
		t.Errorf("bare image on a multi-container rollout should fail, toast = %q", um.toast.message)
	}
	if um.detail.bar.button(btnSetImage).Loading() {
		t.Error("invalid input should not press the button")
	}
}

func TestUndoDefaultsToPreviousRevision(t *testing.T) {
	m := withDetail(t, newTestModel(), "web")

	um, _ := press(t, m, runeKey("u"))
	um, _ = press(t, um, tea.KeyMsg{Type: tea.KeyEnter})
	if um.confirm.mode != confirmSimple {
		t.Fatalf("undo should ask for confirmation, mode = %v", um.confirm.mode)
	}
	um, cmd := press(t, um, runeKey("y"))
	updated, _ := um.Update(cmd())
	um = updated.(Model)

	um.detail.bar.button(btnUndo).Action()
	if got := mockOf(um).Actions; len(got) != 1 || got[0] != "undo web 0" {
		t.Errorf("actions = %v, want [undo web 0]", got)
	}
}

func TestLeavingDetailReleasesButtons(t *testing.T) {
	m := withDetail(t, newTestModel(), "web")
	um, _ := press(t, m, runeKey("p"))
	if !um.detail.bar.button(btnPromote).Loading() {
		t.Fatal("promote should be loading")
	}

	um, _ = press(t, um, tea.KeyMsg{Type: tea.KeyEsc})
	if um.view != ViewRollouts {
		t.Fatalf("view = %v, want ViewRollouts", um.view)
	}
	if um.detail.bar.button(btnPromote).Loading() {
		t.Error("leaving the detail view should clear the loading state")
	}
}

func TestActionErrorSurfacesAsToast(t *testing.T) {
	m := withDetail(t, newTestModel(), "web")
	mockOf(m).ActionErr = &domain.APIError{Type: domain.ErrInvalid, Message: "rien à promouvoir"}

	um, _ := press(t, m, runeKey("p"))
	msg := um.detail.bar.button(btnPromote).Action()
	errMsg, ok := msg.(apiErrMsg)
	if !ok || !errMsg.recorded {
		t.Fatalf("action returned %#v, want recorded apiErrMsg", msg)
	}

	updated, _ := um.Update(errMsg)
	um = updated.(Model)
	if um.toast.message != "rien à promouvoir" || um.toast.level != toastError {
		t.Errorf("toast = %+v", um.toast)
	}
}

func TestActionDoneReloadsDetail(t *testing.T) {
	m := withDetail(t, newTestModel(), "web")

	updated, cmd := m.Update(actionDoneMsg{rollout: "web", message: "ok"})
	um := updated.(Model)
	if um.toast.level != toastSuccess {
		t.Errorf("toast level = %v, want success", um.toast.level)
	}
	if cmd == nil {
		t.Error("action done should reload the rollout")
	}
}

// --- pods ---

func TestPodFocusNavigation(t *testing.T) {
	m := withDetail(t, newTestModel(), "web")

	pod, _ := m.detail.focusedPod()
	if pod.Name != "web-7c9-a" {
		t.Fatalf("initial focus = %q", pod.Name)
	}
	um, _ := press(t, m, runeKey("j"))
	um, _ = press(t, um, runeKey("j"))
	um, _ = press(t, um, runeKey("j"))
	pod, _ = um.detail.focusedPod()
	if pod.Name != "web-5f4-c" {
		t.Errorf("focus after 3 moves = %q, want last pod", pod.Name)
	}
}

func TestFocusFollowsPodUIDOnRefresh(t *testing.T) {
	m := withDetail(t, newTestModel(), "web")
	m.detail.focus = 2 // web-5f4-c

	ro := testRollouts()[0]
	ro.ReplicaSets = ro.ReplicaSets[1:] // canary scaled away
	m.detail.setRollout(&ro)

	pod, ok := m.detail.focusedPod()
	if !ok || pod.UID != "uid-c" {
		t.Errorf("focused pod = %q, want uid-c", pod.UID)
	}
}

func TestCopyPodName(t *testing.T) {
	m := withDetail(t, newTestModel(), "web")

	um, cmd := press(t, m, runeKey("c"))
	if cmd == nil {
		t.Fatal("copy should print the OSC52 sequence")
	}
	if !strings.Contains(um.toast.message, "web-7c9-a") {
		t.Errorf("toast = %q, want pod name", um.toast.message)
	}
}

func TestLogsOpenContainerSelector(t *testing.T) {
	m := withDetail(t, newTestModel(), "web")
	m.detail.focus = 2

	um, _ := press(t, m, runeKey("l"))
	if !um.selector.active {
		t.Fatal("multi-container pod should open the container selector")
	}
	um, _ = press(t, um, runeKey("j"))
	um, cmd := press(t, um, tea.KeyMsg{Type: tea.KeyEnter})
	if um.view != ViewLogs || um.logState.containerName != "sidecar" {
		t.Errorf("view = %v container = %q", um.view, um.logState.containerName)
	}
	if cmd == nil {
		t.Error("logs should be loaded")
	}

	um, _ = press(t, um, tea.KeyMsg{Type: tea.KeyEsc})
	if um.view != ViewRollout {
		t.Errorf("esc from logs should return to the detail, got %v", um.view)
	}
}

// --- errors ---

func TestTokenExpiredToastIsSticky(t *testing.T) {
	m := newTestModel()
	updated, cmd := m.Update(apiErrMsg{err: &domain.APIError{Type: domain.ErrTokenExpired, Message: "Session expirée"}})
	um := updated.(Model)

	if !um.disconnected || !um.toast.sticky {
		t.Errorf("disconnected=%v sticky=%v", um.disconnected, um.toast.sticky)
	}
	if cmd != nil {
		t.Error("sticky toast should not schedule a clear")
	}
	updated, _ = um.Update(toastExpiredMsg{message: "Session expirée"})
	if !updated.(Model).toast.isActive() {
		t.Error("sticky toast was cleared by an expiry tick")
	}
}

func TestToastExpiryKeepsNewerToast(t *testing.T) {
	m := newTestModel()
	m.toast = newToast("second", toastInfo)

	updated, _ := m.Update(toastExpiredMsg{message: "first"})
	if updated.(Model).toast.message != "second" {
		t.Error("expiry of an older toast cleared the current one")
	}
	updated, _ = m.Update(toastExpiredMsg{message: "second"})
	if updated.(Model).toast.message != "" {
		t.Error("matching expiry should clear the toast")
	}
}

func TestNotFoundInDetailReturnsToList(t *testing.T) {
	m := withDetail(t, newTestModel(), "web")

	updated, _ := m.Update(apiErrMsg{err: &domain.APIError{Type: domain.ErrNotFound, Message: "introuvable"}})
	um := updated.(Model)
	if um.view != ViewRollouts {
		t.Errorf("view = %v, want ViewRollouts", um.view)
	}
	if um.detail.name != "" {
		t.Errorf("detail.name = %q, want empty", um.detail.name)
	}
}

func TestRefreshReconnectsWhenDisconnected(t *testing.T) {
	m := newTestModel()
	m.disconnected = true

	um, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if mockOf(um).ReconnectCalls != 1 {
		t.Errorf("ReconnectCalls = %d, want 1", mockOf(um).ReconnectCalls)
	}
	if um.disconnected || cmd == nil {
		t.Errorf("disconnected=%v cmd=%v", um.disconnected, cmd != nil)
	}
}

func TestErrorScreenRetry(t *testing.T) {
	mock := &domain.MockGateway{NamespaceVal: "default"}
	m := NewModelWithError(&domain.APIError{Type: domain.ErrNoKubeconfig, Message: "pas de kubeconfig"},
		func() (domain.RolloutGateway, error) { return mock, nil }, nil)

	um, cmd := press(t, m, runeKey("r"))
	if um.view != ViewRollouts || um.client == nil {
		t.Errorf("view = %v client = %v", um.view, um.client)
	}
	if cmd == nil {
		t.Error("retry should load the rollouts")
	}
}

// --- namespaces ---

func TestSelectNamespaceResetsDetail(t *testing.T) {
	m := withDetail(t, newTestModel(), "web")
	updated, _ := m.switchView(ViewNamespaces)
	um := updated.(Model)
	um.namespaces = mockOf(um).Namespaces
	um.cursor = 1

	um, _ = press(t, um, tea.KeyMsg{Type: tea.KeyEnter})
	if mockOf(um).NamespaceVal != "shop-prod" {
		t.Errorf("namespace = %q, want shop-prod", mockOf(um).NamespaceVal)
	}
	if um.view != ViewRollouts || um.detail.name != "" {
		t.Errorf("view = %v detail = %q", um.view, um.detail.name)
	}
}

// --- view ---

func TestViewRendersDetail(t *testing.T) {
	m := withDetail(t, newTestModel(), "web")
	out := m.View()
	for _, want := range []string{"web-7c9", "web-5f4", "Status: Running", "Promote"} {
		if !strings.Contains(out, want) {
			t.Errorf("detail view missing %q", want)
		}
	}
}
