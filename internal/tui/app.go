package tui

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-logr/logr"

	"github.com/Taishi66/rollouts-tui/internal/config"
	"github.com/Taishi66/rollouts-tui/internal/domain"
	"github.com/Taishi66/rollouts-tui/internal/metrics"
)

// ClientFactory creates a new RolloutGateway (used for reconnection from error screen).
type ClientFactory func() (domain.RolloutGateway, error)

// --- Views ---

type View int

const (
	ViewNamespaces View = iota
	ViewRollouts
	ViewRollout
	ViewEvents
	ViewLogs
	ViewYAML
	ViewError // startup error screen
)

func (v View) String() string {
	switch v {
	case ViewNamespaces:
		return "NAMESPACES"
	case ViewRollouts:
		return "ROLLOUTS"
	case ViewRollout:
		return "ROLLOUT"
	case ViewEvents:
		return "EVENTS"
	case ViewLogs:
		return "LOGS"
	case ViewYAML:
		return "YAML"
	default:
		return ""
	}
}

// Option configures a Model.
type Option func(*Model)

func WithLogger(log logr.Logger) Option {
	return func(m *Model) { m.log = log }
}

func WithMetrics(rec *metrics.Metrics) Option {
	return func(m *Model) { m.metrics = rec }
}

// --- Model ---

type Model struct {
	client        domain.RolloutGateway
	clientFactory ClientFactory
	log           logr.Logger
	metrics       *metrics.Metrics

	// Views
	view     View
	prevView View

	// Data
	namespaces []domain.NamespaceInfo
	rollouts   []domain.RolloutInfo
	events     []domain.EventInfo
	eventsFor  string
	detail     detailState
	logState   logState
	yamlState  yamlViewState
	version    string

	// UI state
	cursor     int
	width      int
	height     int
	loading    bool
	toast      toast
	confirm    confirmState
	prompt     promptState
	selector   containerSelector
	spinner    spinner.Model
	startupErr error // non-nil if launched with NewModelWithError

	// Filter
	filter    textinput.Model
	filtering bool

	// Connection state
	disconnected bool

	// Watch state
	watchCancel context.CancelFunc
	watching    bool
	watchCh     <-chan domain.WatchEvent

	// Sort
	sortState map[View]SortState

	// Config
	cfg *config.AppConfig
}

func newSpinner() spinner.Model {
	return spinner.New(spinner.WithSpinner(spinner.MiniDot))
}

func NewModel(client domain.RolloutGateway, factory ClientFactory, cfg *config.AppConfig, opts ...Option) Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	fi := textinput.New()
	fi.Placeholder = "filtre..."
	fi.CharLimit = 64
	fi.Width = 30

	m := Model{
		client:        client,
		clientFactory: factory,
		log:           logr.Discard(),
		view:          ViewRollouts,
		detail:        detailState{bar: newActionBar()},
		filter:        fi,
		confirm:       newConfirmState(),
		prompt:        newPromptState(),
		spinner:       newSpinner(),
		sortState:     make(map[View]SortState),
		cfg:           cfg,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func NewModelWithError(err error, factory ClientFactory, cfg *config.AppConfig, opts ...Option) Model {
	m := NewModel(nil, factory, cfg, opts...)
	m.view = ViewError
	m.startupErr = err
	return m
}

func (m Model) Init() tea.Cmd {
	if m.view == ViewError {
		return nil
	}
	return tea.Batch(m.loadCurrentView(), m.loadVersion(), m.spinner.Tick)
}

// Close stops background work. Called once the program has exited.
func (m *Model) Close() {
	m.stopWatch()
	m.detail.bar.release()
}

// --- Update ---

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case actionButtonTickMsg:
		m.detail.bar.update(msg)
		return m, nil

	case namespacesLoadedMsg:
		m.namespaces = msg.items
		m.loading = false
		m.cursor = 0
		m.disconnected = false
		return m, nil

	case rolloutsLoadedMsg:
		if m.client == nil || msg.namespace != m.client.GetNamespace() {
			return m, nil
		}
		m.rollouts = msg.items
		m.loading = false
		m.cursor = min(m.cursor, max(len(m.rollouts)-1, 0))
		m.disconnected = false
		cmd := m.startWatch()
		return m, cmd

	case rolloutLoadedMsg:
		if msg.rollout == nil || msg.rollout.Name != m.detail.name {
			return m, nil
		}
		m.detail.setRollout(msg.rollout)
		m.loading = false
		m.disconnected = false
		return m, nil

	case eventsLoadedMsg:
		if msg.rollout != m.eventsFor {
			return m, nil
		}
		m.events = msg.items
		m.loading = false
		m.cursor = 0
		m.disconnected = false
		return m, nil

	case watchEventMsg:
		if msg.event.Resource == "rollout" {
			m.mergeRolloutEvent(msg.event)
		}
		if m.watchCh != nil {
			return m, listenWatch(m.watchCh)
		}
		return m, nil

	case watchStoppedMsg:
		m.watching = false
		cmd := m.startWatch()
		return m, cmd

	case detailTickMsg:
		if msg.gen != m.detail.refresh || m.view != ViewRollout {
			return m, nil
		}
		return m, tea.Batch(m.loadRollout(m.detail.name), scheduleDetailRefresh(msg.gen))

	case logsLoadedMsg:
		m.logState.setContent(msg.content, m.contentHeight())
		m.loading = false
		return m, nil

	case yamlLoadedMsg:
		m.yamlState.setContent(msg.content)
		m.loading = false
		return m, nil

	case versionLoadedMsg:
		m.version = msg.version
		return m, nil

	case confirmedActionMsg:
		b := m.detail.bar.button(msg.id)
		if b == nil {
			return m, nil
		}
		// A refresh may have disabled the button while the dialog was open.
		if b.Disabled {
			return m.actionUnavailable(msg.id)
		}
		cmd := b.Press()
		return m, cmd

	case actionDoneMsg:
		m.toast = newToast(msg.message, toastSuccess)
		m.loading = false
		cmds := []tea.Cmd{scheduleToastClear(m.toast)}
		if msg.rollout == m.detail.name {
			cmds = append(cmds, m.loadRollout(msg.rollout))
		}
		if m.view == ViewRollouts {
			cmds = append(cmds, m.loadRollouts())
		}
		return m, tea.Batch(cmds...)

	case apiErrMsg:
		if !msg.recorded {
			m.metrics.RecordAPIError(msg.err)
		}
		return m.handleAPIError(msg.err)

	case toastExpiredMsg:
		if m.toast.message == msg.message && !m.toast.sticky {
			m.toast = toast{}
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Startup error screen: only q/r
	if m.view == ViewError {
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			if m.clientFactory == nil {
				return m, nil
			}
			newClient, err := m.clientFactory()
			if err != nil {
				m.startupErr = err
				return m, nil
			}
			m.client = newClient
			m.startupErr = nil
			m.view = ViewRollouts
			m.loading = true
			return m, tea.Batch(m.loadCurrentView(), m.loadVersion(), m.spinner.Tick)
		}
		return m, nil
	}

	// Confirm dialog captures all input
	if m.confirm.isActive() {
		cmd := m.confirm.update(msg)
		return m, cmd
	}

	// Set-image / undo prompt captures all input
	if m.prompt.isActive() {
		return m.handlePromptInput(msg)
	}

	// Container selector captures all input
	if m.selector.active {
		return m.handleContainerSelector(msg)
	}

	// Filter mode
	if m.filtering {
		return m.handleFilterInput(msg)
	}

	// Global keys
	switch {
	case key.Matches(msg, keys.Quit):
		if m.view == ViewLogs || m.view == ViewYAML {
			return m.back()
		}
		m.stopWatch()
		m.detail.bar.release()
		return m, tea.Quit

	case key.Matches(msg, keys.Escape):
		switch m.view {
		case ViewLogs, ViewYAML:
			return m.back()
		case ViewRollout, ViewEvents:
			return m.switchView(ViewRollouts)
		}
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.cursor = 0
			return m, nil
		}
		m.toast = toast{}
		return m, nil

	// Tab switching
	case key.Matches(msg, keys.Tab1):
		return m.switchView(ViewNamespaces)
	case key.Matches(msg, keys.Tab2):
		return m.switchView(ViewRollouts)
	case key.Matches(msg, keys.Tab3):
		return m.switchView(ViewRollout)
	case key.Matches(msg, keys.Tab4):
		return m.switchView(ViewEvents)
	case key.Matches(msg, keys.TabNext):
		if m.view > ViewEvents {
			return m.switchView(ViewRollouts)
		}
		return m.switchView((m.view + 1) % (ViewEvents + 1))

	// Filter
	case key.Matches(msg, keys.Filter):
		if m.isListView() {
			m.filtering = true
			m.filter.SetValue("")
			cmd := m.filter.Focus()
			return m, cmd
		}

	// Refresh
	case key.Matches(msg, keys.Refresh):
		if m.disconnected && m.client != nil {
			if err := m.client.Reconnect(); err != nil {
				return m.handleAPIError(err)
			}
			m.disconnected = false
		}
		m.loading = true
		return m, m.reloadCurrent()

	// Navigation
	case key.Matches(msg, keys.Down):
		m.scroll(1)
	case key.Matches(msg, keys.Up):
		m.scroll(-1)
	case key.Matches(msg, keys.PageDown):
		m.scroll(20)
	case key.Matches(msg, keys.PageUp):
		m.scroll(-20)
	case key.Matches(msg, keys.Top):
		switch m.view {
		case ViewLogs:
			m.logState.jumpToTop()
		case ViewYAML:
			m.yamlState.jumpToTop()
		case ViewRollout:
			m.detail.focus = 0
		default:
			m.cursor = 0
		}
	case key.Matches(msg, keys.Bottom):
		switch m.view {
		case ViewLogs:
			m.logState.jumpToBottom(m.contentHeight())
		case ViewYAML:
			m.yamlState.jumpToBottom(m.contentHeight())
		case ViewRollout:
			m.detail.moveFocus(len(m.detail.pods()))
		default:
			m.cursor = max(m.listLen()-1, 0)
		}

	// Enter
	case key.Matches(msg, keys.Enter):
		return m.handleEnter()

	// Rollout views
	case key.Matches(msg, keys.Events):
		if name := m.selectedRolloutName(); name != "" {
			m.eventsFor = name
			m.events = nil
			return m.switchView(ViewEvents)
		}
	case key.Matches(msg, keys.YAML):
		if name := m.selectedRolloutName(); name != "" {
			return m.openYAML(name)
		}
	case key.Matches(msg, keys.Logs):
		if m.view == ViewRollout {
			return m.openFocusedPodLogs()
		}
	case key.Matches(msg, keys.Copy):
		if m.view == ViewRollout {
			return m.copyPodName()
		}
	case key.Matches(msg, keys.Previous):
		if m.view == ViewLogs {
			return m.togglePreviousLogs()
		}
	case key.Matches(msg, keys.Wrap):
		if m.view == ViewLogs {
			m.logState.wrap = !m.logState.wrap
		}
	case key.Matches(msg, keys.Sort):
		if m.view == ViewRollouts || m.view == ViewEvents {
			return m.cycleSort()
		}

	// Rollout actions
	case key.Matches(msg, keys.Restart):
		return m.triggerAction(btnRestart)
	case key.Matches(msg, keys.Retry):
		return m.triggerAction(btnRetry)
	case key.Matches(msg, keys.Abort):
		return m.triggerAction(btnAbort)
	case key.Matches(msg, keys.Promote):
		return m.triggerAction(btnPromote)
	case key.Matches(msg, keys.PromoteFull):
		return m.triggerAction(btnPromoteFull)
	case key.Matches(msg, keys.SetImage):
		return m.triggerAction(btnSetImage)
	case key.Matches(msg, keys.Undo):
		return m.triggerAction(btnUndo)
	}

	return m, nil
}

func (m *Model) scroll(delta int) {
	switch m.view {
	case ViewLogs:
		if delta > 0 {
			m.logState.scrollDown(delta, m.contentHeight())
		} else {
			m.logState.scrollUp(-delta)
		}
	case ViewYAML:
		if delta > 0 {
			m.yamlState.scrollDown(delta, m.contentHeight())
		} else {
			m.yamlState.scrollUp(-delta)
		}
	case ViewRollout:
		m.detail.moveFocus(delta)
	default:
		m.cursor = min(max(m.cursor+delta, 0), max(m.listLen()-1, 0))
	}
}

func (m Model) back() (tea.Model, tea.Cmd) {
	if m.view == ViewLogs {
		m.logState = logState{wrap: m.logState.wrap}
	} else {
		m.yamlState = yamlViewState{}
	}
	m.view = m.prevView
	if m.view == ViewRollout {
		cmd := m.startDetailRefresh()
		return m, cmd
	}
	return m, nil
}

// --- Key Handlers ---

func (m Model) handleFilterInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.filtering = false
		m.filter.Blur()
		if msg.String() == "esc" {
			m.filter.SetValue("")
		}
		m.cursor = 0
		return m, nil
	default:
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.cursor = 0
		return m, cmd
	}
}

func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	switch m.view {
	case ViewNamespaces:
		items := m.filteredNamespaces()
		if m.cursor < len(items) {
			m.stopWatch()
			m.detail.bar.release()
			m.client.SetNamespace(items[m.cursor].Name)
			m.log.Info("namespace changed", "namespace", items[m.cursor].Name)
			m.rollouts = nil
			m.detail = detailState{bar: m.detail.bar}
			m.eventsFor = ""
			m.events = nil
			return m.switchView(ViewRollouts)
		}
	case ViewRollouts:
		items := m.filteredRollouts()
		if m.cursor < len(items) {
			return m.openDetail(items[m.cursor].Name)
		}
	case ViewRollout:
		return m.openFocusedPodLogs()
	}
	return m, nil
}

func (m Model) openDetail(name string) (tea.Model, tea.Cmd) {
	if name != m.detail.name {
		m.detail.bar.release()
		m.detail = detailState{name: name, bar: m.detail.bar}
	}
	return m.switchView(ViewRollout)
}

// startDetailRefresh starts a new refresh loop; ticks of older loops are dropped.
func (m *Model) startDetailRefresh() tea.Cmd {
	m.detail.refresh++
	return scheduleDetailRefresh(m.detail.refresh)
}

func (m Model) handleContainerSelector(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.selector.close()
	case key.Matches(msg, keys.Down):
		m.selector.down()
	case key.Matches(msg, keys.Up):
		m.selector.up()
	case key.Matches(msg, keys.Enter):
		m.selector.close()
		return m.openLogsForContainer(m.selector.pod, m.selector.selected())
	}
	return m, nil
}

func (m Model) openFocusedPodLogs() (tea.Model, tea.Cmd) {
	pod, ok := m.detail.focusedPod()
	if !ok {
		return m, nil
	}
	if len(pod.Containers) > 1 {
		m.selector.open(pod)
		return m, nil
	}
	return m.openLogsForContainer(pod.Name, "")
}

func (m Model) openLogsForContainer(podName, containerName string) (Model, tea.Cmd) {
	m.prevView = m.view
	m.view = ViewLogs
	m.loading = true
	m.logState = logState{podName: podName, containerName: containerName, wrap: m.logState.wrap}
	return m, m.loadLogs(podName, containerName, false)
}

func (m Model) togglePreviousLogs() (tea.Model, tea.Cmd) {
	m.logState.previous = !m.logState.previous
	m.loading = true
	return m, m.loadLogs(m.logState.podName, m.logState.containerName, m.logState.previous)
}

func (m Model) openYAML(name string) (tea.Model, tea.Cmd) {
	m.prevView = m.view
	m.view = ViewYAML
	m.loading = true
	m.yamlState = yamlViewState{rollout: name}
	return m, m.loadYAML(name)
}

func (m Model) cycleSort() (tea.Model, tea.Cmd) {
	state := m.sortState[m.view]
	switch m.view {
	case ViewRollouts:
		state.Column = NextRolloutSort(state.Column)
	case ViewEvents:
		state.Column = NextEventSort(state.Column)
	}
	state.Ascending = true
	if m.sortState == nil {
		m.sortState = make(map[View]SortState)
	}
	m.sortState[m.view] = state
	m.cursor = 0
	return m, nil
}

// copyPodName writes the focused pod name to the clipboard with OSC52.
func (m Model) copyPodName() (tea.Model, tea.Cmd) {
	pod, ok := m.detail.focusedPod()
	if !ok {
		return m, nil
	}
	m.toast = newToast(fmt.Sprintf("Copié: %s", pod.Name), toastSuccess)
	return m, tea.Batch(
		scheduleToastClear(m.toast),
		tea.Printf("\033]52;c;%s\a", encodeBase64(pod.Name)),
	)
}

// --- Actions ---

func (m Model) isProd() bool {
	return config.IsProdNamespace(m.client.GetNamespace(), m.cfg.ProdPatterns)
}

func (m Model) isReadonly() bool {
	return config.IsReadonlyNamespace(m.client.GetNamespace(), m.cfg.ReadonlyNamespaces)
}

// triggerAction handles an action key in the detail view. Set image and undo
// first ask for their argument.
func (m Model) triggerAction(id string) (tea.Model, tea.Cmd) {
	if m.view != ViewRollout || m.detail.rollout == nil {
		return m, nil
	}
	b := m.detail.bar.button(id)
	if b == nil {
		return m, nil
	}
	if b.Disabled {
		return m.actionUnavailable(id)
	}
	switch id {
	case btnSetImage, btnUndo:
		cmd := m.prompt.open(id, m.detail.containers())
		return m, cmd
	}
	return m.dispatch(id, actionLabel(id), m.simpleAction(id, m.detail.name))
}

func (m Model) actionUnavailable(id string) (tea.Model, tea.Cmd) {
	if m.detail.readonly {
		m.toast = newToast("Namespace en lecture seule : actions désactivées", toastError)
	} else {
		m.toast = newToast(fmt.Sprintf("%s indisponible pour ce rollout", actionLabel(id)), toastError)
	}
	return m, scheduleToastClear(m.toast)
}

// dispatch arms the button with effect and presses it, going through the
// confirmation dialog first when required.
func (m Model) dispatch(id, label string, effect tea.Cmd) (tea.Model, tea.Cmd) {
	b := m.detail.bar.button(id)
	if b == nil || effect == nil {
		return m, nil
	}
	b.Action = effect
	prod := m.isProd()
	if !needsConfirm(id, prod) {
		cmd := b.Press()
		return m, cmd
	}
	confirmed := func() tea.Msg { return confirmedActionMsg{id: id} }
	cmd := m.confirm.activate(label, m.detail.name, m.client.GetNamespace(), prod, confirmed)
	return m, cmd
}

func (m Model) handlePromptInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.prompt.close()
		return m, nil
	case "enter":
		action, value := m.prompt.action, m.prompt.input.Value()
		m.prompt.close()
		name := m.detail.name
		switch action {
		case btnSetImage:
			container, image, err := parseImageInput(value, m.detail.containers())
			if err != nil {
				m.toast = newToast(err.Error(), toastError)
				return m, scheduleToastClear(m.toast)
			}
			label := fmt.Sprintf("Set image %s=%s", container, image)
			return m.dispatch(btnSetImage, label, m.setImageAction(name, container, image))
		case btnUndo:
			rev, err := parseRevision(value)
			if err != nil {
				m.toast = newToast(err.Error(), toastError)
				return m, scheduleToastClear(m.toast)
			}
			label := "Undo → révision précédente"
			if rev > 0 {
				label = fmt.Sprintf("Undo → révision %d", rev)
			}
			return m.dispatch(btnUndo, label, m.undoAction(name, rev))
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.prompt.input, cmd = m.prompt.input.Update(msg)
		return m, cmd
	}
}

// --- Navigation ---

func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	if m.view == ViewRollout && v != ViewRollout {
		m.detail.bar.release()
	}
	if m.view == ViewLogs {
		m.logState = logState{wrap: m.logState.wrap}
	}
	m.stopWatch()
	m.view = v
	m.cursor = 0
	m.filter.SetValue("")

	switch v {
	case ViewRollout:
		if m.detail.name == "" {
			return m, nil
		}
		m.detail.readonly = m.isReadonly()
		m.detail.bar.sync(m.detail.rollout, m.detail.readonly)
		m.loading = m.detail.rollout == nil
		refresh := m.startDetailRefresh()
		return m, tea.Batch(m.loadCurrentView(), refresh)
	case ViewEvents:
		if m.eventsFor == "" {
			m.eventsFor = m.detail.name
		}
		if m.eventsFor == "" {
			return m, nil
		}
	}
	m.loading = true
	return m, m.loadCurrentView()
}

// reloadCurrent refreshes the data of the active view, logs and YAML included.
func (m Model) reloadCurrent() tea.Cmd {
	switch m.view {
	case ViewLogs:
		return m.loadLogs(m.logState.podName, m.logState.containerName, m.logState.previous)
	case ViewYAML:
		return m.loadYAML(m.yamlState.rollout)
	}
	return m.loadCurrentView()
}

// selectedRolloutName is the rollout targeted by e/y in the current view.
func (m Model) selectedRolloutName() string {
	switch m.view {
	case ViewRollouts:
		items := m.filteredRollouts()
		if m.cursor < len(items) {
			return items[m.cursor].Name
		}
	case ViewRollout:
		return m.detail.name
	}
	return ""
}

// --- Error handling ---

func (m Model) handleAPIError(err error) (tea.Model, tea.Cmd) {
	m.loading = false

	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		m.log.Error(err, "unexpected error")
		m.toast = newToast(err.Error(), toastError)
		return m, scheduleToastClear(m.toast)
	}
	m.log.Error(err, "api error", "type", apiErr.Type.String())

	switch apiErr.Type {
	case domain.ErrTokenExpired:
		m.disconnected = true
		m.toast = newStickyToast(apiErr.Message)
		return m, nil

	case domain.ErrUnreachable:
		m.disconnected = true
		m.toast = newStickyToast("Connexion perdue - données en cache. C-r pour reconnecter")
		return m, nil

	case domain.ErrForbidden:
		m.toast = newToast(fmt.Sprintf("Accès refusé au namespace '%s'", m.client.GetNamespace()), toastError)
		return m, scheduleToastClear(m.toast)

	case domain.ErrNotFound:
		m.toast = newToast(apiErr.Message, toastError)
		if m.view == ViewRollout {
			// The rollout is gone: back to the list.
			m.detail.bar.release()
			m.detail = detailState{bar: m.detail.bar}
			model, cmd := m.switchView(ViewRollouts)
			return model, tea.Batch(scheduleToastClear(m.toast), cmd)
		}
		return m, scheduleToastClear(m.toast)

	case domain.ErrConflict:
		m.toast = newToast("Conflit : le rollout a été modifié. Réessayez.", toastError)
		return m, tea.Batch(scheduleToastClear(m.toast), m.loadCurrentView())

	case domain.ErrRateLimited:
		m.toast = newToast("Trop de requêtes. Réessayez dans quelques secondes.", toastError)
		return m, scheduleToastClear(m.toast)

	default:
		m.toast = newToast(apiErr.Message, toastError)
		return m, scheduleToastClear(m.toast)
	}
}

// --- Filtering ---

func (m Model) filterText() string {
	return strings.ToLower(m.filter.Value())
}

func (m Model) filteredNamespaces() []domain.NamespaceInfo {
	f := m.filterText()
	if f == "" {
		return m.namespaces
	}
	var result []domain.NamespaceInfo
	for _, ns := range m.namespaces {
		if strings.Contains(strings.ToLower(ns.Name), f) {
			result = append(result, ns)
		}
	}
	return result
}

func (m Model) filteredRollouts() []domain.RolloutInfo {
	f := m.filterText()
	var result []domain.RolloutInfo
	if f == "" {
		result = m.rollouts
	} else {
		for _, r := range m.rollouts {
			if strings.Contains(strings.ToLower(r.Name), f) ||
				strings.Contains(strings.ToLower(r.Status), f) {
				result = append(result, r)
			}
		}
	}
	return SortRollouts(result, m.sortState[ViewRollouts])
}

func (m Model) filteredEvents() []domain.EventInfo {
	f := m.filterText()
	var result []domain.EventInfo
	if f == "" {
		result = m.events
	} else {
		for _, e := range m.events {
			if strings.Contains(strings.ToLower(e.Reason), f) ||
				strings.Contains(strings.ToLower(e.Message), f) {
				result = append(result, e)
			}
		}
	}
	return SortEvents(result, m.sortState[ViewEvents])
}

func (m Model) isListView() bool {
	return m.view == ViewNamespaces || m.view == ViewRollouts || m.view == ViewEvents
}

func (m Model) listLen() int {
	switch m.view {
	case ViewNamespaces:
		return len(m.filteredNamespaces())
	case ViewRollouts:
		return len(m.filteredRollouts())
	case ViewEvents:
		return len(m.filteredEvents())
	default:
		return 0
	}
}

func (m Model) contentHeight() int {
	// header(1) + tabs(1) + blank(1) + col_header(1) + status_bar(1) = 5 lines overhead
	ch := m.height - 6
	if ch < 1 {
		return 1
	}
	return ch
}

// --- View ---

func (m Model) View() string {
	if m.width == 0 {
		return "Chargement..."
	}

	// Startup error screen
	if m.view == ViewError {
		return m.renderErrorScreen()
	}

	var b strings.Builder

	b.WriteString(m.renderContextBar())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	if m.disconnected {
		banner := bannerWarnStyle.Width(m.width).Render("Connexion perdue - données en cache. Appuyez sur C-r pour reconnecter")
		b.WriteString(banner)
		b.WriteString("\n")
	} else if m.isReadonly() {
		b.WriteString(bannerWarnStyle.Width(m.width).Render("Namespace en lecture seule"))
		b.WriteString("\n")
	}

	switch {
	case m.confirm.isActive():
		b.WriteString(m.confirm.view(m.width))
	case m.prompt.isActive():
		b.WriteString(m.prompt.view())
	case m.selector.active:
		b.WriteString(m.selector.view())
	case m.loading:
		b.WriteString(fmt.Sprintf("\n  %s Chargement...\n", m.spinner.View()))
	default:
		b.WriteString(m.renderContent())
	}

	if m.filtering {
		b.WriteString(fmt.Sprintf("  /%s", m.filter.View()))
		b.WriteString("\n")
	}

	// Fill remaining space
	lines := strings.Count(b.String(), "\n")
	for i := lines; i < m.height-2; i++ {
		b.WriteString("\n")
	}

	if m.toast.isActive() {
		b.WriteString(m.toast.render())
		b.WriteString("\n")
	}

	b.WriteString(m.renderStatusBar())

	return b.String()
}

func (m Model) renderContextBar() string {
	title := titleStyle.Render("ROLLOUTS TUI")
	if m.client == nil {
		return title
	}
	ctx := contextStyle.Render(m.client.GetContext())
	ns := namespaceStyle.Render(m.client.GetNamespace())
	bar := fmt.Sprintf(" %s  ctx:%s  ns:%s", title, ctx, ns)
	if m.isProd() {
		bar += "  " + bannerProdStyle.Render("PROD")
	}
	if m.version != "" {
		bar += "  " + mutedStyle.Render(m.version)
	}
	return bar
}

func (m Model) renderTabs() string {
	tabs := []struct {
		view  View
		key   string
		label string
	}{
		{ViewNamespaces, "1", "Namespaces"},
		{ViewRollouts, "2", "Rollouts"},
		{ViewRollout, "3", "Rollout"},
		{ViewEvents, "4", "Events"},
	}

	var parts []string
	for _, t := range tabs {
		label := fmt.Sprintf("[%s] %s", t.key, t.label)
		if t.view == ViewRollout && m.detail.name != "" {
			label += ": " + m.detail.name
		}
		active := m.view == t.view || ((m.view == ViewLogs || m.view == ViewYAML) && m.prevView == t.view)
		if active {
			parts = append(parts, tabActiveStyle.Render(label))
		} else {
			parts = append(parts, tabInactiveStyle.Render(label))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderContent() string {
	ch := m.contentHeight()
	frame := m.spinner.View()
	switch m.view {
	case ViewNamespaces:
		return renderNamespaceList(m.filteredNamespaces(), m.cursor, m.width, ch, m.client.GetNamespace())
	case ViewRollouts:
		return renderRolloutList(m.filteredRollouts(), m.sortState[ViewRollouts], m.cursor, m.width, ch, frame)
	case ViewRollout:
		return renderRolloutDetail(&m.detail, frame, m.width, ch)
	case ViewEvents:
		return renderEventList(m.eventsFor, m.filteredEvents(), m.sortState[ViewEvents], m.cursor, m.width, ch)
	case ViewLogs:
		return renderLogs(&m.logState, m.width, ch)
	case ViewYAML:
		return renderYAMLView(&m.yamlState, m.width, ch)
	default:
		return ""
	}
}

func (m Model) renderStatusBar() string {
	var helpText string
	switch m.view {
	case ViewNamespaces:
		helpText = namespaceHelpKeys()
	case ViewRollouts:
		helpText = rolloutHelpKeys()
	case ViewRollout:
		helpText = detailHelpKeys()
	case ViewEvents:
		helpText = eventHelpKeys()
	case ViewLogs:
		helpText = logHelpKeys(m.logState.previous, m.logState.wrap)
	case ViewYAML:
		helpText = yamlHelpKeys()
	}

	nsInfo := ""
	if m.client != nil {
		nsInfo = m.client.GetNamespace()
	}

	liveIndicator := ""
	if m.watching {
		liveIndicator = liveStyle.Render(" ● LIVE")
	}
	var itemInfo string
	switch m.view {
	case ViewLogs:
		itemInfo = fmt.Sprintf("%d lignes", len(m.logState.lines))
	case ViewYAML:
		itemInfo = fmt.Sprintf("%d lignes", len(m.yamlState.lines))
	case ViewRollout:
		itemInfo = fmt.Sprintf("%d pods", len(m.detail.pods()))
	default:
		itemInfo = fmt.Sprintf("%d items", m.listLen())
	}
	left := fmt.Sprintf(" %s | %s | %s%s", m.view.String(), nsInfo, itemInfo, liveIndicator)
	return statusBarStyle.Width(m.width).Render(left + "  " + helpText)
}

func (m Model) renderErrorScreen() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(errorScreenStyle.Render("ROLLOUTS TUI - Erreur de connexion"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  %s\n", m.startupErr.Error()))
	b.WriteString("\n")
	b.WriteString("  [r] Réessayer  [q] Quitter\n")

	lines := strings.Count(b.String(), "\n")
	for i := lines; i < m.height; i++ {
		b.WriteString("\n")
	}
	return b.String()
}

// --- Helpers ---

func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen == 1 {
		return string(runes[:1])
	}
	return string(runes[:maxLen-1]) + "…"
}

func encodeBase64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}
