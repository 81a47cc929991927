package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type testClock struct{ t time.Time }

func (c *testClock) now() time.Time          { return c.t }
func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type effectMsg struct{}

func newTestButton(clock *testClock, calls *int) *ActionButton {
	return &ActionButton{
		ID:              btnPromote,
		Label:           "Promote",
		IndicateLoading: true,
		Action: func() tea.Msg {
			*calls++
			return effectMsg{}
		},
		now: clock.now,
	}
}

func TestActionButton_DisabledNeverRunsEffect(t *testing.T) {
	clock := &testClock{t: time.Unix(0, 0)}
	calls := 0
	b := newTestButton(clock, &calls)
	b.Disabled = true

	for i := 0; i < 3; i++ {
		if cmd := b.Press(); cmd != nil {
			if msg := cmd(); msg != nil {
				t.Fatalf("disabled press produced %T", msg)
			}
		}
	}
	if calls != 0 {
		t.Errorf("effect calls = %d, want 0", calls)
	}
	if b.Loading() {
		t.Error("disabled button should never be loading")
	}
}

func TestActionButton_RunsEffectOncePerPress(t *testing.T) {
	clock := &testClock{t: time.Unix(0, 0)}
	calls := 0
	b := newTestButton(clock, &calls)

	effect, tick := b.press()
	if effect == nil || tick == nil {
		t.Fatal("press should return an effect and a loading tick")
	}
	if _, ok := effect().(effectMsg); !ok {
		t.Error("effect did not return the action message")
	}
	if calls != 1 {
		t.Errorf("effect calls = %d, want 1", calls)
	}
}

func TestActionButton_LoadingClearsAfterOneSecond(t *testing.T) {
	clock := &testClock{t: time.Unix(0, 0)}
	calls := 0
	b := newTestButton(clock, &calls)

	b.press()
	if !b.Loading() {
		t.Fatal("Loading() = false right after press")
	}
	clock.advance(999 * time.Millisecond)
	if !b.Loading() {
		t.Error("Loading() = false before 1s elapsed")
	}
	clock.advance(time.Millisecond)
	if b.Loading() {
		t.Error("Loading() = true after 1s")
	}
}

func TestActionButton_TickClearsLoading(t *testing.T) {
	clock := &testClock{t: time.Unix(0, 0)}
	calls := 0
	b := newTestButton(clock, &calls)

	b.press()
	if !b.Update(actionButtonTickMsg{id: b.ID, gen: b.gen}) {
		t.Fatal("tick addressed to the button was not handled")
	}
	if b.Loading() {
		t.Error("Loading() = true after matching tick")
	}
}

func TestActionButton_RepressRestartsTimer(t *testing.T) {
	clock := &testClock{t: time.Unix(0, 0)}
	calls := 0
	b := newTestButton(clock, &calls)

	effect, _ := b.press()
	effect()
	firstGen := b.gen
	clock.advance(600 * time.Millisecond)
	effect, _ = b.press()
	effect()

	b.Update(actionButtonTickMsg{id: b.ID, gen: firstGen})
	if !b.Loading() {
		t.Error("stale tick from the first press cleared loading")
	}
	clock.advance(600 * time.Millisecond)
	if !b.Loading() {
		t.Error("timer was not restarted by the second press")
	}
	clock.advance(400 * time.Millisecond)
	if b.Loading() {
		t.Error("Loading() = true 1s after the second press")
	}
	if calls != 2 {
		t.Errorf("effect calls = %d, want 2", calls)
	}
}

func TestActionButton_ReleaseCancelsPendingTick(t *testing.T) {
	clock := &testClock{t: time.Unix(0, 0)}
	calls := 0
	b := newTestButton(clock, &calls)

	b.press()
	gen := b.gen
	b.Release()
	if b.Loading() {
		t.Error("Loading() = true after Release")
	}

	b.press()
	b.Update(actionButtonTickMsg{id: b.ID, gen: gen})
	if !b.Loading() {
		t.Error("tick issued before Release cleared a later press")
	}
}

func TestActionButton_IgnoresOtherMessages(t *testing.T) {
	b := &ActionButton{ID: btnAbort}
	if b.Update(actionButtonTickMsg{id: btnRetry, gen: 0}) {
		t.Error("tick for another button was handled")
	}
	if b.Update(tea.KeyMsg{}) {
		t.Error("unrelated message was handled")
	}
}

func TestActionButton_WithoutLoadingIndication(t *testing.T) {
	calls := 0
	b := &ActionButton{ID: btnRestart, Action: func() tea.Msg { calls++; return nil }}

	effect, tick := b.press()
	if tick != nil {
		t.Error("no tick expected without IndicateLoading")
	}
	effect()
	if calls != 1 || b.Loading() {
		t.Errorf("calls = %d, loading = %v", calls, b.Loading())
	}
}
