package widget

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galihrivanto/tribfaucet/cooldown"
	"github.com/galihrivanto/tribfaucet/faucet"
	"github.com/galihrivanto/tribfaucet/storage"
)

func newTestModel(t *testing.T, claimer faucet.Claimer) (Model, *clock.Mock, *storage.Memory) {
	t.Helper()
	kv := storage.NewMemory()
	mock := clock.NewMock()
	mock.Set(base)
	toasts := &Toasts{}
	w := New(cooldown.NewTracker(cooldown.NewStore(kv), mock, nil), claimer, toasts, nil)
	return NewModel(context.Background(), w, toasts), mock, kv
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func TestModelTypingUpdatesAddress(t *testing.T) {
	m, _, _ := newTestModel(t, &fakeClaimer{})

	m = typeText(t, m, "0x742d")
	s := m.widget.State()
	assert.Equal(t, "0x742d", s.Address)
	assert.Contains(t, m.View(), "6/42")
	assert.False(t, s.CanSubmit())
}

func TestModelEnterIgnoredWhenDisabled(t *testing.T) {
	claimer := &fakeClaimer{}
	m, _, _ := newTestModel(t, claimer)

	m = typeText(t, m, "0x123")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.False(t, m.widget.State().Loading)
	assert.Equal(t, 0, claimer.calls)
}

func TestModelClaimFlow(t *testing.T) {
	claimer := &fakeClaimer{}
	m, _, kv := newTestModel(t, claimer)

	m = typeText(t, m, testAddress)
	require.True(t, m.widget.CanSubmit())

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.widget.State().Loading)
	assert.Contains(t, m.View(), "Claiming...")

	// second enter while pending does nothing
	_, again := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, again)

	msg := cmd()
	done, ok := msg.(claimDoneMsg)
	require.True(t, ok)
	assert.NoError(t, done.err)
	assert.Equal(t, 1, claimer.calls)

	m, _ = update(t, m, msg)
	s := m.widget.State()
	assert.False(t, s.Loading)
	assert.True(t, s.Success)

	_, stored, _ := kv.GetItem(cooldown.StorageKey)
	assert.True(t, stored)

	view := m.View()
	assert.Contains(t, view, "Tokens have been sent to your wallet!")
	assert.Contains(t, view, "Tokens claimed!")

	m, _ = update(t, m, tickMsg(time.Now()))
	assert.Equal(t, "24h 0m 0s", m.widget.State().TimeRemaining)
	assert.Contains(t, m.View(), "Next claim in 24h 0m 0s")
}

func TestModelClaimFailureShowsAlert(t *testing.T) {
	claimer := &fakeClaimer{err: &faucet.EndpointRejectedError{StatusCode: 400, Reason: "Invalid address"}}
	m, _, _ := newTestModel(t, claimer)

	m = typeText(t, m, testAddress)
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	m, _ = update(t, m, cmd())
	assert.Equal(t, "Invalid address", m.widget.State().Error)
	assert.True(t, strings.Count(m.View(), "Invalid address") >= 2, "inline alert and toast")
}

func TestModelInitialCountdown(t *testing.T) {
	kv := storage.NewMemory()
	mock := clock.NewMock()
	mock.Set(base)
	require.NoError(t, cooldown.NewStore(kv).Set(base.Add(-2*time.Hour)))

	toasts := &Toasts{}
	w := New(cooldown.NewTracker(cooldown.NewStore(kv), mock, nil), &fakeClaimer{}, toasts, nil)
	m := NewModel(context.Background(), w, toasts)

	assert.Equal(t, "22h 0m 0s", m.widget.State().TimeRemaining)

	mock.Add(time.Second)
	m, cmd := update(t, m, tickMsg(mock.Now()))
	assert.NotNil(t, cmd, "tick reschedules itself")
	assert.Equal(t, "21h 59m 59s", m.widget.State().TimeRemaining)
}

func TestModelToastsExpire(t *testing.T) {
	m, mock, _ := newTestModel(t, &fakeClaimer{})
	m.toasts.Notify(Notification{Level: LevelError, Title: "Claim failed", Detail: "x", At: mock.Now()})

	assert.Contains(t, m.View(), "Claim failed")

	mock.Add(ToastTTL)
	m, _ = update(t, m, tickMsg(mock.Now()))
	assert.NotContains(t, m.View(), "Claim failed")
}

func TestModelQuit(t *testing.T) {
	m, _, _ := newTestModel(t, &fakeClaimer{})

	for _, key := range []tea.KeyMsg{{Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		_, cmd := update(t, m, key)
		require.NotNil(t, cmd)
		_, ok := cmd().(tea.QuitMsg)
		assert.True(t, ok)
	}
}
