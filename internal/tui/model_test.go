package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/webhookchat/internal/api"
	"github.com/diogo/webhookchat/internal/audio"
	"github.com/diogo/webhookchat/internal/chat"
	"github.com/diogo/webhookchat/internal/config"
	apierrors "github.com/diogo/webhookchat/internal/errors"
	"github.com/diogo/webhookchat/internal/models"
	"github.com/diogo/webhookchat/internal/render"
)

// fakeAudio is a minimal AudioControl with coordinator semantics
type fakeAudio struct {
	mu      sync.Mutex
	playing string
	toggles []string
	handled []audio.Event
	events  chan audio.Event
}

func newFakeAudio() *fakeAudio {
	return &fakeAudio{events: make(chan audio.Event, 4)}
}

func (f *fakeAudio) Toggle(url, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toggles = append(f.toggles, messageID)
	if f.playing == messageID {
		f.playing = ""
		return nil
	}
	f.playing = messageID
	return nil
}

func (f *fakeAudio) Start(url, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playing = messageID
	return nil
}

func (f *fakeAudio) IsPlaying(messageID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return messageID != "" && f.playing == messageID
}

func (f *fakeAudio) HandleEvent(ev audio.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handled = append(f.handled, ev)
	f.playing = ""
}

func (f *fakeAudio) Events() <-chan audio.Event {
	return f.events
}

func newTestModel(t *testing.T, client api.WebhookClientInterface, player *fakeAudio) Model {
	t.Helper()
	t.Setenv("GLAMOUR_STYLE", "notty")

	cfg := config.DefaultConfig()
	cfg.WebhookURL = "https://hook.example/abcdef"

	controller := chat.NewController(client, chat.WithPlayback(player))
	m := NewChatModel(context.Background(), controller, player, cfg)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+p":
		return tea.KeyMsg{Type: tea.KeyCtrlP}
	case "ctrl+y":
		return tea.KeyMsg{Type: tea.KeyCtrlY}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// collect runs cmd (and nested batches) and returns the messages produced quickly
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, collect(c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(500 * time.Millisecond):
		return nil
	}
}

func resolved(msgs []tea.Msg) (turnResolvedMsg, bool) {
	for _, msg := range msgs {
		if r, ok := msg.(turnResolvedMsg); ok {
			return r, true
		}
	}
	return turnResolvedMsg{}, false
}

// send types text, presses enter and feeds the resolution back into the model
func send(t *testing.T, m Model, text string) Model {
	t.Helper()
	m.textarea.SetValue(text)
	updated, cmd := m.Update(key("enter"))
	m = updated.(Model)

	r, ok := resolved(collect(cmd))
	require.True(t, ok, "enter should start a webhook request")

	updated, _ = m.Update(r)
	return updated.(Model)
}

func TestNewChatModelSeedsGreeting(t *testing.T) {
	m := newTestModel(t, &api.MockWebhookClient{}, newFakeAudio())

	view := m.View()
	assert.Contains(t, view, "AI Chatbot")
	assert.Contains(t, m.viewport.View(), "Hello! I'm your AI assistant")
	assert.NotContains(t, view, "abcdef", "the webhook secret must be masked")
}

func TestViewBeforeSize(t *testing.T) {
	controller := chat.NewController(&api.MockWebhookClient{})
	m := NewChatModel(context.Background(), controller, nil, config.DefaultConfig())
	assert.Contains(t, m.View(), "Initializing")
}

func TestEnterShowsPlaceholderImmediately(t *testing.T) {
	block := make(chan struct{})
	client := &api.MockWebhookClient{
		EndpointVal: "https://hook.example/abcdef",
		SendQueryFunc: func(ctx context.Context, query string) (*models.Reply, error) {
			<-block
			return api.ReplyFromRaw("late"), nil
		},
	}
	defer close(block)

	m := newTestModel(t, client, newFakeAudio())
	m.textarea.SetValue("hello")

	updated, cmd := m.Update(key("enter"))
	m = updated.(Model)
	require.NotNil(t, cmd)

	msgs := m.controller.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "hello", msgs[1].Text)
	assert.Equal(t, models.PlaceholderText, msgs[2].Text)
	assert.True(t, m.pending[msgs[2].ID])
	assert.Equal(t, "", m.textarea.Value(), "input is cleared after sending")
	assert.Contains(t, m.View(), "1 waiting")
}

func TestBlankEnterDoesNothing(t *testing.T) {
	client := &api.MockWebhookClient{EndpointVal: "https://hook.example/abcdef"}
	m := newTestModel(t, client, newFakeAudio())
	m.textarea.SetValue("   ")

	updated, cmd := m.Update(key("enter"))
	m = updated.(Model)

	assert.Nil(t, cmd)
	assert.Equal(t, 1, m.controller.Store().Len())
	assert.Equal(t, 0, client.QueryCount())
}

func TestReplyWithAudioAutoplays(t *testing.T) {
	client := &api.MockWebhookClient{
		EndpointVal:  "https://hook.example/abcdef",
		SendQueryVal: api.ReplyFromRaw("https://x/a.mp3, Hi there"),
	}
	player := newFakeAudio()
	m := newTestModel(t, client, player)

	m = send(t, m, "hello")

	last, ok := m.controller.Store().Last(models.SenderBot)
	require.True(t, ok)
	assert.Equal(t, "Hi there", last.Text)
	assert.True(t, player.IsPlaying(last.ID))
	assert.Empty(t, m.pending)
	assert.Contains(t, m.viewport.View(), "Playing...")
}

func TestFailedReplyIsMarked(t *testing.T) {
	client := &api.MockWebhookClient{
		EndpointVal:  "https://hook.example/abcdef",
		SendQueryErr: apierrors.NewAPIError(500, "", ""),
	}
	m := newTestModel(t, client, newFakeAudio())

	m = send(t, m, "hello")

	last, ok := m.controller.Store().Last(models.SenderBot)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(last.Text, "Error: "))
	assert.True(t, m.failed[last.ID])
}

func TestCtrlPTogglesLatestAudio(t *testing.T) {
	client := &api.MockWebhookClient{
		EndpointVal:  "https://hook.example/abcdef",
		SendQueryVal: api.ReplyFromRaw("https://x/a.mp3,first"),
	}
	player := newFakeAudio()
	m := newTestModel(t, client, player)
	m = send(t, m, "one")

	client.SendQueryVal = api.ReplyFromRaw("https://x/b.mp3,second")
	m = send(t, m, "two")

	latest, _ := m.controller.Store().LastWithAudio()
	require.True(t, player.IsPlaying(latest.ID))

	updated, _ := m.Update(key("ctrl+p"))
	m = updated.(Model)
	assert.False(t, player.IsPlaying(latest.ID), "ctrl+p pauses the playing clip")

	updated, _ = m.Update(key("ctrl+p"))
	m = updated.(Model)
	assert.True(t, player.IsPlaying(latest.ID))
	_ = m
}

func TestTabSelectsAudioMessage(t *testing.T) {
	client := &api.MockWebhookClient{
		EndpointVal:  "https://hook.example/abcdef",
		SendQueryVal: api.ReplyFromRaw("https://x/a.mp3,first"),
	}
	player := newFakeAudio()
	m := newTestModel(t, client, player)
	m = send(t, m, "one")
	client.SendQueryVal = api.ReplyFromRaw("https://x/b.mp3,second")
	m = send(t, m, "two")

	list := m.audioMessages()
	require.Len(t, list, 2)

	updated, _ := m.Update(key("tab"))
	m = updated.(Model)
	assert.Equal(t, list[0].ID, m.selected)

	updated, _ = m.Update(key("ctrl+p"))
	m = updated.(Model)
	assert.True(t, player.IsPlaying(list[0].ID), "ctrl+p plays the selected clip")
	assert.False(t, player.IsPlaying(list[1].ID))

	updated, _ = m.Update(key("tab"))
	m = updated.(Model)
	assert.Equal(t, list[1].ID, m.selected)

	updated, _ = m.Update(key("tab"))
	m = updated.(Model)
	assert.Equal(t, "", m.selected, "tab past the end returns to latest")

	updated, _ = m.Update(key("shift+tab"))
	m = updated.(Model)
	assert.Equal(t, list[1].ID, m.selected)

	updated, cmd := m.Update(key("esc"))
	m = updated.(Model)
	assert.Nil(t, cmd, "esc clears the selection before quitting")
	assert.Equal(t, "", m.selected)
}

func TestPlayerEventIsForwarded(t *testing.T) {
	player := newFakeAudio()
	m := newTestModel(t, &api.MockWebhookClient{}, player)

	ev := audio.Event{Kind: audio.EventEnded, Source: "https://x/a.mp3"}
	updated, cmd := m.Update(playerEventMsg{event: ev})
	_ = updated.(Model)

	require.Len(t, player.handled, 1)
	assert.Equal(t, ev, player.handled[0])
	assert.NotNil(t, cmd, "the model keeps listening for player events")

	player.events <- ev
	msgs := collect(cmd)
	require.Len(t, msgs, 1)
	assert.Equal(t, playerEventMsg{event: ev}, msgs[0])
}

func TestCopyReply(t *testing.T) {
	var copied string
	orig := writeClipboard
	writeClipboard = func(s string) error {
		copied = s
		return nil
	}
	defer func() { writeClipboard = orig }()

	client := &api.MockWebhookClient{
		EndpointVal:  "https://hook.example/abcdef",
		SendQueryVal: api.ReplyFromRaw("Plain **reply**"),
	}
	m := newTestModel(t, client, newFakeAudio())
	m = send(t, m, "hello")

	updated, cmd := m.Update(key("ctrl+y"))
	m = updated.(Model)

	assert.Equal(t, "Plain **reply**", copied)
	require.NotNil(t, m.toast)
	assert.Equal(t, toastSuccess, m.toast.kind)
	assert.NotNil(t, cmd)
}

func TestCopyFailureShowsErrorToast(t *testing.T) {
	orig := writeClipboard
	writeClipboard = func(string) error { return errors.New("no clipboard") }
	defer func() { writeClipboard = orig }()

	m := newTestModel(t, &api.MockWebhookClient{}, newFakeAudio())

	updated, _ := m.Update(key("ctrl+y"))
	m = updated.(Model)

	require.NotNil(t, m.toast)
	assert.Equal(t, toastError, m.toast.kind)
	assert.Contains(t, m.View(), "Copy failed")
}

func TestToastExpires(t *testing.T) {
	m := newTestModel(t, &api.MockWebhookClient{}, newFakeAudio())

	updated, _ := m.Update(key("ctrl+t"))
	m = updated.(Model)
	require.NotNil(t, m.toast)
	first := m.toast.id

	updated, _ = m.Update(key("ctrl+t"))
	m = updated.(Model)
	second := m.toast.id

	// a stale expiry leaves the newer toast alone
	updated, _ = m.Update(toastExpiredMsg{id: first})
	m = updated.(Model)
	require.NotNil(t, m.toast)

	updated, _ = m.Update(toastExpiredMsg{id: second})
	m = updated.(Model)
	assert.Nil(t, m.toast)
}

func TestThemeToggle(t *testing.T) {
	m := newTestModel(t, &api.MockWebhookClient{}, newFakeAudio())
	assert.Equal(t, config.ThemeDark, m.theme.Name)

	updated, _ := m.Update(key("ctrl+t"))
	m = updated.(Model)

	assert.Equal(t, config.ThemeLight, m.theme.Name)
	assert.Equal(t, render.LightTheme.Primary, m.styles.Theme.Primary)
	assert.Equal(t, "Light theme", m.toast.title)
	assert.Contains(t, m.View(), "light")
}

func TestQuitKeys(t *testing.T) {
	m := newTestModel(t, &api.MockWebhookClient{}, newFakeAudio())

	for _, k := range []string{"ctrl+c", "esc"} {
		_, cmd := m.Update(key(k))
		require.NotNil(t, cmd, k)
		assert.Equal(t, tea.Quit(), cmd(), k)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a b", truncate("a\nb", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
