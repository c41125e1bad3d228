// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/edugenius-tui/internal/audio"
	"github.com/jeranaias/edugenius-tui/internal/backend"
	"github.com/jeranaias/edugenius-tui/internal/controller"
	"github.com/jeranaias/edugenius-tui/internal/export"
	"github.com/jeranaias/edugenius-tui/internal/markup"
	"github.com/jeranaias/edugenius-tui/internal/model"
	"github.com/jeranaias/edugenius-tui/internal/transcript"
	"github.com/jeranaias/edugenius-tui/internal/ui/styles"
)

// =============================================================================
// TEST DOUBLES
// =============================================================================

type stubBackend struct {
	chatFn       func(ctx context.Context, messages []model.Message) (*backend.Reply, error)
	transcribeFn func(ctx context.Context, clip audio.Clip) (string, error)

	mu       sync.Mutex
	docNames []string
}

func (b *stubBackend) Chat(ctx context.Context, messages []model.Message) (*backend.Reply, error) {
	if b.chatFn != nil {
		return b.chatFn(ctx, messages)
	}
	return &backend.Reply{Response: "ok"}, nil
}

func (b *stubBackend) DocumentChat(ctx context.Context, query string, doc backend.Upload) (*backend.Reply, error) {
	b.mu.Lock()
	b.docNames = append(b.docNames, doc.Filename)
	b.mu.Unlock()
	return &backend.Reply{Response: "from the document"}, nil
}

func (b *stubBackend) Transcribe(ctx context.Context, clip audio.Clip) (string, error) {
	if b.transcribeFn != nil {
		return b.transcribeFn(ctx, clip)
	}
	return "spoken question", nil
}

type stubRecorder struct {
	mu     sync.Mutex
	active *audio.Handle
}

func (r *stubRecorder) Start(ctx context.Context) (*audio.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = &audio.Handle{ID: "mic"}
	return r.active, nil
}

func (r *stubRecorder) Stop(h *audio.Handle) (audio.Clip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h != r.active {
		return audio.Clip{}, audio.ErrNoCapture
	}
	r.active = nil
	return audio.EncodeWAV([]byte{0, 1, 2, 3}, audio.DefaultFormat)
}

// =============================================================================
// HARNESS
// =============================================================================

type testEnv struct {
	backend *stubBackend
	buffer  *transcript.Buffer
	ctrl    *controller.Controller
}

func newTestModel(t *testing.T, configure func(*Options)) (Model, *testEnv) {
	t.Helper()

	env := &testEnv{backend: &stubBackend{}, buffer: transcript.NewBuffer()}
	surface := NewSurface()
	env.ctrl = controller.New(controller.Options{
		Backend:  env.backend,
		View:     env.buffer,
		Surface:  surface,
		Recorder: &stubRecorder{},
	})

	opts := Options{
		Controller:    env.ctrl,
		Buffer:        env.buffer,
		Surface:       surface,
		Renderer:      markup.NewTermRenderer(markup.StylePlain, 80),
		Theme:         styles.NewTheme(styles.ModePlain),
		BackendURL:    "http://localhost:5000",
		WordWrap:      100,
		ExportOptions: &export.Options{OutputDir: t.TempDir(), IncludeTimestamps: true},
	}
	if configure != nil {
		configure(&opts)
	}

	m := New(opts)
	t.Cleanup(m.Close)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model), env
}

func press(m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func typeText(m Model, text string) Model {
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

// execute runs cmd and any batched commands, dropping those that do not
// finish within the timeout (tickers and listeners).
func execute(cmd tea.Cmd, timeout time.Duration) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	select {
	case msg := <-done:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, execute(c, timeout)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(timeout):
		return nil
	}
}

// settle feeds finished jobs and exports back into the model.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, msg := range execute(cmd, 300*time.Millisecond) {
		switch msg.(type) {
		case jobDoneMsg, exportDoneMsg:
			next, _ := m.Update(msg)
			m = next.(Model)
		}
	}
	return m
}

func enter() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }

// =============================================================================
// SUBMISSION
// =============================================================================

func TestSubmit_ShowsTurnThenReply(t *testing.T) {
	m, env := newTestModel(t, nil)
	env.backend.chatFn = func(ctx context.Context, messages []model.Message) (*backend.Reply, error) {
		return &backend.Reply{Response: "Photosynthesis makes sugar."}, nil
	}

	m = typeText(m, "What is photosynthesis?")
	assert.Equal(t, "What is photosynthesis?", env.ctrl.InputText())
	m, cmd := press(m, enter())
	assert.Empty(t, env.ctrl.InputText())

	require.Equal(t, 1, env.buffer.Len())
	assert.True(t, env.buffer.Composing())
	assert.True(t, m.locked)
	assert.Empty(t, m.input.Value())
	view := m.View()
	assert.Contains(t, view, "What is photosynthesis?")
	assert.Contains(t, view, composingText)

	m = settle(t, m, cmd)

	require.Equal(t, 2, env.buffer.Len())
	assert.False(t, env.buffer.Composing())
	assert.False(t, m.locked)
	assert.Contains(t, m.View(), "Photosynthesis makes sugar.")
	assert.NotContains(t, m.View(), composingText)
}

func TestSubmit_FailureShowsErrorReply(t *testing.T) {
	m, env := newTestModel(t, nil)
	env.backend.chatFn = func(ctx context.Context, messages []model.Message) (*backend.Reply, error) {
		return nil, &backend.ClientError{Type: backend.ErrTypeChatFailed, Status: 500, Message: "boom"}
	}

	m = typeText(m, "Hi")
	m, cmd := press(m, enter())
	m = settle(t, m, cmd)

	entries := env.buffer.Entries()
	require.Len(t, entries, 2)
	assert.True(t, entries[1].Turn.Failed)
	assert.False(t, m.locked)
	assert.Contains(t, m.View(), controller.ErrorReplyText)
}

func TestSubmit_EmptyInputIgnored(t *testing.T) {
	m, env := newTestModel(t, nil)

	m, cmd := press(m, enter())

	assert.Nil(t, cmd)
	assert.Zero(t, env.buffer.Len())
	assert.False(t, m.locked)
}

func TestSubmit_InputLockedWhileBusy(t *testing.T) {
	m, env := newTestModel(t, nil)
	release := make(chan struct{})
	env.backend.chatFn = func(ctx context.Context, messages []model.Message) (*backend.Reply, error) {
		<-release
		return &backend.Reply{Response: "done"}, nil
	}

	m = typeText(m, "first")
	m, cmd := press(m, enter())
	require.True(t, m.locked)

	m = typeText(m, "second")
	m, again := press(m, enter())
	assert.Nil(t, again)
	assert.Empty(t, m.input.Value())
	assert.Equal(t, 1, env.buffer.Len())
	assert.Contains(t, m.View(), lockedPlaceholder)

	close(release)
	m = settle(t, m, cmd)
	assert.False(t, m.locked)
	assert.Equal(t, 2, env.buffer.Len())
}

func TestWelcome_HiddenAfterFirstTurn(t *testing.T) {
	m, _ := newTestModel(t, func(o *Options) { o.ShowWelcome = true })
	assert.Contains(t, m.View(), "Welcome to EduGenius")

	m = typeText(m, "Hi")
	m, cmd := press(m, enter())
	m = settle(t, m, cmd)

	assert.NotContains(t, m.View(), "Welcome to EduGenius")
}

// =============================================================================
// DOCUMENTS
// =============================================================================

func writeDoc(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("chapter one"), 0644))
	return path
}

func attachViaPrompt(t *testing.T, m Model, path string) Model {
	t.Helper()
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlO})
	require.True(t, m.attaching)
	m = typeText(m, path)
	m, _ = press(m, enter())
	require.False(t, m.attaching)
	return m
}

func TestAttach_StagesDocumentForNextQuestion(t *testing.T) {
	m, env := newTestModel(t, nil)
	path := writeDoc(t, "notes.txt")

	m = attachViaPrompt(t, m, path)
	assert.True(t, m.docStaged)
	assert.Equal(t, "notes.txt", m.docName)
	assert.Contains(t, m.View(), "notes.txt")

	m = typeText(m, "Summarize")
	m, cmd := press(m, enter())
	assert.False(t, m.docStaged)
	m = settle(t, m, cmd)

	entries := env.buffer.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "notes.txt", entries[0].Turn.Attachment)
	assert.Equal(t, "from the document", entries[1].Turn.Source)
	assert.Equal(t, []string{"notes.txt"}, env.backend.docNames)
}

func TestAttach_MissingFileShowsNotice(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m = attachViaPrompt(t, m, filepath.Join(t.TempDir(), "absent.pdf"))

	assert.False(t, m.docStaged)
	assert.True(t, strings.HasPrefix(m.notice, "Cannot attach"))
}

func TestAttach_EscapeCancelsPrompt(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlO})
	m = typeText(m, "whatever")
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, m.attaching)
	assert.False(t, m.docStaged)
	assert.Empty(t, m.input.Value())
}

func TestDetach_ClearsStagedDocument(t *testing.T) {
	m, env := newTestModel(t, nil)
	m = attachViaPrompt(t, m, writeDoc(t, "notes.txt"))

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlX})

	assert.False(t, m.docStaged)
	_, staged := env.ctrl.StagedDocument()
	assert.False(t, staged)
}

func TestDocumentVanished_UnstagesAndNotifies(t *testing.T) {
	m, env := newTestModel(t, nil)
	m = attachViaPrompt(t, m, writeDoc(t, "notes.txt"))
	doc, ok := env.ctrl.StagedDocument()
	require.True(t, ok)

	next, _ := m.Update(docVanishedMsg{path: doc.Path})
	m = next.(Model)

	assert.False(t, m.docStaged)
	assert.Equal(t, controller.DocumentVanishedNotice+"notes.txt", m.notice)
}

// =============================================================================
// VOICE
// =============================================================================

func TestRecording_TranscriptionFillsInput(t *testing.T) {
	m, env := newTestModel(t, nil)
	m = typeText(m, "draft")

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	require.True(t, m.recording)
	assert.Contains(t, m.View(), "REC")

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.False(t, m.recording)
	m = settle(t, m, cmd)

	assert.Equal(t, "spoken question", m.input.Value())
	assert.Equal(t, "spoken question", env.ctrl.InputText(), "transcription replaces the draft")
	assert.False(t, m.locked)
	assert.Zero(t, env.buffer.Len())
}

func TestRecording_FailedTranscriptionNotifies(t *testing.T) {
	m, env := newTestModel(t, nil)
	env.backend.transcribeFn = func(ctx context.Context, clip audio.Clip) (string, error) {
		return "", errors.New("speech service down")
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	m = settle(t, m, cmd)

	assert.Equal(t, controller.TranscriptionFailedNotice, m.notice)
	assert.Empty(t, m.input.Value())
}

// =============================================================================
// PLAYBACK
// =============================================================================

func TestPlay_DisablesButtonWhilePlaying(t *testing.T) {
	release := make(chan struct{})
	played := make(chan struct{}, 1)
	player := audio.PlayerFunc(func(ctx context.Context, clip audio.Clip) error {
		played <- struct{}{}
		<-release
		return nil
	})

	m, env := newTestModel(t, func(o *Options) { o.Player = player })
	env.backend.chatFn = func(ctx context.Context, messages []model.Message) (*backend.Reply, error) {
		return &backend.Reply{
			Response: "Listen to this",
			Audio:    &backend.AudioPayload{AudioContent: "aGVsbG8=", Format: "mp3"},
		}, nil
	}

	m = typeText(m, "Read it aloud")
	m, cmd := press(m, enter())
	m = settle(t, m, cmd)
	assert.Contains(t, m.View(), transcript.PlayLabel)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlP})
	<-played
	assert.Contains(t, m.View(), transcript.PlayingLabel)

	btn, ok := env.buffer.LatestPlayable()
	require.True(t, ok)
	assert.True(t, btn.Playing())

	close(release)
	select {
	case msg := <-m.events:
		next, _ := m.Update(msg)
		m = next.(Model)
	case <-time.After(2 * time.Second):
		t.Fatal("playback did not finish")
	}
	assert.False(t, btn.Playing())
	assert.Contains(t, m.View(), transcript.PlayLabel)
}

func TestPlay_WithoutPlayerShowsNotice(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlP})

	assert.Equal(t, "No audio player configured.", m.notice)
}

// =============================================================================
// EXPORT AND RESET
// =============================================================================

func TestExport_WritesHTMLTranscript(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m = typeText(m, "Hi")
	m, cmd := press(m, enter())
	m = settle(t, m, cmd)

	m, cmd = press(m, tea.KeyMsg{Type: tea.KeyCtrlE})
	m = settle(t, m, cmd)

	require.True(t, strings.HasPrefix(m.notice, "Exported to "), m.notice)
	path := strings.TrimPrefix(m.notice, "Exported to ")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ".html", filepath.Ext(path))
	assert.Contains(t, string(data), "user-message")
}

func TestExport_EmptyTranscript(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlE})

	assert.Equal(t, "Nothing to export yet.", m.notice)
}

func TestReset_StartsNewSession(t *testing.T) {
	m, env := newTestModel(t, nil)

	m = typeText(m, "Hi")
	m, cmd := press(m, enter())
	m = settle(t, m, cmd)
	require.Equal(t, 2, env.buffer.Len())

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlL})

	assert.Zero(t, env.buffer.Len())
	assert.Empty(t, env.ctrl.History())
	assert.NotContains(t, m.View(), "Hi")
}

// =============================================================================
// LAYOUT
// =============================================================================

func TestView_FillsWindow(t *testing.T) {
	m, _ := newTestModel(t, nil)

	lines := strings.Split(m.View(), "\n")
	assert.Len(t, lines, 30)
	assert.Contains(t, lines[0], "EduGenius")
	assert.Contains(t, lines[0], "localhost:5000")
}

func TestView_LoadingBeforeResize(t *testing.T) {
	surface := NewSurface()
	buf := transcript.NewBuffer()
	m := New(Options{
		Controller: controller.New(controller.Options{Backend: &stubBackend{}, View: buf, Surface: surface}),
		Buffer:     buf,
		Surface:    surface,
		Theme:      styles.NewTheme(styles.ModePlain),
	})
	defer m.Close()

	assert.Equal(t, "Loading...", m.View())
}

func TestNew_RequiresChatSurface(t *testing.T) {
	assert.Panics(t, func() {
		New(Options{Surface: controller.NopSurface{}, Buffer: transcript.NewBuffer()})
	})
}
