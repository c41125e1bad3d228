// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/jeranaias/edugenius-tui/internal/audio"
	"github.com/jeranaias/edugenius-tui/internal/controller"
	"github.com/jeranaias/edugenius-tui/internal/document"
	"github.com/jeranaias/edugenius-tui/internal/export"
	"github.com/jeranaias/edugenius-tui/internal/markup"
	"github.com/jeranaias/edugenius-tui/internal/transcript"
	"github.com/jeranaias/edugenius-tui/internal/ui/styles"
)

const (
	inputPlaceholder  = "Ask EduGenius anything..."
	lockedPlaceholder = "Waiting for EduGenius..."
	composingText     = "EduGenius is thinking"
	noticeDuration    = 6 * time.Second
)

// Options configures the chat screen.
type Options struct {
	// Controller, Buffer and Surface must be wired together: the buffer is
	// the controller's View and Surface its Surface. Use NewSurface.
	Controller *controller.Controller
	Buffer     *transcript.Buffer
	Surface    controller.Surface

	// Renderer draws assistant turns; it is resized with the window.
	Renderer *markup.TermRenderer

	// Player plays reply audio. Nil disables Ctrl+P.
	Player audio.Player

	// Watcher drops the staged document when its file disappears.
	Watcher *document.Watcher

	Theme  *styles.Theme
	Logger *zap.Logger

	BackendURL    string
	WordWrap      int
	ShowWelcome   bool
	DocumentMaxMB int
	ExportOptions *export.Options
}

// NewSurface returns the Surface to pass to controller.New before building
// the chat model with it.
func NewSurface() controller.Surface {
	return newSurfaceState()
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	ctrl     *controller.Controller
	buffer   *transcript.Buffer
	surface  *surfaceState
	renderer *markup.TermRenderer
	player   audio.Player
	watcher  *document.Watcher
	theme    *styles.Theme
	logger   *zap.Logger
	keyMap   KeyMap

	// Shared across model copies
	ctx      context.Context
	stop     context.CancelFunc
	inflight *cancelManager
	renders  *cache.Cache
	events   chan tea.Msg

	// Dimensions
	width  int
	height int
	ready  bool

	// UI Components
	viewport    viewport.Model
	input       textinput.Model
	attachInput textinput.Model
	spinner     spinner.Model

	// Mirrors of the surface
	locked    bool
	recording bool
	docName   string
	docStaged bool

	attaching   bool
	notice      string
	noticeSeq   int
	showWelcome bool

	backendURL string
	wordWrap   int
	docMaxMB   int
	exportOpts *export.Options
}

// New creates the chat model. It panics if opts.Surface was not created
// with NewSurface.
func New(opts Options) Model {
	surface, ok := opts.Surface.(*surfaceState)
	if !ok {
		panic("chat: Options.Surface must come from chat.NewSurface")
	}
	if opts.Theme == nil {
		opts.Theme = styles.NewTheme(styles.ModeAuto)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Renderer == nil {
		opts.Renderer = markup.NewTermRenderer(opts.Theme.GlamourStyle(), 80)
	}
	if opts.ExportOptions == nil {
		opts.ExportOptions = export.DefaultOptions()
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = inputPlaceholder
	ti.CharLimit = 8192
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.Focus()

	ai := textinput.New()
	ai.Prompt = "Attach file: "
	ai.Placeholder = "path/to/notes.pdf"
	ai.CharLimit = 4096
	ai.Cursor.SetMode(cursor.CursorStatic)

	sp := spinner.New()
	sp.Spinner = styles.DotsSpinner.Bubbles()
	sp.Style = opts.Theme.Composing

	ctx, stop := context.WithCancel(context.Background())

	return Model{
		ctrl:        opts.Controller,
		buffer:      opts.Buffer,
		surface:     surface,
		renderer:    opts.Renderer,
		player:      opts.Player,
		watcher:     opts.Watcher,
		theme:       opts.Theme,
		logger:      opts.Logger.Named("tui"),
		keyMap:      DefaultKeyMap(),
		ctx:         ctx,
		stop:        stop,
		inflight:    newCancelManager(),
		renders:     cache.New(30*time.Minute, 10*time.Minute),
		events:      make(chan tea.Msg, 8),
		viewport:    viewport.New(80, 20),
		input:       ti,
		attachInput: ai,
		spinner:     sp,
		showWelcome: opts.ShowWelcome,
		backendURL:  opts.BackendURL,
		wordWrap:    opts.WordWrap,
		docMaxMB:    opts.DocumentMaxMB,
		exportOpts:  opts.ExportOptions,
	}
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the background listeners.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.listen()}
	if m.watcher != nil {
		cmds = append(cmds, m.watchDocuments())
	}
	return tea.Batch(cmds...)
}

// View renders the screen.
func (m Model) View() string {
	return m.renderChat()
}

// listen delivers messages posted from background goroutines.
func (m Model) listen() tea.Cmd {
	events, ctx := m.events, m.ctx
	return func() tea.Msg {
		select {
		case msg := <-events:
			return msg
		case <-ctx.Done():
			return nil
		}
	}
}

// watchDocuments waits for the staged file to disappear.
func (m Model) watchDocuments() tea.Cmd {
	events, ctx := m.watcher.Events(), m.ctx
	return func() tea.Msg {
		select {
		case v, ok := <-events:
			if !ok {
				return nil
			}
			return docVanishedMsg{path: v.Path}
		case <-ctx.Done():
			return nil
		}
	}
}

// post queues msg for the listen loop without blocking.
func (m Model) post(msg tea.Msg) {
	select {
	case m.events <- msg:
	default:
		m.logger.Debug("event dropped", zap.Any("msg", msg))
	}
}

// =============================================================================
// SURFACE SYNC
// =============================================================================

// syncSurface applies what the controller reported since the last sync.
func (m *Model) syncSurface() tea.Cmd {
	u := m.surface.take()

	if u.recording != m.recording {
		m.recording = u.recording
		if m.recording {
			m.spinner.Spinner = styles.PulseSpinner.Bubbles()
		} else {
			m.spinner.Spinner = styles.DotsSpinner.Bubbles()
		}
	}
	m.docName = u.docName
	m.docStaged = u.docStaged

	if u.locked != m.locked {
		m.locked = u.locked
		if m.locked {
			m.input.Blur()
			m.input.Placeholder = lockedPlaceholder
		} else {
			m.input.Placeholder = inputPlaceholder
			if !m.attaching {
				m.input.Focus()
			}
		}
	}

	if u.inputDirty {
		m.input.SetValue(u.input)
		m.input.CursorEnd()
	}

	if m.buffer.Len() > 0 {
		m.showWelcome = false
	}

	var cmd tea.Cmd
	if n := len(u.notices); n > 0 {
		cmd = m.setNotice(u.notices[n-1])
	}
	m.updateViewport()
	return cmd
}

func (m *Model) setNotice(text string) tea.Cmd {
	m.noticeSeq++
	m.notice = text
	seq := m.noticeSeq
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

// Close cancels background work. The caller closes the controller.
func (m Model) Close() {
	m.inflight.clear()
	m.stop()
}
