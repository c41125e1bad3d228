// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/edugenius-tui/internal/controller"
	"github.com/jeranaias/edugenius-tui/internal/document"
	"github.com/jeranaias/edugenius-tui/internal/export"
	"github.com/jeranaias/edugenius-tui/internal/transcript"
	"github.com/jeranaias/edugenius-tui/internal/util"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case jobDoneMsg:
		m.inflight.clear()
		if !m.ctrl.Settle(msg.out) {
			m.logger.Debug("stale outcome ignored", zap.Stringer("kind", msg.out.Kind))
		}
		cmd := m.syncSurface()
		return m, cmd

	case docVanishedMsg:
		m.ctrl.DocumentVanished(msg.path)
		cmd := m.syncSurface()
		if m.watcher == nil {
			return m, cmd
		}
		return m, tea.Batch(cmd, m.watchDocuments())

	case playDoneMsg:
		var cmd tea.Cmd
		if msg.err != nil {
			m.logger.Warn("playback failed", zap.Error(msg.err))
			cmd = m.setNotice("Could not play the response audio.")
		}
		m.updateViewport()
		return m, tea.Batch(cmd, m.listen())

	case exportDoneMsg:
		var cmd tea.Cmd
		if msg.err != nil {
			m.logger.Warn("export failed", zap.Error(msg.err))
			cmd = m.setNotice(fmt.Sprintf("Export failed: %v", msg.err))
		} else {
			cmd = m.setNotice("Exported to " + msg.path)
		}
		return m, cmd

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case spinner.TickMsg:
		if !m.buffer.Composing() && !m.recording {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.updateViewport()
		return m, cmd
	}

	return m, nil
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(m.width, m.height)

	// header + status bar + input area (border, line, notice)
	const reserved = 1 + 1 + 3

	m.viewport.Width = max(m.width, 1)
	m.viewport.Height = max(m.height-reserved, 1)
	m.input.Width = max(m.width-6, 10)
	m.attachInput.Width = max(m.width-20, 10)

	m.renderer.SetWidth(m.theme.ContentWidth(m.wordWrap))
	m.ready = true
	m.updateViewport()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMap.Quit) {
		m.Close()
		return m, tea.Quit
	}

	if m.attaching {
		return m.handleAttachKey(msg)
	}

	switch {
	case key.Matches(msg, m.keyMap.Submit):
		return m.submit()

	case key.Matches(msg, m.keyMap.Record):
		return m.toggleRecording()

	case key.Matches(msg, m.keyMap.Attach):
		if m.locked {
			return m, nil
		}
		m.attaching = true
		m.input.Blur()
		m.attachInput.SetValue("")
		m.attachInput.Focus()
		return m, nil

	case key.Matches(msg, m.keyMap.Detach):
		if err := m.ctrl.DetachDocument(); err == nil && m.watcher != nil {
			m.watcher.Untrack()
		}
		cmd := m.syncSurface()
		return m, cmd

	case key.Matches(msg, m.keyMap.Play):
		return m.playLatest()

	case key.Matches(msg, m.keyMap.Export):
		cmd := m.exportTranscript()
		return m, cmd

	case key.Matches(msg, m.keyMap.Reset):
		if m.locked {
			return m, nil
		}
		m.inflight.clear()
		m.ctrl.Reset()
		m.buffer.Reset()
		m.renders.Flush()
		if m.watcher != nil {
			m.watcher.Untrack()
		}
		cmd := m.syncSurface()
		return m, cmd

	case key.Matches(msg, m.keyMap.PageUp, m.keyMap.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.locked {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.ctrl.SetInputText(m.input.Value())
	return m, cmd
}

func (m Model) handleAttachKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Cancel):
		m.closeAttachPrompt()
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		path := strings.TrimSpace(m.attachInput.Value())
		m.closeAttachPrompt()
		if path == "" {
			return m, nil
		}
		cmd := m.attach(path)
		return m, cmd
	}

	var cmd tea.Cmd
	m.attachInput, cmd = m.attachInput.Update(msg)
	return m, cmd
}

func (m *Model) closeAttachPrompt() {
	m.attaching = false
	m.attachInput.Blur()
	if !m.locked {
		m.input.Focus()
	}
}

// =============================================================================
// ACTIONS
// =============================================================================

// submit runs the accept phase inside Update so the user turn and the
// composing indicator are on screen before the request starts.
func (m Model) submit() (tea.Model, tea.Cmd) {
	job, err := m.ctrl.BeginSubmit(m.ctrl.InputText())
	if err != nil {
		if !errors.Is(err, controller.ErrBusy) && !errors.Is(err, controller.ErrEmptyInput) {
			m.logger.Warn("submit rejected", zap.Error(err))
		}
		return m, nil
	}
	sync := m.syncSurface()
	return m, tea.Batch(sync, m.runJob(job), m.spinner.Tick)
}

func (m Model) toggleRecording() (tea.Model, tea.Cmd) {
	job, err := m.ctrl.ToggleRecording(m.ctx)
	sync := m.syncSurface()
	if err != nil || job == nil {
		if err == nil {
			return m, tea.Batch(sync, m.spinner.Tick)
		}
		return m, sync
	}
	return m, tea.Batch(sync, m.runJob(job), m.spinner.Tick)
}

func (m Model) runJob(job *controller.Job) tea.Cmd {
	ctx := m.inflight.derive(m.ctx)
	return func() tea.Msg {
		return jobDoneMsg{out: job.Run(ctx)}
	}
}

func (m *Model) attach(path string) tea.Cmd {
	path = util.ExpandHome(path)
	doc, err := document.Load(path, int64(m.docMaxMB)<<20)
	if err != nil {
		m.logger.Info("attach failed", zap.Error(err))
		return m.setNotice("Cannot attach: " + err.Error())
	}
	if err := m.ctrl.AttachDocument(doc); err != nil {
		return m.syncSurface()
	}
	if m.watcher != nil {
		if err := m.watcher.Track(doc.Path); err != nil {
			m.logger.Debug("watch staged document", zap.Error(err))
		}
	}
	return m.syncSurface()
}

func (m Model) playLatest() (tea.Model, tea.Cmd) {
	if m.player == nil {
		cmd := m.setNotice("No audio player configured.")
		return m, cmd
	}
	btn, ok := m.buffer.LatestPlayable()
	if !ok {
		return m, nil
	}
	events := m.events
	err := btn.ActivateAsync(m.ctx, m.player, func(err error) {
		select {
		case events <- playDoneMsg{err: err}:
		default:
		}
	})
	if errors.Is(err, transcript.ErrAlreadyPlaying) {
		return m, nil
	}
	m.updateViewport()
	return m, nil
}

func (m *Model) exportTranscript() tea.Cmd {
	entries := m.buffer.Entries()
	if len(entries) == 0 {
		return m.setNotice("Nothing to export yet.")
	}
	opts := *m.exportOpts
	backendURL := m.backendURL
	return func() tea.Msg {
		tr := export.NewTranscript(entries)
		tr.Backend = backendURL
		path, err := export.ExportToFile(tr, export.NewHTMLExporter(&opts), &opts)
		return exportDoneMsg{path: path, err: err}
	}
}
