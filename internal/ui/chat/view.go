// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/patrickmn/go-cache"

	"github.com/jeranaias/edugenius-tui/internal/model"
	"github.com/jeranaias/edugenius-tui/internal/transcript"
	"github.com/jeranaias/edugenius-tui/internal/util"
)

const welcomeText = `Welcome to EduGenius.

Type a question and press Enter, or press Ctrl+R to ask by voice.
Press Ctrl+O to attach a document; your next question is answered from it.`

// =============================================================================
// MAIN RENDER
// =============================================================================

// renderChat renders the complete chat view.
// Layout: header (1 line) + transcript (viewport) + input (3 lines) + status (1 line)
// The viewport height is set in handleResize from the same constants.
func (m Model) renderChat() string {
	if !m.ready || m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := m.renderHeader()
	input := m.renderInput()
	status := m.renderStatusBar()

	available := m.height - lipgloss.Height(header) - lipgloss.Height(input) - lipgloss.Height(status)
	if available < 1 {
		available = 1
	}

	messages := m.viewport.View()
	if lipgloss.Height(messages) != available {
		messages = lipgloss.NewStyle().
			Height(available).
			MaxHeight(available).
			Width(m.width).
			Render(messages)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, messages, input, status)
}

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("EduGenius")
	sub := ""
	if m.backendURL != "" {
		room := m.width - lipgloss.Width(title) - 5
		if room > 0 {
			sub = " " + m.theme.HeaderSub.Render(util.Truncate(m.backendURL, room))
		}
	}
	return m.theme.Header.Width(m.width).MaxHeight(1).Render(title + sub)
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// updateViewport rebuilds the transcript and scrolls to the latest turn.
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages())
	m.viewport.GotoBottom()
}

func (m *Model) renderMessages() string {
	entries := m.buffer.Entries()
	if len(entries) == 0 && !m.buffer.Composing() {
		if m.showWelcome {
			return m.renderWelcome()
		}
		return ""
	}

	var sb strings.Builder
	for i, e := range entries {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(m.renderEntry(e))
		sb.WriteString("\n")
	}

	if m.buffer.Composing() {
		if len(entries) > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(m.spinner.View() + " " + m.theme.Composing.Render(composingText))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m *Model) renderWelcome() string {
	width := m.theme.ContentWidth(m.wordWrap) - 4
	return m.theme.Welcome.Width(width).Render(welcomeText)
}

func (m *Model) renderEntry(e transcript.Entry) string {
	width := m.theme.ContentWidth(m.wordWrap)
	stamp := m.theme.Timestamp.Render(e.Timestamp.Format("15:04"))

	var lines []string
	if e.Turn.Role == model.RoleUser {
		lines = append(lines, m.theme.UserLabel.Render("You")+" "+stamp)
		lines = append(lines, m.theme.UserText.Width(width-2).Render(e.Turn.Source))
		if e.Turn.Attachment != "" {
			lines = append(lines, m.theme.Attachment.Render("📎 "+e.Turn.Attachment))
		}
		return strings.Join(lines, "\n")
	}

	lines = append(lines, m.theme.AssistantLabel.Render("EduGenius")+" "+stamp)
	if e.Turn.Failed {
		lines = append(lines, m.theme.FailedText.Width(width-2).Render(e.Turn.Source))
	} else {
		lines = append(lines, strings.TrimRight(m.renderAssistant(e, width), "\n"))
	}
	if e.Play != nil {
		lines = append(lines, m.renderPlayButton(e.Play))
	}
	return strings.Join(lines, "\n")
}

// renderAssistant renders an assistant turn's markup, caching by handle and
// width since replies never change once appended.
func (m *Model) renderAssistant(e transcript.Entry, width int) string {
	cacheKey := fmt.Sprintf("%s:%d", e.Handle, width)
	if cached, ok := m.renders.Get(cacheKey); ok {
		return cached.(string)
	}
	out := m.renderer.Render(e.Turn.Source)
	m.renders.Set(cacheKey, out, cache.DefaultExpiration)
	return out
}

func (m *Model) renderPlayButton(btn *transcript.PlayButton) string {
	label := "[" + btn.Label() + "]"
	if btn.Playing() {
		return m.theme.PlayingButton.Render(label)
	}
	hint := m.theme.ShortcutDesc.Render(" " + m.keyMap.Play.Help().Key)
	return m.theme.PlayButton.Render(label) + hint
}

// =============================================================================
// INPUT AND STATUS BAR
// =============================================================================

func (m Model) renderInput() string {
	line := m.input.View()
	if m.attaching {
		line = m.attachInput.View()
	}

	notice := ""
	if m.notice != "" {
		notice = m.theme.Notice.Render(util.Truncate(m.notice, max(m.width-4, 1)))
	}

	style := m.theme.InputContainer
	if m.locked {
		style = m.theme.InputLocked
	}
	return style.Width(m.width).Render(line + "\n" + notice)
}

func (m Model) renderStatusBar() string {
	var chips []string

	if m.recording {
		chips = append(chips, m.theme.RecordingChip.Render(m.spinner.View() + " REC"))
	}
	if m.docStaged {
		name := util.Truncate(m.docName, 28)
		chips = append(chips, m.theme.DocumentChip.Render("📎 "+name))
	}
	if m.locked && !m.recording {
		chips = append(chips, m.theme.BusyChip.Render("Busy"))
	}

	left := strings.Join(chips, "  ")
	right := m.renderShortcuts()

	gap := m.width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		right = ""
		gap = max(m.width-2-lipgloss.Width(left), 0)
	}
	return m.theme.StatusBar.Width(m.width).MaxHeight(1).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderShortcuts() string {
	bindings := []key.Binding{m.keyMap.Record, m.keyMap.Attach, m.keyMap.Play, m.keyMap.Export, m.keyMap.Quit}
	if m.docStaged {
		bindings = []key.Binding{m.keyMap.Record, m.keyMap.Detach, m.keyMap.Play, m.keyMap.Export, m.keyMap.Quit}
	}

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, m.theme.ShortcutKey.Render(h.Key)+" "+m.theme.ShortcutDesc.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}
