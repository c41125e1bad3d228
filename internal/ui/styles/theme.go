// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme modes accepted by NewTheme.
const (
	ModeAuto  = "auto"
	ModeDark  = "dark"
	ModeLight = "light"
	ModePlain = "notty"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// Terminal capabilities
	Mode         string
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER AND WELCOME
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderSub   lipgloss.Style
	Welcome     lipgloss.Style

	// ==========================================================================
	// TRANSCRIPT
	// ==========================================================================

	UserLabel      lipgloss.Style
	UserText       lipgloss.Style
	AssistantLabel lipgloss.Style
	FailedText     lipgloss.Style
	Attachment     lipgloss.Style
	PlayButton     lipgloss.Style
	PlayingButton  lipgloss.Style
	Timestamp      lipgloss.Style
	Composing      lipgloss.Style

	// ==========================================================================
	// INPUT AREA AND STATUS BAR
	// ==========================================================================

	InputContainer lipgloss.Style
	InputLocked    lipgloss.Style
	InputPrompt    lipgloss.Style
	StatusBar      lipgloss.Style
	DocumentChip   lipgloss.Style
	RecordingChip  lipgloss.Style
	BusyChip       lipgloss.Style
	Notice         lipgloss.Style
	ShortcutKey    lipgloss.Style
	ShortcutDesc   lipgloss.Style
}

// NewTheme creates a theme for mode ("auto", "dark", "light" or "notty").
// Forced modes also set lipgloss's background detection so AdaptiveColor
// values follow the choice.
func NewTheme(mode string) *Theme {
	mode = strings.ToLower(mode)

	t := &Theme{Mode: mode, ColorProfile: termenv.ColorProfile()}
	switch mode {
	case ModeDark:
		t.IsDark = true
		lipgloss.SetHasDarkBackground(true)
	case ModeLight:
		t.IsDark = false
		lipgloss.SetHasDarkBackground(false)
	case ModePlain:
		t.ColorProfile = termenv.Ascii
		lipgloss.SetColorProfile(termenv.Ascii)
	default:
		t.Mode = ModeAuto
		t.IsDark = termenv.HasDarkBackground()
	}

	t.initStyles()
	return t
}

// GlamourStyle returns the markup renderer style matching the theme.
func (t *Theme) GlamourStyle() string {
	switch t.Mode {
	case ModeDark, ModeLight, ModePlain:
		return t.Mode
	}
	if t.IsDark {
		return ModeDark
	}
	return ModeLight
}

func (t *Theme) initStyles() {
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo)

	t.HeaderSub = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.Welcome = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Indigo).
		Foreground(TextPrimary).
		Padding(1, 2).
		Margin(1, 2)

	t.UserLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(UserBubbleBorder)

	t.UserText = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(UserBubbleBorder).
		BorderLeft(true).
		PaddingLeft(1)

	t.AssistantLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(Teal)

	t.FailedText = lipgloss.NewStyle().
		Foreground(Rose).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Rose).
		BorderLeft(true).
		PaddingLeft(1)

	t.Attachment = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.PlayButton = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.PlayingButton = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Composing = lipgloss.NewStyle().
		Foreground(Teal).
		Italic(true)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputLocked = t.InputContainer.
		BorderForeground(TextMuted).
		Foreground(TextMuted)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Indigo).
		Bold(true)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.DocumentChip = lipgloss.NewStyle().
		Foreground(Emerald)

	t.RecordingChip = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.BusyChip = lipgloss.NewStyle().
		Foreground(Amber)

	t.Notice = lipgloss.NewStyle().
		Foreground(Amber)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Indigo).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)
}

// SetSize updates the theme's layout dimensions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// ContentWidth returns the usable width for transcript text.
func (t *Theme) ContentWidth(maxWrap int) int {
	w := t.Width - 4
	if maxWrap > 0 && w > maxWrap {
		w = maxWrap
	}
	if w < 20 {
		w = 20
	}
	return w
}
