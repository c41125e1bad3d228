// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markup

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// Terminal style names accepted by NewTermRenderer.
const (
	StyleAuto  = "auto"
	StyleDark  = "dark"
	StyleLight = "light"
	StylePlain = "notty"
)

// TermRenderer renders markdown to styled terminal output with glamour.
type TermRenderer struct {
	mu       sync.Mutex
	renderer *glamour.TermRenderer
	style    string
	width    int
}

// NewTermRenderer creates a terminal renderer for the given style and wrap
// width. An unknown style falls back to auto detection.
func NewTermRenderer(style string, width int) *TermRenderer {
	if width <= 0 {
		width = 80
	}
	t := &TermRenderer{style: style, width: width}
	t.renderer = newGlamour(style, width)
	return t
}

func newGlamour(style string, width int) *glamour.TermRenderer {
	var styleOpt glamour.TermRendererOption
	switch style {
	case StyleDark, StyleLight, StylePlain:
		styleOpt = glamour.WithStandardStyle(style)
	default:
		styleOpt = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return nil
	}
	return r
}

// Width returns the current wrap width.
func (t *TermRenderer) Width() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.width
}

// SetWidth rebuilds the renderer for a new wrap width.
func (t *TermRenderer) SetWidth(width int) {
	if width <= 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if width == t.width {
		return
	}
	t.width = width
	t.renderer = newGlamour(t.style, width)
}

// Render converts raw assistant text to styled terminal output.
func (t *TermRenderer) Render(raw string) string {
	t.mu.Lock()
	r := t.renderer
	t.mu.Unlock()

	if r == nil {
		return raw
	}
	out, err := r.Render(PreprocessPlain(raw))
	if err != nil {
		return raw
	}
	return strings.Trim(out, "\n")
}
