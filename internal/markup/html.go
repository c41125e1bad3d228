// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markup

import (
	"bytes"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// HTMLRenderer renders markdown to an HTML fragment.
//
// Options: soft breaks become <br>, GFM tables, strikethrough, autolinks
// and task lists are on, smart punctuation is on, raw HTML is passed
// through unsanitised, and headings get no id attributes.
//
// HTMLRenderer is safe for concurrent use.
type HTMLRenderer struct {
	md goldmark.Markdown
}

// NewHTMLRenderer creates an HTML renderer.
func NewHTMLRenderer() *HTMLRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
		),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
			gmhtml.WithUnsafe(),
		),
	)
	return &HTMLRenderer{md: md}
}

// Render converts raw assistant text to HTML.
func (r *HTMLRenderer) Render(raw string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(Preprocess(raw)), &buf); err != nil {
		return "<p>" + strings.ReplaceAll(html.EscapeString(raw), "\n", "<br>\n") + "</p>\n"
	}
	return buf.String()
}
