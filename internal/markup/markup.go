// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markup

import (
	"html"
	"regexp"
)

// Renderer converts assistant text into display markup.
// Implementations are total: Render never fails.
type Renderer interface {
	Render(raw string) string
}

// RendererFunc adapts a plain function to the Renderer interface.
type RendererFunc func(raw string) string

// Render calls f(raw).
func (f RendererFunc) Render(raw string) string {
	return f(raw)
}

// AsteriskClass is the CSS class of the span produced by Preprocess.
const AsteriskClass = "asterisk"

// asteriskPattern matches "***X**" non-greedily within a line.
var asteriskPattern = regexp.MustCompile(`\*\*\*(.*?)\*\*`)

// Preprocess rewrites every "***X**" into a styled span wrapping a
// double-emphasised X. It runs before markdown conversion.
func Preprocess(raw string) string {
	return asteriskPattern.ReplaceAllString(raw, `<span class="`+AsteriskClass+`">**$1**</span>`)
}

// PreprocessPlain rewrites every "***X**" into "**X**" for renderers that
// cannot carry raw HTML.
func PreprocessPlain(raw string) string {
	return asteriskPattern.ReplaceAllString(raw, `**$1**`)
}

// Literal escapes user text for inclusion in HTML output.
func Literal(text string) string {
	return html.EscapeString(text)
}
