// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markup

import (
	"strings"
	"testing"
)

// =============================================================================
// PREPROCESS TESTS
// =============================================================================

func TestPreprocess(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "single label",
			in:   "***Important:** text",
			want: `<span class="asterisk">**Important:**</span> text`,
		},
		{
			name: "two labels on one line",
			in:   "***A:** x ***B:** y",
			want: `<span class="asterisk">**A:**</span> x <span class="asterisk">**B:**</span> y`,
		},
		{
			name: "plain bold untouched",
			in:   "**bold** text",
			want: "**bold** text",
		},
		{
			name: "no pattern",
			in:   "hello",
			want: "hello",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Preprocess(tc.in); got != tc.want {
				t.Errorf("Preprocess(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestPreprocessPlain(t *testing.T) {
	if got := PreprocessPlain("***Note:** read this"); got != "**Note:** read this" {
		t.Errorf("PreprocessPlain() = %q", got)
	}
}

func TestLiteral(t *testing.T) {
	in := `<b>**not bold**</b> & "quotes"`
	got := Literal(in)
	if strings.Contains(got, "<b>") {
		t.Errorf("Literal() left markup unescaped: %q", got)
	}
	if !strings.Contains(got, "**not bold**") {
		t.Errorf("Literal() should not interpret markdown: %q", got)
	}
}

// =============================================================================
// HTML RENDERER TESTS
// =============================================================================

func TestHTMLRenderer_AsteriskSpan(t *testing.T) {
	r := NewHTMLRenderer()
	got := r.Render("***Important:** text")

	if !strings.Contains(got, `<span class="asterisk"><strong>Important:</strong></span>`) {
		t.Errorf("Render() = %q, want styled span wrapping strong label", got)
	}
	if !strings.Contains(got, "text") {
		t.Errorf("Render() dropped trailing text: %q", got)
	}
}

func TestHTMLRenderer_Features(t *testing.T) {
	r := NewHTMLRenderer()

	tests := []struct {
		name     string
		in       string
		contains []string
		excludes []string
	}{
		{
			name:     "hard line breaks",
			in:       "line one\nline two",
			contains: []string{"<br>"},
		},
		{
			name:     "gfm table",
			in:       "| a | b |\n|---|---|\n| 1 | 2 |",
			contains: []string{"<table>", "<td>1</td>"},
		},
		{
			name:     "fenced code",
			in:       "```go\nfmt.Println(1)\n```",
			contains: []string{"<pre><code", "fmt.Println(1)"},
		},
		{
			name:     "autolink",
			in:       "see https://example.com now",
			contains: []string{`<a href="https://example.com">`},
		},
		{
			name:     "no heading ids",
			in:       "# Title",
			contains: []string{"<h1>Title</h1>"},
			excludes: []string{"id="},
		},
		{
			name:     "raw html passes through",
			in:       `<em class="x">hi</em>`,
			contains: []string{`<em class="x">hi</em>`},
		},
		{
			name:     "typographic dashes",
			in:       "a -- b",
			contains: []string{"&ndash;"},
		},
		{
			name:     "strikethrough",
			in:       "~~gone~~",
			contains: []string{"<del>gone</del>"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := r.Render(tc.in)
			for _, want := range tc.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Render(%q) = %q, want to contain %q", tc.in, got, want)
				}
			}
			for _, bad := range tc.excludes {
				if strings.Contains(got, bad) {
					t.Errorf("Render(%q) = %q, should not contain %q", tc.in, got, bad)
				}
			}
		})
	}
}

func TestHTMLRenderer_Deterministic(t *testing.T) {
	r := NewHTMLRenderer()
	in := "# Heading\n\n***Key:** value\n\n- one\n- two"
	if r.Render(in) != r.Render(in) {
		t.Error("Render() should be deterministic")
	}
}

func TestRendererFunc(t *testing.T) {
	var r Renderer = RendererFunc(strings.ToUpper)
	if got := r.Render("abc"); got != "ABC" {
		t.Errorf("RendererFunc.Render() = %q", got)
	}
}

// =============================================================================
// TERMINAL RENDERER TESTS
// =============================================================================

func TestTermRenderer_Plain(t *testing.T) {
	r := NewTermRenderer(StylePlain, 60)
	got := r.Render("***Important:** text")

	if !strings.Contains(got, "Important:") {
		t.Errorf("Render() = %q, want label", got)
	}
	if strings.Contains(got, "***") {
		t.Errorf("Render() left raw asterisks: %q", got)
	}
}

func TestTermRenderer_SetWidth(t *testing.T) {
	r := NewTermRenderer(StylePlain, 40)
	r.SetWidth(100)
	if r.Width() != 100 {
		t.Errorf("Width() = %d, want 100", r.Width())
	}
	r.SetWidth(0)
	if r.Width() != 100 {
		t.Errorf("SetWidth(0) should be ignored, Width() = %d", r.Width())
	}
}
