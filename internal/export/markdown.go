// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/edugenius-tui/internal/markup"
	"github.com/jeranaias/edugenius-tui/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports transcripts to Markdown. Assistant turns are
// written as authored; user turns are block-quoted so their text is never
// interpreted as markup.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a transcript to Markdown.
func (e *MarkdownExporter) Export(tr *Transcript) ([]byte, error) {
	if err := tr.validate(); err != nil {
		return nil, err
	}

	var sb strings.Builder

	sb.WriteString("---\n")
	sb.WriteString(fmt.Sprintf("title: %s\n", escapeYAML(tr.Title)))
	if tr.Backend != "" {
		sb.WriteString(fmt.Sprintf("backend: %s\n", escapeYAML(tr.Backend)))
	}
	sb.WriteString(fmt.Sprintf("date: %s\n", tr.CreatedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("turns: %d\n", len(tr.Entries)))
	sb.WriteString(fmt.Sprintf("exported: %s\n", tr.ExportedAt.Format(time.RFC3339)))
	sb.WriteString("generator: edugenius\n")
	sb.WriteString("---\n\n")

	sb.WriteString(fmt.Sprintf("# %s\n\n", escapeMarkdown(tr.Title)))

	for i, entry := range tr.Entries {
		turn := entry.Turn
		if e.options.IncludeTimestamps && !entry.Timestamp.IsZero() {
			sb.WriteString(fmt.Sprintf("### %s <sub>%s</sub>\n\n", turn.Role.DisplayName(), formatShortTimestamp(entry.Timestamp)))
		} else {
			sb.WriteString(fmt.Sprintf("### %s\n\n", turn.Role.DisplayName()))
		}

		switch {
		case turn.Role == model.RoleUser:
			sb.WriteString(quote(turn.Source))
		case turn.Failed:
			sb.WriteString(fmt.Sprintf("*%s*", escapeMarkdown(turn.Source)))
		default:
			sb.WriteString(markup.PreprocessPlain(strings.TrimSpace(turn.Source)))
		}
		sb.WriteString("\n\n")

		if turn.Attachment != "" {
			sb.WriteString(fmt.Sprintf("📎 *%s*\n\n", escapeMarkdown(turn.Attachment)))
		}
		if entry.Play != nil && entry.Play.ClipBase64() != "" {
			sb.WriteString("<sub>🔊 spoken reply available in the HTML export</sub>\n\n")
		}

		if i < len(tr.Entries)-1 {
			sb.WriteString("---\n\n")
		}
	}

	sb.WriteString("\n---\n\n")
	sb.WriteString(fmt.Sprintf("*Exported from EduGenius on %s*\n",
		tr.ExportedAt.Format("January 2, 2006 at 3:04 PM")))

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// =============================================================================
// ESCAPING HELPERS
// =============================================================================

func quote(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = "> " + escapeMarkdown(line)
	}
	return strings.Join(lines, "\n")
}

// escapeMarkdown escapes the characters that would change formatting.
func escapeMarkdown(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		"#", `\#`,
		"*", `\*`,
		"_", `\_`,
		"[", `\[`,
		"]", `\]`,
		"`", "\\`",
		"<", "&lt;",
	)
	return r.Replace(s)
}

// escapeYAML quotes values that YAML would otherwise misread.
func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#|>@`\"'[]{}!%&*\n\r\\") || strings.HasPrefix(s, " ") || strings.HasSuffix(s, " ") {
		s = strings.ReplaceAll(s, "\\", "\\\\")
		s = strings.ReplaceAll(s, "\"", "\\\"")
		s = strings.ReplaceAll(s, "\n", "\\n")
		s = strings.ReplaceAll(s, "\r", "\\r")
		return fmt.Sprintf("\"%s\"", s)
	}
	return s
}
