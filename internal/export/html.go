// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/jeranaias/edugenius-tui/internal/markup"
	"github.com/jeranaias/edugenius-tui/internal/model"
	"github.com/jeranaias/edugenius-tui/internal/transcript"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter renders a transcript as a self-contained page that looks and
// behaves like the browser client: user turns as literal text, assistant
// turns through the markup renderer, and a play button for every spoken reply.
type HTMLExporter struct {
	options  *Options
	renderer markup.Renderer
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts, renderer: markup.NewHTMLRenderer()}
}

// WithRenderer replaces the assistant markup renderer.
func (e *HTMLExporter) WithRenderer(r markup.Renderer) *HTMLExporter {
	e.renderer = r
	return e
}

// Export converts a transcript to HTML.
func (e *HTMLExporter) Export(tr *Transcript) ([]byte, error) {
	if err := tr.validate(); err != nil {
		return nil, err
	}

	theme := e.options.Theme
	if theme != "dark" {
		theme = "light"
	}

	var sb strings.Builder

	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang=\"en\">\n")
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", html.EscapeString(tr.Title)))
	sb.WriteString("    <meta name=\"generator\" content=\"edugenius\">\n")
	sb.WriteString(fmt.Sprintf("    <meta name=\"date\" content=\"%s\">\n", tr.CreatedAt.Format(time.RFC3339)))
	sb.WriteString(htmlCSS)
	sb.WriteString("</head>\n")
	sb.WriteString(fmt.Sprintf("<body class=\"%s-theme\">\n", theme))
	sb.WriteString("    <div class=\"container\">\n")

	sb.WriteString(e.renderHeader(tr))

	sb.WriteString("        <main class=\"chat-container\">\n")
	for _, entry := range tr.Entries {
		sb.WriteString(e.renderEntry(entry))
	}
	sb.WriteString("        </main>\n")

	sb.WriteString("        <footer class=\"footer\">\n")
	sb.WriteString(fmt.Sprintf("            <p>Exported from <strong>EduGenius</strong> on %s</p>\n",
		tr.ExportedAt.Format("January 2, 2006 at 3:04 PM")))
	sb.WriteString("        </footer>\n")
	sb.WriteString("    </div>\n")
	sb.WriteString(htmlScript)
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

// =============================================================================
// RENDERING FUNCTIONS
// =============================================================================

func (e *HTMLExporter) renderHeader(tr *Transcript) string {
	var sb strings.Builder

	sb.WriteString("        <header class=\"header\">\n")
	sb.WriteString(fmt.Sprintf("            <h1>%s</h1>\n", html.EscapeString(tr.Title)))
	sb.WriteString("            <div class=\"metadata\">\n")
	if tr.Backend != "" {
		sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Backend:</strong> %s</span>\n", html.EscapeString(tr.Backend)))
	}
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Started:</strong> %s</span>\n", formatTimestamp(tr.CreatedAt)))
	sb.WriteString(fmt.Sprintf("                <span class=\"meta-item\"><strong>Turns:</strong> %d</span>\n", len(tr.Entries)))
	sb.WriteString("            </div>\n")
	sb.WriteString("        </header>\n")

	return sb.String()
}

// renderEntry mirrors the browser client's message markup: user-message and
// bot-message blocks, each with a message-content div.
func (e *HTMLExporter) renderEntry(entry transcript.Entry) string {
	turn := entry.Turn
	var sb strings.Builder

	class := "bot-message"
	if turn.Role == model.RoleUser {
		class = "user-message"
	}
	if turn.Failed {
		class += " failed"
	}
	sb.WriteString(fmt.Sprintf("            <div class=\"%s\" id=\"turn-%s\">\n", class, html.EscapeString(string(entry.Handle))))

	if e.options.IncludeTimestamps && !entry.Timestamp.IsZero() {
		sb.WriteString(fmt.Sprintf("                <div class=\"message-header\"><span class=\"role-label\">%s</span><span class=\"timestamp\">%s</span></div>\n",
			html.EscapeString(turn.Role.DisplayName()), formatShortTimestamp(entry.Timestamp)))
	}

	sb.WriteString("                <div class=\"message-content\">")
	if turn.Role == model.RoleUser || turn.Failed {
		sb.WriteString(markup.Literal(turn.Source))
	} else {
		sb.WriteString(e.renderer.Render(turn.Source))
	}
	sb.WriteString("</div>\n")

	if turn.Attachment != "" {
		sb.WriteString(fmt.Sprintf("                <div class=\"attachment\">📎 %s</div>\n", html.EscapeString(turn.Attachment)))
	}

	if entry.Play != nil && entry.Play.ClipBase64() != "" {
		sb.WriteString(fmt.Sprintf("                <button class=\"play-btn\" data-audio=\"data:audio/%s;base64,%s\">%s</button>\n",
			html.EscapeString(entry.Play.Format()),
			entry.Play.ClipBase64(),
			transcript.PlayLabel))
	}

	sb.WriteString("            </div>\n")
	return sb.String()
}

// =============================================================================
// EMBEDDED CSS AND JAVASCRIPT
// =============================================================================

const htmlCSS = `    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        .light-theme {
            --bg-primary: #f4f6fb;
            --bg-secondary: #ffffff;
            --text-primary: #24292e;
            --text-muted: #6a737d;
            --border-color: #e1e4e8;
            --user-bg: #4a6cf7;
            --user-text: #ffffff;
            --bot-bg: #f1f3f8;
            --accent: #4a6cf7;
            --accent-warn: #d97706;
            --error: #d73a49;
        }

        .dark-theme {
            --bg-primary: #1a1b26;
            --bg-secondary: #24283b;
            --text-primary: #c0caf5;
            --text-muted: #565f89;
            --border-color: #414868;
            --user-bg: #3d59a1;
            --user-text: #ffffff;
            --bot-bg: #1f2335;
            --accent: #7aa2f7;
            --accent-warn: #e0af68;
            --error: #f7768e;
        }

        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            font-size: 16px;
            line-height: 1.6;
            color: var(--text-primary);
            background: var(--bg-primary);
            padding: 20px;
        }

        .container {
            max-width: 900px;
            margin: 0 auto;
            background: var(--bg-secondary);
            border-radius: 12px;
            box-shadow: 0 4px 6px rgba(0, 0, 0, 0.1);
            overflow: hidden;
        }

        .header {
            padding: 24px 32px;
            border-bottom: 2px solid var(--border-color);
        }

        .header h1 {
            font-size: 24px;
            margin-bottom: 8px;
        }

        .metadata {
            display: flex;
            flex-wrap: wrap;
            gap: 16px;
            font-size: 14px;
            color: var(--text-muted);
        }

        .chat-container {
            display: flex;
            flex-direction: column;
            gap: 16px;
            padding: 24px 32px;
        }

        .user-message, .bot-message {
            max-width: 80%;
            padding: 12px 16px;
            border-radius: 12px;
        }

        .user-message {
            align-self: flex-end;
            background: var(--user-bg);
            color: var(--user-text);
        }

        .user-message .message-content {
            white-space: pre-wrap;
        }

        .bot-message {
            align-self: flex-start;
            background: var(--bot-bg);
        }

        .bot-message.failed {
            border-left: 4px solid var(--error);
        }

        .message-header {
            display: flex;
            justify-content: space-between;
            gap: 12px;
            font-size: 13px;
            opacity: 0.8;
            margin-bottom: 4px;
        }

        .message-content p {
            margin-bottom: 8px;
        }

        .message-content p:last-child {
            margin-bottom: 0;
        }

        .message-content ul, .message-content ol {
            padding-left: 24px;
            margin-bottom: 8px;
        }

        .message-content pre {
            background: var(--bg-primary);
            border: 1px solid var(--border-color);
            border-radius: 6px;
            padding: 12px;
            overflow-x: auto;
        }

        .message-content table {
            border-collapse: collapse;
            margin: 8px 0;
        }

        .message-content th, .message-content td {
            border: 1px solid var(--border-color);
            padding: 4px 8px;
        }

        .asterisk {
            color: var(--accent-warn);
        }

        .attachment {
            margin-top: 6px;
            font-size: 13px;
            opacity: 0.85;
        }

        .play-btn {
            margin-top: 8px;
            padding: 4px 12px;
            border: 1px solid var(--accent);
            border-radius: 16px;
            background: transparent;
            color: var(--accent);
            cursor: pointer;
        }

        .play-btn:disabled {
            opacity: 0.6;
            cursor: default;
        }

        .footer {
            padding: 16px 32px;
            font-size: 13px;
            color: var(--text-muted);
            border-top: 1px solid var(--border-color);
        }

        @media print {
            .play-btn {
                display: none;
            }
        }
    </style>
`

const htmlScript = `    <script>
        document.querySelectorAll('.play-btn').forEach(function(btn) {
            btn.addEventListener('click', function() {
                const audio = new Audio(btn.dataset.audio);
                btn.disabled = true;
                btn.textContent = '` + transcript.PlayingLabel + `';
                const reset = function() {
                    btn.disabled = false;
                    btn.textContent = '` + transcript.PlayLabel + `';
                };
                audio.onended = reset;
                audio.onerror = reset;
                audio.play().catch(reset);
            });
        });
    </script>
`
