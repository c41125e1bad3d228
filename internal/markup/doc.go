// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package markup turns assistant-authored markdown into display markup.
//
// Two renderers share one contract, Render(raw) string, and neither ever
// fails: on a conversion error the raw text is passed through.
//
//   - HTMLRenderer: goldmark with GFM, hard line breaks, typographic
//     punctuation and raw HTML passthrough. Used for HTML transcripts.
//   - TermRenderer: glamour styled ANSI output. Used by the TUI and CLI.
//
// Both apply the asterisk rewrite first: the backend writes "***Label:**"
// for emphasised labels, which generic parsers misread.
//
// User text must never reach a Renderer. Use Literal for it instead.
package markup
