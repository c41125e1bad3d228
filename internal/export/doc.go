// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes a session transcript to a standalone file.
//
// # Key Types
//
//   - Transcript: The entries of one session plus a title and timestamps
//   - Exporter: Format implementation (HTML, Markdown, JSON)
//   - Options: Output directory and presentation settings
//
// # Supported Formats
//
//   - HTML: The browser rendering of the session, including working play
//     buttons for spoken replies
//   - Markdown: Assistant text as authored, user text quoted
//   - JSON: Machine-readable, audio omitted unless requested
//
// # Usage
//
//	tr := export.NewTranscript(buffer.Entries())
//	path, err := export.ExportToFile(tr, export.NewHTMLExporter(nil), opts)
package export
