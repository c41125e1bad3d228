// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transcript is the append-only display log of a conversation.
//
// The View interface is what the controller writes to: turns, the
// transient composing indicator, and deferred play affordances for
// replies that carry audio. Buffer is the in-memory View shared by the
// TUI, the line-mode REPL and the HTML exporter.
//
// A PlayButton plays its clip once per activation and refuses activation
// while playing. Different buttons may play at the same time.
package transcript
