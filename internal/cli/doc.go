// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the non-TUI commands of edugenius.
//
// Each command is returned as a *cli.Command for the urfave/cli application
// assembled in main. Commands share one environment (configuration, logger
// and backend client) built from the global flags by LoadEnv.
//
// # Commands
//
//   - ask QUESTION: one plain chat turn, reply printed to stdout
//   - doc FILE [QUESTION]: one document-chat turn with FILE attached
//   - transcribe [FILE.wav]: transcribe a recording, or record one now
//   - chat: line-mode conversation with slash commands
//   - status: backend reachability and effective settings
//   - config show|init|get|set|keys|path: configuration management
//   - logs: recent log entries
//   - version: build information
//
// # Output
//
// Colours follow the terminal: piped output and NO_COLOR disable them.
// Commands that take --json print a JSONResponse envelope instead of text.
package cli
