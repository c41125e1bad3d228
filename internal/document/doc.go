// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package document stages at most one file for the next document-chat turn.
//
// # Key Types
//
//   - Document: A file reference with display name, size and content type
//   - Session: Holds the staged document; attach replaces, detach clears
//   - Watcher: Reports when the staged file is removed or renamed on disk
//
// Session does not know about the busy/idle gate; the controller decides
// when attach and detach are allowed.
package document
