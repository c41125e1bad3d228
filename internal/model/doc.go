// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversation turns and history.
//
// # Key Types
//
//   - Role: Turn role enumeration (user, assistant)
//   - Turn: One immutable, role-tagged entry in the conversation log
//   - History: Append-only, session-scoped sequence of turns
//   - Message: Wire form of a turn sent to the chat endpoint
//
// # Usage
//
//	h := model.NewHistory()
//	h.AppendUser("Hi")
//	h.AppendAssistant("Hello!")
//	payload := h.Messages() // [{user Hi} {assistant Hello!}]
//
// History is never persisted; it lives exactly as long as the controller
// that owns it.
package model
