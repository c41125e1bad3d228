// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "sync"

// =============================================================================
// HISTORY
// =============================================================================

// History is the ordered, append-only log of turns for one session.
// Insertion order is conversation order. There are no delete or update
// operations; readers always receive copies.
//
// History is safe for concurrent use.
type History struct {
	mu    sync.RWMutex
	turns []Turn
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{turns: make([]Turn, 0, 16)}
}

// AppendUser records a user turn and returns it.
func (h *History) AppendUser(text string) Turn {
	return h.append(NewUserTurn(text))
}

// AppendAssistant records an assistant turn and returns it.
func (h *History) AppendAssistant(text string) Turn {
	return h.append(NewAssistantTurn(text))
}

func (h *History) append(t Turn) Turn {
	h.mu.Lock()
	h.turns = append(h.turns, t)
	h.mu.Unlock()
	return t
}

// Snapshot returns a copy of every turn in insertion order.
func (h *History) Snapshot() []Turn {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Messages returns the snapshot in wire form, ready to be sent as the
// complete context of a chat request.
func (h *History) Messages() []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]Message, len(h.turns))
	for i, t := range h.turns {
		out[i] = t.Message()
	}
	return out
}

// Len returns the number of recorded turns.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.turns)
}

// Last returns the most recent turn, if any.
func (h *History) Last() (Turn, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.turns) == 0 {
		return Turn{}, false
	}
	return h.turns[len(h.turns)-1], true
}
