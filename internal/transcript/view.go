// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package transcript

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/edugenius-tui/internal/model"
)

// Handle identifies one appended turn.
type Handle string

// Turn is what the controller appends to a View.
type Turn struct {
	Role model.Role

	// Content is the display form: literal text for user turns, rendered
	// markup for assistant turns.
	Content string

	// Source is the text as authored. Views may re-render assistant turns
	// from it (for example after a resize).
	Source string

	// Attachment is the name of the document sent with a user turn.
	Attachment string

	// Failed marks the fixed error reply shown after a failed request.
	Failed bool
}

// View receives turns and indicator updates from the controller.
type View interface {
	AppendTurn(turn Turn) Handle
	AttachPlayableAudio(h Handle, clipBase64, format string) bool
	ShowComposing()
	HideComposing()
}

// =============================================================================
// BUFFER
// =============================================================================

// Entry is one rendered turn in a Buffer.
type Entry struct {
	Handle    Handle
	Turn      Turn
	Play      *PlayButton
	Timestamp time.Time
}

// Buffer is an in-memory View.
//
// Buffer is safe for concurrent use.
type Buffer struct {
	mu        sync.RWMutex
	entries   []Entry
	index     map[Handle]int
	composing bool
}

// NewBuffer creates an empty transcript buffer.
func NewBuffer() *Buffer {
	return &Buffer{index: make(map[Handle]int)}
}

// AppendTurn adds a turn and returns its handle.
func (b *Buffer) AppendTurn(turn Turn) Handle {
	h := Handle(uuid.NewString())

	b.mu.Lock()
	b.index[h] = len(b.entries)
	b.entries = append(b.entries, Entry{Handle: h, Turn: turn, Timestamp: time.Now()})
	b.mu.Unlock()
	return h
}

// AttachPlayableAudio gives the turn h a play affordance. It reports false
// when h is unknown or already has one.
func (b *Buffer) AttachPlayableAudio(h Handle, clipBase64, format string) bool {
	b.mu.Lock()
	i, ok := b.index[h]
	if !ok || b.entries[i].Play != nil || clipBase64 == "" {
		b.mu.Unlock()
		return false
	}
	b.entries[i].Play = NewPlayButton(clipBase64, format)
	b.mu.Unlock()
	return true
}

// ShowComposing displays the composing indicator.
func (b *Buffer) ShowComposing() {
	b.setComposing(true)
}

// HideComposing removes the composing indicator.
func (b *Buffer) HideComposing() {
	b.setComposing(false)
}

func (b *Buffer) setComposing(v bool) {
	b.mu.Lock()
	b.composing = v
	b.mu.Unlock()
}

// Composing reports whether the composing indicator is shown.
func (b *Buffer) Composing() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.composing
}

// Entries returns a copy of all entries in order. Play buttons are shared.
func (b *Buffer) Entries() []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Entry returns the entry for h.
func (b *Buffer) Entry(h Handle) (Entry, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	i, ok := b.index[h]
	if !ok {
		return Entry{}, false
	}
	return b.entries[i], true
}

// Len returns the number of entries.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// LatestPlayable returns the most recent play button.
func (b *Buffer) LatestPlayable() (*PlayButton, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for i := len(b.entries) - 1; i >= 0; i-- {
		if b.entries[i].Play != nil {
			return b.entries[i].Play, true
		}
	}
	return nil, false
}

// Playable returns the play buttons in transcript order.
func (b *Buffer) Playable() []*PlayButton {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []*PlayButton
	for _, e := range b.entries {
		if e.Play != nil {
			out = append(out, e.Play)
		}
	}
	return out
}

// Reset clears the buffer.
func (b *Buffer) Reset() {
	b.mu.Lock()
	b.entries = nil
	b.index = make(map[Handle]int)
	b.composing = false
	b.mu.Unlock()
}
