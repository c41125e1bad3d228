// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package document

import "sync"

// Session holds at most one staged document.
//
// Session is safe for concurrent use.
type Session struct {
	mu     sync.Mutex
	staged *Document
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{}
}

// Attach stages doc, replacing any previously staged document.
func (s *Session) Attach(doc Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := doc
	s.staged = &d
}

// Detach clears staging. It is idempotent and reports whether a document
// was staged.
func (s *Session) Detach() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	had := s.staged != nil
	s.staged = nil
	return had
}

// IsStaged reports whether a document is staged.
func (s *Session) IsStaged() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.staged != nil
}

// Staged returns the staged document, if any.
func (s *Session) Staged() (Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.staged == nil {
		return Document{}, false
	}
	return *s.staged, true
}

// Take returns the staged document and clears staging in one step, so a
// staged document is consumed exactly once.
func (s *Session) Take() (Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.staged == nil {
		return Document{}, false
	}
	d := *s.staged
	s.staged = nil
	return d, true
}
