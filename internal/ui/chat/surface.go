// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import "sync"

// surfaceState is the controller's Surface for the chat screen. The
// controller writes it from inside Update; Update reads it back with take
// and applies the changes to the Bubble Tea components.
type surfaceState struct {
	mu sync.Mutex

	locked     bool
	recording  bool
	docName    string
	docStaged  bool
	input      string
	inputDirty bool
	notices    []string
}

func newSurfaceState() *surfaceState {
	return &surfaceState{}
}

func (s *surfaceState) SetLocked(locked bool) {
	s.mu.Lock()
	s.locked = locked
	s.mu.Unlock()
}

func (s *surfaceState) SetInput(text string) {
	s.mu.Lock()
	s.input = text
	s.inputDirty = true
	s.mu.Unlock()
}

func (s *surfaceState) SetRecording(recording bool) {
	s.mu.Lock()
	s.recording = recording
	s.mu.Unlock()
}

func (s *surfaceState) SetStagedDocument(name string, staged bool) {
	s.mu.Lock()
	s.docName = name
	s.docStaged = staged
	s.mu.Unlock()
}

func (s *surfaceState) Notify(message string) {
	s.mu.Lock()
	s.notices = append(s.notices, message)
	s.mu.Unlock()
}

// surfaceUpdate is a point-in-time copy of surfaceState. Input and notices
// are only reported once.
type surfaceUpdate struct {
	locked     bool
	recording  bool
	docName    string
	docStaged  bool
	input      string
	inputDirty bool
	notices    []string
}

func (s *surfaceState) take() surfaceUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := surfaceUpdate{
		locked:     s.locked,
		recording:  s.recording,
		docName:    s.docName,
		docStaged:  s.docStaged,
		input:      s.input,
		inputDirty: s.inputDirty,
		notices:    s.notices,
	}
	s.inputDirty = false
	s.notices = nil
	return u
}
