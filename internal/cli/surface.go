// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/jeranaias/edugenius-tui/internal/util"
)

// lineSurface is the controller's Surface for line-mode commands. Notices
// are printed as they arrive; the rest is read back by the REPL to build
// its prompt and prefill the next line.
type lineSurface struct {
	mu sync.Mutex
	w  io.Writer

	locked    bool
	recording bool
	docName   string
	docStaged bool
	input     string
	notices   int
}

func newLineSurface(w io.Writer) *lineSurface {
	return &lineSurface{w: w}
}

func (s *lineSurface) SetLocked(locked bool) {
	s.mu.Lock()
	s.locked = locked
	s.mu.Unlock()
}

func (s *lineSurface) SetInput(text string) {
	s.mu.Lock()
	s.input = text
	s.mu.Unlock()
}

func (s *lineSurface) SetRecording(recording bool) {
	s.mu.Lock()
	s.recording = recording
	s.mu.Unlock()
}

func (s *lineSurface) SetStagedDocument(name string, staged bool) {
	s.mu.Lock()
	s.docName = name
	s.docStaged = staged
	s.mu.Unlock()
}

func (s *lineSurface) Notify(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices++
	fmt.Fprintf(s.w, "%s %s\n", WarningStyle.Render("[Notice]"), message)
}

// takeInput returns the pending input text (a transcription) and clears it.
func (s *lineSurface) takeInput() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	text := s.input
	s.input = ""
	return text
}

// prompt renders the REPL prompt with the recording and staged-document
// state.
func (s *lineSurface) prompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := "edugenius"
	switch {
	case s.recording:
		p += " [REC]"
	case s.docStaged:
		p += " [📎 " + util.Truncate(s.docName, 24) + "]"
	}
	return p + "> "
}

func (s *lineSurface) noticeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notices
}
