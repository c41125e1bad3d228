// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/jeranaias/edugenius-tui/internal/audio"
	"github.com/jeranaias/edugenius-tui/internal/backend"
	"github.com/jeranaias/edugenius-tui/internal/markup"
	"github.com/jeranaias/edugenius-tui/internal/model"
	"github.com/jeranaias/edugenius-tui/internal/transcript"
)

// =============================================================================
// FAKE BACKEND
// =============================================================================

type docCall struct {
	query    string
	filename string
	body     string
}

type fakeBackend struct {
	chatFn       func(ctx context.Context, messages []model.Message) (*backend.Reply, error)
	docFn        func(ctx context.Context, query string, doc backend.Upload) (*backend.Reply, error)
	transcribeFn func(ctx context.Context, clip audio.Clip) (string, error)

	mu          sync.Mutex
	chatCalls   [][]model.Message
	docCalls    []docCall
	transcribed []audio.Clip

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (f *fakeBackend) enter() {
	n := f.inFlight.Add(1)
	for {
		m := f.maxInFlight.Load()
		if n <= m || f.maxInFlight.CompareAndSwap(m, n) {
			return
		}
	}
}

func (f *fakeBackend) leave() {
	f.inFlight.Add(-1)
}

func (f *fakeBackend) Chat(ctx context.Context, messages []model.Message) (*backend.Reply, error) {
	f.enter()
	defer f.leave()

	f.mu.Lock()
	f.chatCalls = append(f.chatCalls, messages)
	f.mu.Unlock()

	if f.chatFn != nil {
		return f.chatFn(ctx, messages)
	}
	return &backend.Reply{Response: "ok"}, nil
}

func (f *fakeBackend) DocumentChat(ctx context.Context, query string, doc backend.Upload) (*backend.Reply, error) {
	f.enter()
	defer f.leave()

	data, _ := io.ReadAll(doc.Body)
	f.mu.Lock()
	f.docCalls = append(f.docCalls, docCall{query: query, filename: doc.Filename, body: string(data)})
	f.mu.Unlock()

	if f.docFn != nil {
		return f.docFn(ctx, query, doc)
	}
	return &backend.Reply{Response: "doc ok"}, nil
}

func (f *fakeBackend) Transcribe(ctx context.Context, clip audio.Clip) (string, error) {
	f.enter()
	defer f.leave()

	f.mu.Lock()
	f.transcribed = append(f.transcribed, clip)
	f.mu.Unlock()

	if f.transcribeFn != nil {
		return f.transcribeFn(ctx, clip)
	}
	return "transcribed", nil
}

func (f *fakeBackend) chats() [][]model.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]model.Message(nil), f.chatCalls...)
}

func (f *fakeBackend) docs() []docCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]docCall(nil), f.docCalls...)
}

func chatFailure(status int) error {
	return &backend.ClientError{Type: backend.ErrTypeChatFailed, Status: status, Message: "unexpected status"}
}

// =============================================================================
// FAKE SURFACE
// =============================================================================

type fakeSurface struct {
	mu        sync.Mutex
	locked    bool
	lockCalls []bool
	input     string
	recording bool
	staged    string
	notices   []string
}

func (s *fakeSurface) SetLocked(locked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locked = locked
	s.lockCalls = append(s.lockCalls, locked)
}

func (s *fakeSurface) SetInput(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = text
}

func (s *fakeSurface) SetRecording(recording bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recording = recording
}

func (s *fakeSurface) SetStagedDocument(name string, staged bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if staged {
		s.staged = name
	} else {
		s.staged = ""
	}
}

func (s *fakeSurface) Notify(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, message)
}

func (s *fakeSurface) isLocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

func (s *fakeSurface) unlocks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.lockCalls {
		if !l {
			n++
		}
	}
	return n
}

type surfaceState struct {
	locked    bool
	input     string
	recording bool
	staged    string
	notices   []string
}

func (s *fakeSurface) snapshot() surfaceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return surfaceState{
		locked:    s.locked,
		input:     s.input,
		recording: s.recording,
		staged:    s.staged,
		notices:   append([]string(nil), s.notices...),
	}
}

// =============================================================================
// FAKE RECORDER
// =============================================================================

type fakeRecorder struct {
	startErr error
	stopErr  error
	clip     audio.Clip

	mu       sync.Mutex
	active   *audio.Handle
	released int
}

func (r *fakeRecorder) Start(ctx context.Context) (*audio.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.startErr != nil {
		return nil, r.startErr
	}
	r.active = &audio.Handle{ID: "h1"}
	return r.active, nil
}

func (r *fakeRecorder) Stop(h *audio.Handle) (audio.Clip, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h != r.active {
		return audio.Clip{}, audio.ErrNoCapture
	}
	r.active = nil
	r.released++
	if r.stopErr != nil {
		return audio.Clip{}, r.stopErr
	}
	return r.clip, nil
}

func (r *fakeRecorder) releasedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.released
}

// =============================================================================
// RECORDING RENDERER
// =============================================================================

type spyRenderer struct {
	mu     sync.Mutex
	inputs []string
	panic  bool
}

func (r *spyRenderer) Render(raw string) string {
	r.mu.Lock()
	r.inputs = append(r.inputs, raw)
	shouldPanic := r.panic
	r.mu.Unlock()
	if shouldPanic {
		panic(errors.New("render exploded"))
	}
	return "<rendered>" + strings.ToUpper(raw) + "</rendered>"
}

func (r *spyRenderer) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.inputs...)
}

var _ markup.Renderer = (*spyRenderer)(nil)

// =============================================================================
// HARNESS
// =============================================================================

type harness struct {
	ctrl     *Controller
	backend  *fakeBackend
	surface  *fakeSurface
	view     *transcript.Buffer
	renderer *spyRenderer
	recorder *fakeRecorder
}

func newHarness() *harness {
	clip, err := audio.EncodeWAV([]byte{1, 2, 3, 4}, audio.DefaultFormat)
	if err != nil {
		panic(err)
	}
	h := &harness{
		backend:  &fakeBackend{},
		surface:  &fakeSurface{},
		view:     transcript.NewBuffer(),
		renderer: &spyRenderer{},
		recorder: &fakeRecorder{clip: clip},
	}
	h.ctrl = New(Options{
		Backend:  h.backend,
		View:     h.view,
		Surface:  h.surface,
		Renderer: h.renderer,
		Recorder: h.recorder,
	})
	return h
}
