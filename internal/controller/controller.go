// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/jeranaias/edugenius-tui/internal/audio"
	"github.com/jeranaias/edugenius-tui/internal/backend"
	"github.com/jeranaias/edugenius-tui/internal/document"
	"github.com/jeranaias/edugenius-tui/internal/markup"
	"github.com/jeranaias/edugenius-tui/internal/model"
	"github.com/jeranaias/edugenius-tui/internal/transcript"
)

// Recorder starts and stops microphone captures. *audio.Capture
// implements it.
type Recorder interface {
	Start(ctx context.Context) (*audio.Handle, error)
	Stop(h *audio.Handle) (audio.Clip, error)
}

// Options configures a Controller. Backend and View are required.
type Options struct {
	Backend  Backend
	View     transcript.View
	Surface  Surface
	Renderer markup.Renderer
	Recorder Recorder
	Logger   *zap.Logger
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller is the interaction state machine for one conversation.
//
// Controller is safe for concurrent use; all transitions are serialized.
type Controller struct {
	backend  Backend
	view     transcript.View
	surface  Surface
	renderer markup.Renderer
	recorder Recorder
	logger   *zap.Logger

	mu        sync.Mutex
	mode      Mode
	recording RecordingState
	capture   *audio.Handle
	history   *model.History
	docs      *document.Session
	input     string
	seq       uint64
	pending   *Job
}

// New creates a controller in the Idle state with an empty history.
func New(opts Options) *Controller {
	if opts.Surface == nil {
		opts.Surface = NopSurface{}
	}
	if opts.Renderer == nil {
		opts.Renderer = markup.NewHTMLRenderer()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Controller{
		backend:  opts.Backend,
		view:     opts.View,
		surface:  opts.Surface,
		renderer: opts.Renderer,
		recorder: opts.Recorder,
		logger:   opts.Logger.Named("controller"),
		history:  model.NewHistory(),
		docs:     document.NewSession(),
	}
}

// Reset discards the conversation and returns to a fresh Idle state. A
// running capture is stopped and an in-flight request's outcome will be
// ignored.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopCaptureLocked()
	c.history = model.NewHistory()
	c.docs = document.NewSession()
	c.input = ""
	c.pending = nil
	c.mode = Idle

	c.view.HideComposing()
	c.surface.SetStagedDocument("", false)
	c.surface.SetInput("")
	c.surface.SetLocked(false)
	c.logger.Info("session reset")
}

// Close releases the microphone if a capture is running.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopCaptureLocked()
}

// =============================================================================
// STATE ACCESSORS
// =============================================================================

// Mode returns the current interaction mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Busy reports whether a request is in flight.
func (c *Controller) Busy() bool {
	return c.Mode() == Busy
}

// Recording returns the current recording state.
func (c *Controller) Recording() RecordingState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recording
}

// History returns a snapshot of the conversation history.
func (c *Controller) History() []model.Turn {
	c.mu.Lock()
	h := c.history
	c.mu.Unlock()
	return h.Snapshot()
}

// StagedDocument returns the staged document, if any.
func (c *Controller) StagedDocument() (document.Document, bool) {
	c.mu.Lock()
	docs := c.docs
	c.mu.Unlock()
	return docs.Staged()
}

// InputText returns the controller's copy of the text input.
func (c *Controller) InputText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// SetInputText records what the user has typed. Surfaces call this as the
// text field changes so that transcription overwrites are observable.
func (c *Controller) SetInputText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = text
}

// =============================================================================
// SUBMIT
// =============================================================================

// BeginSubmit accepts a text submission. The text is trimmed; it is
// rejected with ErrBusy while a request is in flight and with ErrEmptyInput
// when it is empty and no document is staged.
//
// On acceptance the controller is Busy, the surface is locked, the composing
// indicator is shown, and the user turn is recorded and displayed before
// BeginSubmit returns. A staged document is consumed here, so it is cleared
// whatever the request's outcome.
func (c *Controller) BeginSubmit(text string) (*Job, error) {
	text = strings.TrimSpace(text)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == Busy {
		return nil, ErrBusy
	}
	if text == "" && !c.docs.IsStaged() {
		return nil, ErrEmptyInput
	}

	c.enterBusyLocked()

	c.history.AppendUser(text)
	userTurn := transcript.Turn{Role: model.RoleUser, Content: text, Source: text}

	job := &Job{id: c.nextSeqLocked(), backend: c.backend, query: text}
	if doc, ok := c.docs.Take(); ok {
		job.kind = JobDocumentChat
		job.doc = doc
		userTurn.Attachment = doc.Name
		c.surface.SetStagedDocument("", false)
	} else {
		job.kind = JobChat
		job.messages = c.history.Messages()
	}

	c.view.AppendTurn(userTurn)
	c.input = ""
	c.surface.SetInput("")
	c.pending = job

	c.logger.Info("submission accepted",
		zap.Uint64("job", job.id),
		zap.Stringer("path", job.kind),
		zap.Int("text_len", len(text)),
		zap.Int("history_len", c.history.Len()),
	)
	return job, nil
}

// Submit runs a whole submission: BeginSubmit, the request, and Settle.
// It returns an error only when the submission was rejected; request
// failures are reported in the Outcome and already shown to the user.
func (c *Controller) Submit(ctx context.Context, text string) (Outcome, error) {
	job, err := c.BeginSubmit(text)
	if err != nil {
		return Outcome{}, err
	}
	return c.runAndSettle(ctx, job), nil
}

func (c *Controller) runAndSettle(ctx context.Context, job *Job) (out Outcome) {
	out = Outcome{jobID: job.id, Kind: job.kind, Err: errInterrupted}
	defer func() {
		c.Settle(out)
	}()
	out = job.Run(ctx)
	return out
}

// =============================================================================
// SETTLE
// =============================================================================

// Settle applies a job's outcome and returns the controller to Idle. It
// acts once per job; outcomes of stale or already-settled jobs are ignored
// and Settle reports false.
func (c *Controller) Settle(out Outcome) (applied bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending == nil || out.jobID == 0 || c.pending.id != out.jobID {
		c.logger.Debug("ignoring stale outcome", zap.Uint64("job", out.jobID))
		return false
	}
	job := c.pending
	c.pending = nil
	applied = true

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("settle panicked", zap.Uint64("job", job.id), zap.Any("panic", r))
		}
	}()
	defer c.exitBusyLocked()

	c.view.HideComposing()

	switch job.kind {
	case JobChat, JobDocumentChat:
		c.settleReplyLocked(job, out)
	case JobTranscription:
		c.settleTranscriptionLocked(job, out)
	}
	return applied
}

func (c *Controller) settleReplyLocked(job *Job, out Outcome) {
	if out.Err != nil {
		// The error reply is shown but not added to history, so the next
		// request's context only holds real exchanges.
		c.logger.Warn("request failed",
			zap.Uint64("job", job.id),
			zap.Stringer("path", job.kind),
			zap.Stringer("kind", backend.KindOf(out.Err)),
			zap.Duration("duration", out.Duration),
			zap.Error(out.Err),
		)
		c.appendErrorReplyLocked()
		return
	}

	reply := out.Reply
	content, ok := c.renderLocked(job, reply.Response)
	if !ok {
		c.appendErrorReplyLocked()
		return
	}
	c.history.AppendAssistant(reply.Response)
	h := c.view.AppendTurn(transcript.Turn{
		Role:    model.RoleAssistant,
		Content: content,
		Source:  reply.Response,
	})
	if reply.HasAudio() {
		c.view.AttachPlayableAudio(h, reply.Audio.AudioContent, reply.Audio.Format)
	}

	c.logger.Info("reply received",
		zap.Uint64("job", job.id),
		zap.Stringer("path", job.kind),
		zap.Int("response_len", len(reply.Response)),
		zap.Bool("audio", reply.HasAudio()),
		zap.String("model", reply.Model),
		zap.String("document_id", reply.DocumentID),
		zap.Duration("duration", out.Duration),
	)
}

// renderLocked converts a reply for display. A renderer panic is reported
// as a failed render; the reply is then neither shown nor kept in history.
func (c *Controller) renderLocked(job *Job, text string) (content string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("render panicked", zap.Uint64("job", job.id), zap.Any("panic", r))
			content, ok = "", false
		}
	}()
	return c.renderer.Render(text), true
}

func (c *Controller) appendErrorReplyLocked() {
	c.view.AppendTurn(transcript.Turn{
		Role:    model.RoleAssistant,
		Content: ErrorReplyText,
		Source:  ErrorReplyText,
		Failed:  true,
	})
}

func (c *Controller) settleTranscriptionLocked(job *Job, out Outcome) {
	if out.Err != nil {
		c.logger.Warn("transcription failed", zap.Uint64("job", job.id), zap.Error(out.Err))
		c.surface.Notify(TranscriptionFailedNotice)
		return
	}

	// The transcription replaces whatever was typed.
	c.input = out.Transcription
	c.surface.SetInput(out.Transcription)
	c.logger.Info("transcription received",
		zap.Uint64("job", job.id),
		zap.Int("text_len", len(out.Transcription)),
		zap.Duration("duration", out.Duration),
	)
}

// =============================================================================
// VOICE
// =============================================================================

// StartRecording opens the microphone. It is rejected while Busy or while
// already recording. When the device cannot be opened a notice is shown,
// the state stays Inactive, and the error wraps audio.ErrCaptureUnavailable.
func (c *Controller) StartRecording(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == Busy {
		return ErrBusy
	}
	if c.recording == Recording {
		return ErrAlreadyRecording
	}
	if c.recorder == nil {
		c.surface.Notify(CaptureUnavailableNotice)
		return errors.Join(audio.ErrCaptureUnavailable, ErrNoRecorder)
	}

	h, err := c.recorder.Start(ctx)
	if err != nil {
		c.logger.Warn("capture unavailable", zap.Error(err))
		c.surface.Notify(CaptureUnavailableNotice)
		if !errors.Is(err, audio.ErrCaptureUnavailable) {
			err = errors.Join(audio.ErrCaptureUnavailable, err)
		}
		return err
	}

	c.capture = h
	c.recording = Recording
	c.surface.SetRecording(true)
	c.logger.Info("recording started")
	return nil
}

// BeginTranscription stops the running capture, releasing the microphone,
// and accepts the clip for transcription. It is rejected while Busy (the
// capture keeps running) and when no capture is active.
func (c *Controller) BeginTranscription() (*Job, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.recording != Recording {
		return nil, ErrNotRecording
	}
	if c.mode == Busy {
		return nil, ErrBusy
	}

	h := c.capture
	c.capture = nil
	c.recording = Inactive
	c.surface.SetRecording(false)

	clip, err := c.recorder.Stop(h)
	if err != nil {
		c.logger.Warn("capture stop failed", zap.Error(err))
		c.surface.Notify(TranscriptionFailedNotice)
		return nil, err
	}

	c.enterBusyLocked()
	job := &Job{id: c.nextSeqLocked(), kind: JobTranscription, backend: c.backend, clip: clip}
	c.pending = job

	c.logger.Info("transcription accepted", zap.Uint64("job", job.id), zap.Int("clip_bytes", clip.Len()))
	return job, nil
}

// StopRecording runs a whole transcription: BeginTranscription, the
// request, and Settle.
func (c *Controller) StopRecording(ctx context.Context) (Outcome, error) {
	job, err := c.BeginTranscription()
	if err != nil {
		return Outcome{}, err
	}
	return c.runAndSettle(ctx, job), nil
}

// ToggleRecording starts a capture when Inactive and returns (nil, nil);
// when Recording it begins transcription and returns the job.
func (c *Controller) ToggleRecording(ctx context.Context) (*Job, error) {
	if c.Recording() == Recording {
		return c.BeginTranscription()
	}
	return nil, c.StartRecording(ctx)
}

// =============================================================================
// DOCUMENTS
// =============================================================================

// AttachDocument stages doc for the next submission, replacing any staged
// document. It is rejected while Busy.
func (c *Controller) AttachDocument(doc document.Document) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == Busy {
		return ErrBusy
	}
	c.docs.Attach(doc)
	c.surface.SetStagedDocument(doc.Name, true)
	c.logger.Info("document staged", zap.String("name", doc.Name), zap.Int64("size", doc.Size))
	return nil
}

// DetachDocument clears the staged document. It is idempotent and
// rejected while Busy.
func (c *Controller) DetachDocument() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == Busy {
		return ErrBusy
	}
	if c.docs.Detach() {
		c.logger.Info("document unstaged")
	}
	c.surface.SetStagedDocument("", false)
	return nil
}

// DocumentVanished unstages the document at path after it disappeared from
// disk. It reports whether anything was unstaged; while Busy it does
// nothing.
func (c *Controller) DocumentVanished(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == Busy {
		return false
	}
	doc, ok := c.docs.Staged()
	if !ok || doc.Path != path {
		return false
	}
	c.docs.Detach()
	c.surface.SetStagedDocument("", false)
	c.surface.Notify(DocumentVanishedNotice + doc.Name)
	c.logger.Info("staged document vanished", zap.String("name", doc.Name))
	return true
}

// =============================================================================
// INTERNAL
// =============================================================================

func (c *Controller) enterBusyLocked() {
	c.mode = Busy
	c.surface.SetLocked(true)
	c.view.ShowComposing()
}

func (c *Controller) exitBusyLocked() {
	c.mode = Idle
	c.surface.SetLocked(false)
}

func (c *Controller) nextSeqLocked() uint64 {
	c.seq++
	return c.seq
}

func (c *Controller) stopCaptureLocked() {
	if c.capture == nil {
		return
	}
	if _, err := c.recorder.Stop(c.capture); err != nil {
		c.logger.Debug("discard capture", zap.Error(err))
	}
	c.capture = nil
	c.recording = Inactive
	c.surface.SetRecording(false)
}
