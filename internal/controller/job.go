// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jeranaias/edugenius-tui/internal/audio"
	"github.com/jeranaias/edugenius-tui/internal/backend"
	"github.com/jeranaias/edugenius-tui/internal/document"
	"github.com/jeranaias/edugenius-tui/internal/model"
)

// Backend is the subset of the backend client the controller uses.
type Backend interface {
	Chat(ctx context.Context, messages []model.Message) (*backend.Reply, error)
	DocumentChat(ctx context.Context, query string, doc backend.Upload) (*backend.Reply, error)
	Transcribe(ctx context.Context, clip audio.Clip) (string, error)
}

// JobKind names the network exchange a Job performs.
type JobKind int

const (
	JobChat JobKind = iota
	JobDocumentChat
	JobTranscription
)

// String returns the endpoint-style name of the job kind.
func (k JobKind) String() string {
	switch k {
	case JobChat:
		return "chat"
	case JobDocumentChat:
		return "document-chat"
	case JobTranscription:
		return "voice-input"
	default:
		return "unknown"
	}
}

// failureType maps a job kind to the backend error kind reported when the
// job fails before the client is reached.
func (k JobKind) failureType() backend.ErrorType {
	switch k {
	case JobDocumentChat:
		return backend.ErrTypeDocumentChatFailed
	case JobTranscription:
		return backend.ErrTypeTranscriptionFailed
	default:
		return backend.ErrTypeChatFailed
	}
}

// =============================================================================
// JOB
// =============================================================================

// Job is one accepted request. Everything it needs was captured when it
// was accepted, so Run reads no controller state.
type Job struct {
	id      uint64
	kind    JobKind
	backend Backend
	ran     atomic.Bool

	query    string
	messages []model.Message
	doc      document.Document
	clip     audio.Clip
}

// ID returns the job's sequence number.
func (j *Job) ID() uint64 {
	return j.id
}

// Kind returns the exchange the job performs.
func (j *Job) Kind() JobKind {
	return j.kind
}

// Messages returns the history snapshot a chat job sends.
func (j *Job) Messages() []model.Message {
	out := make([]model.Message, len(j.messages))
	copy(out, j.messages)
	return out
}

// Document returns the document a document-chat job uploads.
func (j *Job) Document() document.Document {
	return j.doc
}

// Outcome is the result of running a Job.
type Outcome struct {
	jobID uint64

	Kind          JobKind
	Reply         *backend.Reply
	Transcription string
	Err           error
	Duration      time.Duration
}

// OK reports whether the exchange succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Run performs the job's single network exchange. It never panics and
// may be called once; later calls report ErrJobConsumed.
func (j *Job) Run(ctx context.Context) (out Outcome) {
	out = Outcome{jobID: j.id, Kind: j.kind}
	if !j.ran.CompareAndSwap(false, true) {
		out.Err = ErrJobConsumed
		return out
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			out.Reply = nil
			out.Transcription = ""
			out.Err = &backend.ClientError{
				Type:    j.kind.failureType(),
				Message: "request panicked",
				Cause:   fmt.Errorf("%v", r),
			}
		}
		out.Duration = time.Since(start)
	}()

	switch j.kind {
	case JobChat:
		out.Reply, out.Err = j.backend.Chat(ctx, j.messages)

	case JobDocumentChat:
		f, err := j.doc.Open()
		if err != nil {
			out.Err = &backend.ClientError{Type: backend.ErrTypeDocumentChatFailed, Message: "failed to open document", Cause: err}
			return out
		}
		defer f.Close()
		out.Reply, out.Err = j.backend.DocumentChat(ctx, j.query, backend.Upload{
			Filename:    j.doc.Name,
			ContentType: j.doc.ContentType,
			Body:        f,
		})

	case JobTranscription:
		out.Transcription, out.Err = j.backend.Transcribe(ctx, j.clip)
	}

	if out.Err == nil && j.kind != JobTranscription && out.Reply == nil {
		out.Err = &backend.ClientError{Type: j.kind.failureType(), Message: "empty reply"}
	}
	return out
}

// errInterrupted marks an outcome that was never produced because Run did
// not return normally.
var errInterrupted = errors.New("request interrupted")
