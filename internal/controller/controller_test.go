// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/edugenius-tui/internal/audio"
	"github.com/jeranaias/edugenius-tui/internal/backend"
	"github.com/jeranaias/edugenius-tui/internal/document"
	"github.com/jeranaias/edugenius-tui/internal/model"
)

func stageFile(t *testing.T, name, content string) document.Document {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	doc, err := document.Load(path, 0)
	require.NoError(t, err)
	return doc
}

// =============================================================================
// END-TO-END SCENARIOS
// =============================================================================

func TestScenario_PlainChat(t *testing.T) {
	h := newHarness()
	h.backend.chatFn = func(ctx context.Context, messages []model.Message) (*backend.Reply, error) {
		return &backend.Reply{Response: "Hello!"}, nil
	}

	out, err := h.ctrl.Submit(context.Background(), "Hi")
	require.NoError(t, err)
	require.True(t, out.OK())

	calls := h.backend.chats()
	require.Len(t, calls, 1)
	assert.Equal(t, []model.Message{{Role: model.RoleUser, Content: "Hi"}}, calls[0])

	hist := h.ctrl.History()
	require.Len(t, hist, 2)
	assert.Equal(t, model.RoleUser, hist[0].Role)
	assert.Equal(t, "Hi", hist[0].Content)
	assert.Equal(t, model.RoleAssistant, hist[1].Role)
	assert.Equal(t, "Hello!", hist[1].Content)

	assert.Equal(t, Idle, h.ctrl.Mode())
	assert.False(t, h.surface.isLocked())
}

func TestScenario_DocumentChatFailure(t *testing.T) {
	h := newHarness()
	doc := stageFile(t, "notes.pdf", "%PDF-1.4 lecture notes")
	require.NoError(t, h.ctrl.AttachDocument(doc))
	assert.Equal(t, "notes.pdf", h.surface.snapshot().staged)

	h.backend.docFn = func(ctx context.Context, query string, up backend.Upload) (*backend.Reply, error) {
		return nil, &backend.ClientError{Type: backend.ErrTypeDocumentChatFailed, Status: 500, Message: "unexpected status"}
	}

	job, err := h.ctrl.BeginSubmit("Summarize")
	require.NoError(t, err)
	assert.Equal(t, JobDocumentChat, job.Kind())

	// Cleared at dispatch, before the outcome is known.
	_, staged := h.ctrl.StagedDocument()
	assert.False(t, staged)
	assert.Empty(t, h.surface.snapshot().staged)

	out := job.Run(context.Background())
	assert.True(t, backend.IsDocumentChatFailed(out.Err))
	require.True(t, h.ctrl.Settle(out))

	calls := h.backend.docs()
	require.Len(t, calls, 1)
	assert.Equal(t, "Summarize", calls[0].query)
	assert.Equal(t, "notes.pdf", calls[0].filename)
	assert.Equal(t, "%PDF-1.4 lecture notes", calls[0].body)
	assert.Empty(t, h.backend.chats())

	entries := h.view.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "notes.pdf", entries[0].Turn.Attachment)
	assert.Equal(t, ErrorReplyText, entries[1].Turn.Content)
	assert.True(t, entries[1].Turn.Failed)

	// Only the user turn was recorded; the error reply was not.
	hist := h.ctrl.History()
	require.Len(t, hist, 1)
	assert.Equal(t, model.RoleUser, hist[0].Role)

	assert.Equal(t, Idle, h.ctrl.Mode())
	assert.False(t, h.surface.isLocked())
}

func TestScenario_TranscriptionThenSubmit(t *testing.T) {
	h := newHarness()
	h.backend.transcribeFn = func(ctx context.Context, clip audio.Clip) (string, error) {
		return "hello world", nil
	}

	h.ctrl.SetInputText("half-typed draft")
	h.surface.SetInput("half-typed draft")

	require.NoError(t, h.ctrl.StartRecording(context.Background()))
	assert.Equal(t, Recording, h.ctrl.Recording())
	assert.True(t, h.surface.snapshot().recording)

	out, err := h.ctrl.StopRecording(context.Background())
	require.NoError(t, err)
	require.True(t, out.OK())

	assert.Equal(t, "hello world", h.ctrl.InputText())
	assert.Equal(t, "hello world", h.surface.snapshot().input)
	assert.Empty(t, h.ctrl.History(), "transcription must not append a turn")
	assert.Equal(t, Idle, h.ctrl.Mode())
	assert.Equal(t, Inactive, h.ctrl.Recording())
	assert.Equal(t, 1, h.recorder.releasedCount())

	h.backend.chatFn = func(ctx context.Context, messages []model.Message) (*backend.Reply, error) {
		return &backend.Reply{Response: "Hi there"}, nil
	}
	_, err = h.ctrl.Submit(context.Background(), h.ctrl.InputText())
	require.NoError(t, err)

	calls := h.backend.chats()
	require.Len(t, calls, 1)
	assert.Equal(t, []model.Message{{Role: model.RoleUser, Content: "hello world"}}, calls[0])
	assert.Len(t, h.ctrl.History(), 2)
}

// =============================================================================
// GUARD TESTS
// =============================================================================

func TestSubmit_Guard(t *testing.T) {
	h := newHarness()

	_, err := h.ctrl.Submit(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyInput)
	_, err = h.ctrl.Submit(context.Background(), "   \n\t")
	assert.ErrorIs(t, err, ErrEmptyInput)

	assert.Empty(t, h.backend.chats())
	assert.Equal(t, 0, h.view.Len())
	assert.Empty(t, h.ctrl.History())
}

func TestSubmit_TrimsText(t *testing.T) {
	h := newHarness()
	_, err := h.ctrl.Submit(context.Background(), "  Hi  ")
	require.NoError(t, err)
	assert.Equal(t, "Hi", h.ctrl.History()[0].Content)
}

func TestSubmit_DocumentOnly(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.ctrl.AttachDocument(stageFile(t, "a.txt", "text")))

	out, err := h.ctrl.Submit(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, JobDocumentChat, out.Kind)

	calls := h.backend.docs()
	require.Len(t, calls, 1)
	assert.Equal(t, "", calls[0].query)
}

func TestBusy_RejectsInputActions(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.ctrl.StartRecording(context.Background()))

	job, err := h.ctrl.BeginSubmit("first")
	require.NoError(t, err)
	assert.Equal(t, Busy, h.ctrl.Mode())
	assert.True(t, h.surface.isLocked())

	_, err = h.ctrl.BeginSubmit("second")
	assert.ErrorIs(t, err, ErrBusy)
	assert.ErrorIs(t, h.ctrl.AttachDocument(document.Document{Name: "x", Path: "/x"}), ErrBusy)
	assert.ErrorIs(t, h.ctrl.DetachDocument(), ErrBusy)
	_, err = h.ctrl.BeginTranscription()
	assert.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, Recording, h.ctrl.Recording(), "capture keeps running while busy")

	h.ctrl.Settle(job.Run(context.Background()))
	assert.Equal(t, Idle, h.ctrl.Mode())

	_, err = h.ctrl.StopRecording(context.Background())
	require.NoError(t, err)
	assert.Len(t, h.backend.chats(), 1)
}

func TestStartRecording_RejectedWhileBusy(t *testing.T) {
	h := newHarness()
	job, err := h.ctrl.BeginSubmit("x")
	require.NoError(t, err)

	assert.ErrorIs(t, h.ctrl.StartRecording(context.Background()), ErrBusy)
	assert.Equal(t, Inactive, h.ctrl.Recording())

	h.ctrl.Settle(job.Run(context.Background()))
}

// =============================================================================
// ORDERING TESTS
// =============================================================================

func TestSubmit_UserTurnShownBeforeRequest(t *testing.T) {
	h := newHarness()
	h.backend.chatFn = func(ctx context.Context, messages []model.Message) (*backend.Reply, error) {
		entries := h.view.Entries()
		assert.Len(t, entries, 1, "user turn should be displayed before dispatch")
		assert.True(t, h.view.Composing())
		assert.True(t, h.surface.isLocked())
		assert.Empty(t, h.surface.snapshot().input, "input cleared after acceptance")
		return &backend.Reply{Response: "ok"}, nil
	}

	h.surface.SetInput("Hi")
	_, err := h.ctrl.Submit(context.Background(), "Hi")
	require.NoError(t, err)
	assert.False(t, h.view.Composing())
}

func TestSubmit_SnapshotExcludesLaterTurns(t *testing.T) {
	h := newHarness()
	job1, err := h.ctrl.BeginSubmit("one")
	require.NoError(t, err)
	h.ctrl.Settle(job1.Run(context.Background()))

	job2, err := h.ctrl.BeginSubmit("two")
	require.NoError(t, err)

	want := []model.Message{
		{Role: model.RoleUser, Content: "one"},
		{Role: model.RoleAssistant, Content: "ok"},
		{Role: model.RoleUser, Content: "two"},
	}
	assert.Equal(t, want, job2.Messages())
	h.ctrl.Settle(job2.Run(context.Background()))
	assert.Equal(t, want, job2.Messages())
}

// =============================================================================
// PROPERTY TESTS
// =============================================================================

func TestMutualExclusion(t *testing.T) {
	h := newHarness()
	h.backend.chatFn = func(ctx context.Context, messages []model.Message) (*backend.Reply, error) {
		time.Sleep(2 * time.Millisecond)
		return &backend.Reply{Response: "ok"}, nil
	}
	h.backend.docFn = func(ctx context.Context, query string, up backend.Upload) (*backend.Reply, error) {
		time.Sleep(2 * time.Millisecond)
		return &backend.Reply{Response: "ok"}, nil
	}

	var wg sync.WaitGroup
	var accepted, rejected sync.Map
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%7 == 0 {
				_ = h.ctrl.AttachDocument(stageFile(t, "d.txt", "doc"))
			}
			_, err := h.ctrl.Submit(context.Background(), "msg")
			if err != nil {
				assert.ErrorIs(t, err, ErrBusy)
				rejected.Store(i, true)
				return
			}
			accepted.Store(i, true)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), h.backend.maxInFlight.Load(), "requests overlapped")
	assert.Equal(t, Idle, h.ctrl.Mode())
	assert.False(t, h.surface.isLocked())
}

func TestBusyRestoration(t *testing.T) {
	tests := []struct {
		name    string
		stage   bool
		chatFn  func(context.Context, []model.Message) (*backend.Reply, error)
		docFn   func(context.Context, string, backend.Upload) (*backend.Reply, error)
		wantErr bool
	}{
		{
			name: "success",
		},
		{
			name: "chat failure",
			chatFn: func(context.Context, []model.Message) (*backend.Reply, error) {
				return nil, chatFailure(500)
			},
			wantErr: true,
		},
		{
			name:  "document chat failure",
			stage: true,
			docFn: func(context.Context, string, backend.Upload) (*backend.Reply, error) {
				return nil, &backend.ClientError{Type: backend.ErrTypeDocumentChatFailed, Message: "down"}
			},
			wantErr: true,
		},
		{
			name: "backend panic",
			chatFn: func(context.Context, []model.Message) (*backend.Reply, error) {
				panic("transport bug")
			},
			wantErr: true,
		},
		{
			name: "nil reply",
			chatFn: func(context.Context, []model.Message) (*backend.Reply, error) {
				return nil, nil
			},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness()
			h.backend.chatFn = tc.chatFn
			h.backend.docFn = tc.docFn
			if tc.stage {
				require.NoError(t, h.ctrl.AttachDocument(stageFile(t, "a.txt", "a")))
			}

			out, err := h.ctrl.Submit(context.Background(), "question")
			require.NoError(t, err)
			assert.Equal(t, tc.wantErr, out.Err != nil)

			assert.Equal(t, Idle, h.ctrl.Mode())
			assert.False(t, h.surface.isLocked())
			assert.Equal(t, 1, h.surface.unlocks(), "exactly one unlock per submission")
			assert.False(t, h.view.Composing())
			_, staged := h.ctrl.StagedDocument()
			assert.False(t, staged)
		})
	}
}

func TestBusyRestoration_RendererPanic(t *testing.T) {
	h := newHarness()
	h.renderer.panic = true

	_, err := h.ctrl.Submit(context.Background(), "question")
	require.NoError(t, err)
	assert.Equal(t, Idle, h.ctrl.Mode())
	assert.False(t, h.surface.isLocked())
	assert.False(t, h.view.Composing())

	// The user still gets an answer: the error reply, kept out of history.
	entries := h.view.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, model.RoleUser, entries[0].Turn.Role)
	assert.Equal(t, model.RoleAssistant, entries[1].Turn.Role)
	assert.Equal(t, ErrorReplyText, entries[1].Turn.Content)
	assert.True(t, entries[1].Turn.Failed)
	assert.Nil(t, entries[1].Play)

	hist := h.ctrl.History()
	require.Len(t, hist, 1)
	assert.Equal(t, model.RoleUser, hist[0].Role)

	h.renderer.mu.Lock()
	h.renderer.panic = false
	h.renderer.mu.Unlock()
	_, err = h.ctrl.Submit(context.Background(), "again")
	require.NoError(t, err)
	assert.Len(t, h.view.Entries(), 4)
	assert.Len(t, h.ctrl.History(), 3)
}

func TestHistoryIntegrity(t *testing.T) {
	h := newHarness()
	const n = 5
	for i := 0; i < n; i++ {
		_, err := h.ctrl.Submit(context.Background(), "q")
		require.NoError(t, err)
	}

	hist := h.ctrl.History()
	require.Len(t, hist, 2*n)
	for i, turn := range hist {
		want := model.RoleUser
		if i%2 == 1 {
			want = model.RoleAssistant
		}
		assert.Equal(t, want, turn.Role, "turn %d", i)
	}

	h.backend.chatFn = func(context.Context, []model.Message) (*backend.Reply, error) {
		return nil, chatFailure(502)
	}
	_, err := h.ctrl.Submit(context.Background(), "fails")
	require.NoError(t, err)

	hist = h.ctrl.History()
	require.Len(t, hist, 2*n+1)
	assert.Equal(t, model.RoleUser, hist[len(hist)-1].Role)
	assert.Equal(t, "fails", hist[len(hist)-1].Content)
}

func TestDocumentConsumption(t *testing.T) {
	for _, fail := range []bool{false, true} {
		h := newHarness()
		if fail {
			h.backend.docFn = func(context.Context, string, backend.Upload) (*backend.Reply, error) {
				return nil, &backend.ClientError{Type: backend.ErrTypeDocumentChatFailed, Message: "x"}
			}
		}
		require.NoError(t, h.ctrl.AttachDocument(stageFile(t, "a.txt", "a")))

		_, err := h.ctrl.Submit(context.Background(), "first")
		require.NoError(t, err)
		_, staged := h.ctrl.StagedDocument()
		assert.False(t, staged, "fail=%v", fail)

		_, err = h.ctrl.Submit(context.Background(), "second")
		require.NoError(t, err)
		assert.Len(t, h.backend.docs(), 1, "fail=%v", fail)
		assert.Len(t, h.backend.chats(), 1, "second submit should use plain chat (fail=%v)", fail)
	}
}

func TestUserTextNeverRendered(t *testing.T) {
	h := newHarness()
	h.backend.chatFn = func(context.Context, []model.Message) (*backend.Reply, error) {
		return &backend.Reply{Response: "reply *text*"}, nil
	}

	userText := "**bold?** <script>alert(1)</script> ***Important:** x"
	_, err := h.ctrl.Submit(context.Background(), userText)
	require.NoError(t, err)

	for _, in := range h.renderer.seen() {
		assert.NotEqual(t, userText, in)
	}
	assert.Equal(t, []string{"reply *text*"}, h.renderer.seen())

	entries := h.view.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, userText, entries[0].Turn.Content)
	assert.Equal(t, "<rendered>REPLY *TEXT*</rendered>", entries[1].Turn.Content)
	assert.Equal(t, "reply *text*", entries[1].Turn.Source)
}

func TestReplyAudio_AttachesPlayButton(t *testing.T) {
	h := newHarness()
	h.backend.chatFn = func(context.Context, []model.Message) (*backend.Reply, error) {
		return &backend.Reply{
			Response: "spoken",
			Audio:    &backend.AudioPayload{AudioContent: "aGk=", Format: "mp3"},
		}, nil
	}

	_, err := h.ctrl.Submit(context.Background(), "talk")
	require.NoError(t, err)

	btn, ok := h.view.LatestPlayable()
	require.True(t, ok)
	assert.Equal(t, "aGk=", btn.ClipBase64())
	assert.True(t, btn.Enabled())
}

// =============================================================================
// VOICE TESTS
// =============================================================================

func TestStartRecording_CaptureUnavailable(t *testing.T) {
	h := newHarness()
	h.recorder.startErr = errors.Join(audio.ErrCaptureUnavailable, errors.New("denied"))

	err := h.ctrl.StartRecording(context.Background())
	assert.ErrorIs(t, err, audio.ErrCaptureUnavailable)
	assert.Equal(t, Inactive, h.ctrl.Recording())
	assert.Equal(t, Idle, h.ctrl.Mode())
	assert.Equal(t, []string{CaptureUnavailableNotice}, h.surface.snapshot().notices)
	assert.Equal(t, 0, h.view.Len(), "capture failure is not a conversation turn")
	assert.Empty(t, h.surface.lockCalls)
}

func TestStartRecording_NoRecorder(t *testing.T) {
	h := newHarness()
	h.ctrl.recorder = nil

	err := h.ctrl.StartRecording(context.Background())
	assert.ErrorIs(t, err, audio.ErrCaptureUnavailable)
	assert.Equal(t, Inactive, h.ctrl.Recording())
}

func TestStartRecording_Twice(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.ctrl.StartRecording(context.Background()))
	assert.ErrorIs(t, h.ctrl.StartRecording(context.Background()), ErrAlreadyRecording)
}

func TestTranscriptionFailure(t *testing.T) {
	h := newHarness()
	h.backend.transcribeFn = func(context.Context, audio.Clip) (string, error) {
		return "", &backend.ClientError{Type: backend.ErrTypeTranscriptionFailed, Status: 500, Message: "x"}
	}
	h.ctrl.SetInputText("keep me")
	h.surface.SetInput("keep me")

	require.NoError(t, h.ctrl.StartRecording(context.Background()))
	out, err := h.ctrl.StopRecording(context.Background())
	require.NoError(t, err)
	assert.True(t, backend.IsTranscriptionFailed(out.Err))

	s := h.surface.snapshot()
	assert.Equal(t, "keep me", s.input)
	assert.Equal(t, "keep me", h.ctrl.InputText())
	assert.Equal(t, []string{TranscriptionFailedNotice}, s.notices)
	assert.Equal(t, Idle, h.ctrl.Mode())
	assert.False(t, s.locked)
	assert.Equal(t, 1, h.recorder.releasedCount())
}

func TestTranscription_SendsClip(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.ctrl.StartRecording(context.Background()))

	job, err := h.ctrl.BeginTranscription()
	require.NoError(t, err)
	assert.Equal(t, JobTranscription, job.Kind())
	assert.Equal(t, Busy, h.ctrl.Mode())
	assert.True(t, h.surface.isLocked())
	assert.Equal(t, 1, h.recorder.releasedCount(), "device released before upload")

	h.ctrl.Settle(job.Run(context.Background()))
	require.Len(t, h.backend.transcribed, 1)
	assert.Equal(t, h.recorder.clip, h.backend.transcribed[0])
}

func TestStopRecording_NotRecording(t *testing.T) {
	h := newHarness()
	_, err := h.ctrl.StopRecording(context.Background())
	assert.ErrorIs(t, err, ErrNotRecording)
}

func TestStopRecording_StopError(t *testing.T) {
	h := newHarness()
	h.recorder.stopErr = errors.New("encoder failed")
	require.NoError(t, h.ctrl.StartRecording(context.Background()))

	_, err := h.ctrl.StopRecording(context.Background())
	assert.Error(t, err)
	assert.Equal(t, Inactive, h.ctrl.Recording())
	assert.Equal(t, Idle, h.ctrl.Mode())
	assert.Equal(t, 1, h.recorder.releasedCount())
	assert.Equal(t, []string{TranscriptionFailedNotice}, h.surface.snapshot().notices)
}

func TestToggleRecording(t *testing.T) {
	h := newHarness()
	job, err := h.ctrl.ToggleRecording(context.Background())
	require.NoError(t, err)
	assert.Nil(t, job)
	assert.Equal(t, Recording, h.ctrl.Recording())

	job, err = h.ctrl.ToggleRecording(context.Background())
	require.NoError(t, err)
	require.NotNil(t, job)
	h.ctrl.Settle(job.Run(context.Background()))
	assert.Equal(t, "transcribed", h.ctrl.InputText())
}

// =============================================================================
// SETTLE TESTS
// =============================================================================

func TestSettle_OncePerJob(t *testing.T) {
	h := newHarness()
	job, err := h.ctrl.BeginSubmit("x")
	require.NoError(t, err)
	out := job.Run(context.Background())

	assert.True(t, h.ctrl.Settle(out))
	assert.False(t, h.ctrl.Settle(out), "second settle must be ignored")
	assert.False(t, h.ctrl.Settle(Outcome{}), "zero outcome must be ignored")
	assert.Len(t, h.ctrl.History(), 2)
	assert.Equal(t, 1, h.surface.unlocks())
}

func TestJob_RunOnce(t *testing.T) {
	h := newHarness()
	job, err := h.ctrl.BeginSubmit("x")
	require.NoError(t, err)

	first := job.Run(context.Background())
	second := job.Run(context.Background())
	assert.NoError(t, first.Err)
	assert.ErrorIs(t, second.Err, ErrJobConsumed)
	assert.Len(t, h.backend.chats(), 1)
	h.ctrl.Settle(first)
}

func TestDocumentJob_MissingFile(t *testing.T) {
	h := newHarness()
	doc := stageFile(t, "gone.txt", "x")
	require.NoError(t, h.ctrl.AttachDocument(doc))
	require.NoError(t, os.Remove(doc.Path))

	out, err := h.ctrl.Submit(context.Background(), "q")
	require.NoError(t, err)
	assert.True(t, backend.IsDocumentChatFailed(out.Err))
	assert.Equal(t, Idle, h.ctrl.Mode())
}

// =============================================================================
// DOCUMENT AND LIFECYCLE TESTS
// =============================================================================

func TestDocumentVanished(t *testing.T) {
	h := newHarness()
	doc := stageFile(t, "a.txt", "a")
	require.NoError(t, h.ctrl.AttachDocument(doc))

	assert.False(t, h.ctrl.DocumentVanished("/some/other/path"))
	assert.True(t, h.ctrl.DocumentVanished(doc.Path))
	_, staged := h.ctrl.StagedDocument()
	assert.False(t, staged)
	assert.Equal(t, []string{DocumentVanishedNotice + "a.txt"}, h.surface.snapshot().notices)
}

func TestDetachDocument_Idempotent(t *testing.T) {
	h := newHarness()
	assert.NoError(t, h.ctrl.DetachDocument())
	require.NoError(t, h.ctrl.AttachDocument(stageFile(t, "a.txt", "a")))
	assert.NoError(t, h.ctrl.DetachDocument())
	assert.NoError(t, h.ctrl.DetachDocument())
	_, staged := h.ctrl.StagedDocument()
	assert.False(t, staged)
}

func TestReset(t *testing.T) {
	h := newHarness()
	_, err := h.ctrl.Submit(context.Background(), "x")
	require.NoError(t, err)
	require.NoError(t, h.ctrl.StartRecording(context.Background()))
	require.NoError(t, h.ctrl.AttachDocument(stageFile(t, "a.txt", "a")))

	h.ctrl.Reset()
	assert.Empty(t, h.ctrl.History())
	assert.Equal(t, Inactive, h.ctrl.Recording())
	assert.Equal(t, Idle, h.ctrl.Mode())
	_, staged := h.ctrl.StagedDocument()
	assert.False(t, staged)
	assert.Equal(t, 1, h.recorder.releasedCount())
}

func TestReset_IgnoresInFlightOutcome(t *testing.T) {
	h := newHarness()
	job, err := h.ctrl.BeginSubmit("x")
	require.NoError(t, err)

	h.ctrl.Reset()
	assert.False(t, h.ctrl.Settle(job.Run(context.Background())))
	assert.Empty(t, h.ctrl.History())
}

func TestIndependentControllers(t *testing.T) {
	a := newHarness()
	b := newHarness()

	_, err := a.ctrl.Submit(context.Background(), "only a")
	require.NoError(t, err)
	assert.Len(t, a.ctrl.History(), 2)
	assert.Empty(t, b.ctrl.History())
}

func TestModeStrings(t *testing.T) {
	assert.Equal(t, "Idle", Idle.String())
	assert.Equal(t, "Busy", Busy.String())
	assert.Equal(t, "Recording", Recording.String())
	assert.Equal(t, "chat", JobChat.String())
	assert.Equal(t, "document-chat", JobDocumentChat.String())
	assert.Equal(t, "voice-input", JobTranscription.String())
}
