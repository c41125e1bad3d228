// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package transcript

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/edugenius-tui/internal/audio"
	"github.com/jeranaias/edugenius-tui/internal/model"
)

// =============================================================================
// BUFFER TESTS
// =============================================================================

func TestBuffer_AppendOrder(t *testing.T) {
	b := NewBuffer()
	h1 := b.AppendTurn(Turn{Role: model.RoleUser, Content: "Hi", Source: "Hi"})
	h2 := b.AppendTurn(Turn{Role: model.RoleAssistant, Content: "<p>Hello!</p>", Source: "Hello!"})

	require.NotEqual(t, h1, h2)
	entries := b.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, model.RoleUser, entries[0].Turn.Role)
	assert.Equal(t, "Hi", entries[0].Turn.Content)
	assert.Equal(t, h2, entries[1].Handle)
}

func TestBuffer_AttachPlayableAudio(t *testing.T) {
	b := NewBuffer()
	h := b.AppendTurn(Turn{Role: model.RoleAssistant, Content: "x"})

	assert.False(t, b.AttachPlayableAudio("missing", "aGk=", "mp3"))
	assert.False(t, b.AttachPlayableAudio(h, "", "mp3"))
	assert.True(t, b.AttachPlayableAudio(h, "aGk=", "mp3"))
	assert.False(t, b.AttachPlayableAudio(h, "aGk=", "mp3"), "second attach should be refused")

	e, ok := b.Entry(h)
	require.True(t, ok)
	require.NotNil(t, e.Play)

	latest, ok := b.LatestPlayable()
	require.True(t, ok)
	assert.Same(t, e.Play, latest)
	assert.Len(t, b.Playable(), 1)
}

func TestBuffer_Composing(t *testing.T) {
	b := NewBuffer()
	b.ShowComposing()
	assert.True(t, b.Composing())
	b.HideComposing()
	assert.False(t, b.Composing())
}

func TestBuffer_Reset(t *testing.T) {
	b := NewBuffer()
	b.AppendTurn(Turn{Role: model.RoleUser, Content: "x"})
	b.ShowComposing()
	b.Reset()
	assert.Equal(t, 0, b.Len())
	assert.False(t, b.Composing())
}

// =============================================================================
// PLAY BUTTON TESTS
// =============================================================================

func TestPlayButton_DisabledWhilePlaying(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	player := audio.PlayerFunc(func(ctx context.Context, clip audio.Clip) error {
		assert.Equal(t, []byte("hi"), clip.Data)
		close(started)
		<-release
		return nil
	})

	btn := NewPlayButton("aGk=", "mp3")
	require.Equal(t, PlayLabel, btn.Label())

	done := make(chan error, 1)
	require.NoError(t, btn.ActivateAsync(context.Background(), player, func(err error) { done <- err }))
	<-started

	assert.False(t, btn.Enabled())
	assert.Equal(t, PlayingLabel, btn.Label())
	assert.ErrorIs(t, btn.Activate(context.Background(), player), ErrAlreadyPlaying)

	close(release)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("playback did not complete")
	}

	assert.True(t, btn.Enabled())
	assert.Equal(t, 1, btn.Plays())
}

func TestPlayButton_ReenabledAfterFailure(t *testing.T) {
	boom := errors.New("no output device")
	player := audio.PlayerFunc(func(ctx context.Context, clip audio.Clip) error { return boom })

	btn := NewPlayButton("aGk=", "")
	assert.ErrorIs(t, btn.Activate(context.Background(), player), boom)
	assert.True(t, btn.Enabled())
	assert.ErrorIs(t, btn.LastError(), boom)
	assert.Equal(t, "mp3", btn.Format())

	bad := NewPlayButton("%%%", "mp3")
	assert.Error(t, bad.Activate(context.Background(), player))
	assert.True(t, bad.Enabled())
}

func TestPlayButton_DifferentButtonsConcurrent(t *testing.T) {
	var active, peak atomic.Int32
	var wg sync.WaitGroup
	gate := make(chan struct{})

	player := audio.PlayerFunc(func(ctx context.Context, clip audio.Clip) error {
		n := active.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		<-gate
		active.Add(-1)
		return nil
	})

	a := NewPlayButton("aGk=", "mp3")
	b := NewPlayButton("aGk=", "mp3")
	wg.Add(2)
	require.NoError(t, a.ActivateAsync(context.Background(), player, func(error) { wg.Done() }))
	require.NoError(t, b.ActivateAsync(context.Background(), player, func(error) { wg.Done() }))

	require.Eventually(t, func() bool { return active.Load() == 2 }, 2*time.Second, 5*time.Millisecond)
	close(gate)
	wg.Wait()
	assert.Equal(t, int32(2), peak.Load())
}
