// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package transcript

import (
	"context"
	"errors"
	"sync"

	"github.com/jeranaias/edugenius-tui/internal/audio"
)

// Play button labels.
const (
	PlayLabel    = "🔊 Play Response"
	PlayingLabel = "🔊 Playing..."
)

// ErrAlreadyPlaying is returned when a button is activated while playing.
var ErrAlreadyPlaying = errors.New("already playing")

// PlayButton is the play affordance attached to a reply with audio.
type PlayButton struct {
	content string
	format  string

	mu      sync.Mutex
	playing bool
	plays   int
	lastErr error
}

// NewPlayButton creates a button for an inline base64 clip.
func NewPlayButton(clipBase64, format string) *PlayButton {
	return &PlayButton{content: clipBase64, format: format}
}

// Enabled reports whether the button may be activated.
func (b *PlayButton) Enabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.playing
}

// Playing reports whether the clip is playing.
func (b *PlayButton) Playing() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.playing
}

// Plays returns how many activations have completed.
func (b *PlayButton) Plays() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.plays
}

// LastError returns the error of the most recent completed activation.
func (b *PlayButton) LastError() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

// Label returns the text to display on the button.
func (b *PlayButton) Label() string {
	if b.Playing() {
		return PlayingLabel
	}
	return PlayLabel
}

// ClipBase64 returns the inline clip.
func (b *PlayButton) ClipBase64() string {
	return b.content
}

// Format returns the clip's codec name.
func (b *PlayButton) Format() string {
	if b.format == "" {
		return "mp3"
	}
	return b.format
}

// Activate decodes and plays the clip once, blocking until playback ends.
// The button is disabled for the duration and re-enabled afterwards,
// whether playback succeeded or not.
func (b *PlayButton) Activate(ctx context.Context, player audio.Player) error {
	if !b.begin() {
		return ErrAlreadyPlaying
	}
	err := b.play(ctx, player)
	b.finish(err)
	return err
}

// ActivateAsync starts playback in the background and calls done (if not
// nil) when it ends. It fails immediately with ErrAlreadyPlaying when the
// button is disabled.
func (b *PlayButton) ActivateAsync(ctx context.Context, player audio.Player, done func(error)) error {
	if !b.begin() {
		return ErrAlreadyPlaying
	}
	go func() {
		err := b.play(ctx, player)
		b.finish(err)
		if done != nil {
			done(err)
		}
	}()
	return nil
}

func (b *PlayButton) begin() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.playing {
		return false
	}
	b.playing = true
	return true
}

func (b *PlayButton) finish(err error) {
	b.mu.Lock()
	b.playing = false
	b.plays++
	b.lastErr = err
	b.mu.Unlock()
}

func (b *PlayButton) play(ctx context.Context, player audio.Player) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("playback panicked")
		}
	}()

	clip, err := audio.DecodeBase64Clip(b.content, b.format)
	if err != nil {
		return err
	}
	return player.Play(ctx, clip)
}
