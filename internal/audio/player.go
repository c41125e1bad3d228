// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Player decodes and plays one clip, returning when playback completes.
type Player interface {
	Play(ctx context.Context, clip Clip) error
}

// PlayerFunc adapts a function to the Player interface.
type PlayerFunc func(ctx context.Context, clip Clip) error

// Play calls f(ctx, clip).
func (f PlayerFunc) Play(ctx context.Context, clip Clip) error {
	return f(ctx, clip)
}

// DefaultPlayCommand returns the platform's default player command. The
// clip path is appended as the last argument.
func DefaultPlayCommand() []string {
	if runtime.GOOS == "darwin" {
		return []string{"afplay"}
	}
	return []string{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"}
}

// CommandPlayer plays clips by writing them to a temporary file and running
// an external player on it.
type CommandPlayer struct {
	Command []string
	TempDir string
}

// NewCommandPlayer creates a player for command. A nil or empty command
// uses DefaultPlayCommand.
func NewCommandPlayer(command []string) *CommandPlayer {
	if len(command) == 0 {
		command = DefaultPlayCommand()
	}
	return &CommandPlayer{Command: command}
}

// Play blocks until the external player exits.
func (p *CommandPlayer) Play(ctx context.Context, clip Clip) error {
	if clip.Empty() {
		return errors.New("empty clip")
	}
	if len(p.Command) == 0 {
		return errors.New("no play command configured")
	}

	f, err := os.CreateTemp(p.TempDir, "edugenius-*"+clip.Extension())
	if err != nil {
		return fmt.Errorf("create temp clip: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.Write(clip.Data); err != nil {
		f.Close()
		return fmt.Errorf("write temp clip: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp clip: %w", err)
	}

	args := append(append([]string{}, p.Command[1:]...), path)
	cmd := exec.CommandContext(ctx, p.Command[0], args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("play clip: %w", err)
	}
	return nil
}
