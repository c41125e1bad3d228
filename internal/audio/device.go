// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"
)

// DefaultRecordCommand streams raw 16 kHz mono S16LE PCM to stdout.
var DefaultRecordCommand = []string{"arecord", "-q", "-f", "S16_LE", "-c", "1", "-r", "16000", "-t", "raw"}

// RecordCommandFor builds an arecord command line for the given format.
func RecordCommandFor(f Format) []string {
	f = f.withDefaults()
	return []string{
		"arecord", "-q",
		"-f", "S16_LE",
		"-c", strconv.Itoa(f.Channels),
		"-r", strconv.Itoa(f.SampleRate),
		"-t", "raw",
	}
}

// CommandDevice captures audio by running an external recorder that writes
// raw PCM to stdout. Closing the stream terminates the recorder.
type CommandDevice struct {
	Command []string
}

// NewCommandDevice creates a device for command. A nil or empty command
// uses DefaultRecordCommand.
func NewCommandDevice(command []string) *CommandDevice {
	if len(command) == 0 {
		command = DefaultRecordCommand
	}
	return &CommandDevice{Command: command}
}

// Open starts the recorder.
func (d *CommandDevice) Open(ctx context.Context) (io.ReadCloser, error) {
	if len(d.Command) == 0 {
		return nil, errors.New("no record command configured")
	}
	path, err := exec.LookPath(d.Command[0])
	if err != nil {
		return nil, fmt.Errorf("recorder %q not found: %w", d.Command[0], err)
	}

	cmd := exec.CommandContext(ctx, path, d.Command[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("recorder stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start recorder: %w", err)
	}
	return &commandStream{cmd: cmd, stdout: stdout}, nil
}

type commandStream struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	once   sync.Once
}

func (s *commandStream) Read(p []byte) (int, error) {
	return s.stdout.Read(p)
}

// Close kills the recorder and reaps it.
func (s *commandStream) Close() error {
	s.once.Do(func() {
		if s.cmd.Process != nil {
			_ = s.cmd.Process.Kill()
		}
		s.stdout.Close()
		// Wait reports the kill signal; the process is gone either way.
		_ = s.cmd.Wait()
	})
	return nil
}
