// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/jeranaias/edugenius-tui/internal/audio"
	"github.com/jeranaias/edugenius-tui/internal/controller"
	"github.com/jeranaias/edugenius-tui/internal/transcript"
	"github.com/jeranaias/edugenius-tui/internal/util"
)

// DefaultMaxRecording bounds a recording made by transcribe.
const DefaultMaxRecording = 2 * time.Minute

// TranscribeCommand returns the "transcribe" command. With a FILE the
// recording is uploaded as-is; without one the microphone records until
// Enter is pressed.
func TranscribeCommand() *cli.Command {
	return &cli.Command{
		Name:      "transcribe",
		Usage:     "Turn speech into text",
		ArgsUsage: "[FILE]",
		Flags: []cli.Flag{
			jsonFlag(),
			&cli.DurationFlag{Name: "max", Value: DefaultMaxRecording, Usage: "Stop a microphone recording after `DURATION`"},
		},
		Action: func(c *cli.Context) error {
			env, err := LoadEnv(c, EnvOptions{Console: true})
			if err != nil {
				return err
			}
			defer env.Close()

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
			defer stop()

			var data *TranscriptionData
			if path := c.Args().First(); path != "" {
				data, err = transcribeFile(ctx, env, util.ExpandHome(path))
			} else {
				data, err = transcribeMicrophone(ctx, env, c.Duration("max"))
			}
			if err != nil {
				if c.Bool("json") {
					_ = NewJSONErrorResponse("transcribe", err, data).Print(env.Stdout)
				}
				return err
			}

			if c.Bool("json") {
				return NewJSONResponse("transcribe", data).Print(env.Stdout)
			}
			fmt.Fprintln(env.Stdout, data.Transcription)
			return nil
		},
	}
}

func transcribeFile(ctx context.Context, env *Env, path string) (*TranscriptionData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &CommandError{Command: "transcribe", Action: "read", Reason: "cannot read recording", Err: err}
	}
	mtype := mimetype.Detect(raw)
	if !strings.HasPrefix(mtype.String(), "audio/") {
		return nil, &UsageError{
			Usage:  "edugenius transcribe [FILE]",
			Reason: fmt.Sprintf("%s is %s, not audio", path, mtype.String()),
		}
	}

	data := &TranscriptionData{Source: path, Bytes: len(raw)}
	start := time.Now()
	text, err := env.Client.Transcribe(ctx, audio.Clip{Data: raw, MIME: mtype.String()})
	data.DurationMS = time.Since(start).Milliseconds()
	if err != nil {
		env.Logger.Warn("transcription failed", zap.String("path", path), zap.Error(err))
		return data, &CommandError{Command: "transcribe", Action: "send", Reason: controller.TranscriptionFailedNotice, Err: err}
	}
	data.Transcription = text
	return data, nil
}

func transcribeMicrophone(ctx context.Context, env *Env, limit time.Duration) (*TranscriptionData, error) {
	if err := RequiresTTY("recording from the microphone"); err != nil {
		return nil, err
	}

	surface := newLineSurface(env.Stderr)
	ctrl := env.NewController(transcript.NewBuffer(), surface, nil, env.NewRecorder())
	defer ctrl.Close()

	if err := ctrl.StartRecording(ctx); err != nil {
		return nil, &CommandError{Command: "transcribe", Action: "record", Reason: controller.CaptureUnavailableNotice, Err: err}
	}
	fmt.Fprintln(env.Stderr, WarningStyle.Render("● Recording")+DimStyle.Render(" press Enter to stop"))

	enter := make(chan struct{})
	go func() {
		_, _ = bufio.NewReader(env.Stdin).ReadString('\n')
		close(enter)
	}()

	if limit <= 0 {
		limit = DefaultMaxRecording
	}
	timer := time.NewTimer(limit)
	defer timer.Stop()

	select {
	case <-enter:
	case <-timer.C:
		fmt.Fprintln(env.Stderr, DimStyle.Render("(time limit reached)"))
	case <-ctx.Done():
	}

	fmt.Fprintln(env.Stderr, DimStyle.Render("Transcribing..."))
	out, err := ctrl.StopRecording(context.WithoutCancel(ctx))
	if err != nil {
		return nil, &CommandError{Command: "transcribe", Action: "stop", Reason: controller.TranscriptionFailedNotice, Err: err}
	}

	data := &TranscriptionData{Source: "microphone", DurationMS: out.Duration.Milliseconds()}
	if !out.OK() {
		return data, &CommandError{Command: "transcribe", Action: "send", Reason: controller.TranscriptionFailedNotice, Err: out.Err}
	}
	data.Transcription = out.Transcription
	return data, nil
}
