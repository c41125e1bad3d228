// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/jeranaias/edugenius-tui/internal/controller"
	"github.com/jeranaias/edugenius-tui/internal/document"
	"github.com/jeranaias/edugenius-tui/internal/transcript"
	"github.com/jeranaias/edugenius-tui/internal/util"
)

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{Name: "json", Usage: "Print a JSON envelope instead of text"}
}

func replyFlags() []cli.Flag {
	return []cli.Flag{
		jsonFlag(),
		&cli.BoolFlag{Name: "play", Aliases: []string{"p"}, Usage: "Play the spoken reply when the backend sends one"},
		&cli.BoolFlag{Name: "raw", Usage: "Print the reply text without terminal styling"},
	}
}

// AskCommand returns the "ask" command.
//
//	edugenius ask "What is a prime number?"
//	edugenius ask --doc notes.pdf "Summarize chapter two"
func AskCommand() *cli.Command {
	return &cli.Command{
		Name:      "ask",
		Usage:     "Ask EduGenius one question",
		ArgsUsage: "QUESTION...",
		Flags: append(replyFlags(),
			&cli.StringFlag{Name: "doc", Aliases: []string{"d"}, Usage: "Answer from `FILE` instead of the chat model"},
		),
		Action: func(c *cli.Context) error {
			q := queryFromFlags(c, "ask")
			q.question = strings.Join(c.Args().Slice(), " ")
			q.docPath = c.String("doc")
			if strings.TrimSpace(q.question) == "" && q.docPath == "" {
				return &UsageError{Usage: "edugenius ask QUESTION...", Reason: "no question given"}
			}
			return runQuery(c, q)
		},
	}
}

// DocCommand returns the "doc" command. The question may be omitted; the
// document is then sent on its own.
//
//	edugenius doc notes.pdf "What are the key dates?"
func DocCommand() *cli.Command {
	return &cli.Command{
		Name:      "doc",
		Usage:     "Ask EduGenius about a document",
		ArgsUsage: "FILE [QUESTION...]",
		Flags:     replyFlags(),
		Action: func(c *cli.Context) error {
			if c.Args().Len() == 0 {
				return &UsageError{Usage: "edugenius doc FILE [QUESTION...]", Reason: "no document given"}
			}
			q := queryFromFlags(c, "doc")
			q.docPath = c.Args().First()
			q.question = strings.Join(c.Args().Tail(), " ")
			return runQuery(c, q)
		},
	}
}

// =============================================================================
// ONE-SHOT QUERY
// =============================================================================

type query struct {
	command  string
	question string
	docPath  string
	json     bool
	play     bool
	raw      bool
}

func queryFromFlags(c *cli.Context, command string) query {
	return query{
		command: command,
		json:    c.Bool("json"),
		play:    c.Bool("play"),
		raw:     c.Bool("raw"),
	}
}

func runQuery(c *cli.Context, q query) error {
	env, err := LoadEnv(c, EnvOptions{Console: true})
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	return ask(ctx, env, q)
}

// ask runs one submission through a fresh controller and prints the reply.
func ask(ctx context.Context, env *Env, q query) error {
	buf := transcript.NewBuffer()
	surface := newLineSurface(env.Stderr)
	ctrl := env.NewController(buf, surface, env.ReplyRenderer(q.raw || q.json), nil)

	data := ReplyData{Question: strings.TrimSpace(q.question)}

	if q.docPath != "" {
		doc, err := document.Load(util.ExpandHome(q.docPath), env.Config.DocumentMaxBytes())
		if err != nil {
			return &CommandError{Command: q.command, Action: "attach", Reason: "cannot read document", Err: err}
		}
		if err := ctrl.AttachDocument(doc); err != nil {
			return err
		}
		data.Document = doc.Name
	}

	out, err := ctrl.Submit(ctx, q.question)
	if err != nil {
		if errors.Is(err, controller.ErrEmptyInput) {
			return &UsageError{Usage: "edugenius " + q.command + " QUESTION...", Reason: "nothing to send"}
		}
		return err
	}
	data.DurationMS = out.Duration.Milliseconds()

	if !out.OK() {
		if q.json {
			_ = NewJSONErrorResponse(q.command, out.Err, data).Print(env.Stdout)
		}
		return &CommandError{Command: q.command, Action: "send", Reason: controller.ErrorReplyText, Err: out.Err}
	}

	reply := out.Reply
	data.Response = reply.Response
	data.Model = reply.Model
	data.DocumentID = reply.DocumentID
	data.HasAudio = reply.HasAudio()
	if data.HasAudio {
		data.AudioFormat = reply.Audio.Format
	}

	entries := buf.Entries()
	last := entries[len(entries)-1]

	if q.json {
		if err := NewJSONResponse(q.command, data).Print(env.Stdout); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(env.Stdout, strings.TrimRight(last.Turn.Content, "\n"))
	}

	if q.play {
		if last.Play == nil {
			fmt.Fprintln(env.Stderr, DimStyle.Render("(no spoken reply)"))
			return nil
		}
		if err := last.Play.Activate(ctx, env.NewPlayer()); err != nil {
			env.Logger.Warn("playback failed", zap.Error(err))
			return &CommandError{Command: q.command, Action: "play", Reason: "could not play the reply", Err: err}
		}
	}
	return nil
}
