// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/jeranaias/edugenius-tui/internal/audio"
	"github.com/jeranaias/edugenius-tui/internal/config"
	"github.com/jeranaias/edugenius-tui/internal/controller"
	"github.com/jeranaias/edugenius-tui/internal/document"
	"github.com/jeranaias/edugenius-tui/internal/export"
	"github.com/jeranaias/edugenius-tui/internal/model"
	"github.com/jeranaias/edugenius-tui/internal/transcript"
	"github.com/jeranaias/edugenius-tui/internal/util"
)

// ChatCommand returns the "chat" command: a line-mode conversation for
// terminals where the full-screen UI is unwanted.
func ChatCommand() *cli.Command {
	return &cli.Command{
		Name:  "chat",
		Usage: "Converse with EduGenius in line mode",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "raw", Usage: "Print replies without terminal styling"},
		},
		Action: func(c *cli.Context) error {
			env, err := LoadEnv(c, EnvOptions{Console: true})
			if err != nil {
				return err
			}
			defer env.Close()

			var reader lineReader
			if CurrentTerminal().Interactive {
				reader = newLinerReader(chatHistoryPath(), env.Logger)
			} else {
				reader = newScannerReader(env.Stdin)
			}
			defer reader.Close()

			s := newChatSession(env, reader, env.NewPlayer(), c.Bool("raw"))
			defer s.ctrl.Close()
			return s.run(c.Context)
		},
	}
}

// =============================================================================
// LINE INPUT
// =============================================================================

// lineReader reads one line of input. prefill is offered as editable text
// (the last transcription).
type lineReader interface {
	Prompt(prompt, prefill string) (string, error)
	Close() error
}

type linerReader struct {
	state       *liner.State
	historyPath string
	logger      *zap.Logger
}

func newLinerReader(historyPath string, logger *zap.Logger) *linerReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	state.SetCompleter(completeSlash)

	r := &linerReader{state: state, historyPath: historyPath, logger: logger}
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = state.ReadHistory(f)
			f.Close()
		}
	}
	return r
}

func (r *linerReader) Prompt(prompt, prefill string) (string, error) {
	var (
		line string
		err  error
	)
	if prefill != "" {
		line, err = r.state.PromptWithSuggestion(prompt, prefill, -1)
	} else {
		line, err = r.state.Prompt(prompt)
	}
	if err == nil && strings.TrimSpace(line) != "" {
		r.state.AppendHistory(line)
	}
	return line, err
}

func (r *linerReader) Close() error {
	if r.historyPath != "" {
		if err := os.MkdirAll(filepath.Dir(r.historyPath), util.DefaultDirPerm); err == nil {
			if f, err := os.OpenFile(r.historyPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600); err == nil {
				_, _ = r.state.WriteHistory(f)
				f.Close()
			} else {
				r.logger.Debug("chat history not saved", zap.Error(err))
			}
		}
	}
	return r.state.Close()
}

// scannerReader serves piped input. It prints no prompt.
type scannerReader struct {
	scanner *bufio.Scanner
}

func newScannerReader(r io.Reader) *scannerReader {
	return &scannerReader{scanner: bufio.NewScanner(r)}
}

func (r *scannerReader) Prompt(_, _ string) (string, error) {
	if r.scanner.Scan() {
		return r.scanner.Text(), nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (r *scannerReader) Close() error { return nil }

func chatHistoryPath() string {
	dir, err := config.ConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "chat_history")
}

var slashCommands = []string{
	"/help", "/attach ", "/detach", "/record", "/stop", "/play", "/history", "/export", "/new", "/quit",
}

func completeSlash(line string) []string {
	if !strings.HasPrefix(line, "/") {
		return nil
	}
	var out []string
	for _, cmd := range slashCommands {
		if strings.HasPrefix(cmd, line) {
			out = append(out, cmd)
		}
	}
	return out
}

// =============================================================================
// SESSION
// =============================================================================

type chatSession struct {
	env     *Env
	ctrl    *controller.Controller
	buf     *transcript.Buffer
	surface *lineSurface
	reader  lineReader
	player  audio.Player
	out     io.Writer

	// shown counts the buffer entries already printed.
	shown int
}

func newChatSession(env *Env, reader lineReader, player audio.Player, raw bool) *chatSession {
	buf := transcript.NewBuffer()
	surface := newLineSurface(env.Stderr)
	return &chatSession{
		env:     env,
		ctrl:    env.NewController(buf, surface, env.ReplyRenderer(raw), env.NewRecorder()),
		buf:     buf,
		surface: surface,
		reader:  reader,
		player:  player,
		out:     env.Stdout,
	}
}

func (s *chatSession) run(ctx context.Context) error {
	fmt.Fprintln(s.out, TitleStyle.Render("EduGenius"))
	fmt.Fprintln(s.out, DimStyle.Render("Ask a question, or type /help. Ctrl+D quits."))

	for {
		line, err := s.reader.Prompt(s.surface.prompt(), s.surface.takeInput())
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			fmt.Fprintln(s.out, DimStyle.Render("Goodbye."))
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "/") {
			if quit := s.command(ctx, line); quit {
				return nil
			}
			continue
		}
		s.submit(ctx, line)
	}
}

// submit sends the line. A request runs to completion once accepted; an
// interrupt while it is in flight ends the process rather than the request.
func (s *chatSession) submit(ctx context.Context, text string) {
	s.ctrl.SetInputText(text)
	if text != "" || s.staged() {
		fmt.Fprintln(s.out, DimStyle.Render("EduGenius is thinking..."))
	}
	if _, err := s.ctrl.Submit(context.WithoutCancel(ctx), text); err != nil {
		if !errors.Is(err, controller.ErrEmptyInput) {
			s.fail(err)
		}
		return
	}
	s.printNew()
}

func (s *chatSession) staged() bool {
	_, ok := s.ctrl.StagedDocument()
	return ok
}

// printNew prints the assistant turns appended since the last call. User
// turns were typed by the user and are not echoed.
func (s *chatSession) printNew() {
	entries := s.buf.Entries()
	playable := 0
	for i, e := range entries {
		if e.Play != nil {
			playable++
		}
		if i < s.shown || e.Turn.Role != model.RoleAssistant {
			continue
		}
		header := AssistantStyle.Render(model.RoleAssistant.DisplayName()) + " " + DimStyle.Render(e.Timestamp.Format("15:04"))
		fmt.Fprintln(s.out, header)
		if e.Turn.Failed {
			fmt.Fprintln(s.out, ErrorStyle.Render(e.Turn.Content))
		} else {
			fmt.Fprintln(s.out, strings.TrimRight(e.Turn.Content, "\n"))
		}
		if e.Play != nil {
			fmt.Fprintln(s.out, DimStyle.Render(fmt.Sprintf("%s  /play %d", transcript.PlayLabel, playable)))
		}
	}
	s.shown = len(entries)
}

func (s *chatSession) fail(err error) {
	fmt.Fprintf(s.env.Stderr, "%s %v\n", ErrorStyle.Render("[ERROR]"), err)
}

func (s *chatSession) info(format string, args ...interface{}) {
	fmt.Fprintln(s.out, SuccessStyle.Render(fmt.Sprintf(format, args...)))
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// command runs one slash command and reports whether the session ends.
func (s *chatSession) command(ctx context.Context, line string) bool {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "/quit", "/exit", "/q":
		fmt.Fprintln(s.out, DimStyle.Render("Goodbye."))
		return true
	case "/help", "/?":
		s.help()
	case "/attach":
		s.attach(arg)
	case "/detach":
		if err := s.ctrl.DetachDocument(); err != nil {
			s.fail(err)
			return false
		}
		s.info("Document detached.")
	case "/record":
		if err := s.ctrl.StartRecording(ctx); err != nil {
			if !errors.Is(err, audio.ErrCaptureUnavailable) {
				s.fail(err)
			}
			return false
		}
		fmt.Fprintln(s.out, WarningStyle.Render("● Recording")+DimStyle.Render(" type /stop when done"))
	case "/stop":
		s.stopRecording(ctx)
	case "/play":
		s.play(ctx, arg)
	case "/history":
		s.history()
	case "/export":
		s.export(arg)
	case "/new", "/clear":
		s.ctrl.Reset()
		s.buf.Reset()
		s.shown = 0
		s.info("Started a new conversation.")
	default:
		s.fail(fmt.Errorf("unknown command %s (try /help)", name))
	}
	return false
}

func (s *chatSession) help() {
	rows := [][2]string{
		{"/attach PATH", "Answer the next message from a document"},
		{"/detach", "Drop the staged document"},
		{"/record", "Start recording a spoken question"},
		{"/stop", "Stop recording and transcribe"},
		{"/play [N]", "Play the latest (or Nth) spoken reply"},
		{"/history", "Show the conversation so far"},
		{"/export [html|md|json]", "Save the conversation to a file"},
		{"/new", "Start a new conversation"},
		{"/quit", "Leave"},
	}
	fmt.Fprintln(s.out, SectionStyle.Render("Commands"))
	for _, r := range rows {
		fmt.Fprintf(s.out, "  %s %s\n", LabelStyle.Width(24).Render(r[0]), r[1])
	}
}

func (s *chatSession) attach(path string) {
	if path == "" {
		s.fail(&UsageError{Usage: "/attach PATH", Reason: "no document given"})
		return
	}
	doc, err := document.Load(util.ExpandHome(path), s.env.Config.DocumentMaxBytes())
	if err != nil {
		s.fail(err)
		return
	}
	if err := s.ctrl.AttachDocument(doc); err != nil {
		s.fail(err)
		return
	}
	s.info("📎 %s attached. Your next message is answered from it.", doc.Name)
}

func (s *chatSession) stopRecording(ctx context.Context) {
	fmt.Fprintln(s.out, DimStyle.Render("Transcribing..."))
	out, err := s.ctrl.StopRecording(context.WithoutCancel(ctx))
	if err != nil {
		if errors.Is(err, controller.ErrNotRecording) {
			s.fail(errors.New("not recording (start with /record)"))
			return
		}
		s.fail(err)
		return
	}
	if out.OK() {
		fmt.Fprintln(s.out, DimStyle.Render("Edit the transcription and press Enter to send."))
	}
}

func (s *chatSession) play(ctx context.Context, arg string) {
	var button *transcript.PlayButton
	if arg == "" {
		b, ok := s.buf.LatestPlayable()
		if !ok {
			s.fail(errors.New("no spoken reply yet"))
			return
		}
		button = b
	} else {
		n, err := strconv.Atoi(arg)
		all := s.buf.Playable()
		if err != nil || n < 1 || n > len(all) {
			s.fail(fmt.Errorf("no spoken reply %q (1-%d)", arg, len(all)))
			return
		}
		button = all[n-1]
	}

	reqCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	fmt.Fprintln(s.out, DimStyle.Render(transcript.PlayingLabel))
	if err := button.Activate(reqCtx, s.player); err != nil && !errors.Is(err, context.Canceled) {
		s.env.Logger.Warn("playback failed", zap.Error(err))
		s.fail(fmt.Errorf("playback failed: %w", err))
	}
}

func (s *chatSession) history() {
	turns := s.ctrl.History()
	if len(turns) == 0 {
		fmt.Fprintln(s.out, DimStyle.Render("(no messages yet)"))
		return
	}
	for _, t := range turns {
		style := UserStyle
		if t.IsAssistant() {
			style = AssistantStyle
		}
		fmt.Fprintf(s.out, "%s %s\n", style.Render(t.Role.DisplayName()+":"), util.Truncate(util.FirstLine(t.Content), CurrentTerminal().ReplyWidth(0, 12)))
	}
}

func (s *chatSession) export(format string) {
	opts := s.env.ExportOptions()
	exporter, err := export.ForFormat(format, opts)
	if err != nil {
		s.fail(err)
		return
	}
	path, err := export.ExportToFile(export.NewTranscript(s.buf.Entries()), exporter, opts)
	if err != nil {
		s.fail(err)
		return
	}
	s.info("Conversation saved to %s", path)
}
