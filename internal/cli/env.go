// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/jeranaias/edugenius-tui/internal/audio"
	"github.com/jeranaias/edugenius-tui/internal/backend"
	"github.com/jeranaias/edugenius-tui/internal/config"
	"github.com/jeranaias/edugenius-tui/internal/controller"
	"github.com/jeranaias/edugenius-tui/internal/export"
	"github.com/jeranaias/edugenius-tui/internal/logging"
	"github.com/jeranaias/edugenius-tui/internal/markup"
	"github.com/jeranaias/edugenius-tui/internal/transcript"
)

// Version information (overridden by main at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Global flag names.
const (
	FlagConfig  = "config"
	FlagBackend = "backend"
	FlagVerbose = "verbose"
)

// GlobalFlags returns the flags accepted before any command.
func GlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    FlagConfig,
			Aliases: []string{"c"},
			Usage:   "Load configuration from `FILE` (default: ~/.edugenius/config.toml)",
		},
		&cli.StringFlag{
			Name:    FlagBackend,
			Aliases: []string{"b"},
			Usage:   "EduGenius backend `URL` (overrides config and environment)",
		},
		&cli.BoolFlag{
			Name:    FlagVerbose,
			Aliases: []string{"v"},
			Usage:   "Also write debug logs to stderr",
		},
	}
}

// =============================================================================
// ENVIRONMENT
// =============================================================================

// Env is what every command needs: effective configuration, a logger and
// the backend client.
type Env struct {
	Config     *config.Config
	ConfigPath string
	Logger     *zap.Logger
	Client     *backend.Client

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// EnvOptions adjusts LoadEnv.
type EnvOptions struct {
	// Console tees logs to stderr when --verbose is set. The TUI owns the
	// terminal and leaves it off.
	Console bool
}

// LoadEnv builds the environment from the global flags.
func LoadEnv(c *cli.Context, opts EnvOptions) (*Env, error) {
	explicit := c.String(FlagConfig)
	cfg, err := config.Load(explicit)
	if err != nil {
		return nil, &ConfigError{Path: explicit, Err: err}
	}

	if url := c.String(FlagBackend); url != "" {
		cfg.Backend.URL = url
		if err := cfg.Validate(); err != nil {
			return nil, &ConfigError{Err: err}
		}
	}

	path := explicit
	if path == "" {
		if p, err := config.ConfigPath(); err == nil {
			path = p
		}
	}

	env := &Env{
		Config:     cfg,
		ConfigPath: path,
		Stdin:      c.App.Reader,
		Stdout:     c.App.Writer,
		Stderr:     c.App.ErrWriter,
	}
	if env.Stdin == nil {
		env.Stdin = os.Stdin
	}
	if env.Stdout == nil {
		env.Stdout = os.Stdout
	}
	if env.Stderr == nil {
		env.Stderr = os.Stderr
	}

	logger, err := logging.New(logging.Options{
		Path:       cfg.LogPath(),
		Level:      cfg.Log.Level,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Verbose:    opts.Console && c.Bool(FlagVerbose),
		Console:    env.Stderr,
	})
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	command := "tui"
	if c.Command != nil && c.Command.Name != "" {
		command = c.Command.Name
	}
	env.Logger = logger.With(zap.String("command", command))
	env.Client = backend.NewClientWithConfig(cfg.BackendClientConfig(), env.Logger)
	return env, nil
}

// Close flushes the logger.
func (e *Env) Close() {
	_ = e.Logger.Sync()
}

// =============================================================================
// COMPONENT FACTORIES
// =============================================================================

// NewRecorder returns a capture session on the configured record command.
func (e *Env) NewRecorder() *audio.Capture {
	return audio.NewCapture(audio.NewCommandDevice(e.Config.RecordCommand()), audio.CaptureOptions{
		Format:    e.Config.AudioFormat(),
		ChunkSize: e.Config.Audio.ChunkBytes,
		Logger:    e.Logger,
	})
}

// NewPlayer returns a player on the configured play command.
func (e *Env) NewPlayer() *audio.CommandPlayer {
	return audio.NewCommandPlayer(e.Config.PlayCommand())
}

// NewController wires a controller to the backend client. recorder may be
// nil when the command never records.
func (e *Env) NewController(view transcript.View, surface controller.Surface, renderer markup.Renderer, recorder controller.Recorder) *controller.Controller {
	return controller.New(controller.Options{
		Backend:  e.Client,
		View:     view,
		Surface:  surface,
		Renderer: renderer,
		Recorder: recorder,
		Logger:   e.Logger,
	})
}

// ReplyRenderer renders replies for stdout: styled markdown on a terminal,
// the raw text when piped or when raw is set.
func (e *Env) ReplyRenderer(raw bool) markup.Renderer {
	tty := CurrentTerminal()
	if raw || !tty.Styled {
		return markup.RendererFunc(func(s string) string { return s })
	}
	style := e.Config.UI.Theme
	if !tty.Color {
		style = markup.StylePlain
	}
	return markup.NewTermRenderer(style, tty.ReplyWidth(e.Config.UI.WordWrap, 2))
}

// ExportOptions returns transcript export options for the configured
// export directory.
func (e *Env) ExportOptions() *export.Options {
	opts := export.DefaultOptions()
	opts.OutputDir = e.Config.ExportDir()
	return opts
}
