// edugenius - a terminal client for the EduGenius learning assistant.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	urfave "github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/jeranaias/edugenius-tui/internal/cli"
	"github.com/jeranaias/edugenius-tui/internal/config"
	"github.com/jeranaias/edugenius-tui/internal/document"
	"github.com/jeranaias/edugenius-tui/internal/markup"
	"github.com/jeranaias/edugenius-tui/internal/transcript"
	"github.com/jeranaias/edugenius-tui/internal/ui/chat"
	"github.com/jeranaias/edugenius-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		cli.DisplayError(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
}

func newApp() *urfave.App {
	return &urfave.App{
		Name:                 "edugenius",
		Usage:                "Chat with the EduGenius learning assistant",
		Version:              Version,
		Flags:                cli.GlobalFlags(),
		EnableBashCompletion: true,
		Before: func(c *urfave.Context) error {
			if err := config.LoadDotEnv(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			}
			return nil
		},
		Action: runTUI,
		Commands: []*urfave.Command{
			{
				Name:   "tui",
				Usage:  "Open the full-screen chat (the default)",
				Action: runTUI,
			},
			cli.AskCommand(),
			cli.DocCommand(),
			cli.TranscribeCommand(),
			cli.ChatCommand(),
			cli.StatusCommand(),
			cli.ConfigCommand(),
			cli.LogsCommand(),
			cli.VersionCommand(),
		},
	}
}

// =============================================================================
// FULL-SCREEN CHAT
// =============================================================================

func runTUI(c *urfave.Context) error {
	if err := cli.RequiresTTY("the full-screen chat"); err != nil {
		return err
	}

	env, err := cli.LoadEnv(c, cli.EnvOptions{})
	if err != nil {
		return err
	}
	defer env.Close()

	cfg := env.Config
	theme := styles.NewTheme(cfg.UI.Theme)
	renderer := markup.NewTermRenderer(theme.GlamourStyle(), cfg.UI.WordWrap)

	buffer := transcript.NewBuffer()
	surface := chat.NewSurface()
	ctrl := env.NewController(buffer, surface, renderer, env.NewRecorder())
	defer ctrl.Close()

	var watcher *document.Watcher
	if cfg.Document.Watch {
		watcher, err = document.NewWatcher(env.Logger)
		if err != nil {
			env.Logger.Warn("document watcher unavailable", zap.Error(err))
			watcher = nil
		} else {
			defer watcher.Close()
		}
	}

	m := chat.New(chat.Options{
		Controller:    ctrl,
		Buffer:        buffer,
		Surface:       surface,
		Renderer:      renderer,
		Player:        env.NewPlayer(),
		Watcher:       watcher,
		Theme:         theme,
		Logger:        env.Logger,
		BackendURL:    env.Client.BaseURL(),
		WordWrap:      cfg.UI.WordWrap,
		ShowWelcome:   cfg.UI.ShowWelcome,
		DocumentMaxMB: cfg.Document.MaxSizeMB,
		ExportOptions: env.ExportOptions(),
	})
	defer m.Close()

	env.Logger.Info("tui started", zap.String("backend", env.Client.BaseURL()))
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat screen: %w", err)
	}
	env.Logger.Info("tui exited")
	return nil
}
