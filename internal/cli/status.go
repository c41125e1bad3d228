// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
)

// StatusTimeout bounds the backend reachability check.
const StatusTimeout = 5 * time.Second

// StatusCommand returns the "status" command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Check the backend and the audio tools",
		Flags: []cli.Flag{jsonFlag()},
		Action: func(c *cli.Context) error {
			env, err := LoadEnv(c, EnvOptions{Console: true})
			if err != nil {
				return err
			}
			defer env.Close()

			data := collectStatus(c.Context, env)
			if c.Bool("json") {
				return NewJSONResponse("status", data).Print(env.Stdout)
			}
			printStatus(env.Stdout, data)
			return nil
		},
	}
}

func collectStatus(ctx context.Context, env *Env) *StatusData {
	data := &StatusData{
		ConfigPath:    env.ConfigPath,
		BackendURL:    env.Client.BaseURL(),
		RecordCommand: env.Config.RecordCommand(),
		PlayCommand:   env.Config.PlayCommand(),
		LogPath:       env.Config.LogPath(),
		ExportDir:     env.Config.ExportDir(),
	}
	if env.ConfigPath != "" {
		if _, err := os.Stat(env.ConfigPath); err == nil {
			data.ConfigFound = true
		}
	}

	pingCtx, cancel := context.WithTimeout(ctx, StatusTimeout)
	defer cancel()
	start := time.Now()
	if err := env.Client.Ping(pingCtx); err != nil {
		data.BackendError = err.Error()
	} else {
		data.Reachable = true
		data.LatencyMS = time.Since(start).Milliseconds()
	}

	data.RecorderFound = commandFound(data.RecordCommand)
	data.PlayerFound = commandFound(data.PlayCommand)
	return data
}

func commandFound(argv []string) bool {
	if len(argv) == 0 {
		return false
	}
	_, err := exec.LookPath(argv[0])
	return err == nil
}

func printStatus(w io.Writer, data *StatusData) {
	fmt.Fprintln(w, TitleStyle.Render("EduGenius Status"))
	fmt.Fprintln(w, RenderSeparator())

	fmt.Fprintln(w, SectionStyle.Render("Backend"))
	if data.Reachable {
		fmt.Fprintf(w, "  %s %s %s\n", RenderLabel("URL"), ValueStyle.Render(data.BackendURL), RenderStatus("ok"))
		fmt.Fprintf(w, "  %s %s\n", RenderLabel("Latency"), ValueStyle.Render(fmt.Sprintf("%dms", data.LatencyMS)))
	} else {
		fmt.Fprintf(w, "  %s %s %s\n", RenderLabel("URL"), ValueStyle.Render(data.BackendURL), RenderStatus("error"))
		fmt.Fprintf(w, "  %s %s\n", RenderLabel("Error"), ErrorStyle.Render(data.BackendError))
	}

	fmt.Fprintln(w, SectionStyle.Render("Audio"))
	fmt.Fprintf(w, "  %s %s %s\n", RenderLabel("Recorder"), ValueStyle.Render(strings.Join(data.RecordCommand, " ")), toolStatus(data.RecorderFound))
	fmt.Fprintf(w, "  %s %s %s\n", RenderLabel("Player"), ValueStyle.Render(strings.Join(data.PlayCommand, " ")), toolStatus(data.PlayerFound))

	fmt.Fprintln(w, SectionStyle.Render("Files"))
	configNote := DimStyle.Render("(defaults)")
	if data.ConfigFound {
		configNote = ""
	}
	fmt.Fprintf(w, "  %s %s %s\n", RenderLabel("Config"), ValueStyle.Render(data.ConfigPath), configNote)
	fmt.Fprintf(w, "  %s %s\n", RenderLabel("Log"), ValueStyle.Render(data.LogPath))
	fmt.Fprintf(w, "  %s %s\n", RenderLabel("Exports"), ValueStyle.Render(data.ExportDir))
}

func toolStatus(found bool) string {
	if found {
		return RenderStatus("ok")
	}
	return RenderStatus("warning") + DimStyle.Render(" not on PATH")
}
