// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/jeranaias/edugenius-tui/internal/logging"
)

// LogsCommand returns the "logs" command.
func LogsCommand() *cli.Command {
	return &cli.Command{
		Name:  "logs",
		Usage: "Show recent log entries",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "lines", Aliases: []string{"n"}, Value: 50, Usage: "Show the last `N` entries"},
			&cli.StringFlag{Name: "level", Usage: "Only show entries at `LEVEL` (debug, info, warn, error)"},
			jsonFlag(),
		},
		Action: func(c *cli.Context) error {
			env, err := LoadEnv(c, EnvOptions{Console: true})
			if err != nil {
				return err
			}
			defer env.Close()

			path := env.Config.LogPath()
			entries, err := logging.ReadEntries(path, c.String("level"), c.Int("lines"))
			if err != nil {
				return &CommandError{Command: "logs", Action: "read", Reason: "cannot read " + path, Err: err}
			}
			// Oldest first, like tail.
			for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
				entries[i], entries[j] = entries[j], entries[i]
			}

			if c.Bool("json") {
				return NewJSONResponse("logs", entries).Print(env.Stdout)
			}
			if len(entries) == 0 {
				fmt.Fprintln(env.Stdout, DimStyle.Render("No log entries in "+path))
				return nil
			}
			for _, e := range entries {
				printLogEntry(env.Stdout, e)
			}
			return nil
		},
	}
}

func printLogEntry(w io.Writer, e logging.Entry) {
	var level string
	switch e.Level {
	case "ERROR", "DPANIC", "PANIC", "FATAL":
		level = ErrorStyle.Render(fmt.Sprintf("%-5s", e.Level))
	case "WARN":
		level = WarningStyle.Render(fmt.Sprintf("%-5s", e.Level))
	case "DEBUG":
		level = DimStyle.Render(fmt.Sprintf("%-5s", e.Level))
	default:
		level = ValueStyle.Render(fmt.Sprintf("%-5s", e.Level))
	}

	line := DimStyle.Render(e.Timestamp) + " " + level + " "
	if e.Logger != "" {
		line += DimStyle.Render(e.Logger+": ")
	}
	line += e.Message

	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s=%v", k, e.Fields[k])
		}
		line += " " + DimStyle.Render(strings.Join(parts, " "))
	}
	fmt.Fprintln(w, line)
}
