// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"runtime"

	"github.com/urfave/cli/v2"
)

// VersionCommand returns the "version" command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Action: func(c *cli.Context) error {
			w := writer(c)
			fmt.Fprintf(w, "edugenius %s\n", Version)
			fmt.Fprintf(w, "  %s %s\n", RenderLabel("Commit"), GitCommit)
			fmt.Fprintf(w, "  %s %s\n", RenderLabel("Built"), BuildDate)
			fmt.Fprintf(w, "  %s %s\n", RenderLabel("Go"), runtime.Version())
			fmt.Fprintf(w, "  %s %s/%s\n", RenderLabel("Platform"), runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
}
