// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/urfave/cli/v2"

	"github.com/jeranaias/edugenius-tui/internal/config"
)

// ConfigCommand returns the "config" command and its subcommands.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show or change settings",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Print the effective configuration (file, environment and flags)",
				Action: configShow,
			},
			{
				Name:  "init",
				Usage: "Write a configuration file with the defaults",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Overwrite an existing file"},
				},
				Action: configInit,
			},
			{
				Name:      "get",
				Usage:     "Print one setting",
				ArgsUsage: "KEY",
				Action:    configGet,
			},
			{
				Name:      "set",
				Usage:     "Change one setting in the configuration file",
				ArgsUsage: "KEY VALUE...",
				Action:    configSet,
			},
			{
				Name:  "keys",
				Usage: "List the setting keys",
				Action: func(c *cli.Context) error {
					for _, k := range config.Keys() {
						fmt.Fprintln(writer(c), k)
					}
					return nil
				},
			},
			{
				Name:  "path",
				Usage: "Print the configuration file path",
				Action: func(c *cli.Context) error {
					path, err := configFilePath(c)
					if err != nil {
						return err
					}
					fmt.Fprintln(writer(c), path)
					return nil
				},
			},
		},
	}
}

func writer(c *cli.Context) io.Writer {
	if c.App.Writer != nil {
		return c.App.Writer
	}
	return os.Stdout
}

// configFilePath returns --config or the default location.
func configFilePath(c *cli.Context) (string, error) {
	if p := c.String(FlagConfig); p != "" {
		return p, nil
	}
	p, err := config.ConfigPath()
	if err != nil {
		return "", &ConfigError{Err: err}
	}
	return p, nil
}

// loadFileConfig reads only the configuration file over the defaults. set
// edits this view so environment overrides are never written back.
func loadFileConfig(path string) (*config.Config, error) {
	cfg := config.Default()
	if _, err := os.Stat(path); err == nil {
		if err := config.LoadTOML(cfg, path); err != nil {
			return nil, &ConfigError{Path: path, Err: err}
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, &ConfigError{Path: path, Err: err}
	}
	cfg.SetDefaults()
	return cfg, nil
}

func configShow(c *cli.Context) error {
	env, err := LoadEnv(c, EnvOptions{Console: true})
	if err != nil {
		return err
	}
	defer env.Close()

	fmt.Fprintln(env.Stdout, DimStyle.Render("# "+env.ConfigPath))
	return toml.NewEncoder(env.Stdout).Encode(env.Config)
}

func configInit(c *cli.Context) error {
	path, err := configFilePath(c)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return &CommandError{Command: "config", Action: "init", Reason: path + " exists (use --force to overwrite)"}
	}
	if err := config.Save(config.Default(), path); err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	fmt.Fprintf(writer(c), "%s Wrote %s\n", RenderStatus("ok"), path)
	return nil
}

func configGet(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return &UsageError{Usage: "edugenius config get KEY", Reason: "expected one key"}
	}
	env, err := LoadEnv(c, EnvOptions{Console: true})
	if err != nil {
		return err
	}
	defer env.Close()

	v, err := env.Config.Get(c.Args().First())
	if err != nil {
		return &CommandError{Command: "config", Action: "get", Reason: "unknown key", Err: err}
	}
	switch val := v.(type) {
	case []string:
		fmt.Fprintln(env.Stdout, strings.Join(val, " "))
	default:
		fmt.Fprintln(env.Stdout, val)
	}
	return nil
}

func configSet(c *cli.Context) error {
	if c.Args().Len() < 2 {
		return &UsageError{Usage: "edugenius config set KEY VALUE...", Reason: "expected a key and a value"}
	}
	path, err := configFilePath(c)
	if err != nil {
		return err
	}
	cfg, err := loadFileConfig(path)
	if err != nil {
		return err
	}

	key := c.Args().First()
	value := strings.Join(c.Args().Tail(), " ")
	if err := cfg.Set(key, value); err != nil {
		return &CommandError{Command: "config", Action: "set", Reason: "cannot set " + key, Err: err}
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	if err := config.Save(cfg, path); err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	fmt.Fprintf(writer(c), "%s %s = %s\n", RenderStatus("ok"), key, value)
	return nil
}
