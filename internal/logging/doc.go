// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the zap logger used across edugenius.
//
// Logs go to a rotated JSON file so they never draw over the terminal UI.
// Verbose mode additionally tees human readable output to stderr, which is
// only useful for the line-oriented commands.
//
// # Usage
//
//	logger, err := logging.New(logging.Options{Path: cfg.LogPath(), Level: "info"})
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
// ReadEntries parses the same file back for the "logs" command.
package logging
