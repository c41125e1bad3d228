// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for edugenius.
//
// Configuration is TOML with sensible defaults, .env support, environment
// variable overrides, and struct-tag validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - BackendConfig: Assistant API location, endpoint paths, timeout
//   - AudioConfig: Recorder and player commands, capture format
//   - LogConfig: Rotated log file settings
//   - UIConfig: Theme and layout
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (EDUGENIUS_*), including values from .env files
//   - ~/.edugenius/config.toml (or the path given with --config)
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := backend.NewClientWithConfig(cfg.BackendClientConfig(), logger)
package config
