// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for edugenius.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/jeranaias/edugenius-tui/internal/audio"
	"github.com/jeranaias/edugenius-tui/internal/backend"
	"github.com/jeranaias/edugenius-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete edugenius configuration.
type Config struct {
	// Backend is the assistant API
	Backend BackendConfig `toml:"backend"`

	// Audio capture and playback
	Audio AudioConfig `toml:"audio"`

	// Document staging limits
	Document DocumentConfig `toml:"document"`

	// Log file settings
	Log LogConfig `toml:"log"`

	// UI configuration
	UI UIConfig `toml:"ui"`

	// Export configuration
	Export ExportConfig `toml:"export"`
}

// BackendConfig contains assistant API configuration.
type BackendConfig struct {
	// URL is the base URL of the backend
	URL string `toml:"url" validate:"required,url"`
	// TimeoutSecs bounds each request, upload and reply included
	TimeoutSecs int `toml:"timeout_secs" validate:"gte=1,lte=3600"`
	// Endpoint paths, relative to URL
	ChatPath         string `toml:"chat_path" validate:"required,startswith=/"`
	DocumentChatPath string `toml:"document_chat_path" validate:"required,startswith=/"`
	VoiceInputPath   string `toml:"voice_input_path" validate:"required,startswith=/"`
	// MaxResponseMB caps reply size (replies carry base64 audio)
	MaxResponseMB int `toml:"max_response_mb" validate:"gte=1,lte=512"`
}

// AudioConfig contains capture and playback configuration.
type AudioConfig struct {
	// RecordCommand writes raw S16LE PCM to stdout (empty: arecord)
	RecordCommand []string `toml:"record_command"`
	// PlayCommand plays the file given as its last argument (empty: ffplay/afplay)
	PlayCommand []string `toml:"play_command"`
	// SampleRate of captured audio in Hz
	SampleRate int `toml:"sample_rate" validate:"gte=8000,lte=48000"`
	// Channels of captured audio
	Channels int `toml:"channels" validate:"oneof=1 2"`
	// ChunkBytes is the read size from the recorder
	ChunkBytes int `toml:"chunk_bytes" validate:"gte=256,lte=1048576"`
}

// DocumentConfig contains document staging configuration.
type DocumentConfig struct {
	// MaxSizeMB is the largest file that may be attached (0: unlimited)
	MaxSizeMB int `toml:"max_size_mb" validate:"gte=0"`
	// Watch drops a staged document when its file disappears
	Watch bool `toml:"watch"`
}

// LogConfig contains log file configuration.
type LogConfig struct {
	// Path of the log file (empty: ~/.edugenius/edugenius.log)
	Path string `toml:"path"`
	// Level is debug, info, warn or error
	Level string `toml:"level" validate:"oneof=debug info warn error"`
	// Rotation settings
	MaxSizeMB  int `toml:"max_size_mb" validate:"gte=1"`
	MaxBackups int `toml:"max_backups" validate:"gte=0"`
	MaxAgeDays int `toml:"max_age_days" validate:"gte=0"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto" or "notty"
	Theme string `toml:"theme" validate:"oneof=dark light auto notty"`
	// WordWrap is the maximum width of rendered replies
	WordWrap int `toml:"word_wrap" validate:"gte=20,lte=400"`
	// ShowWelcome shows the welcome panel until the first message
	ShowWelcome bool `toml:"show_welcome"`
}

// ExportConfig contains transcript export configuration.
type ExportConfig struct {
	// Dir receives exported transcripts (empty: ~/.edugenius/exports)
	Dir string `toml:"dir"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:              "http://127.0.0.1:8000",
			TimeoutSecs:      120,
			ChatPath:         "/chat",
			DocumentChatPath: "/document-chat",
			VoiceInputPath:   "/voice-input",
			MaxResponseMB:    32,
		},
		Audio: AudioConfig{
			SampleRate: audio.DefaultFormat.SampleRate,
			Channels:   audio.DefaultFormat.Channels,
			ChunkBytes: 4096,
		},
		Document: DocumentConfig{
			MaxSizeMB: 25,
			Watch:     true,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
		UI: UIConfig{
			Theme:       "auto",
			WordWrap:    100,
			ShowWelcome: true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the edugenius configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".edugenius"), nil
}

// ConfigPath returns the path to the default TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LogPath returns the configured log path or the default one.
func (c *Config) LogPath() string {
	if c.Log.Path != "" {
		return c.Log.Path
	}
	dir, err := ConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "edugenius.log")
	}
	return filepath.Join(dir, "edugenius.log")
}

// ExportDir returns the configured export directory or the default one.
func (c *Config) ExportDir() string {
	if c.Export.Dir != "" {
		return c.Export.Dir
	}
	dir, err := ConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "exports")
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// LoadDotEnv loads .env from the working directory and the config
// directory. Missing files are ignored; variables already set win.
func LoadDotEnv() error {
	candidates := []string{".env"}
	if dir, err := ConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, ".env"))
	}

	var errs []error
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			errs = append(errs, fmt.Errorf("load %s: %w", path, err))
		}
	}
	return errors.Join(errs...)
}

// Load loads configuration from path, or from the default location when
// path is empty. A missing default file yields the defaults; a missing
// explicit file is an error. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, err
		}
	} else if explicit {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// Save writes cfg to path (or the default location) with 0600 permissions.
func Save(cfg *Config, path string) error {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# edugenius configuration file")
	fmt.Fprintln(&buf, "# Generated by edugenius - edit with care")
	fmt.Fprintln(&buf, "")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SetDefaults fills zero values that validation would otherwise reject.
func (c *Config) SetDefaults() {
	d := Default()

	if c.Backend.URL == "" {
		c.Backend.URL = d.Backend.URL
	}
	if c.Backend.TimeoutSecs == 0 {
		c.Backend.TimeoutSecs = d.Backend.TimeoutSecs
	}
	if c.Backend.ChatPath == "" {
		c.Backend.ChatPath = d.Backend.ChatPath
	}
	if c.Backend.DocumentChatPath == "" {
		c.Backend.DocumentChatPath = d.Backend.DocumentChatPath
	}
	if c.Backend.VoiceInputPath == "" {
		c.Backend.VoiceInputPath = d.Backend.VoiceInputPath
	}
	if c.Backend.MaxResponseMB == 0 {
		c.Backend.MaxResponseMB = d.Backend.MaxResponseMB
	}
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = d.Audio.SampleRate
	}
	if c.Audio.Channels == 0 {
		c.Audio.Channels = d.Audio.Channels
	}
	if c.Audio.ChunkBytes == 0 {
		c.Audio.ChunkBytes = d.Audio.ChunkBytes
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	c.Log.Level = strings.ToLower(c.Log.Level)
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = d.Log.MaxSizeMB
	}
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
	c.UI.Theme = strings.ToLower(c.UI.Theme)
	if c.UI.WordWrap == 0 {
		c.UI.WordWrap = d.UI.WordWrap
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides:
//   - EDUGENIUS_BACKEND_URL: overrides backend.url
//   - EDUGENIUS_TIMEOUT: overrides backend.timeout_secs (seconds or a duration like "2m")
//   - EDUGENIUS_RECORD_COMMAND: overrides audio.record_command (space separated)
//   - EDUGENIUS_PLAY_COMMAND: overrides audio.play_command (space separated)
//   - EDUGENIUS_LOG_PATH: overrides log.path
//   - EDUGENIUS_LOG_LEVEL: overrides log.level
//   - EDUGENIUS_THEME: overrides ui.theme
//   - EDUGENIUS_EXPORT_DIR: overrides export.dir
func (c *Config) ApplyEnvOverrides() {
	if url := os.Getenv("EDUGENIUS_BACKEND_URL"); url != "" {
		c.Backend.URL = url
	}

	if timeout := os.Getenv("EDUGENIUS_TIMEOUT"); timeout != "" {
		if secs, err := strconv.Atoi(timeout); err == nil {
			c.Backend.TimeoutSecs = secs
		} else if d, err := time.ParseDuration(timeout); err == nil {
			c.Backend.TimeoutSecs = int(d.Seconds())
		}
	}

	if cmd := os.Getenv("EDUGENIUS_RECORD_COMMAND"); cmd != "" {
		c.Audio.RecordCommand = strings.Fields(cmd)
	}

	if cmd := os.Getenv("EDUGENIUS_PLAY_COMMAND"); cmd != "" {
		c.Audio.PlayCommand = strings.Fields(cmd)
	}

	if path := os.Getenv("EDUGENIUS_LOG_PATH"); path != "" {
		c.Log.Path = path
	}

	if level := os.Getenv("EDUGENIUS_LOG_LEVEL"); level != "" {
		c.Log.Level = strings.ToLower(level)
	}

	if theme := os.Getenv("EDUGENIUS_THEME"); theme != "" {
		c.UI.Theme = strings.ToLower(theme)
	}

	if dir := os.Getenv("EDUGENIUS_EXPORT_DIR"); dir != "" {
		c.Export.Dir = dir
	}
}

// =============================================================================
// DERIVED SETTINGS
// =============================================================================

// BackendClientConfig converts the backend section to client options.
func (c *Config) BackendClientConfig() *backend.ClientConfig {
	return &backend.ClientConfig{
		BaseURL:          c.Backend.URL,
		Timeout:          time.Duration(c.Backend.TimeoutSecs) * time.Second,
		ChatPath:         c.Backend.ChatPath,
		DocumentChatPath: c.Backend.DocumentChatPath,
		VoiceInputPath:   c.Backend.VoiceInputPath,
		MaxResponseSize:  int64(c.Backend.MaxResponseMB) << 20,
	}
}

// AudioFormat returns the capture format.
func (c *Config) AudioFormat() audio.Format {
	return audio.Format{
		SampleRate:    c.Audio.SampleRate,
		Channels:      c.Audio.Channels,
		BitsPerSample: 16,
	}
}

// RecordCommand returns the recorder command line.
func (c *Config) RecordCommand() []string {
	if len(c.Audio.RecordCommand) > 0 {
		return c.Audio.RecordCommand
	}
	return audio.RecordCommandFor(c.AudioFormat())
}

// PlayCommand returns the player command line.
func (c *Config) PlayCommand() []string {
	if len(c.Audio.PlayCommand) > 0 {
		return c.Audio.PlayCommand
	}
	return audio.DefaultPlayCommand()
}

// DocumentMaxBytes returns the attachment size limit in bytes (0: unlimited).
func (c *Config) DocumentMaxBytes() int64 {
	return int64(c.Document.MaxSizeMB) << 20
}
