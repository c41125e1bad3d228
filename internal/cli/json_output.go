// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"io"
	"time"
)

// =============================================================================
// JSON RESPONSE ENVELOPE
// =============================================================================

// JSONResponse is the standard envelope for --json output.
type JSONResponse struct {
	// Success indicates whether the command completed without error
	Success bool `json:"success"`

	// Data contains the command-specific response data
	Data interface{} `json:"data"`

	// Error contains the error message if Success is false, null otherwise
	Error *string `json:"error"`

	// Timestamp is the RFC3339 time the response was generated
	Timestamp string `json:"timestamp"`

	// Command is the command that was executed
	Command string `json:"command,omitempty"`
}

// NewJSONResponse creates a new successful JSON response.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a new error JSON response. data may carry
// partial results.
func NewJSONErrorResponse(command string, err error, data interface{}) *JSONResponse {
	errStr := err.Error()
	return &JSONResponse{
		Success:   false,
		Data:      data,
		Error:     &errStr,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Print writes the response as indented JSON.
func (r *JSONResponse) Print(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// =============================================================================
// COMMAND PAYLOADS
// =============================================================================

// ReplyData is the --json payload of ask and doc.
type ReplyData struct {
	Question    string `json:"question"`
	Document    string `json:"document,omitempty"`
	Response    string `json:"response"`
	Model       string `json:"model,omitempty"`
	DocumentID  string `json:"document_id,omitempty"`
	HasAudio    bool   `json:"has_audio"`
	AudioFormat string `json:"audio_format,omitempty"`
	DurationMS  int64  `json:"duration_ms"`
}

// TranscriptionData is the --json payload of transcribe.
type TranscriptionData struct {
	Source        string `json:"source"`
	Bytes         int    `json:"bytes"`
	Transcription string `json:"transcription"`
	DurationMS    int64  `json:"duration_ms"`
}

// StatusData is the --json payload of status.
type StatusData struct {
	ConfigPath    string   `json:"config_path"`
	ConfigFound   bool     `json:"config_found"`
	BackendURL    string   `json:"backend_url"`
	Reachable     bool     `json:"reachable"`
	LatencyMS     int64    `json:"latency_ms,omitempty"`
	BackendError  string   `json:"backend_error,omitempty"`
	RecordCommand []string `json:"record_command"`
	RecorderFound bool     `json:"recorder_found"`
	PlayCommand   []string `json:"play_command"`
	PlayerFound   bool     `json:"player_found"`
	LogPath       string   `json:"log_path"`
	ExportDir     string   `json:"export_dir"`
}
