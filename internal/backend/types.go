// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"io"

	"github.com/jeranaias/edugenius-tui/internal/model"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// ChatRequest is the request body for the chat endpoint.
type ChatRequest struct {
	Messages []model.Message `json:"messages"` // Full history including the new user turn
}

// Upload is a file sent as the "file" part of a multipart request.
type Upload struct {
	Filename    string
	ContentType string // Sniffed from the content when empty
	Body        io.Reader
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// AudioPayload is synthesized speech returned inline with a reply.
type AudioPayload struct {
	AudioContent string `json:"audio_content"` // base64
	Format       string `json:"format,omitempty"`
}

// Reply is the response of the chat and document-chat endpoints.
type Reply struct {
	Response   string        `json:"response"`
	Audio      *AudioPayload `json:"audio,omitempty"`
	Model      string        `json:"model,omitempty"`
	DocumentID string        `json:"document_id,omitempty"`
}

// HasAudio reports whether the reply carries playable audio.
func (r *Reply) HasAudio() bool {
	return r != nil && r.Audio != nil && r.Audio.AudioContent != ""
}

// TranscriptionReply is the response of the voice-input endpoint.
type TranscriptionReply struct {
	Transcription string `json:"transcription"`
	Model         string `json:"model,omitempty"`
}
