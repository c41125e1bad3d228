// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for the EduGenius assistant API.
//
// Three endpoints are consumed:
//
//   - POST /chat            JSON {messages:[{role,content}]}
//   - POST /document-chat   multipart: query (text), file (binary)
//   - POST /voice-input     multipart: file (binary, "recording.wav")
//
// Chat and document-chat reply with {response, audio?:{audio_content, format}};
// voice-input replies with {transcription}. Any transport error, non-2xx
// status or undecodable body is reported as a *ClientError whose Type names
// the failed call (ChatFailed, DocumentChatFailed, TranscriptionFailed).
//
// The client performs exactly one HTTP exchange per call. It never retries.
//
// Example:
//
//	client := backend.NewClient()
//	reply, err := client.Chat(ctx, history.Messages())
//	if backend.IsChatFailed(err) {
//	    // show the fixed error reply
//	}
package backend
