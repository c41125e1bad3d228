// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import "errors"

// =============================================================================
// STATES
// =============================================================================

// Mode gates whether a new request may begin.
type Mode int

const (
	// Idle accepts new input.
	Idle Mode = iota
	// Busy has one request in flight; input actions are rejected.
	Busy
)

// String returns a human-readable name for the mode.
func (m Mode) String() string {
	switch m {
	case Idle:
		return "Idle"
	case Busy:
		return "Busy"
	default:
		return "Unknown"
	}
}

// RecordingState tracks the microphone capture.
type RecordingState int

const (
	// Inactive has no capture running.
	Inactive RecordingState = iota
	// Recording has a capture running.
	Recording
)

// String returns a human-readable name for the recording state.
func (r RecordingState) String() string {
	switch r {
	case Inactive:
		return "Inactive"
	case Recording:
		return "Recording"
	default:
		return "Unknown"
	}
}

// =============================================================================
// USER-VISIBLE TEXT
// =============================================================================

const (
	// ErrorReplyText is the assistant turn shown when a chat request fails.
	ErrorReplyText = "Sorry, I encountered an error. Please try again."

	// CaptureUnavailableNotice is shown when the microphone cannot be opened.
	CaptureUnavailableNotice = "Could not access your microphone. Please check permissions."

	// TranscriptionFailedNotice is shown when a recording cannot be transcribed.
	TranscriptionFailedNotice = "Failed to process audio recording."

	// DocumentVanishedNotice prefixes the notice shown when a staged file
	// disappears from disk.
	DocumentVanishedNotice = "Attached document is no longer available: "
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrBusy is returned for input actions while a request is in flight.
	ErrBusy = errors.New("a request is already in progress")

	// ErrEmptyInput is returned when there is no text and no staged document.
	ErrEmptyInput = errors.New("nothing to send")

	// ErrAlreadyRecording is returned by StartRecording during a capture.
	ErrAlreadyRecording = errors.New("already recording")

	// ErrNotRecording is returned when stopping without an active capture.
	ErrNotRecording = errors.New("not recording")

	// ErrJobConsumed is returned by a Job that has already run.
	ErrJobConsumed = errors.New("job already ran")

	// ErrNoRecorder is returned when no capture device is configured.
	ErrNoRecorder = errors.New("no audio recorder configured")
)
