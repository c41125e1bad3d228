// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"errors"
	"strconv"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents a failed backend call.
type ClientError struct {
	Type    ErrorType
	Status  int // HTTP status, 0 when no response was received
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	msg := e.Message
	if e.Status != 0 {
		msg += " (HTTP " + strconv.Itoa(e.Status) + ")"
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches any ClientError of the same Type, so errors.Is(err, ErrChatFailed)
// holds for every chat failure regardless of status or cause.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeChatFailed
	ErrTypeDocumentChatFailed
	ErrTypeTranscriptionFailed
	ErrTypeUnreachable
)

// String returns the error kind name used in logs.
func (t ErrorType) String() string {
	switch t {
	case ErrTypeChatFailed:
		return "ChatFailed"
	case ErrTypeDocumentChatFailed:
		return "DocumentChatFailed"
	case ErrTypeTranscriptionFailed:
		return "TranscriptionFailed"
	case ErrTypeUnreachable:
		return "Unreachable"
	default:
		return "Unknown"
	}
}

// Sentinel errors for easy checking.
var (
	ErrChatFailed          = &ClientError{Type: ErrTypeChatFailed, Message: "chat request failed"}
	ErrDocumentChatFailed  = &ClientError{Type: ErrTypeDocumentChatFailed, Message: "document chat request failed"}
	ErrTranscriptionFailed = &ClientError{Type: ErrTypeTranscriptionFailed, Message: "transcription request failed"}
	ErrUnreachable         = &ClientError{Type: ErrTypeUnreachable, Message: "backend unreachable"}
)

// IsChatFailed checks if an error is a failed chat call.
func IsChatFailed(err error) bool {
	return isType(err, ErrTypeChatFailed)
}

// IsDocumentChatFailed checks if an error is a failed document chat call.
func IsDocumentChatFailed(err error) bool {
	return isType(err, ErrTypeDocumentChatFailed)
}

// IsTranscriptionFailed checks if an error is a failed transcription call.
func IsTranscriptionFailed(err error) bool {
	return isType(err, ErrTypeTranscriptionFailed)
}

// IsUnreachable checks if an error means the backend could not be reached.
func IsUnreachable(err error) bool {
	return isType(err, ErrTypeUnreachable)
}

// KindOf returns the ErrorType of err, or ErrTypeUnknown.
func KindOf(err error) ErrorType {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type
	}
	return ErrTypeUnknown
}

func isType(err error, t ErrorType) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == t
	}
	return false
}
