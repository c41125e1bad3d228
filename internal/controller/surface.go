// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

// Surface is the input side of the display: the text field, the send,
// record and attach controls, and transient notices.
type Surface interface {
	// SetLocked disables (true) or enables (false) every input control.
	SetLocked(locked bool)

	// SetInput replaces the text field contents.
	SetInput(text string)

	// SetRecording toggles the record control between start and stop.
	SetRecording(recording bool)

	// SetStagedDocument shows or hides the staged document preview.
	SetStagedDocument(name string, staged bool)

	// Notify shows a transient notice that is not part of the conversation.
	Notify(message string)
}

// NopSurface discards every update.
type NopSurface struct{}

func (NopSurface) SetLocked(bool)                 {}
func (NopSurface) SetInput(string)                {}
func (NopSurface) SetRecording(bool)              {}
func (NopSurface) SetStagedDocument(string, bool) {}
func (NopSurface) Notify(string)                  {}
