// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package controller owns the conversation state and serializes requests.
//
// A Controller holds the conversation history, the staged document, the
// Idle/Busy mode and the recording state. Every input (typed text, a
// finished recording, an attached document) goes through it, and at most
// one backend request is in flight at any time.
//
// # Three-phase operations
//
// Requests are split so event-loop UIs can run the network leg elsewhere:
//
//	job, err := ctrl.BeginSubmit(text) // guard, Busy, user turn rendered
//	if err != nil {
//	    return // rejected: Busy or nothing to send
//	}
//	out := job.Run(ctx)                // the single network exchange
//	ctrl.Settle(out)                   // reply or error shown, back to Idle
//
// Submit and StopRecording run all three phases in sequence.
//
// # Failure policy
//
// Backend failures never escape: a failed chat shows a fixed error reply
// that is not added to history, and a failed transcription shows a notice
// and leaves the input untouched. Settle always returns the controller to
// Idle and unlocks the surface.
//
// # Callbacks
//
// Surface and View methods are called with the controller's lock held, in
// the order the user should observe them. They must not call back into the
// Controller.
package controller
