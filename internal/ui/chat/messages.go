// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/edugenius-tui/internal/controller"
)

// =============================================================================
// MESSAGES
// =============================================================================

// jobDoneMsg carries the outcome of a backend request back to Update.
type jobDoneMsg struct {
	out controller.Outcome
}

// docVanishedMsg reports that the staged document's file disappeared.
type docVanishedMsg struct {
	path string
}

// playDoneMsg reports the end of reply playback.
type playDoneMsg struct {
	err error
}

// exportDoneMsg reports the result of an export.
type exportDoneMsg struct {
	path string
	err  error
}

// noticeExpiredMsg clears notice seq if it is still the one displayed.
type noticeExpiredMsg struct {
	seq int
}
