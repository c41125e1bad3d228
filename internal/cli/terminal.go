// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// =============================================================================
// TERMINAL
// =============================================================================

// Reply wrapping never goes below replyMinWidth columns; fallbackWidth is
// used when stdout is not a terminal.
const (
	fallbackWidth = 80
	replyMinWidth = 40
)

// Terminal is what edugenius knows about the standard streams. Interactive
// surfaces (the full-screen chat, microphone recording, the liner prompt)
// need Interactive; styled replies need Styled.
type Terminal struct {
	// Interactive is true when stdin is a terminal.
	Interactive bool
	// Styled is true when stdout is a terminal.
	Styled bool
	// Color is false under NO_COLOR or when stdout is piped, unless
	// FORCE_COLOR is set.
	Color bool
}

// DetectTerminal inspects stdin and stdout.
func DetectTerminal() Terminal {
	t := Terminal{
		Interactive: term.IsTerminal(int(os.Stdin.Fd())),
		Styled:      term.IsTerminal(int(os.Stdout.Fd())),
	}
	switch {
	case os.Getenv("NO_COLOR") != "":
		t.Color = false
	case os.Getenv("FORCE_COLOR") != "":
		t.Color = true
	default:
		t.Color = t.Styled
	}
	return t
}

var currentTerminal = sync.OnceValue(DetectTerminal)

// CurrentTerminal returns the terminal detected at first use.
func CurrentTerminal() Terminal {
	return currentTerminal()
}

// Profile returns the color profile for styled output.
func (t Terminal) Profile() termenv.Profile {
	if !t.Color {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}

// ReplyWidth returns the column budget for rendered replies: the terminal
// width less margin, capped at wordWrap when it is positive.
func (t Terminal) ReplyWidth(wordWrap, margin int) int {
	width := fallbackWidth
	if t.Styled {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			width = w
		}
	}
	width -= margin
	if wordWrap > 0 && wordWrap < width {
		width = wordWrap
	}
	return max(width, replyMinWidth)
}

// Require returns a TTYRequiredError naming surface when stdin is not a
// terminal.
func (t Terminal) Require(surface string) error {
	if !t.Interactive {
		return &TTYRequiredError{Surface: surface}
	}
	return nil
}

// RequiresTTY checks the current terminal for an interactive surface.
func RequiresTTY(surface string) error {
	return CurrentTerminal().Require(surface)
}

// TTYRequiredError reports an interactive surface started without a
// terminal on stdin.
type TTYRequiredError struct {
	Surface string
}

func (e *TTYRequiredError) Error() string {
	if e.Surface == "" {
		return "this needs an interactive terminal"
	}
	return e.Surface + " needs an interactive terminal"
}
