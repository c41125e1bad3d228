// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the full-screen chat interface for edugenius.

The package implements a Bubble Tea model around a controller.Controller.
The controller owns the conversation; this package only turns key presses
into controller calls and draws what the controller reports.

# Key Components

## Model (model.go)

The Model struct holds the Bubble Tea components (input, attach prompt,
viewport, spinner) and pointers to state shared with the controller:
  - surfaceState: the controller's Surface, read back after each call
  - transcript.Buffer: the controller's View
  - a go-cache of glamour renders keyed by turn and width

## Update Loop (update.go)

Requests run in three phases. BeginSubmit or ToggleRecording runs inside
Update and renders the user turn immediately; Job.Run runs in a tea.Cmd;
the resulting jobDoneMsg is passed to Settle back inside Update.

## View Rendering (view.go)

Header, welcome panel (until the first turn), transcript with play
affordances, the "EduGenius is thinking" indicator, input line and status
bar with recording and staged document chips.

# Key Bindings

	Enter    send          Ctrl+R  record / stop
	Ctrl+O   attach file   Ctrl+X  detach file
	Ctrl+P   play reply    Ctrl+E  export HTML
	Ctrl+L   new session   PgUp/PgDn scroll
	Ctrl+C   quit
*/
package chat
