// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for edugenius.
//
// All colors use Lip Gloss AdaptiveColor so they follow the terminal's
// light or dark background. A Theme can also be forced to dark, light or
// plain (no color) from configuration.
//
// # Key Types
//
//   - Theme: Styled components for the chat screen and CLI output
//   - SpinnerConfig: Frames for the composing indicator
//
// # Usage
//
//	theme := styles.NewTheme(cfg.UI.Theme)
//	fmt.Println(theme.UserLabel.Render("You"))
//
// Accessible status helpers (RenderSuccess, RenderError, ...) always pair a
// color with a text indicator.
package styles
