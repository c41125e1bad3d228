// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across edugenius.
//
// # Key Functions
//
// Display Width:
//   - Truncate: Cell-width aware truncation with ellipsis
//   - Width: Terminal cell width of a string
//   - PadRight: Pad to a cell width
//
// Paths:
//   - ExpandHome: Resolve a leading ~ in user supplied paths
//   - TimestampedName: Collision-free export file names
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//
// # Usage
//
//	// Fit a document name into a status bar slot
//	label := util.Truncate(doc.DisplayName(), 24)
//
//	// Write files atomically to prevent data loss
//	err := util.AtomicWriteFile(path, data, 0600)
package util
