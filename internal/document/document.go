// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package document

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/text/unicode/norm"
)

var (
	// ErrNotRegular is returned when the path is a directory or device.
	ErrNotRegular = errors.New("not a regular file")

	// ErrTooLarge is returned when the file exceeds the configured limit.
	ErrTooLarge = errors.New("document too large")
)

// Document is a file reference staged for upload.
type Document struct {
	Name        string // Display name (NFC-normalized base name)
	Path        string // Absolute path
	Size        int64
	ContentType string
}

// Load stats path and builds a Document. maxSize of 0 disables the limit.
func Load(path string, maxSize int64) (Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Document{}, fmt.Errorf("resolve %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return Document{}, err
	}
	if !info.Mode().IsRegular() {
		return Document{}, fmt.Errorf("%s: %w", path, ErrNotRegular)
	}
	if maxSize > 0 && info.Size() > maxSize {
		return Document{}, fmt.Errorf("%s is %d bytes (limit %d): %w", path, info.Size(), maxSize, ErrTooLarge)
	}

	contentType := "application/octet-stream"
	if mt, err := mimetype.DetectFile(abs); err == nil {
		contentType = mt.String()
	}

	return Document{
		Name:        DisplayName(abs),
		Path:        abs,
		Size:        info.Size(),
		ContentType: contentType,
	}, nil
}

// DisplayName returns the NFC-normalized base name of path. Filenames
// from macOS file systems arrive decomposed.
func DisplayName(path string) string {
	return norm.NFC.String(filepath.Base(path))
}

// Open opens the document for reading.
func (d Document) Open() (io.ReadCloser, error) {
	return os.Open(d.Path)
}

// IsZero reports whether d is the zero Document.
func (d Document) IsZero() bool {
	return d.Path == "" && d.Name == ""
}
