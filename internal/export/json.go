// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"time"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports transcripts as JSON. Reply audio is only included
// when Options.IncludeAudio is set.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

type jsonTranscript struct {
	Title      string     `json:"title"`
	Backend    string     `json:"backend,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	ExportedAt time.Time  `json:"exported_at"`
	Turns      []jsonTurn `json:"turns"`
}

type jsonTurn struct {
	ID          string     `json:"id"`
	Role        string     `json:"role"`
	Content     string     `json:"content"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
	Attachment  string     `json:"attachment,omitempty"`
	Failed      bool       `json:"failed,omitempty"`
	HasAudio    bool       `json:"has_audio,omitempty"`
	AudioFormat string     `json:"audio_format,omitempty"`
	Audio       string     `json:"audio_content,omitempty"`
}

// Export converts a transcript to indented JSON.
func (e *JSONExporter) Export(tr *Transcript) ([]byte, error) {
	if err := tr.validate(); err != nil {
		return nil, err
	}

	out := jsonTranscript{
		Title:      tr.Title,
		Backend:    tr.Backend,
		CreatedAt:  tr.CreatedAt,
		ExportedAt: tr.ExportedAt,
		Turns:      make([]jsonTurn, 0, len(tr.Entries)),
	}
	for _, entry := range tr.Entries {
		t := jsonTurn{
			ID:         string(entry.Handle),
			Role:       entry.Turn.Role.String(),
			Content:    entry.Turn.Source,
			Attachment: entry.Turn.Attachment,
			Failed:     entry.Turn.Failed,
		}
		if e.options.IncludeTimestamps && !entry.Timestamp.IsZero() {
			ts := entry.Timestamp
			t.Timestamp = &ts
		}
		if entry.Play != nil && entry.Play.ClipBase64() != "" {
			t.HasAudio = true
			t.AudioFormat = entry.Play.Format()
			if e.options.IncludeAudio {
				t.Audio = entry.Play.ClipBase64()
			}
		}
		out.Turns = append(out.Turns, t)
	}

	return json.MarshalIndent(out, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
