// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package audio provides microphone capture and clip playback.
//
// # Capture
//
// A Capture wraps one recording into a start/stop pair:
//
//	capture := audio.NewCapture(audio.NewCommandDevice(nil), audio.CaptureOptions{})
//	h, err := capture.Start(ctx)
//	if errors.Is(err, audio.ErrCaptureUnavailable) {
//	    // show a notice, stay idle
//	}
//	clip, err := capture.Stop(h) // audio/wav, device released
//
// Raw PCM chunks are accumulated in arrival order and wrapped in a WAV
// container on Stop. The device is released on every Stop, including
// when encoding fails. Only one capture may be active at a time.
//
// # Playback
//
// A Player decodes and plays one Clip, returning when playback completes.
// CommandPlayer shells out to an external player (ffplay by default).
package audio
