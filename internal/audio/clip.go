// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package audio

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// MIME types of clips handled by this package.
const (
	MIMEWAV = "audio/wav"
	MIMEMP3 = "audio/mpeg"
)

// =============================================================================
// FORMAT
// =============================================================================

// Format describes raw PCM produced by a capture device.
type Format struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// DefaultFormat is 16 kHz mono signed 16-bit, which speech recognisers accept.
var DefaultFormat = Format{SampleRate: 16000, Channels: 1, BitsPerSample: 16}

func (f Format) withDefaults() Format {
	if f.SampleRate <= 0 {
		f.SampleRate = DefaultFormat.SampleRate
	}
	if f.Channels <= 0 {
		f.Channels = DefaultFormat.Channels
	}
	if f.BitsPerSample <= 0 {
		f.BitsPerSample = DefaultFormat.BitsPerSample
	}
	return f
}

// BlockAlign returns the number of bytes per sample frame.
func (f Format) BlockAlign() int {
	return f.Channels * f.BitsPerSample / 8
}

// ByteRate returns the number of bytes per second of audio.
func (f Format) ByteRate() int {
	return f.SampleRate * f.BlockAlign()
}

// =============================================================================
// CLIP
// =============================================================================

// Clip is one finalized, container-wrapped recording.
type Clip struct {
	Data []byte
	MIME string
}

// Len returns the encoded size in bytes.
func (c Clip) Len() int {
	return len(c.Data)
}

// Empty reports whether the clip carries no data.
func (c Clip) Empty() bool {
	return len(c.Data) == 0
}

// Base64 returns the clip encoded as standard base64.
func (c Clip) Base64() string {
	return base64.StdEncoding.EncodeToString(c.Data)
}

// Extension returns a file extension matching the clip's MIME type.
func (c Clip) Extension() string {
	switch c.MIME {
	case MIMEWAV:
		return ".wav"
	case MIMEMP3:
		return ".mp3"
	default:
		return ".bin"
	}
}

// DecodeBase64Clip decodes an inline audio payload. format is the short
// codec name the backend reports ("mp3", "wav"); empty means mp3.
func DecodeBase64Clip(content, format string) (Clip, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(content))
	if err != nil {
		return Clip{}, fmt.Errorf("decode audio payload: %w", err)
	}
	return Clip{Data: data, MIME: mimeForFormat(format)}, nil
}

func mimeForFormat(format string) string {
	switch strings.ToLower(format) {
	case "wav", "wave", MIMEWAV:
		return MIMEWAV
	default:
		return MIMEMP3
	}
}

// =============================================================================
// WAV ENCODING
// =============================================================================

const wavHeaderSize = 44

// wavPCM is the WAVE format tag for uncompressed integer PCM.
const wavPCM = 1

// EncodeWAV wraps raw little-endian PCM in a RIFF/WAVE container.
// A trailing partial frame is dropped.
func EncodeWAV(pcm []byte, f Format) (Clip, error) {
	f = f.withDefaults()
	samples, err := pcmSamples(pcm, f.BitsPerSample)
	if err != nil {
		return Clip{}, err
	}
	if extra := len(samples) % f.Channels; extra != 0 {
		samples = samples[:len(samples)-extra]
	}

	out := &seekBuffer{buf: make([]byte, 0, wavHeaderSize+len(samples)*f.BitsPerSample/8)}
	enc := wav.NewEncoder(out, f.SampleRate, f.BitsPerSample, f.Channels, wavPCM)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: f.Channels, SampleRate: f.SampleRate},
		Data:           samples,
		SourceBitDepth: f.BitsPerSample,
	}
	// Write runs even for an empty clip so the header is emitted.
	if err := enc.Write(buf); err != nil {
		return Clip{}, fmt.Errorf("encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return Clip{}, fmt.Errorf("encode wav: %w", err)
	}
	return Clip{Data: out.buf, MIME: MIMEWAV}, nil
}

// pcmSamples splits little-endian PCM into one int per sample. 8-bit PCM
// is unsigned, wider depths are signed.
func pcmSamples(pcm []byte, bits int) ([]int, error) {
	width := bits / 8
	switch bits {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("encode wav: unsupported bit depth %d", bits)
	}

	n := len(pcm) / width
	samples := make([]int, n)
	for i := 0; i < n; i++ {
		b := pcm[i*width : (i+1)*width]
		switch bits {
		case 8:
			samples[i] = int(b[0])
		case 16:
			samples[i] = int(int16(binary.LittleEndian.Uint16(b)))
		case 24:
			v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
			samples[i] = int(v<<8) >> 8
		case 32:
			samples[i] = int(int32(binary.LittleEndian.Uint32(b)))
		}
	}
	return samples, nil
}

// seekBuffer is an in-memory io.WriteSeeker; the WAV encoder seeks back to
// patch chunk sizes once the samples are written.
type seekBuffer struct {
	buf []byte
	pos int
}

func (s *seekBuffer) Write(p []byte) (int, error) {
	if end := s.pos + len(p); end > len(s.buf) {
		s.buf = append(s.buf, make([]byte, end-len(s.buf))...)
	}
	n := copy(s.buf[s.pos:], p)
	s.pos += n
	return n, nil
}

func (s *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = int64(s.pos)
	case io.SeekEnd:
		base = int64(len(s.buf))
	default:
		return 0, errors.New("seek: invalid whence")
	}
	next := base + offset
	if next < 0 {
		return 0, errors.New("seek: negative position")
	}
	s.pos = int(next)
	return next, nil
}
