// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrCaptureUnavailable is returned when the capture device cannot be
	// opened (missing recorder, permission denied, no input device).
	ErrCaptureUnavailable = errors.New("audio capture unavailable")

	// ErrCaptureActive is returned by Start while another capture is running.
	ErrCaptureActive = errors.New("audio capture already active")

	// ErrNoCapture is returned by Stop for a handle that is not active.
	ErrNoCapture = errors.New("no active audio capture")
)

// =============================================================================
// DEVICE
// =============================================================================

// Device opens a stream of raw PCM from an input device.
// Closing the returned stream must release the device.
type Device interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// DeviceFunc adapts a function to the Device interface.
type DeviceFunc func(ctx context.Context) (io.ReadCloser, error)

// Open calls f(ctx).
func (f DeviceFunc) Open(ctx context.Context) (io.ReadCloser, error) {
	return f(ctx)
}

// =============================================================================
// CAPTURE
// =============================================================================

// CaptureOptions configures a Capture.
type CaptureOptions struct {
	Format    Format
	ChunkSize int
	Logger    *zap.Logger

	// DrainTimeout bounds how long Stop waits for the reader to finish
	// after the device is closed (default: 2s).
	DrainTimeout time.Duration
}

// Capture manages at most one active recording on a Device.
type Capture struct {
	device       Device
	format       Format
	chunkSize    int
	drainTimeout time.Duration
	logger       *zap.Logger

	mu     sync.Mutex
	active *Handle
}

// NewCapture creates a capture session over device.
func NewCapture(device Device, opts CaptureOptions) *Capture {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 4096
	}
	if opts.DrainTimeout <= 0 {
		opts.DrainTimeout = 2 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Capture{
		device:       device,
		format:       opts.Format.withDefaults(),
		chunkSize:    opts.ChunkSize,
		drainTimeout: opts.DrainTimeout,
		logger:       opts.Logger.Named("audio"),
	}
}

// Handle identifies one running capture.
type Handle struct {
	ID      string
	Started time.Time

	stream io.ReadCloser
	done   chan struct{}

	mu      sync.Mutex
	chunks  [][]byte
	size    int
	closed  bool
	readErr error
}

// Bytes returns the number of PCM bytes captured so far.
func (h *Handle) Bytes() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.size
}

// Elapsed returns how long the capture has been running.
func (h *Handle) Elapsed() time.Duration {
	return time.Since(h.Started)
}

// Active reports whether a capture is running.
func (c *Capture) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active != nil
}

// Start opens the device and begins accumulating chunks.
// Failure to open the device yields ErrCaptureUnavailable.
func (c *Capture) Start(ctx context.Context) (*Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != nil {
		return nil, ErrCaptureActive
	}

	stream, err := c.device.Open(ctx)
	if err != nil {
		c.logger.Warn("capture device unavailable", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrCaptureUnavailable, err)
	}

	h := &Handle{
		ID:      uuid.NewString(),
		Started: time.Now(),
		stream:  stream,
		done:    make(chan struct{}),
	}
	c.active = h
	go c.pump(h)

	c.logger.Info("capture started", zap.String("capture_id", h.ID))
	return h, nil
}

// pump reads chunks until the stream ends. A single reader keeps chunks
// in arrival order.
func (c *Capture) pump(h *Handle) {
	defer close(h.done)

	buf := make([]byte, c.chunkSize)
	for {
		n, err := h.stream.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			h.mu.Lock()
			h.chunks = append(h.chunks, chunk)
			h.size += n
			h.mu.Unlock()
		}
		if err != nil {
			h.mu.Lock()
			if !h.closed && !errors.Is(err, io.EOF) {
				h.readErr = err
			}
			h.mu.Unlock()
			return
		}
	}
}

// Stop releases the device and returns the recording as a WAV clip.
// The device is released even when Stop returns an error.
func (c *Capture) Stop(h *Handle) (Clip, error) {
	c.mu.Lock()
	if h == nil || c.active != h {
		c.mu.Unlock()
		return Clip{}, ErrNoCapture
	}
	c.active = nil
	c.mu.Unlock()

	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()

	closeErr := h.stream.Close()

	select {
	case <-h.done:
	case <-time.After(c.drainTimeout):
		c.logger.Warn("capture reader did not drain", zap.String("capture_id", h.ID))
	}

	h.mu.Lock()
	pcm := make([]byte, 0, h.size)
	for _, chunk := range h.chunks {
		pcm = append(pcm, chunk...)
	}
	readErr := h.readErr
	h.mu.Unlock()

	if closeErr != nil {
		c.logger.Debug("capture device close", zap.Error(closeErr))
	}
	if readErr != nil {
		c.logger.Warn("capture ended with read error", zap.Error(readErr))
	}

	clip, err := EncodeWAV(pcm, c.format)
	if err != nil {
		return Clip{}, err
	}
	c.logger.Info("capture stopped",
		zap.String("capture_id", h.ID),
		zap.Int("pcm_bytes", len(pcm)),
		zap.Duration("elapsed", h.Elapsed()),
	)
	return clip, nil
}

// Abort stops any active capture and discards its audio.
func (c *Capture) Abort() {
	c.mu.Lock()
	h := c.active
	c.mu.Unlock()
	if h != nil {
		_, _ = c.Stop(h)
	}
}
