// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/jeranaias/edugenius-tui/internal/audio"
	"github.com/jeranaias/edugenius-tui/internal/model"
)

// RecordingFilename is the fixed filename of uploaded voice clips.
const RecordingFilename = "recording.wav"

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend base URL (default: http://127.0.0.1:8000)
	BaseURL string

	// Timeout per request, including upload and reply (default: 120s)
	Timeout time.Duration

	// Endpoint paths relative to BaseURL
	ChatPath         string
	DocumentChatPath string
	VoiceInputPath   string

	// MaxResponseSize caps the decoded reply body (default: 32 MiB;
	// replies carry base64 audio)
	MaxResponseSize int64
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:          "http://127.0.0.1:8000",
		Timeout:          120 * time.Second,
		ChatPath:         "/chat",
		DocumentChatPath: "/document-chat",
		VoiceInputPath:   "/voice-input",
		MaxResponseSize:  32 << 20,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the assistant backend.
//
// The Client is thread-safe for concurrent use; the controller is what
// keeps at most one request in flight.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig(), nil)
}

// NewClientWithConfig creates a new client with custom configuration.
func NewClientWithConfig(config *ClientConfig, logger *zap.Logger) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	defaults := DefaultConfig()

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}
	if config.ChatPath == "" {
		config.ChatPath = defaults.ChatPath
	}
	if config.DocumentChatPath == "" {
		config.DocumentChatPath = defaults.DocumentChatPath
	}
	if config.VoiceInputPath == "" {
		config.VoiceInputPath = defaults.VoiceInputPath
	}
	if config.MaxResponseSize == 0 {
		config.MaxResponseSize = defaults.MaxResponseSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger.Named("backend"),
	}
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// HEALTH CHECK
// =============================================================================

// Ping verifies that the backend answers HTTP at its base URL.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/", nil)
	if err != nil {
		return &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ClientError{Type: ErrTypeUnreachable, Message: ErrUnreachable.Message, Cause: err}
	}
	drainAndClose(resp.Body)

	if resp.StatusCode >= http.StatusInternalServerError {
		return &ClientError{Type: ErrTypeUnreachable, Status: resp.StatusCode, Message: "backend unhealthy"}
	}
	return nil
}

// =============================================================================
// CHAT
// =============================================================================

// Chat sends the full conversation and returns the assistant reply.
func (c *Client) Chat(ctx context.Context, messages []model.Message) (*Reply, error) {
	body, err := json.Marshal(ChatRequest{Messages: messages})
	if err != nil {
		return nil, &ClientError{Type: ErrTypeChatFailed, Message: "failed to marshal request", Cause: err}
	}

	var reply Reply
	if err := c.do(ctx, ErrTypeChatFailed, c.config.ChatPath, "application/json", bytes.NewReader(body), &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// DocumentChat sends a query together with one document.
func (c *Client) DocumentChat(ctx context.Context, query string, doc Upload) (*Reply, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("query", query); err != nil {
		return nil, &ClientError{Type: ErrTypeDocumentChatFailed, Message: "failed to write query field", Cause: err}
	}
	if err := writeFilePart(writer, doc); err != nil {
		return nil, &ClientError{Type: ErrTypeDocumentChatFailed, Message: "failed to write file part", Cause: err}
	}
	if err := writer.Close(); err != nil {
		return nil, &ClientError{Type: ErrTypeDocumentChatFailed, Message: "failed to finalize form", Cause: err}
	}

	var reply Reply
	if err := c.do(ctx, ErrTypeDocumentChatFailed, c.config.DocumentChatPath, writer.FormDataContentType(), &buf, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// =============================================================================
// TRANSCRIPTION
// =============================================================================

// Transcribe uploads a recorded clip and returns the recognized text.
func (c *Client) Transcribe(ctx context.Context, clip audio.Clip) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	mime := clip.MIME
	if mime == "" {
		mime = audio.MIMEWAV
	}
	err := writeFilePart(writer, Upload{
		Filename:    RecordingFilename,
		ContentType: mime,
		Body:        bytes.NewReader(clip.Data),
	})
	if err != nil {
		return "", &ClientError{Type: ErrTypeTranscriptionFailed, Message: "failed to write file part", Cause: err}
	}
	if err := writer.Close(); err != nil {
		return "", &ClientError{Type: ErrTypeTranscriptionFailed, Message: "failed to finalize form", Cause: err}
	}

	var reply TranscriptionReply
	if err := c.do(ctx, ErrTypeTranscriptionFailed, c.config.VoiceInputPath, writer.FormDataContentType(), &buf, &reply); err != nil {
		return "", err
	}
	return reply.Transcription, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// do performs one POST and decodes a 2xx JSON body into out. Every failure
// is reported as a *ClientError of kind.
func (c *Client) do(ctx context.Context, kind ErrorType, path, contentType string, body io.Reader, out interface{}) error {
	start := time.Now()
	url := c.config.BaseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return &ClientError{Type: kind, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("path", path),
			zap.Stringer("kind", kind),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err),
		)
		return &ClientError{Type: kind, Message: "request failed", Cause: err}
	}
	defer drainAndClose(resp.Body)

	c.logger.Info("request completed",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		msg := "unexpected status: " + resp.Status
		if d := strings.TrimSpace(string(detail)); d != "" {
			msg += " - " + d
		}
		return &ClientError{Type: kind, Status: resp.StatusCode, Message: msg}
	}

	limited := io.LimitReader(resp.Body, c.config.MaxResponseSize)
	if err := json.NewDecoder(limited).Decode(out); err != nil {
		return &ClientError{Type: kind, Status: resp.StatusCode, Message: "failed to decode response", Cause: err}
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// writeFilePart adds the "file" part, sniffing its content type when the
// upload does not carry one.
func writeFilePart(w *multipart.Writer, up Upload) error {
	if up.Body == nil {
		return fmt.Errorf("upload %q has no body", up.Filename)
	}

	body := up.Body
	contentType := up.ContentType
	if contentType == "" {
		br := bufio.NewReaderSize(up.Body, 3072)
		head, _ := br.Peek(3072)
		contentType = mimetype.Detect(head).String()
		body = br
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(up.Filename)))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, body)
	return err
}

// drainAndClose drains the response body so the connection can be reused.
func drainAndClose(r io.ReadCloser) {
	io.Copy(io.Discard, r)
	r.Close()
}
