// Package transcribe submits audio segments to the remote speech-to-text
// service and reassembles the ordered transcript.
package transcribe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Sumeet-basfore/HushAI/internal/apierr"
	"github.com/Sumeet-basfore/HushAI/internal/lang"
)

// Groq exposes an OpenAI-compatible API; the go-openai client is pointed
// at it via a custom base URL.
const (
	groqBaseURL = "https://api.groq.com/openai/v1"

	// ModelWhisperLargeV3 is Groq's hosted Whisper transcription model.
	ModelWhisperLargeV3 = "whisper-large-v3"
)

// Default retry configuration for transient API failures.
const (
	defaultMaxRetries = 5
	defaultBaseDelay  = 1 * time.Second
	defaultMaxDelay   = 30 * time.Second
)

// Transcriber converts one audio segment to text.
type Transcriber interface {
	// Transcribe submits a named audio payload and returns the recognized
	// text. The name is a hint for the service's format detection
	// (e.g. "chunk_0.mp3").
	Transcribe(ctx context.Context, name string, payload []byte) (string, error)
}

// audioTranscriber is the slice of the OpenAI client this package needs.
// *openai.Client implements it implicitly; tests inject mocks.
type audioTranscriber interface {
	CreateTranscription(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error)
}

// Compile-time interface compliance checks.
var (
	_ Transcriber      = (*GroqTranscriber)(nil)
	_ audioTranscriber = (*openai.Client)(nil)
)

// GroqTranscriber transcribes audio through Groq's Whisper endpoint with
// deterministic decoding (temperature pinned to 0) and a fixed language.
// Transient failures are retried with exponential backoff.
type GroqTranscriber struct {
	client     audioTranscriber
	language   string
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

// TranscriberOption configures a GroqTranscriber.
type TranscriberOption func(*GroqTranscriber)

// WithMaxRetries sets the maximum number of retry attempts.
func WithMaxRetries(n int) TranscriberOption {
	return func(t *GroqTranscriber) {
		if n >= 0 {
			t.maxRetries = n
		}
	}
}

// WithRetryDelays sets the base and max delays for exponential backoff.
func WithRetryDelays(base, max time.Duration) TranscriberOption {
	return func(t *GroqTranscriber) {
		if base > 0 {
			t.baseDelay = base
		}
		if max > 0 {
			t.maxDelay = max
		}
	}
}

// WithClient sets a custom transcription client (for testing).
func WithClient(c audioTranscriber) TranscriberOption {
	return func(t *GroqTranscriber) {
		t.client = c
	}
}

// NewGroqTranscriber creates a GroqTranscriber. language must be a
// validated code; only its ISO 639-1 base code is sent to the API.
func NewGroqTranscriber(apiKey, language string, opts ...TranscriberOption) *GroqTranscriber {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = groqBaseURL

	t := &GroqTranscriber{
		client:     openai.NewClientWithConfig(cfg),
		language:   lang.BaseCode(language),
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
		maxDelay:   defaultMaxDelay,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transcribe submits the payload, retrying transient errors.
func (t *GroqTranscriber) Transcribe(ctx context.Context, name string, payload []byte) (string, error) {
	cfg := apierr.RetryConfig{
		MaxRetries: t.maxRetries,
		BaseDelay:  t.baseDelay,
		MaxDelay:   t.maxDelay,
	}

	return apierr.RetryWithBackoff(ctx, cfg, func() (string, error) {
		// A fresh reader per attempt: a retried request must resend the
		// whole payload, not the consumed remainder.
		req := openai.AudioRequest{
			Model:       ModelWhisperLargeV3,
			FilePath:    name,
			Reader:      bytes.NewReader(payload),
			Format:      openai.AudioResponseFormatJSON,
			Language:    t.language,
			Temperature: 0, // deterministic decoding
		}
		resp, err := t.client.CreateTranscription(ctx, req)
		if err != nil {
			return "", classifyError(err)
		}
		return resp.Text, nil
	}, isRetryableError)
}

// classifyError maps API errors to apierr sentinels.
func classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			// Quota exhaustion is a billing problem, not a transient rate
			// limit; it requires user action before a retry can help.
			if strings.Contains(apiErr.Message, "quota") ||
				strings.Contains(apiErr.Message, "billing") {
				return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrQuotaExceeded)
			}
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrRateLimit)
		case http.StatusUnauthorized:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrAuthFailed)
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrTimeout)
		case http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrBadRequest)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", apierr.ErrTimeout)
	}

	return err
}

// isRetryableError determines if an error is transient.
func isRetryableError(err error) bool {
	if errors.Is(err, apierr.ErrRateLimit) || errors.Is(err, apierr.ErrTimeout) {
		return true
	}

	// Server errors (5xx) are retryable.
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}
