package transcribe

import (
	"errors"
	"fmt"
)

// ErrAPIKeyMissing indicates GROQ_API_KEY environment variable is not set.
var ErrAPIKeyMissing = errors.New("GROQ_API_KEY environment variable not set")

// ErrSegmentTooLarge indicates a segment payload exceeds the service's
// 25MB per-request ceiling.
var ErrSegmentTooLarge = errors.New("segment exceeds 25MB limit")

// ErrSegmentsOutOfOrder indicates segments were submitted out of index
// order. Ascending index order is the only valid order; violating it is a
// programming error, not a runtime condition.
var ErrSegmentsOutOfOrder = errors.New("segments out of index order")

// TranscriptionError reports that a specific segment failed remote
// transcription. The job aborts; no partial transcript is returned.
type TranscriptionError struct {
	Index int
	Err   error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("chunk %d: transcription failed: %v", e.Index, e.Err)
}

func (e *TranscriptionError) Unwrap() error {
	return e.Err
}
