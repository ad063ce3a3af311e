package transcribe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Sumeet-basfore/HushAI/internal/extract"
	"github.com/Sumeet-basfore/HushAI/internal/progress"
)

// MaxSegmentBytes is the service's per-request payload ceiling. Segments
// are checked against it before any network traffic is spent.
const MaxSegmentBytes = 25 * 1024 * 1024

// Fragment is the transcript of a single segment, tagged with the
// segment's index so ordered reassembly can be verified.
type Fragment struct {
	Index int
	Text  string
}

// Join reassembles fragments into one transcript. The fragments must
// cover indices 0..len-1 exactly; a gap or duplicate means a segment was
// lost or double-counted upstream.
func Join(fragments []Fragment) (string, error) {
	seen := make(map[int]bool, len(fragments))
	texts := make([]string, len(fragments))
	for _, f := range fragments {
		if f.Index < 0 || f.Index >= len(fragments) || seen[f.Index] {
			return "", fmt.Errorf("fragment index %d: %w", f.Index, ErrSegmentsOutOfOrder)
		}
		seen[f.Index] = true
		texts[f.Index] = f.Text
	}
	return strings.Join(texts, " "), nil
}

// Orchestrator submits segments for transcription one at a time, in
// ascending index order, and aborts the whole job on the first failure.
type Orchestrator struct {
	transcriber Transcriber
}

// NewOrchestrator creates an Orchestrator using the given transcriber.
func NewOrchestrator(t Transcriber) *Orchestrator {
	return &Orchestrator{transcriber: t}
}

// Run transcribes every segment and returns the space-joined transcript.
// Segments must arrive in ascending index order. A failed segment aborts
// the job with a *TranscriptionError carrying that segment's index; no
// partial transcript is returned. Cancellation passes through unwrapped.
func (o *Orchestrator) Run(ctx context.Context, segments []extract.Segment, sink progress.Sink) (string, error) {
	if len(segments) == 0 {
		return "", extract.ErrNoSegments
	}

	// Reject oversized payloads and ordering violations before spending
	// any network round trips.
	for i, seg := range segments {
		if seg.Index != i {
			return "", fmt.Errorf("segment %d at position %d: %w", seg.Index, i, ErrSegmentsOutOfOrder)
		}
		if len(seg.Payload) > MaxSegmentBytes {
			return "", &TranscriptionError{Index: seg.Index, Err: ErrSegmentTooLarge}
		}
	}

	fragments := make([]Fragment, 0, len(segments))
	for i, seg := range segments {
		if err := ctx.Err(); err != nil {
			sink.Emit(progress.PhaseError, 0, "Transcription cancelled")
			return "", err
		}

		sink.Emit(progress.PhaseTranscribing,
			float64(i)/float64(len(segments))*100,
			fmt.Sprintf("Transcribing chunk %d of %d...", i+1, len(segments)))

		text, err := o.transcriber.Transcribe(ctx, seg.Name(), seg.Payload)
		if err != nil {
			if isCancellation(err) {
				sink.Emit(progress.PhaseError, 0, "Transcription cancelled")
				return "", err
			}
			sink.Emit(progress.PhaseError, 0,
				fmt.Sprintf("Transcription failed on chunk %d", seg.Index))
			return "", &TranscriptionError{Index: seg.Index, Err: err}
		}
		fragments = append(fragments, Fragment{Index: seg.Index, Text: strings.TrimSpace(text)})
	}

	transcript, err := Join(fragments)
	if err != nil {
		return "", err
	}

	sink.Emit(progress.PhaseTranscribing, 100, "Transcription complete")
	return transcript, nil
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
