// Package pipeline is the entry point for one media-to-transcript job:
// validate, extract audio chunk by chunk, transcribe, join.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sumeet-basfore/HushAI/internal/engine"
	"github.com/Sumeet-basfore/HushAI/internal/extract"
	"github.com/Sumeet-basfore/HushAI/internal/media"
	"github.com/Sumeet-basfore/HushAI/internal/progress"
	"github.com/Sumeet-basfore/HushAI/internal/transcribe"
)

// extractionShare is the slice of overall percent given to extraction;
// transcription gets the rest, with 100 reserved for final completion.
const extractionShare = 60.0

// extractionRunner produces ordered audio segments from one asset.
type extractionRunner interface {
	Run(ctx context.Context, asset media.Asset, sink progress.Sink) ([]extract.Segment, error)
}

// transcriptionRunner turns ordered segments into one transcript.
type transcriptionRunner interface {
	Run(ctx context.Context, segments []extract.Segment, sink progress.Sink) (string, error)
}

var (
	_ extractionRunner    = (*extract.Orchestrator)(nil)
	_ transcriptionRunner = (*transcribe.Orchestrator)(nil)
)

// Processor runs complete transcription jobs. One Processor handles one
// job at a time; independent jobs get independent Processors.
type Processor struct {
	extraction    extractionRunner
	transcription transcriptionRunner
}

// Option configures a Processor.
type Option func(*Processor)

// WithExtractionRunner overrides the extraction stage (for testing).
func WithExtractionRunner(r extractionRunner) Option {
	return func(p *Processor) {
		p.extraction = r
	}
}

// WithTranscriptionRunner overrides the transcription stage (for testing).
func WithTranscriptionRunner(r transcriptionRunner) Option {
	return func(p *Processor) {
		p.transcription = r
	}
}

// NewProcessor assembles a Processor around an engine and a transcriber.
// extractOpts pass through to the extraction orchestrator.
func NewProcessor(eng engine.Engine, tr transcribe.Transcriber, opts []Option, extractOpts ...extract.OrchestratorOption) *Processor {
	p := &Processor{
		extraction:    extract.NewOrchestrator(eng, extractOpts...),
		transcription: transcribe.NewOrchestrator(tr),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process runs the full job and returns the transcript. Interruption is
// reported as ErrCancelled with the context error in the wrap chain;
// stage failures keep their own typed errors.
func (p *Processor) Process(ctx context.Context, asset media.Asset, sink progress.Sink) (string, error) {
	sink = progress.Monotonic(sink)

	segments, err := p.extraction.Run(ctx, asset, progress.Window(sink, 0, extractionShare))
	if err != nil {
		return "", mapCancellation(err)
	}
	if len(segments) == 0 {
		sink.Emit(progress.PhaseError, 0, "No audio could be extracted")
		return "", ErrNoAudio
	}

	transcript, err := p.transcription.Run(ctx, segments,
		progress.Window(sink, extractionShare, 100-extractionShare))
	if err != nil {
		return "", mapCancellation(err)
	}

	sink.Emit(progress.PhaseComplete, 100, "Transcript ready")
	return transcript, nil
}

// mapCancellation converts context interruption into ErrCancelled,
// keeping the original error in the chain. Other errors pass through.
func mapCancellation(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrCancelled, err)
	}
	return err
}
