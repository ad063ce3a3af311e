package extract

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sumeet-basfore/HushAI/internal/engine"
	"github.com/Sumeet-basfore/HushAI/internal/format"
	"github.com/Sumeet-basfore/HushAI/internal/media"
	"github.com/Sumeet-basfore/HushAI/internal/progress"
)

// State is the orchestrator's position in its run.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateEngineLoading
	StateDurationEstimation
	StateSingleChunk
	StateMultiChunk
	StateComplete
	StateError
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateValidating:
		return "Validating"
	case StateEngineLoading:
		return "EngineLoading"
	case StateDurationEstimation:
		return "DurationEstimation"
	case StateSingleChunk:
		return "SingleChunk"
	case StateMultiChunk:
		return "MultiChunk"
	case StateComplete:
		return "Complete"
	case StateError:
		return "Error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Progress bands for one extraction run. Per-chunk sub-progress is
// rescaled into the extraction band so the overall stream is monotonic.
const (
	loadedPercent     = 5.0
	analyzedPercent   = 10.0
	extractionPercent = 90.0 // end of the extraction band
)

// Orchestrator drives validation, engine loading, duration estimation and
// per-chunk extraction for one asset. An instance owns its engine for the
// duration of a run; chunks are processed sequentially in ascending index
// order.
type Orchestrator struct {
	engine      engine.Engine
	validator   *media.Validator
	chunkLength time.Duration
	state       State
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithValidator overrides the asset validator.
func WithValidator(v *media.Validator) OrchestratorOption {
	return func(o *Orchestrator) {
		o.validator = v
	}
}

// WithChunkLength overrides the target chunk duration.
func WithChunkLength(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if d > 0 {
			o.chunkLength = d
		}
	}
}

// NewOrchestrator creates an Orchestrator around an engine instance.
// The engine must be used by at most one run at a time.
func NewOrchestrator(eng engine.Engine, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		engine:      eng,
		validator:   media.NewValidator(),
		chunkLength: DefaultChunkLength,
		state:       StateIdle,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State returns the orchestrator's current state.
func (o *Orchestrator) State() State {
	return o.state
}

// Run validates the asset, loads the engine, estimates duration and
// extracts audio segments in ascending index order. Short or
// unknown-duration assets take the single-pass path. The first chunk
// failure aborts the run with an *ExtractionError naming the chunk.
//
// Emitted percent is monotonically non-decreasing on the success path.
func (o *Orchestrator) Run(ctx context.Context, asset media.Asset, sink progress.Sink) ([]Segment, error) {
	sink = progress.Monotonic(sink)

	// Validation commits no engine resources.
	o.state = StateValidating
	if result := o.validator.Validate(asset); !result.Valid {
		o.state = StateError
		sink.Emit(progress.PhaseError, 0, result.Reason)
		return nil, result.Err()
	}

	o.state = StateEngineLoading
	sink.Emit(progress.PhaseLoading, 0, "Loading transcoding engine...")
	if err := o.engine.Load(ctx); err != nil {
		o.state = StateError
		sink.Emit(progress.PhaseError, 0, err.Error())
		return nil, err
	}
	sink.Emit(progress.PhaseLoading, loadedPercent, "Engine loaded")

	extractor := NewExtractor(o.engine, asset)
	defer extractor.Close()

	o.state = StateDurationEstimation
	sink.Emit(progress.PhaseChunking, loadedPercent, "Analyzing media duration...")
	total, err := o.estimateDuration(ctx, extractor)
	if err != nil {
		o.state = StateError
		if isCancellation(err) {
			sink.Emit(progress.PhaseError, 0, "Extraction cancelled")
		} else {
			sink.Emit(progress.PhaseError, 0, err.Error())
		}
		return nil, err
	}

	segments, err := o.extract(ctx, extractor, total, sink)
	if err != nil {
		o.state = StateError
		return nil, err
	}

	o.state = StateComplete
	sink.Emit(progress.PhaseComplete, 100, "All chunks processed")
	return segments, nil
}

// estimateDuration probes the ingested asset. An unknown duration is
// reported as zero with no error: the caller treats it as "short enough
// for a single pass". Cancellation and ingest failures still propagate.
func (o *Orchestrator) estimateDuration(ctx context.Context, extractor *Extractor) (time.Duration, error) {
	if err := extractor.Ingest(ctx); err != nil {
		return 0, err
	}
	total, err := o.engine.Probe(ctx, extractor.InputName())
	if err != nil {
		if errors.Is(err, engine.ErrDurationUnknown) {
			return 0, nil
		}
		return 0, err
	}
	return total, nil
}

// extract chooses the single- or multi-chunk path and runs it.
func (o *Orchestrator) extract(ctx context.Context, extractor *Extractor, total time.Duration, sink progress.Sink) ([]Segment, error) {
	if total <= o.chunkLength {
		o.state = StateSingleChunk
		spec := ChunkSpec{Index: 0, Start: 0, Length: total}
		sub := progress.Window(sink, analyzedPercent, extractionPercent-analyzedPercent)
		segment, err := extractor.ExtractRange(ctx, spec, sub)
		if err != nil {
			return nil, err
		}
		return []Segment{segment}, nil
	}

	o.state = StateMultiChunk
	specs := Plan(total, o.chunkLength)
	sink.Emit(progress.PhaseChunking, analyzedPercent,
		fmt.Sprintf("Processing %d chunks of ~%s each...", len(specs), format.Duration(o.chunkLength)))

	segments := make([]Segment, 0, len(specs))
	width := (extractionPercent - analyzedPercent) / float64(len(specs))
	for _, spec := range specs {
		base := analyzedPercent + float64(spec.Index)*width
		sink.Emit(progress.PhaseChunking, base,
			fmt.Sprintf("Processing chunk %d/%d...", spec.Index+1, len(specs)))

		segment, err := extractor.ExtractRange(ctx, spec, progress.Window(sink, base, width))
		if err != nil {
			// Remaining chunks are abandoned; the error names the chunk.
			return nil, err
		}
		segments = append(segments, segment)
	}
	return segments, nil
}

// isCancellation reports whether err stems from context cancellation or
// deadline expiry.
func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
