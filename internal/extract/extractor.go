package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sumeet-basfore/HushAI/internal/engine"
	"github.com/Sumeet-basfore/HushAI/internal/media"
	"github.com/Sumeet-basfore/HushAI/internal/progress"
)

// Extractor turns time ranges of one ingested asset into audio segments.
// It owns the engine's input buffer for the asset: the asset bytes are
// ingested once on first use and released by Close, never re-ingested per
// chunk. Per-chunk output buffers never outlive the ExtractRange call that
// created them.
type Extractor struct {
	engine    engine.Engine
	asset     media.Asset
	inputName string
	ingested  bool
}

// NewExtractor creates an Extractor for one asset. The engine must already
// be loaded.
func NewExtractor(eng engine.Engine, asset media.Asset) *Extractor {
	return &Extractor{
		engine:    eng,
		asset:     asset,
		inputName: "input" + asset.Ext(),
	}
}

// InputName returns the engine buffer name holding the asset bytes.
func (x *Extractor) InputName() string {
	return x.inputName
}

// Ingest writes the asset bytes into the engine input buffer.
// Idempotent within one Extractor: later calls are no-ops.
func (x *Extractor) Ingest(ctx context.Context) error {
	if x.ingested {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := x.engine.Ingest(x.inputName, x.asset.Data); err != nil {
		return fmt.Errorf("cannot ingest %s: %w", x.asset.Name, err)
	}
	x.ingested = true
	return nil
}

// Close releases the input buffer. Safe to call on every exit path;
// release failures are swallowed so they never mask the caller's error.
func (x *Extractor) Close() {
	if !x.ingested {
		return
	}
	x.ingested = false
	_ = x.engine.Release(x.inputName)
}

// ExtractRange transcodes one chunk of the asset into a Segment: video
// stripped, mono, 16kHz, 16kb/s MP3. The output buffer is always released
// before returning, on success and on every failure path.
//
// Engine failures are wrapped in *ExtractionError carrying the chunk
// index and emitted as an error event; cancellation propagates unwrapped.
func (x *Extractor) ExtractRange(ctx context.Context, spec ChunkSpec, sink progress.Sink) (Segment, error) {
	if err := x.Ingest(ctx); err != nil {
		return Segment{}, x.fail(spec, sink, err)
	}
	sink.Emit(progress.PhaseExtracting, 10, "Reading media file...")

	outputName := Segment{Index: spec.Index}.Name()
	// The output buffer must not outlive this call, whatever happens below.
	defer func() { _ = x.engine.Release(outputName) }()

	sink.Emit(progress.PhaseExtracting, 30, "Extracting audio...")
	params := engine.TranscodeParams{
		InputName:  x.inputName,
		OutputName: outputName,
		Start:      spec.Start,
		Length:     spec.Length,
	}
	if err := x.engine.Run(ctx, params.Args()); err != nil {
		return Segment{}, x.fail(spec, sink, err)
	}

	sink.Emit(progress.PhaseExtracting, 90, "Finalizing...")
	payload, err := x.engine.ReadOutput(outputName)
	if err != nil {
		return Segment{}, x.fail(spec, sink, err)
	}

	sink.Emit(progress.PhaseExtracting, 100, "Extraction complete")
	return Segment{
		Index:   spec.Index,
		Start:   spec.Start,
		Length:  spec.Length,
		Payload: payload,
	}, nil
}

// fail emits an error event and wraps err with the failing chunk index.
// Cancellation is not a chunk failure and passes through unwrapped.
func (x *Extractor) fail(spec ChunkSpec, sink progress.Sink, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		sink.Emit(progress.PhaseError, 0, "Extraction cancelled")
		return err
	}
	sink.Emit(progress.PhaseError, 0, err.Error())
	return &ExtractionError{Index: spec.Index, Err: err}
}
