package extract

import (
	"errors"
	"fmt"
)

// ErrNoSegments indicates an extraction run produced no segments.
var ErrNoSegments = errors.New("no audio extracted")

// ExtractionError reports that a specific chunk failed to transcode.
// The remaining chunks are aborted; buffers for the failed chunk are
// released before this error propagates.
type ExtractionError struct {
	Index int
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("chunk %d: extraction failed: %v", e.Index, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
