// Package extract turns one media asset into an ordered sequence of
// compact speech-optimized audio segments, driving the transcoding engine
// chunk by chunk.
package extract

import (
	"fmt"
	"time"

	"github.com/Sumeet-basfore/HushAI/internal/format"
)

// DefaultChunkLength is the target chunk duration. At 16kb/s a 45-minute
// chunk is ~5MB, well under the transcription payload ceiling.
const DefaultChunkLength = 45 * time.Minute

// ChunkSpec is one contiguous time range of the source asset.
// A Length of zero means "the whole asset" (duration unknown).
type ChunkSpec struct {
	Index  int
	Start  time.Duration
	Length time.Duration
}

// String returns a human-readable representation for progress messages.
func (s ChunkSpec) String() string {
	return fmt.Sprintf("chunk %d: %s+%s",
		s.Index, format.Duration(s.Start), format.Duration(s.Length))
}

// Plan partitions [0, total) into contiguous non-overlapping specs of
// target length, the final spec truncated to the remainder. A total at or
// under the target yields a single spec covering the whole asset.
// Pure and deterministic; index order is the only valid processing order.
func Plan(total, target time.Duration) []ChunkSpec {
	if target <= 0 {
		target = DefaultChunkLength
	}
	if total <= target {
		return []ChunkSpec{{Index: 0, Start: 0, Length: total}}
	}

	numChunks := int((total + target - 1) / target) // ceiling division
	specs := make([]ChunkSpec, 0, numChunks)
	for i := 0; i < numChunks; i++ {
		start := time.Duration(i) * target
		specs = append(specs, ChunkSpec{
			Index:  i,
			Start:  start,
			Length: min(target, total-start),
		})
	}
	return specs
}

// Segment is one extracted audio chunk: mono, 16kHz, constant low-bitrate
// MP3. Produced from exactly one ChunkSpec and never mutated afterwards.
type Segment struct {
	Index   int
	Start   time.Duration
	Length  time.Duration
	Payload []byte
}

// Name returns the segment's engine buffer name.
func (s Segment) Name() string {
	return fmt.Sprintf("chunk_%d.mp3", s.Index)
}
