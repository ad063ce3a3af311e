// Package engine models the external transcoding capability. The pipeline
// drives it through the Engine interface: implementations differ per target
// (native ffmpeg process, embedded library, remote service) without changing
// the orchestration above them.
package engine

import (
	"context"
	"time"

	"github.com/Sumeet-basfore/HushAI/internal/format"
)

// Engine is a stateful transcoding capability. It must be loaded once
// before use, accepts named byte buffers, executes transcode operations,
// and requires explicit release of named buffers.
//
// An Engine instance is owned by one job at a time; concurrent use of one
// instance is not supported.
type Engine interface {
	// Load initializes the engine. Idempotent: a second call on an
	// already-loaded engine is a no-op.
	Load(ctx context.Context) error

	// Ingest stores data under a named buffer.
	Ingest(name string, data []byte) error

	// Run executes one transcode operation. Args are ffmpeg-style
	// command arguments referencing previously ingested buffer names.
	Run(ctx context.Context, args []string) error

	// ReadOutput returns the bytes of a named buffer produced by Run.
	ReadOutput(name string) ([]byte, error)

	// Release deletes a named buffer. Releasing an unknown name is an
	// error, but callers performing cleanup may ignore it.
	Release(name string) error

	// Probe reports the playable duration of an ingested buffer.
	// Returns ErrDurationUnknown when the duration cannot be determined;
	// it never reports zero as a stand-in for unknown.
	Probe(ctx context.Context, name string) (time.Duration, error)
}

// Transcode encoding constants, chosen so a 45-minute chunk stays well
// under the transcription service's 25MB payload ceiling (~7MB per hour).
const (
	codec      = "libmp3lame"
	bitrate    = "16k"
	sampleRate = "16000"
	channels   = "1"
	container  = "mp3"
)

// TranscodeParams describes one transcode operation: strip video, force
// mono 16kHz low-bitrate MP3, optionally trimmed to a time range.
type TranscodeParams struct {
	InputName  string
	OutputName string

	// Start and Length select a time range of the input. A Length of zero
	// means the whole asset; no trim arguments are emitted.
	Start  time.Duration
	Length time.Duration
}

// Args builds the ffmpeg argument list for these parameters.
func (p TranscodeParams) Args() []string {
	args := []string{"-y"}
	if p.Length > 0 {
		args = append(args,
			"-ss", format.Seconds(p.Start),
			"-t", format.Seconds(p.Length),
		)
	}
	args = append(args,
		"-i", p.InputName,
		"-vn",
		"-acodec", codec,
		"-b:a", bitrate,
		"-ar", sampleRate,
		"-ac", channels,
		"-f", container,
		p.OutputName,
	)
	return args
}
