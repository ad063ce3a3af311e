package pipeline

import "errors"

// ErrCancelled indicates the job was interrupted before completion. The
// underlying context error is preserved in the wrap chain.
var ErrCancelled = errors.New("operation cancelled")

// ErrNoAudio indicates extraction finished without producing any audio
// segments, so there is nothing to transcribe.
var ErrNoAudio = errors.New("no audio extracted from media")
