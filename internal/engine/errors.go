package engine

import "errors"

// ErrNotFound indicates the ffmpeg binary could not be located.
var ErrNotFound = errors.New("ffmpeg not found")

// ErrLoadFailed indicates the engine could not be initialized.
var ErrLoadFailed = errors.New("engine load failed")

// ErrNotLoaded indicates an operation was attempted before Load.
var ErrNotLoaded = errors.New("engine not loaded")

// ErrRunFailed indicates a transcode operation failed.
var ErrRunFailed = errors.New("transcode operation failed")

// ErrBufferNotFound indicates a named buffer does not exist.
var ErrBufferNotFound = errors.New("named buffer not found")

// ErrDurationUnknown indicates the engine could not determine an asset's
// playable duration.
var ErrDurationUnknown = errors.New("duration unknown")
