package media

import "errors"

// ErrTooLarge indicates an asset exceeds the configured size limit.
var ErrTooLarge = errors.New("media file too large")

// ErrUnsupportedType indicates an asset is neither audio nor video.
var ErrUnsupportedType = errors.New("unsupported media type")
