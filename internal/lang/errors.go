package lang

import "errors"

// ErrInvalid indicates a language code is missing or not supported.
var ErrInvalid = errors.New("invalid language code")
