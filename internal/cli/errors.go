package cli

import "errors"

// CLI-specific sentinel errors.
// These are validation/usage errors that don't belong to domain packages.

var (
	// ErrFileNotFound indicates the specified input file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrUnsupportedFormat indicates a media file has an unsupported extension.
	ErrUnsupportedFormat = errors.New("unsupported media format")

	// ErrOutputExists indicates the output file already exists.
	ErrOutputExists = errors.New("output file already exists")

	// ErrOutputWithMultipleInputs indicates -o was combined with more than
	// one input file; per-file defaults apply in that case.
	ErrOutputWithMultipleInputs = errors.New("-o/--output requires exactly one input file")
)
