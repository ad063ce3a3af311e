package media

import (
	"fmt"
	"strings"

	"github.com/Sumeet-basfore/HushAI/internal/format"
)

// DefaultMaxAssetBytes is the largest asset accepted for local processing.
const DefaultMaxAssetBytes = 500 * 1024 * 1024

// ValidationResult reports whether an asset may enter the pipeline.
// Reason is a human-readable rejection message, empty when Valid.
type ValidationResult struct {
	Valid  bool
	Reason string
}

// Validator checks assets against size and type constraints.
// It has no side effects and must run before any engine resource is
// acquired.
type Validator struct {
	maxBytes int64
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithMaxBytes overrides the maximum accepted asset size.
func WithMaxBytes(n int64) ValidatorOption {
	return func(v *Validator) {
		if n > 0 {
			v.maxBytes = n
		}
	}
}

// NewValidator creates a Validator with the default 500MB size limit.
func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{maxBytes: DefaultMaxAssetBytes}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate rejects assets that exceed the size limit or are neither audio
// nor video. An asset exactly at the limit passes.
func (v *Validator) Validate(asset Asset) ValidationResult {
	if asset.Size > v.maxBytes {
		return ValidationResult{
			Valid: false,
			Reason: fmt.Sprintf("file too large (%s), maximum allowed is %s",
				format.Size(asset.Size), format.Size(v.maxBytes)),
		}
	}

	if !strings.HasPrefix(asset.MIME, "video/") && !strings.HasPrefix(asset.MIME, "audio/") {
		return ValidationResult{
			Valid:  false,
			Reason: "invalid file format, please provide a video or audio file",
		}
	}

	return ValidationResult{Valid: true}
}

// Err converts a failed result into a ValidationError.
// Returns nil for a valid result.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	if strings.Contains(r.Reason, "too large") {
		return fmt.Errorf("%w: %s", ErrTooLarge, r.Reason)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedType, r.Reason)
}
