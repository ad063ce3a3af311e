// Package lang validates the configured transcription language.
// The pipeline forces a single language per job; this package rejects
// unsupported codes at configuration time instead of at the API boundary.
package lang

import (
	"fmt"
	"strings"
)

// validLanguages contains ISO 639-1 language codes accepted by the
// Whisper family of transcription models. Not exhaustive, but covers the
// languages the service documents support for.
var validLanguages = map[string]bool{
	"ar": true, // Arabic
	"cs": true, // Czech
	"da": true, // Danish
	"de": true, // German
	"el": true, // Greek
	"en": true, // English
	"es": true, // Spanish
	"fi": true, // Finnish
	"fr": true, // French
	"he": true, // Hebrew
	"hi": true, // Hindi
	"hu": true, // Hungarian
	"id": true, // Indonesian
	"it": true, // Italian
	"ja": true, // Japanese
	"ko": true, // Korean
	"nl": true, // Dutch
	"no": true, // Norwegian
	"pl": true, // Polish
	"pt": true, // Portuguese
	"ro": true, // Romanian
	"ru": true, // Russian
	"sv": true, // Swedish
	"th": true, // Thai
	"tr": true, // Turkish
	"uk": true, // Ukrainian
	"vi": true, // Vietnamese
	"zh": true, // Chinese
}

// Normalize normalizes a language code to lowercase with hyphen separator.
// Accepts: "pt-BR", "pt_BR", "PT-BR", "pt-br" -> "pt-br"
func Normalize(code string) string {
	return strings.ToLower(strings.ReplaceAll(code, "_", "-"))
}

// BaseCode returns the ISO 639-1 base code of a possibly regional code.
// "pt-BR" -> "pt". The transcription API only accepts base codes.
func BaseCode(code string) string {
	normalized := Normalize(code)
	base, _, _ := strings.Cut(normalized, "-")
	return base
}

// Validate checks that the language code is supported.
// Accepts ISO 639-1 codes (e.g., "en") and locales (e.g., "pt-BR").
// The empty string is rejected: the pipeline requires a fixed language.
func Validate(code string) error {
	if code == "" {
		return fmt.Errorf("%w: language must be configured", ErrInvalid)
	}
	if !validLanguages[BaseCode(code)] {
		return fmt.Errorf("%w: %q", ErrInvalid, code)
	}
	return nil
}
