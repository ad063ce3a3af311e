// Package media describes input assets and guards them before any engine
// resource is committed.
package media

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// Asset is an immutable descriptor of one uploaded media file.
// The pipeline borrows it for the duration of a job and never mutates it.
type Asset struct {
	Name string // Original file name, used to derive the engine input buffer name.
	Size int64  // Declared size in bytes.
	MIME string // Declared MIME type, e.g. "video/mp4" or "audio/mpeg".
	Data []byte // Raw bytes, ingested into the engine exactly once per job.
}

// Ext returns the asset's file extension including the dot.
// Assets without an extension default to ".mp4" so the engine can still
// name its input buffer.
func (a Asset) Ext() string {
	ext := strings.ToLower(filepath.Ext(a.Name))
	if ext == "" {
		return ".mp4"
	}
	return ext
}

// mediaTypes maps media extensions to MIME types. mime.TypeByExtension
// only knows these when the host ships an /etc/mime.types.
var mediaTypes = map[string]string{
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".mpeg": "video/mpeg",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".m4a":  "audio/mp4",
	".flac": "audio/flac",
	".ogg":  "audio/ogg",
}

// typeByExtension resolves a MIME type for ext, preferring the system
// table and falling back to the built-in media table.
func typeByExtension(ext string) string {
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return mediaTypes[strings.ToLower(ext)]
}

// AssetFromFile reads path into an Asset, deriving the MIME type from the
// file extension.
func AssetFromFile(path string) (Asset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Asset{}, fmt.Errorf("cannot access media file: %w", err)
	}
	if info.IsDir() {
		return Asset{}, fmt.Errorf("not a media file: %s", path)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the CLI argument
	if err != nil {
		return Asset{}, fmt.Errorf("cannot read media file: %w", err)
	}

	return Asset{
		Name: filepath.Base(path),
		Size: int64(len(data)),
		MIME: typeByExtension(filepath.Ext(path)),
		Data: data,
	}, nil
}
