package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Sumeet-basfore/HushAI/internal/progress"
)

// deriveOutputPath converts a media file path to a transcript output path.
// Example: "meeting.mp4" -> "meeting.txt"
func deriveOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + ".txt"
}

// writeFileExclusive writes content to path, failing if the file already
// exists (O_EXCL) to prevent accidental overwrites. On write failure, the
// partial file is removed.
func writeFileExclusive(path, content string) error {
	// #nosec G302 G304 -- user-specified output file with standard permissions
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("output file already exists: %s: %w", path, ErrOutputExists)
		}
		return fmt.Errorf("cannot create output file: %w", err)
	}

	writeErr := func() error {
		defer func() { _ = f.Close() }()
		if _, err := f.WriteString(content); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}()

	if writeErr != nil {
		_ = os.Remove(path)
		return writeErr
	}

	return nil
}

// progressPrinter renders progress events for one or more concurrent jobs
// onto a single writer. Lines are prefixed with the job label when more
// than one job shares the printer.
type progressPrinter struct {
	mu       sync.Mutex
	w        io.Writer
	labelled bool
}

func newProgressPrinter(w io.Writer, labelled bool) *progressPrinter {
	return &progressPrinter{w: w, labelled: labelled}
}

// Sink returns a progress sink for the job named label.
func (p *progressPrinter) Sink(label string) progress.Sink {
	return func(e progress.Event) {
		p.mu.Lock()
		defer p.mu.Unlock()

		prefix := ""
		if p.labelled {
			prefix = fmt.Sprintf("[%s] ", label)
		}
		if e.Phase == progress.PhaseError {
			_, _ = fmt.Fprintf(p.w, "%s%s\n", prefix, e.Message)
			return
		}
		_, _ = fmt.Fprintf(p.w, "%s%3.0f%% %s\n", prefix, e.Percent, e.Message)
	}
}
