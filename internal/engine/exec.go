package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Compile-time interface implementation check.
var _ Engine = (*ExecEngine)(nil)

// bufferFilePerm is the permission mode for buffer-backing files.
const bufferFilePerm os.FileMode = 0600

// ExecEngine runs the ffmpeg binary as a subprocess. Named buffers are
// files inside a private work directory created by Load; buffer names are
// bare file names, never paths.
type ExecEngine struct {
	ffmpegPath string
	workDir    string
	loaded     bool

	// Injectable dependencies (defaults to OS implementations).
	cmd   commandRunner
	fs    fileSystem
	paths pathResolver
}

// ExecEngineOption configures an ExecEngine.
type ExecEngineOption func(*ExecEngine)

// WithFFmpegPath pins the ffmpeg binary instead of searching PATH.
func WithFFmpegPath(path string) ExecEngineOption {
	return func(e *ExecEngine) {
		e.ffmpegPath = path
	}
}

// WithCommandRunner sets the command runner (for testing).
func WithCommandRunner(r commandRunner) ExecEngineOption {
	return func(e *ExecEngine) {
		e.cmd = r
	}
}

// WithFileSystem sets the buffer-backing file system (for testing).
func WithFileSystem(fs fileSystem) ExecEngineOption {
	return func(e *ExecEngine) {
		e.fs = fs
	}
}

// WithPathResolver sets the executable lookup (for testing).
func WithPathResolver(p pathResolver) ExecEngineOption {
	return func(e *ExecEngine) {
		e.paths = p
	}
}

// NewExecEngine creates an unloaded ExecEngine.
func NewExecEngine(opts ...ExecEngineOption) *ExecEngine {
	e := &ExecEngine{
		cmd:   osCommandRunner{},
		fs:    osFileSystem{},
		paths: osPathResolver{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load resolves the ffmpeg binary and creates the buffer work directory.
// Idempotent: a second call on a loaded engine returns nil immediately.
func (e *ExecEngine) Load(_ context.Context) error {
	if e.loaded {
		return nil
	}

	if e.ffmpegPath == "" {
		path, err := e.paths.LookPath("ffmpeg")
		if err != nil {
			return fmt.Errorf("%w: install ffmpeg or set FFMPEG_PATH", ErrNotFound)
		}
		e.ffmpegPath = path
	}

	workDir, err := e.fs.MkdirTemp("", "hushai-engine-*")
	if err != nil {
		return fmt.Errorf("%w: cannot create work directory: %v", ErrLoadFailed, err)
	}
	e.workDir = workDir
	e.loaded = true
	return nil
}

// Ingest stores data under a named buffer.
func (e *ExecEngine) Ingest(name string, data []byte) error {
	path, err := e.bufferPath(name)
	if err != nil {
		return err
	}
	if err := e.fs.WriteFile(path, data, bufferFilePerm); err != nil {
		return fmt.Errorf("cannot ingest buffer %q: %w", name, err)
	}
	return nil
}

// Run executes one ffmpeg operation inside the work directory, so buffer
// names in args resolve to their backing files.
func (e *ExecEngine) Run(ctx context.Context, args []string) error {
	if !e.loaded {
		return ErrNotLoaded
	}
	output, err := e.cmd.CombinedOutput(ctx, e.workDir, e.ffmpegPath, args)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v: %s", ErrRunFailed, err, tail(output))
	}
	return nil
}

// ReadOutput returns the bytes of a named buffer.
func (e *ExecEngine) ReadOutput(name string) ([]byte, error) {
	path, err := e.bufferPath(name)
	if err != nil {
		return nil, err
	}
	data, err := e.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", ErrBufferNotFound, name)
		}
		return nil, fmt.Errorf("cannot read buffer %q: %w", name, err)
	}
	return data, nil
}

// Release deletes a named buffer.
func (e *ExecEngine) Release(name string) error {
	path, err := e.bufferPath(name)
	if err != nil {
		return err
	}
	if err := e.fs.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %q", ErrBufferNotFound, name)
		}
		return fmt.Errorf("cannot release buffer %q: %w", name, err)
	}
	return nil
}

// Probe reports the playable duration of an ingested buffer by parsing
// ffmpeg's stream info output. ffmpeg exits non-zero when given no output
// target, so the output is parsed even on error.
func (e *ExecEngine) Probe(ctx context.Context, name string) (time.Duration, error) {
	if !e.loaded {
		return 0, ErrNotLoaded
	}
	if _, err := e.bufferPath(name); err != nil {
		return 0, err
	}

	args := []string{"-i", name, "-f", "null", "-"}
	output, err := e.cmd.CombinedOutput(ctx, e.workDir, e.ffmpegPath, args)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		if len(output) == 0 {
			return 0, fmt.Errorf("%w: %v", ErrDurationUnknown, err)
		}
	}

	return parseDuration(string(output))
}

// Close releases the work directory and all remaining buffers.
// The engine must be reloaded before further use.
func (e *ExecEngine) Close() error {
	if !e.loaded {
		return nil
	}
	e.loaded = false
	workDir := e.workDir
	e.workDir = ""
	return e.fs.RemoveAll(workDir)
}

// bufferPath validates a buffer name and returns its backing file path.
// Names must be bare file names so buffers cannot escape the work dir.
func (e *ExecEngine) bufferPath(name string) (string, error) {
	if !e.loaded {
		return "", ErrNotLoaded
	}
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: invalid buffer name %q", ErrBufferNotFound, name)
	}
	return filepath.Join(e.workDir, name), nil
}

// tail returns the last part of command output for error messages.
func tail(output []byte) string {
	const maxLen = 400
	s := strings.TrimSpace(string(output))
	if len(s) > maxLen {
		s = "..." + s[len(s)-maxLen:]
	}
	return s
}
