package engine

import (
	"context"
	"os"
	"os/exec"
)

// commandRunner executes external commands in a working directory and
// returns their combined output.
type commandRunner interface {
	CombinedOutput(ctx context.Context, dir, name string, args []string) ([]byte, error)
}

// fileSystem covers the buffer-backing file operations the engine needs.
type fileSystem interface {
	MkdirTemp(dir, pattern string) (string, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
	ReadFile(name string) ([]byte, error)
	Remove(name string) error
	RemoveAll(path string) error
}

// pathResolver locates executables on the system PATH.
type pathResolver interface {
	LookPath(file string) (string, error)
}

// --- Default implementations using real OS functions ---

// osCommandRunner implements commandRunner using exec.CommandContext.
type osCommandRunner struct{}

func (osCommandRunner) CombinedOutput(ctx context.Context, dir, name string, args []string) ([]byte, error) {
	// #nosec G204 -- name and args are constructed by the engine, not user input
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// osFileSystem implements fileSystem using the os package.
type osFileSystem struct{}

func (osFileSystem) MkdirTemp(dir, pattern string) (string, error) {
	return os.MkdirTemp(dir, pattern)
}

func (osFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

func (osFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name) // #nosec G304 -- name is constrained to the engine work dir
}

func (osFileSystem) Remove(name string) error {
	return os.Remove(name)
}

func (osFileSystem) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// osPathResolver implements pathResolver using exec.LookPath.
type osPathResolver struct{}

func (osPathResolver) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}
