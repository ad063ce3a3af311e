// Package cli implements the hushai command tree.
package cli

import (
	"io"
	"os"

	"github.com/Sumeet-basfore/HushAI/internal/config"
	"github.com/Sumeet-basfore/HushAI/internal/engine"
	"github.com/Sumeet-basfore/HushAI/internal/transcribe"
)

// EnvGroqAPIKey is the environment variable holding the Groq API key.
const EnvGroqAPIKey = "GROQ_API_KEY"

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in isolation.
//
// All fields have sensible defaults via DefaultEnv(). Tests can override
// specific fields using the With* options or by creating a custom Env.
//
// Env must not be nil when passed to command functions. Use DefaultEnv()
// or NewEnv() to create a valid instance.
type Env struct {
	// I/O and environment
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string

	// Factories for domain objects
	ConfigLoader       ConfigLoader
	EngineFactory      EngineFactory
	TranscriberFactory TranscriberFactory
}

// ConfigLoader loads and provides access to configuration.
type ConfigLoader interface {
	Load() (config.Config, error)
}

// EngineFactory creates transcoding engines. Each job gets its own
// engine instance; engines are not safe for concurrent runs.
type EngineFactory interface {
	NewEngine() engine.Engine
}

// TranscriberFactory creates transcribers for audio-to-text conversion.
type TranscriberFactory interface {
	NewTranscriber(apiKey, language string) transcribe.Transcriber
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStdout sets the stdout writer.
func WithStdout(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stdout = w
	}
}

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithEngineFactory sets the engine factory.
func WithEngineFactory(f EngineFactory) EnvOption {
	return func(e *Env) {
		e.EngineFactory = f
	}
}

// WithTranscriberFactory sets the transcriber factory.
func WithTranscriberFactory(f TranscriberFactory) EnvOption {
	return func(e *Env) {
		e.TranscriberFactory = f
	}
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stdout:             os.Stdout,
		Stderr:             os.Stderr,
		Getenv:             os.Getenv,
		ConfigLoader:       &defaultConfigLoader{},
		EngineFactory:      &defaultEngineFactory{},
		TranscriberFactory: &defaultTranscriberFactory{},
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

// defaultConfigLoader implements ConfigLoader using the config package.
type defaultConfigLoader struct{}

func (defaultConfigLoader) Load() (config.Config, error) {
	return config.Load()
}

// defaultEngineFactory implements EngineFactory using the local ffmpeg
// binary. FFMPEG_PATH pins the binary; otherwise PATH is searched.
type defaultEngineFactory struct{}

func (defaultEngineFactory) NewEngine() engine.Engine {
	if path := os.Getenv("FFMPEG_PATH"); path != "" {
		return engine.NewExecEngine(engine.WithFFmpegPath(path))
	}
	return engine.NewExecEngine()
}

// defaultTranscriberFactory implements TranscriberFactory using Groq.
type defaultTranscriberFactory struct{}

func (defaultTranscriberFactory) NewTranscriber(apiKey, language string) transcribe.Transcriber {
	return transcribe.NewGroqTranscriber(apiKey, language)
}

// Compile-time interface verification.
var (
	_ ConfigLoader       = (*defaultConfigLoader)(nil)
	_ EngineFactory      = (*defaultEngineFactory)(nil)
	_ TranscriberFactory = (*defaultTranscriberFactory)(nil)
)
