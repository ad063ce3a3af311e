package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Sumeet-basfore/HushAI/internal/config"
	"github.com/Sumeet-basfore/HushAI/internal/engine"
	"github.com/Sumeet-basfore/HushAI/internal/transcribe"
)

// ---------------------------------------------------------------------------
// syncBuffer - thread-safe bytes.Buffer for concurrent job output
// ---------------------------------------------------------------------------

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

var _ io.Writer = (*syncBuffer)(nil)

// ---------------------------------------------------------------------------
// fakeEngine - minimal working engine; transcodes any input to fixed audio
// ---------------------------------------------------------------------------

type fakeEngine struct {
	mu       sync.Mutex
	buffers  map[string][]byte
	duration time.Duration
	probeErr error
	loadErr  error
	runErr   error
	closed   bool
}

var _ engine.Engine = (*fakeEngine)(nil)

func newFakeEngine(duration time.Duration) *fakeEngine {
	return &fakeEngine{
		buffers:  make(map[string][]byte),
		duration: duration,
	}
}

func (f *fakeEngine) Load(context.Context) error {
	return f.loadErr
}

func (f *fakeEngine) Ingest(name string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buffers[name] = data
	return nil
}

func (f *fakeEngine) Run(ctx context.Context, args []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.runErr != nil {
		return f.runErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	// The output buffer name is the final argument.
	out := args[len(args)-1]
	f.buffers[out] = []byte("fake mp3 audio")
	return nil
}

func (f *fakeEngine) ReadOutput(name string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.buffers[name]
	if !ok {
		return nil, engine.ErrBufferNotFound
	}
	return data, nil
}

func (f *fakeEngine) Release(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.buffers[name]; !ok {
		return engine.ErrBufferNotFound
	}
	delete(f.buffers, name)
	return nil
}

func (f *fakeEngine) Probe(context.Context, string) (time.Duration, error) {
	if f.probeErr != nil {
		return 0, f.probeErr
	}
	return f.duration, nil
}

func (f *fakeEngine) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// ---------------------------------------------------------------------------
// fakeTranscriber - returns deterministic text per chunk
// ---------------------------------------------------------------------------

type fakeTranscriber struct {
	mu    sync.Mutex
	names []string
	err   error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, name string, payload []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.names = append(f.names, name)
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("text(%s)", name), nil
}

var _ transcribe.Transcriber = (*fakeTranscriber)(nil)

// ---------------------------------------------------------------------------
// factory and loader mocks
// ---------------------------------------------------------------------------

type mockConfigLoader struct {
	cfg config.Config
	err error
}

func (m *mockConfigLoader) Load() (config.Config, error) {
	return m.cfg, m.err
}

type mockEngineFactory struct {
	mu      sync.Mutex
	engines []*fakeEngine
	build   func() *fakeEngine
}

func (m *mockEngineFactory) NewEngine() engine.Engine {
	m.mu.Lock()
	defer m.mu.Unlock()
	eng := m.build()
	m.engines = append(m.engines, eng)
	return eng
}

type mockTranscriberFactory struct {
	mu          sync.Mutex
	transcriber *fakeTranscriber
	apiKeys     []string
	languages   []string
}

func (m *mockTranscriberFactory) NewTranscriber(apiKey, language string) transcribe.Transcriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apiKeys = append(m.apiKeys, apiKey)
	m.languages = append(m.languages, language)
	return m.transcriber
}

// ---------------------------------------------------------------------------
// testEnv - creates a fully mocked Env for testing
// ---------------------------------------------------------------------------

type testMocks struct {
	stderr       *syncBuffer
	stdout       *syncBuffer
	configLoader *mockConfigLoader
	engines      *mockEngineFactory
	transcribers *mockTranscriberFactory
}

// testEnv creates a test Env with all dependencies mocked. The default
// fake engine reports a 10-minute duration, so single-chunk extraction
// applies unless a test overrides the builder.
func testEnv(envVars map[string]string) (*Env, *testMocks) {
	mocks := &testMocks{
		stderr:       &syncBuffer{},
		stdout:       &syncBuffer{},
		configLoader: &mockConfigLoader{cfg: config.Config{Language: "en", ChunkMinutes: 45}},
		engines: &mockEngineFactory{
			build: func() *fakeEngine { return newFakeEngine(10 * time.Minute) },
		},
		transcribers: &mockTranscriberFactory{transcriber: &fakeTranscriber{}},
	}

	env := &Env{
		Stdout: mocks.stdout,
		Stderr: mocks.stderr,
		Getenv: func(key string) string {
			return envVars[key]
		},
		ConfigLoader:       mocks.configLoader,
		EngineFactory:      mocks.engines,
		TranscriberFactory: mocks.transcribers,
	}
	return env, mocks
}
