package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Sumeet-basfore/HushAI/internal/lang"
	"github.com/Sumeet-basfore/HushAI/internal/transcribe"
)

// Notes:
// - White-box tests exercising TranscribeCmd through cobra execution.
// - The fake engine transcodes any input into a fixed small MP3 payload,
//   so jobs run the real pipeline wiring without ffmpeg or network.

// writeMediaFile creates a small fake media file and returns its path.
func writeMediaFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("fake media bytes"), 0644); err != nil {
		t.Fatalf("write media file: %v", err)
	}
	return path
}

// runCommand executes the transcribe command with the given args.
func runCommand(t *testing.T, env *Env, args ...string) error {
	t.Helper()
	cmd := TranscribeCmd(env)
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.ExecuteContext(context.Background())
}

func TestClampParallel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{"negative", -5, 1},
		{"zero", 0, 1},
		{"one", 1, 1},
		{"middle", 2, 2},
		{"max", MaxParallelJobs, MaxParallelJobs},
		{"over_max", 100, MaxParallelJobs},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := clampParallel(tt.input); got != tt.expected {
				t.Errorf("clampParallel(%d) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDeriveOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"meeting.mp4", "meeting.txt"},
		{"talk.webm", "talk.txt"},
		{"noext", "noext.txt"},
		{"dir/lecture.mkv", "dir/lecture.txt"},
	}

	for _, tt := range tests {
		tt := tt
		if got := deriveOutputPath(tt.in); got != tt.want {
			t.Errorf("deriveOutputPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSupportedFormatsList(t *testing.T) {
	t.Parallel()

	list := supportedFormatsList()
	if !strings.Contains(list, "mp4") || !strings.Contains(list, "mp3") {
		t.Errorf("supportedFormatsList() = %q, missing common formats", list)
	}
	// Sorted output keeps error messages deterministic.
	formats := strings.Split(list, ", ")
	for i := 1; i < len(formats); i++ {
		if formats[i] < formats[i-1] {
			t.Errorf("list not sorted: %q before %q", formats[i-1], formats[i])
		}
	}
}

func TestRunTranscribe_FileNotFound(t *testing.T) {
	t.Parallel()

	env, _ := testEnv(map[string]string{EnvGroqAPIKey: "gsk_test"})
	err := runCommand(t, env, filepath.Join(t.TempDir(), "missing.mp4"))
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("error = %v, want %v", err, ErrFileNotFound)
	}
}

func TestRunTranscribe_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	env, _ := testEnv(map[string]string{EnvGroqAPIKey: "gsk_test"})
	input := writeMediaFile(t, t.TempDir(), "document.pdf")

	err := runCommand(t, env, input)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("error = %v, want %v", err, ErrUnsupportedFormat)
	}
}

func TestRunTranscribe_MissingAPIKey(t *testing.T) {
	t.Parallel()

	env, _ := testEnv(nil)
	input := writeMediaFile(t, t.TempDir(), "talk.mp4")

	err := runCommand(t, env, input)
	if !errors.Is(err, transcribe.ErrAPIKeyMissing) {
		t.Errorf("error = %v, want %v", err, transcribe.ErrAPIKeyMissing)
	}
	if !strings.Contains(err.Error(), EnvGroqAPIKey) {
		t.Errorf("error %q does not mention %s", err, EnvGroqAPIKey)
	}
}

func TestRunTranscribe_InvalidLanguage(t *testing.T) {
	t.Parallel()

	env, _ := testEnv(map[string]string{EnvGroqAPIKey: "gsk_test"})
	input := writeMediaFile(t, t.TempDir(), "talk.mp4")

	err := runCommand(t, env, input, "-l", "klingon")
	if !errors.Is(err, lang.ErrInvalid) {
		t.Errorf("error = %v, want %v", err, lang.ErrInvalid)
	}
}

func TestRunTranscribe_Success(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	env, mocks := testEnv(map[string]string{EnvGroqAPIKey: "gsk_test"})
	input := writeMediaFile(t, dir, "talk.mp4")

	if err := runCommand(t, env, input); err != nil {
		t.Fatalf("execute error = %v", err)
	}

	out := filepath.Join(dir, "talk.txt")
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	if string(data) != "text(chunk_0.mp3)" {
		t.Errorf("transcript = %q, want %q", data, "text(chunk_0.mp3)")
	}

	if got := mocks.transcribers.apiKeys; len(got) != 1 || got[0] != "gsk_test" {
		t.Errorf("transcriber api keys = %v, want [gsk_test]", got)
	}
	if got := mocks.transcribers.languages; len(got) != 1 || got[0] != "en" {
		t.Errorf("transcriber languages = %v, want config default [en]", got)
	}
	if !strings.Contains(mocks.stderr.String(), "Done: "+out) {
		t.Errorf("stderr missing completion line: %q", mocks.stderr.String())
	}
	if len(mocks.engines.engines) != 1 || !mocks.engines.engines[0].closed {
		t.Error("engine was not closed after the job")
	}
}

func TestRunTranscribe_LanguageFlagWinsOverConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	env, mocks := testEnv(map[string]string{EnvGroqAPIKey: "gsk_test"})
	input := writeMediaFile(t, dir, "talk.mp4")

	if err := runCommand(t, env, input, "-l", "fr"); err != nil {
		t.Fatalf("execute error = %v", err)
	}
	if got := mocks.transcribers.languages; len(got) != 1 || got[0] != "fr" {
		t.Errorf("transcriber languages = %v, want [fr]", got)
	}
}

func TestRunTranscribe_ExplicitOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	env, _ := testEnv(map[string]string{EnvGroqAPIKey: "gsk_test"})
	input := writeMediaFile(t, dir, "talk.mp4")
	out := filepath.Join(dir, "notes.txt")

	if err := runCommand(t, env, input, "-o", out); err != nil {
		t.Fatalf("execute error = %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("explicit output not written: %v", err)
	}
}

func TestRunTranscribe_OutputExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	env, _ := testEnv(map[string]string{EnvGroqAPIKey: "gsk_test"})
	input := writeMediaFile(t, dir, "talk.mp4")
	out := filepath.Join(dir, "talk.txt")
	if err := os.WriteFile(out, []byte("precious"), 0644); err != nil {
		t.Fatalf("write existing output: %v", err)
	}

	err := runCommand(t, env, input)
	if !errors.Is(err, ErrOutputExists) {
		t.Errorf("error = %v, want %v", err, ErrOutputExists)
	}

	data, _ := os.ReadFile(out)
	if string(data) != "precious" {
		t.Errorf("existing output was clobbered: %q", data)
	}
}

func TestRunTranscribe_OutputWithMultipleInputs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	env, _ := testEnv(map[string]string{EnvGroqAPIKey: "gsk_test"})
	a := writeMediaFile(t, dir, "a.mp4")
	b := writeMediaFile(t, dir, "b.mp4")

	err := runCommand(t, env, a, b, "-o", filepath.Join(dir, "out.txt"))
	if !errors.Is(err, ErrOutputWithMultipleInputs) {
		t.Errorf("error = %v, want %v", err, ErrOutputWithMultipleInputs)
	}
}

func TestRunTranscribe_MultipleFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	env, mocks := testEnv(map[string]string{EnvGroqAPIKey: "gsk_test"})
	a := writeMediaFile(t, dir, "ep1.mp4")
	b := writeMediaFile(t, dir, "ep2.mp4")

	if err := runCommand(t, env, a, b, "-p", "2"); err != nil {
		t.Fatalf("execute error = %v", err)
	}

	for _, name := range []string{"ep1.txt", "ep2.txt"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("transcript %s not written: %v", name, err)
		}
	}
	if len(mocks.engines.engines) != 2 {
		t.Errorf("built %d engines, want one per job", len(mocks.engines.engines))
	}
	// Concurrent jobs share the printer, so lines carry file labels.
	if !strings.Contains(mocks.stderr.String(), "[ep1.mp4]") {
		t.Errorf("stderr missing job labels: %q", mocks.stderr.String())
	}
}

func TestRunTranscribe_TranscriptionFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	env, mocks := testEnv(map[string]string{EnvGroqAPIKey: "gsk_test"})
	mocks.transcribers.transcriber.err = errors.New("service down")
	input := writeMediaFile(t, dir, "talk.mp4")

	err := runCommand(t, env, input)
	var trErr *transcribe.TranscriptionError
	if !errors.As(err, &trErr) {
		t.Fatalf("error = %v, want *TranscriptionError", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "talk.txt")); !os.IsNotExist(statErr) {
		t.Error("output file written despite transcription failure")
	}
}

func TestTranscribeCmd_RequiresFile(t *testing.T) {
	t.Parallel()

	env, _ := testEnv(nil)
	cmd := TranscribeCmd(env)
	cmd.SetArgs(nil)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	if err := cmd.Execute(); err == nil {
		t.Error("expected usage error with no arguments")
	}
}

// Guard against accidental removal of context propagation.
func TestTranscribeCmd_UsesCommandContext(t *testing.T) {
	t.Parallel()

	env, _ := testEnv(map[string]string{EnvGroqAPIKey: "gsk_test"})
	input := writeMediaFile(t, t.TempDir(), "talk.mp4")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := TranscribeCmd(env)
	cmd.SetArgs([]string{input})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	err := cmd.ExecuteContext(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
