package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Sumeet-basfore/HushAI/internal/config"
	"github.com/Sumeet-basfore/HushAI/internal/extract"
	"github.com/Sumeet-basfore/HushAI/internal/lang"
	"github.com/Sumeet-basfore/HushAI/internal/media"
	"github.com/Sumeet-basfore/HushAI/internal/pipeline"
	"github.com/Sumeet-basfore/HushAI/internal/transcribe"
)

// MaxParallelJobs caps concurrent file jobs. Each job runs its own
// engine process and API session; more buys little.
const MaxParallelJobs = 4

// supportedFormats lists media containers the transcoding engine accepts.
var supportedFormats = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".avi":  true,
	".mkv":  true,
	".webm": true,
	".mpeg": true,
	".mp3":  true,
	".wav":  true,
	".m4a":  true,
	".flac": true,
	".ogg":  true,
}

// supportedFormatsList returns a sorted, comma-separated list for error
// messages.
func supportedFormatsList() string {
	formats := make([]string, 0, len(supportedFormats))
	for ext := range supportedFormats {
		formats = append(formats, strings.TrimPrefix(ext, "."))
	}
	slices.Sort(formats)
	return strings.Join(formats, ", ")
}

// clampParallel constrains the job count to [1, MaxParallelJobs].
func clampParallel(n int) int {
	if n < 1 {
		return 1
	}
	return min(n, MaxParallelJobs)
}

// TranscribeCmd creates the transcribe command.
// The env parameter provides injectable dependencies for testing.
func TranscribeCmd(env *Env) *cobra.Command {
	var (
		output       string
		language     string
		chunkMinutes int
		parallel     int
	)

	cmd := &cobra.Command{
		Use:   "transcribe <media-file>...",
		Short: "Transcribe media files",
		Long: `Transcribe one or more media files using Groq's Whisper API.

Audio is extracted with ffmpeg as compact speech-optimized MP3, long
recordings are split into chunks, and each chunk is transcribed in order.
Multiple input files are processed as independent parallel jobs.

Supported formats: ` + supportedFormatsList(),
		Example: `  hushai transcribe meeting.mp4
  hushai transcribe lecture.mp4 -o lecture-notes.txt
  hushai transcribe talk.mp4 -l fr
  hushai transcribe ep1.mp4 ep2.mp4 ep3.mp4 -p 3`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranscribe(cmd, env, args, output, language, chunkMinutes, parallel)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: <input>.txt; single input only)")
	cmd.Flags().StringVarP(&language, "language", "l", "", "Audio language (ISO 639-1 code, e.g., en, fr, pt-BR)")
	cmd.Flags().IntVar(&chunkMinutes, "chunk-minutes", 0, "Target chunk duration in minutes (default: from config)")
	cmd.Flags().IntVarP(&parallel, "parallel", "p", 1, "Max concurrent file jobs (1-4)")

	return cmd
}

// runTranscribe executes one transcription job per input file.
// Validation order: files exist -> formats -> output -> language -> API key
func runTranscribe(cmd *cobra.Command, env *Env, inputs []string, output, language string, chunkMinutes, parallel int) error {
	ctx := cmd.Context()

	// === VALIDATION (fail-fast, before any engine or network work) ===

	for _, input := range inputs {
		if _, err := os.Stat(input); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("%w: %s", ErrFileNotFound, input)
			}
			return fmt.Errorf("cannot access input file: %w", err)
		}
		ext := strings.ToLower(filepath.Ext(input))
		if !supportedFormats[ext] {
			return fmt.Errorf("unsupported format %q (supported: %s): %w",
				ext, supportedFormatsList(), ErrUnsupportedFormat)
		}
	}

	if output != "" && len(inputs) > 1 {
		return ErrOutputWithMultipleInputs
	}

	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}

	if language == "" {
		language = cfg.Language
	}
	if err := lang.Validate(language); err != nil {
		return err
	}

	if chunkMinutes <= 0 {
		chunkMinutes = cfg.ChunkMinutes
	}
	if chunkMinutes <= 0 {
		chunkMinutes = config.DefaultChunkMinutes
	}

	parallel = clampParallel(parallel)

	apiKey := env.Getenv(EnvGroqAPIKey)
	if apiKey == "" {
		return fmt.Errorf("%w (set it with: export %s=gsk_...)", transcribe.ErrAPIKeyMissing, EnvGroqAPIKey)
	}

	// === JOBS ===

	printer := newProgressPrinter(env.Stderr, len(inputs) > 1)
	chunkLength := time.Duration(chunkMinutes) * time.Minute

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for _, input := range inputs {
		input := input
		g.Go(func() error {
			return transcribeOne(ctx, env, printer, input, output, apiKey, language, chunkLength, cfg.OutputDir)
		})
	}

	return g.Wait()
}

// transcribeOne runs the full pipeline for a single input file and writes
// the transcript to the resolved output path (default: <input>.txt in the
// configured output directory, or the working directory).
func transcribeOne(ctx context.Context, env *Env, printer *progressPrinter, input, output, apiKey, language string, chunkLength time.Duration, outputDir string) error {
	label := filepath.Base(input)

	asset, err := media.AssetFromFile(input)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", input, err)
	}

	eng := env.EngineFactory.NewEngine()
	if closer, ok := eng.(io.Closer); ok {
		// ExecEngine owns a temp workdir; reclaim it when the job ends.
		defer func() { _ = closer.Close() }()
	}

	processor := pipeline.NewProcessor(
		eng,
		env.TranscriberFactory.NewTranscriber(apiKey, language),
		nil,
		extract.WithChunkLength(chunkLength),
	)

	transcript, err := processor.Process(ctx, asset, printer.Sink(label))
	if err != nil {
		return err
	}

	defaultOutput := deriveOutputPath(filepath.Base(input))
	path := config.ResolveOutputPath(output, outputDir, defaultOutput)
	if err := writeFileExclusive(path, transcript); err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Done: %s\n", path)
	return nil
}
