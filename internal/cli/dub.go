package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/alnah/go-studyflow/internal/config"
	"github.com/alnah/go-studyflow/internal/dub"
	"github.com/alnah/go-studyflow/internal/format"
	"github.com/alnah/go-studyflow/internal/job"
	"github.com/alnah/go-studyflow/internal/lang"
	"github.com/alnah/go-studyflow/internal/textgen"
)

// defaultDubLang is the target language when neither the flag nor the
// config sets one.
const defaultDubLang = "ur"

// dubPollInterval is how often the command polls job status while
// waiting for the background worker.
const dubPollInterval = 200 * time.Millisecond

// DubCmd creates the dub command.
func DubCmd(env *Env) *cobra.Command {
	var (
		targetLang string
		voiceID    string
		outputDir  string
	)

	cmd := &cobra.Command{
		Use:   "dub <caption-url>",
		Short: "Create a dubbed audio track from video captions",
		Long: `Create a translated, synthesized audio track synchronized with the
source video's caption timestamps.

Each caption segment is translated and rendered as speech, then the
segments are spliced back onto the source timeline with silence in the
gaps. Segments that fail are skipped; the job only fails when nothing
could be dubbed. Rendered speech that runs longer than its source slot
pushes later segments back, and the accumulated drift is reported.

Requires OPENAI_API_KEY and ELEVENLABS_API_KEY.`,
		Example: `  studyflow dub https://example.com/captions/abc123.vtt
  studyflow dub https://example.com/captions/abc123.vtt --lang hi --voice my-voice-id`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDub(cmd.Context(), env, args[0], targetLang, voiceID, outputDir)
		},
	}

	cmd.Flags().StringVarP(&targetLang, "lang", "l", "", "target language code (default: config target-language, else ur)")
	cmd.Flags().StringVar(&voiceID, "voice", "", "synthesis voice id (default: config voice-id)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for the final track (default: config output-dir, else cwd)")

	return cmd
}

func runDub(ctx context.Context, env *Env, captionURL, targetLang, voiceID, outputDir string) error {
	genKey := env.Getenv(EnvOpenAIAPIKey)
	if genKey == "" {
		return fmt.Errorf("%w (set it with: export %s=sk-...)", ErrAPIKeyMissing, EnvOpenAIAPIKey)
	}
	ttsKey := env.Getenv(EnvElevenLabsAPIKey)
	if ttsKey == "" {
		return fmt.Errorf("%w (set it with: export %s=...)", ErrTTSKeyMissing, EnvElevenLabsAPIKey)
	}

	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		return err
	}
	if targetLang == "" {
		targetLang = cfg.TargetLang
	}
	if targetLang == "" {
		targetLang = defaultDubLang
	}
	if err := lang.Validate(targetLang); err != nil {
		return err
	}
	if voiceID == "" {
		voiceID = cfg.VoiceID
	}
	if outputDir == "" {
		outputDir = config.ExpandPath(cfg.OutputDir)
	}
	if outputDir == "" {
		outputDir = "."
	}
	if err := config.ValidOutputDir(outputDir); err != nil {
		return err
	}

	translator := textgen.NewCompleterTranslator(env.CompleterFactory.NewCompleter(genKey))
	synth := env.SynthesizerFactory.NewSynthesizer(ttsKey, voiceID)
	source := env.SourceFactory.NewSource()

	registry := job.NewRegistry()
	reporter := &echoReporter{registry: registry, w: env.Stderr}
	pipeline := dub.NewPipeline(source, translator, synth, reporter, outputDir)

	runner := job.NewRunner(registry, pipeline.Run, job.WithWorkers(1))
	runner.Start(ctx)
	defer runner.Stop()

	j := registry.Create(captionURL, env.Getenv(EnvUserID), targetLang)

	// Printed before Enqueue: once the worker picks the job up it owns
	// stderr until the job is terminal.
	fmt.Fprintf(env.Stderr, "Dubbing job %s started (%s)\n", j.ID, lang.DisplayName(targetLang))

	if err := runner.Enqueue(j.ID); err != nil {
		return err
	}
	return waitForJob(ctx, env, registry, j.ID)
}

// echoReporter mirrors job updates to the user as the pipeline reports
// them. Echoing here, not from the status poll, means no transition is
// missed when the job finishes between polls.
type echoReporter struct {
	registry *job.Registry
	w        io.Writer
}

var _ dub.Reporter = (*echoReporter)(nil)

func (r *echoReporter) SetPhase(id string, status job.Status, progress int) error {
	fmt.Fprintf(r.w, "  %s (%d%%)\n", status, progress)
	return r.registry.SetPhase(id, status, progress)
}

func (r *echoReporter) Complete(id, audioPath string, drift time.Duration) error {
	fmt.Fprintf(r.w, "  %s (%d%%)\n", job.StatusCompleted, job.ProgressDone)
	return r.registry.Complete(id, audioPath, drift)
}

func (r *echoReporter) Fail(id string, cause error) error {
	fmt.Fprintf(r.w, "  %s\n", job.StatusFailed)
	return r.registry.Fail(id, cause)
}

// waitForJob polls the registry until the job reaches a terminal state.
func waitForJob(ctx context.Context, env *Env, registry *job.Registry, id string) error {
	ticker := time.NewTicker(dubPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		j, err := registry.Get(id)
		if err != nil {
			return err
		}
		if !j.Status.Terminal() {
			continue
		}

		if j.Status == job.StatusFailed {
			return fmt.Errorf("dubbing failed: %s", j.Err)
		}
		fmt.Fprintf(env.Stdout, "%s\n", j.AudioPath)
		if info, statErr := os.Stat(j.AudioPath); statErr == nil {
			fmt.Fprintf(env.Stderr, "Dubbed track ready (%s)\n", format.Size(info.Size()))
		}
		if j.Drift > 0 {
			fmt.Fprintf(env.Stderr, "Timeline drift: %s (rendered speech ran longer than source slots)\n",
				format.Seconds(j.Drift.Seconds()))
		}
		return nil
	}
}
