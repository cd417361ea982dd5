package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"skillbox/internal/fileutil"
	"skillbox/internal/logging"
	"skillbox/internal/services"
	"skillbox/internal/services/assemblyai"
	"skillbox/internal/transcription"
)

type transcribeOptions struct {
	output         string
	format         string
	speakers       int
	noDiarize      bool
	language       string
	detectLanguage bool
	pollInterval   time.Duration
	apiKey         string
	publish        bool
}

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	opts := &transcribeOptions{}
	cmd := &cobra.Command{
		Use:   "transcribe <audio-file-or-url>",
		Short: "Transcribe audio with speaker diarization via AssemblyAI",
		Long: `Transcribe a local audio file or a public URL with AssemblyAI.

Local files are uploaded first. The job is polled until it completes, then the
transcript is printed to stdout or written to --output in the chosen format:
diarized (default), text, srt or json.

Supported local formats: ` + strings.Join(transcription.SupportedExtensions(), " "),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranscribe(cmd, ctx, opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "", "Write the transcript to this file instead of stdout")
	flags.StringVarP(&opts.format, "format", "f", string(transcription.FormatDiarized), "Output format: diarized, text, srt, json")
	flags.IntVarP(&opts.speakers, "speakers", "s", 0, "Expected number of speakers (improves diarization)")
	flags.BoolVar(&opts.noDiarize, "no-diarize", false, "Disable speaker labels")
	flags.StringVar(&opts.language, "language", "", "Language of the audio (BCP 47, e.g. en-US, de)")
	flags.BoolVar(&opts.detectLanguage, "detect-language", false, "Let AssemblyAI detect the spoken language")
	flags.DurationVar(&opts.pollInterval, "poll-interval", 0, "Status poll interval (default from config, 5s)")
	flags.StringVarP(&opts.apiKey, "api-key", "k", "", "AssemblyAI API key (overrides ASSEMBLYAI_API_KEY)")
	flags.BoolVar(&opts.publish, "publish", false, "Upload the written transcript to configured object storage")
	return cmd
}

func runTranscribe(cmd *cobra.Command, ctx *commandContext, opts *transcribeOptions, source string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	base, err := ctx.baseLogger(cmd)
	if err != nil {
		return err
	}
	logger := logging.NewComponentLogger(base, "transcribe")

	format, err := transcription.ParseFormat(opts.format)
	if err != nil {
		return services.Wrap(services.ErrValidation, "transcribe", "format", "", err)
	}
	if opts.speakers < 0 {
		return services.Wrap(services.ErrValidation, "transcribe", "speakers", "must not be negative", nil)
	}
	if opts.publish && strings.TrimSpace(opts.output) == "" {
		return services.Wrap(services.ErrValidation, "transcribe", "publish", "--publish requires --output", nil)
	}
	language, err := transcription.NormalizeLanguage(opts.language)
	if err != nil {
		return services.Wrap(services.ErrValidation, "transcribe", "language", "", err)
	}
	input, err := transcription.ValidateInput(source)
	if err != nil {
		marker := services.ErrValidation
		if errors.Is(err, transcription.ErrFileNotFound) {
			marker = services.ErrNotFound
		}
		return services.Wrap(marker, "transcribe", "input", "", err)
	}

	if key := strings.TrimSpace(opts.apiKey); key != "" {
		cfg.AssemblyAI.APIKey = key
	}
	if err := cfg.RequireAssemblyAI(); err != nil {
		return err
	}

	pollInterval := opts.pollInterval
	if pollInterval <= 0 {
		pollInterval = time.Duration(cfg.AssemblyAI.PollIntervalSeconds) * time.Second
	}
	speakerLabels := cfg.AssemblyAI.SpeakerLabels && !opts.noDiarize

	client := assemblyai.NewClient(assemblyai.Config{
		APIKey:         cfg.AssemblyAI.APIKey,
		BaseURL:        cfg.AssemblyAI.BaseURL,
		TimeoutSeconds: cfg.AssemblyAI.TimeoutSeconds,
	})
	var svcOpts []transcription.Option
	if stderr := cmd.ErrOrStderr(); isTerminal(stderr) {
		svcOpts = append(svcOpts, transcription.WithUploadWrapper(func(r io.Reader, size int64) io.Reader {
			return io.TeeReader(r, newUploadBar(stderr, size))
		}))
	}
	svc := transcription.NewService(client, base, svcOpts...)

	transcript, err := svc.Transcribe(cmd.Context(), transcription.Request{
		Input:            input,
		SpeakerLabels:    speakerLabels,
		SpeakersExpected: opts.speakers,
		LanguageCode:     language,
		DetectLanguage:   opts.detectLanguage,
		PollInterval:     pollInterval,
	})
	if err != nil {
		return err
	}
	logger.Info("transcription completed",
		logging.String("transcript_id", transcript.ID),
		logging.Int64("utterances", int64(len(transcript.Utterances))),
	)

	rendered, err := transcription.Render(transcript, format)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if strings.TrimSpace(opts.output) == "" {
		fmt.Fprintln(out, rendered)
		return nil
	}
	if err := fileutil.WriteFileAtomic(opts.output, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	logger.Info("transcript saved", logging.String("path", opts.output))

	if opts.publish {
		publisher, err := ctx.publisher(cmd, base)
		if err != nil {
			return services.Wrap(services.ErrConfiguration, "transcribe", "publish", "", err)
		}
		url, err := publisher.Publish(cmd.Context(), opts.output, "transcript")
		if err != nil {
			return services.Wrap(services.ErrRemote, "transcribe", "publish", "", err)
		}
		fmt.Fprintf(out, "Published: %s\n", url)
	}
	return nil
}

func newUploadBar(w io.Writer, size int64) *progressbar.ProgressBar {
	return progressbar.NewOptions64(size,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Uploading"),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
	)
}
