package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"skillbox/internal/config"
	"skillbox/internal/imagegen"
	"skillbox/internal/logging"
	"skillbox/internal/pngquant"
	"skillbox/internal/services"
	"skillbox/internal/services/gemini"
	"skillbox/internal/services/imagegateway"
)

type imageOptions struct {
	prompt     string
	filename   string
	inputImage string
	resolution string
	provider   string
	apiKey     string
	noCompress bool
	maxSizeMB  float64
	publish    bool
}

func newImageCommand(ctx *commandContext) *cobra.Command {
	opts := &imageOptions{}
	cmd := &cobra.Command{
		Use:   "image",
		Short: "Generate or edit an image with a Gemini image model",
		Long: `Generate an image from a prompt, or edit an existing image with --input-image.

Two providers are available: "gemini" calls the native Gemini API
(gemini-3-pro-image-preview, resolutions 1K 2K 4K) and "gateway" calls an
OpenAI-compatible gateway (gemini-3.1-flash-image-preview, resolutions
0.5K 1K 2K 4K). When editing without an explicit --resolution, the size is
picked from the input image. Output is always PNG; files over --max-size are
compressed with pngquant when it is installed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImage(cmd, ctx, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.prompt, "prompt", "p", "", "Image description or edit instruction")
	flags.StringVarP(&opts.filename, "filename", "f", "", "Output PNG path (e.g. sunset-mountains.png)")
	flags.StringVarP(&opts.inputImage, "input-image", "i", "", "Image to edit")
	flags.StringVarP(&opts.resolution, "resolution", "r", imagegen.DefaultResolution, "Output resolution (0.5K gateway only, 1K, 2K, 4K)")
	flags.StringVar(&opts.provider, "provider", "", "Image provider: gemini or gateway (default from config)")
	flags.StringVarP(&opts.apiKey, "api-key", "k", "", "API key for the selected provider")
	flags.BoolVar(&opts.noCompress, "no-compress", false, "Disable pngquant compression")
	flags.Float64VarP(&opts.maxSizeMB, "max-size", "m", 0, "Compress when the PNG exceeds this many MB (default from config, 8)")
	flags.BoolVar(&opts.publish, "publish", false, "Upload saved images to configured object storage")
	_ = cmd.MarkFlagRequired("prompt")
	_ = cmd.MarkFlagRequired("filename")
	return cmd
}

func runImage(cmd *cobra.Command, ctx *commandContext, opts *imageOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	base, err := ctx.baseLogger(cmd)
	if err != nil {
		return err
	}
	logger := logging.NewComponentLogger(base, "image")

	provider := strings.ToLower(strings.TrimSpace(opts.provider))
	if provider == "" {
		provider = cfg.Images.Provider
	}
	gen, err := newGenerator(cmd.Context(), cfg, provider, strings.TrimSpace(opts.apiKey))
	if err != nil {
		return err
	}

	var input *imagegen.InputImage
	if path := strings.TrimSpace(opts.inputImage); path != "" {
		input, err = imagegen.LoadInput(path)
		if err != nil {
			return services.Wrap(services.ErrValidation, "image", "load input", "", err)
		}
		logger.Info("Loaded input image",
			logging.String("path", path),
			logging.String("type", input.SourceType),
			logging.Int64("width", int64(input.Width)),
			logging.Int64("height", int64(input.Height)),
		)
	}

	resolution, auto := imagegen.ResolveResolution(opts.resolution, cmd.Flags().Changed("resolution"), input)
	if auto {
		logger.Info(fmt.Sprintf("Auto-detected resolution: %s (from input %dx%d)", resolution, input.Width, input.Height))
	}
	req := imagegen.Request{Prompt: opts.prompt, Input: input, Resolution: resolution}
	if err := imagegen.ValidateRequest(gen, req); err != nil {
		return services.Wrap(services.ErrValidation, "image", "request", "", err)
	}

	verb := "Generating"
	if req.Editing() {
		verb = "Editing"
	}
	logger.Info(fmt.Sprintf("%s image with resolution %s...", verb, resolution),
		logging.String("provider", gen.Name()),
		logging.String("model", gen.Model()),
	)

	result, err := gen.Generate(cmd.Context(), req)
	if err != nil {
		return services.Wrap(services.ErrRemote, "image", "generate", "", err)
	}

	out := cmd.OutOrStdout()
	for _, text := range result.Texts {
		fmt.Fprintf(out, "Model response: %s\n", text)
	}
	paths, err := imagegen.Save(result, opts.filename)
	for _, path := range paths {
		fmt.Fprintf(out, "Image saved: %s\n", path)
	}
	if err != nil {
		if errors.Is(err, imagegen.ErrNoImage) {
			logger.Error("no image in response", logging.Int64("texts", int64(len(result.Texts))))
		}
		return err
	}

	compressor := pngquant.New(compressionOptions(cfg, opts), base)
	for _, path := range paths {
		if _, err := compressor.Compress(cmd.Context(), path); err != nil {
			return services.Wrap(services.ErrExternalTool, "image", "compress", "", err)
		}
	}

	if opts.publish {
		return publishImages(cmd, ctx, base, paths)
	}
	return nil
}

func newGenerator(ctx context.Context, cfg *config.Config, provider, apiKey string) (imagegen.Generator, error) {
	switch provider {
	case config.ProviderGemini:
		if apiKey != "" {
			cfg.Gemini.APIKey = apiKey
		}
		if err := cfg.RequireGemini(); err != nil {
			return nil, err
		}
		return gemini.NewClient(ctx, gemini.Config{
			APIKey:         cfg.Gemini.APIKey,
			BaseURL:        cfg.Gemini.BaseURL,
			Model:          cfg.Gemini.Model,
			TimeoutSeconds: cfg.Gemini.TimeoutSeconds,
		})
	case config.ProviderGateway:
		if apiKey != "" {
			cfg.Gateway.APIKey = apiKey
		}
		if err := cfg.RequireGateway(); err != nil {
			return nil, err
		}
		return imagegateway.NewClient(imagegateway.Config{
			APIKey:         cfg.Gateway.APIKey,
			BaseURL:        cfg.Gateway.BaseURL,
			Model:          cfg.Gateway.Model,
			TimeoutSeconds: cfg.Gateway.TimeoutSeconds,
		})
	default:
		return nil, services.Wrap(services.ErrValidation, "image", "provider",
			fmt.Sprintf("unsupported provider %q (choose %s or %s)", provider, config.ProviderGemini, config.ProviderGateway), nil)
	}
}

func compressionOptions(cfg *config.Config, opts *imageOptions) pngquant.Options {
	maxSize := cfg.Images.MaxSizeMB
	if opts.maxSizeMB > 0 {
		maxSize = opts.maxSizeMB
	}
	return pngquant.Options{
		Enabled:    cfg.Images.Compress && !opts.noCompress,
		Binary:     cfg.Images.PngquantBinary,
		MaxSizeMB:  maxSize,
		QualityMin: cfg.Images.QualityMin,
		QualityMax: cfg.Images.QualityMax,
	}
}

func publishImages(cmd *cobra.Command, ctx *commandContext, logger *slog.Logger, paths []string) error {
	publisher, err := ctx.publisher(cmd, logger)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "image", "publish", "", err)
	}
	for _, path := range paths {
		url, err := publisher.Publish(cmd.Context(), path, "image")
		if err != nil {
			return services.Wrap(services.ErrRemote, "image", "publish", "", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Published: %s\n", url)
	}
	return nil
}
