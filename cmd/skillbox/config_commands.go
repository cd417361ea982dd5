package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"skillbox/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))
	configCmd.AddCommand(newConfigValidateCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set API keys in the file or export ASSEMBLYAI_API_KEY, GEMINI_API_KEY, IMAGE_GATEWAY_API_KEY and RESEND_API_KEY.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if ctx.configPath == "" {
				fmt.Fprintln(out, "No config file found; defaults and environment were used")
			} else {
				fmt.Fprintf(out, "Config path: %s\n", ctx.configPath)
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			source := ctx.configPath
			if source == "" {
				source = "(defaults)"
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", source)
			fmt.Fprintln(out, renderTable([]string{"Setting", "Value"}, configRows(cfg), nil))
			return nil
		},
	}
}

func configRows(cfg *config.Config) [][]string {
	return [][]string{
		{"assemblyai.api_key", maskSecret(cfg.AssemblyAI.APIKey)},
		{"assemblyai.base_url", cfg.AssemblyAI.BaseURL},
		{"assemblyai.poll_interval_seconds", strconv.Itoa(cfg.AssemblyAI.PollIntervalSeconds)},
		{"assemblyai.speaker_labels", yesNo(cfg.AssemblyAI.SpeakerLabels)},
		{"gemini.api_key", maskSecret(cfg.Gemini.APIKey)},
		{"gemini.model", cfg.Gemini.Model},
		{"gateway.api_key", maskSecret(cfg.Gateway.APIKey)},
		{"gateway.base_url", orNotSet(cfg.Gateway.BaseURL)},
		{"gateway.model", cfg.Gateway.Model},
		{"images.provider", cfg.Images.Provider},
		{"images.compress", yesNo(cfg.Images.Compress)},
		{"images.max_size_mb", strconv.FormatFloat(cfg.Images.MaxSizeMB, 'f', -1, 64)},
		{"images.quality", fmt.Sprintf("%d-%d", cfg.Images.QualityMin, cfg.Images.QualityMax)},
		{"resend.api_key", maskSecret(cfg.Resend.APIKey)},
		{"resend.base_url", cfg.Resend.BaseURL},
		{"resend.retry_attempts", strconv.Itoa(cfg.Resend.RetryAttempts)},
		{"storage.enabled", yesNo(cfg.Storage.Enabled)},
		{"storage.endpoint", orNotSet(cfg.Storage.Endpoint)},
		{"storage.bucket", orNotSet(cfg.Storage.Bucket)},
		{"logging.level", cfg.Logging.Level},
		{"logging.format", cfg.Logging.Format},
		{"logging.file", orNotSet(cfg.Logging.File)},
	}
}

// maskSecret keeps the last four characters of long secrets.
func maskSecret(value string) string {
	switch {
	case value == "":
		return "(not set)"
	case len(value) <= 8:
		return "****"
	default:
		return "****" + value[len(value)-4:]
	}
}

func orNotSet(value string) string {
	if strings.TrimSpace(value) == "" {
		return "(not set)"
	}
	return value
}
