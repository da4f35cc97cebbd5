package cli

import (
	"fmt"

	"jobfit/internal/common"
	"jobfit/internal/profile"
	"jobfit/internal/types"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile [resume-file]",
	Short: "Extract a candidate profile from a resume",
	Long: `Extract a structured candidate profile from free-form resume text:
skills from the canonical vocabulary, years of experience, education level,
and contact details (email, phone, LinkedIn, GitHub).

The JSON output can be fed back into the analyze and rank commands.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if profileConfig.OutputFormat == "" {
			profileConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(profileConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runProfile,
}

var profileConfig common.CommandConfig

func init() {
	profileCmd.Flags().StringVarP(&profileConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	profileCmd.Flags().StringVar(&profileConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	// Add completion for format flag
	_ = profileCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runProfile(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	createInput := func(contents []string) (string, error) {
		if len(contents) != 1 {
			return "", fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		return contents[0], nil
	}

	logDetails := func(resumeText string, cfg common.CommandConfig) {
		logger.Info("Starting profile extraction",
			"resume_chars", len(resumeText),
			"output_format", cfg.OutputFormat)
	}

	profileOperation := func(resumeText string) (types.ExtractedProfile, error) {
		return profile.ExtractProfile(resumeText), nil
	}

	err := common.RunCommand(
		logger,
		profileConfig,
		args,
		createInput,
		profileOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to extract profile: %w", err)
	}
	logger.Info("Profile extraction completed successfully")
	return nil
}
