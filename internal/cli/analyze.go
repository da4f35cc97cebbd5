package cli

import (
	"encoding/json"
	"fmt"

	"jobfit/internal/common"
	"jobfit/internal/engine"
	"jobfit/internal/types"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [job-description-file]",
	Short: "Score how well a candidate profile matches a job description",
	Long: `Analyze a job description against a candidate profile and produce a
compatibility report. The job description is plain text; the profile is a JSON
file with skills, experienceYears and education.

The report includes:
- Overall, skill, experience and education scores (0-100)
- Structured requirements extracted from the job description
- Matched and missing skills
- Actionable recommendations`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if analyzeConfig.OutputFormat == "" {
			analyzeConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(analyzeConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runAnalyze,
}

var (
	analyzeConfig      common.CommandConfig
	analyzeProfileFile string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	analyzeCmd.Flags().StringVar(&analyzeProfileFile, "profile", "", "Candidate profile JSON file")
	_ = analyzeCmd.MarkFlagRequired("profile")

	// Add completion for format flag
	_ = analyzeCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

type analyzeInput struct {
	jobDescription string
	profile        types.CandidateProfile
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	createInput := func(contents []string) (analyzeInput, error) {
		if len(contents) != 2 {
			return analyzeInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		var profile types.CandidateProfile
		if err := json.Unmarshal([]byte(contents[1]), &profile); err != nil {
			return analyzeInput{}, fmt.Errorf("invalid profile JSON: %w", err)
		}
		return analyzeInput{
			jobDescription: contents[0],
			profile:        profile,
		}, nil
	}

	logDetails := func(input analyzeInput, cfg common.CommandConfig) {
		logger.Info("Starting compatibility analysis",
			"job_chars", len(input.jobDescription),
			"profile_skills", len(input.profile.Skills),
			"output_format", cfg.OutputFormat)
	}

	analyzeOperation := func(input analyzeInput) (types.CompatibilityResult, error) {
		return engine.AnalyzeCompatibility(input.jobDescription, input.profile), nil
	}

	err := common.RunCommand(
		logger,
		analyzeConfig,
		[]string{args[0], analyzeProfileFile},
		createInput,
		analyzeOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to analyze compatibility: %w", err)
	}
	logger.Info("Compatibility analysis completed successfully")
	return nil
}
