package cli

import (
	"encoding/json"
	"fmt"

	"jobfit/internal/common"
	"jobfit/internal/engine"
	"jobfit/internal/types"

	"github.com/spf13/cobra"
)

var trendsCmd = &cobra.Command{
	Use:   "trends [jobs-file]",
	Short: "Summarize skill and company demand across job postings",
	Long: `Analyze a batch of job postings and summarize which skills and
companies appear most often. The input is a JSON file containing an array of
postings, each with at least a title and description.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if trendsConfig.OutputFormat == "" {
			trendsConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(trendsConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runTrends,
}

var trendsConfig common.CommandConfig

func init() {
	trendsCmd.Flags().StringVarP(&trendsConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	trendsCmd.Flags().StringVar(&trendsConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	// Add completion for format flag
	_ = trendsCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runTrends(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	createInput := func(contents []string) ([]types.JobPosting, error) {
		if len(contents) != 1 {
			return nil, fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		var jobs []types.JobPosting
		if err := json.Unmarshal([]byte(contents[0]), &jobs); err != nil {
			return nil, fmt.Errorf("invalid jobs JSON: %w", err)
		}
		return jobs, nil
	}

	logDetails := func(jobs []types.JobPosting, cfg common.CommandConfig) {
		logger.Info("Starting market trend analysis",
			"job_count", len(jobs),
			"output_format", cfg.OutputFormat)
	}

	trendsOperation := func(jobs []types.JobPosting) (types.MarketTrends, error) {
		return engine.AnalyzeMarketTrends(jobs), nil
	}

	err := common.RunCommand(
		logger,
		trendsConfig,
		args,
		createInput,
		trendsOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to analyze market trends: %w", err)
	}
	logger.Info("Market trend analysis completed successfully")
	return nil
}
