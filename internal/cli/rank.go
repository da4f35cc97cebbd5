package cli

import (
	"encoding/json"
	"fmt"

	"jobfit/internal/common"
	"jobfit/internal/scout"
	"jobfit/internal/types"

	"github.com/spf13/cobra"
)

var rankCmd = &cobra.Command{
	Use:   "rank [jobs-file]",
	Short: "Rank job postings by relevance to a candidate profile",
	Long: `Rank a batch of job postings by how well they match a candidate
profile. The postings are a JSON array; the profile is a JSON file with
skills, experienceYears and education.

Postings scoring below the minimum relevance are dropped. The threshold
comes from --min-score, falling back to scout.minScore in the config. An
optional keyword filter is applied before ranking.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if rankConfig.OutputFormat == "" {
			rankConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(rankConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runRank,
}

var (
	rankConfig      common.CommandConfig
	rankProfileFile string
	rankMinScore    float64
	rankKeywords    []string
)

func init() {
	rankCmd.Flags().StringVarP(&rankConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	rankCmd.Flags().StringVar(&rankConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	rankCmd.Flags().StringVar(&rankProfileFile, "profile", "", "Candidate profile JSON file")
	rankCmd.Flags().Float64Var(&rankMinScore, "min-score", 0, "Minimum relevance score, 0-100 (default from config)")
	rankCmd.Flags().StringSliceVar(&rankKeywords, "keywords", nil, "Keyword filter applied before ranking (default from config)")
	_ = rankCmd.MarkFlagRequired("profile")

	// Add completion for format flag
	_ = rankCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

type rankInput struct {
	jobs    []types.JobPosting
	profile types.CandidateProfile
}

func runRank(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	// Flags override the scout defaults from config
	minScore := cfg.Scout.MinScore
	if cmd.Flags().Changed("min-score") {
		minScore = rankMinScore
	}
	keywords := cfg.Scout.Keywords
	if cmd.Flags().Changed("keywords") {
		keywords = rankKeywords
	}

	createInput := func(contents []string) (rankInput, error) {
		if len(contents) != 2 {
			return rankInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}
		var jobs []types.JobPosting
		if err := json.Unmarshal([]byte(contents[0]), &jobs); err != nil {
			return rankInput{}, fmt.Errorf("invalid jobs JSON: %w", err)
		}
		var profile types.CandidateProfile
		if err := json.Unmarshal([]byte(contents[1]), &profile); err != nil {
			return rankInput{}, fmt.Errorf("invalid profile JSON: %w", err)
		}
		return rankInput{jobs: jobs, profile: profile}, nil
	}

	logDetails := func(input rankInput, cfg common.CommandConfig) {
		logger.Info("Starting job ranking",
			"job_count", len(input.jobs),
			"profile_skills", len(input.profile.Skills),
			"min_score", minScore,
			"keyword_count", len(keywords),
			"output_format", cfg.OutputFormat)
	}

	rankOperation := func(input rankInput) ([]types.RankedJob, error) {
		jobs := input.jobs
		if len(keywords) > 0 {
			jobs = scout.FilterByKeywords(jobs, keywords)
		}
		return scout.Rank(jobs, input.profile, minScore), nil
	}

	err := common.RunCommand(
		logger,
		rankConfig,
		[]string{args[0], rankProfileFile},
		createInput,
		rankOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to rank jobs: %w", err)
	}
	logger.Info("Job ranking completed successfully")
	return nil
}
