package engine

import (
	"math"

	"jobfit/internal/types"
)

// Dimension weights for the overall score. They sum to exactly 1.0 and are
// policy constants, not configuration.
const (
	weightSkills     = 0.5
	weightExperience = 0.3
	weightEducation  = 0.2
)

// round1 rounds half away from zero to one decimal place.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// AggregateScore combines raw dimension scores into the overall score, rounded
// to one decimal place. Callers pass unrounded dimension values so rounding
// error is not compounded.
func AggregateScore(skill, experience, education float64) float64 {
	return round1(skill*weightSkills + experience*weightExperience + education*weightEducation)
}

// AnalyzeCompatibility runs the full pipeline: extract requirements from the
// job description, match the profile against them, aggregate the scores, and
// synthesize recommendations. It is pure and safe for concurrent use.
func AnalyzeCompatibility(jobDescription string, profile types.CandidateProfile) types.CompatibilityResult {
	req := ExtractRequirements(jobDescription)
	match := MatchProfile(req, profile)
	return types.CompatibilityResult{
		OverallScore:    AggregateScore(match.SkillScore, match.ExperienceScore, match.EducationScore),
		SkillScore:      round1(match.SkillScore),
		ExperienceScore: round1(match.ExperienceScore),
		EducationScore:  round1(match.EducationScore),
		Requirements:    req,
		MatchedSkills:   match.MatchedSkills,
		MissingSkills:   match.MissingSkills,
		Recommendations: Recommend(req, profile, match.MissingSkills),
	}
}
