package engine

import (
	"math"
	"strings"

	"jobfit/internal/types"
)

// MatchResult carries the per-dimension outcome of matching a profile against
// extracted requirements. Scores are raw percentages; rounding happens when a
// CompatibilityResult is assembled.
type MatchResult struct {
	SkillScore      float64
	ExperienceScore float64
	EducationScore  float64
	MatchedSkills   []string
	MissingSkills   []string
}

// educationRank orders education levels for comparison. Unrecognized levels
// rank alongside Bachelors.
func educationRank(level types.EducationLevel) int {
	switch level {
	case types.EducationHighSchool:
		return 1
	case types.EducationBachelors:
		return 2
	case types.EducationMasters:
		return 3
	case types.EducationPhD:
		return 4
	default:
		return 2
	}
}

// MatchSkills splits the required skills into matched and missing using
// case-insensitive equality against the profile skills. Both outputs preserve
// the required-list order and casing; together they partition the input.
func MatchSkills(required, profileSkills []string) (matched, missing []string) {
	have := make(map[string]bool, len(profileSkills))
	for _, s := range profileSkills {
		have[strings.ToLower(s)] = true
	}
	matched = make([]string, 0, len(required))
	missing = make([]string, 0, len(required))
	for _, s := range required {
		if have[strings.ToLower(s)] {
			matched = append(matched, s)
		} else {
			missing = append(missing, s)
		}
	}
	return matched, missing
}

// scoreSkills is the matched fraction as a percentage. An empty requirement
// list is a perfect score.
func scoreSkills(matchedCount, requiredCount int) float64 {
	if requiredCount == 0 {
		return 100
	}
	return math.Min(100, 100*float64(matchedCount)/float64(requiredCount))
}

// scoreExperience compares candidate years against thresholds at 100%, 70%,
// and 50% of the requirement. A zero-year requirement always scores 100.
func scoreExperience(candidateYears, requiredYears int) float64 {
	c := float64(candidateYears)
	r := float64(requiredYears)
	switch {
	case c >= r:
		return 100
	case c >= r*0.7:
		return 80
	case c >= r*0.5:
		return 60
	default:
		return 40
	}
}

// scoreEducation compares education ranks: meeting or exceeding the
// requirement scores 100, one tier below 80, anything lower 60.
func scoreEducation(candidate, required types.EducationLevel) float64 {
	c := educationRank(candidate)
	r := educationRank(required)
	switch {
	case c >= r:
		return 100
	case c == r-1:
		return 80
	default:
		return 60
	}
}

// MatchProfile scores a candidate profile against job requirements on the
// skill, experience, and education dimensions.
func MatchProfile(req types.JobRequirements, profile types.CandidateProfile) MatchResult {
	matched, missing := MatchSkills(req.Skills, profile.Skills)
	return MatchResult{
		SkillScore:      scoreSkills(len(matched), len(req.Skills)),
		ExperienceScore: scoreExperience(profile.ExperienceYears, req.ExperienceYears),
		EducationScore:  scoreEducation(profile.Education, req.Education),
		MatchedSkills:   matched,
		MissingSkills:   missing,
	}
}
