package engine

import (
	"fmt"
	"strings"

	"jobfit/internal/types"
)

// Recommend synthesizes prioritized suggestions from a match outcome. The
// checks run independently and emit in a fixed order: skill gap, experience
// gap, then readiness. A candidate can receive both a gap recommendation and
// the ready-to-apply one.
func Recommend(req types.JobRequirements, profile types.CandidateProfile, missingSkills []string) []types.Recommendation {
	recs := make([]types.Recommendation, 0, 3)

	if len(missingSkills) > 0 {
		top := missingSkills
		if len(top) > 3 {
			top = top[:3]
		}
		priority := types.PriorityMedium
		if len(missingSkills) > 3 {
			priority = types.PriorityHigh
		}
		recs = append(recs, types.Recommendation{
			Kind:     types.RecommendationSkillGap,
			Priority: priority,
			Message:  "Consider learning these skills: " + strings.Join(top, ", "),
		})
	}

	if profile.ExperienceYears < req.ExperienceYears {
		recs = append(recs, types.Recommendation{
			Kind:     types.RecommendationExperienceGap,
			Priority: types.PriorityMedium,
			Message:  fmt.Sprintf("Gain %d more years of experience", req.ExperienceYears-profile.ExperienceYears),
		})
	}

	if len(missingSkills) <= 2 && float64(profile.ExperienceYears) >= 0.8*float64(req.ExperienceYears) {
		recs = append(recs, types.Recommendation{
			Kind:     types.RecommendationReadyToApply,
			Priority: types.PriorityHigh,
			Message:  "You're a strong candidate! Consider applying.",
		})
	}

	return recs
}
