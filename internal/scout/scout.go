package scout

import (
	"math"
	"sort"
	"strings"

	"jobfit/internal/types"
)

// ScoreRelevance rates how well a single posting matches the candidate's
// skills. A skill mentioned in the description scores 10 points; a skill
// mentioned only in the title scores 8. The total normalizes against the
// all-skills-in-description maximum, so the result is 0-100 with one decimal.
// A candidate with no skills scores 0 everywhere.
func ScoreRelevance(job types.JobPosting, skills []string) types.RankedJob {
	ranked := types.RankedJob{
		JobPosting:     job,
		MatchingSkills: make([]string, 0, len(skills)),
	}
	if len(skills) == 0 {
		return ranked
	}

	title := strings.ToLower(job.Title)
	description := strings.ToLower(job.Description)

	score := 0
	for _, skill := range skills {
		s := strings.ToLower(skill)
		switch {
		case strings.Contains(description, s):
			score += 10
			ranked.MatchingSkills = append(ranked.MatchingSkills, skill)
		case strings.Contains(title, s):
			score += 8
		}
	}

	max := float64(len(skills) * 10)
	ranked.RelevanceScore = round1(math.Min(100, float64(score)/max*100))
	return ranked
}

// FilterByKeywords keeps postings whose title or description contains any of
// the keywords, case-insensitively. No keywords means no filtering.
func FilterByKeywords(jobs []types.JobPosting, keywords []string) []types.JobPosting {
	if len(keywords) == 0 {
		return jobs
	}
	kept := make([]types.JobPosting, 0, len(jobs))
	for _, job := range jobs {
		haystack := strings.ToLower(job.Title + " " + job.Description)
		for _, keyword := range keywords {
			if strings.Contains(haystack, strings.ToLower(keyword)) {
				kept = append(kept, job)
				break
			}
		}
	}
	return kept
}

// Rank scores every posting against the profile, drops results under
// minScore, and orders the rest by descending relevance. Equal scores keep
// their input order.
func Rank(jobs []types.JobPosting, profile types.CandidateProfile, minScore float64) []types.RankedJob {
	ranked := make([]types.RankedJob, 0, len(jobs))
	for _, job := range jobs {
		r := ScoreRelevance(job, profile.Skills)
		if r.RelevanceScore >= minScore {
			ranked = append(ranked, r)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RelevanceScore > ranked[j].RelevanceScore
	})
	return ranked
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
