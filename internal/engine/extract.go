package engine

import (
	"regexp"
	"strconv"
	"strings"

	"jobfit/internal/types"
)

// experiencePatterns are tried in order; the first one that matches anywhere in
// the lowercased text wins. Note that "3-5 years" is matched by the first
// pattern at "5 years", so range expressions resolve to their upper bound.
var experiencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\+?\s*years?`),
	regexp.MustCompile(`(\d+)-\d+\s*years?`),
	regexp.MustCompile(`minimum\s*(\d+)\s*years?`),
	regexp.MustCompile(`at least\s*(\d+)\s*years?`),
}

// ExtractSkills returns the vocabulary skills mentioned in text, in vocabulary
// order. Detection is literal substring containment on the lowercased text, so
// short tokens can match inside longer words ("go" inside "mongo").
func ExtractSkills(text string) []string {
	lower := strings.ToLower(text)
	found := make([]string, 0, 8)
	for _, skill := range skillVocabulary {
		if strings.Contains(lower, skill) {
			found = append(found, skill)
		}
	}
	return found
}

// ExtractExperienceYears pulls the required years of experience out of free
// text. When no numeric pattern matches, seniority keywords decide: senior or
// lead means 5, mid-level 3, entry-level 1, and 2 otherwise.
func ExtractExperienceYears(text string) int {
	lower := strings.ToLower(text)
	for _, pattern := range experiencePatterns {
		m := pattern.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		if years, err := strconv.Atoi(m[1]); err == nil {
			return years
		}
	}
	switch {
	case containsAny(lower, "senior", "lead"):
		return 5
	case containsAny(lower, "mid", "intermediate"):
		return 3
	case containsAny(lower, "entry", "junior"):
		return 1
	default:
		return 2
	}
}

// ExtractEducation scans for degree keywords in strict priority order, highest
// tier first. Text with no degree keywords maps to High School.
func ExtractEducation(text string) types.EducationLevel {
	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, "phd", "doctorate"):
		return types.EducationPhD
	case containsAny(lower, "master", "msc", "mba"):
		return types.EducationMasters
	case containsAny(lower, "bachelor", "degree", "bsc"):
		return types.EducationBachelors
	default:
		return types.EducationHighSchool
	}
}

// ExtractRequirements parses a free-form job description into structured
// requirements. The empty string is legal input and yields the fallbacks:
// no skills, 2 years, High School.
func ExtractRequirements(description string) types.JobRequirements {
	return types.JobRequirements{
		Skills:          ExtractSkills(description),
		ExperienceYears: ExtractExperienceYears(description),
		Education:       ExtractEducation(description),
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
