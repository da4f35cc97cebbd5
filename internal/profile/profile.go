package profile

import (
	"regexp"
	"strings"

	"jobfit/internal/engine"
	"jobfit/internal/types"
)

var (
	emailPattern    = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern    = regexp.MustCompile(`(\+?1?[-.\s]?)?(\(?\d{3}\)?[-.\s]?)?\d{3}[-.\s]?\d{4}`)
	linkedinPattern = regexp.MustCompile(`(?i)linkedin\.com/in/[\w-]+`)
	githubPattern   = regexp.MustCompile(`(?i)github\.com/[\w-]+`)
)

// ExtractProfile recovers a structured candidate profile from free-form
// resume text. Skills, experience years, and education use the same
// vocabulary and fallbacks as job requirement extraction, so a resume and a
// description mentioning the same technology always agree on the token.
func ExtractProfile(resumeText string) types.ExtractedProfile {
	return types.ExtractedProfile{
		CandidateProfile: types.CandidateProfile{
			Skills:          engine.ExtractSkills(resumeText),
			ExperienceYears: engine.ExtractExperienceYears(resumeText),
			Education:       engine.ExtractEducation(resumeText),
		},
		Contact: ExtractContactInfo(resumeText),
	}
}

// ExtractContactInfo pulls contact details out of resume text. The first
// match wins per field; fields with no match stay empty. Bare
// linkedin.com/github.com references come back as https URLs.
func ExtractContactInfo(text string) types.ContactInfo {
	info := types.ContactInfo{
		Email: emailPattern.FindString(text),
		Phone: strings.TrimSpace(phonePattern.FindString(text)),
	}
	if m := linkedinPattern.FindString(text); m != "" {
		info.LinkedIn = "https://" + m
	}
	if m := githubPattern.FindString(text); m != "" {
		info.GitHub = "https://" + m
	}
	return info
}
