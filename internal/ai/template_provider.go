package ai

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"jobfit/internal/engine"
	jobfitErrors "jobfit/internal/errors"
	"jobfit/internal/types"
)

// TemplateProvider implements AIProvider with deterministic text templates.
// It needs no credentials and makes no network calls, which makes it the
// out-of-the-box provider and the fallback target when gemini is unavailable.
type TemplateProvider struct {
	logger *jobfitErrors.Logger
}

// Ensure TemplateProvider implements AIProvider
var _ AIProvider = (*TemplateProvider)(nil)

// NewTemplateProvider creates a template-based tailoring provider
func NewTemplateProvider(logger *jobfitErrors.Logger) *TemplateProvider {
	return &TemplateProvider{logger: logger}
}

// TailorResume implements AIProvider using the canonical skill vocabulary:
// skills the job asks for are pulled to the front and emphasized, but skills
// absent from the base resume are never invented.
func (t *TemplateProvider) TailorResume(ctx context.Context, input types.TailorResumeInput) (types.TailorResumeOutput, *TokenUsage, error) {
	required := engine.ExtractSkills(input.JobDescription)
	resumeSkills := engine.ExtractSkills(input.BaseResume)

	sections := splitResumeSections(input.BaseResume)

	summary := tailorSummary(strings.Join(sections.summary, " "), required, input.JobTitle)
	skills := reorderSkills(resumeSkills, required)
	experience := emphasizeRequiredSkills(sections.experience, required)

	t.logger.Debug("Tailored resume with template provider",
		"required_skills", len(required),
		"resume_skills", len(resumeSkills),
		"experience_lines", len(sections.experience))

	return types.TailorResumeOutput{
		TailoredResume:   renderTailoredResume(summary, skills, experience, sections.education),
		CoverLetter:      renderCoverLetter(input.JobTitle, input.Company, required),
		EmphasizedSkills: intersectSkills(required, resumeSkills),
	}, nil, nil
}

// GetModelInfo implements AIProvider; the template provider is always available
func (t *TemplateProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	return &ModelInfo{
		Name:        "template",
		DisplayName: "Deterministic template tailoring",
		Available:   true,
	}
}

// Close implements AIProvider
func (t *TemplateProvider) Close() error {
	return nil
}

// resumeSections is a light split of free-form resume text. The skills section
// is intentionally not carried: the skills list is rebuilt from the vocabulary
// scan so the tailored output stays consistent with the matching engine.
type resumeSections struct {
	summary    []string
	experience []string
	education  []string
}

// splitResumeSections walks the resume line by line, bucketing content under
// the most recent recognized heading. Lines before any heading count toward
// the summary; fully unstructured text keeps a leading excerpt as the summary.
func splitResumeSections(text string) resumeSections {
	var s resumeSections
	section := "summary"
	sawHeading := false

	for _, raw := range strings.Split(text, "\n") {
		if name, ok := sectionHeading(raw); ok {
			section = name
			sawHeading = true
			continue
		}
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		switch section {
		case "summary":
			s.summary = append(s.summary, line)
		case "experience":
			s.experience = append(s.experience, line)
		case "education":
			s.education = append(s.education, line)
		}
	}

	if !sawHeading {
		s = resumeSections{summary: leadingExcerpt(text)}
	}
	return s
}

// sectionHeading reports whether a line is a recognized resume section heading
func sectionHeading(line string) (string, bool) {
	h := strings.ToLower(strings.Trim(strings.TrimSpace(line), "#*=: "))
	switch h {
	case "summary", "professional summary", "profile", "objective", "about", "about me":
		return "summary", true
	case "skills", "technical skills", "core skills", "core competencies":
		return "skills", true
	case "experience", "work experience", "professional experience", "employment", "employment history", "work history":
		return "experience", true
	case "education", "education and certifications":
		return "education", true
	}
	return "", false
}

// leadingExcerpt keeps at most 200 characters of unstructured resume text
func leadingExcerpt(text string) []string {
	full := strings.TrimSpace(text)
	if full == "" {
		return nil
	}
	if r := []rune(full); len(r) > 200 {
		full = string(r[:200]) + "..."
	}
	return []string{full}
}

// tailorSummary prefixes the original summary with an emphasis on the job's
// required skills. With no required skills the summary is left untouched.
func tailorSummary(original string, required []string, jobTitle string) string {
	if len(required) == 0 {
		return original
	}

	role := strings.ToLower(strings.TrimSpace(jobTitle))
	if role == "" {
		role = "this"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Experienced professional specializing in %s. ", strings.Join(topSkills(required, 5), ", "))
	fmt.Fprintf(&b, "Passionate about %s role with proven expertise in %s. ", role, strings.Join(topSkills(required, 3), ", "))
	b.WriteString(original)
	return b.String()
}

// reorderSkills puts job-relevant resume skills first. Required skills the
// resume never mentions are not added.
func reorderSkills(resumeSkills, required []string) []string {
	requiredSet := make(map[string]struct{}, len(required))
	for _, s := range required {
		requiredSet[strings.ToLower(s)] = struct{}{}
	}

	relevant := make([]string, 0, len(resumeSkills))
	var other []string
	for _, s := range resumeSkills {
		if _, ok := requiredSet[strings.ToLower(s)]; ok {
			relevant = append(relevant, s)
		} else {
			other = append(other, s)
		}
	}
	return append(relevant, other...)
}

// emphasizeRequiredSkills wraps occurrences of required skills in **bold**
// markers. A single alternation pass, longest skill first, keeps overlapping
// skills like "java"/"javascript" from producing nested markers.
func emphasizeRequiredSkills(lines []string, required []string) []string {
	if len(lines) == 0 || len(required) == 0 {
		return lines
	}

	pattern := skillPattern(required)
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = pattern.ReplaceAllString(line, "**${1}**")
	}
	return out
}

// skillPattern builds a case-insensitive alternation over the given skills
func skillPattern(skills []string) *regexp.Regexp {
	sorted := make([]string, len(skills))
	copy(sorted, skills)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})

	quoted := make([]string, len(sorted))
	for i, s := range sorted {
		quoted[i] = regexp.QuoteMeta(s)
	}
	return regexp.MustCompile(`(?i)(` + strings.Join(quoted, "|") + `)`)
}

// renderTailoredResume assembles the tailored sections as a markdown document
func renderTailoredResume(summary string, skills, experience, education []string) string {
	var sections []string

	if summary != "" {
		sections = append(sections, "## Summary\n\n"+summary)
	}
	if len(skills) > 0 {
		items := make([]string, len(skills))
		for i, s := range skills {
			items[i] = "- " + s
		}
		sections = append(sections, "## Skills\n\n"+strings.Join(items, "\n"))
	}
	if len(experience) > 0 {
		sections = append(sections, "## Experience\n\n"+strings.Join(experience, "\n"))
	}
	if len(education) > 0 {
		sections = append(sections, "## Education\n\n"+strings.Join(education, "\n"))
	}

	return strings.Join(sections, "\n\n")
}

const coverLetterTemplate = `Dear Hiring Manager,

I am writing to express my strong interest in the %s position at %s.
With my background in %s, I am confident that I would be
a valuable addition to your team.

My experience with %s aligns perfectly with your
requirements. I am particularly excited about the opportunity to contribute to
%s's mission and grow within your innovative environment.

I have attached my resume for your review and would welcome the opportunity to
discuss how my skills and enthusiasm can benefit your team.

Thank you for your consideration.

Best regards,
[Your Name]`

// renderCoverLetter fills the fixed cover letter template
func renderCoverLetter(jobTitle, company string, required []string) string {
	title := strings.TrimSpace(jobTitle)
	if title == "" {
		title = "advertised"
	}
	target := strings.TrimSpace(company)
	if target == "" {
		target = "your company"
	}

	return fmt.Sprintf(coverLetterTemplate,
		title,
		target,
		joinSkills(required, 3),
		joinSkills(required, 5),
		target)
}

// joinSkills joins the first n skills, with a neutral filler when none were found
func joinSkills(skills []string, n int) string {
	if len(skills) == 0 {
		return "software engineering"
	}
	return strings.Join(topSkills(skills, n), ", ")
}

// topSkills returns at most n leading skills
func topSkills(skills []string, n int) []string {
	if len(skills) > n {
		return skills[:n]
	}
	return skills
}

// intersectSkills returns the required skills the resume actually has, in
// vocabulary order - exactly the set the tailored output emphasizes
func intersectSkills(required, resumeSkills []string) []string {
	have := make(map[string]struct{}, len(resumeSkills))
	for _, s := range resumeSkills {
		have[strings.ToLower(s)] = struct{}{}
	}

	emphasized := []string{}
	for _, s := range required {
		if _, ok := have[strings.ToLower(s)]; ok {
			emphasized = append(emphasized, s)
		}
	}
	return emphasized
}
