package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"jobfit/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "CompatibilityResult", &CompatibilityTextFormatter{})
	registry.RegisterFormatter("markdown", "CompatibilityResult", &CompatibilityMarkdownFormatter{})
	registry.RegisterFormatter("text", "MarketTrends", &TrendsTextFormatter{})
	registry.RegisterFormatter("markdown", "MarketTrends", &TrendsMarkdownFormatter{})
	registry.RegisterFormatter("text", "RankedJobs", &RankedJobsTextFormatter{})
	registry.RegisterFormatter("markdown", "RankedJobs", &RankedJobsMarkdownFormatter{})
	registry.RegisterFormatter("text", "ExtractedProfile", &ProfileTextFormatter{})
	registry.RegisterFormatter("markdown", "ExtractedProfile", &ProfileMarkdownFormatter{})
	registry.RegisterFormatter("text", "TailorResumeOutput", &TailorTextFormatter{})
	registry.RegisterFormatter("markdown", "TailorResumeOutput", &TailorMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.CompatibilityResult:
		return "CompatibilityResult"
	case types.MarketTrends:
		return "MarketTrends"
	case []types.RankedJob:
		return "RankedJobs"
	case types.ExtractedProfile:
		return "ExtractedProfile"
	case types.TailorResumeOutput:
		return "TailorResumeOutput"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// CompatibilityTextFormatter handles text formatting for compatibility results
type CompatibilityTextFormatter struct{}

func (ctf *CompatibilityTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.CompatibilityResult)
	if !ok {
		return "", fmt.Errorf("expected CompatibilityResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== COMPATIBILITY REPORT ===\n\n")
	output.WriteString(fmt.Sprintf("Overall Score: %.1f/100\n\n", result.OverallScore))
	output.WriteString(fmt.Sprintf("Skill Score: %.1f/100\n", result.SkillScore))
	output.WriteString(fmt.Sprintf("Experience Score: %.1f/100\n", result.ExperienceScore))
	output.WriteString(fmt.Sprintf("Education Score: %.1f/100\n\n", result.EducationScore))

	output.WriteString("=== JOB REQUIREMENTS ===\n")
	output.WriteString(fmt.Sprintf("Experience: %d+ years\n", result.Requirements.ExperienceYears))
	output.WriteString(fmt.Sprintf("Education: %s\n", result.Requirements.Education))
	if len(result.Requirements.Skills) > 0 {
		output.WriteString("Skills:\n")
		for _, skill := range result.Requirements.Skills {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
	}
	output.WriteString("\n")

	if len(result.MatchedSkills) > 0 {
		output.WriteString("=== MATCHED SKILLS ===\n")
		for _, skill := range result.MatchedSkills {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
		output.WriteString("\n")
	}

	if len(result.MissingSkills) > 0 {
		output.WriteString("=== MISSING SKILLS ===\n")
		for _, skill := range result.MissingSkills {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
		output.WriteString("\n")
	}

	if len(result.Recommendations) > 0 {
		output.WriteString("=== RECOMMENDATIONS ===\n")
		for i, rec := range result.Recommendations {
			output.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, rec.Priority, rec.Message))
		}
	}

	return output.String(), nil
}

func (ctf *CompatibilityTextFormatter) SupportedType() string {
	return "CompatibilityResult"
}

// CompatibilityMarkdownFormatter handles markdown formatting for compatibility results
type CompatibilityMarkdownFormatter struct{}

func (cmf *CompatibilityMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.CompatibilityResult)
	if !ok {
		return "", fmt.Errorf("expected CompatibilityResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Compatibility Report\n\n")
	output.WriteString(fmt.Sprintf("**Overall Score:** %.1f/100\n\n", result.OverallScore))
	output.WriteString(fmt.Sprintf("**Skill Score:** %.1f/100\n", result.SkillScore))
	output.WriteString(fmt.Sprintf("**Experience Score:** %.1f/100\n", result.ExperienceScore))
	output.WriteString(fmt.Sprintf("**Education Score:** %.1f/100\n\n", result.EducationScore))

	output.WriteString("## Job Requirements\n\n")
	output.WriteString(fmt.Sprintf("**Experience:** %d+ years\n", result.Requirements.ExperienceYears))
	output.WriteString(fmt.Sprintf("**Education:** %s\n\n", result.Requirements.Education))
	if len(result.Requirements.Skills) > 0 {
		output.WriteString("### Skills\n")
		for _, skill := range result.Requirements.Skills {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
		output.WriteString("\n")
	}

	if len(result.MatchedSkills) > 0 {
		output.WriteString("## Matched Skills\n\n")
		for _, skill := range result.MatchedSkills {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
		output.WriteString("\n")
	}

	if len(result.MissingSkills) > 0 {
		output.WriteString("## Missing Skills\n\n")
		for _, skill := range result.MissingSkills {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
		output.WriteString("\n")
	}

	if len(result.Recommendations) > 0 {
		output.WriteString("## Recommendations\n\n")
		for i, rec := range result.Recommendations {
			output.WriteString(fmt.Sprintf("%d. **[%s]** %s\n", i+1, rec.Priority, rec.Message))
		}
	}

	return output.String(), nil
}

func (cmf *CompatibilityMarkdownFormatter) SupportedType() string {
	return "CompatibilityResult"
}

// TrendsTextFormatter handles text formatting for market trend summaries
type TrendsTextFormatter struct{}

func (ttf *TrendsTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.MarketTrends)
	if !ok {
		return "", fmt.Errorf("expected MarketTrends, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== MARKET TRENDS ===\n\n")
	output.WriteString(fmt.Sprintf("Postings Analyzed: %d\n\n", result.TotalAnalyzed))

	if len(result.TopSkills) > 0 {
		output.WriteString("=== TOP SKILLS ===\n")
		for i, sc := range result.TopSkills {
			output.WriteString(fmt.Sprintf("%d. %s: %d\n", i+1, sc.Skill, sc.Count))
		}
		output.WriteString("\n")
	}

	if len(result.TopCompanies) > 0 {
		output.WriteString("=== TOP COMPANIES ===\n")
		for i, cc := range result.TopCompanies {
			output.WriteString(fmt.Sprintf("%d. %s: %d\n", i+1, cc.Company, cc.Count))
		}
	}

	return output.String(), nil
}

func (ttf *TrendsTextFormatter) SupportedType() string {
	return "MarketTrends"
}

// TrendsMarkdownFormatter handles markdown formatting for market trend summaries
type TrendsMarkdownFormatter struct{}

func (tmf *TrendsMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.MarketTrends)
	if !ok {
		return "", fmt.Errorf("expected MarketTrends, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Market Trends\n\n")
	output.WriteString(fmt.Sprintf("**Postings Analyzed:** %d\n\n", result.TotalAnalyzed))

	if len(result.TopSkills) > 0 {
		output.WriteString("## Top Skills\n\n")
		for i, sc := range result.TopSkills {
			output.WriteString(fmt.Sprintf("%d. **%s**: %d\n", i+1, sc.Skill, sc.Count))
		}
		output.WriteString("\n")
	}

	if len(result.TopCompanies) > 0 {
		output.WriteString("## Top Companies\n\n")
		for i, cc := range result.TopCompanies {
			output.WriteString(fmt.Sprintf("%d. **%s**: %d\n", i+1, cc.Company, cc.Count))
		}
	}

	return output.String(), nil
}

func (tmf *TrendsMarkdownFormatter) SupportedType() string {
	return "MarketTrends"
}

// RankedJobsTextFormatter handles text formatting for ranked job lists
type RankedJobsTextFormatter struct{}

func (rjf *RankedJobsTextFormatter) Format(data any) (string, error) {
	jobs, ok := data.([]types.RankedJob)
	if !ok {
		return "", fmt.Errorf("expected []RankedJob, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== RANKED JOBS ===\n\n")

	if len(jobs) == 0 {
		output.WriteString("No jobs matched the relevance threshold.\n")
		return output.String(), nil
	}

	for i, job := range jobs {
		if job.Company != "" {
			output.WriteString(fmt.Sprintf("%d. %s at %s (score: %.1f)\n", i+1, job.Title, job.Company, job.RelevanceScore))
		} else {
			output.WriteString(fmt.Sprintf("%d. %s (score: %.1f)\n", i+1, job.Title, job.RelevanceScore))
		}
		if job.Location != "" {
			output.WriteString(fmt.Sprintf("   Location: %s\n", job.Location))
		}
		if job.SalaryRange != "" {
			output.WriteString(fmt.Sprintf("   Salary: %s\n", job.SalaryRange))
		}
		if len(job.MatchingSkills) > 0 {
			output.WriteString(fmt.Sprintf("   Matching Skills: %s\n", strings.Join(job.MatchingSkills, ", ")))
		}
		if job.URL != "" {
			output.WriteString(fmt.Sprintf("   URL: %s\n", job.URL))
		}
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (rjf *RankedJobsTextFormatter) SupportedType() string {
	return "RankedJobs"
}

// RankedJobsMarkdownFormatter handles markdown formatting for ranked job lists
type RankedJobsMarkdownFormatter struct{}

func (rjmf *RankedJobsMarkdownFormatter) Format(data any) (string, error) {
	jobs, ok := data.([]types.RankedJob)
	if !ok {
		return "", fmt.Errorf("expected []RankedJob, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Ranked Jobs\n\n")

	if len(jobs) == 0 {
		output.WriteString("No jobs matched the relevance threshold.\n")
		return output.String(), nil
	}

	for i, job := range jobs {
		if job.Company != "" {
			output.WriteString(fmt.Sprintf("## %d. %s at %s\n\n", i+1, job.Title, job.Company))
		} else {
			output.WriteString(fmt.Sprintf("## %d. %s\n\n", i+1, job.Title))
		}
		output.WriteString(fmt.Sprintf("**Relevance Score:** %.1f/100\n\n", job.RelevanceScore))
		if job.Location != "" {
			output.WriteString(fmt.Sprintf("**Location:** %s\n\n", job.Location))
		}
		if job.SalaryRange != "" {
			output.WriteString(fmt.Sprintf("**Salary:** %s\n\n", job.SalaryRange))
		}
		if len(job.MatchingSkills) > 0 {
			output.WriteString("### Matching Skills\n")
			for _, skill := range job.MatchingSkills {
				output.WriteString(fmt.Sprintf("- %s\n", skill))
			}
			output.WriteString("\n")
		}
		if job.URL != "" {
			output.WriteString(fmt.Sprintf("[View posting](%s)\n\n", job.URL))
		}
	}

	return output.String(), nil
}

func (rjmf *RankedJobsMarkdownFormatter) SupportedType() string {
	return "RankedJobs"
}

// ProfileTextFormatter handles text formatting for extracted candidate profiles
type ProfileTextFormatter struct{}

func (ptf *ProfileTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ExtractedProfile)
	if !ok {
		return "", fmt.Errorf("expected ExtractedProfile, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== EXTRACTED PROFILE ===\n\n")
	output.WriteString(fmt.Sprintf("Experience: %d years\n", result.ExperienceYears))
	output.WriteString(fmt.Sprintf("Education: %s\n\n", result.Education))

	if len(result.Skills) > 0 {
		output.WriteString("Skills:\n")
		for _, skill := range result.Skills {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
		output.WriteString("\n")
	}

	if result.Contact != (types.ContactInfo{}) {
		output.WriteString("=== CONTACT ===\n")
		if result.Contact.Email != "" {
			output.WriteString(fmt.Sprintf("Email: %s\n", result.Contact.Email))
		}
		if result.Contact.Phone != "" {
			output.WriteString(fmt.Sprintf("Phone: %s\n", result.Contact.Phone))
		}
		if result.Contact.LinkedIn != "" {
			output.WriteString(fmt.Sprintf("LinkedIn: %s\n", result.Contact.LinkedIn))
		}
		if result.Contact.GitHub != "" {
			output.WriteString(fmt.Sprintf("GitHub: %s\n", result.Contact.GitHub))
		}
	}

	return output.String(), nil
}

func (ptf *ProfileTextFormatter) SupportedType() string {
	return "ExtractedProfile"
}

// ProfileMarkdownFormatter handles markdown formatting for extracted candidate profiles
type ProfileMarkdownFormatter struct{}

func (pmf *ProfileMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ExtractedProfile)
	if !ok {
		return "", fmt.Errorf("expected ExtractedProfile, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Extracted Profile\n\n")
	output.WriteString(fmt.Sprintf("**Experience:** %d years\n", result.ExperienceYears))
	output.WriteString(fmt.Sprintf("**Education:** %s\n\n", result.Education))

	if len(result.Skills) > 0 {
		output.WriteString("## Skills\n\n")
		for _, skill := range result.Skills {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
		output.WriteString("\n")
	}

	if result.Contact != (types.ContactInfo{}) {
		output.WriteString("## Contact\n\n")
		if result.Contact.Email != "" {
			output.WriteString(fmt.Sprintf("**Email:** %s\n", result.Contact.Email))
		}
		if result.Contact.Phone != "" {
			output.WriteString(fmt.Sprintf("**Phone:** %s\n", result.Contact.Phone))
		}
		if result.Contact.LinkedIn != "" {
			output.WriteString(fmt.Sprintf("**LinkedIn:** %s\n", result.Contact.LinkedIn))
		}
		if result.Contact.GitHub != "" {
			output.WriteString(fmt.Sprintf("**GitHub:** %s\n", result.Contact.GitHub))
		}
	}

	return output.String(), nil
}

func (pmf *ProfileMarkdownFormatter) SupportedType() string {
	return "ExtractedProfile"
}

// TailorTextFormatter handles text formatting for tailor results
type TailorTextFormatter struct{}

func (ttf *TailorTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.TailorResumeOutput)
	if !ok {
		return "", fmt.Errorf("expected TailorResumeOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== TAILORED RESUME ===\n\n")
	output.WriteString(result.TailoredResume)
	output.WriteString("\n\n")

	output.WriteString("=== COVER LETTER ===\n\n")
	output.WriteString(result.CoverLetter)
	output.WriteString("\n")

	if len(result.EmphasizedSkills) > 0 {
		output.WriteString("\n=== EMPHASIZED SKILLS ===\n")
		for _, skill := range result.EmphasizedSkills {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
	}

	return output.String(), nil
}

func (ttf *TailorTextFormatter) SupportedType() string {
	return "TailorResumeOutput"
}

// TailorMarkdownFormatter handles markdown formatting for tailor results
type TailorMarkdownFormatter struct{}

func (tmf *TailorMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.TailorResumeOutput)
	if !ok {
		return "", fmt.Errorf("expected TailorResumeOutput, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Tailored Resume\n\n")
	output.WriteString(result.TailoredResume)
	output.WriteString("\n\n")

	output.WriteString("# Cover Letter\n\n")
	output.WriteString(result.CoverLetter)
	output.WriteString("\n")

	if len(result.EmphasizedSkills) > 0 {
		output.WriteString("\n# Emphasized Skills\n\n")
		for _, skill := range result.EmphasizedSkills {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
	}

	return output.String(), nil
}

func (tmf *TailorMarkdownFormatter) SupportedType() string {
	return "TailorResumeOutput"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
