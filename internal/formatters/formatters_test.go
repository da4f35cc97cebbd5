package formatters

import (
	"encoding/json"
	"strings"
	"testing"

	"jobfit/internal/types"
)

func sampleCompatibilityResult() types.CompatibilityResult {
	return types.CompatibilityResult{
		OverallScore:    73.3,
		SkillScore:      66.7,
		ExperienceScore: 80,
		EducationScore:  75,
		Requirements: types.JobRequirements{
			Skills:          []string{"python", "docker", "kubernetes"},
			ExperienceYears: 5,
			Education:       types.EducationBachelors,
		},
		MatchedSkills: []string{"python", "docker"},
		MissingSkills: []string{"kubernetes"},
		Recommendations: []types.Recommendation{
			{
				Kind:     types.RecommendationSkillGap,
				Priority: types.PriorityHigh,
				Message:  "Focus on acquiring these missing skills: kubernetes",
			},
		},
	}
}

func TestRegistryDispatch(t *testing.T) {
	registry := NewFormatterRegistry()

	tests := []struct {
		name     string
		data     any
		format   string
		contains string
	}{
		{
			name:     "CompatibilityText",
			data:     sampleCompatibilityResult(),
			format:   "text",
			contains: "=== COMPATIBILITY REPORT ===",
		},
		{
			name:     "CompatibilityMarkdown",
			data:     sampleCompatibilityResult(),
			format:   "markdown",
			contains: "# Compatibility Report",
		},
		{
			name:     "TrendsText",
			data:     types.MarketTrends{TotalAnalyzed: 3},
			format:   "text",
			contains: "Postings Analyzed: 3",
		},
		{
			name:     "TrendsMarkdown",
			data:     types.MarketTrends{TotalAnalyzed: 3},
			format:   "markdown",
			contains: "**Postings Analyzed:** 3",
		},
		{
			name:     "RankedJobsText",
			data:     []types.RankedJob{},
			format:   "text",
			contains: "No jobs matched the relevance threshold.",
		},
		{
			name: "RankedJobsMarkdown",
			data: []types.RankedJob{
				{
					JobPosting:     types.JobPosting{Title: "SRE", Company: "Acme"},
					RelevanceScore: 85.5,
				},
			},
			format:   "markdown",
			contains: "## 1. SRE at Acme",
		},
		{
			name: "ProfileText",
			data: types.ExtractedProfile{
				CandidateProfile: types.CandidateProfile{
					Skills:          []string{"go"},
					ExperienceYears: 6,
					Education:       types.EducationMasters,
				},
			},
			format:   "text",
			contains: "Experience: 6 years",
		},
		{
			name: "TailorText",
			data: types.TailorResumeOutput{
				TailoredResume: "resume body",
				CoverLetter:    "letter body",
			},
			format:   "text",
			contains: "=== COVER LETTER ===",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := registry.Format(tt.data, tt.format)
			if err != nil {
				t.Fatalf("Format failed: %v", err)
			}
			if !strings.Contains(got, tt.contains) {
				t.Errorf("Expected output to contain %q:\n%s", tt.contains, got)
			}
		})
	}
}

func TestJSONFormatterRoundTrip(t *testing.T) {
	registry := NewFormatterRegistry()

	got, err := registry.Format(sampleCompatibilityResult(), "json")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var decoded types.CompatibilityResult
	if err := json.Unmarshal([]byte(got), &decoded); err != nil {
		t.Fatalf("JSON output should be valid: %v", err)
	}
	if decoded.OverallScore != 73.3 {
		t.Errorf("Expected overall score 73.3, got %f", decoded.OverallScore)
	}
}

func TestJSONFallbackForUnknownType(t *testing.T) {
	registry := NewFormatterRegistry()

	// A type without a dedicated formatter falls back to JSON under "json"
	got, err := registry.Format(map[string]string{"key": "value"}, "json")
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.Contains(got, `"key": "value"`) {
		t.Errorf("Unexpected JSON output: %s", got)
	}

	// Text format has no generic fallback for unknown types
	if _, err := registry.Format(map[string]string{"key": "value"}, "text"); err == nil {
		t.Error("Expected an error for an unknown type under text format")
	}
}

func TestUnknownFormat(t *testing.T) {
	registry := NewFormatterRegistry()

	if _, err := registry.Format(sampleCompatibilityResult(), "yaml"); err == nil {
		t.Error("Expected an error for an unsupported format")
	}
}

func TestCompatibilityTextSections(t *testing.T) {
	got, err := (&CompatibilityTextFormatter{}).Format(sampleCompatibilityResult())
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	for _, want := range []string{
		"Overall Score: 73.3/100",
		"Skill Score: 66.7/100",
		"Experience Score: 80.0/100",
		"Education Score: 75.0/100",
		"Experience: 5+ years",
		"Education: Bachelors",
		"=== MATCHED SKILLS ===",
		"=== MISSING SKILLS ===",
		"- kubernetes",
		"1. [high] Focus on acquiring these missing skills: kubernetes",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected output to contain %q:\n%s", want, got)
		}
	}
}

func TestCompatibilityFormatterRejectsWrongType(t *testing.T) {
	if _, err := (&CompatibilityTextFormatter{}).Format("not a result"); err == nil {
		t.Error("Expected a type mismatch error")
	}
}

func TestGetSupportedFormats(t *testing.T) {
	formats := NewFormatterRegistry().GetSupportedFormats()

	want := map[string]bool{"json": false, "text": false, "markdown": false}
	for _, f := range formats {
		if _, ok := want[f]; ok {
			want[f] = true
		}
	}
	for f, seen := range want {
		if !seen {
			t.Errorf("Expected format %q to be supported", f)
		}
	}
}
