package engine

import (
	"testing"

	"jobfit/internal/types"
)

func TestMatchSkills(t *testing.T) {
	tests := []struct {
		name            string
		required        []string
		profileSkills   []string
		expectedMatched []string
		expectedMissing []string
	}{
		{
			name:            "partial overlap",
			required:        []string{"python", "aws"},
			profileSkills:   []string{"Python", "SQL"},
			expectedMatched: []string{"python"},
			expectedMissing: []string{"aws"},
		},
		{
			name:            "case insensitive equality",
			required:        []string{"python", "docker"},
			profileSkills:   []string{"PYTHON", "Docker"},
			expectedMatched: []string{"python", "docker"},
			expectedMissing: []string{},
		},
		{
			name:            "equality not containment",
			required:        []string{"go"},
			profileSkills:   []string{"golang"},
			expectedMatched: []string{},
			expectedMissing: []string{"go"},
		},
		{
			name:            "empty required",
			required:        []string{},
			profileSkills:   []string{"python"},
			expectedMatched: []string{},
			expectedMissing: []string{},
		},
		{
			name:            "empty profile",
			required:        []string{"python", "aws"},
			profileSkills:   []string{},
			expectedMatched: []string{},
			expectedMissing: []string{"python", "aws"},
		},
		{
			name:            "ordering follows required list",
			required:        []string{"kubernetes", "python", "aws"},
			profileSkills:   []string{"aws", "kubernetes"},
			expectedMatched: []string{"kubernetes", "aws"},
			expectedMissing: []string{"python"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, missing := MatchSkills(tt.required, tt.profileSkills)

			assertStrings(t, "matched", matched, tt.expectedMatched)
			assertStrings(t, "missing", missing, tt.expectedMissing)

			// matched and missing must partition the required list.
			if len(matched)+len(missing) != len(tt.required) {
				t.Errorf("Expected matched+missing to cover required (%d), got %d",
					len(tt.required), len(matched)+len(missing))
			}
		})
	}
}

func TestMatchProfileSkillScore(t *testing.T) {
	tests := []struct {
		name     string
		required []string
		skills   []string
		expected float64
	}{
		{
			name:     "no requirements is a perfect score",
			required: []string{},
			skills:   []string{},
			expected: 100,
		},
		{
			name:     "half matched",
			required: []string{"python", "aws"},
			skills:   []string{"python"},
			expected: 50,
		},
		{
			name:     "all matched",
			required: []string{"python", "aws"},
			skills:   []string{"aws", "python", "extra"},
			expected: 100,
		},
		{
			name:     "none matched",
			required: []string{"python", "aws"},
			skills:   []string{"cobol"},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MatchProfile(
				types.JobRequirements{Skills: tt.required},
				types.CandidateProfile{Skills: tt.skills},
			)
			if result.SkillScore != tt.expected {
				t.Errorf("Expected skill score %.1f, got %.1f", tt.expected, result.SkillScore)
			}
		})
	}
}

func TestMatchProfileExperienceScore(t *testing.T) {
	tests := []struct {
		name      string
		candidate int
		required  int
		expected  float64
	}{
		{name: "meets requirement", candidate: 5, required: 5, expected: 100},
		{name: "exceeds requirement", candidate: 8, required: 5, expected: 100},
		{name: "at seventy percent", candidate: 4, required: 5, expected: 80},
		{name: "at fifty percent", candidate: 3, required: 5, expected: 60},
		{name: "below fifty percent", candidate: 2, required: 5, expected: 40},
		{name: "zero required always passes", candidate: 0, required: 0, expected: 100},
		{name: "zero candidate against requirement", candidate: 0, required: 3, expected: 40},
		{name: "two against three", candidate: 2, required: 3, expected: 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MatchProfile(
				types.JobRequirements{ExperienceYears: tt.required},
				types.CandidateProfile{ExperienceYears: tt.candidate},
			)
			if result.ExperienceScore != tt.expected {
				t.Errorf("Expected experience score %.1f, got %.1f", tt.expected, result.ExperienceScore)
			}
		})
	}
}

func TestMatchProfileEducationScore(t *testing.T) {
	tests := []struct {
		name      string
		candidate types.EducationLevel
		required  types.EducationLevel
		expected  float64
	}{
		{name: "equal levels", candidate: types.EducationBachelors, required: types.EducationBachelors, expected: 100},
		{name: "above requirement", candidate: types.EducationPhD, required: types.EducationBachelors, expected: 100},
		{name: "one tier below", candidate: types.EducationBachelors, required: types.EducationMasters, expected: 80},
		{name: "two tiers below", candidate: types.EducationHighSchool, required: types.EducationMasters, expected: 60},
		{name: "three tiers below", candidate: types.EducationHighSchool, required: types.EducationPhD, expected: 60},
		{name: "unknown candidate level ranks as bachelors", candidate: "Bootcamp", required: types.EducationMasters, expected: 80},
		{name: "unknown required level ranks as bachelors", candidate: types.EducationMasters, required: "Certificate", expected: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MatchProfile(
				types.JobRequirements{Education: tt.required},
				types.CandidateProfile{Education: tt.candidate},
			)
			if result.EducationScore != tt.expected {
				t.Errorf("Expected education score %.1f, got %.1f", tt.expected, result.EducationScore)
			}
		})
	}
}
