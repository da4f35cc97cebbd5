package engine

import (
	"testing"

	"jobfit/internal/types"
)

func assertStrings(t *testing.T, label string, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("Expected %s %v, got %v", label, want, got)
		return
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected %s[%d] = '%s', got '%s'", label, i, want[i], got[i])
		}
	}
}

func TestExtractSkills(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "simple mention",
			text:     "We use Python and Docker daily",
			expected: []string{"python", "docker"},
		},
		{
			name:     "case insensitive",
			text:     "PYTHON, PyTorch and AWS",
			expected: []string{"python", "aws", "pytorch"},
		},
		{
			name:     "vocabulary order not text order",
			text:     "Kubernetes before Docker before AWS",
			expected: []string{"aws", "docker", "kubernetes"},
		},
		{
			name:     "substring containment matches inside words",
			text:     "experience with MongoDB clusters",
			expected: []string{"go", "mongodb"},
		},
		{
			name:     "java matches inside javascript",
			text:     "JavaScript front-end team",
			expected: []string{"javascript", "java"},
		},
		{
			name:     "multi word skills",
			text:     "machine learning and rest api design",
			expected: []string{"machine learning", "rest api", "api design"},
		},
		{
			name:     "empty text",
			text:     "",
			expected: []string{},
		},
		{
			name:     "no vocabulary mention",
			text:     "We value kindness and punctuality",
			expected: []string{},
		},
		{
			name:     "duplicate mentions reported once",
			text:     "Python, python, and more Python",
			expected: []string{"python"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractSkills(tt.text)
			assertStrings(t, "skills", got, tt.expected)
		})
	}
}

func TestExtractExperienceYears(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{
			name:     "plus years",
			text:     "Requires 3+ years of backend work",
			expected: 3,
		},
		{
			name:     "plain years",
			text:     "7 years in production systems",
			expected: 7,
		},
		{
			name:     "singular year",
			text:     "1 year of exposure is enough",
			expected: 1,
		},
		{
			name:     "range resolves to upper bound",
			text:     "3-5 years of experience",
			expected: 5,
		},
		{
			name:     "minimum phrasing",
			text:     "minimum 4 years required",
			expected: 4,
		},
		{
			name:     "at least phrasing",
			text:     "at least 6 years with distributed systems",
			expected: 6,
		},
		{
			name:     "numeric pattern beats seniority keyword",
			text:     "Senior role, 2 years minimum",
			expected: 2,
		},
		{
			name:     "senior fallback",
			text:     "Senior Software Engineer",
			expected: 5,
		},
		{
			name:     "lead fallback",
			text:     "Tech Lead opening",
			expected: 5,
		},
		{
			name:     "mid fallback",
			text:     "Mid-level backend position",
			expected: 3,
		},
		{
			name:     "intermediate fallback",
			text:     "Intermediate developer wanted",
			expected: 3,
		},
		{
			name:     "junior fallback",
			text:     "Junior developer wanted",
			expected: 1,
		},
		{
			name:     "entry fallback",
			text:     "Entry-level position",
			expected: 1,
		},
		{
			name:     "default when nothing matches",
			text:     "Software Engineer position",
			expected: 2,
		},
		{
			name:     "empty text",
			text:     "",
			expected: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractExperienceYears(tt.text)
			if got != tt.expected {
				t.Errorf("Expected %d years, got %d", tt.expected, got)
			}
		})
	}
}

func TestExtractEducation(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected types.EducationLevel
	}{
		{
			name:     "phd keyword",
			text:     "PhD in computer science preferred",
			expected: types.EducationPhD,
		},
		{
			name:     "doctorate keyword",
			text:     "doctorate required",
			expected: types.EducationPhD,
		},
		{
			name:     "phd outranks bachelor in same text",
			text:     "Bachelor's required, PhD preferred",
			expected: types.EducationPhD,
		},
		{
			name:     "master keyword",
			text:     "Master's degree in statistics",
			expected: types.EducationMasters,
		},
		{
			name:     "mba keyword",
			text:     "MBA welcome",
			expected: types.EducationMasters,
		},
		{
			name:     "bachelor keyword",
			text:     "Bachelor's in any field",
			expected: types.EducationBachelors,
		},
		{
			name:     "bare degree keyword",
			text:     "degree in engineering or equivalent",
			expected: types.EducationBachelors,
		},
		{
			name:     "bsc keyword",
			text:     "BSc required",
			expected: types.EducationBachelors,
		},
		{
			name:     "no keyword defaults to high school",
			text:     "self-taught candidates welcome",
			expected: types.EducationHighSchool,
		},
		{
			name:     "empty text",
			text:     "",
			expected: types.EducationHighSchool,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractEducation(tt.text)
			if got != tt.expected {
				t.Errorf("Expected education '%s', got '%s'", tt.expected, got)
			}
		})
	}
}

func TestExtractRequirements(t *testing.T) {
	t.Run("typical description", func(t *testing.T) {
		req := ExtractRequirements("Requires 3+ years Python and AWS experience. Bachelor's degree required.")

		assertStrings(t, "skills", req.Skills, []string{"python", "aws"})
		if req.ExperienceYears != 3 {
			t.Errorf("Expected 3 years, got %d", req.ExperienceYears)
		}
		if req.Education != types.EducationBachelors {
			t.Errorf("Expected education '%s', got '%s'", types.EducationBachelors, req.Education)
		}
	})

	t.Run("empty description yields fallbacks", func(t *testing.T) {
		req := ExtractRequirements("")

		if len(req.Skills) != 0 {
			t.Errorf("Expected no skills, got %v", req.Skills)
		}
		if req.ExperienceYears != 2 {
			t.Errorf("Expected default 2 years, got %d", req.ExperienceYears)
		}
		if req.Education != types.EducationHighSchool {
			t.Errorf("Expected education '%s', got '%s'", types.EducationHighSchool, req.Education)
		}
	})
}

func TestVocabulary(t *testing.T) {
	vocab := Vocabulary()
	if len(vocab) != len(skillVocabulary) {
		t.Fatalf("Expected %d skills, got %d", len(skillVocabulary), len(vocab))
	}

	// Callers must not be able to mutate the canonical list.
	vocab[0] = "cobol"
	if skillVocabulary[0] == "cobol" {
		t.Error("Vocabulary() must return a copy")
	}
}

func BenchmarkExtractRequirements(b *testing.B) {
	description := "Senior engineer, 5+ years with Python, Go, Kubernetes, AWS and PostgreSQL. Master's degree preferred."
	for b.Loop() {
		ExtractRequirements(description)
	}
}
