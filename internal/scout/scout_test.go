package scout

import (
	"testing"

	"jobfit/internal/types"
)

func TestScoreRelevance(t *testing.T) {
	tests := []struct {
		name             string
		job              types.JobPosting
		skills           []string
		expectedScore    float64
		expectedMatching []string
	}{
		{
			name: "all skills in description",
			job: types.JobPosting{
				Title:       "Backend Engineer",
				Description: "We need Python and Docker experience",
			},
			skills:           []string{"python", "docker"},
			expectedScore:    100,
			expectedMatching: []string{"python", "docker"},
		},
		{
			name: "one of two skills in description",
			job: types.JobPosting{
				Title:       "Backend Engineer",
				Description: "We need Python experience",
			},
			skills:           []string{"python", "docker"},
			expectedScore:    50,
			expectedMatching: []string{"python"},
		},
		{
			name: "title only mention scores eight of ten",
			job: types.JobPosting{
				Title:       "Python Engineer",
				Description: "General backend role",
			},
			skills:           []string{"python"},
			expectedScore:    80,
			expectedMatching: []string{},
		},
		{
			name: "description beats title without double counting",
			job: types.JobPosting{
				Title:       "Python Engineer",
				Description: "Python shop through and through",
			},
			skills:           []string{"python"},
			expectedScore:    100,
			expectedMatching: []string{"python"},
		},
		{
			name: "mixed description and title mentions",
			job: types.JobPosting{
				Title:       "Go Developer",
				Description: "Kubernetes platform team",
			},
			skills:           []string{"go", "kubernetes"},
			expectedScore:    90,
			expectedMatching: []string{"kubernetes"},
		},
		{
			name: "skill casing preserved in matches",
			job: types.JobPosting{
				Description: "python all day",
			},
			skills:           []string{"Python"},
			expectedScore:    100,
			expectedMatching: []string{"Python"},
		},
		{
			name:             "no skills scores zero",
			job:              types.JobPosting{Title: "Anything", Description: "Anything"},
			skills:           []string{},
			expectedScore:    0,
			expectedMatching: []string{},
		},
		{
			name:             "no overlap scores zero",
			job:              types.JobPosting{Title: "Accountant", Description: "Ledgers"},
			skills:           []string{"python"},
			expectedScore:    0,
			expectedMatching: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreRelevance(tt.job, tt.skills)

			if got.RelevanceScore != tt.expectedScore {
				t.Errorf("Expected relevance %.1f, got %.1f", tt.expectedScore, got.RelevanceScore)
			}
			if len(got.MatchingSkills) != len(tt.expectedMatching) {
				t.Fatalf("Expected matching %v, got %v", tt.expectedMatching, got.MatchingSkills)
			}
			for i, want := range tt.expectedMatching {
				if got.MatchingSkills[i] != want {
					t.Errorf("Expected matching[%d] = '%s', got '%s'", i, want, got.MatchingSkills[i])
				}
			}
		})
	}
}

func TestFilterByKeywords(t *testing.T) {
	jobs := []types.JobPosting{
		{Title: "Backend Engineer", Description: "Go services"},
		{Title: "Data Scientist", Description: "Python models"},
		{Title: "Accountant", Description: "Spreadsheets"},
	}

	tests := []struct {
		name     string
		keywords []string
		expected int
	}{
		{name: "single keyword in title", keywords: []string{"backend"}, expected: 1},
		{name: "single keyword in description", keywords: []string{"python"}, expected: 1},
		{name: "multiple keywords union", keywords: []string{"backend", "python"}, expected: 2},
		{name: "case insensitive", keywords: []string{"BACKEND"}, expected: 1},
		{name: "no keywords keeps everything", keywords: nil, expected: 3},
		{name: "no matches", keywords: []string{"kubernetes"}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterByKeywords(jobs, tt.keywords)
			if len(got) != tt.expected {
				t.Errorf("Expected %d jobs, got %d", tt.expected, len(got))
			}
		})
	}
}

func TestRank(t *testing.T) {
	profile := types.CandidateProfile{Skills: []string{"python", "docker"}}
	jobs := []types.JobPosting{
		{Title: "A", Description: "Python only"},
		{Title: "B", Description: "Python and Docker"},
		{Title: "C", Description: "Neither"},
		{Title: "D", Description: "python only again"},
	}

	t.Run("orders by descending relevance", func(t *testing.T) {
		ranked := Rank(jobs, profile, 0)

		if len(ranked) != 4 {
			t.Fatalf("Expected 4 ranked jobs, got %d", len(ranked))
		}
		if ranked[0].Title != "B" {
			t.Errorf("Expected 'B' first, got '%s'", ranked[0].Title)
		}
		// A and D tie at 50; input order decides.
		if ranked[1].Title != "A" || ranked[2].Title != "D" {
			t.Errorf("Expected tie order A then D, got '%s' then '%s'", ranked[1].Title, ranked[2].Title)
		}
		if ranked[3].Title != "C" {
			t.Errorf("Expected 'C' last, got '%s'", ranked[3].Title)
		}
	})

	t.Run("min score filters", func(t *testing.T) {
		ranked := Rank(jobs, profile, 50)

		if len(ranked) != 3 {
			t.Fatalf("Expected 3 jobs at or above 50, got %d", len(ranked))
		}
		for _, r := range ranked {
			if r.RelevanceScore < 50 {
				t.Errorf("Job '%s' below threshold with %.1f", r.Title, r.RelevanceScore)
			}
		}
	})

	t.Run("profile without skills ranks everything zero", func(t *testing.T) {
		ranked := Rank(jobs, types.CandidateProfile{}, 0)

		for _, r := range ranked {
			if r.RelevanceScore != 0 {
				t.Errorf("Expected 0 relevance, got %.1f for '%s'", r.RelevanceScore, r.Title)
			}
		}
	})
}
