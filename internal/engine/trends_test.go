package engine

import (
	"fmt"
	"testing"

	"jobfit/internal/types"
)

func TestAnalyzeMarketTrends(t *testing.T) {
	t.Run("counts skills across postings", func(t *testing.T) {
		jobs := []types.JobPosting{
			{Description: "Python and Docker", Company: "Acme"},
			{Description: "Python and AWS", Company: "Globex"},
			{Description: "Python everywhere", Company: "Acme"},
		}

		trends := AnalyzeMarketTrends(jobs)

		if trends.TotalAnalyzed != 3 {
			t.Errorf("Expected 3 analyzed, got %d", trends.TotalAnalyzed)
		}
		if len(trends.TopSkills) == 0 {
			t.Fatal("Expected top skills, got none")
		}
		if trends.TopSkills[0].Skill != "python" || trends.TopSkills[0].Count != 3 {
			t.Errorf("Expected ('python', 3) first, got ('%s', %d)",
				trends.TopSkills[0].Skill, trends.TopSkills[0].Count)
		}
	})

	t.Run("ties keep first seen order", func(t *testing.T) {
		jobs := []types.JobPosting{
			{Description: "Docker shop"},
			{Description: "AWS shop"},
			{Description: "Docker and AWS shop"},
		}

		trends := AnalyzeMarketTrends(jobs)

		// docker and aws both count 2; docker appeared first in the input.
		if len(trends.TopSkills) != 2 {
			t.Fatalf("Expected 2 skills, got %d: %+v", len(trends.TopSkills), trends.TopSkills)
		}
		if trends.TopSkills[0].Skill != "docker" {
			t.Errorf("Expected 'docker' first on tie, got '%s'", trends.TopSkills[0].Skill)
		}
		if trends.TopSkills[1].Skill != "aws" {
			t.Errorf("Expected 'aws' second on tie, got '%s'", trends.TopSkills[1].Skill)
		}
	})

	t.Run("company counts", func(t *testing.T) {
		jobs := []types.JobPosting{
			{Description: "anything", Company: "Acme"},
			{Description: "anything", Company: "Globex"},
			{Description: "anything", Company: "Acme"},
			{Description: "anything"},
		}

		trends := AnalyzeMarketTrends(jobs)

		if len(trends.TopCompanies) != 2 {
			t.Fatalf("Expected 2 companies, got %d: %+v", len(trends.TopCompanies), trends.TopCompanies)
		}
		if trends.TopCompanies[0].Company != "Acme" || trends.TopCompanies[0].Count != 2 {
			t.Errorf("Expected ('Acme', 2) first, got ('%s', %d)",
				trends.TopCompanies[0].Company, trends.TopCompanies[0].Count)
		}
		if trends.TotalAnalyzed != 4 {
			t.Errorf("Expected 4 analyzed including the company-less posting, got %d", trends.TotalAnalyzed)
		}
	})

	t.Run("top lists cap at ten", func(t *testing.T) {
		var jobs []types.JobPosting
		for i := 0; i < 12; i++ {
			jobs = append(jobs, types.JobPosting{
				Description: "nothing relevant",
				Company:     fmt.Sprintf("Company %d", i),
			})
		}

		trends := AnalyzeMarketTrends(jobs)

		if len(trends.TopCompanies) != 10 {
			t.Errorf("Expected company list capped at 10, got %d", len(trends.TopCompanies))
		}
		if trends.TotalAnalyzed != 12 {
			t.Errorf("Expected 12 analyzed, got %d", trends.TotalAnalyzed)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		trends := AnalyzeMarketTrends(nil)

		if trends.TotalAnalyzed != 0 {
			t.Errorf("Expected 0 analyzed, got %d", trends.TotalAnalyzed)
		}
		if len(trends.TopSkills) != 0 || len(trends.TopCompanies) != 0 {
			t.Errorf("Expected empty top lists, got %+v / %+v", trends.TopSkills, trends.TopCompanies)
		}
	})
}

func BenchmarkAnalyzeMarketTrends(b *testing.B) {
	jobs := make([]types.JobPosting, 0, 50)
	for i := 0; i < 50; i++ {
		jobs = append(jobs, types.JobPosting{
			Description: "Python, Go, Docker, Kubernetes and AWS experience. PostgreSQL a plus.",
			Company:     fmt.Sprintf("Company %d", i%7),
		})
	}

	for b.Loop() {
		AnalyzeMarketTrends(jobs)
	}
}
