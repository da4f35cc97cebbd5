package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"jobfit/internal/config"
	"jobfit/internal/errors"
	"jobfit/internal/observability"
	"jobfit/internal/types"
)

// newTestServer builds a server backed by the template provider and a
// disabled observability manager, so handlers run without external services.
func newTestServer(t *testing.T) (*Server, *observability.ObservabilityManager) {
	t.Helper()

	appCfg := &config.Config{
		AI: config.AIConfig{
			Provider: "template",
			Timeout:  30 * time.Second,
		},
		Scout: config.ScoutConfig{
			MinScore: 40.0,
		},
		Observability: config.ObservabilityConfig{
			HealthCheck: config.HealthCheckConfig{
				Timeout: 5 * time.Second,
			},
		},
	}

	om, err := observability.NewObservabilityManager(observability.ObservabilityConfig{Enabled: false}, appCfg)
	if err != nil {
		t.Fatalf("Failed to create observability manager: %v", err)
	}

	srv := NewServer(appCfg, ServerConfig{
		Host:           "127.0.0.1",
		Port:           "8080",
		Version:        "test",
		MaxRequestSize: 1 << 20,
	}, errors.NewLogger(slog.LevelError))

	return srv, om
}

// postJSON marshals body and runs it through the handler as a JSON POST.
func postJSON(t *testing.T, handler http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal request body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	srv, om := newTestServer(t)
	handler := srv.createAnalyzeHandler(om)

	t.Run("ScoresCompatibility", func(t *testing.T) {
		rec := postJSON(t, handler, AnalyzeRequest{
			JobDescription: "Looking for a senior Python developer with Docker experience.",
			Profile: types.CandidateProfile{
				Skills:          []string{"python"},
				ExperienceYears: 6,
				Education:       types.EducationMasters,
			},
		})

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var result types.CompatibilityResult
		decodeResponse(t, rec, &result)

		// One of two required skills matched, experience and education satisfied.
		if result.OverallScore != 75.0 {
			t.Errorf("Expected overall score 75.0, got %v", result.OverallScore)
		}
		if result.SkillScore != 50.0 {
			t.Errorf("Expected skill score 50.0, got %v", result.SkillScore)
		}
		if len(result.MatchedSkills) != 1 || result.MatchedSkills[0] != "python" {
			t.Errorf("Expected matched skills [python], got %v", result.MatchedSkills)
		}
		if len(result.MissingSkills) != 1 || result.MissingSkills[0] != "docker" {
			t.Errorf("Expected missing skills [docker], got %v", result.MissingSkills)
		}
		if result.Requirements.ExperienceYears != 5 {
			t.Errorf("Expected 5 required years from seniority keyword, got %d", result.Requirements.ExperienceYears)
		}
	})

	t.Run("MissingJobDescription", func(t *testing.T) {
		rec := postJSON(t, handler, AnalyzeRequest{
			Profile: types.CandidateProfile{Skills: []string{"python"}},
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", rec.Code)
		}
	})

	t.Run("WrongContentType", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"jobDescription":"x"}`))
		req.Header.Set("Content-Type", "text/plain")
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 for wrong content type, got %d", rec.Code)
		}
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"jobDescription":`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 for invalid JSON, got %d", rec.Code)
		}
	})
}

func TestTrendsEndpoint(t *testing.T) {
	srv, om := newTestServer(t)
	handler := srv.createTrendsHandler(om)

	t.Run("AggregatesBatch", func(t *testing.T) {
		rec := postJSON(t, handler, TrendsRequest{
			Jobs: []types.JobPosting{
				{Title: "Backend Engineer", Company: "Acme", Description: "python and docker"},
				{Title: "Data Engineer", Company: "Globex", Description: "python and sql"},
			},
		})

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var trends types.MarketTrends
		decodeResponse(t, rec, &trends)

		if trends.TotalAnalyzed != 2 {
			t.Errorf("Expected 2 postings analyzed, got %d", trends.TotalAnalyzed)
		}
		if len(trends.TopSkills) != 3 {
			t.Fatalf("Expected 3 distinct skills, got %v", trends.TopSkills)
		}
		if trends.TopSkills[0].Skill != "python" || trends.TopSkills[0].Count != 2 {
			t.Errorf("Expected python counted twice at the top, got %+v", trends.TopSkills[0])
		}
		if len(trends.TopCompanies) != 2 {
			t.Errorf("Expected 2 companies, got %v", trends.TopCompanies)
		}
	})

	t.Run("EmptyBatchIsLegal", func(t *testing.T) {
		rec := postJSON(t, handler, TrendsRequest{Jobs: []types.JobPosting{}})
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200 for empty batch, got %d", rec.Code)
		}

		var trends types.MarketTrends
		decodeResponse(t, rec, &trends)
		if trends.TotalAnalyzed != 0 {
			t.Errorf("Expected 0 postings analyzed, got %d", trends.TotalAnalyzed)
		}
	})

	t.Run("MissingJobs", func(t *testing.T) {
		rec := postJSON(t, handler, map[string]any{})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 when jobs field is absent, got %d", rec.Code)
		}
	})
}

func TestRankEndpoint(t *testing.T) {
	srv, om := newTestServer(t)
	handler := srv.createRankHandler(om)

	jobs := []types.JobPosting{
		{Title: "Platform Engineer", Description: "Needs python and docker daily."},
		{Title: "Python Developer", Description: "General engineering role."},
		{Title: "Accountant", Description: "Bookkeeping."},
	}
	profile := types.CandidateProfile{Skills: []string{"python", "docker"}}

	t.Run("ConfigThresholdApplies", func(t *testing.T) {
		// No explicit minScore, so the configured 40.0 drops the zero-score posting.
		rec := postJSON(t, handler, RankRequest{Jobs: jobs, Profile: profile})

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp RankResponse
		decodeResponse(t, rec, &resp)

		if len(resp.Jobs) != 2 {
			t.Fatalf("Expected 2 ranked jobs, got %d", len(resp.Jobs))
		}
		if resp.Jobs[0].Title != "Platform Engineer" || resp.Jobs[0].RelevanceScore != 100.0 {
			t.Errorf("Expected Platform Engineer at 100.0 first, got %s at %v",
				resp.Jobs[0].Title, resp.Jobs[0].RelevanceScore)
		}
		if resp.Jobs[1].Title != "Python Developer" || resp.Jobs[1].RelevanceScore != 40.0 {
			t.Errorf("Expected Python Developer at 40.0 second, got %s at %v",
				resp.Jobs[1].Title, resp.Jobs[1].RelevanceScore)
		}
	})

	t.Run("ExplicitMinScoreOverrides", func(t *testing.T) {
		minScore := 50.0
		rec := postJSON(t, handler, RankRequest{Jobs: jobs, Profile: profile, MinScore: &minScore})

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", rec.Code)
		}

		var resp RankResponse
		decodeResponse(t, rec, &resp)
		if len(resp.Jobs) != 1 {
			t.Fatalf("Expected 1 ranked job above 50.0, got %d", len(resp.Jobs))
		}
	})

	t.Run("MissingJobs", func(t *testing.T) {
		rec := postJSON(t, handler, map[string]any{"profile": profile})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 when jobs field is absent, got %d", rec.Code)
		}
	})
}

func TestProfileEndpoint(t *testing.T) {
	srv, om := newTestServer(t)
	handler := srv.createProfileHandler(om)

	t.Run("ExtractsProfile", func(t *testing.T) {
		rec := postJSON(t, handler, ProfileRequest{
			ResumeText: "Contact: jane@example.com. Engineer with 7 years of experience using python and kubernetes. MSc in Computer Science.",
		})

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var extracted types.ExtractedProfile
		decodeResponse(t, rec, &extracted)

		if len(extracted.Skills) != 2 || extracted.Skills[0] != "python" || extracted.Skills[1] != "kubernetes" {
			t.Errorf("Expected skills [python kubernetes], got %v", extracted.Skills)
		}
		if extracted.ExperienceYears != 7 {
			t.Errorf("Expected 7 years of experience, got %d", extracted.ExperienceYears)
		}
		if extracted.Education != types.EducationMasters {
			t.Errorf("Expected Masters education, got %s", extracted.Education)
		}
		if extracted.Contact.Email != "jane@example.com" {
			t.Errorf("Expected email jane@example.com, got %q", extracted.Contact.Email)
		}
	})

	t.Run("MissingResumeText", func(t *testing.T) {
		rec := postJSON(t, handler, ProfileRequest{ResumeText: "   "})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", rec.Code)
		}
	})
}

func TestTailorEndpoint(t *testing.T) {
	srv, om := newTestServer(t)
	handler := srv.createTailorHandler(om)

	t.Run("TailorsWithTemplateProvider", func(t *testing.T) {
		rec := postJSON(t, handler, TailorRequest{
			BaseResume:     "Backend engineer who ships.\n\nBuilt services with python and docker at Acme.",
			JobDescription: "Looking for a Python developer with Docker experience.",
			JobTitle:       "Platform Engineer",
			Company:        "Acme",
		})

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var result types.TailorResumeOutput
		decodeResponse(t, rec, &result)

		if result.TailoredResume == "" {
			t.Error("Expected non-empty tailored resume")
		}
		if !strings.Contains(result.CoverLetter, "Platform Engineer") {
			t.Errorf("Expected cover letter to mention the job title, got: %s", result.CoverLetter)
		}
		if len(result.EmphasizedSkills) != 2 {
			t.Errorf("Expected 2 emphasized skills, got %v", result.EmphasizedSkills)
		}
	})

	t.Run("MissingBaseResume", func(t *testing.T) {
		rec := postJSON(t, handler, TailorRequest{JobDescription: "Python role."})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", rec.Code)
		}
	})

	t.Run("OversizedBaseResume", func(t *testing.T) {
		small, om := newTestServer(t)
		small.MaxRequestSize = 1024
		smallHandler := small.createTailorHandler(om)

		rec := postJSON(t, smallHandler, TailorRequest{
			BaseResume:     strings.Repeat("a", 600),
			JobDescription: "Python role.",
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 for oversized resume, got %d", rec.Code)
		}

		var errResp ErrorResponse
		decodeResponse(t, rec, &errResp)
		if errResp.Error != "Base resume too large" {
			t.Errorf("Expected size limit error, got %q", errResp.Error)
		}
	})
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	t.Run("HealthyWithTemplateProvider", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		srv.healthHandler(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var response map[string]any
		decodeResponse(t, rec, &response)
		if response["status"] != "healthy" {
			t.Errorf("Expected healthy status, got %v", response["status"])
		}
		if response["service"] != "jobfit" {
			t.Errorf("Expected service jobfit, got %v", response["service"])
		}
	})

	t.Run("MethodNotAllowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/health", nil)
		rec := httptest.NewRecorder()
		srv.healthHandler(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("Expected status 405, got %d", rec.Code)
		}
	})
}

func TestReadyEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()
	srv.readyHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response map[string]any
	decodeResponse(t, rec, &response)
	if response["status"] != "ready" {
		t.Errorf("Expected ready status, got %v", response["status"])
	}
}

func TestServerMiddleware(t *testing.T) {
	srv, _ := newTestServer(t)

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("CORSPreflight", func(t *testing.T) {
		handler := srv.corsMiddleware(okHandler)
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/analyze", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Errorf("Expected status 204 for preflight, got %d", rec.Code)
		}
		if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Errorf("Expected CORS origin header, got %q", rec.Header().Get("Access-Control-Allow-Origin"))
		}
	})

	t.Run("SecurityHeaders", func(t *testing.T) {
		handler := srv.securityHeadersMiddleware(okHandler)
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
			t.Errorf("Expected nosniff header, got %q", rec.Header().Get("X-Content-Type-Options"))
		}
		if rec.Header().Get("X-Frame-Options") != "DENY" {
			t.Errorf("Expected frame options DENY, got %q", rec.Header().Get("X-Frame-Options"))
		}
	})

	t.Run("RequestIDAssigned", func(t *testing.T) {
		handler := srv.requestLoggingMiddleware(okHandler)
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Header().Get("X-Request-ID") == "" {
			t.Error("Expected X-Request-ID header to be set")
		}
	})

	t.Run("RecoversFromPanic", func(t *testing.T) {
		panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("handler exploded")
		})
		handler := srv.recoveryMiddleware(panicking)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("Expected status 500 after panic, got %d", rec.Code)
		}

		var errResp ErrorResponse
		decodeResponse(t, rec, &errResp)
		if errResp.Error != "Internal server error" {
			t.Errorf("Expected internal server error body, got %q", errResp.Error)
		}
	})
}
