package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"jobfit/internal/ai"
	"jobfit/internal/engine"
	"jobfit/internal/observability"
	"jobfit/internal/profile"
	"jobfit/internal/scout"
	"jobfit/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// createAnalyzeHandler wraps the compatibility analysis handler with observability
func (s *Server) createAnalyzeHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("jobfit.api")
		ctx, span := tracer.Start(ctx, "api.analyze")
		defer span.End()

		// Parse request
		var req AnalyzeRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		// Validation
		if strings.TrimSpace(req.JobDescription) == "" {
			err := fmt.Errorf("missing job description")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing job description", "jobDescription field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.Int("request.profile_skills", len(req.Profile.Skills)),
			attribute.String("operation", "analyze"),
		)

		result := engine.AnalyzeCompatibility(req.JobDescription, req.Profile)

		metrics := om.GetMetrics()
		metrics.RecordBusinessMetric(ctx, "compatibility_analyzed", true, om,
			attribute.Int("matched_skills", len(result.MatchedSkills)),
			attribute.Int("missing_skills", len(result.MissingSkills)))
		metrics.RecordCompatibilityScore(ctx, result.OverallScore, om)

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Float64("response.overall_score", result.OverallScore),
			attribute.Int("response.recommendations", len(result.Recommendations)),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createTrendsHandler wraps the market trends handler with observability
func (s *Server) createTrendsHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("jobfit.api")
		ctx, span := tracer.Start(ctx, "api.trends")
		defer span.End()

		var req TrendsRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		// An empty batch is legal, a missing one is not.
		if req.Jobs == nil {
			err := fmt.Errorf("missing jobs")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing jobs", "jobs field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.job_count", len(req.Jobs)),
			attribute.String("operation", "trends"),
		)

		result := engine.AnalyzeMarketTrends(req.Jobs)

		metrics := om.GetMetrics()
		metrics.RecordBusinessMetric(ctx, "trends_analyzed", true, om,
			attribute.Int("total_analyzed", result.TotalAnalyzed))
		metrics.RecordTrendBatchSize(ctx, int64(len(req.Jobs)), om)

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.top_skills", len(result.TopSkills)),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createRankHandler wraps the job ranking handler with observability
func (s *Server) createRankHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("jobfit.api")
		ctx, span := tracer.Start(ctx, "api.rank")
		defer span.End()

		var req RankRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if req.Jobs == nil {
			err := fmt.Errorf("missing jobs")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing jobs", "jobs field is required", http.StatusBadRequest)
			return
		}

		minScore := s.AppConfig.Scout.MinScore
		if req.MinScore != nil {
			minScore = *req.MinScore
		}

		span.SetAttributes(
			attribute.Int("request.job_count", len(req.Jobs)),
			attribute.Float64("request.min_score", minScore),
			attribute.String("operation", "rank"),
		)

		jobs := req.Jobs
		if len(s.AppConfig.Scout.Keywords) > 0 {
			jobs = scout.FilterByKeywords(jobs, s.AppConfig.Scout.Keywords)
		}
		ranked := scout.Rank(jobs, req.Profile, minScore)

		metrics := om.GetMetrics()
		metrics.RecordBusinessMetric(ctx, "jobs_ranked", true, om,
			attribute.Int("input_count", len(req.Jobs)),
			attribute.Int("ranked_count", len(ranked)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.ranked_count", len(ranked)),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(RankResponse{Jobs: ranked}); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createProfileHandler wraps the profile extraction handler with observability
func (s *Server) createProfileHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("jobfit.api")
		ctx, span := tracer.Start(ctx, "api.profile")
		defer span.End()

		var req ProfileRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.ResumeText) == "" {
			err := fmt.Errorf("missing resume text")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing resume text", "resumeText field is required", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.ResumeText)),
			attribute.String("operation", "profile"),
		)

		result := profile.ExtractProfile(req.ResumeText)

		metrics := om.GetMetrics()
		metrics.RecordBusinessMetric(ctx, "profile_extracted", true, om,
			attribute.Int("skills_found", len(result.Skills)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.skills_found", len(result.Skills)),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// createTailorHandler wraps the tailor handler with observability
func (s *Server) createTailorHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("jobfit.api")
		ctx, span := tracer.Start(ctx, "api.tailor")
		defer span.End()

		// Parse request
		var req TailorRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		// Validation
		if strings.TrimSpace(req.BaseResume) == "" {
			err := fmt.Errorf("missing base resume")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing base resume", "baseResume field is required", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.JobDescription) == "" {
			err := fmt.Errorf("missing job description")
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing job description", "jobDescription field is required", http.StatusBadRequest)
			return
		}

		// Size validation
		if len(req.BaseResume) > int(s.MaxRequestSize/2) {
			err := fmt.Errorf("base resume too large: %d chars", len(req.BaseResume))
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Base resume too large", fmt.Sprintf("baseResume exceeds recommended size limit of %d characters", s.MaxRequestSize/2), http.StatusBadRequest)
			return
		}
		if len(req.JobDescription) > int(s.MaxRequestSize/2) {
			err := fmt.Errorf("job description too large: %d chars", len(req.JobDescription))
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Job description too large", fmt.Sprintf("jobDescription exceeds recommended size limit of %d characters", s.MaxRequestSize/2), http.StatusBadRequest)
			return
		}

		// Add request attributes to span
		span.SetAttributes(
			attribute.Int("request.resume_length", len(req.BaseResume)),
			attribute.Int("request.job_length", len(req.JobDescription)),
			attribute.String("operation", "tailor"),
		)

		input := types.TailorResumeInput{
			BaseResume:     req.BaseResume,
			JobDescription: req.JobDescription,
			JobTitle:       req.JobTitle,
			Company:        req.Company,
		}

		// Create AI service for tailor operation
		tailorConfig := s.AppConfig.GetTailorConfig()
		aiService, err := ai.NewService(&tailorConfig, "tailor", s.Logger)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Failed to create AI service", err.Error(), http.StatusInternalServerError)
			return
		}

		// Track AI operation with observability and token usage.
		// Going through the service keeps the template fallback in play.
		metrics := om.GetMetrics()
		var result types.TailorResumeOutput
		err = metrics.TrackAIOperationWithTokens(ctx, "tailor", func(ctx context.Context) *observability.AIOperationResult {
			output, tokenUsage, aiErr := aiService.TailorResume(ctx, input)
			result = output
			return &observability.AIOperationResult{
				Error:      aiErr,
				TokenUsage: (*observability.TokenUsage)(tokenUsage),
			}
		}, om)

		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "ai_processing"))
			metrics.RecordBusinessMetric(ctx, "resume_tailored", false, om,
				attribute.String("error", err.Error()))
			writeErrorResponse(w, "Failed to tailor resume", err.Error(), http.StatusInternalServerError)
			return
		}

		// Record success metrics
		metrics.RecordBusinessMetric(ctx, "resume_tailored", true, om,
			attribute.Int("output.tailored_length", len(result.TailoredResume)),
			attribute.Int("output.emphasized_skills", len(result.EmphasizedSkills)))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("response.tailored_length", len(result.TailoredResume)),
			attribute.Int("response.emphasized_skills", len(result.EmphasizedSkills)),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
