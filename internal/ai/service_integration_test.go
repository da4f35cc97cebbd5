package ai

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"jobfit/internal/config"
	"jobfit/internal/errors"
	"jobfit/internal/types"
)

// Helper functions to create pointers for test values
func timePtr(d time.Duration) *time.Duration { return &d }
func intPtr(i int) *int                      { return &i }
func float32Ptr(f float32) *float32          { return &f }
func boolPtr(b bool) *bool                   { return &b }

var testLogger = errors.NewLogger(slog.LevelDebug)

// TestTailorConfigDerivation verifies that the tailor configuration is derived
// with fallbacks to the global AI configuration.
func TestTailorConfigDerivation(t *testing.T) {
	testConfig := &config.Config{
		AI: config.AIConfig{
			// Global defaults that should be used as fallbacks
			Provider:         "gemini",
			Model:            "global-model",
			Timeout:          60 * time.Second,
			APIKey:           "global-api-key",
			MaxRetries:       5,
			Temperature:      0.9,
			RequestsPerMin:   60,
			UseSystemPrompts: true,

			// Operation-specific configuration that overrides globals
			Tailor: config.OperationAIConfig{
				Model:       "tailor-specific-model",   // Override
				Timeout:     timePtr(90 * time.Second), // Override
				Temperature: float32Ptr(0.3),           // Override
				// APIKey, MaxRetries and RequestsPerMin fall back to globals.
			},
		},
	}

	cfg := testConfig.GetTailorConfig()

	t.Run("Overrides", func(t *testing.T) {
		if cfg.Model != "tailor-specific-model" {
			t.Errorf("Expected Model 'tailor-specific-model', got '%s'", cfg.Model)
		}
		if *cfg.Timeout != 90*time.Second {
			t.Errorf("Expected Timeout 90s, got %v", *cfg.Timeout)
		}
		if *cfg.Temperature != 0.3 {
			t.Errorf("Expected Temperature 0.3, got %f", *cfg.Temperature)
		}
	})

	t.Run("Fallbacks", func(t *testing.T) {
		if cfg.Provider != "gemini" {
			t.Errorf("Expected Provider 'gemini', got '%s'", cfg.Provider)
		}
		if cfg.APIKey != "global-api-key" {
			t.Errorf("Expected APIKey 'global-api-key', got '%s'", cfg.APIKey)
		}
		if *cfg.MaxRetries != 5 {
			t.Errorf("Expected MaxRetries 5, got %d", *cfg.MaxRetries)
		}
		if *cfg.RequestsPerMin != 60 {
			t.Errorf("Expected RequestsPerMin 60, got %d", *cfg.RequestsPerMin)
		}
		if !*cfg.UseSystemPrompts {
			t.Error("Expected UseSystemPrompts to fall back to true")
		}
	})

	t.Run("ServiceCreation", func(t *testing.T) {
		_, err := NewService(&cfg, "tailor", testLogger)
		if err != nil {
			// We expect an error due to the dummy API key, but not a panic.
			// This confirms the factory function can consume the derived config.
			t.Logf("Received expected error when creating service with test key: %v", err)
		}
	})
}

func TestCircuitBreakerIntegrationWithServices(t *testing.T) {
	// Create a service with specific circuit breaker config
	testOpConfig := &config.OperationAIConfig{
		Provider:         "gemini",
		Model:            "test-model",
		Timeout:          timePtr(30 * time.Second),
		APIKey:           "test-key",
		MaxRetries:       intPtr(1),
		Temperature:      float32Ptr(0.5),
		RequestsPerMin:   intPtr(60),
		UseSystemPrompts: boolPtr(true),
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          true,
			MaxRequests:      5,
			Interval:         30 * time.Second,
			Timeout:          45 * time.Second,
			MinRequests:      2,
			FailureThreshold: 0.8,
		},
	}

	service, err := NewService(testOpConfig, "tailor", testLogger)
	if err != nil {
		t.Logf("Received expected error when creating service with test key: %v", err)
	}

	// Verify the service has the correct configuration
	if service.config.CircuitBreaker.MaxRequests != 5 {
		t.Errorf("Expected circuit breaker max requests 5, got %d", service.config.CircuitBreaker.MaxRequests)
	}
	if service.config.CircuitBreaker.FailureThreshold != 0.8 {
		t.Errorf("Expected circuit breaker failure threshold 0.8, got %f", service.config.CircuitBreaker.FailureThreshold)
	}

	// Test that the provider has a circuit breaker
	if geminiProvider, ok := service.Provider.(*GeminiProvider); ok {
		stats := geminiProvider.GetCircuitBreakerStats()

		aiOpsStats, ok := stats["ai_operations"].(map[string]any)
		if !ok {
			t.Fatal("AI operations stats should exist and be a map")
		}
		if name, _ := aiOpsStats["name"].(string); name != "AI-tailor" {
			t.Errorf("Expected circuit breaker name 'AI-tailor', got '%s'", name)
		}

		modelOpsStats, ok := stats["model_operations"].(map[string]any)
		if !ok {
			t.Fatal("Model operations stats should exist and be a map")
		}
		if name, _ := modelOpsStats["name"].(string); name != "AI-Model-tailor" {
			t.Errorf("Expected model circuit breaker name 'AI-Model-tailor', got '%s'", name)
		}

		// Check overall health
		if overallHealthy, _ := stats["overall_healthy"].(bool); !overallHealthy {
			t.Error("Circuit breaker should be healthy initially")
		}
	} else {
		t.Fatal("Service provider is not of type *GeminiProvider")
	}
}

func TestServiceWithTemplateProvider(t *testing.T) {
	cfg := &config.OperationAIConfig{
		Provider:         "template",
		Model:            "gemini-2.0-flash", // Unused by the template provider
		Timeout:          timePtr(60 * time.Second),
		MaxRetries:       intPtr(3),
		Temperature:      float32Ptr(0.7),
		RequestsPerMin:   intPtr(60),
		UseSystemPrompts: boolPtr(true),
	}

	service, err := NewService(cfg, "tailor", testLogger)
	if err != nil {
		t.Fatalf("Template provider should not require credentials: %v", err)
	}
	if _, ok := service.Provider.(*TemplateProvider); !ok {
		t.Fatalf("Expected *TemplateProvider, got %T", service.Provider)
	}

	output, usage, err := service.TailorResume(context.Background(), types.TailorResumeInput{
		BaseResume:     "Python developer. Built APIs with django.",
		JobDescription: "Looking for a python engineer.",
		JobTitle:       "Backend Engineer",
		Company:        "Acme",
	})
	if err != nil {
		t.Fatalf("TailorResume failed: %v", err)
	}
	if usage != nil {
		t.Errorf("Template provider should not report token usage, got %+v", usage)
	}
	if output.TailoredResume == "" {
		t.Error("Expected a non-empty tailored resume")
	}
	if !strings.Contains(output.CoverLetter, "Dear Hiring Manager") {
		t.Error("Cover letter should use the fixed letter template")
	}
}

func TestServiceUnsupportedProvider(t *testing.T) {
	cfg := &config.OperationAIConfig{
		Provider:         "openai",
		Model:            "gpt-4",
		Timeout:          timePtr(60 * time.Second),
		MaxRetries:       intPtr(3),
		Temperature:      float32Ptr(0.7),
		RequestsPerMin:   intPtr(60),
		UseSystemPrompts: boolPtr(true),
	}

	_, err := NewService(cfg, "tailor", testLogger)
	if err == nil {
		t.Fatal("Expected an error for an unsupported provider")
	}
	if !strings.Contains(err.Error(), "Unsupported AI provider") {
		t.Errorf("Unexpected error message: %v", err)
	}
}

// failingProvider simulates a provider whose backend is unreachable
type failingProvider struct{}

func (f *failingProvider) TailorResume(ctx context.Context, input types.TailorResumeInput) (types.TailorResumeOutput, *TokenUsage, error) {
	return types.TailorResumeOutput{}, nil, errors.NewAIError(errors.ErrCodeAIServiceFailed, "provider unreachable", nil)
}

func (f *failingProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	return &ModelInfo{Name: "failing", Available: false}
}

func (f *failingProvider) Close() error { return nil }

func TestServiceFallbackToTemplate(t *testing.T) {
	input := types.TailorResumeInput{
		BaseResume:     "Go developer with docker experience.",
		JobDescription: "We need go and kubernetes skills.",
		JobTitle:       "Platform Engineer",
		Company:        "Acme",
	}

	t.Run("FallbackEnabled", func(t *testing.T) {
		service := &Service{
			Provider: &failingProvider{},
			config:   &config.OperationAIConfig{Provider: "gemini", FallbackToTemplate: true},
			logger:   testLogger,
		}

		output, usage, err := service.TailorResume(context.Background(), input)
		if err != nil {
			t.Fatalf("Expected template fallback to succeed, got error: %v", err)
		}
		if usage != nil {
			t.Errorf("Template fallback should not report token usage, got %+v", usage)
		}
		if !strings.Contains(output.CoverLetter, "Platform Engineer") {
			t.Error("Fallback output should come from the template provider")
		}
	})

	t.Run("FallbackDisabled", func(t *testing.T) {
		service := &Service{
			Provider: &failingProvider{},
			config:   &config.OperationAIConfig{Provider: "gemini", FallbackToTemplate: false},
			logger:   testLogger,
		}

		_, _, err := service.TailorResume(context.Background(), input)
		if err == nil {
			t.Fatal("Expected the provider error to surface when fallback is disabled")
		}
	})
}
