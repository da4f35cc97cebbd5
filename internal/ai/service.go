package ai

import (
	"context"
	"fmt"

	"jobfit/internal/config"
	"jobfit/internal/errors"
	"jobfit/internal/types"
)

// Service handles resume tailoring through the configured provider
type Service struct {
	Provider AIProvider // Exported for access from server package
	config   *config.OperationAIConfig
	logger   *errors.Logger
}

// newProvider constructs the provider named in the operation config.
func newProvider(cfg *config.OperationAIConfig, operationType string, logger *errors.Logger) (AIProvider, error) {
	switch cfg.Provider {
	case "gemini":
		provider, err := NewGeminiProvider(cfg, operationType, logger)
		if err != nil {
			return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed,
				"Failed to create AI provider", err)
		}
		return provider, nil
	case "template":
		return NewTemplateProvider(logger), nil
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}
}

// NewService creates a new AI service instance with configuration for a specific operation
func NewService(cfg *config.OperationAIConfig, operationType string, logger *errors.Logger) (*Service, error) {
	logger.Debug("Initializing AI service",
		"provider", cfg.Provider,
		"operation_type", operationType,
		"model", cfg.Model,
		"temperature", *cfg.Temperature,
		"timeout", *cfg.Timeout,
		"max_retries", *cfg.MaxRetries,
		"use_system_prompts", *cfg.UseSystemPrompts)

	provider, err := newProvider(cfg, operationType, logger)
	if err != nil {
		return nil, err
	}

	return &Service{
		Provider: provider,
		config:   cfg,
		logger:   logger,
	}, nil
}

// TailorResume runs the configured provider. When the primary provider fails
// and fallbackToTemplate is set, the template provider handles the request so
// the operation still returns a usable result.
func (s *Service) TailorResume(ctx context.Context, input types.TailorResumeInput) (types.TailorResumeOutput, *TokenUsage, error) {
	output, usage, err := s.Provider.TailorResume(ctx, input)
	if err == nil {
		return output, usage, nil
	}

	if !s.config.FallbackToTemplate {
		return output, usage, err
	}
	if _, isTemplate := s.Provider.(*TemplateProvider); isTemplate {
		return output, usage, err
	}

	s.logger.Warn("AI provider failed, falling back to template tailoring",
		"provider", s.config.Provider,
		"error", err.Error())

	return NewTemplateProvider(s.logger).TailorResume(ctx, input)
}

// GetModelInfo returns information about the AI model for health checks
func (s *Service) GetModelInfo(ctx context.Context) any {
	return s.Provider.GetModelInfo(ctx)
}
