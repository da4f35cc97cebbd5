package server

import (
	"time"

	"jobfit/internal/config"
	jobfitErrors "jobfit/internal/errors"
	"jobfit/internal/types"
)

// AnalyzeRequest represents the request body for the analyze endpoint
type AnalyzeRequest struct {
	JobDescription string                 `json:"jobDescription"`
	Profile        types.CandidateProfile `json:"profile"`
}

// TrendsRequest represents the request body for the trends endpoint
type TrendsRequest struct {
	Jobs []types.JobPosting `json:"jobs"`
}

// RankRequest represents the request body for the rank endpoint.
// MinScore is optional; when omitted the configured scout default applies.
type RankRequest struct {
	Jobs     []types.JobPosting     `json:"jobs"`
	Profile  types.CandidateProfile `json:"profile"`
	MinScore *float64               `json:"minScore,omitempty"`
}

// RankResponse represents the response body for the rank endpoint
type RankResponse struct {
	Jobs []types.RankedJob `json:"jobs"`
}

// TailorRequest represents the request body for the tailor endpoint
type TailorRequest struct {
	BaseResume     string `json:"baseResume"`
	JobDescription string `json:"jobDescription"`
	JobTitle       string `json:"jobTitle,omitempty"`
	Company        string `json:"company,omitempty"`
}

// ProfileRequest represents the request body for the profile endpoint
type ProfileRequest struct {
	ResumeText string `json:"resumeText"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	AppConfig *config.Config

	TLSConfig          config.TLSConfig
	CertificateManager *CertificateManager

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// MaxRequestSize caps request body bytes accepted per request.
	MaxRequestSize int64

	Logger *jobfitErrors.Logger
}

// ServerConfig carries the listener settings NewServer needs.
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, logger *jobfitErrors.Logger) *Server {
	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		TLSConfig:      cfg.TLSConfig,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		Logger:         logger,
	}
}
