package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"jobfit/internal/ai"
)

// Certificate expiry thresholds for health reporting.
const (
	certCriticalThreshold = 24 * time.Hour
	certWarningThreshold  = 7 * 24 * time.Hour
)

// writeJSON encodes v with the given status. Encoding failures fall back to
// a plain 500.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// healthHandler reports service health including the AI backend, circuit
// breakers and TLS certificate state.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	aiStatus := s.checkAIModelsHealth()
	certStatus := s.checkCertificateHealth()

	response := map[string]any{
		"status":           "healthy",
		"service":          "jobfit",
		"version":          s.Version,
		"ai_models":        aiStatus,
		"circuit_breakers": s.checkCircuitBreakerHealth(),
	}
	if certStatus != nil {
		response["certificates"] = certStatus
	}

	statusCode := http.StatusOK
	if healthDegraded(aiStatus, certStatus) {
		response["status"] = "degraded"
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, statusCode, response)
}

// healthDegraded reports whether any AI model or the certificate state is
// unhealthy.
func healthDegraded(aiStatus map[string]any, certStatus map[string]any) bool {
	for _, modelStatus := range aiStatus {
		switch info := modelStatus.(type) {
		case *ai.ModelInfo:
			if !info.Available {
				return true
			}
		case map[string]any:
			if available, ok := info["available"].(bool); ok && !available {
				return true
			}
		}
	}
	if certStatus != nil {
		if healthy, ok := certStatus["healthy"].(bool); ok && !healthy {
			return true
		}
	}
	return false
}

// readyHandler provides a lightweight readiness probe. The scoring engine is
// in-process, so a server that can answer is a server that can score.
func (s *Server) readyHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ready",
		"service": "jobfit",
		"version": s.Version,
	})
}

// checkAIModelsHealth probes the model backing the tailor operation.
func (s *Server) checkAIModelsHealth() map[string]any {
	timeout := s.AppConfig.Observability.HealthCheck.Timeout
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	tailorConfig := s.AppConfig.GetTailorConfig()
	tailorService, err := ai.NewService(&tailorConfig, "tailor", s.Logger)
	if err != nil {
		return map[string]any{"tailor": map[string]any{
			"available": false,
			"error":     fmt.Sprintf("Failed to create tailor service: %v", err),
		}}
	}
	return map[string]any{"tailor": tailorService.GetModelInfo(ctx)}
}

func (s *Server) checkCircuitBreakerHealth() map[string]any {
	tailorConfig := s.AppConfig.GetTailorConfig()
	if _, err := ai.NewService(&tailorConfig, "tailor", s.Logger); err != nil {
		return map[string]any{"tailor": map[string]any{
			"available": false,
			"error":     fmt.Sprintf("Failed to create tailor service: %v", err),
		}}
	}
	return map[string]any{"tailor": map[string]any{
		"available": true,
		"message":   "Circuit breaker integrated with tailor service",
	}}
}

// certExpiryStatus classifies time-to-expiry into a health verdict.
func certExpiryStatus(timeToExpiry time.Duration) (healthy bool, status, message string) {
	switch {
	case timeToExpiry <= 0:
		return false, "expired", "Certificate has expired"
	case timeToExpiry <= certCriticalThreshold:
		return false, "critical", "Certificate expires within 24 hours"
	case timeToExpiry <= certWarningThreshold:
		return true, "warning", "Certificate expires within 7 days"
	default:
		return true, "ok", "Certificate is valid"
	}
}

// checkCertificateHealth reports certificate expiry, auto-reload state and
// reload metrics. Returns nil when no certificate manager is running.
func (s *Server) checkCertificateHealth() map[string]any {
	cm := s.CertificateManager
	if cm == nil {
		return nil
	}

	timeToExpiry, err := cm.CheckExpiry()
	if err != nil {
		return map[string]any{
			"healthy": false,
			"error":   fmt.Sprintf("Failed to check certificate expiry: %v", err),
		}
	}

	healthy, status, message := certExpiryStatus(timeToExpiry)
	certStatus := map[string]any{
		"healthy":              healthy,
		"status":               status,
		"message":              message,
		"time_to_expiry_hours": int(timeToExpiry.Hours()),
		"time_to_expiry":       timeToExpiry.String(),
	}

	certStatus["auto_reload"] = s.autoReloadStatus()

	if metrics := cm.GetMetrics(); metrics != nil {
		certStatus["metrics"] = map[string]any{
			"reload_count":         metrics.ReloadCount,
			"reload_success_count": metrics.ReloadSuccessCount,
			"reload_failure_count": metrics.ReloadFailureCount,
			"last_reload_time":     metrics.LastReloadTime,
			"last_reload_success":  metrics.LastReloadSuccess,
			"last_reload_error":    metrics.LastReloadError,
		}
	}

	return certStatus
}

func (s *Server) autoReloadStatus() map[string]any {
	if !s.TLSConfig.AutoReload.Enabled {
		return map[string]any{"enabled": false}
	}

	status := map[string]any{
		"enabled":               true,
		"file_watcher_enabled":  s.TLSConfig.AutoReload.FileWatcher.Enabled,
		"vault_watcher_enabled": s.TLSConfig.AutoReload.VaultWatcher.Enabled,
	}
	if fw := s.CertificateManager.fileWatcher; fw != nil {
		status["file_watcher_running"] = fw.IsRunning()
		status["watched_files"] = fw.GetWatchedFiles()
	}
	if vw := s.CertificateManager.vaultWatcher; vw != nil {
		status["vault_watcher_status"] = vw.Status()
	}
	return status
}

// parseJSONRequest decodes a JSON request body into v, enforcing the JSON
// content type and surfacing body-size limit violations clearly.
func parseJSONRequest(r *http.Request, v any) error {
	if r.Header.Get("Content-Type") != "application/json" {
		return fmt.Errorf("content-type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}

// writeErrorResponse writes a standardized error payload.
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{Error: error, Message: message})
}
