package server

import (
	"fmt"
	"sync"
	"time"

	"jobfit/internal/config"
	"jobfit/internal/errors"
)

// VaultClientInterface is the subset of Vault operations the server needs.
type VaultClientInterface interface {
	GetSecretV2(path string) (*config.VaultSecret, error)
	GetStringSecret(path, key string) (string, error)
	GetStringSliceSecret(path, key string) ([]string, error)
}

// CertificateData holds PEM material fetched from a Vault secret.
type CertificateData struct {
	CertContent string
	KeyContent  string
	CAContent   string
}

// VaultReloadCallback receives freshly fetched certificate data, or the error
// that prevented fetching it.
type VaultReloadCallback func(data *CertificateData, err error)

// VaultWatcher polls a KV v2 secret and fires the reload callback whenever
// the secret version advances. Lease renewal is out of scope; version polling
// covers both static and Vault-issued certificates.
type VaultWatcher struct {
	mu sync.RWMutex

	client         VaultClientInterface
	secretPath     string
	pollInterval   time.Duration
	reloadCallback VaultReloadCallback
	logger         *errors.Logger

	stopChan    chan struct{}
	running     bool
	lastVersion int64
}

// NewVaultWatcher creates a watcher. Call Start to begin polling.
func NewVaultWatcher(client VaultClientInterface, secretPath string, pollInterval time.Duration, reloadCallback VaultReloadCallback, logger *errors.Logger) *VaultWatcher {
	return &VaultWatcher{
		client:         client,
		secretPath:     secretPath,
		pollInterval:   pollInterval,
		reloadCallback: reloadCallback,
		logger:         logger,
		stopChan:       make(chan struct{}),
	}
}

// Start launches the polling goroutine.
func (vw *VaultWatcher) Start() error {
	vw.mu.Lock()
	defer vw.mu.Unlock()
	if vw.running {
		return fmt.Errorf("vault watcher is already running")
	}
	vw.running = true
	go vw.pollLoop()
	vw.logInfo("Vault watcher started", "secret_path", vw.secretPath, "poll_interval", vw.pollInterval)
	return nil
}

// Stop terminates the polling goroutine. Safe to call when not running.
func (vw *VaultWatcher) Stop() error {
	vw.mu.Lock()
	defer vw.mu.Unlock()
	if !vw.running {
		return nil
	}
	close(vw.stopChan)
	vw.running = false
	vw.logInfo("Vault watcher stopped")
	return nil
}

func (vw *VaultWatcher) pollLoop() {
	ticker := time.NewTicker(vw.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			vw.pollOnce()
		case <-vw.stopChan:
			return
		}
	}
}

// pollOnce performs one version check and, when the secret advanced, fetches
// the new material and hands it to the callback.
func (vw *VaultWatcher) pollOnce() {
	changed, err := vw.checkForUpdates()
	if err != nil {
		if vw.logger != nil {
			vw.logger.LogError(err, "Failed to check Vault for updates")
		}
		return
	}
	if !changed {
		return
	}

	vw.logInfo("Vault secret changed, fetching new certificate data...")
	data, err := vw.fetchNewCertsFromVault()
	if err != nil {
		if vw.logger != nil {
			vw.logger.LogError(err, "Failed to fetch new certificate data from Vault")
		}
		vw.reloadCallback(nil, err)
		return
	}
	vw.logInfo("New certificate data fetched from Vault, triggering reload")
	vw.reloadCallback(data, nil)
}

// checkForUpdates reports whether the secret version moved past the last one
// seen, advancing the recorded version when it did.
func (vw *VaultWatcher) checkForUpdates() (bool, error) {
	secret, err := vw.client.GetSecretV2(vw.secretPath)
	if err != nil {
		return false, fmt.Errorf("failed to read secret: %w", err)
	}
	if secret.Version <= vw.lastVersion {
		return false, nil
	}
	vw.lastVersion = secret.Version
	return true, nil
}

func (vw *VaultWatcher) fetchNewCertsFromVault() (*CertificateData, error) {
	secret, err := vw.client.GetSecretV2(vw.secretPath)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch new TLS data from vault: %w", err)
	}

	data := &CertificateData{}
	fields := map[string]*string{
		"cert": &data.CertContent,
		"key":  &data.KeyContent,
		"ca":   &data.CAContent,
	}
	for key, dst := range fields {
		if value, ok := secret.Data[key].(string); ok {
			*dst = value
		}
	}
	return data, nil
}

func (vw *VaultWatcher) logInfo(msg string, args ...any) {
	if vw.logger != nil {
		vw.logger.Info(msg, args...)
	}
}

// Status reports watcher state for the health endpoint.
func (vw *VaultWatcher) Status() map[string]any {
	vw.mu.RLock()
	defer vw.mu.RUnlock()
	return map[string]any{
		"running":       vw.running,
		"poll_interval": vw.pollInterval.String(),
		"secret_path":   vw.secretPath,
		"last_version":  vw.lastVersion,
	}
}
