package server

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sync"
	"time"

	"jobfit/internal/config"
	"jobfit/internal/errors"
	"jobfit/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// expiryMetricInterval controls how often the expiry gauge is refreshed.
const expiryMetricInterval = time.Minute

// ReloadCallback is invoked after every reload attempt, successful or not.
type ReloadCallback func(success bool, err error)

// CertificateMetrics is a snapshot of reload bookkeeping for health reporting.
type CertificateMetrics struct {
	ReloadCount        int64
	ReloadSuccessCount int64
	ReloadFailureCount int64
	LastReloadTime     time.Time
	LastReloadSuccess  bool
	LastReloadError    string
}

// CertificateManager owns the TLS material for the server: it loads
// certificates from files or inline content, hands them out during
// handshakes, and reloads them when a watcher reports a change.
type CertificateManager struct {
	mu sync.RWMutex

	serverCert *tls.Certificate
	clientCert *tls.Certificate
	caPool     *x509.CertPool

	serverCertExpiry time.Time
	clientCertExpiry time.Time
	lastReloadTime   time.Time

	fileWatcher  *CertWatcher
	vaultWatcher *VaultWatcher

	config      *config.TLSConfig
	autoReload  *config.AutoReloadConfig
	vaultClient VaultClientInterface

	reloadCallbacks []ReloadCallback
	logger          *errors.Logger
	om              *observability.ObservabilityManager

	reloadCount        int64
	reloadSuccessCount int64
	reloadFailureCount int64
	lastReloadSuccess  bool
	lastReloadError    string
}

// NewCertificateManager wires up a manager; call Start to load certificates
// and begin watching.
func NewCertificateManager(tlsConfig *config.TLSConfig, autoReload *config.AutoReloadConfig, vaultClient VaultClientInterface, om *observability.ObservabilityManager, logger *errors.Logger) *CertificateManager {
	return &CertificateManager{
		config:      tlsConfig,
		autoReload:  autoReload,
		vaultClient: vaultClient,
		logger:      logger,
		om:          om,
	}
}

// Start performs the initial certificate load and starts whichever watchers
// the auto-reload configuration enables.
func (cm *CertificateManager) Start() error {
	if err := cm.loadCertificates(); err != nil {
		return fmt.Errorf("failed to load initial certificates: %w", err)
	}

	cm.StartExpiryMonitoring()

	if err := cm.startFileWatcher(); err != nil {
		return err
	}
	return cm.startVaultWatcher()
}

// startFileWatcher watches certificate files on disk. It is a no-op when the
// watcher is disabled or no file paths are configured.
func (cm *CertificateManager) startFileWatcher() error {
	if cm.autoReload == nil || !cm.autoReload.FileWatcher.Enabled {
		return nil
	}
	if cm.config.CertFile == "" && cm.config.KeyFile == "" && cm.config.CAFile == "" {
		return nil
	}

	watcher, err := NewCertWatcher(
		cm.config.CertFile,
		cm.config.KeyFile,
		cm.config.CAFile,
		cm.autoReload.FileWatcher.DebounceDelay,
		cm.reloadFromWatcher,
		cm.logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	cm.fileWatcher = watcher
	if err := cm.fileWatcher.Start(); err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}

	if cm.logger != nil {
		cm.logger.Info("Certificate file watcher started",
			"cert_file", cm.config.CertFile,
			"key_file", cm.config.KeyFile,
			"ca_file", cm.config.CAFile)
	}
	return nil
}

// startVaultWatcher polls Vault for new certificate versions. Only relevant
// when certificates came in as inline content and a Vault client exists.
func (cm *CertificateManager) startVaultWatcher() error {
	if cm.autoReload == nil || !cm.autoReload.VaultWatcher.Enabled {
		return nil
	}
	if cm.config.CertContent == "" && cm.config.KeyContent == "" && cm.config.CAContent == "" {
		return nil
	}
	if cm.vaultClient == nil {
		if cm.logger != nil {
			cm.logger.Warn("Vault watcher enabled but Vault client is nil")
		}
		return nil
	}

	cm.vaultWatcher = NewVaultWatcher(
		cm.vaultClient,
		cm.autoReload.VaultWatcher.SecretPath,
		cm.autoReload.VaultWatcher.PollInterval,
		cm.applyVaultCertificates,
		cm.logger,
	)
	if err := cm.vaultWatcher.Start(); err != nil {
		return fmt.Errorf("failed to start Vault watcher: %w", err)
	}

	if cm.logger != nil {
		cm.logger.Info("Vault watcher started",
			"secret_path", cm.autoReload.VaultWatcher.SecretPath,
			"poll_interval", cm.autoReload.VaultWatcher.PollInterval)
	}
	return nil
}

// applyVaultCertificates receives fresh certificate content from the Vault
// watcher, swaps it into the config, and reloads.
func (cm *CertificateManager) applyVaultCertificates(data *CertificateData, err error) {
	if err != nil {
		if cm.logger != nil {
			cm.logger.LogError(err, "Failed to fetch new certificate data from Vault")
		}
		return
	}

	cm.mu.Lock()
	if data.CertContent != "" {
		cm.config.CertContent = data.CertContent
	}
	if data.KeyContent != "" {
		cm.config.KeyContent = data.KeyContent
	}
	if data.CAContent != "" {
		cm.config.CAContent = data.CAContent
	}
	cm.mu.Unlock()

	cm.reloadFromWatcher()
}

// Stop shuts down both watchers. The manager itself has no goroutine to stop
// besides the expiry ticker, which dies with the process.
func (cm *CertificateManager) Stop() error {
	if cm.fileWatcher != nil {
		if err := cm.fileWatcher.Stop(); err != nil {
			if cm.logger != nil {
				cm.logger.LogError(err, "Failed to stop file watcher")
			}
			return err
		}
	}
	if cm.vaultWatcher != nil {
		if err := cm.vaultWatcher.Stop(); err != nil {
			if cm.logger != nil {
				cm.logger.LogError(err, "Failed to stop Vault watcher")
			}
			return err
		}
	}
	if cm.logger != nil {
		cm.logger.Info("Certificate manager stopped")
	}
	return nil
}

// GetServerCertificate is plugged into tls.Config.GetCertificate. It refuses
// to serve an expired certificate and kicks off a preemptive reload when the
// renewal window has been entered.
func (cm *CertificateManager) GetServerCertificate(hello *tls.ClientHelloInfo) (*tls.Certificate, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if cm.serverCert == nil {
		return nil, fmt.Errorf("no server certificate available")
	}

	if time.Now().After(cm.serverCertExpiry) {
		if cm.logger != nil {
			cm.logger.LogError(fmt.Errorf("server certificate expired"), "Server certificate expired",
				"expiry", cm.serverCertExpiry,
				"server_name", hello.ServerName)
		}
		return nil, fmt.Errorf("server certificate expired")
	}

	if cm.autoReload != nil && cm.autoReload.PreemptiveRenewal > 0 {
		renewAt := cm.serverCertExpiry.Add(-cm.autoReload.PreemptiveRenewal)
		if time.Now().After(renewAt) {
			go cm.preemptiveRenewal()
		}
	}

	return cm.serverCert, nil
}

// GetClientCertificate returns the client certificate for mutual TLS, or an
// error if none is loaded or it has expired.
func (cm *CertificateManager) GetClientCertificate() (*tls.Certificate, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if cm.clientCert == nil {
		return nil, fmt.Errorf("no client certificate available")
	}
	if time.Now().After(cm.clientCertExpiry) {
		if cm.logger != nil {
			cm.logger.LogError(fmt.Errorf("client certificate expired"), "Client certificate expired", "expiry", cm.clientCertExpiry)
		}
		return nil, fmt.Errorf("client certificate expired")
	}
	return cm.clientCert, nil
}

// GetCACertPool returns the pool used to verify peers in mutual mode.
func (cm *CertificateManager) GetCACertPool() *x509.CertPool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.caPool
}

// VerifyPeerCertificate checks the presented leaf against the current CA
// pool. Used instead of the static VerifyOptions so a CA rotation takes
// effect without a server restart.
func (cm *CertificateManager) VerifyPeerCertificate(rawCerts [][]byte, verifiedChains [][]*x509.Certificate) error {
	if len(rawCerts) == 0 {
		return fmt.Errorf("no peer certificates provided")
	}

	cert, err := x509.ParseCertificate(rawCerts[0])
	if err != nil {
		return fmt.Errorf("failed to parse peer certificate: %w", err)
	}

	pool := cm.GetCACertPool()
	if pool == nil {
		return fmt.Errorf("no CA certificate pool available")
	}

	if _, err := cert.Verify(x509.VerifyOptions{Roots: pool}); err != nil {
		return fmt.Errorf("peer certificate verification failed: %w", err)
	}
	return nil
}

// ReloadCertificates forces a reload outside the watcher paths.
func (cm *CertificateManager) ReloadCertificates() error {
	return cm.loadCertificates()
}

// AddReloadCallback registers a callback for reload outcomes.
func (cm *CertificateManager) AddReloadCallback(callback ReloadCallback) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.reloadCallbacks = append(cm.reloadCallbacks, callback)
}

// CheckExpiry reports the time remaining before the earliest loaded
// certificate expires.
func (cm *CertificateManager) CheckExpiry() (time.Duration, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	var earliest time.Time
	if !cm.serverCertExpiry.IsZero() {
		earliest = cm.serverCertExpiry
	}
	if !cm.clientCertExpiry.IsZero() && (earliest.IsZero() || cm.clientCertExpiry.Before(earliest)) {
		earliest = cm.clientCertExpiry
	}
	if earliest.IsZero() {
		return 0, fmt.Errorf("no certificates loaded")
	}
	return time.Until(earliest), nil
}

// GetMetrics returns a copy of the reload counters.
func (cm *CertificateManager) GetMetrics() *CertificateMetrics {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	return &CertificateMetrics{
		ReloadCount:        cm.reloadCount,
		ReloadSuccessCount: cm.reloadSuccessCount,
		ReloadFailureCount: cm.reloadFailureCount,
		LastReloadTime:     cm.lastReloadTime,
		LastReloadSuccess:  cm.lastReloadSuccess,
		LastReloadError:    cm.lastReloadError,
	}
}

// loadCertificates reads the configured certificate material and swaps it in
// under the write lock, then notifies callbacks.
func (cm *CertificateManager) loadCertificates() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	serverCert, err := cm.readServerCertificate()
	if err != nil {
		return err
	}
	caPool, err := cm.readCAPool()
	if err != nil {
		return err
	}

	cm.serverCert = serverCert
	cm.clientCert = nil
	cm.caPool = caPool
	cm.lastReloadTime = time.Now()

	cm.recordReload(true, nil)
	for _, callback := range cm.reloadCallbacks {
		go callback(true, nil)
	}

	if cm.logger != nil {
		cm.logger.Info("Certificates reloaded successfully",
			"server_cert_expiry", cm.serverCertExpiry,
			"reload_time", cm.lastReloadTime)
	}
	return nil
}

// readServerCertificate loads the key pair from inline content when present
// (the Vault path), otherwise from files. Returns nil when neither source is
// configured, which is valid for TLS mode "disabled".
func (cm *CertificateManager) readServerCertificate() (*tls.Certificate, error) {
	var (
		cert tls.Certificate
		err  error
	)
	switch {
	case cm.config.CertContent != "" && cm.config.KeyContent != "":
		cert, err = tls.X509KeyPair([]byte(cm.config.CertContent), []byte(cm.config.KeyContent))
	case cm.config.CertFile != "" && cm.config.KeyFile != "":
		cert, err = tls.LoadX509KeyPair(cm.config.CertFile, cm.config.KeyFile)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if len(cert.Certificate) > 0 {
		leaf, err := x509.ParseCertificate(cert.Certificate[0])
		if err != nil {
			return nil, fmt.Errorf("failed to parse server certificate: %w", err)
		}
		cm.serverCertExpiry = leaf.NotAfter
	}
	return &cert, nil
}

// readCAPool builds the CA pool for mutual TLS. Modes other than "mutual"
// carry no pool.
func (cm *CertificateManager) readCAPool() (*x509.CertPool, error) {
	if cm.config.Mode != "mutual" {
		return nil, nil
	}

	var (
		pem []byte
		err error
	)
	if cm.config.CAContent != "" {
		pem = []byte(cm.config.CAContent)
	} else if cm.config.CAFile != "" {
		pem, err = os.ReadFile(cm.config.CAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA file: %w", err)
		}
	}
	if len(pem) == 0 {
		return nil, nil
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("failed to parse CA certificate")
	}
	return pool, nil
}

// recordReload updates counters and OTel metrics. Caller holds the lock.
func (cm *CertificateManager) recordReload(success bool, err error) {
	cm.reloadCount++
	if success {
		cm.reloadSuccessCount++
		cm.lastReloadSuccess = true
		cm.lastReloadError = ""
	} else {
		cm.reloadFailureCount++
		cm.lastReloadSuccess = false
		if err != nil {
			cm.lastReloadError = err.Error()
		}
	}
	cm.emitReloadMetric(success, err)
}

// reloadFromWatcher is the entry point for both watchers.
func (cm *CertificateManager) reloadFromWatcher() {
	if cm.logger != nil {
		cm.logger.Info("Certificate reload triggered by watcher")
	}

	err := cm.loadCertificates()
	if err == nil {
		return
	}

	cm.mu.Lock()
	cm.recordReload(false, err)
	cm.mu.Unlock()

	if cm.logger != nil {
		cm.logger.LogError(err, "Failed to reload certificates")
	}

	cm.mu.RLock()
	callbacks := make([]ReloadCallback, len(cm.reloadCallbacks))
	copy(callbacks, cm.reloadCallbacks)
	cm.mu.RUnlock()
	for _, callback := range callbacks {
		go callback(false, err)
	}
}

// preemptiveRenewal re-reads certificate material ahead of expiry. For
// file-based certificates this only picks up whatever an external renewal
// process has already written.
func (cm *CertificateManager) preemptiveRenewal() {
	if cm.logger != nil {
		cm.logger.Info("Triggering preemptive certificate renewal")
	}
	cm.reloadFromWatcher()
}

// emitReloadMetric records the reload outcome and refreshes the expiry gauge.
func (cm *CertificateManager) emitReloadMetric(success bool, err error) {
	if cm.om == nil {
		return
	}
	metrics := cm.om.GetMetrics()
	if metrics == nil {
		return
	}

	ctx := context.Background()
	attrs := []attribute.KeyValue{
		attribute.String("cert_type", "server"),
	}
	if success {
		attrs = append(attrs, attribute.String("status", "success"))
	} else {
		msg := ""
		if err != nil {
			msg = err.Error()
		}
		attrs = append(attrs,
			attribute.String("status", "failure"),
			attribute.String("error", msg))
	}
	metrics.CertReloadCount.Add(ctx, 1, metric.WithAttributes(attrs...))

	cm.refreshExpiryGauge()
}

// refreshExpiryGauge publishes seconds-to-expiry per certificate type.
func (cm *CertificateManager) refreshExpiryGauge() {
	if cm.om == nil {
		return
	}
	metrics := cm.om.GetMetrics()
	if metrics == nil {
		return
	}

	ctx := context.Background()
	now := time.Now()
	if !cm.serverCertExpiry.IsZero() {
		metrics.CertExpiryTime.Record(ctx, cm.serverCertExpiry.Sub(now).Seconds(),
			metric.WithAttributes(attribute.String("cert_type", "server")))
	}
	if !cm.clientCertExpiry.IsZero() {
		metrics.CertExpiryTime.Record(ctx, cm.clientCertExpiry.Sub(now).Seconds(),
			metric.WithAttributes(attribute.String("cert_type", "client")))
	}
}

// StartExpiryMonitoring periodically refreshes the expiry gauge so the metric
// stays current between reloads.
func (cm *CertificateManager) StartExpiryMonitoring() {
	if cm.om == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(expiryMetricInterval)
		defer ticker.Stop()
		for range ticker.C {
			cm.mu.RLock()
			cm.refreshExpiryGauge()
			cm.mu.RUnlock()
		}
	}()

	if cm.logger != nil {
		cm.logger.Info("Certificate expiry monitoring started")
	}
}
