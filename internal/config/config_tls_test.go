package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validateTLS(tls TLSConfig) error {
	c := &Config{Server: ServerConfig{TLS: tls}}
	return c.ValidateTLSConfig()
}

func TestValidateTLSConfigModes(t *testing.T) {
	tests := []struct {
		name        string
		tls         TLSConfig
		expectError bool
		errorMsg    string
	}{
		{
			name: "disabled mode needs nothing",
			tls:  TLSConfig{Mode: "disabled"},
		},
		{
			name: "server mode with files",
			tls: TLSConfig{
				Mode:     "server",
				CertFile: "/etc/certs/server.pem",
				KeyFile:  "/etc/certs/server.key",
			},
		},
		{
			name: "server mode with inline content",
			tls: TLSConfig{
				Mode:        "server",
				CertContent: "cert-pem",
				KeyContent:  "key-pem",
			},
		},
		{
			name: "server mode missing key",
			tls: TLSConfig{
				Mode:     "server",
				CertFile: "/etc/certs/server.pem",
			},
			expectError: true,
			errorMsg:    "certificate and key are required for server mode",
		},
		{
			name: "mutual mode with files",
			tls: TLSConfig{
				Mode:     "mutual",
				CertFile: "/etc/certs/server.pem",
				KeyFile:  "/etc/certs/server.key",
				CAFile:   "/etc/certs/ca.pem",
			},
		},
		{
			name: "mutual mode missing CA",
			tls: TLSConfig{
				Mode:     "mutual",
				CertFile: "/etc/certs/server.pem",
				KeyFile:  "/etc/certs/server.key",
			},
			expectError: true,
			errorMsg:    "CA certificate is required for mutual TLS mode",
		},
		{
			name:        "unknown mode",
			tls:         TLSConfig{Mode: "tls-everywhere"},
			expectError: true,
			errorMsg:    "invalid TLS mode: tls-everywhere",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTLS(tt.tls)
			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTLSConfigDuplicateSources(t *testing.T) {
	tests := []struct {
		name     string
		tls      TLSConfig
		errorMsg string
	}{
		{
			name: "cert from both file and content",
			tls: TLSConfig{
				Mode:        "server",
				CertFile:    "/etc/certs/server.pem",
				CertContent: "cert-pem",
				KeyFile:     "/etc/certs/server.key",
			},
			errorMsg: "cannot specify both certFile and certContent",
		},
		{
			name: "key from both file and content",
			tls: TLSConfig{
				Mode:       "server",
				CertFile:   "/etc/certs/server.pem",
				KeyFile:    "/etc/certs/server.key",
				KeyContent: "key-pem",
			},
			errorMsg: "cannot specify both keyFile and keyContent",
		},
		{
			name: "ca from both file and content",
			tls: TLSConfig{
				Mode:      "mutual",
				CertFile:  "/etc/certs/server.pem",
				KeyFile:   "/etc/certs/server.key",
				CAFile:    "/etc/certs/ca.pem",
				CAContent: "ca-pem",
			},
			errorMsg: "cannot specify both caFile and caContent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTLS(tt.tls)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestValidateClientAuthPolicy(t *testing.T) {
	for _, policy := range []string{"", "require", "request", "verify"} {
		t.Run("policy "+policy, func(t *testing.T) {
			assert.NoError(t, validateClientAuthPolicy(TLSConfig{ClientAuthPolicy: policy}))
		})
	}

	err := validateClientAuthPolicy(TLSConfig{ClientAuthPolicy: "optional"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid clientAuthPolicy: optional")
}

func TestValidateTLSVersion(t *testing.T) {
	for _, version := range []string{"", "1.2", "1.3"} {
		t.Run("version "+version, func(t *testing.T) {
			assert.NoError(t, validateTLSVersion(TLSConfig{MinVersion: version}))
		})
	}

	t.Run("rejected versions", func(t *testing.T) {
		for _, version := range []string{"1.0", "1.1", "2.0", "ssl3"} {
			err := validateTLSVersion(TLSConfig{MinVersion: version})
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "invalid TLS minVersion: "+version)
		}
	})

	t.Run("version checked even when TLS is disabled", func(t *testing.T) {
		err := validateTLS(TLSConfig{Mode: "disabled", MinVersion: "1.1"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid TLS minVersion")
	})
}

func TestValidateTLSConfigMutualWithVault(t *testing.T) {
	// The shape ApplyVaultSecrets produces: inline content, no files.
	err := validateTLS(TLSConfig{
		Mode:             "mutual",
		CertContent:      "cert-pem",
		KeyContent:       "key-pem",
		CAContent:        "ca-pem",
		ClientAuthPolicy: "require",
		MinVersion:       "1.3",
	})
	assert.NoError(t, err)
}
