package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"DATABASE_URL", "PORT", "SECRET_KEY", "TOKEN_EXPIRY", "REQUEST_TIMEOUT",
		"ALLOWED_HOSTS", "CORS_ALLOWED_ORIGINS", "MAIL_PROVIDER", "STORAGE_PROVIDER", "EMAIL_CHECK_MODE",
		"EMAIL_CHECK_TIMEOUT", "EMAIL_CHECK_PORT", "MEDIA_ROOT"} {
		t.Setenv(k, "")
	}

	cfg, err := fromEnv("development")
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, insecureSecretKey, cfg.SecretKey)
	assert.Equal(t, 24*time.Hour, cfg.TokenExpiry)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"localhost", "127.0.0.1"}, cfg.AllowedHosts)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.Equal(t, "noop", cfg.Mail.Provider)
	assert.Equal(t, "local", cfg.Storage.Provider)
	assert.Equal(t, "local", cfg.EmailCheck.Mode)
	assert.Equal(t, 5*time.Second, cfg.EmailCheck.Timeout)
	assert.Equal(t, "5000", cfg.EmailCheck.Port)
	assert.Equal(t, "media", cfg.MediaRootPath)
	assert.False(t, cfg.IsProduction())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("ALLOWED_HOSTS", " bodhini.com , .bodhini.com,, ")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://bodhini.com")
	t.Setenv("EMAIL_CHECK_MODE", "remote")
	t.Setenv("EMAIL_CHECK_URL", "http://checker:5000/validate-email")
	t.Setenv("EMAIL_CHECK_TIMEOUT", "2s")
	t.Setenv("STORAGE_PROVIDER", "minio")
	t.Setenv("MINIO_ENDPOINT", "minio:9000")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("CONTACT_RECEIVING_ADDRESS", "inbox@bodhini.com")

	cfg, err := fromEnv("production")
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"bodhini.com", ".bodhini.com"}, cfg.AllowedHosts)
	assert.Equal(t, []string{"https://bodhini.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "remote", cfg.EmailCheck.Mode)
	assert.Equal(t, 2*time.Second, cfg.EmailCheck.Timeout)
	assert.True(t, cfg.Storage.MinIO.UseSSL)
	assert.Equal(t, "inbox@bodhini.com", cfg.Mail.ReceivingAddress)
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		vars    map[string]string
		wantErr string
	}{
		{
			name:    "production without secret",
			env:     "production",
			vars:    map[string]string{"SECRET_KEY": ""},
			wantErr: "SECRET_KEY",
		},
		{
			name:    "bad duration",
			env:     "development",
			vars:    map[string]string{"REQUEST_TIMEOUT": "soon"},
			wantErr: "REQUEST_TIMEOUT",
		},
		{
			name:    "bad boolean",
			env:     "development",
			vars:    map[string]string{"MINIO_USE_SSL": "maybe"},
			wantErr: "MINIO_USE_SSL",
		},
		{
			name:    "unknown checker mode",
			env:     "development",
			vars:    map[string]string{"EMAIL_CHECK_MODE": "dns"},
			wantErr: "EMAIL_CHECK_MODE",
		},
		{
			name:    "minio without endpoint",
			env:     "development",
			vars:    map[string]string{"STORAGE_PROVIDER": "minio", "MINIO_ENDPOINT": ""},
			wantErr: "MINIO_ENDPOINT",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.vars {
				t.Setenv(k, v)
			}
			_, err := fromEnv(tt.env)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
