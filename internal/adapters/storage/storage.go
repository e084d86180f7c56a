// Package storage persists uploaded files on the local filesystem or in an S3-compatible bucket.
package storage

import (
	"fmt"
	"log/slog"
	"path"
	"strings"

	"bodhini/internal/domain"
)

// MinIOConfig holds connection settings for a MinIO or S3-compatible endpoint.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Config selects and configures the storage backend.
type Config struct {
	Provider  string
	LocalRoot string
	MinIO     MinIOConfig
}

// New returns the FileStorage for config.Provider. "local" or empty stores under LocalRoot.
func New(config Config, logger *slog.Logger) (domain.FileStorage, error) {
	switch config.Provider {
	case "minio":
		return NewMinIOStorage(config.MinIO)
	case "local", "":
		return NewLocalStorage(config.LocalRoot)
	default:
		logger.Warn("unknown storage provider, using local", "provider", config.Provider)
		return NewLocalStorage(config.LocalRoot)
	}
}

// cleanKey normalizes a storage key and rejects keys that escape the root.
func cleanKey(key string) (string, error) {
	k := path.Clean(strings.ReplaceAll(key, "\\", "/"))
	if k == "." || k == ".." || path.IsAbs(k) || strings.HasPrefix(k, "../") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return k, nil
}
