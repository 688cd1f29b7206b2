package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalProvider stores artifacts on the local filesystem
type LocalProvider struct {
	basePath string
}

// NewLocalProvider creates a new local file storage provider. The base
// directory is created on first write.
func NewLocalProvider(basePath string) *LocalProvider {
	return &LocalProvider{basePath: basePath}
}

// Save writes data to <basePath>/<name>, replacing any previous file
func (p *LocalProvider) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}

	if err := os.MkdirAll(p.basePath, 0755); err != nil {
		return "", fmt.Errorf("failed to create folder: %w", err)
	}

	filePath := filepath.Join(p.basePath, name)

	// Write to a sibling temp file first so readers never see a partial artifact
	tmp, err := os.CreateTemp(p.basePath, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filePath); err != nil {
		return "", fmt.Errorf("failed to move file into place: %w", err)
	}

	return filePath, nil
}

// GetProviderName returns the provider name
func (p *LocalProvider) GetProviderName() string {
	return "Local Storage"
}
