package storage

import (
	"context"
	"testing"

	"github.com/MuhamadAgungGumelar/nid-ocr-service/internal/shared/config"
)

func TestNewProvider(t *testing.T) {
	dir := t.TempDir()

	p, err := NewProvider(context.Background(), &config.Config{StorageProvider: "local", UploadDir: dir})
	if err != nil {
		t.Fatalf("NewProvider(local) error = %v", err)
	}
	if p.GetProviderName() != "Local Storage" {
		t.Errorf("provider = %q", p.GetProviderName())
	}

	p, err = NewProvider(context.Background(), &config.Config{StorageProvider: "ftp", UploadDir: dir})
	if err != nil || p.GetProviderName() != "Local Storage" {
		t.Errorf("unknown provider = %v, %v; want local fallback", p, err)
	}

	if _, err := NewProvider(context.Background(), &config.Config{StorageProvider: "s3"}); err == nil {
		t.Error("expected an error for s3 without bucket and region")
	}
}
