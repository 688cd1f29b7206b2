package storage

import (
	"context"
	"fmt"

	"github.com/MuhamadAgungGumelar/nid-ocr-service/internal/shared/config"
	"github.com/rs/zerolog/log"
)

// NewProvider builds the artifact store selected by STORAGE_PROVIDER
func NewProvider(ctx context.Context, cfg *config.Config) (Provider, error) {
	switch cfg.StorageProvider {
	case "local":
		return NewLocalProvider(cfg.UploadDir), nil

	case "s3":
		if cfg.AWSS3Bucket == "" || cfg.AWSRegion == "" {
			return nil, fmt.Errorf("AWS_S3_BUCKET and AWS_REGION are required for s3 storage")
		}
		return NewS3Provider(ctx, cfg.AWSAccessKeyID, cfg.AWSSecretKey, cfg.AWSRegion, cfg.AWSS3Bucket, cfg.AWSS3Prefix)

	default:
		log.Warn().Str("provider", cfg.StorageProvider).Msg("⚠️ Unknown storage provider, defaulting to local")
		return NewLocalProvider(cfg.UploadDir), nil
	}
}
