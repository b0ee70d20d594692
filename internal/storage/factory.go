package storage

import (
	"fmt"

	"github.com/rudrodip/whatyouwant/internal/config"
)

// NewAssetStore creates an AssetStore from the assets configuration.
func NewAssetStore(cfg *config.AssetsConfig) (AssetStore, error) {
	switch cfg.Store {
	case "", "local":
		return NewLocalStore(cfg.Root)
	case "s3":
		return NewS3Store(&S3Config{
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			UseSSL:    cfg.S3.UseSSL,
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			PublicURL: cfg.S3.PublicURL,
		})
	default:
		return nil, fmt.Errorf("unknown asset store type %q", cfg.Store)
	}
}
