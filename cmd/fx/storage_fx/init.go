package storage_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"wedplan/internal/config"
	"wedplan/pkg/storage"
)

var Module = fx.Provide(provideStorage)

func provideStorage(cfg *config.Config, log *zap.Logger) (storage.Storage, error) {
	store, err := storage.NewStorage(context.Background(), storage.StorageConfig{
		Type:         storage.StorageType(cfg.Storage.Type),
		LocalPath:    cfg.Storage.LocalPath,
		S3Bucket:     cfg.Storage.S3Bucket,
		S3Region:     cfg.Storage.S3Region,
		AWSAccessKey: cfg.Storage.AWSAccessKey,
		AWSSecretKey: cfg.Storage.AWSSecretKey,
	})
	if err != nil {
		return nil, err
	}
	log.Info("storage initialized", zap.String("type", cfg.Storage.Type))
	return store, nil
}
