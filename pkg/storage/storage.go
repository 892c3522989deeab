package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("file not found")

// Storage stores generated moodboard images.
type Storage interface {
	// Upload stores a file and returns its storage path.
	Upload(ctx context.Context, fileID uuid.UUID, filename string, data io.Reader) (string, error)

	Download(ctx context.Context, storagePath string) (io.ReadCloser, error)

	Delete(ctx context.Context, storagePath string) error
}

type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

type StorageConfig struct {
	Type         StorageType
	LocalPath    string
	S3Bucket     string
	S3Region     string
	AWSAccessKey string
	AWSSecretKey string
}

func NewStorage(ctx context.Context, cfg StorageConfig) (Storage, error) {
	switch cfg.Type {
	case StorageTypeLocal:
		return NewLocalStorage(cfg.LocalPath)
	case StorageTypeS3:
		return NewS3Storage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// generateStoragePath spreads files over two-character prefixes of their id.
func generateStoragePath(fileID uuid.UUID, filename string) string {
	ext := filepath.Ext(filename)
	baseName := strings.TrimSuffix(filename, ext)
	baseName = strings.NewReplacer(" ", "_", "/", "_", "\\", "_", "..", "_").Replace(baseName)

	id := fileID.String()
	return fmt.Sprintf("%s/%s_%s%s", id[:2], id, baseName, ext)
}

// ContentType guesses an image content type from the file extension.
func ContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
