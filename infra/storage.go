package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/tnqbao/charcoal-cms/config"
)

// ObjectStorage is the gateway in front of the object store. Keys are bucket-relative.
type ObjectStorage interface {
	PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
	DeleteObject(ctx context.Context, key string) error
	ObjectExists(ctx context.Context, key string) (bool, error)
	PublicURL(key string) string
}

// StorageUsage is reported on the dashboard when the backend exposes it.
type StorageUsage struct {
	Objects    uint64    `json:"objects"`
	Bytes      uint64    `json:"bytes"`
	Buckets    uint64    `json:"buckets"`
	LastUpdate time.Time `json:"last_update"`
}

func InitObjectStorage(cfg *config.EnvConfig) (ObjectStorage, *MinioClient) {
	switch cfg.Storage.Backend {
	case "s3":
		return InitS3Client(cfg), nil
	case "minio":
		minio := InitMinioClient(cfg)
		return minio, minio
	default:
		panic(fmt.Sprintf("Unsupported storage backend: %s", cfg.Storage.Backend))
	}
}

func publicURL(base, key string) string {
	if base == "" {
		return "/" + key
	}
	return base + "/" + key
}
