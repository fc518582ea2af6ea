package infra

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/minio/madmin-go/v3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/tnqbao/charcoal-cms/config"
)

const minioBackend = "minio"

type MinioClient struct {
	Admin      *madmin.AdminClient
	Client     *minio.Client
	Endpoint   string
	Bucket     string
	PublicBase string
}

func InitMinioClient(cfg *config.EnvConfig) *MinioClient {
	endpoint := cfg.Storage.Endpoint
	if endpoint == "" {
		panic("MinIO endpoint is not configured")
	}

	accessKey := cfg.Storage.AccessKey
	if accessKey == "" {
		panic("MinIO access key is not configured")
	}

	secretKey := cfg.Storage.SecretKey
	if secretKey == "" {
		panic("MinIO secret key is not configured")
	}

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: cfg.Storage.UseSSL,
		Region: cfg.Storage.Region,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize MinIO client: %v", err))
	}

	client := &MinioClient{
		Client:     minioClient,
		Endpoint:   endpoint,
		Bucket:     cfg.Storage.Bucket,
		PublicBase: cfg.Storage.PublicBaseURL,
	}

	// Usage stats need root credentials; the data plane works without them.
	if cfg.Minio.RootUser != "" && cfg.Minio.RootPassword != "" {
		madminClient, err := madmin.New(endpoint, cfg.Minio.RootUser, cfg.Minio.RootPassword, cfg.Storage.UseSSL)
		if err != nil {
			panic(fmt.Sprintf("Failed to initialize MinIO admin client: %v", err))
		}
		client.Admin = madminClient
	}

	return client
}

// EnsureBucket creates the media bucket if needed and opens the asset prefixes for anonymous reads.
func (m *MinioClient) EnsureBucket(ctx context.Context, region string, publicPrefixes []string) error {
	exists, err := m.Client.BucketExists(ctx, m.Bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := m.Client.MakeBucket(ctx, m.Bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	if len(publicPrefixes) == 0 {
		return nil
	}
	resources := make([]string, 0, len(publicPrefixes))
	for _, prefix := range publicPrefixes {
		resources = append(resources, fmt.Sprintf(`"arn:aws:s3:::%s/%s/*"`, m.Bucket, strings.Trim(prefix, "/")))
	}
	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [{
			"Effect": "Allow",
			"Principal": {"AWS": ["*"]},
			"Action": ["s3:GetObject"],
			"Resource": [%s]
		}]
	}`, strings.Join(resources, ","))

	if err := m.Client.SetBucketPolicy(ctx, m.Bucket, policy); err != nil {
		return fmt.Errorf("failed to set bucket policy: %w", err)
	}
	return nil
}

// PresignPut signs a PUT for key. The Content-Type header is part of the signature,
// so the client must send exactly contentType.
func (m *MinioClient) PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	if key == "" || contentType == "" {
		return "", fmt.Errorf("key and contentType cannot be empty")
	}

	headers := http.Header{}
	headers.Set("Content-Type", contentType)

	u, err := m.Client.PresignHeader(ctx, http.MethodPut, m.Bucket, key, ttl, nil, headers)
	RecordObjectStoreOp(minioBackend, "presign_put", err)
	if err != nil {
		return "", fmt.Errorf("failed to presign upload: %w", err)
	}
	return u.String(), nil
}

func (m *MinioClient) DeleteObject(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	err := m.Client.RemoveObject(ctx, m.Bucket, key, minio.RemoveObjectOptions{})
	RecordObjectStoreOp(minioBackend, "delete", err)
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (m *MinioClient) ObjectExists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, fmt.Errorf("key cannot be empty")
	}

	_, err := m.Client.StatObject(ctx, m.Bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			RecordObjectStoreOp(minioBackend, "stat", nil)
			return false, nil
		}
		RecordObjectStoreOp(minioBackend, "stat", err)
		return false, fmt.Errorf("failed to stat object: %w", err)
	}
	RecordObjectStoreOp(minioBackend, "stat", nil)
	return true, nil
}

func (m *MinioClient) PublicURL(key string) string {
	return publicURL(m.PublicBase, key)
}

func (m *MinioClient) StorageUsage(ctx context.Context) (*StorageUsage, error) {
	if m.Admin == nil {
		return nil, fmt.Errorf("MinIO admin credentials are not configured")
	}

	info, err := m.Admin.DataUsageInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch data usage: %w", err)
	}
	return &StorageUsage{
		Objects:    info.ObjectsTotalCount,
		Bytes:      info.ObjectsTotalSize,
		Buckets:    info.BucketsCount,
		LastUpdate: info.LastUpdate,
	}, nil
}
