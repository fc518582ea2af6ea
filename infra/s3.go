package infra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/tnqbao/charcoal-cms/config"
)

const s3Backend = "s3"

type S3Client struct {
	Client     *s3.Client
	Presigner  *s3.PresignClient
	Bucket     string
	PublicBase string
}

func InitS3Client(cfg *config.EnvConfig) *S3Client {
	if cfg.Storage.Bucket == "" {
		panic("S3 bucket is not configured")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Storage.Region),
	}
	if cfg.Storage.AccessKey != "" && cfg.Storage.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		panic(fmt.Sprintf("Failed to load AWS config: %v", err))
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.Storage.UsePathStyle
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
		}
	})

	return &S3Client{
		Client:     client,
		Presigner:  s3.NewPresignClient(client),
		Bucket:     cfg.Storage.Bucket,
		PublicBase: cfg.Storage.PublicBaseURL,
	}
}

func (s *S3Client) PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	if key == "" || contentType == "" {
		return "", fmt.Errorf("key and contentType cannot be empty")
	}

	req, err := s.Presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(ttl))
	RecordObjectStoreOp(s3Backend, "presign_put", err)
	if err != nil {
		return "", fmt.Errorf("failed to presign upload: %w", err)
	}
	return req.URL, nil
}

func (s *S3Client) DeleteObject(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	_, err := s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	RecordObjectStoreOp(s3Backend, "delete", err)
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (s *S3Client) ObjectExists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, fmt.Errorf("key cannot be empty")
	}

	_, err := s.Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			RecordObjectStoreOp(s3Backend, "head", nil)
			return false, nil
		}
		RecordObjectStoreOp(s3Backend, "head", err)
		return false, fmt.Errorf("failed to head object: %w", err)
	}
	RecordObjectStoreOp(s3Backend, "head", nil)
	return true, nil
}

func (s *S3Client) PublicURL(key string) string {
	return publicURL(s.PublicBase, key)
}
