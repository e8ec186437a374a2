package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

// MinIOConfig holds the settings for a MinIO-backed provider.
type MinIOConfig struct {
	Endpoint  string // host:port
	AccessKey string
	SecretKey string
	Token     string
	Region    string
	Secure    bool
}

// MinIOProvider serves objects from a MinIO deployment.
type MinIOProvider struct {
	client *minio.Client
	logger zerolog.Logger
}

// NewMinIOProvider creates a MinIO-backed provider.
func NewMinIOProvider(cfg *MinIOConfig, logger zerolog.Logger) (*MinIOProvider, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("access key and secret key are required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, cfg.Token),
		Secure: cfg.Secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create MinIO client: %w", err)
	}

	return &MinIOProvider{
		client: client,
		logger: logger.With().Str("component", "minio_storage").Logger(),
	}, nil
}

func (p *MinIOProvider) Type() string {
	return "minio"
}

func (p *MinIOProvider) List(ctx context.Context, prefix Path) ([]Object, error) {
	var objects []Object
	for item := range p.client.ListObjects(ctx, prefix.Bucket, minio.ListObjectsOptions{
		Prefix:    prefix.Key,
		Recursive: true,
	}) {
		if item.Err != nil {
			return nil, fmt.Errorf("list %s: %w", prefix, item.Err)
		}
		objects = append(objects, minioObject(prefix.Bucket, item))
	}
	return objects, nil
}

func (p *MinIOProvider) Open(ctx context.Context, path Path) (io.ReadCloser, error) {
	obj, err := p.client.GetObject(ctx, path.Bucket, path.Key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	return obj, nil
}

func (p *MinIOProvider) ReadBytes(ctx context.Context, path Path) ([]byte, error) {
	return readAll(ctx, p, path)
}

func (p *MinIOProvider) Exists(ctx context.Context, path Path) (bool, error) {
	_, err := p.client.StatObject(ctx, path.Bucket, path.Key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	return true, nil
}

func (p *MinIOProvider) Stat(ctx context.Context, path Path) (Object, error) {
	info, err := p.client.StatObject(ctx, path.Bucket, path.Key, minio.StatObjectOptions{})
	if err != nil {
		return Object{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return Object{
		Path:         path,
		SizeBytes:    info.Size,
		LastModified: info.LastModified,
		ContentType:  info.ContentType,
		ETag:         info.ETag,
	}, nil
}

func (p *MinIOProvider) Close() error {
	return nil
}

func minioObject(bucket string, info minio.ObjectInfo) Object {
	return Object{
		Path:         Path{Bucket: bucket, Key: info.Key, Raw: "minio://" + bucket + "/" + info.Key, Hint: HintMinIO},
		SizeBytes:    info.Size,
		LastModified: info.LastModified,
		ContentType:  info.ContentType,
		ETag:         info.ETag,
	}
}
