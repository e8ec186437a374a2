package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
)

// S3Config holds the settings for an S3-backed provider.
type S3Config struct {
	Region         string
	AccessKey      string
	SecretKey      string
	SessionToken   string
	EndpointURL    string // for S3-compatible services
	ForcePathStyle bool
}

// S3Provider serves objects from AWS S3 or an S3-compatible endpoint.
type S3Provider struct {
	client *s3.Client
	logger zerolog.Logger
}

// NewS3Provider creates an S3-backed provider.
func NewS3Provider(ctx context.Context, cfg *S3Config, logger zerolog.Logger) (*S3Provider, error) {
	if cfg.Region == "" {
		return nil, fmt.Errorf("region is required")
	}

	cfgOpts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		cfgOpts = append(cfgOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, cfg.SessionToken)))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, cfgOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	return &S3Provider{
		client: client,
		logger: logger.With().Str("component", "s3_storage").Logger(),
	}, nil
}

func (p *S3Provider) Type() string {
	return "s3"
}

func (p *S3Provider) List(ctx context.Context, prefix Path) ([]Object, error) {
	var objects []Object
	paginator := s3.NewListObjectsV2Paginator(p.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(prefix.Bucket),
		Prefix: aws.String(prefix.Key),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", prefix, err)
		}
		for _, item := range page.Contents {
			objects = append(objects, s3Object(prefix.Bucket, item))
		}
	}
	return objects, nil
}

func (p *S3Provider) Open(ctx context.Context, path Path) (io.ReadCloser, error) {
	out, err := p.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(path.Bucket),
		Key:    aws.String(path.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	return out.Body, nil
}

func (p *S3Provider) ReadBytes(ctx context.Context, path Path) ([]byte, error) {
	return readAll(ctx, p, path)
}

func (p *S3Provider) Exists(ctx context.Context, path Path) (bool, error) {
	_, err := p.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(path.Bucket),
		Key:    aws.String(path.Key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("head %s: %w", path, err)
	}
	return true, nil
}

func (p *S3Provider) Stat(ctx context.Context, path Path) (Object, error) {
	out, err := p.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(path.Bucket),
		Key:    aws.String(path.Key),
	})
	if err != nil {
		return Object{}, fmt.Errorf("head %s: %w", path, err)
	}

	obj := Object{
		Path:      path,
		SizeBytes: aws.ToInt64(out.ContentLength),
		ETag:      aws.ToString(out.ETag),
	}
	if out.LastModified != nil {
		obj.LastModified = *out.LastModified
	}
	if out.ContentType != nil {
		obj.ContentType = *out.ContentType
	}
	return obj, nil
}

func (p *S3Provider) Close() error {
	return nil
}

func s3Object(bucket string, item types.Object) Object {
	key := aws.ToString(item.Key)
	obj := Object{
		Path:      Path{Bucket: bucket, Key: key, Raw: "s3://" + bucket + "/" + key, Hint: HintS3},
		SizeBytes: aws.ToInt64(item.Size),
		ETag:      aws.ToString(item.ETag),
	}
	if item.LastModified != nil {
		obj.LastModified = *item.LastModified
	}
	return obj
}
