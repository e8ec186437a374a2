package storage

import (
	"context"

	"github.com/rs/zerolog"

	"edge-gateway/internal/model"
)

// Property keys consumed from file-device property bags.
const (
	PropStorageAccessKey = "storage.access_key"
	PropStorageSecretKey = "storage.secret_key"
	PropStorageRegion    = "storage.region"
	PropStorageEndpoint  = "storage.endpoint"
	PropStorageSecure    = "storage.secure"
)

// NewProviderForDevice builds the provider matching the device's connection
// URI scheme, with credentials drawn from its property bag.
func NewProviderForDevice(ctx context.Context, dev *model.Device, logger zerolog.Logger) (Provider, error) {
	path := ParsePath(dev.ConnectionString())
	switch path.Hint {
	case HintS3:
		return NewS3Provider(ctx, &S3Config{
			Region:      dev.Property(PropStorageRegion, "us-east-1"),
			AccessKey:   dev.Property(PropStorageAccessKey, ""),
			SecretKey:   dev.Property(PropStorageSecretKey, ""),
			EndpointURL: dev.Property(PropStorageEndpoint, ""),
		}, logger)
	case HintMinIO:
		return NewMinIOProvider(&MinIOConfig{
			Endpoint:  dev.Property(PropStorageEndpoint, ""),
			AccessKey: dev.Property(PropStorageAccessKey, ""),
			SecretKey: dev.Property(PropStorageSecretKey, ""),
			Region:    dev.Property(PropStorageRegion, ""),
			Secure:    dev.Property(PropStorageSecure, "false") == "true",
		}, logger)
	default:
		return NewLocalProvider(""), nil
	}
}
