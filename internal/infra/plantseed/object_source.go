package plantseed

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yanqian/greenguardian/internal/domain/plant"
	"github.com/yanqian/greenguardian/internal/infra/config"
)

const maxSeedBytes = 8 << 20

// ObjectSource reads the seed document from an S3 compatible bucket (R2, MinIO, S3).
type ObjectSource struct {
	client *minio.Client
	bucket string
	key    string
}

// NewObjectSource constructs the source from the object store settings.
func NewObjectSource(cfg config.ObjectStoreConfig) (*ObjectSource, error) {
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("seed bucket is required")
	}
	key := strings.TrimSpace(cfg.Key)
	if key == "" {
		return nil, fmt.Errorf("seed object key is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}
	client, err := minio.New(sanitizeEndpoint(cfg.Endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       !strings.HasPrefix(strings.ToLower(strings.TrimSpace(cfg.Endpoint)), "http://"),
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init seed object client: %w", err)
	}
	return &ObjectSource{client: client, bucket: bucket, key: key}, nil
}

func (s *ObjectSource) Load(ctx context.Context) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get seed object: %w", err)
	}
	defer obj.Close()
	if _, err := obj.Stat(); err != nil {
		return nil, fmt.Errorf("stat seed object: %w", err)
	}
	data, err := io.ReadAll(io.LimitReader(obj, maxSeedBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read seed object: %w", err)
	}
	if len(data) > maxSeedBytes {
		return nil, fmt.Errorf("seed object exceeds %d bytes", maxSeedBytes)
	}
	return data, nil
}

func (s *ObjectSource) Describe() string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.key)
}

// sanitizeEndpoint strips the scheme and path, which minio.New rejects.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	host, _, _ := strings.Cut(raw, "/")
	return host
}

var _ plant.SeedSource = (*ObjectSource)(nil)
