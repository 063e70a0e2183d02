package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/jonwraymond/dailypuzzle/daykey"
)

// MinioConfig configures a MinioStore.
type MinioConfig struct {
	// Endpoint is host[:port] of the server, without scheme.
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string

	// Bucket must already exist.
	Bucket string

	// Prefix for object names. Default: DefaultPrefix
	Prefix string

	// Client overrides the client built from the fields above.
	Client *minio.Client
}

func (c MinioConfig) validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("%w: bucket is required", ErrInvalidConfig)
	}
	if c.Client == nil && c.Endpoint == "" {
		return fmt.Errorf("%w: endpoint is required", ErrInvalidConfig)
	}
	return nil
}

// MinioStore stores puzzles in a MinIO or other S3-compatible bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
	layout Layout
}

// NewMinioStore creates a MinioStore. It does not contact the server;
// use Ping for that.
func NewMinioStore(cfg MinioConfig) (*MinioStore, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	client := cfg.Client
	if client == nil {
		var err error
		client, err = minio.New(cfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: cfg.UseSSL,
			Region: cfg.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}
	}

	return &MinioStore{
		client: client,
		bucket: cfg.Bucket,
		layout: NewLayout(cfg.Prefix),
	}, nil
}

func (m *MinioStore) Exists(ctx context.Context, key daykey.Key) (bool, error) {
	_, err := m.client.StatObject(ctx, m.bucket, m.layout.ObjectName(key), minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if isMinioNotFound(err) {
		return false, nil
	}
	return false, unavailable("exists", err)
}

func (m *MinioStore) Read(ctx context.Context, key daykey.Key) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, m.layout.ObjectName(key), minio.GetObjectOptions{})
	if err != nil {
		return nil, translateMinio("read", key, err)
	}
	defer obj.Close()

	// GetObject is lazy; a missing object surfaces on the first read.
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, translateMinio("read", key, err)
	}
	return data, nil
}

func (m *MinioStore) Write(ctx context.Context, key daykey.Key, data []byte) error {
	_, err := m.client.PutObject(ctx, m.bucket, m.layout.ObjectName(key),
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{
			ContentType:  ContentType,
			UserMetadata: map[string]string{"x-amz-acl": "public-read"},
		})
	if err != nil {
		return unavailable("write", err)
	}
	return nil
}

func (m *MinioStore) List(ctx context.Context) ([]daykey.Key, error) {
	var keys []daykey.Key
	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Prefix:    m.layout.ListPrefix(),
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, unavailable("list", obj.Err)
		}
		if key, ok := m.layout.KeyFromObjectName(obj.Key); ok {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

func (m *MinioStore) Ping(ctx context.Context) error {
	ok, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return unavailable("ping", err)
	}
	if !ok {
		return unavailable("ping", fmt.Errorf("bucket %q does not exist", m.bucket))
	}
	return nil
}

func isMinioNotFound(err error) bool {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NotFound":
		return true
	}
	return false
}

// translateMinio maps a minio error for key onto the store taxonomy.
func translateMinio(op string, key daykey.Key, err error) error {
	if isMinioNotFound(err) {
		return notFound(key)
	}
	if errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	return unavailable(op, err)
}

// Ensure MinioStore implements Store
var _ Store = (*MinioStore)(nil)
