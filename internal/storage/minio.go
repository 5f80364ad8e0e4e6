package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Altinity/site-sync/structs"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/encrypt"
	"github.com/rs/zerolog/log"
)

// MinioStore talks to S3-compatible endpoints (MinIO, R2, Ceph) through
// minio-go. The low-level Core client is used so listing can be driven by
// explicit continuation tokens.
type MinioStore struct {
	core   *minio.Core
	bucket string
}

func NewMinioStore(cfg Config) (*MinioStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required for the minio backend")
	}

	// minio expects the endpoint without a scheme
	endpoint := strings.TrimPrefix(cfg.Endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimSuffix(endpoint, "/")

	opts := &minio.Options{
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts.Creds = credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	} else {
		opts.Creds = credentials.NewEnvAWS()
	}

	core, err := minio.NewCore(endpoint, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &MinioStore{
		core:   core,
		bucket: cfg.Bucket,
	}, nil
}

func (s *MinioStore) ListPage(ctx context.Context, prefix string, token string) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := s.core.ListObjectsV2(s.bucket, prefix, "", token, "", ListPageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list objects in bucket %s: %w", s.bucket, err)
	}

	page := &Page{
		Objects:   make([]structs.RemoteObject, 0, len(res.Contents)),
		NextToken: res.NextContinuationToken,
		Truncated: res.IsTruncated,
	}

	for _, obj := range res.Contents {
		page.Objects = append(page.Objects, structs.RemoteObject{
			Key:  obj.Key,
			ETag: obj.ETag,
			Size: obj.Size,
		})
	}

	log.Debug().
		Str("bucket", s.bucket).
		Str("prefix", prefix).
		Int("objects", len(page.Objects)).
		Bool("truncated", page.Truncated).
		Msg("Listed page of objects")

	return page, nil
}

func (s *MinioStore) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.core.Client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.wrapError("get", key, err)
	}
	defer obj.Close()

	b, err := io.ReadAll(obj)
	if err != nil {
		return nil, s.wrapError("get", key, err)
	}

	return b, nil
}

func (s *MinioStore) Put(ctx context.Context, key string, body []byte, meta structs.Metadata) error {
	opts := minio.PutObjectOptions{
		ContentType:     meta.ContentType,
		ContentEncoding: meta.ContentEncoding,
		CacheControl:    meta.CacheControl,
		// Single-part uploads keep the ETag equal to the content MD5
		DisableMultipart: true,
	}
	if meta.ServerSideEncryption != "" {
		opts.ServerSideEncryption = encrypt.NewSSE()
	}

	if _, err := s.core.Client.PutObject(ctx, s.bucket, key, bytes.NewReader(body), int64(len(body)), opts); err != nil {
		return s.wrapError("put", key, err)
	}

	return nil
}

func (s *MinioStore) Delete(ctx context.Context, key string) error {
	if err := s.core.Client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return s.wrapError("delete", key, err)
	}

	return nil
}

func (s *MinioStore) wrapError(op string, key string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return fmt.Errorf("%s: %w", key, ErrNotFound)
	}

	return fmt.Errorf("failed to %s object %s in bucket %s: %w", op, key, s.bucket, err)
}

var _ Store = (*MinioStore)(nil)
