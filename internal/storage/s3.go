package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Altinity/site-sync/structs"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog/log"
)

type S3Store struct {
	client *s3.Client
	bucket string
}

func newS3Client(ctx context.Context, cfg Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithHTTPClient(&http.Client{
			Timeout: 300 * time.Second, // Large assets on slow links
		}),
	}

	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// NewS3Store creates a store backed by the AWS SDK.
func NewS3Store(ctx context.Context, cfg Config) (*S3Store, error) {
	client, err := newS3Client(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return NewS3StoreWithClient(client, cfg.Bucket), nil
}

func NewS3StoreWithClient(client *s3.Client, bucket string) *S3Store {
	return &S3Store{
		client: client,
		bucket: bucket,
	}
}

func (s *S3Store) ListPage(ctx context.Context, prefix string, token string) (*Page, error) {
	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(ListPageSize),
	}
	if token != "" {
		input.ContinuationToken = aws.String(token)
	}

	out, err := s.client.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to list objects in bucket %s: %w", s.bucket, err)
	}

	page := &Page{
		Objects:   make([]structs.RemoteObject, 0, len(out.Contents)),
		NextToken: aws.ToString(out.NextContinuationToken),
		Truncated: aws.ToBool(out.IsTruncated),
	}

	for _, obj := range out.Contents {
		page.Objects = append(page.Objects, structs.RemoteObject{
			Key:  aws.ToString(obj.Key),
			ETag: aws.ToString(obj.ETag),
			Size: aws.ToInt64(obj.Size),
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

func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get object %s from bucket %s: %w", key, s.bucket, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}

	return b, nil
}

// Put uploads body in a single request. Multipart uploads are avoided on
// purpose: their ETags are not the MD5 of the content.
func (s *S3Store) Put(ctx context.Context, key string, body []byte, meta structs.Metadata) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
	}

	if meta.ContentType != "" {
		input.ContentType = aws.String(meta.ContentType)
	}
	if meta.ContentEncoding != "" {
		input.ContentEncoding = aws.String(meta.ContentEncoding)
	}
	if meta.CacheControl != "" {
		input.CacheControl = aws.String(meta.CacheControl)
	}
	if meta.ServerSideEncryption != "" {
		input.ServerSideEncryption = types.ServerSideEncryption(meta.ServerSideEncryption)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to put object %s to bucket %s: %w", key, s.bucket, err)
	}

	return nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("failed to delete object %s from bucket %s: %w", key, s.bucket, err)
	}

	return nil
}

var _ Store = (*S3Store)(nil)
