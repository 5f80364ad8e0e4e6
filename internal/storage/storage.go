// Package storage implements the object-storage client used to mirror the
// site: paginated listing, get, put and delete against a single bucket.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/Altinity/site-sync/structs"
)

type Backend string

const (
	S3Backend    Backend = "s3"
	MinioBackend Backend = "minio"
)

// ServerSideEncryption is requested for every uploaded object.
const ServerSideEncryption = "AES256"

// ListPageSize is the number of keys requested per listing call.
const ListPageSize = 1000

var ErrNotFound = errors.New("object not found")

// Page is a single listing response. ETags are passed through as the
// provider reports them, quotes included.
type Page struct {
	Objects   []structs.RemoteObject
	NextToken string
	Truncated bool
}

type Lister interface {
	ListPage(ctx context.Context, prefix string, token string) (*Page, error)
}

type Store interface {
	Lister
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, body []byte, meta structs.Metadata) error
	Delete(ctx context.Context, key string) error
}

// Config holds the connection settings shared by all backends. Credentials
// are optional; when unset the backend's own resolution chain is used.
type Config struct {
	Backend   Backend `json:"backend" yaml:"backend"`
	Bucket    string  `json:"bucket" yaml:"bucket"`
	Region    string  `json:"region" yaml:"region"`
	Endpoint  string  `json:"endpoint" yaml:"endpoint"`
	AccessKey string  `json:"accessKey" yaml:"accessKey"`
	SecretKey string  `json:"-" yaml:"-"`
	UseSSL    bool    `json:"useSSL" yaml:"useSSL"`
}

// New opens a store for the configured backend.
func New(ctx context.Context, cfg Config) (Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	switch cfg.Backend {
	case S3Backend, "":
		s, err := NewS3Store(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case MinioBackend:
		s, err := NewMinioStore(cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}
