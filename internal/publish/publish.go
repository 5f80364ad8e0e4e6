// Package publish applies a plan to the bucket: every upload first, then
// every delete.
package publish

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Altinity/site-sync/internal/plan"
	"github.com/Altinity/site-sync/internal/retry"
	"github.com/Altinity/site-sync/internal/storage"
	"github.com/Altinity/site-sync/internal/telemetry"
	"github.com/Altinity/site-sync/structs"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// ErrUploadsFailed is returned, wrapped with the upload errors, when the
// delete phase was skipped.
var ErrUploadsFailed = errors.New("uploads failed, deletions skipped")

type Options struct {
	Prefix            string
	CacheControl      string
	Concurrency       int
	Retries           uint64
	ContinueOnError   bool
	DetectContentType bool
	// Progress logs every object at INFO instead of DEBUG.
	Progress bool
}

type Result struct {
	Uploaded int   `json:"uploaded" yaml:"uploaded"`
	Deleted  int   `json:"deleted" yaml:"deleted"`
	Bytes    int64 `json:"bytes" yaml:"bytes"`
	Failed   int   `json:"failed" yaml:"failed"`
}

type Executor struct {
	store storage.Store
	opts  Options
}

func NewExecutor(store storage.Store, opts Options) *Executor {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}

	return &Executor{
		store: store,
		opts:  opts,
	}
}

type counters struct {
	uploaded atomic.Int64
	deleted  atomic.Int64
	bytes    atomic.Int64
	failed   atomic.Int64
}

func (c *counters) result() *Result {
	return &Result{
		Uploaded: int(c.uploaded.Load()),
		Deleted:  int(c.deleted.Load()),
		Bytes:    c.bytes.Load(),
		Failed:   int(c.failed.Load()),
	}
}

// Apply uploads every created or updated path, then deletes every removed
// path. Deletions only start once all uploads succeeded, so an interrupted
// run leaves extra objects behind but never misses a needed one.
func (e *Executor) Apply(ctx context.Context, p *plan.Plan, files map[string]*structs.LocalFile) (*Result, error) {
	c := &counters{}

	uploads := p.Uploads()
	for _, path := range uploads {
		if _, ok := files[path]; !ok {
			return c.result(), fmt.Errorf("no local file for planned upload %s", path)
		}
	}

	if err := e.run(ctx, uploads, func(ctx context.Context, path string) error {
		return e.upload(ctx, c, files[path])
	}); err != nil {
		if deletions := p.Delete.Cardinality(); deletions > 0 {
			log.Warn().
				Int("deletions", deletions).
				Msg("Skipping deletions after failed uploads")
		}
		return c.result(), fmt.Errorf("%w: %w", ErrUploadsFailed, err)
	}

	if err := e.run(ctx, p.Deletions(), func(ctx context.Context, path string) error {
		return e.delete(ctx, c, path)
	}); err != nil {
		return c.result(), err
	}

	return c.result(), nil
}

// run executes op for every path with bounded parallelism. Without
// ContinueOnError the first failure cancels the remaining operations.
func (e *Executor) run(ctx context.Context, paths []string, op func(context.Context, string) error) error {
	if len(paths) == 0 {
		return nil
	}

	var (
		merr  error
		mutex sync.Mutex
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Concurrency)

	for _, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			err := op(gctx, path)
			if err == nil {
				return nil
			}

			if !e.opts.ContinueOnError {
				return err
			}

			mutex.Lock()
			merr = multierr.Append(merr, err)
			mutex.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	return merr
}

func (e *Executor) upload(ctx context.Context, c *counters, f *structs.LocalFile) error {
	key := storage.Key(e.opts.Prefix, f.Path)
	meta := Metadata(f, e.opts.CacheControl, e.opts.DetectContentType)
	start := time.Now()

	err := retry.Do(ctx, e.opts.Retries, e.notify("put", key), func() error {
		return e.store.Put(ctx, key, f.Body, meta)
	})
	if err != nil {
		e.failed(ctx, c, "put", key, err)
		return err
	}

	c.uploaded.Add(1)
	c.bytes.Add(f.Size())
	telemetry.ObjectsUploaded.Add(ctx, 1)
	telemetry.UploadedBytes.Add(ctx, f.Size())

	e.progress().
		Str("key", key).
		Str("size", humanize.Bytes(uint64(f.Size()))).
		Str("contentType", meta.ContentType).
		Str("contentEncoding", meta.ContentEncoding).
		Dur("elapsed", time.Since(start)).
		Msg("Uploaded")

	return nil
}

func (e *Executor) delete(ctx context.Context, c *counters, path string) error {
	key := storage.Key(e.opts.Prefix, path)
	start := time.Now()

	err := retry.Do(ctx, e.opts.Retries, e.notify("delete", key), func() error {
		return e.store.Delete(ctx, key)
	})
	if err != nil {
		e.failed(ctx, c, "delete", key, err)
		return err
	}

	c.deleted.Add(1)
	telemetry.ObjectsDeleted.Add(ctx, 1)

	e.progress().
		Str("key", key).
		Dur("elapsed", time.Since(start)).
		Msg("Deleted")

	return nil
}

func (e *Executor) failed(ctx context.Context, c *counters, op string, key string, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}

	c.failed.Add(1)
	telemetry.SyncErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", op),
	))

	log.Error().
		Err(err).
		Str("operation", op).
		Str("key", key).
		Msg("Storage operation failed")
}

func (e *Executor) notify(op string, key string) retry.Notify {
	return func(err error, dur time.Duration) {
		log.Warn().
			Err(err).
			Dur("backoff", dur).
			Str("operation", op).
			Str("key", key).
			Msg("Storage operation failed, retrying")
	}
}

func (e *Executor) progress() *zerolog.Event {
	if e.opts.Progress {
		return log.Info()
	}

	return log.Debug()
}
