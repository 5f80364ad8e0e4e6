package sitesync

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Altinity/site-sync/config"
	"github.com/Altinity/site-sync/internal/publish"
	"github.com/Altinity/site-sync/internal/storage"
	"github.com/Altinity/site-sync/internal/telemetry"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

var (
	ErrMissingBucket = errors.New("bucket is required")
	ErrMissingPrefix = errors.New("prefix is required")
	ErrStageInRoot   = errors.New("stage directory must be outside the site root")
)

// Options is the resolved configuration of a single run.
type Options struct {
	Root              string         `json:"root" yaml:"root"`
	Prefix            string         `json:"prefix" yaml:"prefix"`
	CacheControl      string         `json:"cacheControl" yaml:"cacheControl"`
	Exclude           []string       `json:"exclude" yaml:"exclude"`
	Concurrency       int            `json:"concurrency" yaml:"concurrency"`
	Retries           uint64         `json:"retries" yaml:"retries"`
	ContinueOnError   bool           `json:"continueOnError" yaml:"continueOnError"`
	DetectContentType bool           `json:"detectContentType" yaml:"detectContentType"`
	StageDir          string         `json:"stageDir" yaml:"stageDir"`
	DryRun            bool           `json:"dryRun" yaml:"dryRun"`
	Progress          bool           `json:"progress" yaml:"progress"`
	Storage           storage.Config `json:"storage" yaml:"storage"`
}

func OptionsFromConfig() Options {
	return Options{
		Root:              config.PublishRoot.String(),
		Prefix:            config.PublishPrefix.String(),
		CacheControl:      config.PublishCacheControl.String(),
		Exclude:           config.PublishExclude.StringSlice(),
		Concurrency:       config.PublishConcurrency.Int(),
		Retries:           config.PublishRetries.UInt64(),
		ContinueOnError:   config.PublishContinueOnError.Bool(),
		DetectContentType: config.PublishDetectContentType.Bool(),
		StageDir:          config.PublishStageDir.String(),
		DryRun:            config.PublishDryRun.Bool(),
		Progress:          config.LoggingProgress.Bool(),
		Storage: storage.Config{
			Backend:   storage.Backend(config.StorageBackend.String()),
			Bucket:    config.PublishBucket.String(),
			Region:    config.StorageRegion.String(),
			Endpoint:  config.StorageEndpoint.String(),
			AccessKey: config.StorageAccessKey.String(),
			SecretKey: config.StorageSecretKey.String(),
			UseSSL:    config.StorageUseSSL.Bool(),
		},
	}
}

// Validate checks the options and normalizes the prefix.
func (o *Options) Validate() error {
	if o.Storage.Bucket == "" {
		return ErrMissingBucket
	}

	o.Prefix = storage.NormalizePrefix(o.Prefix)
	if o.Prefix == "" {
		return ErrMissingPrefix
	}

	if o.Root == "" {
		o.Root = "."
	}

	if o.StageDir != "" {
		inside, err := within(o.Root, o.StageDir)
		if err != nil {
			return fmt.Errorf("failed to resolve stage dir %s: %w", o.StageDir, err)
		}
		if inside {
			return fmt.Errorf("%w: %s", ErrStageInRoot, o.StageDir)
		}
	}

	if o.Concurrency < 1 {
		o.Concurrency = 1
	}

	return nil
}

// within reports whether dir is root or lies below it. Both paths are made
// absolute first so relative and absolute spellings compare correctly.
func within(root, dir string) (bool, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false, err
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false, err
	}

	rel, err := filepath.Rel(absRoot, absDir)
	if err != nil {
		return false, err
	}

	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)), nil
}

func (o Options) publishOptions() publish.Options {
	return publish.Options{
		Prefix:            o.Prefix,
		CacheControl:      o.CacheControl,
		Concurrency:       o.Concurrency,
		Retries:           o.Retries,
		ContinueOnError:   o.ContinueOnError,
		DetectContentType: o.DetectContentType,
		Progress:          o.Progress,
	}
}

// Run publishes the site on the local filesystem to the configured bucket.
func Run(ctx context.Context, opts Options) (*publish.Result, error) {
	start := time.Now()

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if config.TelemetryEnabled.Bool() {
		shutdown, err := telemetry.Start(ctx)
		if err != nil {
			log.Error().
				Err(err).
				Msg("Failed to start telemetry")
		} else {
			defer func() {
				telemetry.RunDuration.Record(ctx, time.Since(start).Seconds())

				ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
				defer cancel()

				if err := shutdown(ctx); err != nil {
					log.Error().
						Err(err).
						Msg("Failed to stop telemetry")
				}
			}()
		}
	}

	store, err := storage.New(ctx, opts.Storage)
	if err != nil {
		return nil, err
	}

	return Sync(ctx, afero.NewOsFs(), store, opts)
}
