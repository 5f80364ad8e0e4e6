package sitesync

import (
	"context"
	"time"

	"github.com/Altinity/site-sync/internal/compress"
	"github.com/Altinity/site-sync/internal/inventory"
	"github.com/Altinity/site-sync/internal/plan"
	"github.com/Altinity/site-sync/internal/publish"
	"github.com/Altinity/site-sync/internal/remote"
	"github.com/Altinity/site-sync/internal/storage"
	"github.com/Altinity/site-sync/internal/telemetry"
	"github.com/Altinity/site-sync/structs"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// State is everything known before the first write: the normalized local
// files, the remote listing and the plan reconciling them.
type State struct {
	Files  []*structs.LocalFile
	Index  map[string]*structs.LocalFile
	Remote []structs.RemoteObject
	Plan   *plan.Plan
}

// Prepare scans, normalizes and fingerprints the site, lists the namespace
// and computes the plan. It never writes to the bucket.
func Prepare(ctx context.Context, fsys afero.Fs, lister storage.Lister, opts Options) (*State, error) {
	start := time.Now()

	paths, err := inventory.Scan(fsys, opts.Root, opts.Exclude)
	if err != nil {
		return nil, err
	}

	files, err := inventory.Load(ctx, fsys, opts.Root, paths, compress.Normalize, opts.Concurrency)
	if err != nil {
		return nil, err
	}

	var size int64
	for _, f := range files {
		size += f.Size()
	}

	log.Info().
		Str("root", opts.Root).
		Int("files", len(files)).
		Str("size", humanize.Bytes(uint64(size))).
		Dur("elapsed", time.Since(start)).
		Msg("Compressed local files")

	if opts.StageDir != "" {
		if err := compress.WriteStaged(fsys, opts.StageDir, files); err != nil {
			return nil, err
		}
	}

	objects, err := remote.List(ctx, lister, opts.Prefix, opts.Retries)
	if err != nil {
		return nil, err
	}

	p := plan.Diff(inventory.Fingerprints(files), objects)

	telemetry.LocalFiles.Record(ctx, int64(len(files)))
	telemetry.RemoteObjects.Record(ctx, int64(len(objects)))
	recordPlan(ctx, p)

	return &State{
		Files:  files,
		Index:  inventory.Index(files),
		Remote: objects,
		Plan:   p,
	}, nil
}

// Sync brings the namespace in line with the site. With DryRun set the plan
// is logged and nothing is written.
func Sync(ctx context.Context, fsys afero.Fs, store storage.Store, opts Options) (*publish.Result, error) {
	state, err := Prepare(ctx, fsys, store, opts)
	if err != nil {
		return nil, err
	}

	summary := state.Plan.Summary()

	log.Info().
		Int("new", summary.Create).
		Int("modified", summary.Update).
		Int("deleted", summary.Delete).
		Str("bucket", opts.Storage.Bucket).
		Str("prefix", opts.Prefix).
		Msg("Prepared to upload")

	if opts.DryRun {
		logPlan(state.Plan)
		return &publish.Result{}, nil
	}

	if state.Plan.Empty() {
		log.Info().Msg("Remote namespace is up to date")
		return &publish.Result{}, nil
	}

	start := time.Now()

	res, err := publish.NewExecutor(store, opts.publishOptions()).Apply(ctx, state.Plan, state.Index)

	log.Info().
		Int("uploaded", res.Uploaded).
		Int("deleted", res.Deleted).
		Int("failed", res.Failed).
		Str("transferred", humanize.Bytes(uint64(res.Bytes))).
		Dur("elapsed", time.Since(start)).
		Msg("Finished publishing")

	return res, err
}

func logPlan(p *plan.Plan) {
	for _, path := range p.Creates() {
		log.Info().Str("path", path).Msg("Would upload new file")
	}
	for _, path := range p.Updates() {
		log.Info().Str("path", path).Msg("Would upload modified file")
	}
	for _, path := range p.Deletions() {
		log.Info().Str("path", path).Msg("Would delete file")
	}
}
