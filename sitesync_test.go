package sitesync

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Altinity/site-sync/internal/compress"
	"github.com/Altinity/site-sync/internal/inventory"
	"github.com/Altinity/site-sync/internal/storage"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() Options {
	return Options{
		Root:         "/site",
		Prefix:       "docs",
		CacheControl: "max-age=60",
		Concurrency:  2,
		Storage:      storage.Config{Bucket: "bucket"},
	}
}

func writeSite(t *testing.T, fs afero.Fs, files map[string]string) {
	t.Helper()

	for name, body := range files {
		require.NoError(t, afero.WriteFile(fs, filepath.Join("/site", name), []byte(body), 0o644))
	}
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Options)
		wantErr error
		check   func(*testing.T, Options)
	}{
		{
			name:    "Missing bucket",
			modify:  func(o *Options) { o.Storage.Bucket = "" },
			wantErr: ErrMissingBucket,
		},
		{
			name:    "Missing prefix",
			modify:  func(o *Options) { o.Prefix = "" },
			wantErr: ErrMissingPrefix,
		},
		{
			name:    "Slash-only prefix",
			modify:  func(o *Options) { o.Prefix = "/" },
			wantErr: ErrMissingPrefix,
		},
		{
			name:    "Stage dir inside root",
			modify:  func(o *Options) { o.StageDir = "/site/.stage" },
			wantErr: ErrStageInRoot,
		},
		{
			name: "Absolute stage dir inside relative root",
			modify: func(o *Options) {
				o.Root = "_site"
				abs, _ := filepath.Abs(filepath.Join("_site", "gz"))
				o.StageDir = abs
			},
			wantErr: ErrStageInRoot,
		},
		{
			name: "Relative stage dir inside absolute root",
			modify: func(o *Options) {
				abs, _ := filepath.Abs("_site")
				o.Root = abs
				o.StageDir = "_site/gz"
			},
			wantErr: ErrStageInRoot,
		},
		{
			name:   "Prefix is trimmed",
			modify: func(o *Options) { o.Prefix = "/docs/v1/"; o.Concurrency = 0 },
			check: func(t *testing.T, o Options) {
				assert.Equal(t, "docs/v1", o.Prefix)
				assert.Equal(t, 1, o.Concurrency)
			},
		},
		{
			name:   "Stage dir next to root",
			modify: func(o *Options) { o.StageDir = "/site-staged" },
			check: func(t *testing.T, o Options) {
				assert.Equal(t, "/site-staged", o.StageDir)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := testOptions()
			tt.modify(&o)

			err := o.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			tt.check(t, o)
		})
	}
}

func TestSync_Scenario(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	store := storage.NewMemoryStore()
	store.PageSize = 2
	opts := testOptions()

	writeSite(t, fs, map[string]string{
		"index.html":       "<html>home</html>",
		"about/index.html": "<html>about</html>",
		"css/site.css":     "body{}",
		"img/logo.png":     "png",
		".env":             "SECRET=1",
		"a/.hidden/b.txt":  "hidden",
	})

	// Objects outside the namespace must survive
	store.Seed("docs-old/index.html", []byte("old site"))
	store.Seed("docs/stale.html", []byte("stale"))

	t.Run("First run", func(t *testing.T) {
		res, err := Sync(ctx, fs, store, opts)
		require.NoError(t, err)
		assert.Equal(t, 4, res.Uploaded)
		assert.Equal(t, 1, res.Deleted)

		assert.Equal(t, []string{
			"docs-old/index.html",
			"docs/about/index.html",
			"docs/css/site.css",
			"docs/img/logo.png",
			"docs/index.html",
		}, store.Keys())

		meta, ok := store.Metadata("docs/css/site.css")
		require.True(t, ok)
		assert.Equal(t, "gzip", meta.ContentEncoding)
		assert.Equal(t, "text/css", meta.ContentType)
		assert.Equal(t, "max-age=60", meta.CacheControl)
		assert.Equal(t, "AES256", meta.ServerSideEncryption)

		body, err := store.Get(ctx, "docs/index.html")
		require.NoError(t, err)
		expected, err := compress.Gzip([]byte("<html>home</html>"))
		require.NoError(t, err)
		assert.Equal(t, expected, body)
	})

	t.Run("Second run is a no-op", func(t *testing.T) {
		store.ResetCalls()

		res, err := Sync(ctx, fs, store, opts)
		require.NoError(t, err)
		assert.Equal(t, 0, res.Uploaded)
		assert.Equal(t, 0, res.Deleted)

		lists, gets, puts, deletes := store.Calls()
		assert.Equal(t, 2, lists)
		assert.Zero(t, gets+puts+deletes)
	})

	t.Run("Modify and remove", func(t *testing.T) {
		require.NoError(t, afero.WriteFile(fs, "/site/index.html", []byte("<html>home v2</html>"), 0o644))
		require.NoError(t, fs.Remove("/site/img/logo.png"))
		store.ResetCalls()

		state, err := Prepare(ctx, fs, store, opts)
		require.NoError(t, err)
		assert.Equal(t, []string{"index.html"}, state.Plan.Updates())
		assert.Equal(t, []string{"img/logo.png"}, state.Plan.Deletions())
		assert.Empty(t, state.Plan.Creates())

		res, err := Sync(ctx, fs, store, opts)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Uploaded)
		assert.Equal(t, 1, res.Deleted)

		_, _, puts, deletes := store.Calls()
		assert.Equal(t, 1, puts)
		assert.Equal(t, 1, deletes)
	})

	t.Run("Remote mirrors local", func(t *testing.T) {
		state, err := Prepare(ctx, fs, store, opts)
		require.NoError(t, err)
		assert.True(t, state.Plan.Empty())

		for _, obj := range state.Remote {
			f, ok := state.Index[obj.Path]
			require.True(t, ok, obj.Path)
			assert.Equal(t, f.Fingerprint, obj.ETag)
		}
		assert.Len(t, state.Remote, len(state.Files))
	})
}

func TestSync_DryRun(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := storage.NewMemoryStore()
	writeSite(t, fs, map[string]string{"index.html": "<p>x</p>"})
	store.Seed("docs/old.html", []byte("old"))

	opts := testOptions()
	opts.DryRun = true

	res, err := Sync(context.Background(), fs, store, opts)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Uploaded)

	_, _, puts, deletes := store.Calls()
	assert.Zero(t, puts+deletes)
	assert.Equal(t, []string{"docs/old.html"}, store.Keys())
}

func TestSync_MissingRoot(t *testing.T) {
	store := storage.NewMemoryStore()

	_, err := Sync(context.Background(), afero.NewMemMapFs(), store, testOptions())
	assert.Error(t, err)

	lists, _, _, _ := store.Calls()
	assert.Zero(t, lists)
}

func TestPrepare_StageDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeSite(t, fs, map[string]string{
		"index.html": "<p>x</p>",
		"img/a.png":  "png",
	})

	opts := testOptions()
	opts.StageDir = "/staged"

	state, err := Prepare(context.Background(), fs, storage.NewMemoryStore(), opts)
	require.NoError(t, err)

	staged, err := afero.ReadFile(fs, "/staged/index.html")
	require.NoError(t, err)
	assert.Equal(t, state.Index["index.html"].Body, staged)
	assert.Equal(t, inventory.Fingerprint(staged), state.Index["index.html"].Fingerprint)

	// The source stays uncompressed
	src, err := afero.ReadFile(fs, "/site/index.html")
	require.NoError(t, err)
	assert.Equal(t, []byte("<p>x</p>"), src)
}

func TestNewReport(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeSite(t, fs, map[string]string{"b.html": "b", "a.html": "a"})

	store := storage.NewMemoryStore()
	store.Seed("docs/z.html", []byte("z"))

	state, err := Prepare(context.Background(), fs, store, testOptions())
	require.NoError(t, err)

	r := NewReport(state.Plan)
	assert.Equal(t, []string{"a.html", "b.html"}, r.Create)
	assert.Empty(t, r.Update)
	assert.Equal(t, []string{"z.html"}, r.Delete)
	assert.Equal(t, 2, r.Summary.Create)
	assert.Equal(t, 1, r.Summary.Delete)
}
