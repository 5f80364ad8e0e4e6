package inventory

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"path/filepath"

	"github.com/Altinity/site-sync/structs"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// Normalizer maps a source body to the body that will be published.
type Normalizer func(path string, body []byte) ([]byte, string, error)

// Fingerprint is the lowercase hex MD5 of body, which is what S3 reports as
// the ETag of a single-part upload.
func Fingerprint(body []byte) string {
	sum := md5.Sum(body)
	return hex.EncodeToString(sum[:])
}

// Load reads, normalizes and fingerprints every path. The first failure
// cancels the rest.
func Load(ctx context.Context, fsys afero.Fs, root string, paths []string, normalize Normalizer, concurrency int) ([]*structs.LocalFile, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	files := make([]*structs.LocalFile, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			src, err := afero.ReadFile(fsys, filepath.Join(root, filepath.FromSlash(p)))
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", p, err)
			}

			body, encoding := src, ""
			if normalize != nil {
				body, encoding, err = normalize(p, src)
				if err != nil {
					return fmt.Errorf("failed to normalize %s: %w", p, err)
				}
			}

			files[i] = &structs.LocalFile{
				Path:        p,
				Body:        body,
				Encoding:    encoding,
				Fingerprint: Fingerprint(body),
				SourceSize:  int64(len(src)),
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return files, nil
}

// Index maps each file's path to the file.
func Index(files []*structs.LocalFile) map[string]*structs.LocalFile {
	m := make(map[string]*structs.LocalFile, len(files))
	for _, f := range files {
		m[f.Path] = f
	}

	return m
}

// Fingerprints maps each file's path to its fingerprint.
func Fingerprints(files []*structs.LocalFile) map[string]string {
	m := make(map[string]string, len(files))
	for _, f := range files {
		m[f.Path] = f.Fingerprint
	}

	return m
}
