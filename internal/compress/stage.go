package compress

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/Altinity/site-sync/structs"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// WriteStaged writes the normalized bodies under dir, mirroring their
// relative paths. Sources are never touched.
func WriteStaged(fs afero.Fs, dir string, files []*structs.LocalFile) error {
	for _, f := range files {
		dst := filepath.Join(dir, filepath.FromSlash(f.Path))

		if err := fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", path.Dir(f.Path), err)
		}

		if err := afero.WriteFile(fs, dst, f.Body, 0o644); err != nil {
			return fmt.Errorf("failed to stage %s: %w", f.Path, err)
		}
	}

	log.Debug().
		Str("dir", dir).
		Int("files", len(files)).
		Msg("Staged normalized files")

	return nil
}
