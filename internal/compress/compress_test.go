package compress

import (
	"bytes"
	"io"
	"testing"

	"github.com/Altinity/site-sync/structs"
	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressible(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"index.html", true},
		{"css/site.css", true},
		{"js/app.js", true},
		{"data/feed.json", true},
		{"img/logo.svg", true},
		{"img/logo.png", false},
		{"INDEX.HTML", false},
		{"archive.html.bak", false},
		{"README", false},
		{"dir.html/file.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Compressible(tt.path))
		})
	}
}

func TestGzip_Deterministic(t *testing.T) {
	body := []byte("<html><body>hello</body></html>")

	a, err := Gzip(body)
	require.NoError(t, err)
	b, err := Gzip(body)
	require.NoError(t, err)

	assert.Equal(t, a, b)

	zr, err := gzip.NewReader(bytes.NewReader(a))
	require.NoError(t, err)
	defer zr.Close()

	assert.True(t, zr.ModTime.Equal(ModTime))
	assert.Empty(t, zr.Name)

	out, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, body, out)
}

func TestNormalize(t *testing.T) {
	t.Run("Compressible", func(t *testing.T) {
		out, enc, err := Normalize("index.html", []byte("<p>x</p>"))
		require.NoError(t, err)
		assert.Equal(t, Encoding, enc)
		assert.Equal(t, []byte{0x1f, 0x8b}, out[:2])
	})

	t.Run("Passthrough", func(t *testing.T) {
		in := []byte{0x89, 'P', 'N', 'G'}
		out, enc, err := Normalize("logo.png", in)
		require.NoError(t, err)
		assert.Empty(t, enc)
		assert.Equal(t, in, out)
	})
}

func TestWriteStaged(t *testing.T) {
	fs := afero.NewMemMapFs()

	files := []*structs.LocalFile{
		{Path: "index.html", Body: []byte("gz")},
		{Path: "a/b/c.txt", Body: []byte("plain")},
	}

	require.NoError(t, WriteStaged(fs, "/stage", files))

	b, err := afero.ReadFile(fs, "/stage/index.html")
	require.NoError(t, err)
	assert.Equal(t, []byte("gz"), b)

	b, err = afero.ReadFile(fs, "/stage/a/b/c.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("plain"), b)
}
