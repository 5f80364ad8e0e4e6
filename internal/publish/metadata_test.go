package publish

import (
	"testing"

	"github.com/Altinity/site-sync/structs"
	"github.com/stretchr/testify/assert"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestContentType(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"index.html", "text/html"},
		{"css/site.css", "text/css"},
		{"img/logo.png", "image/png"},
		{"LICENSE", ""},
		{"blob.unknownext", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, ContentType(tt.path))
		})
	}
}

func TestMetadata(t *testing.T) {
	t.Run("Compressed", func(t *testing.T) {
		meta := Metadata(&structs.LocalFile{Path: "index.html", Body: []byte{0x1f, 0x8b}, Encoding: "gzip"}, "no-cache", false)
		assert.Equal(t, structs.Metadata{
			ContentType:          "text/html",
			ContentEncoding:      "gzip",
			CacheControl:         "no-cache",
			ServerSideEncryption: "AES256",
		}, meta)
	})

	t.Run("Unknown without detection", func(t *testing.T) {
		meta := Metadata(&structs.LocalFile{Path: "blob", Body: pngHeader}, "", false)
		assert.Empty(t, meta.ContentType)
		assert.Empty(t, meta.CacheControl)
	})

	t.Run("Unknown with detection", func(t *testing.T) {
		meta := Metadata(&structs.LocalFile{Path: "blob", Body: pngHeader}, "", true)
		assert.Equal(t, "image/png", meta.ContentType)
	})

	t.Run("Detection ignores compressed bodies", func(t *testing.T) {
		meta := Metadata(&structs.LocalFile{Path: "blob", Body: []byte{0x1f, 0x8b, 8}, Encoding: "gzip"}, "", true)
		assert.Empty(t, meta.ContentType)
	})
}
