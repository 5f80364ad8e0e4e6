// Package compress turns text assets into byte-identical gzip streams so that
// rebuilding unchanged content never changes its fingerprint.
package compress

import (
	"bytes"
	"fmt"
	"path"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/klauspost/compress/gzip"
)

// Encoding is the Content-Encoding value for normalized bodies.
const Encoding = "gzip"

// ModTime is written into every gzip header in place of the file's mtime.
var ModTime = time.Date(2014, time.March, 19, 0, 0, 0, 0, time.UTC)

// Extensions are matched case-sensitively.
var Extensions = mapset.NewThreadUnsafeSet(".html", ".css", ".js", ".json", ".svg")

func Compressible(p string) bool {
	return Extensions.Contains(path.Ext(p))
}

// Gzip compresses body at the best compression level with a fixed header.
func Gzip(body []byte) ([]byte, error) {
	var buf bytes.Buffer

	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, err
	}

	zw.Name = ""
	zw.ModTime = ModTime

	if _, err := zw.Write(body); err != nil {
		return nil, fmt.Errorf("failed to compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress: %w", err)
	}

	return buf.Bytes(), nil
}

// Normalize returns the body that should be published for p together with its
// content encoding. Non-compressible bodies are returned unchanged.
func Normalize(p string, body []byte) ([]byte, string, error) {
	if !Compressible(p) {
		return body, "", nil
	}

	out, err := Gzip(body)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", p, err)
	}

	return out, Encoding, nil
}
