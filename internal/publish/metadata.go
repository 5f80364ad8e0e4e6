package publish

import (
	"mime"
	"path"

	"github.com/Altinity/site-sync/internal/storage"
	"github.com/Altinity/site-sync/structs"
	"github.com/gabriel-vasile/mimetype"
)

// ContentType returns the bare media type registered for the extension of
// p, without parameters, or "" when none is known.
func ContentType(p string) string {
	t := mime.TypeByExtension(path.Ext(p))
	if t == "" {
		return ""
	}

	mediaType, _, err := mime.ParseMediaType(t)
	if err != nil {
		return ""
	}

	return mediaType
}

// Metadata builds the upload metadata for f. Sniffing only applies to bodies
// that were published as-is.
func Metadata(f *structs.LocalFile, cacheControl string, detect bool) structs.Metadata {
	contentType := ContentType(f.Path)
	if contentType == "" && detect && !f.Compressed() && len(f.Body) > 0 {
		mediaType, _, err := mime.ParseMediaType(mimetype.Detect(f.Body).String())
		if err == nil {
			contentType = mediaType
		}
	}

	return structs.Metadata{
		ContentType:          contentType,
		ContentEncoding:      f.Encoding,
		CacheControl:         cacheControl,
		ServerSideEncryption: storage.ServerSideEncryption,
	}
}
