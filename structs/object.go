package structs

// LocalFile is a file produced by the site build, after normalization.
type LocalFile struct {
	// Path is slash-separated and relative to the site root.
	Path        string `json:"path" yaml:"path"`
	Body        []byte `json:"-" yaml:"-"`
	Encoding    string `json:"encoding,omitempty" yaml:"encoding,omitempty"`
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
	SourceSize  int64  `json:"sourceSize" yaml:"sourceSize"`
}

func (f *LocalFile) Size() int64 {
	return int64(len(f.Body))
}

func (f *LocalFile) Compressed() bool {
	return f.Encoding != ""
}

type RemoteObject struct {
	Key  string `json:"key" yaml:"key"`
	Path string `json:"path" yaml:"path"`
	ETag string `json:"etag" yaml:"etag"`
	Size int64  `json:"size" yaml:"size"`
}

// Metadata is attached to every uploaded object. Empty fields are omitted
// from the request.
type Metadata struct {
	ContentType          string `json:"contentType,omitempty" yaml:"contentType,omitempty"`
	ContentEncoding      string `json:"contentEncoding,omitempty" yaml:"contentEncoding,omitempty"`
	CacheControl         string `json:"cacheControl,omitempty" yaml:"cacheControl,omitempty"`
	ServerSideEncryption string `json:"serverSideEncryption,omitempty" yaml:"serverSideEncryption,omitempty"`
}
