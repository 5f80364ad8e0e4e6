package structs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalFile_Size(t *testing.T) {
	f := &LocalFile{Body: []byte("hello"), SourceSize: 11}
	assert.Equal(t, int64(5), f.Size())

	empty := &LocalFile{}
	assert.Equal(t, int64(0), empty.Size())
}

func TestLocalFile_Compressed(t *testing.T) {
	tests := []struct {
		name     string
		encoding string
		expected bool
	}{
		{"Plain", "", false},
		{"Gzip", "gzip", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &LocalFile{Encoding: tt.encoding}
			assert.Equal(t, tt.expected, f.Compressed())
		})
	}
}
