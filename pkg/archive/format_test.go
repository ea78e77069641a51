package archive

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSniff(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{name: "rar 1.5", data: []byte("Rar!\x1a\x07\x00\xcf\x90"), want: FormatRAR},
		{name: "rar 5", data: []byte("Rar!\x1a\x07\x01\x00\x33"), want: FormatRAR5},
		{name: "7z", data: []byte{'7', 'z', 0xbc, 0xaf, 0x27, 0x1c, 0, 4}, want: Format7z},
		{name: "zip", data: []byte("PK\x03\x04\x14\x00"), want: FormatZip},
		{name: "empty zip", data: []byte("PK\x05\x06\x00\x00"), want: FormatZip},
		{name: "plain text", data: []byte("hello world"), want: FormatUnknown},
		{name: "truncated magic", data: []byte("Rar!"), want: FormatUnknown},
		{name: "empty", data: nil, want: FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sniff(bytes.NewReader(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsValid(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/ok.cbr", buildRar(testEntry{name: "a", data: []byte("a")}))
	writeFile(t, fsys, "/ok.cbz", buildZip(t, testEntry{name: "a", data: []byte("a")}))
	writeFile(t, fsys, "/bad.cbr", []byte("not rar"))
	require.NoError(t, fsys.MkdirAll("/folder.cbr", 0755))

	assert.True(t, IsValid(fsys, "/ok.cbr"))
	assert.True(t, IsValid(fsys, "/ok.cbz"))
	assert.False(t, IsValid(fsys, "/bad.cbr"))
	assert.False(t, IsValid(fsys, "/folder.cbr"))
	assert.False(t, IsValid(fsys, "/missing.cbr"))
}

func TestFormatVersion(t *testing.T) {
	v := FormatVersion()
	assert.Regexp(t, regexp.MustCompile(`^\d+\.\d+\.\d+ \(\d{4}-\d{2}-\d{2}\)$`), v)
	assert.Equal(t, "2.1.2 (2026-02-13)", v)
	assert.Equal(t, v, FormatVersion())
}
