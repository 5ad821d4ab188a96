package fileutil

import (
	"bytes"
	"os"
	fp "path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyLines(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"", ""},
		{"one", "one\n"},
		{"one\ntwo\n", "one\ntwo\n"},
		{"one\r\ntwo", "one\ntwo\n"},
		{"\n\n", "\n\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		require.NoError(t, CopyLines(&buf, strings.NewReader(tt.in)))
		assert.Equal(t, tt.out, buf.String(), "%q", tt.in)
	}
}

func TestCopyFiles(t *testing.T) {
	dir := t.TempDir()
	src := fp.Join(dir, "README.md")
	dst := fp.Join(dir, "new_file.txt")
	require.NoError(t, os.WriteFile(src, []byte("# magma\n\nblock cipher\n"), 0644))

	require.NoError(t, CopyFiles([]string{src, dst}, nil, nil))
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "# magma\n\nblock cipher\n", string(got))

	assert.Error(t, CopyFiles([]string{fp.Join(dir, "missing"), dst}, nil, nil))
}

func TestCopyFilesStdio(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, CopyFiles(nil, strings.NewReader("a\nb"), &out))
	assert.Equal(t, "a\nb\n", out.String())
}

func TestDescribe(t *testing.T) {
	dir := t.TempDir()
	path := fp.Join(dir, "data.bin")
	require.NoError(t, os.WriteFile(path, make([]byte, 42), 0600))

	info, err := Describe(path)
	require.NoError(t, err)
	assert.Equal(t, "data.bin", info.Name)
	assert.Equal(t, int64(42), info.Size)
	assert.False(t, info.IsDir)
	assert.Equal(t, "application/octet-stream", info.MIME)

	text := fp.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(text, []byte("plain words\n"), 0600))
	info, err = Describe(text)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(info.MIME, "text/plain"), info.MIME)

	info, err = Describe(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir)
	assert.Empty(t, info.MIME)

	_, err = Describe(fp.Join(dir, "missing"))
	assert.True(t, os.IsNotExist(errors.Cause(err)))
}
