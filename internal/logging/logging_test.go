package logging

import (
	"bytes"
	"os"
	fp "path/filepath"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	entry := &log.Entry{
		Time:    time.Date(2024, 1, 20, 10, 4, 5, 0, time.UTC),
		Level:   log.WarnLevel,
		Message: "Encrypt: bad block",
		Data:    log.Fields{"blocks": 3},
	}
	out, err := Format{}.Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "[2024-01-20 10:04:05] [WARNING]: Encrypt: bad block blocks=3\n", string(out))
}

func TestSetup(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Setup(&buf, "debug"))
	defer Setup(os.Stderr, "info")

	log.Debugf("Setup: %v", "ok")
	assert.Contains(t, buf.String(), "[DEBUG]: Setup: ok")

	assert.Error(t, Setup(&buf, "loud"))
}

func TestRotatingWriter(t *testing.T) {
	dir := t.TempDir()
	w, err := RotatingWriter(dir, 7*24*time.Hour)
	require.NoError(t, err)

	_, err = w.Write([]byte("line\n"))
	require.NoError(t, err)

	names, err := fp.Glob(fp.Join(dir, "*.log"))
	require.NoError(t, err)
	require.Len(t, names, 1)
	got, err := os.ReadFile(names[0])
	require.NoError(t, err)
	assert.Equal(t, "line\n", string(got))
}
