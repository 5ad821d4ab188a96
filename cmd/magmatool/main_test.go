package main

import (
	"bytes"
	"os"
	fp "path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liondandelion/magma/internal/hamming"
	"github.com/liondandelion/magma/internal/keymat"
)

func TestRunHamming(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runHamming(&buf, []string{"1011"}))
	assert.Equal(t, "00010011\n01010101\n10110011\n00001111\nword: 00110011\n", buf.String())

	err := runHamming(&buf, []string{"10x1"})
	assert.True(t, errors.Is(err, hamming.ErrNotBit))

	err = runHamming(&buf, []string{"101101011"})
	assert.True(t, errors.Is(err, hamming.ErrLayout))

	assert.Error(t, runHamming(&buf, nil))
}

func TestRunKeyMat(t *testing.T) {
	dir := t.TempDir()
	material := []byte{0b10101010, 0b01111110, 0, 0xff, 0b01000000, 0b00000010, 0x12, 0xAB, 0xCD, 0}
	require.NoError(t, os.WriteFile(fp.Join(dir, "a"+keymat.Extension), material, 0600))
	require.NoError(t, os.WriteFile(fp.Join(dir, "ignored.txt"), []byte("x"), 0600))

	var buf bytes.Buffer
	require.NoError(t, runKeyMat(&buf, []string{dir}))
	assert.Contains(t, buf.String(), "0,1,0,1,0,1\n1,1,1,1,1,1\n")
	assert.Contains(t, buf.String(), "--------------- KEY ---------------\n1223629\n")
	assert.NotContains(t, buf.String(), "ignored.txt")

	assert.Error(t, runKeyMat(&buf, []string{t.TempDir()}))
}

func TestRunStat(t *testing.T) {
	path := fp.Join(t.TempDir(), "block.bin")
	require.NoError(t, os.WriteFile(path, make([]byte, 2048), 0600))

	var buf bytes.Buffer
	require.NoError(t, runStat(&buf, []string{path}))
	assert.Contains(t, buf.String(), "Name:     block.bin\n")
	assert.Contains(t, buf.String(), "Size:     2.0 KiB (2048 bytes)\n")
	assert.Contains(t, buf.String(), "Type:     application/octet-stream\n")
}
