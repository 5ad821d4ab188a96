package gost89

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKeyBytes(t *testing.T) []byte {
	key, err := hex.DecodeString("ffffffff123456780012047777ae441f81c6312399deeeee0950297868fa3105")
	require.NoError(t, err)
	return key
}

func TestNewCipherVector(t *testing.T) {
	b, err := NewCipher(testKeyBytes(t), nil)
	require.NoError(t, err)
	assert.Equal(t, BlockSize, b.BlockSize())

	src, _ := hex.DecodeString("fe12847efe12847e")
	dst := make([]byte, BlockSize)
	b.Encrypt(dst, src)
	assert.Equal(t, "35c2e8bbbb7f1bba", hex.EncodeToString(dst))

	b.Decrypt(dst, dst)
	assert.Equal(t, src, dst)
}

func TestKeysFromBytes(t *testing.T) {
	assert.Equal(t, testKeys, KeysFromBytes(testKeyBytes(t)))
}

func TestNewCipherKeySize(t *testing.T) {
	for _, n := range []int{0, 16, 31, 33} {
		_, err := NewCipher(make([]byte, n), nil)
		var kse KeySizeError
		require.True(t, errors.As(err, &kse))
		assert.Equal(t, n, int(kse))
		assert.True(t, errors.Is(err, ErrInvalidKeyLength))
	}
}

func TestBlockPanicsOnShortInput(t *testing.T) {
	b, err := NewCipher(testKeyBytes(t), nil)
	require.NoError(t, err)
	assert.Panics(t, func() { b.Encrypt(make([]byte, 8), make([]byte, 7)) })
	assert.Panics(t, func() { b.Decrypt(make([]byte, 7), make([]byte, 8)) })
}

func TestCryptBlocks(t *testing.T) {
	b, err := NewCipher(testKeyBytes(t), nil)
	require.NoError(t, err)

	for _, n := range []int{0, 1, 3, parallelThreshold, parallelThreshold*4 + 3} {
		src := make([]byte, n*BlockSize)
		for i := range src {
			src[i] = byte(i * 7)
		}
		ct := make([]byte, len(src))
		require.NoError(t, EncryptBlocks(context.Background(), b, ct, src))

		for i := 0; i < n; i++ {
			want := make([]byte, BlockSize)
			b.Encrypt(want, src[i*BlockSize:])
			if !bytes.Equal(want, ct[i*BlockSize:(i+1)*BlockSize]) {
				t.Fatalf("block %d of %d differs", i, n)
			}
		}

		pt := make([]byte, len(src))
		require.NoError(t, DecryptBlocks(context.Background(), b, pt, ct))
		assert.Equal(t, src, pt)
	}
}

func TestCryptBlocksErrors(t *testing.T) {
	b, err := NewCipher(testKeyBytes(t), nil)
	require.NoError(t, err)

	err = EncryptBlocks(context.Background(), b, make([]byte, 16), make([]byte, 12))
	assert.True(t, errors.Is(err, ErrNotFullBlocks))

	err = DecryptBlocks(context.Background(), b, make([]byte, 8), make([]byte, 16))
	assert.True(t, errors.Is(err, ErrShortBuffer))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = EncryptBlocks(ctx, b, make([]byte, 16), make([]byte, 16))
	assert.True(t, errors.Is(err, context.Canceled))
}
