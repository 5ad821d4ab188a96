package gost89

import (
	"context"
	"crypto/cipher"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Buffers up to this many blocks are handled on the calling goroutine.
const parallelThreshold = 512

// EncryptBlocks encrypts every 8-byte block of src into dst independently.
// There is no chaining and no padding: len(src) must be a multiple of the
// block size.
func EncryptBlocks(ctx context.Context, b cipher.Block, dst, src []byte) error {
	return cryptBlocks(ctx, b.Encrypt, b.BlockSize(), dst, src)
}

// DecryptBlocks is the inverse of EncryptBlocks.
func DecryptBlocks(ctx context.Context, b cipher.Block, dst, src []byte) error {
	return cryptBlocks(ctx, b.Decrypt, b.BlockSize(), dst, src)
}

func cryptBlocks(ctx context.Context, fn func(dst, src []byte), size int, dst, src []byte) error {
	if len(src)%size != 0 {
		return errors.Wrapf(ErrNotFullBlocks, "%d bytes", len(src))
	}
	if len(dst) < len(src) {
		return errors.Wrapf(ErrShortBuffer, "%d < %d", len(dst), len(src))
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	n := len(src) / size
	if n <= parallelThreshold {
		for i := 0; i < n; i++ {
			fn(dst[i*size:(i+1)*size], src[i*size:(i+1)*size])
		}
		return nil
	}

	workers := runtime.GOMAXPROCS(0)
	chunk := (n + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < n; start += chunk {
		start, end := start, start+chunk
		if end > n {
			end = n
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				if (i-start)%parallelThreshold == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				fn(dst[i*size:(i+1)*size], src[i*size:(i+1)*size])
			}
			return nil
		})
	}
	return g.Wait()
}
