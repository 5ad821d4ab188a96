package gost89

import (
	"strconv"

	"github.com/pkg/errors"
)

var (
	ErrInvalidKeyLength         = errors.New("gost89: round key set must hold exactly 8 keys")
	ErrInvalidSubstitutionTable = errors.New("gost89: substitution table must be 8x16 entries in [0,15]")
	ErrNotFullBlocks            = errors.New("gost89: input not a multiple of the block size")
	ErrShortBuffer              = errors.New("gost89: output smaller than input")
)

// KeySizeError is returned by NewCipher for keys that are not 32 bytes long.
type KeySizeError int

func (k KeySizeError) Error() string {
	return "gost89: invalid key size " + strconv.Itoa(int(k))
}

// Is lets errors.Is(err, ErrInvalidKeyLength) match a KeySizeError.
func (k KeySizeError) Is(target error) bool {
	return target == ErrInvalidKeyLength
}

func checkKeys(keys []uint32) error {
	if len(keys) != RoundKeys {
		return errors.Wrapf(ErrInvalidKeyLength, "got %d", len(keys))
	}
	return nil
}
