package gost89

import (
	"crypto/cipher"
	"encoding/binary"
)

const (
	BlockSize = 8
	KeySize   = 32
)

type blockCipher struct {
	keys []uint32
	sbox *SBox
}

// NewCipher returns a cipher.Block for a 32-byte key. The key is split into
// eight big-endian round keys; blocks are read and written big-endian.
// A nil sbox selects DefaultSBox.
func NewCipher(key []byte, sbox *SBox) (cipher.Block, error) {
	if len(key) != KeySize {
		return nil, KeySizeError(len(key))
	}
	if sbox == nil {
		sbox = &DefaultSBox
	}

	c := &blockCipher{keys: KeysFromBytes(key), sbox: sbox}
	return c, nil
}

// KeysFromBytes splits a 32-byte key into round keys. It panics on short input.
func KeysFromBytes(key []byte) []uint32 {
	keys := make([]uint32, RoundKeys)
	for i := range keys {
		keys[i] = binary.BigEndian.Uint32(key[4*i:])
	}
	return keys
}

func (c *blockCipher) BlockSize() int {
	return BlockSize
}

func (c *blockCipher) Encrypt(dst, src []byte) {
	if len(src) < BlockSize {
		panic("gost89: input not full block")
	}
	if len(dst) < BlockSize {
		panic("gost89: output not full block")
	}
	ct := encryptBlock(binary.BigEndian.Uint64(src), c.keys, c.sbox)
	binary.BigEndian.PutUint64(dst, ct)
}

func (c *blockCipher) Decrypt(dst, src []byte) {
	if len(src) < BlockSize {
		panic("gost89: input not full block")
	}
	if len(dst) < BlockSize {
		panic("gost89: output not full block")
	}
	pt := decryptBlock(binary.BigEndian.Uint64(src), c.keys, c.sbox)
	binary.BigEndian.PutUint64(dst, pt)
}
