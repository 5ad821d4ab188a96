// Package gost89 implements the GOST 28147-89 64-bit block cipher: eight
// 4-bit substitution boxes, a 32-round Feistel network and the asymmetric
// round key schedule of the standard.
//
// Blocks are uint64 values whose high 32 bits form the left half. Round keys
// are passed as a slice of exactly eight uint32 values. Nothing in the package
// keeps state between calls, so every function and method is safe for
// concurrent use as long as callers do not mutate the tables or keys they
// pass in.
//
// Usage:
//
//	c, err := gost89.New(rows)
//	ct, err := c.Encrypt(block, keys)
//	pt, err := c.Decrypt(ct, keys)
package gost89

// Cipher pairs a validated substitution table with the block transforms.
type Cipher struct {
	sbox SBox
}

// New validates table and returns a Cipher using it.
func New(table [][]uint8) (*Cipher, error) {
	s, err := NewSBox(table)
	if err != nil {
		return nil, err
	}
	return &Cipher{sbox: *s}, nil
}

// NewWithSBox returns a Cipher for an already validated table.
func NewWithSBox(s *SBox) *Cipher {
	return &Cipher{sbox: *s}
}

// SBox returns the table used by c.
func (c *Cipher) SBox() *SBox {
	return &c.sbox
}

func (c *Cipher) Encrypt(block uint64, keys []uint32) (uint64, error) {
	if err := checkKeys(keys); err != nil {
		return 0, err
	}
	return encryptBlock(block, keys, &c.sbox), nil
}

func (c *Cipher) Decrypt(block uint64, keys []uint32) (uint64, error) {
	if err := checkKeys(keys); err != nil {
		return 0, err
	}
	return decryptBlock(block, keys, &c.sbox), nil
}

// Encrypt encrypts one block with keys and table. Both are validated once on
// entry.
func Encrypt(block uint64, keys []uint32, table [][]uint8) (uint64, error) {
	c, err := newChecked(keys, table)
	if err != nil {
		return 0, err
	}
	return encryptBlock(block, keys, &c.sbox), nil
}

// Decrypt reverses Encrypt for the same keys and table.
func Decrypt(block uint64, keys []uint32, table [][]uint8) (uint64, error) {
	c, err := newChecked(keys, table)
	if err != nil {
		return 0, err
	}
	return decryptBlock(block, keys, &c.sbox), nil
}

func newChecked(keys []uint32, table [][]uint8) (*Cipher, error) {
	if err := checkKeys(keys); err != nil {
		return nil, err
	}
	return New(table)
}

func encryptBlock(block uint64, keys []uint32, s *SBox) uint64 {
	left, right := uint32(block>>32), uint32(block)
	for i := 0; i < Rounds; i++ {
		left, right = EncryptRound(left, right, RoundKey(i, Encryption, keys), s)
	}
	return uint64(left)<<32 | uint64(right)
}

func decryptBlock(block uint64, keys []uint32, s *SBox) uint64 {
	left, right := uint32(block>>32), uint32(block)
	for i := 0; i < Rounds; i++ {
		left, right = DecryptRound(left, right, RoundKey(i, Decryption, keys), s)
	}
	return uint64(left)<<32 | uint64(right)
}
