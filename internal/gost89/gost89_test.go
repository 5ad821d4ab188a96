package gost89

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKeys = []uint32{0xFFFFFFFF, 0x12345678, 0x00120477, 0x77AE441F, 0x81C63123, 0x99DEEEEE, 0x09502978, 0x68FA3105}

func TestKnownVectors(t *testing.T) {
	tests := []struct {
		pt, ct uint64
	}{
		{0xFE12847EFE12847E, 0x35C2E8BBBB7F1BBA},
		{0xB202DA8A5342F0AC, 0x864C1CF472EBA094},
		{0x0000000000000000, 0x55A2E4EE5E6335CC},
		{0xFFFFFFFFFFFFFFFF, 0xB24FCA5A0EDD4606},
	}
	table := DefaultSBox.Rows()

	for _, tt := range tests {
		ct, err := Encrypt(tt.pt, testKeys, table)
		require.NoError(t, err)
		assert.Equalf(t, tt.ct, ct, "encrypt %016X", tt.pt)

		pt, err := Decrypt(ct, testKeys, table)
		require.NoError(t, err)
		assert.Equalf(t, tt.pt, pt, "decrypt %016X", ct)
	}
}

func TestRoundTrip(t *testing.T) {
	c := NewWithSBox(&DefaultSBox)
	rnd := rand.New(rand.NewSource(1))

	for i := 0; i < 1000; i++ {
		keys := make([]uint32, RoundKeys)
		for k := range keys {
			keys[k] = rnd.Uint32()
		}
		block := rnd.Uint64()

		ct, err := c.Encrypt(block, keys)
		require.NoError(t, err)
		pt, err := c.Decrypt(ct, keys)
		require.NoError(t, err)
		if pt != block {
			t.Fatalf("round trip failed for %016X with keys %X: got %016X", block, keys, pt)
		}
	}
}

func TestWrongKeyDoesNotDecrypt(t *testing.T) {
	c := NewWithSBox(&DefaultSBox)
	ct, err := c.Encrypt(0xFE12847EFE12847E, testKeys)
	require.NoError(t, err)

	other := append([]uint32(nil), testKeys...)
	other[3] ^= 1
	pt, err := c.Decrypt(ct, other)
	require.NoError(t, err)
	assert.NotEqual(t, uint64(0xFE12847EFE12847E), pt)
}

func TestKeyLength(t *testing.T) {
	table := DefaultSBox.Rows()
	for _, n := range []int{0, 7, 9} {
		keys := make([]uint32, n)

		_, err := Encrypt(1, keys, table)
		assert.Truef(t, errors.Is(err, ErrInvalidKeyLength), "encrypt with %d keys: %v", n, err)
		_, err = Decrypt(1, keys, table)
		assert.Truef(t, errors.Is(err, ErrInvalidKeyLength), "decrypt with %d keys: %v", n, err)
		_, err = NewWithSBox(&DefaultSBox).Encrypt(1, keys)
		assert.Truef(t, errors.Is(err, ErrInvalidKeyLength), "cipher encrypt with %d keys: %v", n, err)
	}
}

func TestSubstitutionTableValidation(t *testing.T) {
	shortRow := DefaultSBox.Rows()
	shortRow[2] = shortRow[2][:15]

	badEntry := DefaultSBox.Rows()
	badEntry[5][7] = 16

	tests := map[string][][]uint8{
		"nil":        nil,
		"seven rows": DefaultSBox.Rows()[:7],
		"nine rows":  append(DefaultSBox.Rows(), make([]uint8, 16)),
		"short row":  shortRow,
		"entry 16":   badEntry,
	}

	for name, table := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := New(table)
			assert.True(t, errors.Is(err, ErrInvalidSubstitutionTable), err)

			_, err = Encrypt(1, testKeys, table)
			assert.True(t, errors.Is(err, ErrInvalidSubstitutionTable), err)
		})
	}
}

func TestKeyLengthCheckedBeforeTable(t *testing.T) {
	_, err := Decrypt(1, testKeys[:7], nil)
	assert.True(t, errors.Is(err, ErrInvalidKeyLength))
}
