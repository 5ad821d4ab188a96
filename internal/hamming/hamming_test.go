package hamming

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(s string) []uint8 {
	bits := make([]uint8, len(s))
	for i, c := range s {
		bits[i] = uint8(c - '0')
	}
	return bits
}

func format(bits []uint8) string {
	var sb strings.Builder
	for _, b := range bits {
		sb.WriteByte('0' + b)
	}
	return sb.String()
}

func TestEncode(t *testing.T) {
	tests := []struct {
		in     string
		matrix []string
		word   string
	}{
		{
			in: "100100101110001",
			matrix: []string{
				"000100010001011100001",
				"110101010101010101010",
				"101100110011001100110",
				"100011110000111100001",
				"000000001111111100000",
				"100000000000000011111",
			},
			word: "011110010001011110001",
		},
		{
			in:     "1",
			matrix: []string{"001", "010"},
			word:   "001",
		},
		{
			in:     "1011",
			matrix: []string{"00010011", "01010101", "10110011", "00001111"},
			word:   "00110011",
		},
	}

	for _, tt := range tests {
		code, err := Encode(parse(tt.in))
		require.NoError(t, err, tt.in)

		rows := make([]string, len(code.Matrix))
		for i, row := range code.Matrix {
			rows[i] = format(row)
		}
		assert.Equal(t, tt.matrix, rows, tt.in)
		assert.Equal(t, tt.word, format(code.Word), tt.in)
	}
}

func TestEncodeControls(t *testing.T) {
	code, err := Encode(parse("100100101110001"))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 4, 8, 16}, code.Controls)
	assert.Equal(t, 5, ControlBits(15))
}

func TestEncodeErrors(t *testing.T) {
	_, err := Encode(nil)
	assert.True(t, errors.Is(err, ErrEmpty))

	_, err = Encode([]uint8{1, 0, 2})
	assert.True(t, errors.Is(err, ErrNotBit))

	_, err = Encode(make([]uint8, 9))
	assert.True(t, errors.Is(err, ErrLayout))
}
