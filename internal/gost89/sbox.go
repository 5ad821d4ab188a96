package gost89

import (
	"math/bits"

	"github.com/pkg/errors"
)

const (
	sboxRows = 8
	sboxCols = 16
)

// SBox is a validated substitution table: row i substitutes the i-th nibble
// of a word, least significant first. A SBox is never modified after
// construction and may be shared between goroutines.
type SBox [sboxRows][sboxCols]uint8

// DefaultSBox is the parameter set used by the GOST R 34.11-94 test vectors.
var DefaultSBox = SBox{
	{4, 10, 9, 2, 13, 8, 0, 14, 6, 11, 1, 12, 7, 15, 5, 3},
	{14, 11, 4, 12, 6, 13, 15, 10, 2, 3, 8, 1, 0, 7, 5, 9},
	{5, 8, 1, 13, 10, 3, 4, 2, 14, 15, 12, 7, 6, 0, 9, 11},
	{7, 13, 10, 1, 0, 8, 9, 15, 14, 4, 6, 12, 11, 2, 5, 3},
	{6, 12, 7, 1, 5, 15, 13, 8, 4, 10, 9, 14, 0, 3, 11, 2},
	{4, 11, 10, 0, 7, 2, 1, 13, 3, 6, 8, 5, 9, 12, 15, 14},
	{13, 11, 4, 1, 3, 15, 5, 9, 0, 10, 14, 7, 6, 8, 2, 12},
	{1, 15, 13, 0, 5, 7, 10, 4, 9, 2, 3, 14, 6, 11, 8, 12},
}

// NewSBox validates rows and copies them into a SBox.
func NewSBox(rows [][]uint8) (*SBox, error) {
	if len(rows) != sboxRows {
		return nil, errors.Wrapf(ErrInvalidSubstitutionTable, "got %d rows", len(rows))
	}

	var s SBox
	for i, row := range rows {
		if len(row) != sboxCols {
			return nil, errors.Wrapf(ErrInvalidSubstitutionTable, "row %d has %d entries", i, len(row))
		}
		for j, v := range row {
			if v > 0xf {
				return nil, errors.Wrapf(ErrInvalidSubstitutionTable, "entry [%d][%d] = %d", i, j, v)
			}
			s[i][j] = v
		}
	}
	return &s, nil
}

// Rows returns a copy of the table as plain slices.
func (s *SBox) Rows() [][]uint8 {
	rows := make([][]uint8, sboxRows)
	for i := range s {
		rows[i] = append([]uint8(nil), s[i][:]...)
	}
	return rows
}

// Substitute replaces every nibble of word through its own row.
func (s *SBox) Substitute(word uint32) uint32 {
	var result uint32
	for i := 0; i < sboxRows; i++ {
		n := (word >> (4 * i)) & 0xf
		result |= uint32(s[i][n]) << (4 * i)
	}
	return result
}

// F is the round function: add the round key mod 2^32, substitute, rotate left by 11.
func (s *SBox) F(half, roundKey uint32) uint32 {
	return bits.RotateLeft32(s.Substitute(half+roundKey), 11)
}
