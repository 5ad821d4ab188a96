// Package hamming builds the parity matrix of a Hamming code for a bit string.
package hamming

import (
	"math"

	"github.com/pkg/errors"
)

var (
	ErrEmpty  = errors.New("hamming: no data bits")
	ErrNotBit = errors.New("hamming: value is not a bit")
	ErrLayout = errors.New("hamming: control bit falls outside the code word")
)

// Code is the result of Encode.
//
// Matrix[0] holds the data bits laid out in the code word with zeroes at the
// control positions 1, 2, 4, ... Matrix[r] for r >= 1 holds bit r-1 of every
// column index, and its column 0 holds the parity computed for that row.
// Word is Matrix[0] with the parity bits written into the control positions.
type Code struct {
	Matrix   [][]uint8
	Word     []uint8
	Controls []int
}

// ControlBits returns how many control bits Encode uses for n data bits.
func ControlBits(n int) int {
	return int(math.Ceil(math.Log2(float64(n)))) + 1
}

func Encode(bits []uint8) (Code, error) {
	var code Code

	n := len(bits)
	if n == 0 {
		return code, ErrEmpty
	}
	for i, b := range bits {
		if b > 1 {
			return code, errors.Wrapf(ErrNotBit, "bits[%d] = %d", i, b)
		}
	}

	c := ControlBits(n)
	width := 1 + n + c

	// Control positions are inserted one by one into a growing word, so each
	// must fit the word as it is at insertion time.
	for k, pos := 0, 1; k < c; k, pos = k+1, pos*2 {
		code.Controls = append(code.Controls, pos)
		if pos > n+k+1 {
			return Code{}, errors.Wrapf(ErrLayout, "position %d with %d data bits", pos, n)
		}
	}

	code.Matrix = make([][]uint8, c+1)
	for r := range code.Matrix {
		code.Matrix[r] = make([]uint8, width)
	}

	data, next := 0, 0
	for p := 1; p < width; p++ {
		if next < c && p == code.Controls[next] {
			next++
			continue
		}
		code.Matrix[0][p] = bits[data]
		data++
	}

	for r := 1; r <= c; r++ {
		for p := 1; p < width; p++ {
			code.Matrix[r][p] = uint8(p>>(r-1)) & 1
		}
	}

	code.Word = append([]uint8(nil), code.Matrix[0]...)
	for r := 1; r <= c; r++ {
		var sum uint8
		for p := 1; p < width; p++ {
			sum ^= code.Word[p] & code.Matrix[r][p]
		}
		code.Word[code.Controls[r-1]] = sum
		code.Matrix[r][0] = sum
	}

	return code, nil
}
