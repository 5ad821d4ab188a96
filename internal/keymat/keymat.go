// Package keymat decodes raw key material files (*.EFE): a 6x6 bit matrix
// followed by a 24-bit key.
package keymat

import (
	"fmt"
	"io"
	"os"
	fp "path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	FileSize   = 10
	MinSize    = 9
	MatrixSize = 6
	Extension  = ".EFE"
)

var ErrShortKeyMaterial = errors.New("keymat: key material shorter than 9 bytes")

type Material struct {
	Matrix [MatrixSize][MatrixSize]uint8
	Key    uint32
}

// Read decodes the first 10 bytes of r. Only the first 9 are used; a shorter
// input is an error.
func Read(r io.Reader) (Material, error) {
	var m Material
	buf := make([]byte, FileSize)

	n, err := io.ReadAtLeast(r, buf, MinSize)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return m, errors.Wrapf(ErrShortKeyMaterial, "got %d bytes", n)
	}
	if err != nil {
		return m, errors.Wrap(err, "keymat: read")
	}

	return Decode(buf[:n])
}

// Decode is Read for an in-memory buffer.
func Decode(buf []byte) (Material, error) {
	var m Material
	if len(buf) < MinSize {
		return m, errors.Wrapf(ErrShortKeyMaterial, "got %d bytes", len(buf))
	}

	// Bits 6..1 of each byte, most significant first.
	for i := 0; i < MatrixSize; i++ {
		for j := 0; j < MatrixSize; j++ {
			m.Matrix[i][j] = (buf[i] >> (MatrixSize - j)) & 1
		}
	}
	m.Key = uint32(buf[6])<<16 | uint32(buf[7])<<8 | uint32(buf[8])
	return m, nil
}

func ReadFile(path string) (Material, error) {
	f, err := os.Open(path)
	if err != nil {
		return Material{}, errors.Wrap(err, "keymat: open")
	}
	defer f.Close()

	m, err := Read(f)
	if err != nil {
		return m, errors.Wrap(err, path)
	}
	return m, nil
}

// Glob returns the key material files in dir, sorted by name.
func Glob(dir string) ([]string, error) {
	return fp.Glob(fp.Join(dir, "*"+Extension))
}

// WriteTo renders m as a MATRIX section of comma-separated bits followed by a
// KEY section with the decimal key.
func (m Material) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder

	sb.WriteString("--------------- MATRIX ---------------\n")
	for _, row := range m.Matrix {
		for j, bit := range row {
			if j > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Itoa(int(bit)))
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("--------------- KEY ---------------\n")
	fmt.Fprintf(&sb, "%d\n", m.Key)

	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}
