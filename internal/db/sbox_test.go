package db

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liondandelion/magma/internal/gost89"
)

func TestPackSBox(t *testing.T) {
	packed := packSBox(&gost89.DefaultSBox)
	require.Len(t, packed, 128)
	assert.Equal(t, gost89.DefaultSBox[1][0], packed[16])

	s, err := unpackSBox(packed)
	require.NoError(t, err)
	assert.Equal(t, gost89.DefaultSBox, *s)
}

func TestUnpackSBoxRejectsBadData(t *testing.T) {
	_, err := unpackSBox(make([]byte, 127))
	assert.True(t, errors.Is(err, gost89.ErrInvalidSubstitutionTable))

	packed := packSBox(&gost89.DefaultSBox)
	packed[5] = 0x10
	_, err = unpackSBox(packed)
	assert.True(t, errors.Is(err, gost89.ErrInvalidSubstitutionTable))
}
