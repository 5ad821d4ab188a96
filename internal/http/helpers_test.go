package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liondandelion/magma/internal/gost89"
)

func TestServerKeySeal(t *testing.T) {
	key := testServerKey(t)
	secret := []byte("JBSWY3DPEHPK3PXPJBSWY3DPEHPK3PXP")

	sealed, err := key.Seal(context.Background(), secret)
	require.NoError(t, err)
	assert.NotEqual(t, secret, sealed)
	assert.Len(t, sealed, len(secret))

	opened, err := key.Open(context.Background(), sealed)
	require.NoError(t, err)
	assert.Equal(t, secret, opened)

	_, err = key.Seal(context.Background(), []byte("odd"))
	assert.True(t, errors.Is(err, gost89.ErrNotFullBlocks))
}

func TestNewServerKeySize(t *testing.T) {
	_, err := NewServerKey(make([]byte, 16))
	assert.True(t, errors.Is(err, gost89.ErrInvalidKeyLength))
}

func TestPasswords(t *testing.T) {
	hash, err := HashPassword([]byte("hunter2"))
	require.NoError(t, err)
	assert.True(t, PasswordMatches(hash, []byte("hunter2")))
	assert.False(t, PasswordMatches(hash, []byte("hunter3")))

	assert.True(t, PasswordIsValid("abcd"))
	assert.False(t, PasswordIsValid("abc"))
}

func TestUsernameIsValid(t *testing.T) {
	for name, want := range map[string]bool{
		"alice":      true,
		"bob_42":     true,
		"":           false,
		"bad name":   false,
		"semi;colon": false,
	} {
		assert.Equal(t, want, UsernameIsValid(name), name)
	}
}

func TestParseBlocks(t *testing.T) {
	blocks, err := ParseBlocks([]string{"0", "0xFFFFFFFFFFFFFFFF", "DeadBeef"})
	require.NoError(t, err)
	assert.Equal(t, []uint64{0, 0xFFFFFFFFFFFFFFFF, 0xDEADBEEF}, blocks)
	assert.Equal(t, []string{"0000000000000000", "ffffffffffffffff", "00000000deadbeef"}, FormatBlocks(blocks))

	_, err = ParseBlocks([]string{"0", "g"})
	assert.Error(t, err)
}

func TestMagmaHandler(t *testing.T) {
	h := MagmaHandler(func(w http.ResponseWriter, r *http.Request) *MagmaError {
		return &MagmaError{"Test", "Access denied", nil, http.StatusForbidden}
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Forbidden\n", rec.Body.String())

	err := &MagmaError{"Test", "wrapped", gost89.ErrShortBuffer, http.StatusInternalServerError}
	assert.Equal(t, "Test: wrapped: "+gost89.ErrShortBuffer.Error(), err.Error())
	assert.True(t, errors.Is(err, gost89.ErrShortBuffer))
}

func TestHTMXRedirect(t *testing.T) {
	rec := httptest.NewRecorder()
	HTMXRedirect(rec, "/user")
	assert.Equal(t, "/user", rec.Header().Get("HX-Redirect"))
	assert.Equal(t, http.StatusOK, rec.Code)
}
