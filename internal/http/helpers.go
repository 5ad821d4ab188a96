package http

import (
	"context"
	"crypto/cipher"
	"net/http"
	"os"
	"unicode"

	"github.com/pkg/errors"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"

	mdb "github.com/liondandelion/magma/internal/db"
	"github.com/liondandelion/magma/internal/gost89"
)

// ServerKey is the key loaded from MAGMA_KEY_FILE. Its round keys are the
// default for cipher requests that bring none, and its block cipher seals
// OTP secrets at rest.
type ServerKey struct {
	Keys  []uint32
	block cipher.Block
}

func NewServerKey(key []byte) (ServerKey, error) {
	block, err := gost89.NewCipher(key, nil)
	if err != nil {
		return ServerKey{}, err
	}
	return ServerKey{Keys: gost89.KeysFromBytes(key), block: block}, nil
}

func ReadServerKey(path string) (ServerKey, error) {
	key, err := os.ReadFile(path)
	if err != nil {
		return ServerKey{}, errors.Wrap(err, "ReadServerKey")
	}
	return NewServerKey(key)
}

// Seal encrypts data block by block. len(data) must be a multiple of 8;
// base32 TOTP secrets of the default size are 32 bytes.
func (k ServerKey) Seal(ctx context.Context, data []byte) ([]byte, error) {
	out := make([]byte, len(data))
	if err := gost89.EncryptBlocks(ctx, k.block, out, data); err != nil {
		return nil, err
	}
	return out, nil
}

func (k ServerKey) Open(ctx context.Context, sealed []byte) ([]byte, error) {
	out := make([]byte, len(sealed))
	if err := gost89.DecryptBlocks(ctx, k.block, out, sealed); err != nil {
		return nil, err
	}
	return out, nil
}

func OTPValidate(ctx context.Context, username, otpCode string, db mdb.DB, key ServerKey) (bool, error) {
	otpSecretEnc, err := db.UserOTPSecretGet(ctx, username)
	if err != nil {
		return false, errors.Wrap(err, "OTPValidate: failed to get secret")
	}

	otpSecret, err := key.Open(ctx, otpSecretEnc)
	if err != nil {
		return false, errors.Wrap(err, "OTPValidate: failed to open")
	}

	return totp.Validate(otpCode, string(otpSecret)), nil
}

func HashPassword(password []byte) ([]byte, error) {
	/* encodedSaltSize = 22 bytes */
	return bcrypt.GenerateFromPassword(password, 12)
}

func PasswordMatches(hash, password []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, password) == nil
}

func HTMXRedirect(w http.ResponseWriter, path string) {
	h := w.Header()
	h.Set("HX-Redirect", path)
	w.WriteHeader(http.StatusOK)
}

func UsernameIsValid(username string) bool {
	if len(username) == 0 {
		return false
	}

	for _, r := range username {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			if r != '_' {
				return false
			}
		}
	}
	return true
}

func PasswordIsValid(password string) bool {
	return len(password) >= 4
}
