package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	mdb "github.com/liondandelion/magma/internal/db"
	"github.com/liondandelion/magma/internal/gost89"
	"github.com/liondandelion/magma/internal/hamming"
	mhtmx "github.com/liondandelion/magma/internal/html/htmx"
	"github.com/liondandelion/magma/internal/keymat"
)

const maxRequestBody = 1 << 20

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SBoxStore resolves named substitution tables.
type SBoxStore interface {
	SBoxGet(ctx context.Context, name string) (*gost89.SBox, error)
}

// APIHandler is MagmaHandler for JSON endpoints: errors are written as
// {"error": "..."} instead of plain status text.
type APIHandler func(http.ResponseWriter, *http.Request) *MagmaError

func (fn APIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := fn(w, r); err != nil {
		message := http.StatusText(err.Status)
		if err.Status >= http.StatusInternalServerError {
			log.Errorf("%v", err)
		} else {
			log.Warnf("%v", err)
			message = err.What
			if err.Err != nil {
				message += ": " + err.Err.Error()
			}
		}
		writeJSON(w, err.Status, ErrorResponse{Error: message})
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type CipherRequest struct {
	Blocks []string `json:"blocks"`
	Keys   []string `json:"keys,omitempty"`
	SBox   string   `json:"sbox,omitempty"`
	Table  [][]int  `json:"table,omitempty"`
}

type CipherResponse struct {
	Blocks []string `json:"blocks"`
}

type KeyMatResponse struct {
	Matrix [][]int `json:"matrix"`
	Key    uint32  `json:"key"`
}

type HammingRequest struct {
	Bits []int `json:"bits"`
}

type HammingResponse struct {
	Matrix   [][]int `json:"matrix"`
	Word     []int   `json:"word"`
	Controls []int   `json:"controls"`
}

type SBoxRequest struct {
	Table [][]int `json:"table"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnf("writeJSON: failed to encode: %v", err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func ParseBlocks(in []string) ([]uint64, error) {
	blocks := make([]uint64, len(in))
	for i, s := range in {
		b, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(s), "0x"), 16, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "block %d", i)
		}
		blocks[i] = b
	}
	return blocks, nil
}

func ParseKeys(in []string) ([]uint32, error) {
	keys := make([]uint32, len(in))
	for i, s := range in {
		k, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(s), "0x"), 16, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "key %d", i)
		}
		keys[i] = uint32(k)
	}
	return keys, nil
}

func FormatBlocks(blocks []uint64) []string {
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = fmt.Sprintf("%016x", b)
	}
	return out
}

// TableFromInts converts JSON rows into table rows. Values that do not fit a
// byte are reported as an invalid table rather than truncated.
func TableFromInts(rows [][]int) ([][]uint8, error) {
	table := make([][]uint8, len(rows))
	for i, row := range rows {
		table[i] = make([]uint8, len(row))
		for j, v := range row {
			if v < 0 || v > 0xff {
				return nil, errors.Wrapf(gost89.ErrInvalidSubstitutionTable, "entry [%d][%d] = %d", i, j, v)
			}
			table[i][j] = uint8(v)
		}
	}
	return table, nil
}

func lookupSBox(ctx context.Context, store SBoxStore, name string) (*gost89.SBox, error) {
	if name == "" {
		return &gost89.DefaultSBox, nil
	}
	return store.SBoxGet(ctx, name)
}

func sboxStatus(err error) int {
	if errors.Is(err, mdb.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func cryptBlocks(c *gost89.Cipher, dir gost89.Direction, blocks []uint64, keys []uint32) ([]uint64, error) {
	transform := c.Encrypt
	if dir == gost89.Decryption {
		transform = c.Decrypt
	}

	out := make([]uint64, len(blocks))
	for i, b := range blocks {
		var err error
		if out[i], err = transform(b, keys); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func Encrypt(store SBoxStore, key ServerKey) http.Handler {
	return cipherHandler("Encrypt", gost89.Encryption, store, key)
}

func Decrypt(store SBoxStore, key ServerKey) http.Handler {
	return cipherHandler("Decrypt", gost89.Decryption, store, key)
}

func cipherHandler(where string, dir gost89.Direction, store SBoxStore, key ServerKey) http.Handler {
	return APIHandler(func(w http.ResponseWriter, r *http.Request) *MagmaError {
		var req CipherRequest
		if err := decodeJSON(w, r, &req); err != nil {
			return &MagmaError{where, "invalid request", err, http.StatusBadRequest}
		}

		blocks, err := ParseBlocks(req.Blocks)
		if err != nil {
			return &MagmaError{where, "invalid block", err, http.StatusBadRequest}
		}

		keys := key.Keys
		if len(req.Keys) > 0 {
			keys, err = ParseKeys(req.Keys)
			if err != nil {
				return &MagmaError{where, "invalid key", err, http.StatusBadRequest}
			}
		}

		var c *gost89.Cipher
		if req.Table != nil {
			table, err := TableFromInts(req.Table)
			if err == nil {
				c, err = gost89.New(table)
			}
			if err != nil {
				return &MagmaError{where, "invalid table", err, http.StatusBadRequest}
			}
		} else {
			s, err := lookupSBox(r.Context(), store, req.SBox)
			if err != nil {
				return &MagmaError{where, "failed to get sbox", err, sboxStatus(err)}
			}
			c = gost89.NewWithSBox(s)
		}

		out, err := cryptBlocks(c, dir, blocks, keys)
		if err != nil {
			return &MagmaError{where, "invalid key", err, http.StatusBadRequest}
		}

		writeJSON(w, http.StatusOK, CipherResponse{Blocks: FormatBlocks(out)})
		return nil
	})
}

// CipherForm serves the htmx form on the index page.
func CipherForm(store SBoxStore, key ServerKey) http.Handler {
	return MagmaHandler(func(w http.ResponseWriter, r *http.Request) *MagmaError {
		r.ParseForm()

		dir := gost89.Encryption
		if r.PostFormValue("direction") == "decrypt" {
			dir = gost89.Decryption
		}

		blocks, err := ParseBlocks([]string{r.PostFormValue("block")})
		if err != nil {
			return renderError("CipherForm", w, "cipherResult", "The block must be up to 16 hex digits")
		}

		keys := key.Keys
		if fields := strings.Fields(r.PostFormValue("keys")); len(fields) > 0 {
			keys, err = ParseKeys(fields)
			if err != nil {
				return renderError("CipherForm", w, "cipherResult", "Round keys must be 32-bit hex words")
			}
		}

		s, err := lookupSBox(r.Context(), store, r.PostFormValue("sbox"))
		if err != nil {
			return &MagmaError{"CipherForm", "failed to get sbox", err, sboxStatus(err)}
		}

		out, err := cryptBlocks(gost89.NewWithSBox(s), dir, blocks, keys)
		if errors.Is(err, gost89.ErrInvalidKeyLength) {
			return renderError("CipherForm", w, "cipherResult", "Exactly 8 round keys are required")
		}
		if err != nil {
			return &MagmaError{"CipherForm", "failed to transform", err, http.StatusInternalServerError}
		}

		return renderNode("CipherForm", w, mhtmx.CipherResult(dir, blocks[0], out[0]))
	})
}

func KeyMat() http.Handler {
	return APIHandler(func(w http.ResponseWriter, r *http.Request) *MagmaError {
		m, err := keymat.Read(http.MaxBytesReader(w, r.Body, maxRequestBody))
		if err != nil {
			return &MagmaError{"KeyMat", "invalid key material", err, http.StatusBadRequest}
		}
		resp := KeyMatResponse{Key: m.Key}
		for _, row := range m.Matrix {
			resp.Matrix = append(resp.Matrix, toInts(row[:]))
		}
		writeJSON(w, http.StatusOK, resp)
		return nil
	})
}

func toInts(in []uint8) []int {
	out := make([]int, len(in))
	for i, v := range in {
		out[i] = int(v)
	}
	return out
}

func Hamming() http.Handler {
	return APIHandler(func(w http.ResponseWriter, r *http.Request) *MagmaError {
		var req HammingRequest
		if err := decodeJSON(w, r, &req); err != nil {
			return &MagmaError{"Hamming", "invalid request", err, http.StatusBadRequest}
		}

		bits := make([]uint8, len(req.Bits))
		for i, b := range req.Bits {
			if b != 0 && b != 1 {
				return &MagmaError{"Hamming", "invalid bits", errors.Wrapf(hamming.ErrNotBit, "bits[%d] = %d", i, b), http.StatusBadRequest}
			}
			bits[i] = uint8(b)
		}

		code, err := hamming.Encode(bits)
		if err != nil {
			return &MagmaError{"Hamming", "failed to encode", err, http.StatusBadRequest}
		}

		resp := HammingResponse{Word: toInts(code.Word), Controls: code.Controls}
		for _, row := range code.Matrix {
			resp.Matrix = append(resp.Matrix, toInts(row))
		}
		writeJSON(w, http.StatusOK, resp)
		return nil
	})
}

func SBoxPut(db mdb.DB) http.Handler {
	return APIHandler(func(w http.ResponseWriter, r *http.Request) *MagmaError {
		name := chi.URLParam(r, "name")
		if !UsernameIsValid(name) {
			return &MagmaError{"SBoxPut", "invalid name", nil, http.StatusBadRequest}
		}

		var req SBoxRequest
		if err := decodeJSON(w, r, &req); err != nil {
			return &MagmaError{"SBoxPut", "invalid request", err, http.StatusBadRequest}
		}

		table, err := TableFromInts(req.Table)
		if err != nil {
			return &MagmaError{"SBoxPut", "invalid table", err, http.StatusBadRequest}
		}
		s, err := gost89.NewSBox(table)
		if err != nil {
			return &MagmaError{"SBoxPut", "invalid table", err, http.StatusBadRequest}
		}

		data := db.UserSessionDataGet(r.Context())
		if err := db.SBoxPut(r.Context(), name, data.Username, s); err != nil {
			return &MagmaError{"SBoxPut", "failed to store sbox", err, http.StatusInternalServerError}
		}

		log.Infof("SBoxPut: %v stored sbox %q", data.Username, name)
		w.WriteHeader(http.StatusNoContent)
		return nil
	})
}

func SBoxDelete(db mdb.DB) http.Handler {
	return APIHandler(func(w http.ResponseWriter, r *http.Request) *MagmaError {
		name := chi.URLParam(r, "name")

		if err := db.SBoxDelete(r.Context(), name); err != nil {
			return &MagmaError{"SBoxDelete", "failed to delete sbox", err, sboxStatus(err)}
		}

		w.WriteHeader(http.StatusNoContent)
		return nil
	})
}
