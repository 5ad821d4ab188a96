package http

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pquerna/otp/totp"
	log "github.com/sirupsen/logrus"
	g "maragu.dev/gomponents"

	mdb "github.com/liondandelion/magma/internal/db"
	mhtmx "github.com/liondandelion/magma/internal/html/htmx"
	"github.com/liondandelion/magma/internal/html/pages"
)

type MagmaError struct {
	Where  string
	What   string
	Err    error
	Status int
}

type MagmaHandler func(http.ResponseWriter, *http.Request) *MagmaError

func (e *MagmaError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Where, e.What, e.Err)
}

func (e *MagmaError) Unwrap() error {
	return e.Err
}

func (fn MagmaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := fn(w, r); err != nil {
		if err.Status >= http.StatusInternalServerError {
			log.Errorf("%v", err)
		} else {
			log.Warnf("%v", err)
		}
		http.Error(w, http.StatusText(err.Status), err.Status)
	}
}

func FileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("FileServer: no URL params allowed")
	}

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", http.StatusMovedPermanently).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, func(w http.ResponseWriter, r *http.Request) {
		rctx := chi.RouteContext(r.Context())
		pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		fs := http.StripPrefix(pathPrefix, http.FileServer(root))
		fs.ServeHTTP(w, r)
	})
}

func renderNode(where string, w http.ResponseWriter, n g.Node) *MagmaError {
	if err := n.Render(w); err != nil {
		return &MagmaError{where, "failed to render", err, http.StatusInternalServerError}
	}
	return nil
}

func renderError(where string, w http.ResponseWriter, id, message string) *MagmaError {
	return renderNode(where, w, mhtmx.Error(id, message))
}

func Index(db mdb.DB) http.Handler {
	return MagmaHandler(func(w http.ResponseWriter, r *http.Request) *MagmaError {
		data := db.UserSessionDataGet(r.Context())

		records, err := db.SBoxList(r.Context())
		if err != nil {
			return &MagmaError{"Index", "failed to list sboxes", err, http.StatusInternalServerError}
		}
		names := make([]string, len(records))
		for i, rec := range records {
			names[i] = rec.Name
		}

		return renderNode("Index", w, pages.Index(data, names))
	})
}

func SBoxes(db mdb.DB) http.Handler {
	return MagmaHandler(func(w http.ResponseWriter, r *http.Request) *MagmaError {
		data := db.UserSessionDataGet(r.Context())

		records, err := db.SBoxList(r.Context())
		if err != nil {
			return &MagmaError{"SBoxes", "failed to list sboxes", err, http.StatusInternalServerError}
		}
		return renderNode("SBoxes", w, pages.SBoxes(data, records))
	})
}

func Register(db mdb.DB) http.Handler {
	return MagmaHandler(func(w http.ResponseWriter, r *http.Request) *MagmaError {
		data := db.UserSessionDataGet(r.Context())
		if data.IsAuthenticated {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return nil
		}
		return renderNode("Register", w, pages.Register(data))
	})
}

func RegisterPost(db mdb.DB) http.Handler {
	return MagmaHandler(func(w http.ResponseWriter, r *http.Request) *MagmaError {
		r.ParseForm()
		username := r.PostFormValue("username")
		password := r.PostFormValue("password")
		confirm := r.PostFormValue("confirm")

		if !UsernameIsValid(username) {
			return renderError("RegisterPost", w, "errorInvalid", "Username may contain only letters, digits and underscores")
		}
		if !PasswordIsValid(password) {
			return renderError("RegisterPost", w, "errorInvalid", "Password is too short")
		}
		if password != confirm {
			return renderError("RegisterPost", w, "errorInvalid", "Passwords do not match")
		}

		exists, err := db.UserExists(r.Context(), username)
		if err != nil {
			return &MagmaError{"RegisterPost", "failed to query or scan db", err, http.StatusInternalServerError}
		}
		if exists {
			return renderError("RegisterPost", w, "errorExists", "This user already exists")
		}

		// The first account becomes the administrator.
		count, err := db.UserCount(r.Context())
		if err != nil {
			return &MagmaError{"RegisterPost", "failed to count users", err, http.StatusInternalServerError}
		}
		isAdmin := count == 0

		hash, err := HashPassword([]byte(password))
		if err != nil {
			return &MagmaError{"RegisterPost", "failed to hash password", err, http.StatusInternalServerError}
		}

		err = db.UserInsert(r.Context(), username, hash, isAdmin)
		if err != nil {
			return &MagmaError{"RegisterPost", "failed to insert user", err, http.StatusInternalServerError}
		}

		data := db.UserSessionDataGet(r.Context())
		data.Username = username
		data.IsAuthenticated = true
		data.IsAdmin = isAdmin

		db.UserTokenRenew(r.Context())
		db.UserSessionDataSet(data, r.Context())

		HTMXRedirect(w, "/")
		return nil
	})
}

func Login(db mdb.DB) http.Handler {
	return MagmaHandler(func(w http.ResponseWriter, r *http.Request) *MagmaError {
		data := db.UserSessionDataGet(r.Context())
		if data.IsAuthenticated {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return nil
		}
		return renderNode("Login", w, pages.Login(data))
	})
}

func LoginPost(db mdb.DB) http.Handler {
	return MagmaHandler(func(w http.ResponseWriter, r *http.Request) *MagmaError {
		r.ParseForm()
		username := r.PostFormValue("username")
		password := []byte(r.PostFormValue("password"))

		exists, err := db.UserExists(r.Context(), username)
		if err != nil {
			return &MagmaError{"LoginPost", "failed to query or scan db", err, http.StatusInternalServerError}
		}
		if !exists {
			return renderError("LoginPost", w, "errorInvalid", "Invalid username")
		}

		passwordHash, err := db.UserPasswordHashGet(r.Context(), username)
		if err != nil {
			return &MagmaError{"LoginPost", "failed to query or scan db", err, http.StatusInternalServerError}
		}
		if !PasswordMatches(passwordHash, password) {
			return renderError("LoginPost", w, "errorInvalid", "Invalid password")
		}

		data := db.UserSessionDataGet(r.Context())
		data.Username = username
		data.IsOTPEnabled, err = db.UserIsOTPEnabled(r.Context(), username)
		if err != nil {
			return &MagmaError{"LoginPost", "failed to query or scan db", err, http.StatusInternalServerError}
		}
		db.UserSessionDataSet(data, r.Context())

		if data.IsOTPEnabled {
			return renderNode("LoginPost", w, mhtmx.FormOTP("/login/otp"))
		}

		data.IsAdmin, err = db.UserIsAdmin(r.Context(), username)
		if err != nil {
			return &MagmaError{"LoginPost", "failed to query or scan db", err, http.StatusInternalServerError}
		}
		data.IsAuthenticated = true

		db.UserTokenRenew(r.Context())
		db.UserSessionDataSet(data, r.Context())

		HTMXRedirect(w, "/")
		return nil
	})
}

func LoginOTP(db mdb.DB, key ServerKey) http.Handler {
	return MagmaHandler(func(w http.ResponseWriter, r *http.Request) *MagmaError {
		r.ParseForm()
		otpCode := r.PostFormValue("otpCode")
		data := db.UserSessionDataGet(r.Context())
		if data.Username == "" || !data.IsOTPEnabled {
			return &MagmaError{"LoginOTP", "no pending login", nil, http.StatusBadRequest}
		}

		valid, err := OTPValidate(r.Context(), data.Username, otpCode, db, key)
		if err != nil {
			return &MagmaError{"LoginOTP", "failed to validate otp", err, http.StatusInternalServerError}
		}
		if !valid {
			return renderError("LoginOTP", w, "errorInvalid", "The code is invalid")
		}

		data.IsAdmin, err = db.UserIsAdmin(r.Context(), data.Username)
		if err != nil {
			return &MagmaError{"LoginOTP", "failed to query or scan db", err, http.StatusInternalServerError}
		}
		data.IsAuthenticated = true

		db.UserTokenRenew(r.Context())
		db.UserSessionDataSet(data, r.Context())

		HTMXRedirect(w, "/")
		return nil
	})
}

func Logout(db mdb.DB) http.Handler {
	return MagmaHandler(func(w http.ResponseWriter, r *http.Request) *MagmaError {
		db.UserTokenRenew(r.Context())
		db.UserSessionDataDestroy(r.Context())

		http.Redirect(w, r, "/", http.StatusSeeOther)
		return nil
	})
}

func UsersTable(db mdb.DB) http.Handler {
	return MagmaHandler(func(w http.ResponseWriter, r *http.Request) *MagmaError {
		data := db.UserSessionDataGet(r.Context())

		users, err := db.UserTableGet(r.Context())
		if err != nil {
			return &MagmaError{"UsersTable", "failed to collect rows", err, http.StatusInternalServerError}
		}
		return renderNode("UsersTable", w, pages.UserTable(data, users))
	})
}

func User(db mdb.DB) http.Handler {
	return MagmaHandler(func(w http.ResponseWriter, r *http.Request) *MagmaError {
		data := db.UserSessionDataGet(r.Context())
		return renderNode("User", w, pages.User(data))
	})
}

func PasswordChange(db mdb.DB) http.Handler {
	return MagmaHandler(func(w http.ResponseWriter, r *http.Request) *MagmaError {
		data := db.UserSessionDataGet(r.Context())
		return renderNode("PasswordChange", w, pages.PasswordChange(data))
	})
}

func PasswordChangePost(db mdb.DB) http.Handler {
	return MagmaHandler(func(w http.ResponseWriter, r *http.Request) *MagmaError {
		r.ParseForm()
		oldPassword := []byte(r.PostFormValue("oldPassword"))
		newPassword := r.PostFormValue("newPassword")
		confirm := r.PostFormValue("confirm")
		data := db.UserSessionDataGet(r.Context())

		oldHash, err := db.UserPasswordHashGet(r.Context(), data.Username)
		if err != nil {
			return &MagmaError{"PasswordChangePost", "failed to get old hash", err, http.StatusInternalServerError}
		}
		if !PasswordMatches(oldHash, oldPassword) {
			return renderError("PasswordChangePost", w, "errorWrong", "Old password is wrong")
		}
		if !PasswordIsValid(newPassword) {
			return renderError("PasswordChangePost", w, "errorInvalid", "Password is too short")
		}
		if newPassword != confirm {
			return renderError("PasswordChangePost", w, "errorInvalid", "Passwords do not match")
		}

		newHash, err := HashPassword([]byte(newPassword))
		if err != nil {
			return &MagmaError{"PasswordChangePost", "failed to hash password", err, http.StatusInternalServerError}
		}

		err = db.UserPasswordHashSet(r.Context(), data.Username, newHash)
		if err != nil {
			return &MagmaError{"PasswordChangePost", "failed to update", err, http.StatusInternalServerError}
		}

		db.UserTokenRenew(r.Context())

		HTMXRedirect(w, "/user")
		return nil
	})
}

func OTPEnable(db mdb.DB, key ServerKey) http.Handler {
	return MagmaHandler(func(w http.ResponseWriter, r *http.Request) *MagmaError {
		data := db.UserSessionDataGet(r.Context())

		totpOpts := totp.GenerateOpts{
			Issuer:      "Magma",
			AccountName: data.Username,
		}
		otpKey, err := totp.Generate(totpOpts)
		if err != nil {
			return &MagmaError{"OTPEnable", "failed to generate key", err, http.StatusInternalServerError}
		}

		var buf bytes.Buffer
		var imgBase64 string
		img, err := otpKey.Image(200, 200)
		if err != nil {
			log.Warnf("OTPEnable: failed to generate image: %v", err)
		} else if err := png.Encode(&buf, img); err == nil {
			imgBase64 = base64.StdEncoding.EncodeToString(buf.Bytes())
		}

		secretEnc, err := key.Seal(r.Context(), []byte(otpKey.Secret()))
		if err != nil {
			return &MagmaError{"OTPEnable", "failed to seal secret", err, http.StatusInternalServerError}
		}
		db.SessionOTPSecretPut(secretEnc, r.Context())

		return renderNode("OTPEnable", w, pages.OTPEnable(data, otpKey.Issuer(), otpKey.AccountName(), otpKey.Secret(), imgBase64))
	})
}

func OTPEnablePost(db mdb.DB, key ServerKey) http.Handler {
	return MagmaHandler(func(w http.ResponseWriter, r *http.Request) *MagmaError {
		r.ParseForm()
		otpCode := r.PostFormValue("otpCode")
		otpSecretEnc := db.SessionOTPSecretGet(r.Context())
		data := db.UserSessionDataGet(r.Context())

		otpSecret, err := key.Open(r.Context(), otpSecretEnc)
		if err != nil {
			return &MagmaError{"OTPEnablePost", "failed to decrypt", err, http.StatusInternalServerError}
		}

		if !totp.Validate(otpCode, string(otpSecret)) {
			return renderError("OTPEnablePost", w, "errorInvalid", "The code is invalid, try enrolling again in your app")
		}

		err = db.UserOTPSecretInsert(r.Context(), data.Username, otpSecretEnc)
		if err != nil {
			return &MagmaError{"OTPEnablePost", "failed to insert otp", err, http.StatusInternalServerError}
		}

		data.IsOTPEnabled = true

		db.UserTokenRenew(r.Context())
		db.SessionOTPSecretRemove(r.Context())
		db.UserSessionDataSet(data, r.Context())

		HTMXRedirect(w, "/user")
		return nil
	})
}

func OTPDisable(db mdb.DB) http.Handler {
	return MagmaHandler(func(w http.ResponseWriter, r *http.Request) *MagmaError {
		data := db.UserSessionDataGet(r.Context())
		return renderNode("OTPDisable", w, pages.OTPDisable(data))
	})
}

func OTPDisablePost(db mdb.DB, key ServerKey) http.Handler {
	return MagmaHandler(func(w http.ResponseWriter, r *http.Request) *MagmaError {
		r.ParseForm()
		otpCode := r.PostFormValue("otpCode")
		data := db.UserSessionDataGet(r.Context())

		valid, err := OTPValidate(r.Context(), data.Username, otpCode, db, key)
		if err != nil {
			return &MagmaError{"OTPDisablePost", "failed to validate otp", err, http.StatusInternalServerError}
		}
		if !valid {
			return renderError("OTPDisablePost", w, "errorInvalid", "The code is invalid")
		}

		err = db.UserOTPSecretDelete(r.Context(), data.Username)
		if err != nil {
			return &MagmaError{"OTPDisablePost", "failed to delete row", err, http.StatusInternalServerError}
		}

		data.IsOTPEnabled = false

		db.UserTokenRenew(r.Context())
		db.UserSessionDataSet(data, r.Context())

		HTMXRedirect(w, "/user")
		return nil
	})
}
