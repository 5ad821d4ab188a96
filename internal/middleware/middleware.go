package middleware

import (
	"net/http"

	"github.com/liondandelion/magma/internal/db"
	mhttp "github.com/liondandelion/magma/internal/http"
)

func Auth(db db.DB) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mhttp.MagmaHandler(func(w http.ResponseWriter, r *http.Request) *mhttp.MagmaError {
			data := db.UserSessionDataGet(r.Context())

			w.Header().Add("Cache-Control", "no-store")

			if !data.IsAuthenticated {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return nil
			}

			next.ServeHTTP(w, r)
			return nil
		})
	}
}

func Admin(db db.DB) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mhttp.MagmaHandler(func(w http.ResponseWriter, r *http.Request) *mhttp.MagmaError {
			data := db.UserSessionDataGet(r.Context())

			if !data.IsAdmin {
				return &mhttp.MagmaError{Where: "Admin", What: "Access denied", Err: nil, Status: http.StatusForbidden}
			}

			w.Header().Add("Cache-Control", "no-store")
			next.ServeHTTP(w, r)
			return nil
		})
	}
}

// EnsureUserExists refreshes the session flags from the database and logs out
// users that were removed or blocked since they signed in.
func EnsureUserExists(db db.DB) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mhttp.MagmaHandler(func(w http.ResponseWriter, r *http.Request) *mhttp.MagmaError {
			db.UserSessionDataCreateIfDoesNotExist(r.Context())
			data := db.UserSessionDataGet(r.Context())

			if data.Username == "" || !data.IsAuthenticated {
				next.ServeHTTP(w, r)
				return nil
			}

			exists, err := db.UserExists(r.Context(), data.Username)
			if err != nil {
				return &mhttp.MagmaError{Where: "EnsureUserExists", What: "failed to query or scan db", Err: err, Status: http.StatusInternalServerError}
			}

			if !exists {
				mhttp.Logout(db).ServeHTTP(w, r)
				return nil
			}

			data.IsBlocked, err = db.UserIsBlocked(r.Context(), data.Username)
			if err != nil {
				return &mhttp.MagmaError{Where: "EnsureUserExists", What: "failed to query or scan db", Err: err, Status: http.StatusInternalServerError}
			}

			if data.IsBlocked {
				mhttp.Logout(db).ServeHTTP(w, r)
				return nil
			}

			data.IsAdmin, err = db.UserIsAdmin(r.Context(), data.Username)
			if err != nil {
				return &mhttp.MagmaError{Where: "EnsureUserExists", What: "failed to query or scan db", Err: err, Status: http.StatusInternalServerError}
			}

			data.IsOTPEnabled, err = db.UserIsOTPEnabled(r.Context(), data.Username)
			if err != nil {
				return &mhttp.MagmaError{Where: "EnsureUserExists", What: "failed to query or scan db", Err: err, Status: http.StatusInternalServerError}
			}

			db.UserSessionDataSet(data, r.Context())

			next.ServeHTTP(w, r)
			return nil
		})
	}
}

func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Content-Security-Policy", "default-src 'self'; img-src 'self' data:; style-src 'self' 'unsafe-inline'")
		w.Header().Add("X-Frame-Options", "DENY")
		w.Header().Add("Strict-Transport-Security", "max-age=63072000; includeSubDomains; preload")
		w.Header().Add("X-Content-Type-Options", "nosniff")
		next.ServeHTTP(w, r)
	})
}
