package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/pgxstore"
	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"github.com/liondandelion/magma/internal/config"
	mdb "github.com/liondandelion/magma/internal/db"
	mhttp "github.com/liondandelion/magma/internal/http"
	"github.com/liondandelion/magma/internal/logging"
	mmiddleware "github.com/liondandelion/magma/internal/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Main: unable to load config: %v", err)
	}

	var logOut io.Writer = os.Stderr
	if cfg.LogDir != "" {
		w, err := logging.RotatingWriter(cfg.LogDir, 7*24*time.Hour)
		if err != nil {
			log.Fatalf("Main: unable to open log dir: %v", err)
		}
		logOut = io.MultiWriter(os.Stderr, w)
	}
	err = logging.Setup(logOut, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Main: unable to set up logging: %v", err)
	}

	key, err := mhttp.ReadServerKey(cfg.KeyFile)
	if err != nil {
		log.Fatalf("Main: unable to read server key (generate one with genkey): %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatalf("Main: unable to create connection pool: %v", err)
	}
	defer dbPool.Close()

	sessionManager := scs.New()
	sessionManager.Store = pgxstore.New(dbPool)
	sessionManager.Lifetime = cfg.SessionLifetime

	db := mdb.Create(dbPool, sessionManager)
	err = db.Migrate(ctx)
	if err != nil {
		log.Fatalf("Main: unable to migrate db: %v", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(mmiddleware.SecureHeaders)

	assetsDir := http.Dir(cfg.AssetsDir)
	mhttp.FileServer(r, "/assets", assetsDir)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/encrypt", mhttp.Encrypt(db, key))
		r.Method(http.MethodPost, "/decrypt", mhttp.Decrypt(db, key))
		r.Method(http.MethodPost, "/keymat", mhttp.KeyMat())
		r.Method(http.MethodPost, "/hamming", mhttp.Hamming())
	})

	r.Group(func(r chi.Router) {
		r.Use(sessionManager.LoadAndSave)
		r.Use(mmiddleware.EnsureUserExists(db))

		r.Method(http.MethodGet, "/", mhttp.Index(db))
		r.Method(http.MethodPost, "/cipher", mhttp.CipherForm(db, key))
		r.Method(http.MethodGet, "/sboxes", mhttp.SBoxes(db))

		r.Method(http.MethodGet, "/register", mhttp.Register(db))
		r.Method(http.MethodPost, "/register", mhttp.RegisterPost(db))
		r.Method(http.MethodGet, "/login", mhttp.Login(db))
		r.Method(http.MethodPost, "/login", mhttp.LoginPost(db))
		r.Method(http.MethodPost, "/login/otp", mhttp.LoginOTP(db, key))
		r.Method(http.MethodGet, "/logout", mhttp.Logout(db))

		r.Group(func(r chi.Router) {
			r.Use(mmiddleware.Auth(db))

			r.Method(http.MethodGet, "/user", mhttp.User(db))
			r.Method(http.MethodGet, "/user/password", mhttp.PasswordChange(db))
			r.Method(http.MethodPost, "/user/password", mhttp.PasswordChangePost(db))
			r.Method(http.MethodGet, "/user/otp/enable", mhttp.OTPEnable(db, key))
			r.Method(http.MethodPost, "/user/otp/enable", mhttp.OTPEnablePost(db, key))
			r.Method(http.MethodGet, "/user/otp/disable", mhttp.OTPDisable(db))
			r.Method(http.MethodPost, "/user/otp/disable", mhttp.OTPDisablePost(db, key))

			r.Group(func(r chi.Router) {
				r.Use(mmiddleware.Admin(db))

				r.Method(http.MethodGet, "/userstable", mhttp.UsersTable(db))
				r.Method(http.MethodPut, "/api/sboxes/{name}", mhttp.SBoxPut(db))
				r.Method(http.MethodDelete, "/api/sboxes/{name}", mhttp.SBoxDelete(db))
			})
		})
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Infof("Main: listening on %v", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Main: server failed: %v", err)
	}
}
