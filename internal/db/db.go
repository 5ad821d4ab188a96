package db

import (
	"context"
	_ "embed"
	"encoding/gob"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/liondandelion/magma/internal/gost89"
)

//go:embed schema.sql
var schema string

var ErrNotFound = errors.New("db: not found")

type DB struct {
	pool    *pgxpool.Pool
	session *scs.SessionManager
}

type UserSessionData struct {
	Username                                          string
	IsAuthenticated, IsAdmin, IsOTPEnabled, IsBlocked bool
}

type User struct {
	Username     string
	PasswordHash []byte
	IsAdmin      bool
	IsBlocked    bool
}

type SBoxRecord struct {
	Name      string
	Author    string
	SBox      gost89.SBox
	CreatedAt time.Time
}

func Create(dbPool *pgxpool.Pool, sessionManager *scs.SessionManager) DB {
	gob.Register(UserSessionData{})
	return DB{dbPool, sessionManager}
}

// Migrate creates the tables the service needs if they are missing.
func (db DB) Migrate(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, schema)
	return err
}

func (db DB) UserSessionDataCreateIfDoesNotExist(ctx context.Context) {
	if !db.session.Exists(ctx, "UserSessionData") {
		db.session.Put(ctx, "UserSessionData", UserSessionData{})
	}
}

func (db DB) UserSessionDataGet(ctx context.Context) UserSessionData {
	data, _ := db.session.Get(ctx, "UserSessionData").(UserSessionData)
	return data
}

func (db DB) UserSessionDataSet(data UserSessionData, ctx context.Context) {
	db.session.Put(ctx, "UserSessionData", data)
}

func (db DB) UserSessionDataDestroy(ctx context.Context) error {
	return db.session.Destroy(ctx)
}

func (db DB) UserTokenRenew(ctx context.Context) error {
	return db.session.RenewToken(ctx)
}

func (db DB) UserExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx, "select exists (select 1 from users where username = $1)", username).Scan(&exists)
	return exists, err
}

func (db DB) UserIsAdmin(ctx context.Context, username string) (bool, error) {
	var isAdmin bool
	err := db.pool.QueryRow(ctx, "select is_admin from users where username = $1", username).Scan(&isAdmin)
	return isAdmin, err
}

func (db DB) UserIsBlocked(ctx context.Context, username string) (bool, error) {
	var isBlocked bool
	err := db.pool.QueryRow(ctx, "select is_blocked from users where username = $1", username).Scan(&isBlocked)
	return isBlocked, err
}

func (db DB) UserIsOTPEnabled(ctx context.Context, username string) (bool, error) {
	var isOTPEnabled bool
	err := db.pool.QueryRow(ctx, "select exists (select 1 from otp where username = $1)", username).Scan(&isOTPEnabled)
	return isOTPEnabled, err
}

func (db DB) UserInsert(ctx context.Context, username string, passwordHash []byte, isAdmin bool) error {
	_, err := db.pool.Exec(ctx, "insert into users (username, password_hash, is_admin) values ($1, $2, $3)", username, passwordHash, isAdmin)
	return err
}

func (db DB) UserCount(ctx context.Context) (int, error) {
	var n int
	err := db.pool.QueryRow(ctx, "select count(*) from users").Scan(&n)
	return n, err
}

func (db DB) UserPasswordHashGet(ctx context.Context, username string) ([]byte, error) {
	var passwordHash []byte
	err := db.pool.QueryRow(ctx, "select password_hash from users where username = $1", username).Scan(&passwordHash)
	return passwordHash, err
}

func (db DB) UserPasswordHashSet(ctx context.Context, username string, newHash []byte) error {
	_, err := db.pool.Exec(ctx, "update users set password_hash = $1 where username = $2", newHash, username)
	return err
}

func (db DB) UserTableGet(ctx context.Context) ([]User, error) {
	rows, _ := db.pool.Query(ctx, "select username, password_hash, is_admin, is_blocked from users order by username")
	users, err := pgx.CollectRows(rows, pgx.RowToStructByPos[User])
	return users, err
}

func (db DB) SessionOTPSecretPut(secret []byte, ctx context.Context) {
	db.session.Put(ctx, "otpSecret", secret)
}

func (db DB) SessionOTPSecretGet(ctx context.Context) []byte {
	return db.session.GetBytes(ctx, "otpSecret")
}

func (db DB) SessionOTPSecretRemove(ctx context.Context) {
	db.session.Remove(ctx, "otpSecret")
}

func (db DB) UserOTPSecretInsert(ctx context.Context, username string, otpSecret []byte) error {
	_, err := db.pool.Exec(ctx, "insert into otp (username, otp) values ($1, $2)", username, otpSecret)
	return err
}

func (db DB) UserOTPSecretGet(ctx context.Context, username string) ([]byte, error) {
	var otpSecret []byte
	err := db.pool.QueryRow(ctx, "select otp from otp where username = $1", username).Scan(&otpSecret)
	return otpSecret, err
}

func (db DB) UserOTPSecretDelete(ctx context.Context, username string) error {
	_, err := db.pool.Exec(ctx, "delete from otp where username = $1", username)
	return err
}
