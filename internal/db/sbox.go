package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/liondandelion/magma/internal/gost89"
)

// S-boxes are stored row-major, one byte per entry.

func packSBox(s *gost89.SBox) []byte {
	packed := make([]byte, 0, 8*16)
	for _, row := range s {
		packed = append(packed, row[:]...)
	}
	return packed
}

func unpackSBox(packed []byte) (*gost89.SBox, error) {
	if len(packed) != 8*16 {
		return nil, errors.Wrapf(gost89.ErrInvalidSubstitutionTable, "stored table has %d bytes", len(packed))
	}
	rows := make([][]uint8, 8)
	for i := range rows {
		rows[i] = packed[16*i : 16*(i+1)]
	}
	return gost89.NewSBox(rows)
}

func (db DB) SBoxGet(ctx context.Context, name string) (*gost89.SBox, error) {
	var packed []byte
	err := db.pool.QueryRow(ctx, "select rows from sboxes where name = $1", name).Scan(&packed)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errors.Wrapf(ErrNotFound, "sbox %q", name)
	}
	if err != nil {
		return nil, err
	}
	return unpackSBox(packed)
}

func (db DB) SBoxPut(ctx context.Context, name, author string, s *gost89.SBox) error {
	_, err := db.pool.Exec(ctx,
		"insert into sboxes (name, author, rows) values ($1, $2, $3) on conflict (name) do update set author = $2, rows = $3, created_at = now()",
		name, author, packSBox(s))
	return err
}

func (db DB) SBoxDelete(ctx context.Context, name string) error {
	tag, err := db.pool.Exec(ctx, "delete from sboxes where name = $1", name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(ErrNotFound, "sbox %q", name)
	}
	return nil
}

func (db DB) SBoxList(ctx context.Context) ([]SBoxRecord, error) {
	rows, _ := db.pool.Query(ctx, "select name, author, rows, created_at from sboxes order by name")
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (SBoxRecord, error) {
		var r SBoxRecord
		var packed []byte
		if err := row.Scan(&r.Name, &r.Author, &packed, &r.CreatedAt); err != nil {
			return r, err
		}
		s, err := unpackSBox(packed)
		if err != nil {
			return r, errors.Wrap(err, r.Name)
		}
		r.SBox = *s
		return r, nil
	})
}
