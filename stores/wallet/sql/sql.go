// Package sql reads Bitcoin Core descriptor wallets, which are SQLite databases holding a single
// main(key BLOB, value BLOB) table.
package sql

import (
	"context"
	"database/sql"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bsv-blockchain/walletrecovery/errors"
	"github.com/bsv-blockchain/walletrecovery/model"
	"github.com/bsv-blockchain/walletrecovery/stores/wallet/records"
	"github.com/bsv-blockchain/walletrecovery/ulogger"
	"github.com/bsv-blockchain/walletrecovery/util/retry"
	"github.com/bsv-blockchain/walletrecovery/util/usql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	openAttempts = 3
	openBackoff  = 500 * time.Millisecond
)

const (
	schemaQuery  = `SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'main'`
	allQuery    = `SELECT key, value FROM main`
	prefixQuery = `SELECT key, value FROM main WHERE hex(key) LIKE ?`
)

type Store struct {
	logger ulogger.Logger
	db     *usql.DB
	path   string
}

// New opens the wallet file at path read-only and checks that it holds a main table.
func New(ctx context.Context, logger ulogger.Logger, path string) (*Store, error) {
	filename, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.NewStoreAccessError("failed to get absolute path for wallet %s", path, err)
	}

	fi, err := os.Stat(filename)
	if err != nil {
		return nil, errors.NewStoreAccessError("could not open wallet %s", filename, err)
	}

	if fi.IsDir() {
		return nil, errors.NewStoreAccessError("wallet %s is a directory", filename)
	}

	dsn := DSN(filename)

	logger.Infof("Using sqlite wallet: %s", filename)

	// a running node keeps the wallet locked while it flushes
	s, err := retry.Retry(ctx, logger, func() (*Store, error) {
		return open(ctx, logger, dsn)
	},
		retry.WithRetryCount(openAttempts),
		retry.WithBackoffDurationType(openBackoff),
		retry.WithMessage("[sql] wallet "+filename+" is busy, retrying"),
		retry.WithRetryIf(isBusy),
	)
	if err != nil {
		return nil, err
	}

	s.path = filename

	return s, nil
}

// DSN is the read-only sqlite URI of filename. Characters such as ? and # in the path are escaped so that
// sqlite does not read them as the start of the query or fragment.
func DSN(filename string) string {
	p := filepath.ToSlash(filename)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}

	// never write to the wallet being recovered
	return (&url.URL{Scheme: "file", Path: p, RawQuery: "mode=ro"}).String()
}

func open(ctx context.Context, logger ulogger.Logger, dsn string) (*Store, error) {
	db, err := usql.Open(ctx, "sqlite", dsn)
	if err != nil {
		return nil, errors.NewStoreAccessError("failed to open sqlite wallet", err)
	}

	db.SetMaxOpenConns(1)

	s, err := NewWithDB(ctx, logger, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// isBusy reports whether err is SQLITE_BUSY or SQLITE_LOCKED, including their extended codes.
func isBusy(err error) bool {
	var sErr *sqlite.Error
	if !errors.As(err, &sErr) {
		return false
	}

	switch sErr.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return true
	default:
		return false
	}
}

// NewWithDB wraps an already opened database, it is used with sqlmock in tests.
func NewWithDB(ctx context.Context, logger ulogger.Logger, db *usql.DB) (*Store, error) {
	var name string

	if err := db.QueryRowContext(ctx, schemaQuery).Scan(&name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewStoreAccessError("not a wallet store, table main is missing")
		}

		return nil, errors.NewStoreAccessError("not a valid sqlite wallet", err)
	}

	return &Store{
		logger: logger,
		db:     db,
	}, nil
}

func (s *Store) Records(ctx context.Context) (records.Iterator, error) {
	rows, err := s.db.QueryContext(ctx, allQuery)
	if err != nil {
		return nil, errors.NewStoreAccessError("failed to read wallet records", err)
	}

	return &iterator{ctx: ctx, rows: rows}, nil
}

func (s *Store) RecordsWithPrefix(ctx context.Context, pattern records.HexPrefix) (records.Iterator, error) {
	if err := pattern.Validate(); err != nil {
		return nil, err
	}

	prefix := pattern.Normalize()
	if prefix == "" {
		return s.Records(ctx)
	}

	// hex() returns upper case, LIKE is case-insensitive for ASCII but keep the argument canonical
	rows, err := s.db.QueryContext(ctx, prefixQuery, strings.ToUpper(prefix)+"%")
	if err != nil {
		return nil, errors.NewStoreAccessError("failed to read wallet records with prefix %s", prefix, err)
	}

	return &iterator{ctx: ctx, rows: rows}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}

	if err := s.db.Close(); err != nil {
		return errors.NewStoreAccessError("failed to close wallet %s", s.path, err)
	}

	return nil
}

type iterator struct {
	ctx    context.Context
	rows   *sql.Rows
	record model.Record
	err    error
}

func (it *iterator) Next() bool {
	if it.err != nil || it.rows == nil {
		return false
	}

	if err := it.ctx.Err(); err != nil {
		it.err = err
		return false
	}

	if !it.rows.Next() {
		if err := it.rows.Err(); err != nil {
			it.err = errors.NewStoreAccessError("failed to iterate wallet records", err)
		}

		return false
	}

	var key, value []byte

	if err := it.rows.Scan(&key, &value); err != nil {
		it.err = errors.NewStoreAccessError("failed to scan wallet record", err)
		return false
	}

	it.record = model.NewRecord(key, value)

	return true
}

func (it *iterator) Record() model.Record {
	return it.record
}

func (it *iterator) Err() error {
	return it.err
}

func (it *iterator) Release() {
	if it.rows != nil {
		_ = it.rows.Close()
		it.rows = nil
	}
}
