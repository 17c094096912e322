package sql

import (
	"context"
	dbsql "database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bsv-blockchain/walletrecovery/errors"
	"github.com/bsv-blockchain/walletrecovery/stores/wallet/records"
	"github.com/bsv-blockchain/walletrecovery/ulogger"
	"github.com/bsv-blockchain/walletrecovery/util/usql"
	"github.com/stretchr/testify/require"
)

func createWallet(t *testing.T, rows map[string][]byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "wallet.dat")

	db, err := dbsql.Open("sqlite", path)
	require.NoError(t, err)

	defer db.Close()

	_, err = db.Exec(`CREATE TABLE main (key BLOB PRIMARY KEY NOT NULL, value BLOB NOT NULL)`)
	require.NoError(t, err)

	for k, v := range rows {
		_, err = db.Exec(`INSERT INTO main (key, value) VALUES (?, ?)`, []byte(k), v)
		require.NoError(t, err)
	}

	return path
}

func TestSQLStore(t *testing.T) {
	ctx := context.Background()

	path := createWallet(t, map[string][]byte{
		"\x10walletdescriptor\x01": []byte("\x20wpkh(xpub6ABC)"),
		"\x13walletdescriptorkey":  []byte("der"),
		"\x02abc":                  []byte("pub"),
	})

	s, err := New(ctx, ulogger.TestLogger{}, path)
	require.NoError(t, err)

	defer func() {
		require.NoError(t, s.Close())
	}()

	t.Run("all records", func(t *testing.T) {
		it, err := s.Records(ctx)
		require.NoError(t, err)

		all, err := records.Collect(it)
		require.NoError(t, err)
		require.Len(t, all, 3)
	})

	t.Run("prefix is case-insensitive", func(t *testing.T) {
		it, err := s.RecordsWithPrefix(ctx, "1077616C6C6574%")
		require.NoError(t, err)

		all, err := records.Collect(it)
		require.NoError(t, err)
		require.Len(t, all, 1)
		require.Equal(t, []byte("\x20wpkh(xpub6ABC)"), all[0].Value())
	})

	t.Run("odd nibble prefix", func(t *testing.T) {
		it, err := s.RecordsWithPrefix(ctx, "1")
		require.NoError(t, err)

		all, err := records.Collect(it)
		require.NoError(t, err)
		require.Len(t, all, 2)
	})

	t.Run("invalid prefix", func(t *testing.T) {
		_, err := s.RecordsWithPrefix(ctx, "zz")
		require.ErrorIs(t, err, errors.ErrInvalidArgument)
	})

	t.Run("cancelled context stops iteration", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)

		it, err := s.Records(cctx)
		require.NoError(t, err)

		cancel()

		require.False(t, it.Next())
		require.ErrorIs(t, it.Err(), context.Canceled)
		it.Release()
	})
}

func TestSQLStoreOpenErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file", func(t *testing.T) {
		_, err := New(ctx, ulogger.TestLogger{}, filepath.Join(t.TempDir(), "missing.dat"))
		require.ErrorIs(t, err, errors.ErrStoreAccess)
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := New(ctx, ulogger.TestLogger{}, t.TempDir())
		require.ErrorIs(t, err, errors.ErrStoreAccess)
	})

	t.Run("not a database", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "garbage.dat")
		require.NoError(t, os.WriteFile(path, []byte("this is not an sqlite file, just some text padding it out"), 0o600))

		_, err := New(ctx, ulogger.TestLogger{}, path)
		require.ErrorIs(t, err, errors.ErrStoreAccess)
	})

	t.Run("no main table", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "other.dat")

		db, err := dbsql.Open("sqlite", path)
		require.NoError(t, err)
		_, err = db.Exec(`CREATE TABLE other (id INTEGER)`)
		require.NoError(t, err)
		require.NoError(t, db.Close())

		_, err = New(ctx, ulogger.TestLogger{}, path)
		require.ErrorIs(t, err, errors.ErrStoreAccess)
		require.Contains(t, err.Error(), "table main is missing")
	})
}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)

	mock.ExpectQuery(schemaQuery).WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("main"))

	s, err := NewWithDB(context.Background(), ulogger.TestLogger{}, usql.Wrap(db))
	require.NoError(t, err)

	return s, mock
}

func TestSQLStoreFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("query error", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(allQuery).WillReturnError(dbsql.ErrConnDone)

		_, err := s.Records(ctx)
		require.ErrorIs(t, err, errors.ErrStoreAccess)
		require.ErrorIs(t, err, dbsql.ErrConnDone)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("row error", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(prefixQuery).WithArgs("10AB%").WillReturnRows(
			sqlmock.NewRows([]string{"key", "value"}).
				AddRow([]byte{0x10, 0xab}, []byte{0x01}).
				AddRow([]byte{0x10, 0xab, 0x01}, []byte{0x02}).
				RowError(1, dbsql.ErrTxDone),
		)

		it, err := s.RecordsWithPrefix(ctx, "10ab*")
		require.NoError(t, err)

		require.True(t, it.Next())
		require.Equal(t, "10ab", it.Record().KeyHex())
		require.False(t, it.Next())
		require.ErrorIs(t, it.Err(), errors.ErrStoreAccess)
		it.Release()
	})

	t.Run("schema query error", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
		require.NoError(t, err)

		mock.ExpectQuery(schemaQuery).WillReturnError(dbsql.ErrConnDone)

		_, err = NewWithDB(ctx, ulogger.TestLogger{}, usql.Wrap(db))
		require.ErrorIs(t, err, errors.ErrStoreAccess)
	})
}

func TestIsBusy(t *testing.T) {
	require.False(t, isBusy(nil))
	require.False(t, isBusy(errors.NewStoreAccessError("plain")))
	require.False(t, isBusy(dbsql.ErrNoRows))

	path := filepath.Join(t.TempDir(), "garbage.dat")
	require.NoError(t, os.WriteFile(path, []byte("this is not an sqlite file, just some text padding it out"), 0o600))

	// SQLITE_NOTADB is reported by the driver but is not worth retrying
	_, err := open(context.Background(), ulogger.TestLogger{}, "file:"+path+"?mode=ro")
	require.Error(t, err)
	require.False(t, isBusy(err))
}

func TestDSN(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{name: "plain", filename: "/tmp/wallet.dat", want: "file:///tmp/wallet.dat?mode=ro"},
		{name: "query and fragment", filename: "/tmp/a?b#c/wallet.dat", want: "file:///tmp/a%3Fb%23c/wallet.dat?mode=ro"},
		{name: "space and percent", filename: "/tmp/my wallet/100%.dat", want: "file:///tmp/my%20wallet/100%25.dat?mode=ro"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, DSN(tt.filename))
		})
	}
}

func TestSQLStoreAwkwardPath(t *testing.T) {
	ctx := context.Background()

	created := createWallet(t, map[string][]byte{
		"\x10walletdescriptor\x01": []byte("\x20wpkh(xpub6ABC)"),
	})

	dir := filepath.Join(t.TempDir(), "backup?copy#1 100%")
	require.NoError(t, os.Mkdir(dir, 0o700))

	path := filepath.Join(dir, "wallet.dat")
	require.NoError(t, os.Rename(created, path))

	s, err := New(ctx, ulogger.TestLogger{}, path)
	require.NoError(t, err)

	defer func() {
		require.NoError(t, s.Close())
	}()

	it, err := s.Records(ctx)
	require.NoError(t, err)

	all, err := records.Collect(it)
	require.NoError(t, err)
	require.Len(t, all, 1)

	// an unescaped path would have created a new database named "backup"
	_, err = os.Stat(filepath.Join(filepath.Dir(dir), "backup"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
