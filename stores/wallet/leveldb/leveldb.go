// Package leveldb reads wallet records from a LevelDB directory, as left behind by legacy wallets and key dumps.
package leveldb

import (
	"context"
	"os"

	"github.com/bsv-blockchain/walletrecovery/errors"
	"github.com/bsv-blockchain/walletrecovery/model"
	"github.com/bsv-blockchain/walletrecovery/stores/wallet/records"
	"github.com/bsv-blockchain/walletrecovery/ulogger"
	"github.com/btcsuite/goleveldb/leveldb"
	"github.com/btcsuite/goleveldb/leveldb/iterator"
	"github.com/btcsuite/goleveldb/leveldb/opt"
	"github.com/btcsuite/goleveldb/leveldb/util"
)

type Store struct {
	logger ulogger.Logger
	db     *leveldb.DB
	path   string
}

func New(logger ulogger.Logger, path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.NewStoreAccessError("could not open leveldb wallet %s", path, err)
	}

	// open leveldb without compression and read only, so the files on disk are left untouched
	opts := &opt.Options{
		Compression:    opt.NoCompression,
		ReadOnly:       true,
		ErrorIfMissing: true,
	}

	logger.Infof("Opening LevelDB wallet at %s", path)

	db, err := leveldb.OpenFile(path, opts)
	if err != nil {
		return nil, errors.NewStoreAccessError("couldn't open LevelDB wallet %s", path, err)
	}

	return &Store{
		logger: logger,
		db:     db,
		path:   path,
	}, nil
}

func (s *Store) Records(ctx context.Context) (records.Iterator, error) {
	return &recordIterator{ctx: ctx, iter: s.db.NewIterator(nil, nil)}, nil
}

func (s *Store) RecordsWithPrefix(ctx context.Context, pattern records.HexPrefix) (records.Iterator, error) {
	prefix, odd, err := pattern.Bytes()
	if err != nil {
		return nil, err
	}

	var slice *util.Range
	if len(prefix) > 0 {
		slice = util.BytesPrefix(prefix)
	}

	it := &recordIterator{ctx: ctx, iter: s.db.NewIterator(slice, nil)}

	// the byte range cannot express a half byte, those keys are filtered one by one
	if odd {
		it.filter = pattern
	}

	return it, nil
}

func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return errors.NewStoreAccessError("failed to close LevelDB wallet %s", s.path, err)
	}

	return nil
}

type recordIterator struct {
	ctx    context.Context
	iter   iterator.Iterator
	filter records.HexPrefix
	record model.Record
	err    error
}

func (it *recordIterator) Next() bool {
	for {
		if it.err != nil || it.iter == nil {
			return false
		}

		if err := it.ctx.Err(); err != nil {
			it.err = err
			return false
		}

		if !it.iter.Next() {
			if err := it.iter.Error(); err != nil {
				it.err = errors.NewStoreAccessError("failed to iterate LevelDB wallet", err)
			}

			return false
		}

		if it.filter != "" && !it.filter.Matches(it.iter.Key()) {
			continue
		}

		// goleveldb reuses key and value buffers between calls to Next
		it.record = model.NewRecord(it.iter.Key(), it.iter.Value())

		return true
	}
}

func (it *recordIterator) Record() model.Record {
	return it.record
}

func (it *recordIterator) Err() error {
	return it.err
}

func (it *recordIterator) Release() {
	if it.iter != nil {
		it.iter.Release()
		it.iter = nil
	}
}
