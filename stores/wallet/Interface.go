// Package wallet provides read access to the key/value records of a wallet file, with SQLite, LevelDB and
// in-memory backends.
package wallet

import (
	"context"

	"github.com/bsv-blockchain/walletrecovery/stores/wallet/records"
)

type (
	Iterator  = records.Iterator
	HexPrefix = records.HexPrefix
)

// Store is a read-only, ordered view of the records in a wallet.
//
// Implementations of this interface include:
// - sql: Bitcoin Core descriptor wallets (SQLite)
// - leveldb: LevelDB wallet directories
// - memory: In-memory records for tests
type Store interface {
	// Records returns an iterator over every record in the store.
	Records(ctx context.Context) (Iterator, error)

	// RecordsWithPrefix returns an iterator over the records whose hex encoded key starts with pattern.
	RecordsWithPrefix(ctx context.Context, pattern HexPrefix) (Iterator, error)

	// Close releases the store, iterators must be released first.
	Close() error
}
