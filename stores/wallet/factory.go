package wallet

import (
	"context"
	"net/url"
	"strings"

	"github.com/bsv-blockchain/walletrecovery/errors"
	"github.com/bsv-blockchain/walletrecovery/stores/wallet/leveldb"
	"github.com/bsv-blockchain/walletrecovery/stores/wallet/memory"
	"github.com/bsv-blockchain/walletrecovery/stores/wallet/sql"
	"github.com/bsv-blockchain/walletrecovery/ulogger"
)

// New opens the store described by storeURL. A bare path is treated as an SQLite wallet file, otherwise the
// scheme selects the backend: sqlite:///path/wallet.dat, leveldb:///path/wallet or memory://.
func New(ctx context.Context, logger ulogger.Logger, storeURL string) (Store, error) {
	if storeURL == "" {
		return nil, errors.NewConfigurationError("no wallet store configured")
	}

	scheme, path, err := parseStoreURL(storeURL)
	if err != nil {
		return nil, err
	}

	var store Store

	switch scheme {
	case "sqlite":
		store, err = sql.New(ctx, logger, path)
	case "leveldb":
		store, err = leveldb.New(logger, path)
	case "memory":
		store = memory.New()
	default:
		return nil, errors.NewConfigurationError("wallet: unknown store scheme: %s", scheme)
	}

	if err != nil {
		return nil, err
	}

	return store, nil
}

func parseStoreURL(storeURL string) (string, string, error) {
	if !strings.Contains(storeURL, "://") {
		return "sqlite", storeURL, nil
	}

	u, err := url.Parse(storeURL)
	if err != nil {
		return "", "", errors.NewConfigurationError("invalid wallet store url %s", storeURL, err)
	}

	// sqlite://./wallet.dat puts the relative part in the host
	path := u.Host + u.Path

	if u.Scheme != "memory" && path == "" {
		return "", "", errors.NewConfigurationError("wallet store url %s has no path", storeURL)
	}

	return strings.ToLower(u.Scheme), path, nil
}
