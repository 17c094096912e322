package keys

import (
	"fmt"
	"strconv"
	"strings"

	safeconversion "github.com/bsv-blockchain/go-safe-conversion"
	"github.com/bsv-blockchain/walletrecovery/errors"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

// MaxDeriveCount caps the number of children DeriveRange returns in one call
const MaxDeriveCount = 1000

// DerivedKey is a child of an extended key.
type DerivedKey struct {
	Path       string
	Extended   string
	PublicKey  []byte
	PrivateKey []byte // nil when the parent is public
}

// ParsePath splits a BIP32 path such as m/84'/0'/0'/0 into child indexes. Hardened segments end in ' or h.
// An empty path or "m" is the key itself.
func ParsePath(path string) ([]uint32, error) {
	path = strings.TrimSpace(path)
	path = strings.TrimPrefix(strings.TrimPrefix(path, "m"), "/")

	if path == "" {
		return nil, nil
	}

	segments := strings.Split(path, "/")
	indexes := make([]uint32, 0, len(segments))

	for _, segment := range segments {
		hardened := strings.HasSuffix(segment, "'") || strings.HasSuffix(segment, "h") || strings.HasSuffix(segment, "H")
		if hardened {
			segment = segment[:len(segment)-1]
		}

		val, err := strconv.ParseUint(segment, 10, 32)
		if err != nil || val >= hdkeychain.HardenedKeyStart {
			return nil, errors.NewInvalidArgumentError("invalid path segment %q in %q", segment, path)
		}

		index := uint32(val)
		if hardened {
			index += hdkeychain.HardenedKeyStart
		}

		indexes = append(indexes, index)
	}

	return indexes, nil
}

// FormatPath is the inverse of ParsePath, hardened indexes are written with '.
func FormatPath(indexes []uint32) string {
	var sb strings.Builder

	sb.WriteString("m")

	for _, index := range indexes {
		if index >= hdkeychain.HardenedKeyStart {
			_, _ = fmt.Fprintf(&sb, "/%d'", index-hdkeychain.HardenedKeyStart)
		} else {
			_, _ = fmt.Fprintf(&sb, "/%d", index)
		}
	}

	return sb.String()
}

// DerivePath derives the key at path below the serialized extended key.
func DerivePath(extendedKey string, path string) (*DerivedKey, error) {
	indexes, err := ParsePath(path)
	if err != nil {
		return nil, err
	}

	key, err := hdkeychain.NewKeyFromString(strings.TrimSpace(extendedKey))
	if err != nil {
		return nil, errors.NewInvalidKeyError("invalid extended key", err)
	}

	if key, err = deriveIndexes(key, indexes); err != nil {
		return nil, err
	}

	return newDerivedKey(key, FormatPath(indexes))
}

// DeriveRange derives the count non-hardened children start, start+1, ... of the key at path. With a path of
// m/84'/0'/0'/0 these are the first receive keys of a BIP84 account.
func DeriveRange(extendedKey string, path string, start uint32, count int) ([]DerivedKey, error) {
	if count <= 0 || count > MaxDeriveCount {
		return nil, errors.NewInvalidArgumentError("count must be between 1 and %d, got %d", MaxDeriveCount, count)
	}

	if uint64(start)+uint64(count) > hdkeychain.HardenedKeyStart {
		return nil, errors.NewInvalidArgumentError("range %d+%d runs into hardened indexes", start, count)
	}

	indexes, err := ParsePath(path)
	if err != nil {
		return nil, err
	}

	parent, err := hdkeychain.NewKeyFromString(strings.TrimSpace(extendedKey))
	if err != nil {
		return nil, errors.NewInvalidKeyError("invalid extended key", err)
	}

	if parent, err = deriveIndexes(parent, indexes); err != nil {
		return nil, err
	}

	derived := make([]DerivedKey, 0, count)

	for i := 0; i < count; i++ {
		offset, err := safeconversion.IntToUint32(i)
		if err != nil {
			return nil, errors.NewInvalidArgumentError("child offset %d", i, err)
		}

		index := start + offset

		child, err := parent.Derive(index)
		if err != nil {
			return nil, errors.NewInvalidKeyError("derive child %d", index, err)
		}

		d, err := newDerivedKey(child, FormatPath(append(indexes[:len(indexes):len(indexes)], index)))
		if err != nil {
			return nil, err
		}

		derived = append(derived, *d)
	}

	return derived, nil
}

func deriveIndexes(key *hdkeychain.ExtendedKey, indexes []uint32) (*hdkeychain.ExtendedKey, error) {
	var err error

	for _, index := range indexes {
		if key, err = key.Derive(index); err != nil {
			return nil, errors.NewInvalidKeyError("derive %s", FormatPath([]uint32{index}), err)
		}
	}

	return key, nil
}

func newDerivedKey(key *hdkeychain.ExtendedKey, path string) (*DerivedKey, error) {
	pub, err := key.ECPubKey()
	if err != nil {
		return nil, errors.NewInvalidKeyError("public key of %s", path, err)
	}

	d := &DerivedKey{
		Path:      path,
		Extended:  key.String(),
		PublicKey: pub.SerializeCompressed(),
	}

	if key.IsPrivate() {
		priv, err := key.ECPrivKey()
		if err != nil {
			return nil, errors.NewInvalidKeyError("private key of %s", path, err)
		}

		d.PrivateKey = priv.Serialize()
	}

	return d, nil
}

// Neuter returns the public serialization of a private extended key, public keys are returned unchanged.
func Neuter(extendedKey string) (string, error) {
	key, err := hdkeychain.NewKeyFromString(strings.TrimSpace(extendedKey))
	if err != nil {
		return "", errors.NewInvalidKeyError("invalid extended key", err)
	}

	pub, err := key.Neuter()
	if err != nil {
		return "", errors.NewInvalidKeyError("neuter extended key", err)
	}

	return pub.String(), nil
}
