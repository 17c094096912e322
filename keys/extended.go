package keys

import (
	"bytes"
	"encoding/binary"
	"sort"
	"strings"

	"github.com/bsv-blockchain/go-chaincfg"
	base58 "github.com/bsv-blockchain/go-sdk/compat/base58"
	"github.com/bsv-blockchain/walletrecovery/errors"
	"github.com/bsv-blockchain/walletrecovery/model"
)

const (
	// ExtendedKeyLength is the decoded size of a serialized extended key including its checksum
	ExtendedKeyLength = 82

	minExtendedKeyChars = 100
	maxExtendedKeyChars = 120

	base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"
)

var extendedKeyPrefixes = [][]byte{[]byte("xpub"), []byte("xprv"), []byte("tpub"), []byte("tprv")}

// FoundExtendedKey is an extended key located inside a larger blob.
type FoundExtendedKey struct {
	Offset int
	Text   string
	Key    *model.ExtendedKey
}

// isPrivateVersion reports whether version is a known private key id, known is false for unknown versions.
func isPrivateVersion(version []byte) (private bool, known bool) {
	for _, params := range []*chaincfg.Params{&chaincfg.MainNetParams, &chaincfg.TestNetParams} {
		if bytes.Equal(version, params.HDPrivateKeyID[:]) {
			return true, true
		}

		if bytes.Equal(version, params.HDPublicKeyID[:]) {
			return false, true
		}
	}

	return false, false
}

// DecodeExtendedKey splits a base58 xpub, xprv, tpub or tprv into its BIP32 fields.
func DecodeExtendedKey(s string) (*model.ExtendedKey, error) {
	decoded, err := base58.Decode(s)
	if err != nil {
		return nil, errors.NewInvalidKeyError("invalid base58 extended key", err)
	}

	if len(decoded) != ExtendedKeyLength {
		return nil, errors.NewInvalidKeyLengthError("extended key must decode to %d bytes, got %d", ExtendedKeyLength, len(decoded))
	}

	payload := decoded[:ExtendedKeyLength-checksumLength]
	if !bytes.Equal(decoded[ExtendedKeyLength-checksumLength:], Checksum(payload)) {
		return nil, errors.NewChecksumError("extended key checksum mismatch")
	}

	private, known := isPrivateVersion(payload[0:4])
	if !known {
		return nil, errors.NewInvalidKeyError("unknown extended key version %x", payload[0:4])
	}

	key := &model.ExtendedKey{
		Depth:       payload[4],
		ChildNumber: binary.BigEndian.Uint32(payload[9:13]),
		Private:     private,
	}

	copy(key.Version[:], payload[0:4])
	copy(key.ParentFingerprint[:], payload[5:9])
	copy(key.ChainCode[:], payload[13:45])
	copy(key.KeyData[:], payload[45:78])

	if private {
		if key.KeyData[0] != 0x00 {
			return nil, errors.NewInvalidKeyError("private extended key data must start with 0x00")
		}

		if err = ValidatePrivateKey(key.KeyData[1:]); err != nil {
			return nil, err
		}
	} else if key.KeyData[0] != 0x02 && key.KeyData[0] != 0x03 {
		return nil, errors.NewInvalidKeyError("public extended key data must be a compressed point")
	}

	return key, nil
}

// FindExtendedKeys scans blob for embedded extended keys and returns the ones that decode, ordered by offset.
func FindExtendedKeys(blob []byte) []FoundExtendedKey {
	var found []FoundExtendedKey

	for _, prefix := range extendedKeyPrefixes {
		start := 0

		for {
			idx := bytes.Index(blob[start:], prefix)
			if idx < 0 {
				break
			}

			offset := start + idx
			run := base58Run(blob[offset:], maxExtendedKeyChars)

			// trailing base58 characters may belong to whatever follows the key, so shorten until it decodes
			for n := len(run); n >= minExtendedKeyChars; n-- {
				if key, err := DecodeExtendedKey(string(run[:n])); err == nil {
					found = append(found, FoundExtendedKey{Offset: offset, Text: string(run[:n]), Key: key})
					break
				}
			}

			start = offset + len(prefix)
		}
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].Offset < found[j].Offset
	})

	return found
}

func base58Run(b []byte, limit int) []byte {
	n := 0

	for n < len(b) && n < limit && strings.IndexByte(base58Alphabet, b[n]) >= 0 {
		n++
	}

	return b[:n]
}
