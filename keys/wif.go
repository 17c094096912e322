// Package keys converts recovered key material into its interchange encodings: WIF strings, BIP32 extended
// keys and addresses.
package keys

import (
	"bytes"
	"math/big"

	base58 "github.com/bsv-blockchain/go-sdk/compat/base58"
	crypto "github.com/bsv-blockchain/go-sdk/primitives/hash"
	"github.com/bsv-blockchain/walletrecovery/errors"
)

const (
	// PrivateKeyLength is the size of a raw secp256k1 scalar
	PrivateKeyLength = 32

	compressedFlag = 0x01
	checksumLength = 4
)

// curveOrder is the order N of the secp256k1 group
var curveOrder, _ = new(big.Int).SetString("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141", 16)

// WIFPayload is the decoded content of a WIF string.
type WIFPayload struct {
	Version    byte
	Key        []byte
	Compressed bool
}

// Checksum returns the first four bytes of sha256d(b).
func Checksum(b []byte) []byte {
	return crypto.Sha256d(b)[:checksumLength]
}

// EncodeCheck appends the checksum and base58 encodes the result. Every leading zero byte becomes a '1'.
func EncodeCheck(payload []byte) string {
	data := make([]byte, 0, len(payload)+checksumLength)
	data = append(data, payload...)
	data = append(data, Checksum(payload)...)

	return base58.Encode(data)
}

// DecodeCheck base58 decodes s, verifies its checksum and returns the payload without it.
func DecodeCheck(s string) ([]byte, error) {
	decoded, err := base58.Decode(s)
	if err != nil {
		return nil, errors.NewInvalidKeyError("invalid base58 string", err)
	}

	if len(decoded) <= checksumLength {
		return nil, errors.NewInvalidKeyLengthError("decoded base58 too short for checksum: %d bytes", len(decoded))
	}

	payload := decoded[:len(decoded)-checksumLength]
	if !bytes.Equal(decoded[len(decoded)-checksumLength:], Checksum(payload)) {
		return nil, errors.NewChecksumError("checksum mismatch")
	}

	return payload, nil
}

// EncodeWIF encodes a raw private key as version || raw [|| 0x01] || checksum in base58.
func EncodeWIF(raw []byte, version byte, compressed bool) (string, error) {
	if len(raw) != PrivateKeyLength {
		return "", errors.NewInvalidKeyLengthError("private key must be %d bytes, got %d", PrivateKeyLength, len(raw))
	}

	extended := make([]byte, 0, 1+PrivateKeyLength+1)
	extended = append(extended, version)
	extended = append(extended, raw...)

	if compressed {
		extended = append(extended, compressedFlag)
	}

	return EncodeCheck(extended), nil
}

// DecodeWIF reverses EncodeWIF.
func DecodeWIF(s string) (*WIFPayload, error) {
	payload, err := DecodeCheck(s)
	if err != nil {
		return nil, err
	}

	switch len(payload) {
	case 1 + PrivateKeyLength:
		return &WIFPayload{
			Version: payload[0],
			Key:     append([]byte(nil), payload[1:]...),
		}, nil

	case 1 + PrivateKeyLength + 1:
		if payload[len(payload)-1] != compressedFlag {
			return nil, errors.NewInvalidKeyError("invalid compression flag 0x%02x", payload[len(payload)-1])
		}

		return &WIFPayload{
			Version:    payload[0],
			Key:        append([]byte(nil), payload[1:1+PrivateKeyLength]...),
			Compressed: true,
		}, nil

	default:
		return nil, errors.NewInvalidKeyLengthError("invalid WIF payload length %d", len(payload))
	}
}

// ValidatePrivateKey checks that raw is a usable secp256k1 scalar, 0 < k < N.
func ValidatePrivateKey(raw []byte) error {
	if len(raw) != PrivateKeyLength {
		return errors.NewInvalidKeyLengthError("private key must be %d bytes, got %d", PrivateKeyLength, len(raw))
	}

	k := new(big.Int).SetBytes(raw)

	if k.Sign() == 0 {
		return errors.NewInvalidKeyError("private key is zero")
	}

	if k.Cmp(curveOrder) >= 0 {
		return errors.NewInvalidKeyError("private key is not below the curve order")
	}

	return nil
}
