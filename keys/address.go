package keys

import (
	"crypto/sha256"

	"github.com/bsv-blockchain/go-bt/v2/bscript"
	"github.com/bsv-blockchain/go-chaincfg"
	bec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/bsv-blockchain/walletrecovery/errors"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"golang.org/x/crypto/ripemd160" //nolint:gosec // ripemd160 is required for Bitcoin address generation
)

// DefaultBech32HRP is the human readable part of mainnet segwit addresses
const DefaultBech32HRP = "bc"

// Addresses are the standard single key addresses of a private key.
type Addresses struct {
	PublicKey []byte
	P2PKH     string
	P2WPKH    string
}

// Hash160 returns ripemd160(sha256(b)).
func Hash160(b []byte) []byte {
	sha256Hash := sha256.Sum256(b)
	ripemd160Hasher := ripemd160.New() //nolint:gosec // ripemd160 is required for Bitcoin address generation
	ripemd160Hasher.Write(sha256Hash[:])

	return ripemd160Hasher.Sum(nil)
}

// CompressedPublicKey returns the 33 byte SEC1 point of raw.
func CompressedPublicKey(raw []byte) ([]byte, error) {
	if err := ValidatePrivateKey(raw); err != nil {
		return nil, err
	}

	_, publicKey := bec.PrivateKeyFromBytes(raw)

	return publicKey.Compressed(), nil
}

// DeriveAddresses returns the P2PKH and P2WPKH addresses of the compressed public key of raw.
func DeriveAddresses(raw []byte, params *chaincfg.Params, hrp string) (*Addresses, error) {
	publicKey, err := CompressedPublicKey(raw)
	if err != nil {
		return nil, err
	}

	return AddressesFromPublicKey(publicKey, params, hrp)
}

// AddressesFromPublicKey returns the P2PKH and P2WPKH addresses of a compressed public key. A nil params means
// mainnet, an empty hrp means DefaultBech32HRP.
func AddressesFromPublicKey(compressedPubKey []byte, params *chaincfg.Params, hrp string) (*Addresses, error) {
	if params == nil {
		params = &chaincfg.MainNetParams
	}

	if hrp == "" {
		hrp = DefaultBech32HRP
	}

	if len(compressedPubKey) != 33 {
		return nil, errors.NewInvalidKeyLengthError("compressed public key must be 33 bytes, got %d", len(compressedPubKey))
	}

	mainnet := params.LegacyPubKeyHashAddrID == chaincfg.MainNetParams.LegacyPubKeyHashAddrID

	address, err := bscript.NewAddressFromPublicKeyHash(Hash160(compressedPubKey), mainnet)
	if err != nil {
		return nil, errors.NewProcessingError("failed to create P2PKH address", err)
	}

	segwit, err := P2WPKHAddress(compressedPubKey, hrp)
	if err != nil {
		return nil, err
	}

	return &Addresses{
		PublicKey: append([]byte(nil), compressedPubKey...),
		P2PKH:     address.AddressString,
		P2WPKH:    segwit,
	}, nil
}

// P2WPKHAddress encodes the witness v0 key hash address of a compressed public key.
func P2WPKHAddress(compressedPubKey []byte, hrp string) (string, error) {
	if len(compressedPubKey) != 33 {
		return "", errors.NewInvalidKeyLengthError("compressed public key must be 33 bytes, got %d", len(compressedPubKey))
	}

	program, err := bech32.ConvertBits(Hash160(compressedPubKey), 8, 5, true)
	if err != nil {
		return "", errors.NewProcessingError("failed to convert witness program", err)
	}

	address, err := bech32.Encode(hrp, append([]byte{0x00}, program...))
	if err != nil {
		return "", errors.NewProcessingError("failed to encode bech32 address", err)
	}

	return address, nil
}
