package model

import (
	"encoding/hex"
	"fmt"
)

// ExtendedKey holds the fields of a serialized BIP32 extended key.
type ExtendedKey struct {
	Version           [4]byte
	Depth             uint8
	ParentFingerprint [4]byte
	ChildNumber       uint32
	ChainCode         [32]byte
	KeyData           [33]byte
	Private           bool
}

// PrivateKey returns the 32 byte scalar of a private extended key, nil for public keys.
func (k *ExtendedKey) PrivateKey() []byte {
	if !k.Private {
		return nil
	}

	return append([]byte(nil), k.KeyData[1:]...)
}

// PublicKey returns the 33 byte compressed point of a public extended key, nil for private keys.
func (k *ExtendedKey) PublicKey() []byte {
	if k.Private {
		return nil
	}

	return append([]byte(nil), k.KeyData[:]...)
}

// IsHardened reports whether the key was derived with a hardened child index.
func (k *ExtendedKey) IsHardened() bool {
	return k.ChildNumber >= 0x80000000
}

func (k *ExtendedKey) String() string {
	kind := "public"
	if k.Private {
		kind = "private"
	}

	return fmt.Sprintf("%s extended key: version=%s depth=%d fingerprint=%s child=%d chaincode=%s",
		kind,
		hex.EncodeToString(k.Version[:]),
		k.Depth,
		hex.EncodeToString(k.ParentFingerprint[:]),
		k.ChildNumber,
		hex.EncodeToString(k.ChainCode[:]),
	)
}
