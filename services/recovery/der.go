package recovery

import (
	"encoding/hex"
	"strings"

	"github.com/bsv-blockchain/walletrecovery/errors"
	"github.com/bsv-blockchain/walletrecovery/settings"
)

const scalarHexLength = 64

// DERExtractor finds the 32 byte scalar of a SEC1 EC private key inside a hex blob. Only the fixed size encoding
// is supported: a marker followed directly by the 32 scalar bytes. Scalars whose DER integer carries a 0x00 pad
// have a different header and are not found.
type DERExtractor struct {
	marker string
}

func NewDERExtractor(marker string) (*DERExtractor, error) {
	marker = strings.ToLower(strings.TrimSpace(marker))

	if marker == "" || len(marker)%2 != 0 {
		return nil, errors.NewConfigurationError("invalid DER marker %q", marker)
	}

	if _, err := hex.DecodeString(marker); err != nil {
		return nil, errors.NewConfigurationError("invalid DER marker %q", marker, err)
	}

	return &DERExtractor{marker: marker}, nil
}

// ExtractDERKey uses the default marker 308201130201010420.
func ExtractDERKey(valueHex string) (string, error) {
	e := &DERExtractor{marker: settings.DefaultDERMarker}
	return e.Extract(valueHex)
}

// Extract returns the 64 lower case hex characters following the first marker in valueHex.
func (e *DERExtractor) Extract(valueHex string) (string, error) {
	valueHex = strings.ToLower(valueHex)

	idx := strings.Index(valueHex, e.marker)
	if idx < 0 {
		return "", errors.NewKeyNotFoundError("no DER private key marker found")
	}

	start := idx + len(e.marker)

	if len(valueHex)-start < scalarHexLength {
		return "", errors.NewInvalidKeyLengthError("DER private key truncated: %d hex characters after marker", len(valueHex)-start)
	}

	keyHex := valueHex[start : start+scalarHexLength]

	if _, err := hex.DecodeString(keyHex); err != nil {
		return "", errors.NewInvalidKeyError("DER private key is not hex", err)
	}

	return keyHex, nil
}
