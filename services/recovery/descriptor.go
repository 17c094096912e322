package recovery

import (
	"strings"
	"unicode/utf8"

	"github.com/bsv-blockchain/walletrecovery/errors"
	"github.com/bsv-blockchain/walletrecovery/model"
)

var (
	descriptorFunctions = []string{"pkh(", "wpkh("}

	// checked in order, the first prefix present decides the embedded key
	extendedKeyPrefixes = []string{"xpub", "xprv", "tpub", "tprv"}
)

// DecodeDescriptor decodes the value of a descriptor record, ok is false when the record is not a pkh or wpkh descriptor.
func DecodeDescriptor(r model.Record) (model.Descriptor, bool) {
	d, err := ParseDescriptor(r.Value())
	if err != nil {
		return model.Descriptor{}, false
	}

	return d, true
}

// ParseDescriptor drops the leading length byte of value and decodes the rest as text. Invalid UTF-8 is replaced by
// U+FFFD, so only the absence of a pkh( or wpkh( function makes it fail.
func ParseDescriptor(value []byte) (model.Descriptor, error) {
	if len(value) < 2 {
		return model.Descriptor{}, errors.NewDecodeWarning("descriptor value too short: %d bytes", len(value))
	}

	text := string(value[1:])
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, string(utf8.RuneError))
	}

	accepted := false

	for _, fn := range descriptorFunctions {
		if strings.Contains(text, fn) {
			accepted = true
			break
		}
	}

	if !accepted {
		return model.Descriptor{}, errors.NewDecodeWarning("descriptor has no pkh( or wpkh( function")
	}

	d := model.Descriptor{Text: text}
	d.EmbeddedKey, d.HasEmbeddedKey = embeddedKey(text)

	return d, nil
}

// embeddedKey returns the text from the first extended key prefix up to the next ')'. Without a closing
// parenthesis the descriptor is malformed and no key is returned.
func embeddedKey(text string) (string, bool) {
	for _, prefix := range extendedKeyPrefixes {
		start := strings.Index(text, prefix)
		if start < 0 {
			continue
		}

		end := strings.IndexByte(text[start:], ')')
		if end < 0 {
			return "", false
		}

		return text[start : start+end], true
	}

	return "", false
}
