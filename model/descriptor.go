package model

import (
	"strings"
)

// Descriptor is an output script descriptor decoded from a descriptor record.
type Descriptor struct {
	// ID is the hex of the record key that follows the descriptor marker
	ID   string
	Text string

	// EmbeddedKey is the xpub or xprv found in Text, only valid when HasEmbeddedKey is set
	EmbeddedKey    string
	HasEmbeddedKey bool
}

// IsPrivate reports whether the embedded key is an extended private key.
func (d Descriptor) IsPrivate() bool {
	return d.HasEmbeddedKey && (strings.HasPrefix(d.EmbeddedKey, "xprv") || strings.HasPrefix(d.EmbeddedKey, "tprv"))
}

// ScriptType returns "wpkh" or "pkh" depending on the outer descriptor function.
func (d Descriptor) ScriptType() string {
	if strings.Contains(d.Text, "wpkh(") {
		return "wpkh"
	}

	if strings.Contains(d.Text, "pkh(") {
		return "pkh"
	}

	return ""
}
