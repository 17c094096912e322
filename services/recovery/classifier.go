package recovery

import (
	"bytes"
	"sort"
	"strings"

	"github.com/bsv-blockchain/walletrecovery/model"
	"github.com/bsv-blockchain/walletrecovery/stores/wallet/records"
)

const (
	// MarkerDescriptorKey is the 0x13 "walletdescriptorkey" prefix of unencrypted descriptor keys
	MarkerDescriptorKey = "1377616c6c657464657363726970746f726b6579"

	// MarkerDescriptorCKey is the 0x14 "walletdescriptorckey" prefix of encrypted descriptor keys
	MarkerDescriptorCKey = "1477616c6c657464657363726970746f72636b6579"

	// spkKeyPrefix is the length byte of "activeexternalspk" and "activeinternalspk"
	spkKeyPrefix = "11"
)

// Marker maps a hex key prefix to the tag of the records it introduces.
type Marker struct {
	Prefix records.HexPrefix
	Tag    model.Tag
}

// MarkerTable is the ordered list of key prefixes a Classifier checks before its structural rules.
type MarkerTable []Marker

// DescriptorMarkers builds a table tagging every prefix as a descriptor record.
func DescriptorMarkers(prefixes ...string) MarkerTable {
	table := make(MarkerTable, 0, len(prefixes))

	for _, p := range prefixes {
		table = append(table, Marker{Prefix: records.HexPrefix(p), Tag: model.TagDescriptor})
	}

	return table
}

// DefaultMarkerTable returns the descriptor markers followed by the descriptor key markers.
func DefaultMarkerTable(descriptorPrefixes ...string) MarkerTable {
	table := DescriptorMarkers(descriptorPrefixes...)

	return append(table,
		Marker{Prefix: MarkerDescriptorKey, Tag: model.TagDescriptorKey},
		Marker{Prefix: MarkerDescriptorCKey, Tag: model.TagDescriptorCKey},
	)
}

// Classifier tags wallet records. It holds no state beyond its marker table, the same record always gets the same tag.
type Classifier struct {
	markers MarkerTable
}

// NewClassifier sorts the markers longest first, so a more specific prefix wins over a shorter one.
func NewClassifier(markers ...Marker) *Classifier {
	table := make(MarkerTable, 0, len(markers))

	for _, m := range markers {
		if m.Prefix.Validate() != nil || m.Prefix.Normalize() == "" {
			continue
		}

		table = append(table, Marker{Prefix: records.HexPrefix(m.Prefix.Normalize()), Tag: m.Tag})
	}

	sort.SliceStable(table, func(i, j int) bool {
		return len(table[i].Prefix) > len(table[j].Prefix)
	})

	return &Classifier{markers: table}
}

// Markers returns the table in the order it is checked.
func (c *Classifier) Markers() MarkerTable {
	return append(MarkerTable(nil), c.markers...)
}

// Match returns the first marker whose prefix the record key starts with.
func (c *Classifier) Match(r model.Record) (Marker, bool) {
	for _, m := range c.markers {
		if m.Prefix.Matches(r.Key()) {
			return m, true
		}
	}

	return Marker{}, false
}

func (c *Classifier) Classify(r model.Record) model.Tag {
	key := r.Key()
	if len(key) == 0 {
		return model.TagUnrecognized
	}

	if m, ok := c.Match(r); ok {
		return m.Tag
	}

	if IsPublicKey(key) {
		return model.TagPublicKey
	}

	if strings.HasPrefix(r.KeyHex(), spkKeyPrefix) && bytes.Contains(key, []byte("spk")) {
		return model.TagSPK
	}

	return model.TagUnrecognized
}

// IsPublicKey reports whether key looks like a SEC1 compressed point, 33 or 34 bytes starting with 0x02 or 0x03.
func IsPublicKey(key []byte) bool {
	if len(key) != 33 && len(key) != 34 {
		return false
	}

	return key[0] == 0x02 || key[0] == 0x03
}
