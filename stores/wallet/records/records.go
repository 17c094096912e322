// Package records holds the iterator and prefix types shared by every wallet store backend.
package records

import (
	"encoding/hex"
	"strings"

	"github.com/bsv-blockchain/walletrecovery/errors"
	"github.com/bsv-blockchain/walletrecovery/model"
)

// Iterator walks the records of a store once. It follows the goleveldb iterator shape: call Next until it
// returns false, then check Err, and always call Release.
type Iterator interface {
	Next() bool
	Record() model.Record
	Err() error
	Release()
}

// HexPrefix is a "starts with" pattern on the hex encoding of a record key. Matching is case-insensitive,
// a trailing % or * wildcard is accepted and an empty pattern matches every key.
type HexPrefix string

// Normalize returns the lower case pattern with any trailing wildcards removed.
func (p HexPrefix) Normalize() string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(string(p)), "%*"))
}

// Validate checks that the normalized pattern only holds hex digits.
func (p HexPrefix) Validate() error {
	for _, c := range p.Normalize() {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return errors.NewInvalidArgumentError("invalid hex prefix %q", string(p))
		}
	}

	return nil
}

// Matches reports whether key starts with the pattern.
func (p HexPrefix) Matches(key []byte) bool {
	prefix := p.Normalize()
	if prefix == "" {
		return true
	}

	if len(key)*2 < len(prefix) {
		return false
	}

	// only encode as much of the key as the pattern needs
	n := (len(prefix) + 1) / 2

	return strings.HasPrefix(hex.EncodeToString(key[:n]), prefix)
}

// Bytes returns the whole bytes of the pattern and whether a trailing half byte remains to be checked.
func (p HexPrefix) Bytes() ([]byte, bool, error) {
	if err := p.Validate(); err != nil {
		return nil, false, err
	}

	prefix := p.Normalize()
	odd := len(prefix)%2 == 1

	if odd {
		prefix = prefix[:len(prefix)-1]
	}

	b, err := hex.DecodeString(prefix)
	if err != nil {
		return nil, false, errors.NewInvalidArgumentError("invalid hex prefix %q", string(p), err)
	}

	return b, odd, nil
}

// SliceIterator iterates over records held in memory.
type SliceIterator struct {
	records []model.Record
	pos     int
}

func NewSliceIterator(records []model.Record) *SliceIterator {
	return &SliceIterator{records: records, pos: -1}
}

func (it *SliceIterator) Next() bool {
	if it.pos+1 >= len(it.records) {
		it.pos = len(it.records)
		return false
	}

	it.pos++

	return true
}

func (it *SliceIterator) Record() model.Record {
	if it.pos < 0 || it.pos >= len(it.records) {
		return model.Record{}
	}

	return it.records[it.pos]
}

func (it *SliceIterator) Err() error {
	return nil
}

func (it *SliceIterator) Release() {
	it.records = nil
}

// Collect drains an iterator into a slice and releases it.
func Collect(it Iterator) ([]model.Record, error) {
	defer it.Release()

	var result []model.Record

	for it.Next() {
		result = append(result, it.Record())
	}

	return result, it.Err()
}
