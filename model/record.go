package model

import (
	"encoding/hex"
)

// Record is a single key/value pair read verbatim from a wallet store.
type Record struct {
	key   []byte
	value []byte
}

// NewRecord copies key and value, iterators are free to reuse their buffers afterwards.
func NewRecord(key, value []byte) Record {
	return Record{
		key:   append([]byte(nil), key...),
		value: append([]byte(nil), value...),
	}
}

func (r Record) Key() []byte {
	return r.key
}

func (r Record) Value() []byte {
	return r.value
}

// KeyHex returns the lower case hex encoding of the key.
func (r Record) KeyHex() string {
	return hex.EncodeToString(r.key)
}

// ValueHex returns the lower case hex encoding of the value.
func (r Record) ValueHex() string {
	return hex.EncodeToString(r.value)
}
