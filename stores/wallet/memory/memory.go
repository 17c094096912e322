// Package memory provides an in-memory wallet store, ordered by key, for tests and fixtures.
package memory

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/bsv-blockchain/walletrecovery/model"
	"github.com/bsv-blockchain/walletrecovery/stores/wallet/records"
)

type Memory struct {
	mu      sync.RWMutex
	records []model.Record
	closed  bool
}

func New(recs ...model.Record) *Memory {
	m := &Memory{}

	for _, r := range recs {
		m.Put(r.Key(), r.Value())
	}

	return m
}

// Put inserts or replaces the value stored under key.
func (m *Memory) Put(key, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r := model.NewRecord(key, value)

	i := sort.Search(len(m.records), func(i int) bool {
		return bytes.Compare(m.records[i].Key(), key) >= 0
	})

	if i < len(m.records) && bytes.Equal(m.records[i].Key(), key) {
		m.records[i] = r
		return
	}

	m.records = append(m.records, model.Record{})
	copy(m.records[i+1:], m.records[i:])
	m.records[i] = r
}

func (m *Memory) Records(ctx context.Context) (records.Iterator, error) {
	return m.RecordsWithPrefix(ctx, "")
}

func (m *Memory) RecordsWithPrefix(_ context.Context, pattern records.HexPrefix) (records.Iterator, error) {
	if err := pattern.Validate(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]model.Record, 0, len(m.records))

	for _, r := range m.records {
		if pattern.Matches(r.Key()) {
			matched = append(matched, r)
		}
	}

	return records.NewSliceIterator(matched), nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	return nil
}

// Closed reports whether Close has been called.
func (m *Memory) Closed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.closed
}
