package kvdb

import (
	"encoding/hex"
	"sync"
)

// memoryKV is an in memory implementation of the kv storage
type memoryKV struct {
	lock sync.RWMutex
	db   map[string][]byte
}

// NewMemoryKV creates an in-memory KV storage
func NewMemoryKV() KVBatchStorage {
	return &memoryKV{db: map[string][]byte{}}
}

func (m *memoryKV) Set(p []byte, v []byte) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.db[hex.EncodeToString(p)] = v

	return nil
}

func (m *memoryKV) Get(p []byte) ([]byte, bool, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	v, ok := m.db[hex.EncodeToString(p)]
	if !ok {
		return nil, false, nil
	}

	return v, true, nil
}

func (m *memoryKV) Close() error {
	return nil
}

type memoryBatch struct {
	db *memoryKV

	keys   [][]byte
	values [][]byte
}

func (m *memoryKV) Batch() KVBatch {
	return &memoryBatch{db: m}
}

func (b *memoryBatch) Set(k, v []byte) {
	b.keys = append(b.keys, k)
	b.values = append(b.values, v)
}

func (b *memoryBatch) Write() error {
	for i, k := range b.keys {
		if err := b.db.Set(k, b.values[i]); err != nil {
			return err
		}
	}

	return nil
}
