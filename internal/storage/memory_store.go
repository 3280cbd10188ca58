package storage

import (
	"context"
	"sync"
)

// MemoryStore is a map-backed Store for tests and throwaway sessions.
type MemoryStore struct {
	records
	mu   sync.Mutex
	data map[string][]byte

	failWrites error
	writes     int
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{data: map[string][]byte{}}
	s.records = records{kv: memoryKV{s: s}}
	return s
}

// SetFailWrites makes every subsequent save return err until reset with nil.
func (s *MemoryStore) SetFailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrites = err
}

// Writes reports how many key writes have succeeded.
func (s *MemoryStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Has reports whether key has been written.
func (s *MemoryStore) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	return ok
}

type memoryKV struct {
	s *MemoryStore
}

func (k memoryKV) get(_ context.Context, key string) ([]byte, bool, error) {
	k.s.mu.Lock()
	defer k.s.mu.Unlock()
	v, ok := k.s.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (k memoryKV) put(_ context.Context, key string, value []byte) error {
	k.s.mu.Lock()
	defer k.s.mu.Unlock()
	if k.s.failWrites != nil {
		return k.s.failWrites
	}
	v := make([]byte, len(value))
	copy(v, value)
	k.s.data[key] = v
	k.s.writes++
	return nil
}
