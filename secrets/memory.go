package secrets

import (
	"context"
	"sync"
)

// MemorySource holds secrets in process memory. It is safe for concurrent use and is
// meant for tests and for embedding gitsync in programs that already hold credentials.
type MemorySource struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemorySource returns a source seeded with a copy of values.
func NewMemorySource(values map[string]string) *MemorySource {
	s := &MemorySource{values: make(map[string]string, len(values))}
	for k, v := range values {
		s.values[k] = v
	}
	return s
}

// Name returns the source identifier.
func (s *MemorySource) Name() string {
	return "memory"
}

// Lookup returns the value stored under key.
func (s *MemorySource) Lookup(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, NewSourceError(s.Name(), key, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	return v, ok, nil
}

// Set stores value under key, replacing any previous value.
func (s *MemorySource) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Delete removes key.
func (s *MemorySource) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// Close drops all stored values.
func (s *MemorySource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.values)
	return nil
}
