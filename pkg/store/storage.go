package store

// Storage is the durable key-value backend for panel layouts. It is a
// best-effort cache: callers treat read misses and write failures as
// non-fatal and keep working from memory.
type Storage interface {
	// Get returns the stored value for key, or ok=false when absent.
	Get(key string) (value []byte, ok bool)
	// Set stores value under key, overwriting any previous value.
	Set(key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
	// Keys returns every stored key with the given prefix.
	Keys(prefix string) ([]string, error)
}

// MemoryStorage is an in-memory Storage for tests and ephemeral runs.
type MemoryStorage struct {
	data map[string][]byte
}

// NewMemoryStorage returns an empty in-memory backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

func (m *MemoryStorage) Get(key string) ([]byte, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *MemoryStorage) Set(key string, value []byte) error {
	cp := make([]byte, len(value))
	copy(cp, value)
	m.data[key] = cp
	return nil
}

func (m *MemoryStorage) Delete(key string) error {
	delete(m.data, key)
	return nil
}

func (m *MemoryStorage) Keys(prefix string) ([]string, error) {
	var keys []string
	for k := range m.data {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			keys = append(keys, k)
		}
	}
	return keys, nil
}
