package post

import (
	"context"
	"sync"

	"github.com/inklog/internal/docstore"
)

// memConn is an in-memory docstore.Conn with real transaction semantics:
// a transaction stages writes on a copy and publishes them only when the
// closure succeeds. It counts backend calls so tests can assert on them and
// can be told to fail a specific Set.
type memConn struct {
	mu          sync.Mutex
	collections map[string]map[string][]byte

	listCalls   int
	setCalls    int
	deleteCalls int

	setErrs map[string]error
}

var _ docstore.Conn = (*memConn)(nil)

func newMemConn() *memConn {
	return &memConn{
		collections: make(map[string]map[string][]byte),
		setErrs:     make(map[string]error),
	}
}

func (m *memConn) failSet(key string, err error) {
	m.mu.Lock()
	m.setErrs[key] = err
	m.mu.Unlock()
}

func (m *memConn) Get(_ context.Context, collection, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.collections[collection][key]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (m *memConn) Set(_ context.Context, collection, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	if err, ok := m.setErrs[key]; ok {
		return err
	}
	if m.collections[collection] == nil {
		m.collections[collection] = make(map[string][]byte)
	}
	m.collections[collection][key] = append([]byte(nil), data...)
	return nil
}

func (m *memConn) Delete(_ context.Context, collection, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalls++
	delete(m.collections[collection], key)
	return nil
}

func (m *memConn) List(_ context.Context, collection string) ([]docstore.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	records := make([]docstore.Record, 0, len(m.collections[collection]))
	for key, data := range m.collections[collection] {
		records = append(records, docstore.Record{Key: key, Data: append([]byte(nil), data...)})
	}
	return records, nil
}

func (m *memConn) Transaction(_ context.Context, fn func(tx docstore.Conn) error) error {
	m.mu.Lock()
	staged := &memConn{
		collections: cloneCollections(m.collections),
		setErrs:     m.setErrs,
	}
	m.mu.Unlock()

	if err := fn(staged); err != nil {
		return err
	}

	m.mu.Lock()
	m.collections = staged.collections
	m.setCalls += staged.setCalls
	m.deleteCalls += staged.deleteCalls
	m.listCalls += staged.listCalls
	m.mu.Unlock()
	return nil
}

func (m *memConn) count(collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.collections[collection])
}

func cloneCollections(src map[string]map[string][]byte) map[string]map[string][]byte {
	dst := make(map[string]map[string][]byte, len(src))
	for collection, docs := range src {
		cloned := make(map[string][]byte, len(docs))
		for key, data := range docs {
			cloned[key] = append([]byte(nil), data...)
		}
		dst[collection] = cloned
	}
	return dst
}

// recordingRevalidator captures every invalidated path.
type recordingRevalidator struct {
	mu    sync.Mutex
	paths []string
}

func (r *recordingRevalidator) Invalidate(paths ...string) {
	r.mu.Lock()
	r.paths = append(r.paths, paths...)
	r.mu.Unlock()
}

func (r *recordingRevalidator) has(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.paths {
		if p == path {
			return true
		}
	}
	return false
}
