package testutil

import (
	"context"
	"slices"
	"sync"

	"github.com/dtroode/pauselab/internal/model"
)

var _ model.KeyValueStore = (*MemoryKV)(nil)

// MemoryKV is an in-memory model.KeyValueStore with injectable failures.
type MemoryKV struct {
	mu   sync.Mutex
	data map[string][]byte

	GetErr    error
	SetErr    error
	DeleteErr error
	// Block, when non-nil, stalls Get until it is closed or ctx is done.
	Block chan struct{}

	Sets int
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: map[string][]byte{}}
}

func (m *MemoryKV) Get(ctx context.Context, key string) ([]byte, error) {
	if m.Block != nil {
		select {
		case <-m.Block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, model.ErrNotFound
	}
	return slices.Clone(v), nil
}

func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Sets++
	m.data[key] = slices.Clone(value)
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.data, key)
	return nil
}

// Raw returns the stored bytes for key.
func (m *MemoryKV) Raw(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return slices.Clone(v), ok
}

// Put stores raw bytes, bypassing SetErr.
func (m *MemoryKV) Put(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = slices.Clone(value)
}

// SetFailure swaps SetErr under the lock.
func (m *MemoryKV) SetFailure(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetErr = err
}
