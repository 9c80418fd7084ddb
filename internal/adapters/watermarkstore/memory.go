package watermarkstore

import (
	"context"
	"sync"
)

type ref struct {
	container string
	key       string
}

// Memory keeps records in process memory. Contents do not survive a
// restart; it backs local runs and tests.
type Memory struct {
	mu      sync.RWMutex
	records map[ref]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{records: make(map[ref]string)}
}

func (m *Memory) Exists(_ context.Context, container, key string) (bool, error) {
	if err := validateRef(container, key); err != nil {
		return false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.records[ref{container, key}]
	return ok, nil
}

func (m *Memory) Read(_ context.Context, container, key string) (string, error) {
	if err := validateRef(container, key); err != nil {
		return "", err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	contents, ok := m.records[ref{container, key}]
	if !ok {
		return "", notFound(container, key)
	}
	return contents, nil
}

func (m *Memory) Write(_ context.Context, container, key, contents string) error {
	if err := validateRef(container, key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[ref{container, key}] = contents
	return nil
}
