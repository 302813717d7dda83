package kv

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore is a process-local Store used by the CLI and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, sessionID, name string, dest any) error {
	s.mu.RLock()
	data, ok := s.values[sessionKey(sessionID)+":"+name]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(data, dest)
}

func (s *MemoryStore) Put(_ context.Context, sessionID, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.values[sessionKey(sessionID)+":"+name] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID, name string) error {
	s.mu.Lock()
	delete(s.values, sessionKey(sessionID)+":"+name)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }
