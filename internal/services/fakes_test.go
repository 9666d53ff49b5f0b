package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
)

type fakeGenerator struct {
	out    string
	err    error
	prompt string
}

func (g *fakeGenerator) GenerateJSON(_ context.Context, prompt string) (string, error) {
	g.prompt = prompt
	return g.out, g.err
}

// memStore is an in-memory storage.Store.
type memStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	failWrite bool
	removed   []string
}

func newMemStore() *memStore { return &memStore{objects: map[string][]byte{}} }

func (m *memStore) Upload(_ context.Context, bucket, key string, r io.Reader) error {
	if m.failWrite {
		return errors.New("disk full")
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return err
	}
	m.mu.Lock()
	m.objects[bucket+"/"+key] = buf.Bytes()
	m.mu.Unlock()
	return nil
}

func (m *memStore) Remove(_ context.Context, bucket, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, bucket+"/"+key)
	m.removed = append(m.removed, bucket+"/"+key)
	return nil
}

func (m *memStore) PublicURL(bucket, key string) string {
	return "https://cdn.test/" + bucket + "/" + key
}
