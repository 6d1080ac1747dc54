package services

import (
	"context"
	"fmt"
	"sync"
)

// MockPhotoSigner is an in-memory PhotoURLSigner for tests
type MockPhotoSigner struct {
	objects map[string]bool
	mu      sync.RWMutex
}

// NewMockPhotoSigner creates a signer that knows the given object keys
func NewMockPhotoSigner(keys ...string) *MockPhotoSigner {
	m := &MockPhotoSigner{objects: make(map[string]bool)}
	for _, k := range keys {
		m.objects[k] = true
	}
	return m
}

// Put registers an object key
func (m *MockPhotoSigner) Put(key string) {
	m.mu.Lock()
	m.objects[key] = true
	m.mu.Unlock()
}

// GetPresignedURL simulates generating a presigned URL
func (m *MockPhotoSigner) GetPresignedURL(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}

	m.mu.RLock()
	exists := m.objects[key]
	m.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("file not found in mock S3: %s", key)
	}

	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s?mock=true", key), nil
}
