package backup

import (
	"context"
	"io"
	"sync"
)

// MockUploader is a mock implementation of Uploader for testing.
// It is safe for concurrent use.
type MockUploader struct {
	mu sync.Mutex

	UploadFunc func(ctx context.Context, key string, contentType string, body io.Reader) (*UploadResult, error)

	// Objects holds the uploaded content by key.
	Objects map[string][]byte
}

// NewMockUploader creates a new mock instance.
func NewMockUploader() *MockUploader {
	return &MockUploader{Objects: make(map[string][]byte)}
}

func (m *MockUploader) Upload(ctx context.Context, key string, contentType string, body io.Reader) (*UploadResult, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, key, contentType, body)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[key] = data
	return &UploadResult{Key: key, ETag: "mock"}, nil
}

// Keys returns the number of stored objects.
func (m *MockUploader) Keys() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Objects)
}
