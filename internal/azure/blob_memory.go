package azure

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// MemoryBlobStorage keeps blobs in memory. It backs report storage when no
// storage account is configured and serves as a fake in tests.
type MemoryBlobStorage struct {
	mu           sync.RWMutex
	blobs        map[string][]byte
	contentTypes map[string]string
	logger       *zap.Logger
}

// NewMemoryBlobStorage creates an empty in-memory blob store
func NewMemoryBlobStorage(logger *zap.Logger) *MemoryBlobStorage {
	return &MemoryBlobStorage{
		blobs:        make(map[string][]byte),
		contentTypes: make(map[string]string),
		logger:       logger,
	}
}

// Upload stores a copy of data under blobName
func (m *MemoryBlobStorage) Upload(ctx context.Context, blobName, contentType string, data []byte) (string, error) {
	if strings.TrimSpace(blobName) == "" {
		return "", ErrEmptyBlobName
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.blobs[blobName] = bytes.Clone(data)
	m.contentTypes[blobName] = contentType

	if m.logger != nil {
		m.logger.Debug("memory blob stored",
			zap.String("blob_name", blobName),
			zap.Int("size_bytes", len(data)),
		)
	}
	return blobName, nil
}

// Download returns a copy of the stored blob
func (m *MemoryBlobStorage) Download(ctx context.Context, blobName string) ([]byte, error) {
	if strings.TrimSpace(blobName) == "" {
		return nil, ErrEmptyBlobName
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.blobs[blobName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, blobName)
	}
	return bytes.Clone(data), nil
}

// ContentType returns the content type recorded for a blob
func (m *MemoryBlobStorage) ContentType(blobName string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.contentTypes[blobName]
}

// List returns the stored blob names in lexical order
func (m *MemoryBlobStorage) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.blobs))
	for name := range m.blobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
