package storage

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore holds templates and archived PDFs in memory. Used in tests
// and when no object storage is configured; presigned URLs are not
// meaningful here and return an error.
type MemoryStore struct {
	mu        sync.RWMutex
	templates map[string]string
	archives  map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		templates: make(map[string]string),
		archives:  make(map[string][]byte),
	}
}

func (s *MemoryStore) PutTemplate(key, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[key] = content
}

func (s *MemoryStore) TemplateText(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if content, ok := s.templates[key]; ok {
		return content, nil
	}
	return "", fmt.Errorf("template %s: not found", key)
}

func (s *MemoryStore) ArchivePDF(ctx context.Context, key string, pdf []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(pdf))
	copy(cp, pdf)
	s.archives[key] = cp
	return nil
}

func (s *MemoryStore) ArchivedPDF(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pdf, ok := s.archives[key]
	return pdf, ok
}

func (s *MemoryStore) PresignedPDFURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	return "", fmt.Errorf("presigned URLs require object storage")
}
