package blob

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type memoryObject struct {
	data         []byte
	contentType  string
	lastModified time.Time
	publicRead   bool
}

// MemoryStore keeps objects in a map, for tests and the in-memory
// backend. Issued upload URLs point under the configured base URL;
// tests route them back into PutDirect.
type MemoryStore struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string]memoryObject

	// FailPuts forces PutObject to fail, for exercising worker error
	// paths.
	FailPuts bool
}

var _ ObjectStore = (*MemoryStore)(nil)

func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		baseURL: baseURL,
		objects: make(map[string]memoryObject),
	}
}

func (m *MemoryStore) IssueUploadURL(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	return fmt.Sprintf("%s/%s", m.baseURL, key), nil
}

func (m *MemoryStore) DescribeObject(ctx context.Context, key string) (*ObjectInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return &ObjectInfo{
		Key:          key,
		Size:         int64(len(obj.data)),
		ContentType:  obj.contentType,
		LastModified: obj.lastModified,
	}, nil
}

func (m *MemoryStore) PutObject(ctx context.Context, key string, data []byte, contentType string, publicRead bool) error {
	if m.FailPuts {
		return fmt.Errorf("storage write refused for %s", key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{
		data:         append([]byte(nil), data...),
		contentType:  contentType,
		lastModified: time.Now(),
		publicRead:   publicRead,
	}
	return nil
}

// PutDirect stores object bytes without going through PutObject,
// simulating a client upload via a signed URL.
func (m *MemoryStore) PutDirect(key string, data []byte, contentType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{
		data:         append([]byte(nil), data...),
		contentType:  contentType,
		lastModified: time.Now(),
	}
}

// Object returns stored bytes for assertions.
func (m *MemoryStore) Object(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, false
	}
	return obj.data, true
}
