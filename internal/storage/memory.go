package storage

import (
	"context"
	"crypto/md5"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/Altinity/site-sync/structs"
)

type memoryObject struct {
	body []byte
	meta structs.Metadata
	etag string
}

// MemoryStore is an in-process Store. Like S3, it reports ETags wrapped in
// quotes and pages listings with an opaque continuation token.
type MemoryStore struct {
	PageSize int

	mutex   sync.Mutex
	objects map[string]*memoryObject
	lists   int
	gets    int
	puts    int
	deletes int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		PageSize: ListPageSize,
		objects:  make(map[string]*memoryObject),
	}
}

func (m *MemoryStore) ListPage(ctx context.Context, prefix string, token string) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.lists++

	var keys []string
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) && k > token {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	size := m.PageSize
	if size <= 0 {
		size = ListPageSize
	}

	page := &Page{}
	if len(keys) > size {
		keys = keys[:size]
		page.Truncated = true
		page.NextToken = keys[len(keys)-1]
	}

	for _, k := range keys {
		obj := m.objects[k]
		page.Objects = append(page.Objects, structs.RemoteObject{
			Key:  k,
			ETag: obj.etag,
			Size: int64(len(obj.body)),
		})
	}

	return page, nil
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.gets++

	obj, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}

	return slices.Clone(obj.body), nil
}

func (m *MemoryStore) Put(ctx context.Context, key string, body []byte, meta structs.Metadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.puts++
	m.set(key, body, meta)

	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.deletes++
	delete(m.objects, key)

	return nil
}

// Seed stores an object without counting it as a call.
func (m *MemoryStore) Seed(key string, body []byte) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.set(key, body, structs.Metadata{})
}

func (m *MemoryStore) set(key string, body []byte, meta structs.Metadata) {
	m.objects[key] = &memoryObject{
		body: slices.Clone(body),
		meta: meta,
		etag: fmt.Sprintf("\"%x\"", md5.Sum(body)),
	}
}

func (m *MemoryStore) Metadata(key string) (structs.Metadata, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	obj, ok := m.objects[key]
	if !ok {
		return structs.Metadata{}, false
	}

	return obj.meta, true
}

func (m *MemoryStore) Keys() []string {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return keys
}

// Calls returns the number of list, get, put and delete calls served.
func (m *MemoryStore) Calls() (lists, gets, puts, deletes int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return m.lists, m.gets, m.puts, m.deletes
}

// ResetCalls zeroes the call counters.
func (m *MemoryStore) ResetCalls() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.lists, m.gets, m.puts, m.deletes = 0, 0, 0, 0
}

var _ Store = (*MemoryStore)(nil)
