package docstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/postline/internal/common"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// MemoryStore is an in-process Store used by tests and by the repository
// test suites. It mimics the remote backends: ids are store-assigned and
// FieldServerTime is set on Add.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]Record)}
}

// coll creates the collection if needed; callers must hold the write lock.
func (s *MemoryStore) coll(name string) map[string]Record {
	c, ok := s.collections[name]
	if !ok {
		c = make(map[string]Record)
		s.collections[name] = c
	}
	return c
}

func (s *MemoryStore) Add(ctx context.Context, collection string, data Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}

	rec := make(Record, len(data)+1)
	for k, v := range data {
		rec[k] = v
	}
	rec[FieldServerTime] = serverNow()

	s.coll(collection)[id] = rec
	return id, nil
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.collections[collection][id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return cloneRecord(rec), nil
}

func (s *MemoryStore) Query(ctx context.Context, collection string, q Query) ([]Doc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []Doc
	for id, rec := range s.collections[collection] {
		if matchesFilter(rec, q.Filter) {
			result = append(result, Doc{ID: id, Data: cloneRecord(rec)})
		}
	}

	if q.OrderBy != "" {
		sortDocs(result, q.OrderBy, q.Desc)
	} else {
		// map iteration order is random; stabilize on id for tests
		sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	}
	return result, nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, fields Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.coll(collection)[id]
	if !ok {
		return common.ErrNotFound
	}
	for k, v := range fields {
		rec[k] = v
	}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.coll(collection)
	if _, ok := c[id]; !ok {
		return common.ErrNotFound
	}
	delete(c, id)
	return nil
}

func (s *MemoryStore) Count(ctx context.Context, collection string, filter map[string]string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, rec := range s.collections[collection] {
		if matchesFilter(rec, filter) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

func cloneRecord(rec Record) Record {
	out := make(Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}

func matchesFilter(rec Record, filter map[string]string) bool {
	for k, want := range filter {
		got, ok := rec[k].(string)
		if !ok || got != want {
			return false
		}
	}
	return true
}

func sortDocs(docs []Doc, orderBy string, desc bool) {
	sort.SliceStable(docs, func(i, j int) bool {
		less := lessValue(docs[i].Data[orderBy], docs[j].Data[orderBy])
		if desc {
			return !less && !equalValue(docs[i].Data[orderBy], docs[j].Data[orderBy])
		}
		return less
	})
}

func lessValue(a, b any) bool {
	switch av := a.(type) {
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Before(bv)
		}
	case string:
		if bv, ok := b.(string); ok {
			return av < bv
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return av < bv
		}
	case int64:
		if bv, ok := b.(int64); ok {
			return av < bv
		}
	}
	return false
}

func equalValue(a, b any) bool {
	switch av := a.(type) {
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Equal(bv)
		}
	}
	return a == b
}
