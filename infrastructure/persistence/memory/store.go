// Package memory implements the key-value store contract in process
// memory. It backs the test suites and local development without AWS.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"handwash-backend/application/ports"
)

// Store is an in-memory KeyValueStore with the same ordering and
// conditional-write semantics as the DynamoDB implementation.
type Store struct {
	mu    sync.Mutex
	items map[string]map[string]map[string]interface{} // pk -> sk -> item
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{items: make(map[string]map[string]map[string]interface{})}
}

var _ ports.KeyValueStore = (*Store)(nil)

// Get returns the item at (pk, sk), or nil if absent
func (s *Store) Get(ctx context.Context, pk, sk string) (map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item, ok := s.items[pk][sk]; ok {
		return copyItem(item), nil
	}
	return nil, nil
}

// Put writes an item unconditionally
func (s *Store) Put(ctx context.Context, item map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pk, sk := itemKey(item)
	if s.items[pk] == nil {
		s.items[pk] = make(map[string]map[string]interface{})
	}
	s.items[pk][sk] = copyItem(item)
	return nil
}

// PutIfAbsent writes an item only when nothing exists at its key
func (s *Store) PutIfAbsent(ctx context.Context, item map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pk, sk := itemKey(item)
	if _, exists := s.items[pk][sk]; exists {
		return ports.ErrConditionFailed
	}
	if s.items[pk] == nil {
		s.items[pk] = make(map[string]map[string]interface{})
	}
	s.items[pk][sk] = copyItem(item)
	return nil
}

// Delete removes the item at (pk, sk); absent keys are a no-op
func (s *Store) Delete(ctx context.Context, pk, sk string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items[pk], sk)
	return nil
}

// Query returns items in the partition matching the range query
func (s *Store) Query(ctx context.Context, pk string, q ports.RangeQuery) ([]map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []map[string]interface{}
	sks := make([]string, 0, len(s.items[pk]))
	for sk := range s.items[pk] {
		if sortKeyMatches(sk, q) {
			sks = append(sks, sk)
		}
	}
	sortKeys(sks, q.Ascending)
	for _, sk := range sks {
		matched = append(matched, copyItem(s.items[pk][sk]))
		if q.Limit > 0 && len(matched) >= q.Limit {
			break
		}
	}
	return matched, nil
}

// QueryIndex is Query against the gsi1pk/gsi1sk projection
func (s *Store) QueryIndex(ctx context.Context, gsi1pk string, q ports.RangeQuery) ([]map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	type entry struct {
		gsi1sk string
		item   map[string]interface{}
	}
	var entries []entry
	for _, partition := range s.items {
		for _, item := range partition {
			ipk, _ := item["gsi1pk"].(string)
			isk, _ := item["gsi1sk"].(string)
			if ipk == gsi1pk && sortKeyMatches(isk, q) {
				entries = append(entries, entry{gsi1sk: isk, item: item})
			}
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if q.Ascending {
			return entries[i].gsi1sk < entries[j].gsi1sk
		}
		return entries[i].gsi1sk > entries[j].gsi1sk
	})

	var matched []map[string]interface{}
	for _, e := range entries {
		matched = append(matched, copyItem(e.item))
		if q.Limit > 0 && len(matched) >= q.Limit {
			break
		}
	}
	return matched, nil
}

// ScanEntity enumerates every record carrying the entity marker
func (s *Store) ScanEntity(ctx context.Context, entity string) ([]map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []map[string]interface{}
	for _, partition := range s.items {
		for _, item := range partition {
			if e, _ := item["entity"].(string); e == entity {
				matched = append(matched, copyItem(item))
			}
		}
	}
	return matched, nil
}

func sortKeyMatches(sk string, q ports.RangeQuery) bool {
	switch {
	case q.SortPrefix != "":
		return strings.HasPrefix(sk, q.SortPrefix)
	case q.SortStart != "" || q.SortEnd != "":
		return sk >= q.SortStart && sk <= q.SortEnd
	default:
		return true
	}
}

func sortKeys(sks []string, ascending bool) {
	sort.Slice(sks, func(i, j int) bool {
		if ascending {
			return sks[i] < sks[j]
		}
		return sks[i] > sks[j]
	})
}

func itemKey(item map[string]interface{}) (string, string) {
	pk, _ := item["pk"].(string)
	sk, _ := item["sk"].(string)
	return pk, sk
}

func copyItem(item map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}
