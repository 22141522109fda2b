// Package ports declares the interfaces the application services depend
// on; infrastructure supplies the implementations.
package ports

import (
	"context"
	"errors"
)

// ErrConditionFailed is returned by PutIfAbsent when a record already
// exists at the target key. It is the store's only coordination primitive:
// under concurrent duplicate inserts exactly one writer wins.
var ErrConditionFailed = errors.New("conditional write failed: item already exists")

// RangeQuery selects records within one partition by sort key. Either
// SortPrefix or the SortStart/SortEnd interval is set, not both. Bounds are
// inclusive. Limit of 0 means no cap beyond the store's own paging.
type RangeQuery struct {
	SortPrefix string
	SortStart  string
	SortEnd    string
	Limit      int
	Ascending  bool
}

// KeyValueStore is a partitioned sorted key-value store with one secondary
// index over a (gsi1pk, gsi1sk) projection of the same records. Items are
// flat attribute maps; the reserved attributes pk, sk, gsi1pk, gsi1sk and
// entity carry the key scheme.
type KeyValueStore interface {
	// Get returns the item at (pk, sk), or nil if absent.
	Get(ctx context.Context, pk, sk string) (map[string]interface{}, error)

	// Put writes an item unconditionally (upsert).
	Put(ctx context.Context, item map[string]interface{}) error

	// PutIfAbsent writes an item only if nothing exists at its key,
	// returning ErrConditionFailed otherwise.
	PutIfAbsent(ctx context.Context, item map[string]interface{}) error

	// Delete removes the item at (pk, sk). Deleting an absent key is a
	// no-op, which keeps cascading sweeps safely retryable.
	Delete(ctx context.Context, pk, sk string) error

	// Query returns items in the partition matching the range query,
	// ordered by sort key.
	Query(ctx context.Context, pk string, q RangeQuery) ([]map[string]interface{}, error)

	// QueryIndex is Query against the secondary index projection.
	QueryIndex(ctx context.Context, gsi1pk string, q RangeQuery) ([]map[string]interface{}, error)

	// ScanEntity enumerates every record with the given entity marker,
	// following pagination to completion. Used only by the reminder run,
	// which must see all subscriptions across all families.
	ScanEntity(ctx context.Context, entity string) ([]map[string]interface{}, error)
}
