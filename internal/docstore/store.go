// Package docstore abstracts the remote document database behind
// collection-scoped create/read/update/delete and ordered/filtered queries.
// Records are schema-free key-value mappings; typed shapes are imposed by
// the models package at the boundary.
//
// Two remote backends are provided (MongoDB and PostgreSQL with a jsonb
// records table) plus an in-memory store for tests.
package docstore

import (
	"context"
	"time"
)

// FieldServerTime is the record field holding the store-assigned ordering
// timestamp. Every backend sets it on Add and surfaces it as a time.Time
// on reads.
const FieldServerTime = "serverTs"

// Record is one stored document payload. Values are whatever the backend
// round-trips; callers must validate types when decoding.
type Record map[string]any

// Doc couples a record with its store-assigned identifier.
type Doc struct {
	ID   string
	Data Record
}

// Query describes a filtered, optionally ordered read of a collection.
// Filter is field -> value string equality. An empty OrderBy means
// store-default order.
type Query struct {
	Filter  map[string]string
	OrderBy string
	Desc    bool
}

// Store is the document store contract consumed by the repositories.
//
// Error mapping: Get/Update/Delete return common.ErrNotFound for a missing
// id; any backend or connectivity failure is wrapped in
// common.ErrUnavailable.
type Store interface {
	// Add inserts data into collection, assigns an identifier and the
	// server timestamp, and returns the new identifier.
	Add(ctx context.Context, collection string, data Record) (string, error)

	// Get returns the record stored under id.
	Get(ctx context.Context, collection, id string) (Record, error)

	// Query returns the documents matching q.
	Query(ctx context.Context, collection string, q Query) ([]Doc, error)

	// Update applies a partial update: only the given fields are replaced.
	Update(ctx context.Context, collection, id string, fields Record) error

	// Delete removes the record. Deleting an id that is already gone
	// returns common.ErrNotFound.
	Delete(ctx context.Context, collection, id string) error

	// Count returns the number of records matching filter.
	Count(ctx context.Context, collection string, filter map[string]string) (int64, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// serverNow is a seam so tests can pin the store-assigned timestamp.
var serverNow = func() time.Time { return time.Now().UTC() }
