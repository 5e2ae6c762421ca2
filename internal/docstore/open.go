package docstore

import (
	"context"
	"fmt"
)

// Supported backend names for Open.
const (
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Open constructs the Store selected by backend. dsn is the Mongo URI or
// the Postgres DSN depending on the backend; dbName is only used by Mongo.
// The memory backend keeps everything in process and is meant for tests
// and local experiments.
func Open(ctx context.Context, backend, dsn, dbName string) (Store, error) {
	switch backend {
	case BackendMongo:
		return NewMongoStore(ctx, dsn, dbName)
	case BackendPostgres:
		return NewPostgresStore(ctx, dsn)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown document store backend: %q", backend)
	}
}
