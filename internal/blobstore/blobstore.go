// Package blobstore models the remote blob store collaborator: binary
// uploads that resolve to retrievable URLs. The concrete backend is any
// S3-compatible object storage (MinIO in development).
package blobstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Store accepts binary uploads and hands back retrievable URLs.
type Store interface {
	// Upload stores data under key and returns the key back as the
	// reference for later URL resolution.
	Upload(ctx context.Context, key string, data []byte) (string, error)

	// DownloadURL resolves a previously uploaded reference to a URL the
	// post record can carry.
	DownloadURL(ctx context.Context, key string) (string, error)
}

// RandomImageKey returns a fresh storage key for a post image.
func RandomImageKey() string {
	return fmt.Sprintf("images/%v", uuid.New())
}
