// Package storage stores uploaded images and maps them to public URLs.
package storage

import (
	"context"
	"io"
)

// DefaultBucket is the bucket (and URL path segment) images are written to.
const DefaultBucket = "uploads"

// Bucket is a blob store whose objects are reachable at a public URL.
type Bucket interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) error
	Remove(ctx context.Context, keys ...string) error
	PublicURL(key string) string
	Name() string
}
