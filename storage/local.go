package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalBucket keeps objects in a directory for development. The API serves
// the directory at <publicBase>/<bucket>/.
type LocalBucket struct {
	dir        string
	bucket     string
	publicBase string
}

func NewLocalBucket(dir, bucket, publicBase string) (*LocalBucket, error) {
	if bucket == "" {
		bucket = DefaultBucket
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalBucket{
		dir:        dir,
		bucket:     bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
	}, nil
}

func (b *LocalBucket) Name() string {
	return b.bucket
}

// Dir is the directory objects are written to.
func (b *LocalBucket) Dir() string {
	return b.dir
}

func (b *LocalBucket) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(b.dir, clean), nil
}

func (b *LocalBucket) Put(_ context.Context, key, _ string, body io.Reader) error {
	p, err := b.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create object dir: %w", err)
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", key, err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(p)
		return fmt.Errorf("write %s: %w", key, err)
	}
	return f.Close()
}

// Remove deletes the given objects. Missing objects are ignored.
func (b *LocalBucket) Remove(_ context.Context, keys ...string) error {
	var errList []error
	for _, key := range keys {
		p, err := b.path(key)
		if err != nil {
			errList = append(errList, err)
			continue
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errList = append(errList, err)
		}
	}
	return errors.Join(errList...)
}

func (b *LocalBucket) PublicURL(key string) string {
	return b.publicBase + "/" + b.bucket + "/" + key
}
