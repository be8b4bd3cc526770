package storage

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var now = time.Now

// NewObjectKey names a new object after a random token and the current
// unix-millis time, keeping the lowercased extension of filename.
// "photo.PNG" becomes "<token>-<millis>.png".
func NewObjectKey(filename string) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	key := fmt.Sprintf("%s-%d", token, now().UnixMilli())
	if ext := strings.ToLower(filepath.Ext(filename)); len(ext) > 1 {
		key += ext
	}
	return key
}

// KeyFromPublicURL recovers the object key from a URL produced by
// b.PublicURL. ok is false for URLs outside the bucket's public prefix,
// such as images hosted elsewhere or another bucket on the same host.
func KeyFromPublicURL(b Bucket, url string) (key string, ok bool) {
	prefix := b.PublicURL("")
	if url == "" || !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key = strings.TrimPrefix(url, prefix)
	if j := strings.IndexAny(key, "?#"); j >= 0 {
		key = key[:j]
	}
	if key == "" {
		return "", false
	}
	return key, true
}

// KeysFromPublicURLs keeps the keys of the URLs that belong to b.
func KeysFromPublicURLs(b Bucket, urls ...string) []string {
	var keys []string
	for _, u := range urls {
		if key, ok := KeyFromPublicURL(b, u); ok {
			keys = append(keys, key)
		}
	}
	return keys
}
