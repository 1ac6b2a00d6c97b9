// Package storage implements ports.ContentStore on local disk and on S3.
package storage

import (
	"path"
	"strings"

	"github.com/hastakala/hastakala-api/internal/core/ports"
)

// PublicPrefix is the URL prefix stored files are served under.
const PublicPrefix = "/uploads/"

// keyOf turns a public path back into a store key. Paths outside the prefix
// or escaping it can never name a stored object.
func keyOf(p string) (string, error) {
	if !strings.HasPrefix(p, PublicPrefix) {
		return "", ports.ErrObjectNotFound
	}
	key := strings.TrimPrefix(p, PublicPrefix)
	if !validKey(key) {
		return "", ports.ErrObjectNotFound
	}
	return key, nil
}

func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return false
	}
	return path.Clean(key) == key && !strings.HasPrefix(key, "../") && key != ".."
}

func publicPath(key string) string { return PublicPrefix + key }
