// Package memory holds mutex-guarded in-process repositories. They back the
// STORE_DRIVER=memory mode used for local runs and tests.
package memory

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

func now() time.Time { return time.Now().UTC() }

func newID() string { return strings.ReplaceAll(uuid.NewString(), "-", "") }

// page returns items[skip:skip+limit], clamped to the slice bounds.
func page[T any](items []T, skip int64, limit int) []T {
	if skip >= int64(len(items)) {
		return []T{}
	}
	end := skip + int64(limit)
	if end > int64(len(items)) {
		end = int64(len(items))
	}
	return items[skip:end]
}

// newestFirst orders items by creation time, newest first, ties by id.
func newestFirst[T any](items []T, created func(T) time.Time, id func(T) string) {
	sort.Slice(items, func(i, j int) bool {
		ci, cj := created(items[i]), created(items[j])
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return id(items[i]) > id(items[j])
	})
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
