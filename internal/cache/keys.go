package cache

import (
	"sort"
	"strings"
)

// Key derives a deterministic cache key from a resource name and filter
// parameters. Identical parameters always produce the identical key, so
// concurrent readers of the same filtered view share one entry and one
// in-flight fetch. Parameters are serialized as sorted k=v pairs.
func Key(resource string, params map[string]string) string {
	if len(params) == 0 {
		return resource
	}

	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return resource
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(resource)
	b.WriteByte('?')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	return b.String()
}

// DetailKey derives the cache key for a single entity.
func DetailKey(resource, id string) string {
	return resource + "/" + id
}

// resourceOf extracts the resource label from a key for metrics.
func resourceOf(key string) string {
	if i := strings.IndexAny(key, "?/"); i >= 0 {
		return key[:i]
	}
	return key
}
