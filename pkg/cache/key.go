package cache

import "strings"

// KeySeparator joins the segments of a cache key.
const KeySeparator = ":"

// Key generates a deterministic cache key from a namespace and parts.
// Format: namespace:part1:part2
//
// Surrounding whitespace and separators are trimmed from every segment and
// empty segments are dropped, so Key("items", "list") and Key(" items:", "list")
// produce the same "items:list". Use it for fixed names; append
// caller-supplied identifiers verbatim instead.
//
// Example:
//
//	Key("items", "list")  // items:list
func Key(namespace string, parts ...string) string {
	segments := make([]string, 0, len(parts)+1)
	for _, s := range append([]string{namespace}, parts...) {
		s = strings.Trim(strings.TrimSpace(s), KeySeparator)
		if s != "" {
			segments = append(segments, s)
		}
	}
	return strings.Join(segments, KeySeparator)
}
