package storage

import "strings"

// Key maps a relative site path to its object key under prefix.
func Key(prefix string, path string) string {
	return prefix + "/" + path
}

// ListPrefix is the listing prefix for a namespace. The trailing separator
// keeps sibling namespaces such as "<prefix>-old/" out of the listing.
func ListPrefix(prefix string) string {
	return prefix + "/"
}

// RelativePath reverses Key. It reports false for keys outside the namespace
// and for the bare "<prefix>/" directory marker.
func RelativePath(prefix string, key string) (string, bool) {
	rel, ok := strings.CutPrefix(key, ListPrefix(prefix))
	if !ok || rel == "" {
		return "", false
	}

	return rel, true
}

// NormalizePrefix trims surrounding separators from a configured prefix.
func NormalizePrefix(prefix string) string {
	return strings.Trim(prefix, "/")
}
