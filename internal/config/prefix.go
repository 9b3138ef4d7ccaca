package config

import (
	"path"
	"strings"
)

// NormalizePrefix turns a user supplied object prefix into a clean,
// slash-separated path without leading or trailing slashes.
func NormalizePrefix(prefix string) string {
	if prefix == "" {
		return ""
	}
	prefix = strings.ReplaceAll(prefix, "\\", "/")
	for strings.Contains(prefix, "//") {
		prefix = strings.ReplaceAll(prefix, "//", "/")
	}

	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return ""
	}
	prefix = path.Clean(prefix)
	if prefix == "." {
		return ""
	}
	return prefix
}
