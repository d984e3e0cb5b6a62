package domain

import "strings"

// IsHiddenPath reports whether any segment of path starts with a dot and is not
// a "." or ".." traversal segment. Hidden paths never contribute records.
//
//	.hidden/a.file      hidden
//	path/.hidden.file   hidden
//	../path/to/a.file   kept
//	./path/to/a.file    kept
func IsHiddenPath(path string) bool {
	for _, seg := range strings.FieldsFunc(path, isPathSeparator) {
		if seg == "." || seg == ".." {
			continue
		}
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}

func isPathSeparator(r rune) bool {
	return r == '/' || r == '\\'
}
