package util

import "strings"

// AcceptsEncoding reports whether an Accept-Encoding request header allows
// the given content coding. The content proxy stores cached evidence bodies
// brotli-compressed and uses this to decide between serving the stored body
// as-is and decompressing it, so matching is by coding token (or the *
// wildcard); quality values are not weighed.
func AcceptsEncoding(header, coding string) bool {
	if coding == "" {
		return false
	}
	for _, part := range strings.Split(header, ",") {
		token, _, _ := strings.Cut(part, ";")
		token = strings.TrimSpace(token)
		if token == coding || token == "*" {
			return true
		}
	}
	return false
}
