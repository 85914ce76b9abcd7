package util

import (
	"net/url"
	"path"
)

// JoinURLPath joins a relative path onto a base URL, preserving any path
// prefix already present in the base.
//
// url.ResolveReference treats paths starting with "/" as absolute references
// per RFC 3986 and replaces the entire base path, which is exactly the bug a
// mount-point fixer exists to avoid, so we join with path.Join instead.
//
// Examples:
//   - JoinURLPath("http://127.0.0.1:8000/app/", "/v1/items") -> "http://127.0.0.1:8000/app/v1/items"
//   - JoinURLPath("http://127.0.0.1:8000", "items")          -> "http://127.0.0.1:8000/items"
func JoinURLPath(baseURL, rel string) string {
	if baseURL == "" {
		return rel
	}
	if rel == "" {
		return baseURL
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return rel
	}

	base.Path = path.Join(base.Path, rel)
	return base.String()
}
