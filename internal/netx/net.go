// Package netx holds URL helpers for API endpoints and report links.
package netx

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// JoinURL appends endpoint to base, keeping any path prefix on base.
//
//	JoinURL("http://host:5000/", "/api/login") == "http://host:5000/api/login"
func JoinURL(base, endpoint string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("base url %q must be absolute", base)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + strings.TrimPrefix(endpoint, "/")
	return u.String(), nil
}

// ResolveReference resolves ref against base. Absolute refs are returned
// unchanged, relative ones are taken relative to the API host.
func ResolveReference(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	r, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", fmt.Errorf("parse reference: %w", err)
	}
	return b.ResolveReference(r).String(), nil
}

// FileNameFromURL returns the last path element of raw, or "" when there is
// none.
func FileNameFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	name := path.Base(u.Path)
	if name == "/" || name == "." {
		return ""
	}
	return name
}
