// Package headers provides the per-request response header policy for served
// development assets: caching is always disabled and a few content types are
// forced regardless of what the file server would infer.
package headers

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
)

// Cache header values sent with every response.
const (
	CacheControlValue = "no-store, no-cache, must-revalidate, max-age=0"
	PragmaValue       = "no-cache"
	ExpiresValue      = "0"
)

// Sentinel errors for content type overrides
var (
	ErrInvalidExtension = errors.New("extension must start with a dot and contain no path separators")
	ErrEmptyContentType = errors.New("content type must not be empty")
	ErrFixedContentType = errors.New("content type for this extension is fixed")
)

// defaultContentTypes are the forced types. Keys are lower case.
var defaultContentTypes = map[string]string{
	".js":   "application/javascript",
	".mjs":  "application/javascript",
	".css":  "text/css",
	".json": "application/json",
	".svg":  "image/svg+xml",
}

// DefaultContentTypes returns a copy of the built-in extension table.
func DefaultContentTypes() map[string]string {
	m := make(map[string]string, len(defaultContentTypes))
	for ext, ct := range defaultContentTypes {
		m[ext] = ct
	}
	return m
}

// IsFixed reports whether ext belongs to the built-in table.
func IsFixed(ext string) bool {
	_, ok := defaultContentTypes[strings.ToLower(ext)]
	return ok
}

// ContentTypeFor returns the built-in forced content type for p, if any.
func ContentTypeFor(p string) (string, bool) {
	ct, ok := defaultContentTypes[extension(p)]
	return ct, ok
}

// CacheHeaders returns the headers that disable client and proxy caching.
func CacheHeaders() http.Header {
	h := make(http.Header, 3)
	h.Set("Cache-Control", CacheControlValue)
	h.Set("Pragma", PragmaValue)
	h.Set("Expires", ExpiresValue)
	return h
}

// Policy maps a request path to the headers every response for it carries.
// A Policy is immutable after construction and safe for concurrent use.
type Policy struct {
	contentTypes map[string]string
}

// NewPolicy returns a policy with the built-in table plus extra overrides.
// Extra entries may add extensions but cannot change a built-in one.
func NewPolicy(extra map[string]string) (*Policy, error) {
	types := DefaultContentTypes()
	for ext, ct := range extra {
		if err := ValidateOverride(ext, ct); err != nil {
			return nil, fmt.Errorf("content type override %q: %w", ext, err)
		}
		types[strings.ToLower(ext)] = ct
	}
	return &Policy{contentTypes: types}, nil
}

// ValidateOverride checks a single extension to content type entry.
func ValidateOverride(ext, ct string) error {
	if len(ext) < 2 || ext[0] != '.' || strings.ContainsAny(ext, `/\`) {
		return ErrInvalidExtension
	}
	if strings.TrimSpace(ct) == "" {
		return ErrEmptyContentType
	}
	if IsFixed(ext) {
		return ErrFixedContentType
	}
	return nil
}

// For returns the headers to apply to a response for the request path p.
// Content-Type is only present when p's extension is in the table.
func (p *Policy) For(reqPath string) http.Header {
	h := CacheHeaders()
	if ct, ok := p.ContentType(reqPath); ok {
		h.Set("Content-Type", ct)
	}
	return h
}

// ContentType returns the forced content type for reqPath, if any.
func (p *Policy) ContentType(reqPath string) (string, bool) {
	ct, ok := p.contentTypes[extension(reqPath)]
	return ct, ok
}

// Apply copies the policy headers for reqPath into dst, replacing existing
// values. A multipart Content-Type already in dst is kept, since the body is
// then a multipart envelope rather than the file itself.
func (p *Policy) Apply(dst http.Header, reqPath string) {
	multipart := strings.HasPrefix(dst.Get("Content-Type"), "multipart/")
	for k, v := range p.For(reqPath) {
		if multipart && k == "Content-Type" {
			continue
		}
		dst[k] = v
	}
}

func extension(p string) string {
	return strings.ToLower(path.Ext(p))
}
