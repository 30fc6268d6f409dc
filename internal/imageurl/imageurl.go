// Package imageurl turns stored image references into displayable URLs.
package imageurl

import "strings"

// Resolver joins object keys onto a CDN base URL.
type Resolver struct {
	base     string
	fallback string
}

// New returns a Resolver. An empty base disables key resolution, so every
// key falls back. defaultAvatar is used by Avatar.
func New(base, defaultAvatar string) *Resolver {
	return &Resolver{
		base:     strings.TrimRight(strings.TrimSpace(base), "/"),
		fallback: defaultAvatar,
	}
}

// Resolve returns a displayable URL for ref, or fallback when ref is absent
// or cannot be resolved. Absolute http(s) URLs are returned unchanged.
func (r *Resolver) Resolve(ref *string, fallback string) string {
	if ref == nil {
		return fallback
	}
	return r.ResolveString(*ref, fallback)
}

// ResolveString is Resolve for a plain string where "" means absent.
func (r *Resolver) ResolveString(ref, fallback string) string {
	v := strings.TrimSpace(ref)
	if v == "" {
		return fallback
	}
	if isAbsolute(v) {
		return v
	}
	if r == nil || r.base == "" {
		return fallback
	}
	key := strings.TrimLeft(v, "/")
	if key == "" {
		return fallback
	}
	return r.base + "/" + key
}

// Avatar resolves a profile image, falling back to the default avatar.
func (r *Resolver) Avatar(ref string) string {
	fallback := ""
	if r != nil {
		fallback = r.fallback
	}
	return r.ResolveString(ref, fallback)
}

func isAbsolute(v string) bool {
	lower := strings.ToLower(v)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
