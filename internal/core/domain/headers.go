package domain

import "net/textproto"

// Headers is a case-insensitive mapping from header name to the ordered
// values received from the transport. When a header repeats, the last
// occurrence is authoritative: in a chain of reverse proxies the outermost
// proxy appends last, and its view is the one the client actually used.
type Headers map[string][]string

// NewHeaders builds a Headers bag from a transport header map, preserving
// value order. Keys are canonicalised so lookups are case-insensitive.
func NewHeaders(raw map[string][]string) Headers {
	h := make(Headers, len(raw))
	for name, values := range raw {
		key := textproto.CanonicalMIMEHeaderKey(name)
		h[key] = append(h[key], values...)
	}
	return h
}

// Add appends a value for the named header
func (h Headers) Add(name, value string) {
	key := textproto.CanonicalMIMEHeaderKey(name)
	h[key] = append(h[key], value)
}

// Set replaces all values for the named header
func (h Headers) Set(name, value string) {
	h[textproto.CanonicalMIMEHeaderKey(name)] = []string{value}
}

// Values returns all values for the named header in receive order
func (h Headers) Values(name string) []string {
	return h[textproto.CanonicalMIMEHeaderKey(name)]
}

// Last returns the authoritative (last) value for the named header, or ""
// when the header is absent.
func (h Headers) Last(name string) string {
	values := h[textproto.CanonicalMIMEHeaderKey(name)]
	if len(values) == 0 {
		return ""
	}
	return values[len(values)-1]
}

// Clone returns a deep copy of the header bag
func (h Headers) Clone() Headers {
	clone := make(Headers, len(h))
	for name, values := range h {
		clone[name] = append([]string(nil), values...)
	}
	return clone
}
