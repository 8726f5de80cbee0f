// Copyright 2025 Certen Protocol
//
// Package response implements the Response Builder (§4.4): it normalizes
// headers, computes the response hash, and attaches per-response
// certification headers to produce a CertifiedResponse ready for insertion
// into the Certification Tree.
package response

import "strings"

// Header is a single (name, value) entry. CertifiedResponse.Headers
// preserves insertion order; lookups are case-insensitive (§3).
type Header struct {
	Name  string
	Value string
}

// Headers is an ordered header list with case-insensitive lookup.
type Headers []Header

// Get returns the value of the first header matching name, case-insensitive.
func (h Headers) Get(name string) (string, bool) {
	for _, entry := range h {
		if strings.EqualFold(entry.Name, name) {
			return entry.Value, true
		}
	}
	return "", false
}

// Has reports whether a header with the given name is present.
func (h Headers) Has(name string) bool {
	_, ok := h.Get(name)
	return ok
}

// Append returns a copy of h with (name, value) appended, without checking
// for an existing entry.
func (h Headers) Append(name, value string) Headers {
	out := make(Headers, len(h), len(h)+1)
	copy(out, h)
	return append(out, Header{Name: name, Value: value})
}

// Prepend returns a copy of h with (name, value) inserted at the front.
func (h Headers) Prepend(name, value string) Headers {
	out := make(Headers, 0, len(h)+1)
	out = append(out, Header{Name: name, Value: value})
	return append(out, h...)
}

// Clone returns an independent copy of h.
func (h Headers) Clone() Headers {
	out := make(Headers, len(h))
	copy(out, h)
	return out
}

// Names returns the header names in order, for use as the certified
// response headers list in a Certification Expression.
func (h Headers) Names() []string {
	out := make([]string, len(h))
	for i, entry := range h {
		out[i] = entry.Name
	}
	return out
}
