// Copyright 2025 Certen Protocol
//
// Package certexpr implements the Certification Expression (§4.2): the
// declarative record stating which request/response fields a certified
// response covers. Expressions are CBOR-encoded, hashed to a 32-byte
// digest, and the hex-encoded CBOR is carried on every certified response
// as the IC-CertificateExpression header.
package certexpr

// ResponseHeaderName is the header every certified response carries,
// stating the expression that was applied to it.
const ResponseHeaderName = "IC-CertificateExpression"

// RequestCertification describes which request pseudo-headers and query
// parameters are covered. The asset router never sets this (requests are
// not authenticated, per §4.2), but the type is general.
type RequestCertification struct {
	CertifiedRequestHeaders  []string
	CertifiedQueryParameters []string
}

// ResponseCertification describes which response headers are covered,
// either as an inclusive allow-list (CertifiedResponseHeaders) or an
// exclusive deny-list (ResponseHeaderExclusions). Exactly one is set.
type ResponseCertification struct {
	CertifiedResponseHeaders []string
	ResponseHeaderExclusions []string
}

func (r ResponseCertification) isExclusion() bool {
	return r.ResponseHeaderExclusions != nil && r.CertifiedResponseHeaders == nil
}

// Expression is the certification expression record. The zero value is the
// "No-certification" shape ({}). ResponseCertification is non-nil for every
// expression the asset router produces.
type Expression struct {
	RequestCertification  *RequestCertification
	ResponseCertification *ResponseCertification
}

// NewAssetExpression builds the expression shape the asset router always
// uses: no request certification, inclusive response certification that
// contains at least ResponseHeaderName. responseHeaders is taken in caller
// order; ResponseHeaderName is prepended if not already present.
func NewAssetExpression(responseHeaders []string) Expression {
	headers := ensureContains(responseHeaders, ResponseHeaderName)
	return Expression{
		ResponseCertification: &ResponseCertification{
			CertifiedResponseHeaders: headers,
		},
	}
}

func ensureContains(names []string, required string) []string {
	for _, n := range names {
		if equalFoldASCII(n, required) {
			out := make([]string, len(names))
			copy(out, names)
			return out
		}
	}
	out := make([]string, 0, len(names)+1)
	out = append(out, required)
	out = append(out, names...)
	return out
}

func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// IsEmpty reports whether the expression is the "No-certification" {}
// shape.
func (e Expression) IsEmpty() bool {
	return e.RequestCertification == nil && e.ResponseCertification == nil
}
