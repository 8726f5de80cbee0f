// Copyright 2025 Certen Protocol

package certexpr

import (
	"encoding/hex"

	"github.com/fxamacker/cbor/v2"

	"github.com/certen/asset-certification-router/pkg/hashvalue"
)

// requestCertWire and responseCertWire mirror the CBOR schema from §6:
//
//	RequestCert  = { "certified_request_headers": [tstr], "certified_query_parameters": [tstr] }
//	ResponseCert = { "certified_response_headers": [tstr] } / { "response_header_exclusions": [tstr] }
type requestCertWire struct {
	CertifiedRequestHeaders  []string `cbor:"certified_request_headers"`
	CertifiedQueryParameters []string `cbor:"certified_query_parameters"`
}

type responseCertWire struct {
	CertifiedResponseHeaders []string `cbor:"certified_response_headers,omitempty"`
	ResponseHeaderExclusions []string `cbor:"response_header_exclusions,omitempty"`
}

type expressionWire struct {
	RequestCertification  *requestCertWire  `cbor:"request_certification,omitempty"`
	ResponseCertification *responseCertWire `cbor:"response_certification,omitempty"`
}

var encMode = mustCanonicalEncMode()

func mustCanonicalEncMode() cbor.EncMode {
	m, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return m
}

func (e Expression) toWire() expressionWire {
	var w expressionWire
	if e.RequestCertification != nil {
		w.RequestCertification = &requestCertWire{
			CertifiedRequestHeaders:  e.RequestCertification.CertifiedRequestHeaders,
			CertifiedQueryParameters: e.RequestCertification.CertifiedQueryParameters,
		}
	}
	if rc := e.ResponseCertification; rc != nil {
		if rc.isExclusion() {
			w.ResponseCertification = &responseCertWire{ResponseHeaderExclusions: rc.ResponseHeaderExclusions}
		} else {
			w.ResponseCertification = &responseCertWire{CertifiedResponseHeaders: rc.CertifiedResponseHeaders}
		}
	}
	return w
}

// MarshalCBOR returns the canonical CBOR encoding of the expression.
func (e Expression) MarshalCBOR() ([]byte, error) {
	return encMode.Marshal(e.toWire())
}

// Hash returns the 32-byte SHA-256 digest of the canonical CBOR encoding,
// the expression_hash of §4.2.
func (e Expression) Hash() (hashvalue.Digest, error) {
	raw, err := e.MarshalCBOR()
	if err != nil {
		return hashvalue.Digest{}, err
	}
	return hashvalue.HashConcat(raw), nil
}

// HeaderValue returns the literal value of the IC-CertificateExpression
// header: the hex encoding of the canonical CBOR bytes.
func (e Expression) HeaderValue() (string, error) {
	raw, err := e.MarshalCBOR()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}
