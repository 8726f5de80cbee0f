// Copyright 2025 Certen Protocol

package router

import "fmt"

// RouteError is a routing-time failure with an HTTP status attached, per
// the §7 error taxonomy (as opposed to certification-time errors, which are
// returned as plain errors from CertifyAssets).
type RouteError struct {
	Status  int
	Message string
}

func (e *RouteError) Error() string {
	return fmt.Sprintf("router: %d %s", e.Status, e.Message)
}

func notFound(msg string) error            { return &RouteError{Status: 404, Message: msg} }
func methodNotAllowed(msg string) error    { return &RouteError{Status: 405, Message: msg} }
func rangeNotSatisfiable(msg string) error { return &RouteError{Status: 416, Message: msg} }
