// Copyright 2025 Certen Protocol

package resolver

import (
	"fmt"

	"github.com/gobwas/glob"
)

// compilePattern compiles a §6 glob pattern against '/'-delimited asset
// paths. Using '/' as the sole separator gives "*" its segment-local
// meaning and "**" its path-crossing meaning in exactly the three
// positions §6 allows (leading "**/", trailing "/**", interior "/**/"),
// while "?" and character classes behave the usual way within a segment.
func compilePattern(pattern string) (glob.Glob, error) {
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("resolver: invalid pattern %q: %w", pattern, err)
	}
	return g, nil
}
