// Copyright 2025 Certen Protocol

package resolver

import "testing"

func TestResolve_DefaultConfigIsIdentityOnly(t *testing.T) {
	plan, err := Resolve([]Asset{{Path: "/index.html", Content: []byte("hi")}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Exact) != 1 || plan.Exact[0].Encoding != Identity {
		t.Fatalf("expected a single identity variant, got %+v", plan.Exact)
	}
}

func TestResolve_FileConfigTakesPrecedenceOverPattern(t *testing.T) {
	configs := []AssetConfig{
		{Pattern: &PatternConfig{Pattern: "/*.html", ContentType: "text/from-pattern"}},
		{File: &FileConfig{Path: "/index.html", ContentType: "text/from-file"}},
	}
	plan, err := Resolve([]Asset{{Path: "/index.html", Content: []byte("hi")}}, configs)
	if err != nil {
		t.Fatal(err)
	}
	if plan.Exact[0].ContentType != "text/from-file" {
		t.Errorf("expected File config to win, got %q", plan.Exact[0].ContentType)
	}
}

func TestResolve_FirstMatchingPatternWins(t *testing.T) {
	configs := []AssetConfig{
		{Pattern: &PatternConfig{Pattern: "/assets/**", ContentType: "first"}},
		{Pattern: &PatternConfig{Pattern: "/assets/*.js", ContentType: "second"}},
	}
	plan, err := Resolve([]Asset{{Path: "/assets/app.js", Content: []byte("x")}}, configs)
	if err != nil {
		t.Fatal(err)
	}
	if plan.Exact[0].ContentType != "first" {
		t.Errorf("expected insertion-order precedence, got %q", plan.Exact[0].ContentType)
	}
}

func TestResolve_DuplicateFilePathFails(t *testing.T) {
	configs := []AssetConfig{
		{File: &FileConfig{Path: "/a.html"}},
		{File: &FileConfig{Path: "/a.html"}},
	}
	if _, err := Resolve(nil, configs); err == nil {
		t.Error("expected duplicate File path to be rejected")
	}
}

func TestResolve_AliasCollidingWithOwnFileConfigFails(t *testing.T) {
	configs := []AssetConfig{
		{File: &FileConfig{Path: "/index.html", AliasedBy: []string{"/home"}}},
		{File: &FileConfig{Path: "/home"}},
	}
	assets := []Asset{
		{Path: "/index.html", Content: []byte("a")},
		{Path: "/home", Content: []byte("b")},
	}
	if _, err := Resolve(assets, configs); err == nil {
		t.Error("expected alias colliding with its own File config to fail the batch")
	}
}

func TestResolve_EncodingSiblingIsFoundByPathPlusSuffix(t *testing.T) {
	configs := []AssetConfig{
		{File: &FileConfig{
			Path:      "/app.js",
			Encodings: []EncodingSuffix{{Encoding: Gzip}},
		}},
	}
	assets := []Asset{
		{Path: "/app.js", Content: []byte("plain")},
		{Path: "/app.js.gz", Content: []byte("compressed")},
	}
	plan, err := Resolve(assets, configs)
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Exact) != 2 {
		t.Fatalf("expected identity + gzip variants, got %d", len(plan.Exact))
	}
	found := false
	for _, v := range plan.Exact {
		if v.Encoding == Gzip && string(v.Body) == "compressed" {
			found = true
		}
	}
	if !found {
		t.Error("expected a gzip variant sourced from the sibling asset")
	}
}

func TestResolve_MissingEncodingSiblingIsSkippedNotError(t *testing.T) {
	configs := []AssetConfig{
		{File: &FileConfig{Path: "/app.js", Encodings: []EncodingSuffix{{Encoding: Brotli}}}},
	}
	plan, err := Resolve([]Asset{{Path: "/app.js", Content: []byte("plain")}}, configs)
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Exact) != 1 {
		t.Errorf("expected only the identity variant, got %d", len(plan.Exact))
	}
}

func TestResolve_AliasEmitsIdentityVariantAtAliasPath(t *testing.T) {
	configs := []AssetConfig{
		{File: &FileConfig{Path: "/index.html", AliasedBy: []string{"/"}}},
	}
	plan, err := Resolve([]Asset{{Path: "/index.html", Content: []byte("home")}}, configs)
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Aliases) != 1 || plan.Aliases[0].AliasPath != "/" {
		t.Fatalf("unexpected aliases: %+v", plan.Aliases)
	}
}

func TestResolve_FallbackDefaultsTo200(t *testing.T) {
	configs := []AssetConfig{
		{File: &FileConfig{
			Path:        "/index.html",
			FallbackFor: []FallbackConfig{{Scope: "/"}},
		}},
	}
	plan, err := Resolve([]Asset{{Path: "/index.html", Content: []byte("home")}}, configs)
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Fallbacks) != 1 || plan.Fallbacks[0].StatusCode != 200 {
		t.Fatalf("unexpected fallbacks: %+v", plan.Fallbacks)
	}
}

func TestResolve_RedirectEmitsLocationHeader(t *testing.T) {
	configs := []AssetConfig{
		{Redirect: &RedirectConfig{From: "/old", To: "/new", Kind: Permanent}},
	}
	plan, err := Resolve(nil, configs)
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Redirects) != 1 || plan.Redirects[0].StatusCode != 301 {
		t.Fatalf("unexpected redirects: %+v", plan.Redirects)
	}
	if loc, ok := plan.Redirects[0].Headers.Get("Location"); !ok || loc != "/new" {
		t.Error("expected a Location header pointing at the redirect target")
	}
}

func TestResolve_GlobDoubleStarCrossesSegments(t *testing.T) {
	configs := []AssetConfig{
		{Pattern: &PatternConfig{Pattern: "/assets/**/*.css", ContentType: "text/css"}},
	}
	plan, err := Resolve([]Asset{{Path: "/assets/vendor/a/b.css", Content: []byte("x")}}, configs)
	if err != nil {
		t.Fatal(err)
	}
	if plan.Exact[0].ContentType != "text/css" {
		t.Errorf("expected ** to cross multiple segments, got %q", plan.Exact[0].ContentType)
	}
}
