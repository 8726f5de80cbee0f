// Copyright 2025 Certen Protocol

package kvdb

import (
	"bytes"
	"testing"

	dbm "github.com/cometbft/cometbft-db"
)

func TestAdapter_SetGetDelete(t *testing.T) {
	db := dbm.NewMemDB()
	defer db.Close()

	a := NewAdapter(db)
	key := []byte("asset:/index.html:identity:0")

	if err := a.Set(key, []byte("<h1>Hi</h1>")); err != nil {
		t.Fatal(err)
	}
	got, err := a.Get(key)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte("<h1>Hi</h1>")) {
		t.Errorf("got %q", got)
	}

	if err := a.Set(key, nil); err != nil {
		t.Fatal(err)
	}
	got, err = a.Get(key)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("expected key to be deleted, got %q", got)
	}
}

func TestAdapter_NilDBIsNoop(t *testing.T) {
	a := NewAdapter(nil)
	if err := a.Set([]byte("k"), []byte("v")); err != nil {
		t.Fatal(err)
	}
	got, err := a.Get([]byte("k"))
	if err != nil || got != nil {
		t.Errorf("expected nil, nil from a nil-backed adapter, got %q, %v", got, err)
	}
}
