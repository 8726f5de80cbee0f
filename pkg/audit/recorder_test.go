// Copyright 2025 Certen Protocol

package audit

import (
	"context"
	"testing"
)

func TestNoop_RecordAndCloseAreNoErrors(t *testing.T) {
	var r Recorder = Noop{}
	if err := r.Record(context.Background(), Event{Kind: EventCertifyAssets, Paths: []string{"/a"}}); err != nil {
		t.Errorf("expected Noop.Record to never fail, got %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("expected Noop.Close to never fail, got %v", err)
	}
}
