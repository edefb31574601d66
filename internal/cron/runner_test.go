package cronrunner

import (
	"context"
	"errors"
	"testing"
)

func TestAddRejectsBadSpec(t *testing.T) {
	r := New(nil, context.Background())
	if _, err := r.Add("bad", "not a spec", func(context.Context) error { return nil }); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestAddAcceptsSecondsSpec(t *testing.T) {
	r := New(nil, nil)
	id, err := r.Add("digest", "0 0 8 * * MON-FRI", func(context.Context) error { return errors.New("boom") })
	if err != nil {
		t.Fatalf("Add err: %v", err)
	}
	if id == 0 {
		t.Fatalf("expected entry id")
	}
	r.Start()
	r.Stop()
}
