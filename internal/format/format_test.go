package format

import (
	"bytes"
	"testing"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if _, err := New("bogus", &buf, testMeta()); err == nil {
		t.Fatalf("expected an error for an unknown format name")
	}
}

func TestNewDispatchesRegisteredFormats(t *testing.T) {
	var buf bytes.Buffer
	for _, name := range []string{"default", "delta", "paf", "sam"} {
		w, err := New(name, &buf, testMeta())
		if err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
		if w == nil {
			t.Fatalf("New(%q) returned a nil writer", name)
		}
	}
}
