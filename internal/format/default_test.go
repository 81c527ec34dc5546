package format

import (
	"bytes"
	"strings"
	"testing"

	"nucmer-core/align"
)

func TestDefaultWriterGroupsByPairAndFormatsIdentity(t *testing.T) {
	meta := testMeta()
	var buf bytes.Buffer
	w := newDefaultWriter(&buf, meta)

	a := align.Alignment{
		RefSeq: 0, QuerySeq: 0, Strand: align.Forward,
		RefStart: 0, RefEnd: 12, QueryStart: 2, QueryEnd: 14,
		Identity: 98.5,
	}
	if err := w.WriteAlignment(a); err != nil {
		t.Fatalf("WriteAlignment: %v", err)
	}
	if err := w.WriteAlignment(a); err != nil {
		t.Fatalf("WriteAlignment: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	out := buf.String()
	if strings.Count(out, ">ref1 q1") != 1 {
		t.Fatalf("expected a single header for the repeated pair, got %q", out)
	}
	if !strings.Contains(out, "98.50%") {
		t.Fatalf("expected formatted identity, got %q", out)
	}
}
