package format

import (
	"bytes"
	"strings"
	"testing"

	"nucmer-core/align"
)

func TestPAFForwardStrandReportsRawCoordinates(t *testing.T) {
	meta := testMeta()
	var buf bytes.Buffer
	w := newPAFWriter(&buf, meta)

	a := align.Alignment{
		RefSeq: 0, QuerySeq: 0, Strand: align.Forward,
		RefStart: 0, RefEnd: 12, QueryStart: 2, QueryEnd: 14,
	}
	if err := w.WriteAlignment(a); err != nil {
		t.Fatalf("WriteAlignment: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	cols := strings.Split(strings.TrimSpace(buf.String()), "\t")
	if cols[2] != "2" || cols[3] != "14" {
		t.Fatalf("expected raw query coordinates 2,14 on the forward strand, got %q", buf.String())
	}
}

// On the reverse strand, QueryStart/QueryEnd are offsets into the
// reverse-complemented query buffer task.go searched against; PAF's
// qstart/qend must be reported on the original forward query, same as
// the default and delta writers.
func TestPAFReverseStrandConvertsToForwardQueryCoordinates(t *testing.T) {
	meta := testMeta() // q1 is 16 bases long
	var buf bytes.Buffer
	w := newPAFWriter(&buf, meta)

	a := align.Alignment{
		RefSeq: 0, QuerySeq: 0, Strand: align.Reverse,
		RefStart: 0, RefEnd: 12, QueryStart: 2, QueryEnd: 10,
	}
	if err := w.WriteAlignment(a); err != nil {
		t.Fatalf("WriteAlignment: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	cols := strings.Split(strings.TrimSpace(buf.String()), "\t")
	if cols[2] != "6" || cols[3] != "14" {
		t.Fatalf("expected forward-query coordinates 6,14 (16-10, 16-2), got %q", buf.String())
	}
	if cols[4] != "-" {
		t.Fatalf("expected strand column '-', got %q", cols[4])
	}
}
