package common

import (
	"sort"
	"testing"

	"nucmer-core/align"
)

func TestLessAlignmentOrdersDeterministically(t *testing.T) {
	recs := []align.Alignment{
		{RefSeq: 0, QuerySeq: 1, Strand: align.Forward, RefStart: 5},
		{RefSeq: 0, QuerySeq: 0, Strand: align.Reverse, RefStart: 0},
		{RefSeq: 0, QuerySeq: 0, Strand: align.Forward, RefStart: 10},
		{RefSeq: 0, QuerySeq: 0, Strand: align.Forward, RefStart: 2},
	}
	sort.Slice(recs, func(i, j int) bool { return LessAlignment(recs[i], recs[j]) })

	want := []struct{ q, rs int }{{0, 2}, {0, 10}, {0, 0}, {1, 5}}
	for i, w := range want {
		if recs[i].QuerySeq != w.q || recs[i].RefStart != w.rs {
			t.Fatalf("position %d: got %+v, want query=%d refstart=%d", i, recs[i], w.q, w.rs)
		}
	}
}

func TestLessKeyDropsPositionTiebreak(t *testing.T) {
	a := Key{RefSeq: 0, QuerySeq: 0, Strand: align.Forward}
	b := Key{RefSeq: 0, QuerySeq: 0, Strand: align.Reverse}
	if !LessKey(a, b) {
		t.Fatalf("expected forward strand to sort before reverse")
	}
	if LessKey(b, a) {
		t.Fatalf("expected reverse not to sort before forward")
	}
}
