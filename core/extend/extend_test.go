package extend

import (
	"testing"

	"nucmer-core/cluster"
	"nucmer-core/matchfinder"
)

func defaultParams() Params {
	return Params{DiagDiff: 5, DiagFactor: 0.12, BreakLen: 200, MinAlign: 0}
}

func TestExtendPerfectMatchNoGaps(t *testing.T) {
	ref := append([]byte("ACGTACGTACGT"), 0)
	query := []byte("ACGTACGTACGT")

	c := cluster.Cluster{
		Matches: []matchfinder.Match{{RefPos: 0, QueryPos: 0, Length: 12, Strand: matchfinder.Forward}},
		RefSpan: [2]int{0, 12}, QuerySpan: [2]int{0, 12},
	}
	aln, ok := Extend(c, ref, query, defaultParams())
	if !ok {
		t.Fatalf("expected successful extension")
	}
	if aln.RefStart != 0 || aln.RefEnd != 12 || aln.QueryStart != 0 || aln.QueryEnd != 12 {
		t.Fatalf("unexpected span: %+v", aln)
	}
	if len(aln.DeltaOps) != 1 || aln.DeltaOps[0] != 0 {
		t.Fatalf("expected only the terminator op, got %v", aln.DeltaOps)
	}
	if aln.Identity != 100.0 {
		t.Fatalf("expected 100%% identity, got %v", aln.Identity)
	}
	if len(aln.CIGAR) != 1 || aln.CIGAR[0].Op != 'M' || aln.CIGAR[0].Len != 12 {
		t.Fatalf("expected a single 12M CIGAR run, got %v", aln.CIGAR)
	}
}

func TestExtendClosesTwoBaseInsertionGap(t *testing.T) {
	// ref:   ACGT--ACGT   (gap in reference: query has two extra bases)
	// query: ACGTXXACGT
	ref := append([]byte("ACGTACGT"), 0)
	query := []byte("ACGTXXACGT")

	c := cluster.Cluster{
		Matches: []matchfinder.Match{
			{RefPos: 0, QueryPos: 0, Length: 4, Strand: matchfinder.Forward},
			{RefPos: 4, QueryPos: 6, Length: 4, Strand: matchfinder.Forward},
		},
		RefSpan: [2]int{0, 8}, QuerySpan: [2]int{0, 10},
	}
	p := defaultParams()
	p.NoOptimize = true // keep the low-scoring gap from being trimmed away
	aln, ok := Extend(c, ref, query, p)
	if !ok {
		t.Fatalf("expected successful extension")
	}
	if aln.RefStart != 0 || aln.RefEnd != 8 {
		t.Fatalf("unexpected ref span: %+v", aln)
	}
	if aln.QueryStart != 0 || aln.QueryEnd != 10 {
		t.Fatalf("unexpected query span: %+v", aln)
	}

	// query has two extra bases the reference lacks: a gap in the
	// reference, encoded as a negative op per nucmer convention.
	total := 0
	for _, op := range aln.DeltaOps {
		if op < 0 {
			total += int(-op)
		}
	}
	if total != 2 {
		t.Fatalf("expected 2 bases of reference-side gap encoded, got ops=%v", aln.DeltaOps)
	}

	foundI := false
	for _, op := range aln.CIGAR {
		if op.Op == 'I' && op.Len == 2 {
			foundI = true
		}
	}
	if !foundI {
		t.Fatalf("expected a 2I CIGAR run for the query-side insertion, got %v", aln.CIGAR)
	}
}

func TestExtendDropsShortAlignment(t *testing.T) {
	ref := append([]byte("ACGT"), 0)
	query := []byte("ACGT")
	c := cluster.Cluster{
		Matches: []matchfinder.Match{{RefPos: 0, QueryPos: 0, Length: 4, Strand: matchfinder.Forward}},
		RefSpan: [2]int{0, 4}, QuerySpan: [2]int{0, 4},
	}
	p := defaultParams()
	p.MinAlign = 100
	if _, ok := Extend(c, ref, query, p); ok {
		t.Fatalf("expected extension to be dropped below minalign")
	}
}

func TestExtendOverlappingChainMatchesDoesNotPanic(t *testing.T) {
	// Two chained matches overlapping by 2 bases in both coordinates, the
	// kind of chain cluster.admissible accepts via its -minLen gap floor.
	// Without trimming, gapRefStart/gapQueryStart would exceed the next
	// match's start and the gap slice would invert and panic.
	ref := append([]byte("ACGTACGTAC"), 0)
	query := []byte("ACGTACGTAC")

	c := cluster.Cluster{
		Matches: []matchfinder.Match{
			{RefPos: 0, QueryPos: 0, Length: 6, Strand: matchfinder.Forward},
			{RefPos: 4, QueryPos: 4, Length: 6, Strand: matchfinder.Forward},
		},
		RefSpan: [2]int{0, 10}, QuerySpan: [2]int{0, 10},
	}
	aln, ok := Extend(c, ref, query, defaultParams())
	if !ok {
		t.Fatalf("expected successful extension")
	}
	if aln.RefStart != 0 || aln.RefEnd != 10 || aln.QueryStart != 0 || aln.QueryEnd != 10 {
		t.Fatalf("unexpected span: %+v", aln)
	}
	if aln.Identity != 100.0 {
		t.Fatalf("expected 100%% identity, got %v", aln.Identity)
	}
}

func TestExtendTipStopsAtBreakLen(t *testing.T) {
	// All mismatches past the anchor; breaklen=0 should refuse to extend
	// at all, leaving the tip score at its starting point.
	ref := append([]byte("AAAA") , []byte("TTTT")...)
	ref = append(ref, 0)
	query := append([]byte("AAAA"), []byte("GGGG")...)

	refRef, refQuery, score, _ := extendTip(ref, query, 4, 4, +1, 0)
	if score != 0 {
		t.Fatalf("expected zero score with breaklen=0, got %d", score)
	}
	if refRef != 4 || refQuery != 4 {
		t.Fatalf("expected no movement with breaklen=0, got ref=%d query=%d", refRef, refQuery)
	}
}
