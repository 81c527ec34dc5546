package cluster

import (
	"testing"

	"nucmer-core/matchfinder"
)

func mk(refPos, queryPos, length int) matchfinder.Match {
	return matchfinder.Match{RefPos: refPos, QueryPos: queryPos, Length: length, Strand: matchfinder.Forward}
}

func mkReverse(refPos, queryPos, length int) matchfinder.Match {
	return matchfinder.Match{RefPos: refPos, QueryPos: queryPos, Length: length, Strand: matchfinder.Reverse}
}

// S6: matches [(10,10,20),(40,45,20),(80,100,20)] with maxgap=90
// diagdiff=5 diagfactor=0.12. The first two chain; the third fails the
// diagonal-drift bound against the second and starts its own cluster.
func TestS6ClusterSplit(t *testing.T) {
	matches := []matchfinder.Match{mk(10, 10, 20), mk(40, 45, 20), mk(80, 100, 20)}
	p := Params{MaxGap: 90, DiagDiff: 5, DiagFactor: 0.12, MinCluster: 1}

	clusters := Chain(matches, 20, p)
	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d: %+v", len(clusters), clusters)
	}

	var sizes []int
	for _, c := range clusters {
		sizes = append(sizes, len(c.Matches))
	}
	foundPair, foundSingle := false, false
	for _, n := range sizes {
		if n == 2 {
			foundPair = true
		}
		if n == 1 {
			foundSingle = true
		}
	}
	if !foundPair || !foundSingle {
		t.Fatalf("expected one 2-match cluster and one 1-match cluster, got sizes %v", sizes)
	}
}

// A reverse-strand chain is handed to Chain in the same ascending-ref,
// ascending-query frame a forward chain would be (the caller already
// reverse-complemented the query before calling matchfinder.Find), so it
// must chain exactly like an equivalent forward chain, and its RefSpan
// must come out non-inverted.
func TestReverseStrandChainsLikeForward(t *testing.T) {
	p := Params{MaxGap: 90, DiagDiff: 5, DiagFactor: 0.12, MinCluster: 1}

	fwd := Chain([]matchfinder.Match{mk(10, 10, 20), mk(40, 45, 20)}, 20, p)
	rev := Chain([]matchfinder.Match{mkReverse(10, 10, 20), mkReverse(40, 45, 20)}, 20, p)

	if len(rev) != len(fwd) {
		t.Fatalf("reverse-strand chaining diverged from forward: fwd=%d clusters, rev=%d clusters", len(fwd), len(rev))
	}
	if len(rev) != 1 || len(rev[0].Matches) != 2 {
		t.Fatalf("expected the two reverse matches to chain into one cluster, got %+v", rev)
	}
	if rev[0].RefSpan[0] >= rev[0].RefSpan[1] {
		t.Fatalf("inverted RefSpan: %+v", rev[0].RefSpan)
	}
	if rev[0].QuerySpan[0] >= rev[0].QuerySpan[1] {
		t.Fatalf("inverted QuerySpan: %+v", rev[0].QuerySpan)
	}
}

// A chain of two matches can score exactly the same as the downstream
// match's own singleton baseline (gap penalties cancel out the length
// gained from the upstream match). The tie-break must still prefer
// chaining over the singleton when no predecessor has been recorded
// yet, or a chain that would have cleared mincluster gets dropped in
// favor of two shorter chains that don't.
func TestChainAcceptsTiebreakPredecessorWhenNoneSet(t *testing.T) {
	a := mk(0, 0, 2)
	b := mk(5, 5, 3) // gq = gr = 3, penalty = abs(0)+2 = 2; best[a]+3-2 == 3 == singleton(b)

	clusters := Chain([]matchfinder.Match{a, b}, 1, Params{MaxGap: 10, DiagDiff: 5, DiagFactor: 0.12, MinCluster: 4})
	if len(clusters) != 1 {
		t.Fatalf("expected the tying chain to be accepted as one cluster, got %d: %+v", len(clusters), clusters)
	}
	if len(clusters[0].Matches) != 2 {
		t.Fatalf("expected both matches chained together, got %+v", clusters[0])
	}
}

func TestMinClusterFiltersShortChains(t *testing.T) {
	matches := []matchfinder.Match{mk(0, 0, 10)}
	clusters := Chain(matches, 10, Params{MaxGap: 90, DiagDiff: 5, DiagFactor: 0.12, MinCluster: 20})
	if len(clusters) != 0 {
		t.Fatalf("expected no clusters below mincluster, got %v", clusters)
	}
}

// Raising mincluster never adds clusters; raising maxgap never removes
// clusters (spec.md's clusterer monotonicity property).
func TestMonotonicity(t *testing.T) {
	matches := []matchfinder.Match{mk(0, 0, 20), mk(50, 55, 20)}

	loose := Chain(matches, 20, Params{MaxGap: 90, DiagDiff: 5, DiagFactor: 0.12, MinCluster: 1})
	tight := Chain(matches, 20, Params{MaxGap: 90, DiagDiff: 5, DiagFactor: 0.12, MinCluster: 1000})
	if len(tight) > len(loose) {
		t.Fatalf("raising mincluster added clusters: loose=%d tight=%d", len(loose), len(tight))
	}

	smallGap := Chain(matches, 20, Params{MaxGap: 1, DiagDiff: 5, DiagFactor: 0.12, MinCluster: 1})
	bigGap := Chain(matches, 20, Params{MaxGap: 90, DiagDiff: 5, DiagFactor: 0.12, MinCluster: 1})
	if len(bigGap) < len(smallGap) {
		t.Fatalf("raising maxgap removed clusters: small=%d big=%d", len(smallGap), len(bigGap))
	}
}
