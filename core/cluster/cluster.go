// core/cluster/cluster.go
package cluster

import (
	"sort"

	"nucmer-core/matchfinder"
)

// Params bundles the gap/diagonal tuning knobs from the CLI surface.
type Params struct {
	MaxGap     int     // -g/--maxgap
	DiagDiff   int     // -D/--diagdiff
	DiagFactor float64 // -d/--diagfactor
	MinCluster int     // -c/--mincluster
	NoSimplify bool    // -nosimplify
}

// Cluster is a colinear chain of matches sharing a strand.
type Cluster struct {
	Matches     []matchfinder.Match
	Score       int
	RefSpan     [2]int // [start, end)
	QuerySpan   [2]int
	DiagonalMin int
	DiagonalMax int
}

// diagonal uses the plain forward formula regardless of strand: the
// caller already hands Chain a reverse-strand query reverse-complemented
// into its own coordinate frame (matchfinder.Find never flips Strand's
// sign back in), so RefPos increases alongside QueryPos for a colinear
// chain on either strand. There is no separate reverse diagonal to
// compute here — only a separate reverse *frame*, which the caller has
// already resolved before these matches ever reach Chain.
func diagonal(m matchfinder.Match) int {
	return m.RefPos - m.QueryPos
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// admissible reports whether b may extend a chain ending at a, per
// spec.md's four ordering/gap/diagonal-drift constraints.
func admissible(a, b matchfinder.Match, minLen int, p Params) (gq, gr int, ok bool) {
	if a.Strand != b.Strand {
		return 0, 0, false
	}
	gq = b.QueryPos - (a.QueryPos + a.Length)
	if gq < -minLen || gq > p.MaxGap {
		return gq, gr, false
	}
	// Same reasoning as diagonal: both matches already share one forward-
	// oriented coordinate frame by the time they reach here, so the
	// reference gap is always measured the same way regardless of strand.
	gr = b.RefPos - (a.RefPos + a.Length)
	if gr < -minLen || gr > p.MaxGap {
		return gq, gr, false
	}
	drift := abs(diagonal(b) - diagonal(a))
	bound := float64(p.DiagDiff)
	if fx := p.DiagFactor * float64(maxInt(abs(gq), abs(gr))); fx > bound {
		bound = fx
	}
	if float64(drift) > bound {
		return gq, gr, false
	}
	return gq, gr, true
}

func penalty(gq, gr int) int {
	gapPenalty := 0
	if gq != 0 {
		gapPenalty++
	}
	if gr != 0 {
		gapPenalty++
	}
	return abs(gq-gr) + gapPenalty
}

// Chain groups matches from one (reference_seq, query_seq, strand) work
// unit into colinear chains, keeping only those whose total matched
// length is >= p.MinCluster. minLen is the minimum match length the
// matches were found with — it bounds how much overlap two adjacent
// matches may have per the admissibility rule.
func Chain(matches []matchfinder.Match, minLen int, p Params) []Cluster {
	if len(matches) == 0 {
		return nil
	}
	ordered := make([]matchfinder.Match, len(matches))
	copy(ordered, matches)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].QueryPos != ordered[j].QueryPos {
			return ordered[i].QueryPos < ordered[j].QueryPos
		}
		return ordered[i].RefPos < ordered[j].RefPos
	})

	n := len(ordered)
	best := make([]int, n)
	pred := make([]int, n)
	for i := range ordered {
		best[i] = ordered[i].Length
		pred[i] = -1
	}

	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			gq, gr, ok := admissible(ordered[j], ordered[i], minLen, p)
			if !ok {
				continue
			}
			cand := best[j] + ordered[i].Length - penalty(gq, gr)
			if cand > best[i] ||
				(cand == best[i] &&
					(pred[i] < 0 ||
						ordered[j].QueryPos < ordered[pred[i]].QueryPos ||
						(ordered[j].QueryPos == ordered[pred[i]].QueryPos && ordered[j].RefPos < ordered[pred[i]].RefPos))) {
				best[i] = cand
				pred[i] = j
			}
		}
	}

	isPredecessor := make([]bool, n)
	for i := range pred {
		if pred[i] >= 0 {
			isPredecessor[pred[i]] = true
		}
	}

	var clusters []Cluster
	for i := 0; i < n; i++ {
		if isPredecessor[i] {
			continue // not a chain terminus
		}
		var chain []matchfinder.Match
		for k := i; k >= 0; k = pred[k] {
			chain = append([]matchfinder.Match{ordered[k]}, chain...)
		}
		total := 0
		for _, m := range chain {
			total += m.Length
		}
		if total < p.MinCluster {
			continue
		}
		clusters = append(clusters, buildCluster(chain, best[i]))
	}

	sort.Slice(clusters, func(i, j int) bool { return clusters[i].Score > clusters[j].Score })

	if p.NoSimplify {
		return clusters
	}
	return shadowRemove(clusters)
}

// buildCluster derives the cluster's spans from the min/max ref and query
// coordinates actually touched by its matches, rather than assuming the
// chain's first and last entries bound every coordinate — both strands
// build chains that are ascending in ref and query alike (see the
// admissible/diagonal comments above), so first/last would normally agree
// with min/max, but deriving the span this way means a future chaining
// bug produces a too-wide or too-narrow span instead of an inverted one
// that would panic in extend.Extend's gap slicing.
func buildCluster(chain []matchfinder.Match, score int) Cluster {
	c := Cluster{Matches: chain, Score: score}
	c.RefSpan[0], c.RefSpan[1] = chain[0].RefPos, chain[0].RefPos+chain[0].Length
	c.QuerySpan[0], c.QuerySpan[1] = chain[0].QueryPos, chain[0].QueryPos+chain[0].Length
	for _, m := range chain {
		if m.RefPos < c.RefSpan[0] {
			c.RefSpan[0] = m.RefPos
		}
		if end := m.RefPos + m.Length; end > c.RefSpan[1] {
			c.RefSpan[1] = end
		}
		if m.QueryPos < c.QuerySpan[0] {
			c.QuerySpan[0] = m.QueryPos
		}
		if end := m.QueryPos + m.Length; end > c.QuerySpan[1] {
			c.QuerySpan[1] = end
		}
	}
	c.DiagonalMin, c.DiagonalMax = diagonal(chain[0]), diagonal(chain[0])
	for _, m := range chain {
		d := diagonal(m)
		if d < c.DiagonalMin {
			c.DiagonalMin = d
		}
		if d > c.DiagonalMax {
			c.DiagonalMax = d
		}
	}
	return c
}

func matchKey(m matchfinder.Match) [4]int {
	return [4]int{m.RefPos, m.QueryPos, m.Length, int(m.Strand)}
}

// shadowRemove keeps the highest-scoring chain claim on any match: chains
// are processed in descending score order, and a chain sharing any match
// with an already-claimed chain is dropped whole.
func shadowRemove(clusters []Cluster) []Cluster {
	claimed := make(map[[4]int]struct{})
	var kept []Cluster
	for _, c := range clusters {
		overlap := false
		for _, m := range c.Matches {
			if _, ok := claimed[matchKey(m)]; ok {
				overlap = true
				break
			}
		}
		if overlap {
			continue
		}
		for _, m := range c.Matches {
			claimed[matchKey(m)] = struct{}{}
		}
		kept = append(kept, c)
	}
	return kept
}
