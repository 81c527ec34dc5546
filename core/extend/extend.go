// core/extend/extend.go
package extend

import (
	"nucmer-core/align"
	"nucmer-core/cluster"
	"nucmer-core/matchfinder"
)

// Scoring constants for gap extension. spec.md does not pin these to a
// specific calibrated value beyond "a plausible default"; kept as
// unexported package constants rather than CLI flags since nucmer itself
// does not expose them either.
const (
	scoreMatch    = 1
	scoreMismatch = -1
	scoreGapOpen  = -2
	scoreGapExt   = -1
)

// Params bundles the extension-stage CLI knobs.
type Params struct {
	DiagDiff   int
	DiagFactor float64
	Banded     bool
	BreakLen   int  // -b/--breaklen
	NoExtend   bool // -noextend
	NoOptimize bool // -nooptimize
	MinAlign   int  // -L/--minalign
}

// block is one left-to-right piece of an alignment under construction —
// a tip extension, an anchor match, or a closed gap — carrying its own
// score and how far it advances each coordinate. optimizeTrim operates
// over a slice of these rather than individual bases: trimming at block
// granularity (never splitting a gap run mid-run) is a simplification
// for what spec.md leaves uncalibrated as "the subinterval with maximum
// score" — more than adequate to drop a low-scoring tip or an
// unproductive gap, which is what -nooptimize actually guards against.
type block struct {
	score      int
	refDelta   int
	queryDelta int
	ops        []int32
	cigar      []align.CIGAROp
}

// Extend promotes a cluster into an alignment record by closing gaps
// between its anchors, extending outward through the tips, optionally
// trimming to the maximum-scoring contiguous run of blocks, and encoding
// the result as nucmer-convention delta ops.
//
// refText and queryText are the full buffers the cluster's matches were
// found against (the concatenated reference text and, per strand, the
// forward or reverse-complemented query bytes).
func Extend(c cluster.Cluster, refText, queryText []byte, p Params) (*align.Alignment, bool) {
	if len(c.Matches) == 0 {
		return nil, false
	}
	strand := c.Matches[0].Strand
	refStart, qStart := c.RefSpan[0], c.QuerySpan[0]
	matches := trimOverlaps(c.Matches)

	var blocks []block
	if !p.NoExtend {
		leftRef, leftQuery, leftScore, _ := extendTip(refText, queryText, refStart, qStart, -1, p.BreakLen)
		leftLen := refStart - leftRef
		blocks = append(blocks, block{score: leftScore, refDelta: leftLen, queryDelta: qStart - leftQuery, cigar: cigarM(leftLen)})
		refStart, qStart = leftRef, leftQuery
	}

	for i, m := range matches {
		blocks = append(blocks, block{score: m.Length * scoreMatch, refDelta: m.Length, queryDelta: m.Length, cigar: cigarM(m.Length)})
		if i+1 >= len(matches) {
			continue
		}
		next := matches[i+1]
		gapRefStart := m.RefPos + m.Length
		gapQueryStart := m.QueryPos + m.Length
		refGap := refText[gapRefStart:next.RefPos]
		queryGap := queryText[gapQueryStart:next.QueryPos]

		half := p.DiagDiff
		if !p.Banded {
			g := len(refGap)
			if len(queryGap) > g {
				g = len(queryGap)
			}
			if w := ceilf(p.DiagFactor * float64(g)); w > half {
				half = w
			}
		}
		gapOps, gapCigar, gapScore := closeGap(refGap, queryGap, half)
		blocks = append(blocks, block{score: gapScore, refDelta: len(refGap), queryDelta: len(queryGap), ops: gapOps, cigar: gapCigar})
	}

	if !p.NoExtend {
		last := matches[len(matches)-1]
		tipRefStart := last.RefPos + last.Length
		tipQueryStart := last.QueryPos + last.Length
		rightRef, rightQuery, rightScore, _ := extendTip(refText, queryText, tipRefStart, tipQueryStart, +1, p.BreakLen)
		rightLen := rightRef - tipRefStart
		blocks = append(blocks, block{score: rightScore, refDelta: rightLen, queryDelta: rightQuery - tipQueryStart, cigar: cigarM(rightLen)})
	}

	if !p.NoOptimize {
		lo, hi := optimizeTrim(blocks)
		if hi <= lo {
			return nil, false
		}
		for _, b := range blocks[:lo] {
			refStart += b.refDelta
			qStart += b.queryDelta
		}
		blocks = blocks[lo:hi]
	}

	refEnd, qEnd := refStart, qStart
	score := 0
	var ops []int32
	var cigar []align.CIGAROp
	for _, b := range blocks {
		refEnd += b.refDelta
		qEnd += b.queryDelta
		score += b.score
		ops = append(ops, b.ops...)
		cigar = appendCigar(cigar, b.cigar...)
	}

	length := refEnd - refStart
	if qEnd-qStart > length {
		length = qEnd - qStart
	}
	if length < p.MinAlign {
		return nil, false
	}

	aln := &align.Alignment{
		Strand:     align.Strand(strand),
		RefStart:   refStart,
		RefEnd:     refEnd,
		QueryStart: qStart,
		QueryEnd:   qEnd,
		Score:      score,
		DeltaOps:   append(ops, 0),
		CIGAR:      cigar,
		Identity:   identity(refEnd-refStart, qEnd-qStart, ops),
	}
	return aln, true
}

// trimOverlaps resolves the small overlaps cluster.admissible permits
// between consecutive chain matches (a gap as negative as -minLen is a
// valid chain link, not just a zero gap): it shortens the downstream
// match's head just enough that it starts where the upstream match's
// matched span ends, in both coordinates, so the gap between them is
// never negative. Trimming only ever moves a match's start forward
// while leaving its end fixed, so chaining it left-to-right needs no
// re-examination of earlier pairs once resolved.
func trimOverlaps(matches []matchfinder.Match) []matchfinder.Match {
	out := make([]matchfinder.Match, len(matches))
	copy(out, matches)
	for i := 1; i < len(out); i++ {
		prev := out[i-1]
		cur := &out[i]
		trim := 0
		if t := prev.RefPos + prev.Length - cur.RefPos; t > trim {
			trim = t
		}
		if t := prev.QueryPos + prev.Length - cur.QueryPos; t > trim {
			trim = t
		}
		if trim <= 0 {
			continue
		}
		if trim > cur.Length {
			trim = cur.Length
		}
		cur.RefPos += trim
		cur.QueryPos += trim
		cur.Length -= trim
	}
	return out
}

func ceilf(x float64) int {
	i := int(x)
	if float64(i) < x {
		i++
	}
	return i
}

func cigarM(n int) []align.CIGAROp {
	if n <= 0 {
		return nil
	}
	return []align.CIGAROp{{Op: 'M', Len: n}}
}

// appendCigar appends ops to dst, merging a run into the previous entry
// when both share the same CIGAR op code — block boundaries (an anchor
// match followed immediately by a gap closure that itself starts with a
// match column) would otherwise split one logical run into two.
func appendCigar(dst []align.CIGAROp, ops ...align.CIGAROp) []align.CIGAROp {
	for _, op := range ops {
		if op.Len <= 0 {
			continue
		}
		if n := len(dst); n > 0 && dst[n-1].Op == op.Op {
			dst[n-1].Len += op.Len
			continue
		}
		dst = append(dst, op)
	}
	return dst
}

// identity estimates percent identity over the aligned span from the
// encoded delta ops: each op marks a run of inserted/deleted bases, which
// is a coarse proxy since mismatches inside M columns never reach the op
// stream (only gaps do) — good enough for a -stats style summary, not a
// byte-exact recomputation of nucmer's own IDY field.
func identity(refLen, queryLen int, ops []int32) float64 {
	span := refLen
	if queryLen > span {
		span = queryLen
	}
	if span == 0 {
		return 100.0
	}
	errs := 0
	for _, o := range ops {
		if o > 0 {
			errs += int(o)
		} else {
			errs += int(-o)
		}
	}
	if errs > span {
		errs = span
	}
	return 100.0 * float64(span-errs) / float64(span)
}
