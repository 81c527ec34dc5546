// core/extend/gotoh.go
package extend

import "nucmer-core/align"

const negInf = -1 << 30

type dpState int

const (
	stateM dpState = iota
	stateIx
	stateIy
)

type dpCell struct {
	m, ix, iy             int
	mFrom, ixFrom, iyFrom dpState
}

// closeGap aligns ref and query with Gotoh's three-matrix affine-gap
// recurrence (M: both sides advance, Ix: gap in the reference i.e. the
// query advances alone, Iy: gap in the query i.e. the reference advances
// alone) and returns the delta-encoded ops for the alignment plus its
// score.
//
// Only cells within half of the main diagonal are filled; everything
// else stays at negInf and can never win a traceback. half is always
// widened enough to keep (n, m) inside the band, since a ref/query
// length mismatch outside the nominal band would make the endpoint
// unreachable.
func closeGap(ref, query []byte, half int) ([]int32, []align.CIGAROp, int) {
	n, m := len(ref), len(query)
	if n == 0 && m == 0 {
		return nil, nil, 0
	}
	if half < 0 {
		half = 0
	}
	if d := m - n; d > half {
		half = d
	} else if -d > half {
		half = -d
	}

	dp := make([][]dpCell, n+1)
	for i := range dp {
		dp[i] = make([]dpCell, m+1)
		for j := range dp[i] {
			dp[i][j] = dpCell{m: negInf, ix: negInf, iy: negInf}
		}
	}

	band := func(i int) (lo, hi int) {
		lo, hi = i-half, i+half
		if lo < 0 {
			lo = 0
		}
		if hi > m {
			hi = m
		}
		return
	}

	dp[0][0] = dpCell{m: 0, ix: negInf, iy: negInf}
	for i := 1; i <= n; i++ {
		if lo, _ := band(i); lo > 0 {
			continue
		}
		iyOpen := dp[i-1][0].m + scoreGapOpen + scoreGapExt
		iyExt := dp[i-1][0].iy + scoreGapExt
		iy, iyFrom := iyOpen, stateM
		if iyExt > iyOpen {
			iy, iyFrom = iyExt, stateIy
		}
		dp[i][0] = dpCell{m: negInf, ix: negInf, iy: iy, iyFrom: iyFrom}
	}
	if lo, hi := band(0); lo == 0 {
		for j := 1; j <= hi; j++ {
			ixOpen := dp[0][j-1].m + scoreGapOpen + scoreGapExt
			ixExt := dp[0][j-1].ix + scoreGapExt
			ix, ixFrom := ixOpen, stateM
			if ixExt > ixOpen {
				ix, ixFrom = ixExt, stateIx
			}
			dp[0][j] = dpCell{m: negInf, ix: ix, ixFrom: ixFrom, iy: negInf}
		}
	}

	for i := 1; i <= n; i++ {
		lo, hi := band(i)
		if lo < 1 {
			lo = 1
		}
		for j := lo; j <= hi; j++ {
			sub := scoreMismatch
			if ref[i-1] == query[j-1] {
				sub = scoreMatch
			}
			prev := dp[i-1][j-1]
			mBest, mFrom := bestOf(prev.m, stateM, prev.ix, stateIx, prev.iy, stateIy)
			mBest += sub

			ixOpen := dp[i][j-1].m + scoreGapOpen + scoreGapExt
			ixExt := dp[i][j-1].ix + scoreGapExt
			ix, ixFrom := ixOpen, stateM
			if ixExt > ixOpen {
				ix, ixFrom = ixExt, stateIx
			}

			iyOpen := dp[i-1][j].m + scoreGapOpen + scoreGapExt
			iyExt := dp[i-1][j].iy + scoreGapExt
			iy, iyFrom := iyOpen, stateM
			if iyExt > iyOpen {
				iy, iyFrom = iyExt, stateIy
			}

			dp[i][j] = dpCell{m: mBest, mFrom: mFrom, ix: ix, ixFrom: ixFrom, iy: iy, iyFrom: iyFrom}
		}
	}

	final := dp[n][m]
	best, state := bestOf(final.m, stateM, final.ix, stateIx, final.iy, stateIy)

	ops, cigar := traceback(dp, n, m, state)
	return ops, cigar, best
}

func bestOf(a int, as dpState, b int, bs dpState, c int, cs dpState) (int, dpState) {
	best, state := a, as
	if b > best {
		best, state = b, bs
	}
	if c > best {
		best, state = c, cs
	}
	return best, state
}

// traceback walks backward from (n, m) in the given ending state,
// emitting nucmer-convention delta ops: a run of consecutive ref-only
// advances (the reference has bases the query lacks — a gap in the
// query) becomes one positive op of that run length; a run of
// consecutive query-only advances (the query has bases the reference
// lacks — a gap in the reference) becomes one negative op. Runs are
// recorded as they are walked (back to front) and reversed once at the
// end.
func traceback(dp [][]dpCell, n, m int, state dpState) ([]int32, []align.CIGAROp) {
	i, j := n, m
	var ops []int32
	var cigar []align.CIGAROp
	refGapRun, queryGapRun, matchRun := 0, 0, 0

	flushRefGap := func() {
		if refGapRun > 0 {
			ops = append(ops, int32(refGapRun))
			cigar = append(cigar, align.CIGAROp{Op: 'D', Len: refGapRun})
			refGapRun = 0
		}
	}
	flushQueryGap := func() {
		if queryGapRun > 0 {
			ops = append(ops, -int32(queryGapRun))
			cigar = append(cigar, align.CIGAROp{Op: 'I', Len: queryGapRun})
			queryGapRun = 0
		}
	}
	flushMatch := func() {
		if matchRun > 0 {
			cigar = append(cigar, align.CIGAROp{Op: 'M', Len: matchRun})
			matchRun = 0
		}
	}

	for i > 0 || j > 0 {
		switch state {
		case stateM:
			flushRefGap()
			flushQueryGap()
			matchRun++
			cell := dp[i][j]
			state = cell.mFrom
			i--
			j--
		case stateIx: // gap in reference: query advances alone
			flushRefGap()
			flushMatch()
			queryGapRun++
			cell := dp[i][j]
			state = cell.ixFrom
			j--
		case stateIy: // gap in query: reference advances alone
			flushQueryGap()
			flushMatch()
			refGapRun++
			cell := dp[i][j]
			state = cell.iyFrom
			i--
		}
	}
	flushRefGap()
	flushQueryGap()
	flushMatch()

	for l, r := 0, len(ops)-1; l < r; l, r = l+1, r-1 {
		ops[l], ops[r] = ops[r], ops[l]
	}
	for l, r := 0, len(cigar)-1; l < r; l, r = l+1, r-1 {
		cigar[l], cigar[r] = cigar[r], cigar[l]
	}
	return ops, cigar
}
