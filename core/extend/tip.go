// core/extend/tip.go
package extend

// sepByte/termByte mirror seqstore's concatenation sentinels (seqstore.go
// keeps its own copy private, same as matchfinder does): tip extension
// must stop at a sequence boundary rather than walk into the next
// sequence's bases.
const (
	sepByte  byte = 1
	termByte byte = 0
)

// extendTip walks outward from (refPos, queryPos) in direction dir (-1
// for the left tip, +1 for the right tip) through one base at a time,
// scoring matches and mismatches (never gaps — tip extension is
// ungapped, per spec.md's "extend outward ... through low-scoring
// regions"), and gives up once the running score has fallen more than
// breakLen below the best score seen so far, rewinding to that
// best-seen endpoint.
//
// Returns the new (refPos, queryPos) endpoint and the score accumulated
// up to it. Tip extension never emits delta ops since it introduces no
// indels.
func extendTip(refText, queryText []byte, refPos, queryPos, dir, breakLen int) (int, int, int, []int32) {
	bestScore := 0
	bestRef, bestQuery := refPos, queryPos
	score := 0
	r, q := refPos, queryPos

	for {
		rIdx, qIdx := r, q
		if dir < 0 {
			rIdx, qIdx = r-1, q-1
		}
		if rIdx < 0 || rIdx >= len(refText) || qIdx < 0 || qIdx >= len(queryText) {
			break
		}
		if isSentinelByte(refText[rIdx]) {
			break
		}
		if refText[rIdx] == queryText[qIdx] {
			score += scoreMatch
		} else {
			score += scoreMismatch
		}
		r += dir
		q += dir

		if score > bestScore {
			bestScore = score
			bestRef, bestQuery = r, q
		}
		if bestScore-score > breakLen {
			break
		}
	}

	return bestRef, bestQuery, bestScore, nil
}

func isSentinelByte(b byte) bool { return b == sepByte || b == termByte }
