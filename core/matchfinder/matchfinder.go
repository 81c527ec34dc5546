// core/matchfinder/matchfinder.go
package matchfinder

import (
	"bytes"
	"errors"
	"sort"

	"nucmer-core/ssa"
)

// ErrMinMatchTooShort is returned by Find when minLen < the sampling rate
// the SSA was built with; a match shorter than that is not guaranteed to
// contain a sampled position, so the seed phase could miss it silently.
var ErrMinMatchTooShort = errors.New("matchfinder: minimum match length below sampling rate")

// Strand tags which orientation of the query a Match was found against.
type Strand byte

const (
	Forward Strand = '+'
	Reverse Strand = '-'
)

// Policy selects which uniqueness predicate a match must satisfy to be
// emitted.
type Policy int

const (
	// MEM emits every maximal match, unique or not.
	MEM Policy = iota
	// MAM additionally requires the reference occurrence to be unique.
	MAM
	// MUM additionally requires the query occurrence to be unique.
	MUM
)

// Match is a maximal exact match between a reference and a query, found
// on the given strand.
type Match struct {
	RefPos   int
	QueryPos int
	Length   int
	Strand   Strand
}

const (
	sepByte  byte = 1
	termByte byte = 0
)

func isSentinel(b byte) bool { return b == sepByte || b == termByte }

// countOccurrences counts overlapping occurrences of pat in text, unlike
// bytes.Count which only counts non-overlapping ones and would
// undercount runs like pat="AA" in text="AAA".
func countOccurrences(text, pat []byte) int {
	count := 0
	start := 0
	for {
		i := bytes.Index(text[start:], pat)
		if i < 0 {
			return count
		}
		count++
		start += i + 1
	}
}

// Find searches refIndex's underlying reference text for every maximal
// match against query of length at least minLen, tagging results with
// strand, and keeps only those satisfying policy.
//
// The seed phase looks up windows of minLen-K+1 bases. Only every K-th
// reference suffix is indexed, but any match of length >= minLen contains
// a sampled start within its first K positions, with at least minLen-K+1
// matching bases after it; each hit is then extended left and right to
// the maximal match, and hits whose extension is shorter than minLen are
// dropped.
func Find(refIndex *ssa.SSA, query []byte, strand Strand, minLen int, policy Policy) ([]Match, error) {
	if minLen < refIndex.K {
		return nil, ErrMinMatchTooShort
	}
	refText := refIndex.Text()
	m := len(query)

	type cand struct{ refPos, queryPos, length int }
	seen := make(map[cand]struct{})
	var raw []cand

	seedLen := minLen - refIndex.K + 1
	for j := 0; j+seedLen <= m; j++ {
		seed := query[j : j+seedLen]
		lo, hi := refIndex.Locate(seed)
		for idx := lo; idx < hi; idx++ {
			r := int(refIndex.Positions[idx])

			left := 0
			for r-left-1 >= 0 && j-left-1 >= 0 &&
				!isSentinel(refText[r-left-1]) &&
				refText[r-left-1] == query[j-left-1] {
				left++
			}
			right := seedLen
			for r+right < len(refText) && j+right < m &&
				!isSentinel(refText[r+right]) &&
				refText[r+right] == query[j+right] {
				right++
			}
			if right+left < minLen {
				continue
			}

			c := cand{refPos: r - left, queryPos: j - left, length: right + left}
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			raw = append(raw, c)
		}
	}

	// Uniqueness is counted by brute-force scanning the fully materialized
	// buffers rather than via Locate: Locate only finds occurrences that
	// begin at a *sampled* position, so it would undercount an occurrence
	// that starts elsewhere inside a run — it still contains a sample
	// somewhere in its span, just not necessarily at its start.
	var out []Match
	for _, c := range raw {
		substr := refText[c.refPos : c.refPos+c.length]
		if policy >= MAM {
			if countOccurrences(refText, substr) != 1 {
				continue
			}
		}
		if policy >= MUM {
			if countOccurrences(query, substr) != 1 {
				continue
			}
		}
		out = append(out, Match{RefPos: c.refPos, QueryPos: c.queryPos, Length: c.length, Strand: strand})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].QueryPos != out[j].QueryPos {
			return out[i].QueryPos < out[j].QueryPos
		}
		if out[i].RefPos != out[j].RefPos {
			return out[i].RefPos < out[j].RefPos
		}
		return out[i].Length > out[j].Length
	})
	return out, nil
}
