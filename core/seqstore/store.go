// core/seqstore/store.go
package seqstore

import (
	"sort"

	"nucmer-core/fasta"
)

// sepByte separates consecutive sequences inside a concatenated buffer;
// termByte closes the final one. Neither ever appears in a normalized
// sequence, so a suffix array built over the concatenation never treats
// one sequence's tail as a prefix of the next.
const (
	sepByte  byte = 1
	termByte byte = 0
)

// SeqRange records where one sequence's bases live inside a concatenated
// multi-sequence buffer.
type SeqRange struct {
	Start int // inclusive offset into the concatenation
	End   int // exclusive; End-Start == sequence length, separator excluded
}

// ConcatWithSentinels lays sequences end to end, separated by sepByte and
// terminated by termByte, and returns the byte range each sequence occupies
// (separators and the terminator excluded from every range).
func ConcatWithSentinels(seqs []Sequence) ([]byte, []SeqRange) {
	total := 0
	for _, s := range seqs {
		total += len(s.Bases) + 1
	}
	buf := make([]byte, 0, total)
	ranges := make([]SeqRange, len(seqs))
	for i, s := range seqs {
		start := len(buf)
		buf = append(buf, s.Bases...)
		ranges[i] = SeqRange{Start: start, End: len(buf)}
		if i == len(seqs)-1 {
			buf = append(buf, termByte)
		} else {
			buf = append(buf, sepByte)
		}
	}
	return buf, ranges
}

// Store bundles a set of sequences with their sentinel-separated
// concatenation, used as the reference text the pipeline builds a sparse
// suffix array over and scans; query sequences are kept as plain
// Sequences.
type Store struct {
	Sequences []Sequence
	Concat    []byte
	Ranges    []SeqRange
}

// NewStore concatenates seqs and indexes their ranges.
func NewStore(seqs []Sequence) *Store {
	concat, ranges := ConcatWithSentinels(seqs)
	return &Store{Sequences: seqs, Concat: concat, Ranges: ranges}
}

// Lookup maps an offset into Concat back to the sequence that owns it and
// the 0-based position within that sequence. ok is false for sentinel
// bytes and out-of-range offsets.
func (s *Store) Lookup(offset int) (seqIdx, localPos int, ok bool) {
	if offset < 0 || offset >= len(s.Concat) {
		return 0, 0, false
	}
	i := sort.Search(len(s.Ranges), func(i int) bool {
		return s.Ranges[i].End > offset
	})
	if i == len(s.Ranges) || offset < s.Ranges[i].Start {
		return 0, 0, false
	}
	return i, offset - s.Ranges[i].Start, true
}

// LoadFASTA decodes path into Sequences via core/fasta.
func LoadFASTA(path string) ([]Sequence, error) {
	recs, err := fasta.Load(path)
	if err != nil {
		return nil, err
	}
	seqs := make([]Sequence, len(recs))
	for i, r := range recs {
		seqs[i] = Sequence{ID: r.ID, Bases: r.Bases, Length: len(r.Bases)}
	}
	return seqs, nil
}
