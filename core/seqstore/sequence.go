// core/seqstore/sequence.go
package seqstore

import "errors"

// ErrInvalidAlphabet is returned when complement() sees a byte outside
// {A,C,G,T,N} after normalization. Seeing it means a caller bypassed
// Normalize, which is an invariant violation rather than bad input.
var ErrInvalidAlphabet = errors.New("seqstore: invalid alphabet byte")

// Sequence is a single named DNA record: upper-cased bytes over {A,C,G,T,N}.
type Sequence struct {
	ID     string
	Bases  []byte
	Length int
}

// Normalize upper-cases and collapses any byte outside {A,C,G,T,N} —
// lowercase bases and IUPAC ambiguity codes alike — to 'N'.
func Normalize(raw []byte) []byte {
	out := make([]byte, len(raw))
	for i, b := range raw {
		out[i] = normalizeBase(b)
	}
	return out
}

func normalizeBase(b byte) byte {
	switch b {
	case 'A', 'a':
		return 'A'
	case 'C', 'c':
		return 'C'
	case 'G', 'g':
		return 'G'
	case 'T', 't':
		return 'T'
	default:
		return 'N'
	}
}

var complementTable = [256]byte{}

func init() {
	complementTable['A'] = 'T'
	complementTable['T'] = 'A'
	complementTable['C'] = 'G'
	complementTable['G'] = 'C'
	complementTable['N'] = 'N'
}

// complement returns the Watson-Crick complement of a normalized base.
// Any byte outside {A,C,G,T,N} is a bug in the caller, not bad input.
func complement(b byte) (byte, error) {
	c := complementTable[b]
	if c == 0 {
		return 0, ErrInvalidAlphabet
	}
	return c, nil
}

// ReverseComplement returns a new Sequence whose bases are the reverse
// complement of s. The base at offset i of the result equals
// complement(s.Bases[len-1-i]); the bases are materialized eagerly, as they
// are by ReverseComplementBytes, which returns a new slice.
func ReverseComplement(s Sequence) (Sequence, error) {
	rc, err := ReverseComplementBytes(s.Bases)
	if err != nil {
		return Sequence{}, err
	}
	return Sequence{ID: s.ID, Bases: rc, Length: len(rc)}, nil
}

// ReverseComplementBytes reverse-complements a normalized base slice.
func ReverseComplementBytes(bases []byte) ([]byte, error) {
	n := len(bases)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		c, err := complement(bases[n-1-i])
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}
