// internal/format/sam.go
package format

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"nucmer-core/align"
	"nucmer-core/seqstore"
)

func init() {
	register("sam", newSAMWriter(false))
}

// NewSAMShort and NewSAMLong back the --sam-short/--sam-long CLI flags,
// which write to their own file path rather than through the -format
// registry (spec.md §6 lists them as separate flags, not -format values).
func NewSAMShort(w io.Writer, meta Meta) Writer { return newSAMWriter(false)(w, meta) }
func NewSAMLong(w io.Writer, meta Meta) Writer  { return newSAMWriter(true)(w, meta) }

type samWriter struct {
	w          *bufio.Writer
	meta       Meta
	long       bool
	headerDone map[int]bool
	rcCache    map[int][]byte
}

func newSAMWriter(long bool) constructor {
	return func(w io.Writer, meta Meta) Writer {
		return &samWriter{w: bufio.NewWriter(w), meta: meta, long: long, headerDone: map[int]bool{}, rcCache: map[int][]byte{}}
	}
}

// WriteAlignment emits one SAM record. The short form writes only the
// aligned query bases in SEQ, leaving the soft-clipped flanks out ("*"
// when the aligned span is empty); the long form writes the full query
// sequence, including the clipped flanks, verbatim.
func (s *samWriter) WriteAlignment(a align.Alignment) error {
	if !s.headerDone[a.RefSeq] {
		if _, err := fmt.Fprintf(s.w, "@SQ\tSN:%s\tLN:%d\n", s.meta.refName(a.RefSeq), s.meta.refLen(a.RefSeq)); err != nil {
			return err
		}
		s.headerDone[a.RefSeq] = true
	}

	flag := 0
	queryBases := s.meta.queryBases(a.QuerySeq)
	qLen := s.meta.queryLen(a.QuerySeq)
	leftClip, rightClip := a.QueryStart, qLen-a.QueryEnd

	if a.Strand == align.Reverse {
		flag |= 16
		rc, ok := s.rcCache[a.QuerySeq]
		if !ok {
			var err error
			rc, err = seqstore.ReverseComplementBytes(queryBases)
			if err != nil {
				return err
			}
			s.rcCache[a.QuerySeq] = rc
		}
		queryBases = rc
	}

	cigar := buildCIGARString(leftClip, rightClip, a.CIGAR)

	seq := "*"
	if s.long {
		seq = string(queryBases)
	} else if span := queryBases[a.QueryStart:a.QueryEnd]; len(span) > 0 {
		seq = string(span)
	}

	_, err := fmt.Fprintf(s.w, "%s\t%d\t%s\t%d\t255\t%s\t*\t0\t0\t%s\t*\n",
		s.meta.queryName(a.QuerySeq), flag, s.meta.refName(a.RefSeq), a.RefStart+1, cigar, seq)
	return err
}

func (s *samWriter) Flush() error { return s.w.Flush() }
func (s *samWriter) Close() error { return s.w.Flush() }

// buildCIGARString prepends/appends soft-clip runs to the aligned-region
// CIGAR ops and renders the whole thing as a SAM CIGAR string.
func buildCIGARString(leftClip, rightClip int, ops []align.CIGAROp) string {
	var b strings.Builder
	if leftClip > 0 {
		fmt.Fprintf(&b, "%dS", leftClip)
	}
	for _, op := range ops {
		fmt.Fprintf(&b, "%d%c", op.Len, op.Op)
	}
	if rightClip > 0 {
		fmt.Fprintf(&b, "%dS", rightClip)
	}
	if b.Len() == 0 {
		return "*"
	}
	return b.String()
}
