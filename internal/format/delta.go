// internal/format/delta.go
package format

import (
	"bufio"
	"fmt"
	"io"

	"nucmer-core/align"
)

func init() { register("delta", newDeltaWriter) }

type deltaWriter struct {
	w          *bufio.Writer
	meta       Meta
	curRef     int
	curQuery   int
	headerDone bool
}

func newDeltaWriter(w io.Writer, meta Meta) Writer {
	return &deltaWriter{w: bufio.NewWriter(w), meta: meta, curRef: -1, curQuery: -1}
}

// WriteAlignment emits one nucmer-delta record: a ">ref query ref_len
// query_len" header whenever the (ref, query) pair changes, followed by
// "ref_s ref_e q_s q_e errors sim_errors stops" and the delta-op run,
// terminated by 0.
func (d *deltaWriter) WriteAlignment(a align.Alignment) error {
	if !d.headerDone || a.RefSeq != d.curRef || a.QuerySeq != d.curQuery {
		if _, err := fmt.Fprintf(d.w, ">%s %s %d %d\n",
			d.meta.refName(a.RefSeq), d.meta.queryName(a.QuerySeq),
			d.meta.refLen(a.RefSeq), d.meta.queryLen(a.QuerySeq)); err != nil {
			return err
		}
		d.curRef, d.curQuery, d.headerDone = a.RefSeq, a.QuerySeq, true
	}

	qLen := d.meta.queryLen(a.QuerySeq)
	qs, qe := a.QueryStart+1, a.QueryEnd
	if a.Strand == align.Reverse {
		qs, qe = qLen-a.QueryStart, qLen-a.QueryEnd+1
	}

	errs := gapBases(a.DeltaOps)
	if _, err := fmt.Fprintf(d.w, "%d %d %d %d %d %d 0\n",
		a.RefStart+1, a.RefEnd, qs, qe, errs, errs); err != nil {
		return err
	}
	for _, op := range a.DeltaOps {
		if _, err := fmt.Fprintf(d.w, "%d\n", op); err != nil {
			return err
		}
	}
	return nil
}

func (d *deltaWriter) Flush() error { return d.w.Flush() }
func (d *deltaWriter) Close() error { return d.w.Flush() }

// gapBases sums the magnitude of every gap-run op, the coarse error-count
// proxy the identity estimate in core/extend uses too (mismatches inside
// matched columns never reach the delta-op stream, only gaps do).
func gapBases(ops []int32) int {
	total := 0
	for _, op := range ops {
		if op < 0 {
			total += int(-op)
		} else if op > 0 {
			total += int(op)
		}
	}
	return total
}
