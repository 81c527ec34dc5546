// internal/format/default.go
package format

import (
	"bufio"
	"fmt"
	"io"

	"nucmer-core/align"
)

func init() { register("default", newDefaultWriter) }

type defaultWriter struct {
	w          *bufio.Writer
	meta       Meta
	curRef     int
	curQuery   int
	headerDone bool
}

func newDefaultWriter(w io.Writer, meta Meta) Writer {
	return &defaultWriter{w: bufio.NewWriter(w), meta: meta, curRef: -1, curQuery: -1}
}

// WriteAlignment prints one human-readable line per alignment, grouped
// under a ">ref query" header the same way the delta format groups
// records, but with 1-based inclusive coordinates and a percent-identity
// column rather than raw delta ops.
func (d *defaultWriter) WriteAlignment(a align.Alignment) error {
	if !d.headerDone || a.RefSeq != d.curRef || a.QuerySeq != d.curQuery {
		if _, err := fmt.Fprintf(d.w, ">%s %s\n", d.meta.refName(a.RefSeq), d.meta.queryName(a.QuerySeq)); err != nil {
			return err
		}
		d.curRef, d.curQuery, d.headerDone = a.RefSeq, a.QuerySeq, true
	}

	qLen := d.meta.queryLen(a.QuerySeq)
	qs, qe := a.QueryStart+1, a.QueryEnd
	if a.Strand == align.Reverse {
		qs, qe = qLen-a.QueryStart, qLen-a.QueryEnd+1
	}

	_, err := fmt.Fprintf(d.w, "%8d %8d  %8d %8d  %6.2f%%  %c\n",
		a.RefStart+1, a.RefEnd, qs, qe, a.Identity, byte(a.Strand))
	return err
}

func (d *defaultWriter) Flush() error { return d.w.Flush() }
func (d *defaultWriter) Close() error { return d.w.Flush() }
