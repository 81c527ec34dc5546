// internal/format/paf.go
package format

import (
	"bufio"
	"fmt"
	"io"

	"nucmer-core/align"
)

func init() { register("paf", newPAFWriter) }

type pafWriter struct {
	w    *bufio.Writer
	meta Meta
}

func newPAFWriter(w io.Writer, meta Meta) Writer {
	return &pafWriter{w: bufio.NewWriter(w), meta: meta}
}

// WriteAlignment emits one 12-column PAF record: qname qlen qstart qend
// strand tname tlen tstart tend nmatch alnlen mapq.
func (p *pafWriter) WriteAlignment(a align.Alignment) error {
	refLen := a.RefEnd - a.RefStart
	queryLen := a.QueryEnd - a.QueryStart
	alnLen := refLen
	if queryLen > alnLen {
		alnLen = queryLen
	}
	nmatch := alnLen - gapBases(a.DeltaOps)
	if nmatch < 0 {
		nmatch = 0
	}

	// a.QueryStart/QueryEnd are offsets into the reverse-complemented
	// query buffer on the reverse strand (internal/pipeline/task.go);
	// PAF's qstart/qend are always given on the original, forward
	// query, same conversion default.go and delta.go apply.
	qLen := p.meta.queryLen(a.QuerySeq)
	qs, qe := a.QueryStart, a.QueryEnd
	if a.Strand == align.Reverse {
		qs, qe = qLen-a.QueryEnd, qLen-a.QueryStart
	}

	_, err := fmt.Fprintf(p.w, "%s\t%d\t%d\t%d\t%c\t%s\t%d\t%d\t%d\t%d\t%d\t255\n",
		p.meta.queryName(a.QuerySeq), qLen, qs, qe,
		byte(a.Strand),
		p.meta.refName(a.RefSeq), p.meta.refLen(a.RefSeq), a.RefStart, a.RefEnd,
		nmatch, alnLen)
	return err
}

func (p *pafWriter) Flush() error { return p.w.Flush() }
func (p *pafWriter) Close() error { return p.w.Flush() }
