// internal/format/format.go
package format

import (
	"fmt"
	"io"

	"nucmer-core/align"
	"nucmer-core/seqstore"
)

// Meta gives a Writer access to the sequence names/lengths an
// align.Alignment's RefSeq/QuerySeq indices refer to, and the query bytes
// themselves (needed verbatim by the long-form SAM writer).
type Meta struct {
	RefStore  *seqstore.Store
	QuerySeqs []seqstore.Sequence
}

func (m Meta) refName(i int) string   { return m.RefStore.Sequences[i].ID }
func (m Meta) refLen(i int) int       { return m.RefStore.Sequences[i].Length }
func (m Meta) queryName(i int) string { return m.QuerySeqs[i].ID }
func (m Meta) queryLen(i int) int     { return m.QuerySeqs[i].Length }
func (m Meta) queryBases(i int) []byte {
	return m.QuerySeqs[i].Bases
}

// Writer serialises alignment records one at a time, in the order they
// are handed to it (the pipeline already guarantees spec.md §4.6's
// deterministic order before records ever reach a Writer).
type Writer interface {
	WriteAlignment(a align.Alignment) error
	// Flush pushes buffered output without closing the underlying stream —
	// the pipeline driver calls it on the -batch cadence; Close calls it once
	// more at the end.
	Flush() error
	Close() error
}

// constructor builds a Writer over w for a registered format name.
type constructor func(w io.Writer, meta Meta) Writer

// registry mirrors the teacher's writers/registry.go map-of-constructors
// pattern (format name -> handler), generalised from product/annotated/
// nested payloads to one alignment-record payload with several formats.
var registry = map[string]constructor{}

func register(name string, c constructor) { registry[name] = c }

// New builds the Writer registered for name, or an error if name is
// unknown (cli/nmconfig validation should make that unreachable in
// practice, but New stays defensive since it's the last place that can
// catch a typo in a -format value).
func New(name string, w io.Writer, meta Meta) (Writer, error) {
	c, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("format: unknown output format %q", name)
	}
	return c(w, meta), nil
}
