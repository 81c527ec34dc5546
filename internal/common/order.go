// internal/common/order.go
package common

import "nucmer-core/align"

// LessAlignment defines the stable emission order spec.md §4.6 requires:
// (reference_seq_index, query_seq_index, strand, ref_start, query_start),
// regardless of completion order in the worker pool.
func LessAlignment(a, b align.Alignment) bool {
	if a.RefSeq != b.RefSeq {
		return a.RefSeq < b.RefSeq
	}
	if a.QuerySeq != b.QuerySeq {
		return a.QuerySeq < b.QuerySeq
	}
	if a.Strand != b.Strand {
		return a.Strand < b.Strand
	}
	if a.RefStart != b.RefStart {
		return a.RefStart < b.RefStart
	}
	return a.QueryStart < b.QueryStart
}

// Key extracts the ordering tuple used by the pipeline's output heap.
type Key struct {
	RefSeq, QuerySeq int
	Strand           align.Strand
}

// KeyOf returns the heap key for a, ahead of its (ref_start, query_start)
// tie-break, since the heap orders whole (ref_seq, query_seq, strand) task
// results rather than individual records within one task.
func KeyOf(a align.Alignment) Key {
	return Key{RefSeq: a.RefSeq, QuerySeq: a.QuerySeq, Strand: a.Strand}
}

// LessKey orders two task keys the same way LessAlignment orders records,
// dropping the ref_start/query_start tie-break keys don't carry.
func LessKey(a, b Key) bool {
	if a.RefSeq != b.RefSeq {
		return a.RefSeq < b.RefSeq
	}
	if a.QuerySeq != b.QuerySeq {
		return a.QuerySeq < b.QuerySeq
	}
	return a.Strand < b.Strand
}
