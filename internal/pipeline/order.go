// internal/pipeline/order.go
package pipeline

import (
	"container/heap"

	"nucmer-core/align"

	"nucmer/internal/common"
)

// taskResult is one completed task's output, tagged with its ordering key.
type taskResult struct {
	key     common.Key
	records []align.Alignment
}

// resultHeap is a min-heap of pending taskResults ordered by common.LessKey,
// so the next-expected key is always at the root regardless of which task
// finished first.
type resultHeap []taskResult

func (h resultHeap) Len() int            { return len(h) }
func (h resultHeap) Less(i, j int) bool  { return common.LessKey(h[i].key, h[j].key) }
func (h resultHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *resultHeap) Push(x interface{}) { *h = append(*h, x.(taskResult)) }
func (h *resultHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// orderedSink buffers completed tasks until they can be emitted in the
// deterministic key order spec.md §4.6/§5 requires, draining eagerly
// whenever the heap's minimum matches the next-expected key.
type orderedSink struct {
	h        resultHeap
	pending  []common.Key
	next     int
	emit     func(align.Alignment) error
	onBatch  func() error
	perBatch int
	sinceFlush int
}

// newOrderedSink builds a sink that expects results for exactly the keys in
// order (the caller enumerates every (ref_seq, query_seq, strand) task it
// dispatched, in emission order, up front). emit is called once per record,
// in order; onBatch is called every perBatch drained tasks (the -batch flush
// cadence).
func newOrderedSink(order []common.Key, emit func(align.Alignment) error, onBatch func() error, perBatch int) *orderedSink {
	if perBatch < 1 {
		perBatch = 1
	}
	s := &orderedSink{pending: order, emit: emit, onBatch: onBatch, perBatch: perBatch}
	heap.Init(&s.h)
	return s
}

// Push enqueues one task's result and drains every task now ready to emit.
func (s *orderedSink) Push(key common.Key, records []align.Alignment) error {
	heap.Push(&s.h, taskResult{key: key, records: records})
	return s.drain()
}

func (s *orderedSink) drain() error {
	for s.h.Len() > 0 && s.next < len(s.pending) && s.h[0].key == s.pending[s.next] {
		item := heap.Pop(&s.h).(taskResult)
		for _, r := range item.records {
			if err := s.emit(r); err != nil {
				return err
			}
		}
		s.next++
		s.sinceFlush++
		if s.sinceFlush >= s.perBatch {
			s.sinceFlush = 0
			if s.onBatch != nil {
				if err := s.onBatch(); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Done reports whether every expected task has been drained.
func (s *orderedSink) Done() bool { return s.next >= len(s.pending) }
