// Package pipeline fans (reference_seq, query_seq, strand) tasks out
// across a worker pool sharing one immutable suffix-array index and
// sequence stores, then drains completed tasks through a min-heap so
// records are emitted in deterministic order regardless of completion
// order.
package pipeline
