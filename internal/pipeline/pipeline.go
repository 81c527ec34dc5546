// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"errors"
	"sync"

	"nucmer-core/align"
	"nucmer-core/seqstore"
	"nucmer-core/ssa"

	"nucmer/internal/common"
	"nucmer/internal/nmconfig"
	"nucmer/internal/nmlog"
	"nucmer/internal/progress"
)

// jobResult pairs a dispatched Task with the records it produced.
type jobResult struct {
	task    Task
	records []align.Alignment
	err     error
}

// Run partitions the reference/query sequence pairs into (reference_seq,
// query_seq, strand) tasks, fans them out across cfg.Threads worker
// goroutines sharing the immutable refIndex/refStore, and calls emit with
// every resulting alignment record in the deterministic order spec.md
// §4.6 requires. onBatch, if non-nil, is invoked every cfg.Batch drained
// tasks (the -batch flush cadence); bar, if non-nil, is incremented once
// per drained task.
//
// Run returns the first error encountered; context cancellation is not
// treated as an error, and tasks cut short by it contribute no records.
// On error the driver marks the run failed, drains
// outstanding tasks without executing their bodies, and does not attempt
// to rewind output already emitted, per spec.md §5.
func Run(
	ctx context.Context,
	cfg nmconfig.Config,
	refIndex *ssa.SSA,
	refBuf []byte,
	refStore *seqstore.Store,
	querySeqs []seqstore.Sequence,
	emit func(align.Alignment) error,
	onBatch func() error,
	bar *progress.Bar,
) error {
	tasks := buildTasks(cfg, len(refStore.Sequences), querySeqs)
	order := make([]common.Key, len(tasks))
	for i, t := range tasks {
		order[i] = common.Key{RefSeq: t.RefSeqIdx, QuerySeq: t.QuerySeqIdx, Strand: align.Strand(t.Strand)}
	}
	sink := newOrderedSink(order, emit, onBatch, cfg.Batch)

	threads := cfg.Threads
	if threads < 1 {
		threads = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// matchfinder.Find searches the whole reference index regardless of
	// which reference sequence a task cares about, so its result only
	// depends on (query_seq, strand). Computing it once per pair here,
	// instead of once per task, turns numRefSeqs redundant whole-index
	// searches into one.
	seeds := computeSeeds(ctx, cfg, refIndex, querySeqs, searchStrands(cfg), threads)

	jobs := make(chan Task, threads*2)
	results := make(chan jobResult, threads*2)

	var wg sync.WaitGroup
	wg.Add(threads)
	for w := 0; w < threads; w++ {
		workerID := w
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case t, ok := <-jobs:
					if !ok {
						return
					}
					log := nmlog.ForTask(t.RefSeqIdx, t.QuerySeqIdx, byte(t.Strand), workerID)
					log.Debug("task started")
					seed := seeds[seedKey{QuerySeqIdx: t.QuerySeqIdx, Strand: t.Strand}]
					recs, err := run(t, refBuf, refStore, seed, cfg)
					if err != nil {
						log.WithError(err).Debug("task failed")
					} else {
						log.Debugf("task finished: %d alignments", len(recs))
					}
					select {
					case results <- jobResult{task: t, records: recs, err: err}:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, t := range tasks {
			select {
			case jobs <- t:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var firstErr error
	for r := range results {
		if r.err != nil {
			if errors.Is(r.err, context.Canceled) {
				continue
			}
			if firstErr == nil {
				firstErr = r.err
				cancel()
			}
			continue
		}
		if firstErr != nil {
			continue
		}
		key := common.Key{RefSeq: r.task.RefSeqIdx, QuerySeq: r.task.QuerySeqIdx, Strand: align.Strand(r.task.Strand)}
		if err := sink.Push(key, r.records); err != nil && firstErr == nil {
			firstErr = err
			cancel()
		}
		if bar != nil {
			bar.Increment()
		}
	}

	if firstErr != nil {
		return firstErr
	}
	if ctx.Err() != nil && ctx.Err() != context.Canceled {
		return ctx.Err()
	}
	return nil
}

// buildTasks enumerates every (reference_seq, query_seq, strand) unit, in
// the same order the output sink expects to drain them.
func buildTasks(cfg nmconfig.Config, numRefSeqs int, querySeqs []seqstore.Sequence) []Task {
	strands := searchStrands(cfg)

	var tasks []Task
	for ref := 0; ref < numRefSeqs; ref++ {
		for q := range querySeqs {
			for _, s := range strands {
				tasks = append(tasks, Task{RefSeqIdx: ref, QuerySeqIdx: q, Strand: s})
			}
		}
	}
	return tasks
}
