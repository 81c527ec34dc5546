// internal/pipeline/seeds.go
package pipeline

import (
	"context"
	"sync"

	"nucmer-core/matchfinder"
	"nucmer-core/seqstore"
	"nucmer-core/ssa"

	"nucmer/internal/nmconfig"
)

// seedKey identifies the part of a task's work that matchfinder.Find
// actually depends on: the query sequence and strand, not the reference
// sequence a task's output will be attributed to. matchfinder.Find
// always searches the whole concatenated reference index, so every
// (reference_chunk, query, strand) task sharing a query/strand would
// otherwise repeat an identical whole-index seed search and discard
// every match outside its own reference range.
type seedKey struct {
	QuerySeqIdx int
	Strand      matchfinder.Strand
}

// seedResult is one (query, strand) pair's seed search: the query bytes
// actually searched (reverse-complemented already, on the reverse
// strand) and the raw matches matchfinder.Find produced against them.
type seedResult struct {
	queryBytes []byte
	matches    []matchfinder.Match
	err        error
}

// computeSeeds runs matchfinder.Find once per distinct (query_sequence,
// strand) pair, fanned out across threads, and returns the results keyed
// for every task to look up. Tasks remain independent in the sense
// spec.md §5 requires — none of them mutate shared state or observe
// each other — they just share this read-only precomputed input instead
// of each repeating the same search over reference sequences it doesn't
// need.
func computeSeeds(ctx context.Context, cfg nmconfig.Config, refIndex *ssa.SSA, querySeqs []seqstore.Sequence, strands []matchfinder.Strand, threads int) map[seedKey]seedResult {
	type job struct {
		key seedKey
		seq seqstore.Sequence
	}
	var jobs []job
	for qi, q := range querySeqs {
		for _, s := range strands {
			jobs = append(jobs, job{key: seedKey{QuerySeqIdx: qi, Strand: s}, seq: q})
		}
	}

	results := make(map[seedKey]seedResult, len(jobs))
	var mu sync.Mutex
	var wg sync.WaitGroup

	if threads < 1 {
		threads = 1
	}
	sem := make(chan struct{}, threads)

	for _, j := range jobs {
		j := j
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			select {
			case <-ctx.Done():
				mu.Lock()
				results[j.key] = seedResult{err: ctx.Err()}
				mu.Unlock()
				return
			default:
			}

			queryBytes := j.seq.Bases
			if j.key.Strand == matchfinder.Reverse {
				rc, err := seqstore.ReverseComplementBytes(j.seq.Bases)
				if err != nil {
					mu.Lock()
					results[j.key] = seedResult{err: err}
					mu.Unlock()
					return
				}
				queryBytes = rc
			}

			matches, err := matchfinder.Find(refIndex, queryBytes, j.key.Strand, cfg.MinMatch, cfg.Policy)
			mu.Lock()
			results[j.key] = seedResult{queryBytes: queryBytes, matches: matches, err: err}
			mu.Unlock()
		}()
	}
	wg.Wait()
	return results
}

// searchStrands returns the strands a run actually searches, per
// cfg.SearchForward/SearchReverse.
func searchStrands(cfg nmconfig.Config) []matchfinder.Strand {
	var strands []matchfinder.Strand
	if cfg.SearchForward {
		strands = append(strands, matchfinder.Forward)
	}
	if cfg.SearchReverse {
		strands = append(strands, matchfinder.Reverse)
	}
	return strands
}
