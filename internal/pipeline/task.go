// internal/pipeline/task.go
package pipeline

import (
	"sort"

	"nucmer-core/align"
	"nucmer-core/cluster"
	"nucmer-core/extend"
	"nucmer-core/matchfinder"
	"nucmer-core/seqstore"

	"nucmer/internal/nmconfig"
)

// Task is one (reference_chunk, query_sequence, strand) work unit, per
// spec.md §5: read-only access to shared state, its own match/cluster/
// extender scratch space, independent of every other task.
type Task struct {
	RefSeqIdx   int
	QuerySeqIdx int
	Strand      matchfinder.Strand
}

// run executes one task against the shared, immutable reference buffer and
// sequence store plus its precomputed seed search (shared across every task
// for the same query/strand, see computeSeeds), returning the alignment
// records it produced in local (per-sequence) coordinates.
func run(t Task, refBuf []byte, refStore *seqstore.Store, seed seedResult, cfg nmconfig.Config) ([]align.Alignment, error) {
	if seed.err != nil {
		return nil, seed.err
	}
	queryBytes := seed.queryBytes

	refRange := refStore.Ranges[t.RefSeqIdx]
	local := make([]matchfinder.Match, 0, len(seed.matches))
	for _, m := range seed.matches {
		if m.RefPos < refRange.Start || m.RefPos+m.Length > refRange.End {
			continue
		}
		local = append(local, m)
	}
	if len(local) == 0 {
		return nil, nil
	}

	clusterParams := cluster.Params{
		MaxGap:     cfg.MaxGap,
		DiagDiff:   cfg.DiagDiff,
		DiagFactor: cfg.DiagFactor,
		MinCluster: cfg.MinCluster,
		NoSimplify: cfg.NoSimplify,
	}
	clusters := cluster.Chain(local, cfg.MinMatch, clusterParams)

	extendParams := extend.Params{
		DiagDiff:   cfg.DiagDiff,
		DiagFactor: cfg.DiagFactor,
		Banded:     cfg.Banded,
		BreakLen:   cfg.BreakLen,
		NoExtend:   cfg.NoExtend,
		NoOptimize: cfg.NoOptimize,
		MinAlign:   cfg.MinAlign,
	}

	out := make([]align.Alignment, 0, len(clusters))
	for _, c := range clusters {
		aln, ok := extend.Extend(c, refBuf, queryBytes, extendParams)
		if !ok {
			continue
		}
		aln.RefSeq = t.RefSeqIdx
		aln.QuerySeq = t.QuerySeqIdx
		aln.RefStart -= refRange.Start
		aln.RefEnd -= refRange.Start
		out = append(out, *aln)
	}
	// cluster.Chain orders clusters by score descending so shadowRemove's
	// greedy claim picks the best chain first; that's not the output
	// order a caller wants, so re-sort by position before returning.
	sort.Slice(out, func(i, j int) bool {
		if out[i].RefStart != out[j].RefStart {
			return out[i].RefStart < out[j].RefStart
		}
		return out[i].QueryStart < out[j].QueryStart
	})
	return out, nil
}
