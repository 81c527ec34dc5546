// internal/nmconfig/nmconfig.go
package nmconfig

import (
	"runtime"

	"nucmer-core/matchfinder"

	"nucmer/internal/apperr"
	"nucmer/internal/cli"
)

// defaultSamplingRate is the suffix-array sampling rate k used when none is
// implied by the CLI surface (k is an internal tuning knob, not a flag;
// spec.md §6 only constrains it via -l/--minmatch >= k).
const defaultSamplingRate = 11

// Config is the fully resolved set of parameters the pipeline runs with,
// merging CLI flags with defaults that depend on runtime state (CPU count)
// or on each other (sampling rate vs. minmatch).
type Config struct {
	Reference string
	Query     string

	Policy          matchfinder.Policy
	SamplingRate    int
	MinMatch        int
	SearchForward   bool
	SearchReverse   bool

	BreakLen   int
	MinCluster int
	DiagDiff   int
	DiagFactor float64
	MaxGap     int
	MinAlign   int

	NoExtend   bool
	NoOptimize bool
	NoSimplify bool
	Banded     bool

	Prefix   string
	Delta    string
	SAMShort string
	SAMLong  string
	Format   string

	SavePath string
	LoadPath string

	Large    bool
	Genome   bool
	MaxChunk int
	Threads  int
	Batch    int
	Stats    bool
}

// Resolve merges parsed CLI options into a runnable Config, applying
// runtime-dependent defaults and the clamp of k to minmatch that
// cli.validate cannot perform on its own (k is not itself a flag).
func Resolve(opts cli.Options) (Config, error) {
	c := Config{
		Reference:  opts.Reference,
		Query:      opts.Query,
		MinMatch:   opts.MinMatch,
		BreakLen:   opts.BreakLen,
		MinCluster: opts.MinCluster,
		DiagDiff:   opts.DiagDiff,
		DiagFactor: opts.DiagFactor,
		MaxGap:     opts.MaxGap,
		MinAlign:   opts.MinAlign,
		NoExtend:   opts.NoExtend,
		NoOptimize: opts.NoOptimize,
		NoSimplify: opts.NoSimplify,
		Banded:     opts.Banded,
		Prefix:     opts.Prefix,
		Delta:      opts.Delta,
		SAMShort:   opts.SAMShort,
		SAMLong:    opts.SAMLong,
		Format:     opts.Format,
		SavePath:   opts.SavePath,
		LoadPath:   opts.LoadPath,
		Large:      opts.Large,
		Genome:     opts.Genome,
		MaxChunk:   opts.MaxChunk,
		Batch:      opts.Batch,
		Stats:      opts.Stats,
	}

	switch opts.Policy {
	case cli.PolicyMUM:
		c.Policy = matchfinder.MUM
	case cli.PolicyMEM:
		c.Policy = matchfinder.MEM
	default:
		c.Policy = matchfinder.MAM
	}

	// Neither -f nor -r given means both strands are searched (spec.md §6).
	switch {
	case opts.Forward && !opts.Reverse:
		c.SearchForward, c.SearchReverse = true, false
	case opts.Reverse && !opts.Forward:
		c.SearchForward, c.SearchReverse = false, true
	default:
		c.SearchForward, c.SearchReverse = true, true
	}

	// A fresh build always clamps k down to MinMatch when MinMatch is
	// smaller, so -l/--minmatch >= k holds by construction here; there is
	// no cli.CheckMinMatchAgainstK call to make on this path, unlike a
	// --load'ed index, whose k was fixed at save time and is checked
	// against this run's MinMatch separately once the index is read
	// (internal/app.buildOrLoadIndex).
	c.SamplingRate = defaultSamplingRate
	if c.MinMatch < c.SamplingRate {
		c.SamplingRate = c.MinMatch
	}

	c.Threads = opts.Threads
	if c.Threads == 0 {
		c.Threads = runtime.NumCPU()
	}
	if c.Threads < 1 {
		return Config{}, apperr.Wrapf(apperr.Usage, "", "resolved thread count must be >= 1")
	}

	return c, nil
}
