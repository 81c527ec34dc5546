// internal/cli/options.go
package cli

import (
	"github.com/spf13/cobra"

	"nucmer/internal/apperr"
)

// Policy selects the maximal-match uniqueness rule.
type Policy int

const (
	PolicyMAM Policy = iota // -mumreference (default) / -mumcand (alias)
	PolicyMUM               // -mum
	PolicyMEM               // -maxmatch
)

// Options holds every flag nucmer accepts, parsed and validated.
type Options struct {
	Reference string
	Query     string

	Policy Policy

	MinMatch int

	BreakLen   int
	MinCluster int
	DiagDiff   int
	DiagFactor float64
	MaxGap     int
	MinAlign   int

	NoExtend   bool
	NoOptimize bool
	NoSimplify bool
	Forward    bool
	Reverse    bool

	Prefix   string
	Delta    string
	SAMShort string
	SAMLong  string
	Format   string

	SavePath string
	LoadPath string

	Banded   bool
	Large    bool
	Genome   bool
	MaxChunk int
	Threads  int
	Batch    int
	Stats    bool

	Version bool
}

// defaults mirror spec.md §6's literal default values.
func defaults() Options {
	return Options{
		Policy:     PolicyMAM,
		MinMatch:   20,
		BreakLen:   200,
		MinCluster: 65,
		DiagDiff:   5,
		DiagFactor: 0.12,
		MaxGap:     90,
		MinAlign:   0,
		Prefix:     "out",
		Format:     "default",
		Batch:      1,
	}
}

// NewRootCommand builds the cobra command tree for nucmer. opts is filled in
// as flags are registered; RunE is left to the caller (internal/app) so that
// parsing and execution stay separate, matching the teacher's ParseArgs/
// RunContext split.
func NewRootCommand(opts *Options, runE func(cmd *cobra.Command, args []string) error) *cobra.Command {
	*opts = defaults()

	var mum, mumref, mumcand, maxmatch bool

	cmd := &cobra.Command{
		Use:           "nucmer <reference.fa> <query.fa>",
		Short:         "Align a query genome against a reference genome",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Reference, opts.Query = args[0], args[1]
			if err := resolvePolicy(opts, mum, mumref, mumcand, maxmatch); err != nil {
				return err
			}
			if err := validate(opts); err != nil {
				return err
			}
			return runE(cmd, args)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&mum, "mum", false, "unique in both reference and query (MUM)")
	f.BoolVar(&mumref, "mumreference", false, "unique in reference only (MAM, default)")
	f.BoolVar(&mumcand, "mumcand", false, "alias of -mumreference")
	f.BoolVar(&maxmatch, "maxmatch", false, "all maximal matches (MEM)")

	f.IntVarP(&opts.MinMatch, "minmatch", "l", opts.MinMatch, "minimum match length")

	f.IntVarP(&opts.BreakLen, "breaklen", "b", opts.BreakLen, "tip-extension break length")
	f.IntVarP(&opts.MinCluster, "mincluster", "c", opts.MinCluster, "minimum total matched length of a cluster")
	f.IntVarP(&opts.DiagDiff, "diagdiff", "D", opts.DiagDiff, "maximum diagonal difference")
	f.Float64VarP(&opts.DiagFactor, "diagfactor", "d", opts.DiagFactor, "diagonal-drift scaling factor")
	f.IntVarP(&opts.MaxGap, "maxgap", "g", opts.MaxGap, "maximum gap between matches in a cluster")
	f.IntVarP(&opts.MinAlign, "minalign", "L", opts.MinAlign, "minimum alignment length")

	f.BoolVar(&opts.NoExtend, "noextend", false, "do not extend alignments outside clusters")
	f.BoolVar(&opts.NoOptimize, "nooptimize", false, "do not optimize alignment score trimming")
	f.BoolVar(&opts.NoSimplify, "nosimplify", false, "do not simplify overlapping clusters")
	f.BoolVarP(&opts.Forward, "forward", "f", false, "search the forward strand only")
	f.BoolVarP(&opts.Reverse, "reverse", "r", false, "search the reverse-complement strand only")

	f.StringVarP(&opts.Prefix, "prefix", "p", opts.Prefix, "output file prefix (accepted; no output file name is derived from it)")
	f.StringVar(&opts.Delta, "delta", "", "write delta output to PATH")
	f.StringVar(&opts.SAMShort, "sam-short", "", "write short-form SAM output to PATH")
	f.StringVar(&opts.SAMLong, "sam-long", "", "write long-form SAM output to PATH")
	f.StringVar(&opts.Format, "format", opts.Format, "stdout format: default|delta|paf|sam")

	f.StringVar(&opts.SavePath, "save", "", "save the reference suffix-array index to PATH")
	f.StringVar(&opts.LoadPath, "load", "", "load a previously saved suffix-array index from PATH")

	f.BoolVar(&opts.Banded, "banded", false, "use banded gap closure")
	f.BoolVar(&opts.Large, "large", false, "write 64-bit suffix-array offsets to a saved index (in-memory offsets are 32-bit)")
	f.BoolVarP(&opts.Genome, "genome", "G", false, "whole-genome mode (accepted; does not change the run)")
	f.IntVarP(&opts.MaxChunk, "max-chunk", "M", 0, "maximum reference bases per chunk (accepted; each reference sequence is one chunk regardless)")
	f.IntVarP(&opts.Threads, "threads", "t", 0, "number of worker threads (0 = all CPUs)")
	f.IntVar(&opts.Batch, "batch", opts.Batch, "ordered-output flush cadence, in chunks")
	f.BoolVar(&opts.Stats, "stats", false, "print N50/N90 alignment-length statistics")

	f.BoolVarP(&opts.Version, "version", "v", false, "print version and exit")

	return cmd
}

func resolvePolicy(opts *Options, mum, mumref, mumcand, maxmatch bool) error {
	n := 0
	for _, b := range []bool{mum, mumref, mumcand, maxmatch} {
		if b {
			n++
		}
	}
	if n > 1 {
		return apperr.Wrapf(apperr.Usage, "", "only one of -mum, -mumreference, -mumcand, -maxmatch may be given")
	}
	switch {
	case mum:
		opts.Policy = PolicyMUM
	case maxmatch:
		opts.Policy = PolicyMEM
	default:
		// -mumreference and its alias -mumcand both select MAM, and so
		// does giving none of the four (spec.md §6's stated default).
		opts.Policy = PolicyMAM
	}
	return nil
}

func validate(opts *Options) error {
	if opts.MinMatch < 1 {
		return apperr.Wrapf(apperr.Usage, "", "-l/--minmatch must be >= 1")
	}
	switch opts.Format {
	case "default", "delta", "paf", "sam":
	default:
		return apperr.Wrapf(apperr.Usage, "", "invalid -format %q (want default|delta|paf|sam)", opts.Format)
	}
	if opts.DiagFactor < 0 {
		return apperr.Wrapf(apperr.Usage, "", "-d/--diagfactor must be >= 0")
	}
	if opts.Threads < 0 {
		return apperr.Wrapf(apperr.Usage, "", "-t/--threads must be >= 0")
	}
	if opts.Batch < 1 {
		return apperr.Wrapf(apperr.Usage, "", "--batch must be >= 1")
	}
	if opts.SavePath != "" && opts.LoadPath != "" {
		return apperr.Wrapf(apperr.Usage, "", "--save and --load are mutually exclusive")
	}
	return nil
}

// CheckMinMatchAgainstK validates spec.md §6's cross-parameter rule
// (minmatch >= sampling rate k) once k is known, which happens only after
// nmconfig resolves the run (k is not itself a CLI flag).
func CheckMinMatchAgainstK(minMatch, k int) error {
	if minMatch < k {
		return apperr.Wrapf(apperr.Usage, "", "-l/--minmatch (%d) must be >= sampling rate k (%d)", minMatch, k)
	}
	return nil
}
