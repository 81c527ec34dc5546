// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"nucmer-core/align"
	"nucmer-core/seqstore"
	"nucmer-core/ssa"

	"nucmer/internal/apperr"
	"nucmer/internal/cli"
	"nucmer/internal/format"
	"nucmer/internal/index"
	"nucmer/internal/nmconfig"
	"nucmer/internal/nmlog"
	"nucmer/internal/pipeline"
	"nucmer/internal/progress"
	"nucmer/internal/stats"
	"nucmer/internal/writers"
)

const version = "0.1.0"

// RunContext parses argv, runs the aligner, and returns the process exit
// code spec.md §6 specifies. It never calls os.Exit itself; that boundary
// belongs to internal/appshell and cmd/nucmer/main.go.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	for _, a := range argv {
		if a == "--version" || a == "-v" {
			fmt.Fprintf(stdout, "nucmer version %s\n", version)
			return 0
		}
	}

	var opts cli.Options
	cmd := cli.NewRootCommand(&opts, func(cmd *cobra.Command, args []string) error {
		return run(parent, opts, stdout, stderr)
	})
	cmd.SetArgs(argv)
	cmd.SetOut(stderr)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err != nil && !writers.IsBrokenPipe(err) {
		fmt.Fprintln(stderr, err)
	}
	return apperr.ExitCode(err)
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

// run wires the resolved configuration through sequence loading, index
// construction, the pipeline driver, and the output sinks, matching the
// teacher's parse -> validate -> build -> run -> map-exit-code shape.
func run(ctx context.Context, opts cli.Options, stdout, stderr io.Writer) error {
	nmlog.Configure(stderr, false, false)

	cfg, err := nmconfig.Resolve(opts)
	if err != nil {
		return err
	}

	refSeqs, err := loadAndNormalize(cfg.Reference)
	if err != nil {
		return err
	}
	refStore := seqstore.NewStore(refSeqs)

	querySeqs, err := loadAndNormalize(cfg.Query)
	if err != nil {
		return err
	}

	refIndex, err := buildOrLoadIndex(cfg, refStore)
	if err != nil {
		return err
	}
	if cfg.SavePath != "" {
		if err := index.Save(cfg.SavePath, refIndex, cfg.Large); err != nil {
			return err
		}
	}

	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	meta := format.Meta{RefStore: refStore, QuerySeqs: querySeqs}
	sinks, closeSinks, err := openSinks(cfg, outw, meta)
	if err != nil {
		return err
	}
	defer closeSinks()

	var lengths []int
	emit := func(a align.Alignment) error {
		for _, s := range sinks {
			if err := s.WriteAlignment(a); err != nil {
				return err
			}
		}
		if cfg.Stats {
			lengths = append(lengths, alignedLength(a))
		}
		return nil
	}
	onBatch := func() error {
		for _, s := range sinks {
			if err := s.Flush(); err != nil {
				return err
			}
		}
		return outw.Flush()
	}

	total := int64(len(refStore.Sequences)) * int64(len(querySeqs))
	if cfg.SearchForward && cfg.SearchReverse {
		total *= 2
	}
	bar := progress.Start(stderr, total, false)
	defer bar.Finish()

	if err := pipeline.Run(ctx, cfg, refIndex, refStore.Concat, refStore, querySeqs, emit, onBatch, bar); err != nil {
		return err
	}

	if cfg.Stats {
		r := stats.Summarize(lengths)
		fmt.Fprintf(stderr, "alignments=%d total_bp=%d n50=%d n90=%d min=%d max=%d\n",
			r.Count, r.TotalBp, r.N50, r.N90, r.MinLen, r.MaxLen)
	}
	return nil
}

// loadAndNormalize reads a FASTA file via core/seqstore.LoadFASTA, which
// already upper-cases/collapses bases to the {A,C,G,T,N} alphabet
// core/fasta's normalize applies during decode.
func loadAndNormalize(path string) ([]seqstore.Sequence, error) {
	seqs, err := seqstore.LoadFASTA(path)
	if err != nil {
		kind := apperr.Classify(err)
		if kind == apperr.Internal {
			// Neither an InputFormat nor an InvalidAlphabet sentinel matched,
			// so this is the underlying file open/read failure, not a
			// malformed-content one.
			return nil, apperr.WrapIO(path, err)
		}
		return nil, apperr.New(kind, path, "", err)
	}
	return seqs, nil
}

func buildOrLoadIndex(cfg nmconfig.Config, refStore *seqstore.Store) (*ssa.SSA, error) {
	if cfg.LoadPath != "" {
		idx, err := index.Load(cfg.LoadPath, refStore.Concat, cfg.Large)
		if err != nil {
			return nil, err
		}
		// A loaded index's sampling rate was fixed when it was built and
		// may be coarser than this run's -l/--minmatch, unlike a fresh
		// build where nmconfig.Resolve always clamps k to minmatch.
		if err := cli.CheckMinMatchAgainstK(cfg.MinMatch, idx.K); err != nil {
			return nil, err
		}
		return idx, nil
	}
	idx, err := ssa.Build(refStore.Concat, cfg.SamplingRate)
	if err != nil {
		return nil, apperr.Wrapf(apperr.Classify(err), cfg.Reference, "%v", err)
	}
	return idx, nil
}

// fileSink pairs a format.Writer with the *os.File backing it, so Close
// flushes the writer's internal buffer and then closes the file — needed
// because format.New only ever sees an io.Writer, never the file itself.
type fileSink struct {
	format.Writer
	f *os.File
}

func (s fileSink) Close() error {
	if err := s.Writer.Close(); err != nil {
		return err
	}
	return s.f.Close()
}

// openSinks builds the primary -format writer over stdout plus any of
// --delta/--sam-short/--sam-long the caller asked for, each to its own
// file. It returns a single closer that tears all of them down in order.
func openSinks(cfg nmconfig.Config, stdout io.Writer, meta format.Meta) ([]format.Writer, func() error, error) {
	primary, err := format.New(cfg.Format, stdout, meta)
	if err != nil {
		return nil, nil, err
	}
	sinks := []format.Writer{primary}

	add := func(path string, newWriter func(io.Writer, format.Meta) format.Writer) error {
		if path == "" {
			return nil
		}
		f, err := os.Create(path)
		if err != nil {
			return apperr.WrapIO(path, err)
		}
		sinks = append(sinks, fileSink{Writer: newWriter(f, meta), f: f})
		return nil
	}

	if err := add(cfg.Delta, func(w io.Writer, m format.Meta) format.Writer {
		w2, _ := format.New("delta", w, m)
		return w2
	}); err != nil {
		return nil, nil, err
	}
	if err := add(cfg.SAMShort, format.NewSAMShort); err != nil {
		return nil, nil, err
	}
	if err := add(cfg.SAMLong, format.NewSAMLong); err != nil {
		return nil, nil, err
	}

	closeAll := func() error {
		var firstErr error
		for _, s := range sinks {
			if err := s.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}
	return sinks, closeAll, nil
}

// alignedLength is the same max(ref span, query span) convention
// core/extend uses when deciding whether an alignment clears -L/--minalign.
func alignedLength(a align.Alignment) int {
	refLen := a.RefEnd - a.RefStart
	queryLen := a.QueryEnd - a.QueryStart
	if queryLen > refLen {
		return queryLen
	}
	return refLen
}
