package cli

import (
	"testing"

	"github.com/spf13/cobra"
)

func parse(t *testing.T, args ...string) (Options, error) {
	t.Helper()
	var opts Options
	var ranE error
	cmd := NewRootCommand(&opts, func(cmd *cobra.Command, args []string) error { return nil })
	cmd.SetArgs(args)
	ranE = cmd.Execute()
	return opts, ranE
}

func TestDefaultsAndPolicy(t *testing.T) {
	opts, err := parse(t, "ref.fa", "query.fa")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Policy != PolicyMAM {
		t.Fatalf("expected default policy MAM, got %v", opts.Policy)
	}
	if opts.MinMatch != 20 || opts.BreakLen != 200 || opts.MinCluster != 65 {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
}

func TestMumcandAliasesMumreference(t *testing.T) {
	opts, err := parse(t, "--mumcand", "ref.fa", "query.fa")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Policy != PolicyMAM {
		t.Fatalf("expected -mumcand to alias MAM, got %v", opts.Policy)
	}
}

func TestConflictingPolicyFlagsRejected(t *testing.T) {
	if _, err := parse(t, "--mum", "--maxmatch", "ref.fa", "query.fa"); err == nil {
		t.Fatalf("expected error for conflicting policy flags")
	}
}

// --delta, --sam-short and --sam-long each write to their own file path
// alongside the primary -format writer on stdout (internal/app.openSinks);
// nothing about them is mutually exclusive.
func TestAuxiliaryOutputFlagsCombine(t *testing.T) {
	opts, err := parse(t, "--delta", "out.delta", "--sam-short", "out.sam", "ref.fa", "query.fa")
	if err != nil {
		t.Fatalf("unexpected error combining --delta and --sam-short: %v", err)
	}
	if opts.Delta != "out.delta" || opts.SAMShort != "out.sam" {
		t.Fatalf("unexpected options: %+v", opts)
	}
}

func TestMinMatchBelowKRejected(t *testing.T) {
	if err := CheckMinMatchAgainstK(5, 11); err == nil {
		t.Fatalf("expected error when minmatch < k")
	}
	if err := CheckMinMatchAgainstK(20, 11); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestInvalidFormatRejected(t *testing.T) {
	if _, err := parse(t, "--format", "bam", "ref.fa", "query.fa"); err == nil {
		t.Fatalf("expected error for invalid -format value")
	}
}
