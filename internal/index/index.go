// internal/index/index.go
package index

import (
	"errors"
	"os"

	"nucmer-core/ssa"

	"nucmer/internal/apperr"
)

// Save persists idx to path using the on-disk layout of spec.md §6.
func Save(path string, idx *ssa.SSA, large bool) error {
	f, err := os.Create(path)
	if err != nil {
		return apperr.WrapIO(path, err)
	}
	defer f.Close()

	if err := idx.Save(f, large); err != nil {
		return apperr.WrapIO(path, err)
	}
	return nil
}

// Load reads a persisted index from path and validates it against the
// caller's in-memory reference buffer t. A digest, sentinel, or length
// mismatch is reported as apperr.IndexMismatch so --load failures are
// scriptable distinctly from ordinary I/O errors.
func Load(path string, t []byte, large bool) (*ssa.SSA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperr.WrapIO(path, err)
	}
	defer f.Close()

	idx, err := ssa.Load(f, t, large)
	if err != nil {
		if errors.Is(err, ssa.ErrIndexMismatch) {
			return nil, apperr.New(apperr.IndexMismatch, path, "", err)
		}
		return nil, apperr.WrapIO(path, err)
	}
	return idx, nil
}
