// internal/progress/progress.go
package progress

import (
	"io"

	"github.com/cheggaaa/pb/v3"
)

// Bar tracks completed (reference_chunk, query_sequence, strand) units
// during a run. A nil *Bar is valid and every method is then a no-op, so
// callers don't need to branch on -stats/quiet at every call site.
type Bar struct {
	bar *pb.ProgressBar
}

// Start begins a progress bar with total units of work, writing to w.
// Pass quiet=true (or a non-terminal w the caller doesn't want decorated)
// to get a no-op Bar instead.
func Start(w io.Writer, total int64, quiet bool) *Bar {
	if quiet || total <= 0 {
		return &Bar{}
	}
	b := pb.Full.Start64(total)
	b.Set(pb.Bytes, false)
	b.SetWriter(w)
	return &Bar{bar: b}
}

// Increment marks one more task unit complete.
func (b *Bar) Increment() {
	if b == nil || b.bar == nil {
		return
	}
	b.bar.Increment()
}

// Finish closes out the bar. Safe to call on a no-op Bar.
func (b *Bar) Finish() {
	if b == nil || b.bar == nil {
		return
	}
	b.bar.Finish()
}
