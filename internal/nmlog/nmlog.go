// internal/nmlog/nmlog.go
package nmlog

import (
	"io"

	"github.com/sirupsen/logrus"
)

// base is the package-level logger every worker and driver component logs
// through. Call Configure once during startup to point it at the run's
// verbosity and output stream.
var base = logrus.New()

// Configure points the package logger at w and sets its level. verbose
// enables debug-level diagnostics (per-task start/finish, cluster counts);
// quiet silences everything but warnings and errors.
func Configure(w io.Writer, verbose, quiet bool) {
	base.SetOutput(w)
	base.SetFormatter(&logrus.TextFormatter{DisableTimestamp: false, FullTimestamp: true})
	switch {
	case quiet:
		base.SetLevel(logrus.WarnLevel)
	case verbose:
		base.SetLevel(logrus.DebugLevel)
	default:
		base.SetLevel(logrus.InfoLevel)
	}
}

// Logger returns the package-level FieldLogger for direct use.
func Logger() logrus.FieldLogger { return base }

// ForTask returns a logger carrying the fields that identify one pipeline
// task, so every line it emits is attributable to a (ref, query, strand,
// worker) unit without the caller repeating the fields at each call site.
func ForTask(refSeq, querySeq int, strand byte, workerID int) logrus.FieldLogger {
	return base.WithFields(logrus.Fields{
		"ref_seq":   refSeq,
		"query_seq": querySeq,
		"strand":    string(strand),
		"worker_id": workerID,
	})
}
