// Package monitoring holds the process-wide diagnostic logger.
package monitoring

import "log"

// Logf is the diagnostic logger used by every package of the tool. It
// defaults to log.Printf; SetLogger redirects or mutes it.
var Logf func(format string, v ...any) = log.Printf

// SetLogger replaces Logf. nil installs a no-op logger.
func SetLogger(f func(format string, v ...any)) {
	if f == nil {
		Logf = func(string, ...any) {}
		return
	}
	Logf = f
}

// LogWarnings reports recoverable analysis problems of one file: a count
// line followed by at most limit individual warnings.
func LogWarnings(source string, warnings []error, limit int) {
	if len(warnings) == 0 {
		return
	}
	Logf("%s: %d warning(s) during analysis", source, len(warnings))
	for i, w := range warnings {
		if i == limit {
			Logf("%s: %d more warning(s) suppressed", source, len(warnings)-limit)
			return
		}
		Logf("%s: %v", source, w)
	}
}
