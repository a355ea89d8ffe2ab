package pumptrack

import (
	"fmt"
	"math"
	"strings"
)

// BuildReport renders statistics as the plain-text session report, one line
// per run followed by the best run and the averages.
func BuildReport(st *Statistics) string {
	if st == nil {
		return ""
	}

	var b strings.Builder
	for _, r := range st.Runs {
		writeRunLine(&b, fmt.Sprintf("%02d", r.Index), r)
	}
	writeRunLine(&b, "best run", st.BestRun)
	fmt.Fprintf(&b, "avg duration: %s\n", FormatDuration(math.Round(st.AvgDurationSeconds)))
	fmt.Fprintf(&b, "avg distance: %.0fm\n", math.Round(st.AvgDistanceMeters))
	if st.Structure.CanonicalLabel != "" {
		fmt.Fprintf(&b, "session: %s\n", st.Structure.CanonicalLabel)
	}

	return strings.TrimSpace(b.String())
}

func writeRunLine(b *strings.Builder, label string, r RunSummary) {
	fmt.Fprintf(
		b,
		"%s %s-%s : %s %.0fm %.1fkm/h\n",
		label,
		r.Start.UTC().Format("15:04:05"),
		r.End.UTC().Format("15:04:05"),
		FormatDuration(r.DurationSeconds),
		math.Round(r.DistanceMeters),
		r.AvgSpeedKmh,
	)
}

// FormatDuration renders whole seconds as e.g. "1h2m3s", leaving out zero
// parts. Fractions are truncated; anything below one second is "0s".
func FormatDuration(seconds float64) string {
	if !isFinite(seconds) || seconds < 1 {
		return "0s"
	}
	s := int(seconds)
	h := s / 3600
	m := (s % 3600) / 60
	sec := s % 60

	var b strings.Builder
	if h > 0 {
		fmt.Fprintf(&b, "%dh", h)
	}
	if m > 0 {
		fmt.Fprintf(&b, "%dm", m)
	}
	if sec > 0 {
		fmt.Fprintf(&b, "%ds", sec)
	}
	return b.String()
}
