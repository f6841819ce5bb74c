package viz

import (
	"fmt"
	"strings"

	"github.com/san-kum/isingviz/internal/fit"
)

// FitTable lists one line per correlator row: the decay rate with its
// error, the points used, and the reason for a skipped row.
func FitTable(outcomes []fit.Outcome) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("%-5s %-24s %-8s %-8s %s", "ROW", "RATE", "POINTS", "CHI2/DOF", "STATUS")))
	b.WriteString("\n")

	for _, o := range outcomes {
		if !o.OK() {
			b.WriteString(fmt.Sprintf("%-5d %-24s %-8d %-8s ", o.Row, "-", o.Masked.Len(), "-"))
			b.WriteString(StatusSkipped.Render("skipped: " + o.Err.Error()))
			b.WriteString("\n")
			continue
		}

		r := o.Result
		reduced := 0.0
		if r.DOF > 0 {
			reduced = r.ChiSq / float64(r.DOF)
		}
		rate := fmt.Sprintf("%.5f ± %.5f", r.Rate, r.StdErr)
		b.WriteString(fmt.Sprintf("%-5d ", o.Row))
		b.WriteString(MetricValue.Render(fmt.Sprintf("%-24s", rate)))
		b.WriteString(fmt.Sprintf(" %-8d %-8.3f ", r.Points, reduced))
		b.WriteString(StatusOK.Render("ok"))
		b.WriteString(" " + Sparkline(o.Masked.Log, 12))
		if n := len(o.Masked.Dropped); n > 0 {
			b.WriteString(Subtle.Render(fmt.Sprintf(" (%d masked)", n)))
		}
		b.WriteString("\n")
	}
	return b.String()
}
