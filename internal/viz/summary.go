package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/san-kum/nbodysim/internal/dynamo"
)

// SummaryInfo is what the CLI reports once a run finishes.
type SummaryInfo struct {
	RunID     string
	Seed      int64
	Particles int
	Result    *dynamo.Result
	Elapsed   time.Duration
}

// Summary renders the end-of-run report with metrics in name order.
func Summary(info SummaryInfo) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("run complete") + "\n")

	// labels are padded past the longest metric name
	width := len("sim time")
	if info.Result != nil {
		for name := range info.Result.Metrics {
			width = max(width, len("  "+name))
		}
	}
	line := func(label, value string) {
		b.WriteString(MetricLabel.Render(fmt.Sprintf("%-*s", width, label)) + "  " + MetricValue.Render(value) + "\n")
	}

	if info.RunID != "" {
		line("run id", info.RunID)
	}
	line("seed", fmt.Sprintf("%d", info.Seed))
	line("particles", fmt.Sprintf("%d", info.Particles))
	if info.Result != nil {
		line("ticks", fmt.Sprintf("%d", info.Result.Ticks))
		line("sim time", fmt.Sprintf("%.4fs", info.Result.SimTime))
	}
	line("elapsed", info.Elapsed.Round(time.Millisecond).String())

	if info.Result != nil && len(info.Result.Metrics) > 0 {
		b.WriteString("\n" + MetricLabel.Render("metrics:") + "\n")
		names := make([]string, 0, len(info.Result.Metrics))
		for name := range info.Result.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			line("  "+name, fmt.Sprintf("%.6g", info.Result.Metrics[name]))
		}
	}

	return b.String()
}
