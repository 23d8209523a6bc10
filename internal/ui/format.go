// ABOUTME: Terminal UI formatting utilities
// ABOUTME: Provides human-readable output for fuel rows, summaries, and the consumption chart

package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/fatih/color"
	"github.com/harper/fuel/internal/records"
	"gonum.org/v1/gonum/floats"
)

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// FormatConsumption renders km/L with two decimals, or a faint placeholder when undefined.
func FormatConsumption(v float64) string {
	if math.IsNaN(v) {
		return color.New(color.Faint).Sprint("n/a")
	}
	return fmt.Sprintf("%.2f", v)
}

// FormatDelta renders the change from the previous fill-up. Higher km/L is
// better, so increases are green and decreases red.
func FormatDelta(d *records.Delta) string {
	if d == nil {
		return ""
	}
	switch d.Direction {
	case records.Increase:
		return color.GreenString("↑%.2f", d.Value)
	case records.Decrease:
		return color.RedString("↓%.2f", math.Abs(d.Value))
	default:
		return ""
	}
}

// FormatDayGap renders the number of days since the previous fill-up.
func FormatDayGap(gap *int) string {
	if gap == nil {
		return ""
	}
	if *gap == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", *gap)
}

// FormatRow formats one display row for terminal output.
func FormatRow(r records.Row) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s",
		color.New(color.Faint).Sprintf("[%d]", r.Index),
		color.CyanString(r.Entry.Date))
	if r.Entry.Time != "" {
		fmt.Fprintf(&b, " %s", color.New(color.Faint).Sprint(r.Entry.Time))
	}
	if gap := FormatDayGap(r.DayGap); gap != "" {
		fmt.Fprintf(&b, " %s", color.YellowString("+%s", gap))
	}

	fmt.Fprintf(&b, "  %gL / %gkm  %s km/L",
		r.Entry.Liters, r.Entry.Distance, FormatConsumption(r.Entry.Consumption))
	if delta := FormatDelta(r.Delta); delta != "" {
		fmt.Fprintf(&b, " %s", delta)
	}
	return b.String()
}

// FormatSummary formats the headline statistics.
func FormatSummary(s records.Summary) string {
	noun := "entries"
	if s.Count == 1 {
		noun = "entry"
	}
	return fmt.Sprintf("Average %s km/L across %d %s",
		color.GreenString("%.2f", s.AverageConsumption), s.Count, noun)
}

// Sparkline renders values as block characters scaled between their min and
// max. NaN values render as a space. Only the last width values are drawn when
// width is positive.
func Sparkline(values []float64, width int) string {
	if width > 0 && len(values) > width {
		values = values[len(values)-width:]
	}
	defined := definedValues(values)
	if len(defined) == 0 {
		return strings.Repeat(" ", len(values))
	}

	lo, hi := floats.Min(defined), floats.Max(defined)
	top := len(sparkLevels) - 1

	var b strings.Builder
	for _, v := range values {
		if math.IsNaN(v) {
			b.WriteRune(' ')
			continue
		}
		level := top / 2
		if hi > lo {
			level = int(math.Round((v - lo) / (hi - lo) * float64(top)))
		}
		b.WriteRune(sparkLevels[level])
	}
	return b.String()
}

// RenderChart fully re-renders the consumption chart for a series: a
// sparkline followed by min, max, and latest annotations.
func RenderChart(series records.Series, width int) string {
	if len(series.Values) == 0 {
		return color.New(color.Faint).Sprint("(no entries)")
	}

	values := series.Values
	labels := series.Labels
	if width > 0 && len(values) > width {
		values = values[len(values)-width:]
		labels = labels[len(labels)-width:]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", color.CyanString(Sparkline(values, 0)))
	fmt.Fprintf(&b, "%s .. %s\n", labels[0], labels[len(labels)-1])

	defined := definedValues(values)
	if len(defined) == 0 {
		b.WriteString(color.New(color.Faint).Sprint("no defined consumption"))
		return b.String()
	}
	fmt.Fprintf(&b, "min %.2f  max %.2f  last %s km/L",
		floats.Min(defined), floats.Max(defined), FormatConsumption(values[len(values)-1]))
	return b.String()
}

func definedValues(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
