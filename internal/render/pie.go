package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/launchdash/internal/model"
)

const defaultBarWidth = 20

// Share is one pie slice with its fraction of the total.
type Share struct {
	Label string
	Value float64
	Frac  float64
}

// Shares computes slice fractions. A zero total yields zero fractions.
func Shares(chart model.PieChart) []Share {
	total := chart.Total()
	out := make([]Share, 0, len(chart.Slices))
	for _, s := range chart.Slices {
		frac := 0.0
		if total > 0 {
			frac = s.Value / total
		}
		out = append(out, Share{Label: s.Label, Value: s.Value, Frac: frac})
	}
	return out
}

// PieTable prints a pie chart as a table of slices with share bars.
func PieTable(w io.Writer, chart model.PieChart, barWidth int) error {
	if chart.Title != "" {
		if _, err := fmt.Fprintln(w, chart.Title); err != nil {
			return err
		}
	}
	if len(chart.Slices) == 0 {
		_, err := fmt.Fprintln(w, emptyChartText)
		return err
	}
	if barWidth <= 0 {
		barWidth = defaultBarWidth
	}
	for _, line := range shareTableLines(newShareRows(Shares(chart), barWidth)) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Bar renders frac (0..1) as a block bar of the given width.
func Bar(frac float64, width int) string {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	n := int(frac*float64(width) + 0.5)
	return strings.Repeat("█", n) + strings.Repeat("·", width-n)
}
