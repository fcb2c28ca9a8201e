package render

import (
	"fmt"
	"strconv"

	"github.com/mattn/go-runewidth"
)

// shareRow is one formatted line of the slice table.
type shareRow struct {
	label string
	count string
	pct   string
	bar   string
}

var shareHeader = shareRow{label: "Slice", count: "Value", pct: "Share"}

func newShareRows(shares []Share, barWidth int) []shareRow {
	rows := make([]shareRow, 0, len(shares))
	for _, s := range shares {
		rows = append(rows, shareRow{
			label: s.Label,
			count: strconv.FormatFloat(s.Value, 'f', 0, 64),
			pct:   fmt.Sprintf("%.1f%%", s.Frac*100),
			bar:   Bar(s.Frac, barWidth),
		})
	}
	return rows
}

// shareTableLines lays rows out under the header: labels flush left,
// counts and percentages flush right, bars last.
func shareTableLines(rows []shareRow) []string {
	labelW := runewidth.StringWidth(shareHeader.label)
	countW := runewidth.StringWidth(shareHeader.count)
	pctW := runewidth.StringWidth(shareHeader.pct)
	for _, r := range rows {
		labelW = max(labelW, runewidth.StringWidth(r.label))
		countW = max(countW, runewidth.StringWidth(r.count))
		pctW = max(pctW, runewidth.StringWidth(r.pct))
	}

	lines := make([]string, 0, len(rows)+1)
	for _, r := range append([]shareRow{shareHeader}, rows...) {
		line := runewidth.FillRight(r.label, labelW) + " " +
			runewidth.FillLeft(r.count, countW) + " " +
			runewidth.FillLeft(r.pct, pctW)
		if r.bar != "" {
			line += " " + r.bar
		}
		lines = append(lines, line)
	}
	return lines
}
