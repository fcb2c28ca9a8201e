package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/launchdash/internal/model"
)

func TestPlotWidthForLeavesRoomForClassAxis(t *testing.T) {
	if got := PlotWidthFor(80) + axisGutterWidth(); got != 80 {
		t.Fatalf("plot plus gutter = %d, want 80", got)
	}
	if got := PlotWidthFor(axisGutterWidth() + 1); got != minPlotWidth {
		t.Fatalf("narrow terminal width = %d, want %d", got, minPlotWidth)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("unknown terminal width = %d, want %d", got, minPlotWidth)
	}
}

func TestScatterRowsFitRequestedWidth(t *testing.T) {
	chart := model.ScatterChart{
		XLabel: "Payload Mass (kg)",
		YLabel: "class",
		Series: []model.ScatterSeries{
			{Category: "FT", Points: []model.ScatterPoint{{X: 2490, Y: 1}, {X: 3600, Y: 0}}},
		},
	}
	const total = 40
	var buf bytes.Buffer
	if err := ScatterPlot(&buf, chart, model.PayloadRange{Low: 0, High: 10000}, PlotWidthFor(total), 6); err != nil {
		t.Fatalf("ScatterPlot failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	// Axis header, six plot rows, x axis, legend.
	if len(lines) != 9 {
		t.Fatalf("expected 9 lines, got %d:\n%s", len(lines), buf.String())
	}

	var classLabels []string
	for _, row := range lines[1:7] {
		if w := runewidth.StringWidth(row); w != total {
			t.Fatalf("plot row width = %d, want %d: %q", w, total, row)
		}
		if label := strings.TrimSpace(row[:axisLabelWidth]); label != "" {
			classLabels = append(classLabels, label)
		}
	}
	if strings.Join(classLabels, ",") != "1,0" {
		t.Fatalf("class axis labels = %v, want [1 0]", classLabels)
	}

	axis := lines[7]
	if !strings.HasPrefix(axis, strings.Repeat(" ", axisGutterWidth())+"0") || !strings.HasSuffix(axis, "10000") {
		t.Fatalf("unexpected x axis: %q", axis)
	}
	if w := runewidth.StringWidth(axis); w != total {
		t.Fatalf("x axis width = %d, want %d", w, total)
	}
	if lines[8] != "Legend: "+string(brailleFromMask(0x1b))+" FT (2)" {
		t.Fatalf("unexpected legend: %q", lines[8])
	}
}
