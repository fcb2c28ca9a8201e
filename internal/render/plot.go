// Package render draws declarative charts as terminal text.
package render

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/verte-zerg/launchdash/internal/model"
)

type ansiColor struct {
	name string
	code string
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisLabelWidth      = 3
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
	emptyChartText      = "No data"
	yPad                = 0.2
)

var colorPalette = []ansiColor{
	{name: "cyan", code: "\x1b[36m"},
	{name: "magenta", code: "\x1b[35m"},
	{name: "yellow", code: "\x1b[33m"},
	{name: "green", code: "\x1b[32m"},
	{name: "blue", code: "\x1b[34m"},
	{name: "red", code: "\x1b[31m"},
}

// ScatterPlot renders a braille scatter plot of chart over the payload range r.
// Width and height are in terminal cells; zero picks defaults.
func ScatterPlot(w io.Writer, chart model.ScatterChart, r model.PayloadRange, width, height int) error {
	return scatterPlot(w, chart, r, width, height, false)
}

// ScatterPlotWithColor renders a scatter plot with optional forced color output.
func ScatterPlotWithColor(w io.Writer, chart model.ScatterChart, r model.PayloadRange, width, height int, forceColor bool) error {
	return scatterPlot(w, chart, r, width, height, forceColor)
}

func scatterPlot(w io.Writer, chart model.ScatterChart, r model.PayloadRange, width, height int, forceColor bool) error {
	if chart.Title != "" {
		if _, err := fmt.Fprintln(w, chart.Title); err != nil {
			return err
		}
	}
	series := filterSeries(chart.Series)
	if len(series) == 0 {
		_, err := fmt.Fprintln(w, emptyChartText)
		return err
	}

	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = autoPlotWidth()
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	xMin, xMax := r.Low, r.High
	if math.Abs(xMax-xMin) < 1e-9 {
		xMin--
		xMax++
	}
	yMin, yMax := -yPad, 1+yPad
	dotsX, dotsY := width*2, height*4

	seriesCells := make([][][]uint8, 0, len(series))
	for _, s := range series {
		cells := makeCells(height, width)
		for _, p := range s.Points {
			dx := valueToCol(p.X, xMin, xMax, dotsX)
			dy := valueToRow(p.Y, yMin, yMax, dotsY)
			setBrailleDot(cells, dx, dy)
		}
		seriesCells = append(seriesCells, cells)
	}

	useColor := shouldUseColor(w, forceColor)
	axisLabels := makeAxisLabels(height, yMin, yMax)

	if _, err := fmt.Fprintf(w, "y: %s  x: %s (%.0f..%.0f)\n", chart.YLabel, chart.XLabel, r.Low, r.High); err != nil {
		return err
	}
	for y := 0; y < height; y++ {
		prefix := fmt.Sprintf("%*s%s", axisLabelWidth, axisLabels[y], axisSeparator)
		var row strings.Builder
		row.WriteString(prefix)
		for x := 0; x < width; x++ {
			mask, colorIdx := composeCell(seriesCells, x, y)
			ch := brailleFromMask(mask)
			if useColor && colorIdx >= 0 {
				color := colorPalette[colorIdx%len(colorPalette)].code
				row.WriteString(color)
				row.WriteRune(ch)
				row.WriteString(colorReset)
			} else {
				row.WriteRune(ch)
			}
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, xAxisLine(width, r)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, renderLegend(series, useColor)); err != nil {
		return err
	}
	return nil
}

func filterSeries(series []model.ScatterSeries) []model.ScatterSeries {
	out := make([]model.ScatterSeries, 0, len(series))
	for _, s := range series {
		if len(s.Points) == 0 {
			continue
		}
		out = append(out, s)
	}
	return out
}

func autoPlotWidth() int {
	return PlotWidthFor(terminalWidth())
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	plotWidth := totalWidth - axisGutterWidth()
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}
	return plotWidth
}

// axisGutterWidth is the width of the class labels plus the axis rule.
func axisGutterWidth() int {
	return axisLabelWidth + runewidth.StringWidth(axisSeparator)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// makeAxisLabels puts "1" and "0" on the cell rows holding those outcomes.
func makeAxisLabels(height int, yMin, yMax float64) []string {
	labels := make([]string, height)
	if height <= 0 {
		return labels
	}
	labels[valueToRow(1, yMin, yMax, height*4)/4] = "1"
	labels[valueToRow(0, yMin, yMax, height*4)/4] = "0"
	return labels
}

func xAxisLine(width int, r model.PayloadRange) string {
	lo := fmt.Sprintf("%.0f", r.Low)
	hi := fmt.Sprintf("%.0f", r.High)
	gap := width - len(lo) - len(hi)
	if gap < 1 {
		gap = 1
	}
	return strings.Repeat(" ", axisGutterWidth()) + lo + strings.Repeat(" ", gap) + hi
}

func makeCells(height, width int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := 0; y < height; y++ {
		cells[y] = make([]uint8, width)
	}
	return cells
}

func composeCell(seriesCells [][][]uint8, x, y int) (uint8, int) {
	var mask uint8
	colorIdx := -1
	for i, cells := range seriesCells {
		if y < 0 || y >= len(cells) {
			continue
		}
		if x < 0 || x >= len(cells[y]) {
			continue
		}
		cellMask := cells[y][x]
		if cellMask == 0 {
			continue
		}
		if colorIdx == -1 {
			colorIdx = i
		}
		mask |= cellMask
	}
	return mask, colorIdx
}

func valueToCol(v, minVal, maxVal float64, width int) int {
	if width <= 1 {
		return 0
	}
	pos := (v - minVal) / (maxVal - minVal)
	col := int(math.Round(pos * float64(width-1)))
	if col < 0 {
		col = 0
	}
	if col >= width {
		col = width - 1
	}
	return col
}

func valueToRow(v, minVal, maxVal float64, height int) int {
	if height <= 1 {
		return 0
	}
	pos := (v - minVal) / (maxVal - minVal)
	row := int(math.Round((1 - pos) * float64(height-1)))
	if row < 0 {
		row = 0
	}
	if row >= height {
		row = height - 1
	}
	return row
}

func renderLegend(series []model.ScatterSeries, useColor bool) string {
	parts := make([]string, 0, len(series))
	marker := brailleFromMask(0x1b)
	for i, s := range series {
		label := fmt.Sprintf("%c %s (%d)", marker, s.Category, len(s.Points))
		if useColor {
			color := colorPalette[i%len(colorPalette)].code
			label = color + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

func setBrailleDot(cells [][]uint8, x, y int) {
	if y < 0 || x < 0 {
		return
	}
	cellY := y / 4
	cellX := x / 2
	if cellY < 0 || cellY >= len(cells) {
		return
	}
	if cellX < 0 || cellX >= len(cells[cellY]) {
		return
	}
	dotMask := brailleDotMask(x%2, y%4)
	cells[cellY][cellX] |= dotMask
}

func brailleDotMask(x, y int) uint8 {
	switch {
	case x == 0 && y == 0:
		return 0x01
	case x == 0 && y == 1:
		return 0x02
	case x == 0 && y == 2:
		return 0x04
	case x == 0 && y == 3:
		return 0x40
	case x == 1 && y == 0:
		return 0x08
	case x == 1 && y == 1:
		return 0x10
	case x == 1 && y == 2:
		return 0x20
	case x == 1 && y == 3:
		return 0x80
	default:
		return 0
	}
}

func brailleFromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}
