// Package figure renders declarative charts as SVG using go-chart.
package figure

import (
	"fmt"
	"html"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/verte-zerg/launchdash/internal/model"
)

// Options sizes a figure in pixels.
type Options struct {
	Width  int
	Height int
}

const legendSwatchWidth = 4

// DefaultOptions is used when a dimension is zero.
var DefaultOptions = Options{Width: 640, Height: 420}

// palette is the plotly qualitative sequence.
var palette = []string{
	"636efa", "ef553b", "00cc96", "ab63fa", "ffa15a",
	"19d3f3", "ff6692", "b6e880", "ff97ff", "fecb52",
}

func (o Options) normalized() Options {
	if o.Width <= 0 {
		o.Width = DefaultOptions.Width
	}
	if o.Height <= 0 {
		o.Height = DefaultOptions.Height
	}
	return o
}

// SeriesColor returns the colour assigned to the i-th series or slice.
func SeriesColor(i int) drawing.Color {
	return drawing.ColorFromHex(palette[i%len(palette)])
}

// Pie writes p as an SVG pie chart. Slices with a non-positive value are
// not drawn; a chart with nothing to draw renders a placeholder.
func Pie(w io.Writer, p model.PieChart, opts Options) error {
	opts = opts.normalized()
	values := make([]chart.Value, 0, len(p.Slices))
	for i, s := range p.Slices {
		if s.Value <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Value: s.Value,
			Label: fmt.Sprintf("%s (%.0f)", s.Label, s.Value),
			Style: chart.Style{
				FillColor:   SeriesColor(i),
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 1,
			},
		})
	}
	if len(values) == 0 {
		return Placeholder(w, p.Title, opts)
	}
	pie := chart.PieChart{
		Title:  p.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Values: values,
	}
	if err := pie.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render pie chart: %w", err)
	}
	return nil
}

// Scatter writes s as an SVG scatter chart over the payload range r, one
// dot series per booster category.
func Scatter(w io.Writer, s model.ScatterChart, r model.PayloadRange, opts Options) error {
	opts = opts.normalized()
	series := make([]chart.Series, 0, len(s.Series))
	keys := make([]chart.Series, 0, len(s.Series))
	for i, cat := range s.Series {
		if len(cat.Points) == 0 {
			continue
		}
		xs := make([]float64, len(cat.Points))
		ys := make([]float64, len(cat.Points))
		for j, p := range cat.Points {
			xs[j] = p.X
			ys[j] = p.Y
		}
		series = append(series, chart.ContinuousSeries{
			Name: cat.Category,
			Style: chart.Style{
				StrokeColor: SeriesColor(i),
				StrokeWidth: chart.Disabled,
				DotWidth:    5,
				DotColor:    SeriesColor(i),
			},
			XValues: xs,
			YValues: ys,
		})
		keys = append(keys, chart.ContinuousSeries{
			Name:  cat.Category,
			Style: chart.Style{StrokeColor: SeriesColor(i), StrokeWidth: legendSwatchWidth},
		})
	}
	if len(series) == 0 {
		return Placeholder(w, s.Title, opts)
	}

	xMin, xMax := r.Low, r.High
	if xMax <= xMin {
		xMin, xMax = xMin-1, xMin+1
	}
	graph := chart.Chart{
		Title:  s.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  s.XLabel,
			Range: &chart.ContinuousRange{Min: xMin, Max: xMax},
		},
		YAxis: chart.YAxis{
			Name:  s.YLabel,
			Range: &chart.ContinuousRange{Min: -0.2, Max: 1.2},
			Ticks: []chart.Tick{{Value: 0, Label: "0"}, {Value: 1, Label: "1"}},
		},
		Series: series,
	}
	// The legend draws each entry as a stroked line, so it reads from
	// stroke-only copies of the dot series.
	graph.Elements = []chart.Renderable{chart.Legend(&chart.Chart{Series: keys})}
	if err := graph.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render scatter chart: %w", err)
	}
	return nil
}

// Placeholder writes a titled "No data" SVG of the given size.
func Placeholder(w io.Writer, title string, opts Options) error {
	opts = opts.normalized()
	_, err := fmt.Fprintf(w, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+
		`<rect width="100%%" height="100%%" fill="#ffffff"/>`+
		`<text x="50%%" y="32" text-anchor="middle" font-family="sans-serif" font-size="16" fill="#2a3f5f">%s</text>`+
		`<text x="50%%" y="50%%" text-anchor="middle" font-family="sans-serif" font-size="14" fill="#8c8c8c">No data</text>`+
		`</svg>`,
		opts.Width, opts.Height, opts.Width, opts.Height, html.EscapeString(title))
	return err
}
