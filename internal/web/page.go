package web

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"sync"

	"github.com/verte-zerg/launchdash/internal/view"
)

var (
	pageTmplOnce sync.Once
	pageTmpl     *template.Template
)

func renderPage(w io.Writer, layout view.Layout) error {
	pageTmplOnce.Do(func() {
		pageTmpl = template.Must(template.New("dashboard").Funcs(template.FuncMap{
			"json": func(v any) template.JS {
				b, _ := json.Marshal(v)
				return template.JS(b) //nolint:gosec // marshalled layout only
			},
			"num": func(v float64) string { return fmt.Sprintf("%g", v) },
		}).Parse(pageTemplate))
	})
	if err := pageTmpl.Execute(w, layout); err != nil {
		return fmt.Errorf("execute page template: %w", err)
	}
	return nil
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 0 auto; max-width: 960px; padding: 1rem; }
h1 { text-align: center; color: #503D36; font-size: 40px; }
.chart { display: flex; justify-content: center; margin: 1rem 0; }
.chart img { max-width: 100%; }
.range { display: flex; gap: 1rem; align-items: center; }
.range input[type=range] { flex: 1; }
.marks { display: flex; justify-content: space-between; font-size: 12px; color: #666; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>

<label for="{{.Dropdown.ID}}">{{.Dropdown.Placeholder}}</label>
<select id="{{.Dropdown.ID}}">
{{- range .Dropdown.Options}}
<option value="{{.Value}}"{{if eq .Value $.Dropdown.Value}} selected{{end}}>{{.Label}}</option>
{{- end}}
</select>

<div class="chart"><img id="{{.PieChartID}}" alt="success pie chart"></div>

<p>{{.RangeCaption}} <span id="range-label">{{num .Slider.Value.Low}} - {{num .Slider.Value.High}}</span></p>
<div class="range" id="{{.Slider.ID}}">
<input type="range" id="{{.Slider.ID}}-low" min="{{num .Slider.Min}}" max="{{num .Slider.Max}}" step="{{num .Slider.Step}}" value="{{num .Slider.Value.Low}}">
<input type="range" id="{{.Slider.ID}}-high" min="{{num .Slider.Min}}" max="{{num .Slider.Max}}" step="{{num .Slider.Step}}" value="{{num .Slider.Value.High}}">
</div>
<div class="marks">{{range .Slider.Marks}}<span>{{.Label}}</span>{{end}}</div>

<div class="chart"><img id="{{.ScatterID}}" alt="payload scatter chart"></div>

<script>
(function () {
  const layout = {{json .}};
  const state = { site: layout.dropdown.value, low: layout.slider.value.low, high: layout.slider.value.high };
  const site = document.getElementById(layout.dropdown.id);
  const low = document.getElementById(layout.slider.id + "-low");
  const high = document.getElementById(layout.slider.id + "-high");
  const label = document.getElementById("range-label");
  const pie = document.getElementById(layout.pie_chart_id);
  const scatter = document.getElementById(layout.scatter_chart_id);

  function query(withRange) {
    const q = new URLSearchParams({ site: state.site });
    if (withRange) {
      q.set("low", state.low);
      q.set("high", state.high);
    }
    return q.toString();
  }
  function drawPie() { pie.src = "/chart/pie.svg?" + query(false); }
  function drawScatter() { scatter.src = "/chart/scatter.svg?" + query(true); }
  function onRange() {
    let lo = Number(low.value), hi = Number(high.value);
    if (lo > hi) { [lo, hi] = [hi, lo]; }
    state.low = lo;
    state.high = hi;
    label.textContent = lo + " - " + hi;
    drawScatter();
  }

  site.addEventListener("change", function () {
    state.site = site.value;
    drawPie();
    drawScatter();
  });
  low.addEventListener("input", onRange);
  high.addEventListener("input", onRange);

  drawPie();
  drawScatter();
})();
</script>
</body>
</html>
`
