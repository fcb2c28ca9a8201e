// Package model defines shared data structures.
package model

// AllSites is the selector sentinel meaning "no site filter".
const AllSites = "ALL"

// AllSitesLabel is the dropdown label of the AllSites option.
const AllSitesLabel = "All Sites"

// Record is one launch event.
type Record struct {
	LaunchSite             string  `json:"launch_site" yaml:"launch_site"`
	PayloadMassKg          float64 `json:"payload_mass_kg" yaml:"payload_mass_kg"`
	Class                  int     `json:"class" yaml:"class"`
	BoosterVersionCategory string  `json:"booster_version_category" yaml:"booster_version_category"`
	BoosterVersion         string  `json:"booster_version" yaml:"booster_version"`
}

// Success reports whether the launch outcome is a success.
func (r Record) Success() bool {
	return r.Class == 1
}

// PayloadRange bounds payload mass. Low <= High when valid.
type PayloadRange struct {
	Low  float64 `json:"low" yaml:"low"`
	High float64 `json:"high" yaml:"high"`
}

// Valid reports whether the range is ordered.
func (r PayloadRange) Valid() bool {
	return r.Low <= r.High
}

// Contains reports whether v lies strictly inside the range.
func (r PayloadRange) Contains(v float64) bool {
	return v > r.Low && v < r.High
}

// SiteOption is one dropdown entry.
type SiteOption struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// Slice is one pie slice.
type Slice struct {
	Label string  `json:"label" yaml:"label"`
	Value float64 `json:"value" yaml:"value"`
}

// PieChart is a declarative pie chart.
type PieChart struct {
	Title  string  `json:"title" yaml:"title"`
	Slices []Slice `json:"slices" yaml:"slices"`
}

// Total sums slice values.
func (p PieChart) Total() float64 {
	var sum float64
	for _, s := range p.Slices {
		sum += s.Value
	}
	return sum
}

// ScatterPoint is one plotted record.
type ScatterPoint struct {
	X     float64 `json:"x" yaml:"x"`
	Y     float64 `json:"y" yaml:"y"`
	Hover string  `json:"hover,omitempty" yaml:"hover,omitempty"`
}

// ScatterSeries groups points sharing a colour category.
type ScatterSeries struct {
	Category string         `json:"category" yaml:"category"`
	Points   []ScatterPoint `json:"points" yaml:"points"`
}

// ScatterChart is a declarative scatter chart.
type ScatterChart struct {
	Title  string          `json:"title" yaml:"title"`
	XLabel string          `json:"x_label" yaml:"x_label"`
	YLabel string          `json:"y_label" yaml:"y_label"`
	Series []ScatterSeries `json:"series" yaml:"series"`
}

// PointCount returns the number of points across all series.
func (s ScatterChart) PointCount() int {
	n := 0
	for _, series := range s.Series {
		n += len(series.Points)
	}
	return n
}
