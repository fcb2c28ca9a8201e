// Package view declares the dashboard controls and chart regions.
package view

import (
	"fmt"
	"math"

	"github.com/verte-zerg/launchdash/internal/dataset"
	"github.com/verte-zerg/launchdash/internal/model"
)

// Element IDs shared by every surface.
const (
	SiteDropdownID   = "site-dropdown"
	PayloadSliderID  = "payload-slider"
	PieChartID       = "success-pie-chart"
	ScatterChartID   = "success-payload-scatter-chart"
	Title            = "SpaceX Launch Records Dashboard"
	RangeCaption     = "Payload range (Kg):"
	DropdownHint     = "Select a Launch Site Here"
	sliderMin        = 0
	sliderMax        = 10000
	sliderStep       = 1000
	siteLabelPattern = "site%d"
)

// Dropdown describes the site selector.
type Dropdown struct {
	ID          string             `json:"id"`
	Options     []model.SiteOption `json:"options"`
	Value       string             `json:"value"`
	Placeholder string             `json:"placeholder"`
	Searchable  bool               `json:"searchable"`
}

// Mark is a labelled slider tick.
type Mark struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// RangeControl describes the dual-handle payload slider.
type RangeControl struct {
	ID    string             `json:"id"`
	Min   float64            `json:"min"`
	Max   float64            `json:"max"`
	Step  float64            `json:"step"`
	Marks []Mark             `json:"marks"`
	Value model.PayloadRange `json:"value"`
}

// Layout is the static page definition.
type Layout struct {
	Title        string       `json:"title"`
	Dropdown     Dropdown     `json:"dropdown"`
	Slider       RangeControl `json:"slider"`
	RangeCaption string       `json:"range_caption"`
	PieChartID   string       `json:"pie_chart_id"`
	ScatterID    string       `json:"scatter_chart_id"`
}

// SiteOptions returns the "All Sites" option followed by one option per
// distinct site, in first-seen order.
func SiteOptions(ds *dataset.Dataset) []model.SiteOption {
	sites := ds.Sites()
	opts := make([]model.SiteOption, 0, len(sites)+1)
	opts = append(opts, model.SiteOption{Label: model.AllSitesLabel, Value: model.AllSites})
	for i, site := range sites {
		opts = append(opts, model.SiteOption{Label: fmt.Sprintf(siteLabelPattern, i+1), Value: site})
	}
	return opts
}

// NewLayout builds the page definition for ds. The slider starts at the
// observed payload bounds, or at the slider bounds when ds has no rows.
func NewLayout(ds *dataset.Dataset) Layout {
	slider := newRangeControl()
	if bounds, err := ds.PayloadBounds(); err == nil {
		slider.Value = bounds
	}
	return Layout{
		Title: Title,
		Dropdown: Dropdown{
			ID:          SiteDropdownID,
			Options:     SiteOptions(ds),
			Value:       model.AllSites,
			Placeholder: DropdownHint,
			Searchable:  true,
		},
		Slider:       slider,
		RangeCaption: RangeCaption,
		PieChartID:   PieChartID,
		ScatterID:    ScatterChartID,
	}
}

func newRangeControl() RangeControl {
	marks := make([]Mark, 0, (sliderMax-sliderMin)/sliderStep+1)
	for v := sliderMin; v <= sliderMax; v += sliderStep {
		marks = append(marks, Mark{Value: float64(v), Label: fmt.Sprintf("%d", v)})
	}
	return RangeControl{
		ID:    PayloadSliderID,
		Min:   sliderMin,
		Max:   sliderMax,
		Step:  sliderStep,
		Marks: marks,
		Value: model.PayloadRange{Low: sliderMin, High: sliderMax},
	}
}

// ValidSite reports whether site is one of the dropdown values.
func (l Layout) ValidSite(site string) bool {
	for _, opt := range l.Dropdown.Options {
		if opt.Value == site {
			return true
		}
	}
	return false
}

// Clamp orders r and clamps both ends into the slider bounds.
func (c RangeControl) Clamp(r model.PayloadRange) model.PayloadRange {
	if r.Low > r.High {
		r.Low, r.High = r.High, r.Low
	}
	r.Low = math.Max(c.Min, math.Min(c.Max, r.Low))
	r.High = math.Max(c.Min, math.Min(c.Max, r.High))
	return r
}

// Nudge moves one handle by steps slider steps, keeping the range ordered.
func (c RangeControl) Nudge(r model.PayloadRange, high bool, steps int) model.PayloadRange {
	delta := float64(steps) * c.Step
	if high {
		r.High = math.Max(r.Low, math.Min(c.Max, r.High+delta))
	} else {
		r.Low = math.Min(r.High, math.Max(c.Min, r.Low+delta))
	}
	return r
}
