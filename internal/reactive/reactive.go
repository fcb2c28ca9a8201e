// Package reactive ties dashboard controls to the chart outputs that depend
// on them. Controls publish value-changed events; outputs subscribe to a set
// of controls and are recomputed synchronously when one of them changes.
//
// A Dashboard is not safe for concurrent use. It is driven by a single event
// loop (one Bubble Tea program, one request) and never blocks.
package reactive

import (
	"errors"
	"fmt"
	"math"

	"github.com/verte-zerg/launchdash/internal/charts"
	"github.com/verte-zerg/launchdash/internal/dataset"
	"github.com/verte-zerg/launchdash/internal/model"
	"github.com/verte-zerg/launchdash/internal/view"
)

// ControlID names an input control.
type ControlID string

// OutputID names a chart region.
type OutputID string

// Standard controls and outputs.
const (
	SiteDropdown  ControlID = view.SiteDropdownID
	PayloadSlider ControlID = view.PayloadSliderID
	PieOutput     OutputID  = view.PieChartID
	ScatterOutput OutputID  = view.ScatterChartID
)

var (
	// ErrInvalidSite is returned when a selector value is not a dropdown option.
	ErrInvalidSite = errors.New("invalid site")
	// ErrInvalidRange is returned when a range has low > high or a
	// non-finite bound.
	ErrInvalidRange = errors.New("invalid payload range")
)

// State holds the current control values.
type State struct {
	Site  string
	Range model.PayloadRange
}

// Handler recomputes one output from the current state.
type Handler func(ds *dataset.Dataset, st State)

type subscription struct {
	output OutputID
	inputs map[ControlID]struct{}
	fn     Handler
}

// Dashboard holds the dataset, control state and subscription table.
type Dashboard struct {
	ds     *dataset.Dataset
	layout view.Layout
	state  State
	subs   []subscription
}

// New returns a Dashboard with controls at their layout defaults.
func New(ds *dataset.Dataset) *Dashboard {
	layout := view.NewLayout(ds)
	return &Dashboard{
		ds:     ds,
		layout: layout,
		state: State{
			Site:  layout.Dropdown.Value,
			Range: layout.Slider.Value,
		},
	}
}

// Dataset returns the injected dataset.
func (d *Dashboard) Dataset() *dataset.Dataset { return d.ds }

// Layout returns the page definition.
func (d *Dashboard) Layout() view.Layout { return d.layout }

// State returns the current control values.
func (d *Dashboard) State() State { return d.state }

// Subscribe registers fn to run whenever any of inputs publishes. An output
// has at most one handler; subscribing it again replaces the previous one.
func (d *Dashboard) Subscribe(output OutputID, inputs []ControlID, fn Handler) {
	set := make(map[ControlID]struct{}, len(inputs))
	for _, in := range inputs {
		set[in] = struct{}{}
	}
	sub := subscription{output: output, inputs: set, fn: fn}
	for i := range d.subs {
		if d.subs[i].output == output {
			d.subs[i] = sub
			return
		}
	}
	d.subs = append(d.subs, sub)
}

// SetSite updates the selector and recomputes its subscribers.
func (d *Dashboard) SetSite(site string) error {
	if !d.layout.ValidSite(site) {
		return fmt.Errorf("%w: %q", ErrInvalidSite, site)
	}
	d.state.Site = site
	d.publish(SiteDropdown)
	return nil
}

// SetRange updates the payload range and recomputes its subscribers.
func (d *Dashboard) SetRange(r model.PayloadRange) error {
	if !finite(r.Low) || !finite(r.High) {
		return fmt.Errorf("%w: bounds must be finite (low %g, high %g)", ErrInvalidRange, r.Low, r.High)
	}
	if !r.Valid() {
		return fmt.Errorf("%w: low %g > high %g", ErrInvalidRange, r.Low, r.High)
	}
	d.state.Range = r
	d.publish(PayloadSlider)
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ResetRange restores the layout's initial payload range.
func (d *Dashboard) ResetRange() {
	d.state.Range = d.layout.Slider.Value
	d.publish(PayloadSlider)
}

// Refresh recomputes every output once, in registration order.
func (d *Dashboard) Refresh() {
	for _, sub := range d.subs {
		sub.fn(d.ds, d.state)
	}
}

func (d *Dashboard) publish(control ControlID) {
	for _, sub := range d.subs {
		if _, ok := sub.inputs[control]; ok {
			sub.fn(d.ds, d.state)
		}
	}
}

// Wire registers the pie chart on the site dropdown and the scatter chart on
// both the dropdown and the payload slider.
func Wire(d *Dashboard, onPie func(model.PieChart), onScatter func(model.ScatterChart)) {
	d.Subscribe(PieOutput, []ControlID{SiteDropdown}, func(ds *dataset.Dataset, st State) {
		onPie(charts.Pie(ds, st.Site))
	})
	d.Subscribe(ScatterOutput, []ControlID{SiteDropdown, PayloadSlider}, func(ds *dataset.Dataset, st State) {
		onScatter(charts.Scatter(ds, st.Site, st.Range))
	})
}
