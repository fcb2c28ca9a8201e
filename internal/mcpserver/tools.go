package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/verte-zerg/launchdash/internal/dataset"
	"github.com/verte-zerg/launchdash/internal/model"
	"github.com/verte-zerg/launchdash/internal/reactive"
	"github.com/verte-zerg/launchdash/internal/view"
)

// SiteOptionsInput is the input schema for the site_options tool.
type SiteOptionsInput struct{}

// PayloadBoundsInput is the input schema for the payload_bounds tool.
type PayloadBoundsInput struct{}

// PieInput is the input schema for the success_pie tool.
type PieInput struct {
	Site string `json:"site,omitempty" jsonschema:"Launch site, or ALL for every site (default: ALL)"`
}

// ScatterInput is the input schema for the payload_scatter tool.
type ScatterInput struct {
	Site string   `json:"site,omitempty" jsonschema:"Launch site, or ALL for every site (default: ALL)"`
	Low  *float64 `json:"low,omitempty" jsonschema:"Exclusive lower payload bound in kg (default: dataset minimum)"`
	High *float64 `json:"high,omitempty" jsonschema:"Exclusive upper payload bound in kg (default: dataset maximum)"`
}

type boundsResult struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Empty bool    `json:"empty,omitempty"`
}

type tools struct {
	ds *dataset.Dataset
}

func boolPtr(b bool) *bool { return &b }

func readOnly() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:    true,
		DestructiveHint: boolPtr(false),
		OpenWorldHint:   boolPtr(false),
	}
}

func registerTools(server *mcp.Server, t *tools) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "site_options",
		Description: "List the launch site dropdown options: an All Sites entry followed by each site in first-seen order.",
		Annotations: readOnly(),
	}, t.handleSiteOptions)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "payload_bounds",
		Description: "Return the minimum and maximum payload mass (kg) in the dataset.",
		Annotations: readOnly(),
	}, t.handlePayloadBounds)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "success_pie",
		Description: "Pie chart of launch outcomes: successes per site for ALL, or the success/failure split of one site.",
		Annotations: readOnly(),
	}, t.handlePie)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "payload_scatter",
		Description: "Scatter of payload mass against outcome for launches strictly inside a payload range, grouped by booster version category.",
		Annotations: readOnly(),
	}, t.handleScatter)
}

func (t *tools) handleSiteOptions(_ context.Context, _ *mcp.CallToolRequest, _ SiteOptionsInput) (*mcp.CallToolResult, any, error) {
	return jsonResult(view.SiteOptions(t.ds))
}

func (t *tools) handlePayloadBounds(_ context.Context, _ *mcp.CallToolRequest, _ PayloadBoundsInput) (*mcp.CallToolResult, any, error) {
	r, err := t.ds.PayloadBounds()
	if err != nil {
		return jsonResult(boundsResult{Empty: true})
	}
	return jsonResult(boundsResult{Low: r.Low, High: r.High})
}

func (t *tools) handlePie(_ context.Context, _ *mcp.CallToolRequest, input PieInput) (*mcp.CallToolResult, any, error) {
	d := reactive.New(t.ds)
	if input.Site != "" {
		if err := d.SetSite(input.Site); err != nil {
			return nil, nil, err
		}
	}
	var pie model.PieChart
	reactive.Wire(d, func(p model.PieChart) { pie = p }, func(model.ScatterChart) {})
	d.Refresh()
	return jsonResult(pie)
}

func (t *tools) handleScatter(_ context.Context, _ *mcp.CallToolRequest, input ScatterInput) (*mcp.CallToolResult, any, error) {
	d := reactive.New(t.ds)
	if input.Site != "" {
		if err := d.SetSite(input.Site); err != nil {
			return nil, nil, err
		}
	}
	r := d.State().Range
	if input.Low != nil {
		r.Low = *input.Low
	}
	if input.High != nil {
		r.High = *input.High
	}
	if err := d.SetRange(r); err != nil {
		return nil, nil, err
	}
	var scatter model.ScatterChart
	reactive.Wire(d, func(model.PieChart) {}, func(s model.ScatterChart) { scatter = s })
	d.Refresh()
	return jsonResult(scatter)
}

func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encode result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
	}, nil, nil
}
