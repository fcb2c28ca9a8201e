package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/launchdash/internal/model"
	"github.com/verte-zerg/launchdash/internal/reactive"
	"github.com/verte-zerg/launchdash/internal/render"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

type summary struct {
	Site    string             `json:"site" yaml:"site"`
	Range   model.PayloadRange `json:"range" yaml:"range"`
	Pie     model.PieChart     `json:"pie" yaml:"pie"`
	Scatter model.ScatterChart `json:"scatter" yaml:"scatter"`
}

var (
	titleColor = color.New(color.Bold)
	labelColor = color.New(color.FgCyan)
)

func newSummaryCmd(a *app) *cobra.Command {
	var (
		site   string
		low    float64
		high   float64
		format string
	)
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print both charts for one site and payload range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			applyStringConfig(cmd, "format", &format, a.fileCfg.Summary.Format)
			format = strings.ToLower(strings.TrimSpace(format))
			switch format {
			case formatText, formatJSON, formatYAML:
			default:
				return fmt.Errorf("unknown format %q (use text, json or yaml)", format)
			}

			ds, err := a.loadDataset(cmd.Context())
			if err != nil {
				return err
			}
			d := reactive.New(ds)
			if err := d.SetSite(site); err != nil {
				return fmt.Errorf("summary: %w", err)
			}
			r := d.State().Range
			applyFloatFlag(cmd, "low", &r.Low, low)
			applyFloatFlag(cmd, "high", &r.High, high)
			if err := d.SetRange(r); err != nil {
				return fmt.Errorf("summary: %w", err)
			}

			out := summary{Site: d.State().Site, Range: d.State().Range}
			reactive.Wire(d,
				func(p model.PieChart) { out.Pie = p },
				func(s model.ScatterChart) { out.Scatter = s },
			)
			d.Refresh()
			return writeSummary(cmd.OutOrStdout(), d, out, format)
		},
	}
	cmd.Flags().StringVar(&site, "site", model.AllSites, "launch site, or ALL")
	cmd.Flags().Float64Var(&low, "low", 0, "payload range low bound in kg (default: dataset minimum)")
	cmd.Flags().Float64Var(&high, "high", 0, "payload range high bound in kg (default: dataset maximum)")
	cmd.Flags().StringVar(&format, "format", formatText, "output format: text, json or yaml")
	return cmd
}

func writeSummary(w io.Writer, d *reactive.Dashboard, out summary, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		defer func() { _ = enc.Close() }()
		enc.SetIndent(2)
		return enc.Encode(out)
	}

	layout := d.Layout()
	_, _ = titleColor.Fprintln(w, layout.Title)
	_, _ = fmt.Fprintf(w, "%s %s\n", labelColor.Sprint("Site:"), siteLabel(layout.Dropdown.Options, out.Site))
	_, _ = fmt.Fprintf(w, "%s %.0f - %.0f\n\n", labelColor.Sprint("Payload range (Kg):"), out.Range.Low, out.Range.High)
	if err := render.PieTable(w, out.Pie, 30); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(w)
	return render.ScatterPlot(w, out.Scatter, out.Range, 0, 0)
}

func siteLabel(options []model.SiteOption, value string) string {
	for _, opt := range options {
		if opt.Value == value {
			if opt.Value == model.AllSites {
				return opt.Label
			}
			return fmt.Sprintf("%s (%s)", opt.Label, opt.Value)
		}
	}
	return value
}
