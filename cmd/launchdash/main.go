// Package main provides the CLI entrypoint for launchdash.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/verte-zerg/launchdash/internal/config"
	"github.com/verte-zerg/launchdash/internal/dataset"
	"github.com/verte-zerg/launchdash/internal/fetch"
	dashlog "github.com/verte-zerg/launchdash/internal/log"
	"github.com/verte-zerg/launchdash/internal/web"
)

const defaultDataSource = "spacex_launch_dash.csv"

// Version is set via -ldflags at build time.
var Version = "dev"

type app struct {
	verbose bool
	quiet   bool
	noColor bool

	data       string
	configPath string
	fileCfg    config.FileConfig
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "launchdash",
		Short: "SpaceX launch records dashboard",
		Long: `launchdash loads a table of SpaceX launch records and serves an interactive
dashboard: a launch site dropdown, a success pie chart, a payload range
slider and a payload vs outcome scatter chart.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&a.data, "data", defaultDataSource, "dataset: CSV or SQLite path, or http(s) URL")
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: "+config.DefaultConfigPath()+")")

	serveCmd := newServeCmd(a)
	rootCmd.RunE = serveCmd.RunE
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newTUICmd(a))
	rootCmd.AddCommand(newSummaryCmd(a))
	rootCmd.AddCommand(newImportCmd(a))
	rootCmd.AddCommand(newFetchCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newMCPCmd(a))
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	dashlog.Setup(a.verbose, a.quiet)
	if a.noColor {
		color.NoColor = true
	}
	path := a.configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	fileCfg, err := config.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.fileCfg = fileCfg
	applyStringConfig(cmd, "data", &a.data, fileCfg.Data.Source)
	return nil
}

// loadDataset resolves the data source and loads it once.
func (a *app) loadDataset(ctx context.Context) (*dataset.Dataset, error) {
	path := a.data
	if fetch.IsRemote(path) {
		dl, err := fetch.Fetch(ctx, path, config.DefaultCacheDir(), false)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch dataset: %w", err)
		}
		slog.Info("dataset fetched", "url", dl.URL, "path", dl.Path, "cached", dl.Cached)
		path = dl.Path
	}
	ds, err := dataset.Load(path)
	if err != nil {
		return nil, err
	}
	slog.Info("dataset loaded", "path", path, "rows", ds.Len(), "sites", len(ds.Sites()))
	if ds.Len() == 0 {
		slog.Warn("dataset has no rows; payload range falls back to slider bounds", "path", path)
	}
	return ds, nil
}

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			applyStringConfig(cmd, "addr", &addr, a.fileCfg.Serve.Addr)
			ds, err := a.loadDataset(cmd.Context())
			if err != nil {
				return err
			}
			ctx, stop := signalContext(cmd.Context())
			defer stop()
			return web.New(ds, slog.Default()).Run(ctx, addr)
		},
	}
	addServeFlags(cmd.Flags(), &addr)
	return cmd
}

func addServeFlags(fs *pflag.FlagSet, addr *string) {
	fs.StringVar(addr, "addr", web.DefaultAddr, "listen address (config: [serve] addr)")
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatFlag(cmd *cobra.Command, name string, target *float64, value float64) {
	if cmd.Flags().Changed(name) {
		*target = value
	}
}
