package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/launchdash/internal/config"
	"github.com/verte-zerg/launchdash/internal/dataset"
	"github.com/verte-zerg/launchdash/internal/fetch"
	dashlog "github.com/verte-zerg/launchdash/internal/log"
	"github.com/verte-zerg/launchdash/internal/mcpserver"
	"github.com/verte-zerg/launchdash/internal/store"
	"github.com/verte-zerg/launchdash/internal/tui"
)

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the dashboard in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := a.loadDataset(cmd.Context())
			if err != nil {
				return err
			}
			return tui.Run(ds)
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import the dataset into a SQLite database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := a.loadDataset(cmd.Context())
			if err != nil {
				return err
			}
			st, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			err = importLaunches(cmd.Context(), st, ds, cmd.OutOrStdout(), dbPath)
			if cerr := st.Close(); err == nil {
				err = cerr
			}
			return err
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", config.DefaultDBPath(), "SQLite database path")
	return cmd
}

// importLaunches replaces the stored launches with ds and prints the per-site
// counts read back from the database.
func importLaunches(ctx context.Context, st *store.Store, ds *dataset.Dataset, out io.Writer, dbPath string) error {
	if err := st.ReplaceLaunches(ctx, ds.Records()); err != nil {
		return err
	}
	counts, err := st.CountBySite(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify import: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Imported %d launches into %s\n", ds.Len(), dbPath)
	for _, site := range ds.Sites() {
		_, _ = fmt.Fprintf(out, "  %-14s %d\n", site, counts[site])
	}
	return nil
}

func newFetchCmd(_ *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Download a remote dataset into the cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dl, err := fetch.Fetch(cmd.Context(), args[0], config.DefaultCacheDir(), force)
			if err != nil {
				return err
			}
			state := "downloaded"
			if dl.Cached {
				state = "cached"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", dl.Path, state)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "download again even if cached")
	return cmd
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Open the config file in $EDITOR",
		Args:  cobra.NoArgs,
		// The file may not parse yet; skip loading it.
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			dashlog.Setup(a.verbose, a.quiet)
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			path := a.configPath
			if path == "" {
				path = config.DefaultConfigPath()
			}
			return editConfig(path)
		},
	}
}

func editConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.Template), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newMCPCmd(a *app) *cobra.Command {
	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server for AI agent integration",
	}
	mcpCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := a.loadDataset(cmd.Context())
			if err != nil {
				return err
			}
			return mcpserver.Run(cmd.Context(), ds, Version, &mcp.StdioTransport{})
		},
	})
	return mcpCmd
}
