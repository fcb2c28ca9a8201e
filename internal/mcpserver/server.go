// Package mcpserver exposes the launch dashboard queries as MCP tools.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/verte-zerg/launchdash/internal/dataset"
)

// New creates an MCP server with the dashboard tools registered for ds.
func New(ds *dataset.Dataset, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "launchdash",
		Title:   "SpaceX Launch Records Dashboard",
		Version: version,
	}, nil)

	registerTools(server, &tools{ds: ds})
	return server
}

// Run creates an MCP server and runs it on the given transport.
// It blocks until the client disconnects or the context is cancelled.
func Run(ctx context.Context, ds *dataset.Dataset, version string, transport mcp.Transport) error {
	return New(ds, version).Run(ctx, transport)
}
