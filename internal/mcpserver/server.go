// Package mcpserver implements an MCP (Model Context Protocol) server that
// exposes igdiff capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fhirtools/igdiff"
)

const serverInstructions = `igdiff MCP server — compares two versions of a published FHIR implementation guide.

Tools:
- diff: structural comparison of the rendered snapshot tables of two StructureDefinition pages. Reports removed, new, and cardinality-changed elements with severity levels.
- merge: merges the configured regions of two StructureDefinition pages into a single side-by-side / stacked comparison page and writes it to disk.

Both tools take paths to HTML pages produced by the IG publisher, not to FHIR resources.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "igdiff", Version: igdiff.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "diff",
		Description: "Compare the rendered snapshot tables of two StructureDefinition pages and report structural changes. Detects removed elements, new elements, and cardinality changes with severity levels (critical, breaking, info). Child changes under wholly added or removed elements are suppressed unless no_suppress_children is set.",
	}, handleDiff)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "merge",
		Description: "Merge two versions of a StructureDefinition page into one comparison page: the listed table regions side by side, the listed tab regions stacked under version headings. Writes the merged page to the output path.",
	}, handleMerge)
}

func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
	}
}
