package mcpserver

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fhirtools/igdiff/htmldoc"
	"github.com/fhirtools/igdiff/merger"
)

type mergeInput struct {
	Previous      string   `json:"previous"                 jsonschema:"Path to the previous version's StructureDefinition HTML page"`
	Current       string   `json:"current"                  jsonschema:"Path to the current version's StructureDefinition HTML page"`
	Output        string   `json:"output"                   jsonschema:"Path the merged page is written to"`
	Tables        []string `json:"tables,omitempty"         jsonschema:"Region ids merged side by side (default tbl-snap-inner)"`
	Tabs          []string `json:"tabs,omitempty"           jsonschema:"Region ids merged as stacked panels"`
	PreviousLabel string   `json:"previous_label,omitempty" jsonschema:"Version label for the previous side (default previous)"`
	CurrentLabel  string   `json:"current_label,omitempty"  jsonschema:"Version label for the current side (default current)"`
}

type mergeOutput struct {
	Output       string   `json:"output"`
	TablesMerged []string `json:"tables_merged,omitempty"`
	TabsMerged   []string `json:"tabs_merged,omitempty"`
	Summary      string   `json:"summary"`
}

func handleMerge(_ context.Context, _ *mcp.CallToolRequest, input mergeInput) (*mcp.CallToolResult, mergeOutput, error) {
	previousDoc, err := htmldoc.Load(input.Previous)
	if err != nil {
		return errResult(err), mergeOutput{}, nil
	}
	currentDoc, err := htmldoc.Load(input.Current)
	if err != nil {
		return errResult(err), mergeOutput{}, nil
	}

	previousLabel := input.PreviousLabel
	if previousLabel == "" {
		previousLabel = "previous"
	}
	currentLabel := input.CurrentLabel
	if currentLabel == "" {
		currentLabel = "current"
	}
	tables := input.Tables
	if len(tables) == 0 {
		tables = []string{"tbl-snap-inner"}
	}

	m := merger.New(previousLabel, currentLabel)
	if err := m.MergeTables(previousDoc, currentDoc, tables); err != nil {
		return errResult(err), mergeOutput{}, nil
	}
	if err := m.MergeTabs(previousDoc, currentDoc, input.Tabs); err != nil {
		return errResult(err), mergeOutput{}, nil
	}
	if err := currentDoc.WriteFile(input.Output); err != nil {
		return errResult(err), mergeOutput{}, nil
	}

	output := mergeOutput{
		Output:       input.Output,
		TablesMerged: tables,
		TabsMerged:   input.Tabs,
	}
	output.Summary = buildMergeSummary(output)
	return nil, output, nil
}

func buildMergeSummary(output mergeOutput) string {
	var parts []string
	if len(output.TablesMerged) > 0 {
		parts = append(parts, formatCount(len(output.TablesMerged), "table region"))
	}
	if len(output.TabsMerged) > 0 {
		parts = append(parts, formatCount(len(output.TabsMerged), "tab region"))
	}
	if len(parts) == 0 {
		return "Nothing to merge."
	}
	return "Merged " + strings.Join(parts, " and ") + " into " + output.Output + "."
}
