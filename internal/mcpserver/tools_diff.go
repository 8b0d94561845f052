package mcpserver

import (
	"context"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fhirtools/igdiff/differ"
	"github.com/fhirtools/igdiff/htmldoc"
	"github.com/fhirtools/igdiff/snapshot"
)

type diffInput struct {
	Previous           string `json:"previous"                       jsonschema:"Path to the previous version's StructureDefinition HTML page"`
	Current            string `json:"current"                        jsonschema:"Path to the current version's StructureDefinition HTML page"`
	ContainerID        string `json:"container_id,omitempty"         jsonschema:"Element id of the snapshot table container (default tbl-snap-inner)"`
	NoSuppressChildren bool   `json:"no_suppress_children,omitempty" jsonschema:"Report changes under wholly added or removed elements too"`
	NoInfo             bool   `json:"no_info,omitempty"              jsonschema:"Suppress informational changes"`
}

type diffChange struct {
	Severity       string `json:"severity"`
	Kind           string `json:"kind"`
	Path           string `json:"path"`
	OldCardinality string `json:"old_cardinality,omitempty"`
	NewCardinality string `json:"new_cardinality,omitempty"`
	Message        string `json:"message"`
}

type diffOutput struct {
	TotalChanges  int          `json:"total_changes"`
	BreakingCount int          `json:"breaking_count"`
	WarningCount  int          `json:"warning_count"`
	InfoCount     int          `json:"info_count"`
	Changes       []diffChange `json:"changes,omitempty"`
	Summary       string       `json:"summary"`
}

func handleDiff(_ context.Context, _ *mcp.CallToolRequest, input diffInput) (*mcp.CallToolResult, diffOutput, error) {
	previousDoc, err := htmldoc.Load(input.Previous)
	if err != nil {
		return errResult(err), diffOutput{}, nil
	}
	currentDoc, err := htmldoc.Load(input.Current)
	if err != nil {
		return errResult(err), diffOutput{}, nil
	}

	extractor := snapshot.New()
	if input.ContainerID != "" {
		extractor.ContainerID = input.ContainerID
	}

	result, err := differ.DiffWithOptions(
		differ.WithPrevious(extractor.Extract(previousDoc)),
		differ.WithCurrent(extractor.Extract(currentDoc)),
		differ.WithSuppressChildren(!input.NoSuppressChildren),
		differ.WithIncludeInfo(!input.NoInfo),
	)
	if err != nil {
		return errResult(err), diffOutput{}, nil
	}

	output := diffOutput{
		TotalChanges:  len(result.Changes),
		BreakingCount: result.BreakingCount,
		WarningCount:  result.WarningCount,
		InfoCount:     result.InfoCount,
		Changes:       makeSlice[diffChange](len(result.Changes)),
	}
	for _, c := range result.Changes {
		output.Changes = append(output.Changes, diffChange{
			Severity:       c.Severity.String(),
			Kind:           string(c.Kind),
			Path:           c.Path,
			OldCardinality: c.OldCardinality,
			NewCardinality: c.NewCardinality,
			Message:        c.Message,
		})
	}
	output.Summary = buildDiffSummary(output)

	return nil, output, nil
}

func buildDiffSummary(output diffOutput) string {
	if output.TotalChanges == 0 {
		return "No structural changes detected."
	}

	summary := ""
	if output.BreakingCount > 0 {
		summary = "Breaking changes detected. "
	}

	summary += formatCount(output.TotalChanges, "change") + " found"
	if output.BreakingCount > 0 {
		summary += " (" + formatCount(output.BreakingCount, "breaking change") + ")."
	} else {
		summary += "."
	}

	return summary
}

func formatCount(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
