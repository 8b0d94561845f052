// Package igdiff provides tools for comparing and merging FHIR Implementation Guide
// publisher output across two guide versions.
//
// The IG publisher renders each StructureDefinition as an HTML page containing a
// snapshot table (the indentation-coded element hierarchy), differential tables,
// and a set of tab panels. igdiff post-processes those pages so a single published
// site can present both versions at once:
//
//   - snapshot: extracts the element hierarchy of a rendered snapshot table into a
//     flat path-keyed structure with cardinality and type per element
//   - differ: compares two extracted structures and classifies every structural
//     change by severity, surfacing breaking changes first
//   - merger: combines equivalent regions of the previous and current page into a
//     side-by-side or stacked view, rewriting internal identifiers so the two
//     fragments can coexist in one document
//   - composer: renders the classified changes plus manually configured mappings
//     into a self-contained migration guide and splices it into the page's tab set
//   - pipeline: discovers profile ids from FSH sources, pairs up the pages present
//     in both versions, and drives the full merge for each pair
//
// # Quick Start
//
// Diff the snapshot tables of two versions of a page:
//
//	import (
//		"github.com/fhirtools/igdiff/differ"
//		"github.com/fhirtools/igdiff/htmldoc"
//		"github.com/fhirtools/igdiff/snapshot"
//	)
//
//	prev, err := htmldoc.Load("v1/StructureDefinition-patient.html")
//	if err != nil {
//		log.Fatal(err)
//	}
//	curr, err := htmldoc.Load("v2/StructureDefinition-patient.html")
//	if err != nil {
//		log.Fatal(err)
//	}
//	result, err := differ.DiffWithOptions(
//		differ.WithPrevious(snapshot.Extract(prev)),
//		differ.WithCurrent(snapshot.Extract(curr)),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, change := range result.Changes {
//		fmt.Println(change)
//	}
//
// Run the full pipeline from a configuration file:
//
//	import "github.com/fhirtools/igdiff/pipeline"
//
//	cfg, err := pipeline.LoadConfig("igdiff.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	p := pipeline.New(cfg, logger)
//	summary, err := p.Run(context.Background())
//
// The igdiff CLI under cmd/igdiff exposes the same operations as the run, diff,
// merge, and mcp commands.
package igdiff
