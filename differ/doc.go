/*
Package differ compares two extracted snapshot structures and classifies every
structural change by migration risk.

# Overview

The differ consumes two snapshot.Structure values — the element hierarchies
extracted from the previous and current version of a StructureDefinition page —
and produces an ordered list of changes. It never inspects the documents
themselves; extraction is the snapshot package's job.

# Change Kinds

  - ChangeKindRemoved: the path exists only in the previous snapshot
  - ChangeKindNew: the path exists only in the current snapshot
  - ChangeKindChanged: the path exists in both with differing cardinality

# Severity Levels

  - SeverityCritical: a mandatory element was removed
  - SeverityBreaking: a mandatory element was added, the minimum occurrence
    increased, or an unbounded list collapsed to a bounded one
  - SeverityWarning: reserved for changes that deserve review
  - SeverityInfo: everything else, including cardinality strings that do not
    parse as "min..max" (reported with the literal before/after values)

# Ordering

Changes are sorted by an explicit (rank, path) key: critical first, then
breaking, then non-additive info/warnings, then additions, ties broken by
path. Child suppression (on by default) then drops every change underneath a
path already reported as wholly removed or wholly new.

# Example

	result, err := differ.DiffWithOptions(
		differ.WithPrevious(previousStructure),
		differ.WithCurrent(currentStructure),
	)
	if err != nil {
		log.Fatal(err)
	}
	if result.HasBreakingChanges {
		fmt.Printf("%d breaking changes\n", result.BreakingCount)
	}
	for _, change := range result.Changes {
		fmt.Println(change)
	}
*/
package differ
