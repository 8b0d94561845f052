package differ

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fhirtools/igdiff/snapshot"
)

// diffRemoved reports elements present in the previous snapshot but absent
// from the current one. Removing a mandatory element is critical: previous
// consumers were required to populate it.
func (d *Differ) diffRemoved(previous, current snapshot.Structure, result *DiffResult) {
	for path, element := range previous {
		if _, ok := current[path]; ok {
			continue
		}
		change := Change{
			Path:           path,
			Kind:           ChangeKindRemoved,
			Severity:       SeverityInfo,
			OldCardinality: element.Cardinality,
			Message:        "Element removed.",
		}
		if element.Mandatory {
			change.Severity = SeverityCritical
			change.Message = "CRITICAL: Mandatory element removed!"
		}
		result.Changes = append(result.Changes, change)
	}
}

// diffNew reports elements present in the current snapshot but absent from the
// previous one. Adding a mandatory element breaks existing producers.
func (d *Differ) diffNew(previous, current snapshot.Structure, result *DiffResult) {
	for path, element := range current {
		if _, ok := previous[path]; ok {
			continue
		}
		change := Change{
			Path:           path,
			Kind:           ChangeKindNew,
			Severity:       SeverityInfo,
			NewCardinality: element.Cardinality,
			Message:        "New element added.",
		}
		if element.Mandatory {
			change.Severity = SeverityBreaking
			change.Message = "BREAKING: New mandatory element added."
		}
		result.Changes = append(result.Changes, change)
	}
}

// diffChanged reports elements present in both snapshots whose cardinality
// string differs, classifying the direction of the constraint change.
func (d *Differ) diffChanged(previous, current snapshot.Structure, result *DiffResult) {
	for path, prevElement := range previous {
		currElement, ok := current[path]
		if !ok || prevElement.Cardinality == currElement.Cardinality {
			continue
		}

		change := Change{
			Path:           path,
			Kind:           ChangeKindChanged,
			Severity:       SeverityInfo,
			OldCardinality: prevElement.Cardinality,
			NewCardinality: currElement.Cardinality,
			Message:        fmt.Sprintf("Cardinality changed: %s → %s", prevElement.Cardinality, currElement.Cardinality),
		}
		classifyCardinalityChange(&change, prevElement.Cardinality, currElement.Cardinality)
		result.Changes = append(result.Changes, change)
	}
}

// classifyCardinalityChange escalates the change when the constraint tightened.
// A raised minimum and an unbounded maximum collapsing to a bound both break
// existing instances; a lowered minimum is only annotated. When either side
// fails to parse, the plain description at info severity stands.
func classifyCardinalityChange(change *Change, oldCardinality, newCardinality string) {
	oldMin, oldMax, err := snapshot.ParseCardinality(oldCardinality)
	if err != nil {
		return
	}
	newMin, newMax, err := snapshot.ParseCardinality(newCardinality)
	if err != nil {
		return
	}

	switch {
	case oldMin < newMin:
		change.Severity = SeverityBreaking
		change.Message += " (Tightened: Optional -> Mandatory)"
	case oldMax == snapshot.Unbounded && newMax != snapshot.Unbounded:
		change.Severity = SeverityBreaking
		change.Message += " (Tightened: List -> Single)"
	case oldMin > newMin:
		change.Message += " (Loosened: Mandatory -> Optional)"
	}
}

// changeRank defines the output order: the highest-risk changes come first
// regardless of kind, and purely additive non-mandatory changes come last.
func changeRank(c Change) int {
	switch {
	case c.Severity == SeverityCritical:
		return 1
	case c.Severity == SeverityBreaking:
		return 2
	case (c.Severity == SeverityInfo || c.Severity == SeverityWarning) && c.Kind != ChangeKindNew:
		return 3
	case c.Kind == ChangeKindNew:
		return 4
	default:
		return 5
	}
}

// sortChanges orders changes by (rank, path) ascending.
func sortChanges(changes []Change) {
	sort.Slice(changes, func(i, j int) bool {
		ri, rj := changeRank(changes[i]), changeRank(changes[j])
		if ri != rj {
			return ri < rj
		}
		return changes[i].Path < changes[j].Path
	})
}

// suppressChildChanges drops every change whose path is a strict dotted
// descendant of a path already reported as wholly removed or wholly new. A
// removed or added subtree should not also list each of its children. Running
// after the sort, it cannot reorder the surviving changes.
func suppressChildChanges(changes []Change) []Change {
	parents := make([]string, 0)
	for _, c := range changes {
		if c.Kind == ChangeKindRemoved || c.Kind == ChangeKindNew {
			parents = append(parents, c.Path+".")
		}
	}

	filtered := make([]Change, 0, len(changes))
	for _, c := range changes {
		suppressed := false
		for _, parent := range parents {
			if strings.HasPrefix(c.Path, parent) {
				suppressed = true
				break
			}
		}
		if !suppressed {
			filtered = append(filtered, c)
		}
	}
	return filtered
}
