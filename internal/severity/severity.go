// Package severity provides severity level constants and utilities for
// structural changes reported by the differ and rendered by the composer.
//
// The four levels describe migration risk for consumers of a published
// Implementation Guide:
//   - SeverityInfo: additive or cosmetic changes with no migration impact
//   - SeverityWarning: changes that deserve a closer look but rarely break consumers
//   - SeverityBreaking: changes that break existing producers or consumers
//     (new mandatory elements, tightened cardinalities)
//   - SeverityCritical: removal of elements that previous consumers were required
//     to populate
//
// The levels are ordered from least to most severe:
// Info < Warning < Breaking < Critical
package severity

// Severity indicates the migration-risk level of a detected structural change.
type Severity int

const (
	// SeverityInfo indicates a change with no migration impact, such as a new
	// optional element or a loosened cardinality.
	SeverityInfo Severity = iota

	// SeverityWarning indicates a change that should be reviewed but does not
	// by itself break existing instances.
	SeverityWarning

	// SeverityBreaking indicates a change that breaks existing producers or
	// consumers, such as a newly mandatory element or a list collapsed to a
	// single value.
	SeverityBreaking

	// SeverityCritical indicates the removal of a previously mandatory element.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityBreaking:
		return "breaking"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}
