package differ

import (
	"fmt"

	"github.com/fhirtools/igdiff/internal/severity"
	"github.com/fhirtools/igdiff/snapshot"
)

// ChangeKind indicates whether an element was removed, added, or changed
type ChangeKind string

const (
	// ChangeKindRemoved indicates an element present in the previous version is gone
	ChangeKindRemoved ChangeKind = "removed"
	// ChangeKindNew indicates an element absent from the previous version was added
	ChangeKindNew ChangeKind = "new"
	// ChangeKindChanged indicates an element's cardinality changed
	ChangeKindChanged ChangeKind = "changed"
)

// Severity indicates the migration-risk level of a change
type Severity = severity.Severity

const (
	// SeverityInfo indicates changes with no migration impact
	SeverityInfo = severity.SeverityInfo
	// SeverityWarning indicates changes that deserve review
	SeverityWarning = severity.SeverityWarning
	// SeverityBreaking indicates changes that break existing producers or consumers
	SeverityBreaking = severity.SeverityBreaking
	// SeverityCritical indicates removal of a mandatory element
	SeverityCritical = severity.SeverityCritical
)

// Change represents a single structural difference between two snapshots
type Change struct {
	// Path is the dotted element path, e.g. "Patient.name"
	Path string
	// Kind indicates if this is a removal, an addition, or a modification
	Kind ChangeKind
	// Severity indicates the migration-risk level
	Severity Severity
	// OldCardinality is the previous "min..max" constraint (empty for additions)
	OldCardinality string
	// NewCardinality is the current "min..max" constraint (empty for removals)
	NewCardinality string
	// Message is a human-readable description of the change
	Message string
}

// String returns a formatted string representation of the change
func (c Change) String() string {
	var symbol string
	switch c.Severity {
	case SeverityBreaking, SeverityCritical:
		symbol = "✗"
	case SeverityWarning:
		symbol = "⚠"
	case SeverityInfo:
		symbol = "ℹ"
	default:
		symbol = "·"
	}
	return fmt.Sprintf("%s %s [%s] %s", symbol, c.Path, c.Kind, c.Message)
}

// DiffResult contains the results of comparing two snapshot structures
type DiffResult struct {
	// PreviousCount is the number of elements in the previous snapshot
	PreviousCount int
	// CurrentCount is the number of elements in the current snapshot
	CurrentCount int
	// Changes contains all detected changes, ordered highest risk first
	Changes []Change
	// BreakingCount is the number of breaking changes (Critical + Breaking severity)
	BreakingCount int
	// WarningCount is the number of warnings
	WarningCount int
	// InfoCount is the number of informational changes
	InfoCount int
	// HasBreakingChanges is true if any breaking changes were detected
	HasBreakingChanges bool
}

// Differ compares two snapshot structures
type Differ struct {
	// SuppressChildren drops changes under a path already reported as wholly
	// removed or wholly new. Enabled by default.
	SuppressChildren bool
	// IncludeInfo determines whether to include informational changes
	IncludeInfo bool
}

// New creates a new Differ instance with default settings
func New() *Differ {
	return &Differ{
		SuppressChildren: true,
		IncludeInfo:      true,
	}
}

// Diff compares the previous and current snapshot structures and returns the
// classified, ordered change list
func (d *Differ) Diff(previous, current snapshot.Structure) *DiffResult {
	result := &DiffResult{
		PreviousCount: len(previous),
		CurrentCount:  len(current),
		Changes:       make([]Change, 0),
	}

	d.diffRemoved(previous, current, result)
	d.diffNew(previous, current, result)
	d.diffChanged(previous, current, result)

	sortChanges(result.Changes)

	if d.SuppressChildren {
		result.Changes = suppressChildChanges(result.Changes)
	}

	if !d.IncludeInfo {
		filtered := make([]Change, 0, len(result.Changes))
		for _, change := range result.Changes {
			if change.Severity != SeverityInfo {
				filtered = append(filtered, change)
			}
		}
		result.Changes = filtered
	}

	for _, change := range result.Changes {
		switch change.Severity {
		case SeverityCritical, SeverityBreaking:
			result.BreakingCount++
		case SeverityWarning:
			result.WarningCount++
		case SeverityInfo:
			result.InfoCount++
		}
	}
	result.HasBreakingChanges = result.BreakingCount > 0

	return result
}

// Option is a function that configures a diff operation
type Option func(*diffConfig) error

// diffConfig holds configuration for a diff operation
type diffConfig struct {
	previous    snapshot.Structure
	current     snapshot.Structure
	previousSet bool
	currentSet  bool

	suppressChildren bool
	includeInfo      bool
}

// DiffWithOptions compares two snapshot structures using functional options.
//
// Example:
//
//	result, err := differ.DiffWithOptions(
//	    differ.WithPrevious(previousStructure),
//	    differ.WithCurrent(currentStructure),
//	    differ.WithSuppressChildren(false),
//	)
func DiffWithOptions(opts ...Option) (*DiffResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("differ: invalid options: %w", err)
	}

	d := &Differ{
		SuppressChildren: cfg.suppressChildren,
		IncludeInfo:      cfg.includeInfo,
	}
	return d.Diff(cfg.previous, cfg.current), nil
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*diffConfig, error) {
	cfg := &diffConfig{
		suppressChildren: true,
		includeInfo:      true,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if !cfg.previousSet {
		return nil, fmt.Errorf("must specify the previous snapshot (use WithPrevious)")
	}
	if !cfg.currentSet {
		return nil, fmt.Errorf("must specify the current snapshot (use WithCurrent)")
	}
	return cfg, nil
}

// WithPrevious specifies the previous version's snapshot structure. An empty
// structure is valid: some artifacts have no snapshot view.
func WithPrevious(structure snapshot.Structure) Option {
	return func(cfg *diffConfig) error {
		cfg.previous = structure
		cfg.previousSet = true
		return nil
	}
}

// WithCurrent specifies the current version's snapshot structure
func WithCurrent(structure snapshot.Structure) Option {
	return func(cfg *diffConfig) error {
		cfg.current = structure
		cfg.currentSet = true
		return nil
	}
}

// WithSuppressChildren enables or disables child-change suppression
// Default: true
func WithSuppressChildren(enabled bool) Option {
	return func(cfg *diffConfig) error {
		cfg.suppressChildren = enabled
		return nil
	}
}

// WithIncludeInfo enables or disables informational changes
// Default: true
func WithIncludeInfo(enabled bool) Option {
	return func(cfg *diffConfig) error {
		cfg.includeInfo = enabled
		return nil
	}
}
