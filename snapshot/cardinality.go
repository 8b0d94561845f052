package snapshot

import (
	"strconv"
	"strings"

	"github.com/fhirtools/igdiff/igerrors"
)

// Unbounded is the wildcard symbol for an unbounded maximum occurrence.
const Unbounded = "*"

// ParseCardinality parses a rendered "min..max" constraint. The minimum must
// be an integer; the maximum is returned as-is, since it is only ever compared
// against Unbounded. Anything else yields a CardinalityError, which callers
// recover from by falling back to the raw string.
func ParseCardinality(cardinality string) (min int, max string, err error) {
	parts := strings.SplitN(cardinality, "..", 2)
	if len(parts) != 2 {
		return 0, "", &igerrors.CardinalityError{Value: cardinality}
	}
	min, convErr := strconv.Atoi(parts[0])
	if convErr != nil {
		return 0, "", &igerrors.CardinalityError{Value: cardinality, Cause: convErr}
	}
	return min, parts[1], nil
}

// IsMandatory reports whether the cardinality's minimum occurrence is nonzero.
// It deliberately compares the raw minimum segment, so constraints that do not
// parse still classify the way the rendered table reads.
func IsMandatory(cardinality string) bool {
	return strings.SplitN(cardinality, "..", 2)[0] != "0"
}
