package igerrors

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentError(t *testing.T) {
	err := &DocumentError{
		Path:     "output/StructureDefinition-patient.html",
		Artifact: "patient",
		Cause:    os.ErrNotExist,
	}

	assert.True(t, errors.Is(err, ErrDocument))
	assert.True(t, errors.Is(err, os.ErrNotExist), "cause must be reachable through the chain")
	assert.Contains(t, err.Error(), "patient")
	assert.Contains(t, err.Error(), "StructureDefinition-patient.html")
}

func TestCardinalityError(t *testing.T) {
	err := &CardinalityError{Value: "zero..many"}

	assert.True(t, errors.Is(err, ErrCardinality))
	assert.False(t, errors.Is(err, ErrDocument))
	assert.Contains(t, err.Error(), `"zero..many"`)
}

func TestRegionError(t *testing.T) {
	err := &RegionError{ID: "tbl-snap-inner", MissingFrom: "previous"}

	assert.True(t, errors.Is(err, ErrRegion))
	assert.Contains(t, err.Error(), "tbl-snap-inner")
	assert.Contains(t, err.Error(), "previous")
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Option: "comparison.previous_folder", Message: "must not be empty"}

	assert.True(t, errors.Is(err, ErrConfig))
	assert.Contains(t, err.Error(), "comparison.previous_folder")
}

func TestErrorsAs(t *testing.T) {
	var wrapped error = &RegionError{ID: "tbl-diff-inner", MissingFrom: "current"}

	var regionErr *RegionError
	if assert.True(t, errors.As(wrapped, &regionErr)) {
		assert.Equal(t, "tbl-diff-inner", regionErr.ID)
	}
}
