package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/biomage-org/biomage-utils/pkg/errors"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		name      string
		all       bool
		requested []string
		exp       []Category
		expErr    error
	}{
		{
			name: "all",
			all:  true,
			exp:  []Category{CellSets, RawRDS, ProcessedRDS},
		},
		{
			name:      "all ignores explicit selection",
			all:       true,
			requested: []string{"samples"},
			exp:       []Category{CellSets, RawRDS, ProcessedRDS},
		},
		{
			name:      "explicit order is kept",
			requested: []string{"processed_rds", "samples", "cellsets"},
			exp:       []Category{ProcessedRDS, Samples, CellSets},
		},
		{
			name:      "duplicates",
			requested: []string{"raw_rds", "raw_rds"},
			exp:       []Category{RawRDS},
		},
		{
			name:      "unknown category",
			requested: []string{"cellsets", "filtered_rds"},
			expErr:    errors.LookupError{Table: "file category", Key: "filtered_rds"},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			categories, err := Select(test.all, test.requested)
			assert.Equal(t, test.expErr, err)
			assert.Equal(t, test.exp, categories)
		})
	}
}

func TestSelectNothing(t *testing.T) {
	_, err := Select(false, nil)
	assert.Error(t, err)
	assert.Contains(t, errors.GetPrintableMessage(err), "No files selected")
}
