package upload

import (
	"github.com/biomage-org/biomage-utils/pkg/errors"
)

// Category is a kind of file that can be uploaded for an experiment.
type Category string

const (
	// Samples are the original per-sample input files. Uploading them isn't
	// supported; they can only be planned with a dry run.
	Samples Category = "samples"

	// RawRDS are the per-sample raw datasets.
	RawRDS Category = "raw_rds"

	// ProcessedRDS is the processed dataset of the experiment.
	ProcessedRDS Category = "processed_rds"

	// CellSets is the cell sets document of the experiment.
	CellSets Category = "cellsets"
)

// allCategories is what --all expands to. Samples are deliberately left out.
var allCategories = []Category{CellSets, RawRDS, ProcessedRDS}

var knownCategories = map[Category]struct{}{
	Samples:      {},
	RawRDS:       {},
	ProcessedRDS: {},
	CellSets:     {},
}

// Select returns the categories to upload. If `all` is set, the requested
// categories are ignored. Otherwise they're returned in order with
// duplicates removed.
func Select(all bool, requested []string) ([]Category, error) {
	if all {
		return append([]Category(nil), allCategories...), nil
	}

	var selected []Category
	seen := map[Category]struct{}{}
	for _, name := range requested {
		category := Category(name)
		if _, ok := knownCategories[category]; !ok {
			return nil, errors.LookupError{Table: "file category", Key: name}
		}

		if _, ok := seen[category]; ok {
			continue
		}
		seen[category] = struct{}{}
		selected = append(selected, category)
	}

	if len(selected) == 0 {
		return nil, errors.NewFriendlyError("No files selected for upload.\n" +
			"Pass --all, or select files with -f (samples, raw_rds, processed_rds, cellsets).")
	}
	return selected, nil
}
