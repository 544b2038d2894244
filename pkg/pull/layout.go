package pull

import (
	"fmt"
	"path/filepath"
)

// Local file names inside an experiment directory.
const (
	RDSFile         = "r.rds.gz"
	CellSetsFile    = "mock_cell_sets.json"
	ExperimentFile  = "mock_experiment.json"
	SamplesFile     = "mock_samples.json"
	PlotsTablesFile = "mock_plots_tables.json"
)

// Kind is the type of a local artifact. It decides how the downloaded
// contents are materialized on disk.
type Kind int

const (
	// KindRDS is a gzipped R dataset.
	KindRDS Kind = iota

	// KindJSON is a JSON document downloaded from the object store.
	KindJSON

	// KindConfig is a JSON config record from a document table.
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindRDS:
		return "rds"
	case KindJSON:
		return "json"
	case KindConfig:
		return "config"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// objectArtifact is a local file that mirrors an object in the object store.
type objectArtifact struct {
	kind   Kind
	bucket string
	key    string
	path   string
}

// configRecord is a local file that mirrors an item in a document table.
type configRecord struct {
	file  string
	table string

	// stripKey is removed from the remote item before it's compared and
	// saved. The experiment record carries the ARN of the pipeline that
	// processed it, which doesn't exist in a local environment.
	stripKey string
}

// configRecords are reconciled in order.
var configRecords = []configRecord{
	{file: ExperimentFile, table: "experiments", stripKey: "pipeline"},
	{file: SamplesFile, table: "samples"},
}

func experimentDir(root, experimentID string) string {
	return filepath.Join(root, experimentID)
}

func objectArtifacts(root, origin, experimentID string) []objectArtifact {
	dir := experimentDir(root, experimentID)
	return []objectArtifact{
		{
			kind:   KindRDS,
			bucket: fmt.Sprintf("biomage-source-%s", origin),
			key:    fmt.Sprintf("%s/r.rds", experimentID),
			path:   filepath.Join(dir, RDSFile),
		},
		{
			// The cell sets object is keyed by the bare experiment ID.
			kind:   KindJSON,
			bucket: fmt.Sprintf("cell-sets-%s", origin),
			key:    experimentID,
			path:   filepath.Join(dir, CellSetsFile),
		},
	}
}

func tableName(table, origin string) string {
	return fmt.Sprintf("%s-%s", table, origin)
}
