package upload

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/biomage-org/biomage-utils/pkg/errors"
	"github.com/biomage-org/biomage-utils/pkg/remote"
)

const experimentSamplesQuery = `SELECT id AS sample_id, name AS sample_name
	FROM sample
	WHERE experiment_id = $1`

const sampleFilesQuery = `SELECT sample_id, s3_path, sample_file_type
	FROM sample_file
	INNER JOIN sample_to_sample_file_map
		ON sample_to_sample_file_map.sample_file_id = sample_file.id
	WHERE sample_to_sample_file_map.sample_id = ANY($1)`

// fileTypeToName maps sample file types to the name the file has in the
// local sample directory.
var fileTypeToName = map[string]string{
	"features10x": "features.tsv.gz",
	"matrix10x":   "matrix.mtx.gz",
	"barcodes10x": "barcodes.tsv.gz",
}

type sample struct {
	ID   string
	Name string
}

// SampleFile is one input file of a sample.
type SampleFile struct {
	SampleID   string
	SampleName string

	// RemotePath is the key of the file in the samples bucket.
	RemotePath string

	// FileName is the name of the file in the local sample directory.
	FileName string
}

// LocalPath returns where the file is expected under `inputPath`.
func (f SampleFile) LocalPath(inputPath string) string {
	return filepath.Join(inputPath, f.SampleName, f.FileName)
}

// SamplePlan holds the files of one sample, in the order they were returned
// by the database.
type SamplePlan struct {
	Name  string
	Files []SampleFile
}

func (u Uploader) getExperimentSamples(ctx context.Context, experimentID string) ([]sample, error) {
	rows, err := u.DB.Query(ctx, experimentSamplesQuery, experimentID)
	if err != nil {
		return nil, errors.WithContext(err, "query")
	}
	if len(rows) == 0 {
		return nil, errors.EmptyResult{Query: "samples of experiment " + experimentID}
	}

	samples := make([]sample, 0, len(rows))
	for _, row := range rows {
		id, err := stringColumn(row, "sample_id")
		if err != nil {
			return nil, err
		}
		name, err := stringColumn(row, "sample_name")
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample{ID: id, Name: name})
	}
	return samples, nil
}

// PlanSampleFiles resolves the input files of every sample in the
// experiment. The whole plan is built before anything is uploaded, so an
// unknown file type fails the plan without side effects.
func (u Uploader) PlanSampleFiles(ctx context.Context, experimentID string) ([]SamplePlan, error) {
	samples, err := u.getExperimentSamples(ctx, experimentID)
	if err != nil {
		return nil, errors.WithContext(err, "get experiment samples")
	}

	idToName := map[string]string{}
	var sampleIDs []string
	for _, s := range samples {
		idToName[s.ID] = s.Name
		sampleIDs = append(sampleIDs, s.ID)
	}

	rows, err := u.DB.Query(ctx, sampleFilesQuery, sampleIDs)
	if err != nil {
		return nil, errors.WithContext(err, "query sample files")
	}
	if len(rows) == 0 {
		return nil, errors.EmptyResult{Query: "files of samples of experiment " + experimentID}
	}

	var plans []SamplePlan
	planIndex := map[string]int{}
	for _, row := range rows {
		f, err := toSampleFile(row, idToName)
		if err != nil {
			return nil, err
		}

		i, ok := planIndex[f.SampleName]
		if !ok {
			i = len(plans)
			planIndex[f.SampleName] = i
			plans = append(plans, SamplePlan{Name: f.SampleName})
		}
		plans[i].Files = append(plans[i].Files, f)
	}
	return plans, nil
}

func toSampleFile(row remote.Row, idToName map[string]string) (SampleFile, error) {
	sampleID, err := stringColumn(row, "sample_id")
	if err != nil {
		return SampleFile{}, err
	}
	s3Path, err := stringColumn(row, "s3_path")
	if err != nil {
		return SampleFile{}, err
	}
	fileType, err := stringColumn(row, "sample_file_type")
	if err != nil {
		return SampleFile{}, err
	}

	sampleName, ok := idToName[sampleID]
	if !ok {
		return SampleFile{}, errors.LookupError{Table: "sample", Key: sampleID}
	}

	fileName, ok := fileTypeToName[fileType]
	if !ok {
		return SampleFile{}, errors.WithContext(
			errors.LookupError{Table: "sample file type", Key: fileType},
			fmt.Sprintf("sample %q", sampleName))
	}

	return SampleFile{
		SampleID:   sampleID,
		SampleName: sampleName,
		RemotePath: s3Path,
		FileName:   fileName,
	}, nil
}

func stringColumn(row remote.Row, column string) (string, error) {
	v, ok := row[column]
	if !ok {
		return "", errors.ParseError{Column: column, Reason: "missing from result"}
	}

	s, ok := v.(string)
	if !ok {
		return "", errors.ParseError{Column: column, Reason: fmt.Sprintf("expected text, got %T", v)}
	}
	return s, nil
}
