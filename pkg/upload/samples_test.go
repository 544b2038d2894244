package upload

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/biomage-org/biomage-utils/pkg/errors"
	"github.com/biomage-org/biomage-utils/pkg/remote"
	"github.com/biomage-org/biomage-utils/pkg/remote/mocks"
)

const testExperiment = "e52b39624588791a7889e39c617f669e"

var experimentSamples = []remote.Row{
	{"sample_id": "id-a", "sample_name": "WT1"},
	{"sample_id": "id-b", "sample_name": "KO1"},
}

func mockSamples(db *mocks.Querier) {
	db.On("Query", mock.Anything, experimentSamplesQuery, testExperiment).
		Return(experimentSamples, nil)
}

func mockSampleFiles(db *mocks.Querier, rows []remote.Row) {
	db.On("Query", mock.Anything, sampleFilesQuery, []string{"id-a", "id-b"}).
		Return(rows, nil)
}

func TestPlanSampleFiles(t *testing.T) {
	db := &mocks.Querier{}
	mockSamples(db)
	mockSampleFiles(db, []remote.Row{
		{"sample_id": "id-b", "s3_path": "orig/b/matrix", "sample_file_type": "matrix10x"},
		{"sample_id": "id-a", "s3_path": "orig/a/features", "sample_file_type": "features10x"},
		{"sample_id": "id-b", "s3_path": "orig/b/barcodes", "sample_file_type": "barcodes10x"},
	})

	plans, err := Uploader{DB: db}.PlanSampleFiles(context.Background(), testExperiment)
	assert.NoError(t, err)
	assert.Equal(t, []SamplePlan{
		{
			Name: "KO1",
			Files: []SampleFile{
				{SampleID: "id-b", SampleName: "KO1", RemotePath: "orig/b/matrix", FileName: "matrix.mtx.gz"},
				{SampleID: "id-b", SampleName: "KO1", RemotePath: "orig/b/barcodes", FileName: "barcodes.tsv.gz"},
			},
		},
		{
			Name: "WT1",
			Files: []SampleFile{
				{SampleID: "id-a", SampleName: "WT1", RemotePath: "orig/a/features", FileName: "features.tsv.gz"},
			},
		},
	}, plans)
	assert.Equal(t, "/in/KO1/matrix.mtx.gz", plans[0].Files[0].LocalPath("/in"))
	db.AssertExpectations(t)
}

func TestPlanSampleFilesErrors(t *testing.T) {
	tests := []struct {
		name       string
		samples    []remote.Row
		files      []remote.Row
		queryErr   error
		expErr     error
		expMessage string
	}{
		{
			name:    "no samples",
			samples: []remote.Row{},
			expErr:  errors.EmptyResult{Query: "samples of experiment " + testExperiment},
		},
		{
			name:    "no files",
			samples: experimentSamples,
			files:   []remote.Row{},
			expErr:  errors.EmptyResult{Query: "files of samples of experiment " + testExperiment},
		},
		{
			name:    "unknown file type",
			samples: experimentSamples,
			files: []remote.Row{
				{"sample_id": "id-a", "s3_path": "orig/a/matrix", "sample_file_type": "matrix10x"},
				{"sample_id": "id-a", "s3_path": "orig/a/h5", "sample_file_type": "h5"},
			},
			expErr: errors.LookupError{Table: "sample file type", Key: "h5"},
		},
		{
			name:    "file of unknown sample",
			samples: experimentSamples,
			files: []remote.Row{
				{"sample_id": "id-z", "s3_path": "orig/z/matrix", "sample_file_type": "matrix10x"},
			},
			expErr: errors.LookupError{Table: "sample", Key: "id-z"},
		},
		{
			name:    "missing column",
			samples: []remote.Row{{"sample_id": "id-a"}},
			expErr:  errors.ParseError{Column: "sample_name", Reason: "missing from result"},
		},
		{
			name:    "wrong column type",
			samples: []remote.Row{{"sample_id": 1, "sample_name": "WT1"}},
			expErr:  errors.ParseError{Column: "sample_id", Reason: "expected text, got int"},
		},
		{
			name:       "query fails",
			queryErr:   errors.New("connection refused"),
			expMessage: "get experiment samples: query: connection refused",
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			db := &mocks.Querier{}
			db.On("Query", mock.Anything, experimentSamplesQuery, testExperiment).
				Return(test.samples, test.queryErr)
			if test.files != nil {
				mockSampleFiles(db, test.files)
			}

			_, err := Uploader{DB: db}.PlanSampleFiles(context.Background(), testExperiment)
			assert.Error(t, err)
			if test.expErr != nil {
				assert.True(t, errors.Is(err, test.expErr), "unexpected error: %v", err)
			}
			if test.expMessage != "" {
				assert.EqualError(t, err, test.expMessage)
			}
		})
	}
}
