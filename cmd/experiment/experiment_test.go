package experiment

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/biomage-org/biomage-utils/pkg/config"
	"github.com/biomage-org/biomage-utils/pkg/errors"
	"github.com/biomage-org/biomage-utils/pkg/remote"
	"github.com/biomage-org/biomage-utils/pkg/remote/mocks"
)

const testAccount = "000000000000"

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// fakeEnv replaces the remote constructors with mocks, and records the
// arguments they were called with.
type fakeEnv struct {
	out     *bytes.Buffer
	objects *mocks.ObjectStore
	records *mocks.RecordTable
	db      *mocks.Querier

	profile     string
	dbConnected bool
	dbEnv       string
	dbEndpoint  string
}

func setupFakeEnv(t *testing.T) *fakeEnv {
	env := &fakeEnv{
		out:     &bytes.Buffer{},
		objects: &mocks.ObjectStore{},
		records: &mocks.RecordTable{},
		db:      &mocks.Querier{},
	}

	stdout = env.out
	parseUserConfig = func() (config.User, error) {
		cfg := config.DefaultUser()
		cfg.DataPath = "/data"
		return cfg, nil
	}
	newSession = func(profile, _ string) (*session.Session, error) {
		env.profile = profile
		return nil, nil
	}
	newObjectStore = func(config.User, *session.Session) (remote.ObjectStore, error) {
		return env.objects, nil
	}
	newRecordTable = func(*session.Session) remote.RecordTable {
		return env.records
	}
	getAccountID = func(context.Context, *session.Session) (string, error) {
		return testAccount, nil
	}
	connectDB = func(_ context.Context, _ config.User, _ *session.Session,
		dbEnv, endpointType string) (remote.Querier, io.Closer, error) {
		env.dbConnected = true
		env.dbEnv = dbEnv
		env.dbEndpoint = endpointType
		return env.db, nopCloser{}, nil
	}
	return env
}

func TestPullArgs(t *testing.T) {
	tests := []struct {
		name          string
		args          []string
		expOrigin     string
		expExperiment string
	}{
		{
			name:          "defaults",
			expOrigin:     "production",
			expExperiment: "e52b39624588791a7889e39c617f669e",
		},
		{
			name:          "origin only",
			args:          []string{"staging"},
			expOrigin:     "staging",
			expExperiment: "e52b39624588791a7889e39c617f669e",
		},
		{
			name:          "origin and experiment",
			args:          []string{"staging", "abc"},
			expOrigin:     "staging",
			expExperiment: "abc",
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			origin, experimentID := pullArgs(test.args)
			assert.Equal(t, test.expOrigin, origin)
			assert.Equal(t, test.expExperiment, experimentID)
		})
	}
}

func TestRunPullMissingDataset(t *testing.T) {
	env := setupFakeEnv(t)
	notFound := errors.NotFound{Bucket: "biomage-source-production", Key: "abc/r.rds"}
	env.objects.On("Stat", mock.Anything, "biomage-source-production", "abc/r.rds").
		Return(remote.ObjectInfo{}, notFound)

	err := runPull(context.Background(), "production", "abc")
	assert.True(t, errors.Is(err, notFound), "unexpected error: %v", err)
	assert.Equal(t, config.DefaultAWSProfile, env.profile)
	env.objects.AssertExpectations(t)
}

func TestRunUploadSamplesOnly(t *testing.T) {
	env := setupFakeEnv(t)

	err := runUpload(context.Background(), uploadOptions{
		experimentID: "abc",
		outputEnv:    "staging",
		files:        []string{"samples"},
		endpointType: "reader",
	})
	assert.NoError(t, err)
	assert.Contains(t, env.out.String(), "Uploading sample files is not supported")
	assert.Contains(t, env.out.String(), "No files changed.")
	assert.False(t, env.dbConnected)
	env.objects.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRunUploadInvalidOptions(t *testing.T) {
	tests := []struct {
		name   string
		opts   uploadOptions
		expErr error
		expMsg string
	}{
		{
			name: "invalid endpoint type",
			opts: uploadOptions{
				experimentID: "abc",
				all:          true,
				endpointType: "primary",
			},
			expMsg: `Invalid endpoint type "primary"`,
		},
		{
			name: "unknown category",
			opts: uploadOptions{
				experimentID: "abc",
				files:        []string{"filtered_rds"},
				endpointType: "reader",
			},
			expErr: errors.LookupError{Table: "file category", Key: "filtered_rds"},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			env := setupFakeEnv(t)
			err := runUpload(context.Background(), test.opts)
			assert.Error(t, err)
			if test.expErr != nil {
				assert.True(t, errors.Is(err, test.expErr))
			}
			if test.expMsg != "" {
				assert.Contains(t, errors.GetPrintableMessage(err), test.expMsg)
			}
			assert.False(t, env.dbConnected)
		})
	}
}

func TestRunUploadAllDryRun(t *testing.T) {
	env := setupFakeEnv(t)
	env.db.On("Query", mock.Anything, mock.Anything, "abc").Return([]remote.Row{
		{"sample_id": "id-a", "sample_name": "WT1"},
	}, nil)
	env.objects.On("HeadExists", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)

	err := runUpload(context.Background(), uploadOptions{
		experimentID: "abc",
		outputEnv:    "staging",
		all:          true,
		awsProfile:   "biomage",
		dryRun:       true,
		endpointType: "writer",
	})
	assert.NoError(t, err)

	out := env.out.String()
	assert.Contains(t, out, "Uploading files from: /data/abc")
	assert.Contains(t, out, "Would upload /data/abc/cellsets.json to s3://cell-sets-staging-000000000000/abc")
	assert.Contains(t, out, "Would upload /data/abc/raw/WT1.rds to s3://biomage-source-staging-000000000000/abc/id-a/r.rds")
	assert.Contains(t, out, "Would upload /data/abc/processed_r.rds to s3://processed-matrix-staging-000000000000/abc/r.rds")
	assert.NotContains(t, out, "Uploaded")

	assert.Equal(t, "biomage", env.profile)
	assert.True(t, env.dbConnected)
	assert.Equal(t, "staging", env.dbEnv)
	assert.Equal(t, "writer", env.dbEndpoint)
	env.objects.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
