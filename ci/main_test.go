//go:build ci
// +build ci

package main

import (
	"bytes"
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biomage-org/biomage-utils/ci/util"
	"github.com/biomage-org/biomage-utils/pkg/document"
	"github.com/biomage-org/biomage-utils/pkg/pull"
	"github.com/biomage-org/biomage-utils/pkg/upload"
)

const testExperiment = "e52b39624588791a7889e39c617f669e"

func TestBiomage(t *testing.T) {
	endpoint, ok := os.LookupEnv("CI_S3_ENDPOINT")
	if !ok {
		t.Error("missing required environment variable CI_S3_ENDPOINT")
		return
	}

	accountID := "000000000000"
	if id, ok := os.LookupEnv("CI_ACCOUNT_ID"); ok {
		accountID = id
	}

	helper, err := util.NewTestHelper(endpoint, "ci", accountID)
	require.NoError(t, err)
	defer helper.Cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	require.NoError(t, helper.EnsureBuckets(ctx,
		"biomage-source", "cell-sets", "processed-matrix"))

	t.Run("UploadThenPull", func(t *testing.T) {
		testUploadThenPull(ctx, t, helper)
	})
}

func testUploadThenPull(ctx context.Context, t *testing.T, helper *util.TestHelper) {
	inputPath := filepath.Join(helper.DataPath, "input")
	require.NoError(t, util.WriteInputs(inputPath, map[string]string{
		"cellsets.json":   `{"cellSets": [{"key": "louvain", "children": []}]}`,
		"processed_r.rds": "processed dataset",
	}))

	uploader := upload.Uploader{Objects: helper.Store, Out: ioutil.Discard}
	target := upload.Target{
		ExperimentID: testExperiment,
		Env:          helper.Env,
		AccountID:    helper.AccountID,
		InputPath:    inputPath,
	}
	uploaded, err := uploader.Upload(ctx, target, []upload.Category{upload.CellSets, upload.ProcessedRDS})
	require.NoError(t, err)
	assert.Equal(t, 2, uploaded.Len())

	// Pulls read the dataset from the source bucket, which raw uploads are
	// keyed by sample, so it's seeded directly.
	dataset := "raw dataset"
	require.NoError(t, helper.Store.Put(ctx, helper.Bucket("biomage-source"),
		testExperiment+"/r.rds", strings.NewReader(dataset), int64(len(dataset))))

	key := map[string]string{"experimentId": testExperiment}
	helper.Records.Put("experiments-"+helper.Origin(), key, document.Object{
		"experimentId": testExperiment,
		"name":         "ci",
		"pipeline":     map[string]interface{}{"stateMachineArn": "arn"},
	})
	helper.Records.Put("samples-"+helper.Origin(), key, document.Object{
		"experimentId": testExperiment,
		"samples":      map[string]interface{}{"ids": []interface{}{"s1"}},
	})

	puller := pull.Puller{
		Objects: helper.Store,
		Records: helper.Records,
		Root:    filepath.Join(helper.DataPath, "pulled"),
		Out:     ioutil.Discard,
	}

	pulled, err := puller.Pull(ctx, helper.Origin(), testExperiment)
	require.NoError(t, err)
	assert.Equal(t, 5, pulled.Len())

	experimentDir := filepath.Join(helper.DataPath, "pulled", testExperiment)
	cellSets, err := ioutil.ReadFile(filepath.Join(experimentDir, pull.CellSetsFile))
	require.NoError(t, err)
	assert.Contains(t, string(cellSets), `"louvain"`)

	experiment, err := ioutil.ReadFile(filepath.Join(experimentDir, pull.ExperimentFile))
	require.NoError(t, err)
	assert.NotContains(t, string(experiment), "pipeline")

	// Nothing changed remotely, so the second pull is a no-op.
	pulled, err = puller.Pull(ctx, helper.Origin(), testExperiment)
	require.NoError(t, err)

	report := bytes.NewBuffer(nil)
	pulled.Report(report)
	assert.Zero(t, pulled.Len(), report.String())
}
