package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/biomage-org/biomage-utils/pkg/errors"
	"github.com/biomage-org/biomage-utils/pkg/remote"
	"github.com/biomage-org/biomage-utils/pkg/summary"
)

// Command is the name the upload is reported under.
const Command = "upload"

const (
	samplesBucket        = "biomage-originals"
	rawFilesBucket       = "biomage-source"
	processedFilesBucket = "processed-matrix"
	cellSetsBucket       = "cell-sets"
)

const (
	rawDir             = "raw"
	processedLocalFile = "processed_r.rds"
	rdsKeyFile         = "r.rds"
	cellSetsFile       = "cellsets.json"
)

var successColor = color.New(color.FgGreen)

var successMessages = map[Category]string{
	RawRDS:       "Raw RDS files have been uploaded to %s.",
	ProcessedRDS: "Processed RDS file has been uploaded to %s.",
	CellSets:     "Cell sets file has been uploaded to %s.",
}

// fs is used for mock tests. It will be overridden by afero.NewMemMapFs()
// in the tests.
var fs = afero.NewOsFs()

// Target identifies where the files of an experiment are uploaded from and
// to.
type Target struct {
	ExperimentID string

	// Env is the environment that's uploaded to.
	Env string

	// AccountID is the AWS account that hosts the environment's buckets.
	AccountID string

	// InputPath is the local directory holding the experiment's files.
	InputPath string
}

// Bucket returns the name of the environment's bucket with `base`.
func (t Target) Bucket(base string) string {
	return fmt.Sprintf("%s-%s-%s", base, t.Env, t.AccountID)
}

// Uploader copies local experiment files into an environment.
type Uploader struct {
	Objects remote.ObjectStore
	DB      remote.Querier

	// Out receives the progress messages meant for the operator.
	Out io.Writer

	// DryRun prints the planned uploads without performing them.
	DryRun bool
}

type step struct {
	localPath string
	bucket    string
	key       string

	// probe checks that the destination bucket is reachable before
	// uploading.
	probe bool
}

// Upload uploads the files of the selected categories, in order. It stops at
// the first failure.
func (u Uploader) Upload(ctx context.Context, target Target, categories []Category) (*summary.Summary, error) {
	var names []string
	for _, category := range categories {
		names = append(names, string(category))
	}

	changes := summary.New(Command, map[string]string{
		"experiment_id": target.ExperimentID,
		"output_env":    target.Env,
		"files":         strings.Join(names, ","),
	})
	logger := log.WithFields(log.Fields{
		"run":        changes.RunID,
		"env":        target.Env,
		"experiment": target.ExperimentID,
		"dryRun":     u.DryRun,
	})

	for _, category := range categories {
		steps, err := u.plan(ctx, target, category)
		if err != nil {
			return nil, errors.WithContext(err, fmt.Sprintf("plan %s upload", category))
		}

		for _, s := range steps {
			if err := u.run(ctx, logger, changes, s); err != nil {
				return nil, errors.WithContext(err, fmt.Sprintf("upload %s", s.localPath))
			}
		}

		if msg, ok := successMessages[category]; ok && !u.DryRun {
			successColor.Fprintln(u.Out, fmt.Sprintf(msg, target.ExperimentID))
		}
	}
	return changes, nil
}

func (u Uploader) plan(ctx context.Context, target Target, category Category) ([]step, error) {
	switch category {
	case Samples:
		if !u.DryRun {
			fmt.Fprintln(u.Out, "\n== Uploading sample files is not supported")
			return nil, nil
		}
		fmt.Fprintln(u.Out, "\n== Planning sample files upload")
		return u.planSamples(ctx, target)
	case RawRDS:
		fmt.Fprintln(u.Out, "\n== Uploading raw RDS files")
		return u.planRawRDS(ctx, target)
	case ProcessedRDS:
		fmt.Fprintln(u.Out, "\n== Uploading processed RDS file")
		return []step{{
			localPath: filepath.Join(target.InputPath, processedLocalFile),
			bucket:    target.Bucket(processedFilesBucket),
			key:       fmt.Sprintf("%s/%s", target.ExperimentID, rdsKeyFile),
			probe:     true,
		}}, nil
	case CellSets:
		fmt.Fprintln(u.Out, "\n== Uploading cell sets file")
		return []step{{
			localPath: filepath.Join(target.InputPath, cellSetsFile),
			bucket:    target.Bucket(cellSetsBucket),
			key:       target.ExperimentID,
			probe:     true,
		}}, nil
	default:
		return nil, errors.LookupError{Table: "file category", Key: string(category)}
	}
}

func (u Uploader) planSamples(ctx context.Context, target Target) ([]step, error) {
	plans, err := u.PlanSampleFiles(ctx, target.ExperimentID)
	if err != nil {
		return nil, err
	}

	var steps []step
	for _, plan := range plans {
		for _, f := range plan.Files {
			steps = append(steps, step{
				localPath: f.LocalPath(target.InputPath),
				bucket:    target.Bucket(samplesBucket),
				key:       f.RemotePath,
				probe:     true,
			})
		}
	}
	return steps, nil
}

func (u Uploader) planRawRDS(ctx context.Context, target Target) ([]step, error) {
	samples, err := u.getExperimentSamples(ctx, target.ExperimentID)
	if err != nil {
		return nil, errors.WithContext(err, "get experiment samples")
	}

	var steps []step
	for _, s := range samples {
		steps = append(steps, step{
			localPath: filepath.Join(target.InputPath, rawDir, s.Name+".rds"),
			bucket:    target.Bucket(rawFilesBucket),
			key:       fmt.Sprintf("%s/%s/%s", target.ExperimentID, s.ID, rdsKeyFile),
		})
	}
	return steps, nil
}

func (u Uploader) run(ctx context.Context, logger *log.Entry, changes *summary.Summary, s step) error {
	logger = logger.WithFields(log.Fields{
		"bucket": s.bucket,
		"key":    s.key,
		"path":   s.localPath,
	})

	if s.probe {
		exists, err := u.Objects.HeadExists(ctx, s.bucket, s.key)
		if err != nil {
			return errors.WithContext(err, "check destination")
		}
		logger.WithField("exists", exists).Debug("Checked destination")
	}

	if u.DryRun {
		fmt.Fprintf(u.Out, "Would upload %s to s3://%s/%s\n", s.localPath, s.bucket, s.key)
		return nil
	}

	f, err := fs.Open(s.localPath)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.FileNotFound{Path: s.localPath}
		}
		return errors.WithContext(err, "open")
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return errors.WithContext(err, "stat")
	}

	fmt.Fprintf(u.Out, "%s, %s, %s\n", s.localPath, s.bucket, s.key)
	if err := u.Objects.Put(ctx, s.bucket, s.key, f, fi.Size()); err != nil {
		return errors.WithContext(err, "put")
	}

	logger.WithField("size", fi.Size()).Debug("Uploaded file")
	changes.Add(fmt.Sprintf("s3://%s/%s", s.bucket, s.key))
	return nil
}
