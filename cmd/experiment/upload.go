package experiment

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/biomage-org/biomage-utils/cmd/util"
	"github.com/biomage-org/biomage-utils/pkg/aws"
	"github.com/biomage-org/biomage-utils/pkg/errors"
	"github.com/biomage-org/biomage-utils/pkg/upload"
)

const defaultOutputEnv = "staging"

type uploadOptions struct {
	experimentID string
	outputEnv    string
	inputPath    string
	all          bool
	files        []string
	awsProfile   string
	dryRun       bool
	endpointType string
}

func newUploadCommand() *cobra.Command {
	var opts uploadOptions
	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload the local files of an experiment into an environment",
		Long: "Upload the local files of an experiment into an environment.\n\n" +
			"Sample IDs are read from the environment's database, so port forwarding\n" +
			"must be running when raw RDS files are uploaded:\n" +
			"    biomage rds start-port-forwarding -i staging\n\n" +
			"E.g.:\n" +
			"    biomage experiment upload -o staging -e 2093e95fd17372fb558b81b9142f230e -f cellsets -f raw_rds",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUpload(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.experimentID, "experiment_id", "e", "",
		"Experiment ID to upload.")
	cmd.Flags().StringVarP(&opts.outputEnv, "output_env", "o", defaultOutputEnv,
		"Environment to upload the files to.")
	cmd.Flags().StringVarP(&opts.inputPath, "input_path", "i", "",
		"Directory holding the files. Defaults to <data path>/<experiment id>.")
	cmd.Flags().BoolVarP(&opts.all, "all", "a", false,
		"Upload the cell sets, raw RDS and processed RDS files.")
	cmd.Flags().StringArrayVarP(&opts.files, "files", "f", nil,
		"Files to upload: samples, raw_rds, processed_rds or cellsets. Can be repeated.")
	cmd.Flags().StringVarP(&opts.awsProfile, "aws_profile", "p", "",
		"The profile in ~/.aws/credentials to use. Defaults to the configured profile.")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false,
		"Print what would be uploaded without uploading anything.")
	cmd.Flags().StringVarP(&opts.endpointType, "endpoint_type", "t", aws.ReaderEndpoint,
		"The database endpoint to read samples from, either reader or writer.")
	cmd.MarkFlagRequired("experiment_id")

	return cmd
}

func runUpload(ctx context.Context, opts uploadOptions) error {
	if err := aws.ValidateEndpointType(opts.endpointType); err != nil {
		return err
	}

	categories, err := upload.Select(opts.all, opts.files)
	if err != nil {
		return err
	}

	cfg, err := parseUserConfig()
	if err != nil {
		return errors.WithContext(err, "read config")
	}
	if opts.awsProfile != "" {
		cfg.AWSProfile = opts.awsProfile
	}

	inputPath := opts.inputPath
	if inputPath == "" {
		inputPath = filepath.Join(cfg.DataPath, opts.experimentID)
	}
	fmt.Fprintf(stdout, "Uploading files from: %s\n", inputPath)

	sess, err := newSession(cfg.AWSProfile, cfg.Region)
	if err != nil {
		return err
	}

	accountID, err := getAccountID(ctx, sess)
	if err != nil {
		return errors.WithContext(err, "get account id")
	}

	objects, err := newObjectStore(cfg, sess)
	if err != nil {
		return errors.WithContext(err, "connect to object store")
	}

	uploader := upload.Uploader{
		Objects: objects,
		Out:     stdout,
		DryRun:  opts.dryRun,
	}
	if needsDB(categories, opts.dryRun) {
		querier, closer, err := connectDB(ctx, cfg, sess, opts.outputEnv, opts.endpointType)
		if err != nil {
			return errors.WithContext(err, "connect to database")
		}
		defer closer.Close()
		uploader.DB = querier
	}

	target := upload.Target{
		ExperimentID: opts.experimentID,
		Env:          opts.outputEnv,
		AccountID:    accountID,
		InputPath:    inputPath,
	}
	changes, err := uploader.Upload(ctx, target, categories)
	if err != nil {
		return errors.WithContext(err, "upload")
	}

	changes.Report(stdout)
	if !opts.dryRun {
		util.PrintSuccess(stdout, "Uploaded %s for experiment %s to %s.",
			joinCategories(categories), opts.experimentID, opts.outputEnv)
	}
	return nil
}

// needsDB returns whether uploading `categories` requires resolving the
// experiment's samples.
func needsDB(categories []upload.Category, dryRun bool) bool {
	for _, category := range categories {
		if category == upload.RawRDS || (category == upload.Samples && dryRun) {
			return true
		}
	}
	return false
}

func joinCategories(categories []upload.Category) string {
	var names []string
	for _, category := range categories {
		names = append(names, string(category))
	}
	return strings.Join(names, ", ")
}
