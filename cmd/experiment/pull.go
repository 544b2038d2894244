package experiment

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/biomage-org/biomage-utils/cmd/util"
	"github.com/biomage-org/biomage-utils/pkg/errors"
	"github.com/biomage-org/biomage-utils/pkg/pull"
)

const (
	defaultOrigin       = "production"
	defaultExperimentID = "e52b39624588791a7889e39c617f669e"
)

func newPullCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pull [ORIGIN] [EXPERIMENT_ID]",
		Short: "Download the data and config of an experiment into the local data path",
		Long: "Download the processed dataset, cell sets, and config of an experiment\n" +
			"from the ORIGIN environment. Files that are already up to date aren't\n" +
			"downloaded again.\n\n" +
			"ORIGIN defaults to " + defaultOrigin + ", and EXPERIMENT_ID to " + defaultExperimentID + ".",
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			origin, experimentID := pullArgs(args)
			return runPull(cmd.Context(), origin, experimentID)
		},
	}
}

func pullArgs(args []string) (origin, experimentID string) {
	origin, experimentID = defaultOrigin, defaultExperimentID
	if len(args) > 0 {
		origin = args[0]
	}
	if len(args) > 1 {
		experimentID = args[1]
	}
	return origin, experimentID
}

func runPull(ctx context.Context, origin, experimentID string) error {
	cfg, err := parseUserConfig()
	if err != nil {
		return errors.WithContext(err, "read config")
	}

	sess, err := newSession(cfg.AWSProfile, cfg.Region)
	if err != nil {
		return err
	}

	objects, err := newObjectStore(cfg, sess)
	if err != nil {
		return errors.WithContext(err, "connect to object store")
	}

	puller := pull.Puller{
		Objects: objects,
		Records: newRecordTable(sess),
		Root:    cfg.DataPath,
		Out:     stdout,
	}
	changes, err := puller.Pull(ctx, origin, experimentID)
	if err != nil {
		return errors.WithContext(err, "pull")
	}

	changes.Report(stdout)
	util.PrintSuccess(stdout, "Experiment %s is up to date with %s.", experimentID, origin)
	return nil
}
