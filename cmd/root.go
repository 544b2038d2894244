package cmd

import (
	"context"
	"os"
	"os/signal"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	configCmd "github.com/biomage-org/biomage-utils/cmd/config"
	"github.com/biomage-org/biomage-utils/cmd/experiment"
	"github.com/biomage-org/biomage-utils/cmd/rds"
	"github.com/biomage-org/biomage-utils/cmd/util"
	"github.com/biomage-org/biomage-utils/cmd/version"
)

// verboseLogKey is the environment variable used to enable verbose logging.
// When it's set to `true`, Debug events are logged, rather than just Info and
// above.
const verboseLogKey = "BIOMAGE_LOG_VERBOSE"

// Execute runs the main CLI process.
func Execute() {
	if os.Getenv(verboseLogKey) == "true" {
		log.SetLevel(log.DebugLevel)
	}

	if err := execute(os.Args[1:]); err != nil {
		util.HandleFatalError(err)
	}
}

// execute runs the command selected by `args` and returns its error. It
// never exits the process itself.
func execute(args []string) error {
	// Interrupting cancels the in-flight requests. Partially written files
	// are left in place.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "biomage",
		Short:        "Move experiments between the biomage environments and your machine",
		SilenceUsage: true,

		// The call to rootCmd.Execute prints the error, so we silence errors
		// here to avoid double printing.
		SilenceErrors: true,
	}
	rootCmd.AddCommand(
		configCmd.New(),
		experiment.New(),
		rds.New(),
		version.New(),
	)
	return rootCmd
}
