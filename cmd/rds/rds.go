package rds

import (
	"context"
	_ "embed"
	"os"
	"os/exec"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/biomage-org/biomage-utils/pkg/aws"
	"github.com/biomage-org/biomage-utils/pkg/config"
	"github.com/biomage-org/biomage-utils/pkg/errors"
)

//go:embed start_port_forwarding.sh
var portForwardingScript []byte

// Mocked for unit testing.
var (
	fs              = afero.NewOsFs()
	parseUserConfig = config.ParseUser
	runScript       = runScriptImpl
)

const defaultInputEnv = "staging"

// New creates a new `rds` command.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rds",
		Short: "Access the relational database of an environment",
	}
	cmd.AddCommand(newStartPortForwardingCommand())
	return cmd
}

func newStartPortForwardingCommand() *cobra.Command {
	var inputEnv, endpointType string
	cmd := &cobra.Command{
		Use:   "start-port-forwarding",
		Short: "Forward a local port to the database of an environment",
		Long: "Forward a local port to the database of an environment. The session\n" +
			"stays open until it's interrupted.\n\n" +
			"E.g.:\n" +
			"    biomage rds start-port-forwarding -i staging",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return startPortForwarding(cmd.Context(), inputEnv, endpointType)
		},
	}
	cmd.Flags().StringVarP(&inputEnv, "input_env", "i", defaultInputEnv,
		"Environment of the database.")
	cmd.Flags().StringVarP(&endpointType, "endpoint_type", "t", aws.ReaderEndpoint,
		"The type of the endpoint to connect to, either reader or writer.")
	return cmd
}

func startPortForwarding(ctx context.Context, inputEnv, endpointType string) error {
	if err := aws.ValidateEndpointType(endpointType); err != nil {
		return err
	}

	cfg, err := parseUserConfig()
	if err != nil {
		return errors.WithContext(err, "read config")
	}

	script, err := afero.TempFile(fs, "", "start_port_forwarding-*.sh")
	if err != nil {
		return errors.WithContext(err, "create script")
	}
	defer fs.Remove(script.Name())

	if _, err := script.Write(portForwardingScript); err != nil {
		script.Close()
		return errors.WithContext(err, "write script")
	}
	if err := script.Close(); err != nil {
		return errors.WithContext(err, "write script")
	}

	args := []string{inputEnv, strconv.Itoa(cfg.DBPort), endpointType}
	env := append(os.Environ(),
		"AWS_PROFILE="+cfg.AWSProfile,
		"AWS_REGION="+cfg.Region,
		"SANDBOX_ID="+cfg.Sandbox,
	)

	log.WithFields(log.Fields{
		"script": script.Name(),
		"args":   args,
	}).Debug("Starting port forwarding")
	if err := runScript(ctx, script.Name(), args, env); err != nil {
		return errors.WithContext(err, "port forwarding")
	}
	return nil
}

func runScriptImpl(ctx context.Context, path string, args, env []string) error {
	cmd := exec.CommandContext(ctx, "bash", append([]string{path}, args...)...)
	cmd.Env = env
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
