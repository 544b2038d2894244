package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/biomage-org/biomage-utils/cmd/util"
	"github.com/biomage-org/biomage-utils/pkg/config"
	"github.com/biomage-org/biomage-utils/pkg/errors"
)

// Mocked for unit testing.
var (
	stdout              io.Writer = os.Stdout
	stdin               io.Reader = os.Stdin
	guessDefaults                 = guessDefaultsImpl
	parseUserConfig               = config.ParseUser
	writeUserConfig               = config.WriteUser
	stat                          = os.Stat
	getWorkingDirectory           = os.Getwd
	getEnv                        = os.Getenv
)

var regionPattern = regexp.MustCompile(`^[a-z]{2}(-gov)?-[a-z]+-[0-9]+$`)

// New creates a new `config` command.
func New() *cobra.Command {
	var cliOpts config.User
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Setup the biomage user configuration",
		Run: func(_ *cobra.Command, _ []string) {
			if err := SetupConfig(cliOpts); err != nil {
				err = errors.NewFriendlyError("Failed to setup configuration:\n%s", err)
				util.HandleFatalError(err)
			}
		},
	}
	cmd.Flags().StringVar(&cliOpts.AWSProfile, "aws-profile", "",
		"Set the AWS profile in the config. "+
			"Optional: If not set, `biomage config` will interactively prompt.")
	cmd.Flags().StringVar(&cliOpts.Region, "region", "",
		"Set the AWS region in the config. "+
			"Optional: If not set, `biomage config` will interactively prompt.")
	cmd.Flags().StringVar(&cliOpts.DataPath, "data-path", "",
		"Set the local data path in the config. "+
			"Optional: If not set, `biomage config` will interactively prompt.")
	cmd.Flags().StringVar(&cliOpts.ObjectStoreEndpoint, "object-store-endpoint", "",
		"Use an S3-compatible object store at this URL instead of AWS S3.")

	// Setup the commands for querying the contents of the user config.
	type getterSpec struct {
		use, short string
		fn         func(config.User) string
	}

	getters := []getterSpec{
		{
			use:   "get-data-path",
			short: "Get the local path that experiments are pulled into",
			fn:    func(cfg config.User) string { return cfg.DataPath },
		},
		{
			use:   "get-aws-profile",
			short: "Get the AWS profile used to access the environments",
			fn:    func(cfg config.User) string { return cfg.AWSProfile },
		},
		{
			use:   "get-region",
			short: "Get the AWS region of the environments",
			fn:    func(cfg config.User) string { return cfg.Region },
		},
	}
	for _, getter := range getters {
		getter := getter
		cmd.AddCommand(&cobra.Command{
			Use:   getter.use,
			Short: getter.short,
			Run: func(_ *cobra.Command, _ []string) {
				cfg, err := parseUserConfig()
				if err != nil {
					err = errors.WithContext(err, "read config")
					util.HandleFatalError(err)
				}

				fmt.Fprintln(stdout, getter.fn(cfg))
			},
		})
	}

	return cmd
}

// SetupConfig writes the user config, prompting for the fields that
// aren't set in `cliOpts`.
func SetupConfig(cliOpts config.User) error {
	cfg, err := generateConfig(cliOpts)
	if err != nil {
		return errors.WithContext(err, "generate config")
	}

	if err := writeUserConfig(cfg); err != nil {
		return errors.WithContext(err, "write config")
	}

	path, err := config.GetUserConfigPath()
	if err != nil {
		return errors.WithContext(err, "get user config path")
	}

	fmt.Fprintf(stdout, "Wrote config to %s\n", path)
	return nil
}

func regionValidationFn(region string) (string, bool) {
	if regionPattern.MatchString(region) {
		return "", true
	}
	return "This isn't a valid AWS region. " +
		"Regions look like `eu-west-1` or `us-east-2`.", false
}

func dataPathValidationFn(path string) (string, bool) {
	if strings.TrimSpace(path) == "" {
		return "The data path can't be empty.", false
	}
	return "", true
}

type prompt struct {
	helpString, prompt, defaultAnswer, currAnswer string
	field                                         *string
	validationFn                                  func(string) (string, bool)
}

// generateConfig interacts with the user to decide what the user's desired
// configuration is.
// Fields that aren't prompted for, such as the database settings, keep
// their current values.
func generateConfig(cliOpts config.User) (config.User, error) {
	defaults := guessDefaults()
	currConfig, err := parseUserConfig()
	if err != nil {
		currConfig = config.DefaultUser()
		log.WithError(err).Debug("Failed to read current config")
	}

	cfg := currConfig
	if cliOpts.ObjectStoreEndpoint != "" {
		cfg.ObjectStoreEndpoint = cliOpts.ObjectStoreEndpoint
	}

	var prompts []prompt
	if cliOpts.AWSProfile == "" {
		prompts = append(prompts, prompt{
			helpString: "Enter the AWS profile used to access the environments.\n" +
				"It must be defined in ~/.aws/credentials or ~/.aws/config.",
			prompt:        "AWS profile",
			defaultAnswer: defaults.AWSProfile,
			currAnswer:    currConfig.AWSProfile,
			field:         &cfg.AWSProfile,
		})
	} else {
		cfg.AWSProfile = cliOpts.AWSProfile
	}

	if cliOpts.Region == "" {
		prompts = append(prompts, prompt{
			helpString:    "Enter the AWS region that the environments are deployed in.",
			prompt:        "AWS region",
			defaultAnswer: defaults.Region,
			currAnswer:    currConfig.Region,
			field:         &cfg.Region,
			validationFn:  regionValidationFn,
		})
	} else {
		cfg.Region = cliOpts.Region
	}

	if cliOpts.DataPath == "" {
		prompts = append(prompts, prompt{
			helpString: "Enter the local directory that experiments are pulled into.\n" +
				"Each experiment is stored in a subdirectory named after its ID.",
			prompt:        "Data path",
			defaultAnswer: defaults.DataPath,
			currAnswer:    currConfig.DataPath,
			field:         &cfg.DataPath,
			validationFn:  dataPathValidationFn,
		})
	} else {
		cfg.DataPath = cliOpts.DataPath
	}

	for _, prompt := range prompts {
		var resp string
		for {
			resp, err = promptUser(prompt.helpString, prompt.prompt,
				prompt.defaultAnswer, prompt.currAnswer)
			if err != nil {
				return config.User{}, errors.WithContext(err, "read response")
			}

			if prompt.validationFn == nil {
				break
			}

			validationErr, ok := prompt.validationFn(resp)
			if ok {
				break
			}

			fmt.Fprintln(stdout, validationErr)
		}

		*prompt.field = resp
	}

	return cfg, nil
}

// guessDefaults tries to guess reasonable defaults for the fields in the user
// config.
func guessDefaultsImpl() (cfg config.User) {
	cfg.AWSProfile = config.DefaultAWSProfile
	if profile := getEnv("AWS_PROFILE"); profile != "" {
		cfg.AWSProfile = profile
	}

	cfg.Region = config.DefaultRegion
	if region := getEnv("AWS_REGION"); region != "" {
		cfg.Region = region
	}

	if dataPath, err := guessDataPath(); err == nil {
		cfg.DataPath = dataPath
	} else {
		log.WithError(err).Info("Failed to guess data path")
	}

	return cfg
}

// guessDataPath returns the path to the data directory in the current
// directory if it exists.
func guessDataPath() (string, error) {
	currDir, err := getWorkingDirectory()
	if err != nil {
		return "", errors.WithContext(err, "get current directory")
	}

	path := filepath.Join(currDir, "data")
	if _, err := stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.WithContext(err, "stat")
	}
	return path, nil
}

func promptUser(helpString, prompt, defaultAnswer, currAnswer string) (string, error) {
	// Display a new line at the end to separate different fields to make it
	// look clearer.
	defer fmt.Fprintln(stdout)

	options := []string{}
	if defaultAnswer != "" {
		options = append(options, defaultAnswer)
	}
	if currAnswer != "" && currAnswer != defaultAnswer {
		options = append(options, currAnswer)
	}
	options = append(options, "(Enter manually)")

	fmt.Fprintln(stdout, helpString+"\n"+prompt+":")

	stdinReader := bufio.NewReader(stdin)

	if nOptions := len(options); nOptions > 1 {
		fmt.Fprintln(stdout)
		for i, option := range options {
			if i == 0 {
				option = fmt.Sprintf("%s (recommended)", option)
			}
			fmt.Fprintf(stdout, "\t%d. %s\n", i+1, option)
		}
		fmt.Fprintln(stdout)

		for {
			fmt.Fprintf(stdout, "Please choose one [1-%d]: ", nOptions)
			choiceStr, err := stdinReader.ReadString('\n')
			if err != nil {
				return "", err
			}

			var choice int
			choiceStr = strings.TrimRight(choiceStr, "\n")

			// Default to the first choice if user doesn't enter anything.
			if choiceStr == "" {
				choice = 1
			} else {
				choice, err = strconv.Atoi(choiceStr)
				if err != nil || choice < 1 || choice > nOptions {
					continue
				}
			}

			if choice == nOptions {
				break
			}

			return options[choice-1], nil
		}
	}

	fmt.Fprint(stdout, "Please enter manually: ")
	resp, err := stdinReader.ReadString('\n')
	if err != nil {
		return "", err
	}

	return strings.TrimRight(resp, "\n"), nil
}
