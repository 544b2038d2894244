package config

import (
	"github.com/ghodss/yaml"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"

	"github.com/biomage-org/biomage-utils/pkg/errors"
)

const (
	// UserConfigPath is the default path to the biomage user config.
	UserConfigPath = "~/.biomage.yaml"

	// InitialUserConfigVersion is the first version of the user config.
	// Config files that do not specify a version will default to this
	// version.
	InitialUserConfigVersion = "v1alpha1"

	// SupportedUserConfigVersion is the supported version of the user config
	// of the current biomage binary.
	SupportedUserConfigVersion = "v1alpha1"
)

// Defaults used when neither the config file nor the environment set a
// value.
const (
	DefaultAWSProfile = "default"
	DefaultRegion     = "eu-west-1"
	DefaultDataPath   = "./data"
	DefaultSandbox    = "default"
	DefaultDBUser     = "dev_role"
	DefaultDBName     = "aurora_db"
	DefaultDBPort     = 5432
	DefaultDBSSLMode  = "require"
)

// User contains the operator's local settings.
type User struct {
	Version    string `json:"version,omitempty"`
	AWSProfile string `json:"awsProfile,omitempty"`
	Region     string `json:"region,omitempty"`

	// DataPath is the local data root. Pulled experiments are stored in
	// DataPath/<experiment id>.
	DataPath string `json:"dataPath,omitempty"`

	// ObjectStoreEndpoint is empty for AWS S3.
	ObjectStoreEndpoint string `json:"objectStoreEndpoint,omitempty"`

	Sandbox   string `json:"sandbox,omitempty"`
	DBUser    string `json:"dbUser,omitempty"`
	DBName    string `json:"dbName,omitempty"`
	DBPort    int    `json:"dbPort,omitempty"`
	DBSSLMode string `json:"dbSSLMode,omitempty"`
}

func (u User) getVersion() string {
	return u.Version
}

// DefaultUser returns the config used when no config file exists.
func DefaultUser() User {
	return User{
		Version:    InitialUserConfigVersion,
		AWSProfile: DefaultAWSProfile,
		Region:     DefaultRegion,
		DataPath:   DefaultDataPath,
		Sandbox:    DefaultSandbox,
		DBUser:     DefaultDBUser,
		DBName:     DefaultDBName,
		DBPort:     DefaultDBPort,
		DBSSLMode:  DefaultDBSSLMode,
	}
}

// homedirExpand will be overridden in mock tests
var homedirExpand = homedir.Expand

// ParseUser parses the user config stored in the default path and applies
// the environment overrides. A missing config file isn't an error: the
// defaults are used instead.
func ParseUser() (User, error) {
	path, err := GetUserConfigPath()
	if err != nil {
		return User{}, errors.WithContext(err, "expand config path")
	}

	config := DefaultUser()
	if err := parseConfig(path, &config, SupportedUserConfigVersion); err != nil {
		if _, ok := err.(errors.FileNotFound); !ok {
			return User{}, errors.WithContext(err, "parse")
		}
	}

	config.AWSProfile = envString(awsProfileEnvKey, config.AWSProfile)
	config.Region = envString(awsRegionEnvKey, config.Region)
	config.DataPath = envString(DataPathEnvKey, config.DataPath)
	config.ObjectStoreEndpoint = envString(ObjectStoreEndpointEnvKey, config.ObjectStoreEndpoint)
	config.DBPort, err = envInt(DBPortEnvKey, config.DBPort)
	if err != nil {
		return User{}, errors.WithContext(err, "read environment")
	}

	config.DataPath, err = homedirExpand(config.DataPath)
	if err != nil {
		return User{}, errors.WithContext(err, "expand data path")
	}
	return config, nil
}

// WriteUser writes the given user config to disk.
func WriteUser(cfg User) error {
	cfg.Version = SupportedUserConfigVersion
	path, err := GetUserConfigPath()
	if err != nil {
		return errors.WithContext(err, "expand config path")
	}

	yamlBytes, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WithContext(err, "marshal")
	}

	if err := afero.WriteFile(fs, path, yamlBytes, 0644); err != nil {
		return errors.WithContext(err, "write")
	}
	return nil
}

// GetUserConfigPath returns the path to the user's biomage configuration.
// This path is expanded, so it can be directly passed to file operations.
func GetUserConfigPath() (string, error) {
	return homedirExpand(UserConfigPath)
}
