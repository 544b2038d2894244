package config

import (
	"os"
	"strconv"

	"github.com/biomage-org/biomage-utils/pkg/errors"
)

// Environment variables that override the user config.
const (
	// DataPathEnvKey overrides the local data root.
	DataPathEnvKey = "BIOMAGE_DATA_PATH"

	// ObjectStoreEndpointEnvKey points object store calls at an S3-compatible
	// endpoint instead of AWS, e.g. a local inframock.
	ObjectStoreEndpointEnvKey = "BIOMAGE_S3_ENDPOINT"

	// DBPortEnvKey overrides the local port of the database tunnel.
	DBPortEnvKey = "BIOMAGE_DB_PORT"

	awsProfileEnvKey = "AWS_PROFILE"
	awsRegionEnvKey  = "AWS_REGION"
)

// lookupEnv is mocked in the unit tests.
var lookupEnv = os.LookupEnv

func envString(key, def string) string {
	if v, ok := lookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v, ok := lookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}

	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.WithContext(err, "parse "+key)
	}
	return i, nil
}
