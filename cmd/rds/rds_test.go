package rds

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"

	"github.com/biomage-org/biomage-utils/pkg/config"
	"github.com/biomage-org/biomage-utils/pkg/errors"
)

func TestStartPortForwarding(t *testing.T) {
	fs = afero.NewMemMapFs()
	parseUserConfig = func() (config.User, error) {
		cfg := config.DefaultUser()
		cfg.AWSProfile = "biomage"
		cfg.DBPort = 5433
		return cfg, nil
	}

	var scriptPath string
	var scriptArgs, scriptEnv []string
	runScript = func(_ context.Context, path string, args, env []string) error {
		scriptPath, scriptArgs, scriptEnv = path, args, env

		contents, err := afero.ReadFile(fs, path)
		assert.NoError(t, err)
		assert.Equal(t, portForwardingScript, contents)
		return nil
	}

	err := startPortForwarding(context.Background(), "production", "writer")
	assert.NoError(t, err)
	assert.Equal(t, []string{"production", "5433", "writer"}, scriptArgs)
	assert.Contains(t, scriptEnv, "AWS_PROFILE=biomage")
	assert.Contains(t, scriptEnv, "SANDBOX_ID=default")

	// The script is removed once the session ends.
	_, err = fs.Stat(scriptPath)
	assert.Error(t, err)
}

func TestStartPortForwardingInvalidEndpointType(t *testing.T) {
	called := false
	runScript = func(context.Context, string, []string, []string) error {
		called = true
		return nil
	}

	err := startPortForwarding(context.Background(), "staging", "primary")
	assert.Error(t, err)
	assert.Contains(t, errors.GetPrintableMessage(err), `Invalid endpoint type "primary"`)
	assert.False(t, called)
}
