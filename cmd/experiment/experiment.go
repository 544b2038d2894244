package experiment

import (
	"context"
	"io"
	"os"

	"github.com/aws/aws-sdk-go/aws/session"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/biomage-org/biomage-utils/pkg/aws"
	"github.com/biomage-org/biomage-utils/pkg/config"
	"github.com/biomage-org/biomage-utils/pkg/errors"
	"github.com/biomage-org/biomage-utils/pkg/minio"
	"github.com/biomage-org/biomage-utils/pkg/rds"
	"github.com/biomage-org/biomage-utils/pkg/remote"
)

// Mocked for unit testing.
var (
	stdout          io.Writer = os.Stdout
	parseUserConfig           = config.ParseUser
	newSession                = aws.NewSession
	newObjectStore            = newObjectStoreImpl
	newRecordTable            = newRecordTableImpl
	getAccountID              = aws.AccountID
	connectDB                 = connectDBImpl
)

// New creates a new `experiment` command.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "experiment",
		Short: "Synchronize experiments between environments and the local data path",
	}
	cmd.AddCommand(newPullCommand(), newUploadCommand())
	return cmd
}

// newObjectStoreImpl returns the AWS S3 store, unless the user configured
// an S3-compatible endpoint.
func newObjectStoreImpl(cfg config.User, sess *session.Session) (remote.ObjectStore, error) {
	if cfg.ObjectStoreEndpoint == "" {
		return aws.NewS3Store(sess), nil
	}

	log.WithField("endpoint", cfg.ObjectStoreEndpoint).Debug("Using S3-compatible object store")
	store, err := minio.New(minio.Config{
		Endpoint: cfg.ObjectStoreEndpoint,
		Profile:  cfg.AWSProfile,
		Region:   cfg.Region,
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

func newRecordTableImpl(sess *session.Session) remote.RecordTable {
	return aws.NewDynamoTable(sess)
}

// connectDBImpl connects to the database of `env` through the forwarded
// port, authenticating with an IAM token for the given endpoint type.
func connectDBImpl(ctx context.Context, cfg config.User, sess *session.Session,
	env, endpointType string) (remote.Querier, io.Closer, error) {

	token, err := aws.NewRDSAuth(sess).Token(ctx, aws.ClusterID(env, cfg.Sandbox),
		endpointType, cfg.DBUser, cfg.DBPort)
	if err != nil {
		return nil, nil, errors.WithContext(err, "get database auth token")
	}

	db, err := rds.Open(ctx, rds.Config{
		Host:     "localhost",
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: token,
		Database: cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		return nil, nil, err
	}
	return rds.Querier{DB: db}, db, nil
}
