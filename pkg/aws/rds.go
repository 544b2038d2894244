package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/rds"
	"github.com/aws/aws-sdk-go/service/rds/rdsiface"
	"github.com/aws/aws-sdk-go/service/rds/rdsutils"

	"github.com/biomage-org/biomage-utils/pkg/errors"
)

// Endpoint types of the Aurora clusters.
const (
	ReaderEndpoint = "reader"
	WriterEndpoint = "writer"
)

// ValidateEndpointType errors if `endpointType` isn't one of the cluster
// endpoint types.
func ValidateEndpointType(endpointType string) error {
	switch endpointType {
	case ReaderEndpoint, WriterEndpoint:
		return nil
	}
	return errors.NewFriendlyError("Invalid endpoint type %q.\n"+
		"The endpoint type must be either %q or %q.", endpointType, ReaderEndpoint, WriterEndpoint)
}

// ClusterID returns the identifier of the Aurora cluster of an environment.
func ClusterID(env, sandbox string) string {
	return fmt.Sprintf("aurora-cluster-%s-%s", env, sandbox)
}

// RDSAuth builds IAM authentication tokens for the Aurora clusters.
type RDSAuth struct {
	client rdsiface.RDSAPI
	region string
	creds  *credentials.Credentials
}

// NewRDSAuth creates an RDSAuth that uses `sess`.
func NewRDSAuth(sess *session.Session) RDSAuth {
	return RDSAuth{
		client: rds.New(sess),
		region: aws.StringValue(sess.Config.Region),
		creds:  sess.Config.Credentials,
	}
}

// Endpoint returns the address of the cluster endpoint of the given type.
func (auth RDSAuth) Endpoint(ctx context.Context, clusterID, endpointType string) (string, error) {
	out, err := auth.client.DescribeDBClusterEndpointsWithContext(ctx, &rds.DescribeDBClusterEndpointsInput{
		DBClusterIdentifier: aws.String(clusterID),
		Filters: []*rds.Filter{
			{
				Name:   aws.String("db-cluster-endpoint-type"),
				Values: aws.StringSlice([]string{endpointType}),
			},
		},
	})
	if err != nil {
		return "", errors.WithContext(err, "describe cluster endpoints")
	}

	for _, endpoint := range out.DBClusterEndpoints {
		if address := aws.StringValue(endpoint.Endpoint); address != "" {
			return address, nil
		}
	}
	return "", errors.NotFound{Bucket: clusterID, Key: endpointType + " endpoint"}
}

// Token returns the password that `user` connects to the cluster endpoint
// with. Tokens expire after 15 minutes.
func (auth RDSAuth) Token(ctx context.Context, clusterID, endpointType, user string, port int) (string, error) {
	address, err := auth.Endpoint(ctx, clusterID, endpointType)
	if err != nil {
		return "", err
	}

	token, err := rdsutils.BuildAuthToken(fmt.Sprintf("%s:%d", address, port), auth.region, user, auth.creds)
	if err != nil {
		return "", errors.WithContext(err, "build auth token")
	}
	return token, nil
}
