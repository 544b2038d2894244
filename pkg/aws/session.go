// Package aws implements the remote interfaces on top of the AWS services
// of an environment.
package aws

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"

	"github.com/biomage-org/biomage-utils/pkg/errors"
)

// NewSession creates a session that uses the credentials of the named
// profile in the shared AWS config.
func NewSession(profile, region string) (*session.Session, error) {
	sess, err := session.NewSessionWithOptions(session.Options{
		Profile:           profile,
		SharedConfigState: session.SharedConfigEnable,
		Config: aws.Config{
			Region: aws.String(region),
		},
	})
	if err != nil {
		return nil, errors.WithContext(err, "create aws session")
	}
	return sess, nil
}
