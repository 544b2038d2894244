package aws

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sts"
	"github.com/aws/aws-sdk-go/service/sts/stsiface"

	"github.com/biomage-org/biomage-utils/pkg/errors"
)

// newSTSClient is mocked in the unit tests.
var newSTSClient = func(sess *session.Session) stsiface.STSAPI {
	return sts.New(sess)
}

// AccountID returns the ID of the account that the session's credentials
// belong to. The environment's bucket names end with it.
func AccountID(ctx context.Context, sess *session.Session) (string, error) {
	out, err := newSTSClient(sess).GetCallerIdentityWithContext(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", errors.WithContext(err, "get caller identity")
	}

	account := aws.StringValue(out.Account)
	if account == "" {
		return "", errors.MissingFieldError{Field: "Account"}
	}
	return account, nil
}
