package aws

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sts"
	"github.com/aws/aws-sdk-go/service/sts/stsiface"
	"github.com/stretchr/testify/assert"

	"github.com/biomage-org/biomage-utils/pkg/errors"
)

type fakeSTS struct {
	stsiface.STSAPI

	account *string
}

func (c fakeSTS) GetCallerIdentityWithContext(aws.Context, *sts.GetCallerIdentityInput,
	...request.Option) (*sts.GetCallerIdentityOutput, error) {
	return &sts.GetCallerIdentityOutput{Account: c.account}, nil
}

func TestAccountID(t *testing.T) {
	newSTSClient = func(*session.Session) stsiface.STSAPI {
		return fakeSTS{account: aws.String("000000000000")}
	}
	account, err := AccountID(context.Background(), nil)
	assert.NoError(t, err)
	assert.Equal(t, "000000000000", account)

	newSTSClient = func(*session.Session) stsiface.STSAPI {
		return fakeSTS{}
	}
	_, err = AccountID(context.Background(), nil)
	assert.Equal(t, errors.MissingFieldError{Field: "Account"}, err)
}
