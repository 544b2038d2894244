package aws

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/stretchr/testify/assert"

	"github.com/biomage-org/biomage-utils/pkg/document"
	"github.com/biomage-org/biomage-utils/pkg/errors"
)

type fakeDynamo struct {
	dynamodbiface.DynamoDBAPI

	items map[string]map[string]*dynamodb.AttributeValue
}

func (c fakeDynamo) GetItemWithContext(_ aws.Context, in *dynamodb.GetItemInput,
	_ ...request.Option) (*dynamodb.GetItemOutput, error) {
	if *in.TableName != "experiments-staging" {
		return nil, awserr.New(dynamodb.ErrCodeResourceNotFoundException, "table not found", nil)
	}
	return &dynamodb.GetItemOutput{Item: c.items[*in.Key["experimentId"].S]}, nil
}

func TestGetItem(t *testing.T) {
	table := DynamoTable{client: fakeDynamo{
		items: map[string]map[string]*dynamodb.AttributeValue{
			"exp": {
				"experimentId": {S: aws.String("exp")},
				"name":         {S: aws.String("exp1")},
				"version":      {N: aws.String("2")},
				"meta": {M: map[string]*dynamodb.AttributeValue{
					"gem2s": {BOOL: aws.Bool(true)},
				}},
				"sampleIds": {SS: aws.StringSlice([]string{"s1", "s2"})},
			},
		},
	}}
	key := map[string]string{"experimentId": "exp"}

	item, err := table.GetItem(context.Background(), "experiments-staging", key)
	assert.NoError(t, err)
	assert.Equal(t, document.Object{
		"experimentId": "exp",
		"name":         "exp1",
		"version":      float64(2),
		"meta":         map[string]interface{}{"gem2s": true},
		"sampleIds":    []interface{}{"s1", "s2"},
	}, item)

	_, err = table.GetItem(context.Background(), "experiments-staging", map[string]string{"experimentId": "other"})
	assert.Equal(t, errors.NotFound{Bucket: "experiments-staging", Key: "experimentId=other"}, err)

	_, err = table.GetItem(context.Background(), "experiments-production", key)
	assert.Equal(t, errors.NotFound{Bucket: "experiments-production", Key: "experimentId=exp"}, err)
}
