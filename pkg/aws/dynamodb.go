package aws

import (
	"context"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"

	"github.com/biomage-org/biomage-utils/pkg/document"
	"github.com/biomage-org/biomage-utils/pkg/errors"
)

// DynamoTable is a remote.RecordTable backed by DynamoDB.
type DynamoTable struct {
	client dynamodbiface.DynamoDBAPI
}

// NewDynamoTable creates a DynamoTable that uses `sess`.
func NewDynamoTable(sess *session.Session) DynamoTable {
	return DynamoTable{client: dynamodb.New(sess)}
}

// GetItem implements remote.RecordTable. DynamoDB numbers are returned as
// float64, and sets as arrays.
func (t DynamoTable) GetItem(ctx context.Context, table string, key map[string]string) (document.Object, error) {
	attrKey, err := dynamodbattribute.MarshalMap(key)
	if err != nil {
		return nil, errors.WithContext(err, "marshal key")
	}

	out, err := t.client.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key:       attrKey,
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == dynamodb.ErrCodeResourceNotFoundException {
			return nil, errors.NotFound{Bucket: table, Key: keyString(key)}
		}
		return nil, err
	}

	if out.Item == nil {
		return nil, errors.NotFound{Bucket: table, Key: keyString(key)}
	}

	var item map[string]interface{}
	if err := dynamodbattribute.UnmarshalMap(out.Item, &item); err != nil {
		return nil, errors.WithContext(err, "unmarshal item")
	}
	return document.NormalizeObject(item)
}

func keyString(key map[string]string) string {
	var parts []string
	for name, value := range key {
		parts = append(parts, name+"="+value)
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
