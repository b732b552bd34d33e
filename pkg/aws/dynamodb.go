package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DynamoPutter is the single DynamoDB call the analytics sink needs.
type DynamoPutter interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

func NewDynamoDBClient(cfg sdkaws.Config) *dynamodb.Client {
	return dynamodb.NewFromConfig(cfg)
}

// PutItem marshals item with its dynamodbav tags and writes it to table.
func PutItem(ctx context.Context, client DynamoPutter, table string, item interface{}) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item for %s: %w", table, err)
	}
	if _, err := client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: sdkaws.String(table),
		Item:      av,
	}); err != nil {
		return fmt.Errorf("failed to put item into %s: %w", table, err)
	}
	return nil
}
