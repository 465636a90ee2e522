// Package dynamo keeps the daily import counter in a DynamoDB table keyed
// by date. Items expire through the table's TTL attribute.
package dynamo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamodbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Retention is how long a day's counter is kept before TTL removal.
const Retention = 30 * 24 * time.Hour

type dynamoAPI interface {
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

type quotaItem struct {
	Date         string `dynamodbav:"date"`
	ImportsCount int    `dynamodbav:"imports_count"`
	ExpiresAt    int64  `dynamodbav:"expires_at"`
}

type QuotaStore struct {
	client    dynamoAPI
	tableName string
	now       func() time.Time
}

// NewQuotaStore loads AWS credentials from the default chain.
func NewQuotaStore(ctx context.Context, tableName, region string) (*QuotaStore, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return newQuotaStore(dynamodb.NewFromConfig(cfg), tableName), nil
}

func newQuotaStore(client dynamoAPI, tableName string) *QuotaStore {
	return &QuotaStore{client: client, tableName: tableName, now: time.Now}
}

// Increment atomically adds one to the date's counter and returns the new
// total.
func (s *QuotaStore) Increment(ctx context.Context, date string) (int, error) {
	expires := s.now().Add(Retention).Unix()
	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]dynamodbtypes.AttributeValue{
			"date": &dynamodbtypes.AttributeValueMemberS{Value: date},
		},
		UpdateExpression: aws.String("ADD imports_count :one SET expires_at = if_not_exists(expires_at, :ttl)"),
		ExpressionAttributeValues: map[string]dynamodbtypes.AttributeValue{
			":one": &dynamodbtypes.AttributeValueMemberN{Value: "1"},
			":ttl": &dynamodbtypes.AttributeValueMemberN{Value: strconv.FormatInt(expires, 10)},
		},
		ReturnValues: dynamodbtypes.ReturnValueAllNew,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to increment quota for %s: %w", date, err)
	}

	var item quotaItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &item); err != nil {
		return 0, fmt.Errorf("failed to unmarshal quota item: %w", err)
	}
	return item.ImportsCount, nil
}

func (s *QuotaStore) Count(ctx context.Context, date string) (int, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]dynamodbtypes.AttributeValue{
			"date": &dynamodbtypes.AttributeValueMemberS{Value: date},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to read quota for %s: %w", date, err)
	}
	if out.Item == nil {
		return 0, nil
	}

	var item quotaItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return 0, fmt.Errorf("failed to unmarshal quota item: %w", err)
	}
	return item.ImportsCount, nil
}
