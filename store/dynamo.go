package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"vidshare-site/videos"
)

// DynamoStore implements RecordStore against a DynamoDB table keyed by
// the video id.
type DynamoStore struct {
	client    *dynamodb.Client
	tableName string
}

var _ RecordStore = (*DynamoStore)(nil)

// NewDynamoStore loads AWS configuration from the environment and
// binds to the given table.
func NewDynamoStore(ctx context.Context, tableName, region string) (*DynamoStore, error) {
	if tableName == "" {
		return nil, fmt.Errorf("dynamodb table name cannot be empty")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &DynamoStore{
		client:    dynamodb.NewFromConfig(cfg),
		tableName: tableName,
	}, nil
}

func (s *DynamoStore) Put(ctx context.Context, rec *videos.Record) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put record: %w", err)
	}
	return nil
}

func (s *DynamoStore) Get(ctx context.Context, id string) (*videos.Record, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key:       recordKey(id),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	if result.Item == nil {
		return nil, ErrNotFound
	}

	var rec videos.Record
	if err := attributevalue.UnmarshalMap(result.Item, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return &rec, nil
}

// UpdateFields builds a SET expression from the supplied fields using
// generated placeholders, so attribute names never reach the
// expression text directly.
func (s *DynamoStore) UpdateFields(ctx context.Context, id string, fields map[string]any) (*videos.Record, error) {
	names := map[string]string{"#updatedAt": "updatedAt"}
	ts, err := attributevalue.Marshal(videos.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal updatedAt: %w", err)
	}
	values := map[string]types.AttributeValue{":updatedAt": ts}
	parts := []string{"#updatedAt = :updatedAt"}

	i := 0
	for name, value := range fields {
		av, err := attributevalue.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal field %q: %w", name, err)
		}
		n := fmt.Sprintf("#f%d", i)
		v := fmt.Sprintf(":v%d", i)
		names[n] = name
		values[v] = av
		parts = append(parts, fmt.Sprintf("%s = %s", n, v))
		i++
	}

	result, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.tableName),
		Key:                       recordKey(id),
		UpdateExpression:          aws.String("SET " + strings.Join(parts, ", ")),
		ConditionExpression:       aws.String("attribute_exists(id)"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update record: %w", err)
	}

	var rec videos.Record
	if err := attributevalue.UnmarshalMap(result.Attributes, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated record: %w", err)
	}
	return &rec, nil
}

func (s *DynamoStore) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(s.tableName),
		Key:                 recordKey(id),
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

func (s *DynamoStore) ListAll(ctx context.Context) ([]videos.Record, error) {
	var records []videos.Record
	var startKey map[string]types.AttributeValue

	for {
		result, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(s.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}

		var page []videos.Record
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal records: %w", err)
		}
		records = append(records, page...)

		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	return records, nil
}

func recordKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}
