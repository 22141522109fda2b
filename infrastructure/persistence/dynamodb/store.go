// Package dynamodb implements the key-value store contract on a single
// DynamoDB table with one global secondary index.
package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"handwash-backend/application/ports"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// Store is the DynamoDB-backed KeyValueStore. Records carry their primary
// key in pk/sk and their GSI1 projection in gsi1pk/gsi1sk.
type Store struct {
	client    *dynamodb.Client
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewStore creates a new DynamoDB store
func NewStore(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

var _ ports.KeyValueStore = (*Store)(nil)

// Get returns the item at (pk, sk), or nil if absent
func (s *Store) Get(ctx context.Context, pk, sk string) (map[string]interface{}, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key:       primaryKey(pk, sk),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}
	return unmarshalItem(out.Item)
}

// Put writes an item unconditionally
func (s *Store) Put(ctx context.Context, item map[string]interface{}) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	}); err != nil {
		return fmt.Errorf("failed to put item: %w", err)
	}
	return nil
}

// PutIfAbsent writes an item only when no record exists at its key
func (s *Store) PutIfAbsent(ctx context.Context, item map[string]interface{}) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(pk)"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return ports.ErrConditionFailed
		}
		return fmt.Errorf("failed to put item: %w", err)
	}
	return nil
}

// Delete removes the item at (pk, sk); deleting an absent key is a no-op
func (s *Store) Delete(ctx context.Context, pk, sk string) error {
	if _, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       primaryKey(pk, sk),
	}); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

// Query returns items in the partition matching the range query
func (s *Store) Query(ctx context.Context, pk string, q ports.RangeQuery) ([]map[string]interface{}, error) {
	return s.query(ctx, "", "pk", "sk", pk, q)
}

// QueryIndex is Query against the GSI1 projection
func (s *Store) QueryIndex(ctx context.Context, gsi1pk string, q ports.RangeQuery) ([]map[string]interface{}, error) {
	return s.query(ctx, s.indexName, "gsi1pk", "gsi1sk", gsi1pk, q)
}

func (s *Store) query(ctx context.Context, indexName, pkAttr, skAttr, pk string, q ports.RangeQuery) ([]map[string]interface{}, error) {
	values := map[string]types.AttributeValue{
		":pk": &types.AttributeValueMemberS{Value: pk},
	}

	keyCondition := fmt.Sprintf("%s = :pk", pkAttr)
	switch {
	case q.SortPrefix != "":
		keyCondition += fmt.Sprintf(" AND begins_with(%s, :prefix)", skAttr)
		values[":prefix"] = &types.AttributeValueMemberS{Value: q.SortPrefix}
	case q.SortStart != "" || q.SortEnd != "":
		keyCondition += fmt.Sprintf(" AND %s BETWEEN :from AND :to", skAttr)
		values[":from"] = &types.AttributeValueMemberS{Value: q.SortStart}
		values[":to"] = &types.AttributeValueMemberS{Value: q.SortEnd}
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		KeyConditionExpression:    aws.String(keyCondition),
		ExpressionAttributeValues: values,
		ScanIndexForward:          aws.Bool(q.Ascending),
	}
	if indexName != "" {
		input.IndexName = aws.String(indexName)
	}
	if q.Limit > 0 {
		input.Limit = aws.Int32(int32(q.Limit))
	}

	var items []map[string]interface{}
	for {
		out, err := s.client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query: %w", err)
		}
		for _, raw := range out.Items {
			item, err := unmarshalItem(raw)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
			if q.Limit > 0 && len(items) >= q.Limit {
				return items, nil
			}
		}
		if out.LastEvaluatedKey == nil {
			return items, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// ScanEntity enumerates every record carrying the entity marker, following
// pagination to completion
func (s *Store) ScanEntity(ctx context.Context, entity string) ([]map[string]interface{}, error) {
	input := &dynamodb.ScanInput{
		TableName:        aws.String(s.tableName),
		FilterExpression: aws.String("entity = :entity"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":entity": &types.AttributeValueMemberS{Value: entity},
		},
	}

	var items []map[string]interface{}
	for {
		out, err := s.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to scan: %w", err)
		}
		for _, raw := range out.Items {
			item, err := unmarshalItem(raw)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		if out.LastEvaluatedKey == nil {
			return items, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func primaryKey(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: pk},
		"sk": &types.AttributeValueMemberS{Value: sk},
	}
}

func unmarshalItem(raw map[string]types.AttributeValue) (map[string]interface{}, error) {
	item := map[string]interface{}{}
	if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return item, nil
}
