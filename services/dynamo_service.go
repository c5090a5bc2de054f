package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type DynamoService struct {
	Client *dynamodb.Client
}

// InitializeDynamoDBClient initializes the DynamoDB client
func InitializeDynamoDBClient() *dynamodb.Client {
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}
	return dynamodb.NewFromConfig(cfg)
}

// GetItem retrieves an item from DynamoDB. Returns nil when the item does not exist.
func (ds *DynamoService) GetItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	output, err := ds.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &tableName,
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item from table '%s': %w", tableName, err)
	}
	return output.Item, nil
}

func (ds *DynamoService) PutItem(ctx context.Context, tableName string, item interface{}) error {
	marshaledItem, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	_, err = ds.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &tableName,
		Item:      marshaledItem,
	})
	if err != nil {
		return fmt.Errorf("failed to put item in table '%s': %w", tableName, err)
	}
	return nil
}

// UpdateItem applies an unconditional update and returns the new attributes
func (ds *DynamoService) UpdateItem(
	ctx context.Context,
	tableName string,
	updateExpression string,
	key map[string]types.AttributeValue,
	expressionAttributeValues map[string]types.AttributeValue,
	expressionAttributeNames map[string]string,
) (map[string]types.AttributeValue, error) {
	return ds.UpdateItemWithCondition(ctx, tableName, updateExpression, "", key, expressionAttributeValues, expressionAttributeNames)
}

// UpdateItemWithCondition applies an update guarded by a ConditionExpression.
// When the condition rejects the write, ErrConditionFailed is returned so
// callers can distinguish a lost race from a hard failure. This is the
// compare-and-swap primitive the queue claim is built on.
func (ds *DynamoService) UpdateItemWithCondition(
	ctx context.Context,
	tableName string,
	updateExpression string,
	conditionExpression string,
	key map[string]types.AttributeValue,
	expressionAttributeValues map[string]types.AttributeValue,
	expressionAttributeNames map[string]string,
) (map[string]types.AttributeValue, error) {
	if len(key) == 0 {
		return nil, errors.New("update failed: key cannot be empty")
	}
	if updateExpression == "" {
		return nil, errors.New("update failed: updateExpression cannot be empty")
	}

	// DynamoDB rejects empty expression value maps, REMOVE-only updates pass nil
	var expAttrValues map[string]types.AttributeValue
	if len(expressionAttributeValues) > 0 {
		expAttrValues = expressionAttributeValues
	}

	updateInput := &dynamodb.UpdateItemInput{
		TableName:                 &tableName,
		Key:                       key,
		UpdateExpression:          &updateExpression,
		ExpressionAttributeValues: expAttrValues,
		ExpressionAttributeNames:  expressionAttributeNames,
		ReturnValues:              types.ReturnValueAllNew,
	}
	if conditionExpression != "" {
		updateInput.ConditionExpression = &conditionExpression
	}

	output, err := ds.Client.UpdateItem(ctx, updateInput)
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return nil, ErrConditionFailed
		}
		return nil, fmt.Errorf("failed to update item in table '%s': %w", tableName, err)
	}

	if output.Attributes == nil {
		return map[string]types.AttributeValue{}, nil
	}
	return output.Attributes, nil
}

// TransactionConditionError reports which transaction items failed their
// condition checks, so callers can tell a lost claim on one row from a
// violated guard on another. It unwraps to ErrConditionFailed.
type TransactionConditionError struct {
	FailedIndexes []int
}

func (e *TransactionConditionError) Error() string {
	return fmt.Sprintf("conditional update failed for transaction items %v", e.FailedIndexes)
}

func (e *TransactionConditionError) Unwrap() error { return ErrConditionFailed }

// FailedIndex reports whether the item at index i failed its condition check
func (e *TransactionConditionError) FailedIndex(i int) bool {
	for _, idx := range e.FailedIndexes {
		if idx == i {
			return true
		}
	}
	return false
}

// TransactWriteItems executes up to 100 writes as a single all-or-nothing
// transaction. A cancellation caused by condition checks maps to a
// TransactionConditionError naming the failed items.
func (ds *DynamoService) TransactWriteItems(ctx context.Context, items []types.TransactWriteItem) error {
	_, err := ds.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	})
	if err != nil {
		var canceled *types.TransactionCanceledException
		if errors.As(err, &canceled) {
			var failed []int
			for i, reason := range canceled.CancellationReasons {
				if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
					failed = append(failed, i)
				}
			}
			if len(failed) > 0 {
				return &TransactionConditionError{FailedIndexes: failed}
			}
		}
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

// DeleteItem removes an item from DynamoDB
func (ds *DynamoService) DeleteItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) error {
	_, err := ds.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &tableName,
		Key:       key,
	})
	if err != nil {
		return fmt.Errorf("failed to delete item from table '%s': %w", tableName, err)
	}
	return nil
}

// QueryItemsWithIndex queries items from DynamoDB using a Global Secondary Index (GSI)
func (ds *DynamoService) QueryItemsWithIndex(
	ctx context.Context,
	tableName string,
	indexName string,
	keyConditionExpression string,
	expressionAttributeValues map[string]types.AttributeValue,
	expressionAttributeNames map[string]string,
	limit int32,
) ([]map[string]types.AttributeValue, error) {
	output, err := ds.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 &tableName,
		IndexName:                 &indexName,
		KeyConditionExpression:    &keyConditionExpression,
		ExpressionAttributeValues: expressionAttributeValues,
		ExpressionAttributeNames:  expressionAttributeNames,
		Limit:                     &limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query GSI '%s': %w", indexName, err)
	}
	return output.Items, nil
}

// QueryCountWithIndex counts all items matching a GSI key condition,
// following pagination so the count is exact regardless of result size.
func (ds *DynamoService) QueryCountWithIndex(
	ctx context.Context,
	tableName string,
	indexName string,
	keyConditionExpression string,
	expressionAttributeValues map[string]types.AttributeValue,
	expressionAttributeNames map[string]string,
) (int, error) {
	var total int
	var startKey map[string]types.AttributeValue

	for {
		output, err := ds.Client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 &tableName,
			IndexName:                 &indexName,
			KeyConditionExpression:    &keyConditionExpression,
			ExpressionAttributeValues: expressionAttributeValues,
			ExpressionAttributeNames:  expressionAttributeNames,
			Select:                    types.SelectCount,
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return 0, fmt.Errorf("failed to count items in GSI '%s': %w", indexName, err)
		}
		total += int(output.Count)
		if output.LastEvaluatedKey == nil {
			break
		}
		startKey = output.LastEvaluatedKey
	}
	return total, nil
}

// QueryItems queries items using the table's primary key condition
func (ds *DynamoService) QueryItems(
	ctx context.Context,
	tableName string,
	keyConditionExpression string,
	expressionAttributeValues map[string]types.AttributeValue,
	expressionAttributeNames map[string]string,
	limit int32,
) ([]map[string]types.AttributeValue, error) {
	output, err := ds.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 &tableName,
		KeyConditionExpression:    &keyConditionExpression,
		ExpressionAttributeValues: expressionAttributeValues,
		ExpressionAttributeNames:  expressionAttributeNames,
		Limit:                     &limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query items from table '%s': %w", tableName, err)
	}
	return output.Items, nil
}

// ScanAll scans an entire table and unmarshals the rows into result,
// a pointer to a slice of structs. Catalog tables are small enough for this.
func (ds *DynamoService) ScanAll(ctx context.Context, tableName string, result interface{}) error {
	var items []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue

	for {
		output, err := ds.Client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return fmt.Errorf("failed to scan table '%s': %w", tableName, err)
		}
		items = append(items, output.Items...)
		if output.LastEvaluatedKey == nil {
			break
		}
		startKey = output.LastEvaluatedKey
	}

	if err := attributevalue.UnmarshalListOfMaps(items, result); err != nil {
		return fmt.Errorf("failed to unmarshal scan result: %w", err)
	}
	return nil
}
