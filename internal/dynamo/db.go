package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vasigorc/items-api/internal/models"
)

type DynamoClient struct {
	Client    DynamoDBAPI
	TableName string
}

type DynamoDBAPI interface {
	PutItem(ctx context.Context, input *dynamodb.PutItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, input *dynamodb.GetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(ctx context.Context, input *dynamodb.ScanInput, opts ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	DeleteItem(ctx context.Context, input *dynamodb.DeleteItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

func NewDynamoClient(client DynamoDBAPI, tableName string) *DynamoClient {
	return &DynamoClient{
		Client:    client,
		TableName: tableName,
	}
}

// itemKey builds the composite primary key for a single item.
func itemKey(partitionKey, itemID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"partition_key": &types.AttributeValueMemberS{Value: partitionKey},
		"item_id":       &types.AttributeValueMemberS{Value: itemID},
	}
}

// CreateItem generates the item id and timestamp server-side and writes the
// item unconditionally. A retried create produces a new item with a new id.
func (d *DynamoClient) CreateItem(ctx context.Context, partitionKey, payload string) (models.Item, error) {
	if partitionKey == "" || payload == "" {
		logrus.Warn("Create validation failed: partition_key and payload are required")
		return models.Item{}, fmt.Errorf("%w: partition_key and payload", ErrMissingField)
	}

	item := models.Item{
		PartitionKey: partitionKey,
		ItemID:       uuid.NewString(),
		Payload:      payload,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}

	return d.putItem(ctx, item)
}

// GetItem fetches a single item by exact key match.
func (d *DynamoClient) GetItem(ctx context.Context, partitionKey, itemID string) (models.Item, error) {
	if partitionKey == "" || itemID == "" {
		logrus.Warn("Get validation failed: partition_key and item_id are required")
		return models.Item{}, fmt.Errorf("%w: partition_key and item_id", ErrMissingField)
	}

	result, err := d.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &d.TableName,
		Key:       itemKey(partitionKey, itemID),
	})
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"partition_key": partitionKey,
			"item_id":       itemID,
		}).Error("Failed to get item from DynamoDB")
		return models.Item{}, fmt.Errorf("failed to get item: %w", err)
	}

	if result.Item == nil {
		return models.Item{}, ErrNotFound
	}

	var item models.Item
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		logrus.WithError(err).Error("Failed to unmarshal item")
		return models.Item{}, fmt.Errorf("failed to unmarshal item: %w", err)
	}

	return item, nil
}

// ListItems performs a single full-table scan. The store preserves no
// insertion order, so neither does the result.
func (d *DynamoClient) ListItems(ctx context.Context) ([]models.Item, error) {
	result, err := d.Client.Scan(ctx, &dynamodb.ScanInput{
		TableName: &d.TableName,
	})
	if err != nil {
		logrus.WithError(err).WithField("table_name", d.TableName).Error("Failed to scan items table")
		return nil, fmt.Errorf("failed to scan items: %w", err)
	}

	items := []models.Item{}
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &items); err != nil {
		logrus.WithError(err).Error("Failed to unmarshal scanned items")
		return nil, fmt.Errorf("failed to unmarshal items: %w", err)
	}

	return items, nil
}

// UpdateItem overwrites the item unconditionally, refreshing created_at.
// There is no existence check: updating an unused key creates the item.
func (d *DynamoClient) UpdateItem(ctx context.Context, partitionKey, itemID, payload string) (models.Item, error) {
	if partitionKey == "" || itemID == "" || payload == "" {
		logrus.Warn("Update validation failed: partition_key, item_id and payload are required")
		return models.Item{}, fmt.Errorf("%w: partition_key, item_id and payload", ErrMissingField)
	}

	item := models.Item{
		PartitionKey: partitionKey,
		ItemID:       itemID,
		Payload:      payload,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}

	return d.putItem(ctx, item)
}

// DeleteItem issues an unconditional delete. DynamoDB does not report
// whether the key existed, so a delete of an absent item also succeeds.
func (d *DynamoClient) DeleteItem(ctx context.Context, partitionKey, itemID string) error {
	if partitionKey == "" || itemID == "" {
		logrus.Warn("Delete validation failed: partition_key and item_id are required")
		return fmt.Errorf("%w: partition_key and item_id", ErrMissingField)
	}

	_, err := d.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &d.TableName,
		Key:       itemKey(partitionKey, itemID),
	})
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"partition_key": partitionKey,
			"item_id":       itemID,
		}).Error("Failed to delete item from DynamoDB")
		return fmt.Errorf("failed to delete item: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"partition_key": partitionKey,
		"item_id":       itemID,
	}).Info("Item deleted from DynamoDB")

	return nil
}

func (d *DynamoClient) putItem(ctx context.Context, item models.Item) (models.Item, error) {
	attrs, err := attributevalue.MarshalMap(item)
	if err != nil {
		logrus.WithError(err).Error("Failed to marshal item")
		return models.Item{}, fmt.Errorf("failed to marshal item: %w", err)
	}

	_, err = d.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &d.TableName,
		Item:      attrs,
	})
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"partition_key": item.PartitionKey,
			"item_id":       item.ItemID,
		}).Error("Failed to store item in DynamoDB")
		return models.Item{}, fmt.Errorf("failed to store item in DynamoDB: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"partition_key": item.PartitionKey,
		"item_id":       item.ItemID,
	}).Info("Item successfully stored in DynamoDB")

	return item, nil
}
