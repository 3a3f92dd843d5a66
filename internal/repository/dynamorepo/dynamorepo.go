package dynamorepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/mrled/suns/msgsvc/internal/model"
)

// DynamoAPI is the subset of the DynamoDB client used by the repository
type DynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoRepository is a DynamoDB implementation of MessageRepository
type DynamoRepository struct {
	client    DynamoAPI
	tableName string
}

// NewDynamoRepository creates a new DynamoDB-backed repository
func NewDynamoRepository(client DynamoAPI, tableName string) *DynamoRepository {
	return &DynamoRepository{
		client:    client,
		tableName: tableName,
	}
}

func keyOf(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: id},
	}
}

// put writes msg guarded by condition, mapping a failed condition to conditionErr
func (r *DynamoRepository) put(ctx context.Context, msg *model.Message, condition string, conditionErr error) error {
	if msg == nil {
		return fmt.Errorf("message cannot be nil")
	}

	item, err := attributevalue.MarshalMap(FromDomain(msg))
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String(condition),
	})
	if err != nil {
		var ccfe *types.ConditionalCheckFailedException
		if errors.As(err, &ccfe) {
			return conditionErr
		}
		return fmt.Errorf("failed to put message: %w", err)
	}
	return nil
}

// Store saves a new message.
// The ConditionExpression matches MemoryRepository.Store, which returns ErrAlreadyExists.
func (r *DynamoRepository) Store(ctx context.Context, msg *model.Message) error {
	return r.put(ctx, msg, "attribute_not_exists(pk)", model.ErrAlreadyExists)
}

// Update replaces an existing message, failing with ErrNotFound if it is absent
func (r *DynamoRepository) Update(ctx context.Context, msg *model.Message) error {
	return r.put(ctx, msg, "attribute_exists(pk)", model.ErrNotFound)
}

// Get retrieves a message by ID
func (r *DynamoRepository) Get(ctx context.Context, id string) (*model.Message, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            keyOf(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	if result.Item == nil {
		return nil, model.ErrNotFound
	}

	var dto DynamoDTO
	if err := attributevalue.UnmarshalMap(result.Item, &dto); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}

	return dto.ToDomain(), nil
}

// Delete removes a message by ID
func (r *DynamoRepository) Delete(ctx context.Context, id string) error {
	// Use ConditionExpression to ensure the item exists before deleting
	// This matches the behavior of MemoryRepository.Delete which returns ErrNotFound
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 keyOf(id),
		ConditionExpression: aws.String("attribute_exists(pk)"),
	})
	if err != nil {
		var ccfe *types.ConditionalCheckFailedException
		if errors.As(err, &ccfe) {
			return model.ErrNotFound
		}
		return fmt.Errorf("failed to delete message: %w", err)
	}

	return nil
}

// List retrieves all messages in creation order.
// DynamoDB scans are unordered, so every page of the scan is read and sorted in memory.
func (r *DynamoRepository) List(ctx context.Context) ([]*model.Message, error) {
	var dtos []*DynamoDTO

	paginator := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName:      aws.String(r.tableName),
		ConsistentRead: aws.Bool(true),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan messages: %w", err)
		}

		var batch []*DynamoDTO
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal messages: %w", err)
		}
		dtos = append(dtos, batch...)
	}

	msgs := ToDomainList(dtos)
	model.SortMessages(msgs, string(model.SortByCreated))
	return msgs, nil
}

// Page retrieves one page of messages in creation order
func (r *DynamoRepository) Page(ctx context.Context, number, size int) (*model.Page, error) {
	msgs, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return model.Paginate(msgs, number, size), nil
}
