package adapters

import (
	"article-narration-pipeline/application/ports/outbound"
	"article-narration-pipeline/config"
	"article-narration-pipeline/domain"
	"context"
	"errors"
	"fmt"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/aws/aws-sdk-go/service/dynamodb/expression"
	"time"
)

type dynamoMetadataStore struct {
	logger       outbound.LoggerPort
	dynamoSvc    dynamodbiface.DynamoDBAPI
	dynamoConfig *config.DynamoConfig
	now          func() time.Time
}

func NewDynamoMetadataStore(logger outbound.LoggerPort, dynamoSvc dynamodbiface.DynamoDBAPI, dynamoConfig *config.DynamoConfig) outbound.MetadataStorePort {
	return &dynamoMetadataStore{
		logger:       logger,
		dynamoSvc:    dynamoSvc,
		dynamoConfig: dynamoConfig,
		now:          time.Now,
	}
}

// Update issues a single conditional UpdateItem so concurrent writers of other fields are never overwritten.
func (c *dynamoMetadataStore) Update(ctx context.Context, update *domain.MetadataUpdate) (*domain.MetadataRecord, error) {
	input, err := buildUpdateItemInput(c.dynamoConfig.TableName, update, c.now())
	if err != nil {
		return nil, err
	}

	out, err := c.dynamoSvc.UpdateItemWithContext(ctx, input)
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && aerr.Code() == dynamodb.ErrCodeConditionalCheckFailedException {
			return nil, c.classifyConditionFailure(ctx, update)
		}
		c.logger.ErrorWithFields(err, "Failed to update metadata item", map[string]interface{}{
			"asset_id": update.AssetID,
			"table":    c.dynamoConfig.TableName,
		})
		return nil, err
	}

	var record domain.MetadataRecord
	if err := dynamodbattribute.UnmarshalMap(out.Attributes, &record); err != nil {
		return nil, fmt.Errorf("decode metadata %s: %w", update.AssetID, err)
	}
	return &record, nil
}

func (c *dynamoMetadataStore) Get(ctx context.Context, id domain.AssetID) (*domain.MetadataRecord, error) {
	out, err := c.dynamoSvc.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(c.dynamoConfig.TableName),
		Key:            assetKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to get metadata item", map[string]interface{}{
			"asset_id": id,
			"table":    c.dynamoConfig.TableName,
		})
		return nil, err
	}
	if len(out.Item) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrRecordNotFound, id)
	}

	var record domain.MetadataRecord
	if err := dynamodbattribute.UnmarshalMap(out.Item, &record); err != nil {
		return nil, fmt.Errorf("decode metadata %s: %w", id, err)
	}
	return &record, nil
}

func (c *dynamoMetadataStore) Scan(ctx context.Context) ([]domain.MetadataRecord, error) {
	records := make([]domain.MetadataRecord, 0)
	var decodeErr error

	err := c.dynamoSvc.ScanPagesWithContext(ctx, &dynamodb.ScanInput{
		TableName: aws.String(c.dynamoConfig.TableName),
	}, func(page *dynamodb.ScanOutput, _ bool) bool {
		items := make([]domain.MetadataRecord, 0, len(page.Items))
		if err := dynamodbattribute.UnmarshalListOfMaps(page.Items, &items); err != nil {
			decodeErr = err
			return false
		}
		records = append(records, items...)
		return true
	})
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to scan metadata table", map[string]interface{}{
			"table": c.dynamoConfig.TableName,
		})
		return nil, err
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode metadata page: %w", decodeErr)
	}

	return records, nil
}

// classifyConditionFailure tells a missing record apart from a guarded status that already moved on.
func (c *dynamoMetadataStore) classifyConditionFailure(ctx context.Context, update *domain.MetadataUpdate) error {
	current, err := c.Get(ctx, update.AssetID)
	if errors.Is(err, domain.ErrRecordNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("condition failed for %s: %w", update.AssetID, err)
	}
	if update.Guard != nil {
		return fmt.Errorf("%w: %s is %s", domain.ErrStaleTransition, update.Guard.Field, current.FullNarration)
	}
	return fmt.Errorf("%w: %s", domain.ErrStaleTransition, update.AssetID)
}

func assetKey(id domain.AssetID) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		domain.AttrAssetID: {S: aws.String(id.String())},
	}
}

func buildUpdateItemInput(table string, update *domain.MetadataUpdate, now time.Time) (*dynamodb.UpdateItemInput, error) {
	set := expression.Set(expression.Name(domain.AttrUpdatedAt), expression.Value(now.UTC()))
	for _, f := range update.Fields {
		if f.Name == domain.AttrAssetID || f.Name == domain.AttrUpdatedAt {
			continue
		}
		set = set.Set(expression.Name(f.Name), expression.Value(f.Value))
	}

	builder := expression.NewBuilder().WithUpdate(set)
	if condition, ok := updateCondition(update); ok {
		builder = builder.WithCondition(condition)
	}

	expr, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("build update for %s: %w", update.AssetID, err)
	}

	return &dynamodb.UpdateItemInput{
		TableName:                 aws.String(table),
		Key:                       assetKey(update.AssetID),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              aws.String(dynamodb.ReturnValueAllNew),
	}, nil
}

func updateCondition(update *domain.MetadataUpdate) (expression.ConditionBuilder, bool) {
	conditions := make([]expression.ConditionBuilder, 0, 2)
	if update.MustExist {
		conditions = append(conditions, expression.AttributeExists(expression.Name(domain.AttrAssetID)))
	}

	if guard := update.Guard; guard != nil && len(guard.Allowed) > 0 {
		field := expression.Name(guard.Field)
		others := make([]expression.OperandBuilder, 0, len(guard.Allowed)-1)
		for _, allowed := range guard.Allowed[1:] {
			others = append(others, expression.Value(allowed))
		}
		permitted := field.In(expression.Value(guard.Allowed[0]), others...)
		if guard.AllowMissing {
			permitted = expression.Or(expression.AttributeNotExists(field), permitted)
		}
		conditions = append(conditions, permitted)
	}

	switch len(conditions) {
	case 0:
		return expression.ConditionBuilder{}, false
	case 1:
		return conditions[0], true
	}
	return expression.And(conditions[0], conditions[1], conditions[2:]...), true
}
