package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"fitroom/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// TrialStore is the trial persistence surface the controllers depend on.
// Every operation except ListTrials takes both the trial id and the owner id;
// a trial owned by someone else behaves exactly like a missing one.
type TrialStore interface {
	ListTrials(ctx context.Context, userID string) ([]models.Trial, error)
	CreateTrial(ctx context.Context, userID, name string) (models.Trial, error)
	GetTrial(ctx context.Context, id, userID string) (models.Trial, error)
	UpdateTrial(ctx context.Context, id, userID string, messages []models.Message, name *string) (models.Trial, error)
	DeleteTrial(ctx context.Context, id, userID string) error
}

// TrialService stores trials in the Trials table keyed by (UserID, ID), so
// ownership scoping is enforced by the key itself. The message list is kept
// as one JSON document attribute and replaced wholesale on update; the last
// writer wins.
type TrialService struct {
	db *dynamodb.Client
}

func NewTrialService(db *dynamodb.Client) *TrialService {
	return &TrialService{db: db}
}

func (s *TrialService) ListTrials(ctx context.Context, userID string) ([]models.Trial, error) {
	result, err := s.db.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(trialsTable),
		KeyConditionExpression: aws.String("UserID = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query trials: %w", err)
	}

	trials := make([]models.Trial, 0, len(result.Items))
	for _, item := range result.Items {
		trial, err := parseTrialItem(item)
		if err != nil {
			return nil, err
		}
		trials = append(trials, trial)
	}

	// The sort key is the trial id, so order by creation time here.
	sort.Slice(trials, func(i, j int) bool {
		return trials[i].CreatedAt.After(trials[j].CreatedAt)
	})

	return trials, nil
}

func (s *TrialService) CreateTrial(ctx context.Context, userID, name string) (models.Trial, error) {
	now := time.Now()
	if name == "" {
		name = "New Trial " + now.Format("2006-01-02 15:04:05")
	}

	trial := models.Trial{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		Messages:  []models.Message{},
		CreatedAt: now,
	}

	item, err := trialItem(trial)
	if err != nil {
		return models.Trial{}, err
	}

	_, err = s.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(trialsTable),
		Item:      item,
	})
	if err != nil {
		return models.Trial{}, fmt.Errorf("failed to put trial: %w", err)
	}

	return trial, nil
}

func (s *TrialService) GetTrial(ctx context.Context, id, userID string) (models.Trial, error) {
	result, err := s.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(trialsTable),
		Key:       trialKey(id, userID),
	})
	if err != nil {
		return models.Trial{}, fmt.Errorf("failed to get trial: %w", err)
	}
	if result.Item == nil {
		return models.Trial{}, ErrNotFound
	}

	return parseTrialItem(result.Item)
}

// UpdateTrial replaces the message list and/or the name. A nil messages slice
// leaves the stored messages untouched; a nil name leaves the name untouched.
func (s *TrialService) UpdateTrial(ctx context.Context, id, userID string, messages []models.Message, name *string) (models.Trial, error) {
	updateExpression := "SET"
	expressionAttributeValues := map[string]types.AttributeValue{}
	expressionAttributeNames := map[string]string{}

	if messages != nil {
		messagesJSON, err := json.Marshal(messages)
		if err != nil {
			return models.Trial{}, fmt.Errorf("failed to marshal messages: %w", err)
		}
		updateExpression += " #messages = :messages,"
		expressionAttributeValues[":messages"] = &types.AttributeValueMemberS{Value: string(messagesJSON)}
		expressionAttributeNames["#messages"] = "Messages"
	}
	if name != nil {
		updateExpression += " #name = :name,"
		expressionAttributeValues[":name"] = &types.AttributeValueMemberS{Value: *name}
		expressionAttributeNames["#name"] = "Name"
	}

	if len(expressionAttributeValues) == 0 {
		return s.GetTrial(ctx, id, userID)
	}
	updateExpression = updateExpression[:len(updateExpression)-1]

	result, err := s.db.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(trialsTable),
		Key:                       trialKey(id, userID),
		UpdateExpression:          aws.String(updateExpression),
		ExpressionAttributeValues: expressionAttributeValues,
		ExpressionAttributeNames:  expressionAttributeNames,
		ConditionExpression:       aws.String("attribute_exists(ID)"),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return models.Trial{}, ErrNotFound
		}
		return models.Trial{}, fmt.Errorf("failed to update trial: %w", err)
	}

	return parseTrialItem(result.Attributes)
}

func (s *TrialService) DeleteTrial(ctx context.Context, id, userID string) error {
	_, err := s.db.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(trialsTable),
		Key:                 trialKey(id, userID),
		ConditionExpression: aws.String("attribute_exists(ID)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete trial: %w", err)
	}
	return nil
}

func trialKey(id, userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"UserID": &types.AttributeValueMemberS{Value: userID},
		"ID":     &types.AttributeValueMemberS{Value: id},
	}
}

func trialItem(trial models.Trial) (map[string]types.AttributeValue, error) {
	messagesJSON, err := json.Marshal(trial.Messages)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal messages: %w", err)
	}
	return map[string]types.AttributeValue{
		"UserID":    &types.AttributeValueMemberS{Value: trial.UserID},
		"ID":        &types.AttributeValueMemberS{Value: trial.ID},
		"Name":      &types.AttributeValueMemberS{Value: trial.Name},
		"Messages":  &types.AttributeValueMemberS{Value: string(messagesJSON)},
		"CreatedAt": &types.AttributeValueMemberS{Value: trial.CreatedAt.Format(time.RFC3339Nano)},
	}, nil
}

func parseTrialItem(item map[string]types.AttributeValue) (models.Trial, error) {
	trial := models.Trial{
		ID:       stringAttr(item, "ID"),
		UserID:   stringAttr(item, "UserID"),
		Name:     stringAttr(item, "Name"),
		Messages: []models.Message{},
	}

	if raw := stringAttr(item, "Messages"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &trial.Messages); err != nil {
			return models.Trial{}, fmt.Errorf("failed to parse stored messages: %w", err)
		}
	}

	createdAt, _ := time.Parse(time.RFC3339Nano, stringAttr(item, "CreatedAt"))
	trial.CreatedAt = createdAt

	return trial, nil
}
