package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fitroom/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// UserStore is the credential store surface the controllers depend on.
type UserStore interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
	UpdateUserImages(ctx context.Context, id string, images []string) (models.User, error)
}

// UserService persists users in the Users table. Email uniqueness is
// checked through the EmailIndex GSI before the write; two racing
// registrations with the same email are not serialized.
type UserService struct {
	db *dynamodb.Client
}

func NewUserService(db *dynamodb.Client) *UserService {
	return &UserService{db: db}
}

func (s *UserService) CreateUser(ctx context.Context, name, email, passwordHash string) (models.User, error) {
	if _, err := s.GetUserByEmail(ctx, email); err == nil {
		return models.User{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return models.User{}, err
	}

	user := models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Images:       []string{},
		CreatedAt:    time.Now(),
	}

	_, err := s.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(usersTable),
		Item:      userItem(user),
	})
	if err != nil {
		return models.User{}, fmt.Errorf("failed to put user: %w", err)
	}

	return user, nil
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	result, err := s.db.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(usersTable),
		IndexName:              aws.String(emailIndex),
		KeyConditionExpression: aws.String("Email = :email"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":email": &types.AttributeValueMemberS{Value: email},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return models.User{}, fmt.Errorf("failed to query user by email: %w", err)
	}
	if len(result.Items) == 0 {
		return models.User{}, ErrNotFound
	}

	return parseUserItem(result.Items[0])
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	result, err := s.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(usersTable),
		Key: map[string]types.AttributeValue{
			"ID": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	if result.Item == nil {
		return models.User{}, ErrNotFound
	}

	return parseUserItem(result.Item)
}

func (s *UserService) UpdateUserImages(ctx context.Context, id string, images []string) (models.User, error) {
	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to marshal images: %w", err)
	}

	result, err := s.db.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(usersTable),
		Key: map[string]types.AttributeValue{
			"ID": &types.AttributeValueMemberS{Value: id},
		},
		UpdateExpression: aws.String("SET #images = :images"),
		ExpressionAttributeNames: map[string]string{
			"#images": "Images",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":images": &types.AttributeValueMemberS{Value: string(imagesJSON)},
		},
		ConditionExpression: aws.String("attribute_exists(ID)"),
		ReturnValues:        types.ReturnValueAllNew,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("failed to update user images: %w", err)
	}

	return parseUserItem(result.Attributes)
}

func userItem(user models.User) map[string]types.AttributeValue {
	imagesJSON, _ := json.Marshal(user.Images)
	return map[string]types.AttributeValue{
		"ID":           &types.AttributeValueMemberS{Value: user.ID},
		"Name":         &types.AttributeValueMemberS{Value: user.Name},
		"Email":        &types.AttributeValueMemberS{Value: user.Email},
		"PasswordHash": &types.AttributeValueMemberS{Value: user.PasswordHash},
		"Images":       &types.AttributeValueMemberS{Value: string(imagesJSON)},
		"CreatedAt":    &types.AttributeValueMemberS{Value: user.CreatedAt.Format(time.RFC3339)},
	}
}

func parseUserItem(item map[string]types.AttributeValue) (models.User, error) {
	user := models.User{
		ID:           stringAttr(item, "ID"),
		Name:         stringAttr(item, "Name"),
		Email:        stringAttr(item, "Email"),
		PasswordHash: stringAttr(item, "PasswordHash"),
		Images:       []string{},
	}

	if raw := stringAttr(item, "Images"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &user.Images); err != nil {
			return models.User{}, fmt.Errorf("failed to parse stored images: %w", err)
		}
	}

	createdAt, _ := time.Parse(time.RFC3339, stringAttr(item, "CreatedAt"))
	user.CreatedAt = createdAt

	return user, nil
}

func stringAttr(item map[string]types.AttributeValue, key string) string {
	if attr, ok := item[key].(*types.AttributeValueMemberS); ok {
		return attr.Value
	}
	return ""
}
