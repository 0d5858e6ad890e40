package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"edubridge_server/models"
	"edubridge_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

type UserService struct {
	Dynamo Store
}

// RegisterInput is the payload accepted at registration.
type RegisterInput struct {
	Name         string          `json:"name" validate:"required"`
	Email        string          `json:"email" validate:"required,email"`
	Password     string          `json:"password" validate:"required,min=6"`
	Student      models.Category `json:"student" validate:"required,oneof=school college"`
	College      string          `json:"college"`
	Degree       string          `json:"degree"`
	FieldOfStudy string          `json:"fieldOfStudy"`
	School       string          `json:"school"`
	Grade        string          `json:"grade"`
	Goals        []string        `json:"goals"`
	Interests    []string        `json:"interests"`
	Bio          string          `json:"bio" validate:"max=500"`
	Location     string          `json:"location"`
}

// UpdateProfileInput carries optional profile edits; nil fields are left
// untouched. The category itself is immutable after registration.
type UpdateProfileInput struct {
	College      *string   `json:"college"`
	Degree       *string   `json:"degree"`
	FieldOfStudy *string   `json:"fieldOfStudy"`
	School       *string   `json:"school"`
	Grade        *string   `json:"grade"`
	Goals        *[]string `json:"goals"`
	Interests    *[]string `json:"interests"`
	Bio          *string   `json:"bio"`
	Location     *string   `json:"location"`
}

// Register creates a new account. The email is stored lowercased and must be
// unique; category-specific fields are kept only for the matching category.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	existing, err := s.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	user := models.User{
		UserID:    uuid.New().String(),
		Name:      strings.TrimSpace(input.Name),
		Email:     email,
		Password:  hash,
		Student:   input.Student,
		Goals:     input.Goals,
		Interests: input.Interests,
		Bio:       input.Bio,
		Location:  input.Location,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	switch input.Student {
	case models.CategoryCollege:
		user.College = input.College
		user.Degree = input.Degree
		user.FieldOfStudy = input.FieldOfStudy
	case models.CategorySchool:
		user.School = input.School
		user.Grade = input.Grade
	}

	if err := s.Dynamo.PutItem(ctx, models.UsersTable, user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate verifies the credentials and returns the account. Both an
// unknown email and a wrong password yield ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := utils.CheckPassword(user.Password, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUser fetches an account by id.
func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return getUserByID(ctx, s.Dynamo, userID)
}

// GetUserByEmail resolves an account through the email GSI.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.UsersTable, models.EmailIndex,
		"email = :email",
		map[string]types.AttributeValue{":email": &types.AttributeValueMemberS{Value: email}},
		nil, 1)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrUserNotFound
	}
	var user models.User
	if err := attributevalue.UnmarshalMap(items[0], &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &user, nil
}

// UpdateProfile applies the provided edits and returns the updated account.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*models.User, error) {
	user, err := getUserByID(ctx, s.Dynamo, userID)
	if err != nil {
		return nil, err
	}

	if input.College != nil {
		user.College = *input.College
	}
	if input.Degree != nil {
		user.Degree = *input.Degree
	}
	if input.FieldOfStudy != nil {
		user.FieldOfStudy = *input.FieldOfStudy
	}
	if input.School != nil {
		user.School = *input.School
	}
	if input.Grade != nil {
		user.Grade = *input.Grade
	}
	if input.Goals != nil {
		user.Goals = *input.Goals
	}
	if input.Interests != nil {
		user.Interests = *input.Interests
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Location != nil {
		user.Location = *input.Location
	}
	user.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	if err := s.Dynamo.PutItem(ctx, models.UsersTable, *user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetProfilePicture records the storage key of the user's uploaded picture.
func (s *UserService) SetProfilePicture(ctx context.Context, userID, key string) error {
	user, err := getUserByID(ctx, s.Dynamo, userID)
	if err != nil {
		return err
	}
	user.ProfilePictureKey = key
	user.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return s.Dynamo.PutItem(ctx, models.UsersTable, *user)
}

// ListConnections resolves the user's connections set to public profiles.
// Connections that fail to resolve are skipped rather than failing the list.
func (s *UserService) ListConnections(ctx context.Context, userID string) ([]models.PublicProfile, error) {
	user, err := getUserByID(ctx, s.Dynamo, userID)
	if err != nil {
		return nil, err
	}
	profiles := make([]models.PublicProfile, 0, len(user.Connections))
	for _, id := range user.Connections {
		connected, err := getUserByID(ctx, s.Dynamo, id)
		if err != nil {
			continue
		}
		profiles = append(profiles, connected.Public())
	}
	return profiles, nil
}

// getUserByID is the shared account lookup used across the services.
func getUserByID(ctx context.Context, store Store, userID string) (*models.User, error) {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	item, err := store.GetItem(ctx, models.UsersTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	var user models.User
	if err := attributevalue.UnmarshalMap(item, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &user, nil
}
