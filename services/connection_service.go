package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"edubridge_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// ConnectionService mediates the request -> accept/reject -> connected
// lifecycle. It is the only writer of the users' connections sets.
type ConnectionService struct {
	Dynamo   Store
	Notifier Notifier
	Policy   models.RequestPolicy
}

// SendRequest validates eligibility and uniqueness, persists a pending
// request and pushes a newConnectionRequest event to the receiver.
func (s *ConnectionService) SendRequest(ctx context.Context, senderID, receiverID, message string) (*models.ConnectionRequest, error) {
	if senderID == receiverID {
		return nil, ErrSelfRequest
	}

	sender, err := getUserByID(ctx, s.Dynamo, senderID)
	if err != nil {
		return nil, err
	}
	receiver, err := getUserByID(ctx, s.Dynamo, receiverID)
	if err != nil {
		return nil, err
	}

	if !s.Policy.CanRequest(sender.Student, receiver.Student) {
		return nil, ErrRoleIneligible
	}
	if sender.IsConnectedTo(receiverID) || receiver.IsConnectedTo(senderID) {
		return nil, ErrAlreadyConnected
	}

	// A pending request in either direction blocks a new one; the pair is
	// treated as symmetric for conflict purposes.
	pending, err := findPendingRequest(ctx, s.Dynamo, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, ErrDuplicateRequest
	}

	now := time.Now().UTC().Format(time.RFC3339)
	request := models.ConnectionRequest{
		RequestID:      uuid.New().String(),
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Status:         models.RequestStatusPending,
		Message:        message,
		DefaultMessage: fmt.Sprintf("Hi, I'm %s. I'd like to connect with you on EduBridge!", sender.Name),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Dynamo.PutItem(ctx, models.ConnectionRequestsTable, request); err != nil {
		return nil, err
	}

	s.Notifier.Emit(receiverID, EventNewConnectionRequest, map[string]interface{}{
		"senderId":   senderID,
		"senderName": sender.Name,
		"requestId":  request.RequestID,
	})
	log.Printf("connection request %s: %s -> %s", request.RequestID, senderID, receiverID)
	return &request, nil
}

// Accept flips the request to accepted, connects both users and creates the
// chat seeded with the request's message. The status flip is guarded by a
// condition expression, so a concurrent accept/reject loses with
// ErrAlreadyProcessed; the remaining steps are individually idempotent and
// safe to re-run after a crash.
func (s *ConnectionService) Accept(ctx context.Context, requestID, actingUserID string) (string, error) {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return "", err
	}
	if request.ReceiverID != actingUserID {
		return "", ErrNotRequestReceiver
	}
	if request.Status != models.RequestStatusPending {
		return "", ErrAlreadyProcessed
	}

	if err := s.flipStatus(ctx, requestID, models.RequestStatusAccepted); err != nil {
		return "", err
	}

	for _, pair := range [][2]string{
		{request.SenderID, request.ReceiverID},
		{request.ReceiverID, request.SenderID},
	} {
		if err := s.addConnection(ctx, pair[0], pair[1]); err != nil {
			return "", err
		}
	}

	seed := models.ChatMessage{
		SenderID:  request.SenderID,
		Content:   request.SeedMessage(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	chat, err := createChatIfAbsent(ctx, s.Dynamo, request.SenderID, request.ReceiverID, []models.ChatMessage{seed})
	if err != nil {
		return "", err
	}

	receiver, err := getUserByID(ctx, s.Dynamo, request.ReceiverID)
	if err != nil {
		return "", err
	}
	s.Notifier.Emit(request.SenderID, EventConnectionAccepted, map[string]interface{}{
		"receiverId":   request.ReceiverID,
		"receiverName": receiver.Name,
		"requestId":    request.RequestID,
		"chatId":       chat.ChatID,
	})
	log.Printf("connection request %s accepted, chat %s", requestID, chat.ChatID)
	return chat.ChatID, nil
}

// Reject flips the request to rejected. No other side effects.
func (s *ConnectionService) Reject(ctx context.Context, requestID, actingUserID string) error {
	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if request.ReceiverID != actingUserID {
		return ErrNotRequestReceiver
	}
	if request.Status != models.RequestStatusPending {
		return ErrAlreadyProcessed
	}
	return s.flipStatus(ctx, requestID, models.RequestStatusRejected)
}

// ListReceived returns the pending requests addressed to the user, each with
// the sender's public profile joined in.
func (s *ConnectionService) ListReceived(ctx context.Context, userID string) ([]models.ConnectionRequestWithProfile, error) {
	requests, err := s.queryRequests(ctx, models.ReceiverIndex, "receiverId", userID)
	if err != nil {
		return nil, err
	}
	result := make([]models.ConnectionRequestWithProfile, 0, len(requests))
	for _, request := range requests {
		if request.Status != models.RequestStatusPending {
			continue
		}
		sender, err := getUserByID(ctx, s.Dynamo, request.SenderID)
		if err != nil {
			continue
		}
		result = append(result, models.ConnectionRequestWithProfile{
			ConnectionRequest: request,
			Counterpart:       sender.Public(),
		})
	}
	return result, nil
}

// ListSent returns all requests the user has sent, any status, with the
// receiver's public profile joined in.
func (s *ConnectionService) ListSent(ctx context.Context, userID string) ([]models.ConnectionRequestWithProfile, error) {
	requests, err := s.queryRequests(ctx, models.SenderIndex, "senderId", userID)
	if err != nil {
		return nil, err
	}
	result := make([]models.ConnectionRequestWithProfile, 0, len(requests))
	for _, request := range requests {
		receiver, err := getUserByID(ctx, s.Dynamo, request.ReceiverID)
		if err != nil {
			continue
		}
		result = append(result, models.ConnectionRequestWithProfile{
			ConnectionRequest: request,
			Counterpart:       receiver.Public(),
		})
	}
	return result, nil
}

func (s *ConnectionService) getRequest(ctx context.Context, requestID string) (*models.ConnectionRequest, error) {
	key := map[string]types.AttributeValue{
		"requestId": &types.AttributeValueMemberS{Value: requestID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.ConnectionRequestsTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	var request models.ConnectionRequest
	if err := attributevalue.UnmarshalMap(item, &request); err != nil {
		return nil, fmt.Errorf("failed to unmarshal request: %w", err)
	}
	return &request, nil
}

// flipStatus moves a pending request to its terminal status. The condition
// expression makes the transition happen at most once.
func (s *ConnectionService) flipStatus(ctx context.Context, requestID, status string) error {
	key := map[string]types.AttributeValue{
		"requestId": &types.AttributeValueMemberS{Value: requestID},
	}
	_, err := s.Dynamo.UpdateItemConditional(ctx, models.ConnectionRequestsTable,
		"SET #status = :status, updatedAt = :updatedAt",
		"#status = :pending",
		key,
		map[string]types.AttributeValue{
			":status":    &types.AttributeValueMemberS{Value: status},
			":pending":   &types.AttributeValueMemberS{Value: models.RequestStatusPending},
			":updatedAt": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
		},
		map[string]string{"#status": "status"})
	if errors.Is(err, ErrConditionFailed) {
		return ErrAlreadyProcessed
	}
	return err
}

// addConnection grows one user's connections set. ADD on a string set is
// idempotent, so re-running after a partial failure is harmless.
func (s *ConnectionService) addConnection(ctx context.Context, userID, connectionID string) error {
	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	_, err := s.Dynamo.UpdateItem(ctx, models.UsersTable,
		"ADD connections :connectionId",
		key,
		map[string]types.AttributeValue{
			":connectionId": &types.AttributeValueMemberSS{Value: []string{connectionID}},
		},
		nil)
	return err
}

func (s *ConnectionService) queryRequests(ctx context.Context, index, keyAttr, userID string) ([]models.ConnectionRequest, error) {
	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.ConnectionRequestsTable, index,
		keyAttr+" = :userId",
		map[string]types.AttributeValue{":userId": &types.AttributeValueMemberS{Value: userID}},
		nil, 100)
	if err != nil {
		return nil, err
	}
	var requests []models.ConnectionRequest
	if err := attributevalue.UnmarshalListOfMaps(items, &requests); err != nil {
		return nil, fmt.Errorf("failed to unmarshal requests: %w", err)
	}
	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].CreatedAt > requests[j].CreatedAt
	})
	return requests, nil
}

// findPendingRequest returns the pending request between two users in either
// direction, or nil when there is none.
func findPendingRequest(ctx context.Context, store Store, userA, userB string) (*models.ConnectionRequest, error) {
	for _, pair := range [][2]string{{userA, userB}, {userB, userA}} {
		items, err := store.QueryItemsWithIndex(ctx, models.ConnectionRequestsTable, models.SenderIndex,
			"senderId = :senderId",
			map[string]types.AttributeValue{":senderId": &types.AttributeValueMemberS{Value: pair[0]}},
			nil, 100)
		if err != nil {
			return nil, err
		}
		var requests []models.ConnectionRequest
		if err := attributevalue.UnmarshalListOfMaps(items, &requests); err != nil {
			return nil, fmt.Errorf("failed to unmarshal requests: %w", err)
		}
		for i := range requests {
			if requests[i].ReceiverID == pair[1] && requests[i].Status == models.RequestStatusPending {
				return &requests[i], nil
			}
		}
	}
	return nil, nil
}
