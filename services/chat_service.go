package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"edubridge_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// ChatService gates messaging on the connection state and persists and
// broadcasts messages.
type ChatService struct {
	Dynamo   Store
	Notifier Notifier
}

// GetOrCreate returns the chat between the two users, creating an empty one
// when they are mutually connected. The second return value reports whether
// the chat was created by this call.
func (s *ChatService) GetOrCreate(ctx context.Context, userID, participantID string) (*models.Chat, bool, error) {
	if userID == participantID {
		return nil, false, ErrSelfChat
	}
	if _, err := getUserByID(ctx, s.Dynamo, participantID); err != nil {
		return nil, false, err
	}

	chat, err := getChatByPairKey(ctx, s.Dynamo, models.ChatPairKey(userID, participantID))
	if err != nil && !errors.Is(err, ErrChatNotFound) {
		return nil, false, err
	}
	if chat != nil {
		return chat, false, nil
	}

	if err := s.requireMutualConnection(ctx, userID, participantID); err != nil {
		return nil, false, err
	}
	chat, err = createChatIfAbsent(ctx, s.Dynamo, userID, participantID, nil)
	if err != nil {
		return nil, false, err
	}
	return chat, true, nil
}

// StartChat is GetOrCreate with a welcome message seeded into a newly
// created chat.
func (s *ChatService) StartChat(ctx context.Context, userID, participantID string) (*models.Chat, bool, error) {
	if userID == participantID {
		return nil, false, ErrSelfChat
	}
	user, err := getUserByID(ctx, s.Dynamo, userID)
	if err != nil {
		return nil, false, err
	}
	if _, err := getUserByID(ctx, s.Dynamo, participantID); err != nil {
		return nil, false, err
	}
	if err := s.requireMutualConnection(ctx, userID, participantID); err != nil {
		return nil, false, err
	}

	chat, err := getChatByPairKey(ctx, s.Dynamo, models.ChatPairKey(userID, participantID))
	if err != nil && !errors.Is(err, ErrChatNotFound) {
		return nil, false, err
	}
	if chat != nil {
		return chat, false, nil
	}

	welcome := models.ChatMessage{
		SenderID:  userID,
		Content:   fmt.Sprintf("Hi, I'm %s. Great to connect with you on EduBridge!", user.Name),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	chat, err = createChatIfAbsent(ctx, s.Dynamo, userID, participantID, []models.ChatMessage{welcome})
	if err != nil {
		return nil, false, err
	}
	return chat, true, nil
}

// ListMine returns the user's chats, most recently active first, each with
// the counterpart's public profile joined in.
func (s *ChatService) ListMine(ctx context.Context, userID string) ([]models.ChatWithProfile, error) {
	var chats []models.Chat
	err := s.Dynamo.ScanWithFilter(ctx, models.ChatsTable, func(item map[string]types.AttributeValue) bool {
		participants, ok := item["participants"]
		if !ok {
			return false
		}
		list, ok := participants.(*types.AttributeValueMemberL)
		if !ok {
			return false
		}
		for _, participant := range list.Value {
			if id, ok := participant.(*types.AttributeValueMemberS); ok && id.Value == userID {
				return true
			}
		}
		return false
	}, &chats)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(chats, func(i, j int) bool {
		return chats[i].LastMessageAt > chats[j].LastMessageAt
	})

	result := make([]models.ChatWithProfile, 0, len(chats))
	for _, chat := range chats {
		counterpart, err := getUserByID(ctx, s.Dynamo, chat.CounterpartOf(userID))
		if err != nil {
			continue
		}
		result = append(result, models.ChatWithProfile{
			Chat:        chat,
			Counterpart: counterpart.Public(),
		})
	}
	return result, nil
}

// GetMessages returns the chat's messages to a participant.
func (s *ChatService) GetMessages(ctx context.Context, chatID, userID string) ([]models.ChatMessage, error) {
	chat, err := getChatByID(ctx, s.Dynamo, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(userID) {
		return nil, ErrNotParticipant
	}
	return chat.Messages, nil
}

// SendMessage appends a message and broadcasts it to the chat's room.
//
// Gating rule: once the chat holds at least one message, every further send
// requires the participants to currently be mutually connected. The seeded
// welcome message can therefore exist before the connection is finalized,
// but the exchange stays blocked until it is.
func (s *ChatService) SendMessage(ctx context.Context, chatID, senderID, content string) (*models.ChatMessage, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	chat, err := getChatByID(ctx, s.Dynamo, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(senderID) {
		return nil, ErrNotParticipant
	}
	if len(chat.Messages) > 0 {
		if err := s.requireMutualConnection(ctx, senderID, chat.CounterpartOf(senderID)); err != nil {
			return nil, err
		}
	}

	message := models.ChatMessage{
		SenderID:  senderID,
		Content:   content,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	marshaled, err := attributevalue.MarshalMap(message)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	key := map[string]types.AttributeValue{
		"pairKey": &types.AttributeValueMemberS{Value: chat.PairKey},
	}
	_, err = s.Dynamo.UpdateItem(ctx, models.ChatsTable,
		"SET messages = list_append(if_not_exists(messages, :empty), :message), lastMessageAt = :now",
		key,
		map[string]types.AttributeValue{
			":empty":   &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
			":message": &types.AttributeValueMemberL{Value: []types.AttributeValue{&types.AttributeValueMemberM{Value: marshaled}}},
			":now":     &types.AttributeValueMemberS{Value: message.CreatedAt},
		},
		nil)
	if err != nil {
		return nil, err
	}

	s.Notifier.Emit(chat.ChatID, EventReceiveMessage, map[string]interface{}{
		"chatId":  chat.ChatID,
		"message": message,
	})
	return &message, nil
}

// requireMutualConnection checks both connections sets live, not just chat
// membership.
func (s *ChatService) requireMutualConnection(ctx context.Context, userA, userB string) error {
	a, err := getUserByID(ctx, s.Dynamo, userA)
	if err != nil {
		return err
	}
	b, err := getUserByID(ctx, s.Dynamo, userB)
	if err != nil {
		return err
	}
	if !a.IsConnectedTo(userB) || !b.IsConnectedTo(userA) {
		return ErrNotConnected
	}
	return nil
}

// createChatIfAbsent creates the pair's chat with a conditional put on the
// pair key. When a concurrent create wins the race, the existing chat is
// fetched and returned instead, so callers always end up with the single
// chat for the pair.
func createChatIfAbsent(ctx context.Context, store Store, userA, userB string, seed []models.ChatMessage) (*models.Chat, error) {
	pairKey := models.ChatPairKey(userA, userB)

	existing, err := getChatByPairKey(ctx, store, pairKey)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrChatNotFound) {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	chat := models.Chat{
		PairKey:       pairKey,
		ChatID:        uuid.New().String(),
		Participants:  []string{userA, userB},
		Messages:      seed,
		LastMessageAt: now,
		CreatedAt:     now,
	}
	if chat.Messages == nil {
		chat.Messages = []models.ChatMessage{}
	}

	err = store.PutItemIfAbsent(ctx, models.ChatsTable, chat, "pairKey")
	if errors.Is(err, ErrConditionFailed) {
		log.Printf("chat for pair %s already created concurrently", pairKey)
		return getChatByPairKey(ctx, store, pairKey)
	}
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func getChatByPairKey(ctx context.Context, store Store, pairKey string) (*models.Chat, error) {
	key := map[string]types.AttributeValue{
		"pairKey": &types.AttributeValueMemberS{Value: pairKey},
	}
	item, err := store.GetItem(ctx, models.ChatsTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	var chat models.Chat
	if err := attributevalue.UnmarshalMap(item, &chat); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chat: %w", err)
	}
	return &chat, nil
}

func getChatByID(ctx context.Context, store Store, chatID string) (*models.Chat, error) {
	items, err := store.QueryItemsWithIndex(ctx, models.ChatsTable, models.ChatIDIndex,
		"chatId = :chatId",
		map[string]types.AttributeValue{":chatId": &types.AttributeValueMemberS{Value: chatID}},
		nil, 1)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrChatNotFound
	}
	var chat models.Chat
	if err := attributevalue.UnmarshalMap(items[0], &chat); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chat: %w", err)
	}
	return &chat, nil
}
