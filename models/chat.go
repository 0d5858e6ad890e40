package models

import (
	"sort"
	"strings"
)

// ChatMessage is a single message embedded in a chat. Messages are
// append-only; insertion order is the message order.
type ChatMessage struct {
	SenderID  string `dynamodbav:"senderId" json:"senderId"`
	Content   string `dynamodbav:"content" json:"content"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

// Chat is a two-party message thread. The partition key is the unordered
// participant pair, which makes one-chat-per-pair a table-level constraint:
// creation uses attribute_not_exists(pairKey), so a concurrent create loses
// cleanly instead of duplicating the thread.
type Chat struct {
	PairKey       string        `dynamodbav:"pairKey" json:"-"`
	ChatID        string        `dynamodbav:"chatId" json:"chatId"`
	Participants  []string      `dynamodbav:"participants" json:"participants"`
	Messages      []ChatMessage `dynamodbav:"messages" json:"messages"`
	LastMessageAt string        `dynamodbav:"lastMessageAt" json:"lastMessageAt"`
	CreatedAt     string        `dynamodbav:"createdAt" json:"createdAt"`
}

// ChatsTable is the DynamoDB table name for chats.
const ChatsTable = "Chats"

// ChatIDIndex is the GSI used to resolve a chat by its id.
const ChatIDIndex = "chatId-index"

// ChatPairKey builds the order-insensitive partition key for a pair of users.
func ChatPairKey(userA, userB string) string {
	ids := []string{userA, userB}
	sort.Strings(ids)
	return strings.Join(ids, "#")
}

// HasParticipant reports whether userID takes part in the chat.
func (c *Chat) HasParticipant(userID string) bool {
	for _, id := range c.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

// CounterpartOf returns the other participant's id. Callers must have
// verified membership with HasParticipant first.
func (c *Chat) CounterpartOf(userID string) string {
	for _, id := range c.Participants {
		if id != userID {
			return id
		}
	}
	return ""
}

// ChatWithProfile is a chat annotated with the counterpart's public profile
// for the chat list view.
type ChatWithProfile struct {
	Chat
	Counterpart PublicProfile `json:"counterpart"`
}
