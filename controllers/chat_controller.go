package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"edubridge_server/models"
	"edubridge_server/utils"

	"github.com/gorilla/mux"
)

// ChatAPI is what the chat endpoints need from the chat service.
type ChatAPI interface {
	GetOrCreate(ctx context.Context, userID, participantID string) (*models.Chat, bool, error)
	StartChat(ctx context.Context, userID, participantID string) (*models.Chat, bool, error)
	ListMine(ctx context.Context, userID string) ([]models.ChatWithProfile, error)
	GetMessages(ctx context.Context, chatID, userID string) ([]models.ChatMessage, error)
	SendMessage(ctx context.Context, chatID, senderID, content string) (*models.ChatMessage, error)
}

type ChatController struct {
	Chats ChatAPI
}

func NewChatController(chats ChatAPI) *ChatController {
	return &ChatController{Chats: chats}
}

// HandleList returns the caller's chats, most recently active first.
func (c *ChatController) HandleList(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	chats, err := c.Chats.ListMine(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"chats": chats})
}

// HandleGetOrCreate returns the chat with another user, creating it when the
// two are connected and none exists yet.
func (c *ChatController) HandleGetOrCreate(w http.ResponseWriter, r *http.Request) {
	c.upsertChat(w, r, c.Chats.GetOrCreate)
}

// HandleStart is get-or-create with a welcome message seeded into a new chat.
func (c *ChatController) HandleStart(w http.ResponseWriter, r *http.Request) {
	c.upsertChat(w, r, c.Chats.StartChat)
}

func (c *ChatController) upsertChat(w http.ResponseWriter, r *http.Request,
	fn func(ctx context.Context, userID, participantID string) (*models.Chat, bool, error)) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	var input struct {
		ParticipantID string `json:"participantId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.ParticipantID == "" {
		utils.WriteError(w, http.StatusBadRequest, "participantId is required")
		return
	}

	chat, created, err := fn(r.Context(), claims.UserID, input.ParticipantID)
	if err != nil {
		respondError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	utils.WriteJSON(w, status, map[string]interface{}{"chat": chat, "created": created})
}

// HandleGetMessages returns the messages of a chat the caller participates in.
func (c *ChatController) HandleGetMessages(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	chatID := mux.Vars(r)["chatId"]

	messages, err := c.Chats.GetMessages(r.Context(), chatID, claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

// HandleSendMessage appends a message to the chat and broadcasts it.
func (c *ChatController) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	chatID := mux.Vars(r)["chatId"]
	var input struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	message, err := c.Chats.SendMessage(r.Context(), chatID, claims.UserID, input.Content)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Message sent",
		"data":    message,
	})
}
