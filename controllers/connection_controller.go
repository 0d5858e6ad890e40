package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"edubridge_server/models"
	"edubridge_server/utils"

	"github.com/gorilla/mux"
)

// ConnectionAPI is what the connection endpoints need from the connection
// service.
type ConnectionAPI interface {
	SendRequest(ctx context.Context, senderID, receiverID, message string) (*models.ConnectionRequest, error)
	Accept(ctx context.Context, requestID, actingUserID string) (string, error)
	Reject(ctx context.Context, requestID, actingUserID string) error
	ListReceived(ctx context.Context, userID string) ([]models.ConnectionRequestWithProfile, error)
	ListSent(ctx context.Context, userID string) ([]models.ConnectionRequestWithProfile, error)
}

// ConnectionsLister resolves the caller's established connections.
type ConnectionsLister interface {
	ListConnections(ctx context.Context, userID string) ([]models.PublicProfile, error)
}

type ConnectionController struct {
	Connections ConnectionAPI
	Users       ConnectionsLister
}

func NewConnectionController(connections ConnectionAPI, users ConnectionsLister) *ConnectionController {
	return &ConnectionController{Connections: connections, Users: users}
}

// HandleSendRequest creates a pending connection request to another user.
func (c *ConnectionController) HandleSendRequest(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	var input struct {
		ReceiverID string `json:"receiverId"`
		Message    string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.ReceiverID == "" {
		utils.WriteError(w, http.StatusBadRequest, "receiverId is required")
		return
	}

	request, err := c.Connections.SendRequest(r.Context(), claims.UserID, input.ReceiverID, input.Message)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Connection request sent",
		"request": request,
	})
}

// HandleAccept accepts a pending request addressed to the caller and returns
// the chat created for the new connection.
func (c *ConnectionController) HandleAccept(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	requestID := mux.Vars(r)["requestId"]

	chatID, err := c.Connections.Accept(r.Context(), requestID, claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Connection request accepted",
		"chatId":  chatID,
	})
}

// HandleReject rejects a pending request addressed to the caller.
func (c *ConnectionController) HandleReject(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	requestID := mux.Vars(r)["requestId"]

	if err := c.Connections.Reject(r.Context(), requestID, claims.UserID); err != nil {
		respondError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Connection request rejected"})
}

// HandleListReceived returns the caller's pending incoming requests.
func (c *ConnectionController) HandleListReceived(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	requests, err := c.Connections.ListReceived(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"requests": requests})
}

// HandleListSent returns everything the caller has sent, any status.
func (c *ConnectionController) HandleListSent(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	requests, err := c.Connections.ListSent(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"requests": requests})
}

// HandleListConnections returns the caller's established connections as
// public profiles.
func (c *ConnectionController) HandleListConnections(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	connections, err := c.Users.ListConnections(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"connections": connections})
}
