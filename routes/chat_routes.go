package routes

import (
	"edubridge_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterChatRoutes wires the chat endpoints. The router passed in must
// already carry the auth middleware.
func RegisterChatRoutes(r *mux.Router, controller *controllers.ChatController) {
	r.HandleFunc("/api/chat", controller.HandleList).Methods("GET")
	r.HandleFunc("/api/chat/get-or-create", controller.HandleGetOrCreate).Methods("POST")
	r.HandleFunc("/api/chat/start", controller.HandleStart).Methods("POST")
	r.HandleFunc("/api/chat/{chatId}/messages", controller.HandleGetMessages).Methods("GET")
	r.HandleFunc("/api/chat/{chatId}/message", controller.HandleSendMessage).Methods("POST")
}
