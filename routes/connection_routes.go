package routes

import (
	"edubridge_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterConnectionRoutes wires the connection request lifecycle. The router
// passed in must already carry the auth middleware.
func RegisterConnectionRoutes(r *mux.Router, controller *controllers.ConnectionController) {
	r.HandleFunc("/api/connections/request", controller.HandleSendRequest).Methods("POST")
	r.HandleFunc("/api/connections/accept/{requestId}", controller.HandleAccept).Methods("POST")
	r.HandleFunc("/api/connections/reject/{requestId}", controller.HandleReject).Methods("POST")
	r.HandleFunc("/api/connections/requests/received", controller.HandleListReceived).Methods("GET")
	r.HandleFunc("/api/connections/requests/sent", controller.HandleListSent).Methods("GET")
	r.HandleFunc("/api/connections", controller.HandleListConnections).Methods("GET")
}
