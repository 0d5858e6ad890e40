package routes

import (
	"edubridge_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterAuthRoutes wires the public authentication endpoints.
func RegisterAuthRoutes(r *mux.Router, controller *controllers.AuthController) {
	r.HandleFunc("/api/auth/register", controller.HandleRegister).Methods("POST")
	r.HandleFunc("/api/auth/login", controller.HandleLogin).Methods("POST")
	r.HandleFunc("/api/auth/logout", controller.HandleLogout).Methods("POST")
}
