package routes

import (
	"edubridge_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterUserRoutes wires the profile endpoints. The router passed in must
// already carry the auth middleware.
func RegisterUserRoutes(r *mux.Router, controller *controllers.UserProfileController) {
	r.HandleFunc("/api/profiles/me", controller.HandleGetMe).Methods("GET")
	r.HandleFunc("/api/profiles/me", controller.HandleUpdateMe).Methods("PUT")
	r.HandleFunc("/api/profiles/me/picture/upload-url", controller.HandlePictureUploadURL).Methods("GET")
	r.HandleFunc("/api/profiles/me/picture", controller.HandleSetPicture).Methods("PUT")
	r.HandleFunc("/api/users/{userId}", controller.HandleGetUser).Methods("GET")
	r.HandleFunc("/api/users/{userId}/picture", controller.HandlePictureReadURL).Methods("GET")
}
