package routes

import (
	"edubridge_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterSearchRoutes wires the discovery endpoint. The router passed in
// must already carry the auth middleware.
func RegisterSearchRoutes(r *mux.Router, controller *controllers.SearchController) {
	r.HandleFunc("/api/search", controller.HandleSearch).Methods("GET")
}
