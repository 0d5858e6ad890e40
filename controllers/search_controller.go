package controllers

import (
	"context"
	"net/http"

	"edubridge_server/models"
	"edubridge_server/utils"
)

// SearchAPI is what the search endpoint needs from the search service.
type SearchAPI interface {
	Search(ctx context.Context, requesterID, query string) ([]models.SearchResult, error)
}

type SearchController struct {
	Search SearchAPI
}

func NewSearchController(search SearchAPI) *SearchController {
	return &SearchController{Search: search}
}

// HandleSearch returns candidates of the caller's target category matching
// ?q=, each annotated with the caller's relationship state.
func (c *SearchController) HandleSearch(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	query := r.URL.Query().Get("q")

	results, err := c.Search.Search(r.Context(), claims.UserID, query)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}
