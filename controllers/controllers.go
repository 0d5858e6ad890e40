package controllers

import (
	"errors"
	"log"
	"net/http"

	"edubridge_server/services"
	"edubridge_server/utils"
)

// statusForError maps domain errors onto the HTTP taxonomy: validation 400,
// bad credentials 401, missing rights 403, absent entities 404, state
// conflicts 409. Anything unrecognized is a dependency failure.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrSelfRequest),
		errors.Is(err, services.ErrSelfChat),
		errors.Is(err, services.ErrEmptyContent),
		errors.Is(err, services.ErrQueryRequired),
		errors.Is(err, services.ErrEmailTaken):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrRoleIneligible),
		errors.Is(err, services.ErrNotRequestReceiver),
		errors.Is(err, services.ErrNotParticipant),
		errors.Is(err, services.ErrNotConnected),
		errors.Is(err, services.ErrSearchForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrRequestNotFound),
		errors.Is(err, services.ErrChatNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrDuplicateRequest),
		errors.Is(err, services.ErrAlreadyConnected),
		errors.Is(err, services.ErrAlreadyProcessed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError surfaces domain errors with their message and hides internal
// detail behind a generic 500.
func respondError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
		utils.WriteError(w, status, "Internal server error")
		return
	}
	utils.WriteError(w, status, err.Error())
}

// requireClaims pulls the authenticated claims out of the context; the auth
// middleware guarantees they are present on protected routes.
func requireClaims(w http.ResponseWriter, r *http.Request) (*utils.AccessClaims, bool) {
	claims, ok := utils.ClaimsFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return nil, false
	}
	return claims, true
}
