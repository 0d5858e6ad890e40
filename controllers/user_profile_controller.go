package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"edubridge_server/models"
	"edubridge_server/services"
	"edubridge_server/utils"

	"github.com/gorilla/mux"
)

// ProfileUserService is what the profile endpoints need from the user
// service.
type ProfileUserService interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, input services.UpdateProfileInput) (*models.User, error)
	SetProfilePicture(ctx context.Context, userID, key string) error
}

// PicturePresigner hands out presigned URLs for profile picture storage.
type PicturePresigner interface {
	GenerateUploadURL(ctx context.Context, userID, fileType string) (string, string, error)
	GenerateReadURL(ctx context.Context, key string) (string, error)
}

type UserProfileController struct {
	Users    ProfileUserService
	Pictures PicturePresigner
}

func NewUserProfileController(users ProfileUserService, pictures PicturePresigner) *UserProfileController {
	return &UserProfileController{Users: users, Pictures: pictures}
}

// HandleGetMe returns the caller's own account, including private fields.
func (c *UserProfileController) HandleGetMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	user, err := c.Users.GetUser(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// HandleGetUser returns another user's public profile.
func (c *UserProfileController) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireClaims(w, r); !ok {
		return
	}
	userID := mux.Vars(r)["userId"]

	user, err := c.Users.GetUser(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"user": user.Public()})
}

// HandleUpdateMe applies partial profile edits to the caller's account.
func (c *UserProfileController) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	var input services.UpdateProfileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := c.Users.UpdateProfile(r.Context(), claims.UserID, input)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Profile updated",
		"user":    user,
	})
}

// HandlePictureUploadURL returns a presigned PUT URL for the caller's new
// profile picture. The client uploads directly and then confirms the key.
func (c *UserProfileController) HandlePictureUploadURL(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	fileType := r.URL.Query().Get("fileType")
	if fileType == "" {
		fileType = "image/jpeg"
	}

	url, key, err := c.Pictures.GenerateUploadURL(r.Context(), claims.UserID, fileType)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{
		"uploadUrl": url,
		"key":       key,
	})
}

// HandleSetPicture records the uploaded object key on the caller's profile.
func (c *UserProfileController) HandleSetPicture(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	var input struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Key == "" {
		utils.WriteError(w, http.StatusBadRequest, "key is required")
		return
	}

	if err := c.Users.SetProfilePicture(r.Context(), claims.UserID, input.Key); err != nil {
		respondError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Profile picture updated"})
}

// HandlePictureReadURL returns a presigned GET URL for a user's picture.
func (c *UserProfileController) HandlePictureReadURL(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireClaims(w, r); !ok {
		return
	}
	userID := mux.Vars(r)["userId"]

	user, err := c.Users.GetUser(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	if user.ProfilePictureKey == "" {
		utils.WriteError(w, http.StatusNotFound, "User has no profile picture")
		return
	}

	url, err := c.Pictures.GenerateReadURL(r.Context(), user.ProfilePictureKey)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"url": url})
}
