package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"edubridge_server/models"
	"edubridge_server/services"
	"edubridge_server/utils"

	"github.com/go-playground/validator/v10"
)

// AuthUserService is what the auth endpoints need from the user service.
type AuthUserService interface {
	Register(ctx context.Context, input services.RegisterInput) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

type AuthController struct {
	Users     AuthUserService
	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration
	validate  *validator.Validate
}

func NewAuthController(users AuthUserService, secret, issuer string, ttl time.Duration) *AuthController {
	return &AuthController{
		Users:     users,
		JWTSecret: secret,
		JWTIssuer: issuer,
		TokenTTL:  ttl,
		validate:  validator.New(),
	}
}

// HandleRegister creates an account and returns a bearer token with it.
func (c *AuthController) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := c.validate.Struct(input); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid registration data: "+err.Error())
		return
	}

	user, err := c.Users.Register(r.Context(), input)
	if err != nil {
		respondError(w, err)
		return
	}

	token, err := c.signToken(user)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"token":   token,
		"user":    authUserPayload(user),
	})
}

// HandleLogin verifies credentials and returns a fresh token.
func (c *AuthController) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := c.Users.Authenticate(r.Context(), input.Email, input.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	token, err := c.signToken(user)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"token":   token,
		"user":    authUserPayload(user),
	})
}

// HandleLogout exists for symmetry; tokens are stateless and simply expire.
func (c *AuthController) HandleLogout(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

func (c *AuthController) signToken(user *models.User) (string, error) {
	return utils.NewAccessToken(c.JWTSecret, c.JWTIssuer, c.TokenTTL, utils.AccessClaims{
		UserID:  user.UserID,
		Student: string(user.Student),
		Name:    user.Name,
		Email:   user.Email,
	})
}

// authUserPayload is the account view returned to its owner; unlike the
// public profile it includes the email.
func authUserPayload(user *models.User) map[string]interface{} {
	return map[string]interface{}{
		"id":           user.UserID,
		"name":         user.Name,
		"email":        user.Email,
		"student":      user.Student,
		"college":      user.College,
		"school":       user.School,
		"degree":       user.Degree,
		"fieldOfStudy": user.FieldOfStudy,
		"grade":        user.Grade,
	}
}
