package models

// User represents a registered account stored in DynamoDB.
type User struct {
	UserID            string   `dynamodbav:"userId" json:"id"`
	Name              string   `dynamodbav:"name" json:"name"`
	Email             string   `dynamodbav:"email" json:"email"` // stored lowercased, unique via email-index
	Password          string   `dynamodbav:"password" json:"-"`  // bcrypt hash, never serialized
	Student           Category `dynamodbav:"student" json:"student"`
	College           string   `dynamodbav:"college,omitempty" json:"college,omitempty"`
	Degree            string   `dynamodbav:"degree,omitempty" json:"degree,omitempty"`
	FieldOfStudy      string   `dynamodbav:"fieldOfStudy,omitempty" json:"fieldOfStudy,omitempty"`
	School            string   `dynamodbav:"school,omitempty" json:"school,omitempty"`
	Grade             string   `dynamodbav:"grade,omitempty" json:"grade,omitempty"`
	Goals             []string `dynamodbav:"goals,omitempty" json:"goals,omitempty"`
	Interests         []string `dynamodbav:"interests,omitempty" json:"interests,omitempty"`
	Bio               string   `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	Location          string   `dynamodbav:"location,omitempty" json:"location,omitempty"`
	ProfilePictureKey string   `dynamodbav:"profilePictureKey,omitempty" json:"profilePictureKey,omitempty"`

	// Connections is a string set in DynamoDB so that accept() can grow it
	// with an idempotent ADD on both sides.
	Connections []string `dynamodbav:"connections,stringset,omitempty" json:"connections,omitempty"`

	IsActive   bool   `dynamodbav:"isActive" json:"isActive"`
	IsVerified bool   `dynamodbav:"isVerified" json:"isVerified"`
	CreatedAt  string `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt  string `dynamodbav:"updatedAt" json:"updatedAt"`
}

// UsersTable is the DynamoDB table name for accounts.
const UsersTable = "Users"

// EmailIndex is the GSI keyed by the lowercased email.
const EmailIndex = "email-index"

// IsConnectedTo reports whether userID is in the user's connections set.
func (u *User) IsConnectedTo(userID string) bool {
	for _, id := range u.Connections {
		if id == userID {
			return true
		}
	}
	return false
}

// PublicProfile is the subset of User returned to other users. Password and
// email never leave the server through this type.
type PublicProfile struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Student           Category `json:"student"`
	College           string   `json:"college,omitempty"`
	Degree            string   `json:"degree,omitempty"`
	FieldOfStudy      string   `json:"fieldOfStudy,omitempty"`
	School            string   `json:"school,omitempty"`
	Grade             string   `json:"grade,omitempty"`
	Goals             []string `json:"goals,omitempty"`
	Interests         []string `json:"interests,omitempty"`
	Bio               string   `json:"bio,omitempty"`
	Location          string   `json:"location,omitempty"`
	ProfilePictureKey string   `json:"profilePictureKey,omitempty"`
	CreatedAt         string   `json:"createdAt"`
}

// Public projects the user onto its shareable fields.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:                u.UserID,
		Name:              u.Name,
		Student:           u.Student,
		College:           u.College,
		Degree:            u.Degree,
		FieldOfStudy:      u.FieldOfStudy,
		School:            u.School,
		Grade:             u.Grade,
		Goals:             u.Goals,
		Interests:         u.Interests,
		Bio:               u.Bio,
		Location:          u.Location,
		ProfilePictureKey: u.ProfilePictureKey,
		CreatedAt:         u.CreatedAt,
	}
}

// SearchResult is a public profile annotated with the connection state
// between the requester and the candidate.
type SearchResult struct {
	PublicProfile
	RequestSent     bool `json:"requestSent"`
	RequestReceived bool `json:"requestReceived"`
	IsConnected     bool `json:"isConnected"`
}
