package services

import "errors"

// Domain errors surfaced to controllers, which translate them into HTTP
// status codes. Store failures are wrapped with %w and reported generically.
var (
	ErrSelfRequest        = errors.New("cannot send a connection request to yourself")
	ErrSelfChat           = errors.New("cannot chat with yourself")
	ErrUserNotFound       = errors.New("user not found")
	ErrRoleIneligible     = errors.New("your role cannot send a request to this user")
	ErrDuplicateRequest   = errors.New("connection request already pending")
	ErrAlreadyConnected   = errors.New("users are already connected")
	ErrRequestNotFound    = errors.New("connection request not found")
	ErrNotRequestReceiver = errors.New("only the receiver can act on this request")
	ErrAlreadyProcessed   = errors.New("request already processed")
	ErrNotConnected       = errors.New("users are not connected")
	ErrChatNotFound       = errors.New("chat not found")
	ErrNotParticipant     = errors.New("not a participant of this chat")
	ErrEmptyContent       = errors.New("message content cannot be empty")
	ErrEmailTaken         = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSearchForbidden    = errors.New("your role cannot use search")
	ErrQueryRequired      = errors.New("a search query is required")
)
