package models

// ConnectionRequest is an invitation from one user to connect with another.
// It is created pending and transitions exactly once to accepted or rejected;
// terminal requests are kept as an audit trail.
type ConnectionRequest struct {
	RequestID      string `dynamodbav:"requestId" json:"requestId"`
	SenderID       string `dynamodbav:"senderId" json:"senderId"`
	ReceiverID     string `dynamodbav:"receiverId" json:"receiverId"`
	Status         string `dynamodbav:"status" json:"status"`
	Message        string `dynamodbav:"message,omitempty" json:"message,omitempty"` // optional custom note from the sender
	DefaultMessage string `dynamodbav:"defaultMessage" json:"defaultMessage"`       // auto-generated fallback
	CreatedAt      string `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt      string `dynamodbav:"updatedAt" json:"updatedAt"`
}

// ConnectionRequestsTable is the DynamoDB table name for requests.
const ConnectionRequestsTable = "ConnectionRequests"

// GSIs for listing a user's sent and received requests.
const (
	SenderIndex   = "senderId-index"
	ReceiverIndex = "receiverId-index"
)

// Request statuses.
const (
	RequestStatusPending  = "pending"
	RequestStatusAccepted = "accepted"
	RequestStatusRejected = "rejected"
)

// SeedMessage returns the message a new chat is seeded with on acceptance:
// the sender's custom note when present, the generated default otherwise.
func (r *ConnectionRequest) SeedMessage() string {
	if r.Message != "" {
		return r.Message
	}
	return r.DefaultMessage
}

// ConnectionRequestWithProfile combines a request with the counterpart's
// public profile for the sent/received listings.
type ConnectionRequestWithProfile struct {
	ConnectionRequest
	Counterpart PublicProfile `json:"counterpart"`
}
